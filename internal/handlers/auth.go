package handlers

import (
	"errors"
	"net/http"
	"strings"

	"blogicum/internal/middleware"
	"blogicum/internal/models"
	"blogicum/internal/repository"
	"blogicum/internal/utils"
	"blogicum/internal/validation"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	*Env
}

func NewAuthHandler(env *Env) *AuthHandler {
	return &AuthHandler{Env: env}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "registration/registration_form.html", gin.H{"Form": RegistrationForm{}})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var form RegistrationForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderRegister(c, form, validation.Errors(err))
		return
	}

	taken, err := h.Users.UsernameTaken(c.Request.Context(), form.Username, 0)
	if err != nil {
		h.fail(c, err)
		return
	}
	if taken {
		h.renderRegister(c, form, map[string]string{"username": usernameTaken})
		return
	}

	hash, err := utils.HashPassword(form.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	user := models.User{
		Username: form.Username,
		Email:    form.Email,
		Password: hash,
	}
	if err := h.Users.Create(c.Request.Context(), &user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			h.renderRegister(c, form, map[string]string{"username": usernameTaken})
			return
		}
		h.fail(c, err)
		return
	}
	h.Log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))

	c.Redirect(http.StatusFound, middleware.LoginPath)
}

const usernameTaken = "Пользователь с таким именем уже существует."

func (h *AuthHandler) renderRegister(c *gin.Context, form RegistrationForm, errs map[string]string) {
	form.Password, form.Password2 = "", ""
	Render(c, http.StatusBadRequest, "registration/registration_form.html", gin.H{
		"Form":   form,
		"Errors": errs,
	})
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "registration/login.html", gin.H{
		"Form": LoginForm{},
		"Next": safeNext(c.Query("next")),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	next := safeNext(c.PostForm("next"))
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderLogin(c, form, next, validation.Errors(err))
		return
	}

	user, err := h.Users.GetByUsername(c.Request.Context(), form.Username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		h.fail(c, err)
		return
	}
	if user == nil || !utils.CheckPasswordHash(form.Password, user.Password) {
		h.renderLogin(c, form, next, map[string]string{
			validation.NonField: "Пожалуйста, введите правильные имя пользователя и пароль.",
		})
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(middleware.SessionUserID, user.ID)
	if err := session.Save(); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, next)
}

func (h *AuthHandler) renderLogin(c *gin.Context, form LoginForm, next string, errs map[string]string) {
	form.Password = ""
	Render(c, http.StatusBadRequest, "registration/login.html", gin.H{
		"Form":   form,
		"Next":   next,
		"Errors": errs,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.Redirect(http.StatusFound, "/")
}

// safeNext only allows local redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
