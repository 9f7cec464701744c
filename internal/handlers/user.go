package handlers

import (
	"errors"
	"net/http"

	"blogicum/internal/pagination"
	"blogicum/internal/repository"
	"blogicum/internal/validation"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*Env
}

func NewUserHandler(env *Env) *UserHandler {
	return &UserHandler{Env: env}
}

// Profile 用户主页，作者本人还能看到未发布和定时发布的文章
func (h *UserHandler) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	profile, err := h.Users.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		h.fail(c, err)
		return
	}

	res, err := h.Posts.List(ctx, repository.Listing{
		AuthorID: profile.ID,
		Rule:     h.rule(c),
		PageSize: h.PageSize,
	}, pagination.ParseNumber(c.Query("page")))
	if err != nil {
		h.fail(c, err)
		return
	}

	viewer := currentUser(c)
	Render(c, http.StatusOK, "blog/profile.html", gin.H{
		"Profile": profile,
		"IsOwner": viewer != nil && viewer.ID == profile.ID,
		"Posts":   res.Posts,
		"Page":    res.Page,
	})
}

func (h *UserHandler) ShowEditProfile(c *gin.Context) {
	Render(c, http.StatusOK, "blog/user.html", gin.H{"Form": profileFormFrom(currentUser(c))})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user := currentUser(c)
	var form ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderEdit(c, form, validation.Errors(err))
		return
	}

	taken, err := h.Users.UsernameTaken(c.Request.Context(), form.Username, user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if taken {
		h.renderEdit(c, form, map[string]string{"username": usernameTaken})
		return
	}

	updated := *user
	updated.Username = form.Username
	updated.Email = form.Email
	updated.FirstName = form.FirstName
	updated.LastName = form.LastName
	if err := h.Users.UpdateProfile(c.Request.Context(), &updated); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			h.renderEdit(c, form, map[string]string{"username": usernameTaken})
			return
		}
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(updated.Username))
}

func (h *UserHandler) renderEdit(c *gin.Context, form ProfileForm, errs map[string]string) {
	Render(c, http.StatusBadRequest, "blog/user.html", gin.H{
		"Form":   form,
		"Errors": errs,
	})
}
