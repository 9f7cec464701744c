package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"blogicum/internal/middleware"
	"blogicum/internal/models"
	"blogicum/internal/repository"
	"blogicum/internal/services"
	"blogicum/internal/visibility"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Env carries the dependencies every handler shares.
type Env struct {
	Posts      repository.PostRepository
	Comments   repository.CommentRepository
	Categories repository.CategoryRepository
	Locations  repository.LocationRepository
	Users      repository.UserRepository
	Images     *services.ImageStore
	Log        *zap.Logger
	Now        func() time.Time
	PageSize   int
	SiteName   string
	SiteURL    string
}

// rule is the visibility rule for the current viewer at the current time.
func (e *Env) rule(c *gin.Context) visibility.Rule {
	var viewerID uint
	if user := middleware.CurrentUser(c); user != nil {
		viewerID = user.ID
	}
	return visibility.For(viewerID, e.Now())
}

// fail renders 404 for missing entities and logs anything else as a 500.
func (e *Env) fail(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		NotFound(c)
		return
	}
	e.Log.Error("request failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	_ = c.Error(err)
	RenderError(c, http.StatusInternalServerError, "Ошибка сервера. Попробуйте позже.")
}

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
	}
	if _, ok := obj["Errors"]; !ok {
		obj["Errors"] = map[string]string{}
	}
	obj["CurrentPath"] = c.Request.URL.RequestURI()

	c.HTML(code, name, obj)
}

// RenderError renders the shared error page.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "pages/error.html", gin.H{"Code": code, "Error": message})
}

// NotFound is used for absent and hidden entities alike.
func NotFound(c *gin.Context) {
	RenderError(c, http.StatusNotFound, "Страница не найдена.")
}

// paramID parses a positive numeric path parameter.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func currentUser(c *gin.Context) *models.User {
	return middleware.CurrentUser(c)
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func postURL(id uint) string {
	return "/posts/" + strconv.FormatUint(uint64(id), 10) + "/"
}
