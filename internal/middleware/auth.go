package middleware

import (
	"net/http"
	"net/url"

	"blogicum/internal/models"
	"blogicum/internal/repository"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	CheckUserKey  = "user"
	SessionUserID = "user_id"
	LoginPath     = "/auth/login/"
)

// CurrentUser returns the logged-in user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CheckUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// LoginURL builds the login redirect that returns to next afterwards.
func LoginURL(next string) string {
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// AuthRequired sends anonymous users to the login page.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoadUser retrieves user from session and sets to context
func LoadUser(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(SessionUserID).(uint)
		if ok && userID != 0 {
			user, err := users.Get(c.Request.Context(), userID)
			if err == nil {
				c.Set(CheckUserKey, user)
			} else {
				// 账号已删除，清理会话
				session.Delete(SessionUserID)
				_ = session.Save()
			}
		}
		c.Next()
	}
}
