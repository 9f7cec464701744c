package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"blogicum/internal/models"
	"blogicum/internal/repository"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// stubUsers serves Get from a map; the other methods are unused here.
type stubUsers struct {
	repository.UserRepository
	byID map[uint]*models.User
}

func (s stubUsers) Get(_ context.Context, id uint) (*models.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func newEngine(users repository.UserRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	r.GET("/login-as/:id", func(c *gin.Context) {
		s := sessions.Default(c)
		if c.Param("id") == "1" {
			s.Set(SessionUserID, uint(1))
		} else {
			s.Set(SessionUserID, uint(99))
		}
		_ = s.Save()
		c.Status(http.StatusNoContent)
	})
	r.Use(LoadUser(users))
	r.GET("/whoami", func(c *gin.Context) {
		if u := CurrentUser(c); u != nil {
			c.String(http.StatusOK, u.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/private/", AuthRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, "secret")
	})
	return r
}

func sessionCookie(t *testing.T, r *gin.Engine, id string) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login-as/"+id, nil))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func TestLoadUser(t *testing.T) {
	r := newEngine(stubUsers{byID: map[uint]*models.User{1: {ID: 1, Username: "alice"}}})

	tests := []struct {
		name   string
		cookie *http.Cookie
		want   string
	}{
		{name: "No session", want: "anonymous"},
		{name: "Known user", cookie: sessionCookie(t, r, "1"), want: "alice"},
		{name: "Deleted user", cookie: sessionCookie(t, r, "99"), want: "anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestAuthRequired(t *testing.T) {
	r := newEngine(stubUsers{byID: map[uint]*models.User{1: {ID: 1, Username: "alice"}}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private/?x=1", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=%2Fprivate%2F%3Fx%3D1", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/private/", nil)
	req.AddCookie(sessionCookie(t, r, "1"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "secret", w.Body.String())
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/ok", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "request processed", entries[0].Message)
	assert.Equal(t, "/ok", entries[0].ContextMap()["path"])
	assert.Equal(t, "request rejected", entries[1].Message)
	assert.EqualValues(t, http.StatusNotFound, entries[1].ContextMap()["status"])
}
