package router

import (
	"fmt"
	"net/http"

	"blogicum/internal/handlers"
	"blogicum/internal/middleware"
	"blogicum/internal/observability"
	"blogicum/internal/validation"
	"blogicum/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const sessionName = "blogicum_session"

// Options configures the HTTP engine.
type Options struct {
	Env           *handlers.Env
	SessionSecret string
	SiteName      string
	MediaDir      string
	SecureCookies bool
}

// New builds the engine with middleware, templates and all routes.
func New(opts Options) (*gin.Engine, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := validation.Register(v); err != nil {
			return nil, fmt.Errorf("register validators: %w", err)
		}
	}

	r := gin.New()
	r.Use(middleware.Recovery(opts.Env.Log), middleware.RequestLogger(opts.Env.Log), observability.Middleware())
	r.GET("/metrics", observability.Handler())

	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 3600,
		HttpOnly: true,
		Secure:   opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	tmpl, err := web.Templates(opts.SiteName)
	if err != nil {
		return nil, err
	}
	r.HTMLRender = tmpl

	// Static Assets
	r.StaticFS("/static", http.FS(web.Static()))
	if opts.MediaDir != "" {
		r.Static("/media", opts.MediaDir)
	}

	r.Use(middleware.LoadUser(opts.Env.Users))
	RegisterRoutes(r, opts.Env)

	r.NoRoute(handlers.NotFound)
	return r, nil
}

func RegisterRoutes(r *gin.Engine, env *handlers.Env) {
	// Handlers
	authHandler := handlers.NewAuthHandler(env)
	postHandler := handlers.NewPostHandler(env)
	commentHandler := handlers.NewCommentHandler(env)
	userHandler := handlers.NewUserHandler(env)
	seoHandler := handlers.NewSEOHandler(env)

	// 公共路由 (Public Routes)
	r.GET("/", postHandler.Index)                     // 首页
	r.GET("/posts/:id/", postHandler.Detail)          // 文章详情页
	r.GET("/category/:slug/", postHandler.Category)   // 分类下的文章列表
	r.GET("/profile/:username/", userHandler.Profile) // 用户主页

	// SEO
	r.GET("/robots.txt", seoHandler.RobotsTxt)
	r.GET("/sitemap.xml", seoHandler.SitemapXML)
	r.GET("/feed.xml", seoHandler.RSSFeed)

	auth := r.Group("/auth")
	{
		auth.GET("/registration/", authHandler.ShowRegister) // 注册页面
		auth.POST("/registration/", authHandler.Register)    // 提交注册
		auth.GET("/login/", authHandler.ShowLogin)           // 登录页面
		auth.POST("/login/", authHandler.Login)              // 提交登录
		auth.POST("/logout/", authHandler.Logout)            // 退出登录
	}

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/posts/create/", postHandler.ShowCreate) // 发布文章页面
		authorized.POST("/posts/create/", postHandler.Create)    // 提交发布文章
		authorized.GET("/create/", postHandler.ShowCreate)
		authorized.POST("/create/", postHandler.Create)

		authorized.GET("/posts/:id/edit/", postHandler.ShowEdit)     // 编辑文章页面
		authorized.POST("/posts/:id/edit/", postHandler.Update)      // 提交文章更新
		authorized.GET("/posts/:id/delete/", postHandler.ShowDelete) // 删除确认
		authorized.POST("/posts/:id/delete/", postHandler.Delete)    // 删除文章

		authorized.POST("/posts/:id/comment/", commentHandler.Create) // 发表评论
		authorized.GET("/posts/:id/edit_comment/:comment_id/", commentHandler.ShowEdit)
		authorized.POST("/posts/:id/edit_comment/:comment_id/", commentHandler.Update)
		authorized.GET("/posts/:id/delete_comment/:comment_id/", commentHandler.ShowDelete)
		authorized.POST("/posts/:id/delete_comment/:comment_id/", commentHandler.Delete)

		authorized.GET("/edit_profile/", userHandler.ShowEditProfile) // 用户设置页面
		authorized.POST("/edit_profile/", userHandler.UpdateProfile)  // 提交用户设置更新
	}
}
