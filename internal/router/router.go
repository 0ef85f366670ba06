package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/auth"
	"github.com/pressroom/internal/config"
	"github.com/pressroom/internal/handler"
	"github.com/pressroom/internal/logger"
	"github.com/pressroom/internal/repository"
	"github.com/pressroom/internal/view"
	"gorm.io/gorm"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(cfg config.AppConfig, gdb *gorm.DB) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(logger.Z()))

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(cfg.SessionName, store))
	r.Use(auth.Middleware(repository.NewUserRepository(gdb)))

	// 加载模板并添加自定义函数
	templates, err := view.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(templates)

	api := handler.NewAPI(gdb, handler.Options{PageSize: cfg.PageSize})
	limiter := NewLoginLimiter(cfg.Login.RatePerSecond, cfg.Login.Burst)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// 前台路由
	r.GET("/", api.ShowHome)
	r.GET("/post/:slug/", api.ShowPostDetail)
	r.POST("/post/:slug/comment/", api.CreateComment)
	r.GET("/category/:slug/", api.ShowCategoryPosts)

	// 账号
	r.GET("/register/", api.ShowRegister)
	r.POST("/register/", api.Register)
	r.GET("/login/", api.ShowLoginPage)
	r.POST("/login/", limiter.Middleware(api.LoginThrottled), api.Login)
	r.POST("/logout/", api.Logout)

	// 需要登录的路由
	authed := r.Group("")
	authed.Use(auth.LoginRequired())
	{
		authed.GET("/post/create/", api.ShowPostCreate)
		authed.POST("/post/create/", api.CreatePost)
		authed.GET("/post/:slug/edit/", api.ShowPostEdit)
		authed.POST("/post/:slug/edit/", api.UpdatePost)
		authed.GET("/post/:slug/delete/", api.ShowPostDelete)
		authed.POST("/post/:slug/delete/", api.DeletePost)
		authed.GET("/my-posts/", api.ShowMyPosts)

		authed.GET("/category/create/", api.ShowCategoryCreate)
		authed.POST("/category/create/", api.CreateCategory)
		authed.POST("/category/:slug/delete/", api.DeleteCategory)

		admin := authed.Group("/admin")
		{
			admin.GET("/comments/", api.ShowComments)
			admin.POST("/comments/approve/", api.ApproveComments)
			admin.POST("/comments/disapprove/", api.DisapproveComments)
		}
	}

	r.NoRoute(api.NotFound)

	return r, nil
}
