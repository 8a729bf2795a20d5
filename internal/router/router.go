package router

import (
	"encoding/gob"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/user/streamhub/internal/handler"
	"github.com/user/streamhub/internal/middleware"
	"github.com/user/streamhub/internal/model"
	"github.com/user/streamhub/internal/utils"
)

// New 创建 Gin 引擎并挂载全局中间件和路由，sink 为 nil 时日志不落库
func New(h *handler.Handler, sink middleware.LogSink) *gin.Engine {
	if h.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.RegisterValidators()

	// 注册 Session 模型
	gob.Register(model.SessionUser{})

	r := gin.New()
	r.Use(middleware.Recovery(sink))
	r.Use(middleware.Metrics())
	r.Use(middleware.Logger(sink))
	r.Use(middleware.ErrorLogger(sink))
	r.Use(middleware.Security())
	r.Use(middleware.CORS())

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 设置 Session 中间件
	store := cookie.NewStore([]byte(h.Config.AppSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 天
		HttpOnly: true,
		Secure:   h.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("streamhub_session", store))

	r.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "接口不存在")
	})

	RegisterRoutes(r, h)
	return r
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", middleware.MetricsHandler())

	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(h.Config.AppSecret))

	// ==================== 内容目录 ====================
	content := api.Group("/content")
	{
		content.GET("", h.ListContent)
		content.GET("/:id", h.GetContent)
		content.PUT("/:id/views", h.ContentView)
		content.PUT("/:id/likes", h.ContentLike)
		content.GET("/popular/all", h.PopularContent)
		content.GET("/newest/genre/:genreId", h.NewestByGenre)
		content.POST("/recommendations", h.Recommendations)
	}

	genres := api.Group("/genres")
	{
		genres.GET("", h.ListGenres)
		genres.POST("", h.CreateGenre)
		genres.GET("/:id", h.GetGenre)
		genres.PUT("/:id", h.UpdateGenre)
		genres.DELETE("/:id", h.DeleteGenre)
		genres.GET("/:id/content", h.GenreContent)
	}

	episodes := api.Group("/episodes")
	{
		episodes.GET("", h.ListEpisodes)
		episodes.POST("", h.CreateEpisode)
		episodes.GET("/:id", h.GetEpisode)
		episodes.PUT("/:id", h.UpdateEpisode)
		episodes.DELETE("/:id", h.DeleteEpisode)
		episodes.PUT("/:id/views", h.EpisodeView)
		episodes.GET("/content/:contentId", h.EpisodesByContent)
	}

	// ==================== 用户数据 ====================
	profiles := api.Group("/profiles/:userId")
	{
		profiles.GET("", h.ListProfiles)
		profiles.POST("", h.CreateProfile)
		profiles.GET("/:profileId", h.GetProfile)
		profiles.PUT("/:profileId", h.UpdateProfile)
		profiles.DELETE("/:profileId", h.DeleteProfile)
	}

	habits := api.Group("/habits/:userId")
	{
		habits.GET("", h.ListHabits)
		habits.PUT("/progress", h.UpdateProgress)
		habits.PUT("/like", h.UpdateLike)
		habits.PUT("/rating", h.UpdateRating)
		habits.GET("/content/:contentId", h.ContentHabits)
	}

	stats := api.Group("/stats")
	{
		stats.GET("/genre", h.GenreStats)
		stats.GET("/profile-views/:userId", h.ProfileViewStats)
	}

	// ==================== 认证 ====================
	auth := api.Group("/auth")
	{
		limited := middleware.RateLimit(h.Config.AuthRateLimit)
		auth.POST("/register", limited, h.Register)
		auth.POST("/login", limited, h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", middleware.RequireAuth(h.Config.AppSecret), h.Me)
	}

	// ==================== 管理后台 ====================
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAuth(h.Config.AppSecret))
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/content", h.ListContent)
		admin.POST("/content", h.CreateContent)
		admin.PUT("/content/:id", h.UpdateContent)
		admin.DELETE("/content/:id", h.DeleteContent)
		admin.PUT("/content/:id/views", h.ContentView)
		admin.PUT("/content/:id/likes", h.ContentLike)

		admin.GET("/users", h.AdminUsers)
		admin.PUT("/users/:id/status", h.AdminUserStatus)
		admin.GET("/logs", h.AdminLogs)
	}
}
