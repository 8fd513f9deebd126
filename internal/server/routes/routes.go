package routes

import (
	"net/http"

	"atii-cms/internal/server/handlers"
	"atii-cms/internal/server/middleware"
	"atii-cms/internal/server/services"
	"atii-cms/internal/shared/auth"
	"atii-cms/internal/shared/config"
	"atii-cms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes 创建服务与处理器并注册全部路由
func SetupRoutes(cfg *config.ServerConfig, db *gorm.DB) *gin.Engine {
	r := gin.New()

	// 全局中间件
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORS.AllowOrigins)))
	r.Use(middleware.SecurityHeaders())

	// 创建服务
	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessExpiry)
	userService := auth.NewUserService(db)

	// 创建处理器
	authHandler := handlers.NewAuthHandler(userService, jwtService)
	dashboardHandler := handlers.NewDashboardHandler(services.NewDashboardService(db))
	websiteHandler := handlers.NewWebsiteHandler(services.NewWebsiteService(db))
	templateHandler := handlers.NewTemplateHandler(services.NewTemplateService(db))
	pageHandler := handlers.NewPageHandler(services.NewPageService(db))
	settingsHandler := handlers.NewSettingsHandler(services.NewSettingsService(db))
	schemaHandler := handlers.NewWorkflowSchemaHandler(services.NewWorkflowSchemaService(db))

	// 健康检查 (无需认证)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": cfg.App.Name + " is running",
		})
	})

	// API版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    cfg.App.Name,
			"version": cfg.App.Version,
		})
	})

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "接口不存在")
	})

	api := r.Group(cfg.App.APIPrefix)
	authenticated := middleware.JWTAuthMiddleware(jwtService, userService)
	admin := []gin.HandlerFunc{authenticated, middleware.AdminMiddleware()}

	setupAuthRoutes(api, authHandler, authenticated, admin)
	setupDashboardRoutes(api, dashboardHandler, admin)
	setupWebsiteRoutes(api, websiteHandler, admin)
	setupTemplateRoutes(api, templateHandler, admin)
	setupPageRoutes(api, pageHandler, admin)
	setupSettingsRoutes(api, settingsHandler, admin)
	setupWorkflowSchemaRoutes(api, schemaHandler, admin)

	return r
}

// withHandler 在管理员中间件链后追加处理函数
func withHandler(chain []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	hs := make([]gin.HandlerFunc, 0, len(chain)+1)
	hs = append(hs, chain...)
	return append(hs, h)
}

// setupAuthRoutes 设置认证相关路由
func setupAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler, authenticated gin.HandlerFunc, admin []gin.HandlerFunc) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", withHandler(admin, h.Register)...)
	api.GET("/auth/me", authenticated, h.GetCurrentUser)
}

// setupDashboardRoutes 仪表盘仅管理员可见
func setupDashboardRoutes(api *gin.RouterGroup, h *handlers.DashboardHandler, admin []gin.HandlerFunc) {
	dashboard := api.Group("/dashboard", admin...)
	{
		dashboard.GET("/stats", h.GetDashboardStats)
		dashboard.GET("/health", h.GetSystemHealth)
	}
}

// setupWebsiteRoutes 设置网站路由
func setupWebsiteRoutes(api *gin.RouterGroup, h *handlers.WebsiteHandler, admin []gin.HandlerFunc) {
	websites := api.Group("/websites")
	{
		websites.GET("", h.GetWebsites)
		websites.GET("/:id", h.GetWebsite)
		websites.POST("", withHandler(admin, h.CreateWebsite)...)
		websites.PUT("/:id", withHandler(admin, h.UpdateWebsite)...)
		websites.DELETE("/:id", withHandler(admin, h.DeleteWebsite)...)
	}
}

// setupTemplateRoutes 设置模板路由
func setupTemplateRoutes(api *gin.RouterGroup, h *handlers.TemplateHandler, admin []gin.HandlerFunc) {
	templates := api.Group("/templates")
	{
		templates.GET("", h.GetTemplates)
		templates.GET("/:id", h.GetTemplate)
		templates.POST("", withHandler(admin, h.CreateTemplate)...)
		templates.PUT("/:id", withHandler(admin, h.UpdateTemplate)...)
		templates.DELETE("/:id", withHandler(admin, h.DeleteTemplate)...)
	}
}

// setupPageRoutes 设置页面路由，:id 可以是 page_id 或记录id
func setupPageRoutes(api *gin.RouterGroup, h *handlers.PageHandler, admin []gin.HandlerFunc) {
	pages := api.Group("/pages")
	{
		pages.GET("", h.GetPages)
		pages.GET("/:id", h.GetPage)
		pages.POST("", withHandler(admin, h.CreatePage)...)
		pages.PUT("/:id", withHandler(admin, h.UpdatePage)...)
		pages.DELETE("/:id", withHandler(admin, h.DeletePage)...)
	}
}

// setupSettingsRoutes 设置站点设置路由
func setupSettingsRoutes(api *gin.RouterGroup, h *handlers.SettingsHandler, admin []gin.HandlerFunc) {
	api.GET("/settings", h.GetSettings)
	api.PUT("/settings", withHandler(admin, h.UpdateSettings)...)
}

// setupWorkflowSchemaRoutes schema按模板ID寻址
func setupWorkflowSchemaRoutes(api *gin.RouterGroup, h *handlers.WorkflowSchemaHandler, admin []gin.HandlerFunc) {
	schemas := api.Group("/workflow-schemas")
	{
		schemas.GET("", h.GetWorkflowSchemas)
		schemas.POST("", withHandler(admin, h.CreateWorkflowSchema)...)

		byTemplate := schemas.Group("/template/:template_id")
		{
			byTemplate.GET("", h.GetByTemplate)
			byTemplate.PUT("", withHandler(admin, h.UpdateByTemplate)...)
			byTemplate.DELETE("", withHandler(admin, h.DeleteByTemplate)...)
		}
	}
}
