package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ampa-activity/config"
	"ampa-activity/internal/api/handler"
	"ampa-activity/internal/api/middleware"
	"ampa-activity/internal/model"
	"ampa-activity/pkg/jwt"
	"ampa-activity/pkg/metrics"
	"ampa-activity/pkg/redis"
	"ampa-activity/pkg/validate"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	if err := validate.Register(); err != nil {
		logger.Warn("注册自定义校验规则失败", zap.Error(err))
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	r.Use(metrics.Middleware())

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		if db != nil {
			if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
				status = "degraded"
			}
		}
		c.JSON(200, gin.H{"status": status, "redis": rdb != nil})
	})
	if cfg.Server.MetricsPath != "" {
		r.GET(cfg.Server.MetricsPath, metrics.Handler())
	}

	loginWindow := cfg.Server.LoginWindow
	if loginWindow <= 0 {
		loginWindow = time.Minute
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, cfg.Server.LoginLimit, loginWindow), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 语言模块
			languages := authorized.Group("/languages")
			{
				languages.GET("", h.Language.ListLanguages)
				languages.GET("/:id", h.Language.GetLanguage)
				languages.POST("", middleware.RoleAuth(model.RoleAdmin), h.Language.CreateLanguage)
				languages.PUT("/:id", middleware.RoleAuth(model.RoleAdmin), h.Language.UpdateLanguage)
				languages.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.Language.DeleteLanguage)
			}

			// 活动类型模块
			types := authorized.Group("/activity-types")
			{
				types.GET("", h.ActivityType.ListActivityTypes)
				types.GET("/:id", h.ActivityType.GetActivityType)
				types.POST("", h.ActivityType.CreateActivityType)
				types.PUT("/:id", h.ActivityType.UpdateActivityType)
				types.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.ActivityType.DeleteActivityType)
			}

			// 会员模块
			members := authorized.Group("/members")
			{
				members.GET("", h.Member.ListMembers)
				members.GET("/:id", h.Member.GetMember)
				members.POST("", h.Member.CreateMember)
				members.PUT("/:id", h.Member.UpdateMember)
				members.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.Member.DeleteMember)
			}

			// 产品模块
			products := authorized.Group("/products")
			{
				products.GET("", h.Product.ListProducts)
				products.GET("/:id", h.Product.GetProduct)
				products.POST("", h.Product.CreateProduct)
				products.PUT("/:id", h.Product.UpdateProduct)
				products.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.Product.DeleteProduct)
			}

			// 预登记名单模块
			rosters := authorized.Group("/rosters")
			{
				rosters.GET("", h.Roster.ListRoster)
				rosters.POST("", h.Roster.CreateRoster)
				rosters.PUT("/:id", h.Roster.UpdateRoster)
				rosters.DELETE("/:id", h.Roster.DeleteRoster)
			}

			// 校历模块
			calendars := authorized.Group("/school-calendars")
			{
				calendars.GET("", h.SchoolCalendar.ListSchoolCalendars)
				calendars.GET("/:id", h.SchoolCalendar.GetSchoolCalendar)
				calendars.POST("", h.SchoolCalendar.CreateSchoolCalendar)
				calendars.PUT("/:id", h.SchoolCalendar.UpdateSchoolCalendar)
				calendars.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.SchoolCalendar.DeleteSchoolCalendar)
				calendars.GET("/:id/lective-days", h.SchoolCalendar.LectiveDays)

				calendars.GET("/:id/holidays", h.SchoolCalendar.ListHolidays)
				calendars.POST("/:id/holidays", h.SchoolCalendar.CreateHoliday)
				calendars.POST("/:id/holidays/import", h.SchoolCalendar.ImportHolidays)
				calendars.PUT("/:id/holidays/:holiday_id", h.SchoolCalendar.UpdateHoliday)
				calendars.DELETE("/:id/holidays/:holiday_id", h.SchoolCalendar.DeleteHoliday)
			}

			// 活动模块
			events := authorized.Group("/events")
			{
				events.GET("", h.ActivityEvent.ListEvents)
				events.GET("/:id", h.ActivityEvent.GetEvent)
				events.POST("", h.ActivityEvent.CreateEvent)
				events.PUT("/:id", h.ActivityEvent.UpdateEvent)
				events.DELETE("/:id", h.ActivityEvent.DeleteEvent)

				events.POST("/:id/partners", h.ActivityEvent.AddPartner)
				events.PUT("/:id/partners/:line_id", h.ActivityEvent.UpdatePartner)
				events.DELETE("/:id/partners/:line_id", h.ActivityEvent.RemovePartner)
				events.POST("/:id/sync-registered", h.ActivityEvent.SyncRegistered)

				events.PUT("/:id/close", h.ActivityEvent.CloseEvent)
				events.PUT("/:id/reopen", h.ActivityEvent.ReopenEvent)
				events.PUT("/:id/bill", h.ActivityEvent.BillEvent)
			}

			// 月度出勤报表
			reports := authorized.Group("/reports/activity-monthly")
			{
				reports.GET("", h.Report.GetMonthly)
				reports.GET("/months", h.Report.ListMonths)
				reports.GET("/html", h.Report.RenderHTML)
				reports.GET("/xlsx", h.Report.ExportXLSX)
			}
		}
	}

	return r
}
