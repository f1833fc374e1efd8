package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/config"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/api/handler"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/api/middleware"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/pkg/jwt"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/pkg/redis"
)

const maxBodyBytes = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	r.Use(middleware.RateLimit(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window, logger))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok", "database": "ok", "redis": "disabled"}
		code := http.StatusOK

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if !pingDB(ctx, db) {
			status["status"], status["database"] = "degraded", "unavailable"
			code = http.StatusServiceUnavailable
		}
		if rdb != nil {
			status["redis"] = "ok"
		}
		c.JSON(code, status)
	})

	// ── 指标 ──
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.JWTAuth(jwtMgr, rdb, logger)
	admin := middleware.RequireAdmin()

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 值班类型
		dutyTypes := v1.Group("/duty-types")
		{
			dutyTypes.GET("", h.DutyType.ListDutyTypes)
			dutyTypes.GET("/active", h.DutyType.ListActiveDutyTypes)
			dutyTypes.POST("/add", auth, admin, h.DutyType.CreateDutyType)
			dutyTypes.PUT("/update/:id", auth, admin, h.DutyType.UpdateDutyType)
			dutyTypes.DELETE("/:id", auth, admin, h.DutyType.DeleteDutyType)
		}

		// 值班名册
		rosters := v1.Group("/duty-rosters-data")
		{
			rosters.GET("", h.DutyRoster.ListRosters)
			rosters.GET("/available-karkuns", h.DutyRoster.AvailableKarkuns)
			rosters.GET("/export", h.DutyRoster.ExportRosters)
			rosters.GET("/karkun/:ehadKarkunId", h.DutyRoster.ListByKarkun)
			rosters.GET("/karkun/:ehadKarkunId/calendar", h.DutyRoster.KarkunCalendar)
			rosters.GET("/:id", h.DutyRoster.GetRoster)
			rosters.GET("/:id/assignments", h.DutyRoster.ListAssignments)

			rosters.POST("/add", auth, admin, h.DutyRoster.CreateRoster)
			rosters.POST("/add-duty", auth, admin, h.DutyRoster.AddDuty)
			rosters.DELETE("/remove-duty/:id", auth, admin, h.DutyRoster.RemoveDuty)
			rosters.PUT("/update/:id", auth, admin, h.DutyRoster.UpdateRoster)
			rosters.DELETE("/:id", auth, admin, h.DutyRoster.DeleteRoster)
		}

		// 仪表盘（需要认证）
		dashboard := v1.Group("/dashboard")
		dashboard.Use(auth)
		{
			dashboard.GET("/stats", h.Dashboard.GetStats)
			dashboard.GET("/zones", h.Dashboard.GetZones)
			dashboard.GET("/mehfils/:zone_id", h.Dashboard.GetMehfils)
		}
	}

	return r
}

func pingDB(ctx context.Context, db *gorm.DB) bool {
	if db == nil {
		return false
	}
	sqlDB, err := db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}
