package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/safewalk/safewalk-backend-go/internal/config"
	"github.com/safewalk/safewalk-backend-go/internal/handler"
	"github.com/safewalk/safewalk-backend-go/internal/middleware"
)

// Handlers groups the route handlers the router wires up.
type Handlers struct {
	Audit   *handler.AuditHandler
	Heatmap *handler.HeatmapHandler
	Route   *handler.RouteHandler
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(120, time.Minute))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "SafeWalk Backend API is running",
		})
	})

	// API 路由组
	api := r.Group("/api/v1")
	{
		// 审核记录接口
		audits := api.Group("/audits")
		audits.Use(middleware.Auth(cfg.JWTSecret))
		{
			audits.POST("", h.Audit.SubmitAudit)
			audits.GET("/mine", h.Audit.ListMine)
		}

		// 热力图接口
		heatmap := api.Group("/heatmap")
		{
			heatmap.GET("", h.Heatmap.GetHeatmap)
			heatmap.GET("/aggregates", h.Heatmap.GetAggregates)
			heatmap.GET("/near", h.Heatmap.GetNear)
		}

		// 路线评估接口
		routes := api.Group("/routes")
		{
			routes.POST("/safe", h.Route.SafeRoute)
		}

		// 地理编码代理
		api.GET("/geocode", h.Heatmap.Geocode)
	}

	return r
}
