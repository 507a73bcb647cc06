package controllers

import (
	"github.com/aihub/citeguard-go/internal/database"
	"github.com/aihub/citeguard-go/internal/services"
	"github.com/beego/beego/v2/server/web"
)

// RootController 根控制器
type RootController struct {
	BaseController
}

func (c *RootController) Index() {
	c.JSONSuccess(map[string]string{"message": "Citation Guard API"})
}

// HealthController 健康检查控制器
type HealthController struct {
	BaseController
}

func (c *HealthController) Health() {
	status := "healthy"
	checks := map[string]string{}

	if database.DB != nil {
		if sqlDB, err := database.DB.DB(); err == nil && sqlDB.Ping() == nil {
			checks["database"] = "ok"
		} else {
			checks["database"] = "unavailable"
			status = "degraded"
		}
	} else {
		checks["database"] = "not configured"
		status = "degraded"
	}

	c.JSONSuccess(map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}

// MetricsController 指标控制器
type MetricsController struct {
	web.Controller
	metricsService *services.MetricsService
}

// Prepare 初始化控制器
func (c *MetricsController) Prepare() {
	c.metricsService = services.NewMetricsService()
}

// Metrics 返回Prometheus格式的指标
func (c *MetricsController) Metrics() {
	c.Ctx.Output.Header("Content-Type", "text/plain; charset=utf-8")
	c.metricsService.ServeHTTP(c.Ctx.ResponseWriter, c.Ctx.Request)
}
