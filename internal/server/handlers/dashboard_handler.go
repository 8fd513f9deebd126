package handlers

import (
	"atii-cms/internal/server/services"
	"atii-cms/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// DashboardHandler 仪表盘处理器
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler 创建仪表盘处理器
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetDashboardStats 获取仪表盘统计数据
func (dh *DashboardHandler) GetDashboardStats(c *gin.Context) {
	stats, err := dh.dashboardService.GetDashboardStats(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, "")
		return
	}
	response.Success(c, stats)
}

// GetSystemHealth 获取系统健康状态
func (dh *DashboardHandler) GetSystemHealth(c *gin.Context) {
	response.Success(c, dh.dashboardService.GetSystemHealth(c.Request.Context()))
}
