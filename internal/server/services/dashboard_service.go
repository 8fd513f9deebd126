package services

import (
	"context"
	"fmt"
	"time"

	"atii-cms/internal/server/models"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"gorm.io/gorm"
)

// DashboardService 仪表盘服务
type DashboardService struct {
	db        *gorm.DB
	startTime time.Time
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{
		db:        db,
		startTime: time.Now(),
	}
}

// SystemHealthInfo 系统健康信息
type SystemHealthInfo struct {
	Status    string                 `json:"status"`
	Uptime    string                 `json:"uptime"`
	Checks    map[string]HealthCheck `json:"checks"`
	SystemRes *SystemResourceInfo    `json:"system_resources,omitempty"`
}

// SystemResourceInfo 系统资源信息
type SystemResourceInfo struct {
	CPUUsage    float64 `json:"cpu_usage"`
	MemoryUsage float64 `json:"memory_usage"`
	DiskUsage   float64 `json:"disk_usage"`
	MemoryTotal uint64  `json:"memory_total"`
	MemoryUsed  uint64  `json:"memory_used"`
	DiskTotal   uint64  `json:"disk_total"`
	DiskUsed    uint64  `json:"disk_used"`
	HostUptime  uint64  `json:"host_uptime"`
}

// HealthCheck 健康检查项
type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// GetDashboardStats 统计各类内容数量
func (ds *DashboardService) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	db := ds.db.WithContext(ctx)
	stats := &models.DashboardStats{}

	counts := []struct {
		name  string
		query *gorm.DB
		dest  *int64
	}{
		{"网站", db.Model(&models.Website{}), &stats.Websites},
		{"精选网站", db.Model(&models.Website{}).Where("featured = ?", true), &stats.FeaturedWebsites},
		{"模板", db.Model(&models.Template{}), &stats.Templates.Total},
		{"启用模板", db.Model(&models.Template{}).Where("status = ?", models.TemplateStatusActive), &stats.Templates.Active},
		{"停用模板", db.Model(&models.Template{}).Where("status = ?", models.TemplateStatusInactive), &stats.Templates.Inactive},
		{"workflow步骤", db.Model(&models.WorkflowStep{}), &stats.WorkflowSteps},
		{"页面", db.Model(&models.PageContent{}), &stats.Pages},
		{"workflow schema", db.Model(&models.WorkflowSchema{}), &stats.WorkflowSchemas},
		{"用户", db.Model(&models.User{}), &stats.Users.Total},
		{"启用用户", db.Model(&models.User{}).Where("is_active = ?", true), &stats.Users.Active},
		{"管理员", db.Model(&models.User{}).Where("is_admin = ?", true), &stats.Users.Admins},
	}

	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("统计%s数量失败: %w", c.name, err)
		}
	}

	return stats, nil
}

// GetSystemHealth 获取系统健康状态
func (ds *DashboardService) GetSystemHealth(ctx context.Context) *SystemHealthInfo {
	health := &SystemHealthInfo{
		Status: "healthy",
		Uptime: time.Since(ds.startTime).Round(time.Second).String(),
		Checks: make(map[string]HealthCheck),
	}

	// 检查数据库连接
	if err := ds.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		health.Checks["database"] = HealthCheck{
			Status:  "error",
			Message: "数据库连接失败",
			Error:   err.Error(),
		}
		health.Status = "degraded"
	} else {
		health.Checks["database"] = HealthCheck{
			Status:  "ok",
			Message: "数据库连接正常",
		}
	}

	// 获取系统资源信息
	systemRes, err := getSystemResources(ctx)
	if err != nil {
		health.Checks["system_resources"] = HealthCheck{
			Status:  "error",
			Message: "获取系统资源失败",
			Error:   err.Error(),
		}
		health.Status = "degraded"
	} else {
		health.SystemRes = systemRes
		health.Checks["system_resources"] = HealthCheck{
			Status:  "ok",
			Message: "系统资源正常",
		}
	}

	return health
}

// getSystemResources 获取系统资源信息
func getSystemResources(ctx context.Context) (*SystemResourceInfo, error) {
	var sysRes SystemResourceInfo

	// 采样间隔为0时返回自上次调用以来的使用率，不阻塞请求
	cpuPercent, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return nil, fmt.Errorf("获取CPU使用率失败: %w", err)
	}
	if len(cpuPercent) > 0 {
		sysRes.CPUUsage = cpuPercent[0]
	}

	memInfo, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取内存信息失败: %w", err)
	}
	sysRes.MemoryUsage = memInfo.UsedPercent
	sysRes.MemoryTotal = memInfo.Total
	sysRes.MemoryUsed = memInfo.Used

	// 根目录磁盘
	diskInfo, err := disk.UsageWithContext(ctx, "/")
	if err != nil {
		return nil, fmt.Errorf("获取磁盘信息失败: %w", err)
	}
	sysRes.DiskUsage = diskInfo.UsedPercent
	sysRes.DiskTotal = diskInfo.Total
	sysRes.DiskUsed = diskInfo.Used

	uptime, err := host.UptimeWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取主机运行时间失败: %w", err)
	}
	sysRes.HostUptime = uptime

	return &sysRes, nil
}
