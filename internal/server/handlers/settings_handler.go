package handlers

import (
	"log"

	"atii-cms/internal/server/middleware"
	"atii-cms/internal/server/models"
	"atii-cms/internal/server/services"
	"atii-cms/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// SettingsHandler 站点设置处理器
type SettingsHandler struct {
	settingsService *services.SettingsService
}

// NewSettingsHandler 创建设置处理器
func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings 获取站点设置
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, "")
		return
	}
	response.Success(c, settings)
}

// UpdateSettings 更新站点设置
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req models.SettingsUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err, "")
		return
	}

	log.Printf("更新站点设置 (用户: %s)", middleware.CurrentUsername(c))
	response.Success(c, settings)
}
