package handlers

import (
	"log"

	"atii-cms/internal/server/middleware"
	"atii-cms/internal/server/models"
	"atii-cms/internal/server/services"
	"atii-cms/internal/shared/response"
	"atii-cms/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

const templateNotFound = "模板不存在"

// TemplateHandler 模板处理器
type TemplateHandler struct {
	templateService *services.TemplateService
}

// NewTemplateHandler 创建模板处理器
func NewTemplateHandler(templateService *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// GetTemplates 获取模板列表，支持 status（或 status_filter）过滤
func (h *TemplateHandler) GetTemplates(c *gin.Context) {
	skip, limit := utils.ParsePagination(c.Request)
	status := c.Query("status")
	if status == "" {
		status = c.Query("status_filter")
	}

	templates, err := h.templateService.List(c.Request.Context(), services.ListOptions{Skip: skip, Limit: limit}, status)
	if err != nil {
		handleServiceError(c, err, "")
		return
	}
	response.Success(c, templates)
}

// GetTemplate 获取模板及其步骤
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	template, err := h.templateService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err, templateNotFound)
		return
	}
	response.Success(c, template)
}

// CreateTemplate 创建模板
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req models.TemplateCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	template, err := h.templateService.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err, "")
		return
	}

	log.Printf("创建模板: %s (步骤: %d, 用户: %s)", template.Title, len(template.WorkflowSteps), middleware.CurrentUsername(c))
	response.Created(c, template)
}

// UpdateTemplate 更新模板
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	var req models.TemplateUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	template, err := h.templateService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err, templateNotFound)
		return
	}

	log.Printf("更新模板: %s (用户: %s)", template.Title, middleware.CurrentUsername(c))
	response.Success(c, template)
}

// DeleteTemplate 删除模板
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	id := c.Param("id")
	if err := h.templateService.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, templateNotFound)
		return
	}

	log.Printf("删除模板: %s (用户: %s)", id, middleware.CurrentUsername(c))
	response.NoContent(c)
}
