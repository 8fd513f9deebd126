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

const schemaNotFound = "workflow schema不存在"

// WorkflowSchemaHandler workflow schema处理器
type WorkflowSchemaHandler struct {
	schemaService *services.WorkflowSchemaService
}

// NewWorkflowSchemaHandler 创建workflow schema处理器
func NewWorkflowSchemaHandler(schemaService *services.WorkflowSchemaService) *WorkflowSchemaHandler {
	return &WorkflowSchemaHandler{schemaService: schemaService}
}

// GetWorkflowSchemas 获取schema列表
func (h *WorkflowSchemaHandler) GetWorkflowSchemas(c *gin.Context) {
	skip, limit := utils.ParsePagination(c.Request)

	schemas, err := h.schemaService.List(c.Request.Context(), services.ListOptions{Skip: skip, Limit: limit})
	if err != nil {
		handleServiceError(c, err, "")
		return
	}
	response.Success(c, schemas)
}

// GetByTemplate 按模板ID获取schema
func (h *WorkflowSchemaHandler) GetByTemplate(c *gin.Context) {
	schema, err := h.schemaService.GetByTemplate(c.Request.Context(), c.Param("template_id"))
	if err != nil {
		handleServiceError(c, err, schemaNotFound)
		return
	}
	response.Success(c, schema)
}

// CreateWorkflowSchema 创建schema
func (h *WorkflowSchemaHandler) CreateWorkflowSchema(c *gin.Context) {
	var req models.WorkflowSchemaCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	schema, err := h.schemaService.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err, templateNotFound)
		return
	}

	log.Printf("创建workflow schema: 模板 %s (用户: %s)", schema.TemplateID, middleware.CurrentUsername(c))
	response.Created(c, schema)
}

// UpdateByTemplate 按模板ID更新schema
func (h *WorkflowSchemaHandler) UpdateByTemplate(c *gin.Context) {
	var req models.WorkflowSchemaUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	schema, err := h.schemaService.UpdateByTemplate(c.Request.Context(), c.Param("template_id"), &req)
	if err != nil {
		handleServiceError(c, err, schemaNotFound)
		return
	}

	log.Printf("更新workflow schema: 模板 %s (用户: %s)", schema.TemplateID, middleware.CurrentUsername(c))
	response.Success(c, schema)
}

// DeleteByTemplate 按模板ID删除schema
func (h *WorkflowSchemaHandler) DeleteByTemplate(c *gin.Context) {
	templateID := c.Param("template_id")
	if err := h.schemaService.DeleteByTemplate(c.Request.Context(), templateID); err != nil {
		handleServiceError(c, err, schemaNotFound)
		return
	}

	log.Printf("删除workflow schema: 模板 %s (用户: %s)", templateID, middleware.CurrentUsername(c))
	response.NoContent(c)
}
