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

const pageNotFound = "页面不存在"

// PageHandler 页面内容处理器
type PageHandler struct {
	pageService *services.PageService
}

// NewPageHandler 创建页面处理器
func NewPageHandler(pageService *services.PageService) *PageHandler {
	return &PageHandler{pageService: pageService}
}

// GetPages 获取页面列表
func (h *PageHandler) GetPages(c *gin.Context) {
	skip, limit := utils.ParsePagination(c.Request)

	pages, err := h.pageService.List(c.Request.Context(), services.ListOptions{Skip: skip, Limit: limit})
	if err != nil {
		handleServiceError(c, err, "")
		return
	}
	response.Success(c, pages)
}

// GetPage 按 page_id 或 id 获取页面
func (h *PageHandler) GetPage(c *gin.Context) {
	page, err := h.pageService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err, pageNotFound)
		return
	}
	response.Success(c, page)
}

// CreatePage 创建页面
func (h *PageHandler) CreatePage(c *gin.Context) {
	var req models.PageCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	page, err := h.pageService.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err, "")
		return
	}

	log.Printf("创建页面: %s (用户: %s)", page.PageID, middleware.CurrentUsername(c))
	response.Created(c, page)
}

// UpdatePage 更新页面
func (h *PageHandler) UpdatePage(c *gin.Context) {
	var req models.PageUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	page, err := h.pageService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err, pageNotFound)
		return
	}

	log.Printf("更新页面: %s (用户: %s)", page.PageID, middleware.CurrentUsername(c))
	response.Success(c, page)
}

// DeletePage 删除页面
func (h *PageHandler) DeletePage(c *gin.Context) {
	key := c.Param("id")
	if err := h.pageService.Delete(c.Request.Context(), key); err != nil {
		handleServiceError(c, err, pageNotFound)
		return
	}

	log.Printf("删除页面: %s (用户: %s)", key, middleware.CurrentUsername(c))
	response.NoContent(c)
}
