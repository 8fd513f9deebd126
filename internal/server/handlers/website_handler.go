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

const websiteNotFound = "网站不存在"

// WebsiteHandler 作品集网站处理器
type WebsiteHandler struct {
	websiteService *services.WebsiteService
}

// NewWebsiteHandler 创建网站处理器
func NewWebsiteHandler(websiteService *services.WebsiteService) *WebsiteHandler {
	return &WebsiteHandler{websiteService: websiteService}
}

// GetWebsites 获取网站列表，支持 featured、category 过滤
func (h *WebsiteHandler) GetWebsites(c *gin.Context) {
	skip, limit := utils.ParsePagination(c.Request)
	featured, err := utils.ParseBoolQuery(c.Request, "featured")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	filter := services.WebsiteFilter{
		Featured: featured,
		Category: c.Query("category"),
	}

	websites, err := h.websiteService.List(c.Request.Context(), services.ListOptions{Skip: skip, Limit: limit}, filter)
	if err != nil {
		handleServiceError(c, err, "")
		return
	}
	response.Success(c, websites)
}

// GetWebsite 获取单个网站
func (h *WebsiteHandler) GetWebsite(c *gin.Context) {
	website, err := h.websiteService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err, websiteNotFound)
		return
	}
	response.Success(c, website)
}

// CreateWebsite 创建网站
func (h *WebsiteHandler) CreateWebsite(c *gin.Context) {
	var req models.WebsiteCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	website, err := h.websiteService.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err, "")
		return
	}

	log.Printf("创建网站: %s (用户: %s)", website.Name, middleware.CurrentUsername(c))
	response.Created(c, website)
}

// UpdateWebsite 更新网站
func (h *WebsiteHandler) UpdateWebsite(c *gin.Context) {
	var req models.WebsiteUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	website, err := h.websiteService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err, websiteNotFound)
		return
	}

	log.Printf("更新网站: %s (用户: %s)", website.Name, middleware.CurrentUsername(c))
	response.Success(c, website)
}

// DeleteWebsite 删除网站
func (h *WebsiteHandler) DeleteWebsite(c *gin.Context) {
	id := c.Param("id")
	if err := h.websiteService.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, websiteNotFound)
		return
	}

	log.Printf("删除网站: %s (用户: %s)", id, middleware.CurrentUsername(c))
	response.NoContent(c)
}
