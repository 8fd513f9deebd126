package handlers

import (
	"errors"
	"log"

	"atii-cms/internal/server/services"
	"atii-cms/internal/shared/auth"
	"atii-cms/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// handleServiceError 把业务错误映射为HTTP响应
func handleServiceError(c *gin.Context, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(c, notFoundMessage)
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrInvalidInput):
		response.BadRequest(c, err.Error())
	case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, auth.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, auth.ErrForbidden):
		response.Forbidden(c, "")
	default:
		log.Printf("%s %s 处理失败: %v", c.Request.Method, c.FullPath(), err)
		response.InternalError(c, "")
	}
}

// bindJSON 解析请求体，失败时直接写入400
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return false
	}
	return true
}
