package middleware

import (
	"errors"
	"log"

	"atii-cms/internal/server/models"
	"atii-cms/internal/shared/auth"
	"atii-cms/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// 上下文中保存当前用户的键
const currentUserKey = "current_user"

// JWTAuthMiddleware 校验Bearer令牌并解析为启用状态的用户
func JWTAuthMiddleware(jwtService *auth.JWTService, userService *auth.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			response.Unauthorized(c, "缺少或无效的认证信息")
			return
		}

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			response.Unauthorized(c, "无效的认证令牌")
			return
		}

		user, err := userService.ResolveIdentity(c.Request.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, auth.ErrUnauthenticated) {
				response.Unauthorized(c, "用户不存在或已停用")
				return
			}
			log.Printf("解析用户身份失败: %v", err)
			response.InternalError(c, "")
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// AdminMiddleware 只允许管理员通过，需放在 JWTAuthMiddleware 之后
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := auth.RequireAdmin(CurrentUser(c)); err != nil {
			response.Forbidden(c, "需要管理员权限")
			return
		}
		c.Next()
	}
}

// CurrentUser 获取当前请求的用户，未认证时返回nil
func CurrentUser(c *gin.Context) *models.User {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}

// CurrentUsername 获取当前用户名，用于日志
func CurrentUsername(c *gin.Context) string {
	if user := CurrentUser(c); user != nil {
		return user.Username
	}
	return "-"
}
