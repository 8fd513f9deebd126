package handlers

import (
	"log"

	"atii-cms/internal/server/middleware"
	"atii-cms/internal/shared/auth"
	"atii-cms/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	userService *auth.UserService
	jwtService  *auth.JWTService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(userService *auth.UserService, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
	}
}

// LoginRequest 登录请求，username 也可以填写邮箱
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 用户登录，返回Bearer访问令牌
func (ah *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := ah.userService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(c, err, "")
		return
	}

	token, err := ah.jwtService.GenerateAccessToken(user)
	if err != nil {
		log.Printf("生成令牌失败: %v", err)
		response.InternalError(c, "生成令牌失败")
		return
	}

	log.Printf("用户登录: %s", user.Username)
	response.Success(c, token)
}

// Register 管理员创建用户
func (ah *AuthHandler) Register(c *gin.Context) {
	var req auth.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := ah.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err, "")
		return
	}

	log.Printf("创建用户: %s (管理员: %t, 操作人: %s)", user.Username, user.IsAdmin, middleware.CurrentUsername(c))
	response.Created(c, user)
}

// GetCurrentUser 获取当前用户信息
func (ah *AuthHandler) GetCurrentUser(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "用户未认证")
		return
	}
	response.Success(c, user)
}
