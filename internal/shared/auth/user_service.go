package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"atii-cms/internal/server/models"
	"atii-cms/internal/server/services"
	"atii-cms/internal/shared/utils"

	"gorm.io/gorm"
)

var (
	// ErrUnauthenticated 令牌缺失、无效、过期，或用户不存在/已停用
	ErrUnauthenticated = errors.New("未认证")
	// ErrForbidden 已认证但不是管理员
	ErrForbidden = errors.New("权限不足")
	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = errors.New("用户名或密码错误")
)

// UserService 用户服务
type UserService struct {
	db *gorm.DB
}

// NewUserService 创建用户服务
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		db: db,
	}
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	IsAdmin  bool   `json:"is_admin"`
}

// Validate 校验字段
func (r *CreateUserRequest) Validate() error {
	username := strings.TrimSpace(r.Username)
	if len(username) < 3 || len(username) > 50 {
		return fmt.Errorf("%w: 用户名长度必须为3-50个字符", services.ErrInvalidInput)
	}
	if !utils.IsValidEmail(r.Email) {
		return fmt.Errorf("%w: 邮箱格式错误", services.ErrInvalidInput)
	}
	if len(r.Password) < 6 {
		return fmt.Errorf("%w: 密码至少6个字符", services.ErrInvalidInput)
	}
	return nil
}

// Authenticate 用户名或邮箱登录，只允许启用的用户
func (us *UserService) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	var user models.User
	err := us.db.WithContext(ctx).
		Where("(username = ? OR email = ?) AND is_active = ?", login, login, true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	// 验证密码
	if !utils.CheckPassword(password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}

	// 更新最后登录时间
	now := time.Now()
	user.LastLogin = &now
	if err := us.db.WithContext(ctx).Model(&user).UpdateColumn("last_login", now).Error; err != nil {
		log.Printf("更新最后登录时间失败: %v", err)
	}

	return &user, nil
}

// ResolveIdentity 根据令牌subject查找用户，不存在或已停用返回 ErrUnauthenticated
func (us *UserService) ResolveIdentity(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := us.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 用户不存在", ErrUnauthenticated)
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	if !user.IsActive {
		return nil, fmt.Errorf("%w: 用户已停用", ErrUnauthenticated)
	}

	return &user, nil
}

// RequireAdmin 非管理员返回 ErrForbidden
func RequireAdmin(user *models.User) (*models.User, error) {
	if user == nil || !user.IsAdmin {
		return nil, ErrForbidden
	}
	return user, nil
}

// CreateUser 创建用户，用户名或邮箱重复返回 ErrConflict
func (us *UserService) CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	user := &models.User{
		Username:       strings.TrimSpace(req.Username),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		HashedPassword: hashedPassword,
		IsActive:       true,
		IsAdmin:        req.IsAdmin,
	}

	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("username = ? OR email = ?", user.Username, user.Email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: 用户名或邮箱已存在", services.ErrConflict)
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, services.TranslateError(err, "创建用户失败")
	}

	return user, nil
}
