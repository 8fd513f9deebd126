package services

import (
	"context"
	"fmt"
	"strings"

	"atii-cms/internal/server/models"

	"gorm.io/gorm"
)

// WebsiteFilter 网站列表过滤条件
type WebsiteFilter struct {
	Featured *bool
	Category string
}

// WebsiteService 作品集网站服务
type WebsiteService struct {
	db *gorm.DB
}

// NewWebsiteService 创建网站服务
func NewWebsiteService(db *gorm.DB) *WebsiteService {
	return &WebsiteService{db: db}
}

// List 获取网站列表
func (s *WebsiteService) List(ctx context.Context, opts ListOptions, filter WebsiteFilter) ([]models.Website, error) {
	query := s.db.WithContext(ctx).Model(&models.Website{})
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	websites := []models.Website{}
	if err := opts.paginate(query).Find(&websites).Error; err != nil {
		return nil, fmt.Errorf("查询网站列表失败: %w", err)
	}
	return websites, nil
}

// Get 根据ID获取网站
func (s *WebsiteService) Get(ctx context.Context, id string) (*models.Website, error) {
	var website models.Website
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&website).Error; err != nil {
		return nil, TranslateError(err, "查询网站失败")
	}
	return &website, nil
}

// Create 创建网站
func (s *WebsiteService) Create(ctx context.Context, req *models.WebsiteCreateRequest) (*models.Website, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: 名称不能为空", ErrInvalidInput)
	}

	website := req.ToModel()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(website).Error
	})
	if err != nil {
		return nil, TranslateError(err, "创建网站失败")
	}
	return website, nil
}

// Update 部分更新网站
func (s *WebsiteService) Update(ctx context.Context, id string, req *models.WebsiteUpdateRequest) (*models.Website, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, fmt.Errorf("%w: 名称不能为空", ErrInvalidInput)
	}

	var website models.Website
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&website).Error; err != nil {
			return err
		}
		req.ApplyTo(&website)
		return tx.Save(&website).Error
	})
	if err != nil {
		return nil, TranslateError(err, "更新网站失败")
	}
	return &website, nil
}

// Delete 删除网站
func (s *WebsiteService) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&models.Website{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return TranslateError(err, "删除网站失败")
}
