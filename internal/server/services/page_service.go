package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"atii-cms/internal/server/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PageService 页面内容服务
// 单个页面可以用 page_id（home、about…）或生成的 id 定位
type PageService struct {
	db *gorm.DB
}

// NewPageService 创建页面服务
func NewPageService(db *gorm.DB) *PageService {
	return &PageService{db: db}
}

// byKey 按 page_id 或 id 查询
func byKey(db *gorm.DB, key string) *gorm.DB {
	return db.Where("page_id = ? OR id = ?", key, key)
}

// List 获取页面列表
func (s *PageService) List(ctx context.Context, opts ListOptions) ([]models.PageContent, error) {
	pages := []models.PageContent{}
	if err := opts.paginate(s.db.WithContext(ctx).Model(&models.PageContent{})).Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("查询页面列表失败: %w", err)
	}
	return pages, nil
}

// Get 获取页面
func (s *PageService) Get(ctx context.Context, key string) (*models.PageContent, error) {
	var page models.PageContent
	if err := byKey(s.db.WithContext(ctx), key).First(&page).Error; err != nil {
		return nil, TranslateError(err, "查询页面失败")
	}
	return &page, nil
}

// Create 创建页面，page_id 重复返回 ErrConflict
func (s *PageService) Create(ctx context.Context, req *models.PageCreateRequest) (*models.PageContent, error) {
	if strings.TrimSpace(req.PageID) == "" || strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: page_id和name不能为空", ErrInvalidInput)
	}
	if err := requireJSONObject(req.Content); err != nil {
		return nil, err
	}

	page := req.ToModel()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PageContent{}).Where("page_id = ?", req.PageID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: 页面 '%s' 已存在", ErrConflict, req.PageID)
		}
		return tx.Create(page).Error
	})
	if err != nil {
		return nil, TranslateError(err, fmt.Sprintf("页面 '%s' 已存在或创建失败", req.PageID))
	}
	return page, nil
}

// Update 部分更新页面
func (s *PageService) Update(ctx context.Context, key string, req *models.PageUpdateRequest) (*models.PageContent, error) {
	if req.PageID != nil && strings.TrimSpace(*req.PageID) == "" {
		return nil, fmt.Errorf("%w: page_id不能为空", ErrInvalidInput)
	}
	if req.Content != nil {
		if err := requireJSONObject(*req.Content); err != nil {
			return nil, err
		}
	}

	var page models.PageContent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := byKey(tx, key).First(&page).Error; err != nil {
			return err
		}
		req.ApplyTo(&page)
		return tx.Save(&page).Error
	})
	if err != nil {
		return nil, TranslateError(err, "更新页面失败")
	}
	return &page, nil
}

// Delete 删除页面
func (s *PageService) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := byKey(tx, key).Delete(&models.PageContent{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return TranslateError(err, "删除页面失败")
}

// requireJSONObject 内容为空或为JSON对象时通过
func requireJSONObject(raw datatypes.JSON) error {
	return requireJSONKind(raw, '{', "content必须是JSON对象")
}

// requireJSONArray 内容为空或为JSON数组时通过
func requireJSONArray(raw datatypes.JSON) error {
	return requireJSONKind(raw, '[', "nodes必须是JSON数组")
}

func requireJSONKind(raw datatypes.JSON, open byte, message string) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	if !json.Valid(trimmed) || trimmed[0] != open {
		return fmt.Errorf("%w: %s", ErrInvalidInput, message)
	}
	return nil
}

// isNotFound 判断是否为记录不存在
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound)
}
