package services

import (
	"context"
	"fmt"
	"strings"

	"atii-cms/internal/server/models"

	"gorm.io/gorm"
)

// WorkflowSchemaService 可视化编辑器schema服务，按模板ID定位
type WorkflowSchemaService struct {
	db *gorm.DB
}

// NewWorkflowSchemaService 创建workflow schema服务
func NewWorkflowSchemaService(db *gorm.DB) *WorkflowSchemaService {
	return &WorkflowSchemaService{db: db}
}

// List 获取schema列表
func (s *WorkflowSchemaService) List(ctx context.Context, opts ListOptions) ([]models.WorkflowSchema, error) {
	schemas := []models.WorkflowSchema{}
	if err := opts.paginate(s.db.WithContext(ctx).Model(&models.WorkflowSchema{})).Find(&schemas).Error; err != nil {
		return nil, fmt.Errorf("查询workflow schema列表失败: %w", err)
	}
	return schemas, nil
}

// GetByTemplate 根据模板ID获取schema
func (s *WorkflowSchemaService) GetByTemplate(ctx context.Context, templateID string) (*models.WorkflowSchema, error) {
	var schema models.WorkflowSchema
	if err := s.db.WithContext(ctx).Where("template_id = ?", templateID).First(&schema).Error; err != nil {
		return nil, TranslateError(err, "查询workflow schema失败")
	}
	return &schema, nil
}

// Create 创建schema，模板已有schema时返回 ErrConflict
func (s *WorkflowSchemaService) Create(ctx context.Context, req *models.WorkflowSchemaCreateRequest) (*models.WorkflowSchema, error) {
	if strings.TrimSpace(req.TemplateID) == "" {
		return nil, fmt.Errorf("%w: template_id不能为空", ErrInvalidInput)
	}
	if err := requireJSONArray(req.Nodes); err != nil {
		return nil, err
	}

	schema := req.ToModel()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireTemplate(tx, req.TemplateID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.WorkflowSchema{}).Where("template_id = ?", req.TemplateID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: 模板 '%s' 的workflow schema已存在", ErrConflict, req.TemplateID)
		}
		return tx.Create(schema).Error
	})
	if err != nil {
		return nil, TranslateError(err, fmt.Sprintf("模板 '%s' 的workflow schema已存在或创建失败", req.TemplateID))
	}
	return schema, nil
}

// UpdateByTemplate 部分更新schema
func (s *WorkflowSchemaService) UpdateByTemplate(ctx context.Context, templateID string, req *models.WorkflowSchemaUpdateRequest) (*models.WorkflowSchema, error) {
	if req.TemplateID != nil && strings.TrimSpace(*req.TemplateID) == "" {
		return nil, fmt.Errorf("%w: template_id不能为空", ErrInvalidInput)
	}
	if req.Nodes != nil {
		if err := requireJSONArray(*req.Nodes); err != nil {
			return nil, err
		}
	}

	var schema models.WorkflowSchema
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", templateID).First(&schema).Error; err != nil {
			return err
		}
		if req.TemplateID != nil && *req.TemplateID != templateID {
			if err := requireTemplate(tx, *req.TemplateID); err != nil {
				return err
			}
		}
		req.ApplyTo(&schema)
		return tx.Omit("Template").Save(&schema).Error
	})
	if err != nil {
		return nil, TranslateError(err, "更新workflow schema失败")
	}
	return &schema, nil
}

// DeleteByTemplate 删除schema
func (s *WorkflowSchemaService) DeleteByTemplate(ctx context.Context, templateID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("template_id = ?", templateID).Delete(&models.WorkflowSchema{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return TranslateError(err, "删除workflow schema失败")
}

// requireTemplate 引用的模板必须存在
func requireTemplate(tx *gorm.DB, templateID string) error {
	var template models.Template
	if err := tx.Select("id").Where("id = ?", templateID).First(&template).Error; err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: 模板 '%s' 不存在", ErrNotFound, templateID)
		}
		return err
	}
	return nil
}
