package services

import (
	"context"
	"fmt"
	"strings"

	"atii-cms/internal/server/models"

	"gorm.io/gorm"
)

// TemplateService 模板及其workflow步骤服务
// 模板独占步骤集合：更新时整体替换，删除时级联删除，均在同一事务内完成
type TemplateService struct {
	db *gorm.DB
}

// NewTemplateService 创建模板服务
func NewTemplateService(db *gorm.DB) *TemplateService {
	return &TemplateService{db: db}
}

// orderedSteps 按 position 字典序预加载步骤
func orderedSteps(db *gorm.DB) *gorm.DB {
	return db.Preload("WorkflowSteps", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC").Order("sort ASC")
	})
}

// List 获取模板列表，status 为空时不过滤
func (s *TemplateService) List(ctx context.Context, opts ListOptions, status string) ([]models.Template, error) {
	query := s.db.WithContext(ctx).Model(&models.Template{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	templates := []models.Template{}
	if err := orderedSteps(opts.paginate(query)).Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("查询模板列表失败: %w", err)
	}
	for i := range templates {
		normalizeSteps(&templates[i])
	}
	return templates, nil
}

// Get 获取模板及其有序步骤
func (s *TemplateService) Get(ctx context.Context, id string) (*models.Template, error) {
	return s.load(s.db.WithContext(ctx), id)
}

func (s *TemplateService) load(db *gorm.DB, id string) (*models.Template, error) {
	var template models.Template
	if err := orderedSteps(db).Where("id = ?", id).First(&template).Error; err != nil {
		return nil, TranslateError(err, "查询模板失败")
	}
	normalizeSteps(&template)
	return &template, nil
}

// Create 创建模板，先写模板拿到ID，再按提交顺序写入步骤
func (s *TemplateService) Create(ctx context.Context, req *models.TemplateCreateRequest) (*models.Template, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: 标题不能为空", ErrInvalidInput)
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, fmt.Errorf("%w: 无效的状态 %s", ErrInvalidInput, req.Status)
	}
	if err := models.ValidateSteps(req.Workflow); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	template := req.ToModel()
	var created *models.Template
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("WorkflowSteps").Create(template).Error; err != nil {
			return err
		}
		if err := insertSteps(tx, template.ID, req.Workflow); err != nil {
			return err
		}

		var err error
		created, err = s.load(tx, template.ID)
		return err
	})
	if err != nil {
		return nil, TranslateError(err, "创建模板失败")
	}
	return created, nil
}

// Update 部分更新模板
// req.Workflow 非nil时删除全部旧步骤并写入新列表；nil时步骤保持不变
func (s *TemplateService) Update(ctx context.Context, id string, req *models.TemplateUpdateRequest) (*models.Template, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, fmt.Errorf("%w: 标题不能为空", ErrInvalidInput)
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, fmt.Errorf("%w: 无效的状态 %s", ErrInvalidInput, *req.Status)
	}
	if req.Workflow != nil {
		if err := models.ValidateSteps(*req.Workflow); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	var updated *models.Template
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var template models.Template
		if err := tx.Where("id = ?", id).First(&template).Error; err != nil {
			return err
		}

		req.ApplyTo(&template)
		if err := tx.Omit("WorkflowSteps").Save(&template).Error; err != nil {
			return err
		}

		if req.Workflow != nil {
			if err := tx.Where("template_id = ?", id).Delete(&models.WorkflowStep{}).Error; err != nil {
				return err
			}
			if err := insertSteps(tx, id, *req.Workflow); err != nil {
				return err
			}
		}

		var err error
		updated, err = s.load(tx, id)
		return err
	})
	if err != nil {
		return nil, TranslateError(err, "更新模板失败")
	}
	return updated, nil
}

// Delete 删除模板，同一事务内级联删除步骤和workflow schema
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var template models.Template
		if err := tx.Where("id = ?", id).First(&template).Error; err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", id).Delete(&models.WorkflowStep{}).Error; err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", id).Delete(&models.WorkflowSchema{}).Error; err != nil {
			return err
		}
		return tx.Delete(&template).Error
	})
	return TranslateError(err, "删除模板失败")
}

// countSteps 模板当前的步骤数量
func (s *TemplateService) countSteps(ctx context.Context, templateID string) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.WorkflowStep{}).
		Where("template_id = ?", templateID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("统计步骤数量失败: %w", err)
	}
	return count, nil
}

// insertSteps 按提交顺序写入步骤
func insertSteps(tx *gorm.DB, templateID string, inputs []models.WorkflowStepInput) error {
	if len(inputs) == 0 {
		return nil
	}
	steps := models.BuildSteps(templateID, inputs)
	return tx.Create(&steps).Error
}

// normalizeSteps 保证响应中 workflow_steps 为数组而不是null
func normalizeSteps(t *models.Template) {
	if t.WorkflowSteps == nil {
		t.WorkflowSteps = []models.WorkflowStep{}
	}
	if t.Customizable == nil {
		t.Customizable = []string{}
	}
}
