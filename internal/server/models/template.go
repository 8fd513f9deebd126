package models

import (
	"fmt"
	"strings"
)

// TemplateStatus 模板状态
type TemplateStatus string

const (
	TemplateStatusActive   TemplateStatus = "active"
	TemplateStatusInactive TemplateStatus = "inactive"
)

// Valid 是否为合法状态
func (s TemplateStatus) Valid() bool {
	return s == TemplateStatusActive || s == TemplateStatusInactive
}

// StepType workflow步骤类型
type StepType string

const (
	StepTypeTrigger      StepType = "trigger"
	StepTypeProcess      StepType = "process"
	StepTypeAPI          StepType = "api"
	StepTypeNotification StepType = "notification"
	StepTypeComplete     StepType = "complete"
)

// Valid 是否为合法步骤类型
func (t StepType) Valid() bool {
	switch t {
	case StepTypeTrigger, StepTypeProcess, StepTypeAPI, StepTypeNotification, StepTypeComplete:
		return true
	default:
		return false
	}
}

// Template 解决方案模板
type Template struct {
	Base
	Title         string         `json:"title" gorm:"not null;index"`
	Description   string         `json:"description" gorm:"type:text"`
	Customizable  []string       `json:"customizable" gorm:"serializer:json"`
	Status        TemplateStatus `json:"status" gorm:"not null;size:20;index"`
	WorkflowSteps []WorkflowStep `json:"workflow_steps" gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
}

// WorkflowStep 模板的workflow步骤
// Position 是点分序号字符串（"1"、"2.1"），按字典序排序，不做数值解析
type WorkflowStep struct {
	Base
	TemplateID  string   `json:"template_id" gorm:"not null;size:36;index"`
	Label       string   `json:"label" gorm:"not null"`
	Type        StepType `json:"type" gorm:"not null;size:20"`
	Description string   `json:"description" gorm:"type:text"`
	Position    string   `json:"position" gorm:"not null;size:20"`
	Sort        int      `json:"-" gorm:"not null;default:0"` // 同一position时保持提交顺序
}

// WorkflowStepInput 步骤请求
type WorkflowStepInput struct {
	Label       string   `json:"label" binding:"required"`
	Type        StepType `json:"type" binding:"required"`
	Description string   `json:"description"`
	Position    string   `json:"position" binding:"required"`
}

// TemplateCreateRequest 创建模板请求
type TemplateCreateRequest struct {
	Title        string              `json:"title" binding:"required"`
	Description  string              `json:"description"`
	Customizable []string            `json:"customizable"`
	Status       TemplateStatus      `json:"status"`
	Workflow     []WorkflowStepInput `json:"workflow"`
}

// TemplateUpdateRequest 更新模板请求
// Workflow 为nil表示不修改步骤，非nil（包括空列表）表示整体替换
type TemplateUpdateRequest struct {
	Title        *string              `json:"title"`
	Description  *string              `json:"description"`
	Customizable *[]string            `json:"customizable"`
	Status       *TemplateStatus      `json:"status"`
	Workflow     *[]WorkflowStepInput `json:"workflow"`
}

// ValidateSteps 校验步骤列表
func ValidateSteps(steps []WorkflowStepInput) error {
	for i, step := range steps {
		if strings.TrimSpace(step.Label) == "" {
			return fmt.Errorf("第%d个步骤缺少label", i+1)
		}
		if !step.Type.Valid() {
			return fmt.Errorf("第%d个步骤类型无效: %s", i+1, step.Type)
		}
		if strings.TrimSpace(step.Position) == "" {
			return fmt.Errorf("第%d个步骤缺少position", i+1)
		}
	}
	return nil
}

// BuildSteps 按提交顺序生成步骤实体
func BuildSteps(templateID string, steps []WorkflowStepInput) []WorkflowStep {
	result := make([]WorkflowStep, 0, len(steps))
	for i, step := range steps {
		result = append(result, WorkflowStep{
			TemplateID:  templateID,
			Label:       step.Label,
			Type:        step.Type,
			Description: step.Description,
			Position:    step.Position,
			Sort:        i,
		})
	}
	return result
}

// ToModel 转换为模板实体（不含步骤）
func (r *TemplateCreateRequest) ToModel() *Template {
	status := r.Status
	if status == "" {
		status = TemplateStatusActive
	}
	customizable := r.Customizable
	if customizable == nil {
		customizable = []string{}
	}
	return &Template{
		Title:        r.Title,
		Description:  r.Description,
		Customizable: customizable,
		Status:       status,
	}
}

// ApplyTo 合并出现的非步骤字段
func (r *TemplateUpdateRequest) ApplyTo(t *Template) {
	if r.Title != nil {
		t.Title = *r.Title
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.Customizable != nil {
		t.Customizable = *r.Customizable
		if t.Customizable == nil {
			t.Customizable = []string{}
		}
	}
	if r.Status != nil {
		t.Status = *r.Status
	}
}
