package models

import (
	"gorm.io/datatypes"
)

// WorkflowSchema 可视化编辑器的节点布局，与模板一对一
type WorkflowSchema struct {
	Base
	TemplateID string         `json:"template_id" gorm:"not null;size:36;uniqueIndex"`
	Nodes      datatypes.JSON `json:"nodes"`

	Template *Template `json:"-" gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
}

// WorkflowSchemaCreateRequest 创建workflow schema请求
type WorkflowSchemaCreateRequest struct {
	TemplateID string         `json:"template_id" binding:"required"`
	Nodes      datatypes.JSON `json:"nodes"`
}

// ToModel 转换为实体
func (r *WorkflowSchemaCreateRequest) ToModel() *WorkflowSchema {
	return &WorkflowSchema{
		TemplateID: r.TemplateID,
		Nodes:      jsonOrDefault(r.Nodes, "[]"),
	}
}

// WorkflowSchemaUpdateRequest 更新workflow schema请求
type WorkflowSchemaUpdateRequest struct {
	TemplateID *string         `json:"template_id"`
	Nodes      *datatypes.JSON `json:"nodes"`
}

// ApplyTo 合并出现的字段
func (r *WorkflowSchemaUpdateRequest) ApplyTo(s *WorkflowSchema) {
	if r.TemplateID != nil {
		s.TemplateID = *r.TemplateID
	}
	if r.Nodes != nil {
		s.Nodes = jsonOrDefault(*r.Nodes, "[]")
	}
}
