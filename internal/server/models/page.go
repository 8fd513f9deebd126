package models

import (
	"gorm.io/datatypes"
)

// PageJustUpdated 页面更新后默认的“最后更新”标签
const PageJustUpdated = "только что"

// PageContent 页面内容，Content 原样存取不做结构校验
type PageContent struct {
	Base
	PageID   string         `json:"page_id" gorm:"not null;size:100;uniqueIndex"`
	Name     string         `json:"name" gorm:"not null"`
	Sections int            `json:"sections" gorm:"not null;default:0"`
	Updated  string         `json:"updated" gorm:"size:100"`
	Content  datatypes.JSON `json:"content"`
}

// TableName 指定表名
func (PageContent) TableName() string {
	return "pages"
}

// PageCreateRequest 创建页面请求
type PageCreateRequest struct {
	PageID   string         `json:"page_id" binding:"required"`
	Name     string         `json:"name" binding:"required"`
	Sections int            `json:"sections"`
	Updated  string         `json:"updated"`
	Content  datatypes.JSON `json:"content"`
}

// ToModel 转换为实体
func (r *PageCreateRequest) ToModel() *PageContent {
	return &PageContent{
		PageID:   r.PageID,
		Name:     r.Name,
		Sections: r.Sections,
		Updated:  r.Updated,
		Content:  jsonOrDefault(r.Content, "{}"),
	}
}

// PageUpdateRequest 更新页面请求
type PageUpdateRequest struct {
	PageID   *string         `json:"page_id"`
	Name     *string         `json:"name"`
	Sections *int            `json:"sections"`
	Updated  *string         `json:"updated"`
	Content  *datatypes.JSON `json:"content"`
}

// ApplyTo 合并出现的字段；未提供 updated 时写入默认标签
func (r *PageUpdateRequest) ApplyTo(p *PageContent) {
	if r.PageID != nil {
		p.PageID = *r.PageID
	}
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Sections != nil {
		p.Sections = *r.Sections
	}
	if r.Content != nil {
		p.Content = jsonOrDefault(*r.Content, "{}")
	}
	if r.Updated != nil {
		p.Updated = *r.Updated
	} else {
		p.Updated = PageJustUpdated
	}
}

// jsonOrDefault 空或null时返回默认JSON
func jsonOrDefault(raw datatypes.JSON, def string) datatypes.JSON {
	if len(raw) == 0 || string(raw) == "null" {
		return datatypes.JSON(def)
	}
	return raw
}
