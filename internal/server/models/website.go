package models

// Website 作品集中的网站
type Website struct {
	Base
	Name         string   `json:"name" gorm:"not null;index"`
	Client       string   `json:"client"`
	Description  string   `json:"description" gorm:"type:text"`
	URL          string   `json:"url"`
	Screenshot   string   `json:"screenshot"`
	Technologies []string `json:"technologies" gorm:"serializer:json"`
	Category     string   `json:"category" gorm:"index"`
	Date         string   `json:"date" gorm:"size:20"` // YYYY-MM
	Featured     bool     `json:"featured" gorm:"not null;index"`
}

// WebsiteCreateRequest 创建网站请求
type WebsiteCreateRequest struct {
	Name         string   `json:"name" binding:"required"`
	Client       string   `json:"client"`
	Description  string   `json:"description"`
	URL          string   `json:"url"`
	Screenshot   string   `json:"screenshot"`
	Technologies []string `json:"technologies"`
	Category     string   `json:"category"`
	Date         string   `json:"date"`
	Featured     bool     `json:"featured"`
}

// ToModel 转换为实体
func (r *WebsiteCreateRequest) ToModel() *Website {
	technologies := r.Technologies
	if technologies == nil {
		technologies = []string{}
	}
	return &Website{
		Name:         r.Name,
		Client:       r.Client,
		Description:  r.Description,
		URL:          r.URL,
		Screenshot:   r.Screenshot,
		Technologies: technologies,
		Category:     r.Category,
		Date:         r.Date,
		Featured:     r.Featured,
	}
}

// WebsiteUpdateRequest 更新网站请求，nil字段保持不变
type WebsiteUpdateRequest struct {
	Name         *string   `json:"name"`
	Client       *string   `json:"client"`
	Description  *string   `json:"description"`
	URL          *string   `json:"url"`
	Screenshot   *string   `json:"screenshot"`
	Technologies *[]string `json:"technologies"`
	Category     *string   `json:"category"`
	Date         *string   `json:"date"`
	Featured     *bool     `json:"featured"`
}

// ApplyTo 把出现的字段合并到实体
func (r *WebsiteUpdateRequest) ApplyTo(w *Website) {
	if r.Name != nil {
		w.Name = *r.Name
	}
	if r.Client != nil {
		w.Client = *r.Client
	}
	if r.Description != nil {
		w.Description = *r.Description
	}
	if r.URL != nil {
		w.URL = *r.URL
	}
	if r.Screenshot != nil {
		w.Screenshot = *r.Screenshot
	}
	if r.Technologies != nil {
		w.Technologies = *r.Technologies
		if w.Technologies == nil {
			w.Technologies = []string{}
		}
	}
	if r.Category != nil {
		w.Category = *r.Category
	}
	if r.Date != nil {
		w.Date = *r.Date
	}
	if r.Featured != nil {
		w.Featured = *r.Featured
	}
}
