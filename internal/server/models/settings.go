package models

// SettingsSingletonKey 设置表唯一行的固定键，唯一索引保证只有一行
const SettingsSingletonKey = "site"

// 站点设置默认值
const (
	DefaultSiteName        = "АТИИ - IT решения"
	DefaultPrimaryColor    = "#EF4444"
	DefaultAccentColor     = "#9333EA"
	DefaultBackgroundColor = "#000000"
)

// Settings 站点设置（单例）
type Settings struct {
	Base
	Singleton       string `json:"-" gorm:"not null;size:20;uniqueIndex"`
	SiteName        string `json:"site_name" gorm:"not null"`
	Domain          string `json:"domain"`
	Description     string `json:"description" gorm:"type:text"`
	PrimaryColor    string `json:"primary_color" gorm:"not null;size:20"`
	AccentColor     string `json:"accent_color" gorm:"not null;size:20"`
	BackgroundColor string `json:"background_color" gorm:"not null;size:20"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description" gorm:"type:text"`
	Keywords        string `json:"keywords"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() *Settings {
	return &Settings{
		Singleton:       SettingsSingletonKey,
		SiteName:        DefaultSiteName,
		PrimaryColor:    DefaultPrimaryColor,
		AccentColor:     DefaultAccentColor,
		BackgroundColor: DefaultBackgroundColor,
	}
}

// SettingsUpdateRequest 更新设置请求
type SettingsUpdateRequest struct {
	SiteName        *string `json:"site_name"`
	Domain          *string `json:"domain"`
	Description     *string `json:"description"`
	PrimaryColor    *string `json:"primary_color"`
	AccentColor     *string `json:"accent_color"`
	BackgroundColor *string `json:"background_color"`
	MetaTitle       *string `json:"meta_title"`
	MetaDescription *string `json:"meta_description"`
	Keywords        *string `json:"keywords"`
}

// ApplyTo 合并出现的字段
func (r *SettingsUpdateRequest) ApplyTo(s *Settings) {
	if r.SiteName != nil {
		s.SiteName = *r.SiteName
	}
	if r.Domain != nil {
		s.Domain = *r.Domain
	}
	if r.Description != nil {
		s.Description = *r.Description
	}
	if r.PrimaryColor != nil {
		s.PrimaryColor = *r.PrimaryColor
	}
	if r.AccentColor != nil {
		s.AccentColor = *r.AccentColor
	}
	if r.BackgroundColor != nil {
		s.BackgroundColor = *r.BackgroundColor
	}
	if r.MetaTitle != nil {
		s.MetaTitle = *r.MetaTitle
	}
	if r.MetaDescription != nil {
		s.MetaDescription = *r.MetaDescription
	}
	if r.Keywords != nil {
		s.Keywords = *r.Keywords
	}
}
