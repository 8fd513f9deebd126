package services

import (
	"context"
	"errors"
	"fmt"

	"atii-cms/internal/server/models"

	"gorm.io/gorm"
)

// SettingsService 站点设置单例服务
// 单例行由固定键上的唯一索引保证，首次并发读取不会产生重复行
type SettingsService struct {
	db *gorm.DB
}

// NewSettingsService 创建设置服务
func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Get 获取设置，不存在时按默认值创建
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := ensureSettings(s.db.WithContext(ctx))
	if err != nil {
		return nil, TranslateError(err, "获取站点设置失败")
	}
	return settings, nil
}

// Update 部分更新设置，不存在时先以默认值创建再合并
func (s *SettingsService) Update(ctx context.Context, req *models.SettingsUpdateRequest) (*models.Settings, error) {
	var settings *models.Settings
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		settings, err = ensureSettings(tx)
		if err != nil {
			return err
		}
		req.ApplyTo(settings)
		return tx.Save(settings).Error
	})
	if err != nil {
		return nil, TranslateError(err, "更新站点设置失败")
	}
	return settings, nil
}

// ensureSettings 读取或创建单例行
// 与并发的首次创建冲突时重新读取已存在的行
func ensureSettings(db *gorm.DB) (*models.Settings, error) {
	settings := models.DefaultSettings()
	err := db.Where(models.Settings{Singleton: models.SettingsSingletonKey}).FirstOrCreate(settings).Error
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	var existing models.Settings
	if err := db.Where("singleton = ?", models.SettingsSingletonKey).First(&existing).Error; err != nil {
		return nil, fmt.Errorf("读取站点设置失败: %w", err)
	}
	return &existing, nil
}
