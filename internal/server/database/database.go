package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"atii-cms/internal/server/models"
	"atii-cms/internal/shared/config"
	"atii-cms/internal/shared/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open 打开数据库连接并迁移表结构
func Open(cfg *config.ServerConfig) (*gorm.DB, error) {
	dbPath := cfg.Database.Path

	// 确保数据库目录存在
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("创建数据库目录失败: %w", err)
		}
	}

	logLevel := logger.Silent
	if cfg.Database.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// dsn 打开外键约束并设置忙等待
func dsn(path string) string {
	return path + "?_foreign_keys=on&_busy_timeout=5000"
}

// InitDefaultData 初始化默认数据
func InitDefaultData(db *gorm.DB, cfg *config.ServerConfig) error {
	if err := initDefaultAdmin(db, cfg); err != nil {
		return fmt.Errorf("初始化默认管理员失败: %w", err)
	}
	return nil
}

// initDefaultAdmin 用户表为空时创建默认管理员
func initDefaultAdmin(db *gorm.DB, cfg *config.ServerConfig) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("检查用户数量失败: %w", err)
	}

	// 如果已有用户，跳过
	if count > 0 {
		return nil
	}

	hashedPassword, err := utils.HashPassword(cfg.Auth.AdminPassword)
	if err != nil {
		return fmt.Errorf("密码哈希失败: %w", err)
	}

	admin := &models.User{
		Username:       cfg.Auth.AdminUsername,
		Email:          cfg.Auth.AdminEmail,
		HashedPassword: hashedPassword,
		IsActive:       true,
		IsAdmin:        true,
	}

	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("创建默认管理员失败: %w", err)
	}

	log.Printf("创建默认管理员: %s (密码已加密)", admin.Username)
	return nil
}

// Ping 检查数据库连接
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close 关闭数据库连接
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
