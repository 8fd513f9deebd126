package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig 服务端配置
type ServerConfig struct {
	App struct {
		Name           string        `yaml:"name"`
		Version        string        `yaml:"version"`
		Mode           string        `yaml:"mode"`
		Listen         string        `yaml:"listen"`
		APIPrefix      string        `yaml:"api_prefix"`
		ReadTimeout    time.Duration `yaml:"read_timeout"`
		WriteTimeout   time.Duration `yaml:"write_timeout"`
		IdleTimeout    time.Duration `yaml:"idle_timeout"`
		MaxHeaderBytes int           `yaml:"max_header_bytes"`
	} `yaml:"app"`

	Database struct {
		Type  string `yaml:"type"`
		Path  string `yaml:"path"`
		Debug bool   `yaml:"debug"`
	} `yaml:"database"`

	Auth struct {
		AdminUsername string        `yaml:"admin_username"`
		AdminEmail    string        `yaml:"admin_email"`
		AdminPassword string        `yaml:"admin_password"`
		JWTSecret     string        `yaml:"jwt_secret"`
		Issuer        string        `yaml:"issuer"`
		AccessExpiry  time.Duration `yaml:"access_expiry"`
	} `yaml:"auth"`

	CORS struct {
		AllowOrigins []string `yaml:"allow_origins"`
	} `yaml:"cors"`
}

// 环境变量覆盖项
const (
	EnvJWTSecret     = "CMS_JWT_SECRET"
	EnvDatabasePath  = "CMS_DATABASE_PATH"
	EnvListen        = "CMS_LISTEN"
	EnvAdminPassword = "CMS_ADMIN_PASSWORD"
)

// Default 返回带默认值的配置
func Default() *ServerConfig {
	config := &ServerConfig{}

	config.App.Name = "ATII Backend API"
	config.App.Version = "1.0.0"
	config.App.Mode = "release"
	config.App.Listen = ":8000"
	config.App.APIPrefix = "/api/v1"
	config.App.ReadTimeout = 15 * time.Second
	config.App.WriteTimeout = 15 * time.Second
	config.App.IdleTimeout = 60 * time.Second
	config.App.MaxHeaderBytes = 1
	config.Database.Type = "sqlite"
	config.Database.Path = "data/atii.db"
	config.Auth.AdminUsername = "admin"
	config.Auth.AdminEmail = "admin@example.com"
	config.Auth.AdminPassword = "admin123"
	config.Auth.JWTSecret = "your-secret-key-change-in-production-use-env-variable"
	config.Auth.Issuer = "atii-cms"
	config.Auth.AccessExpiry = 30 * time.Minute
	config.CORS.AllowOrigins = []string{
		"http://localhost:5173",
		"http://localhost:3000",
		"http://127.0.0.1:5173",
		"http://127.0.0.1:3000",
	}

	return config
}

// findConfigFile 智能查找配置文件
func findConfigFile(filename string) (string, error) {
	candidates := []string{
		filename,
		filepath.Join("configs", filename),
		filepath.Join("..", filename),
		filepath.Join("..", "configs", filename),
		filepath.Join("../..", "configs", filename),
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return candidate, nil
			}
			return abs, nil
		}
	}

	return "", fmt.Errorf("配置文件 %s 未找到，已搜索路径: %v", filename, candidates)
}

// LoadServerConfig 加载服务器配置
// configPath 为空时只使用默认值和环境变量
func LoadServerConfig(configPath string) (*ServerConfig, error) {
	config := Default()

	if configPath != "" {
		actualPath, err := findConfigFile(configPath)
		if err != nil {
			return nil, err
		}

		data, err := os.ReadFile(actualPath)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnv 用环境变量覆盖敏感配置
func (c *ServerConfig) applyEnv() {
	if v := os.Getenv(EnvJWTSecret); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv(EnvDatabasePath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		c.App.Listen = v
	}
	if v := os.Getenv(EnvAdminPassword); v != "" {
		c.Auth.AdminPassword = v
	}
	if os.Getenv("DB_DEBUG") == "true" {
		c.Database.Debug = true
	}
}

// Validate 验证必需配置
func (c *ServerConfig) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth.jwt_secret 不能为空")
	}
	if c.Auth.AccessExpiry <= 0 {
		return fmt.Errorf("auth.access_expiry 必须大于0")
	}
	switch c.App.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("app.mode 必须为 debug、release 或 test: %s", c.App.Mode)
	}
	if c.Database.Type != "sqlite" {
		return fmt.Errorf("不支持的数据库类型: %s", c.Database.Type)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path 不能为空")
	}
	return nil
}
