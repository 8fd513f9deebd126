package database

import (
	"path/filepath"
	"testing"

	"atii-cms/internal/server/models"
	"atii-cms/internal/shared/config"
	"atii-cms/internal/shared/utils"
)

func TestOpenAndSeedAdmin(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "nested", "cms.db")

	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer Close(db)

	if err := Ping(db); err != nil {
		t.Fatalf("ping: %v", err)
	}

	// 重复执行不会产生第二个管理员
	for i := 0; i < 2; i++ {
		if err := InitDefaultData(db, cfg); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("users = %d, want 1", len(users))
	}
	admin := users[0]
	if admin.Username != cfg.Auth.AdminUsername || !admin.IsAdmin || !admin.IsActive {
		t.Errorf("admin = %+v", admin)
	}
	if !utils.CheckPassword(cfg.Auth.AdminPassword, admin.HashedPassword) {
		t.Error("admin password not hashed from config")
	}
}

func TestForeignKeysEnabled(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "fk.db")

	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer Close(db)

	var enabled int
	if err := db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error; err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if enabled != 1 {
		t.Errorf("foreign_keys = %d", enabled)
	}
}
