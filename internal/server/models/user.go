package models

import (
	"time"
)

// User 后台用户
type User struct {
	Base
	Username       string     `json:"username" gorm:"not null;size:50;uniqueIndex"`
	Email          string     `json:"email" gorm:"not null;size:255;uniqueIndex"`
	HashedPassword string     `json:"-" gorm:"not null;size:255"`
	IsActive       bool       `json:"is_active" gorm:"not null"`
	IsAdmin        bool       `json:"is_admin" gorm:"not null"`
	LastLogin      *time.Time `json:"last_login"`
}
