package models

import "time"

// User represents the user model in the database
type User struct {
	Base
	Login               string     `gorm:"size:50;uniqueIndex;not null" json:"login"`
	Password            string     `gorm:"not null" json:"-"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string     `gorm:"size:64" json:"-"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	Holdings            []Holding  `gorm:"foreignKey:UserID" json:"holdings,omitempty"`
}
