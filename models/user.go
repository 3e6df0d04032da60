package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a fan account. Passwords are stored as bcrypt hashes only.
// Level is owned by the external leveling system and treated as read-only here;
// it feeds the daily vote quota snapshot.
type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Username      string         `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email         string         `gorm:"size:255" json:"email"`
	PasswordHash  string         `gorm:"size:255" json:"-"`
	WalletAddress string         `gorm:"size:64" json:"wallet_address"`
	Level         int            `gorm:"default:1" json:"level"`
	Points        int            `gorm:"default:0" json:"points"`
	Bio           string         `gorm:"size:255" json:"bio"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if u.Level < 1 {
		u.Level = 1
	}
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
