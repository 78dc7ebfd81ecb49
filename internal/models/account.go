package models

import (
	"time"

	"gorm.io/gorm"
)

// Account represents a crew member or admin who can sign in
type Account struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Username        string         `gorm:"uniqueIndex;size:80;not null" json:"username"`
	Email           *string        `gorm:"uniqueIndex;size:120" json:"email,omitempty"`
	DiscordID       *string        `gorm:"uniqueIndex;size:50" json:"discord_id,omitempty"`
	DiscordUsername string         `gorm:"size:100" json:"discord_username,omitempty"`
	HashedPass      string         `gorm:"size:255;not null" json:"-"`
	IsAdmin         bool           `gorm:"not null;default:false" json:"is_admin"`
	LastLogin       time.Time      `json:"last_login"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook is called before creating a new account
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}
	return nil
}

// BeforeSave hook is called before saving the account
func (a *Account) BeforeSave(tx *gorm.DB) error {
	a.UpdatedAt = time.Now()
	return nil
}

// TableName specifies the table name for the Account model
func (Account) TableName() string {
	return "account"
}

// CreateAccountRequest represents the data needed to create a new account
type CreateAccountRequest struct {
	Username string `json:"username" binding:"required,alphanum,min=3,max=80"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the data needed for login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LinkDiscordRequest links or, when both fields are empty, unlinks a Discord account
type LinkDiscordRequest struct {
	DiscordID       string `json:"discord_id"`
	DiscordUsername string `json:"discord_username"`
}
