package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User is an account that can sign in with email and password.
type User struct {
	DefaultModel
	Email            string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash     string     `json:"-" gorm:"not null"`
	EmailConfirmedAt *time.Time `json:"emailConfirmedAt"`
	LastSignInAt     *time.Time `json:"lastSignInAt"`
}

// BeforeSave normalizes the email address.
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}
