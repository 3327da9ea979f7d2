package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile holds the display data for a user.
type Profile struct {
	UserID uuid.UUID `json:"userId" gorm:"type:uuid;primaryKey"`
	User   User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Timestamps
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DisplayName string `json:"displayName"`
}

func (p *Profile) BeforeSave(_ *gorm.DB) error {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.DisplayName = strings.TrimSpace(p.DisplayName)
	return nil
}
