package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminRole string

const (
	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleSuperAdmin AdminRole = "super_admin"
)

// AdminUser grants administrative rights to a user.
type AdminUser struct {
	UserID uuid.UUID `json:"userId" gorm:"type:uuid;primaryKey"`
	User   User      `json:"user" gorm:"constraint:OnDelete:CASCADE"`
	Timestamps
	Role AdminRole `json:"role" gorm:"not null"`
}

func (a *AdminUser) BeforeSave(_ *gorm.DB) error {
	if a.Role != AdminRoleAdmin && a.Role != AdminRoleSuperAdmin {
		return ErrInvalidAdminRole
	}
	return nil
}
