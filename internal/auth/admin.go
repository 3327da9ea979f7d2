package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/budgetbook/backend/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AdminStatus describes the administrative rights of a user.
type AdminStatus struct {
	IsAdmin      bool `json:"isAdmin" example:"true"`       // The user is an administrator
	IsSuperAdmin bool `json:"isSuperAdmin" example:"false"` // The user can manage administrators
}

// ErrAdminNotFound is returned when removing a user that is no administrator.
var ErrAdminNotFound = fmt.Errorf("%w administrator matching your query", models.ErrResourceNotFound)

// Admins manages administrators.
type Admins struct {
	db *gorm.DB
}

// NewAdmins returns an administrator manager.
func NewAdmins(db *gorm.DB) *Admins {
	return &Admins{db: db}
}

// CheckAdmin returns the administrative rights of the user. Users without
// an administrator entry have none.
func (a *Admins) CheckAdmin(ctx context.Context, userID uuid.UUID) (AdminStatus, error) {
	var admin models.AdminUser
	err := a.db.WithContext(ctx).Where("user_id = ?", userID).First(&admin).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return AdminStatus{}, nil
	} else if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("user", userID.String()).Msg("checking admin status failed")
		return AdminStatus{}, models.WrapOperation("failed to check admin status", err)
	}

	return AdminStatus{IsAdmin: true, IsSuperAdmin: admin.Role == models.AdminRoleSuperAdmin}, nil
}

func (a *Admins) requireSuperAdmin(ctx context.Context, actor uuid.UUID) error {
	status, err := a.CheckAdmin(ctx, actor)
	if err != nil {
		return err
	}

	if !status.IsSuperAdmin {
		return ErrForbidden
	}
	return nil
}

// List returns all administrators, newest first.
func (a *Admins) List(ctx context.Context, actor uuid.UUID) ([]models.AdminUser, error) {
	if err := a.requireSuperAdmin(ctx, actor); err != nil {
		return nil, err
	}

	admins := make([]models.AdminUser, 0)
	err := a.db.WithContext(ctx).Preload("User").Order("created_at DESC").Find(&admins).Error
	if err != nil {
		return nil, models.WrapOperation("failed to load administrators", err)
	}

	return admins, nil
}

// Add grants the role to a user.
func (a *Admins) Add(ctx context.Context, actor, userID uuid.UUID, role models.AdminRole) (models.AdminUser, error) {
	if err := a.requireSuperAdmin(ctx, actor); err != nil {
		return models.AdminUser{}, err
	}

	return a.Grant(ctx, userID, role)
}

// Grant makes a user an administrator without checking the rights of
// anyone. It is used to set up the first super administrator.
func (a *Admins) Grant(ctx context.Context, userID uuid.UUID, role models.AdminRole) (models.AdminUser, error) {
	if role == "" {
		role = models.AdminRoleAdmin
	}

	admin := models.AdminUser{UserID: userID, Role: role}
	err := a.db.WithContext(ctx).Omit("User").Create(&admin).Error
	if err != nil {
		return models.AdminUser{}, err
	}

	err = a.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&admin).Error
	if err != nil {
		return models.AdminUser{}, models.WrapOperation("failed to load administrator", err)
	}

	log.Ctx(ctx).Info().Str("user", userID.String()).Str("role", string(role)).Msg("administrator added")
	return admin, nil
}

// Remove revokes all administrative rights of a user.
func (a *Admins) Remove(ctx context.Context, actor, userID uuid.UUID) error {
	if err := a.requireSuperAdmin(ctx, actor); err != nil {
		return err
	}

	res := a.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AdminUser{})
	if res.Error != nil {
		return models.WrapOperation("failed to remove administrator", res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrAdminNotFound
	}

	log.Ctx(ctx).Info().Str("user", userID.String()).Msg("administrator removed")
	return nil
}
