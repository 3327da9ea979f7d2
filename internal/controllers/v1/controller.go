// Package v1 contains the handlers for the v1 API.
package v1

import (
	"time"

	"github.com/budgetbook/backend/internal/analytics"
	"github.com/budgetbook/backend/internal/auth"
	"github.com/budgetbook/backend/internal/budget"
	"github.com/budgetbook/backend/internal/events"
	"github.com/budgetbook/backend/internal/navigation"
	"github.com/budgetbook/backend/internal/registry"
	"github.com/budgetbook/backend/internal/transactions"
	"gorm.io/gorm"
)

// Controller holds the services the handlers work with.
type Controller struct {
	DB           *gorm.DB
	Gateway      *auth.Gateway
	Admins       *auth.Admins
	Registry     *registry.Registry
	Transactions *transactions.Repository
	Budgets      *budget.Service
	Analytics    *analytics.Service
	Guard        *navigation.Guard

	// Currency is the ISO 4217 code amounts are displayed in
	Currency string
}

// New wires all services on top of db. Dates are interpreted in loc.
func New(db *gorm.DB, provider auth.Provider, reg *registry.Registry, publisher events.Publisher, loc *time.Location, currency string) Controller {
	gateway := auth.NewGateway(provider)
	admins := auth.NewAdmins(db)
	repo := transactions.New(db, reg, publisher, loc)

	return Controller{
		DB:           db,
		Gateway:      gateway,
		Admins:       admins,
		Registry:     reg,
		Transactions: repo,
		Budgets:      budget.New(db, reg, publisher, loc),
		Analytics:    analytics.NewService(repo),
		Guard:        navigation.NewGuard(nil, gateway, admins),
		Currency:     currency,
	}
}

// location returns the location dates are interpreted in.
func (co Controller) location() *time.Location {
	if co.Transactions == nil {
		return time.UTC
	}
	return co.Transactions.Location()
}
