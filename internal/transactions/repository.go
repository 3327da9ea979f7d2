// Package transactions stores the transactions of users.
//
// Every query is scoped to the acting user: reads and writes always carry
// an equality predicate on user_id, so a user can never observe or modify
// another user's transactions.
package transactions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/budgetbook/backend/internal/events"
	"github.com/budgetbook/backend/internal/models"
	"github.com/budgetbook/backend/internal/registry"
	"github.com/budgetbook/backend/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrTransactionNotFound is returned when no transaction with the ID exists
// for the acting user.
var ErrTransactionNotFound = fmt.Errorf("%w transaction matching your query", models.ErrResourceNotFound)

// DateRange filters transactions by date. Start is inclusive from the
// beginning of its day, End is inclusive through 23:59:59.999 of its day.
// Zero values leave the respective side unbounded.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Editable contains all fields of a transaction a user can set.
type Editable struct {
	Date                 time.Time       `json:"date" example:"2024-03-15T14:30:00Z"`                                                  // Date of the transaction
	Description          string          `json:"description" validate:"max=500" example:"Weekly groceries"`                            // Free text description
	Amount               decimal.Decimal `json:"amount" example:"-42.50" swaggertype:"string"`                                         // Signed amount, expenses are negative
	ExpenseCategoryID    uuid.UUID       `json:"expenseCategoryId" validate:"required" example:"1e2f4c5a-4e53-4bb5-9c7a-0b36f1f7c001"` // ID of the main category
	ExpenseSubcategoryID *uuid.UUID      `json:"expenseSubcategoryId" example:"7d0d2f5e-7f55-4a36-8e65-0a4b1f4e2b10"`                  // ID of the subcategory, optional
}

func (e Editable) model(userID uuid.UUID) models.Transaction {
	subcategoryID := e.ExpenseSubcategoryID
	if subcategoryID != nil && *subcategoryID == uuid.Nil {
		subcategoryID = nil
	}

	return models.Transaction{
		UserID:               userID,
		Date:                 e.Date.UTC(),
		Description:          strings.TrimSpace(e.Description),
		Amount:               e.Amount,
		ExpenseCategoryID:    e.ExpenseCategoryID,
		ExpenseSubcategoryID: subcategoryID,
	}
}

// Repository reads and writes transactions.
type Repository struct {
	db        *gorm.DB
	registry  *registry.Registry
	publisher events.Publisher
	location  *time.Location
}

// New returns a repository. Date ranges are interpreted in loc.
func New(db *gorm.DB, reg *registry.Registry, publisher events.Publisher, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}

	if publisher == nil {
		publisher = events.Noop{}
	}

	return &Repository{db: db, registry: reg, publisher: publisher, location: loc}
}

// Location returns the location date ranges are interpreted in.
func (r *Repository) Location() *time.Location {
	return r.location
}

// Bounds returns the instants the date range covers.
func (r *Repository) Bounds(dr DateRange) (start, end time.Time) {
	if !dr.Start.IsZero() {
		y, m, d := dr.Start.In(r.location).Date()
		start = time.Date(y, m, d, 0, 0, 0, 0, r.location).UTC()
	}

	if !dr.End.IsZero() {
		y, m, d := dr.End.In(r.location).Date()
		end = time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), r.location).UTC()
	}

	return start, end
}

func (r *Repository) scoped(ctx context.Context, userID uuid.UUID, dr DateRange) *gorm.DB {
	q := r.db.WithContext(ctx).
		Preload("ExpenseCategory").
		Preload("ExpenseSubcategory").
		Where("user_id = ?", userID)

	start, end := r.Bounds(dr)
	if !start.IsZero() {
		q = q.Where("date >= ?", start)
	}

	if !end.IsZero() {
		q = q.Where("date <= ?", end)
	}

	return q
}

// List returns the transactions of the user in the date range, newest first.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, dr DateRange) ([]models.Transaction, error) {
	return r.list(ctx, userID, dr, "date DESC, created_at DESC")
}

// ListAscending returns the transactions of the user in the date range,
// oldest first.
func (r *Repository) ListAscending(ctx context.Context, userID uuid.UUID, dr DateRange) ([]models.Transaction, error) {
	return r.list(ctx, userID, dr, "date ASC, created_at ASC")
}

func (r *Repository) list(ctx context.Context, userID uuid.UUID, dr DateRange, order string) ([]models.Transaction, error) {
	if userID == uuid.Nil {
		return nil, models.ErrNoUser
	}

	if !dr.Start.IsZero() && !dr.End.IsZero() && dr.End.Before(dr.Start) {
		return nil, validation.NewError("endDate", "end date must not be before start date")
	}

	transactions := make([]models.Transaction, 0)
	err := r.scoped(ctx, userID, dr).Order(order).Find(&transactions).Error
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("user", userID.String()).Msg("listing transactions failed")
		return nil, models.WrapOperation("failed to load transactions", err)
	}

	return transactions, nil
}

// Get returns a single transaction of the user.
func (r *Repository) Get(ctx context.Context, userID, id uuid.UUID) (models.Transaction, error) {
	if userID == uuid.Nil {
		return models.Transaction{}, models.ErrNoUser
	}

	var transaction models.Transaction
	err := r.scoped(ctx, userID, DateRange{}).Where("id = ?", id).First(&transaction).Error
	if err != nil {
		if errors.Is(err, models.ErrResourceNotFound) {
			return models.Transaction{}, ErrTransactionNotFound
		}
		return models.Transaction{}, models.WrapOperation("failed to load transaction", err)
	}

	return transaction, nil
}

func (r *Repository) check(e Editable) error {
	if err := validation.Struct(e).Err(); err != nil {
		return err
	}

	return r.registry.Resolve(e.ExpenseCategoryID, e.ExpenseSubcategoryID)
}

// Create stores a new transaction for the user.
func (r *Repository) Create(ctx context.Context, userID uuid.UUID, e Editable) (models.Transaction, error) {
	if userID == uuid.Nil {
		return models.Transaction{}, models.ErrNoUser
	}

	if err := r.check(e); err != nil {
		return models.Transaction{}, err
	}

	transaction := e.model(userID)
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&transaction).Error
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("user", userID.String()).Msg("creating transaction failed")
		return models.Transaction{}, models.WrapOperation("failed to create transaction", err)
	}

	events.Emit(ctx, r.publisher, events.New(events.TransactionCreated, userID, transaction.ID))
	return r.Get(ctx, userID, transaction.ID)
}

// Update replaces all editable fields of a transaction of the user.
//
// The update is predicated on both the ID and the user. If no row
// matches, ErrTransactionNotFound is returned.
func (r *Repository) Update(ctx context.Context, userID, id uuid.UUID, e Editable) (models.Transaction, error) {
	if userID == uuid.Nil {
		return models.Transaction{}, models.ErrNoUser
	}

	if err := r.check(e); err != nil {
		return models.Transaction{}, err
	}

	update := e.model(userID)
	res := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND user_id = ?", id, userID).
		Select("date", "description", "amount", "expense_category_id", "expense_subcategory_id", "updated_at").
		Omit(clause.Associations).
		Updates(&update)
	if res.Error != nil {
		log.Ctx(ctx).Error().Err(res.Error).Str("user", userID.String()).Str("id", id.String()).Msg("updating transaction failed")
		return models.Transaction{}, models.WrapOperation("failed to update transaction", res.Error)
	}

	if res.RowsAffected == 0 {
		return models.Transaction{}, ErrTransactionNotFound
	}

	events.Emit(ctx, r.publisher, events.New(events.TransactionUpdated, userID, id))
	return r.Get(ctx, userID, id)
}

// Delete removes a transaction of the user.
func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil {
		return models.ErrNoUser
	}

	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Transaction{})
	if res.Error != nil {
		log.Ctx(ctx).Error().Err(res.Error).Str("user", userID.String()).Str("id", id.String()).Msg("deleting transaction failed")
		return models.WrapOperation("failed to delete transaction", res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrTransactionNotFound
	}

	events.Emit(ctx, r.publisher, events.New(events.TransactionDeleted, userID, id))
	return nil
}
