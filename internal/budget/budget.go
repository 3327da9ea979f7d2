// Package budget computes the monthly budget of a user.
//
// A month of budget consists of one allocation per main category, used for
// spending without a subcategory, and one allocation per subcategory.
// Allocations that do not exist yet are created with zero amounts when a
// month is first read.
package budget

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/budgetbook/backend/internal/events"
	"github.com/budgetbook/backend/internal/models"
	"github.com/budgetbook/backend/internal/registry"
	"github.com/budgetbook/backend/internal/types"
	"github.com/budgetbook/backend/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Row is a single allocation in a month budget.
type Row struct {
	models.Allocation
	SubcategoryName string `json:"subcategoryName,omitempty" example:"Groceries"` // Name of the subcategory, empty for the main category row
}

// Category is the budget of a main category with its allocations.
type Category struct {
	ID          uuid.UUID       `json:"id" example:"1e2f4c5a-4e53-4bb5-9c7a-0b36f1f7c001"` // ID of the main category
	Name        string          `json:"name" example:"Food"`                               // Name of the main category
	Allocated   decimal.Decimal `json:"allocated" example:"350" swaggertype:"string"`      // Sum of all allocations of the category
	Spent       decimal.Decimal `json:"spent" example:"123.45" swaggertype:"string"`       // Sum of spending in the category
	Allocations []Row           `json:"allocations"`                                       // The main category row first, then subcategories by name
}

// MonthBudget is the complete budget of a user for a month.
type MonthBudget struct {
	Month      types.Month     `json:"month" swaggertype:"string" example:"2024-03-01"` // First day of the month
	Allocated  decimal.Decimal `json:"allocated" example:"1200" swaggertype:"string"`   // Sum of all allocations
	Spent      decimal.Decimal `json:"spent" example:"734.12" swaggertype:"string"`     // Sum of all spending
	Categories []Category      `json:"categories"`                                      // Main categories ordered by name
}

// Amount is a budget amount as sent by clients. Both JSON numbers and
// strings are accepted, the value is checked when it is used.
type Amount string

// UnmarshalJSON implements the json.Unmarshaler interface.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Amount(s)
		return nil
	}

	*a = Amount(data)
	return nil
}

// Decimal parses the amount.
func (a Amount) Decimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(string(a)))
	if err != nil {
		return decimal.Zero, validation.NewError("amount", "amount must be numeric")
	}
	return d, nil
}

// BudgetUpdate sets the allocated amount for a category or subcategory
// in a month.
type BudgetUpdate struct {
	UserID        uuid.UUID  `json:"-"`
	CategoryID    uuid.UUID  `json:"categoryId" example:"1e2f4c5a-4e53-4bb5-9c7a-0b36f1f7c001"`    // ID of the main category
	SubcategoryID *uuid.UUID `json:"subcategoryId" example:"7d0d2f5e-7f55-4a36-8e65-0a4b1f4e2b10"` // ID of the subcategory, omit for the main category row
	Month         string     `json:"month" example:"2024-03"`                                      // Month in YYYY-MM, YYYY-MM-DD or RFC 3339 format
	Amount        Amount     `json:"amount" swaggertype:"string" example:"250.00"`                 // Allocated amount as number or string
}

// Service computes and updates budgets.
type Service struct {
	db        *gorm.DB
	registry  *registry.Registry
	publisher events.Publisher
	location  *time.Location
}

// New returns a budget service. Months are delimited in loc.
func New(db *gorm.DB, reg *registry.Registry, publisher events.Publisher, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}

	if publisher == nil {
		publisher = events.Noop{}
	}

	return &Service{db: db, registry: reg, publisher: publisher, location: loc}
}

func parseMonth(month string) (types.Month, error) {
	m, err := types.ParseMonth(month)
	if err != nil {
		return types.Month{}, validation.NewError("month", "invalid date format")
	}
	return m, nil
}

// ComputeBudgets returns the budget of the user for the month.
//
// Missing allocations are created and spent amounts are reconciled with
// the transactions of the month in a single database transaction before
// the budget is returned.
func (s *Service) ComputeBudgets(ctx context.Context, userID uuid.UUID, month string) (MonthBudget, error) {
	if userID == uuid.Nil {
		return MonthBudget{}, models.ErrNoUser
	}

	m, err := parseMonth(month)
	if err != nil {
		return MonthBudget{}, err
	}

	return s.compute(ctx, userID, m)
}

func (s *Service) compute(ctx context.Context, userID uuid.UUID, m types.Month) (MonthBudget, error) {
	pairs := s.registry.Pairs()

	var allocations []models.Allocation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.allocations(tx, userID, m)
		if err != nil {
			return err
		}

		if err := s.backfill(tx, userID, m, pairs, existing); err != nil {
			return err
		}

		spent, err := s.spent(tx, userID, m)
		if err != nil {
			return err
		}

		allocations, err = s.allocations(tx, userID, m)
		if err != nil {
			return err
		}

		return s.reconcile(tx, allocations, spent)
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("user", userID.String()).Str("month", m.String()).Msg("computing budgets failed")
		return MonthBudget{}, models.WrapOperation("failed to load budgets", err)
	}

	return s.rollup(m, allocations), nil
}

func (s *Service) allocations(tx *gorm.DB, userID uuid.UUID, m types.Month) ([]models.Allocation, error) {
	var allocations []models.Allocation
	err := tx.Where("user_id = ? AND month = ?", userID, m).Find(&allocations).Error
	return allocations, err
}

func key(categoryID uuid.UUID, subcategoryID *uuid.UUID) string {
	return registry.Pair{CategoryID: categoryID, SubcategoryID: subcategoryID}.Key()
}

// backfill creates zero allocations for all pairs that have none yet.
func (s *Service) backfill(tx *gorm.DB, userID uuid.UUID, m types.Month, pairs []registry.Pair, existing []models.Allocation) error {
	have := make(map[string]bool, len(existing))
	for _, a := range existing {
		have[key(a.ExpenseCategoryID, a.ExpenseSubcategoryID)] = true
	}

	missing := make([]models.Allocation, 0)
	for _, p := range pairs {
		if have[p.Key()] {
			continue
		}

		missing = append(missing, models.Allocation{
			UserID:               userID,
			ExpenseCategoryID:    p.CategoryID,
			ExpenseSubcategoryID: p.SubcategoryID,
			Month:                m,
			AllocatedAmount:      decimal.Zero,
			SpentAmount:          decimal.Zero,
		})
	}

	if len(missing) == 0 {
		return nil
	}

	log.Debug().Str("user", userID.String()).Str("month", m.String()).Int("count", len(missing)).Msg("creating missing allocations")
	return tx.
		Clauses(clause.OnConflict{Columns: models.AllocationConflictColumns, DoNothing: true}).
		Omit(clause.Associations).
		Create(&missing).Error
}

// spent sums the absolute amounts of the transactions in the month per
// category and subcategory.
func (s *Service) spent(tx *gorm.DB, userID uuid.UUID, m types.Month) (map[string]decimal.Decimal, error) {
	start, end := m.Range(s.location)

	var transactions []models.Transaction
	err := tx.
		Select("expense_category_id", "expense_subcategory_id", "amount").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start.UTC(), end.UTC()).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	spent := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		k := key(t.ExpenseCategoryID, t.ExpenseSubcategoryID)
		spent[k] = spent[k].Add(t.Amount.Abs())
	}

	return spent, nil
}

// reconcile stores spent amounts that differ from the computed ones.
func (s *Service) reconcile(tx *gorm.DB, allocations []models.Allocation, spent map[string]decimal.Decimal) error {
	for i := range allocations {
		a := &allocations[i]
		amount := spent[key(a.ExpenseCategoryID, a.ExpenseSubcategoryID)]
		if a.SpentAmount.Equal(amount) {
			continue
		}

		err := tx.Model(&models.Allocation{}).Where("id = ?", a.ID).UpdateColumn("spent_amount", amount).Error
		if err != nil {
			return err
		}
		a.SpentAmount = amount
	}

	return nil
}

func (s *Service) rollup(m types.Month, allocations []models.Allocation) MonthBudget {
	byKey := make(map[string]models.Allocation, len(allocations))
	for _, a := range allocations {
		byKey[key(a.ExpenseCategoryID, a.ExpenseSubcategoryID)] = a
	}

	result := MonthBudget{
		Month:      m,
		Allocated:  decimal.Zero,
		Spent:      decimal.Zero,
		Categories: make([]Category, 0),
	}

	for _, c := range s.registry.MainCategories() {
		category := Category{
			ID:          c.ID,
			Name:        c.Name,
			Allocated:   decimal.Zero,
			Spent:       decimal.Zero,
			Allocations: make([]Row, 0),
		}

		add := func(a models.Allocation, name string) {
			category.Allocations = append(category.Allocations, Row{Allocation: a, SubcategoryName: name})
			category.Allocated = category.Allocated.Add(a.AllocatedAmount)
			category.Spent = category.Spent.Add(a.SpentAmount)
		}

		if a, ok := byKey[key(c.ID, nil)]; ok {
			add(a, "")
		}

		for _, sub := range s.registry.SubcategoriesByMainID(c.ID) {
			id := sub.ID
			if a, ok := byKey[key(c.ID, &id)]; ok {
				add(a, sub.Name)
			}
		}

		result.Allocated = result.Allocated.Add(category.Allocated)
		result.Spent = result.Spent.Add(category.Spent)
		result.Categories = append(result.Categories, category)
	}

	return result
}

// UpdateBudget sets the allocated amount and returns the updated month.
// A second update for the same category, subcategory and month
// overwrites the first.
func (s *Service) UpdateBudget(ctx context.Context, update BudgetUpdate) (MonthBudget, error) {
	if update.UserID == uuid.Nil {
		return MonthBudget{}, models.ErrNoUser
	}

	amount, err := update.Amount.Decimal()
	if err != nil {
		return MonthBudget{}, err
	}

	m, err := parseMonth(update.Month)
	if err != nil {
		return MonthBudget{}, err
	}

	if err := s.registry.Resolve(update.CategoryID, update.SubcategoryID); err != nil {
		return MonthBudget{}, err
	}

	allocation := models.Allocation{
		UserID:               update.UserID,
		ExpenseCategoryID:    update.CategoryID,
		ExpenseSubcategoryID: update.SubcategoryID,
		Month:                m,
		AllocatedAmount:      amount,
		SpentAmount:          decimal.Zero,
	}

	var stored models.Allocation
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Clauses(clause.OnConflict{
				Columns:   models.AllocationConflictColumns,
				DoUpdates: clause.AssignmentColumns([]string{"allocated_amount", "updated_at"}),
			}).
			Omit(clause.Associations).
			Create(&allocation).Error
		if err != nil {
			return err
		}

		return tx.
			Where("user_id = ? AND expense_category_id = ? AND subcategory_key = ? AND month = ?",
				update.UserID, update.CategoryID, models.SubcategoryKeyOf(update.SubcategoryID), m).
			First(&stored).Error
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("user", update.UserID.String()).Str("month", m.String()).Msg("updating budget failed")
		if errors.Is(err, models.ErrReferenceNotFound) {
			return MonthBudget{}, err
		}
		return MonthBudget{}, models.WrapOperation("failed to update budget", err)
	}

	events.Emit(ctx, s.publisher, events.New(events.BudgetUpdated, update.UserID, stored.ID))
	return s.compute(ctx, update.UserID, m)
}
