package models

import (
	"github.com/budgetbook/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NoSubcategory is the subcategory key of allocations for a main category
// as a whole.
const NoSubcategory = "none"

// Allocation is the amount a user budgets for a category, or one of its
// subcategories, in a month.
type Allocation struct {
	DefaultModel
	UserID               uuid.UUID       `json:"userId" gorm:"type:uuid;uniqueIndex:allocation_key;not null"`
	ExpenseCategoryID    uuid.UUID       `json:"expenseCategoryId" gorm:"type:uuid;uniqueIndex:allocation_key;not null"`
	ExpenseCategory      *MainCategory   `json:"-" gorm:"foreignKey:ExpenseCategoryID;constraint:OnDelete:CASCADE"`
	ExpenseSubcategoryID *uuid.UUID      `json:"expenseSubcategoryId" gorm:"type:uuid"`
	ExpenseSubcategory   *Subcategory    `json:"-" gorm:"foreignKey:ExpenseSubcategoryID;constraint:OnDelete:CASCADE"`
	SubcategoryKey       string          `json:"-" gorm:"uniqueIndex:allocation_key;not null"`
	Month                types.Month     `json:"month" gorm:"uniqueIndex:allocation_key;not null"`
	AllocatedAmount      decimal.Decimal `json:"allocatedAmount" gorm:"type:DECIMAL(20,8)"`
	SpentAmount          decimal.Decimal `json:"spentAmount" gorm:"type:DECIMAL(20,8)"`
}

func (Allocation) TableName() string {
	return "budget_allocations"
}

// AllocationConflictColumns is the upsert key of allocations.
var AllocationConflictColumns = []clause.Column{
	{Name: "user_id"},
	{Name: "expense_category_id"},
	{Name: "subcategory_key"},
	{Name: "month"},
}

// SubcategoryKeyOf returns the value stored in the subcategory_key column.
//
// SQL unique indexes treat NULLs as distinct, so the nullable subcategory
// cannot be part of the upsert key directly.
func SubcategoryKeyOf(id *uuid.UUID) string {
	if id == nil || *id == uuid.Nil {
		return NoSubcategory
	}
	return id.String()
}

// BeforeSave derives the subcategory key from the subcategory.
func (a *Allocation) BeforeSave(_ *gorm.DB) error {
	if a.ExpenseSubcategoryID != nil && *a.ExpenseSubcategoryID == uuid.Nil {
		a.ExpenseSubcategoryID = nil
	}

	a.SubcategoryKey = SubcategoryKeyOf(a.ExpenseSubcategoryID)
	return nil
}
