package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is a single income or expense of a user.
type Transaction struct {
	DefaultModel
	UserID               uuid.UUID       `json:"userId" gorm:"type:uuid;index;not null"`
	Date                 time.Time       `json:"date" gorm:"index"`
	Description          string          `json:"description"`
	Amount               decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"`
	ExpenseCategoryID    uuid.UUID       `json:"expenseCategoryId" gorm:"type:uuid;not null"`
	ExpenseCategory      *MainCategory   `json:"-" gorm:"foreignKey:ExpenseCategoryID;constraint:OnDelete:RESTRICT"`
	ExpenseSubcategoryID *uuid.UUID      `json:"expenseSubcategoryId" gorm:"type:uuid"`
	ExpenseSubcategory   *Subcategory    `json:"-" gorm:"foreignKey:ExpenseSubcategoryID;constraint:OnDelete:SET NULL"`
}

// AfterFind enforces dates to be in UTC.
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	err = t.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	t.Date = t.Date.In(time.UTC)
	return nil
}

// BeforeSave
//   - sets the timezone for the Date to UTC
//   - ensures that the subcategory is nil and not a pointer to a nil UUID
//   - trims whitespace from the description
func (t *Transaction) BeforeSave(_ *gorm.DB) (err error) {
	t.Description = strings.TrimSpace(t.Description)

	if t.ExpenseSubcategoryID != nil && *t.ExpenseSubcategoryID == uuid.Nil {
		t.ExpenseSubcategoryID = nil
	}

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	return nil
}

// CategoryName returns the name of the joined category or an empty string
// if it was not loaded.
func (t Transaction) CategoryName() string {
	if t.ExpenseCategory == nil {
		return ""
	}
	return t.ExpenseCategory.Name
}
