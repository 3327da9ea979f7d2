package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MainCategory is the top level of the expense taxonomy. Categories are
// reference data shared by all users.
type MainCategory struct {
	DefaultModel
	Name          string        `json:"name" gorm:"uniqueIndex;not null"`
	Subcategories []Subcategory `json:"-" gorm:"foreignKey:MainCategoryID;constraint:OnDelete:CASCADE"`
}

func (MainCategory) TableName() string {
	return "expense_main_categories"
}

func (c *MainCategory) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	return nil
}

// Subcategory is the second level of the expense taxonomy.
type Subcategory struct {
	DefaultModel
	MainCategoryID uuid.UUID `json:"mainCategoryId" gorm:"type:uuid;uniqueIndex:subcategory_name;not null"`
	Name           string    `json:"name" gorm:"uniqueIndex:subcategory_name;not null"`
}

func (Subcategory) TableName() string {
	return "expense_subcategories"
}

func (s *Subcategory) BeforeSave(_ *gorm.DB) error {
	s.Name = strings.TrimSpace(s.Name)
	return nil
}
