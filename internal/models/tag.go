package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TagCategory groups the tags of a user.
type TagCategory struct {
	DefaultModel
	UserID uuid.UUID `json:"userId" gorm:"type:uuid;uniqueIndex:tag_category_name;not null"`
	Name   string    `json:"name" gorm:"uniqueIndex:tag_category_name;not null"`
	Tags   []Tag     `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (c *TagCategory) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	return nil
}

// Tag is a free-form label owned by a user.
type Tag struct {
	DefaultModel
	UserID     uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	CategoryID uuid.UUID `json:"categoryId" gorm:"type:uuid;uniqueIndex:tag_name;not null"`
	Name       string    `json:"name" gorm:"uniqueIndex:tag_name;not null"`
}

func (t *Tag) BeforeSave(_ *gorm.DB) error {
	t.Name = strings.TrimSpace(t.Name)
	return nil
}
