package v1

import (
	"fmt"

	"github.com/budgetbook/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TagCategoryEditable contains all fields of a tag category a user can set.
type TagCategoryEditable struct {
	Name string `json:"name" validate:"required,max=100" example:"Trips"` // Name of the tag category
}

func (e TagCategoryEditable) model(userID uuid.UUID) models.TagCategory {
	return models.TagCategory{
		UserID: userID,
		Name:   e.Name,
	}
}

// TagEditable contains all fields of a tag a user can set.
type TagEditable struct {
	CategoryID uuid.UUID `json:"categoryId" validate:"required" example:"0b5b4b7e-5e0c-4b3f-8d9b-93e1b33f4a2e"` // ID of the tag category
	Name       string    `json:"name" validate:"required,max=100" example:"Lisbon 2024"`                        // Name of the tag
}

func (e TagEditable) model(userID uuid.UUID) models.Tag {
	return models.Tag{
		UserID:     userID,
		CategoryID: e.CategoryID,
		Name:       e.Name,
	}
}

type TagCategoryLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/tag-categories/0b5b4b7e-5e0c-4b3f-8d9b-93e1b33f4a2e"` // The tag category itself
	Tags string `json:"tags" example:"https://example.com/api/v1/tags?category=0b5b4b7e-5e0c-4b3f-8d9b-93e1b33f4a2e"`  // Tags of the category
}

type TagCategory struct {
	models.TagCategory
	Tags  []models.Tag     `json:"tags"`  // Tags of the category ordered by name
	Links TagCategoryLinks `json:"links"` // Links for the tag category
}

func newTagCategory(c *gin.Context, model models.TagCategory) TagCategory {
	url := c.GetString(string(models.DBContextURL))

	tags := model.Tags
	if tags == nil {
		tags = make([]models.Tag, 0)
	}

	return TagCategory{
		TagCategory: model,
		Tags:        tags,
		Links: TagCategoryLinks{
			Self: fmt.Sprintf("%s/v1/tag-categories/%s", url, model.ID),
			Tags: fmt.Sprintf("%s/v1/tags?category=%s", url, model.ID),
		},
	}
}

type TagCategoryListResponse struct {
	Data  []TagCategory `json:"data"`  // List of tag categories ordered by name
	Error *string       `json:"error"` // The error, if any occurred
}

type TagCategoryResponse struct {
	Data  *TagCategory `json:"data"`                                                         // The tag category
	Error *string      `json:"error" example:"there is no tag category matching your query"` // The error, if any occurred
}

type TagQueryFilter struct {
	CategoryID string `form:"category" example:"0b5b4b7e-5e0c-4b3f-8d9b-93e1b33f4a2e"` // Only tags of this tag category
}

type TagListResponse struct {
	Data  []models.Tag `json:"data"`  // List of tags ordered by name
	Error *string      `json:"error"` // The error, if any occurred
}

type TagResponse struct {
	Data  *models.Tag `json:"data"`                                                // The tag
	Error *string     `json:"error" example:"there is no tag matching your query"` // The error, if any occurred
}
