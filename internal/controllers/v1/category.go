package v1

import (
	"fmt"
	"net/http"

	"github.com/budgetbook/backend/internal/httputil"
	"github.com/budgetbook/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errCategoryNotFound = fmt.Errorf("%w category matching your query", models.ErrResourceNotFound)

// RegisterCategoryRoutes registers the routes for the expense categories
// with the RouterGroup that is passed.
func (co Controller) RegisterCategoryRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsCategoryList)
	r.GET("", co.GetCategories)

	r.OPTIONS("/:id", OptionsCategoryDetail)
	r.GET("/:id", co.GetCategory)
}

type Category struct {
	ID            uuid.UUID     `json:"id" example:"1e2f4c5a-4e53-4bb5-9c7a-0b36f1f7c001"` // ID of the main category
	Name          string        `json:"name" example:"Food"`                               // Name of the main category
	Subcategories []CategoryRef `json:"subcategories"`                                     // Subcategories ordered by name
}

func (co Controller) newCategory(model models.MainCategory) Category {
	category := Category{
		ID:            model.ID,
		Name:          model.Name,
		Subcategories: make([]CategoryRef, 0),
	}

	for _, s := range co.Registry.SubcategoriesByMainID(model.ID) {
		category.Subcategories = append(category.Subcategories, CategoryRef{ID: s.ID, Name: s.Name})
	}

	return category
}

type CategoryListResponse struct {
	Data  []Category `json:"data"`  // List of main categories ordered by name
	Error *string    `json:"error"` // The error, if any occurred
}

type CategoryResponse struct {
	Data  *Category `json:"data"`                                                     // The main category
	Error *string   `json:"error" example:"there is no category matching your query"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Router			/v1/categories [options]
func OptionsCategoryList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/categories/{id} [options]
func OptionsCategoryDetail(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get categories
// @Description	Returns all expense categories with their subcategories
// @Tags			Categories
// @Produce		json
// @Success		200	{object}	CategoryListResponse
// @Router			/v1/categories [get]
func (co Controller) GetCategories(c *gin.Context) {
	data := make([]Category, 0)
	for _, category := range co.Registry.MainCategories() {
		data = append(data, co.newCategory(category))
	}

	c.JSON(http.StatusOK, CategoryListResponse{Data: data})
}

// @Summary		Get category
// @Description	Returns a single expense category with its subcategories
// @Tags			Categories
// @Produce		json
// @Success		200	{object}	CategoryResponse
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/categories/{id} [get]
func (co Controller) GetCategory(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abort(c, httputil.ErrInvalidUUID)
		return
	}

	model, ok := co.Registry.MainCategory(uri.ID.UUID)
	if !ok {
		abort(c, errCategoryNotFound)
		return
	}

	data := co.newCategory(model)
	c.JSON(http.StatusOK, CategoryResponse{Data: &data})
}
