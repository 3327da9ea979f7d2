package v1

import (
	"context"
	"net/http"

	"github.com/budgetbook/backend/internal/httputil"
	"github.com/budgetbook/backend/internal/models"
	"github.com/budgetbook/backend/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RegisterTagCategoryRoutes registers the routes for tag categories with
// the RouterGroup that is passed.
func (co Controller) RegisterTagCategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTagCategoryList)
		r.GET("", co.GetTagCategories)
		r.POST("", co.CreateTagCategory)
	}

	// Tag category with ID
	{
		r.OPTIONS("/:id", OptionsTagCategoryDetail)
		r.GET("/:id", co.GetTagCategory)
		r.PATCH("/:id", co.UpdateTagCategory)
		r.DELETE("/:id", co.DeleteTagCategory)
	}
}

// RegisterTagRoutes registers the routes for tags with
// the RouterGroup that is passed.
func (co Controller) RegisterTagRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTagList)
		r.GET("", co.GetTags)
		r.POST("", co.CreateTag)
	}

	// Tag with ID
	{
		r.OPTIONS("/:id", OptionsTagDetail)
		r.GET("/:id", co.GetTag)
		r.PATCH("/:id", co.UpdateTag)
		r.DELETE("/:id", co.DeleteTag)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Tags
// @Success		204
// @Router			/v1/tag-categories [options]
func OptionsTagCategoryList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Tags
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/tag-categories/{id} [options]
func OptionsTagCategoryDetail(c *gin.Context) {
	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Tags
// @Success		204
// @Router			/v1/tags [options]
func OptionsTagList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Tags
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/tags/{id} [options]
func OptionsTagDetail(c *gin.Context) {
	httputil.OptionsGetPatchDelete(c)
}

// tagCategory loads a tag category of the user with its tags.
func (co Controller) tagCategory(ctx context.Context, user, id uuid.UUID) (models.TagCategory, error) {
	var category models.TagCategory
	err := co.DB.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Where("user_id = ?", user).Order("name ASC")
		}).
		Where("id = ? AND user_id = ?", id, user).
		First(&category).Error
	return category, err
}

// tag loads a tag of the user.
func (co Controller) tag(ctx context.Context, user, id uuid.UUID) (models.Tag, error) {
	var tag models.Tag
	err := co.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, user).First(&tag).Error
	return tag, err
}

// @Summary		Get tag categories
// @Description	Returns the tag categories of the user with their tags
// @Tags			Tags
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	TagCategoryListResponse
// @Failure		401	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/tag-categories [get]
func (co Controller) GetTagCategories(c *gin.Context) {
	user := userID(c)

	var categories []models.TagCategory
	err := co.DB.WithContext(c.Request.Context()).
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Where("user_id = ?", user).Order("name ASC")
		}).
		Where("user_id = ?", user).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		abort(c, err)
		return
	}

	data := make([]TagCategory, 0, len(categories))
	for _, category := range categories {
		data = append(data, newTagCategory(c, category))
	}

	c.JSON(http.StatusOK, TagCategoryListResponse{Data: data})
}

// @Summary		Get tag category
// @Description	Returns a single tag category of the user with its tags
// @Tags			Tags
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	TagCategoryResponse
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/tag-categories/{id} [get]
func (co Controller) GetTagCategory(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abort(c, httputil.ErrInvalidUUID)
		return
	}

	category, err := co.tagCategory(c.Request.Context(), userID(c), uri.ID.UUID)
	if err != nil {
		abort(c, err)
		return
	}

	data := newTagCategory(c, category)
	c.JSON(http.StatusOK, TagCategoryResponse{Data: &data})
}

// @Summary		Create tag category
// @Description	Creates a tag category for the user
// @Tags			Tags
// @Produce		json
// @Security		BearerAuth
// @Success		201			{object}	TagCategoryResponse
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Failure		409			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			category	body		TagCategoryEditable	true	"Tag category"
// @Router			/v1/tag-categories [post]
func (co Controller) CreateTagCategory(c *gin.Context) {
	var editable TagCategoryEditable
	if err := httputil.BindData(c, &editable); err != nil {
		abort(c, err)
		return
	}

	if err := validation.Struct(editable).Err(); err != nil {
		abort(c, err)
		return
	}

	category := editable.model(userID(c))
	err := co.DB.WithContext(c.Request.Context()).Omit(clause.Associations).Create(&category).Error
	if err != nil {
		abort(c, err)
		return
	}

	data := newTagCategory(c, category)
	c.JSON(http.StatusCreated, TagCategoryResponse{Data: &data})
}

// @Summary		Update tag category
// @Description	Renames a tag category of the user
// @Tags			Tags
// @Produce		json
// @Security		BearerAuth
// @Success		200			{object}	TagCategoryResponse
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Failure		404			{object}	httpError
// @Failure		409			{object}	httpError
// @Param			id			path		URIID				true	"ID formatted as string"
// @Param			category	body		TagCategoryEditable	true	"Tag category"
// @Router			/v1/tag-categories/{id} [patch]
func (co Controller) UpdateTagCategory(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abort(c, httputil.ErrInvalidUUID)
		return
	}

	var editable TagCategoryEditable
	if err := httputil.BindData(c, &editable); err != nil {
		abort(c, err)
		return
	}

	if err := validation.Struct(editable).Err(); err != nil {
		abort(c, err)
		return
	}

	user := userID(c)
	category, err := co.tagCategory(c.Request.Context(), user, uri.ID.UUID)
	if err != nil {
		abort(c, err)
		return
	}

	err = co.DB.WithContext(c.Request.Context()).
		Model(&category).
		Where("user_id = ?", user).
		Select("Name").
		Omit(clause.Associations).
		Updates(editable.model(user)).Error
	if err != nil {
		abort(c, err)
		return
	}

	category, err = co.tagCategory(c.Request.Context(), user, uri.ID.UUID)
	if err != nil {
		abort(c, err)
		return
	}

	data := newTagCategory(c, category)
	c.JSON(http.StatusOK, TagCategoryResponse{Data: &data})
}

// @Summary		Delete tag category
// @Description	Deletes a tag category of the user and all of its tags
// @Tags			Tags
// @Security		BearerAuth
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/tag-categories/{id} [delete]
func (co Controller) DeleteTagCategory(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abort(c, httputil.ErrInvalidUUID)
		return
	}

	user := userID(c)
	err := co.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var category models.TagCategory
		if err := tx.Where("id = ? AND user_id = ?", uri.ID.UUID, user).First(&category).Error; err != nil {
			return err
		}

		if err := tx.Where("category_id = ? AND user_id = ?", category.ID, user).Delete(&models.Tag{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ? AND user_id = ?", category.ID, user).Delete(&models.TagCategory{}).Error
	})
	if err != nil {
		abort(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Get tags
// @Description	Returns the tags of the user
// @Tags			Tags
// @Produce		json
// @Security		BearerAuth
// @Success		200			{object}	TagListResponse
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			category	query		string	false	"Filter by tag category ID"
// @Router			/v1/tags [get]
func (co Controller) GetTags(c *gin.Context) {
	var filter TagQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abort(c, err)
		return
	}

	q := co.DB.WithContext(c.Request.Context()).
		Where("user_id = ?", userID(c)).
		Order("name ASC")

	if filter.CategoryID != "" {
		id, err := uuid.Parse(filter.CategoryID)
		if err != nil {
			abort(c, httputil.ErrInvalidUUID)
			return
		}
		q = q.Where("category_id = ?", id)
	}

	tags := make([]models.Tag, 0)
	if err := q.Find(&tags).Error; err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, TagListResponse{Data: tags})
}

// @Summary		Get tag
// @Description	Returns a single tag of the user
// @Tags			Tags
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	TagResponse
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/tags/{id} [get]
func (co Controller) GetTag(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abort(c, httputil.ErrInvalidUUID)
		return
	}

	tag, err := co.tag(c.Request.Context(), userID(c), uri.ID.UUID)
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, TagResponse{Data: &tag})
}

// @Summary		Create tag
// @Description	Creates a tag in a tag category of the user
// @Tags			Tags
// @Produce		json
// @Security		BearerAuth
// @Success		201	{object}	TagResponse
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		409	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			tag	body		TagEditable	true	"Tag"
// @Router			/v1/tags [post]
func (co Controller) CreateTag(c *gin.Context) {
	var editable TagEditable
	if err := httputil.BindData(c, &editable); err != nil {
		abort(c, err)
		return
	}

	if err := validation.Struct(editable).Err(); err != nil {
		abort(c, err)
		return
	}

	user := userID(c)

	// The tag category must belong to the user
	if _, err := co.tagCategory(c.Request.Context(), user, editable.CategoryID); err != nil {
		abort(c, err)
		return
	}

	tag := editable.model(user)
	if err := co.DB.WithContext(c.Request.Context()).Create(&tag).Error; err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, TagResponse{Data: &tag})
}

// @Summary		Update tag
// @Description	Updates a tag of the user. Only values to be updated need to be specified.
// @Tags			Tags
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	TagResponse
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		409	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID		true	"ID formatted as string"
// @Param			tag	body		TagEditable	true	"Tag"
// @Router			/v1/tags/{id} [patch]
func (co Controller) UpdateTag(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abort(c, httputil.ErrInvalidUUID)
		return
	}

	user := userID(c)
	tag, err := co.tag(c.Request.Context(), user, uri.ID.UUID)
	if err != nil {
		abort(c, err)
		return
	}

	updateFields, err := httputil.GetBodyFields(c, TagEditable{})
	if err != nil {
		abort(c, err)
		return
	}

	// Start from the stored values so that validation only fails for
	// fields that are set
	editable := TagEditable{CategoryID: tag.CategoryID, Name: tag.Name}
	if err := httputil.BindData(c, &editable); err != nil {
		abort(c, err)
		return
	}

	if err := validation.Struct(editable).Err(); err != nil {
		abort(c, err)
		return
	}

	if slices.Contains(updateFields, any("CategoryID")) {
		if _, err := co.tagCategory(c.Request.Context(), user, editable.CategoryID); err != nil {
			abort(c, err)
			return
		}
	}

	if len(updateFields) > 0 {
		err = co.DB.WithContext(c.Request.Context()).
			Model(&tag).
			Where("user_id = ?", user).
			Select("", updateFields...).
			Updates(editable.model(user)).Error
		if err != nil {
			abort(c, err)
			return
		}
	}

	tag, err = co.tag(c.Request.Context(), user, uri.ID.UUID)
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, TagResponse{Data: &tag})
}

// @Summary		Delete tag
// @Description	Deletes a tag of the user
// @Tags			Tags
// @Security		BearerAuth
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/tags/{id} [delete]
func (co Controller) DeleteTag(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abort(c, httputil.ErrInvalidUUID)
		return
	}

	user := userID(c)
	tag, err := co.tag(c.Request.Context(), user, uri.ID.UUID)
	if err != nil {
		abort(c, err)
		return
	}

	if err := co.DB.WithContext(c.Request.Context()).Where("user_id = ?", user).Delete(&tag).Error; err != nil {
		abort(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
