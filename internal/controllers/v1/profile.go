package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/budgetbook/backend/internal/httputil"
	"github.com/budgetbook/backend/internal/models"
	"github.com/budgetbook/backend/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var errProfileNotFound = fmt.Errorf("%w profile matching your query", models.ErrResourceNotFound)

// RegisterProfileRoutes registers the routes for the profile of the
// authenticated user with the RouterGroup that is passed.
func (co Controller) RegisterProfileRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsProfile)
	r.GET("", co.GetProfile)
	r.PATCH("", co.UpdateProfile)
}

// ProfileEditable contains all fields of a profile a user can set.
type ProfileEditable struct {
	FirstName   string `json:"firstName" validate:"max=100" example:"Jane"`      // First name
	LastName    string `json:"lastName" validate:"max=100" example:"Doe"`        // Last name
	DisplayName string `json:"displayName" validate:"max=100" example:"Jane D."` // Name shown in the application
}

type ProfileResponse struct {
	Data  *models.Profile `json:"data"`                                                    // The profile
	Error *string         `json:"error" example:"there is no profile matching your query"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Profile
// @Success		204
// @Router			/v1/profile [options]
func OptionsProfile(c *gin.Context) {
	httputil.OptionsGetPatch(c)
}

func (co Controller) profile(c *gin.Context) (models.Profile, error) {
	id := userID(c)
	if id == uuid.Nil {
		return models.Profile{}, models.ErrNoUser
	}

	var profile models.Profile
	err := co.DB.WithContext(c.Request.Context()).Where("user_id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, models.ErrResourceNotFound) {
			return models.Profile{}, errProfileNotFound
		}
		return models.Profile{}, err
	}

	return profile, nil
}

// @Summary		Get profile
// @Description	Returns the profile of the authenticated user
// @Tags			Profile
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	ProfileResponse
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/profile [get]
func (co Controller) GetProfile(c *gin.Context) {
	profile, err := co.profile(c)
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{Data: &profile})
}

// @Summary		Update profile
// @Description	Updates the profile of the authenticated user. Only values to be updated need to be specified.
// @Tags			Profile
// @Produce		json
// @Security		BearerAuth
// @Success		200		{object}	ProfileResponse
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			profile	body		ProfileEditable	true	"Profile"
// @Router			/v1/profile [patch]
func (co Controller) UpdateProfile(c *gin.Context) {
	profile, err := co.profile(c)
	if err != nil {
		abort(c, err)
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ProfileEditable{})
	if err != nil {
		abort(c, err)
		return
	}

	var editable ProfileEditable
	if err := httputil.BindData(c, &editable); err != nil {
		abort(c, err)
		return
	}

	if err := validation.Struct(editable).Err(); err != nil {
		abort(c, err)
		return
	}

	if len(updateFields) > 0 {
		err = co.DB.WithContext(c.Request.Context()).
			Model(&profile).
			Select("", updateFields...).
			Updates(models.Profile{
				FirstName:   strings.TrimSpace(editable.FirstName),
				LastName:    strings.TrimSpace(editable.LastName),
				DisplayName: strings.TrimSpace(editable.DisplayName),
			}).Error
		if err != nil {
			abort(c, err)
			return
		}

		log.Ctx(c.Request.Context()).Info().Interface("fields", updateFields).Msg("profile updated")
	}

	profile, err = co.profile(c)
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{Data: &profile})
}
