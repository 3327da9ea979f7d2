// Package healthz reports whether the backend can serve requests.
package healthz

import (
	"context"
	"net/http"
	"time"

	"github.com/budgetbook/backend/internal/httputil"
	"github.com/budgetbook/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 2 * time.Second

// CategoryCounter reports how many expense categories are cached.
type CategoryCounter interface {
	Loaded() bool
	MainCategories() []models.MainCategory
}

// Status is the health of the backend.
type Status struct {
	Database   string `json:"database" example:"ok"`    // "ok" if the database answers pings
	Registry   string `json:"registry" example:"ready"` // "ready" once the expense categories are loaded, "loading" before
	Categories int    `json:"categories" example:"10"`  // Number of cached expense categories
}

// RegisterRoutes attaches the health endpoints. categories may be nil.
func RegisterRoutes(r *gin.RouterGroup, categories CategoryCounter) {
	r.OPTIONS("", Options)
	r.GET("", func(c *gin.Context) {
		Get(c, categories)
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/healthz [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get health
// @Description	Returns the state of the database and the category cache. If the database cannot be reached, an error is returned
// @Tags			General
// @Produce		json
// @Success		200	{object}	Status
// @Failure		503	{object}	httputil.HTTPError
// @Router			/healthz [get]
func Get(c *gin.Context, categories CategoryCounter) {
	if err := ping(c.Request.Context()); err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("database is not reachable")
		httputil.NewError(c, http.StatusServiceUnavailable, models.ErrGeneral.Error())
		return
	}

	status := Status{Database: "ok", Registry: "loading"}
	if categories != nil && categories.Loaded() {
		status.Registry = "ready"
		status.Categories = len(categories.MainCategories())
	}

	c.JSON(http.StatusOK, status)
}

func ping(ctx context.Context) error {
	if models.DB == nil {
		return models.ErrGeneral
	}

	sqlDB, err := models.DB.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
