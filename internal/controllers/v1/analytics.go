package v1

import (
	"net/http"

	"github.com/budgetbook/backend/internal/analytics"
	"github.com/budgetbook/backend/internal/httputil"
	"github.com/gin-gonic/gin"
)

// RegisterAnalyticsRoutes registers the routes for analytics with
// the RouterGroup that is passed.
func (co Controller) RegisterAnalyticsRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsAnalytics)
	r.GET("", co.GetAnalytics)
}

type AnalyticsResponse struct {
	Data  analytics.Result `json:"data"`                                          // Spending analytics
	Error *string          `json:"error" example:"failed to load analytics data"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Analytics
// @Success		204
// @Router			/v1/analytics [options]
func OptionsAnalytics(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get analytics
// @Description	Returns spending per category and period for the transactions of the user in the date range.
// @Description	If loading fails, the data is empty and the error is set.
// @Tags			Analytics
// @Produce		json
// @Security		BearerAuth
// @Success		200		{object}	AnalyticsResponse
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Failure		500		{object}	AnalyticsResponse
// @Param			startDate	query		string	false	"First day, inclusive"
// @Param			endDate		query		string	false	"Last day, inclusive"
// @Router			/v1/analytics [get]
func (co Controller) GetAnalytics(c *gin.Context) {
	var query QueryDateRange
	if err := c.ShouldBindQuery(&query); err != nil {
		abort(c, err)
		return
	}

	dr, err := query.model(co.location())
	if err != nil {
		abort(c, err)
		return
	}

	result, err := co.Analytics.Fetch(c.Request.Context(), userID(c), dr)
	if err != nil {
		s := status(err)
		if s != http.StatusInternalServerError {
			abort(c, err)
			return
		}

		// The empty result keeps views renderable
		e, _ := message(c, err)
		c.JSON(s, AnalyticsResponse{Data: result, Error: &e})
		return
	}

	c.JSON(http.StatusOK, AnalyticsResponse{Data: result})
}
