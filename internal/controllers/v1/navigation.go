package v1

import (
	"net/http"

	"github.com/budgetbook/backend/internal/httputil"
	"github.com/budgetbook/backend/internal/navigation"
	"github.com/budgetbook/backend/internal/validation"
	"github.com/gin-gonic/gin"
)

// RegisterNavigationRoutes registers the route for navigation decisions
// with the RouterGroup that is passed.
func (co Controller) RegisterNavigationRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsNavigation)
	r.GET("", co.GetNavigation)
}

type QueryNavigation struct {
	Path string `form:"path" example:"/budget?month=2024-03"` // The client side path to enter, including its query
}

type NavigationDecision struct {
	navigation.Decision
	Location string `json:"location" example:"/login?redirect=%2Fbudget"` // Redirect including the query, empty if the route may be entered
}

type NavigationResponse struct {
	Data  *NavigationDecision `json:"data"`  // The decision
	Error *string             `json:"error"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Navigation
// @Success		204
// @Router			/v1/navigation [options]
func OptionsNavigation(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Resolve navigation
// @Description	Decides whether the client may enter a route with the bearer token it holds, or where it has to go instead
// @Tags			Navigation
// @Produce		json
// @Success		200		{object}	NavigationResponse
// @Failure		400		{object}	httpError
// @Param			path	query		string	true	"Client side path"
// @Router			/v1/navigation [get]
func (co Controller) GetNavigation(c *gin.Context) {
	var query QueryNavigation
	if err := c.ShouldBindQuery(&query); err != nil {
		abort(c, err)
		return
	}

	if query.Path == "" {
		abort(c, validation.NewError("path", "path is required"))
		return
	}

	decision := co.Guard.Resolve(c.Request.Context(), query.Path, httputil.BearerToken(c))
	c.JSON(http.StatusOK, NavigationResponse{
		Data: &NavigationDecision{
			Decision: decision,
			Location: decision.Location(),
		},
	})
}
