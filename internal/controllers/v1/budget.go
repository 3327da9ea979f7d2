package v1

import (
	"net/http"

	"github.com/budgetbook/backend/internal/budget"
	"github.com/budgetbook/backend/internal/httputil"
	"github.com/gin-gonic/gin"
)

// RegisterBudgetRoutes registers the routes for budgets with
// the RouterGroup that is passed.
func (co Controller) RegisterBudgetRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsBudgetList)
	r.PUT("", co.UpdateBudget)

	r.OPTIONS("/:month", OptionsBudgetMonth)
	r.GET("/:month", co.GetBudget)
}

type BudgetResponse struct {
	Data  *budget.MonthBudget `json:"data"`                                // The budget of the month
	Error *string             `json:"error" example:"invalid date format"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Router			/v1/budgets [options]
func OptionsBudgetList(c *gin.Context) {
	httputil.OptionsPut(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Param			month	path	URIMonth	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{month} [options]
func OptionsBudgetMonth(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get budget
// @Description	Returns the budget of the user for a month. Missing allocations are created with an amount of 0 and the spent amounts are recalculated.
// @Tags			Budgets
// @Produce		json
// @Security		BearerAuth
// @Success		200		{object}	BudgetResponse
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			month	path		string	true	"Month in YYYY-MM format"
// @Router			/v1/budgets/{month} [get]
func (co Controller) GetBudget(c *gin.Context) {
	var uri URIMonth
	if err := c.ShouldBindUri(&uri); err != nil {
		abort(c, err)
		return
	}

	b, err := co.Budgets.ComputeBudgets(c.Request.Context(), userID(c), uri.Month)
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, BudgetResponse{Data: &b})
}

// @Summary		Update budget
// @Description	Sets the allocated amount for a category or subcategory in a month and returns the budget of that month
// @Tags			Budgets
// @Produce		json
// @Security		BearerAuth
// @Success		200		{object}	BudgetResponse
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			budget	body		budget.BudgetUpdate	true	"Allocation"
// @Router			/v1/budgets [put]
func (co Controller) UpdateBudget(c *gin.Context) {
	var update budget.BudgetUpdate
	if err := httputil.BindData(c, &update); err != nil {
		abort(c, err)
		return
	}
	update.UserID = userID(c)

	b, err := co.Budgets.UpdateBudget(c.Request.Context(), update)
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, BudgetResponse{Data: &b})
}
