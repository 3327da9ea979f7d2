package v1_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/budgetbook/backend/internal/budget"
	v1 "github.com/budgetbook/backend/internal/controllers/v1"
	"github.com/budgetbook/backend/internal/events"
	"github.com/budgetbook/backend/internal/models"
	"github.com/budgetbook/backend/internal/transactions"
	"github.com/budgetbook/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) getBudget(month string, headers map[string]string) budget.MonthBudget {
	recorder := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/budgets/"+month, nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	return *response.Data
}

func (suite *TestSuiteStandard) TestBudgetsOptions() {
	recorder := test.Request(suite.T(), suite.controller, http.MethodOptions, "http://example.com/v1/budgets", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, PUT", recorder.Header().Get("allow"))

	recorder = test.Request(suite.T(), suite.controller, http.MethodOptions, "http://example.com/v1/budgets/2024-03", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET", recorder.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestBudgetsBackfill() {
	_, headers := suite.signIn("jane@example.com")

	b := suite.getBudget("2024-03", headers)

	// Bills, Food, Food/Groceries, Food/Restaurants
	suite.Require().Len(b.Categories, 2)
	suite.Assert().Equal("Bills", b.Categories[0].Name)
	suite.Assert().Len(b.Categories[0].Allocations, 1)
	suite.Assert().Equal("Food", b.Categories[1].Name)
	suite.Require().Len(b.Categories[1].Allocations, 3)
	suite.Assert().Equal("", b.Categories[1].Allocations[0].SubcategoryName)
	suite.Assert().Equal("Groceries", b.Categories[1].Allocations[1].SubcategoryName)
	suite.Assert().Equal("Restaurants", b.Categories[1].Allocations[2].SubcategoryName)
	suite.Assert().True(b.Allocated.IsZero())

	// Reading again must not create duplicates
	b = suite.getBudget("2024-03", headers)
	suite.Assert().Len(b.Categories[1].Allocations, 3)
}

func (suite *TestSuiteStandard) TestBudgetsSpent() {
	_, headers := suite.signIn("jane@example.com")
	groceries := suite.subcategory("Groceries")

	suite.createTestTransaction(suite.T(), transactions.Editable{
		Date:                 time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		Amount:               decimal.NewFromInt(-40),
		ExpenseSubcategoryID: &groceries,
	}, headers)
	suite.createTestTransaction(suite.T(), transactions.Editable{
		Date:   time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
		Amount: decimal.NewFromInt(-100),
	}, headers)

	b := suite.getBudget("2024-03", headers)
	suite.Assert().True(b.Spent.Equal(decimal.NewFromInt(40)), "Spent is %s", b.Spent)
	suite.Assert().True(b.Categories[1].Allocations[1].SpentAmount.Equal(decimal.NewFromInt(40)))
}

func (suite *TestSuiteStandard) TestBudgetsUpdate() {
	_, headers := suite.signIn("jane@example.com")
	food := suite.category("Food")
	groceries := suite.subcategory("Groceries")

	for _, amount := range []string{"100", "250.50"} {
		recorder := test.Request(suite.T(), suite.controller, http.MethodPut, "http://example.com/v1/budgets", map[string]any{
			"categoryId":    food,
			"subcategoryId": groceries,
			"month":         "2024-03",
			"amount":        amount,
		}, headers)
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	}

	b := suite.getBudget("2024-03", headers)
	suite.Require().Len(b.Categories[1].Allocations, 3, "An update must not create a duplicate row")
	suite.Assert().True(b.Categories[1].Allocations[1].AllocatedAmount.Equal(decimal.RequireFromString("250.50")))
	suite.Assert().True(b.Allocated.Equal(decimal.RequireFromString("250.50")))

	// Other users see their own budget only
	_, john := suite.signIn("john@example.com")
	b = suite.getBudget("2024-03", john)
	suite.Assert().True(b.Allocated.IsZero())
}

func (suite *TestSuiteStandard) TestBudgetsUpdateNumericAmount() {
	_, headers := suite.signIn("jane@example.com")

	recorder := test.Request(suite.T(), suite.controller, http.MethodPut, "http://example.com/v1/budgets", map[string]any{
		"categoryId": suite.category("Bills"),
		"month":      "2024-03-01",
		"amount":     75,
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().True(response.Data.Categories[0].Allocated.Equal(decimal.NewFromInt(75)))
}

func (suite *TestSuiteStandard) TestBudgetsFails() {
	_, headers := suite.signIn("jane@example.com")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		fields map[string]string
	}{
		{"Invalid month", http.MethodGet, "/v1/budgets/March", nil, http.StatusBadRequest, map[string]string{"month": "invalid date format"}},
		{"Non numeric amount", http.MethodPut, "/v1/budgets", map[string]any{"categoryId": suite.category("Bills"), "month": "2024-03", "amount": "lots"}, http.StatusBadRequest, map[string]string{"amount": "amount must be numeric"}},
		{"Invalid month on update", http.MethodPut, "/v1/budgets", map[string]any{"categoryId": suite.category("Bills"), "month": "2024-13", "amount": "5"}, http.StatusBadRequest, map[string]string{"month": "invalid date format"}},
		{"Subcategory mismatch", http.MethodPut, "/v1/budgets", map[string]any{"categoryId": suite.category("Bills"), "subcategoryId": suite.subcategory("Groceries"), "month": "2024-03", "amount": "5"}, http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, suite.controller, tt.method, "http://example.com"+tt.path, tt.body, headers)
			test.AssertHTTPStatus(t, &recorder, tt.status)

			var response struct {
				Fields map[string]string `json:"fields"`
			}
			test.DecodeResponse(t, &recorder, &response)
			assert.Equal(t, tt.fields, response.Fields)
		})
	}
}

// The session lookup uses the working database, the budgets a closed one.
func (suite *TestSuiteStandard) TestBudgetsDatabaseUnavailable() {
	_, headers := suite.signIn("jane@example.com")

	working := models.DB
	suite.Require().Nil(models.Connect(test.TmpFile(suite.T())))
	closed := models.DB
	models.DB = working

	sqlDB, err := closed.DB()
	suite.Require().Nil(err)
	sqlDB.Close()

	co := suite.controller
	co.Budgets = budget.New(closed, co.Registry, events.Noop{}, time.UTC)

	recorder := test.Request(suite.T(), co, http.MethodGet, "http://example.com/v1/budgets/2024-03", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)
	suite.Assert().Contains(recorder.Body.String(), models.ErrGeneral.Error())
	suite.Assert().NotContains(recorder.Body.String(), "sql:")

	recorder = test.Request(suite.T(), co, http.MethodPut, "http://example.com/v1/budgets", map[string]any{
		"categoryId": suite.category("Food"),
		"month":      "2024-03",
		"amount":     "10",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)
	suite.Assert().NotContains(recorder.Body.String(), "sql:")
}
