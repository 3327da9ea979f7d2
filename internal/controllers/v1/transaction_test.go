package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/budgetbook/backend/internal/controllers/v1"
	"github.com/budgetbook/backend/internal/transactions"
	"github.com/budgetbook/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) createTestTransaction(t *testing.T, e transactions.Editable, headers map[string]string, expectedStatus ...int) v1.Transaction {
	if e.ExpenseCategoryID == uuid.Nil {
		e.ExpenseCategoryID = suite.category("Food")
	}

	if e.Date.IsZero() {
		e.Date = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	}

	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	recorder := test.Request(t, suite.controller, http.MethodPost, "http://example.com/v1/transactions", e, headers)
	test.AssertHTTPStatus(t, &recorder, expectedStatus...)

	var response v1.TransactionResponse
	test.DecodeResponse(t, &recorder, &response)

	if response.Data == nil {
		return v1.Transaction{}
	}
	return *response.Data
}

func (suite *TestSuiteStandard) TestTransactionsOptions() {
	_, headers := suite.signIn("jane@example.com")

	recorder := test.Request(suite.T(), suite.controller, http.MethodOptions, "http://example.com/v1/transactions", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET, POST", recorder.Header().Get("allow"))

	tr := suite.createTestTransaction(suite.T(), transactions.Editable{Amount: decimal.NewFromInt(-10)}, headers)
	recorder = test.Request(suite.T(), suite.controller, http.MethodOptions, tr.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET, PUT, DELETE", recorder.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestTransactionsCreate() {
	_, headers := suite.signIn("jane@example.com")
	groceries := suite.subcategory("Groceries")

	tr := suite.createTestTransaction(suite.T(), transactions.Editable{
		Description:          "  Weekly groceries ",
		Amount:               decimal.RequireFromString("-42.50"),
		ExpenseSubcategoryID: &groceries,
	}, headers)

	suite.Assert().Equal("Weekly groceries", tr.Description)
	suite.Assert().True(tr.Amount.Equal(decimal.RequireFromString("-42.50")))
	suite.Require().NotNil(tr.Category)
	suite.Assert().Equal("Food", tr.Category.Name)
	suite.Require().NotNil(tr.Subcategory)
	suite.Assert().Equal("Groceries", tr.Subcategory.Name)
	suite.Assert().Contains(tr.Display.Amount, "42.50")
	suite.Assert().NotContains(tr.Display.Amount, "-", "Displayed amounts are absolute")
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/transactions/%s", tr.ID), tr.Links.Self)
}

func (suite *TestSuiteStandard) TestTransactionsCreateFails() {
	_, headers := suite.signIn("jane@example.com")
	restaurants := suite.subcategory("Restaurants")

	tests := []struct {
		name     string
		body     any
		status   int
		contains string
	}{
		{"Broken body", `{"amount": 5`, http.StatusBadRequest, ""},
		{"Empty body", "", http.StatusBadRequest, "the request body must not be empty"},
		{"Missing category", map[string]any{"amount": "5", "date": "2024-03-01T00:00:00Z"}, http.StatusBadRequest, "Category is required"},
		{"Unknown category", transactions.Editable{ExpenseCategoryID: uuid.New(), Amount: decimal.NewFromInt(5)}, http.StatusNotFound, "there is no"},
		{"Subcategory of other category", transactions.Editable{ExpenseCategoryID: suite.category("Bills"), ExpenseSubcategoryID: &restaurants}, http.StatusBadRequest, "the subcategory does not belong to the category"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, suite.controller, http.MethodPost, "http://example.com/v1/transactions", tt.body, headers)
			test.AssertHTTPStatus(t, &recorder, tt.status)
			assert.Contains(t, recorder.Body.String(), tt.contains)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsList() {
	_, headers := suite.signIn("jane@example.com")

	suite.createTestTransaction(suite.T(), transactions.Editable{Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(-1)}, headers)
	suite.createTestTransaction(suite.T(), transactions.Editable{Date: time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC), Amount: decimal.NewFromInt(-2)}, headers)
	suite.createTestTransaction(suite.T(), transactions.Editable{Date: time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(-3)}, headers)

	tests := []struct {
		name    string
		query   string
		amounts []int64
	}{
		{"All, newest first", "", []int64{-3, -2, -1}},
		{"End is inclusive", "?endDate=2024-03-15", []int64{-2, -1}},
		{"Start is inclusive", "?startDate=2024-03-15", []int64{-3, -2}},
		{"Range", "?startDate=2024-02-01&endDate=2024-03-15", []int64{-2}},
		{"RFC 3339", "?startDate=2024-03-16T00:00:00Z", []int64{-3}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, suite.controller, http.MethodGet, "http://example.com/v1/transactions"+tt.query, nil, headers)
			test.AssertHTTPStatus(t, &recorder, http.StatusOK)

			var response v1.TransactionListResponse
			test.DecodeResponse(t, &recorder, &response)

			amounts := make([]int64, 0, len(response.Data))
			for _, tr := range response.Data {
				amounts = append(amounts, tr.Amount.IntPart())
			}
			assert.Equal(t, tt.amounts, amounts)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsListInvalidDate() {
	_, headers := suite.signIn("jane@example.com")

	recorder := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/transactions?startDate=yesterday", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	suite.Assert().JSONEq(`{"error": "invalid date format", "fields": {"startDate": "invalid date format"}}`, recorder.Body.String())
}

func (suite *TestSuiteStandard) TestTransactionsUserScope() {
	_, jane := suite.signIn("jane@example.com")
	_, john := suite.signIn("john@example.com")

	tr := suite.createTestTransaction(suite.T(), transactions.Editable{Amount: decimal.NewFromInt(-5)}, jane)

	recorder := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/transactions", nil, john)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	suite.Assert().JSONEq(`{"data": [], "error": null}`, recorder.Body.String())

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		recorder = test.Request(suite.T(), suite.controller, method, tr.Links.Self, nil, john)
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
	}

	recorder = test.Request(suite.T(), suite.controller, http.MethodPut, tr.Links.Self, transactions.Editable{
		ExpenseCategoryID: suite.category("Food"),
		Amount:            decimal.NewFromInt(-500),
	}, john)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	// Still unchanged for the owner
	recorder = test.Request(suite.T(), suite.controller, http.MethodGet, tr.Links.Self, nil, jane)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().True(response.Data.Amount.Equal(decimal.NewFromInt(-5)))
}

func (suite *TestSuiteStandard) TestTransactionsGetInvalidID() {
	_, headers := suite.signIn("jane@example.com")

	recorder := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/transactions/not-a-uuid", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestTransactionsUpdate() {
	_, headers := suite.signIn("jane@example.com")
	tr := suite.createTestTransaction(suite.T(), transactions.Editable{Description: "Lunch", Amount: decimal.NewFromInt(-12)}, headers)

	recorder := test.Request(suite.T(), suite.controller, http.MethodPut, tr.Links.Self, transactions.Editable{
		Date:              time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Description:       "Electricity",
		Amount:            decimal.NewFromInt(-80),
		ExpenseCategoryID: suite.category("Bills"),
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("Electricity", response.Data.Description)
	suite.Assert().Equal("Bills", response.Data.Category.Name)
	suite.Assert().Nil(response.Data.Subcategory)
	suite.Assert().True(response.Data.Amount.Equal(decimal.NewFromInt(-80)))
}

func (suite *TestSuiteStandard) TestTransactionsDelete() {
	_, headers := suite.signIn("jane@example.com")
	tr := suite.createTestTransaction(suite.T(), transactions.Editable{Amount: decimal.NewFromInt(-12)}, headers)

	recorder := test.Request(suite.T(), suite.controller, http.MethodDelete, tr.Links.Self, nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), suite.controller, http.MethodGet, tr.Links.Self, nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}
