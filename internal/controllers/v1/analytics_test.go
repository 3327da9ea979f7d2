package v1_test

import (
	"net/http"
	"time"

	v1 "github.com/budgetbook/backend/internal/controllers/v1"
	"github.com/budgetbook/backend/internal/transactions"
	"github.com/budgetbook/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestAnalyticsEmpty() {
	_, headers := suite.signIn("jane@example.com")

	recorder := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/analytics", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	suite.Assert().JSONEq(`{
		"data": {
			"categoryTotals": {},
			"categoryPercentages": {},
			"monthlyTotals": [],
			"yearlyTotals": [],
			"monthOverMonthTrend": []
		},
		"error": null
	}`, recorder.Body.String())
}

func (suite *TestSuiteStandard) TestAnalytics() {
	_, headers := suite.signIn("jane@example.com")

	for _, e := range []transactions.Editable{
		{Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(-50)},
		{Date: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(30)},
		{Date: time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(-120), ExpenseCategoryID: suite.category("Bills")},
	} {
		suite.createTestTransaction(suite.T(), e, headers)
	}

	recorder := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/analytics", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AnalyticsResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Nil(response.Error)

	data := response.Data
	suite.Assert().True(data.CategoryTotals["Food"].Equal(decimal.NewFromInt(80)))
	suite.Assert().True(data.CategoryTotals["Bills"].Equal(decimal.NewFromInt(120)))
	suite.Assert().True(data.CategoryPercentages["Bills"].Equal(decimal.NewFromInt(60)))

	suite.Require().Len(data.MonthlyTotals, 2)
	suite.Assert().Equal("2024-01", data.MonthlyTotals[0].Period)
	suite.Assert().Equal("2024-02", data.MonthlyTotals[1].Period)

	suite.Require().Len(data.MonthOverMonthTrend, 2)
	suite.Assert().True(data.MonthOverMonthTrend[0].Decimal.IsZero())
	suite.Assert().True(data.MonthOverMonthTrend[1].Decimal.Equal(decimal.NewFromInt(50)))

	suite.Require().Len(data.YearlyTotals, 1)
	suite.Assert().True(data.YearlyTotals[0].Total.Equal(decimal.NewFromInt(200)))
}

func (suite *TestSuiteStandard) TestAnalyticsDateRange() {
	_, headers := suite.signIn("jane@example.com")

	suite.createTestTransaction(suite.T(), transactions.Editable{Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(-50)}, headers)
	suite.createTestTransaction(suite.T(), transactions.Editable{Date: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(-20)}, headers)

	recorder := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/analytics?startDate=2024-02-01&endDate=2024-02-29", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AnalyticsResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().True(response.Data.CategoryTotals["Food"].Equal(decimal.NewFromInt(20)))
}

func (suite *TestSuiteStandard) TestAnalyticsInvalidRange() {
	_, headers := suite.signIn("jane@example.com")

	recorder := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/analytics?endDate=31.12.2024", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	suite.Assert().Contains(recorder.Body.String(), "endDate")
}
