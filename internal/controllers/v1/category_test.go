package v1_test

import (
	"net/http"

	v1 "github.com/budgetbook/backend/internal/controllers/v1"
	"github.com/budgetbook/backend/test"
	"github.com/google/uuid"
)

func (suite *TestSuiteStandard) TestCategories() {
	recorder := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/categories", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.CategoryListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	suite.Require().Len(response.Data, 2)
	suite.Assert().Equal("Bills", response.Data[0].Name)
	suite.Assert().Empty(response.Data[0].Subcategories)
	suite.Assert().Equal("Food", response.Data[1].Name)
	suite.Require().Len(response.Data[1].Subcategories, 2)
	suite.Assert().Equal("Groceries", response.Data[1].Subcategories[0].Name)
}

func (suite *TestSuiteStandard) TestCategory() {
	food := suite.category("Food")

	recorder := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/categories/"+food.String(), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.CategoryResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(food, response.Data.ID)
	suite.Assert().Len(response.Data.Subcategories, 2)
}

func (suite *TestSuiteStandard) TestCategoryFails() {
	recorder := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/categories/"+uuid.New().String(), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
	suite.Assert().JSONEq(`{"error": "there is no category matching your query"}`, recorder.Body.String())

	recorder = test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/categories/food", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}
