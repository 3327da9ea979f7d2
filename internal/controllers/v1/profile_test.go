package v1_test

import (
	"net/http"
	"strings"

	v1 "github.com/budgetbook/backend/internal/controllers/v1"
	"github.com/budgetbook/backend/test"
)

func (suite *TestSuiteStandard) TestProfileOptions() {
	recorder := test.Request(suite.T(), suite.controller, http.MethodOptions, "http://example.com/v1/profile", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET, PATCH", recorder.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestProfile() {
	user, headers := suite.signIn("jane@example.com")

	recorder := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/profile", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ProfileResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(user.ID, response.Data.UserID)
	suite.Assert().Equal("Test", response.Data.FirstName)
	suite.Assert().Equal("User", response.Data.LastName)
}

func (suite *TestSuiteStandard) TestProfileUpdate() {
	_, headers := suite.signIn("jane@example.com")

	// Only the display name is set, the other fields are kept
	recorder := test.Request(suite.T(), suite.controller, http.MethodPatch, "http://example.com/v1/profile", map[string]string{
		"displayName": "  Jane D. ",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ProfileResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("Jane D.", response.Data.DisplayName)
	suite.Assert().Equal("Test", response.Data.FirstName)

	// Fields can be cleared
	recorder = test.Request(suite.T(), suite.controller, http.MethodPatch, "http://example.com/v1/profile", map[string]string{
		"lastName": "",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("", response.Data.LastName)
	suite.Assert().Equal("Jane D.", response.Data.DisplayName)
}

func (suite *TestSuiteStandard) TestProfileUpdateFails() {
	_, headers := suite.signIn("jane@example.com")

	recorder := test.Request(suite.T(), suite.controller, http.MethodPatch, "http://example.com/v1/profile", map[string]string{
		"displayName": strings.Repeat("a", 101),
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	suite.Assert().Contains(recorder.Body.String(), "Display name must be at most 100 characters")

	recorder = test.Request(suite.T(), suite.controller, http.MethodPatch, "http://example.com/v1/profile", `{"displayName": 5}`, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}
