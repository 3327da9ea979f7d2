package v1_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	v1 "github.com/budgetbook/backend/internal/controllers/v1"
	"github.com/budgetbook/backend/internal/models"
	"github.com/budgetbook/backend/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) navigate(t *testing.T, path string, headers ...map[string]string) v1.NavigationDecision {
	recorder := test.Request(t, suite.controller, http.MethodGet, "http://example.com/v1/navigation?path="+url.QueryEscape(path), nil, headers...)
	test.AssertHTTPStatus(t, &recorder, http.StatusOK)

	var response v1.NavigationResponse
	test.DecodeResponse(t, &recorder, &response)
	return *response.Data
}

func (suite *TestSuiteStandard) TestNavigationWithoutSession() {
	tests := []struct {
		path     string
		allow    bool
		location string
	}{
		{"/login", true, ""},
		{"/register", true, ""},
		{"/", false, "/dashboard"},
		{"/budget", false, "/login?redirect=%2Fbudget"},
		{"/transactions/new", false, "/login?redirect=%2Ftransactions%2Fnew"},
		{"/admin", false, "/login?redirect=%2Fadmin"},
		{"/unknown", false, "/login"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.path, func(t *testing.T) {
			d := suite.navigate(t, tt.path)
			assert.Equal(t, tt.allow, d.Allow)
			assert.Equal(t, tt.location, d.Location)
		})
	}
}

func (suite *TestSuiteStandard) TestNavigationWithSession() {
	user, headers := suite.signIn("jane@example.com")

	tests := []struct {
		path     string
		allow    bool
		location string
	}{
		{"/login", false, "/dashboard"},
		{"/budget", true, ""},
		{"/transactions/new", true, ""},
		{"/admin", false, "/login"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.path, func(t *testing.T) {
			d := suite.navigate(t, tt.path, headers)
			assert.Equal(t, tt.allow, d.Allow)
			assert.Equal(t, tt.location, d.Location)
		})
	}

	_, err := suite.controller.Admins.Grant(context.Background(), user.ID, models.AdminRoleAdmin)
	suite.Require().Nil(err)

	suite.Assert().True(suite.navigate(suite.T(), "/admin/users", headers).Allow)
	suite.Assert().Equal("/admin", suite.navigate(suite.T(), "/admin/settings", headers).Location)
}

func (suite *TestSuiteStandard) TestNavigationInvalidToken() {
	d := suite.navigate(suite.T(), "/budget", map[string]string{"Authorization": "Bearer expired"})
	suite.Assert().False(d.Allow)
	suite.Assert().Equal("/login?redirect=%2Fbudget", d.Location)
}

func (suite *TestSuiteStandard) TestNavigationMissingPath() {
	recorder := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/navigation", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	suite.Assert().JSONEq(`{"error": "path is required", "fields": {"path": "path is required"}}`, recorder.Body.String())
}
