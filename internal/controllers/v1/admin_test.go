package v1_test

import (
	"context"
	"net/http"

	"github.com/budgetbook/backend/internal/auth"
	v1 "github.com/budgetbook/backend/internal/controllers/v1"
	"github.com/budgetbook/backend/internal/models"
	"github.com/budgetbook/backend/test"
)

func (suite *TestSuiteStandard) TestAdminStatus() {
	user, headers := suite.signIn("jane@example.com")

	status := func() auth.AdminStatus {
		recorder := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/admin/status", nil, headers)
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

		var response v1.AdminStatusResponse
		test.DecodeResponse(suite.T(), &recorder, &response)
		return response.Data
	}

	suite.Assert().Equal(auth.AdminStatus{}, status())

	_, err := suite.controller.Admins.Grant(context.Background(), user.ID, models.AdminRoleSuperAdmin)
	suite.Require().Nil(err)
	suite.Assert().Equal(auth.AdminStatus{IsAdmin: true, IsSuperAdmin: true}, status())
}

func (suite *TestSuiteStandard) TestAdminManagement() {
	root, headers := suite.signIn("root@example.com")
	jane, janeHeaders := suite.signIn("jane@example.com")

	_, err := suite.controller.Admins.Grant(context.Background(), root.ID, models.AdminRoleSuperAdmin)
	suite.Require().Nil(err)

	recorder := test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/v1/admin/users", v1.AdminEditable{UserID: jane.ID}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var created v1.AdminResponse
	test.DecodeResponse(suite.T(), &recorder, &created)
	suite.Assert().Equal(models.AdminRoleAdmin, created.Data.Role)
	suite.Assert().Equal("jane@example.com", created.Data.User.Email)

	// Granting twice conflicts
	recorder = test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/v1/admin/users", v1.AdminEditable{UserID: jane.ID}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusConflict)

	recorder = test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/admin/users", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var list v1.AdminListResponse
	test.DecodeResponse(suite.T(), &recorder, &list)
	suite.Assert().Len(list.Data, 2)

	// Administrators cannot manage administrators
	recorder = test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/admin/users", nil, janeHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	recorder = test.Request(suite.T(), suite.controller, http.MethodDelete, "http://example.com/v1/admin/users/"+jane.ID.String(), nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), suite.controller, http.MethodDelete, "http://example.com/v1/admin/users/"+jane.ID.String(), nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestAdminInvalidRole() {
	root, headers := suite.signIn("root@example.com")
	jane, _ := suite.signIn("jane@example.com")

	_, err := suite.controller.Admins.Grant(context.Background(), root.ID, models.AdminRoleSuperAdmin)
	suite.Require().Nil(err)

	recorder := test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/v1/admin/users", v1.AdminEditable{UserID: jane.ID, Role: "owner"}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	suite.Assert().Contains(recorder.Body.String(), models.ErrInvalidAdminRole.Error())
}
