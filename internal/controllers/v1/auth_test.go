package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/budgetbook/backend/internal/controllers/v1"
	"github.com/budgetbook/backend/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestAuthOptions() {
	for _, path := range []string{"signup", "signin", "reset-password", "update-password", "signout"} {
		recorder := test.Request(suite.T(), suite.controller, http.MethodOptions, "http://example.com/v1/auth/"+path, nil)
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
		suite.Assert().Equal("OPTIONS, POST", recorder.Header().Get("allow"), path)
	}

	recorder := test.Request(suite.T(), suite.controller, http.MethodOptions, "http://example.com/v1/auth/session", nil)
	suite.Assert().Equal("OPTIONS, GET", recorder.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestSignUp() {
	recorder := test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/v1/auth/signup", map[string]string{
		"first_name": "Jane",
		"last_name":  "Doe",
		"email":      "  Jane@Example.com ",
		"password":   "secret123",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.UserResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal("jane@example.com", response.Data.Email)
}

func (suite *TestSuiteStandard) TestSignUpValidation() {
	recorder := test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/v1/auth/signup", map[string]string{
		"email":           "not-an-email",
		"password":        "secret123",
		"confirmPassword": "secret124",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var response struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(map[string]string{
		"first_name":      "First name is required",
		"email":           "Please enter a valid email address",
		"confirmPassword": "Passwords don't match",
	}, response.Fields)
}

func (suite *TestSuiteStandard) TestSignUpTwice() {
	suite.signIn("jane@example.com")

	recorder := test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/v1/auth/signup", map[string]string{
		"first_name": "Jane",
		"email":      "jane@example.com",
		"password":   "secret123",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnprocessableEntity)
	suite.Assert().JSONEq(`{"error":"Email already registered"}`, recorder.Body.String())
}

func (suite *TestSuiteStandard) TestSignUpBrokenBody() {
	recorder := test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/v1/auth/signup", `{"email": "jane@example.com"`)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestSignIn() {
	user, _ := suite.signIn("jane@example.com")

	recorder := test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/v1/auth/signin", map[string]string{
		"email":    "jane@example.com",
		"password": test.Password,
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.SessionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().NotEmpty(response.Data.AccessToken)
	suite.Assert().Equal("bearer", response.Data.TokenType)
	suite.Assert().Equal(user.ID, response.Data.User.ID)
}

func (suite *TestSuiteStandard) TestSignInWrongPassword() {
	suite.signIn("jane@example.com")

	tests := []struct {
		name     string
		language string
		expected string
	}{
		{"English", "en-US", "Invalid email or password"},
		{"Italian", "it-IT", "Email o password non validi"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, suite.controller, http.MethodPost, "http://example.com/v1/auth/signin", map[string]string{
				"email":    "jane@example.com",
				"password": "wrong-password",
			}, map[string]string{"Accept-Language": tt.language})

			test.AssertHTTPStatus(t, &recorder, http.StatusBadRequest)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tt.expected), recorder.Body.String())
		})
	}
}

func (suite *TestSuiteStandard) TestGetSession() {
	user, headers := suite.signIn("jane@example.com")

	recorder := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/auth/session", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.SessionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(user.ID, response.Data.User.ID)
}

func (suite *TestSuiteStandard) TestGetSessionWithoutToken() {
	recorder := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/auth/session", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	suite.Assert().JSONEq(`{"data": null, "error": null}`, recorder.Body.String())
}

func (suite *TestSuiteStandard) TestGetSessionInvalidToken() {
	recorder := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/auth/session", nil, map[string]string{"Authorization": "Bearer not-a-token"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestSignOut() {
	_, headers := suite.signIn("jane@example.com")

	recorder := test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/v1/auth/signout", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	// The token is revoked
	recorder = test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/transactions", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestResetPassword() {
	suite.signIn("jane@example.com")

	tests := []struct {
		name  string
		email string
	}{
		{"Existing account", "jane@example.com"},
		{"Unknown account", "nobody@example.com"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, suite.controller, http.MethodPost, "http://example.com/v1/auth/reset-password", v1.ResetPasswordRequest{
				Email:      tt.email,
				RedirectTo: "https://app.example.com/update-password",
			})
			test.AssertHTTPStatus(t, &recorder, http.StatusOK)

			var response v1.MessageResponse
			test.DecodeResponse(t, &recorder, &response)
			assert.Equal(t, "Reset link sent to your email", response.Data.Message)
		})
	}
}

func (suite *TestSuiteStandard) TestResetPasswordInvalidEmail() {
	recorder := test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/v1/auth/reset-password", v1.ResetPasswordRequest{Email: "nope"}, map[string]string{"Accept-Language": "it"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	suite.Assert().Contains(recorder.Body.String(), "Inserisci un indirizzo email valido")
}

func (suite *TestSuiteStandard) TestUpdatePassword() {
	_, headers := suite.signIn("jane@example.com")

	recorder := test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/v1/auth/update-password", map[string]string{
		"password":        "a-new-password",
		"confirmPassword": "a-new-password",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/v1/auth/signin", map[string]string{
		"email":    "jane@example.com",
		"password": "a-new-password",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
}

func (suite *TestSuiteStandard) TestUpdatePasswordWithoutToken() {
	recorder := test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/v1/auth/update-password", map[string]string{
		"password": "a-new-password",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)
}
