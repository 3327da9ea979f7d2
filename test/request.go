package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/budgetbook/backend/internal/auth"
	"github.com/budgetbook/backend/internal/config"
	v1 "github.com/budgetbook/backend/internal/controllers/v1"
	"github.com/budgetbook/backend/internal/events"
	"github.com/budgetbook/backend/internal/models"
	"github.com/budgetbook/backend/internal/registry"
	"github.com/budgetbook/backend/internal/router"
	"github.com/budgetbook/backend/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Password is the password of all users created by SignIn.
const Password = "correct horse battery staple"

// Controller returns a controller using models.DB with the taxonomy
// seeded. models.Connect must have been called before.
func Controller(t *testing.T, taxonomy registry.Taxonomy) v1.Controller {
	ctx := context.Background()

	_, err := registry.Seed(ctx, models.DB, taxonomy)
	require.Nil(t, err, "Seeding the taxonomy failed")

	reg := registry.New(models.DB)
	require.Nil(t, reg.Load(ctx), "Loading the registry failed")

	provider, err := auth.NewLocalProvider(models.DB, auth.Options{
		Secret:     "a-secret-for-tests-only",
		SessionTTL: time.Hour,
		Mailer:     auth.LogMailer{},
	})
	require.Nil(t, err, "Provider could not be initialized")
	t.Cleanup(provider.Close)

	return v1.New(models.DB, provider, reg, events.Noop{}, time.UTC, "EUR")
}

// SignIn creates a user with the email address and returns it together
// with the Authorization header for its session.
func SignIn(t *testing.T, co v1.Controller, email string) (models.User, map[string]string) {
	ctx := context.Background()

	user, err := co.Gateway.SignUp(ctx, validation.RegistrationForm{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  Password,
	})
	require.Nil(t, err, "Sign up failed")

	session, err := co.Gateway.SignIn(ctx, validation.LoginForm{Email: email, Password: Password})
	require.Nil(t, err, "Sign in failed")

	return user, map[string]string{"Authorization": fmt.Sprintf("Bearer %s", session.AccessToken)}
}

// Request is a helper method to simplify making a HTTP request for tests.
func Request(t *testing.T, co v1.Controller, method, reqURL string, body any, headers ...map[string]string) httptest.ResponseRecorder {
	var byteBuffer *bytes.Buffer

	switch {
	case body == nil:
		byteBuffer = &bytes.Buffer{}
	case reflect.TypeOf(body).Kind() == reflect.String:
		// If the body is a string, convert it to bytes
		byteBuffer = bytes.NewBufferString(body.(string))
	case reflect.TypeOf(body).Kind() == reflect.Struct || reflect.TypeOf(body).Kind() == reflect.Map || reflect.TypeOf(body).Kind() == reflect.Slice:
		byteStr, err := json.Marshal(body)
		if err != nil {
			assert.FailNow(t, "Request body could not be marshalled from struct input", err)
		}
		byteBuffer = bytes.NewBuffer(byteStr)
	default:
		byteBuffer = body.(*bytes.Buffer)
	}

	apiURL, ok := os.LookupEnv("API_URL")
	if !ok {
		apiURL = "http://example.com"
	}

	r, teardown, err := router.Config(config.Config{APIURL: apiURL})
	defer teardown()

	if err != nil {
		assert.FailNow(t, "Router could not be initialized", err)
	}
	router.AttachRoutes(co, r.Group("/"))

	recorder := httptest.NewRecorder()
	req, _ := http.NewRequest(method, reqURL, byteBuffer)

	for _, headerMap := range headers {
		for header, value := range headerMap {
			req.Header.Set(header, value)
		}
	}

	r.ServeHTTP(recorder, req)

	return *recorder
}

// DecodeResponse decodes an HTTP response into a target struct.
func DecodeResponse(t *testing.T, r *httptest.ResponseRecorder, target any) {
	err := json.Unmarshal(r.Body.Bytes(), &target)
	if err != nil {
		assert.FailNow(t, "Parsing error", "Unable to parse response from server %q into %v, '%v', Request ID: %s", r.Body, reflect.TypeOf(target), err, r.Result().Header.Get("x-request-id"))
	}
}

// AssertHTTPStatus verifies that the HTTP response status is correct
func AssertHTTPStatus(t *testing.T, r *httptest.ResponseRecorder, expectedStatus ...int) {
	require.Contains(t, expectedStatus, r.Code, "HTTP status is wrong. Request ID: '%s' Response body: %s", r.Result().Header.Get("x-request-id"), r.Body.String())
}
