package v1_test

import (
	"net/http"
	"testing"

	v1 "github.com/budgetbook/backend/internal/controllers/v1"
	"github.com/budgetbook/backend/internal/models"
	"github.com/budgetbook/backend/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) createTestTagCategory(t *testing.T, name string, headers map[string]string, expectedStatus ...int) v1.TagCategory {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	recorder := test.Request(t, suite.controller, http.MethodPost, "http://example.com/v1/tag-categories", v1.TagCategoryEditable{Name: name}, headers)
	test.AssertHTTPStatus(t, &recorder, expectedStatus...)

	var response v1.TagCategoryResponse
	test.DecodeResponse(t, &recorder, &response)
	if response.Data == nil {
		return v1.TagCategory{}
	}
	return *response.Data
}

func (suite *TestSuiteStandard) createTestTag(t *testing.T, category uuid.UUID, name string, headers map[string]string, expectedStatus ...int) models.Tag {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	recorder := test.Request(t, suite.controller, http.MethodPost, "http://example.com/v1/tags", v1.TagEditable{CategoryID: category, Name: name}, headers)
	test.AssertHTTPStatus(t, &recorder, expectedStatus...)

	var response v1.TagResponse
	test.DecodeResponse(t, &recorder, &response)
	if response.Data == nil {
		return models.Tag{}
	}
	return *response.Data
}

func (suite *TestSuiteStandard) TestTagsOptions() {
	tests := []struct {
		path     string
		expected string
	}{
		{"/v1/tag-categories", "OPTIONS, GET, POST"},
		{"/v1/tag-categories/" + uuid.NewString(), "OPTIONS, GET, PATCH, DELETE"},
		{"/v1/tags", "OPTIONS, GET, POST"},
		{"/v1/tags/" + uuid.NewString(), "OPTIONS, GET, PATCH, DELETE"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.path, func(t *testing.T) {
			recorder := test.Request(t, suite.controller, http.MethodOptions, "http://example.com"+tt.path, nil)
			test.AssertHTTPStatus(t, &recorder, http.StatusNoContent)
			assert.Equal(t, tt.expected, recorder.Header().Get("allow"))
		})
	}
}

func (suite *TestSuiteStandard) TestTagCategories() {
	_, headers := suite.signIn("jane@example.com")

	trips := suite.createTestTagCategory(suite.T(), " Trips ", headers)
	suite.Assert().Equal("Trips", trips.Name)
	suite.Assert().Empty(trips.Tags)
	suite.Assert().Equal("http://example.com/v1/tags?category="+trips.ID.String(), trips.Links.Tags)

	suite.createTestTag(suite.T(), trips.ID, "Lisbon 2024", headers)
	suite.createTestTag(suite.T(), trips.ID, "Berlin 2023", headers)
	suite.createTestTagCategory(suite.T(), "Events", headers)

	recorder := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/tag-categories", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TagCategoryListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 2)
	suite.Assert().Equal("Events", response.Data[0].Name)
	suite.Assert().Equal("Trips", response.Data[1].Name)
	suite.Require().Len(response.Data[1].Tags, 2)
	suite.Assert().Equal("Berlin 2023", response.Data[1].Tags[0].Name)
}

func (suite *TestSuiteStandard) TestTagCategoryDuplicateName() {
	_, headers := suite.signIn("jane@example.com")
	_, john := suite.signIn("john@example.com")

	suite.createTestTagCategory(suite.T(), "Trips", headers)
	suite.createTestTagCategory(suite.T(), "Trips", headers, http.StatusConflict)

	// Names are unique per user only
	suite.createTestTagCategory(suite.T(), "Trips", john)
}

func (suite *TestSuiteStandard) TestTagCategoryValidation() {
	_, headers := suite.signIn("jane@example.com")

	recorder := test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/v1/tag-categories", map[string]string{"name": ""}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	suite.Assert().JSONEq(`{"error": "Name is required", "fields": {"name": "Name is required"}}`, recorder.Body.String())
}

func (suite *TestSuiteStandard) TestTagCategoryUpdate() {
	_, headers := suite.signIn("jane@example.com")
	trips := suite.createTestTagCategory(suite.T(), "Trips", headers)

	recorder := test.Request(suite.T(), suite.controller, http.MethodPatch, trips.Links.Self, v1.TagCategoryEditable{Name: "Travel"}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TagCategoryResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("Travel", response.Data.Name)
}

func (suite *TestSuiteStandard) TestTagCategoryDeleteCascades() {
	_, headers := suite.signIn("jane@example.com")
	trips := suite.createTestTagCategory(suite.T(), "Trips", headers)
	tag := suite.createTestTag(suite.T(), trips.ID, "Lisbon 2024", headers)

	recorder := test.Request(suite.T(), suite.controller, http.MethodDelete, trips.Links.Self, nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/tags/"+tag.ID.String(), nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	recorder = test.Request(suite.T(), suite.controller, http.MethodDelete, trips.Links.Self, nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestTagsUserScope() {
	_, jane := suite.signIn("jane@example.com")
	_, john := suite.signIn("john@example.com")

	trips := suite.createTestTagCategory(suite.T(), "Trips", jane)
	tag := suite.createTestTag(suite.T(), trips.ID, "Lisbon 2024", jane)

	// Tags cannot be added to categories of other users
	suite.createTestTag(suite.T(), trips.ID, "Sneaky", john, http.StatusNotFound)

	for _, path := range []string{trips.Links.Self, "http://example.com/v1/tags/" + tag.ID.String()} {
		recorder := test.Request(suite.T(), suite.controller, http.MethodGet, path, nil, john)
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

		recorder = test.Request(suite.T(), suite.controller, http.MethodDelete, path, nil, john)
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
	}

	recorder := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/tags", nil, john)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	suite.Assert().JSONEq(`{"data": [], "error": null}`, recorder.Body.String())
}

func (suite *TestSuiteStandard) TestTagsFilter() {
	_, headers := suite.signIn("jane@example.com")
	trips := suite.createTestTagCategory(suite.T(), "Trips", headers)
	events := suite.createTestTagCategory(suite.T(), "Events", headers)
	suite.createTestTag(suite.T(), trips.ID, "Lisbon 2024", headers)
	suite.createTestTag(suite.T(), events.ID, "Concert", headers)

	recorder := test.Request(suite.T(), suite.controller, http.MethodGet, trips.Links.Tags, nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TagListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal("Lisbon 2024", response.Data[0].Name)

	recorder = test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/tags?category=trips", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestTagUpdate() {
	_, headers := suite.signIn("jane@example.com")
	trips := suite.createTestTagCategory(suite.T(), "Trips", headers)
	events := suite.createTestTagCategory(suite.T(), "Events", headers)
	tag := suite.createTestTag(suite.T(), trips.ID, "Lisbon", headers)
	path := "http://example.com/v1/tags/" + tag.ID.String()

	recorder := test.Request(suite.T(), suite.controller, http.MethodPatch, path, map[string]any{"name": "Lisbon 2024"}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TagResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("Lisbon 2024", response.Data.Name)
	suite.Assert().Equal(trips.ID, response.Data.CategoryID)

	recorder = test.Request(suite.T(), suite.controller, http.MethodPatch, path, map[string]any{"categoryId": events.ID}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(events.ID, response.Data.CategoryID)
	suite.Assert().Equal("Lisbon 2024", response.Data.Name)

	recorder = test.Request(suite.T(), suite.controller, http.MethodPatch, path, map[string]any{"categoryId": uuid.New()}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	recorder = test.Request(suite.T(), suite.controller, http.MethodPatch, path, map[string]any{"name": ""}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestTagDelete() {
	_, headers := suite.signIn("jane@example.com")
	trips := suite.createTestTagCategory(suite.T(), "Trips", headers)
	tag := suite.createTestTag(suite.T(), trips.ID, "Lisbon", headers)

	recorder := test.Request(suite.T(), suite.controller, http.MethodDelete, "http://example.com/v1/tags/"+tag.ID.String(), nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), suite.controller, http.MethodGet, trips.Links.Self, nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TagCategoryResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Empty(response.Data.Tags)
}
