// api/controller/apikey_controller_test.go
package controller_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	testify_mock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vidora-labs/vidora/api/auth"
	"github.com/vidora-labs/vidora/api/controller"
	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	logger "github.com/vidora-labs/vidora/api/logging"
	"github.com/vidora-labs/vidora/api/model"
	"github.com/vidora-labs/vidora/api/test/mock"
)

func TestAPIKeyController(t *testing.T) {
	logger.InitTestLogger()

	tokenService := newTestTokenService(t)
	mockAPIKeyService := new(mock.MockAPIKeyService)
	apiKeyController := controller.NewAPIKeyController(mockAPIKeyService, tokenService)
	router := setupRouter()
	api := router.Group("/")
	apiKeyController.RegisterRoutes(api)

	access, err := tokenService.Issue("user-1", auth.AccessToken)
	require.NoError(t, err)

	t.Run("CreateKey_Success", func(t *testing.T) {
		mockAPIKeyService.On("CreateKey", testify_mock.Anything, "user-1", "ci", 50, testify_mock.Anything).
			Return(&model.CreatedAPIKey{
				APIKey: model.APIKey{ID: "key-1", UserID: "user-1", Label: "ci", RateLimit: 50},
				Secret: "vk_secret",
			}, nil).Once()

		body := strings.NewReader(`{"label":"ci","rate_limit":50}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/apikeys", body)
		req.Header.Set("Authorization", "Bearer "+access)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "vk_secret")
	})

	t.Run("CreateKey_Failure_MissingLabel", func(t *testing.T) {
		body := strings.NewReader(`{"rate_limit":50}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/apikeys", body)
		req.Header.Set("Authorization", "Bearer "+access)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ListKeys_Success", func(t *testing.T) {
		mockAPIKeyService.On("ListKeys", testify_mock.Anything, "user-1").
			Return([]*model.APIKey{{ID: "key-1", Label: "ci"}}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/apikeys", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "key-1")
	})

	t.Run("DeactivateKey_Success", func(t *testing.T) {
		mockAPIKeyService.On("DeactivateKey", testify_mock.Anything, "user-1", "key-1").
			Return(nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/apikeys/key-1", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("DeactivateKey_Failure_NotFound", func(t *testing.T) {
		mockAPIKeyService.On("DeactivateKey", testify_mock.Anything, "user-1", "key-gone").
			Return(vidora_errors.ErrAPIKeyNotFound).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/apikeys/key-gone", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("AllRoutes_Failure_Unauthenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/apikeys", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	mockAPIKeyService.AssertExpectations(t)
}
