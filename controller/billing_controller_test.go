// api/controller/billing_controller_test.go
package controller_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	testify_mock "github.com/stretchr/testify/mock"

	"github.com/vidora-labs/vidora/api/controller"
	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	logger "github.com/vidora-labs/vidora/api/logging"
	"github.com/vidora-labs/vidora/api/model"
	"github.com/vidora-labs/vidora/api/test/mock"
)

func TestBillingController(t *testing.T) {
	logger.InitTestLogger()
	viper.Set("billing.webhookSecret", "whsec_test")
	defer viper.Set("billing.webhookSecret", "")

	mockBillingService := new(mock.MockBillingService)
	billingController := controller.NewBillingController(mockBillingService)
	router := setupRouter()
	api := router.Group("/")
	billingController.RegisterRoutes(api)

	t.Run("ListPlans", func(t *testing.T) {
		mockBillingService.On("Plans").Return([]model.Plan{
			{Name: "free", MonthlyQuota: 10},
			{Name: "creator", MonthlyQuota: 100},
		}).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/billing/plans", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "creator")
	})

	t.Run("Webhook_Success", func(t *testing.T) {
		mockBillingService.On("ProcessRenewal", testify_mock.Anything, testify_mock.Anything).
			Return(nil).Once()

		body := strings.NewReader(`{"user_id":"user-1","plan":"creator","period":"2026-09"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/billing/webhook", body)
		req.Header.Set("X-Webhook-Secret", "whsec_test")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Webhook_Failure_BadSecret", func(t *testing.T) {
		mockBillingService.Calls = nil
		body := strings.NewReader(`{"user_id":"user-1","plan":"creator"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/billing/webhook", body)
		req.Header.Set("X-Webhook-Secret", "whsec_wrong")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockBillingService.AssertNotCalled(t, "ProcessRenewal", testify_mock.Anything, testify_mock.Anything)
	})

	t.Run("Webhook_Failure_MissingFields", func(t *testing.T) {
		body := strings.NewReader(`{"plan":"creator"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/billing/webhook", body)
		req.Header.Set("X-Webhook-Secret", "whsec_test")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Webhook_Failure_UnknownUser", func(t *testing.T) {
		mockBillingService.On("ProcessRenewal", testify_mock.Anything, testify_mock.Anything).
			Return(vidora_errors.ErrUserNotFound).Once()

		body := strings.NewReader(`{"user_id":"user-gone","plan":"creator"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/billing/webhook", body)
		req.Header.Set("X-Webhook-Secret", "whsec_test")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	mockBillingService.AssertExpectations(t)
}
