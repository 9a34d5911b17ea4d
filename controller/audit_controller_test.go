// api/controller/audit_controller_test.go
package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	testify_mock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vidora-labs/vidora/api/audit"
	"github.com/vidora-labs/vidora/api/auth"
	"github.com/vidora-labs/vidora/api/controller"
	logger "github.com/vidora-labs/vidora/api/logging"
	"github.com/vidora-labs/vidora/api/test/mock"
)

func TestAuditController(t *testing.T) {
	logger.InitTestLogger()

	tokenService := newTestTokenService(t)
	mockAuditService := new(mock.MockAuditService)

	auditController := controller.NewAuditController(mockAuditService, tokenService)
	router := setupRouter()
	api := router.Group("/")
	auditController.RegisterRoutes(api)

	authed := func(path string) *http.Request {
		access, err := tokenService.Issue("user-1", auth.AccessToken)
		require.NoError(t, err)
		req, _ := http.NewRequest("GET", path, nil)
		req.Header.Set("Authorization", "Bearer "+access)
		return req
	}

	t.Run("QueryLogs_Success_DefaultRange", func(t *testing.T) {
		mockAuditService.On("QueryLogs", testify_mock.Anything, testify_mock.Anything, testify_mock.Anything, "user-1", "").
			Return([]audit.AuditLog{
				{Timestamp: time.Now(), UserID: "user-1", Action: audit.ActionQuotaDenied, ResourceID: "/video/render"},
			}, nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authed("/audit/logs"))

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Logs []audit.AuditLog `json:"logs"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Logs, 1)
		assert.Equal(t, audit.ActionQuotaDenied, body.Logs[0].Action)
	})

	t.Run("QueryLogs_Success_ExplicitRangeAndResource", func(t *testing.T) {
		from, _ := time.Parse(time.RFC3339, "2026-08-01T00:00:00Z")
		to, _ := time.Parse(time.RFC3339, "2026-08-25T00:00:00Z")
		mockAuditService.On("QueryLogs", testify_mock.Anything, from, to, "user-1", "/video/render").
			Return([]audit.AuditLog{}, nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authed("/audit/logs?from=2026-08-01T00:00:00Z&to=2026-08-25T00:00:00Z&resource_id=/video/render"))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("QueryLogs_Failure_BadTimestamp", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authed("/audit/logs?from=yesterday"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("QueryLogs_Failure_Unauthenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/audit/logs", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	mockAuditService.AssertExpectations(t)
}
