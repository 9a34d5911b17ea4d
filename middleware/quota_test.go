// api/middleware/quota_test.go
package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	testify_mock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	logger "github.com/vidora-labs/vidora/api/logging"
	"github.com/vidora-labs/vidora/api/middleware"
	"github.com/vidora-labs/vidora/api/test/mock"
)

// fakeQuota records check/increment calls against a fixed allowance.
type fakeQuota struct {
	limit      int
	used       int
	checkErr   error
	increments int
}

func (f *fakeQuota) Check(ctx context.Context, userID string) error {
	if f.checkErr != nil {
		return f.checkErr
	}
	if f.used >= f.limit {
		return &vidora_errors.QuotaExceededError{
			QuotaLimit: f.limit,
			QuotaUsed:  f.used,
			UpgradeURL: "/billing/plans",
		}
	}
	return nil
}

func (f *fakeQuota) Increment(ctx context.Context, userID string) error {
	f.increments++
	f.used++
	return nil
}

func quotaRouter(quota *fakeQuota, userID string, handlerStatus int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	auditSvc := new(mock.MockAuditService)
	auditSvc.On("LogEvent", testify_mock.Anything, testify_mock.Anything).Return(nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.ContextUserID, userID)
		}
		c.Next()
	})
	gate := middleware.QuotaGate(quota, auditSvc)
	r.POST("/video/render", gate, func(c *gin.Context) { c.Status(handlerStatus) })
	r.GET("/quota", gate, func(c *gin.Context) { c.Status(handlerStatus) })
	return r
}

func TestQuotaGate(t *testing.T) {
	logger.InitTestLogger()

	t.Run("MissingIdentity", func(t *testing.T) {
		quota := &fakeQuota{limit: 10}
		router := quotaRouter(quota, "", http.StatusOK)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/video/render", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
		assert.Zero(t, quota.increments)
	})

	t.Run("AllowsAndConsumes", func(t *testing.T) {
		quota := &fakeQuota{limit: 10, used: 4}
		router := quotaRouter(quota, "user-1", http.StatusAccepted)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/video/render", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, 1, quota.increments)
	})

	t.Run("ExhaustedQuotaPayload", func(t *testing.T) {
		quota := &fakeQuota{limit: 10, used: 10}
		router := quotaRouter(quota, "user-1", http.StatusAccepted)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/video/render", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusForbidden, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Quota exceeded", body["error"])
		assert.Equal(t, float64(10), body["quota_limit"])
		assert.Equal(t, float64(10), body["quota_used"])
		assert.Equal(t, float64(0), body["quota_remaining"])
		assert.Equal(t, "/billing/plans", body["upgrade_url"])
		assert.Zero(t, quota.increments)
	})

	t.Run("NoConsumeOnHandlerFailure", func(t *testing.T) {
		quota := &fakeQuota{limit: 10}
		router := quotaRouter(quota, "user-1", http.StatusBadGateway)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/video/render", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Zero(t, quota.increments)
	})

	t.Run("ReadsNeverConsume", func(t *testing.T) {
		quota := &fakeQuota{limit: 10}
		router := quotaRouter(quota, "user-1", http.StatusOK)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/quota", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, quota.increments)
	})

	t.Run("UserNotFound", func(t *testing.T) {
		quota := &fakeQuota{limit: 10, checkErr: vidora_errors.ErrUserNotFound}
		router := quotaRouter(quota, "user-gone", http.StatusOK)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/video/render", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("LastUnitIsGranted", func(t *testing.T) {
		quota := &fakeQuota{limit: 10, used: 9}
		router := quotaRouter(quota, "user-1", http.StatusAccepted)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/video/render", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusAccepted, w.Code)

		// The allowance is now spent; the next attempt is rejected
		w = httptest.NewRecorder()
		req, _ = http.NewRequest("POST", "/video/render", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, 1, quota.increments)
	})
}
