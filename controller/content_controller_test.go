// api/controller/content_controller_test.go
package controller_test

import (
	"encoding/json"
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

func TestContentController(t *testing.T) {
	logger.InitTestLogger()

	tokenService := newTestTokenService(t)
	mockContentService := new(mock.MockContentService)
	mockQuotaService := new(mock.MockQuotaService)
	mockAuditService := new(mock.MockAuditService)
	mockAuditService.On("LogEvent", testify_mock.Anything, testify_mock.Anything).Return(nil)

	contentController := controller.NewContentController(mockContentService, mockQuotaService, tokenService, mockAuditService)
	router := setupRouter()
	api := router.Group("/")
	contentController.RegisterRoutes(api)

	authed := func(method, path, body string) *http.Request {
		access, err := tokenService.Issue("user-1", auth.AccessToken)
		require.NoError(t, err)
		var reader *strings.Reader
		if body == "" {
			reader = strings.NewReader("{}")
		} else {
			reader = strings.NewReader(body)
		}
		req, _ := http.NewRequest(method, path, reader)
		req.Header.Set("Authorization", "Bearer "+access)
		return req
	}

	t.Run("RenderVideo_Success", func(t *testing.T) {
		mockQuotaService.On("Check", testify_mock.Anything, "user-1").Return(nil).Once()
		mockQuotaService.On("Increment", testify_mock.Anything, "user-1").Return(nil).Once()
		mockContentService.On("RequestRender", testify_mock.Anything, "user-1", "video", testify_mock.Anything).
			Return(&model.RenderJob{ID: "job-1", OwnerID: "user-1", Kind: "video", Status: "queued"}, nil).Once()

		w := httptest.NewRecorder()
		req := authed("POST", "/video/render", `{"content_id":"content-1","template":"shorts"}`)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusAccepted, w.Code)
		var job model.RenderJob
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
		assert.Equal(t, "queued", job.Status)
	})

	t.Run("RenderVideo_Failure_QuotaExhausted", func(t *testing.T) {
		mockQuotaService.Calls = nil
		mockContentService.Calls = nil
		mockQuotaService.On("Check", testify_mock.Anything, "user-1").
			Return(&vidora_errors.QuotaExceededError{QuotaLimit: 10, QuotaUsed: 10, UpgradeURL: "/billing/plans"}).Once()

		w := httptest.NewRecorder()
		req := authed("POST", "/video/render", `{"content_id":"content-1"}`)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusForbidden, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "/billing/plans", body["upgrade_url"])
		mockQuotaService.AssertNotCalled(t, "Increment", testify_mock.Anything, "user-1")
		mockContentService.AssertNotCalled(t, "RequestRender", testify_mock.Anything, "user-1", "video", testify_mock.Anything)
	})

	t.Run("RenderVideo_Failure_NoConsumeOnError", func(t *testing.T) {
		mockQuotaService.On("Check", testify_mock.Anything, "user-1").Return(nil).Once()
		mockContentService.On("RequestRender", testify_mock.Anything, "user-1", "video", testify_mock.Anything).
			Return(nil, vidora_errors.ErrContentNotFound).Once()

		w := httptest.NewRecorder()
		req := authed("POST", "/video/render", `{"content_id":"content-gone"}`)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("RenderAudio_UsesAudioKind", func(t *testing.T) {
		mockQuotaService.On("Check", testify_mock.Anything, "user-1").Return(nil).Once()
		mockQuotaService.On("Increment", testify_mock.Anything, "user-1").Return(nil).Once()
		mockContentService.On("RequestRender", testify_mock.Anything, "user-1", "audio", testify_mock.Anything).
			Return(&model.RenderJob{ID: "job-2", Kind: "audio", Status: "queued"}, nil).Once()

		w := httptest.NewRecorder()
		req := authed("POST", "/audio/generate", `{"content_id":"content-1","voice":"nova"}`)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)
	})

	t.Run("WriterGenerate_UsesScriptKind", func(t *testing.T) {
		mockQuotaService.On("Check", testify_mock.Anything, "user-1").Return(nil).Once()
		mockQuotaService.On("Increment", testify_mock.Anything, "user-1").Return(nil).Once()
		mockContentService.On("RequestRender", testify_mock.Anything, "user-1", "script", testify_mock.Anything).
			Return(&model.RenderJob{ID: "job-3", Kind: "script", Status: "queued"}, nil).Once()

		w := httptest.NewRecorder()
		req := authed("POST", "/writer/generate", `{"content_id":"content-1","script":"hook"}`)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)
	})

	t.Run("Render_Failure_Unauthenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/video/render", strings.NewReader(`{}`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("CreateContent_Success", func(t *testing.T) {
		mockContentService.On("CreateContent", testify_mock.Anything, testify_mock.Anything).
			Return(&model.ContentItem{ID: "content-1", OwnerID: "user-1"}, nil).Once()

		w := httptest.NewRecorder()
		req := authed("POST", "/content", `{"campaign_id":"camp-1","title":"Episode 1"}`)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("GetContent_Failure_NotFound", func(t *testing.T) {
		mockContentService.On("GetContent", testify_mock.Anything, "content-gone").
			Return(nil, vidora_errors.ErrContentNotFound).Once()

		w := httptest.NewRecorder()
		req := authed("GET", "/content/content-gone", "")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	mockContentService.AssertExpectations(t)
	mockQuotaService.AssertExpectations(t)
}
