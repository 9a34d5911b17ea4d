// api/controller/campaign_controller_test.go
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

func TestCampaignController(t *testing.T) {
	logger.InitTestLogger()

	tokenService := newTestTokenService(t)
	mockCampaignService := new(mock.MockCampaignService)

	campaignController := controller.NewCampaignController(mockCampaignService, tokenService)
	router := setupRouter()
	api := router.Group("/")
	campaignController.RegisterRoutes(api)

	authed := func(method, path, body string) *http.Request {
		access, err := tokenService.Issue("user-1", auth.AccessToken)
		require.NoError(t, err)
		req, _ := http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+access)
		return req
	}

	t.Run("CreateCampaign_Success", func(t *testing.T) {
		mockCampaignService.On("CreateCampaign", testify_mock.Anything, testify_mock.MatchedBy(func(c model.Campaign) bool {
			return c.OwnerID == "user-1" && c.Name == "Daily Shorts"
		})).Return(&model.Campaign{ID: "camp-1", OwnerID: "user-1", Name: "Daily Shorts", Cadence: "daily", Status: "active"}, nil).Once()

		w := httptest.NewRecorder()
		req := authed("POST", "/campaigns", `{"name":"Daily Shorts","topic":"tech news","cadence":"daily"}`)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		var created model.Campaign
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, "camp-1", created.ID)
		assert.Equal(t, "user-1", created.OwnerID)
	})

	t.Run("CreateCampaign_Failure_Unauthenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/campaigns", strings.NewReader(`{"name":"x"}`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("UpdateCampaign_Failure_Forbidden", func(t *testing.T) {
		mockCampaignService.On("UpdateCampaign", testify_mock.Anything, testify_mock.MatchedBy(func(c model.Campaign) bool {
			return c.ID == "camp-2" && c.OwnerID == "user-1"
		})).Return(nil, vidora_errors.ErrForbidden).Once()

		w := httptest.NewRecorder()
		req := authed("PUT", "/campaigns/camp-2", `{"name":"Renamed"}`)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("DeleteCampaign_Success", func(t *testing.T) {
		mockCampaignService.On("DeleteCampaign", testify_mock.Anything, "camp-1", "user-1").Return(nil).Once()

		w := httptest.NewRecorder()
		req := authed("DELETE", "/campaigns/camp-1", "")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("GetCampaign_Failure_NotFound", func(t *testing.T) {
		mockCampaignService.On("GetCampaign", testify_mock.Anything, "missing").
			Return(nil, vidora_errors.ErrCampaignNotFound).Once()

		w := httptest.NewRecorder()
		req := authed("GET", "/campaigns/missing", "")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("ListCampaigns_Success", func(t *testing.T) {
		mockCampaignService.On("ListCampaigns", testify_mock.Anything, "user-1", 10, 0).
			Return([]*model.Campaign{
				{ID: "camp-1", OwnerID: "user-1", Name: "Daily Shorts"},
				{ID: "camp-2", OwnerID: "user-1", Name: "Weekly Recap"},
			}, nil).Once()

		w := httptest.NewRecorder()
		req := authed("GET", "/campaigns", "")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Campaigns []model.Campaign `json:"campaigns"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Len(t, body.Campaigns, 2)
	})

	t.Run("ListCampaigns_Failure_BadPagination", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := authed("GET", "/campaigns?limit=abc", "")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	mockCampaignService.AssertExpectations(t)
}
