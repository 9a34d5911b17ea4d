// api/controller/auth_controller_test.go
package controller_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
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

type noopRevocationStore struct{}

func (noopRevocationStore) RevokeToken(ctx context.Context, token string, ttl time.Duration) error {
	return nil
}

func (noopRevocationStore) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	return false, nil
}

func newTestTokenService(t *testing.T) *auth.TokenService {
	svc, err := auth.NewTokenService("test-secret", 30*time.Minute, 168*time.Hour, noopRevocationStore{})
	require.NoError(t, err)
	return svc
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestAuthController(t *testing.T) {
	logger.InitTestLogger()

	tokenService := newTestTokenService(t)
	mockUserService := new(mock.MockUserService)
	mockAuditService := new(mock.MockAuditService)
	mockAuditService.On("LogEvent", testify_mock.Anything, testify_mock.Anything).Return(nil)

	authController := controller.NewAuthController(mockUserService, tokenService, mockAuditService)
	router := setupRouter()
	api := router.Group("/")
	authController.RegisterRoutes(api)

	t.Run("Register_Success", func(t *testing.T) {
		mockUserService.On("Register", testify_mock.Anything, "Ada", "ada@example.com", "longenough", "free", testify_mock.Anything).
			Return(&model.User{ID: "user-1", Name: "Ada", Email: "ada@example.com", Plan: "free"}, nil).Once()

		body := strings.NewReader(`{"name":"Ada","email":"ada@example.com","password":"longenough"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/auth/register", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Register_Failure_EmailTaken", func(t *testing.T) {
		mockUserService.On("Register", testify_mock.Anything, "Ada", "ada@example.com", "longenough", "free", testify_mock.Anything).
			Return(nil, vidora_errors.ErrEmailTaken).Once()

		body := strings.NewReader(`{"name":"Ada","email":"ada@example.com","password":"longenough"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/auth/register", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Register_Failure_ShortPassword", func(t *testing.T) {
		body := strings.NewReader(`{"name":"Ada","email":"ada@example.com","password":"short"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/auth/register", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Login_Success", func(t *testing.T) {
		mockUserService.On("Authenticate", testify_mock.Anything, "ada@example.com", "longenough").
			Return(&model.User{ID: "user-1", Email: "ada@example.com"}, nil).Once()

		body := strings.NewReader(`{"email":"ada@example.com","password":"longenough"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/auth/login", body)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["access_token"])
		assert.NotEmpty(t, resp["refresh_token"])
	})

	t.Run("Login_Failure_BadCredentials", func(t *testing.T) {
		mockUserService.On("Authenticate", testify_mock.Anything, "ada@example.com", "wrongpass").
			Return(nil, vidora_errors.ErrInvalidCredentials).Once()

		body := strings.NewReader(`{"email":"ada@example.com","password":"wrongpass"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/auth/login", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	})

	t.Run("Refresh_Success", func(t *testing.T) {
		refresh, err := tokenService.Issue("user-1", auth.RefreshToken)
		require.NoError(t, err)

		body := strings.NewReader(`{"refresh_token":"` + refresh + `"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/auth/refresh", body)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["access_token"])
	})

	t.Run("Refresh_Failure_AccessTokenPresented", func(t *testing.T) {
		access, err := tokenService.Issue("user-1", auth.AccessToken)
		require.NoError(t, err)

		body := strings.NewReader(`{"refresh_token":"` + access + `"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/auth/refresh", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Me_Success", func(t *testing.T) {
		mockUserService.On("GetUser", testify_mock.Anything, "user-1").
			Return(&model.User{ID: "user-1", Email: "ada@example.com"}, nil).Once()

		access, err := tokenService.Issue("user-1", auth.AccessToken)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Me_Failure_NoToken", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/auth/me", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Logout_Success", func(t *testing.T) {
		access, err := tokenService.Issue("user-1", auth.AccessToken)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	mockUserService.AssertExpectations(t)
}
