// api/middleware/security_headers_test.go
package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/vidora-labs/vidora/api/middleware"
)

func headersRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.SecurityHeaders())
	r.GET("/campaigns", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/billing/plans", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestSecurityHeaders(t *testing.T) {
	t.Run("BaselineHeadersAlwaysPresent", func(t *testing.T) {
		viper.Set("server.env", "development")
		router := headersRouter()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/campaigns", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
		assert.NotEmpty(t, w.Header().Get("Permissions-Policy"))
		assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
		assert.Empty(t, w.Header().Get("Cache-Control"))
	})

	t.Run("HeadersOnUnmatchedRoutes", func(t *testing.T) {
		viper.Set("server.env", "development")
		router := headersRouter()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/no/such/route", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	})

	t.Run("NoStoreOnAuthAndBilling", func(t *testing.T) {
		viper.Set("server.env", "development")
		router := headersRouter()

		for _, path := range []string{"/auth/login", "/billing/plans"} {
			method := "GET"
			if path == "/auth/login" {
				method = "POST"
			}
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(method, path, nil)
			router.ServeHTTP(w, req)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"), path)
			assert.Equal(t, "no-cache", w.Header().Get("Pragma"), path)
		}
	})

	t.Run("ProductionOnlyHeaders", func(t *testing.T) {
		viper.Set("server.env", "production")
		viper.Set("server.corsAllowedOrigin", "https://app.vidora.io")
		defer func() {
			viper.Set("server.env", "development")
			viper.Set("server.corsAllowedOrigin", "")
		}()
		router := headersRouter()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/campaigns", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
		assert.Equal(t, "https://app.vidora.io", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", w.Header().Get("Vary"))
	})
}
