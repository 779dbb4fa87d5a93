package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/digitaltreasurer/treasurer-api/internal/config"
	"github.com/digitaltreasurer/treasurer-api/internal/http/middleware"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func serve(h http.Handler, path, remoteAddr string, headers map[string]string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: false, RequestsPerMinute: 1}, zap.NewNop())
	h := rl.LimitByIP(okHandler())

	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, serve(h, "/api/v1/options", "192.168.1.1:1234", nil))
	}
}

func TestRateLimiter_LimitByIP(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 2,
		WhitelistIPs:      []string{"127.0.0.1"},
		WhitelistPaths:    []string{"/health", "/swagger/*"},
	}, zap.NewNop())
	h := rl.LimitByIP(okHandler())

	assert.Equal(t, http.StatusOK, serve(h, "/api/v1/options", "10.0.0.1:1234", nil))
	assert.Equal(t, http.StatusOK, serve(h, "/api/v1/options", "10.0.0.1:1234", nil))
	assert.Equal(t, http.StatusTooManyRequests, serve(h, "/api/v1/options", "10.0.0.1:1234", nil))

	t.Run("other clients keep their budget", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(h, "/api/v1/options", "10.0.0.2:1234", nil))
	})

	t.Run("forwarded address is the key", func(t *testing.T) {
		headers := map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}
		assert.Equal(t, http.StatusOK, serve(h, "/api/v1/options", "10.0.0.1:1234", headers))
		assert.Equal(t, http.StatusOK, serve(h, "/api/v1/options", "10.0.0.1:1234", headers))
		assert.Equal(t, http.StatusTooManyRequests, serve(h, "/api/v1/options", "10.0.0.1:1234", headers))
	})

	t.Run("whitelisted paths and addresses", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusOK, serve(h, "/health", "10.0.0.1:1234", nil))
			assert.Equal(t, http.StatusOK, serve(h, "/swagger/index.html", "10.0.0.1:1234", nil))
			assert.Equal(t, http.StatusOK, serve(h, "/api/v1/options", "127.0.0.1:1234", nil))
		}
	})
}

func TestRateLimiter_LimitLogin(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{
		Enabled:                true,
		RequestsPerMinute:      100,
		LoginAttemptsPerMinute: 1,
	}, zap.NewNop())
	h := rl.LimitLogin(okHandler())

	assert.Equal(t, http.StatusOK, serve(h, "/api/v1/auth/login", "10.0.0.9:1234", nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))
	assert.Contains(t, rr.Body.String(), "Too many requests")
}
