package proxy

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORSPreflight(t *testing.T) {
	handler := CORS(CORSConfig{AllowedOrigins: []string{"https://app.example.com"}})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, SearchPath, nil)
	req.Header.Set("Origin", "https://app.example.com")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusNoContent, res.Code)
	assert.Equal(t, "https://app.example.com", res.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", res.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Origin", res.Header().Get("Vary"))
}

func TestCORSUnknownOrigin(t *testing.T) {
	handler := CORS(CORSConfig{AllowedOrigins: []string{"https://app.example.com"}})(okHandler)

	req := httptest.NewRequest(http.MethodPost, SearchPath, nil)
	req.Header.Set("Origin", "https://evil.example.com")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Empty(t, res.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowAny(t *testing.T) {
	handler := CORS(CORSConfig{})(okHandler)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "*", res.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	handler := NewRateLimiter(RateLimit{RequestsPerMinute: 1, Burst: 1}, nil).Middleware(okHandler)

	req := httptest.NewRequest(http.MethodPost, SearchPath, nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	assert.Equal(t, http.StatusOK, res.Code)

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	assert.Equal(t, http.StatusTooManyRequests, res.Code)

	other := httptest.NewRequest(http.MethodPost, SearchPath, nil)
	other.Header.Set("X-Forwarded-For", "10.0.0.2, 10.0.0.1")
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, other)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRateLimiterDisabled(t *testing.T) {
	handler := NewRateLimiter(RateLimit{}, nil).Middleware(okHandler)
	for i := 0; i < 5; i++ {
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, SearchPath, nil))
		assert.Equal(t, http.StatusOK, res.Code)
	}
}

func TestRateLimiterForgetsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(RateLimit{RequestsPerMinute: 1, Burst: 1}, nil)
	now := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
	limiter.clockNow = func() time.Time { return now }

	limiter.obtainLimiter("10.0.0.1")
	assert.Len(t, limiter.visitors, 1)

	now = now.Add(2 * visitorIdleTTL)
	limiter.obtainLimiter("10.0.0.2")
	assert.Len(t, limiter.visitors, 1)
	assert.Contains(t, limiter.visitors, "10.0.0.2")
}

func TestClientID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", clientID(req))

	req.Header.Set("X-Forwarded-For", " 198.51.100.7 , 10.0.0.1")
	assert.Equal(t, "198.51.100.7", clientID(req))

	req.Header.Set("X-Real-IP", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", clientID(req))
}
