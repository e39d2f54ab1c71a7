package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pgms/internal/auth"
	"pgms/internal/metrics"
)

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(MetricsMiddleware())

	router.GET("/test/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/test/:id", "200"))
	unmatched := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404"))

	for _, path := range []string{"/test/1", "/test/2", "/nope"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	}

	assert.Equal(t, before+2, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/test/:id", "200")))
	assert.Equal(t, unmatched+1, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestRequestLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLoggingMiddleware())

	router.GET("/test", func(c *gin.Context) {
		auth.SetAdmin(c, 7, "owner@example.com")
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("db down"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/test?x=1", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(1, 3))

	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code, "request %d within burst", i+1)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestRateLimiter_Sweep(t *testing.T) {
	clock := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(10, 10, time.Minute)
	rl.now = func() time.Time { return clock }

	ok, _ := rl.Reserve("10.0.0.1")
	require.True(t, ok)
	clock = clock.Add(30 * time.Second)
	rl.Reserve("10.0.0.2")

	clock = clock.Add(45 * time.Second)
	assert.Equal(t, 1, rl.Sweep())
	assert.Len(t, rl.visitors, 1)
}

func TestCorsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(corsMiddleware())

	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCorsMiddleware_OPTIONS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(corsMiddleware())

	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest("OPTIONS", "/test", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

type stubSender struct {
	to  string
	err error
}

func (s *stubSender) Send(_ context.Context, _, to, _, _, _ string) error {
	s.to = to
	return s.err
}

func TestTestEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		query          string
		err            error
		expectedStatus int
	}{
		{"missing address", "", nil, http.StatusBadRequest},
		{"queued", "?email=owner@example.com", nil, http.StatusOK},
		{"queue down", "?email=owner@example.com", errors.New("redis down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &stubSender{err: tt.err}
			router := gin.New()
			router.GET("/test-email", TestEmail(sender))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/test-email"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
