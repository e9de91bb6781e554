package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/duynhne/form-service/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestLoggingMiddleware_TraceID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(LoggingMiddleware(zap.New(core)))

	var fromCtx *zap.Logger
	r.GET("/forms", func(c *gin.Context) {
		fromCtx = GetLoggerFromGinContext(c)
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"traceparent", map[string]string{
			TraceParentHeader: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
		}, "4bf92f3577b34da6a3ce929d0e0e4736"},
		{"x-trace-id", map[string]string{TraceIDHeader: "abc123"}, "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/forms", http.NoBody)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Header().Get(TraceIDHeader))
			assert.NotNil(t, fromCtx)
		})
	}

	t.Run("generated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/forms", http.NoBody))
		assert.Len(t, rr.Header().Get(TraceIDHeader), 32)
	})

	entries := logs.FilterMessage("HTTP request").All()
	require.NotEmpty(t, entries)
	assert.Equal(t, "/forms", entries[0].ContextMap()["path"])
}

func TestLoggingMiddleware_ErrorLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := gin.New()
	r.Use(LoggingMiddleware(zap.New(core)))
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bad", http.NoBody))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
}

func TestGetLoggerFromGinContext_Fallback(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, zap.L(), GetLoggerFromGinContext(c))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))

	_, err = NewLogger(config.LoggingConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)

	_, err = NewLogger(config.LoggingConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}

func TestPrometheusMiddleware_RouteTemplateLabel(t *testing.T) {
	r := gin.New()
	r.Use(PrometheusMiddleware("/metrics"))
	r.DELETE("/forms/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(requestTotal.WithLabelValues(http.MethodDelete, "/forms/:id", "200"))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/forms/one", http.NoBody))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/forms/two", http.NoBody))

	assert.Equal(t, before+2, testutil.ToFloat64(requestTotal.WithLabelValues(http.MethodDelete, "/forms/:id", "200")))
	assert.Zero(t, testutil.ToFloat64(requestsInFlight.WithLabelValues(http.MethodDelete, "/forms/:id")))
}

func TestPrometheusMiddleware_SkipsProbes(t *testing.T) {
	r := gin.New()
	r.Use(PrometheusMiddleware("/metrics"))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(requestTotal.WithLabelValues(http.MethodGet, "/health", "200"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	assert.Equal(t, before, testutil.ToFloat64(requestTotal.WithLabelValues(http.MethodGet, "/health", "200")))
}

func TestPrometheusMiddleware_Unmatched(t *testing.T) {
	r := gin.New()
	r.Use(PrometheusMiddleware("/metrics"))

	before := testutil.ToFloat64(requestTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/123", http.NoBody))

	assert.Equal(t, before+1, testutil.ToFloat64(requestTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404")))
}

func TestCORSMiddleware(t *testing.T) {
	newRouter := func(cfg config.CORSConfig) *gin.Engine {
		r := gin.New()
		r.Use(CORSMiddleware(cfg))
		r.GET("/forms", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	t.Run("any origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/forms", http.NoBody)
		req.Header.Set("Origin", "https://anywhere.example")
		rr := httptest.NewRecorder()
		newRouter(config.CORSConfig{AllowedOrigins: []string{"*"}}).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/forms", http.NoBody)
		req.Header.Set("Origin", "https://anywhere.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		rr := httptest.NewRecorder()
		newRouter(config.CORSConfig{AllowedOrigins: []string{"*"}}).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
	})

	t.Run("restricted", func(t *testing.T) {
		r := newRouter(config.CORSConfig{AllowedOrigins: []string{"https://app.example"}})

		req := httptest.NewRequest(http.MethodGet, "/forms", http.NoBody)
		req.Header.Set("Origin", "https://app.example")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, "https://app.example", rr.Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest(http.MethodGet, "/forms", http.NoBody)
		req.Header.Set("Origin", "https://evil.example")
		rr = httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
