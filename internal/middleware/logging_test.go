package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(log), Recovery(log))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadGateway) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/health/live", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		path      string
		wantLevel zapcore.Level
		status    int
	}{
		{path: "/ok", wantLevel: zapcore.InfoLevel, status: http.StatusOK},
		{path: "/fail", wantLevel: zapcore.ErrorLevel, status: http.StatusBadGateway},
		{path: "/health/live", wantLevel: zapcore.DebugLevel, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			w := httptest.NewRecorder()

			newRouter(zap.New(core)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, w.Code)
			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.wantLevel, entry.Level)
			assert.Equal(t, tt.path, entry.ContextMap()["path"])
			assert.Equal(t, int64(tt.status), entry.ContextMap()["status"])
		})
	}
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := httptest.NewRecorder()

	newRouter(zap.New(core)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "An unexpected error occurred")
	assert.Equal(t, 1, logs.FilterMessage("Recovered from panic").Len())
	completed := logs.FilterMessage("Request completed").All()
	require.Len(t, completed, 1)
	assert.Equal(t, zapcore.ErrorLevel, completed[0].Level)
}
