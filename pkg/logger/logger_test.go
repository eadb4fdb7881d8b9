package logger

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

func TestMiddleware_LogsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	r := gin.New()
	r.Use(Middleware(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok?token=secret", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/ok", entries[0].ContextMap()["path"])
	assert.NotContains(t, entries[0].ContextMap()["path"], "secret")

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.EqualValues(t, http.StatusNotFound, entries[1].ContextMap()["status"])
}

func TestNew(t *testing.T) {
	l, err := New(true)
	require.NoError(t, err)
	assert.NotNil(t, l)
}
