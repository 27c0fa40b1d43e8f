package middleware

import (
	"errors"
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

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/ok/:id", func(c *gin.Context) {
		c.Set(ContextUserIDKey, "user-1")
		c.Status(http.StatusOK)
	})
	router.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("database exploded"))
		c.Status(http.StatusInternalServerError)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok/42", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.All()
	require.Len(t, entries, 2)

	ok := entries[0]
	assert.Equal(t, zapcore.InfoLevel, ok.Level)
	assert.Equal(t, "/ok/:id", ok.ContextMap()["path"])
	assert.Equal(t, "user-1", ok.ContextMap()["user_id"])

	failed := entries[1]
	assert.Equal(t, zapcore.ErrorLevel, failed.Level)
	assert.Equal(t, int64(http.StatusInternalServerError), failed.ContextMap()["status"])
	assert.Equal(t, []interface{}{"database exploded"}, failed.ContextMap()["errors"])
}
