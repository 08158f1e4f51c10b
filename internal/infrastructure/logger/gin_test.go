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
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestGinMiddleware(t *testing.T) {
	base, logs := observed()
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set("request_id", "req-7")
		c.Next()
	})
	engine.Use(GinMiddleware(base, "/health"))
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/api/v1/templates/:slug", func(c *gin.Context) {
		ctx, _ := WithTenantID(c.Request.Context(), GetGinLogger(c), "tenant-7")
		c.Request = c.Request.WithContext(ctx)
		GetGinLogger(c).Info("handler")
		c.String(http.StatusOK, "ok")
	})
	engine.GET("/boom", func(c *gin.Context) { c.Status(http.StatusBadGateway) })
	engine.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(engine, "/health")
	assert.Zero(t, logs.Len())

	serve(engine, "/api/v1/templates/bold?preview=1")
	entries := logs.TakeAll()
	require.Len(t, entries, 2)

	handler := entries[0].ContextMap()
	assert.Equal(t, "req-7", handler["request_id"])
	assert.Equal(t, "tenant-7", handler["tenant_id"])

	access := entries[1]
	assert.Equal(t, "HTTP Request", access.Message)
	assert.Equal(t, zapcore.InfoLevel, access.Level)
	fields := access.ContextMap()
	assert.Equal(t, "/api/v1/templates/:slug", fields["route"])
	assert.Equal(t, "tenant-7", fields["tenant_id"])
	assert.Equal(t, "preview=1", fields["query"])
	assert.EqualValues(t, http.StatusOK, fields["status"])

	serve(engine, "/missing")
	serve(engine, "/boom")
	entries = logs.TakeAll()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestRecovery(t *testing.T) {
	base, logs := observed()
	engine := gin.New()
	engine.Use(Recovery(base))
	engine.GET("/panic", func(c *gin.Context) { panic("template missing") })

	w := serve(engine, "/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"ERR_INTERNAL"`)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Panic recovered", logs.All()[0].Message)
}

func TestGetGinLogger(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, GetGinLogger(c))

	l := zap.NewExample()
	c.Set(ginLoggerKey, l)
	assert.Same(t, l, GetGinLogger(c))

	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	other := zap.NewNop()
	c.Request = c.Request.WithContext(WithContext(c.Request.Context(), other))
	assert.Same(t, other, GetGinLogger(c))
}
