package testutil

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestUUID(t *testing.T) {
	assert.Equal(t, NewTestUUID("a"), NewTestUUID("a"))
	assert.NotEqual(t, NewTestUUID("a"), NewTestUUID("b"))
	assert.NotEqual(t, TestTenantID(), OtherTenantID())
}

func echoEngine() *gin.Engine {
	engine := gin.New()
	engine.POST("/echo", func(c *gin.Context) {
		var body map[string]any
		_ = c.ShouldBindJSON(&body)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"tenant": c.GetHeader("X-Tenant-ID"),
			"type":   c.ContentType(),
			"body":   body,
		}})
	})
	engine.GET("/fail", func(c *gin.Context) {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": gin.H{"code": "ERR_NOT_RETRYABLE", "message": "no"}})
	})
	return engine
}

func TestClient(t *testing.T) {
	tenant := TestTenantID()
	client := NewClient(echoEngine(), tenant)

	w := client.Do(t, http.MethodPost, "/echo", map[string]string{"name": "Shirt"})
	RequireStatus(t, w, http.StatusOK)
	got := DecodeData[struct {
		Tenant string            `json:"tenant"`
		Type   string            `json:"type"`
		Body   map[string]string `json:"body"`
	}](t, w)
	assert.Equal(t, tenant.String(), got.Tenant)
	assert.Equal(t, "application/json", got.Type)
	assert.Equal(t, "Shirt", got.Body["name"])

	w = client.As(uuid.Nil).Do(t, http.MethodPost, "/echo", strings.NewReader("name,price\n"))
	got = DecodeData[struct {
		Tenant string            `json:"tenant"`
		Type   string            `json:"type"`
		Body   map[string]string `json:"body"`
	}](t, w)
	assert.Empty(t, got.Tenant)
	assert.Equal(t, "text/csv", got.Type)

	env := RequireError(t, client.Do(t, http.MethodGet, "/fail", nil), http.StatusConflict, "ERR_NOT_RETRYABLE")
	assert.Equal(t, "no", env.Error.Message)
}

type testEvent struct {
	shared.BaseDomainEvent
}

func TestMockEventHandler(t *testing.T) {
	h := NewMockEventHandler("PrintJobCompleted")
	assert.Equal(t, []string{"PrintJobCompleted"}, h.EventTypes())

	event := &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent("PrintJobCompleted", "PrintJob", uuid.New(), TestTenantID())}
	require.NoError(t, h.Handle(context.Background(), event))
	assert.Equal(t, []string{"PrintJobCompleted"}, h.Types())
	assert.True(t, WaitForEventCount(t, h, 1, time.Second))

	h.SetError(errors.New("boom"))
	assert.Error(t, h.Handle(context.Background(), event))
	assert.Len(t, h.Handled(), 2)

	h.Reset()
	assert.Empty(t, h.Handled())
}

func TestContextWithTimeout(t *testing.T) {
	ctx := ContextWithTimeout(t, time.Hour)
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), deadline, time.Minute)
}
