package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Envelope is the JSON body every API endpoint answers with
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		Retryable bool   `json:"retryable"`
		JobID     string `json:"job_id"`
		Details   []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
	Meta *struct {
		Total int64 `json:"total"`
	} `json:"meta"`
}

// Client sends requests to an http.Handler as one tenant
type Client struct {
	Handler http.Handler
	Tenant  uuid.UUID
}

// NewClient creates a Client acting as tenant; uuid.Nil sends no tenant header
func NewClient(h http.Handler, tenant uuid.UUID) *Client {
	return &Client{Handler: h, Tenant: tenant}
}

// As returns a client for another tenant
func (c *Client) As(tenant uuid.UUID) *Client {
	return &Client{Handler: c.Handler, Tenant: tenant}
}

// Do sends body as JSON unless it is an io.Reader or nil
func (c *Client) Do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
		contentType = "text/csv"
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}

	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.Tenant != uuid.Nil {
		req.Header.Set("X-Tenant-ID", c.Tenant.String())
	}
	w := httptest.NewRecorder()
	c.Handler.ServeHTTP(w, req)
	return w
}

// Decode parses the response envelope
func Decode(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// DecodeData parses the data field of a successful response
func DecodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	env := Decode(t, w)
	require.True(t, env.Success, w.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), string(env.Data))
	return out
}

// RequireStatus fails the test with the body when the status differs
func RequireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}

// RequireError checks the status and error code of a failed response
func RequireError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) Envelope {
	t.Helper()
	RequireStatus(t, w, status)
	env := Decode(t, w)
	require.False(t, env.Success)
	require.NotNil(t, env.Error, w.Body.String())
	require.Equal(t, code, env.Error.Code)
	return env
}
