package integration

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantIsolation(t *testing.T) {
	srv := NewTestServer(t)
	owner := srv.Client()
	other := owner.As(testutil.OtherTenantID())

	w := owner.Do(t, http.MethodPost, "/api/v1/memos/pdf?output=json", invoiceRequest())
	testutil.RequireStatus(t, w, http.StatusCreated)
	generated := testutil.DecodeData[pdfResponse](t, w)
	require.NotNil(t, generated.Job)

	t.Run("jobs are not listed for other tenants", func(t *testing.T) {
		w := other.Do(t, http.MethodGet, "/api/v1/print-jobs", nil)
		testutil.RequireStatus(t, w, http.StatusOK)
		env := testutil.Decode(t, w)
		require.NotNil(t, env.Meta)
		assert.Zero(t, env.Meta.Total)
	})

	t.Run("job lookup", func(t *testing.T) {
		w := other.Do(t, http.MethodGet, "/api/v1/print-jobs/"+generated.Job.ID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())

		w = other.Do(t, http.MethodGet, "/api/v1/print-jobs/"+generated.Job.ID+"/download", nil)
		assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})

	t.Run("stored file", func(t *testing.T) {
		w := other.Do(t, http.MethodGet, generated.URL, nil)
		testutil.RequireError(t, w, http.StatusForbidden, "ERR_FORBIDDEN")
	})

	t.Run("profiles", func(t *testing.T) {
		w := owner.Do(t, http.MethodPut, "/api/v1/profile", map[string]any{"shopName": "Rahim Store", "ownerName": "Rahim", "mobile": "01800000000"})
		testutil.RequireStatus(t, w, http.StatusOK)

		w = other.Do(t, http.MethodGet, "/api/v1/profile", nil)
		assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})

	t.Run("tenant header required", func(t *testing.T) {
		anonymous := owner.As(uuid.Nil)
		w := anonymous.Do(t, http.MethodPost, "/api/v1/memos/pdf", invoiceRequest())
		testutil.RequireError(t, w, http.StatusBadRequest, "ERR_TENANT_REQUIRED")

		w = anonymous.Do(t, http.MethodGet, "/api/v1/print-jobs", nil)
		testutil.RequireError(t, w, http.StatusBadRequest, "ERR_TENANT_REQUIRED")

		w = anonymous.Do(t, http.MethodPost, "/api/v1/memos/totals", invoiceRequest())
		testutil.RequireStatus(t, w, http.StatusOK)
	})
}
