package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	printingapp "github.com/quickmemo/backend/internal/application/printing"
	"github.com/quickmemo/backend/internal/application/profile"
	"github.com/quickmemo/backend/internal/domain/memo"
	"github.com/quickmemo/backend/internal/interfaces/http/dto"
	"github.com/quickmemo/backend/internal/interfaces/http/middleware"
	"github.com/quickmemo/backend/internal/interfaces/http/router"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

var testTenantID = uuid.MustParse("6f1c2a9e-8d1b-4c8e-9b7a-3f2e1d0c9b8a")

// =============================================================================
// Service mocks
// =============================================================================

type mockMemoService struct{ mock.Mock }

func (m *mockMemoService) Totals(ctx context.Context, req *printingapp.DocumentRequest) (*printingapp.TotalsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.TotalsResponse), args.Error(1)
}

func (m *mockMemoService) Preview(ctx context.Context, req *printingapp.DocumentRequest) (*printingapp.PreviewResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.PreviewResponse), args.Error(1)
}

func (m *mockMemoService) GeneratePDF(ctx context.Context, tenantID uuid.UUID, req *printingapp.DocumentRequest) (*printingapp.RenderedPDF, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.RenderedPDF), args.Error(1)
}

func (m *mockMemoService) RenderBoth(ctx context.Context, tenantID uuid.UUID, req *printingapp.DocumentRequest) (*printingapp.RenderBothResponse, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.RenderBothResponse), args.Error(1)
}

func (m *mockMemoService) PreviewOrder(ctx context.Context, tenantID, orderID uuid.UUID, req printingapp.OrderRenderRequest) (*printingapp.PreviewResponse, error) {
	args := m.Called(ctx, tenantID, orderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.PreviewResponse), args.Error(1)
}

func (m *mockMemoService) GenerateOrderPDF(ctx context.Context, tenantID, orderID uuid.UUID, req printingapp.OrderRenderRequest) (*printingapp.RenderedPDF, error) {
	args := m.Called(ctx, tenantID, orderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.RenderedPDF), args.Error(1)
}

type mockTemplateService struct{ mock.Mock }

func (m *mockTemplateService) ListActive(ctx context.Context) ([]printingapp.TemplateResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]printingapp.TemplateResponse), args.Error(1)
}

func (m *mockTemplateService) GetDefault(ctx context.Context) (*printingapp.TemplateResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.TemplateResponse), args.Error(1)
}

func (m *mockTemplateService) GetBySlug(ctx context.Context, slug string) (*printingapp.TemplateResponse, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.TemplateResponse), args.Error(1)
}

type mockPrintJobService struct{ mock.Mock }

func (m *mockPrintJobService) ListJobs(ctx context.Context, tenantID uuid.UUID, req printingapp.ListJobsRequest) (*printingapp.ListJobsResponse, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.ListJobsResponse), args.Error(1)
}

func (m *mockPrintJobService) GetJob(ctx context.Context, tenantID, jobID uuid.UUID) (*printingapp.PrintJobResponse, error) {
	args := m.Called(ctx, tenantID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.PrintJobResponse), args.Error(1)
}

func (m *mockPrintJobService) RetryJob(ctx context.Context, tenantID, jobID uuid.UUID, req *printingapp.DocumentRequest) (*printingapp.RenderedPDF, error) {
	args := m.Called(ctx, tenantID, jobID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.RenderedPDF), args.Error(1)
}

func (m *mockPrintJobService) DownloadJob(ctx context.Context, tenantID, jobID uuid.UUID) (io.ReadCloser, string, error) {
	args := m.Called(ctx, tenantID, jobID)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}

type mockProfileService struct{ mock.Mock }

func (m *mockProfileService) LoadProfile(ctx context.Context, tenantID uuid.UUID) (*memo.ShopProfile, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*memo.ShopProfile), args.Error(1)
}

func (m *mockProfileService) SaveProfile(ctx context.Context, tenantID uuid.UUID, p memo.ShopProfile) (*memo.ShopProfile, error) {
	args := m.Called(ctx, tenantID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*memo.ShopProfile), args.Error(1)
}

func (m *mockProfileService) LoadProducts(ctx context.Context, tenantID uuid.UUID) ([]profile.SavedProduct, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]profile.SavedProduct), args.Error(1)
}

func (m *mockProfileService) SaveProducts(ctx context.Context, tenantID uuid.UUID, products []profile.SavedProduct) ([]profile.SavedProduct, error) {
	args := m.Called(ctx, tenantID, products)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]profile.SavedProduct), args.Error(1)
}

func (m *mockProfileService) ImportProducts(ctx context.Context, tenantID uuid.UUID, r io.Reader, mode profile.ImportMode) (*profile.ImportResult, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(ctx, tenantID, string(data), mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.ImportResult), args.Error(1)
}

type mockFileSource struct{ mock.Mock }

func (m *mockFileSource) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// =============================================================================
// Helpers
// =============================================================================

// newEngine mounts groups the way the server does: versioned API groups and root mounts
func newEngine(api []*router.DomainGroup, mounts ...*router.DomainGroup) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	r := router.NewRouter(engine)
	for _, g := range api {
		r.Register(g)
	}
	for _, g := range mounts {
		r.Mount(g)
	}
	r.Setup()
	return engine
}

func requiredTenant() gin.HandlerFunc {
	return middleware.Tenant(middleware.TenantConfig{Required: true})
}

type request struct {
	method string
	target string
	body        string
	tenant      bool
	contentType string
}

func do(engine *gin.Engine, r request) *httptest.ResponseRecorder {
	var body io.Reader
	if r.body != "" {
		body = strings.NewReader(r.body)
	}
	req := httptest.NewRequest(r.method, r.target, body)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	} else if r.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.tenant {
		req.Header.Set(middleware.TenantHeaderKey, testTenantID.String())
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// decodeData unmarshals the data field of a success response into dst
func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.True(t, resp.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, dst))
}

const shirtMemo = `{
	"kind": "CASH_MEMO",
	"customer": {"name": "Karim", "mobile": "01700000000"},
	"items": [{"name": "Shirt", "quantity": 2, "unitPrice": "500"}],
	"deliveryCharge": "60",
	"discount": "50",
	"paymentMethod": "cod"
}`
