package printing_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/application/printing"
	"github.com/quickmemo/backend/internal/domain/memo"
	domain "github.com/quickmemo/backend/internal/domain/printing"
	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/quickmemo/backend/internal/domain/shared/valueobject"
	infra "github.com/quickmemo/backend/internal/infrastructure/printing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.InvoiceTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceTemplate), args.Error(1)
}

func (m *MockTemplateRepository) FindBySlug(ctx context.Context, slug string) (*domain.InvoiceTemplate, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceTemplate), args.Error(1)
}

func (m *MockTemplateRepository) FindDefault(ctx context.Context) (*domain.InvoiceTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceTemplate), args.Error(1)
}

func (m *MockTemplateRepository) FindActive(ctx context.Context) ([]domain.InvoiceTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceTemplate), args.Error(1)
}

func (m *MockTemplateRepository) FindAll(ctx context.Context, filter domain.TemplateFilter) ([]domain.InvoiceTemplate, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceTemplate), args.Error(1)
}

func (m *MockTemplateRepository) Save(ctx context.Context, template *domain.InvoiceTemplate) error {
	return m.Called(ctx, template).Error(0)
}

func (m *MockTemplateRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTemplateRepository) ClearDefault(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*domain.PrintJob, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PrintJob), args.Error(1)
}

func (m *MockJobRepository) FindByMemoNumber(ctx context.Context, tenantID uuid.UUID, memoNumber memo.MemoNumber) ([]domain.PrintJob, error) {
	args := m.Called(ctx, tenantID, memoNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PrintJob), args.Error(1)
}

func (m *MockJobRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter domain.PrintJobFilter) ([]domain.PrintJob, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PrintJob), args.Error(1)
}

func (m *MockJobRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter domain.PrintJobFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobRepository) Save(ctx context.Context, job *domain.PrintJob) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	args := m.Called(ctx, days)
	return args.Get(0).(int64), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*memo.OrderSnapshot, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*memo.OrderSnapshot), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*memo.OrderSnapshot, error) {
	args := m.Called(ctx, tenantID, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*memo.OrderSnapshot), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *memo.OrderSnapshot) error {
	return m.Called(ctx, order).Error(0)
}

type MockShopSource struct {
	mock.Mock
}

func (m *MockShopSource) LoadProfile(ctx context.Context, tenantID uuid.UUID) (*memo.ShopProfile, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*memo.ShopProfile), args.Error(1)
}

// flakyPDFRenderer fails the first failures calls, then delegates
type flakyPDFRenderer struct {
	failures int
	calls    int
	next     infra.PDFRenderer
}

func (r *flakyPDFRenderer) Render(ctx context.Context, view *infra.View) (*infra.RenderResult, error) {
	r.calls++
	if r.calls <= r.failures {
		return nil, infra.NewRenderError(infra.ErrCodeBrowserUnavailable, "browser is not reachable", errors.New("connection refused"))
	}
	return r.next.Render(ctx, view)
}

func (r *flakyPDFRenderer) Close() error {
	return nil
}

type recordedRender struct {
	format string
	layout string
	size   int
	failed bool
}

type fakeRecorder struct {
	renders []recordedRender
}

func (r *fakeRecorder) RecordRender(_ context.Context, format, layout string, _ time.Duration, size int, err error) {
	r.renders = append(r.renders, recordedRender{format: format, layout: layout, size: size, failed: err != nil})
}

type fakePublisher struct {
	types []string
}

func (p *fakePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		p.types = append(p.types, e.EventType())
	}
	return nil
}

type recordedJob struct {
	status string
	code   string
}

type fakeJobRecorder struct {
	jobs []recordedJob
}

func (r *fakeJobRecorder) RecordJob(_ context.Context, status, code string) {
	r.jobs = append(r.jobs, recordedJob{status: status, code: code})
}

// =============================================================================
// Fixtures
// =============================================================================

var (
	testTenantID = uuid.MustParse("7b0e4a52-3c1f-4c2b-9a43-2f4d9b1e6a10")
	testNow      = time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
)

func testShop() memo.ShopProfile {
	return memo.ShopProfile{
		ShopName:    "Rahim Fashion",
		OwnerName:   "Rahim",
		Mobile:      "01711111111",
		Address:     "Mirpur 10, Dhaka",
		BkashNumber: "01822222222",
	}
}

// shirtRequest: two shirts at 500, a blank row, delivery 60 and discount 50
func shirtRequest() *printing.DocumentRequest {
	return &printing.DocumentRequest{
		Kind:     "CASH_MEMO",
		Shop:     testShop(),
		Customer: memo.CustomerInfo{Name: "Karim", Mobile: "01900000000", Address: "Uttara, Dhaka"},
		Items: []printing.ItemRequest{
			{Name: "Shirt", Quantity: 2, UnitPrice: decimal.NewFromInt(500)},
			{Name: "", Quantity: 1, UnitPrice: decimal.NewFromInt(300)},
		},
		DeliveryCharge: decimal.NewFromInt(60),
		Discount:       decimal.NewFromInt(50),
		PaymentMethod:  "cod",
		IssuedAt:       &testNow,
	}
}

func bdt(v int64) valueobject.Money {
	return valueobject.NewMoneyBDTFromInt(v)
}

// testOrder: three panjabis at 200 with a 20 discount and 15 tax
func testOrder() *memo.OrderSnapshot {
	return &memo.OrderSnapshot{
		ID:          uuid.MustParse("1f6e3c58-7a0d-4d5e-8b1a-3c2e4f5a6b7c"),
		TenantID:    testTenantID,
		OrderNumber: "ORD-1001",
		Currency:    valueobject.BDT,
		Customer:    memo.CustomerInfo{Name: "Nadia", Mobile: "01555555555", Address: "Banani, Dhaka"},
		Items: []memo.OrderItemSnapshot{{
			ID:           uuid.New(),
			NameSnapshot: "Panjabi",
			Quantity:     3,
			UnitPrice:    bdt(200),
			ItemDiscount: bdt(20),
			Subtotal:     bdt(580),
		}},
		DeliveryCharge: bdt(0),
		TaxAmount:      bdt(15),
		Discount:       bdt(0),
		PaymentMethod:  memo.PaymentMethodPaid,
		CreatedAt:      testNow,
	}
}

func newBuiltinStore(t *testing.T) *infra.TemplateStore {
	t.Helper()
	store, err := infra.NewTemplateStore(nil)
	require.NoError(t, err)
	return store
}

func newHTMLRenderer(t *testing.T) *infra.HTMLRenderer {
	t.Helper()
	r, err := infra.NewHTMLRenderer(nil)
	require.NoError(t, err)
	return r
}

// pdfString is s as the embedded UTF-8 font writes it into page text
func pdfString(s string) string {
	var b strings.Builder
	for _, u := range utf16.Encode([]rune(s)) {
		b.WriteByte(byte(u >> 8))
		b.WriteByte(byte(u))
	}
	return "(" + strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(b.String()) + ")"
}

// uncompressed so assertions can search page text
func newPDFRenderer(t *testing.T) *infra.GofpdfRenderer {
	t.Helper()
	r, err := infra.NewGofpdfRenderer(&infra.GofpdfConfig{Compress: false})
	require.NoError(t, err)
	return r
}
