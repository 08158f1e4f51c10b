package integration

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	printingapp "github.com/quickmemo/backend/internal/application/printing"
	"github.com/quickmemo/backend/internal/application/profile"
	"github.com/quickmemo/backend/internal/infrastructure/cache"
	"github.com/quickmemo/backend/internal/infrastructure/event"
	"github.com/quickmemo/backend/internal/infrastructure/logger"
	"github.com/quickmemo/backend/internal/infrastructure/persistence"
	"github.com/quickmemo/backend/internal/infrastructure/printing"
	"github.com/quickmemo/backend/internal/infrastructure/storage"
	"github.com/quickmemo/backend/internal/interfaces/http/handler"
	"github.com/quickmemo/backend/internal/interfaces/http/middleware"
	"github.com/quickmemo/backend/internal/interfaces/http/router"
	"github.com/quickmemo/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// flakyRenderer fails the next N renders with a retryable error
type flakyRenderer struct {
	printing.PDFRenderer
	failures atomic.Int32
	renders  atomic.Int32
}

func (r *flakyRenderer) FailNext(n int) {
	r.failures.Store(int32(n))
}

func (r *flakyRenderer) Render(ctx context.Context, view *printing.View) (*printing.RenderResult, error) {
	r.renders.Add(1)
	if r.failures.Add(-1) >= 0 {
		return nil, printing.NewRenderError(printing.ErrCodeBrowserUnavailable, "browser crashed", nil)
	}
	r.failures.Store(0)
	return r.PDFRenderer.Render(ctx, view)
}

// TestServer is the HTTP API with in-memory storage and cache over a test database
type TestServer struct {
	Engine   *gin.Engine
	DB       *persistence.Database
	Orders   *persistence.GormOrderRepository
	Storage  *storage.MemoryPDFStorage
	Renderer *flakyRenderer
	Events   *testutil.MockEventHandler
}

// NewTestServer wires the API the way the server command does
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop()

	db := NewTestDB(t)
	templateRepo := persistence.NewGormTemplateRepository(db.DB)
	builtins, err := printing.BuiltinTemplates("")
	require.NoError(t, err)
	kv := cache.NewInMemoryKVStore()
	t.Cleanup(func() { _ = kv.Close() })
	pdfStorage := storage.NewMemoryPDFStorage()

	html, err := printing.NewHTMLRenderer(&printing.HTMLRendererConfig{Logger: log})
	require.NoError(t, err)
	pdf, err := printing.NewGofpdfRenderer(&printing.GofpdfConfig{Logger: log})
	require.NoError(t, err)
	renderer := &flakyRenderer{PDFRenderer: pdf}

	events := testutil.NewMockEventHandler()
	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(events)

	orders := persistence.NewGormOrderRepository(db.DB)
	profiles := profile.NewService(kv, log)
	registry := printingapp.NewTemplateRegistry(templateRepo, kv, 0, log)
	_, err = registry.Seed(ctx, builtins)
	require.NoError(t, err)
	documents := printingapp.NewDocumentService(registry, html, renderer,
		printingapp.WithJobs(persistence.NewGormPrintJobRepository(db.DB)),
		printingapp.WithStorage(pdfStorage),
		printingapp.WithOrders(orders, profiles),
		printingapp.WithEvents(bus),
		printingapp.WithServiceLogger(log),
	)

	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID(), logger.Recovery(log))
	tenant := middleware.Tenant(middleware.TenantConfig{Required: true, Logger: log})

	memoHandler := handler.NewMemoHandler(documents)
	r := router.NewRouter(engine)
	r.Register(handler.MemoRoutes(memoHandler, tenant)).
		Register(handler.OrderRoutes(memoHandler, tenant)).
		Register(handler.TemplateRoutes(handler.NewTemplateHandler(registry))).
		Register(handler.PrintJobRoutes(handler.NewPrintJobHandler(documents), tenant)).
		Register(handler.ProfileRoutes(handler.NewProfileHandler(profiles), tenant)).
		Mount(handler.FileRoutes(handler.NewFileHandler(pdfStorage), tenant))
	r.Setup()

	return &TestServer{
		Engine:   engine,
		DB:       db,
		Orders:   orders,
		Storage:  pdfStorage,
		Renderer: renderer,
		Events:   events,
	}
}

// Client returns an API client acting as the default test tenant
func (s *TestServer) Client() *testutil.Client {
	return testutil.NewClient(s.Engine, testutil.TestTenantID())
}
