package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	printingapp "github.com/quickmemo/backend/internal/application/printing"
	"github.com/quickmemo/backend/internal/domain/shared"
	infra "github.com/quickmemo/backend/internal/infrastructure/printing"
	"github.com/quickmemo/backend/internal/interfaces/http/dto"
	"github.com/quickmemo/backend/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func memoEngine(svc *mockMemoService) *gin.Engine {
	h := NewMemoHandler(svc)
	return newEngine([]*router.DomainGroup{
		MemoRoutes(h, requiredTenant()),
		OrderRoutes(h, requiredTenant()),
	})
}

func samplePDF() *printingapp.RenderedPDF {
	return &printingapp.RenderedPDF{
		MemoNumber: "123456",
		FileName:   "invoice-123456.pdf",
		URL:        "/files/" + testTenantID.String() + "/2024/03/7c1e2f60-1a2b-4c3d-8e9f-0a1b2c3d4e5f/invoice-123456.pdf",
		Data:       []byte("%PDF-1.3 memo"),
		Job:        &printingapp.PrintJobResponse{ID: uuid.NewString(), Status: "COMPLETED", MemoNumber: "123456"},
	}
}

func TestMemoHandler_Totals(t *testing.T) {
	svc := new(mockMemoService)
	engine := memoEngine(svc)

	svc.On("Totals", mock.Anything, mock.MatchedBy(func(req *printingapp.DocumentRequest) bool {
		return len(req.Items) == 1 && req.Items[0].Name == "Shirt" &&
			req.Items[0].UnitPrice.Equal(decimal.NewFromInt(500)) && req.PaymentMethod == "cod"
	})).Return(&printingapp.TotalsResponse{
		Kind:     "CASH_MEMO",
		Subtotal: decimal.NewFromInt(1000),
		Total:    decimal.NewFromInt(1010),
	}, nil)

	w := do(engine, request{method: http.MethodPost, target: "/api/v1/memos/totals", body: shirtMemo})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var totals printingapp.TotalsResponse
	decodeData(t, w, &totals)
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(1010)))
	svc.AssertExpectations(t)
}

func TestMemoHandler_Totals_Validation(t *testing.T) {
	svc := new(mockMemoService)
	engine := memoEngine(svc)

	w := do(engine, request{method: http.MethodPost, target: "/api/v1/memos/totals", body: `{"items":[]}`})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "items", resp.Error.Details[0].Field)
	svc.AssertNotCalled(t, "Totals")
}

func TestMemoHandler_Preview(t *testing.T) {
	svc := new(mockMemoService)
	engine := memoEngine(svc)

	t.Run("needs no tenant", func(t *testing.T) {
		svc.On("Preview", mock.Anything, mock.Anything).Return(&printingapp.PreviewResponse{
			HTML:       "<!DOCTYPE html>",
			MemoNumber: "123456",
			FileName:   "invoice-123456.pdf",
			Template:   "classic",
		}, nil).Once()

		w := do(engine, request{method: http.MethodPost, target: "/api/v1/memos/preview", body: shirtMemo})
		require.Equal(t, http.StatusOK, w.Code)

		var preview printingapp.PreviewResponse
		decodeData(t, w, &preview)
		assert.Equal(t, "123456", preview.MemoNumber)
	})

	t.Run("domain errors keep their message", func(t *testing.T) {
		svc.On("Preview", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("CUSTOMER_NAME_REQUIRED", "Customer name is required")).Once()

		w := do(engine, request{method: http.MethodPost, target: "/api/v1/memos/preview", body: shirtMemo})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "CUSTOMER_NAME_REQUIRED", resp.Error.Code)
		assert.Equal(t, "Customer name is required", resp.Error.Message)
		assert.NotEmpty(t, resp.Error.RequestID)
	})

	t.Run("no billable rows", func(t *testing.T) {
		svc.On("Preview", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("NO_ITEMS", "Add at least one item with a name and a price")).Once()

		w := do(engine, request{method: http.MethodPost, target: "/api/v1/memos/preview", body: shirtMemo})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestMemoHandler_GeneratePDF(t *testing.T) {
	t.Run("downloads the file by default", func(t *testing.T) {
		svc := new(mockMemoService)
		svc.On("GeneratePDF", mock.Anything, testTenantID, mock.Anything).Return(samplePDF(), nil)

		w := do(memoEngine(svc), request{method: http.MethodPost, target: "/api/v1/memos/pdf", body: shirtMemo, tenant: true})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="invoice-123456.pdf"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "123456", w.Header().Get(MemoNumberHeader))
		assert.Equal(t, "%PDF-1.3 memo", w.Body.String())
	})

	t.Run("json output", func(t *testing.T) {
		svc := new(mockMemoService)
		svc.On("GeneratePDF", mock.Anything, testTenantID, mock.Anything).Return(samplePDF(), nil)

		w := do(memoEngine(svc), request{method: http.MethodPost, target: "/api/v1/memos/pdf?output=json", body: shirtMemo, tenant: true})
		require.Equal(t, http.StatusCreated, w.Code)

		var pdf PDFResponse
		decodeData(t, w, &pdf)
		assert.Equal(t, "invoice-123456.pdf", pdf.FileName)
		assert.Equal(t, len("%PDF-1.3 memo"), pdf.SizeBytes)
		require.NotNil(t, pdf.Job)
		assert.Equal(t, "COMPLETED", pdf.Job.Status)
	})

	t.Run("both shares the memo number", func(t *testing.T) {
		svc := new(mockMemoService)
		svc.On("RenderBoth", mock.Anything, testTenantID, mock.Anything).Return(&printingapp.RenderBothResponse{
			Preview: &printingapp.PreviewResponse{MemoNumber: "123456"},
			PDF:     samplePDF(),
		}, nil)

		w := do(memoEngine(svc), request{method: http.MethodPost, target: "/api/v1/memos/pdf?output=both", body: shirtMemo, tenant: true})
		require.Equal(t, http.StatusCreated, w.Code)

		var both RenderBothHTTPResponse
		decodeData(t, w, &both)
		assert.Equal(t, both.Preview.MemoNumber, both.PDF.MemoNumber)
		svc.AssertNotCalled(t, "GeneratePDF")
	})

	t.Run("requires a tenant", func(t *testing.T) {
		svc := new(mockMemoService)
		w := do(memoEngine(svc), request{method: http.MethodPost, target: "/api/v1/memos/pdf", body: shirtMemo})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeTenantHeader, decode(t, w).Error.Code)
	})

	t.Run("unknown output", func(t *testing.T) {
		svc := new(mockMemoService)
		w := do(memoEngine(svc), request{method: http.MethodPost, target: "/api/v1/memos/pdf?output=zip", body: shirtMemo, tenant: true})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMemoHandler_GeneratePDF_RenderFailure(t *testing.T) {
	jobID := uuid.New()
	cases := []struct {
		name      string
		code      string
		status    int
		retryable bool
	}{
		{"timeout", infra.ErrCodeRenderTimeout, http.StatusGatewayTimeout, true},
		{"engine failure", infra.ErrCodeRenderFailed, http.StatusBadGateway, true},
		{"storage", infra.ErrCodeStorageFailed, http.StatusBadGateway, true},
		{"browser", infra.ErrCodeBrowserUnavailable, http.StatusServiceUnavailable, true},
		{"bad view", infra.ErrCodeInvalidView, http.StatusInternalServerError, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockMemoService)
			failure := &printingapp.RenderFailure{
				JobID: jobID,
				Err:   infra.NewRenderError(tc.code, "render went wrong", errors.New("boom")),
			}
			svc.On("GeneratePDF", mock.Anything, testTenantID, mock.Anything).Return(nil, failure)

			w := do(memoEngine(svc), request{method: http.MethodPost, target: "/api/v1/memos/pdf", body: shirtMemo, tenant: true})
			assert.Equal(t, tc.status, w.Code)

			resp := decode(t, w)
			assert.Equal(t, tc.retryable, resp.Error.Retryable)
			assert.Equal(t, jobID.String(), resp.Error.JobID)
			assert.Equal(t, "render went wrong", resp.Error.Message)
		})
	}

	t.Run("unknown errors are hidden", func(t *testing.T) {
		svc := new(mockMemoService)
		svc.On("GeneratePDF", mock.Anything, testTenantID, mock.Anything).Return(nil, errors.New("disk on fire"))

		w := do(memoEngine(svc), request{method: http.MethodPost, target: "/api/v1/memos/pdf", body: shirtMemo, tenant: true})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "disk on fire")
	})
}

func TestMemoHandler_Orders(t *testing.T) {
	orderID := uuid.New()

	t.Run("preview passes the query through", func(t *testing.T) {
		svc := new(mockMemoService)
		want := printingapp.OrderRenderRequest{Template: "bold", MemoNumber: "654321", PaperSize: "A5"}
		svc.On("PreviewOrder", mock.Anything, testTenantID, orderID, want).
			Return(&printingapp.PreviewResponse{MemoNumber: "654321", Template: "bold"}, nil)

		w := do(memoEngine(svc), request{
			method: http.MethodGet,
			target: "/api/v1/orders/" + orderID.String() + "/preview?template=bold&memo=654321&paper_size=A5",
			tenant: true,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("pdf download", func(t *testing.T) {
		svc := new(mockMemoService)
		svc.On("GenerateOrderPDF", mock.Anything, testTenantID, orderID, printingapp.OrderRenderRequest{}).Return(samplePDF(), nil)

		w := do(memoEngine(svc), request{method: http.MethodPost, target: "/api/v1/orders/" + orderID.String() + "/pdf", tenant: true})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "123456", w.Header().Get(MemoNumberHeader))
	})

	t.Run("pdf is post only", func(t *testing.T) {
		svc := new(mockMemoService)

		w := do(memoEngine(svc), request{method: http.MethodGet, target: "/api/v1/orders/" + orderID.String() + "/pdf", tenant: true})
		assert.Contains(t, []int{http.StatusNotFound, http.StatusMethodNotAllowed}, w.Code)
		svc.AssertNotCalled(t, "GenerateOrderPDF", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing order", func(t *testing.T) {
		svc := new(mockMemoService)
		svc.On("PreviewOrder", mock.Anything, testTenantID, orderID, mock.Anything).
			Return(nil, shared.NewDomainError("NOT_FOUND", "Order not found"))

		w := do(memoEngine(svc), request{method: http.MethodGet, target: "/api/v1/orders/" + orderID.String() + "/preview", tenant: true})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, decode(t, w).Error.Code)
	})

	t.Run("bad order id", func(t *testing.T) {
		svc := new(mockMemoService)
		w := do(memoEngine(svc), request{method: http.MethodGet, target: "/api/v1/orders/nope/preview", tenant: true})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad memo number", func(t *testing.T) {
		svc := new(mockMemoService)
		w := do(memoEngine(svc), request{method: http.MethodGet, target: "/api/v1/orders/" + orderID.String() + "/preview?memo=12", tenant: true})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "PreviewOrder")
	})

	t.Run("both is rejected", func(t *testing.T) {
		svc := new(mockMemoService)
		w := do(memoEngine(svc), request{method: http.MethodPost, target: "/api/v1/orders/" + orderID.String() + "/pdf?output=both", tenant: true})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
