package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/application/profile"
	"github.com/quickmemo/backend/internal/domain/memo"
	"github.com/quickmemo/backend/internal/interfaces/http/dto"
	"github.com/quickmemo/backend/internal/interfaces/http/middleware"
)

// MaxImportFileSize bounds an uploaded product CSV
const MaxImportFileSize = 1 << 20

// ProfileService loads and saves the tenant's shop profile and product list
type ProfileService interface {
	LoadProfile(ctx context.Context, tenantID uuid.UUID) (*memo.ShopProfile, error)
	SaveProfile(ctx context.Context, tenantID uuid.UUID, p memo.ShopProfile) (*memo.ShopProfile, error)
	LoadProducts(ctx context.Context, tenantID uuid.UUID) ([]profile.SavedProduct, error)
	SaveProducts(ctx context.Context, tenantID uuid.UUID, products []profile.SavedProduct) ([]profile.SavedProduct, error)
	ImportProducts(ctx context.Context, tenantID uuid.UUID, r io.Reader, mode profile.ImportMode) (*profile.ImportResult, error)
}

// ProfileHandler serves the saved shop profile and product list.
// Nothing is written unless the client calls one of the PUT endpoints.
type ProfileHandler struct {
	BaseHandler
	service ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// SaveProductsRequest replaces the saved product list
type SaveProductsRequest struct {
	Products []profile.SavedProduct `json:"products" binding:"required"`
}

// GetProfile godoc
//
//	@ID				getShopProfile
//
//	@Summary		Get the saved shop profile
//	@Tags			profile
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Success		200			{object}	APIResponse[memo.ShopProfile]
//	@Failure		404			{object}	ErrorResponse	"No profile saved yet"
//	@Router			/profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	result, err := h.service.LoadProfile(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SaveProfile godoc
//
//	@ID				saveShopProfile
//
//	@Summary		Save the shop profile
//	@Tags			profile
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header		string				true	"Tenant ID"
//	@Param			request		body		memo.ShopProfile	true	"Shop profile"
//	@Success		200			{object}	APIResponse[memo.ShopProfile]
//	@Failure		400			{object}	ErrorResponse
//	@Router			/profile [put]
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req memo.ShopProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.service.SaveProfile(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetProducts godoc
//
//	@ID				getSavedProducts
//
//	@Summary		Get the saved products
//	@Tags			profile
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Success		200			{object}	APIResponse[[]profile.SavedProduct]
//	@Router			/profile/products [get]
func (h *ProfileHandler) GetProducts(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	result, err := h.service.LoadProducts(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SaveProducts godoc
//
//	@ID				saveSavedProducts
//
//	@Summary		Replace the saved products
//	@Tags			profile
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header		string				true	"Tenant ID"
//	@Param			request		body		SaveProductsRequest	true	"Products"
//	@Success		200			{object}	APIResponse[[]profile.SavedProduct]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Router			/profile/products [put]
func (h *ProfileHandler) SaveProducts(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req SaveProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.service.SaveProducts(c.Request.Context(), tenantID, req.Products)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ImportProducts godoc
//
//	@ID				importSavedProducts
//
//	@Summary		Import saved products from CSV
//	@Description	Accepts a multipart "file" field or a text/csv body with name, sku and price columns.
//	@Tags			profile
//	@Accept			mpfd,plain
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			mode		query		string	false	"replace (default) or merge"
//	@Success		200			{object}	APIResponse[profile.ImportResult]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse	"Rows failed validation"
//	@Router			/profile/products/import [post]
func (h *ProfileHandler) ImportProducts(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	mode, err := profile.ParseImportMode(c.Query("mode"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	body, closeBody, err := importBody(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	defer closeBody()

	result, err := h.service.ImportProducts(c.Request.Context(), tenantID, body, mode)
	if err != nil {
		var rowsErr *profile.InvalidRowsError
		if errors.As(err, &rowsErr) {
			details := make([]dto.ValidationDetail, 0, len(rowsErr.Report.Errors))
			for _, e := range rowsErr.Report.Errors {
				field := fmt.Sprintf("row %d", e.Row)
				if e.Column != "" {
					field += "." + e.Column
				}
				details = append(details, dto.ValidationDetail{Field: field, Message: e.Message})
			}
			c.JSON(http.StatusUnprocessableEntity, dto.NewValidationErrorResponse(
				rowsErr.Error(), middleware.GetRequestID(c), details))
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// importBody returns the uploaded file, or the raw body for non-multipart requests
func importBody(c *gin.Context) (io.Reader, func(), error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImportFileSize+1<<10)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, nil, errors.New("multipart field \"file\" is required")
		}
		f, err := header.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open upload: %w", err)
		}
		return f, func() { _ = f.Close() }, nil
	}
	return c.Request.Body, func() {}, nil
}
