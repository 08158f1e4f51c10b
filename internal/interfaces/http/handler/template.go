package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	printingapp "github.com/quickmemo/backend/internal/application/printing"
)

// TemplateService lists the invoice templates a seller can pick
type TemplateService interface {
	ListActive(ctx context.Context) ([]printingapp.TemplateResponse, error)
	GetDefault(ctx context.Context) (*printingapp.TemplateResponse, error)
	GetBySlug(ctx context.Context, slug string) (*printingapp.TemplateResponse, error)
}

// TemplateHandler serves the template registry
type TemplateHandler struct {
	BaseHandler
	service TemplateService
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(service TemplateService) *TemplateHandler {
	return &TemplateHandler{service: service}
}

// ListTemplates godoc
//
//	@ID				listInvoiceTemplates
//
//	@Summary		List active templates
//	@Description	Active templates in display order
//	@Tags			templates
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]printingapp.TemplateResponse]
//	@Failure		500	{object}	ErrorResponse
//	@Router			/templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	result, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetDefault godoc
//
//	@ID				getDefaultInvoiceTemplate
//
//	@Summary		Get the default template
//	@Tags			templates
//	@Produce		json
//	@Success		200	{object}	APIResponse[printingapp.TemplateResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Router			/templates/default [get]
func (h *TemplateHandler) GetDefault(c *gin.Context) {
	result, err := h.service.GetDefault(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetBySlug godoc
//
//	@ID				getInvoiceTemplate
//
//	@Summary		Get a template by slug
//	@Tags			templates
//	@Produce		json
//	@Param			slug	path		string	true	"Template slug"
//	@Success		200		{object}	APIResponse[printingapp.TemplateResponse]
//	@Failure		404		{object}	ErrorResponse
//	@Router			/templates/{slug} [get]
func (h *TemplateHandler) GetBySlug(c *gin.Context) {
	result, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
