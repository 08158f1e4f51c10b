package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/quickmemo/backend/internal/interfaces/http/router"
)

// TemplateRoutes creates the route group of the template registry
func TemplateRoutes(h *TemplateHandler) *router.DomainGroup {
	group := router.NewDomainGroup("templates", "/templates")
	group.GET("", h.ListTemplates)
	group.GET("/default", h.GetDefault)
	group.GET("/:slug", h.GetBySlug)
	return group
}

// MemoRoutes creates the route group for documents sent in the request body.
// Totals and previews are stateless; printing records a job for the tenant.
func MemoRoutes(h *MemoHandler, tenant gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("memos", "/memos")
	group.POST("/totals", h.Totals)
	group.POST("/preview", h.Preview)
	group.POST("/pdf", tenant, h.GeneratePDF)
	return group
}

// OrderRoutes creates the route group for rendering stored orders
func OrderRoutes(h *MemoHandler, tenant gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("orders", "/orders")
	group.Use(tenant)
	group.GET("/:id/preview", h.PreviewOrder)
	group.POST("/:id/pdf", h.GenerateOrderPDF)
	return group
}

// PrintJobRoutes creates the route group for print jobs
func PrintJobRoutes(h *PrintJobHandler, tenant gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("print-jobs", "/print-jobs")
	group.Use(tenant)
	group.GET("", h.ListJobs)
	group.GET("/:id", h.GetJob)
	group.POST("/:id/retry", h.RetryJob)
	group.GET("/:id/download", h.DownloadJob)
	return group
}

// ProfileRoutes creates the route group for the saved shop profile
func ProfileRoutes(h *ProfileHandler, tenant gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("profile", "/profile")
	group.Use(tenant)
	group.GET("", h.GetProfile)
	group.PUT("", h.SaveProfile)
	group.GET("/products", h.GetProducts)
	group.PUT("/products", h.SaveProducts)
	group.POST("/products/import", h.ImportProducts)
	return group
}

// SystemRoutes creates the route group for system endpoints
func SystemRoutes(h *SystemHandler) *router.DomainGroup {
	group := router.NewDomainGroup("system", "/system")
	group.GET("/info", h.GetSystemInfo)
	group.GET("/ping", h.Ping)
	return group
}

// FileRoutes creates the route group serving stored PDFs. It is mounted
// outside the versioned API so the URLs on print jobs stay stable.
func FileRoutes(h *FileHandler, tenant gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("files", "/files")
	group.Use(tenant)
	group.GET("/:tenant_id/:year/:month/:job_id/:filename", h.ServePDF)
	return group
}
