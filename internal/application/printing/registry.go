package printing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quickmemo/backend/internal/domain/printing"
	"github.com/quickmemo/backend/internal/domain/shared"
	infra "github.com/quickmemo/backend/internal/infrastructure/printing"
	"go.uber.org/zap"
)

const (
	templateCachePrefix = "template:"
	defaultCacheKey     = templateCachePrefix + "@default"
)

// ResolvedTemplate is everything a render needs from a template
type ResolvedTemplate struct {
	Slug      string                  `json:"slug"`
	Config    printing.TemplateConfig `json:"config"`
	Preset    printing.TemplatePreset `json:"preset"`
	PaperSize printing.PaperSize      `json:"paperSize"`
	Margins   printing.Margins        `json:"margins"`
	// Fallback is set when the hardcoded default config was used
	Fallback bool `json:"-"`
}

// FallbackTemplate is the hardcoded template used when no stored one can be found
func FallbackTemplate(slug string) ResolvedTemplate {
	return ResolvedTemplate{
		Slug:      slug,
		Config:    printing.DefaultTemplateConfig(),
		PaperSize: printing.PaperSizeA4,
		Margins:   printing.DefaultMargins(),
		Fallback:  true,
	}
}

// TemplateRegistry serves invoice templates and resolves render configs
type TemplateRegistry struct {
	repo   printing.TemplateRepository
	cache  shared.KVStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewTemplateRegistry creates a registry. cache may be nil.
func NewTemplateRegistry(repo printing.TemplateRepository, cache shared.KVStore, ttl time.Duration, logger *zap.Logger) *TemplateRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateRegistry{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// ListActive returns the active templates in display order
func (r *TemplateRegistry) ListActive(ctx context.Context) ([]TemplateResponse, error) {
	templates, err := r.repo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	result := make([]TemplateResponse, len(templates))
	for i := range templates {
		result[i] = toTemplateResponse(&templates[i])
	}
	return result, nil
}

// GetDefault returns the default template
func (r *TemplateRegistry) GetDefault(ctx context.Context) (*TemplateResponse, error) {
	tmpl, err := r.repo.FindDefault(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "No default template is set")
		}
		return nil, fmt.Errorf("failed to get default template: %w", err)
	}
	resp := toTemplateResponse(tmpl)
	return &resp, nil
}

// GetBySlug returns an active template by slug
func (r *TemplateRegistry) GetBySlug(ctx context.Context, slug string) (*TemplateResponse, error) {
	tmpl, err := r.findActive(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := toTemplateResponse(tmpl)
	return &resp, nil
}

// ResolveConfig never fails. An empty slug means the default template; any lookup
// problem yields FallbackTemplate.
func (r *TemplateRegistry) ResolveConfig(ctx context.Context, slug string) ResolvedTemplate {
	slug = strings.TrimSpace(slug)
	key := defaultCacheKey
	if slug != "" {
		key = templateCachePrefix + slug
	}

	if resolved, ok := r.cached(ctx, key); ok {
		return resolved
	}

	var (
		tmpl *printing.InvoiceTemplate
		err  error
	)
	if slug == "" {
		tmpl, err = r.repo.FindDefault(ctx)
	} else {
		tmpl, err = r.findActive(ctx, slug)
	}
	if err != nil {
		r.logger.Warn("Template lookup failed, using default config",
			zap.String("slug", slug),
			zap.Error(err))
		return FallbackTemplate(slug)
	}

	resolved := ResolvedTemplate{
		Slug:      tmpl.Slug,
		Config:    tmpl.Config,
		Preset:    tmpl.Preset,
		PaperSize: tmpl.PaperSize,
		Margins:   tmpl.Margins,
	}
	if err := resolved.Config.Validate(); err != nil {
		r.logger.Warn("Stored template config is invalid, using default config",
			zap.String("slug", tmpl.Slug),
			zap.Error(err))
		resolved.Config = printing.DefaultTemplateConfig()
	}
	r.store(ctx, key, resolved)
	return resolved
}

// Seed stores the built-in templates the repository lacks. When any row is
// written, cached configs for every built-in slug and the default are dropped.
func (r *TemplateRegistry) Seed(ctx context.Context, templates []*printing.InvoiceTemplate) (int, error) {
	seeded, err := infra.SeedBuiltinTemplates(ctx, r.repo, templates, r.logger)
	if seeded > 0 {
		for _, tmpl := range templates {
			r.Invalidate(ctx, tmpl.Slug)
		}
	}
	return seeded, err
}

// Invalidate drops cached configs for a slug and for the default
func (r *TemplateRegistry) Invalidate(ctx context.Context, slug string) {
	if r.cache == nil {
		return
	}
	for _, key := range []string{templateCachePrefix + slug, defaultCacheKey} {
		if err := r.cache.Delete(ctx, key); err != nil {
			r.logger.Warn("Failed to invalidate template cache", zap.String("key", key), zap.Error(err))
		}
	}
}

func (r *TemplateRegistry) findActive(ctx context.Context, slug string) (*printing.InvoiceTemplate, error) {
	tmpl, err := r.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Template not found: "+slug)
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	if !tmpl.IsActive() {
		return nil, shared.NewDomainError("NOT_FOUND", "Template not found: "+slug)
	}
	return tmpl, nil
}

func (r *TemplateRegistry) cached(ctx context.Context, key string) (ResolvedTemplate, bool) {
	if r.cache == nil {
		return ResolvedTemplate{}, false
	}
	data, err := r.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			r.logger.Debug("Template cache read failed", zap.String("key", key), zap.Error(err))
		}
		return ResolvedTemplate{}, false
	}
	var resolved ResolvedTemplate
	if err := json.Unmarshal(data, &resolved); err != nil {
		return ResolvedTemplate{}, false
	}
	if resolved.Config.Validate() != nil {
		return ResolvedTemplate{}, false
	}
	return resolved, true
}

func (r *TemplateRegistry) store(ctx context.Context, key string, resolved ResolvedTemplate) {
	if r.cache == nil {
		return
	}
	data, err := json.Marshal(resolved)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		r.logger.Debug("Template cache write failed", zap.String("key", key), zap.Error(err))
	}
}
