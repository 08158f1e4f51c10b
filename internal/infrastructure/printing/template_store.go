package printing

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/printing"
	"github.com/quickmemo/backend/internal/domain/shared"
)

var _ printing.TemplateRepository = (*TemplateStore)(nil)

// TemplateStore is an in-memory template repository.
// The CLI uses it to work offline on the built-in templates; tests use it as a fake.
type TemplateStore struct {
	mu        sync.RWMutex
	templates map[uuid.UUID]printing.InvoiceTemplate
}

// TemplateStoreConfig configures the template store
type TemplateStoreConfig struct {
	// ExternalDir may hold a templates.json that replaces the embedded built-ins
	ExternalDir string
	// Empty skips loading the built-ins
	Empty bool
}

// NewTemplateStore creates a store holding the built-in templates
func NewTemplateStore(config *TemplateStoreConfig) (*TemplateStore, error) {
	if config == nil {
		config = &TemplateStoreConfig{}
	}
	store := &TemplateStore{templates: make(map[uuid.UUID]printing.InvoiceTemplate)}
	if config.Empty {
		return store, nil
	}

	builtins, err := BuiltinTemplates(config.ExternalDir)
	if err != nil {
		return nil, err
	}
	for _, tmpl := range builtins {
		store.templates[tmpl.ID] = *tmpl
	}
	return store, nil
}

// FindByID returns shared.ErrNotFound for unknown IDs
func (s *TemplateStore) FindByID(_ context.Context, id uuid.UUID) (*printing.InvoiceTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tmpl, ok := s.templates[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &tmpl, nil
}

// FindBySlug returns shared.ErrNotFound for unknown slugs
func (s *TemplateStore) FindBySlug(_ context.Context, slug string) (*printing.InvoiceTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tmpl := range s.templates {
		if tmpl.Slug == slug {
			return &tmpl, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindDefault returns the active default template
func (s *TemplateStore) FindDefault(_ context.Context) (*printing.InvoiceTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tmpl := range s.templates {
		if tmpl.IsDefault && tmpl.IsActive() {
			return &tmpl, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindActive returns active templates by sort order, then name
func (s *TemplateStore) FindActive(ctx context.Context) ([]printing.InvoiceTemplate, error) {
	active := printing.TemplateStatusActive
	return s.FindAll(ctx, printing.TemplateFilter{Status: &active})
}

// FindAll filters by status, layout and a name/slug search, then paginates
func (s *TemplateStore) FindAll(_ context.Context, filter printing.TemplateFilter) ([]printing.InvoiceTemplate, error) {
	s.mu.RLock()
	result := make([]printing.InvoiceTemplate, 0, len(s.templates))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, tmpl := range s.templates {
		if filter.Status != nil && tmpl.Status != *filter.Status {
			continue
		}
		if filter.LayoutType != nil && tmpl.Config.LayoutType != *filter.LayoutType {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(tmpl.Name), search) && !strings.Contains(tmpl.Slug, search) {
			continue
		}
		result = append(result, tmpl)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].SortOrder != result[j].SortOrder {
			return result[i].SortOrder < result[j].SortOrder
		}
		return result[i].Name < result[j].Name
	})

	if filter.PageSize > 0 {
		page := max(filter.Page, 1)
		start := min((page-1)*filter.PageSize, len(result))
		end := min(start+filter.PageSize, len(result))
		result = result[start:end]
	}
	return result, nil
}

// Save inserts or replaces a template. Slugs are unique.
func (s *TemplateStore) Save(_ context.Context, template *printing.InvoiceTemplate) error {
	if template == nil {
		return shared.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.templates {
		if existing.Slug == template.Slug && id != template.ID {
			return shared.ErrAlreadyExists
		}
	}
	s.templates[template.ID] = *template
	return nil
}

// ExistsBySlug reports whether another template uses the slug
func (s *TemplateStore) ExistsBySlug(_ context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, tmpl := range s.templates {
		if tmpl.Slug != slug {
			continue
		}
		if excludeID != nil && id == *excludeID {
			continue
		}
		return true, nil
	}
	return false, nil
}

// ClearDefault clears the default flag on every template
func (s *TemplateStore) ClearDefault(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, tmpl := range s.templates {
		if tmpl.IsDefault {
			tmpl.UnsetDefault()
			s.templates[id] = tmpl
		}
	}
	return nil
}
