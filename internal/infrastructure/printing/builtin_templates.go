package printing

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quickmemo/backend/internal/domain/printing"
	"go.uber.org/zap"
)

//go:embed builtin/templates.json
var builtinFS embed.FS

const builtinTemplatesFile = "templates.json"

// builtinTemplate is one entry of builtin/templates.json
type builtinTemplate struct {
	Slug        string                  `json:"slug"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	IsDefault   bool                    `json:"isDefault"`
	SortOrder   int                     `json:"sortOrder"`
	PaperSize   printing.PaperSize      `json:"paperSize"`
	Config      json.RawMessage         `json:"config"`
	Preset      printing.TemplatePreset `json:"preset"`
}

// BuiltinTemplates loads the shipped templates. A templates.json in dir replaces the embedded set.
// IDs are derived from slugs, so every load yields the same IDs.
func BuiltinTemplates(dir string) ([]*printing.InvoiceTemplate, error) {
	data, err := loadBuiltinData(dir)
	if err != nil {
		return nil, err
	}

	var entries []builtinTemplate
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode built-in templates: %w", err)
	}

	templates := make([]*printing.InvoiceTemplate, 0, len(entries))
	defaults := 0
	for _, entry := range entries {
		tmpl, err := entry.toTemplate()
		if err != nil {
			return nil, fmt.Errorf("built-in template %q: %w", entry.Slug, err)
		}
		if tmpl.IsDefault {
			defaults++
		}
		templates = append(templates, tmpl)
	}
	if defaults > 1 {
		return nil, fmt.Errorf("built-in templates declare %d defaults", defaults)
	}
	return templates, nil
}

func loadBuiltinData(dir string) ([]byte, error) {
	if dir != "" {
		if data, err := os.ReadFile(filepath.Join(dir, builtinTemplatesFile)); err == nil {
			return data, nil
		}
	}
	return builtinFS.ReadFile("builtin/" + builtinTemplatesFile)
}

func (b builtinTemplate) toTemplate() (*printing.InvoiceTemplate, error) {
	cfg, err := printing.ParseTemplateConfig(b.Config)
	if err != nil {
		return nil, err
	}
	tmpl, err := printing.NewInvoiceTemplate(b.Slug, b.Name, cfg)
	if err != nil {
		return nil, err
	}
	tmpl.AssignID(printing.BuiltinTemplateID(b.Slug))
	tmpl.Description = b.Description
	tmpl.SortOrder = b.SortOrder
	if b.PaperSize != "" {
		if err := tmpl.SetPaperSize(b.PaperSize); err != nil {
			return nil, err
		}
	}
	if err := tmpl.SetPreset(b.Preset); err != nil {
		return nil, err
	}
	if b.IsDefault {
		if err := tmpl.SetAsDefault(); err != nil {
			return nil, err
		}
	}
	tmpl.Version = 1
	tmpl.ClearDomainEvents()
	return tmpl, nil
}

// SeedBuiltinTemplates saves every built-in template whose slug is not stored yet.
// The built-in default is only applied when the repository has no default.
func SeedBuiltinTemplates(ctx context.Context, repo printing.TemplateRepository, templates []*printing.InvoiceTemplate, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	hasDefault := true
	if _, err := repo.FindDefault(ctx); err != nil {
		hasDefault = false
	}

	seeded := 0
	for _, tmpl := range templates {
		exists, err := repo.ExistsBySlug(ctx, tmpl.Slug, nil)
		if err != nil {
			return seeded, fmt.Errorf("failed to check template %s: %w", tmpl.Slug, err)
		}
		if exists {
			continue
		}
		if tmpl.IsDefault && hasDefault {
			tmpl.UnsetDefault()
		}
		if err := repo.Save(ctx, tmpl); err != nil {
			return seeded, fmt.Errorf("failed to seed template %s: %w", tmpl.Slug, err)
		}
		if tmpl.IsDefault {
			hasDefault = true
		}
		seeded++
		logger.Info("Seeded built-in template",
			zap.String("slug", tmpl.Slug),
			zap.String("id", tmpl.ID.String()),
			zap.Bool("default", tmpl.IsDefault))
	}
	return seeded, nil
}
