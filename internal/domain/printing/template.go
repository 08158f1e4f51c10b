package printing

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// PresetItem is a starter row a preset puts on a new document
type PresetItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// TemplatePreset carries profession-specific starter content
type TemplatePreset struct {
	Profession   string       `json:"profession,omitempty"`
	InvoiceTitle string       `json:"invoiceTitle,omitempty"`
	ItemsHeader  string       `json:"itemsHeader,omitempty"`
	DefaultNotes string       `json:"defaultNotes,omitempty"`
	DefaultItems []PresetItem `json:"defaultItems,omitempty"`
}

// IsZero reports whether the preset carries no content
func (p TemplatePreset) IsZero() bool {
	return p.Profession == "" && p.InvoiceTitle == "" && p.ItemsHeader == "" &&
		p.DefaultNotes == "" && len(p.DefaultItems) == 0
}

// InvoiceTemplate is a named visual configuration available to every shop.
// Templates are global; at most one active template is the default.
type InvoiceTemplate struct {
	shared.BaseAggregateRoot
	Slug        string
	Name        string
	Description string
	Config      TemplateConfig
	Preset      TemplatePreset
	PaperSize   PaperSize
	Margins     Margins
	IsDefault   bool
	Status      TemplateStatus
	SortOrder   int
}

// NewInvoiceTemplate creates a new active template
func NewInvoiceTemplate(slug, name string, cfg TemplateConfig) (*InvoiceTemplate, error) {
	slug = strings.TrimSpace(slug)
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	if err := validateTemplateName(name); err != nil {
		return nil, err
	}
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	template := &InvoiceTemplate{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Slug:              slug,
		Name:              strings.TrimSpace(name),
		Config:            cfg,
		PaperSize:         PaperSizeA4,
		Margins:           DefaultMargins(),
		Status:            TemplateStatusActive,
	}

	template.AddDomainEvent(NewTemplateCreatedEvent(template))

	return template, nil
}

// Update updates the template's display information
func (t *InvoiceTemplate) Update(name, description string, sortOrder int) error {
	if err := validateTemplateName(name); err != nil {
		return err
	}

	t.Name = strings.TrimSpace(name)
	t.Description = strings.TrimSpace(description)
	t.SortOrder = sortOrder
	t.touch()

	t.AddDomainEvent(NewTemplateUpdatedEvent(t))

	return nil
}

// UpdateConfig replaces the visual configuration
func (t *InvoiceTemplate) UpdateConfig(cfg TemplateConfig) error {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}

	t.Config = cfg
	t.touch()

	t.AddDomainEvent(NewTemplateUpdatedEvent(t))

	return nil
}

// SetPreset replaces the starter content
func (t *InvoiceTemplate) SetPreset(preset TemplatePreset) error {
	for _, item := range preset.DefaultItems {
		if item.Quantity < 0 || item.UnitPrice.IsNegative() {
			return shared.NewDomainError("INVALID_PRESET", "Preset items cannot have negative quantity or price")
		}
	}

	t.Preset = preset
	t.touch()

	return nil
}

// SetPaperSize sets the paper size
func (t *InvoiceTemplate) SetPaperSize(paperSize PaperSize) error {
	if !paperSize.IsValid() {
		return shared.NewDomainError("INVALID_PAPER_SIZE", "Invalid paper size")
	}

	t.PaperSize = paperSize
	if paperSize.IsReceipt() {
		t.Margins = MarginsFor(paperSize)
	}
	t.touch()

	return nil
}

// SetMargins sets the page margins
func (t *InvoiceTemplate) SetMargins(margins Margins) {
	t.Margins = margins
	t.touch()
}

// SetAsDefault marks this template as the default.
// The caller clears the flag on every other template.
func (t *InvoiceTemplate) SetAsDefault() error {
	if t.Status != TemplateStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Cannot set inactive template as default")
	}
	if t.IsDefault {
		return nil
	}

	t.IsDefault = true
	t.touch()

	t.AddDomainEvent(NewTemplateSetAsDefaultEvent(t))

	return nil
}

// UnsetDefault removes the default flag
func (t *InvoiceTemplate) UnsetDefault() {
	if !t.IsDefault {
		return
	}

	t.IsDefault = false
	t.touch()
}

// Activate activates the template
func (t *InvoiceTemplate) Activate() error {
	if t.Status == TemplateStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Template is already active")
	}

	oldStatus := t.Status
	t.Status = TemplateStatusActive
	t.touch()

	t.AddDomainEvent(NewTemplateStatusChangedEvent(t, oldStatus, TemplateStatusActive))

	return nil
}

// Deactivate deactivates the template. The default template cannot be deactivated.
func (t *InvoiceTemplate) Deactivate() error {
	if t.Status == TemplateStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Template is already inactive")
	}
	if t.IsDefault {
		return shared.NewDomainError("INVALID_STATE", "Cannot deactivate the default template. Set another template as default first.")
	}

	oldStatus := t.Status
	t.Status = TemplateStatusInactive
	t.touch()

	t.AddDomainEvent(NewTemplateStatusChangedEvent(t, oldStatus, TemplateStatusInactive))

	return nil
}

// IsActive returns true if the template is active
func (t *InvoiceTemplate) IsActive() bool {
	return t.Status == TemplateStatusActive
}

// Style resolves the template config into renderer tokens
func (t *InvoiceTemplate) Style() Style {
	return ResolveStyle(t.Config)
}

func (t *InvoiceTemplate) touch() {
	t.Touch()
	t.IncrementVersion()
}

// BuiltinTemplateID derives a stable ID for a seeded template from its slug
func BuiltinTemplateID(slug string) uuid.UUID {
	return uuid.NewSHA1(builtinNamespace, []byte(slug))
}

var builtinNamespace = uuid.MustParse("6f1c2a56-0d7e-4c8e-9a43-2f7b8c1e5d90")

func validateSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Template slug cannot be empty")
	}
	if len(slug) > 64 {
		return shared.NewDomainError("INVALID_SLUG", "Template slug cannot exceed 64 characters")
	}
	if !slugPattern.MatchString(slug) {
		return shared.NewDomainError("INVALID_SLUG", "Template slug may only contain lowercase letters, digits and single hyphens")
	}
	return nil
}

func validateTemplateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_NAME", "Template name cannot be empty")
	}
	if len(trimmed) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Template name cannot exceed 100 characters")
	}
	return nil
}
