package printing

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/quickmemo/backend/internal/domain/shared"
)

// Color is a #rrggbb color token
type Color string

var hexColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ParseColor validates a hex color and normalizes it to lowercase #rrggbb
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !hexColorPattern.MatchString(s) {
		return "", shared.NewDomainError("INVALID_COLOR", "Color must be a hex value like #2563eb: "+s)
	}
	s = strings.ToLower(s)
	if len(s) == 4 {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	return Color(s), nil
}

// RGB returns the red, green and blue components. Invalid colors yield black.
func (c Color) RGB() (r, g, b int) {
	if len(c) != 7 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(string(c[1:]), 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

// String returns the string representation of Color
func (c Color) String() string {
	return string(c)
}

// Fallback template values used whenever a template cannot be resolved
const (
	DefaultPrimaryColor   Color = "#2563eb"
	DefaultSecondaryColor Color = "#64748b"
	DefaultAccentColor    Color = "#f59e0b"
)

// TemplateConfig is the typed visual configuration of a template.
// It is parsed and validated once when a template is loaded; renderers never re-parse it.
type TemplateConfig struct {
	PrimaryColor   Color       `json:"primaryColor"`
	SecondaryColor Color       `json:"secondaryColor"`
	AccentColor    Color       `json:"accentColor"`
	HeaderStyle    HeaderStyle `json:"headerStyle"`
	BorderStyle    BorderStyle `json:"borderStyle"`
	TableStyle     TableStyle  `json:"tableStyle"`
	ShowLogo       bool        `json:"showLogo"`
	ShowFooter     bool        `json:"showFooter"`
	ShowWatermark  bool        `json:"showWatermark"`
	LayoutType     LayoutType  `json:"layoutType"`
}

// DefaultTemplateConfig is the hardcoded config used when template lookup fails
func DefaultTemplateConfig() TemplateConfig {
	return TemplateConfig{
		PrimaryColor:   DefaultPrimaryColor,
		SecondaryColor: DefaultSecondaryColor,
		AccentColor:    DefaultAccentColor,
		HeaderStyle:    HeaderStyleClassic,
		BorderStyle:    BorderStyleRounded,
		TableStyle:     TableStyleStriped,
		ShowLogo:       false,
		ShowFooter:     true,
		ShowWatermark:  true,
		LayoutType:     LayoutClassic,
	}
}

// Validate checks every enumerated and color field
func (c TemplateConfig) Validate() error {
	for _, color := range []Color{c.PrimaryColor, c.SecondaryColor, c.AccentColor} {
		if _, err := ParseColor(string(color)); err != nil {
			return err
		}
	}
	if !c.LayoutType.IsValid() {
		return shared.NewDomainError("INVALID_LAYOUT_TYPE", "Layout type must be one of classic, modern, minimal, bold")
	}
	if !c.HeaderStyle.IsValid() {
		return shared.NewDomainError("INVALID_HEADER_STYLE", "Header style must be one of modern, classic, minimal, centered")
	}
	if !c.BorderStyle.IsValid() {
		return shared.NewDomainError("INVALID_BORDER_STYLE", "Border style must be one of rounded, sharp, none")
	}
	if !c.TableStyle.IsValid() {
		return shared.NewDomainError("INVALID_TABLE_STYLE", "Table style must be one of striped, bordered, clean")
	}
	return nil
}

// Normalize fills empty fields from the default config and lowercases colors
func (c TemplateConfig) Normalize() TemplateConfig {
	def := DefaultTemplateConfig()
	if c.PrimaryColor == "" {
		c.PrimaryColor = def.PrimaryColor
	}
	if c.SecondaryColor == "" {
		c.SecondaryColor = def.SecondaryColor
	}
	if c.AccentColor == "" {
		c.AccentColor = def.AccentColor
	}
	if c.HeaderStyle == "" {
		c.HeaderStyle = def.HeaderStyle
	}
	if c.BorderStyle == "" {
		c.BorderStyle = def.BorderStyle
	}
	if c.TableStyle == "" {
		c.TableStyle = def.TableStyle
	}
	if c.LayoutType == "" {
		c.LayoutType = def.LayoutType
	}
	for _, color := range []*Color{&c.PrimaryColor, &c.SecondaryColor, &c.AccentColor} {
		if parsed, err := ParseColor(string(*color)); err == nil {
			*color = parsed
		}
	}
	return c
}

// ParseTemplateConfig decodes a stored JSON config over the defaults and validates it
func ParseTemplateConfig(data []byte) (TemplateConfig, error) {
	cfg := DefaultTemplateConfig()
	if len(data) > 0 {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return TemplateConfig{}, shared.NewDomainError("INVALID_TEMPLATE_CONFIG", "Template config is not valid JSON: "+err.Error())
		}
	}
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return TemplateConfig{}, err
	}
	return cfg, nil
}
