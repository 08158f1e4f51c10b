package printing

// Neutral palette shared by every layout
const (
	ColorInk     Color = "#111827"
	ColorMuted   Color = "#6b7280"
	ColorNeutral Color = "#e5e7eb"
	ColorStripe  Color = "#f9fafb"
	ColorWhite   Color = "#ffffff"

	ColorWarningBackground Color = "#fef3c7"
	ColorWarningText       Color = "#92400e"
	ColorSuccessBackground Color = "#dcfce7"
	ColorSuccessText       Color = "#166534"
)

// ColorRole names a slot in a template config or the neutral palette
type ColorRole string

const (
	RoleNone      ColorRole = ""
	RolePrimary   ColorRole = "primary"
	RoleSecondary ColorRole = "secondary"
	RoleAccent    ColorRole = "accent"
	RoleInk       ColorRole = "ink"
	RoleNeutral   ColorRole = "neutral"
	RoleWhite     ColorRole = "white"
)

// Align is a horizontal alignment
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// LayoutTokens describes one layout variant in renderer-neutral terms
type LayoutTokens struct {
	HeaderBand      ColorRole // background of the header band; RoleNone draws no band
	HeaderText      ColorRole
	ShopNameAlign   Align
	TitleAlign      Align
	TitleColor      ColorRole
	SideBySide      bool    // shop block and title block share one row
	HeaderRuleWidth float64 // px; zero draws no rule under the header
	HeaderRuleColor ColorRole
	LabelUppercase  bool
	LabelTracking   float64 // letter spacing in em
	LabelSize       float64 // pt
	TableHeaderFill ColorRole
	TableHeaderText ColorRole
}

var layoutTokens = map[LayoutType]LayoutTokens{
	LayoutClassic: {
		HeaderBand:      RoleNone,
		HeaderText:      RoleInk,
		ShopNameAlign:   AlignLeft,
		TitleAlign:      AlignRight,
		TitleColor:      RolePrimary,
		SideBySide:      true,
		HeaderRuleWidth: 2,
		HeaderRuleColor: RolePrimary,
		LabelSize:       9,
		TableHeaderFill: RolePrimary,
		TableHeaderText: RoleWhite,
	},
	LayoutModern: {
		HeaderBand:      RolePrimary,
		HeaderText:      RoleWhite,
		ShopNameAlign:   AlignLeft,
		TitleAlign:      AlignRight,
		TitleColor:      RoleWhite,
		SideBySide:      true,
		LabelSize:       9,
		TableHeaderFill: RolePrimary,
		TableHeaderText: RoleWhite,
	},
	LayoutMinimal: {
		HeaderBand:      RoleNone,
		HeaderText:      RoleInk,
		ShopNameAlign:   AlignLeft,
		TitleAlign:      AlignRight,
		TitleColor:      RoleInk,
		SideBySide:      true,
		HeaderRuleWidth: 1,
		HeaderRuleColor: RoleNeutral,
		LabelUppercase:  true,
		LabelTracking:   0.08,
		LabelSize:       8,
		TableHeaderFill: RoleNeutral,
		TableHeaderText: RoleInk,
	},
	LayoutBold: {
		HeaderBand:      RolePrimary,
		HeaderText:      RoleWhite,
		ShopNameAlign:   AlignCenter,
		TitleAlign:      AlignCenter,
		TitleColor:      RoleAccent,
		SideBySide:      false,
		HeaderRuleWidth: 4,
		HeaderRuleColor: RoleAccent,
		LabelSize:       9,
		TableHeaderFill: RolePrimary,
		TableHeaderText: RoleWhite,
	},
}

// TokensFor returns the token set of a layout; unknown layouts get classic
func TokensFor(layout LayoutType) LayoutTokens {
	if tokens, ok := layoutTokens[layout]; ok {
		return tokens
	}
	return layoutTokens[LayoutClassic]
}

// Style is a template config resolved into concrete colors and sizes.
// Both the HTML and PDF renderers draw from the same Style value.
type Style struct {
	Layout          LayoutType
	Tokens          LayoutTokens
	HeaderBand      Color // empty when the layout draws no band
	HeaderText      Color
	TitleColor      Color
	HeaderRule      Color // empty when the layout draws no rule
	HeaderRuleWidth float64
	TableHeaderFill Color
	TableHeaderText Color
	StripeFill      Color
	Accent          Color
	Secondary       Color
	Radius          float64 // px
	Outlined        bool
	Striped         bool
	CellBorders     bool
	Watermark       Color
}

// ResolveStyle maps a template config onto the token table
func ResolveStyle(cfg TemplateConfig) Style {
	if !cfg.LayoutType.IsValid() {
		cfg.LayoutType = LayoutClassic
	}
	tokens := TokensFor(cfg.LayoutType)

	style := Style{
		Layout:          cfg.LayoutType,
		Tokens:          tokens,
		HeaderBand:      cfg.color(tokens.HeaderBand),
		HeaderText:      cfg.color(tokens.HeaderText),
		TitleColor:      cfg.color(tokens.TitleColor),
		HeaderRuleWidth: tokens.HeaderRuleWidth,
		TableHeaderFill: cfg.color(tokens.TableHeaderFill),
		TableHeaderText: cfg.color(tokens.TableHeaderText),
		StripeFill:      ColorStripe,
		Accent:          cfg.color(RoleAccent),
		Secondary:       cfg.color(RoleSecondary),
		Outlined:        cfg.BorderStyle != BorderStyleNone,
		Striped:         cfg.TableStyle == TableStyleStriped,
		CellBorders:     cfg.TableStyle == TableStyleBordered,
		Watermark:       ColorNeutral,
	}
	if tokens.HeaderRuleWidth > 0 {
		style.HeaderRule = cfg.color(tokens.HeaderRuleColor)
	}
	if cfg.BorderStyle == BorderStyleRounded {
		style.Radius = 8
	}
	return style
}

func (c TemplateConfig) color(role ColorRole) Color {
	switch role {
	case RolePrimary:
		return orDefault(c.PrimaryColor, DefaultPrimaryColor)
	case RoleSecondary:
		return orDefault(c.SecondaryColor, DefaultSecondaryColor)
	case RoleAccent:
		return orDefault(c.AccentColor, DefaultAccentColor)
	case RoleInk:
		return ColorInk
	case RoleNeutral:
		return ColorNeutral
	case RoleWhite:
		return ColorWhite
	}
	return ""
}

func orDefault(c, fallback Color) Color {
	if c == "" {
		return fallback
	}
	return c
}
