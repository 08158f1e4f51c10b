package printing

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"os"
	"path/filepath"
	"strconv"

	"github.com/quickmemo/backend/internal/domain/printing"
	"go.uber.org/zap"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const memoTemplateName = "memo.html.tmpl"

// HTMLRendererConfig configures the HTML preview renderer
type HTMLRendererConfig struct {
	// TemplateDir overrides the embedded memo template when it contains memo.html.tmpl
	TemplateDir string
	Logger      *zap.Logger
}

// HTMLRenderer renders a View into a self-contained HTML page.
// The same page is shown as the live preview and printed by the browser renderer.
type HTMLRenderer struct {
	tmpl   *template.Template
	logger *zap.Logger
}

// NewHTMLRenderer parses the memo template once
func NewHTMLRenderer(config *HTMLRendererConfig) (*HTMLRenderer, error) {
	if config == nil {
		config = &HTMLRendererConfig{}
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	content, source, err := loadMemoTemplate(config.TemplateDir)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to load memo template", err)
	}

	tmpl, err := template.New(memoTemplateName).Funcs(htmlFuncs()).Parse(content)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse memo template", err)
	}

	logger.Debug("Memo template loaded", zap.String("source", source))
	return &HTMLRenderer{tmpl: tmpl, logger: logger}, nil
}

// Render executes the memo template for a view
func (r *HTMLRenderer) Render(ctx context.Context, view *View) ([]byte, error) {
	if view == nil {
		return nil, NewRenderError(ErrCodeInvalidView, "view is nil", nil)
	}
	if err := contextError(ctx, "preview"); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to execute memo template", err)
	}
	return buf.Bytes(), nil
}

func loadMemoTemplate(dir string) (content, source string, err error) {
	if dir != "" {
		path := filepath.Join(dir, memoTemplateName)
		if data, readErr := os.ReadFile(path); readErr == nil {
			return string(data), path, nil
		}
	}
	data, err := templateFS.ReadFile("templates/" + memoTemplateName)
	if err != nil {
		return "", "", err
	}
	return string(data), "embedded", nil
}

func htmlFuncs() template.FuncMap {
	return template.FuncMap{
		"color": func(c printing.Color) template.CSS {
			if c == "" {
				return "transparent"
			}
			return template.CSS(c)
		},
		"px": func(v float64) template.CSS {
			return template.CSS(strconv.FormatFloat(v, 'f', -1, 64) + "px")
		},
		"pt": func(v float64) template.CSS {
			return template.CSS(strconv.FormatFloat(v, 'f', -1, 64) + "pt")
		},
		"em": func(v float64) template.CSS {
			return template.CSS(strconv.FormatFloat(v, 'f', -1, 64) + "em")
		},
		"align": func(a printing.Align) template.CSS {
			if a == "" {
				return "left"
			}
			return template.CSS(a)
		},
		"pageSize": func(p printing.PaperSize) template.CSS {
			switch p {
			case printing.PaperSizeA5:
				return "A5"
			case printing.PaperSizeReceipt80MM:
				return "80mm auto"
			}
			return "A4"
		},
		"withSymbol": withSymbol,
	}
}
