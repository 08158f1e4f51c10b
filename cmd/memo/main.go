// Command memo renders cash memos and invoices from JSON files without a server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/google/uuid"
	printingapp "github.com/quickmemo/backend/internal/application/printing"
	"github.com/quickmemo/backend/internal/infrastructure/logger"
	"github.com/quickmemo/backend/internal/infrastructure/printing"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "memo",
		Usage:  "compute, preview and print cash memos and invoices",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "template-dir",
				Usage: "directory with templates.json or memo.html.tmpl overriding the built-ins",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "log level: debug, info, warn, error",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "templates",
				Usage: "list the built-in templates",
				Action: func(c *cli.Context) error {
					store, err := printing.NewTemplateStore(&printing.TemplateStoreConfig{ExternalDir: c.String("template-dir")})
					if err != nil {
						return err
					}
					templates, err := store.FindActive(c.Context)
					if err != nil {
						return err
					}
					w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "SLUG\tNAME\tLAYOUT\tCOLOR\tDEFAULT")
					for _, t := range templates {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", t.Slug, t.Name, t.Config.LayoutType, t.Config.PrimaryColor, t.IsDefault)
					}
					return w.Flush()
				},
			},
			{
				Name:      "totals",
				Usage:     "print the computed totals of a document",
				ArgsUsage: "<document.json>",
				Action: withService(func(c *cli.Context, svc *printingapp.DocumentService, req *printingapp.DocumentRequest) error {
					totals, err := svc.Totals(c.Context, req)
					if err != nil {
						return err
					}
					return writeJSON(c.App.Writer, totals)
				}),
			},
			{
				Name:      "render",
				Usage:     "render a document to PDF or HTML",
				ArgsUsage: "<document.json>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Usage: "template slug"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "pdf", Usage: "pdf or html"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: ".", Usage: "output directory"},
				},
				Action: withService(func(c *cli.Context, svc *printingapp.DocumentService, req *printingapp.DocumentRequest) error {
					if slug := c.String("template"); slug != "" {
						req.Template = slug
					}
					return render(c.Context, c.App.Writer, svc, req, c.String("format"), c.String("out"))
				}),
			},
		},
	}
}

type serviceAction func(c *cli.Context, svc *printingapp.DocumentService, req *printingapp.DocumentRequest) error

// withService reads the document argument and builds an in-memory DocumentService
func withService(fn serviceAction) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() < 1 {
			return cli.Exit("document file required", 1)
		}
		req, err := readDocument(c.Args().First())
		if err != nil {
			return err
		}

		log, err := logger.New(&logger.Config{
			Level:  c.String("log-level"),
			Format: "console",
			Output: "stderr",
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer func() { _ = logger.Sync(log) }()

		svc, err := newService(c.String("template-dir"), log)
		if err != nil {
			return err
		}
		return fn(c, svc, req)
	}
}

func newService(templateDir string, log *zap.Logger) (*printingapp.DocumentService, error) {
	store, err := printing.NewTemplateStore(&printing.TemplateStoreConfig{ExternalDir: templateDir})
	if err != nil {
		return nil, err
	}
	html, err := printing.NewHTMLRenderer(&printing.HTMLRendererConfig{TemplateDir: templateDir, Logger: log})
	if err != nil {
		return nil, err
	}
	pdf, err := printing.NewGofpdfRenderer(&printing.GofpdfConfig{Compress: true, Logger: log})
	if err != nil {
		return nil, err
	}
	registry := printingapp.NewTemplateRegistry(store, nil, 0, log)
	return printingapp.NewDocumentService(registry, html, pdf, printingapp.WithServiceLogger(log)), nil
}

func readDocument(path string) (*printingapp.DocumentRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	var req printingapp.DocumentRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid document %s: %w", path, err)
	}
	return &req, nil
}

func render(ctx context.Context, out io.Writer, svc *printingapp.DocumentService, req *printingapp.DocumentRequest, format, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var name string
	var data []byte
	switch format {
	case "pdf":
		rendered, err := svc.GeneratePDF(ctx, uuid.Nil, req)
		if err != nil {
			return err
		}
		name, data = rendered.FileName, rendered.Data
	case "html":
		preview, err := svc.Preview(ctx, req)
		if err != nil {
			return err
		}
		name = fmt.Sprintf("invoice-%s.html", preview.MemoNumber)
		data = []byte(preview.HTML)
		if preview.Fallback {
			fmt.Fprintf(out, "template %q not found, rendered with the default\n", req.Template)
		}
	default:
		return cli.Exit(fmt.Sprintf("unknown format %q, use pdf or html", format), 1)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintln(out, path)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
