// Package printing turns memo documents into HTML previews and PDFs.
//
// This package contains:
// - BuildView, the single render model shared by every renderer
// - HTMLRenderer for the live preview (html/template)
// - GofpdfRenderer, the native PDF engine, and ChromedpRenderer, which prints the preview HTML
// - PDFStorage and FileSystemStorage for generated files
// - the built-in templates and an in-memory TemplateStore
//
// Example usage:
//
//	view, err := BuildView(doc, cfg)
//	if err != nil {
//	    return err
//	}
//	html, err := NewHTMLRenderer(nil)
//	if err != nil {
//	    return err
//	}
//	preview, err := html.Render(ctx, view)
//	if err != nil {
//	    return err
//	}
//
//	pdf, err := NewGofpdfRenderer(nil)
//	if err != nil {
//	    return err
//	}
//	result, err := pdf.Render(ctx, view)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%s: %d bytes\n", result.FileName, len(result.PDFData))
package printing
