// Package printing contains the Printing bounded context.
// It owns invoice templates, the layout token table both renderers share,
// and the PDF jobs that record every generated document.
package printing
