package printing

import (
	_ "embed"
	"fmt"
	"os"
	"unicode"

	"golang.org/x/image/font/sfnt"
)

// pdfFontFamily is the family name the native renderer registers its TrueType faces under
const pdfFontFamily = "memo"

//go:embed fonts/DejaVuSansCondensed.ttf
var defaultRegularFont []byte

//go:embed fonts/DejaVuSansCondensed-Bold.ttf
var defaultBoldFont []byte

// FontFace is a regular and bold TrueType pair drawn through gofpdf's UTF-8 path.
// The embedded default is DejaVu Sans Condensed, which has no Bengali glyphs;
// point FontPath at a font such as Noto Sans Bengali to draw Bangla text.
type FontFace struct {
	regular []byte
	bold    []byte
	glyphs  *sfnt.Font
}

// DefaultFontFace returns the embedded DejaVu Sans Condensed pair
func DefaultFontFace() *FontFace {
	face, err := newFontFace(defaultRegularFont, defaultBoldFont)
	if err != nil {
		panic(fmt.Sprintf("embedded font is unreadable: %v", err))
	}
	return face
}

// LoadFontFace reads a TrueType pair from disk. An empty boldPath reuses the regular face.
func LoadFontFace(regularPath, boldPath string) (*FontFace, error) {
	regular, err := os.ReadFile(regularPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font %s: %w", regularPath, err)
	}
	bold := regular
	if boldPath != "" {
		if bold, err = os.ReadFile(boldPath); err != nil {
			return nil, fmt.Errorf("failed to read font %s: %w", boldPath, err)
		}
	}
	return newFontFace(regular, bold)
}

func newFontFace(regular, bold []byte) (*FontFace, error) {
	glyphs, err := sfnt.Parse(regular)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	if _, err := sfnt.Parse(bold); err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	return &FontFace{regular: regular, bold: bold, glyphs: glyphs}, nil
}

// Covers reports whether every visible rune of s has a glyph in the regular face
func (f *FontFace) Covers(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		idx, err := f.glyphs.GlyphIndex(nil, r)
		if err != nil || idx == 0 {
			return false
		}
	}
	return true
}
