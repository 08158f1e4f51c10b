package printing

// LayoutType selects the header/body variant both renderers produce
type LayoutType string

const (
	LayoutClassic LayoutType = "classic" // side-by-side shop and title blocks
	LayoutModern  LayoutType = "modern"  // full-bleed primary band
	LayoutMinimal LayoutType = "minimal" // no band, neutral rules
	LayoutBold    LayoutType = "bold"    // primary band, centered shop, accent title
)

// IsValid checks if the LayoutType is a valid value
func (l LayoutType) IsValid() bool {
	switch l {
	case LayoutClassic, LayoutModern, LayoutMinimal, LayoutBold:
		return true
	}
	return false
}

// String returns the string representation of LayoutType
func (l LayoutType) String() string {
	return string(l)
}

// AllLayoutTypes returns all valid LayoutType values
func AllLayoutTypes() []LayoutType {
	return []LayoutType{LayoutClassic, LayoutModern, LayoutMinimal, LayoutBold}
}

// HeaderStyle is the header style name a template declares
type HeaderStyle string

const (
	HeaderStyleModern   HeaderStyle = "modern"
	HeaderStyleClassic  HeaderStyle = "classic"
	HeaderStyleMinimal  HeaderStyle = "minimal"
	HeaderStyleCentered HeaderStyle = "centered"
)

// IsValid checks if the HeaderStyle is a valid value
func (h HeaderStyle) IsValid() bool {
	switch h {
	case HeaderStyleModern, HeaderStyleClassic, HeaderStyleMinimal, HeaderStyleCentered:
		return true
	}
	return false
}

// BorderStyle controls the corner and outline treatment of boxed sections
type BorderStyle string

const (
	BorderStyleRounded BorderStyle = "rounded"
	BorderStyleSharp   BorderStyle = "sharp"
	BorderStyleNone    BorderStyle = "none"
)

// IsValid checks if the BorderStyle is a valid value
func (b BorderStyle) IsValid() bool {
	switch b {
	case BorderStyleRounded, BorderStyleSharp, BorderStyleNone:
		return true
	}
	return false
}

// TableStyle controls the item table body
type TableStyle string

const (
	TableStyleStriped  TableStyle = "striped"
	TableStyleBordered TableStyle = "bordered"
	TableStyleClean    TableStyle = "clean"
)

// IsValid checks if the TableStyle is a valid value
func (t TableStyle) IsValid() bool {
	switch t {
	case TableStyleStriped, TableStyleBordered, TableStyleClean:
		return true
	}
	return false
}

// PaperSize represents the paper size of generated PDFs
type PaperSize string

const (
	PaperSizeA4          PaperSize = "A4"           // 210mm x 297mm
	PaperSizeA5          PaperSize = "A5"           // 148mm x 210mm
	PaperSizeReceipt80MM PaperSize = "RECEIPT_80MM" // 80mm thermal receipt
)

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeA4, PaperSizeA5, PaperSizeReceipt80MM:
		return true
	}
	return false
}

// String returns the string representation of PaperSize
func (p PaperSize) String() string {
	return string(p)
}

// Dimensions returns the paper dimensions in millimeters (width, height)
// For receipt paper, width is the paper width and height is variable
func (p PaperSize) Dimensions() (width, height int) {
	switch p {
	case PaperSizeA5:
		return 148, 210
	case PaperSizeReceipt80MM:
		return 80, 0
	default:
		return 210, 297
	}
}

// IsReceipt returns true if this is a receipt paper size
func (p PaperSize) IsReceipt() bool {
	return p == PaperSizeReceipt80MM
}

// TemplateStatus represents the status of an invoice template
type TemplateStatus string

const (
	TemplateStatusActive   TemplateStatus = "ACTIVE"
	TemplateStatusInactive TemplateStatus = "INACTIVE"
)

// IsValid checks if the TemplateStatus is a valid value
func (s TemplateStatus) IsValid() bool {
	switch s {
	case TemplateStatusActive, TemplateStatusInactive:
		return true
	}
	return false
}

// String returns the string representation of TemplateStatus
func (s TemplateStatus) String() string {
	return string(s)
}

// JobStatus represents the status of a PDF job
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRendering JobStatus = "RENDERING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

// IsValid checks if the JobStatus is a valid value
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusRendering, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are possible.
// A failed job is not terminal: it can be queued again.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted
}

// CanTransitionTo checks if the status can transition to the target status
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	switch s {
	case JobStatusPending:
		return target == JobStatusRendering || target == JobStatusFailed
	case JobStatusRendering:
		return target == JobStatusCompleted || target == JobStatusFailed
	case JobStatusFailed:
		return target == JobStatusPending
	case JobStatusCompleted:
		return false
	}
	return false
}
