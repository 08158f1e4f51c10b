package printing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayoutType_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		layout   LayoutType
		expected bool
	}{
		{"valid classic", LayoutClassic, true},
		{"valid modern", LayoutModern, true},
		{"valid minimal", LayoutMinimal, true},
		{"valid bold", LayoutBold, true},
		{"invalid empty", LayoutType(""), false},
		{"invalid case", LayoutType("Classic"), false},
		{"invalid unknown", LayoutType("retro"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.layout.IsValid())
		})
	}
}

func TestAllLayoutTypes(t *testing.T) {
	layouts := AllLayoutTypes()
	assert.Len(t, layouts, 4)
	for _, l := range layouts {
		assert.True(t, l.IsValid())
	}
}

func TestStyleEnums_IsValid(t *testing.T) {
	assert.True(t, HeaderStyleCentered.IsValid())
	assert.False(t, HeaderStyle("fancy").IsValid())
	assert.True(t, BorderStyleNone.IsValid())
	assert.False(t, BorderStyle("dotted").IsValid())
	assert.True(t, TableStyleBordered.IsValid())
	assert.False(t, TableStyle("zebra").IsValid())
}

func TestPaperSize_IsValid(t *testing.T) {
	tests := []struct {
		name      string
		paperSize PaperSize
		expected  bool
	}{
		{"valid A4", PaperSizeA4, true},
		{"valid A5", PaperSizeA5, true},
		{"valid RECEIPT_80MM", PaperSizeReceipt80MM, true},
		{"invalid empty", PaperSize(""), false},
		{"invalid unknown", PaperSize("LETTER"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.paperSize.IsValid())
		})
	}
}

func TestPaperSize_Dimensions(t *testing.T) {
	tests := []struct {
		paperSize      PaperSize
		expectedWidth  int
		expectedHeight int
	}{
		{PaperSizeA4, 210, 297},
		{PaperSizeA5, 148, 210},
		{PaperSizeReceipt80MM, 80, 0},
	}

	for _, tt := range tests {
		t.Run(tt.paperSize.String(), func(t *testing.T) {
			w, h := tt.paperSize.Dimensions()
			assert.Equal(t, tt.expectedWidth, w)
			assert.Equal(t, tt.expectedHeight, h)
		})
	}
}

func TestPaperSize_IsReceipt(t *testing.T) {
	assert.True(t, PaperSizeReceipt80MM.IsReceipt())
	assert.False(t, PaperSizeA4.IsReceipt())
	assert.False(t, PaperSizeA5.IsReceipt())
}

func TestTemplateStatus_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   TemplateStatus
		expected bool
	}{
		{"valid ACTIVE", TemplateStatusActive, true},
		{"valid INACTIVE", TemplateStatusInactive, true},
		{"invalid empty", TemplateStatus(""), false},
		{"invalid unknown", TemplateStatus("DRAFT"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsValid())
		})
	}
}

func TestJobStatus_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   JobStatus
		expected bool
	}{
		{"valid PENDING", JobStatusPending, true},
		{"valid RENDERING", JobStatusRendering, true},
		{"valid COMPLETED", JobStatusCompleted, true},
		{"valid FAILED", JobStatusFailed, true},
		{"invalid empty", JobStatus(""), false},
		{"invalid unknown", JobStatus("QUEUED"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsValid())
		})
	}
}

func TestJobStatus_IsTerminal(t *testing.T) {
	assert.False(t, JobStatusPending.IsTerminal())
	assert.False(t, JobStatusRendering.IsTerminal())
	assert.True(t, JobStatusCompleted.IsTerminal())
	assert.False(t, JobStatusFailed.IsTerminal(), "failed jobs can be retried")
}

func TestJobStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name     string
		from     JobStatus
		to       JobStatus
		expected bool
	}{
		// From PENDING
		{"PENDING -> RENDERING", JobStatusPending, JobStatusRendering, true},
		{"PENDING -> FAILED", JobStatusPending, JobStatusFailed, true},
		{"PENDING -> COMPLETED", JobStatusPending, JobStatusCompleted, false},
		{"PENDING -> PENDING", JobStatusPending, JobStatusPending, false},

		// From RENDERING
		{"RENDERING -> COMPLETED", JobStatusRendering, JobStatusCompleted, true},
		{"RENDERING -> FAILED", JobStatusRendering, JobStatusFailed, true},
		{"RENDERING -> PENDING", JobStatusRendering, JobStatusPending, false},
		{"RENDERING -> RENDERING", JobStatusRendering, JobStatusRendering, false},

		// From COMPLETED (terminal)
		{"COMPLETED -> PENDING", JobStatusCompleted, JobStatusPending, false},
		{"COMPLETED -> RENDERING", JobStatusCompleted, JobStatusRendering, false},
		{"COMPLETED -> FAILED", JobStatusCompleted, JobStatusFailed, false},

		// From FAILED (retry only)
		{"FAILED -> PENDING", JobStatusFailed, JobStatusPending, true},
		{"FAILED -> RENDERING", JobStatusFailed, JobStatusRendering, false},
		{"FAILED -> COMPLETED", JobStatusFailed, JobStatusCompleted, false},
		{"FAILED -> FAILED", JobStatusFailed, JobStatusFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.CanTransitionTo(tt.to))
		})
	}
}
