package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/shared"
	csvimport "github.com/quickmemo/backend/internal/infrastructure/import"
	"go.uber.org/zap"
)

// ImportMode decides what happens to products already saved
type ImportMode string

const (
	// ImportReplace discards the saved list
	ImportReplace ImportMode = "replace"
	// ImportMerge updates products with the same name and appends the rest
	ImportMerge ImportMode = "merge"
)

// ParseImportMode defaults to replace
func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ImportReplace:
		return ImportReplace, nil
	case ImportMerge:
		return ImportMerge, nil
	}
	return "", shared.NewDomainError("INVALID_IMPORT_MODE", "Import mode must be replace or merge")
}

// InvalidRowsError is returned when a CSV has rows that failed validation.
// Nothing is saved in that case.
type InvalidRowsError struct {
	Report *csvimport.ProductResult
}

func (e *InvalidRowsError) Error() string {
	return fmt.Sprintf("%d of %d rows are invalid", e.Report.ErrorRows, e.Report.TotalRows)
}

// ImportResult is the saved list after an import
type ImportResult struct {
	Products []SavedProduct           `json:"products"`
	Imported int                      `json:"imported"`
	Report   *csvimport.ProductResult `json:"report"`
}

// ImportProducts reads a CSV product list and saves it. The whole file is
// rejected when any row is invalid.
func (s *Service) ImportProducts(ctx context.Context, tenantID uuid.UUID, r io.Reader, mode ImportMode) (*ImportResult, error) {
	report, err := csvimport.NewProductImporter(csvimport.WithMaxRows(MaxSavedProducts)).Import(ctx, r)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, shared.NewDomainError("INVALID_CSV", err.Error())
	}
	if !report.IsValid() {
		return nil, &InvalidRowsError{Report: report}
	}

	imported := make([]SavedProduct, len(report.Products))
	for i, p := range report.Products {
		imported[i] = SavedProduct{Name: p.Name, SKU: p.SKU, Price: p.Price}
	}

	products := imported
	if mode == ImportMerge {
		existing, err := s.LoadProducts(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		products = mergeProducts(existing, imported)
	}

	saved, err := s.SaveProducts(ctx, tenantID, products)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Saved products imported",
		zap.String("tenant_id", tenantID.String()),
		zap.String("mode", string(mode)),
		zap.Int("imported", len(imported)))
	return &ImportResult{Products: saved, Imported: len(imported), Report: report}, nil
}

// mergeProducts keeps the order of existing, replacing entries whose name
// matches an imported product, and appends new names in file order
func mergeProducts(existing, imported []SavedProduct) []SavedProduct {
	index := make(map[string]int, len(existing))
	merged := make([]SavedProduct, len(existing), len(existing)+len(imported))
	copy(merged, existing)
	for i, p := range merged {
		index[strings.ToLower(p.Name)] = i
	}
	for _, p := range imported {
		key := strings.ToLower(p.Name)
		if i, ok := index[key]; ok {
			merged[i] = p
			continue
		}
		index[key] = len(merged)
		merged = append(merged, p)
	}
	return merged
}
