package csvimport

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importString(t *testing.T, csv string, opts ...ImporterOption) (*ProductResult, error) {
	t.Helper()
	return NewProductImporter(opts...).Import(context.Background(), strings.NewReader(csv))
}

func TestProductImporter_Valid(t *testing.T) {
	result, err := importString(t, "Product,Code,Unit Price\nShirt,SH-1,500\nPanjabi,,\"1,250.50\"\n\nGift wrap,,0\n")
	require.NoError(t, err)
	assert.True(t, result.IsValid())
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 3, result.ValidRows)

	require.Len(t, result.Products, 3)
	assert.Equal(t, "Shirt", result.Products[0].Name)
	assert.Equal(t, "SH-1", result.Products[0].SKU)
	assert.Equal(t, "500", result.Products[0].Price.String())
	assert.Equal(t, "1250.5", result.Products[1].Price.String())
	assert.Equal(t, 5, result.Products[2].Line)
}

func TestProductImporter_RowErrors(t *testing.T) {
	csv := "name,price\n" +
		"Shirt,500\n" +
		",100\n" +
		"Cap,abc\n" +
		"Belt,-5\n" +
		"shirt,450\n" +
		strings.Repeat("x", 201) + ",1\n"
	result, err := importString(t, csv)
	require.NoError(t, err)
	assert.False(t, result.IsValid())
	assert.Equal(t, 6, result.TotalRows)
	assert.Equal(t, 1, result.ValidRows)
	assert.Equal(t, 5, result.ErrorRows)

	codes := map[int]string{}
	for _, e := range result.Errors {
		codes[e.Row] = e.Code
	}
	assert.Equal(t, map[int]string{
		3: ErrCodeRequiredField,
		4: ErrCodeInvalidType,
		5: ErrCodeInvalidRange,
		6: ErrCodeDuplicate,
		7: ErrCodeInvalidLength,
	}, codes)
}

func TestProductImporter_FileErrors(t *testing.T) {
	_, err := importString(t, "name,sku\nShirt,SH-1\n")
	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"price"}, missing.Columns)

	_, err = importString(t, "name,price\n")
	assert.ErrorIs(t, err, ErrNoDataRows)

	_, err = importString(t, "name,price\nShirt,500\nCap,200\n", WithMaxFileSize(16))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestProductImporter_MaxRows(t *testing.T) {
	result, err := importString(t, "name,price\nA,1\nB,2\nC,3\n", WithMaxRows(2), WithMaxErrors(1))
	require.NoError(t, err)
	assert.False(t, result.IsValid())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, ErrCodeTooManyRows, result.Errors[0].Code)
	assert.Len(t, result.Products, 2)
}

func TestProductImporter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProductImporter().Import(ctx, strings.NewReader("name,price\nShirt,1\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseAmount(t *testing.T) {
	for in, want := range map[string]string{"1,250": "1250", "৳ 90": "90", "Tk 12.5": "12.5", "0": "0"} {
		d, err := ParseAmount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, d.String(), in)
	}
	_, err := ParseAmount("free")
	assert.Error(t, err)
}
