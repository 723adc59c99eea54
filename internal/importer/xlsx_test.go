package importer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func createTestXLSX(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Brands")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			cell := row.AddCell()
			cell.SetString(cellData)
		}
	}
	path := filepath.Join(t.TempDir(), "brands.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	path := createTestXLSX(t, [][]string{
		{"brand_name", "cruelty_free", "parent_company", "certification", "category", "price_tier"},
		{"Fenty Beauty", "true", "LVMH", "PETA", "Makeup", "Mid-range"},
		{"Maybelline", "false", "L'Oréal", "None", "Makeup", "Budget"},
	})

	rows, err := ReadXLSX(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Fenty Beauty", rows[0].BrandName)
	assert.True(t, rows[0].CrueltyFree)
	assert.Equal(t, "PETA", rows[0].Certification)

	assert.Equal(t, "Maybelline", rows[1].BrandName)
	assert.False(t, rows[1].CrueltyFree)
	assert.Equal(t, "", rows[1].Certification)
}

func TestReadXLSX_MissingColumns(t *testing.T) {
	path := createTestXLSX(t, [][]string{
		{"brand_name", "cruelty_free"},
		{"Pacifica", "true"},
	})

	_, err := ReadXLSX(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing columns")
}

func TestReadXLSX_OpenError(t *testing.T) {
	_, err := ReadXLSX("/nonexistent/brands.xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open xlsx")
}
