// Package importer parses tabular brand lists (CSV, XLSX) into import rows
// for the store's bulk-import and seeding paths.
package importer

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/consciouscart/brandcheck/internal/model"
)

// requiredColumns must all be present in the header row.
var requiredColumns = []string{"brand_name", "cruelty_free", "parent_company", "certification"}

// ReadFile parses a brand list by extension: .csv or .xlsx.
func ReadFile(path string) ([]model.ImportRow, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "importer: open csv")
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return nil, eris.Errorf("importer: unsupported file type %q", filepath.Ext(path))
	}
}

// ReadCSV parses a header-first CSV of brand rows. Malformed data in a row
// is tolerated here; row-level validation happens during import.
func ReadCSV(r io.Reader) ([]model.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("importer: empty csv")
	}
	if err != nil {
		return nil, eris.Wrap(err, "importer: read header")
	}

	cols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var rows []model.ImportRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "importer: read row")
		}
		rows = append(rows, rowFromRecord(record, cols))
	}
	return rows, nil
}

// columnIndex maps logical column names to their position in the header.
type columnIndex map[string]int

func mapHeader(header []string) (columnIndex, error) {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, req := range requiredColumns {
		if _, ok := cols[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("importer: missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func (c columnIndex) get(record []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func rowFromRecord(record []string, cols columnIndex) model.ImportRow {
	return model.ImportRow{
		BrandName:     cols.get(record, "brand_name"),
		CrueltyFree:   parseBool(cols.get(record, "cruelty_free")),
		ParentCompany: cols.get(record, "parent_company"),
		Certification: normalizeOptional(cols.get(record, "certification")),
		Category:      model.Category(normalizeOptional(cols.get(record, "category"))),
		PriceTier:     model.PriceTier(normalizeOptional(cols.get(record, "price_tier"))),
	}
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// normalizeOptional collapses the placeholder spellings found in real
// brand sheets to empty.
func normalizeOptional(s string) string {
	switch s {
	case "None", "Unknown", "":
		return ""
	default:
		return s
	}
}
