package importer

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/consciouscart/brandcheck/internal/model"
)

// ReadXLSX parses the first sheet of an XLSX brand list. The first row is
// the header, mapped the same way as CSV.
func ReadXLSX(path string) ([]model.ImportRow, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("importer: xlsx has no sheets")
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.New("importer: empty xlsx sheet")
	}

	cols, err := mapHeader(rowToStrings(sheet.Rows[0]))
	if err != nil {
		return nil, err
	}

	var rows []model.ImportRow
	for _, row := range sheet.Rows[1:] {
		rows = append(rows, rowFromRecord(rowToStrings(row), cols))
	}
	return rows, nil
}

func rowToStrings(row *xlsx.Row) []string {
	out := make([]string, 0, len(row.Cells))
	for _, cell := range row.Cells {
		out = append(out, cell.String())
	}
	return out
}
