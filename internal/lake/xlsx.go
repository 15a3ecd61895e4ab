package lake

import (
	"io"
	"math"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/cinemetrics/internal/model"
)

// SheetName is the worksheet holding the exported table.
const SheetName = "cleaned_movie_data"

// EncodeXLSX writes the table as a single-sheet workbook with the same columns
// as the CSV artifact. Numeric columns are stored as numbers; NaN stays blank.
func EncodeXLSX(w io.Writer, table model.Table) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range model.Columns {
		header.AddCell().SetString(col)
	}

	for _, r := range table.Rows {
		row := sheet.AddRow()
		for _, s := range []string{r.Title, r.Year, r.Genre, r.Director} {
			row.AddCell().SetString(s)
		}
		for _, v := range []float64{r.ImdbRating, r.ImdbVotes, r.Runtime, r.BoxOffice} {
			cell := row.AddCell()
			if !math.IsNaN(v) {
				cell.SetFloat(v)
			}
		}
	}

	return eris.Wrap(f.Write(w), "xlsx: write workbook")
}

// ReadXLSXRows returns every row of the export sheet as strings.
func ReadXLSXRows(data []byte) ([][]string, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open workbook")
	}

	sheet, ok := f.Sheet[SheetName]
	if !ok {
		return nil, eris.Errorf("xlsx: sheet %q not found", SheetName)
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		rows = append(rows, rowToStrings(row))
	}
	return rows, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
