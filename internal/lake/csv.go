// Package lake persists the normalized movie table as a single CSV file and
// reads it back.
package lake

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/cinemetrics/internal/model"
)

// formatFloat renders whole numbers with a trailing ".0" and NaN as an empty
// cell, matching the files the dashboard has always produced.
func formatFloat(f float64) ([]byte, error) {
	if math.IsNaN(f) {
		return []byte{}, nil
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") && !math.IsInf(f, 0) {
		s += ".0"
	}
	return []byte(s), nil
}

func parseFloat(data []byte, f *float64) error {
	s := strings.TrimSpace(string(data))
	if s == "" {
		*f = math.NaN()
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return eris.Wrapf(err, "lake: parse float %q", s)
	}
	*f = v
	return nil
}

// Encode writes the table as CSV with a header row and no index column.
func Encode(w io.Writer, table model.Table) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	enc.Register(formatFloat)

	if err := enc.EncodeHeader(model.NormalizedRow{}); err != nil {
		return eris.Wrap(err, "lake: encode header")
	}
	for _, row := range table.Rows {
		if err := enc.Encode(row); err != nil {
			return eris.Wrapf(err, "lake: encode row %q", row.Title)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "lake: flush csv")
}

// Decode reads a CSV table produced by Encode. Empty numeric cells decode as NaN.
func Decode(r io.Reader) (model.Table, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		if err == io.EOF {
			return model.Table{}, eris.New("lake: empty file")
		}
		return model.Table{}, eris.Wrap(err, "lake: read header")
	}
	dec.Register(parseFloat)

	header := dec.Header()
	if len(header) != len(model.Columns) {
		return model.Table{}, eris.Errorf("lake: unexpected header %v", header)
	}
	for i, col := range model.Columns {
		if header[i] != col {
			return model.Table{}, eris.Errorf("lake: column %d is %q, want %q", i, header[i], col)
		}
	}

	rows := []model.NormalizedRow{}
	for {
		var row model.NormalizedRow
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				break
			}
			return model.Table{}, eris.Wrapf(err, "lake: decode row %d", len(rows)+1)
		}
		rows = append(rows, row)
	}

	return model.Table{Rows: rows}, nil
}
