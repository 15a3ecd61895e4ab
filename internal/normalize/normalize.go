// Package normalize projects OMDb records onto the fixed table columns and
// coerces the display strings of the numeric columns into floats.
package normalize

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/sells-group/cinemetrics/internal/model"
)

// Options configures normalization.
type Options struct {
	// LenientVotes keeps rows whose imdbVotes does not parse, recording the
	// value as NaN. When false an unparseable imdbVotes fails the batch.
	LenientVotes bool
}

// StructuralError reports a record missing one of the selected fields.
type StructuralError struct {
	Index  int
	Title  string
	Column string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("normalize: record %d (%q) missing field %s", e.Index, e.Title, e.Column)
}

// CoercionError reports an unguarded column whose value did not parse.
type CoercionError struct {
	Index  int
	Title  string
	Column string
	Value  string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("normalize: record %d (%q) column %s: cannot parse %q as float", e.Index, e.Title, e.Column, e.Value)
}

// Normalize converts records into a table. Every record is checked for the
// selected fields before any row is built, so a structural failure never
// yields a partial table. Rows whose imdbRating, Runtime or BoxOffice fail to
// parse are dropped; imdbVotes is governed by opts.LenientVotes.
func Normalize(records []model.MovieRecord, opts Options) (model.Table, error) {
	for i, rec := range records {
		for j, f := range rec.Selected() {
			if !f.Present {
				return model.Table{}, &StructuralError{Index: i, Title: rec.Title.Value, Column: model.Columns[j]}
			}
		}
	}

	rows := make([]model.NormalizedRow, 0, len(records))
	dropped := 0
	for i, rec := range records {
		votes, ok := CoerceVotes(rec.ImdbVotes.Value)
		if !ok {
			if !opts.LenientVotes {
				return model.Table{}, &CoercionError{
					Index:  i,
					Title:  rec.Title.Value,
					Column: model.ColImdbVotes,
					Value:  rec.ImdbVotes.Value,
				}
			}
			votes = math.NaN()
		}

		rating, okRating := CoerceRating(rec.ImdbRating.Value)
		runtime, okRuntime := CoerceRuntime(rec.Runtime.Value)
		box, okBox := CoerceBoxOffice(rec.BoxOffice.Value)
		if !okRating || !okRuntime || !okBox {
			dropped++
			zap.L().Debug("normalize: dropping row",
				zap.String("title", rec.Title.Value),
				zap.Bool("rating_ok", okRating),
				zap.Bool("runtime_ok", okRuntime),
				zap.Bool("box_office_ok", okBox),
			)
			continue
		}

		rows = append(rows, model.NormalizedRow{
			Title:      rec.Title.Value,
			Year:       rec.Year.Value,
			Genre:      rec.Genre.Value,
			Director:   rec.Director.Value,
			ImdbRating: rating,
			ImdbVotes:  votes,
			Runtime:    runtime,
			BoxOffice:  box,
		})
	}

	if dropped > 0 {
		zap.L().Info("normalize: dropped rows with unparseable metrics",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(rows)),
		)
	}

	return model.Table{Rows: rows}, nil
}
