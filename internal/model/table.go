package model

import (
	"encoding/json"
	"math"
)

// Column names of the normalized table, in output order.
const (
	ColTitle      = "Title"
	ColYear       = "Year"
	ColGenre      = "Genre"
	ColDirector   = "Director"
	ColImdbRating = "imdbRating"
	ColImdbVotes  = "imdbVotes"
	ColRuntime    = "Runtime"
	ColBoxOffice  = "BoxOffice"
)

// Columns is the fixed projection applied to every MovieRecord.
var Columns = []string{
	ColTitle, ColYear, ColGenre, ColDirector,
	ColImdbRating, ColImdbVotes, ColRuntime, ColBoxOffice,
}

// NormalizedRow is a MovieRecord projected to the fixed columns with the
// numeric fields coerced. Runtime is in minutes.
type NormalizedRow struct {
	Title      string  `csv:"Title" json:"Title" yaml:"Title"`
	Year       string  `csv:"Year" json:"Year" yaml:"Year"`
	Genre      string  `csv:"Genre" json:"Genre" yaml:"Genre"`
	Director   string  `csv:"Director" json:"Director" yaml:"Director"`
	ImdbRating float64 `csv:"imdbRating" json:"imdbRating" yaml:"imdbRating"`
	ImdbVotes  float64 `csv:"imdbVotes" json:"imdbVotes" yaml:"imdbVotes"`
	Runtime    float64 `csv:"Runtime" json:"Runtime" yaml:"Runtime"`
	BoxOffice  float64 `csv:"BoxOffice" json:"BoxOffice" yaml:"BoxOffice"`
}

// VotesKnown reports whether imdbVotes holds a parsed value.
func (r NormalizedRow) VotesKnown() bool {
	return !math.IsNaN(r.ImdbVotes)
}

func nullable(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// MarshalJSON writes NaN metrics as null.
func (r NormalizedRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Title      string   `json:"Title"`
		Year       string   `json:"Year"`
		Genre      string   `json:"Genre"`
		Director   string   `json:"Director"`
		ImdbRating *float64 `json:"imdbRating"`
		ImdbVotes  *float64 `json:"imdbVotes"`
		Runtime    *float64 `json:"Runtime"`
		BoxOffice  *float64 `json:"BoxOffice"`
	}{
		Title:      r.Title,
		Year:       r.Year,
		Genre:      r.Genre,
		Director:   r.Director,
		ImdbRating: nullable(r.ImdbRating),
		ImdbVotes:  nullable(r.ImdbVotes),
		Runtime:    nullable(r.Runtime),
		BoxOffice:  nullable(r.BoxOffice),
	})
}

// Table is an ordered set of normalized rows. Titles may repeat.
type Table struct {
	Rows []NormalizedRow `json:"rows" yaml:"rows"`
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}
