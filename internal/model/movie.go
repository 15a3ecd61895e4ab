// Package model defines the movie records fetched from OMDb and the normalized
// table written to the data lake.
package model

import (
	"bytes"
	"encoding/json"
)

// Field is a single attribute of an OMDb response. The service omits keys and
// mixes strings with bare numbers, so presence is tracked explicitly.
type Field struct {
	Value   string
	Present bool
	Null    bool
}

// Text returns a present, non-null field holding s.
func Text(s string) Field {
	return Field{Value: s, Present: true}
}

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (f *Field) UnmarshalJSON(data []byte) error {
	f.Present = true
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		f.Null = true
		f.Value = ""
		return nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		return json.Unmarshal(trimmed, &f.Value)
	default:
		f.Value = string(trimmed)
		return nil
	}
}

// MarshalJSON writes absent and null fields as null.
func (f Field) MarshalJSON() ([]byte, error) {
	if !f.Present || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Or returns the field value, or fallback when the field is absent, null or blank.
func (f Field) Or(fallback string) string {
	if !f.Present || f.Null || f.Value == "" {
		return fallback
	}
	return f.Value
}

// MovieRecord is one OMDb title lookup. Response and Error belong to the
// service envelope; the remaining fields are movie attributes.
type MovieRecord struct {
	Response   string `json:"Response"`
	Error      string `json:"Error,omitempty"`
	Title      Field  `json:"Title"`
	Year       Field  `json:"Year"`
	Genre      Field  `json:"Genre"`
	Director   Field  `json:"Director"`
	ImdbRating Field  `json:"imdbRating"`
	ImdbVotes  Field  `json:"imdbVotes"`
	Runtime    Field  `json:"Runtime"`
	BoxOffice  Field  `json:"BoxOffice"`
	Poster     Field  `json:"Poster"`
}

// Found reports whether the service flagged the lookup as a hit.
func (r MovieRecord) Found() bool {
	return r.Response == "True"
}

// Selected returns the projected fields in column order.
func (r MovieRecord) Selected() []Field {
	return []Field{
		r.Title, r.Year, r.Genre, r.Director,
		r.ImdbRating, r.ImdbVotes, r.Runtime, r.BoxOffice,
	}
}
