package normalize

import (
	"math"
	"strconv"
	"strings"
)

// runtimeSuffix is the unit OMDb appends to runtimes.
const runtimeSuffix = " min"

var boxOfficeReplacer = strings.NewReplacer("$", "", ",", "")

// parseFloat parses s as a finite float. NaN and infinities count as failure.
func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// CoerceRating parses an imdbRating value such as "8.8".
func CoerceRating(s string) (float64, bool) {
	return parseFloat(s)
}

// CoerceVotes parses an imdbVotes value such as "2,612,345".
func CoerceVotes(s string) (float64, bool) {
	return parseFloat(strings.ReplaceAll(s, ",", ""))
}

// CoerceRuntime parses a Runtime value such as "148 min". Only one trailing
// " min" is removed.
func CoerceRuntime(s string) (float64, bool) {
	return parseFloat(strings.TrimSuffix(s, runtimeSuffix))
}

// CoerceBoxOffice parses a BoxOffice value such as "$28,798,286".
func CoerceBoxOffice(s string) (float64, bool) {
	return parseFloat(boxOfficeReplacer.Replace(s))
}
