// Package render turns a normalized table into chart series and terminal views.
package render

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/cinemetrics/internal/model"
)

// Metric names a numeric column that can be charted.
type Metric string

const (
	MetricRating    Metric = "rating"
	MetricBoxOffice Metric = "box_office"
)

// Bar is one bar of a chart keyed by title.
type Bar struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// ParseMetric accepts the metric name or its column name.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case string(MetricRating), model.ColImdbRating:
		return MetricRating, nil
	case string(MetricBoxOffice), model.ColBoxOffice:
		return MetricBoxOffice, nil
	}
	return "", eris.Errorf("render: unknown metric %q", s)
}

// Column returns the table column backing the metric.
func (m Metric) Column() string {
	if m == MetricBoxOffice {
		return model.ColBoxOffice
	}
	return model.ColImdbRating
}

// Series returns one bar per row, in table order.
func Series(table model.Table, metric Metric) []Bar {
	bars := make([]Bar, 0, table.Len())
	for _, row := range table.Rows {
		v := row.ImdbRating
		if metric == MetricBoxOffice {
			v = row.BoxOffice
		}
		bars = append(bars, Bar{Label: row.Title, Value: v})
	}
	return bars
}

// MaxIndex returns the index of the largest value, or -1 when bars is empty.
// Ties keep the first occurrence.
func MaxIndex(bars []Bar) int {
	best := -1
	for i, b := range bars {
		if best < 0 || b.Value > bars[best].Value {
			best = i
		}
	}
	return best
}
