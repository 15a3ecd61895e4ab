package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/cinemetrics/internal/model"
)

// NoPosterURL is shown for records without a poster.
const NoPosterURL = "https://via.placeholder.com/200x300?text=No+Poster"

const (
	maxTitleWidth = 28
	defaultWidth  = 40
)

var (
	headingStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700"))
	headerStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#09AB3B"))
	barStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4B4B"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var printer = message.NewPrinter(language.English)

// FormatMetric renders a chart value: ratings with one decimal, box office as
// whole dollars with thousands separators.
func FormatMetric(metric Metric, v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	if metric == MetricBoxOffice {
		return printer.Sprintf("$%d", int64(math.Round(v)))
	}
	return fmt.Sprintf("%.1f", v)
}

func formatVotes(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	return printer.Sprintf("%d", int64(math.Round(v)))
}

func fit(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

// Table writes the table with aligned columns. The highest imdbRating and
// BoxOffice cells are highlighted.
func Table(w io.Writer, table model.Table) error {
	if table.Len() == 0 {
		_, err := fmt.Fprintln(w, dimStyle.Render("(no rows)"))
		return err
	}

	maxRating := MaxIndex(Series(table, MetricRating))
	maxBox := MaxIndex(Series(table, MetricBoxOffice))

	cells := make([][]string, 0, table.Len()+1)
	cells = append(cells, model.Columns)
	for _, r := range table.Rows {
		cells = append(cells, []string{
			r.Title, r.Year, r.Genre, r.Director,
			FormatMetric(MetricRating, r.ImdbRating),
			formatVotes(r.ImdbVotes),
			fmt.Sprintf("%.0f min", r.Runtime),
			FormatMetric(MetricBoxOffice, r.BoxOffice),
		})
	}

	widths := make([]int, len(model.Columns))
	for _, row := range cells {
		for j, c := range row {
			widths[j] = max(widths[j], min(runewidth.StringWidth(c), maxTitleWidth))
		}
	}

	for i, row := range cells {
		parts := make([]string, len(row))
		for j, c := range row {
			cell := fit(c, widths[j])
			switch {
			case i == 0:
				cell = headerStyle.Render(cell)
			case j == 4 && i-1 == maxRating, j == 7 && i-1 == maxBox:
				cell = highlightStyle.Render(cell)
			}
			parts[j] = cell
		}
		if _, err := fmt.Fprintln(w, strings.Join(parts, "  ")); err != nil {
			return err
		}
	}
	return nil
}

// BarChart writes a horizontal bar chart. Bars scale to width cells relative
// to the largest value; negative values draw no bar.
func BarChart(w io.Writer, title string, metric Metric, bars []Bar, width int) error {
	if width <= 0 {
		width = defaultWidth
	}
	if _, err := fmt.Fprintln(w, headingStyle.Render(title)); err != nil {
		return err
	}
	if len(bars) == 0 {
		_, err := fmt.Fprintln(w, dimStyle.Render("(no data)"))
		return err
	}

	labelWidth := 0
	peak := 0.0
	for _, b := range bars {
		labelWidth = max(labelWidth, min(runewidth.StringWidth(b.Label), maxTitleWidth))
		if b.Value > peak {
			peak = b.Value
		}
	}

	for _, b := range bars {
		n := 0
		if peak > 0 && b.Value > 0 {
			n = int(math.Round(b.Value / peak * float64(width)))
		}
		line := fmt.Sprintf("%s │%s %s",
			fit(b.Label, labelWidth),
			barStyle.Render(strings.Repeat("█", n)),
			FormatMetric(metric, b.Value),
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Details writes one card per fetched record.
func Details(w io.Writer, records []model.MovieRecord) error {
	for _, rec := range records {
		poster := rec.Poster.Or("N/A")
		if poster == "N/A" {
			poster = NoPosterURL
		}
		lines := []string{
			headingStyle.Render(fmt.Sprintf("%s (%s)", rec.Title.Or("N/A"), rec.Year.Or("N/A"))),
			"Genre:      " + rec.Genre.Or("N/A"),
			"Director:   " + rec.Director.Or("N/A"),
			"IMDb:       " + rec.ImdbRating.Or("N/A"),
			"Box Office: " + rec.BoxOffice.Or("N/A"),
			"Runtime:    " + rec.Runtime.Or("N/A"),
			dimStyle.Render("Poster:     " + poster),
		}
		if _, err := fmt.Fprintln(w, strings.Join(lines, "\n")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Dashboard writes the record cards, the table and both charts.
func Dashboard(w io.Writer, records []model.MovieRecord, table model.Table) error {
	if len(records) > 0 {
		if _, err := fmt.Fprintln(w, headingStyle.Render("Movie Details")); err != nil {
			return err
		}
		if err := Details(w, records); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, headingStyle.Render("Movie Analytics Summary")); err != nil {
		return err
	}
	if err := Table(w, table); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if err := BarChart(w, "IMDb Ratings Comparison", MetricRating, Series(table, MetricRating), defaultWidth); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return BarChart(w, "Box Office Comparison", MetricBoxOffice, Series(table, MetricBoxOffice), defaultWidth)
}
