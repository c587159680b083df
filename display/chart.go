package display

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/s0up4200/moodreel/tmdb"
)

// chartWidth is the bar length for a perfect 10
const chartWidth = 30

// FormatRatingChart renders a horizontal bar chart of vote averages on a 0-10
// scale, highest rated first
func (f *ConsoleFormatter) FormatRatingChart(movies []tmdb.MovieSummary) string {
	if len(movies) == 0 {
		return ""
	}

	sorted := make([]tmdb.MovieSummary, len(movies))
	copy(sorted, movies)
	slices.SortStableFunc(sorted, func(a, b tmdb.MovieSummary) int {
		return cmp.Compare(b.VoteAverage, a.VoteAverage)
	})

	labelWidth := 0
	for _, m := range sorted {
		labelWidth = max(labelWidth, utf8.RuneCountInString(m.Title))
	}
	labelWidth = min(labelWidth, 30)

	var sb strings.Builder
	sb.WriteString("\nRatings:\n")
	for _, m := range sorted {
		fmt.Fprintf(&sb, "  %s │%s %.1f\n", padLabel(m.Title, labelWidth), bar(m.VoteAverage), m.VoteAverage)
	}
	return sb.String()
}

func bar(voteAverage float64) string {
	if math.IsNaN(voteAverage) {
		voteAverage = 0
	}
	n := int(math.Round(max(0, min(voteAverage, 10)) / 10 * chartWidth))
	return strings.Repeat("█", n)
}

// padLabel truncates or pads a title to width runes
func padLabel(title string, width int) string {
	runes := []rune(title)
	if len(runes) > width {
		return string(runes[:width-1]) + "…"
	}
	return title + strings.Repeat(" ", width-len(runes))
}
