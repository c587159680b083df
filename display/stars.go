// Package display renders movies, details and errors for the terminal.
package display

import (
	"math"
	"strings"
)

const (
	filledStar = "⭐"
	emptyStar  = "☆"
	maxStars   = 5
)

// StarRating maps a 0-10 vote average onto five stars. Half stars round to
// the nearest even count, so 5.0 (2.5 stars) shows two filled stars.
func StarRating(voteAverage float64) string {
	if math.IsNaN(voteAverage) {
		voteAverage = 0
	}

	filled := int(math.RoundToEven(voteAverage / 2))
	filled = max(0, min(filled, maxStars))

	return strings.Repeat(filledStar, filled) + strings.Repeat(emptyStar, maxStars-filled)
}
