package recommend

import "errors"

var (
	// ErrUnknownMood is returned when a mood is not in the mood table
	ErrUnknownMood = errors.New("unknown mood")
	// ErrUnknownGenre is returned when a genre name is not in the TMDB catalog
	ErrUnknownGenre = errors.New("unknown genre")
)
