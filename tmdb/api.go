package tmdb

import (
	"context"
)

// API defines the TMDB operations used by moodreel
type API interface {
	// TestConnection verifies the client can reach TMDB with its credentials
	TestConnection(ctx context.Context) error

	// GetGenres retrieves the movie genre catalog keyed by localized name
	GetGenres(ctx context.Context) (map[string]int, error)

	// DiscoverMovies runs a discovery query and returns the first page, truncated
	DiscoverMovies(ctx context.Context, query DiscoverQuery) ([]MovieSummary, error)

	// GetSimilarMovies retrieves movies similar to the given one, truncated
	GetSimilarMovies(ctx context.Context, movieID int) ([]MovieSummary, error)

	// GetMovieDetails retrieves director, cast, runtime and trailer for a movie
	GetMovieDetails(ctx context.Context, movieID int) (*MovieDetail, error)

	// GetWatchProviders retrieves flat-rate provider names for the configured region
	GetWatchProviders(ctx context.Context, movieID int) ([]string, error)
}

var _ API = (*Client)(nil)
