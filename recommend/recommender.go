package recommend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/moodreel/tmdb"
)

const (
	// DefaultLimit is the number of movies a mood recommendation keeps
	DefaultLimit = 10
	// MaxConcurrency caps provider lookups in flight
	MaxConcurrency = 10
)

// MovieSource is the subset of the TMDB client used for recommendations
type MovieSource interface {
	GetGenres(ctx context.Context) (map[string]int, error)
	DiscoverMovies(ctx context.Context, query tmdb.DiscoverQuery) ([]tmdb.MovieSummary, error)
	GetWatchProviders(ctx context.Context, movieID int) ([]string, error)
}

// Recommendation is a movie together with its streaming availability
type Recommendation struct {
	Movie     tmdb.MovieSummary
	Providers []string
	// ProvidersErr is set when the provider lookup failed; Providers is then empty
	ProvidersErr error
}

// Option configures a Recommender
type Option func(*Recommender)

// WithLimit sets how many movies a mood recommendation keeps
func WithLimit(limit int) Option {
	return func(r *Recommender) {
		if limit > 0 {
			r.limit = limit
		}
	}
}

// WithConcurrency sets how many provider lookups Enrich runs at once.
// 1 keeps lookups sequential.
func WithConcurrency(n int) Option {
	return func(r *Recommender) {
		r.concurrency = max(1, min(n, MaxConcurrency))
	}
}

// Recommender builds genre and mood recommendations on top of TMDB discovery
type Recommender struct {
	source      MovieSource
	moods       MoodTable
	limit       int
	concurrency int
	logger      zerolog.Logger
}

// NewRecommender creates a new recommender. A nil mood table uses DefaultMoods.
func NewRecommender(source MovieSource, moods MoodTable, logger zerolog.Logger, opts ...Option) *Recommender {
	if moods == nil {
		moods = DefaultMoods()
	}

	r := &Recommender{
		source:      source,
		moods:       moods,
		limit:       DefaultLimit,
		concurrency: 1,
		logger:      logger,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Moods returns the mood table in use
func (r *Recommender) Moods() MoodTable {
	return r.moods
}

// ByGenre returns the top movies of a genre, looked up by its catalog name
func (r *Recommender) ByGenre(ctx context.Context, genreName string, startYear, endYear int, sortBy tmdb.SortKey) ([]tmdb.MovieSummary, error) {
	genres, err := r.source.GetGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get genres: %w", err)
	}

	genreID, ok := genres[genreName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGenre, genreName)
	}

	r.logger.Debug().
		Str("genre", genreName).
		Int("genre_id", genreID).
		Str("sort_by", string(sortBy)).
		Msg("Recommending by genre")

	return r.source.DiscoverMovies(ctx, tmdb.DiscoverQuery{
		GenreID:   genreID,
		StartYear: startYear,
		EndYear:   endYear,
		SortBy:    sortBy,
	})
}

// ByMood returns movies for a mood. Each of the mood's genres is discovered in
// turn by rating, the results are concatenated in genre order and truncated to
// the limit. Genres missing from the catalog are skipped.
func (r *Recommender) ByMood(ctx context.Context, mood string, startYear, endYear int) ([]tmdb.MovieSummary, error) {
	names, ok := r.moods.Genres(mood)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMood, mood)
	}

	catalog, err := r.source.GetGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get genres: %w", err)
	}

	genreIDs := ResolveGenreIDs(names, catalog)
	if len(genreIDs) < len(names) {
		r.logger.Debug().
			Str("mood", mood).
			Strs("genres", names).
			Int("resolved", len(genreIDs)).
			Msg("Skipping mood genres missing from the catalog")
	}

	movies := make([]tmdb.MovieSummary, 0, r.limit)
	for _, genreID := range genreIDs {
		found, err := r.source.DiscoverMovies(ctx, tmdb.DiscoverQuery{
			GenreID:   genreID,
			StartYear: startYear,
			EndYear:   endYear,
			SortBy:    tmdb.SortByRating,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to discover movies for genre %d: %w", genreID, err)
		}
		movies = append(movies, found...)
	}

	if len(movies) > r.limit {
		movies = movies[:r.limit]
	}

	r.logger.Debug().
		Str("mood", mood).
		Int("count", len(movies)).
		Msg("Recommended movies by mood")

	return movies, nil
}

// Enrich looks up watch providers for each movie. A failed lookup is recorded
// on its entry and does not affect the others. Output order matches input.
func (r *Recommender) Enrich(ctx context.Context, movies []tmdb.MovieSummary) []Recommendation {
	results := make([]Recommendation, len(movies))
	if len(movies) == 0 {
		return results
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, movie := range movies {
		i, movie := i, movie
		results[i].Movie = movie

		g.Go(func() error {
			providers, err := r.source.GetWatchProviders(ctx, movie.ID)
			if err != nil {
				r.logger.Warn().
					Err(err).
					Int("movie_id", movie.ID).
					Str("movie", movie.Title).
					Msg("Failed to get watch providers")
				results[i].Providers = []string{}
				results[i].ProvidersErr = err
				// Continue with the remaining movies
				return nil
			}
			results[i].Providers = providers
			return nil
		})
	}

	_ = g.Wait()
	return results
}
