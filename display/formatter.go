package display

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/s0up4200/moodreel/recommend"
	"github.com/s0up4200/moodreel/tmdb"
)

const (
	noReleaseDate = "N/A"
	noOverview    = "No overview available."
)

// FormatOptions contains options for formatting output
type FormatOptions struct {
	ShowOverview  bool
	ShowProviders bool
	// PosterURL builds a poster link from a relative path; nil hides posters
	PosterURL func(path string) string
}

// ConsoleFormatter provides console output formatting for movies
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatMovies formats plain movie summaries without provider information
func (f *ConsoleFormatter) FormatMovies(title string, movies []tmdb.MovieSummary, options FormatOptions) string {
	recs := make([]recommend.Recommendation, len(movies))
	for i, m := range movies {
		recs[i] = recommend.Recommendation{Movie: m}
	}
	options.ShowProviders = false
	return f.FormatRecommendations(title, recs, options)
}

// FormatRecommendations formats a numbered movie list for console display
func (f *ConsoleFormatter) FormatRecommendations(title string, recs []recommend.Recommendation, options FormatOptions) string {
	if len(recs) == 0 {
		return "No movies found"
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%s (%d):\n\n", title, len(recs))

	for i, rec := range recs {
		isLast := i == len(recs)-1
		f.formatMovie(&sb, i+1, rec, isLast, options)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// formatMovie formats a single movie entry
func (f *ConsoleFormatter) formatMovie(sb *strings.Builder, n int, rec recommend.Recommendation, isLast bool, options FormatOptions) {
	movie := rec.Movie

	prefix := "├"
	if isLast {
		prefix = "╰"
	}
	fmt.Fprintf(sb, "%s── %d. %s\n", prefix, n, movie.Title)

	indent := "│   "
	if isLast {
		indent = "    "
	}

	releaseDate := movie.ReleaseDate
	if releaseDate == "" {
		releaseDate = noReleaseDate
	}
	fmt.Fprintf(sb, "%s%s (%.1f) | Released: %s | ID: %d\n",
		indent, StarRating(movie.VoteAverage), movie.VoteAverage, releaseDate, movie.ID)

	if options.ShowOverview {
		overview := movie.Overview
		if overview == "" {
			overview = noOverview
		}
		fmt.Fprintf(sb, "%s%s\n", indent, overview)
	}

	if options.PosterURL != nil && movie.PosterPath != "" {
		fmt.Fprintf(sb, "%sPoster: %s\n", indent, options.PosterURL(movie.PosterPath))
	}

	if options.ShowProviders {
		fmt.Fprintf(sb, "%s%s\n", indent, providerLine(rec.Providers, rec.ProvidersErr))
	}
}

// FormatDetail formats director, cast, runtime and trailer for one movie
func (f *ConsoleFormatter) FormatDetail(detail *tmdb.MovieDetail) string {
	var sb strings.Builder

	title := detail.Title
	if title == "" {
		title = fmt.Sprintf("Movie %d", detail.ID)
	}
	fmt.Fprintf(&sb, "\n%s\n", title)

	runtime := detail.RuntimeLabel()
	if detail.Runtime != nil {
		runtime += " min"
	}

	fmt.Fprintf(&sb, "├── Runtime: %s\n", runtime)
	fmt.Fprintf(&sb, "├── Director: %s\n", detail.Director)
	fmt.Fprintf(&sb, "├── Cast: %s\n", detail.CastLabel())
	if detail.HasTrailer() {
		fmt.Fprintf(&sb, "╰── Trailer: %s\n", detail.TrailerURL)
	} else {
		sb.WriteString("╰── Trailer: not found\n")
	}

	return sb.String()
}

// FormatProviders formats the provider list for one movie
func (f *ConsoleFormatter) FormatProviders(movieID int, region string, providers []string) string {
	return fmt.Sprintf("Movie %d [%s]: %s\n", movieID, region, providerLine(providers, nil))
}

// FormatFavorites formats the session favorites
func (f *ConsoleFormatter) FormatFavorites(favorites []tmdb.MovieSummary) string {
	if len(favorites) == 0 {
		return "No favorites yet.\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\nFavorites (%d):\n", len(favorites))
	for i, movie := range favorites {
		prefix := "├"
		if i == len(favorites)-1 {
			prefix = "╰"
		}
		fmt.Fprintf(&sb, "%s── %s - %s %.1f\n", prefix, movie.Title, StarRating(movie.VoteAverage), movie.VoteAverage)
	}
	return sb.String()
}

// FormatGenres formats the genre catalog sorted by id
func (f *ConsoleFormatter) FormatGenres(genres map[string]int) string {
	if len(genres) == 0 {
		return "No genres found"
	}

	type entry struct {
		name string
		id   int
	}
	entries := make([]entry, 0, len(genres))
	for name, id := range genres {
		entries = append(entries, entry{name, id})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return cmp.Compare(a.id, b.id)
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "\nGenres (%d):\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&sb, "  • %s (ID: %d)\n", e.name, e.id)
	}
	return sb.String()
}

// FormatMoods formats the mood table
func (f *ConsoleFormatter) FormatMoods(moods recommend.MoodTable) string {
	var sb strings.Builder
	sb.WriteString("\nMoods:\n")
	for _, mood := range moods.Moods() {
		genres, _ := moods.Genres(mood)
		fmt.Fprintf(&sb, "  • %s: %s\n", mood, strings.Join(genres, ", "))
	}
	return sb.String()
}

// FormatError renders a failed upstream call as a short user-facing message
func (f *ConsoleFormatter) FormatError(err error) string {
	var (
		apiErr       *tmdb.APIError
		transportErr *tmdb.TransportError
		decodeErr    *tmdb.DecodeError
	)

	switch {
	case errors.As(err, &apiErr) && apiErr.IsUnauthorized():
		return "TMDB rejected the API key. Check tmdb.api_key or TMDB_API_KEY."
	case errors.As(err, &apiErr) && apiErr.IsNotFound():
		return "TMDB has no such movie."
	case errors.As(err, &apiErr) && apiErr.IsRateLimited():
		return "TMDB rate limit reached, try again shortly."
	case errors.As(err, &apiErr):
		return fmt.Sprintf("TMDB returned an error (status %d).", apiErr.StatusCode)
	case errors.As(err, &transportErr):
		return "Could not reach TMDB. Check your network connection."
	case errors.As(err, &decodeErr):
		return "TMDB sent a response moodreel could not read."
	default:
		return err.Error()
	}
}

func providerLine(providers []string, err error) string {
	switch {
	case err != nil:
		return "Streaming: unavailable (lookup failed)"
	case len(providers) == 0:
		return "Streaming: not on any subscription service"
	default:
		return "Streaming: " + strings.Join(providers, ", ")
	}
}
