package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/moodreel/tmdb"
)

var (
	genreName     string
	sortOption    string
	withProviders bool
	showChart     bool
)

// discoverCmd represents the discover command
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Show top movies for a genre and year range",
	Long: `Show the top movies released within a year range, optionally restricted
to one genre. Movies with fewer than discover.min_vote_count votes are
excluded. Results are sorted by rating or by popularity.

Examples:
  moodreel discover --genre 액션 --from 2020 --to 2024
  moodreel discover --genre SF --sort popularity --providers
  moodreel discover --filter 'Votes > 1000 and contains(Overview, "우주")'`,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().StringVarP(&genreName, "genre", "g", "", "genre name as listed by the genres command (default any genre)")
	discoverCmd.Flags().StringVarP(&sortOption, "sort", "s", "rating", "sort order (rating/popularity)")
	discoverCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to the results")
	discoverCmd.Flags().BoolVarP(&withProviders, "providers", "p", false, "look up streaming services for each movie")
	discoverCmd.Flags().BoolVar(&showOverview, "overview", false, "show plot overviews")
	discoverCmd.Flags().BoolVar(&showChart, "chart", false, "show a rating chart")
	addYearFlags(discoverCmd, 2020, 2025)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sortBy, ok := tmdb.ParseSortKey(sortOption)
	if !ok {
		return fmt.Errorf("invalid sort order: %s (must be 'rating' or 'popularity')", sortOption)
	}

	from, to, err := yearRange(cmd, cfg.Discover.StartYear, cfg.Discover.EndYear)
	if err != nil {
		return err
	}

	movieFilter, err := compileFilter()
	if err != nil {
		return err
	}

	logger.Info().
		Str("genre", genreName).
		Int("from", from).
		Int("to", to).
		Str("sort_by", string(sortBy)).
		Msg("Discovering movies")

	var movies []tmdb.MovieSummary
	if genreName != "" {
		movies, err = recommender.ByGenre(ctx, genreName, from, to, sortBy)
	} else {
		movies, err = tmdbClient.DiscoverMovies(ctx, tmdb.DiscoverQuery{
			StartYear: from,
			EndYear:   to,
			SortBy:    sortBy,
		})
	}
	if err != nil {
		return userError(err)
	}

	movies, err = applyFilter(movieFilter, movies)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Top movies by %s", sortBy.Label())
	if genreName != "" {
		title = fmt.Sprintf("Top %s movies by %s", genreName, sortBy.Label())
	}

	if showChart {
		fmt.Print(formatter.FormatRatingChart(movies))
	}
	printMovies(ctx, title, movies, withProviders)

	return nil
}

// printMovies prints a movie list, enriching it with providers when asked
func printMovies(ctx context.Context, title string, movies []tmdb.MovieSummary, providers bool) {
	if !providers {
		fmt.Println(formatter.FormatMovies(title, movies, formatOptions(false)))
		return
	}

	recs := recommender.Enrich(ctx, movies)
	fmt.Println(formatter.FormatRecommendations(title, recs, formatOptions(true)))
}
