package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	moodName      string
	moodProviders bool
)

// moodCmd represents the mood command
var moodCmd = &cobra.Command{
	Use:   "mood",
	Short: "Recommend movies for how you feel",
	Long: `Recommend top-rated movies for a mood. Each mood maps to a pair of genres;
the best movies of each genre are combined and the first ten are shown
together with the streaming services that carry them.

Run without --mood to list the available moods.

Examples:
  moodreel mood --mood 우울
  moodreel mood --mood "지루할 때" --from 2000 --to 2010`,
	RunE: runMood,
}

func init() {
	rootCmd.AddCommand(moodCmd)

	moodCmd.Flags().StringVarP(&moodName, "mood", "m", "", "mood name")
	moodCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to the results")
	moodCmd.Flags().BoolVar(&showOverview, "overview", false, "show plot overviews")
	moodCmd.Flags().BoolVar(&moodProviders, "providers", true, "look up streaming services for each movie")
	addYearFlags(moodCmd, 2015, 2025)
}

func runMood(cmd *cobra.Command, args []string) error {
	if moodName == "" {
		fmt.Print(formatter.FormatMoods(recommender.Moods()))
		return nil
	}

	ctx := context.Background()

	from, to, err := yearRange(cmd, cfg.Discover.MoodStartYear, cfg.Discover.MoodEndYear)
	if err != nil {
		return err
	}

	movieFilter, err := compileFilter()
	if err != nil {
		return err
	}

	logger.Info().
		Str("mood", moodName).
		Int("from", from).
		Int("to", to).
		Msg("Recommending movies by mood")

	movies, err := recommender.ByMood(ctx, moodName, from, to)
	if err != nil {
		return userError(err)
	}

	movies, err = applyFilter(movieFilter, movies)
	if err != nil {
		return err
	}

	printMovies(ctx, fmt.Sprintf("Movies for %q", moodName), movies, moodProviders)
	return nil
}
