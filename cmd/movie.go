package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// detailsCmd represents the details command
var detailsCmd = &cobra.Command{
	Use:   "details <movie-id>",
	Short: "Show director, cast, runtime and trailer for a movie",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetails,
}

// providersCmd represents the providers command
var providersCmd = &cobra.Command{
	Use:   "providers <movie-id>",
	Short: "Show subscription services streaming a movie in your region",
	Args:  cobra.ExactArgs(1),
	RunE:  runProviders,
}

// similarCmd represents the similar command
var similarCmd = &cobra.Command{
	Use:   "similar <movie-id>",
	Short: "Show movies similar to a movie",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimilar,
}

func init() {
	rootCmd.AddCommand(detailsCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(similarCmd)

	similarCmd.Flags().BoolVar(&showOverview, "overview", false, "show plot overviews")
}

func runDetails(cmd *cobra.Command, args []string) error {
	movieID, err := parseMovieID(args[0])
	if err != nil {
		return err
	}

	detail, err := tmdbClient.GetMovieDetails(context.Background(), movieID)
	if err != nil {
		return userError(err)
	}

	fmt.Print(formatter.FormatDetail(detail))
	return nil
}

func runProviders(cmd *cobra.Command, args []string) error {
	movieID, err := parseMovieID(args[0])
	if err != nil {
		return err
	}

	providers, err := tmdbClient.GetWatchProviders(context.Background(), movieID)
	if err != nil {
		return userError(err)
	}

	fmt.Print(formatter.FormatProviders(movieID, tmdbClient.Region(), providers))
	return nil
}

func runSimilar(cmd *cobra.Command, args []string) error {
	movieID, err := parseMovieID(args[0])
	if err != nil {
		return err
	}

	movies, err := tmdbClient.GetSimilarMovies(context.Background(), movieID)
	if err != nil {
		return userError(err)
	}

	fmt.Println(formatter.FormatMovies(fmt.Sprintf("Similar to %d", movieID), movies, formatOptions(false)))
	return nil
}

// parseMovieID parses a positive TMDB movie id
func parseMovieID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie id '%s': must be a positive integer", s)
	}
	return id, nil
}
