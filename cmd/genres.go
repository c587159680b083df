package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// genresCmd represents the genres command
var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the TMDB genre catalog",
	Long:  `List the movie genres known to TMDB in the configured language. Use these names with discover --genre.`,
	RunE:  runGenres,
}

func init() {
	rootCmd.AddCommand(genresCmd)
}

func runGenres(cmd *cobra.Command, args []string) error {
	genres, err := tmdbClient.GetGenres(context.Background())
	if err != nil {
		return userError(err)
	}

	fmt.Print(formatter.FormatGenres(genres))
	return nil
}
