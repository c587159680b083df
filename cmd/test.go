package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to TMDB",
	Long:  `Test the connection to TMDB with your API key and display basic information.`,
	RunE:  runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	fmt.Printf("Testing connection to TMDB at %s...\n", cfg.TMDB.BaseURL)

	if err := tmdbClient.TestConnection(ctx); err != nil {
		fmt.Println("✗ Connection failed")
		return userError(err)
	}
	fmt.Println("✓ Connection successful!")

	genres, err := tmdbClient.GetGenres(ctx)
	if err != nil {
		return userError(err)
	}

	fmt.Printf("\nTMDB Settings:\n")
	fmt.Printf("- Language: %s\n", tmdbClient.Language())
	fmt.Printf("- Region: %s\n", tmdbClient.Region())
	fmt.Printf("- Minimum votes: %d\n", cfg.Discover.MinVoteCount)
	fmt.Printf("- Genres: %d\n", len(genres))
	fmt.Printf("- Moods: %d\n", len(recommender.Moods()))

	return nil
}
