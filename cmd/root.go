package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/moodreel/config"
	"github.com/s0up4200/moodreel/display"
	"github.com/s0up4200/moodreel/filter"
	"github.com/s0up4200/moodreel/recommend"
	"github.com/s0up4200/moodreel/tmdb"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	cfgFile        string
	cfg            *config.Config
	logger         zerolog.Logger
	tmdbClient     *tmdb.Client
	recommender    *recommend.Recommender
	formatter      *display.ConsoleFormatter
	filterCompiler *filter.Compiler

	// Shared command flags
	filterExpr   string
	fromYear     int
	toYear       int
	showOverview bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "moodreel",
	Short: "Discover movies by genre or mood using TMDB",
	Long: `moodreel is a CLI for finding something to watch. It queries The Movie
Database (TMDB) for top movies by genre or by mood, shows director, cast,
runtime and trailer for a movie, and lists the subscription services that
stream it in your region.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// SetVersion sets the build version reported by the version and update commands
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Create TMDB client
	tmdbClient, err = tmdb.NewClient(cfg.TMDB.APIKey, logger,
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithImageBaseURL(cfg.TMDB.ImageBaseURL),
		tmdb.WithPosterSize(cfg.TMDB.PosterSize),
		tmdb.WithLanguage(cfg.TMDB.Language),
		tmdb.WithRegion(cfg.TMDB.Region),
		tmdb.WithTimeout(cfg.TMDB.Timeout),
		tmdb.WithRateLimit(cfg.TMDB.RateLimit, cfg.TMDB.RateBurst),
		tmdb.WithMinVoteCount(cfg.Discover.MinVoteCount),
		tmdb.WithDiscoverLimit(cfg.Discover.Limit),
		tmdb.WithSimilarLimit(cfg.Discover.SimilarLimit),
	)
	if err != nil {
		return fmt.Errorf("failed to create TMDB client: %w", err)
	}

	var moods recommend.MoodTable
	if len(cfg.Moods) > 0 {
		moods = recommend.MoodTable(cfg.Moods)
		logger.Debug().Int("moods", len(moods)).Msg("Using moods from config")
	}

	recommender = recommend.NewRecommender(tmdbClient, moods, logger,
		recommend.WithLimit(cfg.Discover.Limit),
		recommend.WithConcurrency(cfg.Recommend.Concurrency),
	)

	formatter = display.NewConsoleFormatter()
	filterCompiler = filter.NewCompiler()

	return nil
}

// skipInitialization replaces initializeApp for commands that need no config
func skipInitialization(cmd *cobra.Command, args []string) error {
	logger = setupLogger(config.LoggingConfig{Level: "info", Format: "console", Color: true})
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// addYearFlags registers --from and --to with command-specific defaults
func addYearFlags(cmd *cobra.Command, from, to int) {
	cmd.Flags().IntVar(&fromYear, "from", from, "first release year")
	cmd.Flags().IntVar(&toYear, "to", to, "last release year")
}

// yearRange resolves --from/--to against configured defaults and checks them
// against the allowed window of earliest_year..current year
func yearRange(cmd *cobra.Command, defaultFrom, defaultTo int) (int, int, error) {
	from, to := defaultFrom, defaultTo
	if cmd.Flags().Changed("from") {
		from = fromYear
	}
	if cmd.Flags().Changed("to") {
		to = toYear
	}

	earliest := cfg.Discover.EarliestYear
	latest := time.Now().Year()
	if from < earliest || to > latest {
		return 0, 0, fmt.Errorf("year range %d-%d must be within %d-%d", from, to, earliest, latest)
	}
	if from > to {
		return 0, 0, fmt.Errorf("invalid year range: %d is after %d", from, to)
	}

	return from, to, nil
}

// compileFilter compiles the --filter expression; an empty expression matches everything
func compileFilter() (*filter.Filter, error) {
	if strings.TrimSpace(filterExpr) == "" {
		return nil, nil
	}

	f, err := filterCompiler.Compile(filterExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return f, nil
}

// applyFilter narrows movies with f when it is set
func applyFilter(f *filter.Filter, movies []tmdb.MovieSummary) ([]tmdb.MovieSummary, error) {
	if f == nil {
		return movies, nil
	}

	matched, err := f.Apply(movies)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("filter", f.Expression()).
		Int("before", len(movies)).
		Int("after", len(matched)).
		Msg("Applied filter")

	return matched, nil
}

// formatOptions builds display options for the loaded client
func formatOptions(providers bool) display.FormatOptions {
	return display.FormatOptions{
		ShowOverview:  showOverview,
		ShowProviders: providers,
		PosterURL:     tmdbClient.PosterURL,
	}
}

// userError logs err and replaces it with the short message shown to the user
func userError(err error) error {
	logger.Debug().Err(err).Msg("Command failed")
	return errors.New(formatter.FormatError(err))
}
