package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/moodreel/display"
	"github.com/s0up4200/moodreel/recommend"
	"github.com/s0up4200/moodreel/session"
	"github.com/s0up4200/moodreel/tmdb"
)

const browseHelp = `Commands:
  mood <name>     load recommendations for a mood
  genre <name>    load top-rated movies for a genre
  list            show the current list with streaming services
  favorite <n>    add movie n to your favorites
  details <n>     show director, cast and runtime for movie n
  trailer <n>     show the trailer link for movie n
  favorites       show your favorites
  moods           show the available moods
  help            show this help
  quit            leave
`

var (
	browseMood  string
	browseGenre string
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse recommendations interactively and collect favorites",
	Long: `Start an interactive session. Load movies by mood or genre, look at their
details and trailers, and collect favorites. Favorites last until the
session ends.`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().StringVarP(&browseMood, "mood", "m", "", "start with recommendations for a mood")
	browseCmd.Flags().StringVarP(&browseGenre, "genre", "g", "", "start with top movies for a genre")
	browseCmd.Flags().BoolVar(&showOverview, "overview", false, "show plot overviews")
	addYearFlags(browseCmd, 2015, 2025)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	from, to, err := yearRange(cmd, cfg.Discover.MoodStartYear, cfg.Discover.MoodEndYear)
	if err != nil {
		return err
	}

	sess := session.New(logger)
	defer sess.Close()

	b := &browser{
		in:          bufio.NewScanner(os.Stdin),
		out:         os.Stdout,
		recommender: recommender,
		movies:      tmdbClient,
		formatter:   formatter,
		options:     formatOptions(true),
		session:     sess,
		from:        from,
		to:          to,
		prompt:      isTerminal(os.Stdin),
		logger:      logger,
	}

	ctx := context.Background()

	switch {
	case browseMood != "":
		b.handle(ctx, "mood "+browseMood)
	case browseGenre != "":
		b.handle(ctx, "genre "+browseGenre)
	default:
		fmt.Fprint(b.out, formatter.FormatMoods(recommender.Moods()))
	}

	return b.run(ctx)
}

// movieDetailer looks up details for a single movie
type movieDetailer interface {
	GetMovieDetails(ctx context.Context, movieID int) (*tmdb.MovieDetail, error)
}

// browser is the interactive loop behind the browse command
type browser struct {
	in          *bufio.Scanner
	out         io.Writer
	recommender *recommend.Recommender
	movies      movieDetailer
	formatter   *display.ConsoleFormatter
	options     display.FormatOptions
	session     *session.Session
	from        int
	to          int
	prompt      bool
	logger      zerolog.Logger

	title   string
	current []tmdb.MovieSummary
}

// errQuit ends the loop
var errQuit = errors.New("quit")

// run reads commands until quit or end of input
func (b *browser) run(ctx context.Context) error {
	fmt.Fprintln(b.out, "Type 'help' for commands.")

	for {
		if b.prompt {
			fmt.Fprint(b.out, "> ")
		}
		if !b.in.Scan() {
			break
		}
		if err := b.handle(ctx, b.in.Text()); errors.Is(err, errQuit) {
			break
		}
	}

	if err := b.in.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	b.logger.Debug().
		Str("session", b.session.ID()).
		Int("favorites", b.session.Len()).
		Msg("Browse session ended")

	return nil
}

// handle executes one command line. Command errors are printed and only
// errQuit is returned.
func (b *browser) handle(ctx context.Context, line string) error {
	command, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	var err error
	switch strings.ToLower(command) {
	case "":
		return nil
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		fmt.Fprint(b.out, browseHelp)
	case "moods":
		fmt.Fprint(b.out, b.formatter.FormatMoods(b.recommender.Moods()))
	case "mood":
		err = b.loadMood(ctx, arg)
	case "genre":
		err = b.loadGenre(ctx, arg)
	case "list", "ls":
		b.list(ctx)
	case "favorite", "fav":
		err = b.favorite(arg)
	case "favorites", "favs":
		fmt.Fprint(b.out, b.formatter.FormatFavorites(b.session.Favorites()))
	case "details":
		err = b.details(ctx, arg, false)
	case "trailer":
		err = b.details(ctx, arg, true)
	default:
		err = fmt.Errorf("unknown command '%s', type 'help' for commands", command)
	}

	if err != nil {
		fmt.Fprintln(b.out, b.formatter.FormatError(err))
	}
	return nil
}

func (b *browser) loadMood(ctx context.Context, mood string) error {
	if mood == "" {
		return errors.New("usage: mood <name>")
	}

	movies, err := b.recommender.ByMood(ctx, mood, b.from, b.to)
	if err != nil {
		return err
	}

	b.title = fmt.Sprintf("Movies for %q", mood)
	b.current = movies
	b.list(ctx)
	return nil
}

func (b *browser) loadGenre(ctx context.Context, genre string) error {
	if genre == "" {
		return errors.New("usage: genre <name>")
	}

	movies, err := b.recommender.ByGenre(ctx, genre, b.from, b.to, tmdb.SortByRating)
	if err != nil {
		return err
	}

	b.title = fmt.Sprintf("Top %s movies", genre)
	b.current = movies
	b.list(ctx)
	return nil
}

func (b *browser) list(ctx context.Context) {
	if b.current == nil {
		fmt.Fprintln(b.out, "Nothing loaded yet. Try 'mood <name>' or 'genre <name>'.")
		return
	}

	recs := b.recommender.Enrich(ctx, b.current)
	fmt.Fprintln(b.out, b.formatter.FormatRecommendations(b.title, recs, b.options))
}

func (b *browser) favorite(arg string) error {
	movie, err := b.pick(arg)
	if err != nil {
		return err
	}

	if err := b.session.Add(movie); err != nil {
		return err
	}

	fmt.Fprintf(b.out, "Added %s to favorites (%d).\n", movie.Title, b.session.Len())
	return nil
}

func (b *browser) details(ctx context.Context, arg string, trailerOnly bool) error {
	movie, err := b.pick(arg)
	if err != nil {
		return err
	}

	detail, err := b.movies.GetMovieDetails(ctx, movie.ID)
	if err != nil {
		return err
	}
	if detail.Title == "" {
		detail.Title = movie.Title
	}

	if !trailerOnly {
		fmt.Fprint(b.out, b.formatter.FormatDetail(detail))
		return nil
	}

	if detail.HasTrailer() {
		fmt.Fprintf(b.out, "Trailer for %s: %s\n", movie.Title, detail.TrailerURL)
	} else {
		fmt.Fprintf(b.out, "No trailer found for %s.\n", movie.Title)
	}
	return nil
}

// pick resolves a 1-based list position
func (b *browser) pick(arg string) (tmdb.MovieSummary, error) {
	if len(b.current) == 0 {
		return tmdb.MovieSummary{}, errors.New("nothing loaded yet, try 'mood <name>' or 'genre <name>'")
	}

	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(b.current) {
		return tmdb.MovieSummary{}, fmt.Errorf("invalid movie number '%s': must be between 1 and %d", arg, len(b.current))
	}

	return b.current[n-1], nil
}
