// Package filter narrows movie lists with user-supplied expressions.
//
// Expressions use the expr language and see one movie at a time:
//
//	Rating >= 7.5 and Year >= 2020
//	contains(Overview, "우주") or hasGenre(878)
//	Votes > 1000 and not HasPoster
package filter

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/moodreel/tmdb"
)

// DefaultCacheSize is the number of compiled expressions a Compiler keeps
const DefaultCacheSize = 32

// Filter is a compiled expression ready for evaluation. A Filter is safe for
// concurrent use.
type Filter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// CompilerOption configures a Compiler
type CompilerOption func(*Compiler)

// WithCache sets the compiled expression cache size; 0 disables caching
func WithCache(size int) CompilerOption {
	return func(c *Compiler) {
		if size <= 0 {
			c.cache = nil
			return
		}
		c.cache = newLRUCache(size)
	}
}

// WithCustomFunctions adds helper functions available to expressions
func WithCustomFunctions(funcs map[string]any) CompilerOption {
	return func(c *Compiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// Compiler compiles filter expressions
type Compiler struct {
	helperFuncs map[string]any
	cache       *lruCache
}

// NewCompiler creates a new expression compiler
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		helperFuncs: createHelperFunctions(),
		cache:       newLRUCache(DefaultCacheSize),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Compile parses and type-checks an expression. An empty expression is an error;
// callers that treat "no filter" as match-all should check before compiling.
func (c *Compiler) Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.get(expression); ok {
			return cached, nil
		}
	}

	// Compile against a zero movie so unknown identifiers fail here rather
	// than at evaluation time
	env := createEnvironment(tmdb.MovieSummary{}, c.helperFuncs)
	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &Filter{
		expression: expression,
		program:    program,
		helpers:    c.helperFuncs,
	}

	if c.cache != nil {
		c.cache.put(expression, filter)
	}

	return filter, nil
}

// CacheSize returns the number of cached expressions
func (c *Compiler) CacheSize() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.len()
}

// Expression returns the source expression
func (f *Filter) Expression() string {
	return f.expression
}

// Match reports whether a movie satisfies the filter
func (f *Filter) Match(movie tmdb.MovieSummary) (bool, error) {
	result, err := expr.Run(f.program, createEnvironment(movie, f.helpers))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			MovieID:    movie.ID,
			MovieTitle: movie.Title,
			Err:        err,
		}
	}

	// AsBool at compile time guarantees a bool result
	return result.(bool), nil
}

// Apply returns the movies that satisfy the filter, preserving order
func (f *Filter) Apply(movies []tmdb.MovieSummary) ([]tmdb.MovieSummary, error) {
	matched := make([]tmdb.MovieSummary, 0, len(movies))
	for _, movie := range movies {
		ok, err := f.Match(movie)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, movie)
		}
	}
	return matched, nil
}

// createHelperFunctions creates the movie-independent helpers
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)

	funcs["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	funcs["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	funcs["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	funcs["lower"] = strings.ToLower
	funcs["upper"] = strings.ToUpper
	funcs["yearsAgo"] = func(years int) int {
		return time.Now().Year() - years
	}

	return funcs
}

// createEnvironment builds the evaluation environment for one movie
func createEnvironment(movie tmdb.MovieSummary, helpers map[string]any) map[string]any {
	env := make(map[string]any, len(helpers)+12)
	maps.Copy(env, helpers)

	env["ID"] = movie.ID
	env["Title"] = movie.Title
	env["OriginalTitle"] = movie.OriginalTitle
	env["Rating"] = movie.VoteAverage
	env["Votes"] = movie.VoteCount
	env["Popularity"] = movie.Popularity
	env["Year"] = movie.Year()
	env["ReleaseDate"] = movie.ReleaseDate
	env["Overview"] = movie.Overview
	env["HasPoster"] = movie.PosterPath != ""
	env["GenreIDs"] = movie.GenreIDs
	env["hasGenre"] = createHasGenreFunc(movie.GenreIDs)

	return env
}

func createHasGenreFunc(genreIDs []int) func(int) bool {
	return func(id int) bool {
		return slices.Contains(genreIDs, id)
	}
}
