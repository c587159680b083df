// Package session holds per-session state for an interactive browse: the
// favorites list.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/s0up4200/moodreel/tmdb"
)

// ErrClosed is returned when a closed session is modified
var ErrClosed = errors.New("session is closed")

// Session is an append-only favorites list scoped to one browse session.
// Nothing is persisted.
type Session struct {
	id        string
	startedAt time.Time
	logger    zerolog.Logger

	mu        sync.RWMutex
	favorites []tmdb.MovieSummary
	closed    bool
}

// New starts a session
func New(logger zerolog.Logger) *Session {
	id := uuid.NewString()
	s := &Session{
		id:        id,
		startedAt: time.Now(),
		logger:    logger.With().Str("session", id).Logger(),
		favorites: make([]tmdb.MovieSummary, 0),
	}

	s.logger.Debug().Msg("Session started")
	return s
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Add appends a movie to the favorites. Duplicates are kept.
func (s *Session) Add(movie tmdb.MovieSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.favorites = append(s.favorites, movie)

	s.logger.Debug().
		Int("movie_id", movie.ID).
		Str("movie", movie.Title).
		Int("favorites", len(s.favorites)).
		Msg("Added favorite")
	return nil
}

// Favorites returns a copy of the favorites in the order they were added
func (s *Session) Favorites() []tmdb.MovieSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]tmdb.MovieSummary, len(s.favorites))
	copy(out, s.favorites)
	return out
}

// Len returns the number of favorites
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.favorites)
}

// Close ends the session and discards its favorites. Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	s.logger.Debug().
		Int("favorites", len(s.favorites)).
		Dur("duration", time.Since(s.startedAt)).
		Msg("Session ended")
	s.favorites = nil
}
