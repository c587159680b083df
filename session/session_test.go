package session

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/moodreel/tmdb"
)

func TestSessionFavorites(t *testing.T) {
	s := New(zerolog.Nop())
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.Favorites())

	first := tmdb.MovieSummary{ID: 1, Title: "First"}
	second := tmdb.MovieSummary{ID: 2, Title: "Second"}

	require.NoError(t, s.Add(first))
	require.NoError(t, s.Add(second))
	require.NoError(t, s.Add(first))

	favorites := s.Favorites()
	require.Len(t, favorites, 3)
	assert.Equal(t, []int{1, 2, 1}, []int{favorites[0].ID, favorites[1].ID, favorites[2].ID})

	// The returned slice is a copy
	favorites[0].Title = "changed"
	assert.Equal(t, "First", s.Favorites()[0].Title)
}

func TestSessionClose(t *testing.T) {
	s := New(zerolog.Nop())
	require.NoError(t, s.Add(tmdb.MovieSummary{ID: 1}))

	s.Close()
	s.Close()

	assert.ErrorIs(t, s.Add(tmdb.MovieSummary{ID: 2}), ErrClosed)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Favorites())
}

func TestSessionsAreIndependent(t *testing.T) {
	a := New(zerolog.Nop())
	b := New(zerolog.Nop())

	require.NoError(t, a.Add(tmdb.MovieSummary{ID: 1}))

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 0, b.Len())
}
