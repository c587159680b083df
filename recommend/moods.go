package recommend

import (
	"slices"
	"strings"
)

// defaultMoodOrder is the order moods are listed in
var defaultMoodOrder = []string{"우울", "기분전환", "감성적인", "지루할 때", "짜릿하게"}

// MoodTable maps a mood label to the genre names recommended for it
type MoodTable map[string][]string

// DefaultMoods returns the built-in mood table. Genre names match TMDB's
// Korean genre catalog.
func DefaultMoods() MoodTable {
	return MoodTable{
		"우울":    {"코미디", "가족"},
		"기분전환":  {"액션", "모험"},
		"감성적인":  {"드라마", "로맨스"},
		"지루할 때": {"SF", "스릴러"},
		"짜릿하게":  {"공포", "미스터리"},
	}
}

// Moods returns the mood labels. Built-in moods come first in their usual
// order, followed by any others sorted.
func (t MoodTable) Moods() []string {
	moods := make([]string, 0, len(t))
	for _, mood := range defaultMoodOrder {
		if _, ok := t[mood]; ok {
			moods = append(moods, mood)
		}
	}

	var others []string
	for mood := range t {
		if !slices.Contains(defaultMoodOrder, mood) {
			others = append(others, mood)
		}
	}
	slices.Sort(others)

	return append(moods, others...)
}

// Genres returns the genre names for a mood. Matching falls back to
// case-insensitive, since moods loaded from config have lowercased keys.
func (t MoodTable) Genres(mood string) ([]string, bool) {
	if genres, ok := t[mood]; ok {
		return genres, true
	}
	for name, genres := range t {
		if strings.EqualFold(name, mood) {
			return genres, true
		}
	}
	return nil, false
}

// ResolveGenreIDs maps genre names to catalog ids in order. Names that are not
// in the catalog are dropped.
func ResolveGenreIDs(names []string, catalog map[string]int) []int {
	ids := make([]int, 0, len(names))
	for _, name := range names {
		if id, ok := catalog[name]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
