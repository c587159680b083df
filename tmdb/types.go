package tmdb

import (
	"strconv"
	"strings"
)

// Unknown is substituted when TMDB has no value for a detail field
const Unknown = "unknown"

// SortKey selects the ordering TMDB applies to a discovery query
type SortKey string

const (
	// SortByRating orders by vote average, highest first
	SortByRating SortKey = "vote_average.desc"
	// SortByPopularity orders by TMDB popularity, highest first
	SortByPopularity SortKey = "popularity.desc"
)

// ParseSortKey maps a CLI-friendly name to a SortKey
func ParseSortKey(s string) (SortKey, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rating", string(SortByRating):
		return SortByRating, true
	case "popularity", "popular", string(SortByPopularity):
		return SortByPopularity, true
	default:
		return "", false
	}
}

// Label returns a short human-readable name for the sort key
func (k SortKey) Label() string {
	switch k {
	case SortByPopularity:
		return "popularity"
	default:
		return "rating"
	}
}

// Genre represents a TMDB movie genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DiscoverQuery holds the parameters of a discovery request
type DiscoverQuery struct {
	// GenreID restricts results to one genre; 0 means any genre
	GenreID   int
	StartYear int
	EndYear   int
	SortBy    SortKey
}

// MovieSummary is a movie as returned by list endpoints
type MovieSummary struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title,omitempty"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	Popularity    float64 `json:"popularity"`
	ReleaseDate   string  `json:"release_date,omitempty"`
	Overview      string  `json:"overview,omitempty"`
	PosterPath    string  `json:"poster_path,omitempty"`
	GenreIDs      []int   `json:"genre_ids,omitempty"`
}

// Year returns the release year, or 0 when the release date is missing
func (m *MovieSummary) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// MovieDetail holds the fields derived from a movie detail request
type MovieDetail struct {
	ID       int
	Title    string
	Director string
	// Cast holds at most three names in billing order
	Cast []string
	// Runtime in minutes, nil when TMDB does not know it
	Runtime    *int
	TrailerURL string
}

// CastLabel joins the cast names for display
func (d *MovieDetail) CastLabel() string {
	if len(d.Cast) == 0 {
		return Unknown
	}
	return strings.Join(d.Cast, ", ")
}

// RuntimeLabel returns the runtime in minutes or Unknown
func (d *MovieDetail) RuntimeLabel() string {
	if d.Runtime == nil {
		return Unknown
	}
	return strconv.Itoa(*d.Runtime)
}

// HasTrailer reports whether a YouTube trailer was found
func (d *MovieDetail) HasTrailer() bool {
	return d.TrailerURL != ""
}

type genreListResponse struct {
	Genres []Genre `json:"genres"`
}

type movieListResponse struct {
	Page         int            `json:"page"`
	Results      []MovieSummary `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

type castMember struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

type crewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

type video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type movieDetailsResponse struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Runtime *int   `json:"runtime"`
	Credits struct {
		Cast []castMember `json:"cast"`
		Crew []crewMember `json:"crew"`
	} `json:"credits"`
	Videos struct {
		Results []video `json:"results"`
	} `json:"videos"`
}

type provider struct {
	ProviderID   int    `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

type regionProviders struct {
	Link     string     `json:"link"`
	Flatrate []provider `json:"flatrate"`
	Rent     []provider `json:"rent"`
	Buy      []provider `json:"buy"`
}

type watchProvidersResponse struct {
	ID      int                        `json:"id"`
	Results map[string]regionProviders `json:"results"`
}

type errorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
