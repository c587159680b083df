package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the TMDB v3 API root
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultImageBaseURL is the TMDB image CDN root
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	// DefaultPosterSize is the poster width bucket
	DefaultPosterSize = "w200"
	// DefaultLanguage is the response language
	DefaultLanguage = "ko"
	// DefaultRegion is the watch provider region
	DefaultRegion = "KR"
	// DefaultMinVoteCount excludes low-signal entries from discovery
	DefaultMinVoteCount = 50
	// DefaultDiscoverLimit is the number of discovery results kept
	DefaultDiscoverLimit = 10
	// DefaultSimilarLimit is the number of similar movies kept
	DefaultSimilarLimit = 5

	youtubeWatchURL = "https://www.youtube.com/watch?v="
)

// Client represents a TMDB API client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger

	imageBaseURL  string
	posterSize    string
	language      string
	region        string
	minVoteCount  int
	discoverLimit int
	similarLimit  int
}

// NewClient creates a new TMDB client. The key may be a v3 API key or a v4
// read access token.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	}

	client := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:        logger,
		imageBaseURL:  DefaultImageBaseURL,
		posterSize:    DefaultPosterSize,
		language:      DefaultLanguage,
		region:        DefaultRegion,
		minVoteCount:  DefaultMinVoteCount,
		discoverLimit: DefaultDiscoverLimit,
		similarLimit:  DefaultSimilarLimit,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	if _, err := url.Parse(client.baseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid base URL: %v", ErrInvalidConfig, err)
	}
	if client.region == "" {
		return nil, fmt.Errorf("%w: region is required", ErrInvalidConfig)
	}

	return client, nil
}

// Language returns the response language sent with requests
func (c *Client) Language() string {
	return c.language
}

// Region returns the watch provider region
func (c *Client) Region() string {
	return c.region
}

// isBearerToken reports whether the key is a v4 read access token (a JWT)
func (c *Client) isBearerToken() bool {
	return strings.HasPrefix(c.apiKey, "eyJ") && strings.Count(c.apiKey, ".") == 2
}

// doRequest performs a GET request and decodes the JSON body into out
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	if !c.isBearerToken() {
		params.Set("api_key", c.apiKey)
	}

	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Endpoint: endpoint, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: fmt.Errorf("failed to create request: %w", c.redact(err, endpoint))}
	}

	req.Header.Set("Accept", "application/json")
	if c.isBearerToken() {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("language", params.Get("language")).
		Msg("Making TMDB API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: c.redact(err, endpoint)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
		var errBody errorResponse
		if json.Unmarshal(body, &errBody) == nil {
			apiErr.Code = errBody.StatusCode
			apiErr.Message = errBody.StatusMessage
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{Endpoint: endpoint, Err: err}
	}

	return nil
}

// redact drops the query string, and with it the api_key, from a *url.Error
func (c *Client) redact(err error, endpoint string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = c.baseURL + endpoint
	}
	return err
}

// localized returns query parameters carrying the configured language
func (c *Client) localized() url.Values {
	params := url.Values{}
	if c.language != "" {
		params.Set("language", c.language)
	}
	return params
}

// TestConnection tests the connection and credentials against TMDB
func (c *Client) TestConnection(ctx context.Context) error {
	var out map[string]any
	return c.doRequest(ctx, "/configuration", nil, &out)
}

// GetGenres retrieves the movie genre catalog as a name -> id mapping
func (c *Client) GetGenres(ctx context.Context) (map[string]int, error) {
	var response genreListResponse
	if err := c.doRequest(ctx, "/genre/movie/list", c.localized(), &response); err != nil {
		return nil, err
	}

	genres := make(map[string]int, len(response.Genres))
	for _, g := range response.Genres {
		genres[g.Name] = g.ID
	}

	c.logger.Debug().Int("count", len(genres)).Msg("Retrieved genre catalog from TMDB")
	return genres, nil
}

// DiscoverMovies runs a discovery query restricted to the release-year range
// and minimum vote count, returning the first page truncated to the discover limit
func (c *Client) DiscoverMovies(ctx context.Context, query DiscoverQuery) ([]MovieSummary, error) {
	if query.StartYear <= 0 || query.EndYear <= 0 {
		return nil, fmt.Errorf("%w: year range %d-%d", ErrInvalidArgument, query.StartYear, query.EndYear)
	}
	if query.StartYear > query.EndYear {
		return nil, fmt.Errorf("%w: start year %d is after end year %d", ErrInvalidArgument, query.StartYear, query.EndYear)
	}
	if query.GenreID < 0 {
		return nil, fmt.Errorf("%w: genre id %d", ErrInvalidArgument, query.GenreID)
	}

	sortBy := query.SortBy
	if sortBy == "" {
		sortBy = SortByRating
	}

	params := c.localized()
	if query.GenreID > 0 {
		params.Set("with_genres", strconv.Itoa(query.GenreID))
	}
	params.Set("sort_by", string(sortBy))
	params.Set("vote_count.gte", strconv.Itoa(c.minVoteCount))
	params.Set("primary_release_date.gte", fmt.Sprintf("%04d-01-01", query.StartYear))
	params.Set("primary_release_date.lte", fmt.Sprintf("%04d-12-31", query.EndYear))
	params.Set("page", "1")

	var response movieListResponse
	if err := c.doRequest(ctx, "/discover/movie", params, &response); err != nil {
		return nil, err
	}

	movies := truncate(response.Results, c.discoverLimit)

	c.logger.Debug().
		Int("genre_id", query.GenreID).
		Int("start_year", query.StartYear).
		Int("end_year", query.EndYear).
		Str("sort_by", string(sortBy)).
		Int("total_results", response.TotalResults).
		Int("returned", len(movies)).
		Msg("Discovered movies")

	return movies, nil
}

// GetSimilarMovies retrieves movies similar to movieID, truncated to the similar limit
func (c *Client) GetSimilarMovies(ctx context.Context, movieID int) ([]MovieSummary, error) {
	if movieID <= 0 {
		return nil, fmt.Errorf("%w: movie id %d", ErrInvalidArgument, movieID)
	}

	var response movieListResponse
	endpoint := fmt.Sprintf("/movie/%d/similar", movieID)
	if err := c.doRequest(ctx, endpoint, c.localized(), &response); err != nil {
		return nil, err
	}

	return truncate(response.Results, c.similarLimit), nil
}

// GetMovieDetails retrieves a movie with credits and videos embedded and
// derives director, top cast, runtime and trailer URL from it
func (c *Client) GetMovieDetails(ctx context.Context, movieID int) (*MovieDetail, error) {
	if movieID <= 0 {
		return nil, fmt.Errorf("%w: movie id %d", ErrInvalidArgument, movieID)
	}

	params := c.localized()
	params.Set("append_to_response", "credits,videos")

	var response movieDetailsResponse
	endpoint := fmt.Sprintf("/movie/%d", movieID)
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	return convertToMovieDetail(response), nil
}

// GetWatchProviders retrieves the flat-rate provider names for the configured region
func (c *Client) GetWatchProviders(ctx context.Context, movieID int) ([]string, error) {
	if movieID <= 0 {
		return nil, fmt.Errorf("%w: movie id %d", ErrInvalidArgument, movieID)
	}

	var response watchProvidersResponse
	endpoint := fmt.Sprintf("/movie/%d/watch/providers", movieID)
	if err := c.doRequest(ctx, endpoint, nil, &response); err != nil {
		return nil, err
	}

	providers := []string{}
	region, ok := response.Results[c.region]
	if !ok {
		return providers, nil
	}
	for _, p := range region.Flatrate {
		providers = append(providers, p.ProviderName)
	}

	return providers, nil
}

// PosterURL builds the CDN URL for a poster path, or "" when there is none
func (c *Client) PosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	if !strings.HasPrefix(posterPath, "/") {
		posterPath = "/" + posterPath
	}
	return c.imageBaseURL + "/" + c.posterSize + posterPath
}

func convertToMovieDetail(response movieDetailsResponse) *MovieDetail {
	detail := &MovieDetail{
		ID:       response.ID,
		Title:    response.Title,
		Director: Unknown,
		Cast:     []string{},
		Runtime:  response.Runtime,
	}

	for _, crew := range response.Credits.Crew {
		if crew.Job == "Director" {
			detail.Director = crew.Name
			break
		}
	}

	for _, cast := range response.Credits.Cast {
		if len(detail.Cast) == 3 {
			break
		}
		detail.Cast = append(detail.Cast, cast.Name)
	}

	for _, v := range response.Videos.Results {
		if v.Type == "Trailer" && v.Site == "YouTube" {
			detail.TrailerURL = youtubeWatchURL + url.QueryEscape(v.Key)
			break
		}
	}

	return detail
}

func truncate(movies []MovieSummary, limit int) []MovieSummary {
	if movies == nil {
		return []MovieSummary{}
	}
	if limit > 0 && len(movies) > limit {
		return movies[:limit]
	}
	return movies
}
