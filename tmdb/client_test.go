package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithBaseURL(server.URL)}, opts...)
	client, err := NewClient("test-key", zerolog.Nop(), opts...)
	require.NoError(t, err)

	return client, server
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func summaries(n int) []map[string]any {
	results := make([]map[string]any, n)
	for i := range results {
		results[i] = map[string]any{
			"id":           i + 1,
			"title":        fmt.Sprintf("Movie %d", i+1),
			"vote_average": 7.5,
			"vote_count":   120,
			"release_date": "2021-05-01",
		}
	}
	return results
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		opts    []Option
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			apiKey: "test-key",
		},
		{
			name:    "missing API key",
			apiKey:  "  ",
			wantErr: true,
			errMsg:  "API key is required",
		},
		{
			name:    "empty base URL",
			apiKey:  "test-key",
			opts:    []Option{WithBaseURL("")},
			wantErr: true,
			errMsg:  "base URL is required",
		},
		{
			name:    "empty region",
			apiKey:  "test-key",
			opts:    []Option{WithRegion("")},
			wantErr: true,
			errMsg:  "region is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.apiKey, zerolog.Nop(), tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, DefaultBaseURL, client.baseURL)
			assert.Equal(t, DefaultLanguage, client.Language())
			assert.Equal(t, DefaultRegion, client.Region())
			assert.Equal(t, DefaultMinVoteCount, client.minVoteCount)
		})
	}
}

func TestClientOptions(t *testing.T) {
	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("k", zerolog.Nop(), WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("k", zerolog.Nop(), WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Same(t, custom, client.httpClient)
	})

	t.Run("with locale", func(t *testing.T) {
		client, err := NewClient("k", zerolog.Nop(), WithLanguage("en-US"), WithRegion("us"))
		require.NoError(t, err)
		assert.Equal(t, "en-US", client.Language())
		assert.Equal(t, "US", client.Region())
	})

	t.Run("with rate limit", func(t *testing.T) {
		client, err := NewClient("k", zerolog.Nop(), WithRateLimit(20, 5))
		require.NoError(t, err)
		require.NotNil(t, client.limiter)
		assert.Equal(t, 5, client.limiter.Burst())

		client, err = NewClient("k", zerolog.Nop(), WithRateLimit(0, 5))
		require.NoError(t, err)
		assert.Nil(t, client.limiter)
	})

	t.Run("ignores invalid limits", func(t *testing.T) {
		client, err := NewClient("k", zerolog.Nop(), WithDiscoverLimit(0), WithSimilarLimit(-1), WithMinVoteCount(-5))
		require.NoError(t, err)
		assert.Equal(t, DefaultDiscoverLimit, client.discoverLimit)
		assert.Equal(t, DefaultSimilarLimit, client.similarLimit)
		assert.Equal(t, DefaultMinVoteCount, client.minVoteCount)
	})

	t.Run("vote count floor", func(t *testing.T) {
		client, err := NewClient("k", zerolog.Nop(), WithMinVoteCount(10))
		require.NoError(t, err)
		assert.Equal(t, DefaultMinVoteCount, client.minVoteCount)

		client, err = NewClient("k", zerolog.Nop(), WithMinVoteCount(200))
		require.NoError(t, err)
		assert.Equal(t, 200, client.minVoteCount)
	})
}

func TestGetGenres(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/genre/movie/list", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "ko", r.URL.Query().Get("language"))

		writeJSON(t, w, map[string]any{
			"genres": []map[string]any{
				{"id": 28, "name": "액션"},
				{"id": 35, "name": "코미디"},
			},
		})
	})

	genres, err := client.GetGenres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"액션": 28, "코미디": 35}, genres)
}

func TestDiscoverMovies(t *testing.T) {
	t.Run("sends filters and truncates to ten", func(t *testing.T) {
		var query url.Values
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/discover/movie", r.URL.Path)
			query = r.URL.Query()
			writeJSON(t, w, map[string]any{
				"page":          1,
				"results":       summaries(20),
				"total_pages":   3,
				"total_results": 60,
			})
		})

		movies, err := client.DiscoverMovies(context.Background(), DiscoverQuery{
			GenreID:   28,
			StartYear: 2020,
			EndYear:   2025,
			SortBy:    SortByPopularity,
		})
		require.NoError(t, err)
		assert.Len(t, movies, 10)
		assert.Equal(t, 1, movies[0].ID)
		assert.Equal(t, 2021, movies[0].Year())

		assert.Equal(t, "28", query.Get("with_genres"))
		assert.Equal(t, "ko", query.Get("language"))
		assert.Equal(t, "popularity.desc", query.Get("sort_by"))
		assert.Equal(t, "50", query.Get("vote_count.gte"))
		assert.Equal(t, "2020-01-01", query.Get("primary_release_date.gte"))
		assert.Equal(t, "2025-12-31", query.Get("primary_release_date.lte"))
		assert.Equal(t, "1", query.Get("page"))
	})

	t.Run("defaults to rating sort", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "vote_average.desc", r.URL.Query().Get("sort_by"))
			assert.Empty(t, r.URL.Query().Get("with_genres"))
			writeJSON(t, w, map[string]any{"results": summaries(3)})
		})

		movies, err := client.DiscoverMovies(context.Background(), DiscoverQuery{StartYear: 2020, EndYear: 2020})
		require.NoError(t, err)
		assert.Len(t, movies, 3)
	})

	t.Run("missing results is empty", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, map[string]any{"page": 1})
		})

		movies, err := client.DiscoverMovies(context.Background(), DiscoverQuery{GenreID: 1, StartYear: 2020, EndYear: 2021})
		require.NoError(t, err)
		assert.NotNil(t, movies)
		assert.Empty(t, movies)
	})

	t.Run("rejects inverted year range", func(t *testing.T) {
		client, err := NewClient("k", zerolog.Nop(), WithBaseURL("http://127.0.0.1:1"))
		require.NoError(t, err)

		_, err = client.DiscoverMovies(context.Background(), DiscoverQuery{GenreID: 1, StartYear: 2025, EndYear: 2020})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestGetSimilarMovies(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/550/similar", r.URL.Path)
		assert.Equal(t, "ko", r.URL.Query().Get("language"))
		writeJSON(t, w, map[string]any{"results": summaries(8)})
	})

	movies, err := client.GetSimilarMovies(context.Background(), 550)
	require.NoError(t, err)
	assert.Len(t, movies, 5)

	_, err = client.GetSimilarMovies(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGetMovieDetails(t *testing.T) {
	tests := []struct {
		name            string
		body            map[string]any
		wantDirector    string
		wantCast        string
		wantRuntime     string
		wantTrailerURL  string
		wantCastEntries int
	}{
		{
			name: "full details",
			body: map[string]any{
				"id":      1,
				"title":   "기생충",
				"runtime": 132,
				"credits": map[string]any{
					"cast": []map[string]any{
						{"name": "송강호"}, {"name": "이선균"}, {"name": "조여정"}, {"name": "최우식"},
					},
					"crew": []map[string]any{
						{"name": "홍경표", "job": "Director of Photography"},
						{"name": "봉준호", "job": "Director"},
						{"name": "Someone Else", "job": "Director"},
					},
				},
				"videos": map[string]any{
					"results": []map[string]any{
						{"key": "teaser1", "site": "YouTube", "type": "Teaser"},
						{"key": "vimeo1", "site": "Vimeo", "type": "Trailer"},
						{"key": "abc123", "site": "YouTube", "type": "Trailer"},
						{"key": "later", "site": "YouTube", "type": "Trailer"},
					},
				},
			},
			wantDirector:    "봉준호",
			wantCast:        "송강호, 이선균, 조여정",
			wantRuntime:     "132",
			wantTrailerURL:  "https://www.youtube.com/watch?v=abc123",
			wantCastEntries: 3,
		},
		{
			name: "no director, cast, runtime or matching trailer",
			body: map[string]any{
				"id":      2,
				"runtime": nil,
				"credits": map[string]any{
					"cast": []map[string]any{},
					"crew": []map[string]any{{"name": "A Writer", "job": "Screenplay"}},
				},
				"videos": map[string]any{
					"results": []map[string]any{
						{"key": "clip", "site": "YouTube", "type": "Clip"},
						{"key": "vimeo", "site": "Vimeo", "type": "Trailer"},
					},
				},
			},
			wantDirector: Unknown,
			wantCast:     Unknown,
			wantRuntime:  Unknown,
		},
		{
			name:         "credits and videos absent",
			body:         map[string]any{"id": 3},
			wantDirector: Unknown,
			wantCast:     Unknown,
			wantRuntime:  Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "credits,videos", r.URL.Query().Get("append_to_response"))
				assert.Equal(t, "ko", r.URL.Query().Get("language"))
				writeJSON(t, w, tt.body)
			})

			detail, err := client.GetMovieDetails(context.Background(), 42)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDirector, detail.Director)
			assert.Equal(t, tt.wantCast, detail.CastLabel())
			assert.Len(t, detail.Cast, tt.wantCastEntries)
			assert.Equal(t, tt.wantRuntime, detail.RuntimeLabel())
			assert.Equal(t, tt.wantTrailerURL, detail.TrailerURL)
			assert.Equal(t, tt.wantTrailerURL != "", detail.HasTrailer())
		})
	}
}

func TestGetWatchProviders(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
		want []string
	}{
		{
			name: "flat-rate providers in region",
			body: map[string]any{
				"id": 1,
				"results": map[string]any{
					"KR": map[string]any{
						"flatrate": []map[string]any{
							{"provider_name": "Netflix"},
							{"provider_name": "Watcha"},
						},
						"rent": []map[string]any{{"provider_name": "Google Play Movies"}},
					},
					"US": map[string]any{
						"flatrate": []map[string]any{{"provider_name": "Hulu"}},
					},
				},
			},
			want: []string{"Netflix", "Watcha"},
		},
		{
			name: "region missing",
			body: map[string]any{
				"id": 1,
				"results": map[string]any{
					"US": map[string]any{"flatrate": []map[string]any{{"provider_name": "Hulu"}}},
				},
			},
			want: []string{},
		},
		{
			name: "region without flat-rate list",
			body: map[string]any{
				"results": map[string]any{
					"KR": map[string]any{"buy": []map[string]any{{"provider_name": "Apple TV"}}},
				},
			},
			want: []string{},
		},
		{
			name: "no results at all",
			body: map[string]any{"id": 1},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/movie/7/watch/providers", r.URL.Path)
				writeJSON(t, w, tt.body)
			})

			providers, err := client.GetWatchProviders(context.Background(), 7)
			require.NoError(t, err)
			require.NotNil(t, providers)
			assert.Equal(t, tt.want, providers)
		})
	}
}

func TestErrorClassification(t *testing.T) {
	t.Run("http status", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			writeJSON(t, w, map[string]any{
				"status_code":    7,
				"status_message": "Invalid API key: You must be granted a valid key.",
				"success":        false,
			})
		})

		_, err := client.GetGenres(context.Background())
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Equal(t, 7, apiErr.Code)
		assert.True(t, apiErr.IsUnauthorized())
		assert.False(t, apiErr.IsNotFound())
		assert.Contains(t, err.Error(), "Invalid API key")
	})

	t.Run("decode failure", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"genres": "not-a-list"}`))
		})

		_, err := client.GetGenres(context.Background())
		var decodeErr *DecodeError
		require.True(t, errors.As(err, &decodeErr))
		assert.Equal(t, "/genre/movie/list", decodeErr.Endpoint)
	})

	t.Run("transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		baseURL := server.URL
		server.Close()

		client, err := NewClient("k", zerolog.Nop(), WithBaseURL(baseURL))
		require.NoError(t, err)

		_, err = client.GetWatchProviders(context.Background(), 1)
		var transportErr *TransportError
		require.True(t, errors.As(err, &transportErr))
	})

	t.Run("transport failure keeps the api key out of the error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		baseURL := server.URL
		server.Close()

		const apiKey = "SECRETKEY123"
		client, err := NewClient(apiKey, zerolog.Nop(), WithBaseURL(baseURL))
		require.NoError(t, err)

		_, err = client.GetWatchProviders(context.Background(), 7)
		require.Error(t, err)
		assert.NotContains(t, err.Error(), apiKey)
		assert.NotContains(t, err.Error(), "api_key")
		assert.Contains(t, err.Error(), "/movie/7/watch/providers")
	})

	t.Run("cancelled context", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, map[string]any{})
		}, WithRateLimit(1, 1))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.GetMovieDetails(ctx, 1)
		var transportErr *TransportError
		require.True(t, errors.As(err, &transportErr))
	})
}

func TestBearerToken(t *testing.T) {
	token := "eyJhbGciOiJIUzI1NiJ9.eyJhdWQiOiJ4In0.c2ln"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		assert.Empty(t, r.URL.Query().Get("api_key"))
		writeJSON(t, w, map[string]any{"images": map[string]any{}})
	}))
	defer server.Close()

	client, err := NewClient(token, zerolog.Nop(), WithBaseURL(server.URL))
	require.NoError(t, err)
	require.NoError(t, client.TestConnection(context.Background()))
}

func TestPosterURL(t *testing.T) {
	client, err := NewClient("k", zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "https://image.tmdb.org/t/p/w200/abc.jpg", client.PosterURL("/abc.jpg"))
	assert.Equal(t, "https://image.tmdb.org/t/p/w200/abc.jpg", client.PosterURL("abc.jpg"))
	assert.Empty(t, client.PosterURL(""))

	client, err = NewClient("k", zerolog.Nop(), WithPosterSize("w500"), WithImageBaseURL("https://cdn.example.com/t/p/"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/t/p/w500/abc.jpg", client.PosterURL("/abc.jpg"))
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in     string
		want   SortKey
		wantOK bool
	}{
		{"", SortByRating, true},
		{"rating", SortByRating, true},
		{"Popularity", SortByPopularity, true},
		{"vote_average.desc", SortByRating, true},
		{"popularity.desc", SortByPopularity, true},
		{"release", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSortKey(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAPIError(t *testing.T) {
	err := &APIError{StatusCode: 404, Message: "The resource you requested could not be found."}
	assert.Equal(t, "tmdb API error: status 404: The resource you requested could not be found.", err.Error())
	assert.True(t, err.IsNotFound())

	err = &APIError{StatusCode: 429}
	assert.Equal(t, "tmdb API error: status 429: Too Many Requests", err.Error())
	assert.True(t, err.IsRateLimited())
}
