package tmdb

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API base URL
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithImageBaseURL overrides the image CDN base URL
func WithImageBaseURL(imageBaseURL string) Option {
	return func(c *Client) {
		c.imageBaseURL = strings.TrimRight(imageBaseURL, "/")
	}
}

// WithPosterSize sets the width bucket used for poster URLs, e.g. "w200"
func WithPosterSize(size string) Option {
	return func(c *Client) {
		if size != "" {
			c.posterSize = size
		}
	}
}

// WithLanguage sets the response language sent with every request
func WithLanguage(language string) Option {
	return func(c *Client) {
		c.language = language
	}
}

// WithRegion sets the region used for watch provider lookups
func WithRegion(region string) Option {
	return func(c *Client) {
		c.region = strings.ToUpper(region)
	}
}

// WithMinVoteCount raises the vote_count.gte filter applied to discovery.
// Values below DefaultMinVoteCount are ignored.
func WithMinVoteCount(n int) Option {
	return func(c *Client) {
		if n >= DefaultMinVoteCount {
			c.minVoteCount = n
		}
	}
}

// WithDiscoverLimit caps the number of discovery results
func WithDiscoverLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.discoverLimit = n
		}
	}
}

// WithSimilarLimit caps the number of similar-movie results
func WithSimilarLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.similarLimit = n
		}
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithRateLimit limits outgoing requests to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}
