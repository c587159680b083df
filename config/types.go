package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	TMDB      TMDBConfig          `mapstructure:"tmdb"`
	Discover  DiscoverConfig      `mapstructure:"discover"`
	Moods     map[string][]string `mapstructure:"moods"`
	Recommend RecommendConfig     `mapstructure:"recommend"`
	Logging   LoggingConfig       `mapstructure:"logging"`
}

// TMDBConfig holds TMDB API connection details and locale settings
type TMDBConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	ImageBaseURL string        `mapstructure:"image_base_url"`
	PosterSize   string        `mapstructure:"poster_size"`
	Language     string        `mapstructure:"language"`
	Region       string        `mapstructure:"region"`
	Timeout      time.Duration `mapstructure:"timeout"`
	// RateLimit is requests per second; 0 disables client-side limiting
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

// DiscoverConfig contains discovery thresholds and default year ranges
type DiscoverConfig struct {
	MinVoteCount  int `mapstructure:"min_vote_count"`
	Limit         int `mapstructure:"limit"`
	SimilarLimit  int `mapstructure:"similar_limit"`
	StartYear     int `mapstructure:"start_year"`
	EndYear       int `mapstructure:"end_year"`
	MoodStartYear int `mapstructure:"mood_start_year"`
	MoodEndYear   int `mapstructure:"mood_end_year"`
	EarliestYear  int `mapstructure:"earliest_year"`
}

// RecommendConfig contains recommendation settings
type RecommendConfig struct {
	// Concurrency is the number of provider lookups in flight; 1 is sequential
	Concurrency int `mapstructure:"concurrency"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
