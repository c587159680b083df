package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. MOODREEL_TMDB_REGION
const EnvPrefix = "MOODREEL"

// minVoteCountFloor is the lowest vote count discovery may be configured with
const minVoteCountFloor = 50

// Load loads the configuration from file, .env and the environment. A missing
// config file is not an error as long as the API key is provided some other way.
func Load(configPath string) (*Config, error) {
	// .env never overrides variables already set in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("tmdb.api_key", EnvPrefix+"_TMDB_API_KEY", "TMDB_API_KEY"); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".moodreel"))
		}

		// Check /etc
		v.AddConfigPath("/etc/moodreel/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// An explicitly named file must exist
		if configPath != "" {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// TMDB defaults
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.image_base_url", "https://image.tmdb.org/t/p")
	v.SetDefault("tmdb.poster_size", "w200")
	v.SetDefault("tmdb.language", "ko")
	v.SetDefault("tmdb.region", "KR")
	v.SetDefault("tmdb.timeout", 10*time.Second)
	v.SetDefault("tmdb.rate_limit", 20.0)
	v.SetDefault("tmdb.rate_burst", 10)

	// Discover defaults
	v.SetDefault("discover.min_vote_count", 50)
	v.SetDefault("discover.limit", 10)
	v.SetDefault("discover.similar_limit", 5)
	v.SetDefault("discover.start_year", 2020)
	v.SetDefault("discover.end_year", 2025)
	v.SetDefault("discover.mood_start_year", 2015)
	v.SetDefault("discover.mood_end_year", 2025)
	v.SetDefault("discover.earliest_year", 1980)

	// Recommend defaults
	v.SetDefault("recommend.concurrency", 1)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.TMDB.APIKey == "" || cfg.TMDB.APIKey == "your-api-key-here" {
		return fmt.Errorf("tmdb.api_key must be set to a valid API key (or set TMDB_API_KEY)")
	}

	if cfg.TMDB.BaseURL == "" {
		return fmt.Errorf("tmdb.base_url is required")
	}

	if cfg.TMDB.Language == "" {
		return fmt.Errorf("tmdb.language is required")
	}

	if len(cfg.TMDB.Region) != 2 {
		return fmt.Errorf("invalid tmdb.region: %q (must be a two-letter country code)", cfg.TMDB.Region)
	}

	if cfg.TMDB.RateLimit < 0 {
		return fmt.Errorf("tmdb.rate_limit must not be negative")
	}

	if cfg.Discover.MinVoteCount < minVoteCountFloor {
		return fmt.Errorf("discover.min_vote_count must be at least %d", minVoteCountFloor)
	}

	if cfg.Discover.Limit <= 0 || cfg.Discover.SimilarLimit <= 0 {
		return fmt.Errorf("discover.limit and discover.similar_limit must be positive")
	}

	if err := validateYears("discover", cfg.Discover.StartYear, cfg.Discover.EndYear, cfg.Discover.EarliestYear); err != nil {
		return err
	}

	if err := validateYears("discover.mood", cfg.Discover.MoodStartYear, cfg.Discover.MoodEndYear, cfg.Discover.EarliestYear); err != nil {
		return err
	}

	for mood, genres := range cfg.Moods {
		if len(genres) == 0 {
			return fmt.Errorf("mood %q has no genres", mood)
		}
	}

	if cfg.Recommend.Concurrency < 1 {
		return fmt.Errorf("recommend.concurrency must be at least 1")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// validateYears checks a default year range against the earliest allowed year
func validateYears(prefix string, start, end, earliest int) error {
	if start < earliest {
		return fmt.Errorf("%s start year %d is before %d", prefix, start, earliest)
	}
	if end < start {
		return fmt.Errorf("%s end year %d is before start year %d", prefix, end, start)
	}
	return nil
}
