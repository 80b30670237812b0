// Package config loads the run configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultExcludedLanguages = "ko,zh"
	defaultExcludedCountries = "KR,CN,TW,HK"
	defaultLookbackDays      = 365
	defaultFeedLimit         = 10
)

// Config holds one run's settings, read once at startup and treated as
// read-only afterwards.
type Config struct {
	TMDBAPIKey  string
	PlexToken   string
	LogFilePath string

	// ExcludedLanguages holds lowercase ISO 639-1 codes; a trending item whose
	// original language is in the set is dropped before matching.
	ExcludedLanguages map[string]struct{}
	// ExcludedCountries holds uppercase ISO 3166-1 codes checked against an
	// item's origin countries.
	ExcludedCountries map[string]struct{}

	// LookbackDays is the recency window applied to each trending feed.
	LookbackDays int
	// FeedLimit caps how many windowed items per feed are processed.
	FeedLimit int
}

// Load builds the configuration from environment variables. A .env file in the
// working directory is applied first when present. TMDB_API_KEY and PLEX_TOKEN
// are required; everything else has a default. Setting EXCLUDED_LANGS or
// EXCLUDED_COUNTRIES to an empty string disables that exclusion entirely.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		TMDBAPIKey:        os.Getenv("TMDB_API_KEY"),
		PlexToken:         os.Getenv("PLEX_TOKEN"),
		LogFilePath:       os.Getenv("LOG_FILE_PATH"),
		ExcludedLanguages: parseSet(envOrDefault("EXCLUDED_LANGS", defaultExcludedLanguages), strings.ToLower),
		ExcludedCountries: parseSet(envOrDefault("EXCLUDED_COUNTRIES", defaultExcludedCountries), strings.ToUpper),
		LookbackDays:      defaultLookbackDays,
		FeedLimit:         defaultFeedLimit,
	}

	if cfg.TMDBAPIKey == "" {
		return nil, errors.New("TMDB_API_KEY is not set")
	}
	if cfg.PlexToken == "" {
		return nil, errors.New("PLEX_TOKEN is not set")
	}

	if v := os.Getenv("LOOKBACK_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid LOOKBACK_DAYS %q", v)
		}
		cfg.LookbackDays = n
	}
	if v := os.Getenv("FEED_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid FEED_LIMIT %q", v)
		}
		cfg.FeedLimit = n
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

// parseSet splits a comma-separated list into a set, canonicalizing each
// element and dropping empties.
func parseSet(raw string, canon func(string) string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		part = canon(strings.TrimSpace(part))
		if part != "" {
			set[part] = struct{}{}
		}
	}
	return set
}
