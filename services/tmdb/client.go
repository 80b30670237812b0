// Package tmdb fetches the weekly trending feeds from The Movie Database.
package tmdb

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"trendarr/models"
)

var tmdbAPIBaseURL = "https://api.themoviedb.org/3"

// setBaseURL overrides the API base URL for testing
func setBaseURL(u string) {
	tmdbAPIBaseURL = u
}

// Client handles TMDB API interactions for trending feed fetching
type Client struct {
	httpClient *http.Client
	apiKey     string
}

// NewClient creates a new TMDB API client
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     apiKey,
	}
}

// trendingResponse represents the TMDB trending endpoint response
type trendingResponse struct {
	Page    int                   `json:"page"`
	Results []models.TrendingItem `json:"results"`
}

// Trending fetches this week's trending feed for a media type, in provider
// trending-rank order. A failed fetch yields no partial list.
func (c *Client) Trending(mediaType models.MediaType) ([]models.TrendingItem, error) {
	feedType := "movie"
	if mediaType == models.MediaTypeShow {
		feedType = "tv"
	}

	trendingURL := fmt.Sprintf("%s/trending/%s/week?api_key=%s",
		tmdbAPIBaseURL, feedType, url.QueryEscape(c.apiKey))

	req, err := http.NewRequest(http.MethodGet, trendingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmdb api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tmdb trending failed: %s - %s", resp.Status, string(body))
	}

	var trending trendingResponse
	if err := json.NewDecoder(resp.Body).Decode(&trending); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return trending.Results, nil
}

// FilterRecent keeps items whose date parses as YYYY-MM-DD and falls within
// the last lookbackDays before now, truncated to the first limit survivors.
// Feed order is preserved; items with missing or malformed dates are dropped.
func FilterRecent(items []models.TrendingItem, mediaType models.MediaType, lookbackDays, limit int, now time.Time) []models.TrendingItem {
	cutoff := now.AddDate(0, 0, -lookbackDays)

	var kept []models.TrendingItem
	for _, item := range items {
		date, err := time.Parse("2006-01-02", item.Date(mediaType))
		if err != nil {
			continue
		}
		if date.Before(cutoff) {
			continue
		}
		kept = append(kept, item)
		if len(kept) == limit {
			break
		}
	}
	return kept
}
