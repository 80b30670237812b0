// Package plex talks to the Plex discover API: catalog search, watchlist
// reads, and the batched watchlist write.
package plex

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var plexDiscoverBaseURL = "https://discover.provider.plex.tv"

// setBaseURL overrides the discover base URL for testing
func setBaseURL(u string) {
	plexDiscoverBaseURL = u
}

// ErrBadRequest marks a provider-side rejection of a watchlist mutation.
var ErrBadRequest = errors.New("plex: bad request")

// tmdbGUIDPattern extracts the numeric id from reference strings like
// "tmdb://603" or "tmdb://603?lang=en".
var tmdbGUIDPattern = regexp.MustCompile(`tmdb://(\d+)`)

// Client handles Plex discover API interactions for search and watchlist access
type Client struct {
	httpClient *http.Client
	token      string
	clientID   string
}

// NewClient creates a new Plex discover client authenticated by token
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		token:      token,
		clientID:   "trendarr-" + uuid.NewString(),
	}
}

// setPlexHeaders adds required Plex headers to a request
func (c *Client) setPlexHeaders(req *http.Request) {
	req.Header.Set("X-Plex-Client-Identifier", c.clientID)
	req.Header.Set("X-Plex-Product", "trendarr")
	req.Header.Set("X-Plex-Version", "1.0.0")
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/json")
}

// GUIDRef is one external-id reference attached to a catalog or watchlist
// item, e.g. {"id": "tmdb://603"}.
type GUIDRef struct {
	ID string `json:"id"`
}

// SearchResult represents one Plex discover catalog entry
type SearchResult struct {
	RatingKey string    `json:"ratingKey"`
	GUID      string    `json:"guid"`
	Type      string    `json:"type"` // "movie" or "show"
	Title     string    `json:"title"`
	Year      int       `json:"year"`
	GUIDRefs  []GUIDRef `json:"Guid"`
}

// GUIDValues returns every id-bearing reference string on the result: the
// main guid plus the per-provider Guid entries.
func (r SearchResult) GUIDValues() []string {
	out := make([]string, 0, len(r.GUIDRefs)+1)
	if r.GUID != "" {
		out = append(out, r.GUID)
	}
	for _, g := range r.GUIDRefs {
		out = append(out, g.ID)
	}
	return out
}

// WatchlistItem represents an item already on the user's watchlist
type WatchlistItem struct {
	RatingKey string    `json:"ratingKey"`
	GUID      string    `json:"guid"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Year      int       `json:"year"`
	AddedAt   int64     `json:"addedAt"`
	GUIDRefs  []GUIDRef `json:"Guid"`
}

// GUIDValues returns every id-bearing reference string on the watchlist item.
func (w WatchlistItem) GUIDValues() []string {
	out := make([]string, 0, len(w.GUIDRefs)+1)
	if w.GUID != "" {
		out = append(out, w.GUID)
	}
	for _, g := range w.GUIDRefs {
		out = append(out, g.ID)
	}
	return out
}

// ExtractTMDBID pulls the TMDB id out of a list of guid reference strings.
// Returns 0 when no reference carries one.
func ExtractTMDBID(guids []string) int {
	for _, g := range guids {
		if m := tmdbGUIDPattern.FindStringSubmatch(g); len(m) > 1 {
			if id, err := strconv.Atoi(m[1]); err == nil {
				return id
			}
		}
	}
	return 0
}

// searchResponse represents the discover search API response
type searchResponse struct {
	MediaContainer struct {
		Size          int `json:"size"`
		SearchResults []struct {
			Score    float64      `json:"score"`
			Metadata SearchResult `json:"Metadata"`
		} `json:"SearchResults"`
	} `json:"MediaContainer"`
}

// searchTypeFor maps a watchlist media type to the discover searchTypes value
func searchTypeFor(libtype string) string {
	if libtype == "show" {
		return "tv"
	}
	return "movies"
}

// Search runs a free-text discover search scoped to one media type, in
// provider relevance order.
func (c *Client) Search(query, libtype string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("searchTypes", searchTypeFor(libtype))
	params.Set("searchProviders", "discover")
	params.Set("limit", "30")

	searchURL := fmt.Sprintf("%s/library/search?%s", plexDiscoverBaseURL, params.Encode())

	req, err := http.NewRequest(http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setPlexHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("plex api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("plex search failed: %s - %s", resp.Status, string(body))
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]SearchResult, 0, len(searchResp.MediaContainer.SearchResults))
	for _, sr := range searchResp.MediaContainer.SearchResults {
		results = append(results, sr.Metadata)
	}
	return results, nil
}

// SearchGUID resolves a guid-form query like "tmdb://603" directly against
// the discover index.
func (c *Client) SearchGUID(guid, libtype string) ([]SearchResult, error) {
	return c.Search(guid, libtype)
}

// watchlistResponse represents the watchlist API response with pagination info
type watchlistResponse struct {
	MediaContainer struct {
		Size      int             `json:"size"`
		TotalSize int             `json:"totalSize"`
		Offset    int             `json:"offset"`
		Metadata  []WatchlistItem `json:"Metadata"`
	} `json:"MediaContainer"`
}

// GetWatchlist retrieves the user's watchlist of one media type (all pages)
func (c *Client) GetWatchlist(libtype string) ([]WatchlistItem, error) {
	var allItems []WatchlistItem
	offset := 0
	pageSize := 50

	for {
		items, totalSize, err := c.getWatchlistPage(libtype, offset, pageSize)
		if err != nil {
			return nil, err
		}

		allItems = append(allItems, items...)

		if len(allItems) >= totalSize || len(items) == 0 {
			break
		}
		offset += len(items)
	}

	return allItems, nil
}

// getWatchlistPage retrieves a single page of the watchlist
func (c *Client) getWatchlistPage(libtype string, offset, limit int) ([]WatchlistItem, int, error) {
	watchlistURL := fmt.Sprintf("%s/library/sections/watchlist/all?libtype=%s&includeGuids=1&X-Plex-Container-Start=%d&X-Plex-Container-Size=%d",
		plexDiscoverBaseURL, url.QueryEscape(libtype), offset, limit)

	req, err := http.NewRequest(http.MethodGet, watchlistURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	c.setPlexHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("plex api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, 0, fmt.Errorf("plex watchlist failed: %s - %s", resp.Status, string(body))
	}

	var watchlistResp watchlistResponse
	if err := json.NewDecoder(resp.Body).Decode(&watchlistResp); err != nil {
		return nil, 0, fmt.Errorf("decode response: %w", err)
	}

	return watchlistResp.MediaContainer.Metadata, watchlistResp.MediaContainer.TotalSize, nil
}

// AddToWatchlist queues every item in one batched request. A provider-side
// rejection surfaces as ErrBadRequest.
func (c *Client) AddToWatchlist(items []SearchResult) error {
	if len(items) == 0 {
		return nil
	}

	keys := make([]string, 0, len(items))
	for _, item := range items {
		keys = append(keys, item.RatingKey)
	}

	addURL := fmt.Sprintf("%s/actions/addToWatchlist?ratingKey=%s",
		plexDiscoverBaseURL, url.QueryEscape(strings.Join(keys, ",")))

	req, err := http.NewRequest(http.MethodPut, addURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setPlexHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("plex api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %s", ErrBadRequest, string(body))
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("plex watchlist add failed: %s - %s", resp.Status, string(body))
	}

	return nil
}

// ClientID returns the client identifier
func (c *Client) ClientID() string {
	return c.clientID
}
