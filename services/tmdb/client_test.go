package tmdb

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trendarr/models"
)

func TestTrending(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trending/tv/week" {
			t.Errorf("expected path /trending/tv/week, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "test-key" {
			t.Errorf("expected api_key query param")
		}

		json.NewEncoder(w).Encode(map[string]any{
			"page": 1,
			"results": []models.TrendingItem{
				{ID: 1399, Name: "Game of Thrones", FirstAirDate: "2011-04-17", OriginalLanguage: "en"},
				{ID: 94997, Name: "House of the Dragon", FirstAirDate: "2022-08-21", OriginalLanguage: "en"},
			},
		})
	}))
	defer server.Close()

	origURL := tmdbAPIBaseURL
	defer func() { setBaseURL(origURL) }()
	setBaseURL(server.URL)

	client := NewClient("test-key")
	items, err := client.Trending(models.MediaTypeShow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != 1399 || items[0].Name != "Game of Thrones" {
		t.Errorf("unexpected first item: %+v", items[0])
	}
}

func TestTrendingMoviePath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trending/movie/week" {
			t.Errorf("expected path /trending/movie/week, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"results": []models.TrendingItem{}})
	}))
	defer server.Close()

	origURL := tmdbAPIBaseURL
	defer func() { setBaseURL(origURL) }()
	setBaseURL(server.URL)

	if _, err := NewClient("k").Trending(models.MediaTypeMovie); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTrendingServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer server.Close()

	origURL := tmdbAPIBaseURL
	defer func() { setBaseURL(origURL) }()
	setBaseURL(server.URL)

	if _, err := NewClient("bad").Trending(models.MediaTypeMovie); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestFilterRecent(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	items := []models.TrendingItem{
		{ID: 1, ReleaseDate: "2024-03-01"}, // recent
		{ID: 2, ReleaseDate: "2022-01-01"}, // too old
		{ID: 3, ReleaseDate: ""},           // missing date
		{ID: 4, ReleaseDate: "not-a-date"}, // malformed
		{ID: 5, ReleaseDate: "2023-12-25"}, // recent
	}

	got := FilterRecent(items, models.MediaTypeMovie, 365, 10, now)
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 5 {
		t.Errorf("expected feed order preserved, got ids %d, %d", got[0].ID, got[1].ID)
	}
}

func TestFilterRecentLimit(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	var items []models.TrendingItem
	for i := 0; i < 15; i++ {
		items = append(items, models.TrendingItem{ID: i + 1, FirstAirDate: "2024-05-01"})
	}

	got := FilterRecent(items, models.MediaTypeShow, 365, 10, now)
	if len(got) != 10 {
		t.Fatalf("expected truncation to 10 items, got %d", len(got))
	}
	if got[9].ID != 10 {
		t.Errorf("expected the first 10 survivors, last id = %d", got[9].ID)
	}
}

func TestFilterRecentUsesMediaTypeDate(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	// Recent first air date but stale release date: must survive as a show.
	items := []models.TrendingItem{{ID: 7, FirstAirDate: "2024-01-10", ReleaseDate: "2000-01-01"}}

	if got := FilterRecent(items, models.MediaTypeShow, 365, 10, now); len(got) != 1 {
		t.Fatalf("expected show kept by first air date, got %d items", len(got))
	}
	if got := FilterRecent(items, models.MediaTypeMovie, 365, 10, now); len(got) != 0 {
		t.Fatalf("expected movie dropped by release date, got %d items", len(got))
	}
}
