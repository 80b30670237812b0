package sync

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendarr/models"
	"trendarr/services/plex"
)

// fakeWatchlist serves canned watchlist entries keyed by libtype.
type fakeWatchlist struct {
	items map[string][]plex.WatchlistItem
	err   error
}

func (f *fakeWatchlist) GetWatchlist(libtype string) ([]plex.WatchlistItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items[libtype], nil
}

func newTestProcessor(searcher *fakeSearcher, watchlist *fakeWatchlist) *Processor {
	logger := testLogger()
	return NewProcessor(testExcluder(), NewMatcher(searcher, logger), watchlist, logger)
}

func TestProcessBatchEndToEnd(t *testing.T) {
	searcher := &fakeSearcher{
		guidResults: map[string][]plex.SearchResult{
			"tmdb://42": {{RatingKey: "dune", Title: "Dune: Part Two", Year: 2024, GUIDRefs: []plex.GUIDRef{{ID: "tmdb://42"}}}},
		},
	}
	p := newTestProcessor(searcher, &fakeWatchlist{})

	items := []models.TrendingItem{
		{ID: 42, Title: "Dune: Part Two", ReleaseDate: "2024-03-01", OriginalLanguage: "en"},
	}
	got := p.ProcessBatch(items, models.MediaTypeMovie)
	require.Len(t, got, 1)
	assert.Equal(t, "dune", got[0].RatingKey)
}

func TestProcessBatchSkipsExcluded(t *testing.T) {
	searcher := &fakeSearcher{}
	p := newTestProcessor(searcher, &fakeWatchlist{})

	items := []models.TrendingItem{
		{ID: 1, Name: "Excluded Drama", FirstAirDate: "2024-01-01", OriginalLanguage: "ko"},
		{ID: 2, Name: "Also Excluded", FirstAirDate: "2024-01-01", OriginalLanguage: "en", OriginCountry: []string{"US", "KR"}},
	}
	got := p.ProcessBatch(items, models.MediaTypeShow)
	assert.Empty(t, got)
	assert.Empty(t, searcher.guidCalls, "excluded items must not be searched")
	assert.Empty(t, searcher.searchCalls)
}

func TestProcessBatchSkipsMissingTitles(t *testing.T) {
	searcher := &fakeSearcher{}
	p := newTestProcessor(searcher, &fakeWatchlist{})

	got := p.ProcessBatch([]models.TrendingItem{{ID: 9, ReleaseDate: "2024-01-01"}}, models.MediaTypeMovie)
	assert.Empty(t, got)
	assert.Empty(t, searcher.searchCalls)
}

func TestProcessBatchDedupByID(t *testing.T) {
	searcher := &fakeSearcher{}
	watchlist := &fakeWatchlist{items: map[string][]plex.WatchlistItem{
		"movie": {{Title: "Completely Different Spelling", Year: 1998, GUIDRefs: []plex.GUIDRef{{ID: "tmdb://603"}}}},
	}}
	p := newTestProcessor(searcher, watchlist)

	items := []models.TrendingItem{
		{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-31", OriginalLanguage: "en"},
	}
	got := p.ProcessBatch(items, models.MediaTypeMovie)
	assert.Empty(t, got, "an id hit skips the item even when the titles differ")
	assert.Empty(t, searcher.guidCalls, "deduped items must not be searched")
	assert.Empty(t, searcher.searchCalls)
}

func TestProcessBatchDedupByTitleYear(t *testing.T) {
	searcher := &fakeSearcher{}
	watchlist := &fakeWatchlist{items: map[string][]plex.WatchlistItem{
		"movie": {{Title: "The Matrix", Year: 1999}},
	}}
	p := newTestProcessor(searcher, watchlist)

	// No usable tmdb id: dedup must work through the title+year path.
	items := []models.TrendingItem{
		{Title: "The  MATRIX!", ReleaseDate: "1999-03-31", OriginalLanguage: "en"},
	}
	got := p.ProcessBatch(items, models.MediaTypeMovie)
	assert.Empty(t, got)
	assert.Empty(t, searcher.searchCalls, "no search may be issued for an already-present item")
}

func TestProcessBatchOrderPreserved(t *testing.T) {
	searcher := &fakeSearcher{
		guidResults: map[string][]plex.SearchResult{
			"tmdb://1": {{RatingKey: "match-a", Title: "Alpha", Year: 2024}},
			"tmdb://2": {{RatingKey: "match-b", Title: "Beta", Year: 2024}},
		},
	}
	p := newTestProcessor(searcher, &fakeWatchlist{})

	items := []models.TrendingItem{
		{ID: 1, Title: "Alpha", ReleaseDate: "2024-01-01", OriginalLanguage: "en"},
		{ID: 2, Title: "Beta", ReleaseDate: "2024-02-01", OriginalLanguage: "en"},
	}
	got := p.ProcessBatch(items, models.MediaTypeMovie)
	require.Len(t, got, 2)
	assert.Equal(t, "match-a", got[0].RatingKey)
	assert.Equal(t, "match-b", got[1].RatingKey)
}

func TestProcessBatchSuppressesDuplicateCandidates(t *testing.T) {
	// Two distinct trending items resolving to the same catalog entry.
	shared := plex.SearchResult{RatingKey: "same", Title: "One Film", Year: 2024}
	searcher := &fakeSearcher{
		guidResults: map[string][]plex.SearchResult{
			"tmdb://1": {shared},
			"tmdb://2": {shared},
		},
	}
	p := newTestProcessor(searcher, &fakeWatchlist{})

	items := []models.TrendingItem{
		{ID: 1, Title: "One Film", ReleaseDate: "2024-01-01", OriginalLanguage: "en"},
		{ID: 2, Title: "One Film Again", ReleaseDate: "2024-01-01", OriginalLanguage: "en"},
	}
	got := p.ProcessBatch(items, models.MediaTypeMovie)
	assert.Len(t, got, 1, "the same catalog entry may only be queued once per run")
}

func TestProcessBatchNoMatchSkips(t *testing.T) {
	p := newTestProcessor(&fakeSearcher{}, &fakeWatchlist{})

	items := []models.TrendingItem{
		{ID: 5, Title: "Vanished", ReleaseDate: "2024-01-01", OriginalLanguage: "en"},
	}
	assert.Empty(t, p.ProcessBatch(items, models.MediaTypeMovie))
}

func TestProcessBatchWatchlistReadFailureDegrades(t *testing.T) {
	searcher := &fakeSearcher{
		guidResults: map[string][]plex.SearchResult{
			"tmdb://42": {{RatingKey: "dune", Title: "Dune: Part Two", Year: 2024}},
		},
	}
	watchlist := &fakeWatchlist{err: errors.New("auth expired")}
	p := newTestProcessor(searcher, watchlist)

	items := []models.TrendingItem{
		{ID: 42, Title: "Dune: Part Two", ReleaseDate: "2024-03-01", OriginalLanguage: "en"},
	}
	got := p.ProcessBatch(items, models.MediaTypeMovie)
	require.Len(t, got, 1, "a watchlist read failure must degrade to an empty index, not abort")
	assert.Equal(t, "dune", got[0].RatingKey)
}
