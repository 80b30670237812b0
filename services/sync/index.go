package sync

import (
	"trendarr/services/plex"
	"trendarr/utils/match"
)

// titleYear keys the index by normalized title and release year.
type titleYear struct {
	title string
	year  int
}

// Index answers "already on the watchlist" membership probes for one media
// type's batch. A hit is always genuine; a miss may be wrong (an entry with no
// usable id, title, or year is simply not indexed), which only costs a
// redundant add that the provider treats idempotently.
type Index struct {
	ids        map[int]struct{}
	titleYears map[titleYear]struct{}
}

// NewIndex builds the membership index from the current watchlist entries.
func NewIndex(entries []plex.WatchlistItem) *Index {
	idx := &Index{
		ids:        make(map[int]struct{}),
		titleYears: make(map[titleYear]struct{}),
	}
	for _, entry := range entries {
		if id := plex.ExtractTMDBID(entry.GUIDValues()); id != 0 {
			idx.ids[id] = struct{}{}
		}
		if entry.Title != "" && entry.Year != 0 {
			idx.titleYears[titleYear{match.Normalize(entry.Title), entry.Year}] = struct{}{}
		}
	}
	return idx
}

// HasID reports whether the watchlist carries an entry with this TMDB id.
func (i *Index) HasID(tmdbID int) bool {
	if tmdbID == 0 {
		return false
	}
	_, ok := i.ids[tmdbID]
	return ok
}

// HasTitleYear reports whether the watchlist carries an entry whose normalized
// title and year match.
func (i *Index) HasTitleYear(title string, year int) bool {
	_, ok := i.titleYears[titleYear{match.Normalize(title), year}]
	return ok
}
