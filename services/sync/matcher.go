package sync

import (
	"fmt"
	"log"

	"trendarr/models"
	"trendarr/services/plex"
	"trendarr/utils/match"
)

// Searcher is the discover-search surface the matcher needs.
type Searcher interface {
	Search(query, libtype string) ([]plex.SearchResult, error)
	SearchGUID(guid, libtype string) ([]plex.SearchResult, error)
}

// matchThreshold is the similarity score at which a candidate is accepted
// without sweeping the remaining queries.
const matchThreshold = 0.92

// Matcher resolves a trending item's signature to at most one discover
// catalog entry.
type Matcher struct {
	searcher Searcher
	log      *log.Logger
}

// NewMatcher creates a matcher over a discover search surface.
func NewMatcher(searcher Searcher, logger *log.Logger) *Matcher {
	return &Matcher{searcher: searcher, log: logger}
}

// FindMatch selects the discover entry that best corresponds to the
// signature, or nil when nothing plausible turns up.
//
// Preference order:
//  1. direct guid lookup of the TMDB id, first result wins unconditionally
//  2. any text-search result whose guids carry the exact TMDB id, even on a
//     later query and regardless of similarity
//  3. the highest-similarity candidate against the primary title, preferring
//     results within ±1 year; a score at or above matchThreshold stops the
//     sweep early, otherwise the best seen across all queries is returned
//
// A failed search counts as an empty result set and never aborts the sweep.
func (m *Matcher) FindMatch(mediaType models.MediaType, sig Signature) *plex.SearchResult {
	libtype := string(mediaType)

	if sig.TMDBID != 0 {
		guid := fmt.Sprintf("tmdb://%d", sig.TMDBID)
		results, err := m.searcher.SearchGUID(guid, libtype)
		if err != nil {
			m.log.Printf("[matcher] no match via guid %s: %v", guid, err)
		} else if len(results) > 0 {
			m.log.Printf("[matcher] matched via tmdb guid: %s (%d)", results[0].Title, results[0].Year)
			return &results[0]
		}
	}

	var queries []string
	for _, title := range sig.Titles {
		if sig.Year != 0 {
			queries = append(queries, fmt.Sprintf("%s %d", title, sig.Year))
		}
		queries = append(queries, title)
	}

	var best *plex.SearchResult
	bestScore := 0.0

	for _, query := range queries {
		results, err := m.searcher.Search(query, libtype)
		if err != nil {
			m.log.Printf("[matcher] discover search failed for %q: %v", query, err)
			continue
		}

		if sig.TMDBID != 0 {
			for i := range results {
				if TMDBIDOf(results[i]) == sig.TMDBID {
					return &results[i]
				}
			}
		}

		ranked := results
		if sig.Year != 0 {
			var filtered []plex.SearchResult
			for _, r := range results {
				if r.Year != 0 && abs(r.Year-sig.Year) <= 1 {
					filtered = append(filtered, r)
				}
			}
			if len(filtered) > 0 {
				ranked = filtered
			}
		}

		// Ties keep the earliest candidate seen across the whole sweep.
		for i := range ranked {
			if score := match.Similarity(ranked[i].Title, sig.Titles[0]); score > bestScore {
				candidate := ranked[i]
				best = &candidate
				bestScore = score
			}
		}

		if best != nil && bestScore >= matchThreshold {
			return best
		}
	}

	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
