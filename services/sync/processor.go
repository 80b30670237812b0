package sync

import (
	"log"
	"strconv"

	"trendarr/models"
	"trendarr/services/plex"
)

// WatchlistReader is the watchlist read surface the processor needs.
type WatchlistReader interface {
	GetWatchlist(libtype string) ([]plex.WatchlistItem, error)
}

// Processor runs the exclude → dedup → match pipeline over one feed's items.
type Processor struct {
	excluder  *Excluder
	matcher   *Matcher
	watchlist WatchlistReader
	log       *log.Logger
}

// NewProcessor wires the per-item pipeline.
func NewProcessor(excluder *Excluder, matcher *Matcher, watchlist WatchlistReader, logger *log.Logger) *Processor {
	return &Processor{excluder: excluder, matcher: matcher, watchlist: watchlist, log: logger}
}

// buildIndex reads the current watchlist into a membership index. A read
// failure degrades to an empty index: existing items may be re-queued, which
// the add call tolerates, and the run keeps going.
func (p *Processor) buildIndex(libtype string) *Index {
	entries, err := p.watchlist.GetWatchlist(libtype)
	if err != nil {
		p.log.Printf("[sync] failed to read watchlist for %q: %v", libtype, err)
		return NewIndex(nil)
	}
	p.log.Printf("[sync] retrieved %d watchlist items of type %q", len(entries), libtype)
	return NewIndex(entries)
}

// ProcessBatch resolves one media type's trending items to discover catalog
// entries that are not yet on the watchlist, preserving input order. Items are
// processed strictly one at a time.
func (p *Processor) ProcessBatch(items []models.TrendingItem, mediaType models.MediaType) []plex.SearchResult {
	libtype := string(mediaType)
	index := p.buildIndex(libtype)
	p.log.Printf("[sync] processing %d trending items for media type %q", len(items), libtype)

	var queued []plex.SearchResult
	for _, item := range items {
		if p.excluder.Excluded(item) {
			p.log.Printf("[sync] skipping excluded language/country item: %s (lang=%s, country=%v)",
				item.DisplayTitle(), item.OriginalLanguage, item.OriginCountry)
			continue
		}

		sig := SignatureOf(item, mediaType)
		if len(sig.Titles) == 0 {
			p.log.Printf("[sync] no titles in trending entry %d; skipping", item.ID)
			continue
		}

		if p.inWatchlist(index, sig) {
			p.log.Printf("[sync] %s (%s) already in watchlist; skipping", sig.Titles[0], yearLabel(sig.Year))
			continue
		}

		matched := p.matcher.FindMatch(mediaType, sig)
		if matched == nil {
			p.log.Printf("[sync] no discover match for %s (%s)", sig.Titles[0], yearLabel(sig.Year))
			continue
		}

		// The matcher can resolve two distinct trending items to the same
		// catalog entry; queue it once.
		if containsResult(queued, *matched) {
			continue
		}
		queued = append(queued, *matched)
		p.log.Printf("[sync] queued %q (%d) for watchlist addition", matched.Title, matched.Year)
	}

	p.log.Printf("[sync] total new %q items to add: %d", libtype, len(queued))
	return queued
}

// inWatchlist checks the two sufficient presence conditions: exact TMDB id, or
// any title spelling whose normalized form plus year is already indexed.
func (p *Processor) inWatchlist(index *Index, sig Signature) bool {
	if index.HasID(sig.TMDBID) {
		return true
	}
	if sig.Year == 0 {
		return false
	}
	for _, title := range sig.Titles {
		if index.HasTitleYear(title, sig.Year) {
			return true
		}
	}
	return false
}

func containsResult(queued []plex.SearchResult, r plex.SearchResult) bool {
	for _, q := range queued {
		if q.RatingKey == r.RatingKey {
			return true
		}
	}
	return false
}

func yearLabel(year int) string {
	if year == 0 {
		return "n/a"
	}
	return strconv.Itoa(year)
}
