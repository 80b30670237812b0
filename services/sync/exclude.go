// Package sync implements the trending-to-watchlist pipeline: exclusion,
// dedup against the current watchlist, discover matching, and the batched add.
package sync

import "trendarr/models"

// Excluder drops trending items by original language or origin country.
type Excluder struct {
	languages map[string]struct{}
	countries map[string]struct{}
}

// NewExcluder creates an excluder over the configured language and country
// sets.
func NewExcluder(languages, countries map[string]struct{}) *Excluder {
	return &Excluder{languages: languages, countries: countries}
}

// Excluded reports whether the item's original language is excluded or any of
// its origin countries is. A missing language or country field never excludes.
func (e *Excluder) Excluded(item models.TrendingItem) bool {
	if item.OriginalLanguage != "" {
		if _, ok := e.languages[item.OriginalLanguage]; ok {
			return true
		}
	}
	for _, country := range item.OriginCountry {
		if _, ok := e.countries[country]; ok {
			return true
		}
	}
	return false
}
