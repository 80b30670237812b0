package sync

import (
	"regexp"
	"strconv"

	"trendarr/models"
	"trendarr/services/plex"
	"trendarr/utils/match"
)

// GUIDBearer is anything that exposes its external-id reference strings. Both
// watchlist entries and discover search results qualify.
type GUIDBearer interface {
	GUIDValues() []string
}

// TMDBIDOf extracts the TMDB id from any guid-bearing entity, 0 when absent.
func TMDBIDOf(b GUIDBearer) int {
	return plex.ExtractTMDBID(b.GUIDValues())
}

// leadingYearPattern matches the 4-digit year prefix of an ISO date string.
var leadingYearPattern = regexp.MustCompile(`^(\d{4})`)

// YearFrom parses the leading four digits of a date string. Returns 0 when the
// string is empty or does not start with four digits.
func YearFrom(dateStr string) int {
	m := leadingYearPattern.FindStringSubmatch(dateStr)
	if m == nil {
		return 0
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return year
}

// Signature is the identity summary a trending item is excluded, deduped, and
// matched on.
type Signature struct {
	TMDBID int
	Titles []string // distinct spellings, extraction order, best first
	Year   int      // 0 when unknown
}

// TitlesFrom collects the item's title spellings in priority order (name,
// original name, title, original title), keeping each non-empty value whose
// normalized form has not been seen yet.
func TitlesFrom(item models.TrendingItem) []string {
	seen := make(map[string]struct{})
	var titles []string
	for _, t := range []string{item.Name, item.OriginalName, item.Title, item.OriginalTitle} {
		if t == "" {
			continue
		}
		nt := match.Normalize(t)
		if nt == "" {
			continue
		}
		if _, dup := seen[nt]; dup {
			continue
		}
		seen[nt] = struct{}{}
		titles = append(titles, t)
	}
	return titles
}

// SignatureOf derives the identity signature of a trending item for one media
// type.
func SignatureOf(item models.TrendingItem, mediaType models.MediaType) Signature {
	return Signature{
		TMDBID: item.ID,
		Titles: TitlesFrom(item),
		Year:   YearFrom(item.Date(mediaType)),
	}
}
