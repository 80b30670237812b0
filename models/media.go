package models

// MediaType distinguishes the two Plex watchlist namespaces. Movies and shows
// are processed as independent batches and never deduplicated against each
// other.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeShow  MediaType = "show"
)

// TrendingItem represents one entry from a TMDB trending feed. Movies carry
// title/original_title and release_date; shows carry name/original_name and
// first_air_date. Any of the title fields may be empty.
type TrendingItem struct {
	ID               int      `json:"id"`
	Title            string   `json:"title,omitempty"`
	OriginalTitle    string   `json:"original_title,omitempty"`
	Name             string   `json:"name,omitempty"`
	OriginalName     string   `json:"original_name,omitempty"`
	ReleaseDate      string   `json:"release_date,omitempty"`
	FirstAirDate     string   `json:"first_air_date,omitempty"`
	OriginalLanguage string   `json:"original_language,omitempty"`
	OriginCountry    []string `json:"origin_country,omitempty"`
	Popularity       float64  `json:"popularity,omitempty"`
}

// Date returns the date field relevant to the media type: first air date for
// shows, release date for movies.
func (t TrendingItem) Date(mediaType MediaType) string {
	if mediaType == MediaTypeShow {
		return t.FirstAirDate
	}
	return t.ReleaseDate
}

// DisplayTitle returns the first non-empty title field, for log lines.
func (t TrendingItem) DisplayTitle() string {
	for _, s := range []string{t.Title, t.Name, t.OriginalTitle, t.OriginalName} {
		if s != "" {
			return s
		}
	}
	return "?"
}
