package sync

import (
	"errors"
	"fmt"
	"log"
	"time"

	"trendarr/config"
	"trendarr/models"
	"trendarr/services/plex"
	"trendarr/services/tmdb"
)

// TrendingSource is the trending-feed surface a run needs.
type TrendingSource interface {
	Trending(mediaType models.MediaType) ([]models.TrendingItem, error)
}

// WatchlistWriter is the watchlist mutation surface a run needs.
type WatchlistWriter interface {
	AddToWatchlist(items []plex.SearchResult) error
}

// AccountClient is the full Plex surface a run needs.
type AccountClient interface {
	Searcher
	WatchlistReader
	WatchlistWriter
}

// Service wires one full trending-to-watchlist run.
type Service struct {
	cfg       *config.Config
	log       *log.Logger
	trending  TrendingSource
	writer    WatchlistWriter
	processor *Processor
	dryRun    bool
	now       func() time.Time
}

// NewService builds the run pipeline around the two external clients.
func NewService(cfg *config.Config, logger *log.Logger, trending TrendingSource, account AccountClient, dryRun bool) *Service {
	excluder := NewExcluder(cfg.ExcludedLanguages, cfg.ExcludedCountries)
	matcher := NewMatcher(account, logger)
	return &Service{
		cfg:       cfg,
		log:       logger,
		trending:  trending,
		writer:    account,
		processor: NewProcessor(excluder, matcher, account, logger),
		dryRun:    dryRun,
		now:       time.Now,
	}
}

// Run executes one synchronization pass: fetch and window both trending feeds,
// process shows then movies, and add everything queued in a single batched
// watchlist call. Only a trending-feed fetch failure is returned as an error;
// every other failure is logged and degraded so the pass completes.
func (s *Service) Run() error {
	s.log.Printf("[sync] starting run")

	showFeed, err := s.trending.Trending(models.MediaTypeShow)
	if err != nil {
		return fmt.Errorf("fetch trending tv: %w", err)
	}
	s.log.Printf("[sync] fetched %d trending tv items", len(showFeed))

	movieFeed, err := s.trending.Trending(models.MediaTypeMovie)
	if err != nil {
		return fmt.Errorf("fetch trending movies: %w", err)
	}
	s.log.Printf("[sync] fetched %d trending movie items", len(movieFeed))

	now := s.now()
	topShows := tmdb.FilterRecent(showFeed, models.MediaTypeShow, s.cfg.LookbackDays, s.cfg.FeedLimit, now)
	topMovies := tmdb.FilterRecent(movieFeed, models.MediaTypeMovie, s.cfg.LookbackDays, s.cfg.FeedLimit, now)
	s.log.Printf("[sync] %d tv and %d movie items within the last %d days",
		len(topShows), len(topMovies), s.cfg.LookbackDays)

	toAdd := s.processor.ProcessBatch(topShows, models.MediaTypeShow)
	toAdd = append(toAdd, s.processor.ProcessBatch(topMovies, models.MediaTypeMovie)...)

	if len(toAdd) == 0 {
		s.log.Printf("[sync] no new items to add after processing and filtering")
		return nil
	}

	if s.dryRun {
		for _, item := range toAdd {
			s.log.Printf("[sync] dry run: would add %q (%d)", item.Title, item.Year)
		}
		return nil
	}

	s.log.Printf("[sync] adding %d items to watchlist", len(toAdd))
	if err := s.writer.AddToWatchlist(toAdd); err != nil {
		if errors.Is(err, plex.ErrBadRequest) {
			s.log.Printf("[sync] watchlist add rejected: %v", err)
		} else {
			s.log.Printf("[sync] watchlist add failed: %v", err)
		}
		return nil
	}
	for _, item := range toAdd {
		s.log.Printf("[sync] added %q to watchlist", item.Title)
	}
	s.log.Printf("[sync] finished adding items")
	return nil
}
