// Package usecase contains the application services. Services accept the
// narrow interfaces they need and return domain models, keeping transport
// and infrastructure concerns out of the business logic.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/kdm-dev/tubevault/internal/cache"
	"github.com/kdm-dev/tubevault/internal/domain/model"
	"github.com/kdm-dev/tubevault/internal/infrastructure/metrics"
)

// upstreamBrowser is the scraping surface the search service consumes.
type upstreamBrowser interface {
	Search(ctx context.Context, query string, searchType model.SearchType) (*model.SearchResult, error)
	ChannelVideos(ctx context.Context, channelID string) (*model.ChannelPage, error)
}

// searchRecorder persists the side effects of a completed search.
type searchRecorder interface {
	RecordSearch(ctx context.Context, entry *model.SearchHistory, videos []*model.Video) error
}

// SearchServiceConfig holds configuration for SearchService.
type SearchServiceConfig struct {
	// CacheTTL is the TTL for cached search results.
	CacheTTL time.Duration
	// ChannelCacheTTL is the TTL for cached channel pages.
	ChannelCacheTTL time.Duration
}

// DefaultSearchServiceConfig returns the default configuration.
func DefaultSearchServiceConfig() SearchServiceConfig {
	return SearchServiceConfig{
		CacheTTL:        time.Hour,
		ChannelCacheTTL: 30 * time.Minute,
	}
}

// SearchService defines the search and channel browsing operations.
type SearchService interface {
	// Search returns results for a query, serving repeated queries from
	// the cache. userID, when present, attributes the history entry.
	Search(ctx context.Context, query string, searchType model.SearchType, userID *uuid.UUID) (*model.SearchResult, error)

	// BrowseChannel returns a channel's video listing, cached.
	BrowseChannel(ctx context.Context, channelID string) (*model.ChannelPage, error)

	// CacheStats exposes the search cache counters.
	CacheStats() cache.Stats
}

type searchService struct {
	upstream upstreamBrowser
	recorder searchRecorder

	resultCache  *cache.Cache[*model.SearchResult]
	channelCache *cache.Cache[*model.ChannelPage]
	sfGroup      singleflight.Group
	logger       *slog.Logger

	cacheTTL        time.Duration
	channelCacheTTL time.Duration
}

// NewSearchService creates a new SearchService. recorder may be nil, in
// which case searches are not recorded.
func NewSearchService(
	upstream upstreamBrowser,
	recorder searchRecorder,
	resultCache *cache.Cache[*model.SearchResult],
	channelCache *cache.Cache[*model.ChannelPage],
	logger *slog.Logger,
	cfg SearchServiceConfig,
) SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &searchService{
		upstream:        upstream,
		recorder:        recorder,
		resultCache:     resultCache,
		channelCache:    channelCache,
		logger:          logger,
		cacheTTL:        cfg.CacheTTL,
		channelCacheTTL: cfg.ChannelCacheTTL,
	}
}

// Search serves a query cache-first. Concurrent identical queries are
// collapsed into a single upstream fetch via singleflight.
func (s *searchService) Search(ctx context.Context, query string, searchType model.SearchType, userID *uuid.UUID) (*model.SearchResult, error) {
	if !searchType.IsValid() {
		return nil, model.ErrInvalidSearchType
	}

	key := searchCacheKey(query, searchType)

	result, err, shared := s.sfGroup.Do(key, func() (any, error) {
		return s.searchWithCache(ctx, key, query, searchType, userID)
	})
	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(searchType.String(), metrics.SearchSourceError).Inc()
		return nil, err
	}
	return result.(*model.SearchResult), nil
}

// searchWithCache implements the cache-aside pattern for one search.
func (s *searchService) searchWithCache(ctx context.Context, key, query string, searchType model.SearchType, userID *uuid.UUID) (*model.SearchResult, error) {
	if cached, ok := s.resultCache.Get(key); ok {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit, metrics.CacheTypeMemory).Inc()
		metrics.SearchRequestsTotal.WithLabelValues(searchType.String(), metrics.SearchSourceCache).Inc()
		return cached, nil
	}
	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheTypeMemory).Inc()

	result, err := s.upstream.Search(ctx, query, searchType)
	if err != nil {
		return nil, fmt.Errorf("upstream search: %w", err)
	}

	s.resultCache.SetTTL(key, result, s.cacheTTL)
	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess, metrics.CacheTypeMemory).Inc()
	metrics.SearchRequestsTotal.WithLabelValues(searchType.String(), metrics.SearchSourceUpstream).Inc()

	s.recordSearch(ctx, query, searchType, userID, result)
	return result, nil
}

// recordSearch persists the history entry and discovered videos.
// Recording is best effort: a failure is logged and the search response
// is served anyway.
func (s *searchService) recordSearch(ctx context.Context, query string, searchType model.SearchType, userID *uuid.UUID, result *model.SearchResult) {
	if s.recorder == nil {
		return
	}

	entry := model.NewSearchHistory(query, searchType, result.Count(), userID)

	var videos []*model.Video
	for _, v := range result.Videos {
		video, err := model.NewVideo(v.ID, v.Title, v.ThumbnailURL)
		if err != nil {
			continue
		}
		videos = append(videos, video)
	}

	if err := s.recorder.RecordSearch(ctx, entry, videos); err != nil {
		s.logger.Warn("failed to record search",
			"query", query,
			"search_type", searchType.String(),
			"error", err,
		)
		return
	}
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableSearchHistory).Inc()
}

// BrowseChannel returns a channel's listing, cache-first.
func (s *searchService) BrowseChannel(ctx context.Context, channelID string) (*model.ChannelPage, error) {
	key := "channel:" + channelID

	result, err, _ := s.sfGroup.Do(key, func() (any, error) {
		if cached, ok := s.channelCache.Get(key); ok {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit, metrics.CacheTypeMemory).Inc()
			return cached, nil
		}
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheTypeMemory).Inc()

		page, err := s.upstream.ChannelVideos(ctx, channelID)
		if err != nil {
			return nil, fmt.Errorf("channel listing: %w", err)
		}

		s.channelCache.SetTTL(key, page, s.channelCacheTTL)
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess, metrics.CacheTypeMemory).Inc()
		return page, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.ChannelPage), nil
}

// CacheStats exposes the search cache counters.
func (s *searchService) CacheStats() cache.Stats {
	return s.resultCache.Stats()
}

// searchCacheKey namespaces a query by result kind, case-insensitively.
func searchCacheKey(query string, searchType model.SearchType) string {
	return fmt.Sprintf("%s:%s", searchType, strings.ToLower(query))
}
