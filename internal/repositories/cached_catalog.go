package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Kryruin/Elice-MiniProject/internal/models"
	"github.com/Kryruin/Elice-MiniProject/internal/services"
	"github.com/Kryruin/Elice-MiniProject/internal/shared"
)

// CachedCatalog serves Search and Trending from a [SearchCacheRepository] while entries are
// fresh. Saved items and progress always go to the wrapped collaborator.
type CachedCatalog struct {
	services.Collaborator

	cache  *SearchCacheRepository
	ttl    time.Duration
	logger *log.Logger
	now    func() time.Time
}

// NewCachedCatalog wraps next. A ttl of zero turns caching off.
func NewCachedCatalog(next services.Collaborator, cache *SearchCacheRepository, ttl time.Duration, logger *log.Logger) *CachedCatalog {
	if logger == nil {
		logger = log.Default()
	}
	return &CachedCatalog{
		Collaborator: next,
		cache:        cache,
		ttl:          ttl,
		logger:       shared.WithLogger(logger, "component", "cache"),
		now:          time.Now,
	}
}

// SetLogger swaps the logger for later lookups.
func (c *CachedCatalog) SetLogger(logger *log.Logger) {
	if logger == nil {
		return
	}
	c.logger = shared.WithLogger(logger, "component", "cache")
}

// Search returns cached results for query, fetching and storing them on a miss.
func (c *CachedCatalog) Search(ctx context.Context, query string) ([]models.Video, error) {
	return c.lookup(ModeSearch, query, func() ([]models.Video, error) {
		return c.Collaborator.Search(ctx, query)
	})
}

// Trending returns the cached trending feed, fetching and storing it on a miss.
func (c *CachedCatalog) Trending(ctx context.Context) ([]models.Video, error) {
	return c.lookup(ModeTrending, "", func() ([]models.Video, error) {
		return c.Collaborator.Trending(ctx)
	})
}

func (c *CachedCatalog) lookup(mode, query string, fetch func() ([]models.Video, error)) ([]models.Video, error) {
	if c.cache == nil || c.ttl <= 0 {
		return fetch()
	}

	entry, err := c.cache.Get(mode, query)
	switch {
	case err == nil && entry.Fresh(c.ttl, c.now()):
		if err := c.cache.Hit(entry.ID); err != nil {
			c.logger.Warn("failed to record hit", "id", entry.ID, "error", err)
		}
		c.logger.Debug("cache hit", "mode", mode, "query", query, "age", c.now().Sub(entry.FetchedAt))
		return entry.Videos, nil
	case err != nil && !errors.Is(err, ErrCacheMiss):
		c.logger.Warn("cache read failed", "mode", mode, "query", query, "error", err)
	}

	videos, err := fetch()
	if err != nil {
		return nil, err
	}
	if err := c.cache.Put(mode, query, videos, c.now()); err != nil {
		c.logger.Warn("cache write failed", "mode", mode, "query", query, "error", err)
	}
	return videos, nil
}
