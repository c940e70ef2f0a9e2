package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/Kryruin/Elice-MiniProject/internal/formatter"
	"github.com/Kryruin/Elice-MiniProject/internal/repositories"
	"github.com/Kryruin/Elice-MiniProject/internal/shared"
)

type cacheEntryJSON struct {
	Mode      string    `json:"mode"`
	Query     string    `json:"query"`
	Videos    int       `json:"videos"`
	Hits      int       `json:"hits"`
	FetchedAt time.Time `json:"fetchedAt"`
	Fresh     bool      `json:"fresh"`
}

func (r *Runner) searchCache() (*repositories.SearchCacheRepository, error) {
	if r.cache == nil {
		return nil, fmt.Errorf("%w: search cache database is not available (see 'elice setup database')", shared.ErrServiceUnavailable)
	}
	return r.cache, nil
}

// CacheStats prints totals for the search cache.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.searchCache()
	if err != nil {
		return err
	}
	stats, err := cache.Stats()
	if err != nil {
		return err
	}

	if cmd.Bool("json") || cmd.Bool("pretty") {
		return r.writeJSON(map[string]any{
			"entries": stats.Entries,
			"videos":  stats.Videos,
			"hits":    stats.Hits,
			"oldest":  stats.Oldest,
			"newest":  stats.Newest,
			"enabled": r.config.Cache.Enabled,
			"ttl":     r.config.Cache.TTL().String(),
		}, cmd.Bool("pretty"))
	}

	now := time.Now()
	r.writePlainHeader("Search Cache")
	r.writePlain("Enabled: %t (ttl %s)\n", r.config.Cache.Enabled, r.config.Cache.TTL())
	r.writePlain("Entries: %s\n", humanize.Comma(int64(stats.Entries)))
	r.writePlain("Videos:  %s\n", humanize.Comma(int64(stats.Videos)))
	r.writePlain("Hits:    %s\n", humanize.Comma(int64(stats.Hits)))
	if stats.Entries > 0 {
		r.writePlain("Oldest:  %s\n", formatter.Updated(stats.Oldest, now))
		r.writePlain("Newest:  %s\n", formatter.Updated(stats.Newest, now))
	}
	return nil
}

// CacheList prints every cached search, newest first.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.searchCache()
	if err != nil {
		return err
	}
	entries, err := cache.List()
	if err != nil {
		return err
	}

	now := time.Now()
	ttl := r.config.Cache.TTL()
	if cmd.Bool("json") || cmd.Bool("pretty") {
		out := make([]cacheEntryJSON, 0, len(entries))
		for _, e := range entries {
			out = append(out, cacheEntryJSON{
				Mode:      e.Mode,
				Query:     e.Query,
				Videos:    e.Count,
				Hits:      e.Hits,
				FetchedAt: e.FetchedAt,
				Fresh:     e.Fresh(ttl, now),
			})
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	if len(entries) == 0 {
		r.writePlain("Cache is empty.\n")
		return nil
	}
	for _, e := range entries {
		label := e.Query
		if e.Mode == repositories.ModeTrending {
			label = "(trending)"
		}
		state := "stale"
		if e.Fresh(ttl, now) {
			state = "fresh"
		}
		r.writePlain("%-30s %3d videos  %3d hits  %s (%s)\n", label, e.Count, e.Hits, formatter.Updated(e.FetchedAt, now), state)
	}
	return nil
}

// CachePrune drops entries older than --older-than, or the cache TTL.
func (r *Runner) CachePrune(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.searchCache()
	if err != nil {
		return err
	}

	age := cmd.Duration("older-than")
	if age <= 0 {
		age = r.config.Cache.TTL()
	}
	if age <= 0 {
		return fmt.Errorf("%w: --older-than must be positive", shared.ErrInvalidFlag)
	}

	removed, err := cache.Prune(time.Now().Add(-age))
	if err != nil {
		return err
	}
	r.logger.Info("pruned search cache", "removed", removed, "older_than", age)
	r.writePlain("✓ Removed %d entries older than %s\n", removed, age)
	return nil
}

// CacheClear drops every cached search.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.searchCache()
	if err != nil {
		return err
	}
	removed, err := cache.Clear()
	if err != nil {
		return err
	}
	r.writePlain("✓ Removed %d entries\n", removed)
	return nil
}
