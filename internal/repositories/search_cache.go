package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Kryruin/Elice-MiniProject/internal/models"
	"github.com/Kryruin/Elice-MiniProject/internal/shared"
)

// CacheEntry is one cached catalog response.
type CacheEntry struct {
	ID        string
	Mode      string
	Query     string
	Videos    []models.Video
	Count     int
	FetchedAt time.Time
	Hits      int
}

// Fresh reports whether the entry is younger than ttl at now.
func (e *CacheEntry) Fresh(ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(e.FetchedAt) < ttl
}

// CacheStats summarizes the cache table.
type CacheStats struct {
	Entries int
	Videos  int
	Hits    int
	Oldest  time.Time
	Newest  time.Time
}

// SearchCacheRepository stores catalog responses in the search_cache table.
type SearchCacheRepository struct {
	db *sql.DB
}

// NewSearchCacheRepository creates a new SearchCacheRepository with the given database connection
func NewSearchCacheRepository(db *sql.DB) *SearchCacheRepository {
	return &SearchCacheRepository{db: db}
}

// Put stores videos under (mode, query), replacing any previous entry and resetting its hit count.
func (r *SearchCacheRepository) Put(mode, query string, videos []models.Video, fetchedAt time.Time) error {
	if mode == "" {
		return fmt.Errorf("%w: cache mode is required", shared.ErrInvalidInput)
	}
	payload, err := json.Marshal(videos)
	if err != nil {
		return fmt.Errorf("failed to encode videos: %w", err)
	}

	stmt := `
		INSERT INTO search_cache (id, mode, query, payload, item_count, fetched_at, hits)
		VALUES (?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT (mode, query) DO UPDATE SET
			payload = excluded.payload,
			item_count = excluded.item_count,
			fetched_at = excluded.fetched_at,
			hits = 0
	`

	_, err = r.db.Exec(stmt,
		shared.GenerateID(),
		mode,
		NormalizeQuery(query),
		string(payload),
		len(videos),
		fetchedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Get returns the entry for (mode, query) or [ErrCacheMiss].
func (r *SearchCacheRepository) Get(mode, query string) (*CacheEntry, error) {
	row := r.db.QueryRow(`
		SELECT id, mode, query, payload, item_count, fetched_at, hits
		FROM search_cache
		WHERE mode = ? AND query = ?
	`, mode, NormalizeQuery(query))

	var entry CacheEntry
	var payload string
	if err := row.Scan(&entry.ID, &entry.Mode, &entry.Query, &payload, &entry.Count, &entry.FetchedAt, &entry.Hits); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &entry.Videos); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry %s: %w", entry.ID, err)
	}
	return &entry, nil
}

// Hit increments the hit counter of an entry.
func (r *SearchCacheRepository) Hit(id string) error {
	result, err := r.db.Exec("UPDATE search_cache SET hits = hits + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to record cache hit: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: cache entry %s", shared.ErrItemNotFound, id)
	}
	return nil
}

// List returns every entry, most recently fetched first, without payloads.
func (r *SearchCacheRepository) List() ([]*CacheEntry, error) {
	rows, err := r.db.Query(`
		SELECT id, mode, query, item_count, fetched_at, hits
		FROM search_cache
		ORDER BY fetched_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache entries: %w", err)
	}
	defer rows.Close()

	var entries []*CacheEntry
	for rows.Next() {
		var e CacheEntry
		if err := rows.Scan(&e.ID, &e.Mode, &e.Query, &e.Count, &e.FetchedAt, &e.Hits); err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Stats aggregates the table. Oldest and Newest are zero when the cache is empty.
func (r *SearchCacheRepository) Stats() (*CacheStats, error) {
	var stats CacheStats
	err := r.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(item_count), 0), COALESCE(SUM(hits), 0)
		FROM search_cache
	`).Scan(&stats.Entries, &stats.Videos, &stats.Hits)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache stats: %w", err)
	}
	if stats.Entries == 0 {
		return &stats, nil
	}

	if err := r.db.QueryRow("SELECT fetched_at FROM search_cache ORDER BY fetched_at ASC LIMIT 1").Scan(&stats.Oldest); err != nil {
		return nil, fmt.Errorf("failed to read oldest entry: %w", err)
	}
	if err := r.db.QueryRow("SELECT fetched_at FROM search_cache ORDER BY fetched_at DESC LIMIT 1").Scan(&stats.Newest); err != nil {
		return nil, fmt.Errorf("failed to read newest entry: %w", err)
	}
	return &stats, nil
}

// Prune deletes entries fetched before cutoff and returns how many were removed.
func (r *SearchCacheRepository) Prune(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM search_cache WHERE fetched_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune cache: %w", err)
	}
	return result.RowsAffected()
}

// Clear deletes every entry.
func (r *SearchCacheRepository) Clear() (int64, error) {
	result, err := r.db.Exec("DELETE FROM search_cache")
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	return result.RowsAffected()
}
