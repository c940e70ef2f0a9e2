// Package repositories implements SQLite persistence for the client's local state.
//
// The remote API owns saved items and progress, so the only thing kept locally is a
// cache of catalog responses:
//   - [SearchCacheRepository] : search/trending payloads keyed by mode and normalized query
//   - [CachedCatalog] : a services.Collaborator decorator that serves catalog reads from the cache
//
// Rows are identified by uuids from shared.GenerateID and expire by fetched_at against a TTL
// chosen by the caller.
package repositories
