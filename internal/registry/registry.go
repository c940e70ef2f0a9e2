// Package registry mirrors the server's saved list locally so views can answer
// "is this saved?" without a round trip.
package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Kryruin/Elice-MiniProject/internal/models"
	"github.com/Kryruin/Elice-MiniProject/internal/services"
)

// SavedSet is the set of saved item ids.
type SavedSet map[string]struct{}

// NewSavedSet builds a set from ids.
func NewSavedSet(ids ...string) SavedSet {
	s := make(SavedSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s SavedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Registry tracks saved ids and only changes them after the server confirms a write.
//
// The lock is never held across a request, so racing Save/Unsave calls on one id
// resolve to whichever response lands last.
type Registry struct {
	store  services.SavedStore
	logger *log.Logger

	mu    sync.RWMutex
	saved SavedSet
}

// New creates an empty registry backed by store.
func New(store services.SavedStore, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{store: store, logger: logger, saved: SavedSet{}}
}

// Save posts item and marks it saved once the server accepts it.
// On failure the set is untouched and the error is logged and returned.
func (r *Registry) Save(ctx context.Context, item models.Item) error {
	if err := r.store.Save(ctx, item); err != nil {
		r.logger.Error("failed to save item", "id", item.ID, "error", err)
		return err
	}
	r.mu.Lock()
	r.saved[item.ID] = struct{}{}
	r.mu.Unlock()
	r.logger.Debug("saved item", "id", item.ID)
	return nil
}

// Unsave deletes id and drops it from the set once the server accepts it.
func (r *Registry) Unsave(ctx context.Context, id string) error {
	if err := r.store.Unsave(ctx, id); err != nil {
		r.logger.Error("failed to unsave item", "id", id, "error", err)
		return err
	}
	r.mu.Lock()
	delete(r.saved, id)
	r.mu.Unlock()
	r.logger.Debug("unsaved item", "id", id)
	return nil
}

// Toggle saves an unsaved item or unsaves a saved one.
func (r *Registry) Toggle(ctx context.Context, item models.Item) error {
	if r.IsSaved(item.ID) {
		return r.Unsave(ctx, item.ID)
	}
	return r.Save(ctx, item)
}

// IsSaved reports whether id is in the local mirror.
func (r *Registry) IsSaved(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saved.Has(id)
}

// Replace swaps the mirror for ids, typically the result of listing the saved items.
func (r *Registry) Replace(ids ...string) {
	set := NewSavedSet(ids...)
	r.mu.Lock()
	r.saved = set
	r.mu.Unlock()
}

// Set returns a copy of the current set.
func (r *Registry) Set() SavedSet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(SavedSet, len(r.saved))
	for id := range r.saved {
		out[id] = struct{}{}
	}
	return out
}

// IDs returns the saved ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.saved))
	for id := range r.saved {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of saved ids.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.saved)
}
