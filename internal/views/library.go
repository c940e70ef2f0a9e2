package views

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/sahilm/fuzzy"

	"github.com/Kryruin/Elice-MiniProject/internal/models"
	"github.com/Kryruin/Elice-MiniProject/internal/progress"
	"github.com/Kryruin/Elice-MiniProject/internal/registry"
	"github.com/Kryruin/Elice-MiniProject/internal/services"
	"github.com/Kryruin/Elice-MiniProject/internal/shared"
)

// MsgLibraryFailed is shown when the saved list or progress cannot be loaded.
const MsgLibraryFailed = "Failed to load library"

// LibraryView is the state of the saved list screen.
type LibraryView struct {
	api    services.Collaborator
	saved  *registry.Registry
	opts   Options
	logger *log.Logger

	mu       sync.RWMutex
	order    []string
	items    map[string]models.Item
	progress models.ProgressMap
	loading  bool
	err      error
}

// NewLibraryView creates an empty library view. Call [LibraryView.Load] to fill it.
func NewLibraryView(api services.Collaborator, opts Options) *LibraryView {
	opts = opts.withDefaults()
	if opts.Opener == nil {
		opts.Opener = shared.OpenBrowser
	}
	logger := shared.WithLogger(opts.Logger, "view", "library")
	return &LibraryView{
		api:      api,
		saved:    registry.New(api, logger),
		opts:     opts,
		logger:   logger,
		items:    map[string]models.Item{},
		progress: models.ProgressMap{},
	}
}

// Load fetches progress, then the saved items, and replaces the view state.
// On failure the previous state is kept and the view enters its error state.
func (l *LibraryView) Load(ctx context.Context) error {
	l.mu.Lock()
	l.loading = true
	l.err = nil
	l.mu.Unlock()

	records, err := l.api.ListProgress(ctx)
	if err != nil {
		return l.fail(err)
	}
	items, err := l.api.ListSaved(ctx)
	if err != nil {
		return l.fail(err)
	}

	order := make([]string, 0, len(items))
	byID := make(map[string]models.Item, len(items))
	for _, item := range items {
		if _, dup := byID[item.ID]; !dup {
			order = append(order, item.ID)
		}
		byID[item.ID] = item
	}
	if records == nil {
		records = models.ProgressMap{}
	}

	l.saved.Replace(order...)
	l.mu.Lock()
	l.order = order
	l.items = byID
	l.progress = records
	l.loading = false
	l.mu.Unlock()
	l.logger.Debug("loaded library", "items", len(order), "records", len(records))
	return nil
}

func (l *LibraryView) fail(err error) error {
	l.logger.Error(MsgLibraryFailed, "error", err)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	l.err = &LoadError{Message: MsgLibraryFailed, Err: err}
	return l.err
}

// Groups partitions the saved items by source. Groups appear in the order their first
// item was returned by the server, and items keep server order within a group.
func (l *LibraryView) Groups() []Group {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var groups []Group
	index := map[string]int{}
	for _, id := range l.order {
		item := l.items[id]
		name := item.Group()
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name})
		}
		groups[i].Entries = append(groups[i].Entries, l.entry(id))
	}
	return groups
}

// Entries returns every saved item in server order.
func (l *LibraryView) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.entry(id))
	}
	return out
}

func (l *LibraryView) entry(id string) Entry {
	rec, tracked := overlay(l.progress, id)
	return Entry{Item: l.items[id], Progress: rec, Tracked: tracked}
}

// Item returns the saved item with id.
func (l *LibraryView) Item(id string) (models.Item, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	item, ok := l.items[id]
	return item, ok
}

// Progress returns the record for id, or the default when untracked.
func (l *LibraryView) Progress(id string) models.ProgressRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return progress.Lookup(l.progress, id)
}

// Advance moves id forward by one step.
func (l *LibraryView) Advance(ctx context.Context, id string) (models.ProgressRecord, error) {
	return l.Update(ctx, id, progress.Advance(l.Progress(id), l.opts.Step))
}

// ToggleComplete marks id done, or resets it when it already is.
func (l *LibraryView) ToggleComplete(ctx context.Context, id string) (models.ProgressRecord, error) {
	return l.Update(ctx, id, progress.ToggleComplete(l.Progress(id)))
}

// Reset sends id back to zero percent.
func (l *LibraryView) Reset(ctx context.Context, id string) (models.ProgressRecord, error) {
	return l.Update(ctx, id, progress.Reset())
}

// Update merges partial into the record for id, shows it, persists it and reloads the view.
//
// The local record stays when the write fails, and no reload happens in that case.
func (l *LibraryView) Update(ctx context.Context, id string, partial progress.Partial) (models.ProgressRecord, error) {
	next := progress.Merge(l.Progress(id), partial, l.opts.Now())
	l.mu.Lock()
	l.progress[id] = next
	l.mu.Unlock()

	if err := l.api.PutProgress(ctx, id, next); err != nil {
		l.logger.Error("failed to update progress", "id", id, "error", err)
		return next, err
	}
	return next, l.Load(ctx)
}

// Save adds item to the saved list and reloads.
func (l *LibraryView) Save(ctx context.Context, item models.Item) error {
	if err := l.saved.Save(ctx, item); err != nil {
		return err
	}
	return l.Load(ctx)
}

// Unsave removes id from the saved list and reloads, which drops it from its group.
func (l *LibraryView) Unsave(ctx context.Context, id string) error {
	if err := l.saved.Unsave(ctx, id); err != nil {
		return err
	}
	return l.Load(ctx)
}

// IsSaved reports whether id is in the loaded saved list.
func (l *LibraryView) IsSaved(id string) bool {
	return l.saved.IsSaved(id)
}

// Open opens the item's URL in the system browser.
func (l *LibraryView) Open(id string) error {
	item, ok := l.Item(id)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrItemNotFound, id)
	}
	if item.URL == "" {
		return fmt.Errorf("%w: %s has no url", shared.ErrInvalidInput, id)
	}
	return l.opts.Opener(item.URL)
}

type entrySource []Entry

func (s entrySource) String(i int) string {
	return s[i].Item.Title + " " + s[i].Item.Author
}

func (s entrySource) Len() int { return len(s) }

// Filter fuzzy-matches query against titles and authors, best match first.
// An empty query returns every entry in server order.
func (l *LibraryView) Filter(query string) []Entry {
	entries := l.Entries()
	if query == "" {
		return entries
	}
	matches := fuzzy.FindFrom(query, entrySource(entries))
	out := make([]Entry, 0, len(matches))
	for _, m := range matches {
		out = append(out, entries[m.Index])
	}
	return out
}

// Len returns the number of saved items.
func (l *LibraryView) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.order)
}

// Loading reports whether a load is in flight.
func (l *LibraryView) Loading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

// Err returns the error state, nil after a successful load.
func (l *LibraryView) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}
