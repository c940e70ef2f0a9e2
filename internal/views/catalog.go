package views

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Kryruin/Elice-MiniProject/internal/models"
	"github.com/Kryruin/Elice-MiniProject/internal/progress"
	"github.com/Kryruin/Elice-MiniProject/internal/registry"
	"github.com/Kryruin/Elice-MiniProject/internal/services"
)

// Catalog error messages shown to the user.
const (
	MsgSearchFailed   = "Failed to fetch videos"
	MsgTrendingFailed = "Failed to fetch trending videos"
)

// CatalogMode tells whether the listed videos came from a search or the trending feed.
type CatalogMode string

const (
	ModeSearch   CatalogMode = "search"
	ModeTrending CatalogMode = "trending"
)

// CatalogRow is a video as displayed: the stored result plus its overlays.
type CatalogRow struct {
	Video    models.Video          `json:"video"`
	Saved    bool                  `json:"saved"`
	Progress models.ProgressRecord `json:"progress"`
	Tracked  bool                  `json:"tracked"`
}

// CatalogView is the state of the video search screen.
type CatalogView struct {
	api    services.Collaborator
	saved  *registry.Registry
	opts   Options
	logger *log.Logger

	mu       sync.RWMutex
	query    string
	mode     CatalogMode
	videos   []models.Video
	progress models.ProgressMap
	loading  bool
	err      error
}

// NewCatalogView creates an empty catalog view.
func NewCatalogView(api services.Collaborator, opts Options) *CatalogView {
	opts = opts.withDefaults()
	logger := opts.Logger.With("view", "catalog")
	return &CatalogView{
		api:      api,
		saved:    registry.New(api, logger),
		opts:     opts,
		logger:   logger,
		mode:     ModeSearch,
		progress: models.ProgressMap{},
	}
}

// Mount runs the initial search and loads the saved and progress overlays.
//
// Only a failed search is returned; overlay failures are logged and leave the overlays empty.
func (c *CatalogView) Mount(ctx context.Context) error {
	err := c.Search(ctx, c.opts.DefaultQuery)
	c.LoadOverlays(ctx)
	return err
}

// LoadOverlays refreshes saved ids and progress records.
func (c *CatalogView) LoadOverlays(ctx context.Context) {
	if items, err := c.api.ListSaved(ctx); err != nil {
		c.logger.Error("failed to load saved items", "error", err)
	} else {
		ids := make([]string, 0, len(items))
		for _, item := range items {
			if item.Source == models.SourceYouTube {
				ids = append(ids, item.ID)
			}
		}
		c.saved.Replace(ids...)
	}

	if records, err := c.api.ListProgress(ctx); err != nil {
		c.logger.Error("failed to load progress", "error", err)
	} else {
		if records == nil {
			records = models.ProgressMap{}
		}
		c.mu.Lock()
		c.progress = records
		c.mu.Unlock()
	}
}

// Search replaces the listed videos with the results for query.
func (c *CatalogView) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	c.begin(query, ModeSearch)
	videos, err := c.api.Search(ctx, query)
	return c.finish(videos, err, MsgSearchFailed)
}

// LoadTrending replaces the listed videos with the trending feed.
func (c *CatalogView) LoadTrending(ctx context.Context) error {
	c.begin("", ModeTrending)
	videos, err := c.api.Trending(ctx)
	return c.finish(videos, err, MsgTrendingFailed)
}

func (c *CatalogView) begin(query string, mode CatalogMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = query
	c.mode = mode
	c.loading = true
	c.err = nil
}

func (c *CatalogView) finish(videos []models.Video, err error, msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.logger.Error(msg, "query", c.query, "error", err)
		c.err = &LoadError{Message: msg, Err: err}
		return c.err
	}
	c.videos = videos
	c.logger.Debug("loaded videos", "mode", c.mode, "count", len(videos))
	return nil
}

// Rows projects the listed videos with their saved flag and progress.
func (c *CatalogView) Rows() []CatalogRow {
	c.mu.RLock()
	defer c.mu.RUnlock()
	saved := c.saved.Set()
	rows := make([]CatalogRow, 0, len(c.videos))
	for _, v := range c.videos {
		rec, tracked := overlay(c.progress, v.ID)
		rows = append(rows, CatalogRow{Video: v, Saved: saved.Has(v.ID), Progress: rec, Tracked: tracked})
	}
	return rows
}

// Video returns the listed video with id.
func (c *CatalogView) Video(id string) (models.Video, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, v := range c.videos {
		if v.ID == id {
			return v, true
		}
	}
	return models.Video{}, false
}

// ToggleSave saves video when it is not saved and unsaves it otherwise.
func (c *CatalogView) ToggleSave(ctx context.Context, video models.Video) error {
	return c.saved.Toggle(ctx, video.Item())
}

// IsSaved reports whether id is saved.
func (c *CatalogView) IsSaved(id string) bool {
	return c.saved.IsSaved(id)
}

// Advance moves id forward by one step.
func (c *CatalogView) Advance(ctx context.Context, id string) (models.ProgressRecord, error) {
	return c.Update(ctx, id, progress.Advance(c.Progress(id), c.opts.Step))
}

// ToggleComplete marks id done, or resets it when it already is.
func (c *CatalogView) ToggleComplete(ctx context.Context, id string) (models.ProgressRecord, error) {
	return c.Update(ctx, id, progress.ToggleComplete(c.Progress(id)))
}

// Reset sends id back to zero percent.
func (c *CatalogView) Reset(ctx context.Context, id string) (models.ProgressRecord, error) {
	return c.Update(ctx, id, progress.Reset())
}

// Update merges partial into the record for id, shows the result and persists it.
// The local record is kept even when the write fails.
func (c *CatalogView) Update(ctx context.Context, id string, partial progress.Partial) (models.ProgressRecord, error) {
	next := progress.Merge(c.Progress(id), partial, c.opts.Now())
	c.mu.Lock()
	c.progress[id] = next
	c.mu.Unlock()

	if err := c.api.PutProgress(ctx, id, next); err != nil {
		c.logger.Error("failed to update progress", "id", id, "error", err)
		return next, err
	}
	return next, nil
}

// Progress returns the record for id, or the default when untracked.
func (c *CatalogView) Progress(id string) models.ProgressRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return progress.Lookup(c.progress, id)
}

// Query returns the last searched query.
func (c *CatalogView) Query() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.query
}

// Mode reports where the listed videos came from.
func (c *CatalogView) Mode() CatalogMode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// Loading reports whether a search is in flight.
func (c *CatalogView) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Err returns the error state, nil after a successful load.
func (c *CatalogView) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}
