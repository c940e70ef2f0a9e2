// package tasks implements multi-request operations over the saved library.
//
// The core abstraction is LibraryEngine, which snapshots, exports and bulk-updates the library.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Kryruin/Elice-MiniProject/internal/formatter"
	"github.com/Kryruin/Elice-MiniProject/internal/progress"
	"github.com/Kryruin/Elice-MiniProject/internal/services"
	"github.com/Kryruin/Elice-MiniProject/internal/shared"
	"github.com/Kryruin/Elice-MiniProject/internal/views"
)

// LibraryEngine defines operations that span many API calls.
type LibraryEngine interface {
	// Snapshot fetches progress and saved items and groups them by source.
	Snapshot(ctx context.Context, prog chan<- ProgressUpdate) (*formatter.Library, error)

	// Export snapshots the library and writes it in the requested format.
	Export(ctx context.Context, prog chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error)

	// ApplyBulk merges one partial update into the records of many items.
	ApplyBulk(ctx context.Context, prog chan<- ProgressUpdate, ids []string, partial progress.Partial, opts BulkOpts) (*BulkResult, error)
}

// ExportOpts configures [Engine.Export].
type ExportOpts struct {
	Format formatter.Format // Export format (default: json)
	Path   string           // Output file (default: library.{ext})
}

// ExportResult describes a finished export.
type ExportResult struct {
	Path    string
	Format  formatter.Format
	Summary formatter.Summary
}

var _ LibraryEngine = (*Engine)(nil)

// Engine implements LibraryEngine against a collaborator.
type Engine struct {
	api    services.Collaborator
	logger *log.Logger
	now    func() time.Time
}

// NewEngine creates a new Engine with the provided collaborator.
func NewEngine(api services.Collaborator, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{api: api, logger: shared.WithLogger(logger, "component", "tasks"), now: time.Now}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(prog chan<- ProgressUpdate, update ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- update:
	default:
	}
}

// Snapshot loads the library the same way the library screen does: progress first, then saved items.
func (e *Engine) Snapshot(ctx context.Context, prog chan<- ProgressUpdate) (*formatter.Library, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: api client not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(prog, fetchProgressUpdate(1, 2))
	lib := views.NewLibraryView(e.api, views.Options{Logger: e.logger, Now: e.now})
	if err := lib.Load(ctx); err != nil {
		return nil, err
	}
	e.sendProgress(prog, fetchSavedUpdate(2, 2))

	return formatter.NewLibrary(lib.Groups(), e.now()), nil
}

// Export snapshots the library and writes it to opts.Path.
func (e *Engine) Export(ctx context.Context, prog chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}

	lib, err := e.Snapshot(ctx, prog)
	if err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}

	e.sendProgress(prog, exportingUpdate(1, 2, string(opts.Format)))
	path, err := formatter.WriteExport(lib, opts.Format, opts.Path)
	if err != nil {
		return nil, err
	}
	e.sendProgress(prog, exportedUpdate(2, 2, path))
	e.logger.Info("exported library", "path", path, "format", opts.Format)

	return &ExportResult{Path: path, Format: opts.Format, Summary: lib.Summarize()}, nil
}
