package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Kryruin/Elice-MiniProject/internal/shared"
	"github.com/Kryruin/Elice-MiniProject/internal/ui"
	"github.com/Kryruin/Elice-MiniProject/internal/views"
)

// TUI launches the interactive catalog and library screens.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.client == nil {
		return fmt.Errorf("%w: api client not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	opts := r.viewOptions()
	model := ui.NewModel(ctx, views.NewCatalogView(r.client, opts), views.NewLibraryView(r.client, opts), fileLogger)

	if err := ui.Run(ctx, model); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
