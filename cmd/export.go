package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Kryruin/Elice-MiniProject/internal/formatter"
	"github.com/Kryruin/Elice-MiniProject/internal/tasks"
)

// Export writes the library to a file in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	progressCh, done := r.printUpdates()
	result, err := r.engine.Export(ctx, progressCh, tasks.ExportOpts{Format: format, Path: cmd.String("output")})
	close(progressCh)
	<-done

	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("File: %s (%s)\n", result.Path, result.Format)
	r.writePlain("Items: %d (%d done, %d in progress, %d not started)\n",
		result.Summary.Items, result.Summary.Done, result.Summary.InProgress, result.Summary.NotStarted)
	return nil
}

// printUpdates drains engine progress to the output. done closes once the channel is closed and drained.
func (r *Runner) printUpdates() (chan tasks.ProgressUpdate, <-chan struct{}) {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchProgress, tasks.FetchSaved:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ApplyProgress:
				r.writePlain("   %s\n", update.Message)
			case tasks.ExportLibrary:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()
	return progressCh, done
}
