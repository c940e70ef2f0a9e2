package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Kryruin/Elice-MiniProject/internal/formatter"
	"github.com/Kryruin/Elice-MiniProject/internal/tasks"
)

type bulkItemJSON struct {
	ID      string `json:"id"`
	Status  string `json:"status,omitempty"`
	Percent int    `json:"percent"`
	Error   string `json:"error,omitempty"`
}

// Bulk applies one percent/status update to every id in --ids.
func (r *Runner) Bulk(ctx context.Context, cmd *cli.Command) error {
	partial, err := partialFromFlags(cmd)
	if err != nil {
		return err
	}

	opts := tasks.BulkOpts{NumWorkers: r.config.Tasks.Workers, RateLimit: r.config.Tasks.RateLimit}
	if cmd.IsSet("workers") {
		opts.NumWorkers = int(cmd.Int("workers"))
	}
	if cmd.IsSet("rate") {
		opts.RateLimit = cmd.Float("rate")
	}
	ids := cmd.StringSlice("ids")

	if cmd.Bool("json") {
		result, err := r.engine.ApplyBulk(ctx, nil, ids, partial, opts)
		if err != nil {
			return err
		}
		items := make([]bulkItemJSON, 0, len(result.Results))
		for _, res := range result.Results {
			item := bulkItemJSON{ID: res.ID}
			if res.Error != nil {
				item.Error = res.Error.Error()
			} else {
				item.Status = string(res.Record.Status)
				item.Percent = res.Record.Percent
			}
			items = append(items, item)
		}
		return r.writeJSON(map[string]any{
			"total":     result.Total,
			"succeeded": result.Succeeded,
			"failed":    result.Failed,
			"results":   items,
		}, false)
	}

	r.logger.Info("starting bulk update", "ids", len(ids), "workers", opts.NumWorkers)
	progressCh, done := r.printUpdates()
	result, err := r.engine.ApplyBulk(ctx, progressCh, ids, partial, opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Bulk Update Complete!")
	r.writePlain("Updated: %d/%d\n", result.Succeeded, result.Total)
	for _, res := range result.Results {
		if res.Error != nil {
			r.writePlain("  ✗ %s: %v\n", res.ID, res.Error)
			continue
		}
		r.writePlain("  ✓ %-12s %s %s\n", res.ID, formatter.Bar(res.Record.Percent, 20), formatter.StatusLabel(res.Record))
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d updates failed", result.Failed, result.Total)
	}
	return nil
}
