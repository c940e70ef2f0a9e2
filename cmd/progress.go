package main

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/Kryruin/Elice-MiniProject/internal/formatter"
	"github.com/Kryruin/Elice-MiniProject/internal/models"
	"github.com/Kryruin/Elice-MiniProject/internal/progress"
	"github.com/Kryruin/Elice-MiniProject/internal/shared"
)

// ProgressList prints every tracked record, sorted by id.
func (r *Runner) ProgressList(ctx context.Context, cmd *cli.Command) error {
	records, err := r.client.ListProgress(ctx)
	if err != nil {
		return fmt.Errorf("failed to list progress: %w", err)
	}

	if cmd.Bool("json") || cmd.Bool("pretty") {
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	if len(records) == 0 {
		r.writePlain("No progress tracked yet.\n")
		return nil
	}
	now := time.Now()
	for _, id := range slices.Sorted(maps.Keys(records)) {
		rec := records[id]
		r.writePlain("%-12s %s %-16s %s\n", id, formatter.Bar(rec.Percent, 20), formatter.StatusLabel(rec), formatter.Updated(rec.UpdatedAt, now))
	}
	return nil
}

// ProgressAdvance moves an item forward by --step percent.
func (r *Runner) ProgressAdvance(ctx context.Context, cmd *cli.Command) error {
	step := int(cmd.Int("step"))
	if step <= 0 {
		step = r.config.Catalog.StepPercent
	}
	if step <= 0 {
		step = progress.DefaultStep
	}
	return r.applyProgress(ctx, cmd, func(current models.ProgressRecord) progress.Partial {
		return progress.Advance(current, step)
	})
}

// ProgressComplete marks an item done.
func (r *Runner) ProgressComplete(ctx context.Context, cmd *cli.Command) error {
	return r.applyProgress(ctx, cmd, func(models.ProgressRecord) progress.Partial {
		return progress.Complete()
	})
}

// ProgressReset sends an item back to zero percent.
func (r *Runner) ProgressReset(ctx context.Context, cmd *cli.Command) error {
	return r.applyProgress(ctx, cmd, func(models.ProgressRecord) progress.Partial {
		return progress.Reset()
	})
}

// ProgressSet writes an explicit percent and/or status.
func (r *Runner) ProgressSet(ctx context.Context, cmd *cli.Command) error {
	partial, err := partialFromFlags(cmd)
	if err != nil {
		return err
	}
	return r.applyProgress(ctx, cmd, func(models.ProgressRecord) progress.Partial {
		return partial
	})
}

// partialFromFlags reads --percent and --status into a partial update.
func partialFromFlags(cmd *cli.Command) (progress.Partial, error) {
	var partial progress.Partial
	if cmd.IsSet("percent") {
		partial = progress.Percent(progress.Clamp(int(cmd.Int("percent"))))
	}
	if raw := cmd.String("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			return progress.Partial{}, fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
		}
		partial.Status = &status
	}
	if partial.Percent == nil && partial.Status == nil {
		return progress.Partial{}, fmt.Errorf("%w: --percent or --status is required", shared.ErrMissingArgument)
	}
	return partial, nil
}

// applyProgress fetches the current record for the id argument, merges the partial built
// from it and writes the result.
func (r *Runner) applyProgress(ctx context.Context, cmd *cli.Command, build func(models.ProgressRecord) progress.Partial) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: item id is required", shared.ErrMissingArgument)
	}

	records, err := r.client.ListProgress(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch progress: %w", err)
	}
	current := progress.Lookup(records, id)
	next := progress.Merge(current, build(current), time.Now())

	if err := r.client.PutProgress(ctx, id, next); err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	r.logger.Debug("progress updated", "id", id, "status", next.Status, "percent", next.Percent)
	r.writePlain("✓ %s %s %s\n", id, formatter.Bar(next.Percent, 20), formatter.StatusLabel(next))
	return nil
}
