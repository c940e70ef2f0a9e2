package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/Kryruin/Elice-MiniProject/internal/models"
	"github.com/Kryruin/Elice-MiniProject/internal/registry"
	"github.com/Kryruin/Elice-MiniProject/internal/shared"
)

// SavedList prints the saved list in server order.
func (r *Runner) SavedList(ctx context.Context, cmd *cli.Command) error {
	items, err := r.client.ListSaved(ctx)
	if err != nil {
		return fmt.Errorf("failed to list saved items: %w", err)
	}

	if cmd.Bool("json") || cmd.Bool("pretty") {
		return r.writeJSON(items, cmd.Bool("pretty"))
	}

	if len(items) == 0 {
		r.writePlain("Nothing saved yet.\n")
		return nil
	}
	for _, item := range items {
		r.writePlain("%-12s %s [%s]\n", item.ID, item.Title, item.Group())
	}
	return nil
}

// SavedAdd saves an item built from the flags.
func (r *Runner) SavedAdd(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: item id is required", shared.ErrMissingArgument)
	}

	item := models.Item{
		ID:     id,
		Title:  strings.TrimSpace(cmd.String("title")),
		Author: cmd.String("author"),
		Year:   cmd.String("year"),
		Source: cmd.String("source"),
		URL:    cmd.String("url"),
	}
	if item.Title == "" {
		return fmt.Errorf("%w: --title must not be blank", shared.ErrInvalidInput)
	}

	if err := registry.New(r.client, r.logger).Save(ctx, item); err != nil {
		return err
	}
	r.writePlain("✓ Saved %s (%s)\n", item.Title, item.ID)
	return nil
}

// SavedRemove drops an item from the saved list. Its progress record is kept.
func (r *Runner) SavedRemove(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: item id is required", shared.ErrMissingArgument)
	}

	if err := registry.New(r.client, r.logger).Unsave(ctx, id); err != nil {
		return err
	}
	r.writePlain("✓ Removed %s\n", id)
	return nil
}
