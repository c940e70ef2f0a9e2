package main

import (
	"context"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/Kryruin/Elice-MiniProject/internal/formatter"
	"github.com/Kryruin/Elice-MiniProject/internal/models"
	"github.com/Kryruin/Elice-MiniProject/internal/views"
)

// Search runs a catalog search and prints the results with their saved and progress overlays.
//
// With no query it mounts the catalog the way the TUI does, using the configured default query.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	catalog := views.NewCatalogView(r.client, r.viewOptions())

	if query == "" {
		if err := catalog.Mount(ctx); err != nil {
			return err
		}
	} else {
		r.logger.Info("searching videos", "query", query)
		if err := catalog.Search(ctx, query); err != nil {
			return err
		}
		catalog.LoadOverlays(ctx)
	}

	return r.writeCatalog(catalog, cmd)
}

// Trending prints the trending feed.
func (r *Runner) Trending(ctx context.Context, cmd *cli.Command) error {
	catalog := views.NewCatalogView(r.client, r.viewOptions())
	if err := catalog.LoadTrending(ctx); err != nil {
		return err
	}
	catalog.LoadOverlays(ctx)

	return r.writeCatalog(catalog, cmd)
}

func (r *Runner) writeCatalog(catalog *views.CatalogView, cmd *cli.Command) error {
	rows := catalog.Rows()
	if cmd.Bool("json") || cmd.Bool("pretty") {
		return r.writeJSON(rows, cmd.Bool("pretty"))
	}

	if catalog.Mode() == views.ModeTrending {
		r.writePlainHeader("Trending")
	} else {
		r.writePlainHeader("Search: " + catalog.Query())
	}

	if len(rows) == 0 {
		r.writePlain("No videos found.\n")
		return nil
	}

	now := time.Now()
	for i, row := range rows {
		marker := " "
		if row.Saved {
			marker = "★"
		}
		r.writePlain("%2d. %s %s\n", i+1, marker, row.Video.Title)

		meta := []string{row.Video.Channel}
		if ts, err := models.ParseTimestamp(row.Video.PublishedAt); err == nil {
			meta = append(meta, formatter.Updated(ts, now))
		}
		if row.Video.Duration != "" {
			meta = append(meta, row.Video.Duration)
		}
		if row.Tracked {
			meta = append(meta, formatter.StatusLabel(row.Progress))
		}
		r.writePlain("      %s\n", strings.Join(meta, " · "))
		r.writePlain("      %s  (%s)\n", row.Video.URL, row.Video.ID)
	}
	r.writePlainln("%d videos", len(rows))
	return nil
}
