package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/Kryruin/Elice-MiniProject/internal/formatter"
	"github.com/Kryruin/Elice-MiniProject/internal/views"
)

// Library prints the saved list grouped by source with each item's progress.
//
// --filter switches to a flat, fuzzy-ranked list.
func (r *Runner) Library(ctx context.Context, cmd *cli.Command) error {
	lib := views.NewLibraryView(r.client, r.viewOptions())
	if err := lib.Load(ctx); err != nil {
		return err
	}

	if query := strings.TrimSpace(cmd.String("filter")); query != "" {
		entries := lib.Filter(query)
		if cmd.Bool("json") || cmd.Bool("pretty") {
			return r.writeJSON(entries, cmd.Bool("pretty"))
		}
		r.writePlainHeader(fmt.Sprintf("Library matching %q", query))
		if len(entries) == 0 {
			r.writePlain("No matches.\n")
			return nil
		}
		now := time.Now()
		for _, e := range entries {
			r.writeEntry(e, now)
		}
		return nil
	}

	doc := formatter.NewLibrary(lib.Groups(), time.Now())
	if cmd.Bool("json") || cmd.Bool("pretty") {
		return r.writeJSON(doc.Document(), cmd.Bool("pretty"))
	}
	if lib.Len() == 0 {
		r.writePlain("Nothing saved yet.\n")
		return nil
	}

	text, err := formatter.ExportToText(doc)
	if err != nil {
		return err
	}
	_, err = r.output.Write(text)
	return err
}

func (r *Runner) writeEntry(e views.Entry, now time.Time) {
	r.writePlain("%-12s %s\n", e.Item.ID, e.Item.Title)
	line := formatter.Bar(e.Progress.Percent, 20) + " " + formatter.StatusLabel(e.Progress)
	if e.Tracked {
		line += " · " + formatter.Updated(e.Progress.UpdatedAt, now)
	}
	r.writePlain("             %s\n", line)
}
