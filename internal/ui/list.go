package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"

	"github.com/Kryruin/Elice-MiniProject/internal/formatter"
	"github.com/Kryruin/Elice-MiniProject/internal/views"
)

var (
	_ list.Item = videoItem{}
	_ list.Item = entryItem{}
)

// videoItem wraps [views.CatalogRow] to implement [list.Item].
type videoItem struct {
	row views.CatalogRow
}

func (i videoItem) FilterValue() string { return i.row.Video.Title }
func (i videoItem) Title() string {
	if i.row.Saved {
		return "★ " + i.row.Video.Title
	}
	return i.row.Video.Title
}
func (i videoItem) Description() string {
	parts := []string{i.row.Video.Channel}
	if i.row.Video.Duration != "" {
		parts = append(parts, i.row.Video.Duration)
	}
	if i.row.Tracked {
		parts = append(parts, formatter.StatusLabel(i.row.Progress))
	}
	return strings.Join(parts, " • ")
}

// entryItem wraps [views.Entry] to implement [list.Item].
type entryItem struct {
	group string
	entry views.Entry
	now   time.Time
}

func (i entryItem) FilterValue() string { return i.entry.Item.Title }
func (i entryItem) Title() string       { return i.entry.Item.Title }
func (i entryItem) Description() string {
	desc := fmt.Sprintf("%s • %s %s", i.group, formatter.Bar(i.entry.Progress.Percent, 10), formatter.StatusLabel(i.entry.Progress))
	if i.entry.Item.Author != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.entry.Item.Author)
	}
	if i.entry.Tracked && !i.entry.Progress.UpdatedAt.IsZero() {
		desc = fmt.Sprintf("%s • updated %s", desc, formatter.Updated(i.entry.Progress.UpdatedAt, i.now))
	}
	return desc
}
