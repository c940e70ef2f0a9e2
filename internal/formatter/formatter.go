// package formatter renders library snapshots as CSV, Markdown, plain text, JSON or YAML
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/Kryruin/Elice-MiniProject/internal/models"
	"github.com/Kryruin/Elice-MiniProject/internal/shared"
	"github.com/Kryruin/Elice-MiniProject/internal/views"
)

// Format is an export file format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatMarkdown, FormatText, FormatJSON, FormatYAML}

// ParseFormat accepts a format name or a common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
}

// Ext returns the file extension for f.
func (f Format) Ext() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// Library is a grouped snapshot of the saved list.
type Library struct {
	GeneratedAt time.Time
	Groups      []views.Group
}

// NewLibrary snapshots groups at now.
func NewLibrary(groups []views.Group, now time.Time) *Library {
	return &Library{GeneratedAt: now, Groups: groups}
}

// Summary counts library items by status.
type Summary struct {
	Items      int `json:"items" yaml:"items"`
	NotStarted int `json:"notStarted" yaml:"not_started"`
	InProgress int `json:"inProgress" yaml:"in_progress"`
	Done       int `json:"done" yaml:"done"`
}

// Summarize counts the entries of lib.
func (lib *Library) Summarize() Summary {
	var s Summary
	for _, g := range lib.Groups {
		for _, e := range g.Entries {
			s.Items++
			switch e.Progress.Status {
			case models.StatusDone:
				s.Done++
			case models.StatusInProgress:
				s.InProgress++
			default:
				s.NotStarted++
			}
		}
	}
	return s
}

// Row is the flat, serialized form of one library entry.
type Row struct {
	Group     string        `json:"group" yaml:"group"`
	ID        string        `json:"id" yaml:"id"`
	Title     string        `json:"title" yaml:"title"`
	Author    string        `json:"author,omitempty" yaml:"author,omitempty"`
	Year      string        `json:"year,omitempty" yaml:"year,omitempty"`
	Source    string        `json:"source,omitempty" yaml:"source,omitempty"`
	URL       string        `json:"url,omitempty" yaml:"url,omitempty"`
	Status    models.Status `json:"status" yaml:"status"`
	Percent   int           `json:"percent" yaml:"percent"`
	UpdatedAt *time.Time    `json:"updatedAt,omitempty" yaml:"updated_at,omitempty"`
}

// DocumentGroup is one source section of a [Document].
type DocumentGroup struct {
	Name  string `json:"name" yaml:"name"`
	Items []Row  `json:"items" yaml:"items"`
}

// Document is the structure written by the JSON and YAML exporters.
type Document struct {
	GeneratedAt time.Time       `json:"generatedAt" yaml:"generated_at"`
	Summary     Summary         `json:"summary" yaml:"summary"`
	Groups      []DocumentGroup `json:"groups" yaml:"groups"`
}

func toRow(group string, e views.Entry) Row {
	row := Row{
		Group:   group,
		ID:      e.Item.ID,
		Title:   e.Item.Title,
		Author:  e.Item.Author,
		Year:    e.Item.Year,
		Source:  e.Item.Source,
		URL:     e.Item.URL,
		Status:  e.Progress.Status,
		Percent: e.Progress.Percent,
	}
	if e.Tracked && !e.Progress.UpdatedAt.IsZero() {
		ts := e.Progress.UpdatedAt.UTC()
		row.UpdatedAt = &ts
	}
	return row
}

// Document builds the serializable form of lib.
func (lib *Library) Document() Document {
	doc := Document{GeneratedAt: lib.GeneratedAt.UTC(), Summary: lib.Summarize(), Groups: []DocumentGroup{}}
	for _, g := range lib.Groups {
		dg := DocumentGroup{Name: g.Name, Items: make([]Row, 0, len(g.Entries))}
		for _, e := range g.Entries {
			dg.Items = append(dg.Items, toRow(g.Name, e))
		}
		doc.Groups = append(doc.Groups, dg)
	}
	return doc
}

// ExportToCSV writes one row per entry with columns Group, ID, Title, Author, Year, Source, URL, Status, Percent, UpdatedAt
func ExportToCSV(lib *Library) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Group", "ID", "Title", "Author", "Year", "Source", "URL", "Status", "Percent", "UpdatedAt"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, g := range lib.Groups {
		for _, e := range g.Entries {
			row := toRow(g.Name, e)
			updated := ""
			if row.UpdatedAt != nil {
				updated = row.UpdatedAt.Format(time.RFC3339)
			}
			record := []string{
				row.Group,
				row.ID,
				row.Title,
				row.Author,
				row.Year,
				row.Source,
				row.URL,
				string(row.Status),
				strconv.Itoa(row.Percent),
				updated,
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a heading per group and a numbered list of entries
func ExportToMarkdown(lib *Library) ([]byte, error) {
	var buf bytes.Buffer
	s := lib.Summarize()

	buf.WriteString("# Library\n\n")
	fmt.Fprintf(&buf, "**Items**: %d\n", s.Items)
	fmt.Fprintf(&buf, "**Done**: %d · **In progress**: %d · **Not started**: %d\n\n", s.Done, s.InProgress, s.NotStarted)

	for _, g := range lib.Groups {
		fmt.Fprintf(&buf, "## %s\n\n", g.Name)
		for i, e := range g.Entries {
			title := e.Item.Title
			if e.Item.URL != "" {
				title = fmt.Sprintf("[%s](%s)", e.Item.Title, e.Item.URL)
			}
			fmt.Fprintf(&buf, "%d. %s%s - %s\n", i+1, title, byline(e.Item), StatusLabel(e.Progress))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText renders the library as indented plain text with progress bars
func ExportToText(lib *Library) ([]byte, error) {
	var buf bytes.Buffer
	s := lib.Summarize()

	fmt.Fprintf(&buf, "Library: %d items (%d done)\n", s.Items, s.Done)
	for _, g := range lib.Groups {
		fmt.Fprintf(&buf, "\n%s (%d)\n", g.Name, len(g.Entries))
		for _, e := range g.Entries {
			fmt.Fprintf(&buf, "  %s %3d%%  %s%s", Bar(e.Progress.Percent, 10), e.Progress.Percent, e.Item.Title, byline(e.Item))
			if e.Tracked && !e.Progress.UpdatedAt.IsZero() {
				fmt.Fprintf(&buf, "  (updated %s)", Updated(e.Progress.UpdatedAt, lib.GeneratedAt))
			}
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the library [Document] as indented JSON
func ExportToJSON(lib *Library) ([]byte, error) {
	data, err := json.MarshalIndent(lib.Document(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToYAML renders the library [Document] as YAML
func ExportToYAML(lib *Library) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(lib.Document()); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// Render dispatches to the exporter for format.
func Render(lib *Library, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(lib)
	case FormatMarkdown:
		return ExportToMarkdown(lib)
	case FormatText:
		return ExportToText(lib)
	case FormatJSON:
		return ExportToJSON(lib)
	case FormatYAML:
		return ExportToYAML(lib)
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
}

// WriteExport renders lib and writes it to path.
//
// Defaults to library.{ext} in the working directory. Parent directories are created.
func WriteExport(lib *Library, format Format, path string) (string, error) {
	if path == "" {
		path = "library." + format.Ext()
	}

	data, err := Render(lib, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}

// Bar draws a fixed-width text progress bar.
func Bar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	filled := max(0, min(width, percent*width/100))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// StatusLabel renders a record as e.g. "in progress 25%".
func StatusLabel(rec models.ProgressRecord) string {
	switch rec.Status {
	case models.StatusDone:
		return "done"
	case models.StatusInProgress:
		return fmt.Sprintf("in progress %d%%", rec.Percent)
	}
	return "not started"
}

// Updated humanizes ts relative to now, e.g. "3 hours ago".
func Updated(ts, now time.Time) string {
	if ts.IsZero() {
		return "never"
	}
	return humanize.RelTime(ts, now, "ago", "from now")
}

func byline(item models.Item) string {
	var parts []string
	if item.Author != "" {
		parts = append(parts, item.Author)
	}
	if item.Year != "" {
		parts = append(parts, item.Year)
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
