package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// SourceYouTube is the source tag of items that come from the video platform.
const SourceYouTube = "youtube"

// SourceOther is the group label for items without a source tag.
const SourceOther = "other"

// Item represents any learnable unit in the saved list.
type Item struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`
	Year   string `json:"year,omitempty"`
	Source string `json:"source,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Group returns the grouping key for the item: its source, or [SourceOther] when absent.
func (i Item) Group() string {
	if s := strings.TrimSpace(i.Source); s != "" {
		return s
	}
	return SourceOther
}

// UnmarshalJSON accepts a year encoded as string, number or null and a null author.
func (i *Item) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     string          `json:"id"`
		Title  string          `json:"title"`
		Author *string         `json:"author"`
		Year   json.RawMessage `json:"year"`
		Source *string         `json:"source"`
		URL    *string         `json:"url"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	year, err := decodeYear(raw.Year)
	if err != nil {
		return fmt.Errorf("item %q: %w", raw.ID, err)
	}

	*i = Item{ID: raw.ID, Title: raw.Title, Year: year}
	if raw.Author != nil {
		i.Author = *raw.Author
	}
	if raw.Source != nil {
		i.Source = *raw.Source
	}
	if raw.URL != nil {
		i.URL = *raw.URL
	}
	return nil
}

func decodeYear(raw json.RawMessage) (string, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return "", nil
	}
	if strings.HasPrefix(s, `"`) {
		var out string
		if err := json.Unmarshal(raw, &out); err != nil {
			return "", err
		}
		return out, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("invalid year %s", s)
	}
	return strconv.FormatInt(int64(n), 10), nil
}

// Video is a search or trending result.
type Video struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Channel     string `json:"channel"`
	PublishedAt string `json:"publishedAt"`
	Duration    string `json:"duration,omitempty"`
	URL         string `json:"url"`
	Source      string `json:"source"`
}

// Item converts the video into the saved-list entry posted when the user saves it.
func (v Video) Item() Item {
	item := Item{
		ID:     v.ID,
		Title:  v.Title,
		Author: v.Channel,
		Source: SourceYouTube,
		URL:    v.URL,
	}
	if ts, err := ParseTimestamp(v.PublishedAt); err == nil {
		item.Year = strconv.Itoa(ts.Year())
	}
	return item
}

// Status is the tracked state of a progress record.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ParseStatus accepts the wire values plus the spellings people type on a command line.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(s))) {
	case "not_started", "new":
		return StatusNotStarted, nil
	case "in_progress", "started", "watching":
		return StatusInProgress, nil
	case "done", "complete", "completed":
		return StatusDone, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// ProgressRecord is the tracked progress of one item.
type ProgressRecord struct {
	Status    Status    `json:"status"`
	Percent   int       `json:"percent"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UnmarshalJSON rounds float percents and accepts zone-less timestamps.
func (p *ProgressRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Status    Status  `json:"status"`
		Percent   float64 `json:"percent"`
		UpdatedAt string  `json:"updatedAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = ProgressRecord{Status: raw.Status, Percent: int(math.Round(raw.Percent))}
	if p.Status == "" {
		p.Status = StatusNotStarted
	}
	if raw.UpdatedAt != "" {
		ts, err := ParseTimestamp(raw.UpdatedAt)
		if err != nil {
			return err
		}
		p.UpdatedAt = ts
	}
	return nil
}

// ProgressMap maps item ids to their progress.
type ProgressMap map[string]ProgressRecord

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses RFC 3339 timestamps, treating zone-less values as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
