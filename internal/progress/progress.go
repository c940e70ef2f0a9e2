// Package progress holds the rules for moving an item's watch progress between
// not_started, in_progress and done.
//
// Everything here is pure: callers fetch the current record, build a [Partial] with one of
// the helpers, call [Merge] and persist the result themselves.
package progress

import (
	"time"

	"github.com/Kryruin/Elice-MiniProject/internal/models"
)

// DefaultStep is how far a single "advance" moves an item.
const DefaultStep = 25

// Partial is a progress update where nil fields keep their current value.
type Partial struct {
	Status  *models.Status
	Percent *int
}

// Default is the record of an item that has never been tracked.
func Default() models.ProgressRecord {
	return models.ProgressRecord{Status: models.StatusNotStarted, Percent: 0}
}

// Lookup returns the record for id, or [Default] when the item is untracked.
func Lookup(records models.ProgressMap, id string) models.ProgressRecord {
	if rec, ok := records[id]; ok {
		return rec
	}
	return Default()
}

// Merge applies partial to current and stamps the result with now.
//
// Reaching 100 percent, or asking for done, always yields done. Otherwise an explicit
// status wins, then the current one. Without an explicit status, an item with a positive
// percent is never left not_started. Percent is not clamped.
func Merge(current models.ProgressRecord, partial Partial, now time.Time) models.ProgressRecord {
	percent := current.Percent
	if partial.Percent != nil {
		percent = *partial.Percent
	}

	status := current.Status
	switch {
	case partial.Status != nil && *partial.Status == models.StatusDone, percent >= 100:
		status = models.StatusDone
	case partial.Status != nil:
		status = *partial.Status
	}
	if partial.Status == nil && status == models.StatusNotStarted && percent > 0 {
		status = models.StatusInProgress
	}

	return models.ProgressRecord{Status: status, Percent: percent, UpdatedAt: now}
}

// Percent builds a partial that only sets the percent.
func Percent(p int) Partial {
	return Partial{Percent: &p}
}

// Set builds a partial that sets both fields.
func Set(status models.Status, percent int) Partial {
	return Partial{Status: &status, Percent: &percent}
}

// Status builds a partial that only sets the status.
func Status(status models.Status) Partial {
	return Partial{Status: &status}
}

// Advance moves current forward by step percent, stopping at 100.
func Advance(current models.ProgressRecord, step int) Partial {
	if step <= 0 {
		step = DefaultStep
	}
	return Percent(min(100, current.Percent+step))
}

// Reset sends an item back to the start. It is the only way out of done.
func Reset() Partial {
	return Set(models.StatusInProgress, 0)
}

// Complete marks an item as fully watched.
func Complete() Partial {
	return Set(models.StatusDone, 100)
}

// ToggleComplete resets a done item and completes anything else.
func ToggleComplete(current models.ProgressRecord) Partial {
	if current.Status == models.StatusDone {
		return Reset()
	}
	return Complete()
}

// Clamp bounds a user-supplied percent to [0, 100].
func Clamp(p int) int {
	return max(0, min(100, p))
}
