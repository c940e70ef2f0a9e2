package views

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/Kryruin/Elice-MiniProject/internal/models"
	"github.com/Kryruin/Elice-MiniProject/internal/progress"
)

// DefaultQuery is what the catalog searches for when it is first shown.
const DefaultQuery = "C++ programming"

// Options configures a view. The zero value is usable.
type Options struct {
	Logger *log.Logger
	// DefaultQuery replaces [DefaultQuery] on mount.
	DefaultQuery string
	// Step is the percent added by an advance. Zero means [progress.DefaultStep].
	Step int
	// Now stamps merged progress records.
	Now func() time.Time
	// Opener opens a URL in the system browser.
	Opener func(url string) error
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.DefaultQuery == "" {
		o.DefaultQuery = DefaultQuery
	}
	if o.Step <= 0 {
		o.Step = progress.DefaultStep
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// LoadError is the user-visible error state of a view.
type LoadError struct {
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Entry is a saved item with its progress overlay.
type Entry struct {
	Item     models.Item           `json:"item"`
	Progress models.ProgressRecord `json:"progress"`
	// Tracked is false when the item has no stored record and Progress is the default.
	Tracked bool `json:"tracked"`
}

// Group is one source section of the library.
type Group struct {
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

func overlay(records models.ProgressMap, id string) (models.ProgressRecord, bool) {
	if rec, ok := records[id]; ok {
		return rec, true
	}
	return progress.Default(), false
}
