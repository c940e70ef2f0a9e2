package tasks

import (
	"fmt"

	"github.com/Kryruin/Elice-MiniProject/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchProgress Phase = iota
	FetchSaved
	ApplyProgress
	ExportLibrary
)

func (p Phase) String() string {
	switch p {
	case FetchProgress:
		return "fetch_progress"
	case FetchSaved:
		return "fetch_saved"
	case ApplyProgress:
		return "apply_progress"
	case ExportLibrary:
		return "export_library"
	default:
		return ""
	}
}

func fetchProgressUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchProgress,
		Step:    step,
		Total:   total,
		Message: "Fetching progress records...",
	}
}

func fetchSavedUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSaved,
		Step:    step,
		Total:   total,
		Message: "Fetching saved items...",
	}
}

func exportingUpdate(step, total int, format string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportLibrary,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Writing %s export...", format),
	}
}

func exportedUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportLibrary,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("✓ Exported to %s", path),
		Data:    path,
	}
}

func appliedUpdate(step, total int, id string, rec models.ProgressRecord) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ApplyProgress,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s → %s %d%%", step, total, id, rec.Status, rec.Percent),
		Data:    rec,
	}
}

func applyFailedUpdate(step, total int, id string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ApplyProgress,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, id, err),
	}
}
