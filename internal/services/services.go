// package services defines the [Collaborator] interface for the learning platform API
// and its HTTP implementation
package services

import (
	"context"

	"github.com/Kryruin/Elice-MiniProject/internal/models"
)

// Catalog finds videos on the external video platform.
type Catalog interface {
	// Search returns videos matching a free-text query.
	Search(ctx context.Context, query string) ([]models.Video, error)

	// Trending returns the platform's trending videos.
	Trending(ctx context.Context) ([]models.Video, error)
}

// SavedStore persists the user's saved items.
type SavedStore interface {
	ListSaved(ctx context.Context) ([]models.Item, error)
	Save(ctx context.Context, item models.Item) error
	Unsave(ctx context.Context, id string) error
}

// ProgressStore persists per-item progress.
type ProgressStore interface {
	ListProgress(ctx context.Context) (models.ProgressMap, error)
	PutProgress(ctx context.Context, id string, record models.ProgressRecord) error
}

// Collaborator is everything the views need from the remote API.
type Collaborator interface {
	Catalog
	SavedStore
	ProgressStore
}
