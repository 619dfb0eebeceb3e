package repositories

import (
	"context"

	"github.com/kiddotube/backend/internal/models"
)

// HistoryRepository defines the data access contract for watch history.
type HistoryRepository interface {
	// Append stores a new watch record for the profile.
	Append(ctx context.Context, profileID string, record models.WatchRecord) error
	// List returns records most-recent-first, at most limit entries.
	List(ctx context.Context, profileID string, limit int) ([]models.WatchRecord, error)
	// Trim drops the oldest records so at most keep remain.
	Trim(ctx context.Context, profileID string, keep int) error
}
