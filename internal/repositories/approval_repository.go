package repositories

import (
	"context"

	"github.com/kiddotube/backend/internal/models"
)

// ApprovalRepository defines the data access contract for a profile's
// approved creators, approved videos, and blocked videos.
//
// Add operations return ErrConflict when the (profileId, id) pair already
// exists; UpsertBlocked refreshes reason and timestamp instead. Remove
// operations return ErrNotFound when nothing matched.
type ApprovalRepository interface {
	ListCreators(ctx context.Context, profileID string) ([]models.ApprovedCreator, error)
	AddCreator(ctx context.Context, profileID string, creator models.ApprovedCreator) error
	RemoveCreator(ctx context.Context, profileID, channelID string) error

	ListVideos(ctx context.Context, profileID string) ([]models.ApprovedVideo, error)
	AddVideo(ctx context.Context, profileID string, video models.ApprovedVideo) error
	RemoveVideo(ctx context.Context, profileID, videoID string) error

	ListBlocked(ctx context.Context, profileID string) ([]models.BlockedVideo, error)
	UpsertBlocked(ctx context.Context, profileID string, blocked models.BlockedVideo) error
	RemoveBlocked(ctx context.Context, profileID, videoID string) error
}
