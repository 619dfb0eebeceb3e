package handlers

import (
	"context"
	"time"

	"github.com/kiddotube/backend/internal/auth"
	"github.com/kiddotube/backend/internal/models"
	"github.com/kiddotube/backend/internal/profiles"
	"github.com/kiddotube/backend/internal/youtube"
)

// ProfileDirectory captures the profile operations required by HTTP handlers.
type ProfileDirectory interface {
	Get(ctx context.Context, profileID string) (models.Profile, error)
	GetPublic(ctx context.Context, profileID string) (models.PublicProfile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Create(ctx context.Context, avatarID, sillyName, pin string) (models.Profile, error)
	Update(ctx context.Context, profileID string, update profiles.ProfileUpdate) (models.Profile, error)
	AuthenticateParent(ctx context.Context, password string) error
	AuthenticateKid(ctx context.Context, profileID, pin string) (models.PublicProfile, error)
}

// ApprovalManager captures the approval-set operations required by handlers.
type ApprovalManager interface {
	ListCreators(ctx context.Context, profileID string) ([]models.ApprovedCreator, error)
	AddCreator(ctx context.Context, profileID, channelURL string, approveAllVideos bool) (models.ApprovedCreator, error)
	RemoveCreator(ctx context.Context, profileID, channelID string) error
	ListVideos(ctx context.Context, profileID string) ([]models.ApprovedVideo, error)
	AddVideo(ctx context.Context, profileID, videoURL string) (models.ApprovedVideo, error)
	RemoveVideo(ctx context.Context, profileID, videoID string) error
	ListBlocked(ctx context.Context, profileID string) ([]models.BlockedVideo, error)
	Block(ctx context.Context, profileID, videoID, reason string) (models.BlockedVideo, error)
	Unblock(ctx context.Context, profileID, videoID string) error
	Watchable(ctx context.Context, profileID string) ([]models.ApprovedVideo, error)
}

// WatchLedger captures the history operations required by handlers.
type WatchLedger interface {
	Record(ctx context.Context, profileID string, record models.WatchRecord) (models.WatchRecord, error)
	List(ctx context.Context, profileID string, limit int) ([]models.WatchRecord, error)
}

// TokenIssuer mints signed tokens for successful logins.
type TokenIssuer interface {
	Issue(claims auth.Claims, ttl time.Duration) (string, error)
}

// MetadataProvider resolves YouTube lookups for parent-facing previews.
type MetadataProvider interface {
	LookupVideo(ctx context.Context, url string) (youtube.Video, error)
	ChannelVideos(ctx context.Context, channelID string) ([]youtube.Video, error)
}
