package approvals

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kiddotube/backend/internal/logging"
	"github.com/kiddotube/backend/internal/models"
	"github.com/kiddotube/backend/internal/repositories"
	"github.com/kiddotube/backend/internal/youtube"
)

// Engine maintains the per-profile approval sets (approved creators, approved
// videos, blocked videos) and computes the effective watchable set.
type Engine struct {
	profiles repositories.ProfileRepository
	store    repositories.ApprovalRepository
	metadata youtube.Provider

	fetchTimeout time.Duration
	nowFunc      func() time.Time
}

// NewEngine constructs an Engine. fetchTimeout bounds each creator upload
// lookup during watchable computation.
func NewEngine(profiles repositories.ProfileRepository, store repositories.ApprovalRepository, metadata youtube.Provider, fetchTimeout time.Duration) *Engine {
	if profiles == nil || store == nil {
		panic("approvals: profile and approval repositories must not be nil")
	}
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	return &Engine{
		profiles:     profiles,
		store:        store,
		metadata:     metadata,
		fetchTimeout: fetchTimeout,
		nowFunc:      func() time.Time { return time.Now().UTC() },
	}
}

// ListCreators returns the profile's approved creators.
func (e *Engine) ListCreators(ctx context.Context, profileID string) ([]models.ApprovedCreator, error) {
	if err := e.requireProfile(ctx, profileID); err != nil {
		return nil, err
	}
	return e.store.ListCreators(ctx, profileID)
}

// AddCreator resolves the channel URL through the metadata provider and
// stores a creator grant. Adding a channel that is already approved fails
// with repositories.ErrConflict.
func (e *Engine) AddCreator(ctx context.Context, profileID, channelURL string, approveAllVideos bool) (models.ApprovedCreator, error) {
	if err := e.requireProfile(ctx, profileID); err != nil {
		return models.ApprovedCreator{}, err
	}
	if e.metadata == nil {
		return models.ApprovedCreator{}, youtube.ErrProviderUnavailable
	}

	channel, err := e.metadata.LookupChannel(ctx, channelURL)
	if err != nil {
		return models.ApprovedCreator{}, fmt.Errorf("resolve channel: %w", err)
	}

	creator := models.ApprovedCreator{
		ChannelID:        channel.ChannelID,
		ChannelName:      channel.ChannelName,
		ChannelThumbnail: channel.ChannelThumbnail,
		ApproveAllVideos: approveAllVideos,
		AddedAt:          e.nowFunc(),
	}

	if err := e.store.AddCreator(ctx, profileID, creator); err != nil {
		return models.ApprovedCreator{}, err
	}
	return creator, nil
}

// RemoveCreator revokes a creator grant.
func (e *Engine) RemoveCreator(ctx context.Context, profileID, channelID string) error {
	if err := e.requireProfile(ctx, profileID); err != nil {
		return err
	}
	return e.store.RemoveCreator(ctx, profileID, channelID)
}

// ListVideos returns the profile's individually approved videos, most
// recently approved first.
func (e *Engine) ListVideos(ctx context.Context, profileID string) ([]models.ApprovedVideo, error) {
	if err := e.requireProfile(ctx, profileID); err != nil {
		return nil, err
	}
	return e.store.ListVideos(ctx, profileID)
}

// AddVideo resolves the video URL through the metadata provider and stores an
// individual approval. Adding a video that is already approved fails with
// repositories.ErrConflict.
func (e *Engine) AddVideo(ctx context.Context, profileID, videoURL string) (models.ApprovedVideo, error) {
	if err := e.requireProfile(ctx, profileID); err != nil {
		return models.ApprovedVideo{}, err
	}
	if e.metadata == nil {
		return models.ApprovedVideo{}, youtube.ErrProviderUnavailable
	}

	info, err := e.metadata.LookupVideo(ctx, videoURL)
	if err != nil {
		return models.ApprovedVideo{}, fmt.Errorf("resolve video: %w", err)
	}

	video := models.ApprovedVideo{
		VideoID:     info.VideoID,
		Title:       info.Title,
		Thumbnail:   info.Thumbnail,
		ChannelName: info.ChannelName,
		ChannelID:   info.ChannelID,
		Duration:    info.Duration,
		AddedAt:     e.nowFunc(),
		Source:      models.VideoSourceManual,
	}

	if err := e.store.AddVideo(ctx, profileID, video); err != nil {
		return models.ApprovedVideo{}, err
	}
	return video, nil
}

// RemoveVideo revokes an individual approval.
func (e *Engine) RemoveVideo(ctx context.Context, profileID, videoID string) error {
	if err := e.requireProfile(ctx, profileID); err != nil {
		return err
	}
	return e.store.RemoveVideo(ctx, profileID, videoID)
}

// ListBlocked returns the profile's blocked videos.
func (e *Engine) ListBlocked(ctx context.Context, profileID string) ([]models.BlockedVideo, error) {
	if err := e.requireProfile(ctx, profileID); err != nil {
		return nil, err
	}
	return e.store.ListBlocked(ctx, profileID)
}

// Block marks a video as unavailable for the profile. Blocking a video that
// is already blocked refreshes the reason and timestamp rather than failing;
// a block always wins over any approval covering the same video.
func (e *Engine) Block(ctx context.Context, profileID, videoID, reason string) (models.BlockedVideo, error) {
	if err := e.requireProfile(ctx, profileID); err != nil {
		return models.BlockedVideo{}, err
	}

	blocked := models.BlockedVideo{
		VideoID:   videoID,
		Reason:    reason,
		BlockedAt: e.nowFunc(),
	}
	if err := e.store.UpsertBlocked(ctx, profileID, blocked); err != nil {
		return models.BlockedVideo{}, err
	}
	return blocked, nil
}

// Unblock lifts a block.
func (e *Engine) Unblock(ctx context.Context, profileID, videoID string) error {
	if err := e.requireProfile(ctx, profileID); err != nil {
		return err
	}
	return e.store.RemoveBlocked(ctx, profileID, videoID)
}

// Watchable computes the profile's effective watchable set: individually
// approved videos unioned with the current uploads of every creator granted
// approveAllVideos, minus blocked videos. Individually approved entries win
// metadata conflicts and sort first (most recently approved leading);
// creator-sourced entries follow in the provider's own upload order. A
// failing creator lookup is logged and skipped, never failing the whole
// computation.
func (e *Engine) Watchable(ctx context.Context, profileID string) ([]models.ApprovedVideo, error) {
	if err := e.requireProfile(ctx, profileID); err != nil {
		return nil, err
	}

	ctx, span := logging.StartSpan(ctx, "approvals.watchable")
	defer span.End()

	approved, err := e.store.ListVideos(ctx, profileID)
	if err != nil {
		return nil, err
	}
	creators, err := e.store.ListCreators(ctx, profileID)
	if err != nil {
		return nil, err
	}
	blocked, err := e.store.ListBlocked(ctx, profileID)
	if err != nil {
		return nil, err
	}

	uploads := e.fetchCreatorUploads(ctx, creators)

	blockedIDs := make(map[string]struct{}, len(blocked))
	for _, record := range blocked {
		blockedIDs[record.VideoID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(approved))
	watchable := make([]models.ApprovedVideo, 0, len(approved))

	for _, video := range approved {
		if _, isBlocked := blockedIDs[video.VideoID]; isBlocked {
			continue
		}
		if _, dup := seen[video.VideoID]; dup {
			continue
		}
		seen[video.VideoID] = struct{}{}
		watchable = append(watchable, video)
	}

	for _, batch := range uploads {
		for _, video := range batch {
			if _, isBlocked := blockedIDs[video.VideoID]; isBlocked {
				continue
			}
			if _, dup := seen[video.VideoID]; dup {
				continue
			}
			seen[video.VideoID] = struct{}{}
			watchable = append(watchable, models.ApprovedVideo{
				VideoID:     video.VideoID,
				Title:       video.Title,
				Thumbnail:   video.Thumbnail,
				ChannelName: video.ChannelName,
				ChannelID:   video.ChannelID,
				Duration:    video.Duration,
				Source:      models.VideoSourceCreator,
			})
		}
	}

	return watchable, nil
}

// fetchCreatorUploads resolves upload lists for every creator with a standing
// grant, concurrently and with independent failure. The returned slice is
// indexed by creator position so result ordering stays deterministic.
func (e *Engine) fetchCreatorUploads(ctx context.Context, creators []models.ApprovedCreator) [][]youtube.Video {
	uploads := make([][]youtube.Video, len(creators))
	if e.metadata == nil {
		return uploads
	}

	var wg sync.WaitGroup
	for i, creator := range creators {
		if !creator.ApproveAllVideos {
			continue
		}

		wg.Add(1)
		go func(i int, creator models.ApprovedCreator) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
			defer cancel()

			videos, err := e.metadata.ChannelVideos(fetchCtx, creator.ChannelID)
			if err != nil {
				logging.FromContext(ctx).Warn("creator upload lookup failed",
					"channelId", creator.ChannelID,
					"channelName", creator.ChannelName,
					"error", err,
				)
				return
			}
			uploads[i] = videos
		}(i, creator)
	}
	wg.Wait()

	return uploads
}

func (e *Engine) requireProfile(ctx context.Context, profileID string) error {
	exists, err := e.profiles.Exists(ctx, profileID)
	if err != nil {
		return fmt.Errorf("check profile: %w", err)
	}
	if !exists {
		return repositories.ErrNotFound
	}
	return nil
}

// WithNowFunc overrides the time source. Useful for tests.
func (e *Engine) WithNowFunc(now func() time.Time) {
	e.nowFunc = now
}
