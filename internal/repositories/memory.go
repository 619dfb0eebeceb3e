package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/kiddotube/backend/internal/models"
)

// memoryCore holds the shared state behind the in-memory repositories.
type memoryCore struct {
	mu       sync.RWMutex
	profiles map[string]models.Profile
	creators map[string][]models.ApprovedCreator
	videos   map[string][]models.ApprovedVideo
	blocked  map[string][]models.BlockedVideo
	watches  map[string][]models.WatchRecord
}

// MemoryRepositories bundles map-backed repositories for tests and local
// development.
type MemoryRepositories struct {
	Profiles  *MemoryProfileRepository
	Approvals *MemoryApprovalRepository
	History   *MemoryHistoryRepository
}

// NewMemoryRepositories constructs an empty in-memory data set.
func NewMemoryRepositories() *MemoryRepositories {
	core := &memoryCore{
		profiles: make(map[string]models.Profile),
		creators: make(map[string][]models.ApprovedCreator),
		videos:   make(map[string][]models.ApprovedVideo),
		blocked:  make(map[string][]models.BlockedVideo),
		watches:  make(map[string][]models.WatchRecord),
	}
	return &MemoryRepositories{
		Profiles:  &MemoryProfileRepository{core: core},
		Approvals: &MemoryApprovalRepository{core: core},
		History:   &MemoryHistoryRepository{core: core},
	}
}

// MemoryProfileRepository implements ProfileRepository over a map.
type MemoryProfileRepository struct {
	core *memoryCore
}

// Get fetches a profile by id.
func (r *MemoryProfileRepository) Get(_ context.Context, profileID string) (models.Profile, error) {
	r.core.mu.RLock()
	defer r.core.mu.RUnlock()
	profile, ok := r.core.profiles[profileID]
	if !ok {
		return models.Profile{}, ErrNotFound
	}
	return profile, nil
}

// List returns all profiles ordered by id.
func (r *MemoryProfileRepository) List(context.Context) ([]models.Profile, error) {
	r.core.mu.RLock()
	defer r.core.mu.RUnlock()
	profiles := make([]models.Profile, 0, len(r.core.profiles))
	for _, profile := range r.core.profiles {
		profiles = append(profiles, profile)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].ID < profiles[j].ID })
	return profiles, nil
}

// Create stores a new profile.
func (r *MemoryProfileRepository) Create(_ context.Context, profile models.Profile) error {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()
	if _, ok := r.core.profiles[profile.ID]; ok {
		return ErrConflict
	}
	r.core.profiles[profile.ID] = profile
	return nil
}

// Update replaces an existing profile.
func (r *MemoryProfileRepository) Update(_ context.Context, profile models.Profile) error {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()
	if _, ok := r.core.profiles[profile.ID]; !ok {
		return ErrNotFound
	}
	r.core.profiles[profile.ID] = profile
	return nil
}

// Exists reports whether a profile exists.
func (r *MemoryProfileRepository) Exists(_ context.Context, profileID string) (bool, error) {
	r.core.mu.RLock()
	defer r.core.mu.RUnlock()
	_, ok := r.core.profiles[profileID]
	return ok, nil
}

// MemoryApprovalRepository implements ApprovalRepository over maps.
type MemoryApprovalRepository struct {
	core *memoryCore
}

// ListCreators returns the profile's approved creators.
func (r *MemoryApprovalRepository) ListCreators(_ context.Context, profileID string) ([]models.ApprovedCreator, error) {
	r.core.mu.RLock()
	defer r.core.mu.RUnlock()
	return append([]models.ApprovedCreator(nil), r.core.creators[profileID]...), nil
}

// AddCreator stores a new creator grant.
func (r *MemoryApprovalRepository) AddCreator(_ context.Context, profileID string, creator models.ApprovedCreator) error {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()
	for _, existing := range r.core.creators[profileID] {
		if existing.ChannelID == creator.ChannelID {
			return ErrConflict
		}
	}
	r.core.creators[profileID] = append(r.core.creators[profileID], creator)
	return nil
}

// RemoveCreator deletes a creator grant.
func (r *MemoryApprovalRepository) RemoveCreator(_ context.Context, profileID, channelID string) error {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()
	existing := r.core.creators[profileID]
	kept := existing[:0]
	for _, creator := range existing {
		if creator.ChannelID != channelID {
			kept = append(kept, creator)
		}
	}
	if len(kept) == len(existing) {
		return ErrNotFound
	}
	r.core.creators[profileID] = kept
	return nil
}

// ListVideos returns the profile's approved videos, most recently added first.
func (r *MemoryApprovalRepository) ListVideos(_ context.Context, profileID string) ([]models.ApprovedVideo, error) {
	r.core.mu.RLock()
	defer r.core.mu.RUnlock()
	videos := append([]models.ApprovedVideo(nil), r.core.videos[profileID]...)
	sort.SliceStable(videos, func(i, j int) bool { return videos[i].AddedAt.After(videos[j].AddedAt) })
	return videos, nil
}

// AddVideo stores a new approved video.
func (r *MemoryApprovalRepository) AddVideo(_ context.Context, profileID string, video models.ApprovedVideo) error {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()
	for _, existing := range r.core.videos[profileID] {
		if existing.VideoID == video.VideoID {
			return ErrConflict
		}
	}
	r.core.videos[profileID] = append(r.core.videos[profileID], video)
	return nil
}

// RemoveVideo deletes an approved video.
func (r *MemoryApprovalRepository) RemoveVideo(_ context.Context, profileID, videoID string) error {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()
	existing := r.core.videos[profileID]
	kept := existing[:0]
	for _, video := range existing {
		if video.VideoID != videoID {
			kept = append(kept, video)
		}
	}
	if len(kept) == len(existing) {
		return ErrNotFound
	}
	r.core.videos[profileID] = kept
	return nil
}

// ListBlocked returns the profile's blocked videos.
func (r *MemoryApprovalRepository) ListBlocked(_ context.Context, profileID string) ([]models.BlockedVideo, error) {
	r.core.mu.RLock()
	defer r.core.mu.RUnlock()
	return append([]models.BlockedVideo(nil), r.core.blocked[profileID]...), nil
}

// UpsertBlocked blocks a video, replacing an existing block in place.
func (r *MemoryApprovalRepository) UpsertBlocked(_ context.Context, profileID string, blocked models.BlockedVideo) error {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()
	for i, existing := range r.core.blocked[profileID] {
		if existing.VideoID == blocked.VideoID {
			r.core.blocked[profileID][i] = blocked
			return nil
		}
	}
	r.core.blocked[profileID] = append(r.core.blocked[profileID], blocked)
	return nil
}

// RemoveBlocked unblocks a video.
func (r *MemoryApprovalRepository) RemoveBlocked(_ context.Context, profileID, videoID string) error {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()
	existing := r.core.blocked[profileID]
	kept := existing[:0]
	for _, blocked := range existing {
		if blocked.VideoID != videoID {
			kept = append(kept, blocked)
		}
	}
	if len(kept) == len(existing) {
		return ErrNotFound
	}
	r.core.blocked[profileID] = kept
	return nil
}

// MemoryHistoryRepository implements HistoryRepository over a map, storing
// records oldest-first.
type MemoryHistoryRepository struct {
	core *memoryCore
}

// Append stores a new watch record.
func (r *MemoryHistoryRepository) Append(_ context.Context, profileID string, record models.WatchRecord) error {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()
	r.core.watches[profileID] = append(r.core.watches[profileID], record)
	return nil
}

// List returns records most-recent-first, truncated to limit.
func (r *MemoryHistoryRepository) List(_ context.Context, profileID string, limit int) ([]models.WatchRecord, error) {
	r.core.mu.RLock()
	defer r.core.mu.RUnlock()
	watches := r.core.watches[profileID]
	records := make([]models.WatchRecord, 0, len(watches))
	for i := len(watches) - 1; i >= 0; i-- {
		records = append(records, watches[i])
		if limit > 0 && len(records) >= limit {
			break
		}
	}
	return records, nil
}

// Trim drops the oldest records beyond keep.
func (r *MemoryHistoryRepository) Trim(_ context.Context, profileID string, keep int) error {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()
	watches := r.core.watches[profileID]
	if len(watches) <= keep {
		return nil
	}
	r.core.watches[profileID] = watches[len(watches)-keep:]
	return nil
}

// Count reports the number of stored watch records. Useful for tests.
func (r *MemoryHistoryRepository) Count(profileID string) int {
	r.core.mu.RLock()
	defer r.core.mu.RUnlock()
	return len(r.core.watches[profileID])
}

var _ ProfileRepository = (*MemoryProfileRepository)(nil)
var _ ApprovalRepository = (*MemoryApprovalRepository)(nil)
var _ HistoryRepository = (*MemoryHistoryRepository)(nil)
