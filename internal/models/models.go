package models

import "time"

// Profile represents a kid profile within KiddoTube.
type Profile struct {
	ID        string    `json:"id"`
	AvatarID  string    `json:"avatarId"`
	SillyName string    `json:"sillyName"`
	PinHash   string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicProfile is the anonymously readable slice of a profile. It never
// carries the PIN hash.
type PublicProfile struct {
	ID        string `json:"id"`
	AvatarID  string `json:"avatarId"`
	SillyName string `json:"sillyName"`
}

// Public returns the anonymously readable view of the profile.
func (p Profile) Public() PublicProfile {
	return PublicProfile{ID: p.ID, AvatarID: p.AvatarID, SillyName: p.SillyName}
}

// ApprovedCreator is a standing grant covering a channel's uploads for one
// profile. Keyed uniquely by (profileId, channelId).
type ApprovedCreator struct {
	ChannelID        string    `json:"channelId"`
	ChannelName      string    `json:"channelName"`
	ChannelThumbnail string    `json:"channelThumbnail"`
	ApproveAllVideos bool      `json:"approveAllVideos"`
	AddedAt          time.Time `json:"addedAt"`
}

// Sources recorded on approved videos.
const (
	VideoSourceManual  = "manual"
	VideoSourceCreator = "creator"
)

// ApprovedVideo is an individually approved video for one profile, keyed
// uniquely by (profileId, videoId).
type ApprovedVideo struct {
	VideoID     string    `json:"videoId"`
	Title       string    `json:"title"`
	Thumbnail   string    `json:"thumbnail"`
	ChannelName string    `json:"channelName"`
	ChannelID   string    `json:"channelId,omitempty"`
	Duration    string    `json:"duration"`
	AddedAt     time.Time `json:"addedAt"`
	Source      string    `json:"source"`
}

// BlockedVideo marks a video as unavailable for one profile regardless of any
// approval that covers it.
type BlockedVideo struct {
	VideoID   string    `json:"videoId"`
	Reason    string    `json:"reason,omitempty"`
	BlockedAt time.Time `json:"blockedAt"`
}

// WatchRecord is a single entry in a profile's watch history.
type WatchRecord struct {
	VideoID              string    `json:"videoId"`
	Title                string    `json:"title"`
	WatchedAt            time.Time `json:"watchedAt"`
	WatchDurationSeconds int       `json:"watchDuration"`
}
