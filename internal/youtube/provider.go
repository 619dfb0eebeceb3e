package youtube

import "context"

// Video captures the subset of video details used by KiddoTube.
type Video struct {
	VideoID     string `json:"videoId"`
	Title       string `json:"title"`
	Thumbnail   string `json:"thumbnail"`
	ChannelName string `json:"channelName"`
	ChannelID   string `json:"channelId"`
	Duration    string `json:"duration"`
}

// Channel captures the subset of channel details used by KiddoTube.
type Channel struct {
	ChannelID        string `json:"channelId"`
	ChannelName      string `json:"channelName"`
	ChannelThumbnail string `json:"channelThumbnail"`
}

// Provider resolves video and channel metadata from an external source.
// Lookups are network bound and must honor the supplied context.
type Provider interface {
	LookupVideo(ctx context.Context, url string) (Video, error)
	LookupChannel(ctx context.Context, url string) (Channel, error)
	ChannelVideos(ctx context.Context, channelID string) ([]Video, error)
}
