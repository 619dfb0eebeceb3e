package youtube

import (
	"context"
	"sync"
	"time"
)

type videoEntry struct {
	video   Video
	expires time.Time
}

type channelEntry struct {
	channel Channel
	expires time.Time
}

type listEntry struct {
	videos  []Video
	expires time.Time
}

// CachingProvider wraps another Provider with a TTL-based in-memory cache.
// Creator upload lists sit on the watchable hot path, so caching them keeps
// repeated computations from hammering the upstream API.
type CachingProvider struct {
	base Provider
	ttl  time.Duration

	mu       sync.RWMutex
	videos   map[string]videoEntry
	channels map[string]channelEntry
	uploads  map[string]listEntry
}

// NewCachingProvider returns a Provider that caches lookups for the provided TTL.
func NewCachingProvider(base Provider, ttl time.Duration) *CachingProvider {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachingProvider{
		base:     base,
		ttl:      ttl,
		videos:   make(map[string]videoEntry),
		channels: make(map[string]channelEntry),
		uploads:  make(map[string]listEntry),
	}
}

// LookupVideo returns cached metadata when available, otherwise it delegates
// to the underlying provider and stores the result.
func (c *CachingProvider) LookupVideo(ctx context.Context, url string) (Video, error) {
	if c == nil || c.base == nil {
		return Video{}, ErrProviderUnavailable
	}

	now := time.Now()

	c.mu.RLock()
	entry, ok := c.videos[url]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.video, nil
	}

	video, err := c.base.LookupVideo(ctx, url)
	if err != nil {
		return Video{}, err
	}

	c.mu.Lock()
	c.videos[url] = videoEntry{video: video, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return video, nil
}

// LookupChannel returns cached channel metadata or delegates to the base provider.
func (c *CachingProvider) LookupChannel(ctx context.Context, url string) (Channel, error) {
	if c == nil || c.base == nil {
		return Channel{}, ErrProviderUnavailable
	}

	now := time.Now()

	c.mu.RLock()
	entry, ok := c.channels[url]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.channel, nil
	}

	channel, err := c.base.LookupChannel(ctx, url)
	if err != nil {
		return Channel{}, err
	}

	c.mu.Lock()
	c.channels[url] = channelEntry{channel: channel, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return channel, nil
}

// ChannelVideos returns the cached upload list or delegates to the base provider.
func (c *CachingProvider) ChannelVideos(ctx context.Context, channelID string) ([]Video, error) {
	if c == nil || c.base == nil {
		return nil, ErrProviderUnavailable
	}

	now := time.Now()

	c.mu.RLock()
	entry, ok := c.uploads[channelID]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.videos, nil
	}

	videos, err := c.base.ChannelVideos(ctx, channelID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.uploads[channelID] = listEntry{videos: videos, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return videos, nil
}

var _ Provider = (*CachingProvider)(nil)
