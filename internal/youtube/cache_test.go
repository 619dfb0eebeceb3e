package youtube

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingProvider struct {
	videoCalls   int
	channelCalls int
	uploadCalls  int
	err          error
}

func (p *countingProvider) LookupVideo(context.Context, string) (Video, error) {
	p.videoCalls++
	if p.err != nil {
		return Video{}, p.err
	}
	return Video{VideoID: "v1", Title: "Cached"}, nil
}

func (p *countingProvider) LookupChannel(context.Context, string) (Channel, error) {
	p.channelCalls++
	if p.err != nil {
		return Channel{}, p.err
	}
	return Channel{ChannelID: "UC1", ChannelName: "Cached Channel"}, nil
}

func (p *countingProvider) ChannelVideos(context.Context, string) ([]Video, error) {
	p.uploadCalls++
	if p.err != nil {
		return nil, p.err
	}
	return []Video{{VideoID: "v1"}, {VideoID: "v2"}}, nil
}

func TestCachingProviderReusesResults(t *testing.T) {
	base := &countingProvider{}
	cache := NewCachingProvider(base, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := cache.LookupVideo(context.Background(), "dQw4w9WgXcQ"); err != nil {
			t.Fatalf("lookup video: %v", err)
		}
		if _, err := cache.ChannelVideos(context.Background(), "UC1"); err != nil {
			t.Fatalf("channel videos: %v", err)
		}
	}

	if base.videoCalls != 1 {
		t.Fatalf("expected 1 video call, got %d", base.videoCalls)
	}
	if base.uploadCalls != 1 {
		t.Fatalf("expected 1 uploads call, got %d", base.uploadCalls)
	}
}

func TestCachingProviderDoesNotCacheErrors(t *testing.T) {
	base := &countingProvider{err: errors.New("upstream down")}
	cache := NewCachingProvider(base, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cache.LookupVideo(context.Background(), "dQw4w9WgXcQ"); err == nil {
			t.Fatal("expected error")
		}
	}

	if base.videoCalls != 2 {
		t.Fatalf("errors must not be cached, got %d calls", base.videoCalls)
	}
}

func TestCachingProviderNilBase(t *testing.T) {
	cache := NewCachingProvider(nil, time.Minute)
	if _, err := cache.LookupChannel(context.Background(), "UC1"); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
