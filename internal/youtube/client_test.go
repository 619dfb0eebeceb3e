package youtube

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"
)

type stubDoer struct {
	responses map[string]string
	requests  []string
	err       error
}

func (d *stubDoer) Do(req *http.Request) (*http.Response, error) {
	d.requests = append(d.requests, req.URL.Path)
	if d.err != nil {
		return nil, d.err
	}
	body, ok := d.responses[req.URL.Path]
	if !ok {
		body = `{"items":[]}`
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}, nil
}

func newTestClient(doer Doer) *Client {
	c := NewClient("https://yt.test/v3", "test-key", time.Second)
	c.HTTP = doer
	return c
}

func TestClientLookupVideo(t *testing.T) {
	doer := &stubDoer{responses: map[string]string{
		"/v3/videos": `{"items":[{
			"id":"dQw4w9WgXcQ",
			"snippet":{
				"title":"Test Video",
				"channelId":"UC1234567890123456789012",
				"channelTitle":"Test Channel",
				"thumbnails":{"high":{"url":"https://img.test/high.jpg"}}
			},
			"contentDetails":{"duration":"PT3M32S"}
		}]}`,
	}}

	video, err := newTestClient(doer).LookupVideo(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("lookup video: %v", err)
	}

	if video.VideoID != "dQw4w9WgXcQ" || video.Title != "Test Video" {
		t.Fatalf("unexpected video: %+v", video)
	}
	if video.Thumbnail != "https://img.test/high.jpg" || video.Duration != "PT3M32S" {
		t.Fatalf("unexpected metadata: %+v", video)
	}
}

func TestClientLookupVideoNotFound(t *testing.T) {
	client := newTestClient(&stubDoer{})
	if _, err := client.LookupVideo(context.Background(), "dQw4w9WgXcQ"); !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("expected ErrVideoNotFound, got %v", err)
	}
}

func TestClientLookupVideoBadURL(t *testing.T) {
	client := newTestClient(&stubDoer{})
	if _, err := client.LookupVideo(context.Background(), "https://example.com/nope"); !errors.Is(err, ErrBadURL) {
		t.Fatalf("expected ErrBadURL, got %v", err)
	}
}

func TestClientRequiresAPIKey(t *testing.T) {
	client := NewClient("", "", time.Second)
	if _, err := client.LookupVideo(context.Background(), "dQw4w9WgXcQ"); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestClientChannelVideos(t *testing.T) {
	doer := &stubDoer{responses: map[string]string{
		"/v3/channels": `{"items":[{
			"id":"UC1234567890123456789012",
			"contentDetails":{"relatedPlaylists":{"uploads":"UU1234567890123456789012"}}
		}]}`,
		"/v3/playlistItems": `{"items":[
			{"snippet":{"title":"First","channelTitle":"Test Channel","resourceId":{"videoId":"v1"}}},
			{"snippet":{"title":"Second","channelTitle":"Test Channel","resourceId":{"videoId":"v2"}}},
			{"snippet":{"title":"No id, skipped","resourceId":{}}}
		]}`,
	}}

	videos, err := newTestClient(doer).ChannelVideos(context.Background(), "UC1234567890123456789012")
	if err != nil {
		t.Fatalf("channel videos: %v", err)
	}

	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}
	if videos[0].VideoID != "v1" || videos[1].VideoID != "v2" {
		t.Fatalf("expected provider order preserved: %+v", videos)
	}
	if videos[0].ChannelID != "UC1234567890123456789012" {
		t.Fatalf("expected channel id stamped on uploads: %+v", videos[0])
	}
}

func TestClientChannelVideosUnknownChannel(t *testing.T) {
	client := newTestClient(&stubDoer{})
	if _, err := client.ChannelVideos(context.Background(), "UCunknown"); !errors.Is(err, ErrChannelNotFound) {
		t.Fatalf("expected ErrChannelNotFound, got %v", err)
	}
}

func TestClientAPIError(t *testing.T) {
	doer := &stubDoer{responses: map[string]string{
		"/v3/videos": `{"error":{"code":403,"message":"quota exceeded"}}`,
	}}

	_, err := newTestClient(doer).LookupVideo(context.Background(), "dQw4w9WgXcQ")
	if err == nil {
		t.Fatal("expected error from API error payload")
	}
}
