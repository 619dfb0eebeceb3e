package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Doer performs HTTP requests. Satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches metadata from the YouTube Data API v3.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    Doer
	Timeout time.Duration
}

// NewClient constructs a Data API client. An empty API key leaves the client
// constructible but every lookup fails with ErrProviderUnavailable.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://www.googleapis.com/youtube/v3"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: timeout},
		Timeout: timeout,
	}
}

type apiThumbnail struct {
	URL string `json:"url"`
}

type apiThumbnails struct {
	Default apiThumbnail `json:"default"`
	Medium  apiThumbnail `json:"medium"`
	High    apiThumbnail `json:"high"`
}

func (t apiThumbnails) best() string {
	if t.High.URL != "" {
		return t.High.URL
	}
	if t.Medium.URL != "" {
		return t.Medium.URL
	}
	return t.Default.URL
}

type apiSnippet struct {
	Title        string        `json:"title"`
	ChannelID    string        `json:"channelId"`
	ChannelTitle string        `json:"channelTitle"`
	Thumbnails   apiThumbnails `json:"thumbnails"`
	ResourceID   struct {
		VideoID string `json:"videoId"`
	} `json:"resourceId"`
}

type apiItem struct {
	ID             string     `json:"id"`
	Snippet        apiSnippet `json:"snippet"`
	ContentDetails struct {
		Duration         string `json:"duration"`
		RelatedPlaylists struct {
			Uploads string `json:"uploads"`
		} `json:"relatedPlaylists"`
	} `json:"contentDetails"`
}

type apiResponse struct {
	Items []apiItem `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// LookupVideo resolves metadata for a video URL or bare id.
func (c *Client) LookupVideo(ctx context.Context, rawURL string) (Video, error) {
	videoID := ExtractVideoID(rawURL)
	if videoID == "" {
		return Video{}, fmt.Errorf("%w: %q", ErrBadURL, rawURL)
	}

	resp, err := c.get(ctx, "/videos", url.Values{
		"id":   {videoID},
		"part": {"snippet,contentDetails"},
	})
	if err != nil {
		return Video{}, err
	}
	if len(resp.Items) == 0 {
		return Video{}, ErrVideoNotFound
	}

	item := resp.Items[0]
	return Video{
		VideoID:     item.ID,
		Title:       item.Snippet.Title,
		Thumbnail:   item.Snippet.Thumbnails.best(),
		ChannelName: item.Snippet.ChannelTitle,
		ChannelID:   item.Snippet.ChannelID,
		Duration:    item.ContentDetails.Duration,
	}, nil
}

// LookupChannel resolves metadata for a channel URL, handle, or bare id.
func (c *Client) LookupChannel(ctx context.Context, rawURL string) (Channel, error) {
	ref, ok := ExtractChannelRef(rawURL)
	if !ok {
		return Channel{}, fmt.Errorf("%w: %q", ErrBadURL, rawURL)
	}

	params := url.Values{"part": {"snippet"}}
	switch ref.Kind {
	case ChannelRefHandle:
		params.Set("forHandle", ref.Value)
	case ChannelRefUsername:
		params.Set("forUsername", ref.Value)
	default:
		params.Set("id", ref.Value)
	}

	resp, err := c.get(ctx, "/channels", params)
	if err != nil {
		return Channel{}, err
	}
	if len(resp.Items) == 0 {
		return Channel{}, ErrChannelNotFound
	}

	item := resp.Items[0]
	return Channel{
		ChannelID:        item.ID,
		ChannelName:      item.Snippet.Title,
		ChannelThumbnail: item.Snippet.Thumbnails.best(),
	}, nil
}

// ChannelVideos returns the channel's most recent uploads, in the provider's
// own upload-recency order.
func (c *Client) ChannelVideos(ctx context.Context, channelID string) ([]Video, error) {
	resp, err := c.get(ctx, "/channels", url.Values{
		"id":   {channelID},
		"part": {"contentDetails"},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, ErrChannelNotFound
	}

	uploads := resp.Items[0].ContentDetails.RelatedPlaylists.Uploads
	if uploads == "" {
		return nil, fmt.Errorf("channel %s has no uploads playlist", channelID)
	}

	resp, err = c.get(ctx, "/playlistItems", url.Values{
		"playlistId": {uploads},
		"part":       {"snippet"},
		"maxResults": {"25"},
	})
	if err != nil {
		return nil, err
	}

	videos := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		videoID := item.Snippet.ResourceID.VideoID
		if videoID == "" {
			continue
		}
		videos = append(videos, Video{
			VideoID:     videoID,
			Title:       item.Snippet.Title,
			Thumbnail:   item.Snippet.Thumbnails.best(),
			ChannelName: item.Snippet.ChannelTitle,
			ChannelID:   channelID,
		})
	}
	return videos, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (apiResponse, error) {
	if c == nil || strings.TrimSpace(c.APIKey) == "" {
		return apiResponse{}, ErrProviderUnavailable
	}
	if c.HTTP == nil {
		c.HTTP = &http.Client{Timeout: c.Timeout}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	params.Set("key", c.APIKey)
	endpoint := fmt.Sprintf("%s%s?%s", c.BaseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apiResponse{}, fmt.Errorf("build youtube request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return apiResponse{}, fmt.Errorf("youtube fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return apiResponse{}, fmt.Errorf("read youtube response: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return apiResponse{}, fmt.Errorf("parse youtube response: %w", err)
	}

	if parsed.Error != nil {
		return apiResponse{}, fmt.Errorf("youtube api %s: %s (code %d)", path, parsed.Error.Message, parsed.Error.Code)
	}
	if resp.StatusCode != http.StatusOK {
		return apiResponse{}, fmt.Errorf("youtube api %s: unexpected status %d", path, resp.StatusCode)
	}

	return parsed, nil
}

var _ Provider = (*Client)(nil)
