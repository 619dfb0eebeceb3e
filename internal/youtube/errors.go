package youtube

import "errors"

var (
	// ErrProviderUnavailable indicates the metadata provider is not configured.
	ErrProviderUnavailable = errors.New("video metadata provider unavailable")
	// ErrVideoNotFound indicates the provider knows no video for the id or URL.
	ErrVideoNotFound = errors.New("video not found")
	// ErrChannelNotFound indicates the provider knows no channel for the id or URL.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrBadURL indicates the supplied URL matches no recognized format.
	ErrBadURL = errors.New("unrecognized video or channel url")
)
