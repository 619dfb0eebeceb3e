package youtube

import "regexp"

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/v/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([a-zA-Z0-9_-]{11})`),
}

var bareVideoID = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ExtractVideoID pulls a video id out of the common YouTube URL formats. A
// bare 11-character id passes through unchanged. The empty string means no
// match.
func ExtractVideoID(url string) string {
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	if bareVideoID.MatchString(url) {
		return url
	}
	return ""
}

// ChannelRef is a channel reference extracted from a URL; Kind tells the
// client which API lookup parameter to use.
type ChannelRef struct {
	Kind  ChannelRefKind
	Value string
}

// ChannelRefKind enumerates the recognized channel reference styles.
type ChannelRefKind int

const (
	ChannelRefID ChannelRefKind = iota
	ChannelRefHandle
	ChannelRefUsername
)

var (
	channelHandlePattern = regexp.MustCompile(`youtube\.com/@([a-zA-Z0-9_.-]+)`)
	channelIDPattern     = regexp.MustCompile(`youtube\.com/channel/([a-zA-Z0-9_-]+)`)
	channelUserPattern   = regexp.MustCompile(`youtube\.com/user/([a-zA-Z0-9_-]+)`)
	bareChannelID        = regexp.MustCompile(`^UC[a-zA-Z0-9_-]{22}$`)
)

// ExtractChannelRef pulls a channel reference out of the common YouTube URL
// formats: /channel/UC..., /@handle, legacy /user/name, or a bare channel id.
func ExtractChannelRef(url string) (ChannelRef, bool) {
	if m := channelHandlePattern.FindStringSubmatch(url); m != nil {
		return ChannelRef{Kind: ChannelRefHandle, Value: m[1]}, true
	}
	if m := channelIDPattern.FindStringSubmatch(url); m != nil {
		return ChannelRef{Kind: ChannelRefID, Value: m[1]}, true
	}
	if m := channelUserPattern.FindStringSubmatch(url); m != nil {
		return ChannelRef{Kind: ChannelRefUsername, Value: m[1]}, true
	}
	if bareChannelID.MatchString(url) {
		return ChannelRef{Kind: ChannelRefID, Value: url}, true
	}
	return ChannelRef{}, false
}
