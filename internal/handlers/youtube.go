package handlers

import (
	"net/http"

	"github.com/kiddotube/backend/internal/auth"
	"github.com/kiddotube/backend/internal/youtube"
)

// MetadataHandler exposes parent-facing YouTube lookups: a single-video
// preview and a channel's recent uploads, used before approving content.
type MetadataHandler struct {
	Metadata MetadataProvider
	Guard    *auth.Guard
}

// Video handles GET /youtube/videos/{videoId}.
func (h MetadataHandler) Video(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		methodNotAllowed(ctx, w)
		return
	}
	if _, err := h.Guard.RequireParent(r); err != nil {
		respondError(ctx, w, err)
		return
	}

	video, err := h.Metadata.LookupVideo(ctx, r.PathValue("videoId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, video)
}

// ChannelVideos handles GET /youtube/channels/{channelId}/videos.
func (h MetadataHandler) ChannelVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		methodNotAllowed(ctx, w)
		return
	}
	if _, err := h.Guard.RequireParent(r); err != nil {
		respondError(ctx, w, err)
		return
	}

	videos, err := h.Metadata.ChannelVideos(ctx, r.PathValue("channelId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, channelVideosResponse{Videos: videos})
}

type channelVideosResponse struct {
	Videos []youtube.Video `json:"videos"`
}
