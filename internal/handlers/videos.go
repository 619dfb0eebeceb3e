package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/kiddotube/backend/internal/auth"
	"github.com/kiddotube/backend/internal/logging"
	"github.com/kiddotube/backend/internal/models"
)

// VideoHandler implements the approved/blocked/watchable video endpoints.
type VideoHandler struct {
	Approvals ApprovalManager
	Guard     *auth.Guard
}

// Collection handles GET and POST /profiles/{id}/videos. A kid token scoped
// to the profile reads the computed watchable set; a parent token reads the
// raw approved and blocked lists and may add or block videos.
func (h VideoHandler) Collection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profileID := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		claims, err := h.Guard.RequireAny(r)
		if err != nil {
			respondError(ctx, w, err)
			return
		}

		switch claims.Role {
		case auth.RoleParent:
			approved, err := h.Approvals.ListVideos(ctx, profileID)
			if err != nil {
				respondError(ctx, w, err)
				return
			}
			blocked, err := h.Approvals.ListBlocked(ctx, profileID)
			if err != nil {
				respondError(ctx, w, err)
				return
			}
			respondJSON(ctx, w, http.StatusOK, managementVideoResponse{Videos: approved, Blocked: blocked})
		case auth.RoleKid:
			if claims.ProfileID != profileID {
				respondError(ctx, w, auth.ErrForbidden)
				return
			}
			watchable, err := h.Approvals.Watchable(ctx, profileID)
			if err != nil {
				respondError(ctx, w, err)
				return
			}
			respondJSON(ctx, w, http.StatusOK, videoListResponse{Videos: watchable})
		default:
			respondError(ctx, w, auth.ErrForbidden)
		}
	case http.MethodPost:
		if _, err := h.Guard.RequireParent(r); err != nil {
			respondError(ctx, w, err)
			return
		}

		var req videoMutationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logging.FromContext(ctx).Warn("invalid video payload", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Success: false, Error: "invalid request body"})
			return
		}

		switch req.Action {
		case "block":
			if req.VideoID == "" {
				respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Success: false, Error: "videoId is required"})
				return
			}
			record, err := h.Approvals.Block(ctx, profileID, req.VideoID, req.Reason)
			if err != nil {
				respondError(ctx, w, err)
				return
			}
			respondJSON(ctx, w, http.StatusCreated, record)
		case "":
			req.VideoURL = strings.TrimSpace(req.VideoURL)
			if req.VideoURL == "" {
				respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Success: false, Error: "videoUrl is required"})
				return
			}
			video, err := h.Approvals.AddVideo(ctx, profileID, req.VideoURL)
			if err != nil {
				respondError(ctx, w, err)
				return
			}
			respondJSON(ctx, w, http.StatusCreated, video)
		default:
			respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Success: false, Error: "unknown action"})
		}
	default:
		methodNotAllowed(ctx, w)
	}
}

// Detail handles DELETE /profiles/{id}/videos/{videoId}. The default removes
// an individual approval; a body of {"action":"unblock"} lifts a block
// instead.
func (h VideoHandler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodDelete {
		methodNotAllowed(ctx, w)
		return
	}
	if _, err := h.Guard.RequireParent(r); err != nil {
		respondError(ctx, w, err)
		return
	}

	profileID := r.PathValue("id")
	videoID := r.PathValue("videoId")

	var req videoMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logging.FromContext(ctx).Warn("invalid delete payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Success: false, Error: "invalid request body"})
		return
	}

	var err error
	switch req.Action {
	case "unblock":
		err = h.Approvals.Unblock(ctx, profileID, videoID)
	case "":
		err = h.Approvals.RemoveVideo(ctx, profileID, videoID)
	default:
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Success: false, Error: "unknown action"})
		return
	}
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, successResponse{Success: true})
}

type videoMutationRequest struct {
	Action   string `json:"action"`
	VideoURL string `json:"videoUrl"`
	VideoID  string `json:"videoId"`
	Reason   string `json:"reason"`
}

type videoListResponse struct {
	Videos []models.ApprovedVideo `json:"videos"`
}

type managementVideoResponse struct {
	Videos  []models.ApprovedVideo `json:"videos"`
	Blocked []models.BlockedVideo  `json:"blocked"`
}
