package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kiddotube/backend/internal/auth"
	"github.com/kiddotube/backend/internal/logging"
	"github.com/kiddotube/backend/internal/models"
)

// CreatorHandler implements the approved-creator endpoints.
type CreatorHandler struct {
	Approvals ApprovalManager
	Guard     *auth.Guard
}

// Collection handles GET and POST /profiles/{id}/creators.
func (h CreatorHandler) Collection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profileID := r.PathValue("id")

	if _, err := h.Guard.RequireParent(r); err != nil {
		respondError(ctx, w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		creators, err := h.Approvals.ListCreators(ctx, profileID)
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		respondJSON(ctx, w, http.StatusOK, creatorListResponse{Creators: creators})
	case http.MethodPost:
		var req addCreatorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logging.FromContext(ctx).Warn("invalid add creator payload", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Success: false, Error: "invalid request body"})
			return
		}

		req.ChannelURL = strings.TrimSpace(req.ChannelURL)
		if req.ChannelURL == "" {
			respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Success: false, Error: "channelUrl is required"})
			return
		}

		creator, err := h.Approvals.AddCreator(ctx, profileID, req.ChannelURL, req.ApproveAllVideos)
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		respondJSON(ctx, w, http.StatusCreated, creator)
	default:
		methodNotAllowed(ctx, w)
	}
}

// Detail handles DELETE /profiles/{id}/creators/{channelId}.
func (h CreatorHandler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodDelete {
		methodNotAllowed(ctx, w)
		return
	}
	if _, err := h.Guard.RequireParent(r); err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Approvals.RemoveCreator(ctx, r.PathValue("id"), r.PathValue("channelId")); err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, successResponse{Success: true})
}

type addCreatorRequest struct {
	ChannelURL       string `json:"channelUrl"`
	ApproveAllVideos bool   `json:"approveAllVideos"`
}

type creatorListResponse struct {
	Creators []models.ApprovedCreator `json:"creators"`
}

type successResponse struct {
	Success bool `json:"success"`
}
