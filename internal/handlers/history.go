package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kiddotube/backend/internal/auth"
	"github.com/kiddotube/backend/internal/logging"
	"github.com/kiddotube/backend/internal/models"
)

// HistoryHandler implements the watch-history endpoints. Parents read a
// profile's history; the kid who owns the profile writes to it.
type HistoryHandler struct {
	History WatchLedger
	Guard   *auth.Guard
}

// Collection handles GET and POST /profiles/{id}/history.
func (h HistoryHandler) Collection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profileID := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		if _, err := h.Guard.RequireParent(r); err != nil {
			respondError(ctx, w, err)
			return
		}

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Success: false, Error: "limit must be a non-negative integer"})
				return
			}
			limit = parsed
		}

		records, err := h.History.List(ctx, profileID, limit)
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		respondJSON(ctx, w, http.StatusOK, historyListResponse{History: records})
	case http.MethodPost:
		if _, err := h.Guard.RequireKidOwnership(r, profileID); err != nil {
			respondError(ctx, w, err)
			return
		}

		var req recordWatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logging.FromContext(ctx).Warn("invalid watch record payload", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Success: false, Error: "invalid request body"})
			return
		}

		if _, err := h.History.Record(ctx, profileID, models.WatchRecord{
			VideoID:              req.VideoID,
			Title:                req.Title,
			WatchDurationSeconds: req.WatchDuration,
		}); err != nil {
			respondError(ctx, w, err)
			return
		}
		respondJSON(ctx, w, http.StatusCreated, successResponse{Success: true})
	default:
		methodNotAllowed(ctx, w)
	}
}

type recordWatchRequest struct {
	VideoID       string `json:"videoId"`
	Title         string `json:"title"`
	WatchDuration int    `json:"watchDuration"`
}

type historyListResponse struct {
	History []models.WatchRecord `json:"history"`
}
