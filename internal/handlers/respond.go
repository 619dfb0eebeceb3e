package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kiddotube/backend/internal/auth"
	"github.com/kiddotube/backend/internal/history"
	"github.com/kiddotube/backend/internal/logging"
	"github.com/kiddotube/backend/internal/profiles"
	"github.com/kiddotube/backend/internal/repositories"
	"github.com/kiddotube/backend/internal/youtube"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

// respondError maps domain sentinels onto HTTP statuses and the standard
// error body. Unrecognized errors become an opaque 500; the real error is
// logged, never sent to the client.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status, message := errorStatus(err)
	if status == http.StatusInternalServerError {
		logging.FromContext(ctx).Error("unexpected handler error", "error", err)
	}
	respondJSON(ctx, w, status, errorResponse{Success: false, Error: message})
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrTokenRequired):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, auth.ErrTokenInvalid):
		return http.StatusUnauthorized, "invalid or expired token"
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, profiles.ErrUnauthorized):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, profiles.ErrPinNotSet):
		return http.StatusBadRequest, "profile has no pin configured"
	case errors.Is(err, profiles.ErrParentNotConfigured):
		return http.StatusInternalServerError, "parent login is not configured"
	case errors.Is(err, profiles.ErrInvalidProfile):
		return http.StatusBadRequest, "avatar and silly name are required"
	case errors.Is(err, history.ErrInvalidRecord):
		return http.StatusBadRequest, "videoId is required"
	case errors.Is(err, repositories.ErrConflict):
		return http.StatusBadRequest, "already exists"
	case errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, youtube.ErrVideoNotFound):
		return http.StatusNotFound, "video not found"
	case errors.Is(err, youtube.ErrChannelNotFound):
		return http.StatusNotFound, "channel not found"
	case errors.Is(err, youtube.ErrBadURL):
		return http.StatusBadRequest, "unrecognized YouTube URL"
	case errors.Is(err, youtube.ErrProviderUnavailable):
		return http.StatusBadGateway, "video metadata service unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func methodNotAllowed(ctx context.Context, w http.ResponseWriter) {
	respondJSON(ctx, w, http.StatusMethodNotAllowed, errorResponse{Success: false, Error: "method not allowed"})
}
