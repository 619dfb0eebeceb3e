package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kiddotube/backend/internal/auth"
	"github.com/kiddotube/backend/internal/logging"
	"github.com/kiddotube/backend/internal/models"
	"github.com/kiddotube/backend/internal/profiles"
)

// ProfileHandler implements the profile directory endpoints.
type ProfileHandler struct {
	Profiles ProfileDirectory
	Guard    *auth.Guard
}

// Collection handles GET and POST /profiles.
func (h ProfileHandler) Collection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := h.Guard.RequireParent(r); err != nil {
		respondError(ctx, w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		list, err := h.Profiles.List(ctx)
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		details := make([]profileDetail, 0, len(list))
		for _, profile := range list {
			details = append(details, toProfileDetail(profile))
		}
		respondJSON(ctx, w, http.StatusOK, profileListResponse{Profiles: details})
	case http.MethodPost:
		var req createProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logging.FromContext(ctx).Warn("invalid create profile payload", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Success: false, Error: "invalid request body"})
			return
		}

		created, err := h.Profiles.Create(ctx, req.AvatarID, req.SillyName, req.Pin)
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		respondJSON(ctx, w, http.StatusCreated, toProfileDetail(created))
	default:
		methodNotAllowed(ctx, w)
	}
}

// Detail handles GET and PUT /profiles/{id}.
func (h ProfileHandler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profileID := r.PathValue("id")

	if _, err := h.Guard.RequireParent(r); err != nil {
		respondError(ctx, w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		profile, err := h.Profiles.Get(ctx, profileID)
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		respondJSON(ctx, w, http.StatusOK, toProfileDetail(profile))
	case http.MethodPut:
		var req updateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logging.FromContext(ctx).Warn("invalid update profile payload", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Success: false, Error: "invalid request body"})
			return
		}

		updated, err := h.Profiles.Update(ctx, profileID, profiles.ProfileUpdate{
			AvatarID:  req.AvatarID,
			SillyName: req.SillyName,
			Pin:       req.Pin,
		})
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		respondJSON(ctx, w, http.StatusOK, toProfileDetail(updated))
	default:
		methodNotAllowed(ctx, w)
	}
}

// Public handles GET /profiles/{id}/public. No authentication: this is the
// kid login screen's data source.
func (h ProfileHandler) Public(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		methodNotAllowed(ctx, w)
		return
	}

	profile, err := h.Profiles.GetPublic(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, profile)
}

type createProfileRequest struct {
	AvatarID  string `json:"avatarId"`
	SillyName string `json:"sillyName"`
	Pin       string `json:"pin"`
}

type updateProfileRequest struct {
	AvatarID  *string `json:"avatarId"`
	SillyName *string `json:"sillyName"`
	Pin       *string `json:"pin"`
}

// profileDetail is the parent-facing view: it reports whether a PIN is set
// but never the hash.
type profileDetail struct {
	ID        string    `json:"id"`
	AvatarID  string    `json:"avatarId"`
	SillyName string    `json:"sillyName"`
	HasPin    bool      `json:"hasPin"`
	CreatedAt time.Time `json:"createdAt"`
}

type profileListResponse struct {
	Profiles []profileDetail `json:"profiles"`
}

func toProfileDetail(profile models.Profile) profileDetail {
	return profileDetail{
		ID:        profile.ID,
		AvatarID:  profile.AvatarID,
		SillyName: profile.SillyName,
		HasPin:    profile.PinHash != "",
		CreatedAt: profile.CreatedAt,
	}
}
