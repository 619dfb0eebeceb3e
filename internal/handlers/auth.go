package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kiddotube/backend/internal/auth"
	"github.com/kiddotube/backend/internal/logging"
	"github.com/kiddotube/backend/internal/models"
)

// AuthHandler implements the parent and kid login endpoints.
type AuthHandler struct {
	Profiles  ProfileDirectory
	Tokens    TokenIssuer
	Limiter   RateLimiter
	ParentTTL time.Duration
	KidTTL    time.Duration
}

// ParentLogin handles POST /auth/parent-login requests.
func (h AuthHandler) ParentLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(r.Context(), w)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "parent-login") {
		logger.Warn("parent login rate limited", "remote_addr", r.RemoteAddr)
		respondJSON(ctx, w, http.StatusTooManyRequests, errorResponse{Success: false, Error: "too many login attempts"})
		return
	}

	var req parentLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid parent login payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Success: false, Error: "invalid request body"})
		return
	}

	if req.Password == "" {
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Success: false, Error: "password is required"})
		return
	}

	if err := h.Profiles.AuthenticateParent(ctx, req.Password); err != nil {
		logger.Warn("parent login rejected", "error", err)
		respondError(ctx, w, err)
		return
	}

	token, err := h.Tokens.Issue(auth.Claims{Role: auth.RoleParent}, h.ParentTTL)
	if err != nil {
		logger.Error("failed to issue parent token", "error", err)
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, tokenResponse{Token: token})
}

// KidLogin handles POST /auth/kid-login requests.
func (h AuthHandler) KidLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(r.Context(), w)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "kid-login") {
		logger.Warn("kid login rate limited", "remote_addr", r.RemoteAddr)
		respondJSON(ctx, w, http.StatusTooManyRequests, errorResponse{Success: false, Error: "too many login attempts"})
		return
	}

	var req kidLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid kid login payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Success: false, Error: "invalid request body"})
		return
	}

	req.ProfileID = strings.TrimSpace(req.ProfileID)
	if req.ProfileID == "" || req.Pin == "" {
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Success: false, Error: "profileId and pin are required"})
		return
	}

	profile, err := h.Profiles.AuthenticateKid(ctx, req.ProfileID, req.Pin)
	if err != nil {
		logger.Warn("kid login rejected", "profileId", req.ProfileID, "error", err)
		respondError(ctx, w, err)
		return
	}

	token, err := h.Tokens.Issue(auth.Claims{Role: auth.RoleKid, ProfileID: profile.ID}, h.KidTTL)
	if err != nil {
		logger.Error("failed to issue kid token", "error", err, "profileId", profile.ID)
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, kidLoginResponse{Token: token, Profile: profile})
}

type parentLoginRequest struct {
	Password string `json:"password"`
}

type kidLoginRequest struct {
	ProfileID string `json:"profileId"`
	Pin       string `json:"pin"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type kidLoginResponse struct {
	Token   string               `json:"token"`
	Profile models.PublicProfile `json:"profile"`
}
