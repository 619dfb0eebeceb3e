package handlers

import (
	"net/http"
	"time"

	"github.com/kiddotube/backend/internal/auth"
)

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	login := AuthHandler{
		Profiles:  deps.Profiles,
		Tokens:    deps.Tokens,
		Limiter:   deps.LoginLimiter,
		ParentTTL: deps.ParentTTL,
		KidTTL:    deps.KidTTL,
	}
	profile := ProfileHandler{Profiles: deps.Profiles, Guard: deps.Guard}
	creators := CreatorHandler{Approvals: deps.Approvals, Guard: deps.Guard}
	videos := VideoHandler{Approvals: deps.Approvals, Guard: deps.Guard}
	watches := HistoryHandler{History: deps.History, Guard: deps.Guard}
	metadata := MetadataHandler{Metadata: deps.Metadata, Guard: deps.Guard}

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/auth/parent-login", login.ParentLogin)
	mux.HandleFunc("/auth/kid-login", login.KidLogin)
	mux.HandleFunc("/profiles", profile.Collection)
	mux.HandleFunc("/profiles/{id}", profile.Detail)
	mux.HandleFunc("/profiles/{id}/public", profile.Public)
	mux.HandleFunc("/profiles/{id}/creators", creators.Collection)
	mux.HandleFunc("/profiles/{id}/creators/{channelId}", creators.Detail)
	mux.HandleFunc("/profiles/{id}/videos", videos.Collection)
	mux.HandleFunc("/profiles/{id}/videos/{videoId}", videos.Detail)
	mux.HandleFunc("/profiles/{id}/history", watches.Collection)
	mux.HandleFunc("/youtube/videos/{videoId}", metadata.Video)
	mux.HandleFunc("/youtube/channels/{channelId}/videos", metadata.ChannelVideos)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Profiles     ProfileDirectory
	Approvals    ApprovalManager
	History      WatchLedger
	Metadata     MetadataProvider
	Tokens       TokenIssuer
	Guard        *auth.Guard
	LoginLimiter RateLimiter
	ParentTTL    time.Duration
	KidTTL       time.Duration
}
