package app

import (
	"time"

	"github.com/kiddotube/backend/internal/approvals"
	"github.com/kiddotube/backend/internal/auth"
	"github.com/kiddotube/backend/internal/config"
	"github.com/kiddotube/backend/internal/handlers"
	"github.com/kiddotube/backend/internal/history"
	"github.com/kiddotube/backend/internal/middleware"
	"github.com/kiddotube/backend/internal/profiles"
	"github.com/kiddotube/backend/internal/repositories"
	"github.com/kiddotube/backend/internal/youtube"
)

// stores bundles the three repository interfaces so either storage backend
// can satisfy them.
type stores struct {
	Profiles  repositories.ProfileRepository
	Approvals repositories.ApprovalRepository
	History   repositories.HistoryRepository
}

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(s stores, cfg config.Config) handlers.Dependencies {
	client := youtube.NewClient(cfg.YouTubeBaseURL, cfg.YouTubeAPIKey, cfg.YouTubeTimeout)
	metadata := youtube.NewCachingProvider(client, cfg.MetadataCacheTTL)

	tokens := auth.NewTokenService([]byte(cfg.TokenSecret))

	return handlers.Dependencies{
		Profiles:     profiles.NewRegistry(s.Profiles, cfg.ParentPasswordHash),
		Approvals:    approvals.NewEngine(s.Profiles, s.Approvals, metadata, cfg.YouTubeTimeout),
		History:      history.NewLedger(s.Profiles, s.History),
		Metadata:     metadata,
		Tokens:       tokens,
		Guard:        auth.NewGuard(tokens),
		LoginLimiter: middleware.NewIPRateLimiter(cfg.LoginRateLimit, time.Minute, cfg.LoginRateBurst, 10*time.Minute),
		ParentTTL:    cfg.ParentTokenTTL,
		KidTTL:       cfg.KidTokenTTL,
	}
}
