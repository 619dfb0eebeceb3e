package repositories

import (
	"context"

	"github.com/kiddotube/backend/internal/models"
)

// ProfileRepository defines the data access contract for kid profiles.
type ProfileRepository interface {
	Get(ctx context.Context, profileID string) (models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Create(ctx context.Context, profile models.Profile) error
	Update(ctx context.Context, profile models.Profile) error
	Exists(ctx context.Context, profileID string) (bool, error)
}
