// Package profiles manages kid profiles and the credential checks that gate
// access to them.
package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kiddotube/backend/internal/auth"
	"github.com/kiddotube/backend/internal/models"
	"github.com/kiddotube/backend/internal/repositories"
)

var (
	// ErrUnauthorized is returned when a supplied password or PIN does not
	// match the stored credential.
	ErrUnauthorized = errors.New("profiles: invalid credentials")

	// ErrPinNotSet is returned when a kid login targets a profile that has
	// no PIN configured.
	ErrPinNotSet = errors.New("profiles: profile has no pin configured")

	// ErrParentNotConfigured is returned when no parent password hash is
	// configured, so parent login cannot succeed.
	ErrParentNotConfigured = errors.New("profiles: parent password not configured")

	// ErrInvalidProfile is returned when a create or update carries no
	// usable fields.
	ErrInvalidProfile = errors.New("profiles: avatar and silly name are required")
)

// ProfileUpdate carries the fields of a partial profile update. Nil pointers
// leave the stored value unchanged; a pointer to the empty string clears the
// PIN.
type ProfileUpdate struct {
	AvatarID  *string
	SillyName *string
	Pin       *string
}

// Registry is the profile directory: lookups, creation, partial updates, and
// the parent-password and kid-PIN checks.
type Registry struct {
	store      repositories.ProfileRepository
	parentHash string
	nowFunc    func() time.Time
}

// NewRegistry builds a Registry over the given store. parentHash is the
// bcrypt hash of the parent password and may be empty, in which case parent
// login is disabled until one is configured.
func NewRegistry(store repositories.ProfileRepository, parentHash string) *Registry {
	if store == nil {
		panic("profiles: nil repository")
	}
	return &Registry{
		store:      store,
		parentHash: parentHash,
		nowFunc:    func() time.Time { return time.Now().UTC() },
	}
}

// Get fetches a profile by id, including its credential hash. Intended for
// parent-facing surfaces; kid-facing callers should use GetPublic.
func (r *Registry) Get(ctx context.Context, profileID string) (models.Profile, error) {
	return r.store.Get(ctx, profileID)
}

// GetPublic fetches the credential-free view of a profile.
func (r *Registry) GetPublic(ctx context.Context, profileID string) (models.PublicProfile, error) {
	profile, err := r.store.Get(ctx, profileID)
	if err != nil {
		return models.PublicProfile{}, err
	}
	return profile.Public(), nil
}

// List returns every profile, credential hashes included. Parent-facing only;
// kid-facing callers go through GetPublic.
func (r *Registry) List(ctx context.Context) ([]models.Profile, error) {
	return r.store.List(ctx)
}

// Create stores a new profile. The PIN is optional; when present it is hashed
// before storage and never kept in the clear.
func (r *Registry) Create(ctx context.Context, avatarID, sillyName, pin string) (models.Profile, error) {
	avatarID = strings.TrimSpace(avatarID)
	sillyName = strings.TrimSpace(sillyName)
	if avatarID == "" || sillyName == "" {
		return models.Profile{}, ErrInvalidProfile
	}

	profile := models.Profile{
		ID:        "profile_" + uuid.NewString(),
		AvatarID:  avatarID,
		SillyName: sillyName,
		CreatedAt: r.nowFunc(),
	}
	if pin != "" {
		hash, err := auth.HashSecret(pin)
		if err != nil {
			return models.Profile{}, fmt.Errorf("hash pin: %w", err)
		}
		profile.PinHash = hash
	}

	if err := r.store.Create(ctx, profile); err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

// Update applies a partial update to an existing profile.
func (r *Registry) Update(ctx context.Context, profileID string, update ProfileUpdate) (models.Profile, error) {
	profile, err := r.store.Get(ctx, profileID)
	if err != nil {
		return models.Profile{}, err
	}

	if update.AvatarID != nil {
		avatarID := strings.TrimSpace(*update.AvatarID)
		if avatarID == "" {
			return models.Profile{}, ErrInvalidProfile
		}
		profile.AvatarID = avatarID
	}
	if update.SillyName != nil {
		sillyName := strings.TrimSpace(*update.SillyName)
		if sillyName == "" {
			return models.Profile{}, ErrInvalidProfile
		}
		profile.SillyName = sillyName
	}
	if update.Pin != nil {
		if *update.Pin == "" {
			profile.PinHash = ""
		} else {
			hash, err := auth.HashSecret(*update.Pin)
			if err != nil {
				return models.Profile{}, fmt.Errorf("hash pin: %w", err)
			}
			profile.PinHash = hash
		}
	}

	if err := r.store.Update(ctx, profile); err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

// AuthenticateParent checks the parent password against the configured hash.
func (r *Registry) AuthenticateParent(_ context.Context, password string) error {
	if r.parentHash == "" {
		return ErrParentNotConfigured
	}
	if !auth.VerifySecret(password, r.parentHash) {
		return ErrUnauthorized
	}
	return nil
}

// AuthenticateKid checks the PIN for a profile and returns its public view on
// success. Unknown profiles surface repositories.ErrNotFound; profiles
// without a PIN cannot be logged into.
func (r *Registry) AuthenticateKid(ctx context.Context, profileID, pin string) (models.PublicProfile, error) {
	profile, err := r.store.Get(ctx, profileID)
	if err != nil {
		return models.PublicProfile{}, err
	}
	if profile.PinHash == "" {
		return models.PublicProfile{}, ErrPinNotSet
	}
	if !auth.VerifySecret(pin, profile.PinHash) {
		return models.PublicProfile{}, ErrUnauthorized
	}
	return profile.Public(), nil
}

// WithNowFunc overrides the time source. Useful for tests.
func (r *Registry) WithNowFunc(now func() time.Time) {
	r.nowFunc = now
}
