// Package history records what each kid profile has watched and answers
// bounded queries over that record.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kiddotube/backend/internal/models"
	"github.com/kiddotube/backend/internal/repositories"
)

// ErrInvalidRecord is returned when a watch report is missing its video ID.
var ErrInvalidRecord = errors.New("history: watch record requires a video id")

const (
	// maxRetained is the number of watch records kept per profile. Older
	// records are discarded as new ones arrive.
	maxRetained = 100

	// defaultListLimit bounds List calls that do not ask for a specific
	// page size.
	defaultListLimit = 50
)

// Ledger appends watch records and trims each profile's history to the
// retention cap.
type Ledger struct {
	profiles repositories.ProfileRepository
	store    repositories.HistoryRepository
	nowFunc  func() time.Time
}

func NewLedger(profiles repositories.ProfileRepository, store repositories.HistoryRepository) *Ledger {
	if profiles == nil || store == nil {
		panic("history: nil repository")
	}
	return &Ledger{
		profiles: profiles,
		store:    store,
		nowFunc:  func() time.Time { return time.Now().UTC() },
	}
}

// Record appends a watch record for the profile and trims history beyond the
// retention cap. The record's WatchedAt is stamped here; callers only supply
// the video ID, title, and watch duration.
func (l *Ledger) Record(ctx context.Context, profileID string, record models.WatchRecord) (models.WatchRecord, error) {
	if err := l.requireProfile(ctx, profileID); err != nil {
		return models.WatchRecord{}, err
	}
	if record.VideoID == "" {
		return models.WatchRecord{}, ErrInvalidRecord
	}

	record.WatchedAt = l.nowFunc()
	if err := l.store.Append(ctx, profileID, record); err != nil {
		return models.WatchRecord{}, fmt.Errorf("append watch record: %w", err)
	}
	if err := l.store.Trim(ctx, profileID, maxRetained); err != nil {
		return models.WatchRecord{}, fmt.Errorf("trim watch history: %w", err)
	}
	return record, nil
}

// List returns the profile's most recent watch records, newest first. A limit
// of zero or less means the default page size; the retention cap bounds what
// can come back regardless of the limit asked for.
func (l *Ledger) List(ctx context.Context, profileID string, limit int) ([]models.WatchRecord, error) {
	if err := l.requireProfile(ctx, profileID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxRetained {
		limit = maxRetained
	}
	return l.store.List(ctx, profileID, limit)
}

func (l *Ledger) requireProfile(ctx context.Context, profileID string) error {
	exists, err := l.profiles.Exists(ctx, profileID)
	if err != nil {
		return fmt.Errorf("check profile: %w", err)
	}
	if !exists {
		return repositories.ErrNotFound
	}
	return nil
}

// WithNowFunc overrides the time source. Useful for tests.
func (l *Ledger) WithNowFunc(now func() time.Time) {
	l.nowFunc = now
}
