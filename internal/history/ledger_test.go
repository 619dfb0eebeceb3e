package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kiddotube/backend/internal/models"
	"github.com/kiddotube/backend/internal/repositories"
)

func newTestLedger(t *testing.T) (*Ledger, *repositories.MemoryRepositories) {
	t.Helper()
	repos := repositories.NewMemoryRepositories()
	if err := repos.Profiles.Create(context.Background(), models.Profile{
		ID:        "profile_1",
		AvatarID:  "rocket",
		SillyName: "Captain Bubbles",
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return NewLedger(repos.Profiles, repos.History), repos
}

func TestRecordStampsWatchedAt(t *testing.T) {
	ledger, _ := newTestLedger(t)

	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	ledger.WithNowFunc(func() time.Time { return now })

	record, err := ledger.Record(context.Background(), "profile_1", models.WatchRecord{
		VideoID:              "v1",
		Title:                "Volcano science",
		WatchDurationSeconds: 312,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !record.WatchedAt.Equal(now) {
		t.Fatalf("expected watchedAt %v, got %v", now, record.WatchedAt)
	}
}

func TestRecordRejectsMissingVideoID(t *testing.T) {
	ledger, _ := newTestLedger(t)

	if _, err := ledger.Record(context.Background(), "profile_1", models.WatchRecord{Title: "no id"}); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestRecordUnknownProfile(t *testing.T) {
	ledger, _ := newTestLedger(t)

	if _, err := ledger.Record(context.Background(), "profile_404", models.WatchRecord{VideoID: "v1"}); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRetentionCap(t *testing.T) {
	ledger, repos := newTestLedger(t)

	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 105; i++ {
		i := i
		ledger.WithNowFunc(func() time.Time { return base.Add(time.Duration(i) * time.Minute) })
		if _, err := ledger.Record(context.Background(), "profile_1", models.WatchRecord{
			VideoID: fmt.Sprintf("v%03d", i),
		}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	if count := repos.History.Count("profile_1"); count != 100 {
		t.Fatalf("expected history trimmed to 100 records, got %d", count)
	}

	records, err := ledger.List(context.Background(), "profile_1", 100)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 100 {
		t.Fatalf("expected 100 records, got %d", len(records))
	}
	if records[0].VideoID != "v104" {
		t.Fatalf("expected newest record first, got %s", records[0].VideoID)
	}
	if records[99].VideoID != "v005" {
		t.Fatalf("expected the five oldest records discarded, got %s", records[99].VideoID)
	}
}

func TestListDefaultLimit(t *testing.T) {
	ledger, _ := newTestLedger(t)

	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		i := i
		ledger.WithNowFunc(func() time.Time { return base.Add(time.Duration(i) * time.Minute) })
		if _, err := ledger.Record(context.Background(), "profile_1", models.WatchRecord{
			VideoID: fmt.Sprintf("v%02d", i),
		}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	records, err := ledger.List(context.Background(), "profile_1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 50 {
		t.Fatalf("expected default page of 50, got %d", len(records))
	}
	if records[0].VideoID != "v59" {
		t.Fatalf("expected newest first, got %s", records[0].VideoID)
	}
}

func TestListEmptyHistory(t *testing.T) {
	ledger, _ := newTestLedger(t)

	records, err := ledger.List(context.Background(), "profile_1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history, got %d records", len(records))
	}
}
