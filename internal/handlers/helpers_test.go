package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kiddotube/backend/internal/approvals"
	"github.com/kiddotube/backend/internal/auth"
	"github.com/kiddotube/backend/internal/history"
	"github.com/kiddotube/backend/internal/models"
	"github.com/kiddotube/backend/internal/profiles"
	"github.com/kiddotube/backend/internal/repositories"
	"github.com/kiddotube/backend/internal/youtube"
)

type stubMetadata struct {
	videos   map[string]youtube.Video
	channels map[string]youtube.Channel
	uploads  map[string][]youtube.Video
}

func newStubMetadata() *stubMetadata {
	return &stubMetadata{
		videos:   make(map[string]youtube.Video),
		channels: make(map[string]youtube.Channel),
		uploads:  make(map[string][]youtube.Video),
	}
}

func (s *stubMetadata) LookupVideo(_ context.Context, url string) (youtube.Video, error) {
	if video, ok := s.videos[url]; ok {
		return video, nil
	}
	return youtube.Video{}, youtube.ErrVideoNotFound
}

func (s *stubMetadata) LookupChannel(_ context.Context, url string) (youtube.Channel, error) {
	if channel, ok := s.channels[url]; ok {
		return channel, nil
	}
	return youtube.Channel{}, youtube.ErrChannelNotFound
}

func (s *stubMetadata) ChannelVideos(_ context.Context, channelID string) ([]youtube.Video, error) {
	if uploads, ok := s.uploads[channelID]; ok {
		return uploads, nil
	}
	return nil, youtube.ErrChannelNotFound
}

type testEnv struct {
	mux      *http.ServeMux
	tokens   *auth.TokenService
	repos    *repositories.MemoryRepositories
	metadata *stubMetadata
}

// newTestEnv wires the full handler stack over in-memory repositories with
// two seeded profiles: profile_1 has PIN "1234", profile_2 has no PIN. The
// parent password is "hunter2".
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repos := repositories.NewMemoryRepositories()

	pinHash, err := auth.HashSecret("1234")
	if err != nil {
		t.Fatalf("hash pin: %v", err)
	}
	seedProfile(t, repos, models.Profile{
		ID:        "profile_1",
		AvatarID:  "rocket",
		SillyName: "Captain Bubbles",
		PinHash:   pinHash,
		CreatedAt: time.Now().UTC(),
	})
	seedProfile(t, repos, models.Profile{
		ID:        "profile_2",
		AvatarID:  "dinosaur",
		SillyName: "Professor Giggles",
		CreatedAt: time.Now().UTC(),
	})

	parentHash, err := auth.HashSecret("hunter2")
	if err != nil {
		t.Fatalf("hash parent password: %v", err)
	}

	metadata := newStubMetadata()
	tokens := auth.NewTokenService([]byte("test-secret"))

	mux := http.NewServeMux()
	RegisterRoutes(mux, Dependencies{
		Profiles:  profiles.NewRegistry(repos.Profiles, parentHash),
		Approvals: approvals.NewEngine(repos.Profiles, repos.Approvals, metadata, time.Second),
		History:   history.NewLedger(repos.Profiles, repos.History),
		Metadata:  metadata,
		Tokens:    tokens,
		Guard:     auth.NewGuard(tokens),
		ParentTTL: time.Hour,
		KidTTL:    time.Hour,
	})

	return &testEnv{mux: mux, tokens: tokens, repos: repos, metadata: metadata}
}

func seedProfile(t *testing.T, repos *repositories.MemoryRepositories, profile models.Profile) {
	t.Helper()
	if err := repos.Profiles.Create(context.Background(), profile); err != nil {
		t.Fatalf("seed profile %s: %v", profile.ID, err)
	}
}

func (e *testEnv) parentToken(t *testing.T) string {
	t.Helper()
	token, err := e.tokens.Issue(auth.Claims{Role: auth.RoleParent}, time.Hour)
	if err != nil {
		t.Fatalf("issue parent token: %v", err)
	}
	return token
}

func (e *testEnv) kidToken(t *testing.T, profileID string) string {
	t.Helper()
	token, err := e.tokens.Issue(auth.Claims{Role: auth.RoleKid, ProfileID: profileID}, time.Hour)
	if err != nil {
		t.Fatalf("issue kid token: %v", err)
	}
	return token
}

// do runs a request through the full route table and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}
