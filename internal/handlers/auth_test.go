package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kiddotube/backend/internal/auth"
	"github.com/kiddotube/backend/internal/profiles"
)

func TestParentLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/parent-login", "", parentLoginRequest{Password: "hunter2"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	resp := decodeBody[tokenResponse](t, rec)
	if resp.Token == "" {
		t.Fatal("expected a token to be issued")
	}

	claims, ok := env.tokens.Validate(resp.Token)
	if !ok || claims.Role != auth.RoleParent {
		t.Fatalf("expected a valid parent token, got %+v valid=%v", claims, ok)
	}
}

func TestParentLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/parent-login", "", parentLoginRequest{Password: "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d got %d", http.StatusUnauthorized, rec.Code)
	}

	resp := decodeBody[errorResponse](t, rec)
	if resp.Success {
		t.Fatal("error body must carry success=false")
	}
}

func TestKidLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/kid-login", "", kidLoginRequest{ProfileID: "profile_1", Pin: "1234"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	resp := decodeBody[kidLoginResponse](t, rec)
	if resp.Token == "" {
		t.Fatal("expected a token to be issued")
	}
	if resp.Profile.ID != "profile_1" || resp.Profile.SillyName != "Captain Bubbles" {
		t.Fatalf("unexpected profile payload: %+v", resp.Profile)
	}

	claims, ok := env.tokens.Validate(resp.Token)
	if !ok || claims.Role != auth.RoleKid || claims.ProfileID != "profile_1" {
		t.Fatalf("expected a kid token scoped to profile_1, got %+v valid=%v", claims, ok)
	}
}

func TestKidLoginFailures(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name   string
		req    kidLoginRequest
		status int
	}{
		{"wrong pin", kidLoginRequest{ProfileID: "profile_1", Pin: "9999"}, http.StatusUnauthorized},
		{"unknown profile", kidLoginRequest{ProfileID: "profile_404", Pin: "1234"}, http.StatusNotFound},
		{"no pin configured", kidLoginRequest{ProfileID: "profile_2", Pin: "1234"}, http.StatusBadRequest},
		{"missing fields", kidLoginRequest{}, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/auth/kid-login", "", tc.req)
			if rec.Code != tc.status {
				t.Fatalf("expected status %d got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
		})
	}
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string) bool { return false }

func TestLoginRateLimited(t *testing.T) {
	env := newTestEnv(t)

	handler := AuthHandler{
		Profiles: profiles.NewRegistry(env.repos.Profiles, ""),
		Tokens:   env.tokens,
		Limiter:  denyAllLimiter{},
	}

	body, err := json.Marshal(parentLoginRequest{Password: "hunter2"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/auth/parent-login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ParentLogin(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status %d got %d", http.StatusTooManyRequests, rec.Code)
	}
}
