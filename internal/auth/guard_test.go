package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestRequest(t *testing.T, token string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/profiles/profile_1/videos", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func TestGuardRequireParent(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"))
	guard := NewGuard(svc)

	token, err := svc.Issue(Claims{Role: RoleParent}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := guard.RequireParent(newTestRequest(t, token))
	if err != nil {
		t.Fatalf("require parent: %v", err)
	}
	if claims.Role != RoleParent {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestGuardMissingToken(t *testing.T) {
	guard := NewGuard(NewTokenService([]byte("test-secret")))

	if _, err := guard.RequireParent(newTestRequest(t, "")); !errors.Is(err, ErrTokenRequired) {
		t.Fatalf("expected ErrTokenRequired, got %v", err)
	}
}

func TestGuardInvalidToken(t *testing.T) {
	guard := NewGuard(NewTokenService([]byte("test-secret")))

	if _, err := guard.RequireParent(newTestRequest(t, "garbage")); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestGuardRoleMismatch(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"))
	guard := NewGuard(svc)

	kidToken, err := svc.Issue(Claims{Role: RoleKid, ProfileID: "profile_1"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := guard.RequireParent(newTestRequest(t, kidToken)); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestGuardKidOwnership(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"))
	guard := NewGuard(svc)

	token, err := svc.Issue(Claims{Role: RoleKid, ProfileID: "profile_1"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := guard.RequireKidOwnership(newTestRequest(t, token), "profile_1"); err != nil {
		t.Fatalf("own profile should be allowed: %v", err)
	}

	// Valid, unexpired token for profile_1 must not open profile_2.
	if _, err := guard.RequireKidOwnership(newTestRequest(t, token), "profile_2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign profile, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := BearerToken(r); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}

	r.Header.Set("Authorization", "Basic abc123")
	if got := BearerToken(r); got != "" {
		t.Fatalf("expected empty token for non-bearer scheme, got %q", got)
	}

	r.Header.Set("Authorization", "Bearer abc123")
	if got := BearerToken(r); got != "abc123" {
		t.Fatalf("expected abc123, got %q", got)
	}
}
