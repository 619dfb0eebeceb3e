package auth

import (
	"testing"
	"time"
)

func TestTokenServiceIssueAndValidate(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"))

	token, err := svc.Issue(Claims{Role: RoleParent}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, ok := svc.Validate(token)
	if !ok {
		t.Fatal("expected token to validate")
	}
	if claims.Role != RoleParent || claims.ProfileID != "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenServiceKidScope(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"))

	token, err := svc.Issue(Claims{Role: RoleKid, ProfileID: "profile_1"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, ok := svc.Validate(token)
	if !ok {
		t.Fatal("expected token to validate")
	}
	if claims.Role != RoleKid || claims.ProfileID != "profile_1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := svc.Issue(Claims{Role: RoleKid}, time.Hour); err == nil {
		t.Fatal("expected error for kid token without profile id")
	}
}

func TestTokenServiceIssueUnknownRole(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"))
	if _, err := svc.Issue(Claims{Role: "admin"}, time.Hour); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestTokenServiceExpiry(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"))

	issuedAt := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	svc.WithNowFunc(func() time.Time { return issuedAt })

	token, err := svc.Issue(Claims{Role: RoleKid, ProfileID: "profile_1"}, time.Second)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, ok := svc.Validate(token); !ok {
		t.Fatal("token should be valid before expiry")
	}

	svc.WithNowFunc(func() time.Time { return issuedAt.Add(2 * time.Second) })
	if _, ok := svc.Validate(token); ok {
		t.Fatal("token should be rejected after expiry")
	}
}

func TestTokenServiceRejectsGarbage(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"))

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, ok := svc.Validate(token); ok {
			t.Fatalf("expected %q to be rejected", token)
		}
	}
}

func TestTokenServiceRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService([]byte("secret-a"))
	verifier := NewTokenService([]byte("secret-b"))

	token, err := issuer.Issue(Claims{Role: RoleParent}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, ok := verifier.Validate(token); ok {
		t.Fatal("token signed with a different secret should be rejected")
	}
}
