package auth

import (
	"net/http"
	"strings"
)

// Guard decides whether a request may perform an operation, based on the
// bearer token it carries. It never mutates state.
type Guard struct {
	tokens *TokenService
}

// NewGuard constructs a Guard backed by the provided token service.
func NewGuard(tokens *TokenService) *Guard {
	if tokens == nil {
		panic("auth: token service must not be nil")
	}
	return &Guard{tokens: tokens}
}

// RequireRole extracts and validates the bearer token and checks its role.
// It returns ErrTokenRequired when no token is present, ErrTokenInvalid when
// validation fails and ErrForbidden on a role mismatch.
func (g *Guard) RequireRole(r *http.Request, role string) (Claims, error) {
	token := BearerToken(r)
	if token == "" {
		return Claims{}, ErrTokenRequired
	}

	claims, ok := g.tokens.Validate(token)
	if !ok {
		return Claims{}, ErrTokenInvalid
	}

	if claims.Role != role {
		return Claims{}, ErrForbidden
	}

	return claims, nil
}

// RequireParent authorizes parent-only operations.
func (g *Guard) RequireParent(r *http.Request) (Claims, error) {
	return g.RequireRole(r, RoleParent)
}

// RequireKidOwnership authorizes kid operations scoped to the kid's own
// profile. A valid kid token for a different profile yields ErrForbidden.
func (g *Guard) RequireKidOwnership(r *http.Request, profileID string) (Claims, error) {
	claims, err := g.RequireRole(r, RoleKid)
	if err != nil {
		return Claims{}, err
	}
	if claims.ProfileID != profileID {
		return Claims{}, ErrForbidden
	}
	return claims, nil
}

// RequireAny accepts either role; used on endpoints where parents and kids
// get different views. Kid ownership checks remain the caller's job.
func (g *Guard) RequireAny(r *http.Request) (Claims, error) {
	token := BearerToken(r)
	if token == "" {
		return Claims{}, ErrTokenRequired
	}
	claims, ok := g.tokens.Validate(token)
	if !ok {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

// BearerToken extracts the token from an Authorization: Bearer header. It
// returns the empty string when the header is missing or malformed.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
