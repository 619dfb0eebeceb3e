package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles carried by issued tokens.
const (
	RoleParent = "parent"
	RoleKid    = "kid"
)

// Claims identifies the caller. Kid tokens are scoped to exactly one profile;
// parent tokens carry no profile scope.
type Claims struct {
	Role      string
	ProfileID string
}

// TokenService issues and validates HS256-signed bearer tokens. There is no
// revocation: a leaked token stays valid until its natural expiry.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService constructs a TokenService signing with the provided secret.
func NewTokenService(secret []byte) *TokenService {
	if len(secret) == 0 {
		panic("auth: token secret must not be empty")
	}
	return &TokenService{secret: secret, now: time.Now}
}

// Issue produces a signed, self-contained token embedding the claims and an
// expiry ttl from now.
func (s *TokenService) Issue(claims Claims, ttl time.Duration) (string, error) {
	if claims.Role != RoleParent && claims.Role != RoleKid {
		return "", fmt.Errorf("issue token: unknown role %q", claims.Role)
	}
	if claims.Role == RoleKid && claims.ProfileID == "" {
		return "", fmt.Errorf("issue token: kid tokens require a profile id")
	}

	now := s.now()
	payload := jwt.MapClaims{
		"role": claims.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	if claims.ProfileID != "" {
		payload["profileId"] = claims.ProfileID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	return token.SignedString(s.secret)
}

// Validate verifies the signature and expiry of the token. It returns the
// embedded claims and true on success, and a zero Claims and false on any
// failure (bad signature, malformed token, expired). It never panics or
// returns an error.
func (s *TokenService) Validate(tokenString string) (Claims, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return Claims{}, false
	}

	payload, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, false
	}

	role, _ := payload["role"].(string)
	if role != RoleParent && role != RoleKid {
		return Claims{}, false
	}

	claims := Claims{Role: role}
	if profileID, ok := payload["profileId"].(string); ok {
		claims.ProfileID = profileID
	}
	if claims.Role == RoleKid && claims.ProfileID == "" {
		return Claims{}, false
	}

	return claims, true
}

// WithNowFunc overrides the time source. Useful for tests.
func (s *TokenService) WithNowFunc(now func() time.Time) {
	s.now = now
}
