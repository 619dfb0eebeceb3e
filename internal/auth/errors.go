package auth

import "errors"

var (
	// ErrTokenRequired indicates the request carried no bearer token.
	ErrTokenRequired = errors.New("authentication required")
	// ErrTokenInvalid indicates the bearer token failed validation.
	ErrTokenInvalid = errors.New("invalid or expired token")
	// ErrForbidden indicates the token is valid but lacks the required role
	// or profile scope.
	ErrForbidden = errors.New("insufficient permissions")
)
