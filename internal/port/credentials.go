package port

import "errors"

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenManager issues and verifies bearer tokens carrying a user ID.
type TokenManager interface {
	Issue(userID string) (string, error)

	// Verify returns the user ID embedded in the token. Expired tokens fail
	// with ErrTokenExpired, everything else malformed with ErrTokenInvalid.
	Verify(token string) (string, error)
}

// PasswordHasher hides the password hashing scheme from the core.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}
