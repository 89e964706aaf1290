package domain

import (
	"context"
	"time"
)

type Token = string

type TokenClaims struct {
	JTI       string // unique token id, revocable via blacklist
	UserID    UserID
	Email     string
	Action    string // non-empty on action-link tokens; those never authenticate requests
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Password hashing (argon2id in internal/auth/password).
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encodedHash string) (bool, error)
}

// Token management (JWT in internal/auth/token).
type TokenManager interface {
	Issue(ctx context.Context, userID UserID, email string) (Token, TokenClaims, error)
	// IssueAction mints a one-time action link token with its own TTL
	// (auth-email flow: signup confirmation, recovery, magic link, ...).
	IssueAction(ctx context.Context, userID UserID, email, action string, ttl time.Duration) (Token, error)
	Parse(ctx context.Context, t Token) (TokenClaims, error)
}

// Token revocation (Redis-backed).
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, exp time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Identity is the result of authenticating a request: a bearer session or an
// API key, resolved to the owning user.
type Identity struct {
	UserID UserID
	Email  string
	ViaKey bool // true when authenticated with X-API-Key
}

// KeyAuthenticator validates a presented API-key secret (documents surface only).
type KeyAuthenticator interface {
	Authenticate(ctx context.Context, secret string) (Identity, error)
}
