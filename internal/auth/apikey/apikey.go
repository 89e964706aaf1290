package apikey

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"time"

	"github.com/wsustone/L2L-United/internal/domain"
)

// SecretPrefix makes issued keys recognizable in configs and logs.
const SecretPrefix = "l2l_"

// Warning accompanies the one-time plaintext in the create response.
const Warning = "Save this API key now. You will not be able to see it again."

// GenerateSecret returns a new high-entropy key: prefix + 64 hex chars.
func GenerateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return SecretPrefix + hex.EncodeToString(buf), nil
}

// HashSecret is the sha256 hex digest stored in place of the plaintext.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// ExpiryFrom computes now + days, or nil when days <= 0 (non-expiring key).
func ExpiryFrom(now time.Time, days int) *time.Time {
	if days <= 0 {
		return nil
	}
	t := now.AddDate(0, 0, days)
	return &t
}

// Authenticator resolves a presented secret to the owning user.
type Authenticator struct {
	Log  *log.Logger
	Keys domain.APIKeysRepo
	Now  func() time.Time
}

var _ domain.KeyAuthenticator = (*Authenticator)(nil)

// Authenticate rejects unknown, inactive and expired keys with the exact
// caller-visible reasons, then stamps last_used_at best-effort in the
// background; a failed touch is never surfaced.
func (a *Authenticator) Authenticate(ctx context.Context, secret string) (domain.Identity, error) {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}

	hash := HashSecret(secret)
	k, found, err := a.Keys.KeyByHash(ctx, hash)
	if err != nil {
		return domain.Identity{}, domain.Upstream("Failed to look up API key", err)
	}
	if !found {
		return domain.Identity{}, domain.Unauthorized("Invalid API key")
	}
	if !k.IsActive {
		return domain.Identity{}, domain.Unauthorized("API key is inactive")
	}
	if k.ExpiresAt != nil && k.ExpiresAt.Before(now()) {
		return domain.Identity{}, domain.Unauthorized("API key has expired")
	}

	go func() {
		touchCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Keys.TouchKey(touchCtx, hash, now().UTC()); err != nil && a.Log != nil {
			a.Log.Printf("touch last_used_at failed key_id=%s: %v", k.ID, err)
		}
	}()

	return domain.Identity{UserID: k.UserID, ViaKey: true}, nil
}
