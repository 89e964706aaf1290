package mw

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/wsustone/L2L-United/internal/domain"
)

const identityKey ctxKey = "auth_identity"

type AuthDeps struct {
	Tokens    domain.TokenManager
	Blacklist domain.TokenBlacklist
	APIKeys   domain.KeyAuthenticator // nil on bearer-only surfaces
}

// RequireAuth authenticates the request. Precedence: Bearer token before
// X-API-Key; neither present is rejected with "No authentication provided"
// (or the bearer-specific reason on bearer-only surfaces).
func RequireAuth(deps AuthDeps, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := extractBearer(r.Header.Get("Authorization")); raw != "" {
			claims, err := deps.Tokens.Parse(r.Context(), raw)
			if err != nil {
				deny(w, "Invalid token")
				return
			}
			if revoked, _ := deps.Blacklist.IsRevoked(r.Context(), claims.JTI); revoked {
				deny(w, "Invalid token")
				return
			}
			// Action-link tokens (recovery, email change, ...) are exchanged at
			// /v1/auth/verify; they never authenticate API requests directly.
			if claims.Action != "" {
				deny(w, "Invalid token")
				return
			}
			id := domain.Identity{UserID: claims.UserID, Email: claims.Email}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
			return
		}

		if deps.APIKeys != nil {
			if secret := r.Header.Get("X-API-Key"); secret != "" {
				id, err := deps.APIKeys.Authenticate(r.Context(), secret)
				if err != nil {
					deny(w, domain.UserMessage(err))
					return
				}
				next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
				return
			}
			deny(w, "No authentication provided")
			return
		}

		deny(w, "No authentication token provided")
	})
}

func deny(w http.ResponseWriter, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	buf, _ := json.Marshal(map[string]string{"error": reason})
	_, _ = w.Write(buf)
}

// WithIdentity attaches the authenticated identity; handlers read it back
// with IdentityFromCtx.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromCtx(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(domain.Identity)
	return id, ok
}

func extractBearer(h string) string {
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
