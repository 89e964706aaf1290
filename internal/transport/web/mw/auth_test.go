package mw

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsustone/L2L-United/internal/domain"
)

type fakeTokens struct {
	claims domain.TokenClaims
	err    error
}

func (f fakeTokens) Issue(_ context.Context, _ domain.UserID, _ string) (domain.Token, domain.TokenClaims, error) {
	return "", domain.TokenClaims{}, nil
}
func (f fakeTokens) IssueAction(_ context.Context, _ domain.UserID, _, _ string, _ time.Duration) (domain.Token, error) {
	return "", nil
}
func (f fakeTokens) Parse(_ context.Context, _ domain.Token) (domain.TokenClaims, error) {
	return f.claims, f.err
}

type fakeBlacklist struct{ revoked bool }

func (f fakeBlacklist) Revoke(_ context.Context, _ string, _ time.Time) error { return nil }
func (f fakeBlacklist) IsRevoked(_ context.Context, _ string) (bool, error)   { return f.revoked, nil }

type fakeKeyAuth struct {
	id  domain.Identity
	err error
}

func (f fakeKeyAuth) Authenticate(_ context.Context, _ string) (domain.Identity, error) {
	return f.id, f.err
}

func capture() (http.Handler, *domain.Identity) {
	got := &domain.Identity{}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := IdentityFromCtx(r.Context()); ok {
			*got = id
		}
		w.WriteHeader(http.StatusOK)
	}), got
}

func TestRequireAuth_BearerBeforeAPIKey(t *testing.T) {
	t.Parallel()

	bearerUser := uuid.New()
	keyUser := uuid.New()

	deps := AuthDeps{
		Tokens:    fakeTokens{claims: domain.TokenClaims{JTI: "j", UserID: bearerUser, Email: "b@x"}},
		Blacklist: fakeBlacklist{},
		APIKeys:   fakeKeyAuth{id: domain.Identity{UserID: keyUser, ViaKey: true}},
	}

	next, got := capture()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer tok")
	r.Header.Set("X-API-Key", "l2l_secret")
	rec := httptest.NewRecorder()
	RequireAuth(deps, next).ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, bearerUser, got.UserID, "bearer token takes precedence over the API key")
	assert.False(t, got.ViaKey)
}

func TestRequireAuth_InvalidBearer(t *testing.T) {
	t.Parallel()

	deps := AuthDeps{
		Tokens:    fakeTokens{err: errors.New("bad signature")},
		Blacklist: fakeBlacklist{},
		APIKeys:   fakeKeyAuth{id: domain.Identity{UserID: uuid.New()}},
	}

	next, _ := capture()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer tok")
	// API key present but never consulted once a bearer token was offered
	r.Header.Set("X-API-Key", "l2l_secret")
	rec := httptest.NewRecorder()
	RequireAuth(deps, next).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid token"}`, rec.Body.String())
}

func TestRequireAuth_RevokedBearer(t *testing.T) {
	t.Parallel()

	deps := AuthDeps{
		Tokens:    fakeTokens{claims: domain.TokenClaims{JTI: "j"}},
		Blacklist: fakeBlacklist{revoked: true},
	}

	next, _ := capture()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	RequireAuth(deps, next).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid token"}`, rec.Body.String())
}

func TestRequireAuth_ActionLinkTokenRejected(t *testing.T) {
	t.Parallel()

	// recovery/email-change link tokens only pass through /v1/auth/verify
	deps := AuthDeps{
		Tokens:    fakeTokens{claims: domain.TokenClaims{JTI: "j", UserID: uuid.New(), Action: "recovery"}},
		Blacklist: fakeBlacklist{},
		APIKeys:   fakeKeyAuth{id: domain.Identity{UserID: uuid.New(), ViaKey: true}},
	}

	next, got := capture()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer action-tok")
	rec := httptest.NewRecorder()
	RequireAuth(deps, next).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid token"}`, rec.Body.String())
	assert.Equal(t, uuid.Nil, got.UserID, "handler must not run on an action token")
}

func TestRequireAuth_APIKeyPath(t *testing.T) {
	t.Parallel()

	keyUser := uuid.New()
	deps := AuthDeps{
		Tokens:    fakeTokens{},
		Blacklist: fakeBlacklist{},
		APIKeys:   fakeKeyAuth{id: domain.Identity{UserID: keyUser, ViaKey: true}},
	}

	next, got := capture()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-API-Key", "l2l_secret")
	rec := httptest.NewRecorder()
	RequireAuth(deps, next).ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, keyUser, got.UserID)
	assert.True(t, got.ViaKey)
}

func TestRequireAuth_APIKeyRejection(t *testing.T) {
	t.Parallel()

	deps := AuthDeps{
		Tokens:    fakeTokens{},
		Blacklist: fakeBlacklist{},
		APIKeys:   fakeKeyAuth{err: domain.Unauthorized("API key has expired")},
	}

	next, _ := capture()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-API-Key", "l2l_old")
	rec := httptest.NewRecorder()
	RequireAuth(deps, next).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"API key has expired"}`, rec.Body.String())
}

func TestRequireAuth_NothingPresented(t *testing.T) {
	t.Parallel()

	next, _ := capture()

	// on a keyed surface
	keyed := AuthDeps{Tokens: fakeTokens{}, Blacklist: fakeBlacklist{}, APIKeys: fakeKeyAuth{}}
	rec := httptest.NewRecorder()
	RequireAuth(keyed, next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"No authentication provided"}`, rec.Body.String())

	// on a bearer-only surface
	bearer := AuthDeps{Tokens: fakeTokens{}, Blacklist: fakeBlacklist{}}
	rec = httptest.NewRecorder()
	RequireAuth(bearer, next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"No authentication token provided"}`, rec.Body.String())
}
