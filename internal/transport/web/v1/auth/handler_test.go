package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsustone/L2L-United/internal/auth/password"
	"github.com/wsustone/L2L-United/internal/auth/token"
	"github.com/wsustone/L2L-United/internal/domain"
)

type fakeProfiles struct {
	byEmail   map[string]domain.Profile
	created   *domain.Profile
	createErr error
}

func (f *fakeProfiles) Close()                       {}
func (f *fakeProfiles) Ping(_ context.Context) error { return nil }
func (f *fakeProfiles) CreateProfile(_ context.Context, email string, passHash []byte) (domain.Profile, error) {
	if f.createErr != nil {
		return domain.Profile{}, f.createErr
	}
	p := domain.Profile{ID: uuid.New(), Email: email, PassHash: passHash, AccessStage: domain.StageAwaitingAdmin}
	f.created = &p
	return p, nil
}
func (f *fakeProfiles) ProfileByEmail(_ context.Context, email string) (domain.Profile, error) {
	if p, ok := f.byEmail[email]; ok {
		return p, nil
	}
	return domain.Profile{}, domain.ErrNotFound
}
func (f *fakeProfiles) ProfileByID(_ context.Context, _ domain.UserID) (domain.Profile, error) {
	return domain.Profile{}, domain.ErrNotFound
}
func (f *fakeProfiles) UpdateProfileDetails(_ context.Context, _ domain.UserID, _, _, _ string) (domain.Profile, error) {
	return domain.Profile{}, nil
}
func (f *fakeProfiles) AcceptTerms(_ context.Context, _ domain.UserID, _ string, _ time.Time) (domain.Profile, error) {
	return domain.Profile{}, nil
}
func (f *fakeProfiles) RecordNDAUpload(_ context.Context, _ domain.UserID, _ string, _ time.Time, _ domain.AccessStage) (domain.Profile, error) {
	return domain.Profile{}, nil
}

type memBlacklist struct{ revoked map[string]bool }

func (m *memBlacklist) Revoke(_ context.Context, jti string, _ time.Time) error {
	m.revoked[jti] = true
	return nil
}
func (m *memBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	return m.revoked[jti], nil
}

func nopLog() *log.Logger { return log.New(io.Discard, "", 0) }

func TestRegister_RequiresAdminToken(t *testing.T) {
	t.Parallel()

	h := &HandlerRegister{Log: nopLog(), Profiles: &fakeProfiles{}, Hasher: password.NewDefault(), AdminToken: "admin-secret"}

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/v1/register",
		strings.NewReader(`{"token":"wrong","email":"a@b.co","password":"longenough"}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid registration token")
}

func TestRegister_ValidationAndCreate(t *testing.T) {
	t.Parallel()

	profiles := &fakeProfiles{}
	h := &HandlerRegister{Log: nopLog(), Profiles: profiles, Hasher: password.NewDefault(), AdminToken: "admin-secret"}

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/v1/register",
		strings.NewReader(`{"token":"admin-secret","email":"not-an-email","password":"longenough"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/v1/register",
		strings.NewReader(`{"token":"admin-secret","email":"p@example.com","password":"short"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/v1/register",
		strings.NewReader(`{"token":"admin-secret","email":"p@example.com","password":"longenough"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, profiles.created)
	assert.Equal(t, domain.StageAwaitingAdmin, profiles.created.AccessStage)
	assert.NotContains(t, rec.Body.String(), "longenough", "password never echoes back")
}

func TestRegister_DuplicateEmailVsOutage(t *testing.T) {
	t.Parallel()

	body := func() *strings.Reader {
		return strings.NewReader(`{"token":"admin-secret","email":"p@example.com","password":"longenough"}`)
	}

	// unique conflict is the caller's mistake
	dup := &fakeProfiles{createErr: domain.ErrBadParams}
	h := &HandlerRegister{Log: nopLog(), Profiles: dup, Hasher: password.NewDefault(), AdminToken: "admin-secret"}
	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/v1/register", body()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "An account with this email already exists")

	// a store outage is not
	down := &fakeProfiles{createErr: errors.New("connection refused")}
	h = &HandlerRegister{Log: nopLog(), Profiles: down, Hasher: password.NewDefault(), AdminToken: "admin-secret"}
	rec = httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/v1/register", body()))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "already exists")
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestLoginLogoutFlow(t *testing.T) {
	t.Parallel()

	hasher := password.NewDefault()
	hash, err := hasher.Hash("correct horse")
	require.NoError(t, err)

	user := domain.Profile{ID: uuid.New(), Email: "p@example.com", PassHash: []byte(hash)}
	profiles := &fakeProfiles{byEmail: map[string]domain.Profile{user.Email: user}}
	tokens := token.New("secret", "l2l-portal", time.Hour)
	bl := &memBlacklist{revoked: map[string]bool{}}

	login := &HandlerLogin{Log: nopLog(), Profiles: profiles, Hasher: hasher, Tokens: tokens}
	logout := &HandlerLogout{Log: nopLog(), Tokens: tokens, Blacklist: bl}

	// wrong password
	rec := httptest.NewRecorder()
	login.Login(rec, httptest.NewRequest(http.MethodPost, "/v1/auth",
		strings.NewReader(`{"email":"p@example.com","password":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")

	// unknown email gets the same answer
	rec = httptest.NewRecorder()
	login.Login(rec, httptest.NewRequest(http.MethodPost, "/v1/auth",
		strings.NewReader(`{"email":"ghost@example.com","password":"whatever"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")

	// success
	rec = httptest.NewRecorder()
	login.Login(rec, httptest.NewRequest(http.MethodPost, "/v1/auth",
		strings.NewReader(`{"email":"p@example.com","password":"correct horse"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Token   string         `json:"token"`
		Profile domain.Profile `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	assert.Equal(t, user.ID, body.Profile.ID)

	// logout revokes the jti
	r := httptest.NewRequest(http.MethodDelete, "/v1/auth", nil)
	r.Header.Set("Authorization", "Bearer "+body.Token)
	rec = httptest.NewRecorder()
	logout.Logout(rec, r)
	require.Equal(t, http.StatusOK, rec.Code)

	claims, err := tokens.Parse(context.Background(), body.Token)
	require.NoError(t, err)
	assert.True(t, bl.revoked[claims.JTI])
}

func TestLogout_MissingToken(t *testing.T) {
	t.Parallel()

	logout := &HandlerLogout{Log: nopLog(), Tokens: token.New("s", "i", time.Hour), Blacklist: &memBlacklist{revoked: map[string]bool{}}}

	rec := httptest.NewRecorder()
	logout.Logout(rec, httptest.NewRequest(http.MethodDelete, "/v1/auth", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing token")
}

func TestVerify_ActionLinkWorksExactlyOnce(t *testing.T) {
	t.Parallel()

	tokens := token.New("secret", "l2l-portal", 12*time.Hour)
	userID := uuid.New()
	raw, err := tokens.IssueAction(context.Background(), userID, "p@example.com", "recovery", time.Hour)
	require.NoError(t, err)

	bl := &memBlacklist{revoked: map[string]bool{}}
	verify := &HandlerVerify{Log: nopLog(), Tokens: tokens, Blacklist: bl}

	rec := httptest.NewRecorder()
	verify.Verify(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/verify",
		strings.NewReader(`{"token":"`+raw+`"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Token  string `json:"token"`
		Action string `json:"action"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "recovery", got.Action)

	// the exchanged session token carries no action tag
	session, err := tokens.Parse(context.Background(), got.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, session.UserID)
	assert.Empty(t, session.Action)

	// the link is spent now
	rec = httptest.NewRecorder()
	verify.Verify(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/verify",
		strings.NewReader(`{"token":"`+raw+`"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "This link has already been used")
}

func TestVerify_RejectsSessionToken(t *testing.T) {
	t.Parallel()

	tokens := token.New("secret", "l2l-portal", time.Hour)
	raw, _, err := tokens.Issue(context.Background(), uuid.New(), "p@example.com")
	require.NoError(t, err)

	bl := &memBlacklist{revoked: map[string]bool{}}
	verify := &HandlerVerify{Log: nopLog(), Tokens: tokens, Blacklist: bl}

	rec := httptest.NewRecorder()
	verify.Verify(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/verify",
		strings.NewReader(`{"token":"`+raw+`"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid token type")
	assert.Empty(t, bl.revoked, "a session token must not be burned by verify")
}

func TestLogout_TokenFromPath(t *testing.T) {
	t.Parallel()

	tokens := token.New("secret", "l2l-portal", time.Hour)
	raw, _, err := tokens.Issue(context.Background(), uuid.New(), "p@example.com")
	require.NoError(t, err)

	bl := &memBlacklist{revoked: map[string]bool{}}
	logout := &HandlerLogout{Log: nopLog(), Tokens: tokens, Blacklist: bl}

	r := httptest.NewRequest(http.MethodDelete, "/v1/auth/"+raw, nil)
	r.SetPathValue("token", raw)
	rec := httptest.NewRecorder()
	logout.Logout(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	claims, err := tokens.Parse(context.Background(), raw)
	require.NoError(t, err)
	assert.True(t, bl.revoked[claims.JTI])
}
