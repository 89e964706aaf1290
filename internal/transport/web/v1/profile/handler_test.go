package profile

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
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

	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
)

type fakeProfiles struct {
	byID     map[domain.UserID]domain.Profile
	ndaStage domain.AccessStage
	ndaPath  string
}

func (f *fakeProfiles) Close()                       {}
func (f *fakeProfiles) Ping(_ context.Context) error { return nil }
func (f *fakeProfiles) CreateProfile(_ context.Context, email string, _ []byte) (domain.Profile, error) {
	return domain.Profile{Email: email}, nil
}
func (f *fakeProfiles) ProfileByEmail(_ context.Context, _ string) (domain.Profile, error) {
	return domain.Profile{}, domain.ErrNotFound
}
func (f *fakeProfiles) ProfileByID(_ context.Context, id domain.UserID) (domain.Profile, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return domain.Profile{}, domain.ErrNotFound
}
func (f *fakeProfiles) UpdateProfileDetails(_ context.Context, id domain.UserID, fullName, phone, company string) (domain.Profile, error) {
	p := f.byID[id]
	p.FullName, p.Phone, p.Company = fullName, phone, company
	f.byID[id] = p
	return p, nil
}
func (f *fakeProfiles) AcceptTerms(_ context.Context, id domain.UserID, version string, at time.Time) (domain.Profile, error) {
	p := f.byID[id]
	p.TermsVersion = version
	p.TermsAgreedAt = &at
	f.byID[id] = p
	return p, nil
}
func (f *fakeProfiles) RecordNDAUpload(_ context.Context, id domain.UserID, filePath string, at time.Time, stage domain.AccessStage) (domain.Profile, error) {
	f.ndaStage = stage
	f.ndaPath = filePath
	p := f.byID[id]
	p.NDAFilePath = filePath
	p.NDAUploadedAt = &at
	p.AccessStage = stage
	f.byID[id] = p
	return p, nil
}

type fakeDocs struct {
	template *domain.Document
	logged   int
}

func (f *fakeDocs) ListDocuments(_ context.Context) ([]domain.Document, error) { return nil, nil }
func (f *fakeDocs) DocumentByID(_ context.Context, _ domain.DocumentID) (domain.Document, error) {
	return domain.Document{}, domain.ErrNotFound
}
func (f *fakeDocs) ActiveDocumentByTitle(_ context.Context, _ string) (domain.Document, bool, error) {
	if f.template != nil {
		return *f.template, true, nil
	}
	return domain.Document{}, false, nil
}
func (f *fakeDocs) LogDocumentAccess(_ context.Context, _ domain.DocumentID, _ domain.UserID, _ time.Time) error {
	f.logged++
	return nil
}

type fakeStorage struct{ puts []string }

func (s *fakeStorage) Put(_ context.Context, key string, _ io.Reader, _ int64, _ string) error {
	s.puts = append(s.puts, key)
	return nil
}
func (s *fakeStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://s3.example/" + key, nil
}
func (s *fakeStorage) Delete(_ context.Context, _ string) error { return nil }
func (s *fakeStorage) Ping(_ context.Context) error             { return nil }

func newHandler(profiles *fakeProfiles, docs *fakeDocs, st *fakeStorage) *Handler {
	return &Handler{
		Log:          log.New(io.Discard, "", 0),
		Profiles:     profiles,
		Documents:    docs,
		Storage:      st,
		TermsVersion: "2025-06",
	}
}

func authed(method, target string, body io.Reader, user domain.UserID) *http.Request {
	r := httptest.NewRequest(method, target, body)
	return r.WithContext(mw.WithIdentity(r.Context(), domain.Identity{UserID: user}))
}

func ndaBody(t *testing.T, name string, data []byte) io.Reader {
	t.Helper()
	buf, err := json.Marshal(map[string]string{
		"file_name": name,
		"file_data": base64.StdEncoding.EncodeToString(data),
		"mime_type": "application/pdf",
	})
	require.NoError(t, err)
	return bytes.NewReader(buf)
}

func TestAcceptTerms_StampsVersion(t *testing.T) {
	t.Parallel()

	user := uuid.New()
	profiles := &fakeProfiles{byID: map[domain.UserID]domain.Profile{user: {ID: user}}}
	h := newHandler(profiles, &fakeDocs{}, &fakeStorage{})

	rec := httptest.NewRecorder()
	h.AcceptTerms(rec, authed(http.MethodPost, "/v1/profile/accept-terms", nil, user))

	require.Equal(t, http.StatusOK, rec.Code)
	p := profiles.byID[user]
	assert.Equal(t, "2025-06", p.TermsVersion)
	require.NotNil(t, p.TermsAgreedAt)
}

func TestUploadNDA_MovesToUnderReview(t *testing.T) {
	t.Parallel()

	user := uuid.New()
	profiles := &fakeProfiles{byID: map[domain.UserID]domain.Profile{
		user: {ID: user, AccessStage: domain.StageNDAAvailable},
	}}
	st := &fakeStorage{}
	h := newHandler(profiles, &fakeDocs{}, st)

	rec := httptest.NewRecorder()
	h.UploadNDA(rec, authed(http.MethodPost, "/v1/profile/nda", ndaBody(t, "nda signed.pdf", []byte("pdf")), user))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StageUnderReview, profiles.ndaStage)
	assert.True(t, strings.HasPrefix(profiles.ndaPath, "signed/"+user.String()+"/"))
	assert.True(t, strings.HasSuffix(profiles.ndaPath, ".pdf"))
	require.Len(t, st.puts, 1)
	assert.Equal(t, profiles.ndaPath, st.puts[0])
}

func TestUploadNDA_ApprovedProfileStaysApproved(t *testing.T) {
	t.Parallel()

	user := uuid.New()
	profiles := &fakeProfiles{byID: map[domain.UserID]domain.Profile{
		user: {ID: user, AccessStage: domain.StageApproved},
	}}
	h := newHandler(profiles, &fakeDocs{}, &fakeStorage{})

	rec := httptest.NewRecorder()
	h.UploadNDA(rec, authed(http.MethodPost, "/v1/profile/nda", ndaBody(t, "nda.pdf", []byte("pdf")), user))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StageApproved, profiles.ndaStage)
}

func TestUploadNDA_RejectsBlockedExtension(t *testing.T) {
	t.Parallel()

	user := uuid.New()
	profiles := &fakeProfiles{byID: map[domain.UserID]domain.Profile{user: {ID: user}}}
	st := &fakeStorage{}
	h := newHandler(profiles, &fakeDocs{}, st)

	buf, err := json.Marshal(map[string]string{
		"file_name": "nda.exe",
		"file_data": base64.StdEncoding.EncodeToString([]byte("x")),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.UploadNDA(rec, authed(http.MethodPost, "/v1/profile/nda", bytes.NewReader(buf), user))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, st.puts)
}

func TestNDATemplate_PresignsDocument(t *testing.T) {
	t.Parallel()

	docs := &fakeDocs{template: &domain.Document{
		ID: uuid.New(), Title: "NDA Template", FilePath: "templates/nda-v3.pdf", FileVersion: "v3",
	}}
	h := newHandler(&fakeProfiles{byID: map[domain.UserID]domain.Profile{}}, docs, &fakeStorage{})

	rec := httptest.NewRecorder()
	h.NDATemplate(rec, authed(http.MethodGet, "/v1/profile/nda-template", nil, uuid.New()))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "https://s3.example/templates/nda-v3.pdf", body["downloadUrl"])
	assert.Equal(t, "v3", body["version"])
}

func TestNDATemplate_NotFound(t *testing.T) {
	t.Parallel()

	h := newHandler(&fakeProfiles{byID: map[domain.UserID]domain.Profile{}}, &fakeDocs{}, &fakeStorage{})

	rec := httptest.NewRecorder()
	h.NDATemplate(rec, authed(http.MethodGet, "/v1/profile/nda-template", nil, uuid.New()))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NDA template not found")
}

func TestUpdate_RequiresFullName(t *testing.T) {
	t.Parallel()

	user := uuid.New()
	h := newHandler(&fakeProfiles{byID: map[domain.UserID]domain.Profile{user: {ID: user}}}, &fakeDocs{}, &fakeStorage{})

	rec := httptest.NewRecorder()
	h.Update(rec, authed(http.MethodPut, "/v1/profile", strings.NewReader(`{"phone":"555"}`), user))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Full name is required")
}
