package document

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
)

type fakeDocs struct {
	docs   []domain.Document
	logErr error
	logged []domain.DocumentID
}

func (f *fakeDocs) ListDocuments(_ context.Context) ([]domain.Document, error) {
	return f.docs, nil
}
func (f *fakeDocs) DocumentByID(_ context.Context, id domain.DocumentID) (domain.Document, error) {
	for _, d := range f.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Document{}, domain.ErrNotFound
}
func (f *fakeDocs) ActiveDocumentByTitle(_ context.Context, _ string) (domain.Document, bool, error) {
	return domain.Document{}, false, nil
}
func (f *fakeDocs) LogDocumentAccess(_ context.Context, doc domain.DocumentID, _ domain.UserID, _ time.Time) error {
	if f.logErr != nil {
		return f.logErr
	}
	f.logged = append(f.logged, doc)
	return nil
}

type fakeStorage struct{}

func (fakeStorage) Put(_ context.Context, _ string, _ io.Reader, _ int64, _ string) error {
	return nil
}
func (fakeStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://s3.example/" + key, nil
}
func (fakeStorage) Delete(_ context.Context, _ string) error { return nil }
func (fakeStorage) Ping(_ context.Context) error             { return nil }

func newHandler(docs *fakeDocs) *Handler {
	return &Handler{Log: log.New(io.Discard, "", 0), Documents: docs, Storage: fakeStorage{}}
}

func authed(target string, user domain.UserID) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	return r.WithContext(mw.WithIdentity(r.Context(), domain.Identity{UserID: user, ViaKey: true}))
}

func TestList_EmptyIsArrayNotNull(t *testing.T) {
	t.Parallel()

	h := newHandler(&fakeDocs{})
	rec := httptest.NewRecorder()
	h.List(rec, authed("/v1/documents", uuid.New()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestDownload_LogsAccess(t *testing.T) {
	t.Parallel()

	doc := domain.Document{ID: uuid.New(), Title: "Handbook", FilePath: "docs/handbook.pdf"}
	docs := &fakeDocs{docs: []domain.Document{doc}}
	h := newHandler(docs)

	r := authed("/v1/documents/x/download", uuid.New())
	r.SetPathValue("id", doc.ID.String())
	rec := httptest.NewRecorder()
	h.Download(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "https://s3.example/docs/handbook.pdf", body["downloadUrl"])
	assert.Equal(t, []domain.DocumentID{doc.ID}, docs.logged)
}

func TestDownload_AuditFailureDoesNotBlock(t *testing.T) {
	t.Parallel()

	doc := domain.Document{ID: uuid.New(), FilePath: "docs/a.pdf"}
	docs := &fakeDocs{docs: []domain.Document{doc}, logErr: errors.New("insert failed")}
	h := newHandler(docs)

	r := authed("/v1/documents/x/download", uuid.New())
	r.SetPathValue("id", doc.ID.String())
	rec := httptest.NewRecorder()
	h.Download(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDownload_NotFound(t *testing.T) {
	t.Parallel()

	h := newHandler(&fakeDocs{})
	r := authed("/v1/documents/x/download", uuid.New())
	r.SetPathValue("id", uuid.NewString())
	rec := httptest.NewRecorder()
	h.Download(rec, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Document not found")
}
