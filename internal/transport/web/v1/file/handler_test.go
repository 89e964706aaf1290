package file

import (
	"context"
	"encoding/json"
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

type fakeGate struct {
	allow map[domain.Permission]map[domain.FolderID]bool
}

func (g *fakeGate) HasAccess(_ context.Context, folder domain.FolderID, _ domain.UserID, perm domain.Permission) (bool, error) {
	return g.allow[perm][folder], nil
}

type fakeFiles struct {
	byID        map[domain.FileID]domain.File
	deactivated []domain.FileID
}

func (f *fakeFiles) ListFiles(_ context.Context, _ domain.FolderID) ([]domain.File, error) {
	return nil, nil
}
func (f *fakeFiles) FileByID(_ context.Context, id domain.FileID) (domain.File, error) {
	if fl, ok := f.byID[id]; ok {
		return fl, nil
	}
	return domain.File{}, domain.ErrNotFound
}
func (f *fakeFiles) FindFileByName(_ context.Context, _ domain.FolderID, _ string) (domain.File, bool, error) {
	return domain.File{}, false, nil
}
func (f *fakeFiles) CreateFile(_ context.Context, in domain.File) (domain.File, error) {
	return in, nil
}
func (f *fakeFiles) DeactivateFile(_ context.Context, id domain.FileID) error {
	f.deactivated = append(f.deactivated, id)
	return nil
}

type fakeStorage struct {
	deletes    []string
	presignErr error
}

func (s *fakeStorage) Put(_ context.Context, _ string, _ io.Reader, _ int64, _ string) error {
	return nil
}
func (s *fakeStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	if s.presignErr != nil {
		return "", s.presignErr
	}
	return "https://s3.example/" + key + "?signed", nil
}
func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	return nil
}
func (s *fakeStorage) Ping(_ context.Context) error { return nil }

func gateFor(folder domain.FolderID, perms ...domain.Permission) *fakeGate {
	g := &fakeGate{allow: map[domain.Permission]map[domain.FolderID]bool{
		domain.PermRead: {}, domain.PermWrite: {}, domain.PermDelete: {},
	}}
	for _, p := range perms {
		g.allow[p][folder] = true
	}
	return g
}

func request(method, target, fileID string, user domain.UserID) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	r.SetPathValue("id", fileID)
	return r.WithContext(mw.WithIdentity(r.Context(), domain.Identity{UserID: user}))
}

func TestDownload_OK(t *testing.T) {
	t.Parallel()

	folderID := uuid.New()
	f := domain.File{ID: uuid.New(), FolderID: folderID, FilePath: folderID.String() + "/obj.pdf"}

	h := &Handler{
		Log:     log.New(io.Discard, "", 0),
		Files:   &fakeFiles{byID: map[domain.FileID]domain.File{f.ID: f}},
		Gate:    gateFor(folderID, domain.PermRead),
		Storage: &fakeStorage{},
	}

	rec := httptest.NewRecorder()
	h.Download(rec, request(http.MethodGet, "/v1/files/x/download", f.ID.String(), uuid.New()))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "https://s3.example/"+f.FilePath+"?signed", body["downloadUrl"])
	assert.EqualValues(t, 3600, body["expiresIn"])
}

func TestDownload_AccessDeniedOnOwningFolder(t *testing.T) {
	t.Parallel()

	folderID := uuid.New()
	f := domain.File{ID: uuid.New(), FolderID: folderID, FilePath: "k"}

	h := &Handler{
		Log:     log.New(io.Discard, "", 0),
		Files:   &fakeFiles{byID: map[domain.FileID]domain.File{f.ID: f}},
		Gate:    gateFor(folderID), // no read
		Storage: &fakeStorage{},
	}

	rec := httptest.NewRecorder()
	h.Download(rec, request(http.MethodGet, "/v1/files/x/download", f.ID.String(), uuid.New()))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access denied to this file")
}

func TestDownload_NotFound(t *testing.T) {
	t.Parallel()

	h := &Handler{
		Log:     log.New(io.Discard, "", 0),
		Files:   &fakeFiles{},
		Gate:    gateFor(uuid.New()),
		Storage: &fakeStorage{},
	}

	rec := httptest.NewRecorder()
	h.Download(rec, request(http.MethodGet, "/v1/files/x/download", uuid.NewString(), uuid.New()))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "File not found")
}

func TestDelete_DeactivatesEvenWhenBlobRemovalFails(t *testing.T) {
	t.Parallel()

	folderID := uuid.New()
	f := domain.File{ID: uuid.New(), FolderID: folderID, FilePath: "key"}
	files := &fakeFiles{byID: map[domain.FileID]domain.File{f.ID: f}}
	st := &fakeStorage{}

	h := &Handler{
		Log:     log.New(io.Discard, "", 0),
		Files:   files,
		Gate:    gateFor(folderID, domain.PermRead, domain.PermDelete),
		Storage: st,
	}

	rec := httptest.NewRecorder()
	h.Delete(rec, request(http.MethodDelete, "/v1/files/x", f.ID.String(), uuid.New()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"key"}, st.deletes)
	assert.Equal(t, []domain.FileID{f.ID}, files.deactivated)
	assert.Contains(t, rec.Body.String(), "File deleted successfully")
}

func TestDelete_RequiresDeletePermission(t *testing.T) {
	t.Parallel()

	folderID := uuid.New()
	f := domain.File{ID: uuid.New(), FolderID: folderID, FilePath: "key"}
	files := &fakeFiles{byID: map[domain.FileID]domain.File{f.ID: f}}

	h := &Handler{
		Log:     log.New(io.Discard, "", 0),
		Files:   files,
		Gate:    gateFor(folderID, domain.PermRead), // read only
		Storage: &fakeStorage{},
	}

	rec := httptest.NewRecorder()
	h.Delete(rec, request(http.MethodDelete, "/v1/files/x", f.ID.String(), uuid.New()))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, files.deactivated)
}
