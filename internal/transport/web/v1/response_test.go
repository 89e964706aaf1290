package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsustone/L2L-United/internal/domain"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid", domain.Invalid("Folder name is required"), http.StatusBadRequest},
		{"unauthorized", domain.Unauthorized("Invalid token"), http.StatusUnauthorized},
		{"forbidden", domain.AccessDenied("Access denied"), http.StatusForbidden},
		{"not found", domain.NotFound("Folder not found"), http.StatusNotFound},
		{"method", domain.ErrMethodNotAllowed, http.StatusMethodNotAllowed},
		{"upstream", domain.Upstream("Failed", errors.New("db down")), http.StatusInternalServerError},
		{"untagged", errors.New("raw"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapError(tc.err))
		})
	}
}

func TestWriteError_Shape(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteError(rec, domain.AccessDenied("Access denied to this folder"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Access denied to this folder", body["error"])
}

func TestWriteMessageError_Shape(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteMessageError(rec, domain.Invalid("Email is required."))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Email is required.", body["message"])
}

func TestWriteOK(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteOK(rec, map[string]bool{"ok": true})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}
