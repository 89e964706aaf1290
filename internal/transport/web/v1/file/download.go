package file

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/logx"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	v1 "github.com/wsustone/L2L-United/internal/transport/web/v1"
)

const presignTTL = 3600 * time.Second

// Download godoc
// @Summary     Get a short-lived download URL for a file
// @Description Requires read access to the owning folder. The URL expires after one hour.
// @Tags        files
// @Produce     json
// @Param       id path string true "file id"
// @Success     200 {object} map[string]any
// @Failure     403 {object} map[string]string
// @Failure     404 {object} map[string]string
// @Router      /v1/files/{id}/download [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	const op = "files.download"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.IdentityFromCtx(r.Context())
	if !ok {
		v1.WriteError(w, domain.ErrUnauth)
		return
	}

	fileID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		v1.WriteError(w, domain.Invalid("File ID is required"))
		return
	}

	f, err := h.Files.FileByID(r.Context(), fileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v1.WriteError(w, domain.NotFound("File not found"))
			return
		}
		logx.Error(h.Log, reqID, op, "lookup failed", err, "file_id", fileID)
		v1.WriteError(w, domain.Upstream("Failed to generate download URL", err))
		return
	}

	allowed, err := h.Gate.HasAccess(r.Context(), f.FolderID, me.UserID, domain.PermRead)
	if err != nil {
		logx.Error(h.Log, reqID, op, "access check failed", err, "file_id", fileID)
		v1.WriteError(w, err)
		return
	}
	if !allowed {
		logx.Info(h.Log, reqID, op, "denied", "file_id", fileID, "user_id", me.UserID)
		v1.WriteError(w, domain.AccessDenied("Access denied to this file"))
		return
	}

	url, err := h.Storage.PresignGet(r.Context(), f.FilePath, presignTTL)
	if err != nil {
		logx.Error(h.Log, reqID, op, "presign failed", err, "key", f.FilePath)
		v1.WriteError(w, domain.Upstream("Failed to generate download URL", err))
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "file_id", f.ID)
	v1.WriteOK(w, map[string]any{
		"downloadUrl": url,
		"expiresIn":   int(presignTTL.Seconds()),
	})
}
