package file

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/logx"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	v1 "github.com/wsustone/L2L-United/internal/transport/web/v1"
)

// Delete godoc
// @Summary     Delete a file
// @Description Requires delete access to the owning folder. The metadata row is deactivated; the blob is removed best-effort.
// @Tags        files
// @Produce     json
// @Param       id path string true "file id"
// @Success     200 {object} map[string]any
// @Failure     403 {object} map[string]string
// @Failure     404 {object} map[string]string
// @Router      /v1/files/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "files.delete"
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
		v1.WriteError(w, domain.Upstream("Failed to delete file", err))
		return
	}

	allowed, err := h.Gate.HasAccess(r.Context(), f.FolderID, me.UserID, domain.PermDelete)
	if err != nil {
		logx.Error(h.Log, reqID, op, "access check failed", err, "file_id", fileID)
		v1.WriteError(w, err)
		return
	}
	if !allowed {
		logx.Info(h.Log, reqID, op, "denied", "file_id", fileID, "user_id", me.UserID)
		v1.WriteError(w, domain.AccessDenied("Access denied: You do not have delete permission for this file"))
		return
	}

	// Blob removal is best effort; the soft delete below is the source of truth.
	if err := h.Storage.Delete(r.Context(), f.FilePath); err != nil {
		logx.Error(h.Log, reqID, op, "blob delete failed", err, "key", f.FilePath)
	}

	if err := h.Files.DeactivateFile(r.Context(), fileID); err != nil {
		logx.Error(h.Log, reqID, op, "deactivate failed", err, "file_id", fileID)
		v1.WriteError(w, domain.Upstream("Failed to delete file", err))
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "file_id", fileID)
	v1.WriteOK(w, map[string]any{"success": true, "message": "File deleted successfully"})
}
