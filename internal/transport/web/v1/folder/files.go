package folder

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/logx"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	v1 "github.com/wsustone/L2L-United/internal/transport/web/v1"
)

// Files godoc
// @Summary     List active files in a folder, ordered by name
// @Tags        folders
// @Produce     json
// @Param       id path string true "folder id"
// @Success     200 {array} domain.File
// @Failure     403 {object} map[string]string
// @Router      /v1/folders/{id}/files [get]
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	const op = "folders.files"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.IdentityFromCtx(r.Context())
	if !ok {
		v1.WriteError(w, domain.ErrUnauth)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		v1.WriteError(w, domain.Invalid("Invalid folder id"))
		return
	}

	allowed, err := h.Gate.HasAccess(r.Context(), id, me.UserID, domain.PermRead)
	if err != nil {
		logx.Error(h.Log, reqID, op, "access check failed", err, "folder_id", id)
		v1.WriteError(w, err)
		return
	}
	if !allowed {
		logx.Info(h.Log, reqID, op, "denied", "folder_id", id, "user_id", me.UserID)
		v1.WriteError(w, domain.AccessDenied("Access denied to this folder"))
		return
	}

	files, err := h.Files.ListFiles(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "list failed", err, "folder_id", id)
		v1.WriteError(w, domain.Upstream("Failed to fetch files", err))
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "folder_id", id, "count", len(files))
	v1.WriteOK(w, files)
}
