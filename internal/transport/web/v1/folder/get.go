package folder

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/logx"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	v1 "github.com/wsustone/L2L-United/internal/transport/web/v1"
)

// Get godoc
// @Summary     Get single folder with breadcrumb path
// @Tags        folders
// @Produce     json
// @Param       id path string true "folder id"
// @Success     200 {object} domain.Folder
// @Failure     403 {object} map[string]string
// @Failure     404 {object} map[string]string
// @Router      /v1/folders/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "folders.get"
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

	f, err := h.Folders.FolderByID(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "fetch failed", err, "folder_id", id)
		v1.WriteError(w, domain.NotFound("Folder not found"))
		return
	}

	if path, err := h.Gate.FolderPath(r.Context(), id); err == nil {
		f.Path = path
	} else {
		logx.Error(h.Log, reqID, op, "path resolve failed", err, "folder_id", id)
	}

	logx.Info(h.Log, reqID, op, "ok", "folder_id", id)
	v1.WriteOK(w, f)
}
