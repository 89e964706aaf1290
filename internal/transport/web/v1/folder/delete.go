package folder

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/logx"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	v1 "github.com/wsustone/L2L-United/internal/transport/web/v1"
)

// Delete godoc
// @Summary     Soft-delete a folder and its subtree
// @Description Requires delete permission. Files and sub-folders are deactivated together.
// @Tags        folders
// @Produce     json
// @Param       id path string true "folder id"
// @Success     200 {object} map[string]any
// @Failure     403 {object} map[string]string
// @Failure     404 {object} map[string]string
// @Router      /v1/folders/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "folders.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.IdentityFromCtx(r.Context())
	if !ok {
		v1.WriteError(w, domain.ErrUnauth)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		v1.WriteError(w, domain.Invalid("Folder ID is required"))
		return
	}

	allowed, err := h.Gate.HasAccess(r.Context(), id, me.UserID, domain.PermDelete)
	if err != nil {
		logx.Error(h.Log, reqID, op, "access check failed", err, "folder_id", id)
		v1.WriteError(w, err)
		return
	}
	if !allowed {
		logx.Info(h.Log, reqID, op, "denied", "folder_id", id, "user_id", me.UserID)
		v1.WriteError(w, domain.AccessDenied("Access denied: You do not have delete permission for this folder"))
		return
	}

	f, err := h.Folders.FolderByID(r.Context(), id)
	if err != nil {
		v1.WriteError(w, domain.NotFound("Folder not found"))
		return
	}

	if err := h.Folders.DeactivateFolderTree(r.Context(), id); err != nil {
		logx.Error(h.Log, reqID, op, "deactivate failed", err, "folder_id", id)
		v1.WriteError(w, domain.Upstream("Failed to delete folder", err))
		return
	}

	// the caller's cached listing of the parent still shows the folder
	if h.Cache != nil {
		pageKey := "root"
		if f.ParentID != nil {
			pageKey = f.ParentID.String()
		}
		_ = h.Cache.Del(r.Context(), domain.CacheKeyFolderList(me.UserID.String(), pageKey))
	}

	logx.Info(h.Log, reqID, op, "ok", "folder_id", id)
	v1.WriteOK(w, map[string]any{"success": true, "message": "Folder deleted successfully"})
}
