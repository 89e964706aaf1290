package folder

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/logx"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	v1 "github.com/wsustone/L2L-United/internal/transport/web/v1"
)

type grantRequest struct {
	Token     string `json:"token"` // admin token from config
	UserID    string `json:"user_id"`
	CanRead   bool   `json:"can_read"`
	CanWrite  bool   `json:"can_write"`
	CanDelete bool   `json:"can_delete"`
}

// Grant godoc
// @Summary     Set a user's permissions on a folder
// @Description Upserts the explicit grant row. Administration is invite-based: requires the admin token.
// @Tags        folders
// @Accept      json
// @Produce     json
// @Param       id path string true "folder id"
// @Param       request body grantRequest true "token, user_id, can_read, can_write, can_delete"
// @Success     200 {object} domain.FolderPermission
// @Failure     400 {object} map[string]string
// @Failure     401 {object} map[string]string
// @Failure     404 {object} map[string]string
// @Router      /v1/folders/{id}/permissions [post]
func (h *Handler) Grant(w http.ResponseWriter, r *http.Request) {
	const op = "folders.grant"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.IdentityFromCtx(r.Context())
	if !ok {
		v1.WriteError(w, domain.ErrUnauth)
		return
	}

	folderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		v1.WriteError(w, domain.Invalid("Folder ID is required"))
		return
	}

	var req grantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteError(w, domain.Invalid("Invalid request body"))
		return
	}
	if req.Token == "" || req.Token != h.AdminToken {
		logx.Error(h.Log, reqID, op, "bad admin token", domain.ErrUnauth)
		v1.WriteError(w, domain.Unauthorized("Invalid admin token"))
		return
	}
	grantee, err := uuid.Parse(req.UserID)
	if err != nil {
		v1.WriteError(w, domain.Invalid("Invalid user_id"))
		return
	}

	f, err := h.Folders.FolderByID(r.Context(), folderID)
	if err != nil {
		v1.WriteError(w, domain.NotFound("Folder not found"))
		return
	}

	g := domain.FolderPermission{
		FolderID:  folderID,
		UserID:    grantee,
		CanRead:   req.CanRead,
		CanWrite:  req.CanWrite,
		CanDelete: req.CanDelete,
		GrantedBy: me.UserID,
	}
	if err := h.Perms.UpsertGrant(r.Context(), g); err != nil {
		logx.Error(h.Log, reqID, op, "upsert failed", err, "folder_id", folderID, "user_id", grantee)
		v1.WriteError(w, domain.Upstream("Failed to update permissions", err))
		return
	}

	// drop the grantee's cached answers so the new grant takes effect now
	if h.Cache != nil {
		pageKey := "root"
		if f.ParentID != nil {
			pageKey = f.ParentID.String()
		}
		_ = h.Cache.Del(r.Context(),
			domain.CacheKeyAccess(folderID, grantee, domain.PermRead),
			domain.CacheKeyAccess(folderID, grantee, domain.PermWrite),
			domain.CacheKeyAccess(folderID, grantee, domain.PermDelete),
			domain.CacheKeyFolderList(grantee.String(), pageKey),
		)
	}

	logx.Info(h.Log, reqID, op, "ok", "folder_id", folderID, "user_id", grantee,
		"read", g.CanRead, "write", g.CanWrite, "delete", g.CanDelete)
	v1.WriteOK(w, g)
}
