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

type createRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ParentID    *string `json:"parent_id"`
}

// Create godoc
// @Summary     Create folder (idempotent on name+parent)
// @Description Returns the existing active folder when the name is already taken under the same parent.
// @Tags        folders
// @Accept      json
// @Produce     json
// @Param       request body createRequest true "name, description?, parent_id?"
// @Success     200 {object} domain.Folder
// @Failure     400 {object} map[string]string
// @Failure     403 {object} map[string]string
// @Router      /v1/folders [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "folders.create"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.IdentityFromCtx(r.Context())
	if !ok {
		v1.WriteError(w, domain.ErrUnauth)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteError(w, domain.Invalid("Invalid request body"))
		return
	}
	if req.Name == "" {
		v1.WriteError(w, domain.Invalid("Folder name is required"))
		return
	}

	var parent *domain.FolderID
	if req.ParentID != nil && *req.ParentID != "" {
		id, err := uuid.Parse(*req.ParentID)
		if err != nil {
			v1.WriteError(w, domain.Invalid("Invalid parent_id"))
			return
		}
		parent = &id

		allowed, err := h.Gate.HasAccess(r.Context(), id, me.UserID, domain.PermWrite)
		if err != nil {
			logx.Error(h.Log, reqID, op, "access check failed", err, "parent_id", id)
			v1.WriteError(w, err)
			return
		}
		if !allowed {
			logx.Info(h.Log, reqID, op, "denied", "parent_id", id, "user_id", me.UserID)
			v1.WriteError(w, domain.AccessDenied("Access denied to parent folder"))
			return
		}
	}

	// Idempotency: an identical active folder short-circuits the insert.
	if existing, found, err := h.Folders.FindFolderByName(r.Context(), parent, req.Name); err != nil {
		logx.Error(h.Log, reqID, op, "lookup failed", err)
		v1.WriteError(w, domain.Upstream("Failed to create folder", err))
		return
	} else if found {
		logx.Info(h.Log, reqID, op, "exists", "folder_id", existing.ID)
		v1.WriteOK(w, existing)
		return
	}

	f, err := h.Folders.CreateFolder(r.Context(), domain.Folder{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    parent,
		CreatedBy:   me.UserID,
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "insert failed", err)
		v1.WriteError(w, domain.Upstream("Failed to create folder", err))
		return
	}

	// the caller's cached listing of this parent is stale now
	if h.Cache != nil {
		pageKey := "root"
		if parent != nil {
			pageKey = parent.String()
		}
		_ = h.Cache.Del(r.Context(), domain.CacheKeyFolderList(me.UserID.String(), pageKey))
	}

	logx.Info(h.Log, reqID, op, "ok", "folder_id", f.ID, "name", f.Name)
	v1.WriteOK(w, f)
}
