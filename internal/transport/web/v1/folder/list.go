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

// List godoc
// @Summary     List folders the caller can read
// @Tags        folders
// @Produce     json
// @Param       parent_id query string false "parent folder id (omit for root)"
// @Success     200 {array} domain.Folder
// @Failure     401 {object} map[string]string
// @Failure     500 {object} map[string]string
// @Router      /v1/folders [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "folders.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.IdentityFromCtx(r.Context())
	if !ok {
		v1.WriteError(w, domain.ErrUnauth)
		return
	}

	var parent *domain.FolderID
	pageKey := "root"
	if s := r.URL.Query().Get("parent_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			logx.Error(h.Log, reqID, op, "bad parent_id", err, "raw", s)
			v1.WriteError(w, domain.Invalid("Invalid parent_id"))
			return
		}
		parent = &id
		pageKey = id.String()
	}

	// cached accessible list per (user, parent)
	ckey := domain.CacheKeyFolderList(me.UserID.String(), pageKey)
	if h.Cache != nil {
		if b, err := h.Cache.Get(r.Context(), ckey); err == nil && b != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(b)
			return
		}
	}

	folders, err := h.Folders.ListFolders(r.Context(), parent)
	if err != nil {
		logx.Error(h.Log, reqID, op, "list failed", err)
		v1.WriteError(w, domain.Upstream("Failed to fetch folders", err))
		return
	}

	// Folders without read access are omitted silently, never an error.
	accessible := make([]domain.Folder, 0, len(folders))
	for _, f := range folders {
		ok, err := h.Gate.HasAccess(r.Context(), f.ID, me.UserID, domain.PermRead)
		if err != nil {
			logx.Error(h.Log, reqID, op, "access check failed", err, "folder_id", f.ID)
			v1.WriteError(w, err)
			return
		}
		if ok {
			accessible = append(accessible, f)
		}
	}

	if h.Cache != nil {
		if buf, err := json.Marshal(accessible); err == nil {
			_ = h.Cache.Set(r.Context(), ckey, buf, h.ListTTL)
		}
	}

	logx.Info(h.Log, reqID, op, "ok", "total", len(folders), "accessible", len(accessible))
	v1.WriteOK(w, accessible)
}
