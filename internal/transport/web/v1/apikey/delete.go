package apikey

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
// @Summary     Permanently delete an API key
// @Tags        api-keys
// @Produce     json
// @Param       id path string true "key id"
// @Success     200 {object} map[string]any
// @Failure     403 {object} map[string]string
// @Failure     404 {object} map[string]string
// @Router      /v1/api-keys/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "apikeys.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.IdentityFromCtx(r.Context())
	if !ok {
		v1.WriteError(w, domain.ErrUnauth)
		return
	}

	keyID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		v1.WriteError(w, domain.Invalid("API key ID is required"))
		return
	}

	k, err := h.Keys.KeyByID(r.Context(), keyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v1.WriteError(w, domain.NotFound("API key not found"))
			return
		}
		logx.Error(h.Log, reqID, op, "lookup failed", err, "key_id", keyID)
		v1.WriteError(w, domain.Upstream("Failed to delete API key", err))
		return
	}
	if k.UserID != me.UserID {
		logx.Info(h.Log, reqID, op, "denied", "key_id", keyID, "user_id", me.UserID)
		v1.WriteError(w, domain.AccessDenied("Access denied"))
		return
	}

	if err := h.Keys.DeleteKey(r.Context(), keyID); err != nil {
		logx.Error(h.Log, reqID, op, "delete failed", err, "key_id", keyID)
		v1.WriteError(w, domain.Upstream("Failed to delete API key", err))
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "key_id", keyID)
	v1.WriteOK(w, map[string]any{"success": true, "message": "API key deleted"})
}
