package apikey

import (
	"net/http"

	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/logx"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	v1 "github.com/wsustone/L2L-United/internal/transport/web/v1"
)

// List godoc
// @Summary     List the caller's API keys
// @Description Newest first. Neither the hash nor the plaintext secret is ever returned.
// @Tags        api-keys
// @Produce     json
// @Success     200 {array} domain.APIKey
// @Router      /v1/api-keys [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "apikeys.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.IdentityFromCtx(r.Context())
	if !ok {
		v1.WriteError(w, domain.ErrUnauth)
		return
	}

	keys, err := h.Keys.ListKeys(r.Context(), me.UserID)
	if err != nil {
		logx.Error(h.Log, reqID, op, "list failed", err, "user_id", me.UserID)
		v1.WriteError(w, domain.Upstream("Failed to list API keys", err))
		return
	}
	if keys == nil {
		keys = []domain.APIKey{}
	}

	logx.Info(h.Log, reqID, op, "ok", "count", len(keys))
	v1.WriteOK(w, keys)
}
