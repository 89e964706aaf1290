package apikey

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/logx"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	v1 "github.com/wsustone/L2L-United/internal/transport/web/v1"
)

type toggleRequest struct {
	IsActive *bool `json:"is_active"`
}

// Toggle godoc
// @Summary     Enable or disable an API key
// @Tags        api-keys
// @Accept      json
// @Produce     json
// @Param       id path string true "key id"
// @Param       request body toggleRequest true "is_active"
// @Success     200 {object} domain.APIKey
// @Failure     400 {object} map[string]string
// @Failure     403 {object} map[string]string
// @Failure     404 {object} map[string]string
// @Router      /v1/api-keys/{id}/toggle [post]
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	const op = "apikeys.toggle"
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

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsActive == nil {
		v1.WriteError(w, domain.Invalid("is_active must be a boolean"))
		return
	}

	k, err := h.Keys.KeyByID(r.Context(), keyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v1.WriteError(w, domain.NotFound("API key not found"))
			return
		}
		logx.Error(h.Log, reqID, op, "lookup failed", err, "key_id", keyID)
		v1.WriteError(w, domain.Upstream("Failed to update API key", err))
		return
	}
	if k.UserID != me.UserID {
		logx.Info(h.Log, reqID, op, "denied", "key_id", keyID, "user_id", me.UserID)
		v1.WriteError(w, domain.AccessDenied("Access denied"))
		return
	}

	updated, err := h.Keys.SetKeyActive(r.Context(), keyID, *req.IsActive)
	if err != nil {
		logx.Error(h.Log, reqID, op, "update failed", err, "key_id", keyID)
		v1.WriteError(w, domain.Upstream("Failed to update API key", err))
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "key_id", keyID, "active", updated.IsActive)
	v1.WriteOK(w, updated)
}
