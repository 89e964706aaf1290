package apikey

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/wsustone/L2L-United/internal/auth/apikey"
	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/logx"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	v1 "github.com/wsustone/L2L-United/internal/transport/web/v1"
)

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// ExpiresInDays <= 0 means the key never expires.
	ExpiresInDays int `json:"expires_in_days"`
}

type createResponse struct {
	domain.APIKey
	// PlainKey is shown exactly once.
	PlainKey string `json:"api_key"`
	Warning  string `json:"warning"`
}

// Create godoc
// @Summary     Create an API key
// @Description Returns the plaintext secret once; only its sha256 digest is stored.
// @Tags        api-keys
// @Accept      json
// @Produce     json
// @Param       request body createRequest true "name, description?, expires_in_days?"
// @Success     200 {object} createResponse
// @Failure     400 {object} map[string]string
// @Router      /v1/api-keys [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "apikeys.create"
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
		v1.WriteError(w, domain.Invalid("API key name is required"))
		return
	}

	secret, err := apikey.GenerateSecret()
	if err != nil {
		logx.Error(h.Log, reqID, op, "secret generation failed", err)
		v1.WriteError(w, domain.Upstream("Failed to create API key", err))
		return
	}

	k, err := h.Keys.CreateKey(r.Context(), domain.APIKey{
		UserID:      me.UserID,
		KeyHash:     apikey.HashSecret(secret),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
		ExpiresAt:   apikey.ExpiryFrom(time.Now().UTC(), req.ExpiresInDays),
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "insert failed", err)
		v1.WriteError(w, domain.Upstream("Failed to create API key", err))
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "key_id", k.ID, "name", k.Name)
	v1.WriteOK(w, createResponse{
		APIKey:   k,
		PlainKey: secret,
		Warning:  apikey.Warning,
	})
}
