package auth

import (
	"log"
	"net/http"
	"strings"

	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/logx"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	v1 "github.com/wsustone/L2L-United/internal/transport/web/v1"
)

type HandlerLogout struct {
	Log       *log.Logger
	Tokens    domain.TokenManager
	Blacklist domain.TokenBlacklist
}

type logoutResponse struct {
	Revoked string `json:"revoked"` // jti
}

// Logout godoc
// @Summary     Revoke the current session token
// @Description Marks the token's jti revoked until its natural expiry.
// @Tags        auth
// @Produce     json
// @Success     200 {object} logoutResponse
// @Failure     400 {object} map[string]string
// @Failure     401 {object} map[string]string
// @Router      /v1/auth/{token} [delete]
func (h *HandlerLogout) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "auth.logout"
	reqID := mw.RequestIDFromCtx(r.Context())

	raw := tokenFromRequest(r)
	if raw == "" {
		v1.WriteError(w, domain.Invalid("Missing token"))
		return
	}

	claims, err := h.Tokens.Parse(r.Context(), raw)
	if err != nil {
		logx.Error(h.Log, reqID, op, "parse token failed", err)
		v1.WriteError(w, domain.Unauthorized("Invalid token"))
		return
	}

	if err := h.Blacklist.Revoke(r.Context(), claims.JTI, claims.ExpiresAt); err != nil {
		logx.Error(h.Log, reqID, op, "revoke failed", err, "jti", claims.JTI)
		v1.WriteError(w, domain.Upstream("Logout failed", err))
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "jti", claims.JTI)
	v1.WriteOK(w, logoutResponse{Revoked: claims.JTI})
}

// tokenFromRequest resolves the session token from the URL path, the
// ?token= query param, or the Authorization header, in that order.
func tokenFromRequest(r *http.Request) string {
	if t := r.PathValue("token"); t != "" {
		return t
	}
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
