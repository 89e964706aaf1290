package auth

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/logx"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	v1 "github.com/wsustone/L2L-United/internal/transport/web/v1"
)

// HandlerVerify exchanges an emailed action-link token for a regular session.
// The action token is revoked on exchange, so each link works exactly once.
type HandlerVerify struct {
	Log       *log.Logger
	Tokens    domain.TokenManager
	Blacklist domain.TokenBlacklist
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Token  string `json:"token"`  // fresh session token
	Action string `json:"action"` // recovery, email_change, ...
}

// Verify godoc
// @Summary     Exchange an action-link token for a session
// @Description Consumes the one-time token from an auth email and returns a bearer session token.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body verifyRequest true "token from the emailed link"
// @Success     200 {object} verifyResponse
// @Failure     400 {object} map[string]string
// @Failure     401 {object} map[string]string
// @Router      /v1/auth/verify [post]
func (h *HandlerVerify) Verify(w http.ResponseWriter, r *http.Request) {
	const op = "auth.verify"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteError(w, domain.Invalid("Invalid request body"))
		return
	}
	if req.Token == "" {
		v1.WriteError(w, domain.Invalid("Missing token"))
		return
	}

	claims, err := h.Tokens.Parse(r.Context(), req.Token)
	if err != nil {
		logx.Error(h.Log, reqID, op, "parse token failed", err)
		v1.WriteError(w, domain.Unauthorized("Invalid or expired token"))
		return
	}
	if claims.Action == "" {
		// a session token has no business here
		v1.WriteError(w, domain.Invalid("Invalid token type"))
		return
	}

	if revoked, err := h.Blacklist.IsRevoked(r.Context(), claims.JTI); err != nil {
		logx.Error(h.Log, reqID, op, "blacklist check failed", err, "jti", claims.JTI)
		v1.WriteError(w, domain.Upstream("Verification failed", err))
		return
	} else if revoked {
		v1.WriteError(w, domain.Unauthorized("This link has already been used"))
		return
	}

	// consume before issuing: a second exchange of the same link must lose
	if err := h.Blacklist.Revoke(r.Context(), claims.JTI, claims.ExpiresAt); err != nil {
		logx.Error(h.Log, reqID, op, "revoke failed", err, "jti", claims.JTI)
		v1.WriteError(w, domain.Upstream("Verification failed", err))
		return
	}

	session, _, err := h.Tokens.Issue(r.Context(), claims.UserID, claims.Email)
	if err != nil {
		logx.Error(h.Log, reqID, op, "issue session failed", err, "user_id", claims.UserID)
		v1.WriteError(w, domain.Upstream("Verification failed", err))
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", claims.UserID, "action", claims.Action)
	v1.WriteOK(w, verifyResponse{Token: session, Action: claims.Action})
}
