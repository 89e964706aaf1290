package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/mail"

	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/logx"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	v1 "github.com/wsustone/L2L-United/internal/transport/web/v1"
)

const minPasswordLen = 8

// HandlerRegister handles POST /v1/register. Registration is invite-based:
// it requires the admin token from the config.
type HandlerRegister struct {
	Log        *log.Logger
	Profiles   domain.ProfilesRepo
	Hasher     domain.PasswordHasher
	AdminToken string
}

type registerRequest struct {
	Token    string `json:"token"` // admin token from config
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register godoc
// @Summary     Register a new portal account
// @Description Creates a profile in the awaiting_admin stage. Requires the admin token.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body registerRequest true "token, email, password"
// @Success     200 {object} domain.Profile
// @Failure     400 {object} map[string]string
// @Failure     401 {object} map[string]string
// @Router      /v1/register [post]
func (h *HandlerRegister) Register(w http.ResponseWriter, r *http.Request) {
	const op = "auth.register"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteError(w, domain.Invalid("Invalid request body"))
		return
	}

	if req.Token == "" || req.Token != h.AdminToken {
		logx.Error(h.Log, reqID, op, "bad admin token", domain.ErrUnauth)
		v1.WriteError(w, domain.Unauthorized("Invalid registration token"))
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		v1.WriteError(w, domain.Invalid("A valid email is required"))
		return
	}
	if len(req.Password) < minPasswordLen {
		v1.WriteError(w, domain.Invalid("Password must be at least %d characters", minPasswordLen))
		return
	}

	hashStr, err := h.Hasher.Hash(req.Password)
	if err != nil {
		logx.Error(h.Log, reqID, op, "hash failed", err)
		v1.WriteError(w, domain.Upstream("Registration failed", err))
		return
	}

	p, err := h.Profiles.CreateProfile(r.Context(), req.Email, []byte(hashStr))
	if err != nil {
		logx.Error(h.Log, reqID, op, "create profile failed", err, "email", req.Email)
		if errors.Is(err, domain.ErrBadParams) {
			v1.WriteError(w, domain.Invalid("An account with this email already exists"))
			return
		}
		v1.WriteError(w, domain.Upstream("Registration failed", err))
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", p.ID, "email", p.Email)
	v1.WriteOK(w, p)
}
