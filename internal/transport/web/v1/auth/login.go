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

type HandlerLogin struct {
	Log      *log.Logger
	Profiles domain.ProfilesRepo
	Hasher   domain.PasswordHasher
	Tokens   domain.TokenManager
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string         `json:"token"`
	Profile domain.Profile `json:"profile"`
}

// Login godoc
// @Summary     Authenticate with email and password
// @Description Returns a bearer token and the caller's profile.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body loginRequest true "email, password"
// @Success     200 {object} loginResponse
// @Failure     400 {object} map[string]string
// @Failure     401 {object} map[string]string
// @Router      /v1/auth [post]
func (h *HandlerLogin) Login(w http.ResponseWriter, r *http.Request) {
	const op = "auth.login"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteError(w, domain.Invalid("Invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		v1.WriteError(w, domain.Invalid("Email and password are required"))
		return
	}

	p, err := h.Profiles.ProfileByEmail(r.Context(), req.Email)
	if err != nil {
		logx.Error(h.Log, reqID, op, "profile not found", err, "email", req.Email)
		v1.WriteError(w, domain.Unauthorized("Invalid email or password"))
		return
	}

	ok, err := h.Hasher.Verify(req.Password, string(p.PassHash))
	if err != nil || !ok {
		logx.Error(h.Log, reqID, op, "password verify failed", err, "email", req.Email)
		v1.WriteError(w, domain.Unauthorized("Invalid email or password"))
		return
	}

	token, _, err := h.Tokens.Issue(r.Context(), p.ID, p.Email)
	if err != nil {
		logx.Error(h.Log, reqID, op, "issue token failed", err, "user_id", p.ID)
		v1.WriteError(w, domain.Upstream("Login failed", err))
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", p.ID)
	v1.WriteOK(w, loginResponse{Token: token, Profile: p})
}
