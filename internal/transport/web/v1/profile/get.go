package profile

import (
	"errors"
	"net/http"

	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/logx"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	v1 "github.com/wsustone/L2L-United/internal/transport/web/v1"
)

// Get godoc
// @Summary     Get the caller's profile
// @Tags        profile
// @Produce     json
// @Success     200 {object} domain.Profile
// @Failure     404 {object} map[string]string
// @Router      /v1/profile [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "profile.get"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.IdentityFromCtx(r.Context())
	if !ok {
		v1.WriteError(w, domain.ErrUnauth)
		return
	}

	p, err := h.Profiles.ProfileByID(r.Context(), me.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v1.WriteError(w, domain.NotFound("Profile not found"))
			return
		}
		logx.Error(h.Log, reqID, op, "lookup failed", err, "user_id", me.UserID)
		v1.WriteError(w, domain.Upstream("Failed to load profile", err))
		return
	}

	v1.WriteOK(w, p)
}
