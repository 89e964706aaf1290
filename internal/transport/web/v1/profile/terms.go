package profile

import (
	"net/http"
	"time"

	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/logx"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	v1 "github.com/wsustone/L2L-United/internal/transport/web/v1"
)

// AcceptTerms godoc
// @Summary     Accept the current terms of use
// @Description Stamps terms_agreed_at and the effective terms version on the profile.
// @Tags        profile
// @Produce     json
// @Success     200 {object} domain.Profile
// @Router      /v1/profile/accept-terms [post]
func (h *Handler) AcceptTerms(w http.ResponseWriter, r *http.Request) {
	const op = "profile.accept_terms"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.IdentityFromCtx(r.Context())
	if !ok {
		v1.WriteError(w, domain.ErrUnauth)
		return
	}

	p, err := h.Profiles.AcceptTerms(r.Context(), me.UserID, h.TermsVersion, time.Now().UTC())
	if err != nil {
		logx.Error(h.Log, reqID, op, "stamp failed", err, "user_id", me.UserID)
		v1.WriteError(w, domain.Upstream("Failed to record terms acceptance", err))
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", me.UserID, "version", h.TermsVersion)
	v1.WriteOK(w, p)
}
