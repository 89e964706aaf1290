package profile

import (
	"encoding/json"
	"net/http"

	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/logx"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	v1 "github.com/wsustone/L2L-United/internal/transport/web/v1"
)

type updateRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Company  string `json:"company"`
}

// Update godoc
// @Summary     Update the caller's contact details
// @Description Only full_name, phone and company are self-service; everything else is admin-managed.
// @Tags        profile
// @Accept      json
// @Produce     json
// @Param       request body updateRequest true "full_name, phone, company"
// @Success     200 {object} domain.Profile
// @Failure     400 {object} map[string]string
// @Router      /v1/profile [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "profile.update"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.IdentityFromCtx(r.Context())
	if !ok {
		v1.WriteError(w, domain.ErrUnauth)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		v1.WriteError(w, domain.Invalid("Invalid request body"))
		return
	}
	if req.FullName == "" {
		v1.WriteError(w, domain.Invalid("Full name is required"))
		return
	}

	p, err := h.Profiles.UpdateProfileDetails(r.Context(), me.UserID, req.FullName, req.Phone, req.Company)
	if err != nil {
		logx.Error(h.Log, reqID, op, "update failed", err, "user_id", me.UserID)
		v1.WriteError(w, domain.Upstream("Failed to update profile", err))
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", me.UserID)
	v1.WriteOK(w, p)
}
