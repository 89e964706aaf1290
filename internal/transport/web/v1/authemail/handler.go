// Package authemail serves the unauthenticated auth-lifecycle email endpoint:
// it resolves the target user, mints a one-time action link and dispatches the
// templated message through the mail provider.
package authemail

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wsustone/L2L-United/internal/config"
	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/mail"
	"github.com/wsustone/L2L-United/internal/transport/web/logx"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	v1 "github.com/wsustone/L2L-United/internal/transport/web/v1"
)

// action links stay valid for one hour
const actionLinkTTL = 60 * time.Minute

type Handler struct {
	Log      *log.Logger
	Cfg      *config.Config
	Profiles domain.ProfilesRepo
	Tokens   domain.TokenManager
	Mailer   domain.Mailer
}

type sendRequest struct {
	Action     string `json:"action"`
	Email      string `json:"email"`
	NewEmail   string `json:"new_email"`
	RedirectTo string `json:"redirect_to"`
}

// Send godoc
// @Summary     Send an auth-lifecycle email
// @Description Unauthenticated. Mints a one-time action link and emails it for signup, invite, recovery, magiclink, reauthenticate or email_change. Errors use a {"message": ...} body.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body sendRequest true "action, email, new_email?, redirect_to?"
// @Success     200 {object} map[string]bool
// @Failure     400 {object} map[string]string
// @Failure     404 {object} map[string]string
// @Router      /v1/auth-email [post]
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	const op = "authemail.send"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		v1.WriteMessageError(w, domain.Invalid(`Invalid or missing "action" field.`))
		return
	}

	action := domain.EmailAction(req.Action)
	if !domain.ValidEmailAction(action) {
		v1.WriteMessageError(w, domain.Invalid(`Invalid or missing "action" field.`))
		return
	}
	if req.Email == "" {
		v1.WriteMessageError(w, domain.Invalid("Email is required."))
		return
	}
	if action == domain.ActionEmailChange && req.NewEmail == "" {
		v1.WriteMessageError(w, domain.Invalid("New email is required for email change requests."))
		return
	}

	p, err := h.Profiles.ProfileByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v1.WriteMessageError(w, domain.NotFound("User not found."))
			return
		}
		logx.Error(h.Log, reqID, op, "profile lookup failed", err)
		v1.WriteMessageError(w, domain.Upstream("Failed to send email.", err))
		return
	}

	token, err := h.Tokens.IssueAction(r.Context(), p.ID, p.Email, action.LinkType(), actionLinkTTL)
	if err != nil {
		logx.Error(h.Log, reqID, op, "action token failed", err, "action", action)
		v1.WriteMessageError(w, domain.Upstream("Failed to send email.", err))
		return
	}

	redirect := resolveRedirect(h.Cfg, string(action), req.RedirectTo, r.Header.Get("Origin"))
	link := actionLink(redirect, token, action.LinkType())

	msg, err := mail.BuildAuthEmail(action, p.Email, req.NewEmail, link)
	if err != nil {
		v1.WriteMessageError(w, err)
		return
	}

	if err := h.Mailer.Send(r.Context(), msg); err != nil {
		logx.Error(h.Log, reqID, op, "send failed", err, "action", action, "to", msg.To)
		v1.WriteMessageError(w, domain.Upstream("Failed to send email.", err))
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "action", action, "to", msg.To)
	v1.WriteOK(w, map[string]bool{"ok": true})
}

// resolveRedirect picks the post-link landing URL by priority: the explicit
// request value, the per-action override, the caller's origin rewritten to
// /portal, then the configured default.
func resolveRedirect(cfg *config.Config, action, explicit, origin string) string {
	if explicit != "" {
		return explicit
	}
	if perAction := cfg.RedirectFor(action); perAction != "" {
		return perAction
	}
	if origin != "" {
		if u, err := url.Parse(origin); err == nil && u.Scheme != "" && u.Host != "" {
			u.Path = "/portal"
			u.RawQuery = ""
			u.Fragment = ""
			return u.String()
		}
	}
	return cfg.DefaultRedirect
}

// actionLink appends the token and link type to the redirect URL.
func actionLink(redirect, token, linkType string) string {
	sep := "?"
	if strings.Contains(redirect, "?") {
		sep = "&"
	}
	return redirect + sep + "token=" + url.QueryEscape(token) + "&type=" + url.QueryEscape(linkType)
}
