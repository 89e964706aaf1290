package profile

import (
	"net/http"
	"time"

	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/logx"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	v1 "github.com/wsustone/L2L-United/internal/transport/web/v1"
)

// ndaTemplateTitle matches the curated document holding the blank NDA.
const ndaTemplateTitle = "NDA Template"

const templateURLTTL = 3600 * time.Second

// NDATemplate godoc
// @Summary     Get a download URL for the blank NDA template
// @Tags        profile
// @Produce     json
// @Success     200 {object} map[string]any
// @Failure     404 {object} map[string]string
// @Router      /v1/profile/nda-template [get]
func (h *Handler) NDATemplate(w http.ResponseWriter, r *http.Request) {
	const op = "profile.nda_template"
	reqID := mw.RequestIDFromCtx(r.Context())

	if _, ok := mw.IdentityFromCtx(r.Context()); !ok {
		v1.WriteError(w, domain.ErrUnauth)
		return
	}

	doc, found, err := h.Documents.ActiveDocumentByTitle(r.Context(), ndaTemplateTitle)
	if err != nil {
		logx.Error(h.Log, reqID, op, "lookup failed", err)
		v1.WriteError(w, domain.Upstream("Failed to load NDA template", err))
		return
	}
	if !found {
		v1.WriteError(w, domain.NotFound("NDA template not found"))
		return
	}

	url, err := h.Storage.PresignGet(r.Context(), doc.FilePath, templateURLTTL)
	if err != nil {
		logx.Error(h.Log, reqID, op, "presign failed", err, "key", doc.FilePath)
		v1.WriteError(w, domain.Upstream("Failed to generate download URL", err))
		return
	}

	v1.WriteOK(w, map[string]any{
		"downloadUrl": url,
		"expiresIn":   int(templateURLTTL.Seconds()),
		"version":     doc.FileVersion,
	})
}
