package document

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/logx"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	v1 "github.com/wsustone/L2L-United/internal/transport/web/v1"
)

const presignTTL = 3600 * time.Second

// Download godoc
// @Summary     Get a short-lived download URL for a curated document
// @Description Logs the access for the audit trail. Reachable with a bearer token or an API key.
// @Tags        documents
// @Produce     json
// @Param       id path string true "document id"
// @Success     200 {object} map[string]any
// @Failure     404 {object} map[string]string
// @Router      /v1/documents/{id}/download [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	const op = "documents.download"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.IdentityFromCtx(r.Context())
	if !ok {
		v1.WriteError(w, domain.ErrUnauth)
		return
	}

	docID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		v1.WriteError(w, domain.Invalid("Document ID is required"))
		return
	}

	doc, err := h.Documents.DocumentByID(r.Context(), docID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v1.WriteError(w, domain.NotFound("Document not found"))
			return
		}
		logx.Error(h.Log, reqID, op, "lookup failed", err, "document_id", docID)
		v1.WriteError(w, domain.Upstream("Failed to generate download URL", err))
		return
	}

	url, err := h.Storage.PresignGet(r.Context(), doc.FilePath, presignTTL)
	if err != nil {
		logx.Error(h.Log, reqID, op, "presign failed", err, "key", doc.FilePath)
		v1.WriteError(w, domain.Upstream("Failed to generate download URL", err))
		return
	}

	// audit trail; a failed log entry never blocks the download
	if err := h.Documents.LogDocumentAccess(r.Context(), doc.ID, me.UserID, time.Now().UTC()); err != nil {
		logx.Error(h.Log, reqID, op, "access log failed", err, "document_id", doc.ID)
	}

	logx.Info(h.Log, reqID, op, "ok", "document_id", doc.ID, "via_key", me.ViaKey)
	v1.WriteOK(w, map[string]any{
		"downloadUrl": url,
		"expiresIn":   int(presignTTL.Seconds()),
	})
}
