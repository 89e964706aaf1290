package document

import (
	"net/http"

	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/logx"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	v1 "github.com/wsustone/L2L-United/internal/transport/web/v1"
)

// List godoc
// @Summary     List curated documents
// @Description Active documents in their configured order. Reachable with a bearer token or an API key.
// @Tags        documents
// @Produce     json
// @Success     200 {array} domain.Document
// @Router      /v1/documents [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "documents.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	if _, ok := mw.IdentityFromCtx(r.Context()); !ok {
		v1.WriteError(w, domain.ErrUnauth)
		return
	}

	docs, err := h.Documents.ListDocuments(r.Context())
	if err != nil {
		logx.Error(h.Log, reqID, op, "list failed", err)
		v1.WriteError(w, domain.Upstream("Failed to list documents", err))
		return
	}
	if docs == nil {
		docs = []domain.Document{}
	}

	logx.Info(h.Log, reqID, op, "ok", "count", len(docs))
	v1.WriteOK(w, docs)
}
