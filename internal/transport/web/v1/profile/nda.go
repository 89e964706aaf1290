package profile

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/logx"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	v1 "github.com/wsustone/L2L-United/internal/transport/web/v1"
)

type ndaUploadRequest struct {
	FileName string `json:"file_name"`
	FileData string `json:"file_data"` // base64
	MimeType string `json:"mime_type"`
}

// UploadNDA godoc
// @Summary     Upload the caller's signed NDA
// @Description Stores the document under the caller's private prefix and moves the profile into under_review (approved profiles keep their stage).
// @Tags        profile
// @Accept      json
// @Produce     json
// @Param       request body ndaUploadRequest true "file_name, file_data, mime_type?"
// @Success     200 {object} domain.Profile
// @Failure     400 {object} map[string]string
// @Router      /v1/profile/nda [post]
func (h *Handler) UploadNDA(w http.ResponseWriter, r *http.Request) {
	const op = "profile.nda_upload"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.IdentityFromCtx(r.Context())
	if !ok {
		v1.WriteError(w, domain.ErrUnauth)
		return
	}

	var req ndaUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		v1.WriteError(w, domain.Invalid("Invalid request body"))
		return
	}
	if req.FileName == "" || req.FileData == "" {
		v1.WriteError(w, domain.Invalid("File name and file data are required"))
		return
	}

	body, err := base64.StdEncoding.DecodeString(req.FileData)
	if err != nil {
		v1.WriteError(w, domain.Invalid("Invalid file data: must be base64 encoded"))
		return
	}
	if _, err := domain.ValidateFileUpload(req.FileName, int64(len(body)), req.MimeType); err != nil {
		v1.WriteError(w, err)
		return
	}

	mime := req.MimeType
	if mime == "" {
		mime = "application/octet-stream"
	}

	now := time.Now().UTC()
	key := fmt.Sprintf("signed/%s/%d%s", me.UserID, now.Unix(), domain.FileExt(req.FileName))
	if err := h.Storage.Put(r.Context(), key, bytes.NewReader(body), int64(len(body)), mime); err != nil {
		logx.Error(h.Log, reqID, op, "storage put failed", err, "key", key)
		v1.WriteError(w, domain.Upstream("Failed to upload NDA", err))
		return
	}

	cur, err := h.Profiles.ProfileByID(r.Context(), me.UserID)
	if err != nil {
		logx.Error(h.Log, reqID, op, "profile lookup failed", err, "user_id", me.UserID)
		v1.WriteError(w, domain.Upstream("Failed to upload NDA", err))
		return
	}

	// an approved profile stays approved on re-upload
	stage := domain.StageUnderReview
	if cur.AccessStage == domain.StageApproved {
		stage = domain.StageApproved
	}

	p, err := h.Profiles.RecordNDAUpload(r.Context(), me.UserID, key, now, stage)
	if err != nil {
		if derr := h.Storage.Delete(r.Context(), key); derr != nil {
			logx.Error(h.Log, reqID, op, "cleanup after failed record also failed", derr, "key", key)
		}
		logx.Error(h.Log, reqID, op, "record failed", err, "user_id", me.UserID)
		v1.WriteError(w, domain.Upstream("Failed to record NDA upload", err))
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", me.UserID, "stage", p.AccessStage)
	v1.WriteOK(w, p)
}
