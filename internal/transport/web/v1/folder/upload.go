package folder

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/wsustone/L2L-United/internal/domain"
	"github.com/wsustone/L2L-United/internal/transport/web/logx"
	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	v1 "github.com/wsustone/L2L-United/internal/transport/web/v1"
)

type uploadRequest struct {
	FileName    string `json:"file_name"`
	FileData    string `json:"file_data"` // base64
	FileSize    int64  `json:"file_size"` // declared, untrusted
	MimeType    string `json:"mime_type"`
	Description string `json:"description"`
}

type uploadResponse struct {
	domain.File
	Message string `json:"message"`
	Skipped bool   `json:"skipped,omitempty"`
}

// Upload godoc
// @Summary     Upload a file into a folder
// @Description Validates name/extension/size/MIME, decodes base64 and stores the blob before the metadata row. A duplicate active name short-circuits with skipped=true.
// @Tags        folders
// @Accept      json
// @Produce     json
// @Param       id path string true "folder id"
// @Param       request body uploadRequest true "file_name, file_data, file_size, mime_type, description?"
// @Success     200 {object} uploadResponse
// @Failure     400 {object} map[string]string
// @Failure     403 {object} map[string]string
// @Router      /v1/folders/{id}/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	const op = "folders.upload"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.IdentityFromCtx(r.Context())
	if !ok {
		v1.WriteError(w, domain.ErrUnauth)
		return
	}

	folderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		v1.WriteError(w, domain.Invalid("Folder ID is required"))
		return
	}

	allowed, err := h.Gate.HasAccess(r.Context(), folderID, me.UserID, domain.PermWrite)
	if err != nil {
		logx.Error(h.Log, reqID, op, "access check failed", err, "folder_id", folderID)
		v1.WriteError(w, err)
		return
	}
	if !allowed {
		logx.Info(h.Log, reqID, op, "denied", "folder_id", folderID, "user_id", me.UserID)
		v1.WriteError(w, domain.AccessDenied("Access denied: You do not have write permission for this folder"))
		return
	}

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteError(w, domain.Invalid("Invalid request body"))
		return
	}
	if req.FileName == "" || req.FileData == "" {
		v1.WriteError(w, domain.Invalid("File name and file data are required"))
		return
	}

	sanitized, err := domain.ValidateFileUpload(req.FileName, req.FileSize, req.MimeType)
	if err != nil {
		logx.Info(h.Log, reqID, op, "validation rejected", "name", req.FileName)
		v1.WriteError(w, err)
		return
	}
	if sanitized != req.FileName {
		logx.Info(h.Log, reqID, op, "file name sanitized", "from", req.FileName, "to", sanitized)
	}

	// Duplicate active name: return the existing row, no second upload.
	if existing, found, err := h.Files.FindFileByName(r.Context(), folderID, sanitized); err != nil {
		logx.Error(h.Log, reqID, op, "lookup failed", err)
		v1.WriteError(w, domain.Upstream("Failed to upload file", err))
		return
	} else if found {
		logx.Info(h.Log, reqID, op, "exists", "file_id", existing.ID)
		v1.WriteOK(w, uploadResponse{
			File:    existing,
			Message: "File with this name already exists in folder",
			Skipped: true,
		})
		return
	}

	body, err := base64.StdEncoding.DecodeString(req.FileData)
	if err != nil {
		v1.WriteError(w, domain.Invalid("Invalid file data: must be base64 encoded"))
		return
	}
	// declared size was already checked; the decoded size is what counts
	if int64(len(body)) > domain.MaxFileSize {
		v1.WriteError(w, domain.Invalid("File size exceeds maximum allowed size of %dMB", domain.MaxFileSize/1024/1024))
		return
	}

	mime := req.MimeType
	if mime == "" {
		mime = "application/octet-stream"
	}

	objectKey := folderID.String() + "/" + uuid.NewString() + domain.FileExt(sanitized)
	if err := h.Storage.Put(r.Context(), objectKey, bytes.NewReader(body), int64(len(body)), mime); err != nil {
		logx.Error(h.Log, reqID, op, "storage put failed", err, "key", objectKey)
		v1.WriteError(w, domain.Upstream("Upload failed", err))
		return
	}

	f, err := h.Files.CreateFile(r.Context(), domain.File{
		FolderID:    folderID,
		Name:        sanitized,
		Description: req.Description,
		FilePath:    objectKey,
		FileSize:    int64(len(body)),
		MimeType:    mime,
		UploadedBy:  me.UserID,
	})
	if err != nil {
		// compensate: drop the blob we just wrote so it does not orphan
		if derr := h.Storage.Delete(r.Context(), objectKey); derr != nil {
			logx.Error(h.Log, reqID, op, "cleanup after failed insert also failed", derr, "key", objectKey)
		}
		logx.Error(h.Log, reqID, op, "metadata insert failed", err, "key", objectKey)
		v1.WriteError(w, domain.Upstream("Failed to save file metadata", err))
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "file_id", f.ID, "name", f.Name, "bytes", f.FileSize)
	v1.WriteOK(w, uploadResponse{File: f, Message: "File uploaded successfully"})
}
