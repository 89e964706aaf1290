package file

import (
	"context"
	"log"

	"github.com/wsustone/L2L-United/internal/domain"
)

// AccessGate is the slice of the permission gate the file handlers need.
// Access to a file is access to its owning folder.
type AccessGate interface {
	HasAccess(ctx context.Context, folder domain.FolderID, user domain.UserID, perm domain.Permission) (bool, error)
}

type Handler struct {
	Log     *log.Logger
	Files   domain.FilesRepo
	Gate    AccessGate
	Storage domain.BlobStorage
}
