package folder

import (
	"context"
	"log"

	"github.com/wsustone/L2L-United/internal/domain"
)

// AccessGate is the slice of the permission gate the folder handlers need.
type AccessGate interface {
	HasAccess(ctx context.Context, folder domain.FolderID, user domain.UserID, perm domain.Permission) (bool, error)
	FolderPath(ctx context.Context, folder domain.FolderID) ([]string, error)
}

// Granter writes explicit per-user folder grants.
type Granter interface {
	UpsertGrant(ctx context.Context, g domain.FolderPermission) error
}

type Handler struct {
	Log     *log.Logger
	Folders domain.FoldersRepo
	Files   domain.FilesRepo
	Gate    AccessGate
	Perms   Granter
	Storage domain.BlobStorage
	Cache   domain.Cache

	AdminToken string // gates the permission-grant endpoint
	ListTTL    int    // seconds, folder-list cache
}
