package domain

import (
	"context"
	"time"
)

type ProfilesRepo interface {
	Close()
	Ping(context.Context) error
	CreateProfile(ctx context.Context, email string, passHash []byte) (Profile, error)
	ProfileByEmail(ctx context.Context, email string) (Profile, error)
	ProfileByID(ctx context.Context, id UserID) (Profile, error)
	// UpdateProfileDetails mutates only the self-service fields.
	UpdateProfileDetails(ctx context.Context, id UserID, fullName, phone, company string) (Profile, error)
	AcceptTerms(ctx context.Context, id UserID, version string, at time.Time) (Profile, error)
	// RecordNDAUpload stamps the signed-NDA metadata and advances the access stage.
	RecordNDAUpload(ctx context.Context, id UserID, filePath string, at time.Time, stage AccessStage) (Profile, error)
}

type FoldersRepo interface {
	// ListFolders returns active folders under parent (root when parent is nil),
	// preserving store ordering. Access filtering happens in the handler.
	ListFolders(ctx context.Context, parent *FolderID) ([]Folder, error)
	FolderByID(ctx context.Context, id FolderID) (Folder, error)
	// FindFolderByName looks up an active folder with the same name and parent.
	FindFolderByName(ctx context.Context, parent *FolderID, name string) (Folder, bool, error)
	CreateFolder(ctx context.Context, f Folder) (Folder, error)
	// DeactivateFolderTree soft-deletes the folder, its files and all
	// sub-folders in one transaction.
	DeactivateFolderTree(ctx context.Context, id FolderID) error
}

type FilesRepo interface {
	// ListFiles returns active files in the folder ordered by name.
	ListFiles(ctx context.Context, folder FolderID) ([]File, error)
	FileByID(ctx context.Context, id FileID) (File, error)
	FindFileByName(ctx context.Context, folder FolderID, name string) (File, bool, error)
	CreateFile(ctx context.Context, f File) (File, error)
	DeactivateFile(ctx context.Context, id FileID) error
}

// PermissionsRepo answers the access-control questions the gate delegates to
// the store. Grants on an ancestor folder apply to its whole subtree.
type PermissionsRepo interface {
	HasFolderAccess(ctx context.Context, folder FolderID, user UserID, perm Permission) (bool, error)
	// FolderPath resolves ancestor names root-first, ending with the folder itself.
	FolderPath(ctx context.Context, folder FolderID) ([]string, error)
	UpsertGrant(ctx context.Context, g FolderPermission) error
}

type APIKeysRepo interface {
	CreateKey(ctx context.Context, k APIKey) (APIKey, error)
	// ListKeys returns the caller's keys, newest first.
	ListKeys(ctx context.Context, user UserID) ([]APIKey, error)
	KeyByID(ctx context.Context, id KeyID) (APIKey, error)
	KeyByHash(ctx context.Context, hash string) (APIKey, bool, error)
	SetKeyActive(ctx context.Context, id KeyID, active bool) (APIKey, error)
	TouchKey(ctx context.Context, hash string, at time.Time) error
	DeleteKey(ctx context.Context, id KeyID) error
}

type DocumentsRepo interface {
	// ListDocuments returns active curated documents ordered by sort_order.
	ListDocuments(ctx context.Context) ([]Document, error)
	DocumentByID(ctx context.Context, id DocumentID) (Document, error)
	// ActiveDocumentByTitle finds a curated document by exact title (NDA template lookup).
	ActiveDocumentByTitle(ctx context.Context, title string) (Document, bool, error)
	LogDocumentAccess(ctx context.Context, doc DocumentID, user UserID, at time.Time) error
}
