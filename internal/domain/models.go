package domain

import (
	"time"

	"github.com/google/uuid"
)

// Base identifiers
type UserID = uuid.UUID
type FolderID = uuid.UUID
type FileID = uuid.UUID
type KeyID = uuid.UUID
type DocumentID = uuid.UUID

// AccessStage is a profile's position in the NDA/terms approval workflow.
type AccessStage string

const (
	StageAwaitingAdmin AccessStage = "awaiting_admin"
	StageNDAAvailable  AccessStage = "nda_available"
	StageUnderReview   AccessStage = "under_review"
	StageApproved      AccessStage = "approved"
	StageRejected      AccessStage = "rejected"
)

// Profile is the portal user row. PassHash never leaves the server.
type Profile struct {
	ID            UserID      `json:"id"`
	Email         string      `json:"email"`
	FullName      string      `json:"full_name"`
	Company       string      `json:"company"`
	Phone         string      `json:"phone"`
	IsAdmin       bool        `json:"is_admin"`
	AccessStage   AccessStage `json:"access_stage"`
	NDAFilePath   string      `json:"nda_file_path,omitempty"`
	NDAUploadedAt *time.Time  `json:"nda_uploaded_at,omitempty"`
	TermsAgreedAt *time.Time  `json:"terms_agreed_at,omitempty"`
	TermsVersion  string      `json:"terms_version,omitempty"`
	PassHash      []byte      `json:"-"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Folder forms a tree via ParentID (nil = root). Soft-deleted via IsActive.
type Folder struct {
	ID          FolderID  `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ParentID    *FolderID `json:"parent_id"`
	CreatedBy   UserID    `json:"-"`
	IsActive    bool      `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Breadcrumb of ancestor names, root first. Filled on single-folder reads.
	Path []string `json:"path,omitempty"`
}

// File is shared-folder content. FilePath is the object-store key.
type File struct {
	ID          FileID    `json:"id"`
	FolderID    FolderID  `json:"folder_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	FilePath    string    `json:"file_path"`
	FileSize    int64     `json:"file_size"`
	MimeType    string    `json:"mime_type"`
	UploadedBy  UserID    `json:"-"`
	IsActive    bool      `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Permission kinds checked by the access gate.
type Permission string

const (
	PermRead   Permission = "read"
	PermWrite  Permission = "write"
	PermDelete Permission = "delete"
)

// FolderPermission is an explicit per-user grant, independent of ownership.
// Grants are inherited by sub-folders.
type FolderPermission struct {
	FolderID  FolderID  `json:"folder_id"`
	UserID    UserID    `json:"user_id"`
	CanRead   bool      `json:"can_read"`
	CanWrite  bool      `json:"can_write"`
	CanDelete bool      `json:"can_delete"`
	GrantedBy UserID    `json:"granted_by"`
	GrantedAt time.Time `json:"granted_at"`
}

// APIKey stores only the sha256 hex digest of the secret; the plaintext is
// returned exactly once at creation and never persisted.
type APIKey struct {
	ID          KeyID      `json:"id"`
	UserID      UserID     `json:"-"`
	KeyHash     string     `json:"-"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	IsActive    bool       `json:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at"`
	LastUsedAt  *time.Time `json:"last_used_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Document is an administrator-curated resource (NDA template, terms PDF, ...),
// distinct from the generic shared File.
type Document struct {
	ID          DocumentID `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	FilePath    string     `json:"-"`
	FileVersion string     `json:"file_version"`
	SortOrder   int        `json:"sort_order"`
	Active      bool       `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
