package domain

import (
	"regexp"
	"strings"
)

// MaxFileSize is the hard cap on uploaded file bodies (100 MiB).
const MaxFileSize = 100 << 20

// Executable-ish extensions rejected outright, regardless of declared MIME.
var blockedExtensions = map[string]struct{}{
	".exe": {}, ".bat": {}, ".cmd": {}, ".com": {}, ".scr": {}, ".vbs": {},
	".js": {}, ".jar": {}, ".msi": {}, ".app": {}, ".deb": {}, ".rpm": {},
	".dmg": {}, ".pkg": {}, ".sh": {}, ".ps1": {},
}

// MIME types accepted for shared-folder uploads: documents, images, archives.
var allowedMimeTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {},
	"application/vnd.ms-powerpoint": {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
	"text/plain":                   {},
	"text/csv":                     {},
	"image/jpeg":                   {},
	"image/png":                    {},
	"image/gif":                    {},
	"image/webp":                   {},
	"image/svg+xml":                {},
	"application/zip":              {},
	"application/x-zip-compressed": {},
	"application/json":             {},
	"text/markdown":                {},
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// FileExt returns the lowercase extension of name including the dot, or "".
func FileExt(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i:])
}

// ValidateFileUpload checks name/size/type in a fixed order and returns the
// sanitized file name. size is the declared size; the decoded body must be
// re-checked against MaxFileSize separately, declared values are untrusted.
func ValidateFileUpload(name string, size int64, mimeType string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", Invalid("File name is required")
	}
	if ext := FileExt(name); ext != "" {
		if _, blocked := blockedExtensions[ext]; blocked {
			return "", Invalid("File type %s is not allowed for security reasons", ext)
		}
	}
	if size > MaxFileSize {
		return "", Invalid("File size exceeds maximum allowed size of %dMB", MaxFileSize/1024/1024)
	}
	if mimeType != "" {
		if _, ok := allowedMimeTypes[mimeType]; !ok {
			return "", Invalid("File type %s is not allowed. Please upload documents, images, or archives only.", mimeType)
		}
	}
	return unsafeNameChars.ReplaceAllString(name, "_"), nil
}
