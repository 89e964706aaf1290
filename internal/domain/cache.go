package domain

import "context"

// Cache keys live here so they do not scatter across packages.
func CacheKeyTokenJTI(jti string) string           { return "jti:" + jti }
func CacheKeyFolderList(user, pageKey string) string { return "folders:" + user + ":" + pageKey }
func CacheKeyAccess(folder FolderID, user UserID, perm Permission) string {
	return "acc:" + folder.String() + ":" + user.String() + ":" + string(perm)
}

// Simple k/v interface. Implementation is Redis.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttlSeconds int) error
	Del(ctx context.Context, keys ...string) error
	SetNX(ctx context.Context, key string, val []byte, ttlSeconds int) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
	Ping(context.Context) error
	Close()
}
