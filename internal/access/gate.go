// Package access is the folder permission gate every folder/file operation
// consults before acting.
package access

import (
	"context"
	"log"

	"github.com/wsustone/L2L-United/internal/domain"
)

// accessTTL bounds how long a cached yes/no answer may lag a revoked grant.
const accessTTL = 30 // seconds

type Gate struct {
	Log   *log.Logger
	Perms domain.PermissionsRepo
	Cache domain.Cache
}

// HasAccess reports whether the (user, folder, permission) relation holds,
// memoized briefly in the cache. Cache failures fall through to the store.
func (g *Gate) HasAccess(ctx context.Context, folder domain.FolderID, user domain.UserID, perm domain.Permission) (bool, error) {
	key := domain.CacheKeyAccess(folder, user, perm)
	if g.Cache != nil {
		if b, err := g.Cache.Get(ctx, key); err == nil && len(b) == 1 {
			return b[0] == '1', nil
		}
	}

	ok, err := g.Perms.HasFolderAccess(ctx, folder, user, perm)
	if err != nil {
		return false, domain.Upstream("Failed to check folder access", err)
	}

	if g.Cache != nil {
		val := []byte("0")
		if ok {
			val = []byte("1")
		}
		if err := g.Cache.Set(ctx, key, val, accessTTL); err != nil {
			g.Log.Printf("cache access result failed: %v", err)
		}
	}
	return ok, nil
}

// FolderPath resolves the breadcrumb for a folder, root first.
func (g *Gate) FolderPath(ctx context.Context, folder domain.FolderID) ([]string, error) {
	path, err := g.Perms.FolderPath(ctx, folder)
	if err != nil {
		return nil, domain.Upstream("Failed to resolve folder path", err)
	}
	return path, nil
}
