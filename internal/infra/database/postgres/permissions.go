package postgres

import (
	"context"
	"time"

	"github.com/wsustone/L2L-United/internal/domain"
)

// HasFolderAccess answers the (user, folder, permission) question the handlers
// delegate to the store. A user has access when they are an approved admin,
// created the folder, or hold a matching grant on the folder or any ancestor.
func (r *PGRepo) HasFolderAccess(ctx context.Context, folder domain.FolderID, user domain.UserID, perm domain.Permission) (bool, error) {
	var permCol string
	switch perm {
	case domain.PermRead:
		permCol = "can_read"
	case domain.PermWrite:
		permCol = "can_write"
	case domain.PermDelete:
		permCol = "can_delete"
	default:
		return false, domain.ErrBadParams
	}

	query := sprintfQuery(`
		WITH RECURSIVE ancestry AS (
			SELECT id, parent_id, created_by FROM %[1]s WHERE id = $1
			UNION ALL
			SELECT f.id, f.parent_id, f.created_by
			FROM %[1]s f JOIN ancestry a ON f.id = a.parent_id
		)
		SELECT EXISTS (
			SELECT 1 FROM %[3]s p
			WHERE p.id = $2 AND p.is_admin AND p.access_stage = 'approved'
		) OR EXISTS (
			SELECT 1 FROM ancestry a WHERE a.created_by = $2
		) OR EXISTS (
			SELECT 1 FROM %[2]s fp
			JOIN ancestry a ON fp.folder_id = a.id
			WHERE fp.user_id = $2 AND fp.%[4]s
		)`,
		r.tbl("folders"), r.tbl("folder_permissions"), r.tbl("profiles"), permCol)

	r.logSQL("HasFolderAccess", query, []any{folder, user})

	start := time.Now()
	var ok bool
	if err := r.pool.QueryRow(ctx, query, folder, user).Scan(&ok); err != nil {
		r.logger.Printf("HasFolderAccess scan error after %s: %v", time.Since(start), err)
		return false, err
	}
	return ok, nil
}

// FolderPath resolves the breadcrumb: ancestor names root-first, folder last.
func (r *PGRepo) FolderPath(ctx context.Context, folder domain.FolderID) ([]string, error) {
	query := sprintfQuery(`
		WITH RECURSIVE ancestry AS (
			SELECT id, parent_id, name, 0 AS depth FROM %[1]s WHERE id = $1
			UNION ALL
			SELECT f.id, f.parent_id, f.name, a.depth + 1
			FROM %[1]s f JOIN ancestry a ON f.id = a.parent_id
		)
		SELECT name FROM ancestry ORDER BY depth DESC`,
		r.tbl("folders"))

	r.logSQL("FolderPath", query, []any{folder})

	rows, err := r.pool.Query(ctx, query, folder)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var path []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		path = append(path, name)
	}
	return path, rows.Err()
}

func (r *PGRepo) UpsertGrant(ctx context.Context, g domain.FolderPermission) error {
	q := r.qb().Insert(r.tbl("folder_permissions")).
		Columns("folder_id", "user_id", "can_read", "can_write", "can_delete", "granted_by").
		Values(g.FolderID, g.UserID, g.CanRead, g.CanWrite, g.CanDelete, g.GrantedBy).
		Suffix(`ON CONFLICT (folder_id, user_id) DO UPDATE SET
			can_read = EXCLUDED.can_read,
			can_write = EXCLUDED.can_write,
			can_delete = EXCLUDED.can_delete,
			granted_by = EXCLUDED.granted_by,
			granted_at = now()`)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpsertGrant", sqlStr, args)

	_, err := r.pool.Exec(ctx, sqlStr, args...)
	return err
}
