package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wsustone/L2L-United/internal/domain"
)

const folderCols = "id, name, description, parent_id, created_by, is_active, created_at, updated_at"

func scanFolder(row pgx.Row) (domain.Folder, error) {
	var f domain.Folder
	err := row.Scan(&f.ID, &f.Name, &f.Description, &f.ParentID, &f.CreatedBy,
		&f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

func (r *PGRepo) ListFolders(ctx context.Context, parent *domain.FolderID) ([]domain.Folder, error) {
	q := r.qb().Select(folderCols).
		From(r.tbl("folders")).
		Where(sq.Eq{"is_active": true})
	if parent != nil {
		q = q.Where(sq.Eq{"parent_id": *parent})
	} else {
		q = q.Where("parent_id IS NULL")
	}
	q = q.OrderBy("created_at")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ListFolders", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Folder, 0)
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *PGRepo) FolderByID(ctx context.Context, id domain.FolderID) (domain.Folder, error) {
	q := r.qb().Select(folderCols).
		From(r.tbl("folders")).
		Where(sq.And{sq.Eq{"id": id}, sq.Eq{"is_active": true}})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("FolderByID", sqlStr, args)

	f, err := scanFolder(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Folder{}, domain.ErrNotFound
	}
	return f, err
}

func (r *PGRepo) FindFolderByName(ctx context.Context, parent *domain.FolderID, name string) (domain.Folder, bool, error) {
	q := r.qb().Select(folderCols).
		From(r.tbl("folders")).
		Where(sq.And{sq.Eq{"name": name}, sq.Eq{"is_active": true}})
	if parent != nil {
		q = q.Where(sq.Eq{"parent_id": *parent})
	} else {
		q = q.Where("parent_id IS NULL")
	}

	sqlStr, args, _ := q.ToSql()
	r.logSQL("FindFolderByName", sqlStr, args)

	f, err := scanFolder(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Folder{}, false, nil
	}
	if err != nil {
		return domain.Folder{}, false, err
	}
	return f, true, nil
}

func (r *PGRepo) CreateFolder(ctx context.Context, f domain.Folder) (domain.Folder, error) {
	q := r.qb().Insert(r.tbl("folders")).
		Columns("name", "description", "parent_id", "created_by").
		Values(f.Name, f.Description, f.ParentID, f.CreatedBy).
		Suffix("RETURNING " + folderCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateFolder", sqlStr, args)

	start := time.Now()
	out, err := scanFolder(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		// unique (parent, name) conflict: a concurrent identical create won the
		// race, hand back the existing row
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			existing, found, ferr := r.FindFolderByName(ctx, f.ParentID, f.Name)
			if ferr == nil && found {
				return existing, nil
			}
		}
		r.logger.Printf("CreateFolder scan error after %s: %v", time.Since(start), err)
		return domain.Folder{}, err
	}
	r.logger.Printf("CreateFolder ok in %s id=%s name=%q", time.Since(start), out.ID, out.Name)
	return out, nil
}

// DeactivateFolderTree soft-deletes the folder, its files and all sub-folders
// (with their files) in a single transaction.
func (r *PGRepo) DeactivateFolderTree(ctx context.Context, id domain.FolderID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const subtree = `
		WITH RECURSIVE subtree AS (
			SELECT id FROM %[1]s WHERE id = $1
			UNION ALL
			SELECT f.id FROM %[1]s f JOIN subtree s ON f.parent_id = s.id
		)`

	folders := r.tbl("folders")
	start := time.Now()

	stmt := subtree + ` UPDATE %[2]s SET is_active = FALSE, updated_at = now()
		WHERE folder_id IN (SELECT id FROM subtree)`
	if _, err := tx.Exec(ctx, sprintfQuery(stmt, folders, r.tbl("files")), id); err != nil {
		r.logger.Printf("DeactivateFolderTree files error after %s: %v", time.Since(start), err)
		return err
	}

	stmt = subtree + ` UPDATE %[1]s SET is_active = FALSE, updated_at = now()
		WHERE id IN (SELECT id FROM subtree)`
	if _, err := tx.Exec(ctx, sprintfQuery(stmt, folders), id); err != nil {
		r.logger.Printf("DeactivateFolderTree folders error after %s: %v", time.Since(start), err)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.logger.Printf("DeactivateFolderTree ok in %s id=%s", time.Since(start), id)
	return nil
}
