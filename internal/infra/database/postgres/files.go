package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/wsustone/L2L-United/internal/domain"
)

const fileCols = "id, folder_id, name, description, file_path, file_size, mime_type, uploaded_by, is_active, created_at, updated_at"

func scanFile(row pgx.Row) (domain.File, error) {
	var f domain.File
	err := row.Scan(&f.ID, &f.FolderID, &f.Name, &f.Description, &f.FilePath,
		&f.FileSize, &f.MimeType, &f.UploadedBy, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

func (r *PGRepo) ListFiles(ctx context.Context, folder domain.FolderID) ([]domain.File, error) {
	q := r.qb().Select(fileCols).
		From(r.tbl("files")).
		Where(sq.And{sq.Eq{"folder_id": folder}, sq.Eq{"is_active": true}}).
		OrderBy("name")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ListFiles", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.File, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *PGRepo) FileByID(ctx context.Context, id domain.FileID) (domain.File, error) {
	q := r.qb().Select(fileCols).
		From(r.tbl("files")).
		Where(sq.And{sq.Eq{"id": id}, sq.Eq{"is_active": true}})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("FileByID", sqlStr, args)

	f, err := scanFile(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.File{}, domain.ErrNotFound
	}
	return f, err
}

func (r *PGRepo) FindFileByName(ctx context.Context, folder domain.FolderID, name string) (domain.File, bool, error) {
	q := r.qb().Select(fileCols).
		From(r.tbl("files")).
		Where(sq.And{sq.Eq{"folder_id": folder}, sq.Eq{"name": name}, sq.Eq{"is_active": true}})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("FindFileByName", sqlStr, args)

	f, err := scanFile(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.File{}, false, nil
	}
	if err != nil {
		return domain.File{}, false, err
	}
	return f, true, nil
}

func (r *PGRepo) CreateFile(ctx context.Context, f domain.File) (domain.File, error) {
	q := r.qb().Insert(r.tbl("files")).
		Columns("folder_id", "name", "description", "file_path", "file_size", "mime_type", "uploaded_by").
		Values(f.FolderID, f.Name, f.Description, f.FilePath, f.FileSize, f.MimeType, f.UploadedBy).
		Suffix("RETURNING " + fileCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateFile", sqlStr, args)

	start := time.Now()
	out, err := scanFile(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateFile scan error after %s: %v", time.Since(start), err)
		return domain.File{}, err
	}
	r.logger.Printf("CreateFile ok in %s id=%s name=%q", time.Since(start), out.ID, out.Name)
	return out, nil
}

func (r *PGRepo) DeactivateFile(ctx context.Context, id domain.FileID) error {
	q := r.qb().Update(r.tbl("files")).
		Set("is_active", false).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeactivateFile", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
