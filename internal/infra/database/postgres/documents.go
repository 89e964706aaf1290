package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/wsustone/L2L-United/internal/domain"
)

const documentCols = "id, title, description, file_path, file_version, sort_order, active, created_at, updated_at"

func scanDocument(row pgx.Row) (domain.Document, error) {
	var d domain.Document
	err := row.Scan(&d.ID, &d.Title, &d.Description, &d.FilePath, &d.FileVersion,
		&d.SortOrder, &d.Active, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (r *PGRepo) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	q := r.qb().Select(documentCols).
		From(r.tbl("documents")).
		Where(sq.Eq{"active": true}).
		OrderBy("sort_order")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ListDocuments", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PGRepo) DocumentByID(ctx context.Context, id domain.DocumentID) (domain.Document, error) {
	q := r.qb().Select(documentCols).
		From(r.tbl("documents")).
		Where(sq.And{sq.Eq{"id": id}, sq.Eq{"active": true}})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("DocumentByID", sqlStr, args)

	d, err := scanDocument(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Document{}, domain.ErrNotFound
	}
	return d, err
}

func (r *PGRepo) ActiveDocumentByTitle(ctx context.Context, title string) (domain.Document, bool, error) {
	q := r.qb().Select(documentCols).
		From(r.tbl("documents")).
		Where(sq.And{sq.Eq{"title": title}, sq.Eq{"active": true}}).
		OrderBy("sort_order").
		Limit(1)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ActiveDocumentByTitle", sqlStr, args)

	d, err := scanDocument(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Document{}, false, nil
	}
	if err != nil {
		return domain.Document{}, false, err
	}
	return d, true, nil
}

func (r *PGRepo) LogDocumentAccess(ctx context.Context, doc domain.DocumentID, user domain.UserID, at time.Time) error {
	q := r.qb().Insert(r.tbl("document_access_log")).
		Columns("document_id", "user_id", "accessed_at").
		Values(doc, user, at)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("LogDocumentAccess", sqlStr, args)

	_, err := r.pool.Exec(ctx, sqlStr, args...)
	return err
}
