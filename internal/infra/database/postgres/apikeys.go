package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/wsustone/L2L-United/internal/domain"
)

const keyCols = "id, user_id, key_hash, name, description, is_active, expires_at, last_used_at, created_at"

func scanKey(row pgx.Row) (domain.APIKey, error) {
	var k domain.APIKey
	err := row.Scan(&k.ID, &k.UserID, &k.KeyHash, &k.Name, &k.Description,
		&k.IsActive, &k.ExpiresAt, &k.LastUsedAt, &k.CreatedAt)
	return k, err
}

func (r *PGRepo) CreateKey(ctx context.Context, k domain.APIKey) (domain.APIKey, error) {
	q := r.qb().Insert(r.tbl("api_keys")).
		Columns("user_id", "key_hash", "name", "description", "expires_at").
		Values(k.UserID, k.KeyHash, k.Name, k.Description, k.ExpiresAt).
		Suffix("RETURNING " + keyCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateKey", sqlStr, args)

	start := time.Now()
	out, err := scanKey(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateKey scan error after %s: %v", time.Since(start), err)
		return domain.APIKey{}, err
	}
	r.logger.Printf("CreateKey ok in %s id=%s name=%q", time.Since(start), out.ID, out.Name)
	return out, nil
}

func (r *PGRepo) ListKeys(ctx context.Context, user domain.UserID) ([]domain.APIKey, error) {
	q := r.qb().Select(keyCols).
		From(r.tbl("api_keys")).
		Where(sq.Eq{"user_id": user}).
		OrderBy("created_at DESC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ListKeys", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.APIKey, 0)
	for rows.Next() {
		k, err := scanKey(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (r *PGRepo) KeyByID(ctx context.Context, id domain.KeyID) (domain.APIKey, error) {
	q := r.qb().Select(keyCols).
		From(r.tbl("api_keys")).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("KeyByID", sqlStr, args)

	k, err := scanKey(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.APIKey{}, domain.ErrNotFound
	}
	return k, err
}

func (r *PGRepo) KeyByHash(ctx context.Context, hash string) (domain.APIKey, bool, error) {
	q := r.qb().Select(keyCols).
		From(r.tbl("api_keys")).
		Where(sq.Eq{"key_hash": hash})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("KeyByHash", sqlStr, []any{"<hash>"})

	k, err := scanKey(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.APIKey{}, false, nil
	}
	if err != nil {
		return domain.APIKey{}, false, err
	}
	return k, true, nil
}

func (r *PGRepo) SetKeyActive(ctx context.Context, id domain.KeyID, active bool) (domain.APIKey, error) {
	q := r.qb().Update(r.tbl("api_keys")).
		Set("is_active", active).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + keyCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("SetKeyActive", sqlStr, args)

	k, err := scanKey(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.APIKey{}, domain.ErrNotFound
	}
	return k, err
}

func (r *PGRepo) TouchKey(ctx context.Context, hash string, at time.Time) error {
	q := r.qb().Update(r.tbl("api_keys")).
		Set("last_used_at", at).
		Where(sq.Eq{"key_hash": hash})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("TouchKey", sqlStr, []any{"<hash>", at})

	_, err := r.pool.Exec(ctx, sqlStr, args...)
	return err
}

func (r *PGRepo) DeleteKey(ctx context.Context, id domain.KeyID) error {
	q := r.qb().Delete(r.tbl("api_keys")).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeleteKey", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
