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

const profileCols = "id, email, full_name, company, phone, is_admin, access_stage, " +
	"nda_file_path, nda_uploaded_at, terms_agreed_at, terms_version, pass_hash, created_at, updated_at"

func scanProfile(row pgx.Row) (domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.ID, &p.Email, &p.FullName, &p.Company, &p.Phone, &p.IsAdmin, &p.AccessStage,
		&p.NDAFilePath, &p.NDAUploadedAt, &p.TermsAgreedAt, &p.TermsVersion, &p.PassHash,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *PGRepo) CreateProfile(ctx context.Context, email string, passHash []byte) (domain.Profile, error) {
	q := r.qb().Insert(r.tbl("profiles")).
		Columns("email", "pass_hash").
		Values(email, passHash).
		Suffix("RETURNING " + profileCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateProfile", sqlStr, args)

	start := time.Now()
	p, err := scanProfile(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		// unique email conflict is a caller mistake, not an outage
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.Profile{}, domain.ErrBadParams
		}
		r.logger.Printf("CreateProfile scan error after %s: %v", time.Since(start), err)
		return domain.Profile{}, err
	}
	r.logger.Printf("CreateProfile ok in %s id=%s email=%s", time.Since(start), p.ID, p.Email)
	return p, nil
}

func (r *PGRepo) ProfileByEmail(ctx context.Context, email string) (domain.Profile, error) {
	q := r.qb().Select(profileCols).
		From(r.tbl("profiles")).
		Where(sq.Eq{"email": email})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ProfileByEmail", sqlStr, args)

	p, err := scanProfile(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, err
}

func (r *PGRepo) ProfileByID(ctx context.Context, id domain.UserID) (domain.Profile, error) {
	q := r.qb().Select(profileCols).
		From(r.tbl("profiles")).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ProfileByID", sqlStr, args)

	p, err := scanProfile(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, err
}

func (r *PGRepo) UpdateProfileDetails(ctx context.Context, id domain.UserID, fullName, phone, company string) (domain.Profile, error) {
	q := r.qb().Update(r.tbl("profiles")).
		Set("full_name", fullName).
		Set("phone", phone).
		Set("company", company).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + profileCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateProfileDetails", sqlStr, args)

	p, err := scanProfile(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, err
}

func (r *PGRepo) AcceptTerms(ctx context.Context, id domain.UserID, version string, at time.Time) (domain.Profile, error) {
	q := r.qb().Update(r.tbl("profiles")).
		Set("terms_agreed_at", at).
		Set("terms_version", version).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + profileCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("AcceptTerms", sqlStr, args)

	p, err := scanProfile(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, err
}

func (r *PGRepo) RecordNDAUpload(ctx context.Context, id domain.UserID, filePath string, at time.Time, stage domain.AccessStage) (domain.Profile, error) {
	q := r.qb().Update(r.tbl("profiles")).
		Set("nda_file_path", filePath).
		Set("nda_uploaded_at", at).
		Set("access_stage", string(stage)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + profileCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("RecordNDAUpload", sqlStr, args)

	p, err := scanProfile(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, err
}
