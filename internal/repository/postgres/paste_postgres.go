package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"pastebin/internal/model"
	"pastebin/internal/repository"
)

// pgUniqueViolation is the Postgres error code for unique_violation.
const pgUniqueViolation = "23505"

// PastePostgres is a PostgreSQL implementation of repository.PasteRepository.
// It uses database/sql with parameterized queries and contains no lifecycle logic.
type PastePostgres struct {
	db *sql.DB
}

// NewPastePostgres creates a new PastePostgres repository.
func NewPastePostgres(db *sql.DB) *PastePostgres {
	return &PastePostgres{db: db}
}

var _ repository.PasteRepository = (*PastePostgres)(nil)

const pasteColumns = `id, title, language, is_encrypted, encryption_iv, encryption_salt,
		burn_after, expires_at, view_count, size_bytes, content_key, created_at, ip_hash`

// Insert stores a new paste row. A unique violation on the primary key maps
// to repository.ErrDuplicateID.
func (r *PastePostgres) Insert(ctx context.Context, p *model.Paste) error {
	const q = `
		INSERT INTO pastes (id, title, language, is_encrypted, encryption_iv, encryption_salt,
			burn_after, expires_at, view_count, size_bytes, content_key, created_at, ip_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, q,
		p.ID,
		nullString(p.Title),
		p.Language,
		p.IsEncrypted,
		nullString(p.EncryptionIV),
		nullString(p.EncryptionSalt),
		p.BurnAfter,
		p.ExpiresAt,
		p.ViewCount,
		p.SizeBytes,
		p.ContentKey,
		p.CreatedAt,
		nullString(p.IPHash),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return repository.ErrDuplicateID
		}
		return err
	}
	return nil
}

// FindByID fetches a single paste row by its id.
func (r *PastePostgres) FindByID(ctx context.Context, id string) (*model.Paste, error) {
	const q = `
		SELECT ` + pasteColumns + `
		FROM pastes
		WHERE id = $1
	`
	return scanPaste(r.db.QueryRowContext(ctx, q, id))
}

// IncrementViewCount performs a single-row atomic increment and returns the
// post-increment counter. Missing rows surface as sql.ErrNoRows.
func (r *PastePostgres) IncrementViewCount(ctx context.Context, id string) (int, error) {
	const q = `
		UPDATE pastes
		SET view_count = view_count + 1
		WHERE id = $1
		RETURNING view_count
	`
	var count int
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes a paste row by id. It does not return an error if the row
// does not exist.
func (r *PastePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM pastes WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// ListExpiredBefore returns up to limit rows with an expiry strictly before now.
func (r *PastePostgres) ListExpiredBefore(ctx context.Context, now time.Time, limit int) ([]model.Paste, error) {
	const q = `
		SELECT ` + pasteColumns + `
		FROM pastes
		WHERE expires_at IS NOT NULL AND expires_at < $1
		ORDER BY expires_at
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Paste, 0)
	for rows.Next() {
		p, err := scanPaste(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPaste(s scanner) (*model.Paste, error) {
	var (
		p         model.Paste
		title     sql.NullString
		iv        sql.NullString
		salt      sql.NullString
		ipHash    sql.NullString
		expiresAt sql.NullTime
	)
	if err := s.Scan(
		&p.ID,
		&title,
		&p.Language,
		&p.IsEncrypted,
		&iv,
		&salt,
		&p.BurnAfter,
		&expiresAt,
		&p.ViewCount,
		&p.SizeBytes,
		&p.ContentKey,
		&p.CreatedAt,
		&ipHash,
	); err != nil {
		return nil, err
	}
	p.Title = title.String
	p.EncryptionIV = iv.String
	p.EncryptionSalt = salt.String
	p.IPHash = ipHash.String
	if expiresAt.Valid {
		t := expiresAt.Time
		p.ExpiresAt = &t
	}
	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
