package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"pastebin/internal/model"
	"pastebin/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pasteCols = []string{
	"id", "title", "language", "is_encrypted", "encryption_iv", "encryption_salt",
	"burn_after", "expires_at", "view_count", "size_bytes", "content_key", "created_at", "ip_hash",
}

func testPaste(now time.Time) *model.Paste {
	exp := now.Add(time.Hour)
	return &model.Paste{
		ID:         "abc123def456",
		Title:      "notes",
		Language:   "go",
		BurnAfter:  false,
		ExpiresAt:  &exp,
		ViewCount:  0,
		SizeBytes:  11,
		ContentKey: "pastes/abc123def456",
		CreatedAt:  now,
	}
}

func TestPastePostgres_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPastePostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("success", func(t *testing.T) {
		p := testPaste(now)
		mock.ExpectExec("INSERT INTO pastes").
			WithArgs(
				p.ID, sql.NullString{String: "notes", Valid: true}, p.Language, p.IsEncrypted,
				sql.NullString{}, sql.NullString{}, p.BurnAfter, p.ExpiresAt,
				p.ViewCount, p.SizeBytes, p.ContentKey, p.CreatedAt, sql.NullString{},
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Insert(ctx, p))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate id", func(t *testing.T) {
		p := testPaste(now)
		mock.ExpectExec("INSERT INTO pastes").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.Insert(ctx, p)
		assert.ErrorIs(t, err, repository.ErrDuplicateID)
	})

	t.Run("generic error", func(t *testing.T) {
		p := testPaste(now)
		mock.ExpectExec("INSERT INTO pastes").
			WillReturnError(errors.New("db down"))

		err := repo.Insert(ctx, p)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, repository.ErrDuplicateID)
	})
}

func TestPastePostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPastePostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		exp := now.Add(time.Hour)
		rows := sqlmock.NewRows(pasteCols).
			AddRow("abc123def456", "notes", "go", false, nil, nil, false, exp, 3, 11, "pastes/abc123def456", now, nil)

		mock.ExpectQuery("SELECT (.+) FROM pastes").
			WithArgs("abc123def456").
			WillReturnRows(rows)

		p, err := repo.FindByID(ctx, "abc123def456")
		require.NoError(t, err)
		assert.Equal(t, "abc123def456", p.ID)
		assert.Equal(t, "notes", p.Title)
		assert.Equal(t, 3, p.ViewCount)
		require.NotNil(t, p.ExpiresAt)
		assert.True(t, p.ExpiresAt.Equal(exp))
		assert.Empty(t, p.EncryptionIV)
	})

	t.Run("null expiry", func(t *testing.T) {
		rows := sqlmock.NewRows(pasteCols).
			AddRow("abc123def456", nil, "text", false, nil, nil, false, nil, 0, 5, "pastes/abc123def456", now, nil)

		mock.ExpectQuery("SELECT (.+) FROM pastes").
			WithArgs("abc123def456").
			WillReturnRows(rows)

		p, err := repo.FindByID(ctx, "abc123def456")
		require.NoError(t, err)
		assert.Nil(t, p.ExpiresAt)
		assert.Empty(t, p.Title)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM pastes").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		p, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, p)
	})
}

func TestPastePostgres_IncrementViewCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPastePostgres(db)
	ctx := context.Background()

	t.Run("returns post-increment value", func(t *testing.T) {
		mock.ExpectQuery("UPDATE pastes SET view_count = view_count \\+ 1").
			WithArgs("abc123def456").
			WillReturnRows(sqlmock.NewRows([]string{"view_count"}).AddRow(2))

		count, err := repo.IncrementViewCount(ctx, "abc123def456")
		assert.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectQuery("UPDATE pastes SET view_count = view_count \\+ 1").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.IncrementViewCount(ctx, "missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestPastePostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPastePostgres(db)
	ctx := context.Background()

	t.Run("deletes row", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM pastes").
			WithArgs("abc123def456").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, "abc123def456"))
	})

	t.Run("absent row is not an error", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM pastes").
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, repo.Delete(ctx, "missing"))
	})
}

func TestPastePostgres_ListExpiredBefore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPastePostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("returns expired rows", func(t *testing.T) {
		exp := now.Add(-time.Minute)
		rows := sqlmock.NewRows(pasteCols).
			AddRow("aaa111bbb222", nil, "text", false, nil, nil, false, exp, 4, 9, "pastes/aaa111bbb222", now.Add(-time.Hour), nil).
			AddRow("ccc333ddd444", nil, "text", false, nil, nil, true, exp, 1, 3, "pastes/ccc333ddd444", now.Add(-time.Hour), nil)

		mock.ExpectQuery("SELECT (.+) FROM pastes").
			WithArgs(now, 100).
			WillReturnRows(rows)

		items, err := repo.ListExpiredBefore(ctx, now, 100)
		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, "aaa111bbb222", items[0].ID)
	})

	t.Run("empty result", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM pastes").
			WithArgs(now, 100).
			WillReturnRows(sqlmock.NewRows(pasteCols))

		items, err := repo.ListExpiredBefore(ctx, now, 100)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
