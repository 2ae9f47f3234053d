package repository

import (
	"context"
	"errors"
	"time"

	"pastebin/internal/model"
)

// ErrDuplicateID is returned by Insert when a row with the same id already
// exists. With the generator's entropy this should not occur, but it must be
// detected rather than ignored.
var ErrDuplicateID = errors.New("duplicate paste id")

// PasteRepository defines data access for paste metadata rows using SQL
// queries only. No lifecycle logic here, strictly persistence operations.
type PasteRepository interface {
	// Insert stores a new paste row. Fails with ErrDuplicateID on id collision.
	Insert(ctx context.Context, p *model.Paste) error

	// FindByID returns a paste row by its id. A missing row surfaces as
	// sql.ErrNoRows for the service to translate.
	FindByID(ctx context.Context, id string) (*model.Paste, error)

	// IncrementViewCount atomically bumps the row's view counter at the
	// storage layer (never read-modify-write in the caller) and returns the
	// post-increment value.
	IncrementViewCount(ctx context.Context, id string) (int, error)

	// Delete removes a paste row by id. Deleting an absent row is not an error.
	Delete(ctx context.Context, id string) error

	// ListExpiredBefore returns up to limit rows whose expiry is set and
	// strictly before now, for sweep use.
	ListExpiredBefore(ctx context.Context, now time.Time, limit int) ([]model.Paste, error)
}
