package recipes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Recipe is a single stored recipe. ID 0 means the recipe has not been
// persisted yet.
type Recipe struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Ingredients string `json:"ingredients"`
	Notes       string `json:"notes"`
	ImageURI    string `json:"image_uri"`
	IsFavorite  bool   `json:"is_favorite"`
}

// Querier is satisfied by both *sql.DB and *sql.Tx, so every single-statement
// operation can run standalone or inside a caller's transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ErrWriteRejected wraps any error SQLite returns for an insert, update or
// delete (constraint violation, read-only file, closed database, ...).
var ErrWriteRejected = errors.New("write rejected")

func rejected(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrWriteRejected, err)
}
