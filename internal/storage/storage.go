package storage

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"
)

// ErrNoRows is returned by DB.Get when the query yields no row, whichever driver is behind the DB.
var ErrNoRows = errors.New("no rows in result set")

// DB is the storage client handed to repositories. Implementations exist for a pgx pool and for
// database/sql (embedded SQLite); both build SQL through the goqu dialect returned by Dialect.
type DB interface {
	Dialect() goqu.DialectWrapper
	// Driver names the goqu dialect in use: "postgres" or "sqlite3".
	Driver() string

	// Select scans all rows into dst, which must be a pointer to a slice.
	Select(ctx context.Context, dst any, sql string, args ...any) error
	// Get scans exactly one row into dst, ErrNoRows if there is none.
	Get(ctx context.Context, dst any, sql string, args ...any) error
	Exec(ctx context.Context, sql string, args ...any) error

	// InTx runs fn inside a transaction, committing when fn returns nil.
	// Calling InTx on a DB handed to fn joins the running transaction.
	InTx(ctx context.Context, fn func(tx DB) error) error
}
