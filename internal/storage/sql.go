package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/georgysavva/scany/v2/sqlscan"
)

type sqlQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type sqlDB struct {
	db      *sql.DB
	q       sqlQuerier
	g       goqu.DialectWrapper
	dialect string
	inTx    bool
}

// NewSQL wraps a database/sql handle. dialect names a registered goqu dialect, "sqlite3" for the
// embedded store.
func NewSQL(db *sql.DB, dialect string) DB {
	return &sqlDB{db: db, q: db, g: goqu.Dialect(dialect), dialect: dialect}
}

func (s *sqlDB) Dialect() goqu.DialectWrapper {
	return s.g
}

func (s *sqlDB) Driver() string {
	return s.dialect
}

func (s *sqlDB) Select(ctx context.Context, dst any, query string, args ...any) error {
	return sqlscan.Select(ctx, s.q, dst, query, args...)
}

func (s *sqlDB) Get(ctx context.Context, dst any, query string, args ...any) error {
	err := sqlscan.Get(ctx, s.q, dst, query, args...)
	if sqlscan.NotFound(err) {
		return ErrNoRows
	}

	return err
}

func (s *sqlDB) Exec(ctx context.Context, query string, args ...any) error {
	_, err := s.q.ExecContext(ctx, query, args...)
	return err
}

func (s *sqlDB) InTx(ctx context.Context, fn func(tx DB) error) (err error) {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}

		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rolling back: %w", rbErr))
			}
		}
	}()

	if err = fn(&sqlDB{db: s.db, q: tx, g: s.g, dialect: s.dialect, inTx: true}); err != nil {
		return err
	}

	return tx.Commit()
}
