package storage

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type pgxDB struct {
	pool *pgxpool.Pool
	q    pgxQuerier
	g    goqu.DialectWrapper
	inTx bool
}

// NewPGX wraps a pgx pool, building SQL with the postgres dialect.
func NewPGX(pool *pgxpool.Pool) DB {
	return &pgxDB{pool: pool, q: pool, g: goqu.Dialect("postgres")}
}

func (p *pgxDB) Dialect() goqu.DialectWrapper {
	return p.g
}

func (p *pgxDB) Driver() string {
	return "postgres"
}

func (p *pgxDB) Select(ctx context.Context, dst any, sql string, args ...any) error {
	return pgxscan.Select(ctx, p.q, dst, sql, args...)
}

func (p *pgxDB) Get(ctx context.Context, dst any, sql string, args ...any) error {
	err := pgxscan.Get(ctx, p.q, dst, sql, args...)
	if pgxscan.NotFound(err) {
		return ErrNoRows
	}

	return err
}

func (p *pgxDB) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := p.q.Exec(ctx, sql, args...)
	return err
}

func (p *pgxDB) InTx(ctx context.Context, fn func(tx DB) error) error {
	if p.inTx {
		return fn(p)
	}

	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		return fn(&pgxDB{pool: p.pool, q: tx, g: p.g, inTx: true})
	})
}
