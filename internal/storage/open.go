package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"
)

// Open connects to the store described by dsn: a postgres:// or postgresql:// URL opens a pgx pool
// (with tracer attached when not nil), sqlite:<path> or file:<path> opens an embedded SQLite file.
// The returned func releases the connections.
func Open(ctx context.Context, dsn string, tracer pgx.QueryTracer) (DB, func(), error) {
	dsn = strings.TrimSpace(dsn)

	switch {
	case dsn == "":
		return nil, nil, errors.New("empty DATABASE_URL")
	case strings.HasPrefix(dsn, "sqlite:"):
		return OpenSQLite(strings.TrimPrefix(dsn, "sqlite:"))
	case strings.HasPrefix(dsn, "file:"):
		return OpenSQLite(dsn)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing postgres DSN: %w", err)
	}

	if tracer != nil {
		cfg.ConnConfig.Tracer = tracer
	}

	pg, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating postgres pool: %w", err)
	}

	return NewPGX(pg), pg.Close, nil
}

// OpenSQLite opens (creating if needed) an SQLite database file with foreign keys enforced.
func OpenSQLite(path string) (DB, func(), error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	db, err := sql.Open("sqlite", path+sep+"_pragma=foreign_keys(1)")
	if err != nil {
		return nil, nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// one writer at a time, otherwise concurrent transactions fail with SQLITE_BUSY
	db.SetMaxOpenConns(1)

	return NewSQL(db, "sqlite3"), func() { _ = db.Close() }, nil
}
