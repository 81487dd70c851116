package storage

import (
	"context"
	"embed"
	"fmt"
	"strings"
)

//go:embed schema/*.sql
var schemas embed.FS

// Migrate creates the catalog tables if they do not exist yet.
func Migrate(ctx context.Context, db DB) error {
	file := "schema/postgres.sql"
	if db.Driver() == "sqlite3" {
		file = "schema/sqlite.sql"
	}

	bs, err := schemas.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	return db.InTx(ctx, func(tx DB) error {
		for _, stmt := range strings.Split(string(bs), ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}

			if err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("applying %s: %w", file, err)
			}
		}

		return nil
	})
}
