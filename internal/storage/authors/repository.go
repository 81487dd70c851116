package authors

import (
	"context"

	"librarycatalog/internal/types"
)

type Repository interface {
	// GetIdByName matches both names case-insensitively and returns "" when no author has them.
	GetIdByName(ctx context.Context, familyName, firstName string) (string, error)
	// GetByIds returns the known authors keyed by id; unknown ids are absent from the map.
	GetByIds(ctx context.Context, ids ...string) (map[string]*types.Author, error)

	// Save stores new authors, assigning ids to those without one, and updates the names of known ones.
	Save(ctx context.Context, authors ...*types.Author) error
}
