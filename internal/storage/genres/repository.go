package genres

import (
	"context"

	"librarycatalog/internal/types"
)

type Repository interface {
	// GetIdByName matches the name case-insensitively and returns "" when no genre has it.
	GetIdByName(ctx context.Context, name string) (string, error)
	// GetIdByNames is keyed by types.NameKey of the name; names without a genre are absent from the map.
	GetIdByNames(ctx context.Context, names ...string) (map[string]string, error)

	// Insert creates the genres that do not exist yet and returns ids of all given names,
	// keyed like GetIdByNames.
	Insert(ctx context.Context, names ...string) (map[string]string, error)

	GetAll(ctx context.Context) ([]*types.Genre, error)
}
