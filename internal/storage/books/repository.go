package books

import (
	"context"

	"librarycatalog/internal/types"
)

// Field names usable in projections and sort specs, as they appear in the JSON form of a book.
const (
	FieldId      = "id"
	FieldTitle   = "title"
	FieldAuthor  = "author"
	FieldSummary = "summary"
	FieldIsbn    = "isbn"
	FieldGenre   = "genre"
)

type SortOrder int8

const (
	Asc  SortOrder = 1
	Desc SortOrder = -1
)

type SortField struct {
	Field string
	Order SortOrder
}

// Filter narrows Count. Empty fields match any book, so the zero Filter matches all of them.
type Filter struct {
	Title    string
	Isbn     string
	AuthorId string
	GenreId  string
}

type Repository interface {
	// GetAllWithAuthorNames returns every book with only its title and its author's name set.
	GetAllWithAuthorNames(ctx context.Context) ([]*types.Book, error)
	// GetAllWithAuthors returns every book restricted to projection (all fields when empty, id always
	// included) with the author fully populated when projected. Unknown field names are ignored,
	// both in projection and in sort.
	GetAllWithAuthors(ctx context.Context, projection []string, sort ...SortField) ([]*types.Book, error)
	GetById(ctx context.Context, id string) (*types.Book, error)

	Count(ctx context.Context, filter Filter) (int64, error)

	// Insert validates book and stores it under a fresh id, returning the stored record.
	// The passed book is left untouched.
	Insert(ctx context.Context, book *types.Book) (*types.Book, error)
}
