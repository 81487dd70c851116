package books

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"librarycatalog/internal/types"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports a missing title, summary, isbn or author (or an author without id),
// or an empty genre id, as types.ErrInvalid.
func Validate(book *types.Book) error {
	if book == nil {
		return fmt.Errorf("%w: nil book", types.ErrInvalid)
	}

	if err := validate.Struct(book); err != nil {
		return fmt.Errorf("%w: %w", types.ErrInvalid, err)
	}

	return nil
}
