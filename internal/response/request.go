package response

import (
	"fmt"
	"io"
	"net/http"

	"librarycatalog/internal/types"
)

const maxBodyBytes = 1 << 20

// DecodeJson reads a JSON request body into dst; malformed bodies are reported as types.ErrInvalid.
func DecodeJson(r *http.Request, dst any) error {
	bs, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}

	if err := json.Unmarshal(bs, dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %w", types.ErrInvalid, err)
	}

	return nil
}
