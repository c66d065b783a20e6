package driven

import "github.com/custodia-labs/fitedit/internal/core/domain"

// Codec converts between FIT bytes and ordered message sequences.
type Codec interface {
	// Decode parses a FIT container. Errors wrap domain.ErrDecode.
	Decode(data []byte) ([]domain.Message, error)

	// Encode serialises messages into a FIT container. Errors wrap domain.ErrEncode.
	Encode(messages []domain.Message) ([]byte, error)
}
