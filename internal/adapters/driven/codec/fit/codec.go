package fit

import "github.com/custodia-labs/fitedit/internal/core/ports/driven"

// Ensure Codec implements the interface.
var _ driven.Codec = (*Codec)(nil)

// Codec reads and writes FIT containers. It is stateless and safe for
// concurrent use.
type Codec struct{}

// NewCodec creates a FIT codec.
func NewCodec() *Codec {
	return &Codec{}
}
