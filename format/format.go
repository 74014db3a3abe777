package format

import (
	"encoding"
	"io"

	"github.com/dhamidi/sol/solidity"
)

// Encoder writes the outline of a document.
type Encoder interface {
	encoding.TextMarshaler
	Encode(doc *solidity.Document) error
}

// NewEncoder returns the outline encoder for name, "json" or "line".
func NewEncoder(name string, w io.Writer) (Encoder, bool) {
	switch name {
	case "json":
		return NewJSONEncoder(w), true
	case "line":
		return NewLineEncoder(w), true
	}
	return nil, false
}
