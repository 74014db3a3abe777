package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/sol/solidity"
)

// LineEncoder writes one tab-separated line per outline entry:
// kind, dotted name, 1-based line:column and detail.
type LineEncoder struct {
	w   io.Writer
	doc *solidity.Document
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(doc *solidity.Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, s := range e.doc.Symbols() {
		writeSymbolLines(&sb, "", s)
	}
	return []byte(sb.String()), nil
}

func writeSymbolLines(sb *strings.Builder, prefix string, s solidity.Symbol) {
	name := prefix + s.Name
	fmt.Fprintf(sb, "%s\t%s\t%d:%d\t%s\n",
		s.Kind,
		name,
		s.SelectionRange.Start.Line+1,
		s.SelectionRange.Start.Character+1,
		s.Detail,
	)
	for _, child := range s.Children {
		writeSymbolLines(sb, name+".", child)
	}
}
