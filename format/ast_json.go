package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/sol/solidity/parser"
)

// ASTJSONEncoder writes a raw parse tree as indented JSON.
type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ASTJSONEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	return json.MarshalIndent(nodeToJSON(node), "", "  ")
}

type astJSONNode struct {
	Kind       string         `json:"kind"`
	Name       string         `json:"name,omitempty"`
	Span       *astJSONSpan   `json:"span,omitempty"`
	Doc        string         `json:"doc,omitempty"`
	Path       string         `json:"path,omitempty"`
	Attributes []string       `json:"attributes,omitempty"`
	Error      *astJSONError  `json:"error,omitempty"`
	Children   []*astJSONNode `json:"children,omitempty"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

type astJSONError struct {
	Message string `json:"message"`
	Got     string `json:"got,omitempty"`
}

func nodeToJSON(n *parser.Node) *astJSONNode {
	jn := &astJSONNode{
		Kind: n.Kind.String(),
		Name: n.Name,
		Doc:  n.Doc,
		Path: n.Path,
	}

	if !n.Span.IsZero() {
		jn.Span = &astJSONSpan{
			Start: astJSONPosition{Offset: n.Span.Start.Offset, Line: n.Span.Start.Line, Column: n.Span.Start.Column},
			End:   astJSONPosition{Offset: n.Span.End.Offset, Line: n.Span.End.Line, Column: n.Span.End.Column},
		}
	}

	for _, attr := range []string{
		string(n.ContractKind),
		string(n.FunctionKind),
		n.Visibility,
		n.Mutability,
		n.StorageLocation,
	} {
		if attr != "" {
			jn.Attributes = append(jn.Attributes, attr)
		}
	}
	if n.Indexed {
		jn.Attributes = append(jn.Attributes, "indexed")
	}

	if n.Error != nil {
		jn.Error = &astJSONError{
			Message: n.Error.Message,
		}
		if n.Error.Got != nil {
			jn.Error.Got = n.Error.Got.Literal
		}
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*astJSONNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = nodeToJSON(child)
		}
	}

	return jn
}
