package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/sol/solidity"
)

// JSONEncoder writes a document outline as indented JSON.
type JSONEncoder struct {
	w   io.Writer
	doc *solidity.Document
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(doc *solidity.Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data := jsonDocument{Path: e.doc.Path()}
	for _, s := range e.doc.Symbols() {
		data.Symbols = append(data.Symbols, symbolToJSON(s))
	}
	for _, n := range e.doc.ParseErrors() {
		data.Errors = append(data.Errors, jsonError{
			Line:    n.Span.Start.Line,
			Column:  n.Span.Start.Column,
			Message: n.Error.Message,
		})
	}
	return json.MarshalIndent(data, "", "  ")
}

type jsonDocument struct {
	Path    string       `json:"path"`
	Symbols []jsonSymbol `json:"symbols"`
	Errors  []jsonError  `json:"errors,omitempty"`
}

type jsonSymbol struct {
	Name     string       `json:"name"`
	Kind     string       `json:"kind"`
	Detail   string       `json:"detail,omitempty"`
	Range    jsonRange    `json:"range"`
	Children []jsonSymbol `json:"children,omitempty"`
}

type jsonRange struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type jsonError struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

func symbolToJSON(s solidity.Symbol) jsonSymbol {
	js := jsonSymbol{
		Name:   s.Name,
		Kind:   s.Kind.String(),
		Detail: s.Detail,
		Range: jsonRange{
			Start: jsonPosition{Line: s.Range.Start.Line, Character: s.Range.Start.Character},
			End:   jsonPosition{Line: s.Range.End.Line, Character: s.Range.End.Character},
		},
	}
	for _, child := range s.Children {
		js.Children = append(js.Children, symbolToJSON(child))
	}
	return js
}
