package parser

import (
	"bytes"
	_ "embed"
	"fmt"

	"golang.org/x/exp/ebnf"
)

// GrammarStart is the production a whole file is read as.
const GrammarStart = "SourceUnit"

//go:embed grammar.ebnf
var grammarSource []byte

// Grammar returns the declarations the parser recognizes as a verified
// EBNF grammar. Productions that yield a node are named after its kind.
// Function bodies are described loosely: the body scanner only keeps
// declarations and access chains.
func Grammar() (ebnf.Grammar, error) {
	return ParseGrammar("grammar.ebnf", grammarSource, GrammarStart)
}

// GrammarSource returns the text of the embedded grammar.
func GrammarSource() []byte {
	return bytes.Clone(grammarSource)
}

// ParseGrammar parses src and, when start is not empty, verifies that
// every production is defined and reachable from start.
func ParseGrammar(filename string, src []byte, start string) (ebnf.Grammar, error) {
	grammar, err := ebnf.Parse(filename, bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	if start == "" {
		return grammar, nil
	}
	if err := ebnf.Verify(grammar, start); err != nil {
		return nil, err
	}
	return grammar, nil
}

// ProductionText returns the source line defining the named production
// of the embedded grammar.
func ProductionText(grammar ebnf.Grammar, name string) (string, error) {
	prod, ok := grammar[name]
	if !ok {
		return "", fmt.Errorf("no production %q", name)
	}
	start := prod.Pos().Offset
	if start < 0 || start >= len(grammarSource) {
		return "", fmt.Errorf("production %q has no source position", name)
	}
	end := bytes.IndexByte(grammarSource[start:], '\n')
	if end < 0 {
		return string(grammarSource[start:]), nil
	}
	return string(grammarSource[start : start+end]), nil
}
