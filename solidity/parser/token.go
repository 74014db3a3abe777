package parser

import "strconv"

// Position is a location in a source file. Offset is a byte offset from the
// start of the file, Line and Column are 1-based (Column counts bytes).
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Span covers the bytes in [Start.Offset, End.Offset).
type Span struct {
	Start Position
	End   Position
}

func (s Span) IsZero() bool {
	return s.Start.Line == 0 && s.End.Line == 0
}

// Contains reports whether offset falls inside the span. The end is
// exclusive.
func (s Span) Contains(offset int) bool {
	return s.Start.Offset <= offset && offset < s.End.Offset
}

// Encloses reports whether inner lies entirely within s.
func (s Span) Encloses(inner Span) bool {
	return s.Start.Offset <= inner.Start.Offset && inner.End.Offset <= s.End.Offset
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment

	TokenIdent
	TokenKeyword
	TokenNumber
	TokenString

	TokenLBrace
	TokenRBrace
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenArrow
	TokenAssign
	TokenOperator
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:         "EOF",
	TokenError:       "Error",
	TokenWhitespace:  "Whitespace",
	TokenComment:     "Comment",
	TokenLineComment: "LineComment",
	TokenIdent:       "Ident",
	TokenKeyword:     "Keyword",
	TokenNumber:      "Number",
	TokenString:      "String",
	TokenLBrace:      "{",
	TokenRBrace:      "}",
	TokenLParen:      "(",
	TokenRParen:      ")",
	TokenLBracket:    "[",
	TokenRBracket:    "]",
	TokenSemicolon:   ";",
	TokenComma:       ",",
	TokenDot:         ".",
	TokenArrow:       "=>",
	TokenAssign:      "=",
	TokenOperator:    "Operator",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Token struct {
	Kind    TokenKind
	Literal string
	Span    Span
	// Doc holds the NatSpec text of the doc comments directly preceding
	// this token. Only set on significant tokens.
	Doc string
}

func (t Token) Is(kind TokenKind) bool {
	return t.Kind == kind
}

// IsKeyword reports whether the token is the given reserved word.
func (t Token) IsKeyword(word string) bool {
	return t.Kind == TokenKeyword && t.Literal == word
}

var keywords = map[string]bool{
	"abstract":    true,
	"anonymous":   true,
	"as":          true,
	"assembly":    true,
	"break":       true,
	"calldata":    true,
	"catch":       true,
	"constant":    true,
	"constructor": true,
	"continue":    true,
	"contract":    true,
	"delete":      true,
	"do":          true,
	"else":        true,
	"emit":        true,
	"enum":        true,
	"error":       true,
	"event":       true,
	"external":    true,
	"fallback":    true,
	"false":       true,
	"for":         true,
	"function":    true,
	"if":          true,
	"immutable":   true,
	"import":      true,
	"indexed":     true,
	"interface":   true,
	"internal":    true,
	"is":          true,
	"library":     true,
	"mapping":     true,
	"memory":      true,
	"modifier":    true,
	"new":         true,
	"override":    true,
	"payable":     true,
	"pragma":      true,
	"private":     true,
	"public":      true,
	"pure":        true,
	"receive":     true,
	"return":      true,
	"returns":     true,
	"revert":      true,
	"storage":     true,
	"struct":      true,
	"true":        true,
	"try":         true,
	"type":        true,
	"unchecked":   true,
	"using":       true,
	"view":        true,
	"virtual":     true,
	"while":       true,
}

// IsKeyword reports whether word is reserved.
func IsKeyword(word string) bool {
	return keywords[word]
}

// IsElementaryTypeName reports whether word names a built-in value type
// such as uint256, bytes32 or address.
func IsElementaryTypeName(word string) bool {
	switch word {
	case "address", "bool", "string", "bytes", "byte", "int", "uint", "fixed", "ufixed":
		return true
	}
	for _, prefix := range []string{"uint", "int", "bytes"} {
		if len(word) > len(prefix) && word[:len(prefix)] == prefix && allDigits(word[len(prefix):]) {
			return true
		}
	}
	for _, prefix := range []string{"ufixed", "fixed"} {
		if len(word) > len(prefix) && word[:len(prefix)] == prefix && isFixedSuffix(word[len(prefix):]) {
			return true
		}
	}
	return false
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// isFixedSuffix matches the MxN part of fixedMxN.
func isFixedSuffix(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == 'x' {
			return allDigits(s[:i]) && allDigits(s[i+1:])
		}
	}
	return false
}
