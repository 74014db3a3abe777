package parser

import (
	"strings"
)

type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Literal: string(l.input[start.Offset:end.Offset]),
		Span:    Span{Start: start, End: end},
	}
}

func (l *Lexer) NextToken() Token {
	startPos := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if ch == '/' && l.peekN(1) == '/' {
		for l.pos < len(l.input) && l.peek() != '\n' {
			l.advance()
		}
		return l.token(TokenLineComment, startPos)
	}
	if ch == '/' && l.peekN(1) == '*' {
		return l.scanBlockComment(startPos)
	}

	if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
		for {
			c := l.peek()
			if c != ' ' && c != '\t' && c != '\r' && c != '\n' {
				break
			}
			l.advance()
		}
		return l.token(TokenWhitespace, startPos)
	}

	if isIdentStart(ch) {
		for l.pos < len(l.input) && isIdentPart(l.peek()) {
			l.advance()
		}
		tok := l.token(TokenIdent, startPos)
		if IsKeyword(tok.Literal) {
			tok.Kind = TokenKeyword
		}
		return tok
	}

	if isDigit(ch) || (ch == '.' && isDigit(l.peekN(1))) {
		return l.scanNumber(startPos)
	}

	if ch == '"' || ch == '\'' {
		return l.scanString(startPos, ch)
	}

	l.advance()
	switch ch {
	case '{':
		return l.token(TokenLBrace, startPos)
	case '}':
		return l.token(TokenRBrace, startPos)
	case '(':
		return l.token(TokenLParen, startPos)
	case ')':
		return l.token(TokenRParen, startPos)
	case '[':
		return l.token(TokenLBracket, startPos)
	case ']':
		return l.token(TokenRBracket, startPos)
	case ';':
		return l.token(TokenSemicolon, startPos)
	case ',':
		return l.token(TokenComma, startPos)
	case '.':
		return l.token(TokenDot, startPos)
	case '=':
		switch l.peek() {
		case '>':
			l.advance()
			return l.token(TokenArrow, startPos)
		case '=':
			l.advance()
			return l.token(TokenOperator, startPos)
		}
		return l.token(TokenAssign, startPos)
	case '+', '-', '*', '/', '%', '&', '|', '^', '!', '<', '>', '~', '?', ':':
		for isOperatorPart(l.peek()) {
			l.advance()
		}
		return l.token(TokenOperator, startPos)
	}
	return l.token(TokenError, startPos)
}

func (l *Lexer) scanBlockComment(startPos Position) Token {
	l.advanceN(2)
	for l.pos < len(l.input) {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			return l.token(TokenComment, startPos)
		}
		l.advance()
	}
	return l.token(TokenComment, startPos)
}

func (l *Lexer) scanNumber(startPos Position) Token {
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') {
		l.advanceN(2)
		for isHexDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
		return l.token(TokenNumber, startPos)
	}
	for isDigit(l.peek()) || l.peek() == '_' || l.peek() == '.' {
		l.advance()
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		l.advance()
		if l.peek() == '-' {
			l.advance()
		}
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	return l.token(TokenNumber, startPos)
}

func (l *Lexer) scanString(startPos Position, quote byte) Token {
	l.advance()
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == '\\' {
			l.advanceN(2)
			continue
		}
		if ch == '\n' {
			return l.token(TokenError, startPos)
		}
		l.advance()
		if ch == quote {
			return l.token(TokenString, startPos)
		}
	}
	return l.token(TokenError, startPos)
}

// Tokenize returns the significant tokens of input, ending with TokenEOF.
// Whitespace and comments are dropped; NatSpec comments are attached to the
// following token's Doc.
func Tokenize(input []byte, file string) []Token {
	l := NewLexer(input, file)
	var tokens []Token
	var docs []string
	for {
		tok := l.NextToken()
		switch tok.Kind {
		case TokenWhitespace:
			continue
		case TokenComment, TokenLineComment:
			if text, ok := natSpecText(tok.Literal); ok {
				docs = append(docs, text)
			}
			continue
		}
		if len(docs) > 0 {
			tok.Doc = strings.Join(docs, "\n")
			docs = nil
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

// natSpecText strips the comment markers from a /// or /** */ comment.
func natSpecText(comment string) (string, bool) {
	if strings.HasPrefix(comment, "///") {
		return strings.TrimSpace(comment[3:]), true
	}
	if strings.HasPrefix(comment, "/**") && comment != "/**/" {
		body := strings.TrimSuffix(comment[3:], "*/")
		var lines []string
		for _, line := range strings.Split(body, "\n") {
			line = strings.TrimSpace(line)
			line = strings.TrimPrefix(line, "*")
			line = strings.TrimSpace(line)
			if line != "" {
				lines = append(lines, line)
			}
		}
		return strings.Join(lines, "\n"), true
	}
	return "", false
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isOperatorPart(ch byte) bool {
	switch ch {
	case '+', '-', '*', '/', '%', '&', '|', '^', '!', '<', '>', '=', '~':
		return true
	}
	return false
}
