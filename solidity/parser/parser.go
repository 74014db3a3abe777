package parser

import (
	"bytes"
	"io"
	"strings"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// Parser builds a declaration-level tree of a Solidity source unit.
// Function bodies are scanned rather than parsed: only local variable
// declarations, identifiers and member accesses are kept. Parsing never
// fails; unrecognized input becomes KindError nodes.
type Parser struct {
	file   string
	reader io.Reader
	input  []byte
	tokens []Token
	pos    int
}

func ParseSourceUnit(r io.Reader, opts ...Option) *Parser {
	p := &Parser{reader: r}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse is a shorthand for ParseSourceUnit(...).Finish() over a byte slice.
func Parse(input []byte, opts ...Option) *Node {
	return ParseSourceUnit(bytes.NewReader(input), opts...).Finish()
}

func (p *Parser) readAll() error {
	if p.input != nil {
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	p.input = data
	return nil
}

// Finish parses the whole input. It returns nil only if reading the input
// fails.
func (p *Parser) Finish() *Node {
	if err := p.readAll(); err != nil {
		return nil
	}
	p.tokens = Tokenize(p.input, p.file)
	p.pos = 0
	return p.parseSourceUnit()
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) expectKeyword(word string) bool {
	if p.peek().IsKeyword(word) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) checkKeyword(words ...string) bool {
	tok := p.peek()
	if tok.Kind != TokenKeyword {
		return false
	}
	for _, word := range words {
		if tok.Literal == word {
			return true
		}
	}
	return false
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

func (p *Parser) startNode(kind NodeKind) *Node {
	tok := p.peek()
	return &Node{
		Kind: kind,
		Span: Span{Start: tok.Span.Start},
		Doc:  tok.Doc,
	}
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		n.Span.End = p.tokens[p.pos-1].Span.End
	} else if len(p.tokens) > 0 {
		n.Span.End = p.tokens[len(p.tokens)-1].Span.End
	}
	if n.Span.End.Offset < n.Span.Start.Offset {
		n.Span.End = n.Span.Start
	}
	return n
}

func (p *Parser) setName(n *Node, tok Token) {
	n.Name = tok.Literal
	n.NameSpan = tok.Span
}

// errorNode records msg at the current token and skips the rest of the
// offending declaration: up to and including the next ';' at depth zero, or
// a balanced '{ ... }' block. It stops before a '}' closing an enclosing
// scope.
func (p *Parser) errorNode(msg string) *Node {
	tok := p.peek()
	node := &Node{
		Kind: KindError,
		Span: Span{Start: tok.Span.Start, End: tok.Span.End},
		Error: &Error{
			Message: msg,
			Got:     &tok,
		},
	}
	p.skipDeclaration()
	return p.finishNode(node)
}

func (p *Parser) skipDeclaration() {
	depth := 0
	for !p.check(TokenEOF) {
		switch p.peek().Kind {
		case TokenLParen, TokenLBracket:
			depth++
		case TokenRParen, TokenRBracket:
			if depth > 0 {
				depth--
			}
		case TokenSemicolon:
			if depth == 0 {
				p.advance()
				return
			}
		case TokenLBrace:
			p.skipBalanced(TokenLBrace, TokenRBrace)
			if depth == 0 {
				return
			}
			continue
		case TokenRBrace:
			return
		}
		p.advance()
	}
}

// skipBalanced consumes an opening token and everything up to its matching
// closer.
func (p *Parser) skipBalanced(open, close TokenKind) {
	depth := 0
	for !p.check(TokenEOF) {
		tok := p.advance()
		switch tok.Kind {
		case open:
			depth++
		case close:
			depth--
			if depth <= 0 {
				return
			}
		}
	}
}

func (p *Parser) parseSourceUnit() *Node {
	node := p.startNode(KindSourceUnit)
	node.Doc = ""
	node.Span.Start = Position{File: p.file, Line: 1, Column: 1}

	for !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.check(TokenSemicolon) {
			p.advance()
			continue
		}
		node.AddChild(p.parseSourceUnitMember())
		progress()
	}

	node = p.finishNode(node)
	if eof := p.peek(); eof.Kind == TokenEOF && eof.Span.End.Offset > node.Span.End.Offset {
		node.Span.End = eof.Span.End
	}
	return node
}

func (p *Parser) parseSourceUnitMember() *Node {
	switch {
	case p.checkKeyword("pragma"):
		return p.parsePragma()
	case p.checkKeyword("import"):
		return p.parseImport()
	case p.checkKeyword("contract", "interface", "library", "abstract"):
		return p.parseContract()
	case p.checkKeyword("struct"):
		return p.parseStruct()
	case p.checkKeyword("enum"):
		return p.parseEnum()
	case p.checkKeyword("event"):
		return p.parseEvent()
	case p.checkKeyword("function"):
		return p.parseFunction()
	case p.checkKeyword("using", "type", "error"):
		return p.errorNode("unsupported declaration: " + p.peek().Literal)
	case p.atTypeStart():
		return p.parseStateVariable()
	}
	return p.errorNode("unexpected " + p.peek().Literal)
}

func (p *Parser) parsePragma() *Node {
	node := p.startNode(KindPragma)
	p.advance()
	var parts []string
	for !p.check(TokenEOF) && !p.check(TokenSemicolon) {
		parts = append(parts, p.advance().Literal)
	}
	p.expect(TokenSemicolon)
	node.Name = strings.Join(parts, " ")
	return p.finishNode(node)
}

// parseImport handles every import form; only the imported path is kept.
func (p *Parser) parseImport() *Node {
	node := p.startNode(KindImport)
	p.advance()
	for !p.check(TokenEOF) && !p.check(TokenSemicolon) {
		tok := p.advance()
		if tok.Kind == TokenString && node.Path == "" {
			node.Path = unquote(tok.Literal)
			node.NameSpan = tok.Span
		}
	}
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func (p *Parser) parseContract() *Node {
	node := p.startNode(KindContract)
	if p.expectKeyword("abstract") {
		node.ContractKind = ContractKindAbstract
		p.expectKeyword("contract")
	} else {
		switch p.advance().Literal {
		case "interface":
			node.ContractKind = ContractKindInterface
		case "library":
			node.ContractKind = ContractKindLibrary
		default:
			node.ContractKind = ContractKindContract
		}
	}

	if tok := p.expect(TokenIdent); tok != nil {
		p.setName(node, *tok)
	}

	if p.expectKeyword("is") {
		for p.check(TokenIdent) {
			node.AddChild(p.parseInheritanceSpecifier())
			if p.expect(TokenComma) == nil {
				break
			}
		}
	}

	if !p.check(TokenLBrace) {
		node.AddChild(p.errorNode("expected '{' after contract header"))
		return p.finishNode(node)
	}
	p.advance()
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.check(TokenSemicolon) {
			p.advance()
			continue
		}
		node.AddChild(p.parseContractMember())
		progress()
	}
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseInheritanceSpecifier() *Node {
	node := p.startNode(KindInheritanceSpecifier)
	typ := p.parseUserDefinedType()
	node.AddChild(typ)
	node.Name = typ.Name
	node.NameSpan = typ.Span
	if p.check(TokenLParen) {
		p.skipBalanced(TokenLParen, TokenRParen)
	}
	return p.finishNode(node)
}

func (p *Parser) parseContractMember() *Node {
	switch {
	case p.checkKeyword("struct"):
		return p.parseStruct()
	case p.checkKeyword("enum"):
		return p.parseEnum()
	case p.checkKeyword("event"):
		return p.parseEvent()
	case p.checkKeyword("function", "constructor", "modifier", "fallback", "receive"):
		return p.parseFunction()
	case p.checkKeyword("using", "type", "error"):
		return p.errorNode("unsupported declaration: " + p.peek().Literal)
	case p.atTypeStart():
		return p.parseStateVariable()
	}
	return p.errorNode("unexpected " + p.peek().Literal)
}

func (p *Parser) parseStruct() *Node {
	node := p.startNode(KindStruct)
	p.advance()
	if tok := p.expect(TokenIdent); tok != nil {
		p.setName(node, *tok)
	}
	if p.expect(TokenLBrace) == nil {
		node.AddChild(p.errorNode("expected '{' after struct name"))
		return p.finishNode(node)
	}
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseStructMember())
		progress()
	}
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseStructMember() *Node {
	if !p.atTypeStart() {
		return p.errorNode("expected struct member")
	}
	node := p.startNode(KindStructMember)
	save := p.pos
	typ := p.parseTypeName()
	tok := p.expect(TokenIdent)
	if typ == nil || tok == nil || !p.check(TokenSemicolon) {
		p.pos = save
		return p.errorNode("malformed struct member")
	}
	node.AddChild(typ)
	p.setName(node, *tok)
	p.advance()
	return p.finishNode(node)
}

func (p *Parser) parseEnum() *Node {
	node := p.startNode(KindEnum)
	p.advance()
	if tok := p.expect(TokenIdent); tok != nil {
		p.setName(node, *tok)
	}
	if p.expect(TokenLBrace) == nil {
		node.AddChild(p.errorNode("expected '{' after enum name"))
		return p.finishNode(node)
	}
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		tok := p.advance()
		if tok.Kind == TokenIdent {
			node.AddChild(&Node{Kind: KindEnumValue, Span: tok.Span, Name: tok.Literal, NameSpan: tok.Span, Doc: tok.Doc})
		}
	}
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseEvent() *Node {
	node := p.startNode(KindEvent)
	p.advance()
	if tok := p.expect(TokenIdent); tok != nil {
		p.setName(node, *tok)
	}
	for _, param := range p.parseParameterList(KindEventParameter) {
		node.AddChild(param)
	}
	p.expectKeyword("anonymous")
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

// parseParameterList parses '( param, ... )'. Entries that do not start with
// a type are skipped.
func (p *Parser) parseParameterList(kind NodeKind) []*Node {
	if p.expect(TokenLParen) == nil {
		return nil
	}
	var params []*Node
	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.check(TokenComma) {
			p.advance()
			continue
		}
		if param := p.parseParameter(kind); param != nil {
			params = append(params, param)
		}
		progress()
	}
	p.expect(TokenRParen)
	return params
}

func (p *Parser) parseParameter(kind NodeKind) *Node {
	node := p.startNode(kind)
	typ := p.parseTypeName()
	if typ == nil {
		return nil
	}
	node.AddChild(typ)
	for {
		switch {
		case p.checkKeyword("indexed"):
			node.Indexed = true
		case p.checkKeyword("memory", "storage", "calldata"):
			node.StorageLocation = p.peek().Literal
		default:
			if tok := p.expect(TokenIdent); tok != nil {
				p.setName(node, *tok)
			}
			return p.finishNode(node)
		}
		p.advance()
	}
}

func (p *Parser) parseFunction() *Node {
	node := p.startNode(KindFunction)
	kw := p.advance()
	node.FunctionKind = FunctionKind(kw.Literal)
	if node.FunctionKind == FunctionKindFunction || node.FunctionKind == FunctionKindModifier {
		if tok := p.expect(TokenIdent); tok != nil {
			p.setName(node, *tok)
		} else if p.check(TokenKeyword) && !p.check(TokenLParen) {
			// function fallback() / function receive() in old syntax
			p.setName(node, p.advance())
		}
	}

	if p.check(TokenLParen) {
		for _, param := range p.parseParameterList(KindParameter) {
			node.AddChild(param)
		}
	}

	for !p.check(TokenEOF) {
		switch {
		case p.checkKeyword("public", "private", "internal", "external"):
			node.Visibility = p.advance().Literal
		case p.checkKeyword("pure", "view", "payable", "constant"):
			node.Mutability = p.advance().Literal
		case p.checkKeyword("virtual"):
			p.advance()
		case p.checkKeyword("override"):
			p.advance()
			if p.check(TokenLParen) {
				p.skipBalanced(TokenLParen, TokenRParen)
			}
		case p.checkKeyword("returns"):
			ret := p.startNode(KindReturnParameters)
			p.advance()
			for _, param := range p.parseParameterList(KindParameter) {
				ret.AddChild(param)
			}
			node.AddChild(p.finishNode(ret))
		case p.check(TokenIdent):
			node.AddChild(p.parseModifierInvocation())
		case p.check(TokenSemicolon):
			p.advance()
			return p.finishNode(node)
		case p.check(TokenLBrace):
			node.AddChild(p.parseBody())
			return p.finishNode(node)
		default:
			node.AddChild(p.errorNode("unexpected " + p.peek().Literal + " in function header"))
			return p.finishNode(node)
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseModifierInvocation() *Node {
	node := p.startNode(KindModifierInvocation)
	typ := p.parseUserDefinedType()
	node.Name = typ.Name
	node.NameSpan = typ.Span
	if p.check(TokenLParen) {
		p.skipBalanced(TokenLParen, TokenRParen)
	}
	return p.finishNode(node)
}

func (p *Parser) parseStateVariable() *Node {
	node := p.startNode(KindStateVariable)
	typ := p.parseTypeName()
	if typ == nil {
		return p.errorNode("expected type name")
	}
	node.AddChild(typ)
	for !p.check(TokenEOF) {
		switch {
		case p.checkKeyword("public", "private", "internal", "external"):
			node.Visibility = p.advance().Literal
			continue
		case p.checkKeyword("constant", "immutable"):
			node.Mutability = p.advance().Literal
			continue
		case p.checkKeyword("override"):
			p.advance()
			if p.check(TokenLParen) {
				p.skipBalanced(TokenLParen, TokenRParen)
			}
			continue
		}
		break
	}
	tok := p.expect(TokenIdent)
	if tok == nil {
		node.AddChild(p.errorNode("expected state variable name"))
		return p.finishNode(node)
	}
	p.setName(node, *tok)
	if p.check(TokenAssign) {
		p.skipDeclaration()
		return p.finishNode(node)
	}
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

// atTypeStart reports whether the current token can begin a type name.
func (p *Parser) atTypeStart() bool {
	tok := p.peek()
	if tok.Kind == TokenIdent {
		return true
	}
	return tok.IsKeyword("mapping") || tok.IsKeyword("function")
}

// parseTypeName parses elementary, user-defined, mapping, function and array
// types. It returns nil without consuming input if no type starts here.
func (p *Parser) parseTypeName() *Node {
	var node *Node
	tok := p.peek()
	switch {
	case tok.IsKeyword("mapping"):
		node = p.parseMapping()
	case tok.IsKeyword("function"):
		node = p.parseFunctionType()
	case tok.Kind == TokenIdent && IsElementaryTypeName(tok.Literal):
		node = p.startNode(KindElementaryType)
		p.setName(node, p.advance())
		if node.Name == "address" && p.checkKeyword("payable") {
			p.advance()
			node.Name = "address payable"
		}
		node = p.finishNode(node)
	case tok.Kind == TokenIdent:
		node = p.parseUserDefinedType()
	default:
		return nil
	}
	if node == nil {
		return nil
	}

	for p.check(TokenLBracket) {
		arr := &Node{Kind: KindArrayType, Span: Span{Start: node.Span.Start}}
		arr.AddChild(node)
		start := p.pos
		p.skipBalanced(TokenLBracket, TokenRBracket)
		end := p.pos
		if end > start+1 && p.tokens[end-1].Kind == TokenRBracket {
			end--
		}
		var size []string
		for _, t := range p.tokens[start+1 : end] {
			size = append(size, t.Literal)
		}
		arr.Name = strings.Join(size, "")
		node = p.finishNode(arr)
	}
	return node
}

func (p *Parser) parseUserDefinedType() *Node {
	node := p.startNode(KindUserDefinedType)
	node.Doc = ""
	var parts []string
	for {
		tok := p.expect(TokenIdent)
		if tok == nil {
			break
		}
		parts = append(parts, tok.Literal)
		if !(p.check(TokenDot) && p.peekN(1).Kind == TokenIdent) {
			break
		}
		p.advance()
	}
	node.Name = strings.Join(parts, ".")
	node = p.finishNode(node)
	node.NameSpan = node.Span
	return node
}

func (p *Parser) parseMapping() *Node {
	node := p.startNode(KindMapping)
	node.Doc = ""
	save := p.pos
	p.advance()
	if p.expect(TokenLParen) == nil {
		p.pos = save
		return nil
	}
	key := p.parseTypeName()
	p.expect(TokenIdent)
	if key == nil || p.expect(TokenArrow) == nil {
		p.pos = save
		return nil
	}
	value := p.parseTypeName()
	p.expect(TokenIdent)
	if value == nil || p.expect(TokenRParen) == nil {
		p.pos = save
		return nil
	}
	node.AddChild(key)
	node.AddChild(value)
	return p.finishNode(node)
}

// parseFunctionType consumes a function type and reports it as the
// elementary type "function".
func (p *Parser) parseFunctionType() *Node {
	node := p.startNode(KindElementaryType)
	node.Doc = ""
	p.setName(node, p.advance())
	if p.check(TokenLParen) {
		p.skipBalanced(TokenLParen, TokenRParen)
	}
	for p.checkKeyword("public", "private", "internal", "external", "pure", "view", "payable") {
		p.advance()
	}
	if p.expectKeyword("returns") && p.check(TokenLParen) {
		p.skipBalanced(TokenLParen, TokenRParen)
	}
	return p.finishNode(node)
}
