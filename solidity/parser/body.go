package parser

// parseBody scans a '{ ... }' function body. The resulting KindBody node
// holds, in source order, local variable declarations and the outermost
// node of every identifier chain (KindIdentifier, KindMemberAccess or
// KindIndexAccess). Statements and operators are not represented.
func (p *Parser) parseBody() *Node {
	node := p.startNode(KindBody)
	node.Doc = ""
	p.advance()
	p.scanBlock(node)
	return p.finishNode(node)
}

// scanBlock consumes tokens up to and including the '}' closing the current
// block.
func (p *Parser) scanBlock(body *Node) {
	statementStart := true
	for !p.check(TokenEOF) {
		tok := p.peek()
		switch {
		case tok.Kind == TokenRBrace:
			p.advance()
			return
		case tok.Kind == TokenLBrace:
			p.advance()
			p.scanBlock(body)
			statementStart = true
			continue
		case tok.Kind == TokenSemicolon:
			p.advance()
			statementStart = true
			continue
		case tok.IsKeyword("for") && p.peekN(1).Kind == TokenLParen:
			p.advanceN(2)
			statementStart = true
			continue
		}

		if statementStart && p.scanLocalVariable(body) {
			statementStart = false
			continue
		}
		statementStart = false

		switch {
		case p.atChainStart():
			body.AddChild(p.scanChain(body))
		case tok.Kind == TokenDot && p.peekN(1).Kind == TokenIdent:
			// member of a call result or literal: receiver unknown
			p.advance()
			member := p.advance()
			body.AddChild(&Node{
				Kind:     KindMemberAccess,
				Span:     member.Span,
				Name:     member.Literal,
				NameSpan: member.Span,
			})
		default:
			p.advance()
		}
	}
}

func (p *Parser) advanceN(n int) {
	for i := 0; i < n; i++ {
		p.advance()
	}
}

func (p *Parser) atChainStart() bool {
	tok := p.peek()
	return tok.Kind == TokenIdent && !IsElementaryTypeName(tok.Literal)
}

// scanLocalVariable recognizes 'Type [location] name' followed by '=' or
// ';'. On mismatch it restores the position and returns false.
func (p *Parser) scanLocalVariable(body *Node) bool {
	if !p.atTypeStart() {
		return false
	}
	save := p.pos
	node := p.startNode(KindVariableDeclaration)
	typ := p.parseTypeName()
	if typ == nil {
		p.pos = save
		return false
	}
	if p.checkKeyword("memory", "storage", "calldata") {
		node.StorageLocation = p.advance().Literal
	}
	name := p.peek()
	next := p.peekN(1)
	if name.Kind != TokenIdent || (next.Kind != TokenAssign && next.Kind != TokenSemicolon) {
		p.pos = save
		return false
	}
	p.advance()
	node.AddChild(typ)
	p.setName(node, name)
	body.AddChild(p.finishNode(node))
	return true
}

// scanChain reads an identifier followed by any number of '.member' and
// '[index]' suffixes. Identifiers inside index brackets are added to body as
// separate chains.
func (p *Parser) scanChain(body *Node) *Node {
	tok := p.advance()
	node := &Node{Kind: KindIdentifier, Span: tok.Span, Name: tok.Literal, NameSpan: tok.Span}
	for {
		switch {
		case p.check(TokenDot) && p.peekN(1).Kind == TokenIdent:
			p.advance()
			member := p.advance()
			node = &Node{
				Kind:     KindMemberAccess,
				Span:     Span{Start: node.Span.Start, End: member.Span.End},
				Name:     member.Literal,
				NameSpan: member.Span,
				Children: []*Node{node},
			}
		case p.check(TokenLBracket):
			p.advance()
			p.scanUntil(body, TokenRBracket)
			node = &Node{
				Kind:     KindIndexAccess,
				Span:     Span{Start: node.Span.Start, End: p.tokens[p.pos-1].Span.End},
				Children: []*Node{node},
			}
		default:
			return node
		}
	}
}

// scanUntil scans expression tokens up to and including closer. It stops
// without consuming at a ';' or '}' so a missing closer does not swallow the
// rest of the body.
func (p *Parser) scanUntil(body *Node, closer TokenKind) {
	for !p.check(TokenEOF) {
		tok := p.peek()
		switch {
		case tok.Kind == closer:
			p.advance()
			return
		case tok.Kind == TokenSemicolon || tok.Kind == TokenRBrace:
			return
		case tok.Kind == TokenLBracket:
			p.advance()
			p.scanUntil(body, TokenRBracket)
		case tok.Kind == TokenLParen:
			p.advance()
			p.scanUntil(body, TokenRParen)
		case p.atChainStart():
			body.AddChild(p.scanChain(body))
		default:
			p.advance()
		}
	}
}
