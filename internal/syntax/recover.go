package syntax

import "firerules/internal/token"

func isTopSync(k token.Kind) bool {
	switch k {
	case token.KwService, token.KwRulesVersion, token.EOF:
		return true
	}
	return false
}

// isBodySync marks tokens that start or close a body item.
func isBodySync(k token.Kind) bool {
	switch k {
	case token.KwMatch, token.KwFunction, token.KwAllow, token.KwLet, token.KwReturn,
		token.RBrace, token.EOF:
		return true
	}
	return false
}

// isExprStop marks tokens that can never continue an expression.
func isExprStop(k token.Kind) bool {
	switch k {
	case token.Semicolon, token.Comma, token.Colon, token.RParen, token.RBracket:
		return true
	}
	return isBodySync(k)
}

func (p *Parser) atSync() bool {
	return isBodySync(p.peek().Kind) || isTopSync(p.peek().Kind)
}

// errorTokens wraps the next n tokens in one ERROR node.
func (p *Parser) errorTokens(n int) *Node {
	e := p.open(KindError)
	e.flags |= flagError
	for range n {
		if p.at(token.EOF) {
			break
		}
		p.bump(e, "")
	}
	return e
}

// errorUntil consumes tokens into an ERROR node until stop matches at brace
// depth zero. At least one token is consumed; a terminating `;` is swallowed.
func (p *Parser) errorUntil(stop func(token.Kind) bool) *Node {
	e := p.open(KindError)
	e.flags |= flagError
	depth := 0
	for !p.at(token.EOF) {
		k := p.peek().Kind
		if depth == 0 && len(e.children) > 0 && stop(k) {
			break
		}
		switch k {
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth > 0 {
				depth--
			}
		}
		p.bump(e, "")
		if depth == 0 && k == token.Semicolon {
			break
		}
	}
	if len(e.children) == 0 {
		return p.markError(p.missing(KindError, true))
	}
	return e
}

// collapseExpr turns the rest of an expression into a single ERROR node,
// honouring bracket nesting. Used once the depth limit is hit.
func (p *Parser) collapseExpr() *Node {
	e := p.open(KindError)
	e.flags |= flagError
	depth := 0
	for !p.at(token.EOF) {
		k := p.peek().Kind
		if depth == 0 && isExprStop(k) {
			break
		}
		switch k {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		}
		p.bump(e, "")
	}
	if len(e.children) == 0 {
		return p.markError(p.missing(KindError, true))
	}
	return e
}

// markError turns a zero-width placeholder into an empty ERROR node.
func (p *Parser) markError(n *Node) *Node {
	n.flags &^= flagMissing
	n.flags |= flagError
	return n
}
