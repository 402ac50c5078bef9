package syntax

import "firerules/internal/token"

// Приоритеты бинарных операторов: больше значит сильнее связывает.
const (
	precOr             = 1 // ||
	precAnd            = 2 // &&
	precRelation       = 3 // == != < <= > >= in is
	precAdditive       = 4 // + -
	precMultiplicative = 5 // * / %
)

// binaryOp returns the precedence and node kind for an infix operator.
func binaryOp(k token.Kind) (int, string) {
	switch k {
	case token.OrOr:
		return precOr, KindOr
	case token.AndAnd:
		return precAnd, KindAnd
	case token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precRelation, KindRelation
	case token.KwIn:
		return precRelation, KindContains
	case token.KwIs:
		return precRelation, KindTypeComparison
	case token.Plus, token.Minus:
		return precAdditive, KindAddition
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative, KindMultiplication
	default:
		return -1, ""
	}
}

// parseExpr is the entry point for expressions; it always returns a node.
func (p *Parser) parseExpr() *Node {
	defer p.leave()
	if !p.enter() {
		return p.collapseExpr()
	}
	return p.parseTernary()
}

// cond ? a : b
func (p *Parser) parseTernary() *Node {
	cond := p.parseBinary(precOr)
	if !p.at(token.Question) {
		return cond
	}
	n := p.open(KindTernary)
	p.add(n, FieldCondition, cond)
	p.bump(n, "")
	p.add(n, FieldConsequence, p.parseExpr())
	p.expect(n, token.Colon)
	p.add(n, FieldAlternative, p.parseExpr())
	return n
}

// parseBinary is precedence climbing over left-associative operators.
func (p *Parser) parseBinary(minPrec int) *Node {
	left := p.parseUnary()
	for {
		prec, kind := binaryOp(p.peek().Kind)
		if prec < minPrec {
			return left
		}
		n := p.open(kind)
		p.add(n, FieldLeft, left)
		p.bump(n, FieldOperator)
		if kind == KindTypeComparison {
			if p.at(token.Ident) {
				p.bumpAs(n, FieldRight, KindTypeName)
			} else {
				p.add(n, FieldRight, p.missing(KindTypeName, true))
			}
		} else {
			p.add(n, FieldRight, p.parseBinary(prec+1))
		}
		left = n
	}
}

// !x, -x
func (p *Parser) parseUnary() *Node {
	if !p.atAny(token.Bang, token.Minus) {
		return p.parsePostfix()
	}
	defer p.leave()
	if !p.enter() {
		return p.collapseExpr()
	}
	n := p.open(KindUnary)
	p.bump(n, FieldOperator)
	p.add(n, FieldOperand, p.parseUnary())
	return n
}

// parsePostfix handles member access, method calls and indexing.
func (p *Parser) parsePostfix() *Node {
	expr := p.parsePrimary()
	for {
		switch {
		case p.at(token.Dot):
			n := p.open(KindMember)
			p.add(n, FieldObject, expr)
			p.bump(n, "")
			p.add(n, FieldField, p.parseMemberField())
			expr = n
		case p.at(token.LBracket):
			n := p.open(KindIndexing)
			p.add(n, FieldObject, expr)
			p.bump(n, "")
			p.add(n, FieldIndex, p.parseIndex())
			p.expect(n, token.RBracket)
			expr = n
		default:
			return expr
		}
	}
}

func (p *Parser) parseMemberField() *Node {
	tok := p.peek()
	if tok.Kind != token.Ident && !tok.IsKeyword() {
		return p.missing(KindFieldIdentifier, true)
	}
	if p.peekN(1).Kind == token.LParen {
		return p.parseCall()
	}
	return p.leaf(p.next(), KindFieldIdentifier, true)
}

// parseIndex reads either an expression or a range `a:b`, `:b`, `a:`.
func (p *Parser) parseIndex() *Node {
	var start *Node
	if !p.at(token.Colon) {
		start = p.parseExpr()
		if !p.at(token.Colon) {
			return start
		}
	}
	n := p.open(KindRange)
	if start != nil {
		p.add(n, FieldStart, start)
	}
	p.bump(n, "")
	if !p.atAny(token.RBracket, token.EOF) {
		p.add(n, FieldEnd, p.parseExpr())
	}
	return n
}

// name(args...)
func (p *Parser) parseCall() *Node {
	n := p.open(KindFunctionCall)
	p.bumpAs(n, FieldName, KindIdentifier)
	args := p.open(KindArgumentList)
	p.bump(args, "")
	for !p.atAny(token.RParen, token.EOF) && !isBodySync(p.peek().Kind) {
		p.add(args, "", p.parseExpr())
		if !p.at(token.Comma) {
			break
		}
		p.bump(args, "")
	}
	p.expect(args, token.RParen)
	p.add(n, FieldArguments, args)
	return n
}

func (p *Parser) parsePrimary() *Node {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		if p.peekN(1).Kind == token.LParen {
			return p.parseCall()
		}
		return p.leaf(p.next(), KindIdentifier, true)
	case token.Number:
		return p.leaf(p.next(), KindNumber, true)
	case token.String:
		return p.leaf(p.next(), KindString, true)
	case token.KwTrue, token.KwFalse:
		return p.leaf(p.next(), KindBoolean, true)
	case token.KwNull:
		return p.leaf(p.next(), KindNull, true)
	case token.LParen:
		n := p.open(KindParenthesized)
		p.bump(n, "")
		p.add(n, FieldExpression, p.parseExpr())
		p.expect(n, token.RParen)
		return n
	case token.LBracket:
		return p.parseList()
	case token.LBrace:
		return p.parseMap()
	case token.Slash:
		return p.parsePath()
	}
	if isExprStop(tok.Kind) || tok.Kind == token.Question {
		return p.missing(KindIdentifier, true)
	}
	return p.errorTokens(1)
}

// [a, b, c]
func (p *Parser) parseList() *Node {
	n := p.open(KindList)
	p.bump(n, "")
	for !p.atAny(token.RBracket, token.EOF) && !isBodySync(p.peek().Kind) {
		p.add(n, FieldElement, p.parseExpr())
		if !p.at(token.Comma) {
			break
		}
		p.bump(n, "")
	}
	p.expect(n, token.RBracket)
	return n
}

// {'k': v, ...}
func (p *Parser) parseMap() *Node {
	n := p.open(KindMap)
	p.bump(n, "")
	for !p.atAny(token.RBrace, token.EOF) && !isBodySync(p.peek().Kind) {
		entry := p.open(KindMapEntry)
		p.add(entry, FieldKey, p.parseExpr())
		p.expect(entry, token.Colon)
		p.add(entry, FieldValue, p.parseExpr())
		p.add(n, FieldEntry, entry)
		if !p.at(token.Comma) {
			break
		}
		p.bump(n, "")
	}
	p.expect(n, token.RBrace)
	return n
}

// /databases/$(database)/documents/users/$(request.auth.uid)
func (p *Parser) parsePath() *Node {
	n := p.open(KindPath)
	first := true
	for first || (p.at(token.Slash) && p.adjacent()) {
		first = false
		p.bump(n, "")
		switch {
		case p.at(token.Dollar):
			seg := p.open(KindInterpolation)
			p.bump(seg, "")
			p.expect(seg, token.LParen)
			p.add(seg, FieldExpression, p.parseExpr())
			p.expect(seg, token.RParen)
			p.add(n, FieldSegment, seg)
		case isSegmentToken(p.peek().Kind):
			p.add(n, FieldSegment, p.segmentLeaf(KindPathSegment))
		default:
			p.add(n, FieldSegment, p.missing(KindPathSegment, true))
			return n
		}
	}
	return n
}
