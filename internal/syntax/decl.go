package syntax

import "firerules/internal/token"

// rules_version = '2';
func (p *Parser) parseRulesVersion() *Node {
	n := p.open(KindRulesVersion)
	p.bump(n, "")
	p.expect(n, token.Assign)
	if p.at(token.String) {
		p.bumpAs(n, FieldVersion, KindString)
	} else {
		p.add(n, FieldVersion, p.missing(KindString, true))
	}
	p.expect(n, token.Semicolon)
	return n
}

// service cloud.firestore { ... }
func (p *Parser) parseServiceDef() *Node {
	n := p.open(KindServiceDef)
	p.bump(n, "")

	if p.at(token.Ident) {
		name := p.open(KindServiceName)
		p.bumpAs(name, "", KindIdentifier)
		for p.at(token.Dot) && p.adjacent() && p.peekN(1).Kind == token.Ident {
			p.bump(name, "")
			p.bumpAs(name, "", KindIdentifier)
		}
		p.add(n, FieldName, name)
	} else {
		p.add(n, FieldName, p.missing(KindServiceName, true))
	}

	p.add(n, FieldBody, p.parseMatchBody())
	return n
}

// parseMatchBody parses `{ (match | function | allow)* }`. Without an opening
// brace the body is just the MISSING placeholder and the items are left to
// the enclosing block.
func (p *Parser) parseMatchBody() *Node {
	n := p.open(KindMatchBody)
	if !p.at(token.LBrace) {
		p.add(n, "", p.missing(token.LBrace.String(), false))
		return n
	}
	defer p.leave()
	if !p.enter() {
		p.add(n, "", p.errorUntil(func(token.Kind) bool { return true }))
		return n
	}

	p.bump(n, "")
	for !p.atAny(token.RBrace, token.EOF) {
		switch p.peek().Kind {
		case token.KwMatch:
			p.add(n, "", p.parseMatchDef())
		case token.KwFunction:
			p.add(n, "", p.parseFunctionDef())
		case token.KwAllow:
			p.add(n, "", p.parseRuleDef())
		default:
			p.add(n, "", p.errorUntil(isBodySync))
		}
	}
	p.expect(n, token.RBrace)
	return n
}

// match /path/{id} { ... }
func (p *Parser) parseMatchDef() *Node {
	n := p.open(KindMatchDef)
	p.bump(n, "")
	p.add(n, FieldPath, p.parseMatchPath())
	p.add(n, FieldBody, p.parseMatchBody())
	return n
}

// parseMatchPath reads `/seg/{single}/{multi=**}`.
func (p *Parser) parseMatchPath() *Node {
	n := p.open(KindMatchPath)
	if !p.at(token.Slash) {
		p.add(n, "", p.missing(token.Slash.String(), false))
		if !p.atAny(token.Ident, token.LBrace) {
			return n
		}
	}
	first := true
	for first || (p.at(token.Slash) && p.adjacent()) {
		first = false
		if p.at(token.Slash) {
			p.bump(n, "")
		}
		switch {
		case p.at(token.LBrace):
			p.add(n, FieldSegment, p.parseCaptureSeg())
		case isSegmentToken(p.peek().Kind):
			p.add(n, FieldSegment, p.segmentLeaf(KindCollectionSeg))
		default:
			p.add(n, FieldSegment, p.missing(KindCollectionSeg, true))
			return n
		}
	}
	return n
}

// {name} or {name=**}
func (p *Parser) parseCaptureSeg() *Node {
	n := p.open(KindSingleSeg)
	p.bump(n, "")
	p.expectIdent(n, FieldName)
	if p.at(token.Assign) {
		n.kind = KindMultiSeg
		p.bump(n, "")
		p.expect(n, token.StarStar)
	}
	p.expect(n, token.RBrace)
	return n
}

func isSegmentToken(k token.Kind) bool {
	switch k {
	case token.Ident, token.Number, token.Minus:
		return true
	}
	return token.Token{Kind: k}.IsKeyword()
}

// segmentLeaf merges adjacent identifier-like tokens (`users-v2`) into one leaf.
func (p *Parser) segmentLeaf(kind string) *Node {
	first := p.next()
	end := first.End
	for isSegmentToken(p.peek().Kind) && p.adjacent() {
		end = p.next().End
	}
	return p.leafRange(first.Start, end, kind, true)
}

// function name(a, b) { let x = ...; return ...; }
func (p *Parser) parseFunctionDef() *Node {
	n := p.open(KindFunctionDef)
	p.bump(n, "")
	p.expectIdent(n, FieldName)

	if p.expect(n, token.LParen) {
		for !p.atAny(token.RParen, token.EOF) && !p.atSync() {
			if p.at(token.Ident) {
				param := p.open(KindParameter)
				p.bumpAs(param, "", KindIdentifier)
				p.add(n, FieldParam, param)
			} else {
				p.add(n, "", p.errorTokens(1))
			}
			if !p.at(token.Comma) {
				break
			}
			p.bump(n, "")
		}
		p.expect(n, token.RParen)
	}

	p.add(n, FieldBody, p.parseFunctionBody())
	return n
}

func (p *Parser) parseFunctionBody() *Node {
	n := p.open(KindFunctionBody)
	if !p.at(token.LBrace) {
		p.add(n, "", p.missing(token.LBrace.String(), false))
		return n
	}
	p.bump(n, "")
	for !p.atAny(token.RBrace, token.EOF) {
		switch p.peek().Kind {
		case token.KwLet:
			p.add(n, "", p.parseVariableDef())
		case token.KwReturn:
			p.add(n, "", p.parseReturn())
		default:
			p.add(n, "", p.errorUntil(isBodySync))
		}
	}
	p.expect(n, token.RBrace)
	return n
}

// let name = value;
func (p *Parser) parseVariableDef() *Node {
	n := p.open(KindVariableDef)
	p.bump(n, "")
	p.expectIdent(n, FieldName)
	p.expect(n, token.Assign)
	p.add(n, FieldValue, p.parseExpr())
	p.expect(n, token.Semicolon)
	return n
}

// return value; (the semicolon is optional)
func (p *Parser) parseReturn() *Node {
	n := p.open(KindReturnStatement)
	p.bump(n, "")
	p.add(n, FieldValue, p.parseExpr())
	if p.at(token.Semicolon) {
		p.bump(n, "")
	}
	return n
}

// allow read, write: if cond;
func (p *Parser) parseRuleDef() *Node {
	n := p.open(KindRuleDef)
	p.bump(n, "")

	sawMethod := false
	for p.at(token.Ident) {
		if Methods[p.peek().Text] {
			p.bumpAs(n, FieldMethod, KindMethod)
		} else {
			p.add(n, "", p.errorTokens(1))
		}
		sawMethod = true
		if !p.at(token.Comma) {
			break
		}
		p.bump(n, "")
	}
	if !sawMethod {
		p.add(n, FieldMethod, p.missing(KindMethod, true))
	}

	if p.at(token.Colon) {
		p.bump(n, "")
		p.expect(n, token.KwIf)
		p.add(n, FieldCondition, p.parseExpr())
	}
	if p.at(token.Semicolon) {
		p.bump(n, "")
	}
	return n
}
