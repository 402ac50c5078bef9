package syntax

import (
	"slices"

	"firerules/internal/lexer"
	"firerules/internal/source"
	"firerules/internal/token"
)

// DefaultMaxDepth bounds nesting of expressions and match blocks.
const DefaultMaxDepth = 256

type Options struct {
	// MaxDepth limits parser recursion; zero means DefaultMaxDepth.
	MaxDepth int
}

// Tree is a parsed rules document.
type Tree struct {
	Root *Node
	File *source.File
}

// Source returns the bytes the tree was parsed from.
func (t *Tree) Source() []byte { return t.File.Content }

// Parser state for one file. It never fails: anything it cannot place ends up
// in ERROR nodes, expected-but-absent tokens become zero-width MISSING nodes.
type Parser struct {
	file     *source.File
	toks     []token.Token // significant tokens, EOF last
	comments []token.Token
	pos      int
	nextCmt  int
	extras   []*Node // comments not yet attached to a parent
	prevEnd  uint32  // end byte of the last consumed token
	maxDepth int
	depth    int
}

// Parse builds the concrete syntax tree for file.
func Parse(file *source.File, opts Options) *Tree {
	p := newParser(file, opts)
	return &Tree{Root: p.parseSourceFile(), File: file}
}

func newParser(file *source.File, opts Options) *Parser {
	p := &Parser{file: file, maxDepth: opts.MaxDepth}
	if p.maxDepth <= 0 {
		p.maxDepth = DefaultMaxDepth
	}
	for _, tok := range lexer.All(file) {
		if tok.IsComment() {
			p.comments = append(p.comments, tok)
			continue
		}
		p.toks = append(p.toks, tok)
	}
	p.pullComments()
	return p
}

func (p *Parser) peek() token.Token { return p.toks[p.pos] }

// peekN looks n significant tokens ahead, clamping at EOF.
func (p *Parser) peekN(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// adjacent reports whether the next token starts right where the previous one ended.
func (p *Parser) adjacent() bool { return p.peek().Start == p.prevEnd }

// next consumes one significant token and queues the comments behind it.
func (p *Parser) next() token.Token {
	tok := p.peek()
	if tok.Kind == token.EOF {
		return tok
	}
	p.pos++
	p.prevEnd = tok.End
	p.pullComments()
	return tok
}

func (p *Parser) pullComments() {
	limit := p.peek().Start
	for p.nextCmt < len(p.comments) && p.comments[p.nextCmt].Start < limit {
		c := p.leaf(p.comments[p.nextCmt], KindComment, true)
		c.flags |= flagExtra
		p.extras = append(p.extras, c)
		p.nextCmt++
	}
}

func (p *Parser) open(kind string) *Node {
	return &Node{kind: kind, flags: flagNamed}
}

// leaf builds a node covering one token.
func (p *Parser) leaf(tok token.Token, kind string, named bool) *Node {
	return p.leafRange(tok.Start, tok.End, kind, named)
}

func (p *Parser) leafRange(start, end uint32, kind string, named bool) *Node {
	n := &Node{
		kind:       kind,
		startByte:  start,
		endByte:    end,
		startPoint: p.file.PointAt(start),
		endPoint:   p.file.PointAt(end),
	}
	if named {
		n.flags |= flagNamed
	}
	n.lastPoint = n.startPoint
	if end > start {
		last := end - 1
		for last > start && p.file.Content[last]&0xC0 == 0x80 {
			last--
		}
		n.lastPoint = p.file.PointAt(last)
	}
	return n
}

// add attaches c to n. Queued comments lying between n's current end and c
// are attached first so children stay in source order.
func (p *Parser) add(n *Node, field string, c *Node) {
	if c == nil {
		return
	}
	if len(n.children) > 0 && len(p.extras) > 0 {
		kept := p.extras[:0]
		for _, e := range p.extras {
			if e.startByte >= n.endByte && e.startByte < c.startByte {
				n.appendChild("", e)
				continue
			}
			kept = append(kept, e)
		}
		p.extras = kept
	}
	n.appendChild(field, c)
}

// bump consumes the next token into n. Punctuation and keywords become
// anonymous leaves, identifiers and literals named ones.
func (p *Parser) bump(n *Node, field string) *Node {
	tok := p.next()
	var leaf *Node
	switch tok.Kind {
	case token.Ident:
		leaf = p.leaf(tok, KindIdentifier, true)
	case token.Number:
		leaf = p.leaf(tok, KindNumber, true)
	case token.String:
		leaf = p.leaf(tok, KindString, true)
	default:
		leaf = p.leaf(tok, tok.Kind.String(), false)
	}
	p.add(n, field, leaf)
	return leaf
}

// bumpAs consumes the next token into n as a named leaf of the given kind.
func (p *Parser) bumpAs(n *Node, field, kind string) *Node {
	leaf := p.leaf(p.next(), kind, true)
	p.add(n, field, leaf)
	return leaf
}

// missing returns a zero-width placeholder at the end of the previous token.
func (p *Parser) missing(kind string, named bool) *Node {
	n := p.leafRange(p.prevEnd, p.prevEnd, kind, named)
	n.flags |= flagMissing
	return n
}

// expect consumes a token of kind k into n. A single stray token in front of
// it is wrapped in an ERROR node; otherwise a MISSING node is inserted.
func (p *Parser) expect(n *Node, k token.Kind) bool {
	if p.at(k) {
		p.bump(n, "")
		return true
	}
	if !p.atSync() && p.peekN(1).Kind == k {
		p.add(n, "", p.errorTokens(1))
		p.bump(n, "")
		return true
	}
	p.add(n, "", p.missing(k.String(), false))
	return false
}

// expectIdent consumes an identifier into n under field, or inserts a MISSING identifier.
func (p *Parser) expectIdent(n *Node, field string) bool {
	if p.at(token.Ident) {
		p.bumpAs(n, field, KindIdentifier)
		return true
	}
	p.add(n, field, p.missing(KindIdentifier, true))
	return false
}

func (p *Parser) enter() bool {
	p.depth++
	return p.depth <= p.maxDepth
}

func (p *Parser) leave() { p.depth-- }

// parseSourceFile is the top level: an optional rules_version header, then
// the service declaration. Anything else becomes ERROR.
func (p *Parser) parseSourceFile() *Node {
	root := p.open(KindSourceFile)
	sawService := false
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.KwRulesVersion:
			p.add(root, "", p.parseRulesVersion())
		case token.KwService:
			p.add(root, "", p.parseServiceDef())
			sawService = true
		default:
			p.add(root, "", p.errorUntil(isTopSync))
		}
	}
	if !sawService {
		p.add(root, "", p.missing(KindServiceDef, true))
	}
	p.finishRoot(root)
	return root
}

// finishRoot attaches leftover comments and stretches the root over the whole file.
func (p *Parser) finishRoot(root *Node) {
	for _, e := range p.extras {
		idx := len(root.children)
		for i, c := range root.children {
			if e.startByte < c.startByte {
				idx = i
				break
			}
		}
		e.parent = root
		root.children = slices.Insert(root.children, idx, e)
		root.fields = slices.Insert(root.fields, idx, "")
	}
	p.extras = nil

	size := p.file.Len()
	whole := p.leafRange(0, size, KindSourceFile, true)
	root.startByte, root.endByte = whole.startByte, whole.endByte
	root.startPoint, root.endPoint = whole.startPoint, whole.endPoint
	root.lastPoint = whole.lastPoint
}
