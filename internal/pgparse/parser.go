package pgparse

import (
	"fmt"
	"strings"

	"github.com/pgfmt/sqlfmt/pkg/cst"
	"github.com/pgfmt/sqlfmt/pkg/token"
)

// maxDepth bounds expression/statement nesting, matching spec.md §5's
// requirement that recursion depth be bounded rather than unbounded.
const maxDepth = 256

// bindMeta records a bind-parameter comment glued (no intervening
// whitespace) to the literal or identifier token that follows it.
type bindMeta struct {
	sigil        byte // 0, '$', or '#'
	name         string
	commentSpace bool
	span         token.Span
}

// sitem is a significant (non-comment) token, annotated with the bind
// comment glued to it, if any.
type sitem struct {
	item
	bind *bindMeta
}

// Parse parses src as a single SQL statement (one resolved 2-way-SQL
// variant, or plain SQL if there were no directives) and returns its CST
// plus every comment token encountered, for the comment attacher to
// place. It is the reference CST provider used by sqlfmt's tests.
func Parse(src string) (*cst.ParseResult, error) {
	raw := Lex(src)

	var comments []token.Comment
	var sig []sitem
	for i := 0; i < len(raw); i++ {
		it := raw[i]
		if it.kind != token.LineComment && it.kind != token.BlockComment {
			sig = append(sig, sitem{item: it})
			continue
		}

		if it.kind == token.BlockComment && i+1 < len(raw) {
			next := raw[i+1]
			if next.span.Start.Offset == it.span.End.Offset &&
				(next.kind == token.Literal || next.kind == token.Identifier || next.kind == token.QuotedIdentifier) {
				if sigil, name, hadSpace, ok := parseBindComment(it.text); ok {
					sig = append(sig, sitem{item: next, bind: &bindMeta{sigil: sigil, name: name, commentSpace: hadSpace, span: it.span}})
					i++
					continue
				}
			}
		}

		comments = append(comments, token.Comment{
			Text:    it.text,
			Block:   it.kind == token.BlockComment,
			OwnLine: isOwnLine(src, it.span.Start.Offset),
			Span:    it.span,
		})
	}

	p := &parser{items: sig}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if p.cur().kind != token.EOF {
		return nil, p.errf("unexpected trailing input %q", p.cur().text)
	}
	return &cst.ParseResult{Statement: stmt, Comments: comments}, nil
}

// parseBindComment recognizes /*name*/, /*$name*/, and /*#name*/ shapes.
// It rejects directive-shaped comments (%if, IF, ELSE, END, hints) so
// those are never mistaken for bind parameters.
func parseBindComment(text string) (sigil byte, name string, hadSpace bool, ok bool) {
	inner := strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
	trimmed := strings.TrimSpace(inner)
	hadSpace = inner != trimmed
	if trimmed == "" {
		return 0, "", false, false
	}
	if strings.HasPrefix(trimmed, "+") || strings.HasPrefix(trimmed, "%") {
		return 0, "", false, false
	}
	word := strings.ToUpper(trimmed)
	if i := strings.IndexAny(word, " \t\r\n("); i >= 0 {
		word = word[:i]
	}
	switch word {
	case "IF", "ELSEIF", "ELIF", "ELSE", "END":
		return 0, "", false, false
	}
	if trimmed == "_SQL_ID_" {
		return 0, "", false, false
	}
	s := byte(0)
	switch trimmed[0] {
	case '$', '#':
		s = trimmed[0]
		trimmed = trimmed[1:]
	}
	if trimmed == "" || !isValidBindName(trimmed) {
		return 0, "", false, false
	}
	return s, trimmed, hadSpace, true
}

func isValidBindName(s string) bool {
	for i, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

// isOwnLine reports whether only whitespace precedes offset on its line.
func isOwnLine(src string, offset int) bool {
	for i := offset - 1; i >= 0; i-- {
		switch src[i] {
		case ' ', '\t', '\r':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

type parser struct {
	items []sitem
	pos   int
	depth int
}

func (p *parser) cur() sitem {
	if p.pos >= len(p.items) {
		n := len(p.items)
		if n == 0 {
			return sitem{item: item{kind: token.EOF}}
		}
		return sitem{item: item{kind: token.EOF, span: p.items[n-1].span}}
	}
	return p.items[p.pos]
}

func (p *parser) peekAt(n int) sitem {
	idx := p.pos + n
	if idx >= len(p.items) {
		return p.cur()
	}
	return p.items[idx]
}

func (p *parser) advance() sitem {
	it := p.cur()
	if p.pos < len(p.items) {
		p.pos++
	}
	return it
}

func (p *parser) errf(format string, args ...any) error {
	return &cst.ParseError{Span: p.cur().span, Message: fmt.Sprintf(format, args...)}
}

// isKw reports whether the current token is the keyword kw (case-insensitive).
func (p *parser) isKw(kw string) bool {
	c := p.cur()
	return c.kind == token.Keyword && upper(c.text) == kw
}

func (p *parser) isKwAt(n int, kw string) bool {
	c := p.peekAt(n)
	return c.kind == token.Keyword && upper(c.text) == kw
}

func (p *parser) isPunct(s string) bool {
	c := p.cur()
	return (c.kind == token.Punct || c.kind == token.Operator) && c.text == s
}

func (p *parser) expectKw(kw string) (sitem, error) {
	if !p.isKw(kw) {
		return sitem{}, p.errf("expected %s, got %q", kw, p.cur().text)
	}
	return p.advance(), nil
}

func (p *parser) expectPunct(s string) (sitem, error) {
	if !p.isPunct(s) {
		return sitem{}, p.errf("expected %q, got %q", s, p.cur().text)
	}
	return p.advance(), nil
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return p.errf("nesting too deep")
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) parseStatement() (*cst.Statement, error) {
	start := p.cur().span.Start
	stmt := &cst.Statement{}

	switch {
	case p.isKw("WITH") || p.isKw("SELECT"):
		sel, err := p.parseSelectStmt()
		if err != nil {
			return nil, err
		}
		stmt.Select = sel
	case p.isKw("INSERT"):
		ins, err := p.parseInsertStmt()
		if err != nil {
			return nil, err
		}
		stmt.Insert = ins
	case p.isKw("UPDATE"):
		upd, err := p.parseUpdateStmt()
		if err != nil {
			return nil, err
		}
		stmt.Update = upd
	case p.isKw("DELETE"):
		del, err := p.parseDeleteStmt()
		if err != nil {
			return nil, err
		}
		stmt.Delete = del
	default:
		return nil, p.errf("unsupported statement starting with %q", p.cur().text)
	}

	if p.isPunct(";") {
		p.advance()
		stmt.Terminated = true
	}
	stmt.Base = cst.NewBase(token.Span{Start: start, End: p.prevEnd()})
	return stmt, nil
}

// prevEnd is the end position of the most recently consumed token, used
// to close off a node's span once its last token has been advanced past.
func (p *parser) prevEnd() token.Position {
	if p.pos == 0 {
		return p.cur().span.Start
	}
	return p.items[p.pos-1].span.End
}
