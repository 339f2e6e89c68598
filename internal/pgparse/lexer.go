// Package pgparse is a reference CST provider: a hand-written lexer and
// precedence-climbing parser for the Postgres-flavored SQL subset
// sqlfmt's pipeline formats. It exists to produce real pkg/cst trees for
// tests and examples; it is explicitly not "the formatter" and is not
// meant to be a general-purpose PostgreSQL parser (spec.md treats the
// grammar/parser as an external collaborator).
package pgparse

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pgfmt/sqlfmt/pkg/token"
)

// item is one lexed token: its token.Kind (read by the parser and by
// comment handling), its source text, and its span.
type item struct {
	kind token.Kind
	text string
	span token.Span
}

// lexer turns source text into a flat slice of items, including comments
// (never elided, since the comment attacher needs every one of them).
type lexer struct {
	src       string
	offset    int
	line, col int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) pos() token.Position {
	return token.Position{Offset: l.offset, Line: l.line, Column: l.col}
}

func (l *lexer) eof() bool { return l.offset >= len(l.src) }

func (l *lexer) peekByte() byte {
	if l.eof() {
		return 0
	}
	return l.src[l.offset]
}

func (l *lexer) peekByteAt(n int) byte {
	if l.offset+n >= len(l.src) {
		return 0
	}
	return l.src[l.offset+n]
}

func (l *lexer) advance() byte {
	b := l.src[l.offset]
	l.offset++
	if b == '\n' {
		l.line++
		l.col = 1
	} else if b&0xC0 != 0x80 {
		l.col++
	}
	return b
}

func (l *lexer) advanceRune() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.offset:])
	if r == utf8.RuneError && size <= 1 {
		b := l.src[l.offset]
		l.offset++
		l.col++
		return rune(b)
	}
	l.offset += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

// Lex tokenizes src into a flat item stream terminated by an EOF item.
func Lex(src string) []item {
	l := newLexer(src)
	var items []item
	for {
		it := l.next()
		items = append(items, it)
		if it.kind == token.EOF {
			break
		}
	}
	return items
}

func (l *lexer) next() item {
	for {
		if l.eof() {
			p := l.pos()
			return item{kind: token.EOF, span: token.Span{Start: p, End: p}}
		}
		b := l.peekByte()
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' {
			l.advance()
			continue
		}
		break
	}

	start := l.pos()

	// Line comment.
	if l.peekByte() == '-' && l.peekByteAt(1) == '-' {
		for !l.eof() && l.peekByte() != '\n' {
			l.advance()
		}
		return item{kind: token.LineComment, text: l.src[start.Offset:l.offset], span: token.Span{Start: start, End: l.pos()}}
	}

	// Block comment (not nested, matching Postgres; first */ closes it).
	if l.peekByte() == '/' && l.peekByteAt(1) == '*' {
		l.advance()
		l.advance()
		for !l.eof() {
			if l.peekByte() == '*' && l.peekByteAt(1) == '/' {
				l.advance()
				l.advance()
				break
			}
			l.advance()
		}
		return item{kind: token.BlockComment, text: l.src[start.Offset:l.offset], span: token.Span{Start: start, End: l.pos()}}
	}

	// String literal, with '' escaping.
	if l.peekByte() == '\'' {
		l.advance()
		for !l.eof() {
			c := l.advance()
			if c == '\'' {
				if l.peekByte() == '\'' {
					l.advance()
					continue
				}
				break
			}
		}
		return item{kind: token.Literal, text: l.src[start.Offset:l.offset], span: token.Span{Start: start, End: l.pos()}}
	}

	// Double-quoted identifier, with "" escaping.
	if l.peekByte() == '"' {
		l.advance()
		for !l.eof() {
			c := l.advance()
			if c == '"' {
				if l.peekByte() == '"' {
					l.advance()
					continue
				}
				break
			}
		}
		return item{kind: token.QuotedIdentifier, text: l.src[start.Offset:l.offset], span: token.Span{Start: start, End: l.pos()}}
	}

	// Dollar-quoted string: $tag$ ... $tag$.
	if l.peekByte() == '$' {
		if tag, ok := l.tryDollarQuote(); ok {
			end := l.pos()
			return item{kind: token.Literal, text: tag, span: token.Span{Start: start, End: end}}
		}
	}

	// Number literal.
	if isDigit(l.peekByte()) {
		for !l.eof() && isDigit(l.peekByte()) {
			l.advance()
		}
		if l.peekByte() == '.' && isDigit(l.peekByteAt(1)) {
			l.advance()
			for !l.eof() && isDigit(l.peekByte()) {
				l.advance()
			}
		}
		if l.peekByte() == 'e' || l.peekByte() == 'E' {
			save := l.offset
			l.advance()
			if l.peekByte() == '+' || l.peekByte() == '-' {
				l.advance()
			}
			if isDigit(l.peekByte()) {
				for !l.eof() && isDigit(l.peekByte()) {
					l.advance()
				}
			} else {
				l.offset = save
			}
		}
		return item{kind: token.Literal, text: l.src[start.Offset:l.offset], span: token.Span{Start: start, End: l.pos()}}
	}

	// Identifier / keyword.
	if r, _ := utf8.DecodeRuneInString(l.src[l.offset:]); r == '_' || unicode.IsLetter(r) {
		for !l.eof() {
			r, size := utf8.DecodeRuneInString(l.src[l.offset:])
			if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
				l.offset += size
				l.col++
			} else {
				break
			}
		}
		text := l.src[start.Offset:l.offset]
		kind := token.Identifier
		if isKeyword(text) {
			kind = token.Keyword
		}
		return item{kind: kind, text: text, span: token.Span{Start: start, End: l.pos()}}
	}

	// Multi-char operators.
	for _, op := range multiCharOps {
		if strings.HasPrefix(l.src[l.offset:], op) {
			for range op {
				l.advance()
			}
			return item{kind: token.Operator, text: op, span: token.Span{Start: start, End: l.pos()}}
		}
	}

	// Single-char punctuation/operator.
	c := l.advanceRune()
	kind := token.Punct
	if strings.ContainsRune("+-*/%=<>", c) {
		kind = token.Operator
	}
	return item{kind: kind, text: string(c), span: token.Span{Start: start, End: l.pos()}}
}

// tryDollarQuote attempts to lex a $tag$...$tag$ string starting at the
// current '$'. Returns ok=false (without consuming) if this isn't one,
// e.g. a bare '$' used as an operator character.
func (l *lexer) tryDollarQuote() (string, bool) {
	save := l.offset
	saveLine, saveCol := l.line, l.col
	startIdx := l.offset
	l.advance() // consume '$'
	tagStart := l.offset
	for !l.eof() && (l.peekByte() == '_' || isAlnum(l.peekByte())) {
		l.advance()
	}
	if l.eof() || l.peekByte() != '$' {
		l.offset, l.line, l.col = save, saveLine, saveCol
		return "", false
	}
	tag := l.src[tagStart:l.offset]
	l.advance() // closing '$' of opening delimiter
	delim := "$" + tag + "$"
	idx := strings.Index(l.src[l.offset:], delim)
	if idx < 0 {
		l.offset, l.line, l.col = save, saveLine, saveCol
		return "", false
	}
	for i := 0; i < idx+len(delim); i++ {
		l.advance()
	}
	return l.src[startIdx:l.offset], true
}

var multiCharOps = []string{"<=", ">=", "<>", "!=", "::", "||", "->>", "->"}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlnum(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
