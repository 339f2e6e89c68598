package directive

import (
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The directive skeleton is parsed the same way the teacher's ClickHouse
// DDL grammar is (pkg/parser/parser.go there): a participle grammar built
// once over a custom lexer.Definition, with tagged-union struct fields for
// alternation. Here the lexer doesn't tokenize SQL at all — it replays the
// markers scanMarkers already found as a handful of token types (one kind
// per directive keyword, plus a Text token carrying everything between
// two markers verbatim), so the grammar only has to describe the nesting
// of if/elseif/else/end, not SQL syntax.
const (
	tokText lexer.TokenType = iota + 1
	tokIf
	tokElseIf
	tokElse
	tokEnd
)

var directiveSymbols = map[string]lexer.TokenType{
	"Text":   tokText,
	"If":     tokIf,
	"ElseIf": tokElseIf,
	"Else":   tokElse,
	"End":    tokEnd,
}

type markerLexerDef struct{}

func (markerLexerDef) Symbols() map[string]lexer.TokenType { return directiveSymbols }

func (markerLexerDef) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	src := string(b)
	marks := scanMarkers(src)
	return &replayLexer{src: src, marks: marks, toks: buildTokenStream(filename, src, marks)}, nil
}

// buildTokenStream interleaves a Text token for every gap between
// consecutive markers (including before the first and after the last)
// with one typed token per marker, whose Value is the marker's index into
// marks so the grammar walker can recover its condition/span/raw text.
func buildTokenStream(filename, src string, marks []marker) []lexer.Token {
	var toks []lexer.Token
	cursor := 0
	push := func(tt lexer.TokenType, value string, off int) {
		toks = append(toks, lexer.Token{Type: tt, Value: value, Pos: lexer.Position{Filename: filename, Offset: off}})
	}
	for idx, m := range marks {
		if m.span.Start.Offset > cursor {
			push(tokText, src[cursor:m.span.Start.Offset], cursor)
		}
		switch m.kind {
		case kindIf:
			push(tokIf, strconv.Itoa(idx), m.span.Start.Offset)
		case kindElseIf:
			push(tokElseIf, strconv.Itoa(idx), m.span.Start.Offset)
		case kindElse:
			push(tokElse, strconv.Itoa(idx), m.span.Start.Offset)
		case kindEnd:
			push(tokEnd, strconv.Itoa(idx), m.span.Start.Offset)
		}
		cursor = m.span.End.Offset
	}
	if cursor < len(src) {
		push(tokText, src[cursor:], cursor)
	}
	toks = append(toks, lexer.Token{Type: lexer.EOF, Pos: lexer.Position{Filename: filename, Offset: len(src)}})
	return toks
}

type replayLexer struct {
	src   string
	marks []marker
	toks  []lexer.Token
	pos   int
}

func (l *replayLexer) Next() (lexer.Token, error) {
	if l.pos >= len(l.toks) {
		return lexer.Token{Type: lexer.EOF}, nil
	}
	t := l.toks[l.pos]
	l.pos++
	return t, nil
}

// Grammar types participle builds the directive skeleton into. These are
// distinct from the public Template/Group/Branch/Segment types: the
// grammar only needs to capture marker indices, which convertTemplate then
// resolves back against the marks slice computed once in Parse.

type gTemplate struct {
	Segments []*gSegment `parser:"@@*"`
}

type gSegment struct {
	Text  string  `parser:"  @Text"`
	Group *gGroup `parser:"| @@"`
}

type gGroup struct {
	If     *gIfBranch     `parser:"@@"`
	Elifs  []*gElifBranch `parser:"@@*"`
	Else   *gElseBranch   `parser:"@@?"`
	EndIdx string         `parser:"@End"`
}

type gIfBranch struct {
	Idx  string      `parser:"@If"`
	Body []*gSegment `parser:"@@*"`
}

type gElifBranch struct {
	Idx  string      `parser:"@ElseIf"`
	Body []*gSegment `parser:"@@*"`
}

type gElseBranch struct {
	Idx  string      `parser:"@Else"`
	Body []*gSegment `parser:"@@*"`
}

var directiveParser = participle.MustBuild[gTemplate](
	participle.Lexer(markerLexerDef{}),
)

func mustIdx(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
