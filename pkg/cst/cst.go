// Package cst defines the concrete syntax tree shapes the formatting
// pipeline consumes. This is the "well-defined tree interface" spec.md
// assumes an external SQL parser produces: the grammar/parser itself is
// out of this repository's scope (see internal/pgparse for a reference
// implementation used by tests), but the node shapes below are the
// contract every provider must satisfy.
//
// Every node embeds Base, which carries only its source span. Comments
// are deliberately NOT attached to CST nodes: a provider returns the
// parsed tree alongside a flat, position-ordered slice of comment tokens
// (see ParseResult), and pkg/translate's comment attacher is the one
// place that decides which Layout Node each comment belongs to and
// whether it is trailing or leading-standalone. Keeping comments out of
// the CST keeps providers simple and matches spec.md's pipeline, where
// comment attachment is its own stage run against the Layout tree.
package cst

import "github.com/pgfmt/sqlfmt/pkg/token"

// Node is satisfied by every CST node.
type Node interface {
	Span() token.Span
}

// Base is embedded by every concrete node type to satisfy Node.
type Base struct {
	span token.Span
}

// NewBase constructs a Base with the given span.
func NewBase(span token.Span) Base { return Base{span: span} }

func (b *Base) Span() token.Span { return b.span }

// ParseResult is what a CST provider returns: the parsed statement plus
// every comment token encountered, in source order, for the comment
// attacher to place.
type ParseResult struct {
	Statement *Statement
	Comments  []token.Comment
}

// Expr is satisfied by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is satisfied by every top-level statement body.
type Stmt interface {
	Node
	stmtNode()
}

// Statement is one parsed SQL statement, as produced for a single 2-way-SQL
// variant (directive resolution happens on raw text before parsing, so a
// CST provider only ever sees one concrete branch selection at a time).
type Statement struct {
	Base

	Select *SelectStmt
	Insert *InsertStmt
	Update *UpdateStmt
	Delete *DeleteStmt

	// Terminated is true when the source statement ends in ';'.
	Terminated bool
}

// Body returns the statement's single non-nil clause tree.
func (s *Statement) Body() Stmt {
	switch {
	case s.Select != nil:
		return s.Select
	case s.Insert != nil:
		return s.Insert
	case s.Update != nil:
		return s.Update
	case s.Delete != nil:
		return s.Delete
	default:
		return nil
	}
}

// LeadingKeywordSpan is the span of the statement's introductory keyword
// (SELECT/WITH/INSERT/UPDATE/DELETE). No package builds or reads one: the
// SQL-ID rewrite in pkg/translate finds the /* _SQL_ID_ */ marker's
// region from the statement's own spans (leadingKeywordRegion).
type LeadingKeywordSpan struct {
	Keyword string
	Span    token.Span
}
