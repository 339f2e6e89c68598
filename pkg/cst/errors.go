package cst

import (
	"fmt"

	"github.com/pgfmt/sqlfmt/pkg/token"
)

// ParseError is returned by a CST provider when the input cannot be
// parsed, or (when parser-error-recovery is disabled) when recovery would
// otherwise have been attempted. It carries the upstream diagnostic
// message and the byte span it applies to, per spec.md §7.
type ParseError struct {
	Span     token.Span
	Message  string
	Upstream error
}

func (e *ParseError) Error() string {
	if e.Upstream != nil {
		return fmt.Sprintf("parse error at %s: %s: %v", e.Span, e.Message, e.Upstream)
	}
	return fmt.Sprintf("parse error at %s: %s", e.Span, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Upstream }

// Kind implements the common diagnostic surface shared by every stage's
// error type (see sqlfmt.FormatError).
func (e *ParseError) Kind() string { return "ParseError" }

// ErrSpan implements the common diagnostic surface shared by every
// stage's error type (see sqlfmt.FormatError). Named ErrSpan rather than
// Span to avoid colliding with the Node.Span accessor some callers may
// hold alongside an error value.
func (e *ParseError) ErrSpan() token.Span { return e.Span }
