package merge

import "github.com/pgfmt/sqlfmt/pkg/token"

// Error reports a branch reconciliation that could not be completed: two
// variants disagreed on text outside of any directive group, or a
// group's branch set couldn't be isolated cleanly from the surrounding
// baseline. It implements the common diagnostic surface shared by every
// pipeline stage's error type (see sqlfmt.FormatError) with a zero span,
// since a merge conflict spans whole rendered variants rather than one
// parsed source position.
type Error struct {
	Message string
}

func (e *Error) Error() string { return "merge error: " + e.Message }

func (e *Error) Kind() string { return "InternalMergeError" }

func (e *Error) ErrSpan() token.Span { return token.Span{} }
