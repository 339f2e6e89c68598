package translate

import (
	"fmt"

	"github.com/pgfmt/sqlfmt/pkg/token"
)

// UnsupportedSyntaxError is returned when the translator is handed a CST
// shape it has no rewrite rule for. Since pkg/cst is a sealed set of node
// types (every Expr/Stmt has an unexported marker method), this only
// fires if a provider constructs a node the translator predates — a
// translator/CST version skew, not a malformed-input case.
type UnsupportedSyntaxError struct {
	Span token.Span
	What string
}

func (e *UnsupportedSyntaxError) Error() string {
	return fmt.Sprintf("unsupported syntax at %s: %s", e.Span, e.What)
}

func (e *UnsupportedSyntaxError) Kind() string { return "UnsupportedSyntaxError" }

func (e *UnsupportedSyntaxError) ErrSpan() token.Span { return e.Span }
