package directive

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/pgfmt/sqlfmt/pkg/token"
)

// Error reports a malformed directive skeleton: an /*%end*/ with no
// matching /*%if*/, an /*%else*/ or /*%elseif*/ with nothing open, or an
// /*%if*/ that never closes. It implements the common diagnostic surface
// shared by every pipeline stage's error type (see sqlfmt.FormatError).
type Error struct {
	Span    token.Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("directive error at %s: %s", e.Span, e.Message)
}

func (e *Error) Kind() string { return "DirectiveError" }

func (e *Error) ErrSpan() token.Span { return e.Span }

// wrapParseErr converts a participle grammar-mismatch error (stray/
// unterminated directive markers) into an *Error, recovering the source
// position participle attaches to its error when it can.
func wrapParseErr(err error) error {
	var perr participle.Error
	if ok := asParticipleError(err, &perr); ok {
		p := perr.Position()
		sp := token.Span{
			Start: token.Position{Offset: p.Offset, Line: p.Line, Column: p.Column},
			End:   token.Position{Offset: p.Offset, Line: p.Line, Column: p.Column},
		}
		return &Error{Span: sp, Message: perr.Message()}
	}
	return &Error{Message: err.Error()}
}

func asParticipleError(err error, target *participle.Error) bool {
	type causer interface{ Unwrap() error }
	for err != nil {
		if pe, ok := err.(participle.Error); ok {
			*target = pe
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Unwrap()
	}
	return false
}
