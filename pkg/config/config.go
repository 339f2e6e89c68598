// Package config defines the knobs that steer sqlfmt's rewrite and
// rendering rules. It is deliberately thin: loading a config file from
// disk or a CLI flag set is left to callers (sqlfmt ships as a library,
// not a CLI), so this package exports only the struct shape and its
// validation.
package config

import (
	"github.com/pkg/errors"

	"github.com/pgfmt/sqlfmt/pkg/token"
)

// Case selects how keywords or identifiers are re-cased on output.
// CaseAsIs leaves identifiers as written in the source. Keywords are
// emitted in upper case under CaseAsIs, since the translator writes them
// from its own constants rather than from the source text.
type Case string

const (
	CaseAsIs Case = "as_is"
	CaseUpper Case = "upper"
	CaseLower Case = "lower"
)

// Config controls every rewrite and layout decision sqlfmt makes. JSON
// tags match the shape callers load from their own project config files.
type Config struct {
	// Debug, when true, makes sqlfmt.Format write one short trace line per
	// pipeline step (variant count, clause count, rendered size) to the
	// configured debug sink (see sqlfmt.WithDebugSink). The stage
	// packages themselves write no trace output.
	Debug bool `json:"debug"`

	// TabSize is the column width one tab occupies when computing
	// alignment; it does not change what byte the renderer emits for
	// indentation (see IndentTab).
	TabSize int `json:"tab_size"`

	// IndentTab selects tabs (true) or TabSize spaces (false) for
	// indentation and alignment padding.
	IndentTab bool `json:"indent_tab"`

	// MaxCharPerLine is a target line width. Validate rejects a negative
	// value; no stage of the pipeline reads it, and no line is ever
	// wrapped because of it.
	MaxCharPerLine int `json:"max_char_per_line"`

	// KeywordCase and IdentifierCase select output casing for keywords
	// and identifiers respectively. Quoted identifiers are never re-cased.
	KeywordCase    Case `json:"keyword_case"`
	IdentifierCase Case `json:"identifier_case"`

	// ComplementAlias inserts an inferred alias for expressions that
	// reference a single column without one, so the rendered SQL exposes
	// a stable column name.
	ComplementAlias bool `json:"complement_alias"`

	// ComplementColumnAsKeyword inserts AS before a SELECT-list alias
	// that omitted it.
	ComplementColumnAsKeyword bool `json:"complement_column_as_keyword"`

	// RemoveTableAsKeyword removes AS before a FROM-item alias, except
	// where WITH ORDINALITY forces it to stay (see cst.FromItem).
	RemoveTableAsKeyword bool `json:"remove_table_as_keyword"`

	// ComplementOuterKeyword inserts OUTER after LEFT/RIGHT/FULL when
	// the source omitted it.
	ComplementOuterKeyword bool `json:"complement_outer_keyword"`

	// RemoveRedundantNest collapses a run of directly nested parentheses,
	// such as (((e))), to a single pair, (e). The last pair around a
	// non-parenthesized expression is always kept.
	RemoveRedundantNest bool `json:"remove_redundant_nest"`

	// TrimBindParam strips interior whitespace from a bind-parameter
	// comment, so "/* name */" renders as "/*name*/".
	TrimBindParam bool `json:"trim_bind_param"`

	// ComplementSqlId inserts a /* _SQL_ID_ */ marker comment right after
	// the statement's leading keyword, if one isn't already present there.
	ComplementSqlId bool `json:"complement_sql_id"`

	// ConvertDoubleColonCast rewrites expr::type into CAST(expr AS type).
	ConvertDoubleColonCast bool `json:"convert_double_colon_cast"`

	// UnifyNotEqual rewrites <> into != (or vice versa is never done:
	// != is always the unification target).
	UnifyNotEqual bool `json:"unify_not_equal"`

	// UseParserErrorRecovery is carried in the record but not read:
	// internal/pgparse has no recovery mode, so a cst.ParseError aborts
	// formatting whatever its value.
	UseParserErrorRecovery bool `json:"use_parser_error_recovery"`
}

// Default returns the configuration sqlfmt uses when the caller supplies
// none: tab-indented, as-is casing, every rewrite off except the two the
// corporate style treats as inherent to a SELECT list rather than
// optional polish — ComplementAlias and ComplementColumnAsKeyword, so a
// bare column reference always carries an explicit, self-named output
// column.
func Default() Config {
	return Config{
		TabSize:                   4,
		IndentTab:                 true,
		KeywordCase:               CaseAsIs,
		IdentifierCase:            CaseAsIs,
		ComplementAlias:           true,
		ComplementColumnAsKeyword: true,
	}
}

// Error is returned by Validate; it names the offending field so callers
// surfacing it to a user (or a linter) can point at the exact setting. It
// implements the common diagnostic surface shared by every pipeline
// stage's error type (see sqlfmt.FormatError) with a zero span, since a
// bad config value has no source position of its own.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config: " + e.Field + ": " + e.Message
}

func (e *Error) Kind() string { return "ConfigError" }

func (e *Error) ErrSpan() token.Span { return token.Span{} }

// Validate rejects configurations that the rest of the pipeline cannot
// act on consistently.
func (c Config) Validate() error {
	if c.TabSize < 1 {
		return errors.WithStack(&Error{Field: "tab_size", Message: "must be at least 1"})
	}
	if c.MaxCharPerLine < 0 {
		return errors.WithStack(&Error{Field: "max_char_per_line", Message: "must not be negative"})
	}
	if !c.KeywordCase.valid() {
		return errors.WithStack(&Error{Field: "keyword_case", Message: "must be one of as_is, upper, lower"})
	}
	if !c.IdentifierCase.valid() {
		return errors.WithStack(&Error{Field: "identifier_case", Message: "must be one of as_is, upper, lower"})
	}
	return nil
}

func (c Case) valid() bool {
	switch c {
	case "", CaseAsIs, CaseUpper, CaseLower:
		return true
	default:
		return false
	}
}
