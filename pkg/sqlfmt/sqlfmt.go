// Package sqlfmt wires the pipeline's stages — directive splitting, CST
// parsing, translation, rendering, and branch merging — into the single
// entry point callers use: Format. It is pure wiring; every rewrite rule,
// alignment computation, and rendering decision lives in the stage
// packages this one only calls in sequence.
package sqlfmt

import (
	"fmt"
	"io"

	"github.com/pgfmt/sqlfmt/internal/pgparse"
	"github.com/pgfmt/sqlfmt/pkg/config"
	"github.com/pgfmt/sqlfmt/pkg/directive"
	"github.com/pgfmt/sqlfmt/pkg/merge"
	"github.com/pgfmt/sqlfmt/pkg/render"
	"github.com/pgfmt/sqlfmt/pkg/token"
	"github.com/pgfmt/sqlfmt/pkg/translate"
)

// FormatError is the common diagnostic surface every pipeline-stage error
// type implements: cst.ParseError, directive.Error,
// translate.UnsupportedSyntaxError, merge.Error, and config.Error.
type FormatError interface {
	error
	Kind() string
	ErrSpan() token.Span
}

// Option configures a Format call beyond what config.Config carries —
// currently only the debug trace sink.
type Option func(*options)

type options struct {
	debugSink io.Writer
}

// WithDebugSink directs the trace lines Format emits when cfg.Debug is
// set to w. Without this option, or when cfg.Debug is false, Format
// writes no trace output at all.
func WithDebugSink(w io.Writer) Option {
	return func(o *options) { o.debugSink = w }
}

// Format parses, rewrites, and renders text under cfg, handling 2-way-SQL
// directives transparently: a directive-free statement is formatted
// directly, while a directive-bearing one is resolved into its minimal
// covering set of concrete variants, each formatted independently, then
// spliced back together by pkg/merge.
func Format(text string, cfg config.Config, opts ...Option) (string, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if err := cfg.Validate(); err != nil {
		return "", err
	}

	tmpl, err := directive.Parse(text)
	if err != nil {
		return "", err
	}
	debugf(o, cfg, "parsed directive template: hasDirectives=%v", tmpl.HasDirectives())

	if !tmpl.HasDirectives() {
		return formatVariant(text, cfg, o)
	}

	variants := tmpl.Variants()
	debugf(o, cfg, "enumerated %d variant(s)", len(variants))

	results := make([]merge.Result, len(variants))
	for i, v := range variants {
		out, err := formatVariant(v.Text, cfg, o)
		if err != nil {
			return "", err
		}
		results[i] = merge.Result{Selections: v.Selections, Text: out}
	}

	return merge.Merge(tmpl, results)
}

// formatVariant runs one resolved SQL string through parse → translate →
// render.
func formatVariant(src string, cfg config.Config, o *options) (string, error) {
	pr, err := pgparse.Parse(src)
	if err != nil {
		return "", err
	}
	debugf(o, cfg, "parsed statement span=%s", pr.Statement.Span())

	stmt, err := translate.Translate(cfg, pr)
	if err != nil {
		return "", err
	}
	debugf(o, cfg, "translated to %d clause(s)", len(stmt.Clauses))

	out := render.Statement(cfg, stmt)
	debugf(o, cfg, "rendered %d byte(s)", len(out))
	return out, nil
}

func debugf(o *options, cfg config.Config, format string, args ...any) {
	if !cfg.Debug || o.debugSink == nil {
		return
	}
	fmt.Fprintf(o.debugSink, format+"\n", args...)
}
