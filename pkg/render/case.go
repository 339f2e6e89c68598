package render

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pgfmt/sqlfmt/pkg/config"
)

var upperCaser = cases.Upper(language.Und)
var lowerCaser = cases.Lower(language.Und)

// kw cases a structural keyword the renderer itself spells out (CASE,
// WHEN, THEN, ELSE, END) — these never reach pkg/layout as text because
// CaseBody only stores the operand/condition/result expressions, not the
// surrounding grammar words. Duplicated from pkg/translate's identical
// helper rather than shared, the same way pkg/translate duplicates
// internal/pgparse's precedence table: this package works from the
// layout.Body contract, not from the translator's internals.
func kw(cfg config.Config, word string) string {
	switch cfg.KeywordCase {
	case config.CaseUpper:
		return upperCaser.String(word)
	case config.CaseLower:
		return lowerCaser.String(word)
	default:
		return word
	}
}
