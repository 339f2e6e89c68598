package translate

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pgfmt/sqlfmt/pkg/config"
)

var upperCaser = cases.Upper(language.Und)
var lowerCaser = cases.Lower(language.Und)

func applyCase(c config.Case, s string) string {
	switch c {
	case config.CaseUpper:
		return upperCaser.String(s)
	case config.CaseLower:
		return lowerCaser.String(s)
	default:
		return s
	}
}

// kw cases a literal grammar keyword the translator itself is emitting
// (the CST never carries a keyword's original source casing, only its
// semantic shape, so every structural keyword is a Go string constant
// that flows through kw before being written to a Layout Node).
func kw(cfg config.Config, word string) string { return applyCase(cfg.KeywordCase, word) }

// identText cases name per cfg.IdentifierCase, unless quoted: a
// double-quoted identifier is never re-cased, and its Name already
// carries its surrounding quotes verbatim from the source token.
func identText(cfg config.Config, name string, quoted bool) string {
	if quoted || strings.HasPrefix(name, `"`) {
		return name
	}
	return applyCase(cfg.IdentifierCase, name)
}
