package pgparse

import "strings"

// keywords is the set of reserved and non-reserved words the lexer tags
// as token.Keyword rather than token.Identifier. Matches spec.md's note
// that "keyword" is a grammar concept, not a lexical one: MATERIALIZED,
// LATERAL, NOWAIT, and ORDINALITY are keywords here even though Postgres
// treats them as non-reserved.
var keywords = map[string]bool{}

func init() {
	for _, kw := range []string{
		"SELECT", "FROM", "WHERE", "GROUP", "BY", "HAVING", "ORDER", "LIMIT", "OFFSET",
		"WITH", "RECURSIVE", "AS", "DISTINCT", "ON", "ALL", "INTO",
		"INSERT", "UPDATE", "DELETE", "SET", "VALUES", "RETURNING", "USING",
		"CONFLICT", "DO", "NOTHING", "CONSTRAINT",
		"JOIN", "INNER", "LEFT", "RIGHT", "FULL", "CROSS", "OUTER", "NATURAL", "LATERAL",
		"AND", "OR", "NOT", "IN", "IS", "NULL", "TRUE", "FALSE",
		"LIKE", "ILIKE", "BETWEEN", "EXISTS", "ESCAPE",
		"CASE", "WHEN", "THEN", "ELSE", "END",
		"CAST", "TRY_CAST",
		"ASC", "DESC", "NULLS", "FIRST", "LAST", "COLLATE",
		"OVER", "PARTITION", "WINDOW", "FILTER", "ROWS", "RANGE", "GROUPS",
		"UNBOUNDED", "PRECEDING", "FOLLOWING", "CURRENT", "ROW",
		"FOR", "NOWAIT", "SKIP", "LOCKED", "SHARE", "KEY", "NO", "OF",
		"MATERIALIZED", "ORDINALITY", "WITHIN", "DEFAULT",
		"UNION", "INTERSECT", "EXCEPT",
	} {
		keywords[kw] = true
	}
}

func isKeyword(text string) bool {
	return keywords[strings.ToUpper(text)]
}

func upper(s string) string { return strings.ToUpper(s) }
