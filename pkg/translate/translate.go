// Package translate rewrites a cst.Statement (one resolved 2-way-SQL
// variant, or the only variant when a statement carries no directives)
// into a layout.Statement: every rewrite rule config.Config can turn on —
// alias/AS completion, OUTER completion, casing, <>/::/paren rewrites,
// bind-parameter coalescing, SQL-ID insertion — is applied in this one
// walk, and every user comment is attached to the Layout Node it belongs
// next to, classified trailing or leading-standalone the way the CST
// provider already marked it (token.Comment.OwnLine, which
// internal/pgparse's Parse sets).
package translate

import (
	"strings"

	"github.com/pgfmt/sqlfmt/pkg/config"
	"github.com/pgfmt/sqlfmt/pkg/cst"
	"github.com/pgfmt/sqlfmt/pkg/layout"
	"github.com/pgfmt/sqlfmt/pkg/token"
)

// translator carries the config plus the single comment cursor shared by
// the whole statement. Only the top-level Statement/Clause build gets a
// comment-attachment pass (see attachComments); a FROM-subquery or CTE
// body built via nestedSelect does not touch the cursor itself, so a
// comment physically inside one surfaces at the nearest enclosing
// top-level clause boundary instead of on the nested statement's own
// tree — a deliberate granularity limit, not a bug.
type translator struct {
	cfg      config.Config
	comments []token.Comment
	ci       int
	skipIdx  int // index into comments to skip (an existing _SQL_ID_ marker being reused as HeaderComment)
}

// Translate runs the full rewrite pass and returns the Layout Node tree
// the alignment solver and renderer consume.
func Translate(cfg config.Config, pr *cst.ParseResult) (*layout.Statement, error) {
	tr := &translator{cfg: cfg, comments: pr.Comments, skipIdx: -1}

	body := pr.Statement.Body()
	if body == nil {
		return nil, &UnsupportedSyntaxError{Span: pr.Statement.Span(), What: "statement has no recognized body"}
	}

	headerStart, headerEnd := leadingKeywordRegion(body)
	headerComment := tr.leadingHeaderComment(headerStart, headerEnd)

	var clauses []*layout.Clause
	var offsets []int
	switch v := body.(type) {
	case *cst.SelectStmt:
		clauses, offsets = tr.selectClauses(v)
	case *cst.InsertStmt:
		clauses, offsets = tr.insertClauses(v)
	case *cst.UpdateStmt:
		clauses, offsets = tr.updateClauses(v)
	case *cst.DeleteStmt:
		clauses, offsets = tr.deleteClauses(v)
	default:
		return nil, &UnsupportedSyntaxError{Span: pr.Statement.Span(), What: "unrecognized statement body"}
	}
	if headerComment != nil && len(clauses) > 0 {
		clauses[0].HeaderComment = headerComment
	}

	stmt := &layout.Statement{Clauses: clauses, Terminated: pr.Statement.Terminated}
	tr.attachComments(stmt, clauses, offsets, pr.Statement.Span().End.Offset)
	return stmt, nil
}

// leadingKeywordRegion returns the byte range between a statement's
// introductory keyword(s) and the first element of its body, the region
// spec.md's /* _SQL_ID_ */ marker sits in.
func leadingKeywordRegion(body cst.Stmt) (start, end int) {
	switch v := body.(type) {
	case *cst.SelectStmt:
		start = v.Span().Start.Offset
		if v.With != nil {
			start = v.With.Span().End.Offset
		}
		end = start
		if len(v.Items) > 0 {
			end = v.Items[0].Span().Start.Offset
		}
	case *cst.InsertStmt:
		start = v.Span().Start.Offset
		end = start
		if v.Table != nil {
			end = v.Table.Span().Start.Offset
		}
	case *cst.UpdateStmt:
		start = v.Span().Start.Offset
		end = start
		if v.Table != nil {
			end = v.Table.Span().Start.Offset
		}
	case *cst.DeleteStmt:
		start = v.Span().Start.Offset
		end = start
		if v.Table != nil {
			end = v.Table.Span().Start.Offset
		}
	}
	return start, end
}

// leadingHeaderComment decides what, if anything, goes in the leading
// clause's HeaderComment: an existing /* _SQL_ID_ */ found in [start,end)
// is reused verbatim (and excluded from ordinary comment attachment via
// skipIdx, so reformatting an already-marked statement is idempotent);
// otherwise one is synthesized when cfg.ComplementSqlId is set.
func (tr *translator) leadingHeaderComment(start, end int) *layout.Comment {
	for i, c := range tr.comments {
		if c.Span.Start.Offset < start {
			continue
		}
		if c.Span.Start.Offset >= end {
			break
		}
		if isSqlIdComment(c.Text) {
			tr.skipIdx = i
			return sqlIDComment()
		}
	}
	if tr.cfg.ComplementSqlId {
		return sqlIDComment()
	}
	return nil
}

func isSqlIdComment(text string) bool {
	inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/"))
	return inner == "_SQL_ID_"
}

func sqlIDComment() *layout.Comment {
	return &layout.Comment{Text: "/* _SQL_ID_ */", Block: true}
}

func (tr *translator) consumeUpTo(offset int) []layout.Comment {
	var out []layout.Comment
	for tr.ci < len(tr.comments) && tr.comments[tr.ci].Span.Start.Offset < offset {
		if tr.ci == tr.skipIdx {
			tr.ci++
			continue
		}
		c := tr.comments[tr.ci]
		out = append(out, layout.Comment{Text: c.Text, Block: c.Block, OwnLine: c.OwnLine})
		tr.ci++
	}
	return out
}

// splitLeadTrail separates a same-line trailing comment (if the first
// entry isn't on its own line) from the leading-standalone comments that
// follow it.
func splitLeadTrail(cs []layout.Comment) (trail *layout.Comment, lead []layout.Comment) {
	if len(cs) == 0 {
		return nil, nil
	}
	i := 0
	if !cs[0].OwnLine {
		t := cs[0]
		trail = &t
		i = 1
	}
	return trail, cs[i:]
}

// attachComments places every remaining comment relative to the clause
// list: comments before the first clause become Statement.Leading,
// comments in the gap between two clauses split into the previous
// clause's Trailing and the next clause's Leading, and anything left
// after the last clause becomes Statement.Trailing (or that clause's
// Trailing, if it sits on the same line).
func (tr *translator) attachComments(stmt *layout.Statement, clauses []*layout.Clause, offsets []int, stmtEnd int) {
	if len(clauses) == 0 {
		stmt.Trailing = tr.consumeUpTo(1 << 62)
		return
	}
	stmt.Leading = tr.consumeUpTo(offsets[0])
	for i := 1; i < len(clauses); i++ {
		gap := tr.consumeUpTo(offsets[i])
		trail, lead := splitLeadTrail(gap)
		if trail != nil {
			clauses[i-1].Trailing = append(clauses[i-1].Trailing, *trail)
		}
		clauses[i].Leading = append(clauses[i].Leading, lead...)
	}
	tailGap := tr.consumeUpTo(stmtEnd)
	trail, lead := splitLeadTrail(tailGap)
	last := clauses[len(clauses)-1]
	if trail != nil {
		last.Trailing = append(last.Trailing, *trail)
	}
	stmt.Trailing = append(stmt.Trailing, lead...)
	stmt.Trailing = append(stmt.Trailing, tr.consumeUpTo(1<<62)...)
}
