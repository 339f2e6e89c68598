// Package render prints a layout.Statement to its final tabbed,
// column-aligned text, using pkg/align's solved column widths. It is the
// last stage before pkg/merge splices 2-way-SQL branches back together
// (or, for a plain single-variant statement, the last stage entirely).
package render

import (
	"strings"

	"github.com/pgfmt/sqlfmt/pkg/align"
	"github.com/pgfmt/sqlfmt/pkg/config"
	"github.com/pgfmt/sqlfmt/pkg/layout"
)

// Statement renders one formatted statement: a trailing ";" line is
// added only when the source statement ended with one, and the result
// always ends with exactly one "\n".
func Statement(cfg config.Config, stmt *layout.Statement) string {
	var sb strings.Builder
	renderStatement(&sb, cfg, stmt, 0)
	if stmt.Terminated {
		sb.WriteString(";\n")
	}
	return sb.String()
}

func indentUnit(cfg config.Config) string {
	if cfg.IndentTab {
		return "\t"
	}
	n := cfg.TabSize
	if n <= 0 {
		n = 1
	}
	return strings.Repeat(" ", n)
}

func indent(cfg config.Config, level int) string {
	if level <= 0 {
		return ""
	}
	return strings.Repeat(indentUnit(cfg), level)
}

func renderStatement(sb *strings.Builder, cfg config.Config, stmt *layout.Statement, level int) {
	for _, c := range stmt.Leading {
		writeCommentBlock(sb, cfg, level, c)
	}
	for _, cl := range stmt.Clauses {
		renderClause(sb, cfg, cl, level)
	}
	for _, c := range stmt.Trailing {
		writeCommentBlock(sb, cfg, level, c)
	}
}

func renderClause(sb *strings.Builder, cfg config.Config, cl *layout.Clause, level int) {
	for _, c := range cl.Leading {
		writeCommentBlock(sb, cfg, level, c)
	}
	sb.WriteString(indent(cfg, level))
	sb.WriteString(cl.Keyword)
	if cl.HeaderComment != nil {
		sb.WriteString(" " + cl.HeaderComment.Text)
	}
	if cl.Body == nil {
		sb.WriteString("\n")
		writeTrailingComments(sb, cfg, level, cl.Trailing)
		return
	}
	sb.WriteString("\n")
	renderBody(sb, cfg, cl.Body, level+1)
	writeTrailingComments(sb, cfg, level, cl.Trailing)
}

// writeTrailingComments prints a clause's trailing comments as
// own-line comments after its body. A true same-line attachment to the
// body's very last cell would need row/cell-level comment tracking,
// which the translator deliberately doesn't do (see pkg/translate's
// Statement/Clause-only attachment granularity) — this is the
// corresponding renderer-side scope reduction.
func writeTrailingComments(sb *strings.Builder, cfg config.Config, level int, cs []layout.Comment) {
	for _, c := range cs {
		writeCommentBlock(sb, cfg, level, c)
	}
}

func writeCommentBlock(sb *strings.Builder, cfg config.Config, level int, c layout.Comment) {
	for _, line := range formatComment(cfg, level, c) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

// formatComment splits a comment into output lines. A multi-line block
// comment whose inner lines all start with "*" (after leading
// whitespace) is "star-aligned": each "*" is normalized to line up under
// the opening "/*"'s own asterisk. A single-line comment of either kind
// is reprinted verbatim on one line; a multi-line block comment that
// isn't star-aligned keeps its own line breaks, with only its first line
// indented and the rest reprinted verbatim.
func formatComment(cfg config.Config, level int, c layout.Comment) []string {
	ind := indent(cfg, level)
	if !c.Block || !strings.Contains(c.Text, "\n") {
		return []string{ind + c.Text}
	}
	lines := strings.Split(c.Text, "\n")
	starAligned := true
	for _, l := range lines[1:] {
		if !strings.HasPrefix(strings.TrimLeft(l, " \t"), "*") {
			starAligned = false
			break
		}
	}
	if !starAligned {
		out := make([]string, len(lines))
		out[0] = ind + lines[0]
		copy(out[1:], lines[1:])
		return out
	}
	pad := ind + " "
	out := make([]string, len(lines))
	out[0] = ind + lines[0]
	for i := 1; i < len(lines); i++ {
		out[i] = pad + strings.TrimLeft(lines[i], " \t")
	}
	return out
}

func renderBody(sb *strings.Builder, cfg config.Config, body layout.Body, level int) {
	switch b := body.(type) {
	case *layout.AlignedList:
		renderAlignedList(sb, cfg, b, level)
	case *layout.BooleanChain:
		for _, line := range chainLines(cfg, level, b) {
			sb.WriteString(line + "\n")
		}
	case *layout.JoinChain:
		renderJoinChain(sb, cfg, b, level)
	case *layout.SubStatement:
		renderStatement(sb, cfg, b.Stmt, level)
	case *layout.CaseBody:
		for _, line := range caseBodyLines(cfg, level, b) {
			sb.WriteString(line + "\n")
		}
	}
}

// renderAlignedList prints a leading-comma list: the first row's item
// starts directly after the clause indent with no placeholder, and every
// continuation row opens with a bare "," at that same column — the comma
// occupies the position the item text would otherwise start at, per
// spec's "comma opens each continuation row at the same column as the
// list items."
func renderAlignedList(sb *strings.Builder, cfg config.Config, al *layout.AlignedList, level int) {
	rowsCells := make([][]layout.Cell, len(al.Rows))
	for i, r := range al.Rows {
		rowsCells[i] = r.Cells
		if i > 0 && len(r.Cells) > 0 && r.Cells[0].Nested == nil {
			// The comma is part of the first cell, so its width counts
			// toward column 0's stop the way the item text does.
			cells := append([]layout.Cell(nil), r.Cells...)
			cells[0].Text = "," + cells[0].Text
			rowsCells[i] = cells
		}
	}
	widths := align.Columns(cfg, rowsCells)
	ind := indent(cfg, level)
	for i, row := range al.Rows {
		for _, c := range row.LeadingComments {
			writeCommentBlock(sb, cfg, level, c)
		}
		prefix := ""
		if i > 0 && (len(row.Cells) == 0 || row.Cells[0].Nested != nil) {
			prefix = ","
		}
		line, extra := renderCellsLine(cfg, level, widths, rowsCells[i])
		sb.WriteString(ind + prefix + line + "\n")
		for _, l := range extra {
			sb.WriteString(l + "\n")
		}
	}
}

// renderCellsLine renders one row's cells padded to widths, returning the
// single-line text plus any additional lines a Nested cell opened (e.g. a
// CASE body or a sub-statement) — those already carry their own
// indentation and need no further padding applied by the caller.
func renderCellsLine(cfg config.Config, level int, widths align.Widths, cells []layout.Cell) (string, []string) {
	var sb strings.Builder
	var extra []string
	for i, c := range cells {
		var text string
		if c.Nested != nil {
			nestedLines := nestedBodyLines(cfg, level, c.Nested)
			if len(nestedLines) > 0 {
				text = nestedLines[0]
				extra = append(extra, nestedLines[1:]...)
			}
		} else {
			text = c.Text
		}
		sb.WriteString(text)
		if i < len(cells)-1 {
			sb.WriteString(widths.Pad(cfg, i, len([]rune(text))))
		}
	}
	return sb.String(), extra
}

// nestedBodyLines renders a Cell.Nested body as a list of lines, the
// first meant to continue the current line and the rest already
// fully indented on their own.
func nestedBodyLines(cfg config.Config, level int, body layout.Body) []string {
	switch b := body.(type) {
	case *layout.CaseBody:
		return caseBodyLines(cfg, level, b)
	case *layout.SubStatement:
		var sb strings.Builder
		sb.WriteString("(\n")
		renderStatement(&sb, cfg, b.Stmt, level+1)
		sb.WriteString(indent(cfg, level) + ")")
		return strings.Split(sb.String(), "\n")
	default:
		return nil
	}
}

// caseBodyLines renders a CASE expression: the opening "CASE [operand]"
// continues whatever line it's embedded in, WHEN/THEN arms sit one level
// deeper, and END returns to the embedding line's own level so any
// following cell (an alias) reads naturally after it.
func caseBodyLines(cfg config.Config, level int, cb *layout.CaseBody) []string {
	first := kw(cfg, "CASE")
	if cb.Operand != "" {
		first += " " + cb.Operand
	}
	lines := []string{first}
	ind := indent(cfg, level+1)
	for _, w := range cb.Whens {
		lines = append(lines, ind+kw(cfg, "WHEN")+" "+w.Condition+" "+kw(cfg, "THEN")+" "+w.Result)
	}
	if cb.Else != "" {
		lines = append(lines, ind+kw(cfg, "ELSE")+" "+cb.Else)
	}
	lines = append(lines, indent(cfg, level)+kw(cfg, "END"))
	return lines
}

// chainLines renders a BooleanChain: the first operand sits at level,
// later operands are prefixed by their AND/OR connector at the same
// level. A bare top-level comparison's lhs/op/rhs cells are tab-aligned
// across every operand in the chain via align.ChainColumns (the
// narrower, no-extra-stop rule — see pkg/align.ChainColumns).
func chainLines(cfg config.Config, level int, bc *layout.BooleanChain) []string {
	// An operand's connector is folded into its first cell, so the
	// connector's width counts toward column 0's stop.
	rowCells := make([][]layout.Cell, len(bc.Operands))
	var cellRows [][]layout.Cell
	for i, op := range bc.Operands {
		if len(op.Cells) > 0 {
			cells := op.Cells
			if cells[0].Nested == nil {
				cells = append([]layout.Cell(nil), op.Cells...)
				cells[0].Text = prefixConnector(op.Connector, cells[0].Text)
			}
			rowCells[i] = cells
			cellRows = append(cellRows, cells)
		}
	}
	widths := align.ChainColumns(cfg, cellRows)
	ind := indent(cfg, level)
	lines := make([]string, 0, len(bc.Operands))
	for i, op := range bc.Operands {
		for _, c := range op.LeadingComments {
			lines = append(lines, formatComment(cfg, level, c)...)
		}
		var text string
		if len(op.Cells) > 0 {
			text, _ = renderCellsLine(cfg, level, widths, rowCells[i])
			if op.Cells[0].Nested == nil {
				lines = append(lines, ind+text)
				continue
			}
		} else if op.Nested != nil {
			nested := nestedBodyLines(cfg, level, op.Nested)
			if len(nested) > 0 {
				text = nested[0]
				lines = append(lines, ind+prefixConnector(op.Connector, text))
				lines = append(lines, nested[1:]...)
				continue
			}
		} else {
			text = op.Text
		}
		lines = append(lines, ind+prefixConnector(op.Connector, text))
	}
	return lines
}

func prefixConnector(connector, text string) string {
	if connector == "" {
		return text
	}
	return connector + " " + text
}

// renderJoinChain prints a FROM (or USING) item list: the seed row plus
// its joins share one alignment group, with a synthetic leading column
// for the join keyword so table names line up regardless of whether a
// row says "JOIN" or "LEFT OUTER JOIN". A lone seed with no joins at all
// carries no such column — there is nothing for a table name to align
// under — so it renders its cells directly with no synthetic padding.
func renderJoinChain(sb *strings.Builder, cfg config.Config, jc *layout.JoinChain, level int) {
	hasJoins := false
	for _, r := range jc.Rows {
		if r.JoinKeyword != "" {
			hasJoins = true
			break
		}
	}

	rowsCells := make([][]layout.Cell, len(jc.Rows))
	for i, r := range jc.Rows {
		if hasJoins {
			rowsCells[i] = append([]layout.Cell{{Text: r.JoinKeyword}}, r.Cells...)
		} else {
			rowsCells[i] = r.Cells
		}
	}
	widths := align.Columns(cfg, rowsCells)
	ind := indent(cfg, level)
	for i, row := range jc.Rows {
		for _, c := range row.LeadingComments {
			writeCommentBlock(sb, cfg, level, c)
		}
		cells := rowsCells[i]
		line, extra := renderCellsLine(cfg, level, widths, cells)
		sb.WriteString(ind + line)
		if row.Condition != nil {
			sb.WriteString(" " + kw(cfg, "ON") + " ")
			condLines := chainLines(cfg, level+1, row.Condition)
			if len(condLines) == 1 {
				sb.WriteString(strings.TrimLeft(condLines[0], "\t "))
			} else {
				sb.WriteString("\n")
				for _, l := range condLines {
					sb.WriteString(l + "\n")
				}
			}
		} else if len(row.Using) > 0 {
			sb.WriteString(" " + kw(cfg, "USING") + " (" + strings.Join(row.Using, ", ") + ")")
		}
		sb.WriteString("\n")
		for _, l := range extra {
			sb.WriteString(l + "\n")
		}
	}
}
