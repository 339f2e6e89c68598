package translate

import (
	"strings"

	"github.com/pgfmt/sqlfmt/pkg/config"
	"github.com/pgfmt/sqlfmt/pkg/cst"
	"github.com/pgfmt/sqlfmt/pkg/layout"
)

// nestedSelect builds the Clause tree for a FROM-subquery or CTE body.
// It deliberately does not touch the comment cursor (see translator's
// doc comment); a comment physically inside this subquery's source span
// surfaces at the nearest enclosing top-level clause boundary instead.
func (tr *translator) nestedSelect(sel *cst.SelectStmt) *layout.Statement {
	clauses, _ := tr.selectClauses(sel)
	return &layout.Statement{Clauses: clauses}
}

func (tr *translator) selectClauses(sel *cst.SelectStmt) ([]*layout.Clause, []int) {
	var clauses []*layout.Clause
	var offsets []int

	if sel.With != nil {
		clauses = append(clauses, tr.withClause(sel.With))
		offsets = append(offsets, sel.With.Span().Start.Offset)
	}

	itemsStart := sel.Span().Start.Offset
	if sel.With != nil {
		itemsStart = sel.With.Span().End.Offset
	}
	clauses = append(clauses, tr.selectItemsClause(sel))
	offsets = append(offsets, itemsStart)

	if sel.From != nil {
		clauses = append(clauses, tr.fromClauseLayout(sel.From))
		offsets = append(offsets, sel.From.Span().Start.Offset)
	}
	if sel.Where != nil {
		clauses = append(clauses, tr.whereClause(sel.Where))
		offsets = append(offsets, sel.Where.Span().Start.Offset)
	}
	if sel.GroupBy != nil {
		clauses = append(clauses, tr.groupByClause(sel.GroupBy))
		offsets = append(offsets, sel.GroupBy.Span().Start.Offset)
	}
	if sel.Having != nil {
		clauses = append(clauses, tr.havingClause(sel.Having))
		offsets = append(offsets, sel.Having.Span().Start.Offset)
	}
	if sel.OrderBy != nil {
		clauses = append(clauses, tr.orderByClause(sel.OrderBy))
		offsets = append(offsets, sel.OrderBy.Span().Start.Offset)
	}
	if sel.Limit != nil {
		if sel.Limit.Count != nil {
			clauses = append(clauses, &layout.Clause{Keyword: kw(tr.cfg, "LIMIT") + " " + exprText(tr.cfg, sel.Limit.Count)})
			offsets = append(offsets, sel.Limit.Span().Start.Offset)
		}
		if sel.Limit.Offset != nil {
			clauses = append(clauses, &layout.Clause{Keyword: kw(tr.cfg, "OFFSET") + " " + exprText(tr.cfg, sel.Limit.Offset)})
			offsets = append(offsets, sel.Limit.Offset.Span().Start.Offset)
		}
	}
	if sel.ForLocking != nil {
		clauses = append(clauses, tr.forLockingClause(sel.ForLocking))
		offsets = append(offsets, sel.ForLocking.Span().Start.Offset)
	}
	return clauses, offsets
}

func (tr *translator) withClause(w *cst.WithClause) *layout.Clause {
	rows := make([]layout.Row, len(w.CTEs))
	for i, c := range w.CTEs {
		header := identText(tr.cfg, c.Name, false)
		if len(c.Columns) > 0 {
			header += "(" + strings.Join(c.Columns, ", ") + ")"
		}
		header += " " + kw(tr.cfg, "AS")
		if c.Materialized != nil {
			if *c.Materialized {
				header += " " + kw(tr.cfg, "MATERIALIZED")
			} else {
				header += " " + kw(tr.cfg, "NOT") + " " + kw(tr.cfg, "MATERIALIZED")
			}
		}
		sub := tr.nestedSelect(c.Query)
		rows[i] = layout.Row{Cells: []layout.Cell{
			{Text: header},
			{Nested: &layout.SubStatement{Stmt: sub}},
		}}
	}
	kwtext := kw(tr.cfg, "WITH")
	if w.Recursive {
		kwtext += " " + kw(tr.cfg, "RECURSIVE")
	}
	return &layout.Clause{Keyword: kwtext, Body: &layout.AlignedList{Rows: rows}}
}

func (tr *translator) selectItemsClause(sel *cst.SelectStmt) *layout.Clause {
	kwtext := kw(tr.cfg, "SELECT")
	if sel.Distinct {
		kwtext += " " + kw(tr.cfg, "DISTINCT")
		if len(sel.DistinctOn) > 0 {
			items := make([]string, len(sel.DistinctOn))
			for i, e := range sel.DistinctOn {
				items[i] = exprText(tr.cfg, e)
			}
			kwtext += " " + kw(tr.cfg, "ON") + " (" + strings.Join(items, ", ") + ")"
		}
	}
	rows := make([]layout.Row, len(sel.Items))
	for i, it := range sel.Items {
		rows[i] = tr.selectItemRow(it)
	}
	return &layout.Clause{Keyword: kwtext, Body: &layout.AlignedList{Rows: rows}}
}

// selectItemRow renders one SELECT/RETURNING item as up to three cells —
// expr, AS, alias — so AS and alias column-align down the list the way
// plain Text-cell merging never could. A bare CASE expression gets its
// own multi-line CaseBody cell in place of the expr cell, so WHEN/THEN
// arms can be aligned too.
func (tr *translator) selectItemRow(it *cst.SelectItem) layout.Row {
	var exprCell layout.Cell
	if ce, ok := it.Expr.(*cst.CaseExpr); ok {
		exprCell = layout.Cell{Nested: tr.caseBody(ce)}
	} else {
		exprCell = layout.Cell{Text: selectItemBaseText(tr.cfg, it)}
	}
	cells := []layout.Cell{exprCell}
	if alias := resolvedAlias(tr.cfg, it); alias != nil {
		if it.AliasHasAS || tr.cfg.ComplementColumnAsKeyword {
			cells = append(cells, layout.Cell{Text: kw(tr.cfg, "AS")})
		}
		cells = append(cells, layout.Cell{Text: identText(tr.cfg, *alias, false)})
	}
	return layout.Row{Cells: cells}
}

func (tr *translator) caseBody(ce *cst.CaseExpr) *layout.CaseBody {
	cb := &layout.CaseBody{}
	if ce.Operand != nil {
		cb.Operand = exprText(tr.cfg, ce.Operand)
	}
	cb.Whens = make([]layout.WhenArm, len(ce.Whens))
	for i, w := range ce.Whens {
		cb.Whens[i] = layout.WhenArm{Condition: exprText(tr.cfg, w.Condition), Result: exprText(tr.cfg, w.Result)}
	}
	if ce.Else != nil {
		cb.Else = exprText(tr.cfg, ce.Else)
	}
	return cb
}

func (tr *translator) fromClauseLayout(fc *cst.FromClause) *layout.Clause {
	return &layout.Clause{Keyword: kw(tr.cfg, "FROM"), Body: tr.joinChain(fc)}
}

func (tr *translator) joinChain(fc *cst.FromClause) *layout.JoinChain {
	rows := make([]layout.JoinRow, 0, len(fc.Joins)+1)
	rows = append(rows, layout.JoinRow{Cells: tr.fromItemCells(&fc.Seed)})
	for _, j := range fc.Joins {
		var cond *layout.BooleanChain
		if j.On != nil {
			cond = flattenChain(tr.cfg, j.On)
		}
		rows = append(rows, layout.JoinRow{
			JoinKeyword: joinKeywordText(tr.cfg, j),
			Cells:       tr.fromItemCells(&j.Item),
			Condition:   cond,
			Using:       j.Using,
		})
	}
	return &layout.JoinChain{Rows: rows}
}

func (tr *translator) fromItemCells(fi *cst.FromItem) []layout.Cell {
	var cells []layout.Cell
	if fi.Lateral {
		cells = append(cells, layout.Cell{Text: kw(tr.cfg, "LATERAL")})
	}
	switch {
	case fi.Subquery != nil:
		cells = append(cells, layout.Cell{Nested: &layout.SubStatement{Stmt: tr.nestedSelect(fi.Subquery)}})
	case fi.Function != nil:
		cells = append(cells, layout.Cell{Text: exprText(tr.cfg, fi.Function)})
	case fi.Table != nil:
		cells = append(cells, layout.Cell{Text: tableNameText(tr.cfg, fi.Table)})
	}
	if fi.WithOrdinality {
		last := &cells[len(cells)-1]
		if last.Nested == nil {
			last.Text += " " + kw(tr.cfg, "WITH") + " " + kw(tr.cfg, "ORDINALITY")
		}
	}
	if fi.Alias != nil {
		as := ""
		if fi.AliasHasAS && !(tr.cfg.RemoveTableAsKeyword && !fi.WithOrdinality) {
			as = kw(tr.cfg, "AS") + " "
		} else if fi.WithOrdinality {
			as = kw(tr.cfg, "AS") + " "
		}
		aliasText := as + identText(tr.cfg, *fi.Alias, false)
		switch {
		case fi.WithOrdinality && len(fi.OrdinalityDefs) > 0:
			defs := make([]string, len(fi.OrdinalityDefs))
			for i, d := range fi.OrdinalityDefs {
				defs[i] = identText(tr.cfg, d.Name, false) + " " + d.Type
			}
			aliasText += "(" + strings.Join(defs, ", ") + ")"
		case len(fi.ColumnAliases) > 0:
			aliasText += "(" + strings.Join(fi.ColumnAliases, ", ") + ")"
		}
		cells = append(cells, layout.Cell{Text: aliasText})
	}
	return cells
}

func (tr *translator) whereClause(w *cst.WhereClause) *layout.Clause {
	return tr.whereExprClause(w.Condition)
}

func (tr *translator) whereExprClause(e cst.Expr) *layout.Clause {
	return &layout.Clause{Keyword: kw(tr.cfg, "WHERE"), Body: flattenChain(tr.cfg, e)}
}

func (tr *translator) havingClause(h *cst.HavingClause) *layout.Clause {
	return &layout.Clause{Keyword: kw(tr.cfg, "HAVING"), Body: flattenChain(tr.cfg, h.Condition)}
}

func (tr *translator) groupByClause(g *cst.GroupByClause) *layout.Clause {
	rows := make([]layout.Row, len(g.Items))
	for i, e := range g.Items {
		rows[i] = layout.Row{Cells: []layout.Cell{{Text: exprText(tr.cfg, e)}}}
	}
	return &layout.Clause{Keyword: kw(tr.cfg, "GROUP") + " " + kw(tr.cfg, "BY"), Body: &layout.AlignedList{Rows: rows}}
}

func (tr *translator) orderByClause(o *cst.OrderByClause) *layout.Clause {
	rows := make([]layout.Row, len(o.Items))
	for i, it := range o.Items {
		rows[i] = layout.Row{Cells: []layout.Cell{{Text: orderByItemsText(tr.cfg, []*cst.OrderByItem{it})}}}
	}
	return &layout.Clause{Keyword: kw(tr.cfg, "ORDER") + " " + kw(tr.cfg, "BY"), Body: &layout.AlignedList{Rows: rows}}
}

func (tr *translator) forLockingClause(fl *cst.ForLockingClause) *layout.Clause {
	kwtext := kw(tr.cfg, "FOR") + " " + kw(tr.cfg, strings.ToUpper(fl.Strength))
	if len(fl.Of) > 0 {
		kwtext += " " + kw(tr.cfg, "OF") + " " + strings.Join(fl.Of, ", ")
	}
	if fl.NoWait {
		kwtext += " " + kw(tr.cfg, "NOWAIT")
	}
	if fl.SkipLock {
		kwtext += " " + kw(tr.cfg, "SKIP") + " " + kw(tr.cfg, "LOCKED")
	}
	return &layout.Clause{Keyword: kwtext}
}

func (tr *translator) setListClause(items []*cst.SetItem) *layout.Clause {
	rows := make([]layout.Row, len(items))
	for i, it := range items {
		rows[i] = layout.Row{Cells: []layout.Cell{
			{Text: it.Target},
			{Text: "="},
			{Text: exprText(tr.cfg, it.Expr)},
		}}
	}
	return &layout.Clause{Keyword: kw(tr.cfg, "SET"), Body: &layout.AlignedList{Rows: rows}}
}

func (tr *translator) returningClause(items []*cst.SelectItem) *layout.Clause {
	rows := make([]layout.Row, len(items))
	for i, it := range items {
		rows[i] = tr.selectItemRow(it)
	}
	return &layout.Clause{Keyword: kw(tr.cfg, "RETURNING"), Body: &layout.AlignedList{Rows: rows}}
}

// valuesClause renders each VALUES tuple as a row of per-value cells, so
// the Nth value of every tuple column-aligns down the list the same way
// SET/SELECT-item cells do — a list-of-lists, not one opaque string per
// row. The wrapping parens are folded into the first/last cell's text
// since Cell/Row carry no "wrap in parens" flag of their own.
func (tr *translator) valuesClause(rows [][]cst.Expr) *layout.Clause {
	lrows := make([]layout.Row, len(rows))
	for i, tuple := range rows {
		cells := make([]layout.Cell, len(tuple))
		for j, e := range tuple {
			text := tr.valueText(e)
			if j == 0 {
				text = "(" + text
			}
			if j == len(tuple)-1 {
				text = text + ")"
			}
			cells[j] = layout.Cell{Text: text}
		}
		lrows[i] = layout.Row{Cells: cells}
	}
	return &layout.Clause{Keyword: kw(tr.cfg, "VALUES"), Body: &layout.AlignedList{Rows: lrows}}
}

// valueText special-cases the bare DEFAULT keyword a VALUES tuple can
// hold in place of an expression: the reference parser synthesizes it as
// an unquoted Ident named DEFAULT, which must take keyword casing rather
// than identifier casing.
func (tr *translator) valueText(e cst.Expr) string {
	if id, ok := e.(*cst.Ident); ok && !id.Quoted && strings.EqualFold(id.Name, "DEFAULT") {
		return kw(tr.cfg, "DEFAULT")
	}
	return exprText(tr.cfg, e)
}

func (tr *translator) insertClauses(ins *cst.InsertStmt) ([]*layout.Clause, []int) {
	var clauses []*layout.Clause
	var offsets []int

	header := kw(tr.cfg, "INSERT") + " " + kw(tr.cfg, "INTO") + " " + tableNameText(tr.cfg, ins.Table)
	if len(ins.Columns) > 0 {
		header += " (" + strings.Join(ins.Columns, ", ") + ")"
	}
	clauses = append(clauses, &layout.Clause{Keyword: header})
	offsets = append(offsets, ins.Span().Start.Offset)

	switch {
	case ins.Select != nil:
		selClauses, selOffsets := tr.selectClauses(ins.Select)
		clauses = append(clauses, selClauses...)
		offsets = append(offsets, selOffsets...)
	case len(ins.Values) > 0:
		clauses = append(clauses, tr.valuesClause(ins.Values))
		valuesStart := ins.Table.Span().End.Offset
		if len(ins.Values[0]) > 0 {
			valuesStart = ins.Values[0][0].Span().Start.Offset
		}
		offsets = append(offsets, valuesStart)
	}

	if ins.OnConflict != nil {
		ocClauses, ocOffsets := tr.onConflictClauses(ins.OnConflict)
		clauses = append(clauses, ocClauses...)
		offsets = append(offsets, ocOffsets...)
	}
	if len(ins.Returning) > 0 {
		clauses = append(clauses, tr.returningClause(ins.Returning))
		offsets = append(offsets, ins.Returning[0].Span().Start.Offset)
	}
	return clauses, offsets
}

func (tr *translator) onConflictClauses(oc *cst.OnConflictClause) ([]*layout.Clause, []int) {
	header := kw(tr.cfg, "ON") + " " + kw(tr.cfg, "CONFLICT")
	if len(oc.Columns) > 0 {
		header += " (" + strings.Join(oc.Columns, ", ") + ")"
	} else if oc.Constraint != nil {
		header += " " + kw(tr.cfg, "ON") + " " + kw(tr.cfg, "CONSTRAINT") + " " + *oc.Constraint
	}
	if oc.DoNothing {
		header += " " + kw(tr.cfg, "DO") + " " + kw(tr.cfg, "NOTHING")
		return []*layout.Clause{{Keyword: header}}, []int{oc.Span().Start.Offset}
	}
	setClause := tr.setListClause(oc.SetList)
	setClause.Keyword = header + " " + kw(tr.cfg, "DO") + " " + kw(tr.cfg, "UPDATE") + " " + setClause.Keyword
	clauses := []*layout.Clause{setClause}
	offsets := []int{oc.Span().Start.Offset}
	if oc.Where != nil {
		clauses = append(clauses, tr.whereExprClause(oc.Where))
		offsets = append(offsets, oc.Where.Span().Start.Offset)
	}
	return clauses, offsets
}

func (tr *translator) updateClauses(u *cst.UpdateStmt) ([]*layout.Clause, []int) {
	var clauses []*layout.Clause
	var offsets []int

	header := kw(tr.cfg, "UPDATE") + " " + tableNameText(tr.cfg, u.Table)
	clauses = append(clauses, &layout.Clause{Keyword: header})
	offsets = append(offsets, u.Span().Start.Offset)

	clauses = append(clauses, tr.setListClause(u.SetList))
	setStart := u.Table.Span().End.Offset
	if len(u.SetList) > 0 {
		setStart = u.SetList[0].Span().Start.Offset
	}
	offsets = append(offsets, setStart)

	if u.From != nil {
		clauses = append(clauses, tr.fromClauseLayout(u.From))
		offsets = append(offsets, u.From.Span().Start.Offset)
	}
	if u.Where != nil {
		clauses = append(clauses, tr.whereClause(u.Where))
		offsets = append(offsets, u.Where.Span().Start.Offset)
	}
	if len(u.Returning) > 0 {
		clauses = append(clauses, tr.returningClause(u.Returning))
		offsets = append(offsets, u.Returning[0].Span().Start.Offset)
	}
	return clauses, offsets
}

func (tr *translator) deleteClauses(d *cst.DeleteStmt) ([]*layout.Clause, []int) {
	var clauses []*layout.Clause
	var offsets []int

	header := kw(tr.cfg, "DELETE") + " " + kw(tr.cfg, "FROM") + " " + tableNameText(tr.cfg, d.Table)
	clauses = append(clauses, &layout.Clause{Keyword: header})
	offsets = append(offsets, d.Span().Start.Offset)

	if d.Using != nil {
		clauses = append(clauses, &layout.Clause{Keyword: kw(tr.cfg, "USING"), Body: tr.joinChain(d.Using)})
		offsets = append(offsets, d.Using.Span().Start.Offset)
	}
	if d.Where != nil {
		clauses = append(clauses, tr.whereClause(d.Where))
		offsets = append(offsets, d.Where.Span().Start.Offset)
	}
	if len(d.Returning) > 0 {
		clauses = append(clauses, tr.returningClause(d.Returning))
		offsets = append(offsets, d.Returning[0].Span().Start.Offset)
	}
	return clauses, offsets
}

// flattenChain flattens a BinaryExpr AND/OR spine into a BooleanChain,
// leaving any sub-expression using a different operator as one opaque
// operand (exprTextP still adds parens around it if its precedence binds
// looser than what the chain's connector requires).
func flattenChain(cfg config.Config, e cst.Expr) *layout.BooleanChain {
	op := chainOp(e)
	if op == "" {
		return &layout.BooleanChain{Operands: []layout.ChainOperand{leafOperand(cfg, "", e, 0)}}
	}
	var leaves []cst.Expr
	collectChain(e, op, &leaves)
	prec := binPrec[op]
	operands := make([]layout.ChainOperand, len(leaves))
	for i, leaf := range leaves {
		connector := ""
		if i > 0 {
			connector = kw(cfg, op)
		}
		operands[i] = leafOperand(cfg, connector, leaf, prec+1)
	}
	return &layout.BooleanChain{Operands: operands}
}

// leafOperand renders one BooleanChain leaf. A bare top-level comparison
// splits into lhs/op/rhs cells so the operator tab-aligns the way a SET
// assignment's "=" does; anything else collapses to one Text span.
func leafOperand(cfg config.Config, connector string, e cst.Expr, minPrec int) layout.ChainOperand {
	if cells, ok := comparisonCells(cfg, e, minPrec); ok {
		return layout.ChainOperand{Connector: connector, Cells: cells}
	}
	return layout.ChainOperand{Connector: connector, Text: exprTextP(cfg, e, minPrec)}
}

func comparisonCells(cfg config.Config, e cst.Expr, minPrec int) ([]layout.Cell, bool) {
	bx, ok := e.(*cst.BinaryExpr)
	if !ok {
		return nil, false
	}
	op := strings.ToUpper(bx.Op)
	prec, known := binPrec[op]
	if !known || prec != 4 {
		return nil, false
	}
	opText := bx.Op
	if cfg.UnifyNotEqual && op == "<>" {
		opText = "!="
	}
	return []layout.Cell{
		{Text: exprTextP(cfg, bx.Left, prec)},
		{Text: opText},
		{Text: exprTextP(cfg, bx.Right, prec+1)},
	}, true
}

func chainOp(e cst.Expr) string {
	if bx, ok := e.(*cst.BinaryExpr); ok {
		op := strings.ToUpper(bx.Op)
		if op == "AND" || op == "OR" {
			return op
		}
	}
	return ""
}

func collectChain(e cst.Expr, op string, out *[]cst.Expr) {
	if bx, ok := e.(*cst.BinaryExpr); ok && strings.ToUpper(bx.Op) == op {
		collectChain(bx.Left, op, out)
		collectChain(bx.Right, op, out)
		return
	}
	*out = append(*out, e)
}
