package translate

import (
	"strings"

	"github.com/pgfmt/sqlfmt/pkg/config"
	"github.com/pgfmt/sqlfmt/pkg/cst"
)

// binPrec mirrors internal/pgparse's operator precedence table. It's
// duplicated rather than imported because the translator works against
// the cst.Expr contract any provider can satisfy, not against the
// reference parser's internals; the numbers only need to agree on
// relative ordering, which is fixed by SQL itself.
var binPrec = map[string]int{
	"OR": 1, "AND": 2,
	"=": 4, "<>": 4, "!=": 4, "<": 4, ">": 4, "<=": 4, ">=": 4,
	"||": 5,
	"+":  6, "-": 6,
	"*": 7, "/": 7, "%": 7,
	"^": 8,
}

const specialPrec = 3
const atomicPrec = 100

// exprText renders e as inline SQL text, applying every expression-level
// rewrite (casing, <> unification, :: conversion, redundant-paren
// reduction, bind-parameter gluing).
func exprText(cfg config.Config, e cst.Expr) string {
	return exprTextP(cfg, e, 0)
}

// exprTextP renders e as an operand that must bind at least as tightly
// as minPrec, adding parens only when e's own precedence is lower.
func exprTextP(cfg config.Config, e cst.Expr, minPrec int) string {
	switch v := e.(type) {
	case *cst.Ident:
		return identText(cfg, v.Name, v.Quoted)

	case *cst.QualifiedIdent:
		parts := make([]string, len(v.Parts))
		for i, p := range v.Parts {
			parts[i] = identText(cfg, p.Name, p.Quoted)
		}
		return strings.Join(parts, ".")

	case *cst.Star:
		return "*"

	case *cst.StarIndirection:
		parts := make([]string, len(v.Qualifier.Parts))
		for i, p := range v.Qualifier.Parts {
			parts[i] = identText(cfg, p.Name, p.Quoted)
		}
		return strings.Join(parts, ".") + ".*"

	case *cst.Literal:
		if v.Kind == cst.LiteralNull || v.Kind == cst.LiteralBool {
			return kw(cfg, strings.ToUpper(v.Text))
		}
		return v.Text

	case *cst.BindParamExpr:
		return bindCommentText(cfg, v.Sigil, v.Name, v.CommentSpace) + exprTextP(cfg, v.Value, minPrec)

	case *cst.ColumnRefWithBind:
		return bindCommentText(cfg, '$', v.Name, false) + exprTextP(cfg, v.Value, minPrec)

	case *cst.PrefixExpr:
		if strings.ToUpper(v.Op) == "NOT" {
			text := kw(cfg, "NOT") + " " + exprTextP(cfg, v.Operand, specialPrec)
			if specialPrec < minPrec {
				return "(" + text + ")"
			}
			return text
		}
		return v.Op + exprTextP(cfg, v.Operand, atomicPrec-1)

	case *cst.BinaryExpr:
		op := strings.ToUpper(v.Op)
		opText := op
		if op == "AND" || op == "OR" {
			opText = kw(cfg, op)
		} else if cfg.UnifyNotEqual && op == "<>" {
			opText = "!="
		} else {
			opText = v.Op
		}
		prec, ok := binPrec[op]
		if !ok {
			prec = 4
		}
		text := exprTextP(cfg, v.Left, prec) + " " + opText + " " + exprTextP(cfg, v.Right, prec+1)
		if prec < minPrec {
			return "(" + text + ")"
		}
		return text

	case *cst.ParenExpr:
		if !cfg.RemoveRedundantNest {
			return "(" + exprTextP(cfg, v.Expr, 0) + ")"
		}
		// A run of nested pairs collapses to exactly one, never to zero: a
		// paren directly wrapping another paren is redundant and unwraps,
		// but the innermost pair around a non-paren child always stays.
		if _, ok := v.Expr.(*cst.ParenExpr); ok {
			return exprTextP(cfg, v.Expr, minPrec)
		}
		return "(" + exprTextP(cfg, v.Expr, 0) + ")"

	case *cst.CastExpr:
		name := "CAST"
		if v.TryCast {
			name = "TRY_CAST"
		}
		return kw(cfg, name) + "(" + exprTextP(cfg, v.Expr, 0) + "\t" + kw(cfg, "AS") + "\t" + kw(cfg, v.Type) + ")"

	case *cst.DoubleColonCastExpr:
		if cfg.ConvertDoubleColonCast {
			return kw(cfg, "CAST") + "(" + exprTextP(cfg, v.Expr, 0) + "\t" + kw(cfg, "AS") + "\t" + kw(cfg, v.Type) + ")"
		}
		return exprTextP(cfg, v.Expr, atomicPrec-1) + "::" + v.Type

	case *cst.CaseExpr:
		var sb strings.Builder
		sb.WriteString(kw(cfg, "CASE"))
		if v.Operand != nil {
			sb.WriteString(" " + exprTextP(cfg, v.Operand, 0))
		}
		for _, w := range v.Whens {
			sb.WriteString(" " + kw(cfg, "WHEN") + " " + exprTextP(cfg, w.Condition, 0) + " " + kw(cfg, "THEN") + " " + exprTextP(cfg, w.Result, 0))
		}
		if v.Else != nil {
			sb.WriteString(" " + kw(cfg, "ELSE") + " " + exprTextP(cfg, v.Else, 0))
		}
		sb.WriteString(" " + kw(cfg, "END"))
		return sb.String()

	case *cst.Indirection:
		base := exprTextP(cfg, v.Expr, atomicPrec-1)
		switch {
		case v.Field != nil:
			return base + "." + *v.Field
		case v.IsSlice:
			lo, hi := "", ""
			if v.SliceLo != nil {
				lo = exprTextP(cfg, v.SliceLo, 0)
			}
			if v.SliceHi != nil {
				hi = exprTextP(cfg, v.SliceHi, 0)
			}
			return base + "[" + lo + ":" + hi + "]"
		default:
			return base + "[" + exprTextP(cfg, v.Index, 0) + "]"
		}

	case *cst.BetweenExpr:
		not := ""
		if v.Not {
			not = kw(cfg, "NOT") + " "
		}
		text := exprTextP(cfg, v.Expr, specialPrec) + " " + not + kw(cfg, "BETWEEN") + " " +
			exprTextP(cfg, v.Low, specialPrec+1) + " " + kw(cfg, "AND") + " " + exprTextP(cfg, v.High, specialPrec+1)
		if specialPrec < minPrec {
			return "(" + text + ")"
		}
		return text

	case *cst.InExpr:
		not := ""
		if v.Not {
			not = kw(cfg, "NOT") + " "
		}
		var rhs string
		if v.Subquery != nil {
			rhs = "(" + flatStatementText(cfg, v.Subquery) + ")"
		} else {
			parts := make([]string, len(v.List))
			for i, it := range v.List {
				parts[i] = exprTextP(cfg, it, 0)
			}
			rhs = "(" + strings.Join(parts, ", ") + ")"
		}
		text := exprTextP(cfg, v.Expr, specialPrec) + " " + not + kw(cfg, "IN") + " " + rhs
		if specialPrec < minPrec {
			return "(" + text + ")"
		}
		return text

	case *cst.ExistsExpr:
		not := ""
		if v.Not {
			not = kw(cfg, "NOT") + " "
		}
		return not + kw(cfg, "EXISTS") + " (" + flatStatementText(cfg, v.Subquery) + ")"

	case *cst.SubqueryExpr:
		return "(" + flatStatementText(cfg, v.Subquery) + ")"

	case *cst.IsNullExpr:
		not := ""
		if v.Not {
			not = kw(cfg, "NOT") + " "
		}
		text := exprTextP(cfg, v.Expr, specialPrec) + " " + kw(cfg, "IS") + " " + not + kw(cfg, "NULL")
		if specialPrec < minPrec {
			return "(" + text + ")"
		}
		return text

	case *cst.IsBoolExpr:
		not := ""
		if v.Not {
			not = kw(cfg, "NOT") + " "
		}
		word := "FALSE"
		if v.Value {
			word = "TRUE"
		}
		text := exprTextP(cfg, v.Expr, specialPrec) + " " + kw(cfg, "IS") + " " + not + kw(cfg, word)
		if specialPrec < minPrec {
			return "(" + text + ")"
		}
		return text

	case *cst.LikeExpr:
		opname := "LIKE"
		if v.ILike {
			opname = "ILIKE"
		}
		not := ""
		if v.Not {
			not = kw(cfg, "NOT") + " "
		}
		text := exprTextP(cfg, v.Expr, specialPrec) + " " + not + kw(cfg, opname) + " " + exprTextP(cfg, v.Pattern, specialPrec+1)
		if v.Escape != nil {
			text += " " + kw(cfg, "ESCAPE") + " " + exprTextP(cfg, v.Escape, 0)
		}
		if specialPrec < minPrec {
			return "(" + text + ")"
		}
		return text

	case *cst.FuncCall:
		var sb strings.Builder
		if v.Schema != nil {
			sb.WriteString(identText(cfg, *v.Schema, false) + ".")
		}
		sb.WriteString(identText(cfg, v.Name, false))
		sb.WriteString("(")
		if v.Distinct {
			sb.WriteString(kw(cfg, "DISTINCT") + " ")
		}
		if v.Star {
			sb.WriteString("*")
		} else {
			parts := make([]string, len(v.Args))
			for i, a := range v.Args {
				parts[i] = exprTextP(cfg, a, 0)
			}
			sb.WriteString(strings.Join(parts, ", "))
			if len(v.OrderBy) > 0 {
				sb.WriteString(" " + kw(cfg, "ORDER") + " " + kw(cfg, "BY") + " " + orderByItemsText(cfg, v.OrderBy))
			}
		}
		sb.WriteString(")")
		if v.Filter != nil {
			sb.WriteString(" " + kw(cfg, "FILTER") + " (" + kw(cfg, "WHERE") + " " + exprTextP(cfg, v.Filter, 0) + ")")
		}
		if v.Window != nil {
			sb.WriteString(" " + kw(cfg, "OVER") + " " + windowSpecText(cfg, v.Window))
		}
		return sb.String()

	default:
		return ""
	}
}

func bindCommentText(cfg config.Config, sigil byte, name string, hadSpace bool) string {
	sig := ""
	switch sigil {
	case '$':
		sig = "$"
	case '#':
		sig = "#"
	}
	if cfg.TrimBindParam || !hadSpace {
		return "/*" + sig + name + "*/"
	}
	return "/* " + sig + name + " */"
}

func orderByItemsText(cfg config.Config, items []*cst.OrderByItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		s := exprTextP(cfg, it.Expr, 0)
		if it.Collate != nil {
			s += " " + kw(cfg, "COLLATE") + " " + *it.Collate
		}
		if it.Direction != nil {
			s += " " + kw(cfg, strings.ToUpper(*it.Direction))
		}
		if it.Nulls != nil {
			s += " " + kw(cfg, "NULLS") + " " + kw(cfg, strings.ToUpper(*it.Nulls))
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}

func windowSpecText(cfg config.Config, ws *cst.WindowSpec) string {
	if ws.Name != nil && ws.PartitionBy == nil && ws.OrderBy == nil && ws.Frame == nil {
		return identText(cfg, *ws.Name, false)
	}
	var parts []string
	if ws.Name != nil {
		parts = append(parts, identText(cfg, *ws.Name, false))
	}
	if len(ws.PartitionBy) > 0 {
		items := make([]string, len(ws.PartitionBy))
		for i, p := range ws.PartitionBy {
			items[i] = exprTextP(cfg, p, 0)
		}
		parts = append(parts, kw(cfg, "PARTITION")+" "+kw(cfg, "BY")+" "+strings.Join(items, ", "))
	}
	if len(ws.OrderBy) > 0 {
		parts = append(parts, kw(cfg, "ORDER")+" "+kw(cfg, "BY")+" "+orderByItemsText(cfg, ws.OrderBy))
	}
	if ws.Frame != nil {
		parts = append(parts, frameSpecText(cfg, ws.Frame))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func frameSpecText(cfg config.Config, fs *cst.FrameSpec) string {
	mode := kw(cfg, fs.Mode)
	if fs.End != nil {
		return mode + " " + kw(cfg, "BETWEEN") + " " + frameBoundText(cfg, fs.Start) + " " + kw(cfg, "AND") + " " + frameBoundText(cfg, *fs.End)
	}
	return mode + " " + frameBoundText(cfg, fs.Start)
}

func frameBoundText(cfg config.Config, b cst.FrameBound) string {
	switch b.Kind {
	case cst.FrameUnboundedPreceding:
		return kw(cfg, "UNBOUNDED") + " " + kw(cfg, "PRECEDING")
	case cst.FrameUnboundedFollowing:
		return kw(cfg, "UNBOUNDED") + " " + kw(cfg, "FOLLOWING")
	case cst.FrameCurrentRow:
		return kw(cfg, "CURRENT") + " " + kw(cfg, "ROW")
	case cst.FrameExprPreceding:
		return exprTextP(cfg, b.Offset, 0) + " " + kw(cfg, "PRECEDING")
	case cst.FrameExprFollowing:
		return exprTextP(cfg, b.Offset, 0) + " " + kw(cfg, "FOLLOWING")
	default:
		return ""
	}
}

// flatStatementText renders a SELECT as one line, for use where it's
// embedded inside an expression (scalar subquery, IN (...), EXISTS (...))
// rather than standing as its own Layout Statement. Nested WITH clauses
// on an inline subquery are rare enough in practice that this renders
// only the SELECT itself; a WITH-bearing inline subquery still formats
// correctly at the top level, just not when nested inside another
// expression, a scope limitation documented in DESIGN.md.
func flatStatementText(cfg config.Config, sel *cst.SelectStmt) string {
	var sb strings.Builder
	sb.WriteString(kw(cfg, "SELECT"))
	if sel.Distinct {
		sb.WriteString(" " + kw(cfg, "DISTINCT"))
		if len(sel.DistinctOn) > 0 {
			items := make([]string, len(sel.DistinctOn))
			for i, e := range sel.DistinctOn {
				items[i] = exprTextP(cfg, e, 0)
			}
			sb.WriteString(" " + kw(cfg, "ON") + " (" + strings.Join(items, ", ") + ")")
		}
	}
	parts := make([]string, len(sel.Items))
	for i, it := range sel.Items {
		parts[i] = selectItemText(cfg, it)
	}
	sb.WriteString(" " + strings.Join(parts, ", "))
	if sel.From != nil {
		sb.WriteString(" " + kw(cfg, "FROM") + " " + fromClauseFlatText(cfg, sel.From))
	}
	if sel.Where != nil {
		sb.WriteString(" " + kw(cfg, "WHERE") + " " + exprTextP(cfg, sel.Where.Condition, 0))
	}
	if sel.GroupBy != nil {
		items := make([]string, len(sel.GroupBy.Items))
		for i, e := range sel.GroupBy.Items {
			items[i] = exprTextP(cfg, e, 0)
		}
		sb.WriteString(" " + kw(cfg, "GROUP") + " " + kw(cfg, "BY") + " " + strings.Join(items, ", "))
	}
	if sel.Having != nil {
		sb.WriteString(" " + kw(cfg, "HAVING") + " " + exprTextP(cfg, sel.Having.Condition, 0))
	}
	if sel.OrderBy != nil {
		sb.WriteString(" " + kw(cfg, "ORDER") + " " + kw(cfg, "BY") + " " + orderByItemsText(cfg, sel.OrderBy.Items))
	}
	if sel.Limit != nil {
		if sel.Limit.Count != nil {
			sb.WriteString(" " + kw(cfg, "LIMIT") + " " + exprTextP(cfg, sel.Limit.Count, 0))
		}
		if sel.Limit.Offset != nil {
			sb.WriteString(" " + kw(cfg, "OFFSET") + " " + exprTextP(cfg, sel.Limit.Offset, 0))
		}
	}
	return sb.String()
}

// selectItemText renders a full SELECT/RETURNING item as one inline
// string (expr [AS] alias), for contexts that don't get their own
// AlignedList — currently only flatStatementText's inline subquery
// rendering. The AlignedList path (pkg/translate/build.go's
// selectItemRow) keeps expr/AS/alias as separate cells instead, so they
// column-align down the list the way spec's clause-shape table requires.
func selectItemText(cfg config.Config, it *cst.SelectItem) string {
	base := selectItemBaseText(cfg, it)
	alias := resolvedAlias(cfg, it)
	if alias == nil {
		return base
	}
	as := ""
	if it.AliasHasAS || cfg.ComplementColumnAsKeyword {
		as = kw(cfg, "AS") + " "
	}
	return base + " " + as + identText(cfg, *alias, false)
}

func selectItemBaseText(cfg config.Config, it *cst.SelectItem) string {
	switch {
	case it.StarQualifier != nil:
		return identText(cfg, *it.StarQualifier, false) + ".*"
	case it.Star:
		return "*"
	default:
		return exprTextP(cfg, it.Expr, 0)
	}
}

// resolvedAlias names a SELECT item's output alias, inferring one from a
// bare column reference when cfg.ComplementAlias is set and the item has
// none of its own.
func resolvedAlias(cfg config.Config, it *cst.SelectItem) *string {
	if it.Alias != nil {
		return it.Alias
	}
	if cfg.ComplementAlias && !it.Star && it.StarQualifier == nil {
		if name, ok := inferAlias(it.Expr); ok {
			return &name
		}
	}
	return nil
}

// inferAlias names the column an expression refers to, for
// ComplementAlias: only a bare or qualified identifier has an obvious
// single-column name, so anything else (a call, a literal, an operator
// expression) is left without an inferred alias.
func inferAlias(e cst.Expr) (string, bool) {
	switch v := e.(type) {
	case *cst.Ident:
		return v.Name, true
	case *cst.QualifiedIdent:
		if len(v.Parts) > 0 {
			return v.Parts[len(v.Parts)-1].Name, true
		}
	}
	return "", false
}

func fromClauseFlatText(cfg config.Config, fc *cst.FromClause) string {
	var sb strings.Builder
	sb.WriteString(fromItemText(cfg, &fc.Seed))
	for _, j := range fc.Joins {
		sb.WriteString(" " + joinKeywordText(cfg, j) + " " + fromItemText(cfg, &j.Item))
		if j.On != nil {
			sb.WriteString(" " + kw(cfg, "ON") + " " + exprTextP(cfg, j.On, 0))
		}
		if len(j.Using) > 0 {
			sb.WriteString(" " + kw(cfg, "USING") + " (" + strings.Join(j.Using, ", ") + ")")
		}
	}
	return sb.String()
}

func joinKeywordText(cfg config.Config, j *cst.Join) string {
	var kws []string
	if j.Natural {
		kws = append(kws, "NATURAL")
	}
	switch j.Kind {
	case cst.JoinInner:
		kws = append(kws, "INNER")
	case cst.JoinLeft:
		kws = append(kws, "LEFT")
	case cst.JoinRight:
		kws = append(kws, "RIGHT")
	case cst.JoinFull:
		kws = append(kws, "FULL")
	case cst.JoinCross:
		return kw(cfg, "CROSS") + " " + kw(cfg, "JOIN")
	}
	if (j.Kind == cst.JoinLeft || j.Kind == cst.JoinRight || j.Kind == cst.JoinFull) &&
		(j.Outer || cfg.ComplementOuterKeyword) {
		kws = append(kws, "OUTER")
	}
	kws = append(kws, "JOIN")
	for i, w := range kws {
		kws[i] = kw(cfg, w)
	}
	return strings.Join(kws, " ")
}

func fromItemText(cfg config.Config, fi *cst.FromItem) string {
	var sb strings.Builder
	if fi.Lateral {
		sb.WriteString(kw(cfg, "LATERAL") + " ")
	}
	switch {
	case fi.Subquery != nil:
		sb.WriteString("(" + flatStatementText(cfg, fi.Subquery) + ")")
	case fi.Function != nil:
		sb.WriteString(exprTextP(cfg, fi.Function, 0))
	case fi.Table != nil:
		sb.WriteString(tableNameText(cfg, fi.Table))
	}
	if fi.WithOrdinality {
		sb.WriteString(" " + kw(cfg, "WITH") + " " + kw(cfg, "ORDINALITY"))
	}
	if fi.Alias != nil {
		as := ""
		if fi.AliasHasAS && !(cfg.RemoveTableAsKeyword && !fi.WithOrdinality) {
			as = kw(cfg, "AS") + " "
		} else if fi.WithOrdinality {
			as = kw(cfg, "AS") + " "
		}
		sb.WriteString(" " + as + identText(cfg, *fi.Alias, false))
		if fi.WithOrdinality && len(fi.OrdinalityDefs) > 0 {
			defs := make([]string, len(fi.OrdinalityDefs))
			for i, d := range fi.OrdinalityDefs {
				defs[i] = identText(cfg, d.Name, false) + " " + d.Type
			}
			sb.WriteString("(" + strings.Join(defs, ", ") + ")")
		} else if len(fi.ColumnAliases) > 0 {
			sb.WriteString("(" + strings.Join(fi.ColumnAliases, ", ") + ")")
		}
	}
	return sb.String()
}

func tableNameText(cfg config.Config, tn *cst.TableName) string {
	if tn.Schema != nil {
		return identText(cfg, tn.Schema.Name, tn.Schema.Quoted) + "." + identText(cfg, tn.Name.Name, tn.Name.Quoted)
	}
	return identText(cfg, tn.Name.Name, tn.Name.Quoted)
}
