package pgparse

import (
	"strings"

	"github.com/pgfmt/sqlfmt/pkg/cst"
	"github.com/pgfmt/sqlfmt/pkg/token"
)

func (p *parser) parseSelectStmt() (*cst.SelectStmt, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	start := p.cur().span.Start
	sel := &cst.SelectStmt{}

	if p.isKw("WITH") {
		wc, err := p.parseWithClause()
		if err != nil {
			return nil, err
		}
		sel.With = wc
	}

	if _, err := p.expectKw("SELECT"); err != nil {
		return nil, err
	}

	if p.isKw("DISTINCT") {
		p.advance()
		sel.Distinct = true
		if p.isKw("ON") {
			p.advance()
			if _, err := p.expectPunct("("); err != nil {
				return nil, err
			}
			for {
				e, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				sel.DistinctOn = append(sel.DistinctOn, e)
				if p.isPunct(",") {
					p.advance()
					continue
				}
				break
			}
			if _, err := p.expectPunct(")"); err != nil {
				return nil, err
			}
		}
	} else if p.isKw("ALL") {
		p.advance()
	}

	items, err := p.parseSelectItems()
	if err != nil {
		return nil, err
	}
	sel.Items = items

	if p.isKw("FROM") {
		p.advance()
		fc, err := p.parseFromClause()
		if err != nil {
			return nil, err
		}
		sel.From = fc
	}

	if p.isKw("WHERE") {
		wTok := p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		sel.Where = &cst.WhereClause{Base: cst.NewBase(token.Span{Start: wTok.span.Start, End: cond.Span().End}), Condition: cond}
	}

	if p.isKw("GROUP") {
		gTok := p.advance()
		if _, err := p.expectKw("BY"); err != nil {
			return nil, err
		}
		var gitems []cst.Expr
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			gitems = append(gitems, e)
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
		sel.GroupBy = &cst.GroupByClause{Base: cst.NewBase(token.Span{Start: gTok.span.Start, End: p.prevEnd()}), Items: gitems}
	}

	if p.isKw("HAVING") {
		hTok := p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		sel.Having = &cst.HavingClause{Base: cst.NewBase(token.Span{Start: hTok.span.Start, End: cond.Span().End}), Condition: cond}
	}

	if p.isKw("ORDER") {
		oTok := p.advance()
		if _, err := p.expectKw("BY"); err != nil {
			return nil, err
		}
		obItems, err := p.parseOrderByItems()
		if err != nil {
			return nil, err
		}
		sel.OrderBy = &cst.OrderByClause{Base: cst.NewBase(token.Span{Start: oTok.span.Start, End: p.prevEnd()}), Items: obItems}
	}

	if p.isKw("LIMIT") {
		lTok := p.advance()
		var count, offset cst.Expr
		if p.isKw("ALL") {
			p.advance()
		} else {
			c, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			count = c
		}
		if p.isKw("OFFSET") {
			p.advance()
			o, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			offset = o
		}
		sel.Limit = &cst.LimitClause{Base: cst.NewBase(token.Span{Start: lTok.span.Start, End: p.prevEnd()}), Count: count, Offset: offset}
	} else if p.isKw("OFFSET") {
		oTok := p.advance()
		o, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		sel.Limit = &cst.LimitClause{Base: cst.NewBase(token.Span{Start: oTok.span.Start, End: o.Span().End}), Offset: o}
	}

	if p.isKw("FOR") {
		fl, err := p.parseForLocking()
		if err != nil {
			return nil, err
		}
		sel.ForLocking = fl
	}

	sel.Base = cst.NewBase(token.Span{Start: start, End: p.prevEnd()})
	return sel, nil
}

func (p *parser) parseWithClause() (*cst.WithClause, error) {
	startTok, err := p.expectKw("WITH")
	if err != nil {
		return nil, err
	}
	wc := &cst.WithClause{}
	if p.isKw("RECURSIVE") {
		p.advance()
		wc.Recursive = true
	}
	for {
		cte, err := p.parseCTE()
		if err != nil {
			return nil, err
		}
		wc.CTEs = append(wc.CTEs, cte)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	wc.Base = cst.NewBase(token.Span{Start: startTok.span.Start, End: p.prevEnd()})
	return wc, nil
}

func (p *parser) parseCTE() (*cst.CTE, error) {
	nameTok := p.cur()
	if nameTok.kind != token.Identifier && nameTok.kind != token.QuotedIdentifier {
		return nil, p.errf("expected CTE name")
	}
	p.advance()
	cte := &cst.CTE{Name: nameTok.text}

	if p.isPunct("(") {
		p.advance()
		for {
			colTok := p.cur()
			if colTok.kind != token.Identifier && colTok.kind != token.QuotedIdentifier {
				return nil, p.errf("expected column name")
			}
			p.advance()
			cte.Columns = append(cte.Columns, colTok.text)
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}
	}

	if _, err := p.expectKw("AS"); err != nil {
		return nil, err
	}

	if p.isKw("MATERIALIZED") {
		p.advance()
		t := true
		cte.Materialized = &t
	} else if p.isKw("NOT") && p.isKwAt(1, "MATERIALIZED") {
		p.advance()
		p.advance()
		f := false
		cte.Materialized = &f
	}

	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	sel, err := p.parseSelectStmt()
	if err != nil {
		return nil, err
	}
	cte.Query = sel
	closeTok, err := p.expectPunct(")")
	if err != nil {
		return nil, err
	}
	cte.Base = cst.NewBase(token.Span{Start: nameTok.span.Start, End: closeTok.span.End})
	return cte, nil
}

func (p *parser) parseSelectItems() ([]*cst.SelectItem, error) {
	var items []*cst.SelectItem
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	return items, nil
}

func (p *parser) parseSelectItem() (*cst.SelectItem, error) {
	start := p.cur().span.Start
	si := &cst.SelectItem{}

	if p.isPunct("*") {
		p.advance()
		si.Star = true
		si.Base = cst.NewBase(token.Span{Start: start, End: p.prevEnd()})
		return si, nil
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if star, ok := expr.(*cst.StarIndirection); ok {
		qualText := joinIdentParts(star.Qualifier.Parts)
		si.Star = true
		si.StarQualifier = &qualText
		si.Base = cst.NewBase(star.Span())
		return si, nil
	}

	si.Expr = expr
	end := expr.Span().End
	if p.isKw("AS") {
		p.advance()
		aliasTok := p.cur()
		if aliasTok.kind != token.Identifier && aliasTok.kind != token.QuotedIdentifier {
			return nil, p.errf("expected alias after AS")
		}
		p.advance()
		si.Alias = &aliasTok.text
		si.AliasHasAS = true
		end = aliasTok.span.End
	} else if p.cur().kind == token.Identifier || p.cur().kind == token.QuotedIdentifier {
		aliasTok := p.advance()
		si.Alias = &aliasTok.text
		end = aliasTok.span.End
	}

	si.Base = cst.NewBase(token.Span{Start: start, End: end})
	return si, nil
}

func joinIdentParts(parts []*cst.Ident) string {
	names := make([]string, len(parts))
	for i, pt := range parts {
		names[i] = pt.Name
	}
	return strings.Join(names, ".")
}

func (p *parser) parseFromClause() (*cst.FromClause, error) {
	start := p.cur().span.Start
	seed, err := p.parseFromItem()
	if err != nil {
		return nil, err
	}
	fc := &cst.FromClause{Seed: *seed}
	for {
		join, err := p.tryParseJoin()
		if err != nil {
			return nil, err
		}
		if join == nil {
			break
		}
		fc.Joins = append(fc.Joins, join)
	}
	fc.Base = cst.NewBase(token.Span{Start: start, End: p.prevEnd()})
	return fc, nil
}

func (p *parser) tryParseJoin() (*cst.Join, error) {
	start := p.cur().span.Start

	if p.isPunct(",") {
		p.advance()
		item, err := p.parseFromItem()
		if err != nil {
			return nil, err
		}
		return &cst.Join{Base: cst.NewBase(token.Span{Start: start, End: item.Span().End}), Kind: cst.JoinCross, Item: *item}, nil
	}

	natural := false
	if p.isKw("NATURAL") {
		natural = true
		p.advance()
	}

	kind := cst.JoinPlain
	outer := false
	switch {
	case p.isKw("JOIN"):
	case p.isKw("INNER"):
		p.advance()
		kind = cst.JoinInner
	case p.isKw("LEFT"):
		p.advance()
		kind = cst.JoinLeft
		if p.isKw("OUTER") {
			p.advance()
			outer = true
		}
	case p.isKw("RIGHT"):
		p.advance()
		kind = cst.JoinRight
		if p.isKw("OUTER") {
			p.advance()
			outer = true
		}
	case p.isKw("FULL"):
		p.advance()
		kind = cst.JoinFull
		if p.isKw("OUTER") {
			p.advance()
			outer = true
		}
	case p.isKw("CROSS"):
		p.advance()
		kind = cst.JoinCross
	default:
		if !natural {
			return nil, nil
		}
	}

	if _, err := p.expectKw("JOIN"); err != nil {
		return nil, err
	}
	item, err := p.parseFromItem()
	if err != nil {
		return nil, err
	}
	j := &cst.Join{Kind: kind, Outer: outer, Natural: natural, Item: *item}

	if p.isKw("ON") {
		p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		j.On = cond
	} else if p.isKw("USING") {
		p.advance()
		if _, err := p.expectPunct("("); err != nil {
			return nil, err
		}
		for {
			colTok := p.cur()
			if colTok.kind != token.Identifier && colTok.kind != token.QuotedIdentifier {
				return nil, p.errf("expected column name in USING")
			}
			p.advance()
			j.Using = append(j.Using, colTok.text)
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}
	}

	j.Base = cst.NewBase(token.Span{Start: start, End: p.prevEnd()})
	return j, nil
}

func (p *parser) parseFromItem() (*cst.FromItem, error) {
	start := p.cur().span.Start
	fi := &cst.FromItem{}

	if p.isKw("LATERAL") {
		p.advance()
		fi.Lateral = true
	}

	switch {
	case p.isPunct("("):
		p.advance()
		sel, err := p.parseSelectStmt()
		if err != nil {
			return nil, err
		}
		fi.Subquery = sel
		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}

	case p.cur().kind == token.Identifier || p.cur().kind == token.QuotedIdentifier:
		firstTok := p.advance()
		if p.isPunct(".") {
			p.advance()
			nameTok := p.cur()
			if nameTok.kind != token.Identifier && nameTok.kind != token.QuotedIdentifier {
				return nil, p.errf("expected name after '.'")
			}
			p.advance()
			idParts := []*cst.Ident{
				{Base: cst.NewBase(firstTok.span), Name: firstTok.text, Quoted: firstTok.kind == token.QuotedIdentifier},
				{Base: cst.NewBase(nameTok.span), Name: nameTok.text, Quoted: nameTok.kind == token.QuotedIdentifier},
			}
			if p.isPunct("(") {
				fn, err := p.parseFuncCallTail(idParts, firstTok)
				if err != nil {
					return nil, err
				}
				fi.Function = fn.(*cst.FuncCall)
			} else {
				fi.Table = &cst.TableName{
					Base:   cst.NewBase(token.Span{Start: firstTok.span.Start, End: nameTok.span.End}),
					Schema: idParts[0],
					Name:   idParts[1],
				}
			}
		} else if p.isPunct("(") {
			idParts := []*cst.Ident{{Base: cst.NewBase(firstTok.span), Name: firstTok.text, Quoted: firstTok.kind == token.QuotedIdentifier}}
			fn, err := p.parseFuncCallTail(idParts, firstTok)
			if err != nil {
				return nil, err
			}
			fi.Function = fn.(*cst.FuncCall)
		} else {
			fi.Table = &cst.TableName{
				Base: cst.NewBase(firstTok.span),
				Name: &cst.Ident{Base: cst.NewBase(firstTok.span), Name: firstTok.text, Quoted: firstTok.kind == token.QuotedIdentifier},
			}
		}

	default:
		return nil, p.errf("expected table, function, or subquery in FROM")
	}

	if p.isKw("WITH") && p.isKwAt(1, "ORDINALITY") {
		p.advance()
		p.advance()
		fi.WithOrdinality = true
	}

	if p.isKw("AS") {
		p.advance()
		aliasTok := p.cur()
		if aliasTok.kind != token.Identifier && aliasTok.kind != token.QuotedIdentifier {
			return nil, p.errf("expected alias after AS")
		}
		p.advance()
		fi.Alias = &aliasTok.text
		fi.AliasHasAS = true
	} else if p.cur().kind == token.Identifier || p.cur().kind == token.QuotedIdentifier {
		aliasTok := p.advance()
		fi.Alias = &aliasTok.text
	}

	if p.isPunct("(") {
		p.advance()
		for {
			if fi.WithOrdinality {
				colTok := p.cur()
				if colTok.kind != token.Identifier && colTok.kind != token.QuotedIdentifier {
					return nil, p.errf("expected column name")
				}
				p.advance()
				typ, _, err := p.parseTypeName()
				if err != nil {
					return nil, err
				}
				fi.OrdinalityDefs = append(fi.OrdinalityDefs, cst.ColumnDef{Name: colTok.text, Type: typ})
			} else {
				colTok := p.cur()
				if colTok.kind != token.Identifier && colTok.kind != token.QuotedIdentifier {
					return nil, p.errf("expected column alias")
				}
				p.advance()
				fi.ColumnAliases = append(fi.ColumnAliases, colTok.text)
			}
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}
	}

	fi.Base = cst.NewBase(token.Span{Start: start, End: p.prevEnd()})
	return fi, nil
}

func (p *parser) parseForLocking() (*cst.ForLockingClause, error) {
	startTok, err := p.expectKw("FOR")
	if err != nil {
		return nil, err
	}
	flc := &cst.ForLockingClause{}
	switch {
	case p.isKw("UPDATE"):
		p.advance()
		flc.Strength = "UPDATE"
	case p.isKw("NO"):
		p.advance()
		if _, err := p.expectKw("KEY"); err != nil {
			return nil, err
		}
		if _, err := p.expectKw("UPDATE"); err != nil {
			return nil, err
		}
		flc.Strength = "NO KEY UPDATE"
	case p.isKw("SHARE"):
		p.advance()
		flc.Strength = "SHARE"
	case p.isKw("KEY"):
		p.advance()
		if _, err := p.expectKw("SHARE"); err != nil {
			return nil, err
		}
		flc.Strength = "KEY SHARE"
	default:
		return nil, p.errf("expected UPDATE, SHARE, NO KEY UPDATE, or KEY SHARE after FOR")
	}

	if p.isKw("OF") {
		p.advance()
		for {
			nameTok := p.cur()
			if nameTok.kind != token.Identifier && nameTok.kind != token.QuotedIdentifier {
				return nil, p.errf("expected table name after OF")
			}
			p.advance()
			flc.Of = append(flc.Of, nameTok.text)
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
	}
	if p.isKw("NOWAIT") {
		p.advance()
		flc.NoWait = true
	}
	if p.isKw("SKIP") {
		p.advance()
		if _, err := p.expectKw("LOCKED"); err != nil {
			return nil, err
		}
		flc.SkipLock = true
	}

	flc.Base = cst.NewBase(token.Span{Start: startTok.span.Start, End: p.prevEnd()})
	return flc, nil
}

func (p *parser) parseTableName() (*cst.TableName, error) {
	firstTok := p.cur()
	if firstTok.kind != token.Identifier && firstTok.kind != token.QuotedIdentifier {
		return nil, p.errf("expected table name")
	}
	p.advance()
	tn := &cst.TableName{
		Base: cst.NewBase(firstTok.span),
		Name: &cst.Ident{Base: cst.NewBase(firstTok.span), Name: firstTok.text, Quoted: firstTok.kind == token.QuotedIdentifier},
	}
	if p.isPunct(".") {
		p.advance()
		nameTok := p.cur()
		if nameTok.kind != token.Identifier && nameTok.kind != token.QuotedIdentifier {
			return nil, p.errf("expected table name after '.'")
		}
		p.advance()
		tn.Schema = tn.Name
		tn.Name = &cst.Ident{Base: cst.NewBase(nameTok.span), Name: nameTok.text, Quoted: nameTok.kind == token.QuotedIdentifier}
		tn.Base = cst.NewBase(token.Span{Start: firstTok.span.Start, End: nameTok.span.End})
	}
	return tn, nil
}

func (p *parser) parseSetItems() ([]*cst.SetItem, error) {
	var items []*cst.SetItem
	for {
		start := p.cur().span.Start
		nameTok := p.cur()
		if nameTok.kind != token.Identifier && nameTok.kind != token.QuotedIdentifier {
			return nil, p.errf("expected column name in SET")
		}
		p.advance()
		if _, err := p.expectPunct("="); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, &cst.SetItem{Base: cst.NewBase(token.Span{Start: start, End: expr.Span().End}), Target: nameTok.text, Expr: expr})
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	return items, nil
}

func (p *parser) parseOnConflict() (*cst.OnConflictClause, error) {
	startTok, err := p.expectKw("ON")
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKw("CONFLICT"); err != nil {
		return nil, err
	}
	oc := &cst.OnConflictClause{}

	if p.isPunct("(") {
		p.advance()
		for {
			colTok := p.cur()
			if colTok.kind != token.Identifier && colTok.kind != token.QuotedIdentifier {
				return nil, p.errf("expected column name")
			}
			p.advance()
			oc.Columns = append(oc.Columns, colTok.text)
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}
	}

	if p.isKw("ON") && p.isKwAt(1, "CONSTRAINT") {
		p.advance()
		p.advance()
		nameTok := p.cur()
		if nameTok.kind != token.Identifier && nameTok.kind != token.QuotedIdentifier {
			return nil, p.errf("expected constraint name")
		}
		p.advance()
		oc.Constraint = &nameTok.text
	}

	if _, err := p.expectKw("DO"); err != nil {
		return nil, err
	}
	switch {
	case p.isKw("NOTHING"):
		p.advance()
		oc.DoNothing = true
	case p.isKw("UPDATE"):
		p.advance()
		if _, err := p.expectKw("SET"); err != nil {
			return nil, err
		}
		items, err := p.parseSetItems()
		if err != nil {
			return nil, err
		}
		oc.SetList = items
		if p.isKw("WHERE") {
			p.advance()
			cond, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			oc.Where = cond
		}
	default:
		return nil, p.errf("expected NOTHING or UPDATE after DO")
	}

	oc.Base = cst.NewBase(token.Span{Start: startTok.span.Start, End: p.prevEnd()})
	return oc, nil
}

func (p *parser) parseInsertStmt() (*cst.InsertStmt, error) {
	startTok, err := p.expectKw("INSERT")
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKw("INTO"); err != nil {
		return nil, err
	}
	table, err := p.parseTableName()
	if err != nil {
		return nil, err
	}
	ins := &cst.InsertStmt{Table: table}

	if p.isPunct("(") {
		p.advance()
		for {
			colTok := p.cur()
			if colTok.kind != token.Identifier && colTok.kind != token.QuotedIdentifier {
				return nil, p.errf("expected column name")
			}
			p.advance()
			ins.Columns = append(ins.Columns, colTok.text)
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}
	}

	switch {
	case p.isKw("VALUES"):
		p.advance()
		for {
			if _, err := p.expectPunct("("); err != nil {
				return nil, err
			}
			var row []cst.Expr
			for {
				var e cst.Expr
				if p.isKw("DEFAULT") {
					tok := p.advance()
					e = &cst.Ident{Base: cst.NewBase(tok.span), Name: "DEFAULT"}
				} else {
					var perr error
					e, perr = p.parseExpr()
					if perr != nil {
						return nil, perr
					}
				}
				row = append(row, e)
				if p.isPunct(",") {
					p.advance()
					continue
				}
				break
			}
			if _, err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			ins.Values = append(ins.Values, row)
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
	case p.isKw("SELECT") || p.isKw("WITH"):
		sel, err := p.parseSelectStmt()
		if err != nil {
			return nil, err
		}
		ins.Select = sel
	default:
		return nil, p.errf("expected VALUES or SELECT in INSERT")
	}

	if p.isKw("ON") {
		oc, err := p.parseOnConflict()
		if err != nil {
			return nil, err
		}
		ins.OnConflict = oc
	}
	if p.isKw("RETURNING") {
		p.advance()
		items, err := p.parseSelectItems()
		if err != nil {
			return nil, err
		}
		ins.Returning = items
	}

	ins.Base = cst.NewBase(token.Span{Start: startTok.span.Start, End: p.prevEnd()})
	return ins, nil
}

func (p *parser) parseUpdateStmt() (*cst.UpdateStmt, error) {
	startTok, err := p.expectKw("UPDATE")
	if err != nil {
		return nil, err
	}
	table, err := p.parseTableName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKw("SET"); err != nil {
		return nil, err
	}
	setList, err := p.parseSetItems()
	if err != nil {
		return nil, err
	}
	upd := &cst.UpdateStmt{Table: table, SetList: setList}

	if p.isKw("FROM") {
		p.advance()
		fc, err := p.parseFromClause()
		if err != nil {
			return nil, err
		}
		upd.From = fc
	}
	if p.isKw("WHERE") {
		wTok := p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		upd.Where = &cst.WhereClause{Base: cst.NewBase(token.Span{Start: wTok.span.Start, End: cond.Span().End}), Condition: cond}
	}
	if p.isKw("RETURNING") {
		p.advance()
		items, err := p.parseSelectItems()
		if err != nil {
			return nil, err
		}
		upd.Returning = items
	}

	upd.Base = cst.NewBase(token.Span{Start: startTok.span.Start, End: p.prevEnd()})
	return upd, nil
}

func (p *parser) parseDeleteStmt() (*cst.DeleteStmt, error) {
	startTok, err := p.expectKw("DELETE")
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKw("FROM"); err != nil {
		return nil, err
	}
	table, err := p.parseTableName()
	if err != nil {
		return nil, err
	}
	del := &cst.DeleteStmt{Table: table}

	if p.isKw("USING") {
		p.advance()
		fc, err := p.parseFromClause()
		if err != nil {
			return nil, err
		}
		del.Using = fc
	}
	if p.isKw("WHERE") {
		wTok := p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		del.Where = &cst.WhereClause{Base: cst.NewBase(token.Span{Start: wTok.span.Start, End: cond.Span().End}), Condition: cond}
	}
	if p.isKw("RETURNING") {
		p.advance()
		items, err := p.parseSelectItems()
		if err != nil {
			return nil, err
		}
		del.Returning = items
	}

	del.Base = cst.NewBase(token.Span{Start: startTok.span.Start, End: p.prevEnd()})
	return del, nil
}
