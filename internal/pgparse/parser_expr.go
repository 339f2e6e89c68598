package pgparse

import (
	"strings"

	"github.com/pgfmt/sqlfmt/pkg/cst"
	"github.com/pgfmt/sqlfmt/pkg/token"
)

// binPrec gives each binary operator its precedence tier. AND/OR sit
// below the special tier (BETWEEN/IN/LIKE/IS), which in turn sits below
// comparison, matching Postgres's operator precedence table closely
// enough for round-tripping well-formed SQL; the renderer never needs to
// reconstruct precedence since every node already carries its shape.
var binPrec = map[string]int{
	"OR": 1,
	"AND": 2,
	"=": 4, "<>": 4, "!=": 4, "<": 4, ">": 4, "<=": 4, ">=": 4,
	"||": 5,
	"+": 6, "-": 6,
	"*": 7, "/": 7, "%": 7,
	"^": 8,
}

// specialPrec is the tier occupied by BETWEEN/IN/LIKE/ILIKE/IS, between
// AND and the comparison operators.
const specialPrec = 3

func (p *parser) parseExpr() (cst.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	return p.parseBinary(1)
}

func (p *parser) parseBinary(minPrec int) (cst.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		if minPrec <= specialPrec {
			next, matched, err := p.tryParseSpecial(left)
			if err != nil {
				return nil, err
			}
			if matched {
				left = next
				continue
			}
		}
		opText, prec, isOp := p.peekBinOp()
		if !isOp || prec < minPrec {
			return left, nil
		}
		p.advance()
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &cst.BinaryExpr{
			Base:  cst.NewBase(token.Span{Start: left.Span().Start, End: right.Span().End}),
			Left:  left,
			Op:    opText,
			Right: right,
		}
	}
}

func (p *parser) peekBinOp() (string, int, bool) {
	c := p.cur()
	var text string
	switch {
	case c.kind == token.Keyword && (upper(c.text) == "AND" || upper(c.text) == "OR"):
		text = upper(c.text)
	case c.kind == token.Operator:
		text = c.text
	default:
		return "", 0, false
	}
	prec, ok := binPrec[text]
	return text, prec, ok
}

// tryParseSpecial handles the postfix forms that aren't ordinary binary
// operators: [NOT] BETWEEN/IN/LIKE/ILIKE, and IS [NOT] NULL/TRUE/FALSE.
func (p *parser) tryParseSpecial(left cst.Expr) (cst.Expr, bool, error) {
	not := false
	if p.isKw("NOT") && (p.isKwAt(1, "BETWEEN") || p.isKwAt(1, "IN") || p.isKwAt(1, "LIKE") || p.isKwAt(1, "ILIKE")) {
		not = true
		p.advance()
	}
	switch {
	case p.isKw("BETWEEN"):
		p.advance()
		low, err := p.parseBinary(specialPrec + 1)
		if err != nil {
			return nil, false, err
		}
		if _, err := p.expectKw("AND"); err != nil {
			return nil, false, err
		}
		high, err := p.parseBinary(specialPrec + 1)
		if err != nil {
			return nil, false, err
		}
		return &cst.BetweenExpr{
			Base: cst.NewBase(token.Span{Start: left.Span().Start, End: high.Span().End}),
			Expr: left, Not: not, Low: low, High: high,
		}, true, nil

	case p.isKw("IN"):
		p.advance()
		if _, err := p.expectPunct("("); err != nil {
			return nil, false, err
		}
		if p.isKw("SELECT") || p.isKw("WITH") {
			sel, err := p.parseSelectStmt()
			if err != nil {
				return nil, false, err
			}
			closeTok, err := p.expectPunct(")")
			if err != nil {
				return nil, false, err
			}
			return &cst.InExpr{
				Base: cst.NewBase(token.Span{Start: left.Span().Start, End: closeTok.span.End}),
				Expr: left, Not: not, Subquery: sel,
			}, true, nil
		}
		var list []cst.Expr
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, false, err
			}
			list = append(list, e)
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
		closeTok, err := p.expectPunct(")")
		if err != nil {
			return nil, false, err
		}
		return &cst.InExpr{
			Base: cst.NewBase(token.Span{Start: left.Span().Start, End: closeTok.span.End}),
			Expr: left, Not: not, List: list,
		}, true, nil

	case p.isKw("LIKE") || p.isKw("ILIKE"):
		ilike := p.isKw("ILIKE")
		p.advance()
		pattern, err := p.parseBinary(specialPrec + 1)
		if err != nil {
			return nil, false, err
		}
		end := pattern.Span().End
		var escape cst.Expr
		if p.isKw("ESCAPE") {
			p.advance()
			escape, err = p.parseBinary(specialPrec + 1)
			if err != nil {
				return nil, false, err
			}
			end = escape.Span().End
		}
		return &cst.LikeExpr{
			Base: cst.NewBase(token.Span{Start: left.Span().Start, End: end}),
			Expr: left, Not: not, ILike: ilike, Pattern: pattern, Escape: escape,
		}, true, nil

	case p.isKw("IS"):
		p.advance()
		isNot := false
		if p.isKw("NOT") {
			isNot = true
			p.advance()
		}
		switch {
		case p.isKw("NULL"):
			endTok := p.advance()
			return &cst.IsNullExpr{Base: cst.NewBase(token.Span{Start: left.Span().Start, End: endTok.span.End}), Expr: left, Not: isNot}, true, nil
		case p.isKw("TRUE"):
			endTok := p.advance()
			return &cst.IsBoolExpr{Base: cst.NewBase(token.Span{Start: left.Span().Start, End: endTok.span.End}), Expr: left, Not: isNot, Value: true}, true, nil
		case p.isKw("FALSE"):
			endTok := p.advance()
			return &cst.IsBoolExpr{Base: cst.NewBase(token.Span{Start: left.Span().Start, End: endTok.span.End}), Expr: left, Not: isNot, Value: false}, true, nil
		default:
			return nil, false, p.errf("expected NULL, TRUE, or FALSE after IS")
		}

	default:
		return left, false, nil
	}
}

func (p *parser) parseUnary() (cst.Expr, error) {
	if p.isKw("NOT") {
		tok := p.advance()
		operand, err := p.parseBinary(specialPrec)
		if err != nil {
			return nil, err
		}
		return &cst.PrefixExpr{Base: cst.NewBase(token.Span{Start: tok.span.Start, End: operand.Span().End}), Op: "NOT", Operand: operand}, nil
	}
	if p.isPunct("-") || p.isPunct("+") {
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &cst.PrefixExpr{Base: cst.NewBase(token.Span{Start: tok.span.Start, End: operand.Span().End}), Op: tok.text, Operand: operand}, nil
	}
	primary, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parsePostfix(primary)
}

func (p *parser) parsePostfix(e cst.Expr) (cst.Expr, error) {
	for {
		switch {
		case p.isPunct("."):
			p.advance()
			nameTok := p.cur()
			if nameTok.kind != token.Identifier && nameTok.kind != token.QuotedIdentifier {
				return nil, p.errf("expected field name after '.'")
			}
			p.advance()
			name := nameTok.text
			e = &cst.Indirection{Base: cst.NewBase(token.Span{Start: e.Span().Start, End: nameTok.span.End}), Expr: e, Field: &name}

		case p.isPunct("["):
			p.advance()
			var lo, hi cst.Expr
			isSlice := false
			if !p.isPunct(":") {
				var err error
				lo, err = p.parseExpr()
				if err != nil {
					return nil, err
				}
			}
			if p.isPunct(":") {
				isSlice = true
				p.advance()
				if !p.isPunct("]") {
					var err error
					hi, err = p.parseExpr()
					if err != nil {
						return nil, err
					}
				}
			}
			closeTok, err := p.expectPunct("]")
			if err != nil {
				return nil, err
			}
			ind := &cst.Indirection{Base: cst.NewBase(token.Span{Start: e.Span().Start, End: closeTok.span.End}), Expr: e}
			if isSlice {
				ind.IsSlice, ind.SliceLo, ind.SliceHi = true, lo, hi
			} else {
				ind.Index = lo
			}
			e = ind

		case p.isPunct("::"):
			p.advance()
			typ, span, err := p.parseTypeName()
			if err != nil {
				return nil, err
			}
			e = &cst.DoubleColonCastExpr{Base: cst.NewBase(token.Span{Start: e.Span().Start, End: span.End}), Expr: e, Type: typ}

		default:
			return e, nil
		}
	}
}

func (p *parser) parsePrimary() (cst.Expr, error) {
	it := p.cur()
	switch {
	case p.isPunct("("):
		return p.parseParenOrSubquery()
	case p.isKw("EXISTS"):
		return p.parseExists(false)
	case p.isKw("NOT") && p.isKwAt(1, "EXISTS"):
		p.advance()
		return p.parseExists(true)
	case p.isKw("CASE"):
		return p.parseCaseExpr()
	case p.isKw("CAST") || p.isKw("TRY_CAST"):
		return p.parseCastExpr()
	case p.isPunct("*"):
		p.advance()
		return &cst.Star{Base: cst.NewBase(it.span)}, nil
	case it.kind == token.Literal:
		return p.parseLiteralOrBind()
	case p.isKw("NULL"):
		p.advance()
		return &cst.Literal{Base: cst.NewBase(it.span), Kind: cst.LiteralNull, Text: it.text}, nil
	case p.isKw("TRUE"):
		p.advance()
		return &cst.Literal{Base: cst.NewBase(it.span), Kind: cst.LiteralBool, Text: it.text}, nil
	case p.isKw("FALSE"):
		p.advance()
		return &cst.Literal{Base: cst.NewBase(it.span), Kind: cst.LiteralBool, Text: it.text}, nil
	case it.kind == token.Identifier || it.kind == token.QuotedIdentifier:
		return p.parseIdentOrFuncOrQualified()
	default:
		return nil, p.errf("unexpected token %q", it.text)
	}
}

func (p *parser) parseExists(not bool) (cst.Expr, error) {
	startTok, err := p.expectKw("EXISTS")
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	sel, err := p.parseSelectStmt()
	if err != nil {
		return nil, err
	}
	closeTok, err := p.expectPunct(")")
	if err != nil {
		return nil, err
	}
	return &cst.ExistsExpr{Base: cst.NewBase(token.Span{Start: startTok.span.Start, End: closeTok.span.End}), Not: not, Subquery: sel}, nil
}

func (p *parser) parseLiteralOrBind() (cst.Expr, error) {
	it := p.advance()
	kind := cst.LiteralString
	if len(it.text) > 0 && it.text[0] != '\'' {
		kind = cst.LiteralNumber
	}
	lit := &cst.Literal{Base: cst.NewBase(it.span), Kind: kind, Text: it.text}
	if it.bind != nil {
		return &cst.BindParamExpr{
			Base: cst.NewBase(token.Span{Start: it.bind.span.Start, End: it.span.End}),
			Sigil: it.bind.sigil, Name: it.bind.name, CommentSpace: it.bind.commentSpace, Value: lit,
		}, nil
	}
	return lit, nil
}

func (p *parser) parseIdentOrFuncOrQualified() (cst.Expr, error) {
	first := p.advance()
	parts := []*cst.Ident{{Base: cst.NewBase(first.span), Name: first.text, Quoted: first.kind == token.QuotedIdentifier}}

	for p.isPunct(".") {
		p.advance()
		if p.isPunct("*") {
			starSpan := p.advance().span
			q := &cst.QualifiedIdent{Base: cst.NewBase(token.Span{Start: first.span.Start, End: starSpan.End}), Parts: parts}
			return &cst.StarIndirection{Base: q.Base, Qualifier: q}, nil
		}
		nt := p.cur()
		if nt.kind != token.Identifier && nt.kind != token.QuotedIdentifier {
			return nil, p.errf("expected identifier after '.'")
		}
		p.advance()
		parts = append(parts, &cst.Ident{Base: cst.NewBase(nt.span), Name: nt.text, Quoted: nt.kind == token.QuotedIdentifier})
	}

	if p.isPunct("(") {
		return p.parseFuncCallTail(parts, first)
	}

	var result cst.Expr
	if len(parts) == 1 {
		result = parts[0]
	} else {
		result = &cst.QualifiedIdent{Base: cst.NewBase(token.Span{Start: first.span.Start, End: parts[len(parts)-1].Span().End}), Parts: parts}
	}
	if first.bind != nil {
		return &cst.BindParamExpr{
			Base: cst.NewBase(token.Span{Start: first.bind.span.Start, End: result.Span().End}),
			Sigil: first.bind.sigil, Name: first.bind.name, CommentSpace: first.bind.commentSpace, Value: result,
		}, nil
	}
	return result, nil
}

func (p *parser) parseFuncCallTail(parts []*cst.Ident, first sitem) (cst.Expr, error) {
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	fc := &cst.FuncCall{}
	if len(parts) == 1 {
		fc.Name = parts[0].Name
	} else {
		schema := parts[0].Name
		fc.Schema = &schema
		fc.Name = parts[1].Name
	}
	if p.isKw("DISTINCT") {
		p.advance()
		fc.Distinct = true
	}
	if p.isPunct("*") {
		p.advance()
		fc.Star = true
	} else if !p.isPunct(")") {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			fc.Args = append(fc.Args, arg)
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
		if p.isKw("ORDER") {
			p.advance()
			if _, err := p.expectKw("BY"); err != nil {
				return nil, err
			}
			items, err := p.parseOrderByItems()
			if err != nil {
				return nil, err
			}
			fc.OrderBy = items
		}
	}
	closeTok, err := p.expectPunct(")")
	if err != nil {
		return nil, err
	}
	end := closeTok.span.End

	if p.isKw("FILTER") {
		p.advance()
		if _, err := p.expectPunct("("); err != nil {
			return nil, err
		}
		if _, err := p.expectKw("WHERE"); err != nil {
			return nil, err
		}
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fc.Filter = cond
		ct, err := p.expectPunct(")")
		if err != nil {
			return nil, err
		}
		end = ct.span.End
	}

	if p.isKw("OVER") {
		p.advance()
		win, err := p.parseWindowSpec()
		if err != nil {
			return nil, err
		}
		fc.Window = win
		end = win.Span().End
	}

	fc.Base = cst.NewBase(token.Span{Start: first.span.Start, End: end})
	return fc, nil
}

func (p *parser) parseWindowSpec() (*cst.WindowSpec, error) {
	start := p.cur().span.Start
	if p.cur().kind == token.Identifier {
		name := p.advance()
		return &cst.WindowSpec{Base: cst.NewBase(name.span), Name: &name.text}, nil
	}
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	ws := &cst.WindowSpec{}
	if p.cur().kind == token.Identifier {
		name := p.advance()
		ws.Name = &name.text
	}
	if p.isKw("PARTITION") {
		p.advance()
		if _, err := p.expectKw("BY"); err != nil {
			return nil, err
		}
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			ws.PartitionBy = append(ws.PartitionBy, e)
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
	}
	if p.isKw("ORDER") {
		p.advance()
		if _, err := p.expectKw("BY"); err != nil {
			return nil, err
		}
		items, err := p.parseOrderByItems()
		if err != nil {
			return nil, err
		}
		ws.OrderBy = items
	}
	if p.isKw("ROWS") || p.isKw("RANGE") || p.isKw("GROUPS") {
		frame, err := p.parseFrameSpec()
		if err != nil {
			return nil, err
		}
		ws.Frame = frame
	}
	closeTok, err := p.expectPunct(")")
	if err != nil {
		return nil, err
	}
	ws.Base = cst.NewBase(token.Span{Start: start, End: closeTok.span.End})
	return ws, nil
}

func (p *parser) parseFrameSpec() (*cst.FrameSpec, error) {
	modeTok := p.advance()
	fs := &cst.FrameSpec{Mode: upper(modeTok.text)}
	if p.isKw("BETWEEN") {
		p.advance()
		start, err := p.parseFrameBound()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKw("AND"); err != nil {
			return nil, err
		}
		end, err := p.parseFrameBound()
		if err != nil {
			return nil, err
		}
		fs.Start = start
		fs.End = &end
		return fs, nil
	}
	start, err := p.parseFrameBound()
	if err != nil {
		return nil, err
	}
	fs.Start = start
	return fs, nil
}

func (p *parser) parseFrameBound() (cst.FrameBound, error) {
	if p.isKw("UNBOUNDED") {
		p.advance()
		switch {
		case p.isKw("PRECEDING"):
			p.advance()
			return cst.FrameBound{Kind: cst.FrameUnboundedPreceding}, nil
		case p.isKw("FOLLOWING"):
			p.advance()
			return cst.FrameBound{Kind: cst.FrameUnboundedFollowing}, nil
		default:
			return cst.FrameBound{}, p.errf("expected PRECEDING or FOLLOWING after UNBOUNDED")
		}
	}
	if p.isKw("CURRENT") {
		p.advance()
		if _, err := p.expectKw("ROW"); err != nil {
			return cst.FrameBound{}, err
		}
		return cst.FrameBound{Kind: cst.FrameCurrentRow}, nil
	}
	expr, err := p.parseExpr()
	if err != nil {
		return cst.FrameBound{}, err
	}
	switch {
	case p.isKw("PRECEDING"):
		p.advance()
		return cst.FrameBound{Kind: cst.FrameExprPreceding, Offset: expr}, nil
	case p.isKw("FOLLOWING"):
		p.advance()
		return cst.FrameBound{Kind: cst.FrameExprFollowing, Offset: expr}, nil
	default:
		return cst.FrameBound{}, p.errf("expected PRECEDING or FOLLOWING")
	}
}

func (p *parser) parseOrderByItems() ([]*cst.OrderByItem, error) {
	var items []*cst.OrderByItem
	for {
		start := p.cur().span.Start
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		oi := &cst.OrderByItem{Expr: expr}
		if p.isKw("COLLATE") {
			p.advance()
			s := p.advance().text
			oi.Collate = &s
		}
		if p.isKw("ASC") {
			s := p.advance().text
			oi.Direction = &s
		} else if p.isKw("DESC") {
			s := p.advance().text
			oi.Direction = &s
		}
		if p.isKw("NULLS") {
			p.advance()
			switch {
			case p.isKw("FIRST"):
				s := p.advance().text
				oi.Nulls = &s
			case p.isKw("LAST"):
				s := p.advance().text
				oi.Nulls = &s
			default:
				return nil, p.errf("expected FIRST or LAST after NULLS")
			}
		}
		oi.Base = cst.NewBase(token.Span{Start: start, End: p.prevEnd()})
		items = append(items, oi)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	return items, nil
}

func (p *parser) parseParenOrSubquery() (cst.Expr, error) {
	openTok, err := p.expectPunct("(")
	if err != nil {
		return nil, err
	}
	if p.isKw("SELECT") || p.isKw("WITH") {
		sel, err := p.parseSelectStmt()
		if err != nil {
			return nil, err
		}
		closeTok, err := p.expectPunct(")")
		if err != nil {
			return nil, err
		}
		return &cst.SubqueryExpr{Base: cst.NewBase(token.Span{Start: openTok.span.Start, End: closeTok.span.End}), Subquery: sel}, nil
	}
	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	closeTok, err := p.expectPunct(")")
	if err != nil {
		return nil, err
	}
	return &cst.ParenExpr{Base: cst.NewBase(token.Span{Start: openTok.span.Start, End: closeTok.span.End}), Expr: inner}, nil
}

func (p *parser) parseCaseExpr() (cst.Expr, error) {
	startTok, err := p.expectKw("CASE")
	if err != nil {
		return nil, err
	}
	ce := &cst.CaseExpr{}
	if !p.isKw("WHEN") {
		operand, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ce.Operand = operand
	}
	for p.isKw("WHEN") {
		p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKw("THEN"); err != nil {
			return nil, err
		}
		res, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ce.Whens = append(ce.Whens, &cst.WhenClause{Condition: cond, Result: res})
	}
	if p.isKw("ELSE") {
		p.advance()
		els, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ce.Else = els
	}
	endTok, err := p.expectKw("END")
	if err != nil {
		return nil, err
	}
	ce.Base = cst.NewBase(token.Span{Start: startTok.span.Start, End: endTok.span.End})
	return ce, nil
}

func (p *parser) parseCastExpr() (cst.Expr, error) {
	kwTok := p.advance()
	tryCast := upper(kwTok.text) == "TRY_CAST"
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKw("AS"); err != nil {
		return nil, err
	}
	typ, _, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	closeTok, err := p.expectPunct(")")
	if err != nil {
		return nil, err
	}
	return &cst.CastExpr{Base: cst.NewBase(token.Span{Start: kwTok.span.Start, End: closeTok.span.End}), Expr: expr, Type: typ, TryCast: tryCast}, nil
}

// multiWordTypePrefixes lists the multi-keyword Postgres type names this
// parser recognizes as a single unit.
var multiWordTypePrefixes = [][]string{
	{"DOUBLE", "PRECISION"},
	{"CHARACTER", "VARYING"},
	{"BIT", "VARYING"},
	{"TIMESTAMP", "WITH", "TIME", "ZONE"},
	{"TIMESTAMP", "WITHOUT", "TIME", "ZONE"},
	{"TIME", "WITH", "TIME", "ZONE"},
	{"TIME", "WITHOUT", "TIME", "ZONE"},
}

func (p *parser) parseTypeName() (string, token.Span, error) {
	start := p.cur().span
	var words []string
	matched := false
	for _, seq := range multiWordTypePrefixes {
		if p.matchWordSeq(seq) {
			words = append(words, seq...)
			for range seq {
				p.advance()
			}
			matched = true
			break
		}
	}
	if !matched {
		tok := p.cur()
		if tok.kind != token.Identifier && tok.kind != token.Keyword {
			return "", token.Span{}, p.errf("expected type name")
		}
		p.advance()
		words = append(words, tok.text)
	}
	name := strings.Join(words, " ")
	span := token.Span{Start: start.Start, End: p.prevEnd()}

	if p.isPunct("(") {
		p.advance()
		var args []string
		for !p.isPunct(")") {
			numTok := p.advance()
			args = append(args, numTok.text)
			if p.isPunct(",") {
				p.advance()
			}
		}
		closeTok, err := p.expectPunct(")")
		if err != nil {
			return "", token.Span{}, err
		}
		name += "(" + strings.Join(args, ",") + ")"
		span.End = closeTok.span.End
	}

	for p.isPunct("[") {
		p.advance()
		closeTok, err := p.expectPunct("]")
		if err != nil {
			return "", token.Span{}, err
		}
		name += "[]"
		span.End = closeTok.span.End
	}

	return name, span, nil
}

func (p *parser) matchWordSeq(seq []string) bool {
	for i, w := range seq {
		t := p.peekAt(i)
		if t.kind != token.Keyword && t.kind != token.Identifier {
			return false
		}
		if upper(t.text) != w {
			return false
		}
	}
	return true
}
