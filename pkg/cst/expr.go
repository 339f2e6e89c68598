package cst

// LiteralKind distinguishes the shape of a Literal's text.
type LiteralKind int

const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralBool
	LiteralNull
)

// Ident is a single, possibly-quoted identifier.
type Ident struct {
	Base
	Name   string
	Quoted bool // double-quoted in source; never re-cased, never stripped
}

func (*Ident) exprNode() {}

// QualifiedIdent is a dotted identifier chain: a.b.c.
type QualifiedIdent struct {
	Base
	Parts []*Ident
}

func (*QualifiedIdent) exprNode() {}

// Star is a bare '*', e.g. in SELECT * or COUNT(*).
type Star struct {
	Base
}

func (*Star) exprNode() {}

// StarIndirection is tbl.* or tbl.alias.*.
type StarIndirection struct {
	Base
	Qualifier *QualifiedIdent
}

func (*StarIndirection) exprNode() {}

// Literal is a number, string, boolean, or NULL literal.
type Literal struct {
	Base
	Kind LiteralKind
	Text string
}

func (*Literal) exprNode() {}

// BindParamExpr is a 2-way-SQL bind-parameter comment glued to a following
// literal or identifier: /*name*/'val', /*$name*/col, /*#name*/42.
type BindParamExpr struct {
	Base
	Sigil        byte // 0, '$', or '#'
	Name         string
	CommentSpace bool // true if the comment had interior whitespace (" name " vs "name")
	Value        Expr // Literal or Ident/QualifiedIdent
}

func (*BindParamExpr) exprNode() {}

// PrefixExpr is a unary prefix operator: -x, +x, NOT x.
type PrefixExpr struct {
	Base
	Op      string
	Operand Expr
}

func (*PrefixExpr) exprNode() {}

// BinaryExpr is a binary operator expression, including AND/OR so that
// boolean chains are ordinary trees at the CST layer; pkg/translate
// flattens AND/OR spines into layout.BooleanChain.
type BinaryExpr struct {
	Base
	Left  Expr
	Op    string
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// ParenExpr is a parenthesized expression. Redundant-paren removal walks
// chains of these.
type ParenExpr struct {
	Base
	Expr Expr
}

func (*ParenExpr) exprNode() {}

// CastExpr is an explicit CAST(expr AS type) or TRY_CAST.
type CastExpr struct {
	Base
	Expr    Expr
	Type    string
	TryCast bool
}

func (*CastExpr) exprNode() {}

// DoubleColonCastExpr is a PostgreSQL expr::type cast.
type DoubleColonCastExpr struct {
	Base
	Expr Expr
	Type string
}

func (*DoubleColonCastExpr) exprNode() {}

// WhenClause is one WHEN ... THEN ... arm of a CASE expression.
type WhenClause struct {
	Base
	Condition Expr
	Result    Expr
}

// CaseExpr is a CASE expression, simple (Operand != nil) or searched.
type CaseExpr struct {
	Base
	Operand Expr
	Whens   []*WhenClause
	Else    Expr
}

func (*CaseExpr) exprNode() {}

// Indirection covers postfix member/array access: .field, [i], [lo:hi].
type Indirection struct {
	Base
	Expr    Expr
	Field   *string
	Index   Expr
	IsSlice bool
	SliceLo Expr
	SliceHi Expr
}

func (*Indirection) exprNode() {}

// BetweenExpr is expr [NOT] BETWEEN low AND high.
type BetweenExpr struct {
	Base
	Expr Expr
	Not  bool
	Low  Expr
	High Expr
}

func (*BetweenExpr) exprNode() {}

// InExpr is expr [NOT] IN (list) or expr [NOT] IN (subquery).
type InExpr struct {
	Base
	Expr     Expr
	Not      bool
	List     []Expr
	Subquery *SelectStmt
}

func (*InExpr) exprNode() {}

// ExistsExpr is [NOT] EXISTS (subquery).
type ExistsExpr struct {
	Base
	Not      bool
	Subquery *SelectStmt
}

func (*ExistsExpr) exprNode() {}

// SubqueryExpr is a scalar subquery used as an expression.
type SubqueryExpr struct {
	Base
	Subquery *SelectStmt
}

func (*SubqueryExpr) exprNode() {}

// IsNullExpr is expr IS [NOT] NULL.
type IsNullExpr struct {
	Base
	Expr Expr
	Not  bool
}

func (*IsNullExpr) exprNode() {}

// IsBoolExpr is expr IS [NOT] TRUE/FALSE.
type IsBoolExpr struct {
	Base
	Expr  Expr
	Not   bool
	Value bool
}

func (*IsBoolExpr) exprNode() {}

// LikeExpr is expr [NOT] LIKE/ILIKE pattern [ESCAPE esc].
type LikeExpr struct {
	Base
	Expr    Expr
	Not     bool
	ILike   bool
	Pattern Expr
	Escape  Expr
}

func (*LikeExpr) exprNode() {}

// OrderByItem is one entry in an ORDER BY list, also reused for the ORDER
// BY inside a window spec and for aggregate ORDER BY arguments.
type OrderByItem struct {
	Base
	Expr      Expr
	Direction *string // ASC/DESC
	Nulls     *string // FIRST/LAST
	Collate   *string
}

// FrameBoundKind enumerates window-frame bound shapes.
type FrameBoundKind int

const (
	FrameUnboundedPreceding FrameBoundKind = iota
	FrameUnboundedFollowing
	FrameCurrentRow
	FrameExprPreceding
	FrameExprFollowing
)

// FrameBound is one edge of a window frame.
type FrameBound struct {
	Kind   FrameBoundKind
	Offset Expr // set for FrameExprPreceding/FrameExprFollowing
}

// FrameSpec is the ROWS|RANGE|GROUPS BETWEEN ... AND ... clause of a
// window specification.
type FrameSpec struct {
	Mode  string // ROWS, RANGE, GROUPS
	Start FrameBound
	End   *FrameBound // nil means "BETWEEN" was not used: single-bound frame
}

// WindowSpec is the contents of an OVER (...) clause.
type WindowSpec struct {
	Base
	Name        *string // named window reference, e.g. OVER win
	PartitionBy []Expr
	OrderBy     []*OrderByItem
	Frame       *FrameSpec
}

// FuncCall is a function call expression, including aggregate/window forms.
type FuncCall struct {
	Base
	Schema   *string
	Name     string
	Distinct bool
	Star     bool // COUNT(*)
	Args     []Expr
	OrderBy  []*OrderByItem // array_agg(x ORDER BY y)
	Filter   Expr           // FILTER (WHERE ...)
	Window   *WindowSpec    // OVER (...)
}

func (*FuncCall) exprNode() {}

// ColumnRefWithBind is a column reference immediately preceded by a bind
// comment that embeds an identifier rather than a literal sample value
// (the /*$name*/col form). It is distinct from BindParamExpr only in that
// its Value is always an identifier-shaped Expr; kept as its own type so
// the translator can special-case identifier-embed bind params per
// spec.md's clause-shape table entry "column-ref-with-bind".
type ColumnRefWithBind struct {
	Base
	Name  string
	Value Expr
}

func (*ColumnRefWithBind) exprNode() {}
