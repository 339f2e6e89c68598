// Package layout defines the intermediate model the tree-to-layout
// translator emits and the alignment solver and renderer consume. A
// Layout Node carries enough structure to compute horizontal alignment
// (AlignedList/Cell) without needing to walk back into the CST: every
// rewrite pkg/translate applies (alias completion, AS policy, casing,
// paren reduction, bind coalescing) has already happened by the time a
// Layout tree exists.
package layout

// Comment is a comment token already classified as trailing or
// leading-standalone relative to the node it is attached to.
type Comment struct {
	Text    string
	Block   bool
	OwnLine bool
}

// Node is satisfied by every layout node.
type Node interface{ isNode() }

// Body is satisfied by every shape a Clause can carry as its payload.
type Body interface {
	Node
	isBody()
}

// Statement is the root of one formatted SQL statement.
type Statement struct {
	Leading    []Comment
	Clauses    []*Clause
	Trailing   []Comment
	Terminated bool
}

func (*Statement) isNode() {}

// Clause is a keyword header plus its body, e.g. "WHERE" + a BooleanChain.
// HeaderComment is a comment glued to the keyword itself, before the body
// starts on its own line — its only current use is the /* _SQL_ID_ */
// marker, which spec.md requires immediately after the statement's
// leading keyword rather than before or after the whole clause.
type Clause struct {
	Keyword       string
	Leading       []Comment
	HeaderComment *Comment
	Body          Body
	Trailing      []Comment
}

func (*Clause) isNode() {}

// Cell is one aligned field within an AlignedList/JoinChain row. Text is
// the fully-rendered inline form; Nested holds a multi-line sub-body
// (a CaseBody or a SubStatement) for cells whose content doesn't
// collapse to one line, in which case Text is ignored by the renderer.
// The renderer prints nothing for any other Body kind in a cell.
type Cell struct {
	Text            string
	Nested          Body
	TrailingComment *Comment
}

// Row is one entry in an AlignedList: a tuple of Cells sharing a group
// identity with every other row's Cells at the same index, plus any
// leading-standalone comments that appear immediately before it.
type Row struct {
	LeadingComments []Comment
	Cells           []Cell
}

// AlignedList is a leading-comma list of Rows: SELECT items, GROUP
// BY/ORDER BY keys, SET assignments, VALUES tuples, WITH's CTEs.
type AlignedList struct {
	Rows []Row
}

func (*AlignedList) isNode() {}
func (*AlignedList) isBody() {}

// ChainOperand is one operand in a BooleanChain, with the connector
// (AND/OR) that precedes it — empty for the first operand. A bare
// top-level comparison (lhs op rhs, e.g. "dept_no = 10") splits into
// Cells so its operator tab-aligns the way SET's "target = expr" does;
// anything else (a call, a nested chain collapsed to one line, BETWEEN)
// renders from Text instead, with Cells left empty.
type ChainOperand struct {
	Connector       string
	Text            string
	Cells           []Cell
	Nested          Body
	TrailingComment *Comment
	LeadingComments []Comment
}

// BooleanChain is a flattened AND/OR spine, used for WHERE/ON/HAVING and
// for a FILTER (WHERE ...) attached to a function call.
type BooleanChain struct {
	Operands []ChainOperand
}

func (*BooleanChain) isNode() {}
func (*BooleanChain) isBody() {}

// JoinRow is one FROM-list entry: the seed (JoinKeyword == "") or a join
// segment chained onto it.
type JoinRow struct {
	LeadingComments []Comment
	JoinKeyword     string // "", "JOIN", "LEFT JOIN", "LEFT OUTER JOIN", ...
	Cells           []Cell // table-or-subquery, alias, column-list, trailing-comment
	Condition       *BooleanChain
	Using           []string
	TrailingComment *Comment
}

// JoinChain is a FROM seed item plus its joins, rendered as one aligned
// group per spec's table-or-subquery/alias/column-list cell shape.
type JoinChain struct {
	Rows []JoinRow
}

func (*JoinChain) isNode() {}
func (*JoinChain) isBody() {}

// WhenArm is one WHEN/THEN pair of a CaseBody.
type WhenArm struct {
	Condition string
	Result    string
}

// CaseBody is a CASE expression rendered as its own multi-line block.
type CaseBody struct {
	Operand string
	Whens   []WhenArm
	Else    string
}

func (*CaseBody) isNode() {}
func (*CaseBody) isBody() {}

// SubStatement wraps a nested Statement (subquery, CTE body) so it can
// sit inside a Cell or Clause and be rendered with one extra indent level.
type SubStatement struct {
	Stmt *Statement
}

func (*SubStatement) isNode() {}
func (*SubStatement) isBody() {}
