package render_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pgfmt/sqlfmt/pkg/config"
	"github.com/pgfmt/sqlfmt/pkg/layout"
	"github.com/pgfmt/sqlfmt/pkg/render"
)

func defaultCfg() config.Config {
	cfg := config.Default()
	cfg.TabSize = 4
	cfg.IndentTab = true
	return cfg
}

func cell(text string) layout.Cell { return layout.Cell{Text: text} }

func TestStatementTrailingSemicolonOnlyWhenTerminated(t *testing.T) {
	cfg := defaultCfg()
	stmt := &layout.Statement{
		Clauses: []*layout.Clause{
			{Keyword: "SELECT", Body: &layout.AlignedList{Rows: []layout.Row{{Cells: []layout.Cell{cell("1")}}}}},
		},
		Terminated: true,
	}
	out := render.Statement(cfg, stmt)
	require.True(t, len(out) > 0 && out[len(out)-1] == '\n')
	require.Contains(t, out, ";\n")
}

func TestStatementNoTrailingSemicolonWhenUnterminated(t *testing.T) {
	cfg := defaultCfg()
	stmt := &layout.Statement{
		Clauses: []*layout.Clause{
			{Keyword: "SELECT", Body: &layout.AlignedList{Rows: []layout.Row{{Cells: []layout.Cell{cell("1")}}}}},
		},
		Terminated: false,
	}
	out := render.Statement(cfg, stmt)
	require.NotContains(t, out, ";")
}

func TestAlignedListUsesLeadingCommaOnContinuationRows(t *testing.T) {
	cfg := defaultCfg()
	stmt := &layout.Statement{
		Clauses: []*layout.Clause{
			{
				Keyword: "SELECT",
				Body: &layout.AlignedList{Rows: []layout.Row{
					{Cells: []layout.Cell{cell("a")}},
					{Cells: []layout.Cell{cell("b")}},
					{Cells: []layout.Cell{cell("c")}},
				}},
			},
		},
	}
	out := render.Statement(cfg, stmt)
	require.Contains(t, out, "\ta\n")
	require.Contains(t, out, "\t,b")
	require.Contains(t, out, "\t,c")
}

func TestBlockCommentStarAlignmentNormalized(t *testing.T) {
	cfg := defaultCfg()
	stmt := &layout.Statement{
		Leading: []layout.Comment{
			{Text: "/*\n   * one\n     * two\n*/", Block: true},
		},
		Clauses: []*layout.Clause{
			{Keyword: "SELECT", Body: &layout.AlignedList{Rows: []layout.Row{{Cells: []layout.Cell{cell("1")}}}}},
		},
	}
	out := render.Statement(cfg, stmt)
	require.Contains(t, out, " * one")
	require.Contains(t, out, " * two")
}

func TestJoinChainLoneSeedHasNoSyntheticKeywordColumn(t *testing.T) {
	cfg := defaultCfg()
	stmt := &layout.Statement{
		Clauses: []*layout.Clause{
			{Keyword: "SELECT", Body: &layout.AlignedList{Rows: []layout.Row{{Cells: []layout.Cell{cell("1")}}}}},
			{Keyword: "FROM", Body: &layout.JoinChain{Rows: []layout.JoinRow{
				{Cells: []layout.Cell{cell("DEPARTMENT")}},
			}}},
		},
	}
	out := render.Statement(cfg, stmt)
	require.Contains(t, out, "FROM\n\tDEPARTMENT\n")
}

func TestJoinChainAlignsSeedAndJoinRows(t *testing.T) {
	cfg := defaultCfg()
	stmt := &layout.Statement{
		Clauses: []*layout.Clause{
			{Keyword: "SELECT", Body: &layout.AlignedList{Rows: []layout.Row{{Cells: []layout.Cell{cell("1")}}}}},
			{
				Keyword: "FROM",
				Body: &layout.JoinChain{Rows: []layout.JoinRow{
					{Cells: []layout.Cell{cell("students")}},
					{
						JoinKeyword: "JOIN",
						Cells:       []layout.Cell{cell("department")},
						Condition: &layout.BooleanChain{Operands: []layout.ChainOperand{
							{Cells: []layout.Cell{cell("students.dept_id"), cell("="), cell("department.id")}},
						}},
					},
				}},
			},
		},
	}
	out := render.Statement(cfg, stmt)
	require.Contains(t, out, "JOIN")
	require.Contains(t, out, "department")
	// both table names reach column 12 of the body: the seed's empty
	// keyword cell takes three tabs, "JOIN" takes two.
	require.Contains(t, out, "\n\t\t\t\tstudents\n")
	require.Contains(t, out, "\n\tJOIN\t\tdepartment ON ")
}
