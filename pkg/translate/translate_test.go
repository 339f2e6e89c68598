package translate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pgfmt/sqlfmt/internal/pgparse"
	"github.com/pgfmt/sqlfmt/pkg/config"
	"github.com/pgfmt/sqlfmt/pkg/cst"
	"github.com/pgfmt/sqlfmt/pkg/layout"
	"github.com/pgfmt/sqlfmt/pkg/translate"
)

func TestComplementAliasInsertsAsForBareColumn(t *testing.T) {
	cfg := config.Default() // ComplementAlias + ComplementColumnAsKeyword on by default
	pr, err := pgparse.Parse("SELECT a FROM t")
	require.NoError(t, err)

	stmt, err := translate.Translate(cfg, pr)
	require.NoError(t, err)
	require.Len(t, stmt.Clauses, 2)

	selectClause := stmt.Clauses[0]
	list, ok := selectClause.Body.(*layout.AlignedList)
	require.True(t, ok)
	require.Len(t, list.Rows, 1)
	require.Len(t, list.Rows[0].Cells, 3) // expr, AS, alias
	require.Equal(t, "AS", list.Rows[0].Cells[1].Text)
}

func TestComplementAliasOffLeavesBareColumnAlone(t *testing.T) {
	cfg := config.Config{ComplementAlias: false, ComplementColumnAsKeyword: false}
	pr, err := pgparse.Parse("SELECT a FROM t")
	require.NoError(t, err)

	stmt, err := translate.Translate(cfg, pr)
	require.NoError(t, err)

	list := stmt.Clauses[0].Body.(*layout.AlignedList)
	require.Len(t, list.Rows[0].Cells, 1)
}

func TestUnifyNotEqualRewritesDiamond(t *testing.T) {
	cfg := config.Default()
	cfg.UnifyNotEqual = true
	pr, err := pgparse.Parse("SELECT * FROM t WHERE a <> 1")
	require.NoError(t, err)

	stmt, err := translate.Translate(cfg, pr)
	require.NoError(t, err)

	whereClause := stmt.Clauses[len(stmt.Clauses)-1]
	chain := whereClause.Body.(*layout.BooleanChain)
	require.Len(t, chain.Operands, 1)
	require.Equal(t, "!=", chain.Operands[0].Cells[1].Text)
}

func TestComparisonSplitsIntoCells(t *testing.T) {
	cfg := config.Default()
	pr, err := pgparse.Parse("SELECT * FROM t WHERE dept_no = 10")
	require.NoError(t, err)

	stmt, err := translate.Translate(cfg, pr)
	require.NoError(t, err)

	whereClause := stmt.Clauses[len(stmt.Clauses)-1]
	chain := whereClause.Body.(*layout.BooleanChain)
	require.Len(t, chain.Operands[0].Cells, 3)
	require.Equal(t, "=", chain.Operands[0].Cells[1].Text)
}

func TestConvertDoubleColonCastRewritesToCastCall(t *testing.T) {
	cfg := config.Default()
	cfg.ConvertDoubleColonCast = true
	pr, err := pgparse.Parse("SELECT ''::jsonb FROM t")
	require.NoError(t, err)

	stmt, err := translate.Translate(cfg, pr)
	require.NoError(t, err)

	list := stmt.Clauses[0].Body.(*layout.AlignedList)
	require.Contains(t, list.Rows[0].Cells[0].Text, "CAST(")
}

func TestComplementSqlIdInsertsMarkerComment(t *testing.T) {
	cfg := config.Default()
	cfg.ComplementSqlId = true
	pr, err := pgparse.Parse("SELECT a FROM t")
	require.NoError(t, err)

	stmt, err := translate.Translate(cfg, pr)
	require.NoError(t, err)

	selectClause := stmt.Clauses[0]
	require.NotNil(t, selectClause.HeaderComment)
	require.Contains(t, selectClause.HeaderComment.Text, "_SQL_ID_")
}

func TestComplementSqlIdDoesNotDuplicateExistingMarker(t *testing.T) {
	cfg := config.Default()
	cfg.ComplementSqlId = true
	pr, err := pgparse.Parse("SELECT /* _SQL_ID_ */ a FROM t")
	require.NoError(t, err)

	stmt, err := translate.Translate(cfg, pr)
	require.NoError(t, err)

	selectClause := stmt.Clauses[0]
	require.NotNil(t, selectClause.HeaderComment)
	require.Empty(t, stmt.Leading)
	require.Empty(t, stmt.Trailing)
	for _, cl := range stmt.Clauses {
		require.Empty(t, cl.Leading)
		require.Empty(t, cl.Trailing)
	}
}

func TestRemoveRedundantNestCollapsesToOnePairNeverZero(t *testing.T) {
	cfg := config.Default()
	cfg.RemoveRedundantNest = true

	pr, err := pgparse.Parse("SELECT (((a))) FROM t")
	require.NoError(t, err)
	stmt, err := translate.Translate(cfg, pr)
	require.NoError(t, err)
	list := stmt.Clauses[0].Body.(*layout.AlignedList)
	require.Equal(t, "(a)", list.Rows[0].Cells[0].Text)

	pr, err = pgparse.Parse("SELECT (a) FROM t")
	require.NoError(t, err)
	stmt, err = translate.Translate(cfg, pr)
	require.NoError(t, err)
	list = stmt.Clauses[0].Body.(*layout.AlignedList)
	require.Equal(t, "(a)", list.Rows[0].Cells[0].Text)
}

func TestTranslateUnsupportedBodyReturnsUnsupportedSyntaxError(t *testing.T) {
	// a Statement with no Select/Insert/Update/Delete set has no recognized
	// body.
	pr := &cst.ParseResult{Statement: &cst.Statement{}}
	_, err := translate.Translate(config.Default(), pr)
	require.Error(t, err)

	var uerr *translate.UnsupportedSyntaxError
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, "UnsupportedSyntaxError", uerr.Kind())
}
