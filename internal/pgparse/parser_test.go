package pgparse_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pgfmt/sqlfmt/internal/pgparse"
)

func TestParseSelectBasic(t *testing.T) {
	pr, err := pgparse.Parse("SELECT a, b FROM t WHERE a = 1")
	require.NoError(t, err)
	require.NotNil(t, pr.Statement)
	require.NotNil(t, pr.Statement.Select)
}

func TestParseSelectWithJoinsAndOrderBy(t *testing.T) {
	pr, err := pgparse.Parse(`
		SELECT s.id, d.name
		FROM students s
		LEFT JOIN department d ON s.dept_id = d.id
		WHERE s.active = true
		ORDER BY s.id DESC
		LIMIT 10`)
	require.NoError(t, err)
	require.NotNil(t, pr.Statement.Select)
}

func TestParseInsertWithOnConflict(t *testing.T) {
	pr, err := pgparse.Parse(`
		INSERT INTO t (a, b) VALUES (1, 2)
		ON CONFLICT (a) DO UPDATE SET b = 2`)
	require.NoError(t, err)
	require.NotNil(t, pr.Statement.Insert)
}

func TestParseInsertOnConflictOnConstraint(t *testing.T) {
	pr, err := pgparse.Parse(`
		INSERT INTO t (a) VALUES (1)
		ON CONFLICT ON CONSTRAINT t_pkey DO NOTHING`)
	require.NoError(t, err)
	require.NotNil(t, pr.Statement.Insert)
}

func TestParseUpdateSet(t *testing.T) {
	pr, err := pgparse.Parse("UPDATE t SET a = 1, b = 2 WHERE c = 3")
	require.NoError(t, err)
	require.NotNil(t, pr.Statement.Update)
}

func TestParseDeleteUsing(t *testing.T) {
	pr, err := pgparse.Parse("DELETE FROM t USING u WHERE t.id = u.id")
	require.NoError(t, err)
	require.NotNil(t, pr.Statement.Delete)
}

func TestParseWindowFunctionWithFrame(t *testing.T) {
	pr, err := pgparse.Parse(`
		SELECT sum(x) OVER (
			PARTITION BY g ORDER BY x
			ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW
		) FROM t`)
	require.NoError(t, err)
	require.NotNil(t, pr.Statement.Select)
}

func TestParseCaseExpression(t *testing.T) {
	pr, err := pgparse.Parse(`
		SELECT CASE WHEN a = 1 THEN 'one' WHEN a = 2 THEN 'two' ELSE 'other' END
		FROM t`)
	require.NoError(t, err)
	require.NotNil(t, pr.Statement.Select)
}

func TestParseCastOperators(t *testing.T) {
	pr, err := pgparse.Parse("SELECT ''::jsonb, CAST(1 AS text) FROM t")
	require.NoError(t, err)
	require.NotNil(t, pr.Statement.Select)
}

func TestParseTerminatedStatement(t *testing.T) {
	pr, err := pgparse.Parse("SELECT 1;")
	require.NoError(t, err)
	require.True(t, pr.Statement.Terminated)
}

func TestParseUnterminatedStatement(t *testing.T) {
	pr, err := pgparse.Parse("SELECT 1")
	require.NoError(t, err)
	require.False(t, pr.Statement.Terminated)
}

func TestParseCapturesComments(t *testing.T) {
	pr, err := pgparse.Parse("SELECT /* grab id */ a FROM t -- trailing\n")
	require.NoError(t, err)
	require.NotEmpty(t, pr.Comments)
}

func TestParseInvalidSyntaxReturnsError(t *testing.T) {
	_, err := pgparse.Parse("SELECT , , , FROM")
	require.Error(t, err)
}

func TestParseBindParameterComment(t *testing.T) {
	pr, err := pgparse.Parse("SELECT * FROM t WHERE id = /*id*/1")
	require.NoError(t, err)
	require.NotNil(t, pr.Statement.Select)
}
