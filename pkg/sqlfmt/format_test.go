package sqlfmt_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"

	"github.com/pgfmt/sqlfmt/pkg/config"
	"github.com/pgfmt/sqlfmt/pkg/sqlfmt"
)

// TestGoldenFiles formats every testdata/*.in.sql with default config and
// compares the result against the matching testdata/*.sql golden file.
func TestGoldenFiles(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("testdata", "*.in.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	for _, inputFile := range matches {
		basename := filepath.Base(inputFile)
		outputName := strings.TrimSuffix(basename, ".in.sql") + ".sql"

		t.Run(outputName, func(t *testing.T) {
			inputSQL, err := os.ReadFile(inputFile)
			require.NoError(t, err)

			cfg := config.Default()
			cfg.KeywordCase = config.CaseUpper
			cfg.IdentifierCase = config.CaseUpper

			out, err := sqlfmt.Format(string(inputSQL), cfg)
			require.NoError(t, err)

			golden.Assert(t, out, outputName)
		})
	}
}

// S1: keyword/identifier case (upper).
func TestFormatS1KeywordIdentifierCaseUpper(t *testing.T) {
	cfg := config.Default()
	cfg.KeywordCase = config.CaseUpper
	cfg.IdentifierCase = config.CaseUpper

	out, err := sqlfmt.Format("Select coL1 FroM Department wheRE DEPT_no = 10", cfg)
	require.NoError(t, err)
	require.Equal(t, "SELECT\n\tCOL1\t\tAS\tCOL1\nFROM\n\tDEPARTMENT\nWHERE\n\tDEPT_NO\t=\t10\n", out)
}

// S2: <> rewritten to !=.
func TestFormatS2UnifyNotEqual(t *testing.T) {
	cfg := config.Default()
	cfg.UnifyNotEqual = true

	out, err := sqlfmt.Format("SELECT * FROM students WHERE student_id <> 2", cfg)
	require.NoError(t, err)
	require.Contains(t, out, "student_id\t!=\t2")
}

// S3: :: rewritten to CAST(... AS ...).
func TestFormatS3DoubleColonCast(t *testing.T) {
	cfg := config.Default()
	cfg.ConvertDoubleColonCast = true
	cfg.KeywordCase = config.CaseUpper
	cfg.IdentifierCase = config.CaseUpper

	out, err := sqlfmt.Format("SELECT ''::jsonb FROM tbl", cfg)
	require.NoError(t, err)
	require.Equal(t, "SELECT\n\tCAST(''\tAS\tJSONB)\nFROM\n\tTBL\n", out)
}

// S4: SQL-ID marker insertion.
func TestFormatS4ComplementSqlID(t *testing.T) {
	cfg := config.Default()
	cfg.ComplementSqlId = true

	out, err := sqlfmt.Format("SELECT a FROM t", cfg)
	require.NoError(t, err)
	require.Equal(t, "SELECT /* _SQL_ID_ */\n\ta\t\tAS\ta\nFROM\n\tt\n", out)
}

// S5: a 2-way-SQL directive branch round-trips with both branches present
// and individually aligned, rather than collapsed to one selection.
func TestFormatS5BranchRoundTrip(t *testing.T) {
	cfg := config.Default()

	src := "SELECT * FROM t WHERE /*%if cond*/ x = 1 /*%else*/ x = 2 /*%end*/"
	out, err := sqlfmt.Format(src, cfg)
	require.NoError(t, err)

	require.Contains(t, out, "/*%if cond*/")
	require.Contains(t, out, "/*%else*/")
	require.Contains(t, out, "/*%end*/")
	require.Contains(t, out, "x\t=\t1")
	require.Contains(t, out, "x\t=\t2")
}

func TestFormatRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.TabSize = -1

	_, err := sqlfmt.Format("SELECT 1", cfg)
	require.Error(t, err)

	var ferr sqlfmt.FormatError
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, "ConfigError", ferr.Kind())
}

func TestFormatIdempotent(t *testing.T) {
	cfg := config.Default()
	cfg.KeywordCase = config.CaseUpper

	first, err := sqlfmt.Format("select a, b from t where c = 1", cfg)
	require.NoError(t, err)

	second, err := sqlfmt.Format(first, cfg)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestFormatDebugSinkGatedOnConfigDebug(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.Debug = false

	_, err := sqlfmt.Format("SELECT 1", cfg, sqlfmt.WithDebugSink(&buf))
	require.NoError(t, err)
	require.Empty(t, buf.String(), "no trace output expected when cfg.Debug is false")

	cfg.Debug = true
	_, err = sqlfmt.Format("SELECT 1", cfg, sqlfmt.WithDebugSink(&buf))
	require.NoError(t, err)
	require.NotEmpty(t, buf.String(), "trace output expected when cfg.Debug is true")
}

func TestFormatDebugSinkOmittedIsSilent(t *testing.T) {
	cfg := config.Default()
	cfg.Debug = true

	out, err := sqlfmt.Format("SELECT 1", cfg)
	require.NoError(t, err)
	require.NotEmpty(t, out)
}

func TestFormatLeadingCommaList(t *testing.T) {
	cfg := config.Default()

	out, err := sqlfmt.Format("SELECT a, b, c FROM t", cfg)
	require.NoError(t, err)
	require.True(t, strings.Contains(out, "\n\t,"), "continuation rows should open with a leading comma, got:\n%s", out)
}

// TestFormatConcurrentCallsIndependent demonstrates the "share nothing"
// guarantee from the concurrency model: concurrent calls over distinct
// inputs never observe each other's state.
func TestFormatConcurrentCallsIndependent(t *testing.T) {
	cfg := config.Default()
	inputs := []string{
		"SELECT a FROM t1",
		"SELECT b FROM t2 WHERE x = 1",
		"SELECT c, d FROM t3 ORDER BY c",
		"UPDATE t4 SET x = 1 WHERE y = 2",
		"DELETE FROM t5 WHERE z = 3",
	}

	var wg sync.WaitGroup
	results := make([]string, len(inputs))
	errs := make([]error, len(inputs))
	for i, in := range inputs {
		wg.Add(1)
		go func(i int, in string) {
			defer wg.Done()
			results[i], errs[i] = sqlfmt.Format(in, cfg)
		}(i, in)
	}
	wg.Wait()

	for i := range inputs {
		require.NoError(t, errs[i])
		want, err := sqlfmt.Format(inputs[i], cfg)
		require.NoError(t, err)
		require.Equal(t, want, results[i])
	}
}
