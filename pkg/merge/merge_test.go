package merge_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pgfmt/sqlfmt/pkg/directive"
	"github.com/pgfmt/sqlfmt/pkg/merge"
)

// identityResults turns a template's enumerated variants into merge
// Results using the variant text verbatim, standing in for a no-op
// formatting stage so the merge logic itself can be exercised in
// isolation from pkg/translate/pkg/render.
func identityResults(variants []directive.Variant) []merge.Result {
	out := make([]merge.Result, len(variants))
	for i, v := range variants {
		out[i] = merge.Result{Selections: v.Selections, Text: v.Text}
	}
	return out
}

func TestMergeNoDirectivesReturnsSoleResult(t *testing.T) {
	tmpl, err := directive.Parse("SELECT 1")
	require.NoError(t, err)

	out, err := merge.Merge(tmpl, identityResults(tmpl.Variants()))
	require.NoError(t, err)
	require.Equal(t, "SELECT 1", out)
}

func TestMergeIfElseReconstructsBothBranches(t *testing.T) {
	src := "SELECT * FROM t WHERE /*%if c*/ x = 1 /*%else*/ x = 2 /*%end*/"
	tmpl, err := directive.Parse(src)
	require.NoError(t, err)

	out, err := merge.Merge(tmpl, identityResults(tmpl.Variants()))
	require.NoError(t, err)

	require.Contains(t, out, "/*%if c*/")
	require.Contains(t, out, "/*%else*/")
	require.Contains(t, out, "/*%end*/")
	require.Contains(t, out, "x = 1")
	require.Contains(t, out, "x = 2")
}

func TestMergeIfElseIfElseReconstructsEveryBranch(t *testing.T) {
	src := "SELECT * FROM t WHERE /*%if a*/ x = 1 /*%elseif b*/ x = 2 /*%else*/ x = 3 /*%end*/"
	tmpl, err := directive.Parse(src)
	require.NoError(t, err)

	out, err := merge.Merge(tmpl, identityResults(tmpl.Variants()))
	require.NoError(t, err)

	require.Contains(t, out, "x = 1")
	require.Contains(t, out, "x = 2")
	require.Contains(t, out, "x = 3")
	require.Contains(t, out, "/*%elseif b*/")
}

func TestMergeNestedGroupReconstructsBoth(t *testing.T) {
	src := "SELECT * FROM t WHERE /*%if a*/ x = 1 /*%if b*/ AND y = 1 /*%else*/ AND y = 2 /*%end*/ /*%else*/ x = 2 /*%end*/"
	tmpl, err := directive.Parse(src)
	require.NoError(t, err)

	out, err := merge.Merge(tmpl, identityResults(tmpl.Variants()))
	require.NoError(t, err)

	require.Contains(t, out, "x = 1")
	require.Contains(t, out, "x = 2")
	require.Contains(t, out, "AND y = 1")
	require.Contains(t, out, "AND y = 2")
}

func TestMergeFailsWithoutBaselineVariant(t *testing.T) {
	src := "SELECT * FROM t WHERE /*%if c*/ x = 1 /*%else*/ x = 2 /*%end*/"
	tmpl, err := directive.Parse(src)
	require.NoError(t, err)

	variants := tmpl.Variants()
	require.Len(t, variants, 2)

	// drop the baseline (all-branch-0) variant to force the error path.
	var nonBaseline []directive.Variant
	for _, v := range variants {
		isBaseline := true
		for _, idx := range v.Selections {
			if idx != 0 {
				isBaseline = false
			}
		}
		if !isBaseline {
			nonBaseline = append(nonBaseline, v)
		}
	}
	require.Len(t, nonBaseline, 1)

	_, err = merge.Merge(tmpl, identityResults(nonBaseline))
	require.Error(t, err)

	var merr *merge.Error
	require.ErrorAs(t, err, &merr)
	require.Equal(t, "InternalMergeError", merr.Kind())
}
