package directive_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pgfmt/sqlfmt/pkg/directive"
)

func TestParseNoDirectivesIsPlainText(t *testing.T) {
	tmpl, err := directive.Parse("SELECT 1")
	require.NoError(t, err)
	require.False(t, tmpl.HasDirectives())

	variants := tmpl.Variants()
	require.Len(t, variants, 1)
	require.Equal(t, "SELECT 1", variants[0].Text)
}

func TestParseSingleBranchGroupKeepsMarkersInText(t *testing.T) {
	src := "SELECT * FROM t WHERE /*%if c*/ x = 1 /*%end*/"
	tmpl, err := directive.Parse(src)
	require.NoError(t, err)
	require.True(t, tmpl.HasDirectives())

	variants := tmpl.Variants()
	require.Len(t, variants, 1, "a single-branch group needs only the baseline variant")
	require.Contains(t, variants[0].Text, "/*%if c*/")
	require.Contains(t, variants[0].Text, "/*%end*/")
}

func TestParseIfElseEnumeratesBothBranches(t *testing.T) {
	src := "SELECT * FROM t WHERE /*%if c*/ x = 1 /*%else*/ x = 2 /*%end*/"
	tmpl, err := directive.Parse(src)
	require.NoError(t, err)

	variants := tmpl.Variants()
	require.Len(t, variants, 2)

	var texts []string
	for _, v := range variants {
		texts = append(texts, v.Text)
	}
	require.Contains(t, texts[0]+texts[1], "x = 1")
	require.Contains(t, texts[0]+texts[1], "x = 2")

	// directive markers are dropped from a multi-branch group's resolved
	// text — pkg/merge reconstructs them from the rendered output.
	for _, v := range variants {
		require.NotContains(t, v.Text, "/*%if")
		require.NotContains(t, v.Text, "/*%end*/")
	}
}

func TestParseIfElseIfElseEnumeratesEveryBranchOnce(t *testing.T) {
	src := "SELECT * FROM t WHERE /*%if a*/ x = 1 /*%elseif b*/ x = 2 /*%else*/ x = 3 /*%end*/"
	tmpl, err := directive.Parse(src)
	require.NoError(t, err)

	variants := tmpl.Variants()
	require.Len(t, variants, 3)

	all := ""
	for _, v := range variants {
		all += v.Text + "|"
	}
	require.Contains(t, all, "x = 1")
	require.Contains(t, all, "x = 2")
	require.Contains(t, all, "x = 3")
}

func TestParseNestedGroupEnumeratesIndependently(t *testing.T) {
	src := "SELECT * FROM t WHERE /*%if a*/ x = 1 /*%if b*/ AND y = 1 /*%else*/ AND y = 2 /*%end*/ /*%else*/ x = 2 /*%end*/"
	tmpl, err := directive.Parse(src)
	require.NoError(t, err)

	variants := tmpl.Variants()
	// outer group (2 branches) + inner group (2 branches, only reachable
	// when the outer default/branch-0 selection is active) -> minimal
	// cover collapses to however many distinct texts result.
	require.GreaterOrEqual(t, len(variants), 2)

	var groups int
	tmpl.Walk(func(*directive.Group) { groups++ })
	require.Equal(t, 2, groups)
}

func TestParseGroupNestedInNonDefaultBranchIsReachable(t *testing.T) {
	src := "SELECT * FROM t WHERE /*%if a*/ P /*%elseif b*/ /*%if c*/ X /*%else*/ Y /*%end*/ /*%end*/"
	tmpl, err := directive.Parse(src)
	require.NoError(t, err)

	variants := tmpl.Variants()

	var all string
	for _, v := range variants {
		all += v.Text + "|"
	}
	require.Contains(t, all, "P")
	require.Contains(t, all, "X")
	require.Contains(t, all, "Y", "a fragment nested inside a non-default outer branch must still appear in some variant")
}

func TestHasDirectivesFalseForPlainSQL(t *testing.T) {
	tmpl, err := directive.Parse("UPDATE t SET x = 1")
	require.NoError(t, err)
	require.False(t, tmpl.HasDirectives())
}
