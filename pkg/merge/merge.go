// Package merge splices the independently rendered variants of a 2-way-SQL
// template back into one source text carrying its original /*%if*/
// /*%elseif*/ /*%else*/ /*%end*/ directive comments. Every variant already
// went through the full parse/translate/render pipeline on its own
// resolved SQL, so a directive group's branch-specific body arrives here
// already formatted — merge only has to find where each group's bodies
// live in the rendered text and wrap them back up.
//
// A directive group with exactly one branch (a bare /*%if*/.../*%end*/
// with no elseif/else) needs none of this: directive.Template keeps that
// pair's raw comment text in the resolved SQL fed to the formatter (see
// directive.Template.Variants), so the ordinary comment-preservation path
// in pkg/translate/pkg/render already carries it straight through to every
// variant untouched. Only groups with more than one branch are handled
// here, since only those have branch text that doesn't already appear,
// as-is, in every variant.
package merge

import (
	"sort"
	"strings"

	"github.com/pgfmt/sqlfmt/pkg/directive"
)

// Result pairs one directive.Variant's Selections with the fully rendered
// text that formatting produced from that variant's resolved SQL.
type Result struct {
	Selections map[*directive.Group]int
	Text       string
}

// Merge reconstructs the formatted 2-way-SQL source from a template and
// the rendered text of every variant directive.Template.Variants
// produced. The variant whose Selections choose branch 0 for every group
// (the "baseline") supplies everything outside a directive group's
// variable content; every other variant supplies exactly one group's
// non-default branch.
func Merge(tmpl *directive.Template, results []Result) (string, error) {
	if !tmpl.HasDirectives() {
		if len(results) == 0 {
			return "", &Error{Message: "no variants supplied"}
		}
		return results[0].Text, nil
	}

	baseline, err := findBaseline(results)
	if err != nil {
		return "", err
	}
	baseLines := splitLines(baseline.Text)

	bt := map[*directive.Group][]string{}
	bounds := map[*directive.Group][2]int{}

	var multiGroups []*directive.Group
	tmpl.Walk(func(g *directive.Group) {
		if len(g.Branches) > 1 {
			multiGroups = append(multiGroups, g)
		}
	})

	for _, g := range multiGroups {
		texts, rng, err := extractGroup(g, baseLines, results)
		if err != nil {
			return "", err
		}
		bt[g] = texts
		bounds[g] = rng
	}

	var topGroups []*directive.Group
	for _, seg := range tmpl.Segments {
		if seg.Kind == directive.SegmentGroup {
			topGroups = append(topGroups, seg.Group)
		}
	}
	for _, g := range topGroups {
		resolveNested(g, bt)
	}

	return spliceTop(baseLines, topGroups, bt, bounds)
}

// findBaseline locates the variant whose Selections pick branch 0 for
// every group it names — directive.Template.Variants always produces
// exactly one such variant, generated first.
func findBaseline(results []Result) (*Result, error) {
	for i := range results {
		isBaseline := true
		for _, idx := range results[i].Selections {
			if idx != 0 {
				isBaseline = false
				break
			}
		}
		if isBaseline {
			return &results[i], nil
		}
	}
	return nil, &Error{Message: "no baseline variant (all-branch-0 selection) found among results"}
}

// extractGroup isolates group g's per-branch rendered text. For branch 0
// it's the region of the baseline text that every other-branch variant
// agrees lies outside the common prefix/suffix; for branch idx>=1 it's
// the corresponding region of the variant that selected it.
func extractGroup(g *directive.Group, baseLines []string, results []Result) ([]string, [2]int, error) {
	k := len(g.Branches)
	texts := make([]string, k)
	variantLines := make(map[int][]string, k-1)

	minPrefix, minSuffix := -1, -1
	for idx := 1; idx < k; idx++ {
		v := findVariant(results, g, idx)
		if v == nil {
			return nil, [2]int{}, &Error{Message: "no variant found selecting a non-default branch of a directive group"}
		}
		vl := splitLines(v.Text)
		p, s := commonAffix(baseLines, vl)
		if minPrefix < 0 || p < minPrefix {
			minPrefix = p
		}
		if minSuffix < 0 || s < minSuffix {
			minSuffix = s
		}
		variantLines[idx] = vl
	}
	if minPrefix < 0 {
		minPrefix = 0
	}
	if minSuffix < 0 {
		minSuffix = 0
	}

	end := len(baseLines) - minSuffix
	if minPrefix > end {
		return nil, [2]int{}, &Error{Message: "could not isolate a directive group's branch text from its surrounding context"}
	}
	texts[0] = strings.Join(baseLines[minPrefix:end], "\n")

	for idx := 1; idx < k; idx++ {
		vl := variantLines[idx]
		vend := len(vl) - minSuffix
		if minPrefix > vend {
			return nil, [2]int{}, &Error{Message: "could not isolate a directive group's branch text from its surrounding context"}
		}
		texts[idx] = strings.Join(vl[minPrefix:vend], "\n")
	}

	return texts, [2]int{minPrefix, end}, nil
}

func findVariant(results []Result, g *directive.Group, idx int) *Result {
	for i := range results {
		if results[i].Selections[g] == idx {
			return &results[i]
		}
	}
	return nil
}

// commonAffix returns the number of leading and (non-overlapping) trailing
// lines a and b have in common.
func commonAffix(a, b []string) (prefix, suffix int) {
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	maxSuffix := minInt(len(a), len(b)) - prefix
	for suffix < maxSuffix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}
	return prefix, suffix
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// resolveNested folds any directive group nested inside one of g's
// branches into that branch's recorded text, innermost first, so that by
// the time g itself is spliced into its own container every descendant
// group is already fully wrapped with its own directive comments.
func resolveNested(g *directive.Group, bt map[*directive.Group][]string) {
	if len(g.Branches) <= 1 {
		return
	}
	for i, br := range g.Branches {
		for _, seg := range br.Body {
			if seg.Kind != directive.SegmentGroup {
				continue
			}
			child := seg.Group
			resolveNested(child, bt)
			if len(child.Branches) <= 1 {
				continue
			}
			wrapped := wrapGroup(child, bt, indentOf(bt[g][i]))
			bt[g][i] = strings.Replace(bt[g][i], bt[child][0], wrapped, 1)
		}
	}
}

// wrapGroup renders group g's directive comments and every branch's
// (already-resolved) body back into one block, each marker line carrying
// the indentation its body's first line already has.
func wrapGroup(g *directive.Group, bt map[*directive.Group][]string, indent string) string {
	texts := bt[g]
	var sb strings.Builder
	for i, br := range g.Branches {
		sb.WriteString(indent)
		sb.WriteString(br.HeaderRaw)
		if texts[i] != "" {
			sb.WriteString("\n")
			sb.WriteString(texts[i])
		}
		sb.WriteString("\n")
	}
	sb.WriteString(indent)
	sb.WriteString(g.EndRaw)
	return sb.String()
}

// indentOf returns the leading whitespace of text's first line, the
// indentation a spliced-in directive marker should match.
func indentOf(text string) string {
	line := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		line = text[:i]
	}
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// spliceTop replaces each top-level multi-branch group's region in the
// baseline lines with its fully wrapped directive text, left to right.
func spliceTop(baseLines []string, topGroups []*directive.Group, bt map[*directive.Group][]string, bounds map[*directive.Group][2]int) (string, error) {
	type region struct {
		start, end int
		text       string
	}
	var regions []region
	for _, g := range topGroups {
		if len(g.Branches) <= 1 {
			continue
		}
		b := bounds[g]
		regions = append(regions, region{b[0], b[1], wrapGroup(g, bt, indentOf(baseLines[b[0]]))})
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].start < regions[j].start })

	var out []string
	prev := 0
	for _, r := range regions {
		if r.start < prev {
			return "", &Error{Message: "two directive groups claim overlapping text"}
		}
		out = append(out, baseLines[prev:r.start]...)
		out = append(out, splitLines(r.text)...)
		prev = r.end
	}
	out = append(out, baseLines[prev:]...)
	return strings.Join(out, "\n"), nil
}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}
