package directive

// Variant is one concrete resolved SQL text, with enough bookkeeping for
// the merge stage to know which Group/branch selection produced it.
type Variant struct {
	Text       string
	Selections map[*Group]int // branch index chosen for every Group in the template
}

// step pins one ancestor Group to the branch that makes some descendant
// Group reachable at all.
type step struct {
	g   *Group
	idx int
}

// groupCtx is a Group together with the steps (if any) an enclosing
// Group's selection must take for this Group to appear in the rendered
// text in the first place.
type groupCtx struct {
	g    *Group
	path []step
}

// groupContexts walks the template depth-first, in source order,
// recording for every Group (including ones nested inside another
// Group's branch) the path of ancestor selections needed to reach it.
func groupContexts(segs []Segment, path []step) []groupCtx {
	var out []groupCtx
	for _, s := range segs {
		if s.Kind != SegmentGroup {
			continue
		}
		g := s.Group
		out = append(out, groupCtx{g: g, path: path})
		for idx, b := range g.Branches {
			childPath := make([]step, len(path)+1)
			copy(childPath, path)
			childPath[len(path)] = step{g: g, idx: idx}
			out = append(out, groupContexts(b.Body, childPath)...)
		}
	}
	return out
}

// Variants enumerates the minimal covering set of concrete SQL texts
// needed to exercise every branch of every Group at least once: for each
// Group with k branches, k variants are produced that vary only that
// Group's selection (0..k-1) while holding every other Group at its
// default (branch 0), then duplicate texts are collapsed. A Group with
// only one branch (an /*%if*/ with no /*%elseif*//*%else*/) never needs
// more than the baseline variant, since its one fragment is already
// covered there.
//
// A Group nested inside another Group's non-default branch doesn't exist
// in the rendered text unless that enclosing branch is actually selected,
// so varying the nested Group's own selection isn't enough on its own —
// every ancestor Group on the path to it is also pinned to the branch
// that makes it reachable before its own branches are varied.
func (t *Template) Variants() []Variant {
	ctxs := groupContexts(t.Segments, nil)

	if len(ctxs) == 0 {
		return []Variant{{Text: renderTemplate(t, nil), Selections: nil}}
	}

	baseline := make(map[*Group]int, len(ctxs))
	for _, c := range ctxs {
		baseline[c.g] = 0
	}

	seen := map[string]bool{}
	var out []Variant
	add := func(sel map[*Group]int) {
		text := renderTemplate(t, sel)
		if seen[text] {
			return
		}
		seen[text] = true
		out = append(out, Variant{Text: text, Selections: sel})
	}

	add(cloneSel(baseline))
	for _, c := range ctxs {
		for idx := 1; idx < len(c.g.Branches); idx++ {
			sel := cloneSel(baseline)
			for _, st := range c.path {
				sel[st.g] = st.idx
			}
			sel[c.g] = idx
			add(sel)
		}
	}
	return out
}

func cloneSel(m map[*Group]int) map[*Group]int {
	out := make(map[*Group]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// renderTemplate resolves every Group in t to the branch selected by sel
// (default branch 0 if sel is nil or omits a Group), dropping every
// directive header/end comment around a group with more than one branch
// (the pkg/merge stage reconstructs those from the formatted output) but
// keeping a single-branch group's /*%if*/.../*%end*/ pair verbatim in the
// resolved text: with nothing to pick between, there's no branch
// selection for pkg/merge to undo later, so the marker comments can ride
// through the ordinary SQL comment-preservation machinery like any other
// comment instead.
func renderTemplate(t *Template, sel map[*Group]int) string {
	var b []byte
	b = renderSegments(b, t.Segments, sel)
	return string(b)
}

func renderSegments(b []byte, segs []Segment, sel map[*Group]int) []byte {
	for _, s := range segs {
		if s.Kind == SegmentText {
			b = append(b, s.Text...)
			continue
		}
		g := s.Group
		idx := sel[g]
		if idx < 0 || idx >= len(g.Branches) {
			idx = 0
		}
		single := len(g.Branches) == 1
		if single {
			b = append(b, g.Branches[0].HeaderRaw...)
		}
		b = renderSegments(b, g.Branches[idx].Body, sel)
		if single {
			b = append(b, g.EndRaw...)
		}
	}
	return b
}
