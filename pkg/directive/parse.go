package directive

// Parse splits src into its directive skeleton. When src contains no
// directive markers at all, the returned Template has a single text
// Segment and HasDirectives reports false.
func Parse(src string) (*Template, error) {
	marks := scanMarkers(src)

	g, err := directiveParser.ParseString("", src)
	if err != nil {
		return nil, wrapParseErr(err)
	}

	segs := convertSegments(g.Segments, marks)
	return &Template{Segments: segs}, nil
}

func convertSegments(gsegs []*gSegment, marks []marker) []Segment {
	segs := make([]Segment, 0, len(gsegs))
	for _, gs := range gsegs {
		if gs.Group != nil {
			segs = append(segs, Segment{Kind: SegmentGroup, Group: convertGroup(gs.Group, marks)})
			continue
		}
		if gs.Text == "" {
			continue
		}
		segs = append(segs, Segment{Kind: SegmentText, Text: gs.Text})
	}
	return segs
}

func convertGroup(g *gGroup, marks []marker) *Group {
	out := &Group{}

	ifM := marks[mustIdx(g.If.Idx)]
	out.Branches = append(out.Branches, Branch{
		Kind:       BranchIf,
		Condition:  ifM.condition,
		HeaderRaw:  ifM.raw,
		HeaderSpan: ifM.span,
		Body:       convertSegments(g.If.Body, marks),
	})

	for _, elif := range g.Elifs {
		m := marks[mustIdx(elif.Idx)]
		out.Branches = append(out.Branches, Branch{
			Kind:       BranchElseIf,
			Condition:  m.condition,
			HeaderRaw:  m.raw,
			HeaderSpan: m.span,
			Body:       convertSegments(elif.Body, marks),
		})
	}

	if g.Else != nil {
		m := marks[mustIdx(g.Else.Idx)]
		out.Branches = append(out.Branches, Branch{
			Kind:       BranchElse,
			HeaderRaw:  m.raw,
			HeaderSpan: m.span,
			Body:       convertSegments(g.Else.Body, marks),
		})
	}

	endM := marks[mustIdx(g.EndIdx)]
	out.EndRaw = endM.raw
	out.EndSpan = endM.span
	return out
}
