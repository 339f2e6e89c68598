package align_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pgfmt/sqlfmt/pkg/align"
	"github.com/pgfmt/sqlfmt/pkg/config"
	"github.com/pgfmt/sqlfmt/pkg/layout"
)

func cell(text string) layout.Cell { return layout.Cell{Text: text} }

func defaultCfg() config.Config {
	cfg := config.Default()
	cfg.TabSize = 4
	cfg.IndentTab = true
	return cfg
}

// S1's SELECT item: "COL1" (width 4, an exact multiple of tab_size) still
// clears two tab-stops before AS, per the column-0 extra-stop rule.
func TestColumnsColumnZeroExactMultipleGetsExtraStop(t *testing.T) {
	cfg := defaultCfg()
	rows := [][]layout.Cell{
		{cell("COL1"), cell("AS"), cell("COL1")},
	}
	w := align.Columns(cfg, rows)
	require.Equal(t, 12, w.Cols[0]) // nextStop(4,4)=8, extra -> nextStop(8,4)=12
	require.Equal(t, 4, w.Cols[1])  // nextStop(2,4)=4, no extra

	require.Equal(t, "\t\t", w.Pad(cfg, 0, 4)) // 4 -> 8 -> 12, two jumps
	require.Equal(t, "\t", w.Pad(cfg, 1, 2))    // 2 -> 4, one jump
}

// S4's "a": width 1, still needs two tabs before AS.
func TestColumnsShortColumnZeroGetsTwoTabs(t *testing.T) {
	cfg := defaultCfg()
	rows := [][]layout.Cell{
		{cell("a"), cell("AS"), cell("a")},
	}
	w := align.Columns(cfg, rows)
	require.Equal(t, "\t\t", w.Pad(cfg, 0, 1))
	require.Equal(t, "\t", w.Pad(cfg, 1, 2))
}

// ChainColumns never applies the column-0 extra stop: a WHERE comparison
// only ever needs one separating tab on each side.
func TestChainColumnsNoExtraStopAtAnyColumn(t *testing.T) {
	cfg := defaultCfg()
	rows := [][]layout.Cell{
		{cell("DEPT_NO"), cell("="), cell("10")},
	}
	w := align.ChainColumns(cfg, rows)
	require.Equal(t, "\t", w.Pad(cfg, 0, 7)) // 7 -> 8, one jump
	require.Equal(t, "\t", w.Pad(cfg, 1, 1)) // 1 -> 4, one jump
}

func TestColumnsWidestCellInColumnSetsTheStop(t *testing.T) {
	cfg := defaultCfg()
	rows := [][]layout.Cell{
		{cell("a")},
		{cell("longer_name")},
	}
	w := align.Columns(cfg, rows)
	// widest cell is 11 chars -> nextStop(11,4)=12, extra -> nextStop(12,4)=16
	require.Equal(t, 16, w.Cols[0])
}

func TestColumnsSpaceIndentUsesSpacesNotTabs(t *testing.T) {
	cfg := defaultCfg()
	cfg.IndentTab = false
	rows := [][]layout.Cell{
		{cell("a"), cell("AS")},
	}
	w := align.Columns(cfg, rows)
	pad := w.Pad(cfg, 1, 2)
	require.NotContains(t, pad, "\t")
	require.Equal(t, "  ", pad)
}

func TestColumnsNestedCellDoesNotConstrainWidth(t *testing.T) {
	cfg := defaultCfg()
	rows := [][]layout.Cell{
		{{Nested: &layout.CaseBody{}}},
		{cell("x")},
	}
	w := align.Columns(cfg, rows)
	// only "x" (width 1) constrains column 0.
	require.Equal(t, 8, w.Cols[0]) // nextStop(1,4)=4, extra -> nextStop(4,4)=8
}

func TestColumnsRowsWithFewerCellsDoNotPanic(t *testing.T) {
	cfg := defaultCfg()
	rows := [][]layout.Cell{
		{cell("a")},
		{cell("a"), cell("b"), cell("c")},
	}
	require.NotPanics(t, func() {
		align.Columns(cfg, rows)
	})
}
