// Package align computes the per-column tab-stop widths a layout.AlignedList
// or layout.JoinChain needs so pkg/render can pad every row's cells to the
// same stop, the mechanism behind this style's hallmark column alignment
// (leading-comma lists where every alias, every "AS", every join condition
// lines up down the page).
package align

import (
	"github.com/pgfmt/sqlfmt/pkg/config"
	"github.com/pgfmt/sqlfmt/pkg/layout"
)

// Widths holds the per-column stop width (in character columns) for one
// group of rows: column i stops at Cols[i], the smallest multiple of the
// configured tab size strictly greater than every cell's own width in
// that column, so at least one tab (or space) always separates two
// adjacent columns even when one of them is already tab-sized. Widths
// built by Columns move column 0 one further tab stop past that; Widths
// built by ChainColumns do not.
type Widths struct {
	Cols []int
}

// Columns computes per-column stop widths across rows of cells. Rows with
// fewer cells than their neighbors simply don't contribute past their own
// length — layout.AlignedList and layout.JoinChain both tolerate variable
// cell counts per row (e.g. a FROM seed has no join keyword/condition the
// way a join row does).
func Columns(cfg config.Config, rows [][]layout.Cell) Widths {
	return columns(cfg, rows, true)
}

// ChainColumns computes per-column stops the same way as Columns but
// without the extra tab-stop AlignedList groups get: a BooleanChain's
// lhs/op/rhs split (pkg/translate's comparisonCells) only needs to clear
// the next tab stop past the widest lhs, not a whole stop beyond that —
// confirmed by spec's worked WHERE example, where a single-operand
// comparison gets exactly one separating tab.
func ChainColumns(cfg config.Config, rows [][]layout.Cell) Widths {
	return columns(cfg, rows, false)
}

// columns computes each column's stop as the smallest multiple of tab
// strictly greater than that column's widest cell — "strictly greater"
// rather than "greater or equal" is what makes a cell already sitting on
// a tab stop still get a full tab of separation, per spec's "if a value
// ends exactly on a tab-stop, one additional tab is added" rule. Column 0
// of an AlignedList group (extraStop) clears one further stop beyond
// that: spec's worked examples show the primary expression column always
// getting two tabs of breathing room before AS/alias, while every other
// column — AS, alias, and a BooleanChain's lhs/op/rhs split alike — only
// needs the single strictly-greater stop.
func columns(cfg config.Config, rows [][]layout.Cell, extraStop bool) Widths {
	var cols []int
	for _, cells := range rows {
		for i, c := range cells {
			w := cellWidth(c)
			if i >= len(cols) {
				cols = append(cols, w)
			} else if w > cols[i] {
				cols[i] = w
			}
		}
	}
	tab := tabSize(cfg)
	for i, w := range cols {
		stop := nextStop(w, tab)
		if extraStop && i == 0 {
			stop = nextStop(stop, tab)
		}
		cols[i] = stop
	}
	return Widths{Cols: cols}
}

// nextStop returns the smallest multiple of tab strictly greater than w.
func nextStop(w, tab int) int {
	return (w/tab + 1) * tab
}

// cellWidth is the width of a cell's own first line. A Nested cell always
// opens onto a fresh multi-line body (CASE, a subquery, a boolean chain),
// so it never constrains a column's stop width — only the Text cells
// sharing its column do.
func cellWidth(c layout.Cell) int {
	if c.Nested != nil {
		return 0
	}
	return len([]rune(c.Text))
}

// Pad returns the separator text to append after a column-i cell of the
// given rendered width, reaching that column's stop: tabs when
// cfg.IndentTab, spaces otherwise. Always at least one tab/space, even
// for a cell already at or past the column's nominal stop.
//
// Tabs don't advance by a fixed amount — each one moves the cursor to the
// next multiple of the tab size — so reaching a stop takes simulating
// successive jumps from the cell's own ending column, not one division.
func (w Widths) Pad(cfg config.Config, col int, textLen int) string {
	if col >= len(w.Cols) {
		return padRun(cfg, 1)
	}
	stop := w.Cols[col]
	if !cfg.IndentTab {
		n := stop - textLen
		if n < 1 {
			n = 1
		}
		return padRun(cfg, n)
	}
	tab := tabSize(cfg)
	col0 := textLen
	n := 0
	for col0 < stop {
		col0 = nextStop(col0, tab)
		n++
	}
	if n < 1 {
		n = 1
	}
	return padRun(cfg, n)
}

func padRun(cfg config.Config, n int) string {
	ch := byte(' ')
	if cfg.IndentTab {
		ch = '\t'
	}
	out := make([]byte, n)
	for i := range out {
		out[i] = ch
	}
	return string(out)
}

func tabSize(cfg config.Config) int {
	if cfg.TabSize <= 0 {
		return 1
	}
	return cfg.TabSize
}
