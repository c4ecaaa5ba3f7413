// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

import "sort"

// SheetState is a worksheet's visibility (spec §3).
type SheetState byte

const (
	SheetVisible SheetState = iota
	SheetHidden
	SheetVeryHidden
)

// RowStyle is a per-row override (spec §3).
type RowStyle struct {
	Height       float64
	CustomHeight bool
	StyleIndex   int
	Hidden       bool
}

// ColRange is a compressed per-column-range override (spec §3): [Min, Max]
// inclusive columns sharing one width/style.
type ColRange struct {
	Min, Max     int
	Width        float64
	CustomWidth  bool
	StyleIndex   int
}

// View is one window's frozen-pane-independent cursor/selection state
// (spec §3).
type View struct {
	Row, Column           int
	SelRow1, SelCol1      int
	SelRow2, SelCol2      int
}

// Worksheet holds one sheet's cell grid and per-sheet presentation state
// (spec §3). Cells are stored sparsely: a missing entry is Empty with
// style 0, subject to row/column default styles (Worksheet.ResolveStyle).
type Worksheet struct {
	Name          string
	SheetID       int
	State         SheetState
	TabColor      string
	ShowGridLines bool
	FrozenRows    int
	FrozenColumns int

	cells map[int]map[int]Cell
	rows  map[int]RowStyle
	cols  []ColRange
	merges []Area
	views  map[int]View
}

// NewWorksheet returns an empty worksheet named name with stable id
// sheetID.
func NewWorksheet(name string, sheetID int) *Worksheet {
	return &Worksheet{
		Name: name, SheetID: sheetID, ShowGridLines: true,
		cells: make(map[int]map[int]Cell),
		rows:  make(map[int]RowStyle),
		views: map[int]View{0: {}},
	}
}

// GetCell returns the cell at (row, col), or the Empty default (style 0) if
// unset.
func (w *Worksheet) GetCell(row, col int) Cell {
	if r, ok := w.cells[row]; ok {
		if c, ok := r[col]; ok {
			return c
		}
	}
	return newEmptyCell(0)
}

// SetCell stores a cell at (row, col), replacing any existing contents.
func (w *Worksheet) SetCell(row, col int, c Cell) {
	r, ok := w.cells[row]
	if !ok {
		r = make(map[int]Cell)
		w.cells[row] = r
	}
	r[col] = c
}

// IsEmptyCell reports whether (row, col) carries no value.
func (w *Worksheet) IsEmptyCell(row, col int) bool {
	return w.GetCell(row, col).IsEmpty()
}

// ClearCellContents clears a cell's value but preserves its style.
func (w *Worksheet) ClearCellContents(row, col int) {
	s := w.GetCell(row, col).Style()
	w.SetCell(row, col, newEmptyCell(s))
}

// ClearCellAll clears both a cell's contents and its style (back to the
// default style 0), removing the sparse entry entirely.
func (w *Worksheet) ClearCellAll(row, col int) {
	if r, ok := w.cells[row]; ok {
		delete(r, col)
		if len(r) == 0 {
			delete(w.cells, row)
		}
	}
}

// Dimension reports the sheet's used range, (1,1,1,1) for an empty sheet
// (spec §4.9).
func (w *Worksheet) Dimension() (minRow, minCol, maxRow, maxCol int) {
	first := true
	for r, row := range w.cells {
		for c, cell := range row {
			if cell.IsEmpty() {
				continue
			}
			if first {
				minRow, maxRow, minCol, maxCol = r, r, c, c
				first = false
				continue
			}
			if r < minRow {
				minRow = r
			}
			if r > maxRow {
				maxRow = r
			}
			if c < minCol {
				minCol = c
			}
			if c > maxCol {
				maxCol = c
			}
		}
	}
	if first {
		return 1, 1, 1, 1
	}
	return
}

// ResolveStyle implements the style precedence: explicit cell style > row
// style > column range style > default (spec §3).
func (w *Worksheet) ResolveStyle(row, col int) int {
	cell := w.GetCell(row, col)
	if cell.Style() != 0 {
		return cell.Style()
	}
	if rs, ok := w.rows[row]; ok && rs.StyleIndex != 0 {
		return rs.StyleIndex
	}
	for _, cr := range w.cols {
		if col >= cr.Min && col <= cr.Max && cr.StyleIndex != 0 {
			return cr.StyleIndex
		}
	}
	return 0
}

// SetRowStyle sets style for an entire row. It must not overwrite explicit
// per-cell styles already set (spec §4.9) — it only changes the row-level
// fallback a cell resolves to when it carries the default style itself.
func (w *Worksheet) SetRowStyle(row, styleIndex int) {
	rs := w.rows[row]
	rs.StyleIndex = styleIndex
	w.rows[row] = rs
}

// SetColStyle sets the style for columns [min, max] by appending a new
// ColRange and re-sorting the list by Min. Existing ranges are not split or
// merged; where ranges overlap, ResolveStyle uses the first styled one in
// that order, and the order of ranges with equal Min is not defined.
func (w *Worksheet) SetColStyle(min, max, styleIndex int) {
	w.cols = append(w.cols, ColRange{Min: min, Max: max, StyleIndex: styleIndex})
	sort.Slice(w.cols, func(i, j int) bool { return w.cols[i].Min < w.cols[j].Min })
}

// RowHeight returns row's current height override, or 0 if unset.
func (w *Worksheet) RowHeight(row int) float64 { return w.rows[row].Height }

// SetRowHeight sets an explicit, custom height for one row.
func (w *Worksheet) SetRowHeight(row int, height float64) {
	rs := w.rows[row]
	rs.Height, rs.CustomHeight = height, true
	w.rows[row] = rs
}

// ColumnWidth returns the width override covering col, or 0 if unset.
func (w *Worksheet) ColumnWidth(col int) float64 {
	for _, cr := range w.cols {
		if col >= cr.Min && col <= cr.Max {
			return cr.Width
		}
	}
	return 0
}

// SetColumnWidth sets an explicit, custom width for columns [min, max].
func (w *Worksheet) SetColumnWidth(min, max int, width float64) {
	w.cols = append(w.cols, ColRange{Min: min, Max: max, Width: width, CustomWidth: true})
	sort.Slice(w.cols, func(i, j int) bool { return w.cols[i].Min < w.cols[j].Min })
}

// MergeCells merges the rectangle a into this sheet's merge set.
func (w *Worksheet) MergeCells(a Area) {
	w.merges = append(w.merges, a)
}

// Merges returns a copy of the current merge-cell set.
func (w *Worksheet) Merges() []Area {
	out := make([]Area, len(w.merges))
	copy(out, w.merges)
	return out
}

// NavigateDirection is a "Ctrl+Arrow" jump direction.
type NavigateDirection byte

const (
	NavigateUp NavigateDirection = iota
	NavigateDown
	NavigateLeft
	NavigateRight
)

// NavigateToEdgeInDirection implements the "Ctrl+Arrow" jump (spec §4.9):
// from a filled cell, jump to the last filled cell in a contiguous run;
// from an empty cell, to the next filled cell in that direction; at the
// grid edge, stay.
func (w *Worksheet) NavigateToEdgeInDirection(row, col int, dir NavigateDirection) (int, int) {
	dr, dc := 0, 0
	switch dir {
	case NavigateUp:
		dr = -1
	case NavigateDown:
		dr = 1
	case NavigateLeft:
		dc = -1
	case NavigateRight:
		dc = 1
	}
	inBounds := func(r, c int) bool { return r >= 1 && r <= LastRow && c >= 1 && c <= LastColumn }
	curFilled := !w.IsEmptyCell(row, col)
	r, c := row, col
	if curFilled {
		for {
			nr, nc := r+dr, c+dc
			if !inBounds(nr, nc) || w.IsEmptyCell(nr, nc) {
				return r, c
			}
			r, c = nr, nc
		}
	}
	for {
		nr, nc := r+dr, c+dc
		if !inBounds(nr, nc) {
			return r, c
		}
		r, c = nr, nc
		if !w.IsEmptyCell(r, c) {
			return r, c
		}
	}
}

// SetView replaces view id's state.
func (w *Worksheet) SetView(id int, v View) {
	if w.views == nil {
		w.views = make(map[int]View)
	}
	w.views[id] = v
}
