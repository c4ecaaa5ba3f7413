// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.
//
// Structural edits (row/column insert, delete and move) are grounded on
// adjustHelper in
// _examples/other_examples/15f5d38f_..._adjust.go.go: that function
// relocates a sheet's cell grid, merges, dimensions and calc-chain entries
// around one pivot, then patches every formula that references a shifted
// cell. This file adapts the same shape to the in-memory grid (no XML) and
// routes formula patching through Stringify/DisplaceData instead of a
// token-level text rewrite.
package ironcalc

// InsertRows inserts count empty rows before row at on sheet, shifting
// existing rows down and rewriting every formula in the workbook that
// references a cell at or below at on that sheet.
func (wb *Workbook) InsertRows(sheetName string, at, count int) error {
	return wb.shiftRows(sheetName, at, count)
}

// DeleteRows removes count rows starting at at on sheet, shifting rows
// below up and rewriting affected formulas (out-of-bound shifts become
// #REF!, matching Stringify's displaceCoord).
func (wb *Workbook) DeleteRows(sheetName string, at, count int) error {
	return wb.shiftRows(sheetName, at, -count)
}

func (wb *Workbook) shiftRows(sheetName string, at, delta int) error {
	idx, ok := wb.SheetIndexByName(sheetName)
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", sheetName)
	}
	ws := wb.sheets[idx]
	if at < 1 || delta == 0 {
		return wrapf(ErrInvalidRow, "row %d out of range", at)
	}
	shiftSparseGridRows(ws, at, delta)
	shiftRowStyles(ws, at, delta)
	shiftMergesRows(ws, at, delta)
	disp := DisplaceData{Kind: DisplaceRow, SheetIndex: idx, Row: at, Delta: delta}
	wb.restringifyAll(disp)
	return nil
}

// InsertColumns inserts count empty columns before col on sheet.
func (wb *Workbook) InsertColumns(sheetName string, at, count int) error {
	return wb.shiftColumns(sheetName, at, count)
}

// DeleteColumns removes count columns starting at col on sheet.
func (wb *Workbook) DeleteColumns(sheetName string, at, count int) error {
	return wb.shiftColumns(sheetName, at, -count)
}

func (wb *Workbook) shiftColumns(sheetName string, at, delta int) error {
	idx, ok := wb.SheetIndexByName(sheetName)
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", sheetName)
	}
	ws := wb.sheets[idx]
	if at < 1 || delta == 0 {
		return wrapf(ErrInvalidColumn, "column %d out of range", at)
	}
	shiftSparseGridCols(ws, at, delta)
	shiftColRanges(ws, at, delta)
	shiftMergesCols(ws, at, delta)
	disp := DisplaceData{Kind: DisplaceColumn, SheetIndex: idx, Column: at, Delta: delta}
	wb.restringifyAll(disp)
	return nil
}

// shiftSparseGridRows relocates every cell at or below at by delta rows,
// dropping any cell that lands above row at (a delete whose range covered
// it) or beyond LastRow.
func shiftSparseGridRows(ws *Worksheet, at, delta int) {
	next := make(map[int]map[int]Cell, len(ws.cells))
	for r, row := range ws.cells {
		nr := r
		if r >= at {
			nr = r + delta
			if nr < at || nr > LastRow {
				continue
			}
		}
		dst, ok := next[nr]
		if !ok {
			dst = make(map[int]Cell, len(row))
			next[nr] = dst
		}
		for c, cell := range row {
			dst[c] = cell
		}
	}
	ws.cells = next
}

func shiftSparseGridCols(ws *Worksheet, at, delta int) {
	for _, row := range ws.cells {
		next := make(map[int]Cell, len(row))
		for c, cell := range row {
			nc := c
			if c >= at {
				nc = c + delta
				if nc < at || nc > LastColumn {
					continue
				}
			}
			next[nc] = cell
		}
		for c := range row {
			delete(row, c)
		}
		for c, cell := range next {
			row[c] = cell
		}
	}
}

func shiftRowStyles(ws *Worksheet, at, delta int) {
	next := make(map[int]RowStyle, len(ws.rows))
	for r, rs := range ws.rows {
		nr := r
		if r >= at {
			nr = r + delta
			if nr < at {
				continue
			}
		}
		next[nr] = rs
	}
	ws.rows = next
}

func shiftColRanges(ws *Worksheet, at, delta int) {
	var next []ColRange
	for _, cr := range ws.cols {
		if cr.Min >= at {
			cr.Min += delta
			cr.Max += delta
		} else if cr.Max >= at {
			cr.Max += delta
		}
		if cr.Max >= cr.Min {
			next = append(next, cr)
		}
	}
	ws.cols = next
}

func shiftMergesRows(ws *Worksheet, at, delta int) {
	var next []Area
	for _, a := range ws.merges {
		if a.Row >= at {
			a.Row += delta
		}
		next = append(next, a)
	}
	ws.merges = next
}

func shiftMergesCols(ws *Worksheet, at, delta int) {
	var next []Area
	for _, a := range ws.merges {
		if a.Column >= at {
			a.Column += delta
		}
		next = append(next, a)
	}
	ws.merges = next
}

// restringifyAll re-renders and reparses every interned formula under disp,
// the in-memory analogue of adjustFormula's text rewrite: formula cells
// keep the same AST index slot (no cell-level bookkeeping needed) since
// replaceFormulaText overwrites the record in place.
func (wb *Workbook) restringifyAll(disp DisplaceData) {
	for f := range wb.parsedFormulas {
		rec := wb.parsedFormulas[f]
		newText := Stringify(rec.node, disp.SheetIndex, 0, 0, disp, wb)
		if newText != rec.text {
			wb.replaceFormulaText(uint32(f), newText)
		}
	}
}

// MoveRow relocates row at to row at+delta, rotating every row strictly
// between the two positions by one step to close the gap it leaves (spec
// §4.7 move_row). Formulas whose reference resolved inside the moved row
// shift by delta (via DisplaceMove, the same rule cut/paste uses); a
// formula referencing one of the rotated rows keeps its original row
// number, which now holds different data — the same simplification Excel's
// own "drag row" gesture makes when the destination isn't adjacent.
func (wb *Workbook) MoveRow(sheetName string, at, delta int) error {
	if delta == 0 {
		return nil
	}
	idx, ok := wb.SheetIndexByName(sheetName)
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", sheetName)
	}
	dst := at + delta
	if at < 1 || dst < 1 || dst > LastRow {
		return wrapf(ErrInvalidRow, "row %d out of range", dst)
	}
	ws := wb.sheets[idx]
	lo, hi := at, dst
	if lo > hi {
		lo, hi = hi, lo
	}
	rows := make(map[int]map[int]Cell, hi-lo+1)
	rowStyles := make(map[int]RowStyle, hi-lo+1)
	for r := lo; r <= hi; r++ {
		if row, ok := ws.cells[r]; ok {
			rows[r] = row
		}
		if rs, ok := ws.rows[r]; ok {
			rowStyles[r] = rs
		}
	}
	newRows := make(map[int]map[int]Cell)
	newRowStyles := make(map[int]RowStyle)
	if delta > 0 {
		for r := at + 1; r <= dst; r++ {
			if row, ok := rows[r]; ok {
				newRows[r-1] = row
			}
			if rs, ok := rowStyles[r]; ok {
				newRowStyles[r-1] = rs
			}
		}
	} else {
		for r := dst; r <= at-1; r++ {
			if row, ok := rows[r]; ok {
				newRows[r+1] = row
			}
			if rs, ok := rowStyles[r]; ok {
				newRowStyles[r+1] = rs
			}
		}
	}
	if row, ok := rows[at]; ok {
		newRows[dst] = row
	}
	if rs, ok := rowStyles[at]; ok {
		newRowStyles[dst] = rs
	}

	for r := lo; r <= hi; r++ {
		delete(ws.cells, r)
		delete(ws.rows, r)
	}
	for r, row := range newRows {
		ws.cells[r] = row
	}
	for r, rs := range newRowStyles {
		ws.rows[r] = rs
	}

	disp := DisplaceData{
		Kind: DisplaceMove, MoveArea: Area{SheetIndex: idx, Row: at, Column: 1, Width: LastColumn, Height: 1},
		RowDelta: delta, SourceSheetIdx: idx, TargetSheetIdx: idx,
	}
	wb.restringifyAll(disp)
	return nil
}

// MoveColumn is MoveRow's column analogue (spec §4.7 move_column).
func (wb *Workbook) MoveColumn(sheetName string, at, delta int) error {
	if delta == 0 {
		return nil
	}
	idx, ok := wb.SheetIndexByName(sheetName)
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", sheetName)
	}
	dst := at + delta
	if at < 1 || dst < 1 || dst > LastColumn {
		return wrapf(ErrInvalidColumn, "column %d out of range", dst)
	}
	ws := wb.sheets[idx]
	lo, hi := at, dst
	if lo > hi {
		lo, hi = hi, lo
	}

	saved := make(map[int]map[int]Cell) // row -> (originalCol -> cell) restricted to [lo,hi]
	for r, row := range ws.cells {
		for c := lo; c <= hi; c++ {
			if cell, ok := row[c]; ok {
				if saved[r] == nil {
					saved[r] = make(map[int]Cell)
				}
				saved[r][c] = cell
			}
		}
	}
	for r, cols := range saved {
		for c := range cols {
			delete(ws.cells[r], c)
		}
		for c, cell := range cols {
			var nc int
			switch {
			case c == at:
				nc = dst
			case delta > 0 && c > at && c <= dst:
				nc = c - 1
			case delta < 0 && c >= dst && c < at:
				nc = c + 1
			default:
				nc = c
			}
			if ws.cells[r] == nil {
				ws.cells[r] = make(map[int]Cell)
			}
			ws.cells[r][nc] = cell
		}
	}

	var newCols []ColRange
	for _, cr := range ws.cols {
		if cr.Min <= hi && cr.Max >= lo {
			continue // compressed ranges overlapping the moved span are dropped; per-cell styles already moved
		}
		newCols = append(newCols, cr)
	}
	ws.cols = newCols

	disp := DisplaceData{
		Kind: DisplaceMove, MoveArea: Area{SheetIndex: idx, Row: 1, Column: at, Width: 1, Height: LastRow},
		ColumnDelta: delta, SourceSheetIdx: idx, TargetSheetIdx: idx,
	}
	wb.restringifyAll(disp)
	return nil
}

// Autofill extends the pattern in src across dst on the same sheet (spec
// §4.9): destination cells repeat src's rows cyclically, with formula
// references shifted by the destination cell's offset from its
// corresponding source cell, the way adjustFormula already shifts
// references by a row/column delta. The source's per-cell style is copied
// to each destination cell (spec: "style of the corresponding source cell
// is copied").
func (wb *Workbook) Autofill(sheetName string, src, dst Area) error {
	idx, ok := wb.SheetIndexByName(sheetName)
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", sheetName)
	}
	if src.Width <= 0 || src.Height <= 0 {
		return wrapf(ErrGridBoundsExceeded, "empty autofill source")
	}
	ws := wb.sheets[idx]
	for r := dst.Row; r < dst.Row+dst.Height; r++ {
		srcR := src.Row + (r-src.Row)%src.Height
		if srcR < src.Row {
			srcR += src.Height
		}
		for c := dst.Column; c < dst.Column+dst.Width; c++ {
			srcC := src.Column + (c-src.Column)%src.Width
			if srcC < src.Column {
				srcC += src.Width
			}
			if srcR == r && srcC == c {
				continue // identical cell, nothing to fill
			}
			cell := ws.GetCell(srcR, srcC)
			rowDelta, colDelta := r-srcR, c-srcC
			if f, ok := cell.FormulaIndex(); ok {
				text := Stringify(wb.FormulaNode(f), idx, srcR, srcC, DisplaceData{
					Kind: DisplaceMove,
					MoveArea: Area{SheetIndex: idx, Row: srcR, Column: srcC, Width: 1, Height: 1},
					RowDelta: rowDelta, ColumnDelta: colDelta,
					SourceSheetIdx: idx, TargetSheetIdx: idx,
				}, wb)
				nf := wb.internFormula(ws.SheetID, text)
				ws.SetCell(r, c, newFormulaCell(nf, cell.Style()))
				continue
			}
			ws.SetCell(r, c, cell)
		}
	}
	return nil
}

// MoveCells implements cut/paste: formulas referencing a cell inside src
// are rewritten to its new location in dst (same sheet or a different
// one); references outside src are left untouched. The destination is not
// checked against the grid bounds, and a move never turns a reference into
// #REF!.
func (wb *Workbook) MoveCells(srcSheet string, src Area, dstSheet string, dstRow, dstCol int) error {
	srcIdx, ok := wb.SheetIndexByName(srcSheet)
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", srcSheet)
	}
	dstIdx, ok := wb.SheetIndexByName(dstSheet)
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", dstSheet)
	}
	src.SheetIndex = srcIdx
	rowDelta := dstRow - src.Row
	colDelta := dstCol - src.Column

	srcWs := wb.sheets[srcIdx]
	dstWs := wb.sheets[dstIdx]
	moved := make(map[[2]int]Cell)
	for r := src.Row; r < src.Row+src.Height; r++ {
		for c := src.Column; c < src.Column+src.Width; c++ {
			cell := srcWs.GetCell(r, c)
			if !cell.IsEmpty() {
				moved[[2]int{r + rowDelta, c + colDelta}] = cell
			}
			srcWs.ClearCellAll(r, c)
		}
	}
	for pos, cell := range moved {
		dstWs.SetCell(pos[0], pos[1], cell)
	}

	disp := DisplaceData{
		Kind: DisplaceMove, MoveArea: src,
		RowDelta: rowDelta, ColumnDelta: colDelta,
		SourceSheetIdx: srcIdx, TargetSheetIdx: dstIdx,
	}
	wb.restringifyAll(disp)
	return nil
}
