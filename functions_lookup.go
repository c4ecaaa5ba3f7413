// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

func init() {
	RegisterFunction(FnVLOOKUP, fnVLOOKUP)
	RegisterFunction(FnHLOOKUP, fnHLOOKUP)
	RegisterFunction(FnINDEX, fnINDEX)
	RegisterFunction(FnMATCH, fnMATCH)
	RegisterFunction(FnCHOOSE, fnCHOOSE)
	RegisterFunction(FnROW, fnROW)
	RegisterFunction(FnCOLUMN, fnCOLUMN)
	RegisterFunction(FnROWS, fnROWS)
	RegisterFunction(FnCOLUMNS, fnCOLUMNS)
	RegisterFunction(FnADDRESS, fnADDRESS)
	RegisterFunction(FnLOOKUP, fnLOOKUP)
	RegisterFunction(FnOFFSET, fnOFFSET)
	RegisterFunction(FnINDIRECT, fnINDIRECT)
	RegisterFunction(FnXLOOKUP, fnXLOOKUP)
}

func fnVLOOKUP(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 3 || len(args) > 4 {
		return errorResult(ErrorKindNA, cell, "")
	}
	key := ec.eval(args[0], cell)
	if key.IsError() {
		return key
	}
	tableVal := ec.eval(args[1], cell)
	if tableVal.IsError() {
		return tableVal
	}
	if tableVal.Kind != ResultRange {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	colIdx, errRes := ec.scalarNumber(args[2], cell)
	if errRes != nil {
		return *errRes
	}
	approximate := true
	if len(args) == 4 {
		approximate, errRes = ec.scalarBool(args[3], cell)
		if errRes != nil {
			return *errRes
		}
	}
	rng := tableVal.Range.Normalized()
	ws := ec.wb.Sheet(rng.SheetIndex)
	if ws == nil {
		return errorResult(ErrorKindREF, cell, "")
	}
	col := rng.Col1 + int(colIdx) - 1
	if col > rng.Col2 {
		return errorResult(ErrorKindREF, cell, "")
	}
	matchRow := -1
	for r := rng.Row1; r <= rng.Row2; r++ {
		v := ec.resolveCellValue(ws.GetCell(r, rng.Col1), CellRef{SheetID: ws.SheetID, Row: r, Column: rng.Col1})
		if approximate {
			if compareResults(v, key, CompareLE) || compareResults(v, key, CompareEQ) {
				if compareResults(v, key, CompareGT) {
					break
				}
				matchRow = r
			} else {
				break
			}
		} else if compareResults(v, key, CompareEQ) {
			matchRow = r
			break
		}
	}
	if matchRow < 0 {
		return errorResult(ErrorKindNA, cell, "")
	}
	return ec.resolveCellValue(ws.GetCell(matchRow, col), CellRef{SheetID: ws.SheetID, Row: matchRow, Column: col})
}

func fnHLOOKUP(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 3 || len(args) > 4 {
		return errorResult(ErrorKindNA, cell, "")
	}
	key := ec.eval(args[0], cell)
	if key.IsError() {
		return key
	}
	tableVal := ec.eval(args[1], cell)
	if tableVal.IsError() {
		return tableVal
	}
	if tableVal.Kind != ResultRange {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	rowIdx, errRes := ec.scalarNumber(args[2], cell)
	if errRes != nil {
		return *errRes
	}
	rng := tableVal.Range.Normalized()
	ws := ec.wb.Sheet(rng.SheetIndex)
	if ws == nil {
		return errorResult(ErrorKindREF, cell, "")
	}
	row := rng.Row1 + int(rowIdx) - 1
	if row > rng.Row2 {
		return errorResult(ErrorKindREF, cell, "")
	}
	matchCol := -1
	for c := rng.Col1; c <= rng.Col2; c++ {
		v := ec.resolveCellValue(ws.GetCell(rng.Row1, c), CellRef{SheetID: ws.SheetID, Row: rng.Row1, Column: c})
		if compareResults(v, key, CompareEQ) {
			matchCol = c
			break
		}
	}
	if matchCol < 0 {
		return errorResult(ErrorKindNA, cell, "")
	}
	return ec.resolveCellValue(ws.GetCell(row, matchCol), CellRef{SheetID: ws.SheetID, Row: row, Column: matchCol})
}

func fnINDEX(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 2 || len(args) > 3 {
		return errorResult(ErrorKindNA, cell, "")
	}
	arr := ec.eval(args[0], cell)
	if arr.IsError() {
		return arr
	}
	rowIdx, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	colIdx := 0.0
	if len(args) == 3 {
		colIdx, errRes = ec.scalarNumber(args[2], cell)
		if errRes != nil {
			return *errRes
		}
	}
	switch arr.Kind {
	case ResultRange:
		rng := arr.Range.Normalized()
		ws := ec.wb.Sheet(rng.SheetIndex)
		if ws == nil {
			return errorResult(ErrorKindREF, cell, "")
		}
		width := rng.Col2 - rng.Col1 + 1
		height := rng.Row2 - rng.Row1 + 1
		r, c := int(rowIdx), int(colIdx)
		if r == 0 && c == 0 {
			return errorResult(ErrorKindREF, cell, "")
		}
		if width == 1 && c == 0 {
			c = 1
		}
		if height == 1 && r == 0 {
			r = 1
		}
		if r < 0 || c < 0 || r > height || c > width {
			return errorResult(ErrorKindREF, cell, "")
		}
		if r == 0 || c == 0 {
			return CalcResult{Kind: ResultRange, Range: rng}
		}
		return ec.resolveCellValue(ws.GetCell(rng.Row1+r-1, rng.Col1+c-1), CellRef{SheetID: ws.SheetID, Row: rng.Row1 + r - 1, Column: rng.Col1 + c - 1})
	case ResultArray:
		r, c := int(rowIdx)-1, int(colIdx)-1
		if len(args) == 2 && len(arr.Array) == 1 {
			c = int(rowIdx) - 1
			r = 0
		}
		if r < 0 || r >= len(arr.Array) || c < 0 || c >= len(arr.Array[r]) {
			return errorResult(ErrorKindREF, cell, "")
		}
		return arr.Array[r][c]
	}
	return errorResult(ErrorKindVALUE, cell, "")
}

func fnMATCH(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 2 || len(args) > 3 {
		return errorResult(ErrorKindNA, cell, "")
	}
	key := ec.eval(args[0], cell)
	if key.IsError() {
		return key
	}
	arr := ec.eval(args[1], cell)
	if arr.IsError() {
		return arr
	}
	matchType := 1.0
	var errRes *CalcResult
	if len(args) == 3 {
		matchType, errRes = ec.scalarNumber(args[2], cell)
		if errRes != nil {
			return *errRes
		}
	}
	vals := ec.flattenValues([]CalcResult{arr}, cell)
	switch int(matchType) {
	case 0:
		for i, v := range vals {
			if compareResults(v, key, CompareEQ) {
				return numberResult(float64(i + 1))
			}
		}
	case 1:
		best := -1
		for i, v := range vals {
			if compareResults(v, key, CompareGT) {
				break
			}
			best = i
		}
		if best >= 0 {
			return numberResult(float64(best + 1))
		}
	case -1:
		best := -1
		for i, v := range vals {
			if compareResults(v, key, CompareLT) {
				break
			}
			best = i
		}
		if best >= 0 {
			return numberResult(float64(best + 1))
		}
	}
	return errorResult(ErrorKindNA, cell, "")
}

func fnCHOOSE(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	idx, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	i := int(idx)
	if i < 1 || i > len(args)-1 {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	return ec.eval(args[i], cell)
}

func fnROW(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) == 0 {
		return numberResult(float64(cell.Row))
	}
	if len(args) != 1 || (args[0].Kind != NodeReference && args[0].Kind != NodeRange) {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	return numberResult(float64(args[0].Row))
}

func fnCOLUMN(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) == 0 {
		return numberResult(float64(cell.Column))
	}
	if len(args) != 1 || (args[0].Kind != NodeReference && args[0].Kind != NodeRange) {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	return numberResult(float64(args[0].Column))
}

func fnROWS(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	v := ec.eval(args[0], cell)
	switch v.Kind {
	case ResultRange:
		rng := v.Range.Normalized()
		return numberResult(float64(rng.Row2 - rng.Row1 + 1))
	case ResultArray:
		return numberResult(float64(len(v.Array)))
	}
	return errorResult(ErrorKindVALUE, cell, "")
}

func fnCOLUMNS(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	v := ec.eval(args[0], cell)
	switch v.Kind {
	case ResultRange:
		rng := v.Range.Normalized()
		return numberResult(float64(rng.Col2 - rng.Col1 + 1))
	case ResultArray:
		if len(v.Array) == 0 {
			return numberResult(0)
		}
		return numberResult(float64(len(v.Array[0])))
	}
	return errorResult(ErrorKindVALUE, cell, "")
}

func fnADDRESS(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 2 || len(args) > 5 {
		return errorResult(ErrorKindNA, cell, "")
	}
	row, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	col, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	absNum := 1.0
	if len(args) >= 3 {
		absNum, errRes = ec.scalarNumber(args[2], cell)
		if errRes != nil {
			return *errRes
		}
	}
	if _, err := NumberToColumnLetters(int(col)); err != nil {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	absRow, absCol := true, true
	switch int(absNum) {
	case 2:
		absRow, absCol = true, false
	case 3:
		absRow, absCol = false, true
	case 4:
		absRow, absCol = false, false
	}
	text := cellRefText(int(col), int(row), absCol, absRow)
	if len(args) == 5 {
		sheet, errRes := ec.scalarText(args[4], cell)
		if errRes != nil {
			return *errRes
		}
		return stringResult(quoteSheetName(sheet) + "!" + text)
	}
	return stringResult(text)
}

func fnLOOKUP(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 2 || len(args) > 3 {
		return errorResult(ErrorKindNA, cell, "")
	}
	key := ec.eval(args[0], cell)
	if key.IsError() {
		return key
	}
	lookupVec := ec.eval(args[1], cell)
	if lookupVec.IsError() {
		return lookupVec
	}
	resultVec := lookupVec
	if len(args) == 3 {
		resultVec = ec.eval(args[2], cell)
		if resultVec.IsError() {
			return resultVec
		}
	}
	lv := ec.flattenValues([]CalcResult{lookupVec}, cell)
	rv := ec.flattenValues([]CalcResult{resultVec}, cell)
	best := -1
	for i, v := range lv {
		if compareResults(v, key, CompareGT) {
			break
		}
		best = i
	}
	if best < 0 || best >= len(rv) {
		return errorResult(ErrorKindNA, cell, "")
	}
	return rv[best]
}

// fnOFFSET implements OFFSET(reference, rows, cols, [height], [width]).
func fnOFFSET(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 3 || len(args) > 5 {
		return errorResult(ErrorKindNA, cell, "")
	}
	base := ec.eval(args[0], cell)
	if base.IsError() {
		return base
	}
	if base.Kind != ResultRange {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	dr, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	dc, errRes := ec.scalarNumber(args[2], cell)
	if errRes != nil {
		return *errRes
	}
	rng := base.Range.Normalized()
	height := rng.Row2 - rng.Row1 + 1
	width := rng.Col2 - rng.Col1 + 1
	if len(args) >= 4 {
		h, errRes := ec.scalarNumber(args[3], cell)
		if errRes != nil {
			return *errRes
		}
		height = int(h)
	}
	if len(args) == 5 {
		w, errRes := ec.scalarNumber(args[4], cell)
		if errRes != nil {
			return *errRes
		}
		width = int(w)
	}
	row1 := rng.Row1 + int(dr)
	col1 := rng.Col1 + int(dc)
	if row1 < 1 || col1 < 1 || height < 1 || width < 1 {
		return errorResult(ErrorKindREF, cell, "")
	}
	return CalcResult{Kind: ResultRange, Range: RangeRef{
		SheetIndex: rng.SheetIndex, Row1: row1, Col1: col1,
		Row2: row1 + height - 1, Col2: col1 + width - 1,
	}}
}

// fnINDIRECT implements INDIRECT(text, [a1]), delegating A1-style
// resolution to ParseCellReferenceText.
func fnINDIRECT(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 1 || len(args) > 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	text, errRes := ec.scalarText(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	curSheet := ec.wb.SheetName(cell.sheetIndex(ec.wb))
	ref, err := ParseCellReferenceText(curSheet, text, ec.wb)
	if err != nil {
		return errorResult(ErrorKindREF, cell, "")
	}
	sheetIdx, ok := ec.wb.SheetIndexByName(ref.SheetName)
	if !ok {
		return errorResult(ErrorKindREF, cell, "")
	}
	ws := ec.wb.Sheet(sheetIdx)
	return ec.resolveCellValue(ws.GetCell(ref.Row, ref.Column), CellRef{SheetID: ws.SheetID, Row: ref.Row, Column: ref.Column})
}

func (c CellRef) sheetIndex(wb *Workbook) int {
	if ws := wb.SheetByID(c.SheetID); ws != nil {
		idx, _ := wb.SheetIndexByName(ws.Name)
		return idx
	}
	return -1
}

// fnXLOOKUP implements the common case of
// XLOOKUP(key, lookup_range, result_range, [if_not_found]).
func fnXLOOKUP(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 3 || len(args) > 4 {
		return errorResult(ErrorKindNA, cell, "")
	}
	key := ec.eval(args[0], cell)
	if key.IsError() {
		return key
	}
	lookupVal := ec.eval(args[1], cell)
	if lookupVal.IsError() {
		return lookupVal
	}
	resultVal := ec.eval(args[2], cell)
	if resultVal.IsError() {
		return resultVal
	}
	lv := ec.flattenValues([]CalcResult{lookupVal}, cell)
	rv := ec.flattenValues([]CalcResult{resultVal}, cell)
	for i, v := range lv {
		if compareResults(v, key, CompareEQ) && i < len(rv) {
			return rv[i]
		}
	}
	if len(args) == 4 {
		return ec.eval(args[3], cell)
	}
	return errorResult(ErrorKindNA, cell, "")
}
