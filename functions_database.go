// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

import "math"

func init() {
	RegisterFunction(FnDSUM, fnDAggregate(dbSum))
	RegisterFunction(FnDMIN, fnDAggregate(dbMin))
	RegisterFunction(FnDMAX, fnDAggregate(dbMax))
	RegisterFunction(FnDAVERAGE, fnDAggregate(dbAverage))
	RegisterFunction(FnDCOUNT, fnDAggregate(dbCount))
	RegisterFunction(FnDCOUNTA, fnDAggregate(dbCountA))
	RegisterFunction(FnDGET, fnDGET)
	RegisterFunction(FnDPRODUCT, fnDAggregate(dbProduct))
	RegisterFunction(FnDVAR, fnDAggregate(dbVarSample))
	RegisterFunction(FnDVARP, fnDAggregate(dbVarPopulation))
	RegisterFunction(FnDSTDEV, fnDAggregate(dbStdevSample))
	RegisterFunction(FnDSTDEVP, fnDAggregate(dbStdevPopulation))
}

// dbTable is a parsed database range: headerRow names each column, rows
// holds the data body as CalcResult cells.
type dbTable struct {
	headers []string
	rows    [][]CalcResult
}

func (ec *evalCtx) readDbTable(n *Node, cell CellRef) (dbTable, *CalcResult) {
	v := ec.eval(n, cell)
	if v.IsError() {
		return dbTable{}, &v
	}
	if v.Kind != ResultRange {
		r := errorResult(ErrorKindVALUE, cell, "")
		return dbTable{}, &r
	}
	rng := v.Range.Normalized()
	ws := ec.wb.Sheet(rng.SheetIndex)
	if ws == nil {
		r := errorResult(ErrorKindREF, cell, "")
		return dbTable{}, &r
	}
	var t dbTable
	for c := rng.Col1; c <= rng.Col2; c++ {
		hv := ec.resolveCellValue(ws.GetCell(rng.Row1, c), CellRef{SheetID: ws.SheetID, Row: rng.Row1, Column: c})
		t.headers = append(t.headers, resultToText(hv))
	}
	for r := rng.Row1 + 1; r <= rng.Row2; r++ {
		var row []CalcResult
		for c := rng.Col1; c <= rng.Col2; c++ {
			row = append(row, ec.resolveCellValue(ws.GetCell(r, c), CellRef{SheetID: ws.SheetID, Row: r, Column: c}))
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// matchDbCriteria reports whether row satisfies the criteria range crit
// (header row + one-or-more condition rows, OR'd together; conditions
// within a row AND together), matching DSUM/DCOUNT/DGET's criteria shape.
func matchDbCriteria(t dbTable, crit dbTable, row []CalcResult) bool {
	colIndex := make(map[string]int, len(t.headers))
	for i, h := range t.headers {
		colIndex[h] = i
	}
	for _, critRow := range crit.rows {
		ok := true
		for i, h := range crit.headers {
			if i >= len(critRow) {
				continue
			}
			cv := critRow[i]
			if cv.Kind == ResultEmptyCell || cv.Kind == ResultEmptyArg {
				continue
			}
			colI, found := colIndex[h]
			if !found || colI >= len(row) {
				ok = false
				break
			}
			if !matchCriteria(row[colI], cv) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return len(crit.rows) == 0
}

func (ec *evalCtx) dbMatchingRows(args []*Node, cell CellRef) (dbTable, int, []CalcResult, *CalcResult) {
	if len(args) != 3 {
		r := errorResult(ErrorKindNA, cell, "")
		return dbTable{}, 0, nil, &r
	}
	t, errRes := ec.readDbTable(args[0], cell)
	if errRes != nil {
		return dbTable{}, 0, nil, errRes
	}
	crit, errRes := ec.readDbTable(args[2], cell)
	if errRes != nil {
		return dbTable{}, 0, nil, errRes
	}
	fieldName, errRes := ec.scalarText(args[1], cell)
	if errRes != nil {
		return dbTable{}, 0, nil, errRes
	}
	fieldIdx := -1
	for i, h := range t.headers {
		if h == fieldName {
			fieldIdx = i
			break
		}
	}
	if fieldIdx < 0 {
		if n, ok := parseNumberText(fieldName); ok && int(n) >= 1 && int(n) <= len(t.headers) {
			fieldIdx = int(n) - 1
		}
	}
	if fieldIdx < 0 {
		r := errorResult(ErrorKindVALUE, cell, "")
		return dbTable{}, 0, nil, &r
	}
	var vals []CalcResult
	for _, row := range t.rows {
		if matchDbCriteria(t, crit, row) && fieldIdx < len(row) {
			vals = append(vals, row[fieldIdx])
		}
	}
	return t, fieldIdx, vals, nil
}

type dbAggFn func(vals []CalcResult) CalcResult

func fnDAggregate(agg dbAggFn) fnHandler {
	return func(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
		_, _, vals, errRes := ec.dbMatchingRows(args, cell)
		if errRes != nil {
			return *errRes
		}
		return agg(vals)
	}
}

func fnDGET(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	_, _, vals, errRes := ec.dbMatchingRows(args, cell)
	if errRes != nil {
		return *errRes
	}
	if len(vals) == 0 {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	if len(vals) > 1 {
		return errorResult(ErrorKindNUM, cell, "")
	}
	return vals[0]
}

func dbSum(vals []CalcResult) CalcResult {
	sum := 0.0
	for _, v := range numbersOnly(vals) {
		sum += v
	}
	return numberResult(sum)
}

func dbProduct(vals []CalcResult) CalcResult {
	p := 1.0
	for _, v := range numbersOnly(vals) {
		p *= v
	}
	return numberResult(p)
}

func dbMin(vals []CalcResult) CalcResult {
	nums := numbersOnly(vals)
	if len(nums) == 0 {
		return numberResult(0)
	}
	m := nums[0]
	for _, v := range nums[1:] {
		if v < m {
			m = v
		}
	}
	return numberResult(m)
}

func dbMax(vals []CalcResult) CalcResult {
	nums := numbersOnly(vals)
	if len(nums) == 0 {
		return numberResult(0)
	}
	m := nums[0]
	for _, v := range nums[1:] {
		if v > m {
			m = v
		}
	}
	return numberResult(m)
}

func dbAverage(vals []CalcResult) CalcResult {
	nums := numbersOnly(vals)
	if len(nums) == 0 {
		return errorResult(ErrorKindDIV, CellRef{}, "")
	}
	return numberResult(meanOf(nums))
}

func dbCount(vals []CalcResult) CalcResult {
	return numberResult(float64(len(numbersOnly(vals))))
}

func dbCountA(vals []CalcResult) CalcResult {
	n := 0
	for _, v := range vals {
		if v.Kind != ResultEmptyCell && v.Kind != ResultEmptyArg {
			n++
		}
	}
	return numberResult(float64(n))
}

func dbVarSample(vals []CalcResult) CalcResult {
	nums := numbersOnly(vals)
	if len(nums) < 2 {
		return errorResult(ErrorKindDIV, CellRef{}, "")
	}
	mean := meanOf(nums)
	return numberResult(sumSquaredDev(nums, mean) / float64(len(nums)-1))
}

func dbVarPopulation(vals []CalcResult) CalcResult {
	nums := numbersOnly(vals)
	if len(nums) < 1 {
		return errorResult(ErrorKindDIV, CellRef{}, "")
	}
	mean := meanOf(nums)
	return numberResult(sumSquaredDev(nums, mean) / float64(len(nums)))
}

func dbStdevSample(vals []CalcResult) CalcResult {
	r := dbVarSample(vals)
	if r.IsError() {
		return r
	}
	return numberResult(math.Sqrt(r.Number))
}

func dbStdevPopulation(vals []CalcResult) CalcResult {
	r := dbVarPopulation(vals)
	if r.IsError() {
		return r
	}
	return numberResult(math.Sqrt(r.Number))
}
