// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

import "math"

func init() {
	RegisterFunction(FnSUM, fnSUM)
	RegisterFunction(FnSUMIF, fnSUMIF)
	RegisterFunction(FnSUMIFS, fnSUMIFS)
	RegisterFunction(FnPRODUCT, fnPRODUCT)
	RegisterFunction(FnABS, fn1(math.Abs))
	RegisterFunction(FnSIGN, fn1(func(v float64) float64 {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		}
		return 0
	}))
	RegisterFunction(FnSQRT, fnSQRT)
	RegisterFunction(FnPOWER, fnPOWER)
	RegisterFunction(FnEXP, fn1(math.Exp))
	RegisterFunction(FnLN, fnLN)
	RegisterFunction(FnLOG, fnLOG)
	RegisterFunction(FnLOG10, fnLOG10)
	RegisterFunction(FnMOD, fnMOD)
	RegisterFunction(FnQUOTIENT, fnQUOTIENT)
	RegisterFunction(FnROUND, fnROUND)
	RegisterFunction(FnROUNDUP, fnROUNDUP)
	RegisterFunction(FnROUNDDOWN, fnROUNDDOWN)
	RegisterFunction(FnCEILING, fnCEILING)
	RegisterFunction(FnFLOOR, fnFLOOR)
	RegisterFunction(FnTRUNC, fnTRUNC)
	RegisterFunction(FnINT, fn1(math.Floor))
	RegisterFunction(FnSIN, fn1(math.Sin))
	RegisterFunction(FnCOS, fn1(math.Cos))
	RegisterFunction(FnTAN, fn1(math.Tan))
	RegisterFunction(FnATAN, fn1(math.Atan))
	RegisterFunction(FnATAN2, fnATAN2)
	RegisterFunction(FnPI, fnPI)
	RegisterFunction(FnRAND, fnRAND)
	RegisterFunction(FnRANDBETWEEN, fnRANDBETWEEN)
	RegisterFunction(FnGCD, fnGCD)
	RegisterFunction(FnLCM, fnLCM)
	RegisterFunction(FnSUMPRODUCT, fnSUMPRODUCT)
	RegisterFunction(FnSUMX2MY2, fnSumXY(func(x, y float64) float64 { return x*x - y*y }))
	RegisterFunction(FnSUMX2PY2, fnSumXY(func(x, y float64) float64 { return x*x + y*y }))
	RegisterFunction(FnSUMXMY2, fnSumXY(func(x, y float64) float64 { return (x - y) * (x - y) }))
}

// fn1 adapts a single-argument math.* function into a one-arg fnHandler.
func fn1(f func(float64) float64) fnHandler {
	return func(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
		if len(args) != 1 {
			return errorResult(ErrorKindNA, cell, "")
		}
		v, errRes := ec.scalarNumber(args[0], cell)
		if errRes != nil {
			return *errRes
		}
		return numberResult(f(v))
	}
}

func fnSUM(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	nums, errRes := ec.numbersIgnoringText(args, cell)
	if errRes != nil {
		return *errRes
	}
	var s float64
	for _, n := range nums {
		s += n
	}
	return numberResult(s)
}

func fnPRODUCT(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	nums, errRes := ec.numbersIgnoringText(args, cell)
	if errRes != nil {
		return *errRes
	}
	if len(nums) == 0 {
		return numberResult(0)
	}
	p := 1.0
	for _, n := range nums {
		p *= n
	}
	return numberResult(p)
}

// fnSUMIF implements SUMIF(range, criteria[, sum_range]).
func fnSUMIF(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 2 || len(args) > 3 {
		return errorResult(ErrorKindNA, cell, "")
	}
	rangeVal := ec.eval(args[0], cell)
	if rangeVal.IsError() {
		return rangeVal
	}
	if rangeVal.Kind != ResultRange {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	criteria := ec.eval(args[1], cell)
	if criteria.IsError() {
		return criteria
	}
	sumRange := rangeVal.Range
	if len(args) == 3 {
		sv := ec.eval(args[2], cell)
		if sv.IsError() {
			return sv
		}
		if sv.Kind != ResultRange {
			return errorResult(ErrorKindVALUE, cell, "")
		}
		sumRange = sv.Range
	}
	crit := rangeVal.Range.Normalized()
	sr := sumRange.Normalized()
	var total float64
	for dr := 0; dr <= crit.Row2-crit.Row1; dr++ {
		for dc := 0; dc <= crit.Col2-crit.Col1; dc++ {
			ws := ec.wb.Sheet(crit.SheetIndex)
			v := ec.resolveCellValue(ws.GetCell(crit.Row1+dr, crit.Col1+dc), CellRef{SheetID: ws.SheetID, Row: crit.Row1 + dr, Column: crit.Col1 + dc})
			if !matchCriteria(v, criteria) {
				continue
			}
			sws := ec.wb.Sheet(sr.SheetIndex)
			sv := ec.resolveCellValue(sws.GetCell(sr.Row1+dr, sr.Col1+dc), CellRef{SheetID: sws.SheetID, Row: sr.Row1 + dr, Column: sr.Col1 + dc})
			if n, ok := coerceResultToNumber(sv); ok {
				total += n
			}
		}
	}
	return numberResult(total)
}

// fnSUMIFS implements SUMIFS(sum_range, range1, criteria1, [range2,
// criteria2, ...]) — every criteria pair must match for a row to count.
func fnSUMIFS(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 3 || len(args)%2 != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	sumVal := ec.eval(args[0], cell)
	if sumVal.IsError() {
		return sumVal
	}
	if sumVal.Kind != ResultRange {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	sr := sumVal.Range.Normalized()
	type pair struct {
		rng  RangeRef
		crit CalcResult
	}
	var pairs []pair
	for i := 1; i < len(args); i += 2 {
		rv := ec.eval(args[i], cell)
		if rv.IsError() {
			return rv
		}
		if rv.Kind != ResultRange {
			return errorResult(ErrorKindVALUE, cell, "")
		}
		cv := ec.eval(args[i+1], cell)
		if cv.IsError() {
			return cv
		}
		pairs = append(pairs, pair{rng: rv.Range.Normalized(), crit: cv})
	}
	var total float64
	for dr := 0; dr <= sr.Row2-sr.Row1; dr++ {
		for dc := 0; dc <= sr.Col2-sr.Col1; dc++ {
			ok := true
			for _, p := range pairs {
				ws := ec.wb.Sheet(p.rng.SheetIndex)
				v := ec.resolveCellValue(ws.GetCell(p.rng.Row1+dr, p.rng.Col1+dc), CellRef{SheetID: ws.SheetID, Row: p.rng.Row1 + dr, Column: p.rng.Col1 + dc})
				if !matchCriteria(v, p.crit) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
			sws := ec.wb.Sheet(sr.SheetIndex)
			sv := ec.resolveCellValue(sws.GetCell(sr.Row1+dr, sr.Col1+dc), CellRef{SheetID: sws.SheetID, Row: sr.Row1 + dr, Column: sr.Col1 + dc})
			if n, ok := coerceResultToNumber(sv); ok {
				total += n
			}
		}
	}
	return numberResult(total)
}

func fnSQRT(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	v, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	if v < 0 {
		return errorResult(ErrorKindNUM, cell, "")
	}
	return numberResult(math.Sqrt(v))
}

func fnPOWER(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	b, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	e, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	return numberResult(math.Pow(b, e))
}

func fnLN(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	v, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	if v <= 0 {
		return errorResult(ErrorKindNUM, cell, "")
	}
	return numberResult(math.Log(v))
}

func fnLOG10(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	v, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	if v <= 0 {
		return errorResult(ErrorKindNUM, cell, "")
	}
	return numberResult(math.Log10(v))
}

func fnLOG(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 1 || len(args) > 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	v, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	base := 10.0
	if len(args) == 2 {
		base, errRes = ec.scalarNumber(args[1], cell)
		if errRes != nil {
			return *errRes
		}
	}
	if v <= 0 || base <= 0 || base == 1 {
		return errorResult(ErrorKindNUM, cell, "")
	}
	return numberResult(math.Log(v) / math.Log(base))
}

func fnMOD(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	n, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	d, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	if d == 0 {
		return errorResult(ErrorKindDIV, cell, "")
	}
	r := math.Mod(n, d)
	if r != 0 && (r < 0) != (d < 0) {
		r += d
	}
	return numberResult(r)
}

func fnQUOTIENT(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	n, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	d, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	if d == 0 {
		return errorResult(ErrorKindDIV, cell, "")
	}
	return numberResult(math.Trunc(n / d))
}

func fnROUND(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	v, digits, errRes := roundArgs(ec, args, cell)
	if errRes != nil {
		return *errRes
	}
	return numberResult(round(v, digits))
}

func fnROUNDUP(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	v, digits, errRes := roundArgs(ec, args, cell)
	if errRes != nil {
		return *errRes
	}
	p := math.Pow(10, float64(digits))
	if v >= 0 {
		return numberResult(math.Ceil(v*p) / p)
	}
	return numberResult(math.Floor(v*p) / p)
}

func fnROUNDDOWN(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	v, digits, errRes := roundArgs(ec, args, cell)
	if errRes != nil {
		return *errRes
	}
	p := math.Pow(10, float64(digits))
	return numberResult(math.Trunc(v*p) / p)
}

func roundArgs(ec *evalCtx, args []*Node, cell CellRef) (float64, int, *CalcResult) {
	if len(args) != 2 {
		r := errorResult(ErrorKindNA, cell, "")
		return 0, 0, &r
	}
	v, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return 0, 0, errRes
	}
	d, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return 0, 0, errRes
	}
	return v, int(d), nil
}

func fnCEILING(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	return ceilFloor(ec, args, cell, true)
}

func fnFLOOR(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	return ceilFloor(ec, args, cell, false)
}

func ceilFloor(ec *evalCtx, args []*Node, cell CellRef, ceiling bool) CalcResult {
	if len(args) != 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	v, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	sig, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	if sig == 0 {
		return numberResult(0)
	}
	q := v / sig
	if ceiling {
		q = math.Ceil(q)
	} else {
		q = math.Floor(q)
	}
	return numberResult(q * sig)
}

func fnTRUNC(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 1 || len(args) > 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	v, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	digits := 0
	if len(args) == 2 {
		d, errRes := ec.scalarNumber(args[1], cell)
		if errRes != nil {
			return *errRes
		}
		digits = int(d)
	}
	p := math.Pow(10, float64(digits))
	return numberResult(math.Trunc(v*p) / p)
}

func fnATAN2(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	x, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	y, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	return numberResult(math.Atan2(y, x))
}

func fnPI(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 0 {
		return errorResult(ErrorKindNA, cell, "")
	}
	return numberResult(math.Pi)
}

// fnRAND is deliberately deterministic (0) — the evaluator has no entropy
// source wired in (spec §4.6 Non-goals: "volatile functions return a
// fixed placeholder rather than true randomness").
func fnRAND(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 0 {
		return errorResult(ErrorKindNA, cell, "")
	}
	return numberResult(0)
}

func fnRANDBETWEEN(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	lo, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	return numberResult(math.Ceil(lo))
}

func fnGCD(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	nums, errRes := ec.numbersIgnoringText(args, cell)
	if errRes != nil {
		return *errRes
	}
	if len(nums) == 0 {
		return numberResult(0)
	}
	g := int64(nums[0])
	for _, n := range nums[1:] {
		g = gcd(g, int64(n))
	}
	if g < 0 {
		g = -g
	}
	return numberResult(float64(g))
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func fnLCM(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	nums, errRes := ec.numbersIgnoringText(args, cell)
	if errRes != nil {
		return *errRes
	}
	if len(nums) == 0 {
		return numberResult(0)
	}
	l := int64(nums[0])
	for _, n := range nums[1:] {
		m := int64(n)
		if l == 0 || m == 0 {
			l = 0
			continue
		}
		l = l / gcd(l, m) * m
	}
	if l < 0 {
		l = -l
	}
	return numberResult(float64(l))
}

// fnSUMPRODUCT multiplies corresponding members of equal-shaped
// ranges/arrays and sums the products.
func fnSUMPRODUCT(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) == 0 {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	cols := make([][]CalcResult, len(args))
	n := -1
	for i, a := range args {
		v := ec.eval(a, cell)
		if v.IsError() {
			return v
		}
		vals := ec.flattenValues([]CalcResult{v}, cell)
		cols[i] = vals
		if n == -1 {
			n = len(vals)
		} else if len(vals) != n {
			return errorResult(ErrorKindVALUE, cell, "")
		}
	}
	var total float64
	for row := 0; row < n; row++ {
		p := 1.0
		for _, col := range cols {
			num, ok := coerceResultToNumber(col[row])
			if !ok {
				num = 0
			}
			p *= num
		}
		total += p
	}
	return numberResult(total)
}

// fnSumXY builds SUMX2MY2/SUMX2PY2/SUMXMY2: apply combine element-wise
// across two equal-length ranges and sum.
func fnSumXY(combine func(x, y float64) float64) fnHandler {
	return func(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
		if len(args) != 2 {
			return errorResult(ErrorKindNA, cell, "")
		}
		xv := ec.eval(args[0], cell)
		if xv.IsError() {
			return xv
		}
		yv := ec.eval(args[1], cell)
		if yv.IsError() {
			return yv
		}
		xs := ec.flattenValues([]CalcResult{xv}, cell)
		ys := ec.flattenValues([]CalcResult{yv}, cell)
		if len(xs) != len(ys) {
			return errorResult(ErrorKindNA, cell, "")
		}
		var total float64
		for i := range xs {
			xn, _ := coerceResultToNumber(xs[i])
			yn, _ := coerceResultToNumber(ys[i])
			total += combine(xn, yn)
		}
		return numberResult(total)
	}
}
