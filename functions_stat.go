// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

import (
	"math"
	"sort"
)

func init() {
	RegisterFunction(FnAVERAGE, fnAVERAGE)
	RegisterFunction(FnAVERAGEIF, fnAVERAGEIF)
	RegisterFunction(FnAVERAGEIFS, fnAVERAGEIFS)
	RegisterFunction(FnCOUNT, fnCOUNT)
	RegisterFunction(FnCOUNTA, fnCOUNTA)
	RegisterFunction(FnCOUNTBLANK, fnCOUNTBLANK)
	RegisterFunction(FnCOUNTIF, fnCOUNTIF)
	RegisterFunction(FnCOUNTIFS, fnCOUNTIFS)
	RegisterFunction(FnMAX, fnMinMax(true))
	RegisterFunction(FnMIN, fnMinMax(false))
	RegisterFunction(FnMAXIFS, fnMinMaxIFS(true))
	RegisterFunction(FnMINIFS, fnMinMaxIFS(false))
	RegisterFunction(FnMEDIAN, fnMEDIAN)
	RegisterFunction(FnMODE, fnMODE)
	RegisterFunction(FnSTDEV, fnStdevVar(true, false))
	RegisterFunction(FnSTDEVP, fnStdevVar(true, true))
	RegisterFunction(FnVAR, fnStdevVar(false, false))
	RegisterFunction(FnVARP, fnStdevVar(false, true))
	RegisterFunction(FnSKEW, fnSKEW)
	RegisterFunction(FnLARGE, fnOrderStat(true))
	RegisterFunction(FnSMALL, fnOrderStat(false))
	RegisterFunction(FnPERCENTILE, fnPERCENTILE)
	RegisterFunction(FnQUARTILE, fnQUARTILE)
	RegisterFunction(FnRANK, fnRANK)
	RegisterFunction(FnCORREL, fnCORREL)
	RegisterFunction(FnCOVARIANCE_P, fnCovariance(true))
	RegisterFunction(FnCOVARIANCE_S, fnCovariance(false))
	RegisterFunction(FnNORM_DIST, fnNORM_DIST)
	RegisterFunction(FnNORM_S_DIST, fnNORM_S_DIST)
	RegisterFunction(FnNORM_INV, fnNORM_INV)
	RegisterFunction(FnFISHER, fnFISHER)
	RegisterFunction(FnFISHERINV, fnFISHERINV)
}

func fnAVERAGE(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	nums, errRes := ec.numbersIgnoringText(args, cell)
	if errRes != nil {
		return *errRes
	}
	if len(nums) == 0 {
		return errorResult(ErrorKindDIV, cell, "")
	}
	sum := 0.0
	for _, n := range nums {
		sum += n
	}
	return numberResult(sum / float64(len(nums)))
}

func fnAVERAGEIF(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 2 || len(args) > 3 {
		return errorResult(ErrorKindNA, cell, "")
	}
	rangeVal := ec.eval(args[0], cell)
	if rangeVal.IsError() {
		return rangeVal
	}
	criteria := ec.eval(args[1], cell)
	if criteria.IsError() {
		return criteria
	}
	avgRange := rangeVal
	if len(args) == 3 {
		avgRange = ec.eval(args[2], cell)
		if avgRange.IsError() {
			return avgRange
		}
	}
	if rangeVal.Kind != ResultRange || avgRange.Kind != ResultRange {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	testVals := ec.rangeValues(rangeVal.Range, cell)
	sumVals := ec.rangeValues(avgRange.Range, cell)
	sum, count := 0.0, 0
	for i, v := range testVals {
		if i >= len(sumVals) {
			break
		}
		if matchCriteria(v, criteria) {
			if sumVals[i].Kind == ResultNumber {
				sum += sumVals[i].Number
				count++
			}
		}
	}
	if count == 0 {
		return errorResult(ErrorKindDIV, cell, "")
	}
	return numberResult(sum / float64(count))
}

func fnAVERAGEIFS(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 3 || len(args)%2 != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	avgRangeVal := ec.eval(args[0], cell)
	if avgRangeVal.IsError() {
		return avgRangeVal
	}
	if avgRangeVal.Kind != ResultRange {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	sumVals := ec.rangeValues(avgRangeVal.Range, cell)
	matched, errRes := ec.matchAllCriteriaPairs(args[1:], cell, len(sumVals))
	if errRes != nil {
		return *errRes
	}
	sum, count := 0.0, 0
	for i, ok := range matched {
		if ok && i < len(sumVals) && sumVals[i].Kind == ResultNumber {
			sum += sumVals[i].Number
			count++
		}
	}
	if count == 0 {
		return errorResult(ErrorKindDIV, cell, "")
	}
	return numberResult(sum / float64(count))
}

// matchAllCriteriaPairs evaluates a (range, criteria) pair sequence shared by
// the *IFS functions, returning a bool per row reporting whether every pair
// matched.
func (ec *evalCtx) matchAllCriteriaPairs(pairs []*Node, cell CellRef, n int) ([]bool, *CalcResult) {
	matched := make([]bool, n)
	for i := range matched {
		matched[i] = true
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		rv := ec.eval(pairs[i], cell)
		if rv.IsError() {
			return nil, &rv
		}
		if rv.Kind != ResultRange {
			r := errorResult(ErrorKindVALUE, cell, "")
			return nil, &r
		}
		cv := ec.eval(pairs[i+1], cell)
		if cv.IsError() {
			return nil, &cv
		}
		vals := ec.rangeValues(rv.Range, cell)
		for j := 0; j < n; j++ {
			if j >= len(vals) || !matchCriteria(vals[j], cv) {
				matched[j] = false
			}
		}
	}
	return matched, nil
}

func fnCOUNT(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	count := 0
	for _, a := range args {
		v := ec.eval(a, cell)
		for _, m := range ec.flattenValues([]CalcResult{v}, cell) {
			if m.Kind == ResultNumber {
				count++
			}
		}
	}
	return numberResult(float64(count))
}

func fnCOUNTA(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	count := 0
	for _, a := range args {
		v := ec.eval(a, cell)
		for _, m := range ec.flattenValues([]CalcResult{v}, cell) {
			if m.Kind != ResultEmptyCell && m.Kind != ResultEmptyArg {
				count++
			}
		}
	}
	return numberResult(float64(count))
}

func fnCOUNTBLANK(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	v := ec.eval(args[0], cell)
	count := 0
	for _, m := range ec.flattenValues([]CalcResult{v}, cell) {
		if m.Kind == ResultEmptyCell || m.Kind == ResultEmptyArg || (m.Kind == ResultString && m.Str == "") {
			count++
		}
	}
	return numberResult(float64(count))
}

func fnCOUNTIF(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	rangeVal := ec.eval(args[0], cell)
	if rangeVal.IsError() {
		return rangeVal
	}
	criteria := ec.eval(args[1], cell)
	if criteria.IsError() {
		return criteria
	}
	vals := ec.flattenValues([]CalcResult{rangeVal}, cell)
	count := 0
	for _, v := range vals {
		if matchCriteria(v, criteria) {
			count++
		}
	}
	return numberResult(float64(count))
}

func fnCOUNTIFS(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 2 || len(args)%2 != 0 {
		return errorResult(ErrorKindNA, cell, "")
	}
	first := ec.eval(args[0], cell)
	if first.IsError() {
		return first
	}
	if first.Kind != ResultRange {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	n := first.Range.Normalized()
	size := (n.Row2 - n.Row1 + 1) * (n.Col2 - n.Col1 + 1)
	matched, errRes := ec.matchAllCriteriaPairs(args, cell, size)
	if errRes != nil {
		return *errRes
	}
	count := 0
	for _, ok := range matched {
		if ok {
			count++
		}
	}
	return numberResult(float64(count))
}

func fnMinMax(wantMax bool) fnHandler {
	return func(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
		nums, errRes := ec.numbersIgnoringText(args, cell)
		if errRes != nil {
			return *errRes
		}
		if len(nums) == 0 {
			return numberResult(0)
		}
		best := nums[0]
		for _, n := range nums[1:] {
			if (wantMax && n > best) || (!wantMax && n < best) {
				best = n
			}
		}
		return numberResult(best)
	}
}

func fnMinMaxIFS(wantMax bool) fnHandler {
	return func(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
		if len(args) < 3 || len(args)%2 != 1 {
			return errorResult(ErrorKindNA, cell, "")
		}
		rangeVal := ec.eval(args[0], cell)
		if rangeVal.IsError() {
			return rangeVal
		}
		if rangeVal.Kind != ResultRange {
			return errorResult(ErrorKindVALUE, cell, "")
		}
		vals := ec.rangeValues(rangeVal.Range, cell)
		matched, errRes := ec.matchAllCriteriaPairs(args[1:], cell, len(vals))
		if errRes != nil {
			return *errRes
		}
		var best float64
		found := false
		for i, ok := range matched {
			if ok && i < len(vals) && vals[i].Kind == ResultNumber {
				if !found || (wantMax && vals[i].Number > best) || (!wantMax && vals[i].Number < best) {
					best = vals[i].Number
					found = true
				}
			}
		}
		if !found {
			return numberResult(0)
		}
		return numberResult(best)
	}
}

func fnMEDIAN(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	nums, errRes := ec.numbersIgnoringText(args, cell)
	if errRes != nil {
		return *errRes
	}
	if len(nums) == 0 {
		return errorResult(ErrorKindNUM, cell, "")
	}
	sort.Float64s(nums)
	mid := len(nums) / 2
	if len(nums)%2 == 1 {
		return numberResult(nums[mid])
	}
	return numberResult((nums[mid-1] + nums[mid]) / 2)
}

func fnMODE(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	nums, errRes := ec.numbersIgnoringText(args, cell)
	if errRes != nil {
		return *errRes
	}
	counts := make(map[float64]int)
	order := make([]float64, 0, len(nums))
	for _, n := range nums {
		if counts[n] == 0 {
			order = append(order, n)
		}
		counts[n]++
	}
	best, bestCount := 0.0, 0
	for _, n := range order {
		if counts[n] > bestCount {
			best, bestCount = n, counts[n]
		}
	}
	if bestCount <= 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	return numberResult(best)
}

func meanOf(nums []float64) float64 {
	sum := 0.0
	for _, n := range nums {
		sum += n
	}
	return sum / float64(len(nums))
}

func sumSquaredDev(nums []float64, mean float64) float64 {
	ss := 0.0
	for _, n := range nums {
		d := n - mean
		ss += d * d
	}
	return ss
}

func fnStdevVar(stdev, population bool) fnHandler {
	return func(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
		nums, errRes := ec.numbersIgnoringText(args, cell)
		if errRes != nil {
			return *errRes
		}
		n := len(nums)
		if (population && n < 1) || (!population && n < 2) {
			return errorResult(ErrorKindDIV, cell, "")
		}
		mean := meanOf(nums)
		ss := sumSquaredDev(nums, mean)
		var variance float64
		if population {
			variance = ss / float64(n)
		} else {
			variance = ss / float64(n-1)
		}
		if stdev {
			return numberResult(math.Sqrt(variance))
		}
		return numberResult(variance)
	}
}

func fnSKEW(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	nums, errRes := ec.numbersIgnoringText(args, cell)
	if errRes != nil {
		return *errRes
	}
	n := len(nums)
	if n < 3 {
		return errorResult(ErrorKindDIV, cell, "")
	}
	mean := meanOf(nums)
	ss := sumSquaredDev(nums, mean)
	sd := math.Sqrt(ss / float64(n-1))
	if sd == 0 {
		return errorResult(ErrorKindDIV, cell, "")
	}
	sum3 := 0.0
	for _, v := range nums {
		d := (v - mean) / sd
		sum3 += d * d * d
	}
	fn := float64(n)
	skew := (fn / ((fn - 1) * (fn - 2))) * sum3
	return numberResult(skew)
}

func fnOrderStat(wantLargest bool) fnHandler {
	return func(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
		if len(args) != 2 {
			return errorResult(ErrorKindNA, cell, "")
		}
		rangeVal := ec.eval(args[0], cell)
		if rangeVal.IsError() {
			return rangeVal
		}
		k, errRes := ec.scalarNumber(args[1], cell)
		if errRes != nil {
			return *errRes
		}
		nums := numbersOnly(ec.flattenValues([]CalcResult{rangeVal}, cell))
		if int(k) < 1 || int(k) > len(nums) {
			return errorResult(ErrorKindNUM, cell, "")
		}
		sort.Float64s(nums)
		if wantLargest {
			return numberResult(nums[len(nums)-int(k)])
		}
		return numberResult(nums[int(k)-1])
	}
}

func numbersOnly(vals []CalcResult) []float64 {
	var nums []float64
	for _, v := range vals {
		if v.Kind == ResultNumber {
			nums = append(nums, v.Number)
		}
	}
	return nums
}

func fnPERCENTILE(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	rangeVal := ec.eval(args[0], cell)
	if rangeVal.IsError() {
		return rangeVal
	}
	k, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	if k < 0 || k > 1 {
		return errorResult(ErrorKindNUM, cell, "")
	}
	nums := numbersOnly(ec.flattenValues([]CalcResult{rangeVal}, cell))
	if len(nums) == 0 {
		return errorResult(ErrorKindNUM, cell, "")
	}
	sort.Float64s(nums)
	return numberResult(percentileOf(nums, k))
}

func percentileOf(sorted []float64, k float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	idx := k * float64(n-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func fnQUARTILE(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	rangeVal := ec.eval(args[0], cell)
	if rangeVal.IsError() {
		return rangeVal
	}
	q, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	if q < 0 || q > 4 {
		return errorResult(ErrorKindNUM, cell, "")
	}
	nums := numbersOnly(ec.flattenValues([]CalcResult{rangeVal}, cell))
	if len(nums) == 0 {
		return errorResult(ErrorKindNUM, cell, "")
	}
	sort.Float64s(nums)
	return numberResult(percentileOf(nums, q/4))
}

func fnRANK(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 2 || len(args) > 3 {
		return errorResult(ErrorKindNA, cell, "")
	}
	key, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	rangeVal := ec.eval(args[1], cell)
	if rangeVal.IsError() {
		return rangeVal
	}
	ascending := false
	if len(args) == 3 {
		v, errRes := ec.scalarNumber(args[2], cell)
		if errRes != nil {
			return *errRes
		}
		ascending = v != 0
	}
	nums := numbersOnly(ec.flattenValues([]CalcResult{rangeVal}, cell))
	rank := 1
	for _, n := range nums {
		if (ascending && n < key) || (!ascending && n > key) {
			rank++
		}
	}
	found := false
	for _, n := range nums {
		if n == key {
			found = true
			break
		}
	}
	if !found {
		return errorResult(ErrorKindNA, cell, "")
	}
	return numberResult(float64(rank))
}

func pairedNumbers(ec *evalCtx, aNode, bNode *Node, cell CellRef) ([]float64, []float64, *CalcResult) {
	aVal := ec.eval(aNode, cell)
	if aVal.IsError() {
		return nil, nil, &aVal
	}
	bVal := ec.eval(bNode, cell)
	if bVal.IsError() {
		return nil, nil, &bVal
	}
	a := ec.flattenValues([]CalcResult{aVal}, cell)
	b := ec.flattenValues([]CalcResult{bVal}, cell)
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if a[i].Kind == ResultNumber && b[i].Kind == ResultNumber {
			xs = append(xs, a[i].Number)
			ys = append(ys, b[i].Number)
		}
	}
	return xs, ys, nil
}

func fnCORREL(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	xs, ys, errRes := pairedNumbers(ec, args[0], args[1], cell)
	if errRes != nil {
		return *errRes
	}
	if len(xs) < 2 {
		return errorResult(ErrorKindDIV, cell, "")
	}
	mx, my := meanOf(xs), meanOf(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	denom := math.Sqrt(sxx * syy)
	if denom == 0 {
		return errorResult(ErrorKindDIV, cell, "")
	}
	return numberResult(sxy / denom)
}

func fnCovariance(population bool) fnHandler {
	return func(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
		if len(args) != 2 {
			return errorResult(ErrorKindNA, cell, "")
		}
		xs, ys, errRes := pairedNumbers(ec, args[0], args[1], cell)
		if errRes != nil {
			return *errRes
		}
		n := len(xs)
		if (population && n < 1) || (!population && n < 2) {
			return errorResult(ErrorKindDIV, cell, "")
		}
		mx, my := meanOf(xs), meanOf(ys)
		sxy := 0.0
		for i := range xs {
			sxy += (xs[i] - mx) * (ys[i] - my)
		}
		if population {
			return numberResult(sxy / float64(n))
		}
		return numberResult(sxy / float64(n-1))
	}
}

func fnNORM_DIST(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 4 {
		return errorResult(ErrorKindNA, cell, "")
	}
	x, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	mean, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	sd, errRes := ec.scalarNumber(args[2], cell)
	if errRes != nil {
		return *errRes
	}
	cumulative, errRes := ec.scalarBool(args[3], cell)
	if errRes != nil {
		return *errRes
	}
	if sd <= 0 {
		return errorResult(ErrorKindNUM, cell, "")
	}
	z := (x - mean) / sd
	if cumulative {
		return numberResult(normCDF(z))
	}
	return numberResult(math.Exp(-z*z/2) / (sd * math.Sqrt(2*math.Pi)))
}

func fnNORM_S_DIST(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 1 || len(args) > 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	z, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	cumulative := true
	if len(args) == 2 {
		cumulative, errRes = ec.scalarBool(args[1], cell)
		if errRes != nil {
			return *errRes
		}
	}
	if cumulative {
		return numberResult(normCDF(z))
	}
	return numberResult(math.Exp(-z*z/2) / math.Sqrt(2*math.Pi))
}

// normCDF is the standard normal CDF via the error function, matching the
// precision Excel's own NORM.S.DIST uses.
func normCDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}

func fnNORM_INV(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 3 {
		return errorResult(ErrorKindNA, cell, "")
	}
	p, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	mean, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	sd, errRes := ec.scalarNumber(args[2], cell)
	if errRes != nil {
		return *errRes
	}
	if p <= 0 || p >= 1 || sd <= 0 {
		return errorResult(ErrorKindNUM, cell, "")
	}
	return numberResult(mean + sd*math.Sqrt2*erfInv(2*p-1))
}

// erfInv is a rational approximation (Winitzki) of the inverse error
// function, adequate for NORM.INV's precision needs.
func erfInv(x float64) float64 {
	const a = 0.147
	ln1mx2 := math.Log(1 - x*x)
	t1 := 2/(math.Pi*a) + ln1mx2/2
	t2 := ln1mx2 / a
	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	return sign * math.Sqrt(math.Sqrt(t1*t1-t2)-t1)
}

func fnFISHER(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	x, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	if x <= -1 || x >= 1 {
		return errorResult(ErrorKindNUM, cell, "")
	}
	return numberResult(0.5 * math.Log((1+x)/(1-x)))
}

func fnFISHERINV(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	y, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	e2y := math.Exp(2 * y)
	return numberResult((e2y - 1) / (e2y + 1))
}
