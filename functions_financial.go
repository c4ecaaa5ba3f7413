// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

import "math"

func init() {
	RegisterFunction(FnPMT, fnPMT)
	RegisterFunction(FnIPMT, fnIPMT)
	RegisterFunction(FnPPMT, fnPPMT)
	RegisterFunction(FnFV, fnFV)
	RegisterFunction(FnPV, fnPV)
	RegisterFunction(FnNPER, fnNPER)
	RegisterFunction(FnRATE, fnRATE)
	RegisterFunction(FnNPV, fnNPV)
	RegisterFunction(FnIRR, fnIRR)
	RegisterFunction(FnISPMT, fnISPMT)
	RegisterFunction(FnSLN, fnSLN)
	RegisterFunction(FnSYD, fnSYD)
	RegisterFunction(FnDB, fnDB)
	RegisterFunction(FnDDB, fnDDB)
}

// financialArgs reads the common (rate, nper, pv, [fv], [type]) argument
// shape shared by PMT/IPMT/PPMT/NPER/FV/PV.
func financialArgs(ec *evalCtx, args []*Node, cell CellRef, minArgs, maxArgs int) ([]float64, *CalcResult) {
	if len(args) < minArgs || len(args) > maxArgs {
		r := errorResult(ErrorKindNA, cell, "")
		return nil, &r
	}
	out := make([]float64, len(args))
	for i, a := range args {
		v, errRes := ec.scalarNumber(a, cell)
		if errRes != nil {
			return nil, errRes
		}
		out[i] = v
	}
	return out, nil
}

func fnPMT(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	v, errRes := financialArgs(ec, args, cell, 3, 5)
	if errRes != nil {
		return *errRes
	}
	rate, nper, pv := v[0], v[1], v[2]
	fv, typ := 0.0, 0.0
	if len(v) >= 4 {
		fv = v[3]
	}
	if len(v) == 5 {
		typ = v[4]
	}
	if rate == 0 {
		return numberResult(-(pv + fv) / nper)
	}
	pow := math.Pow(1+rate, nper)
	pmt := (rate / (pow - 1)) * -(pv*pow + fv)
	if typ != 0 {
		pmt /= 1 + rate
	}
	return numberResult(pmt)
}

func fnIPMT(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	v, errRes := financialArgs(ec, args, cell, 4, 6)
	if errRes != nil {
		return *errRes
	}
	rate, per, nper, pv := v[0], v[1], v[2], v[3]
	fv, typ := 0.0, 0.0
	if len(v) >= 5 {
		fv = v[4]
	}
	if len(v) == 6 {
		typ = v[5]
	}
	pmt := pmtOf(rate, nper, pv, fv, typ)
	balance := balanceBeforePeriod(rate, per, pmt, pv, typ)
	ipmt := -balance * rate
	if typ != 0 && per == 1 {
		ipmt = 0
	}
	return numberResult(ipmt)
}

func fnPPMT(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	v, errRes := financialArgs(ec, args, cell, 4, 6)
	if errRes != nil {
		return *errRes
	}
	rate, per, nper, pv := v[0], v[1], v[2], v[3]
	fv, typ := 0.0, 0.0
	if len(v) >= 5 {
		fv = v[4]
	}
	if len(v) == 6 {
		typ = v[5]
	}
	pmt := pmtOf(rate, nper, pv, fv, typ)
	balance := balanceBeforePeriod(rate, per, pmt, pv, typ)
	ipmt := -balance * rate
	if typ != 0 && per == 1 {
		ipmt = 0
	}
	return numberResult(pmt - ipmt)
}

func pmtOf(rate, nper, pv, fv, typ float64) float64 {
	if rate == 0 {
		return -(pv + fv) / nper
	}
	pow := math.Pow(1+rate, nper)
	pmt := (rate / (pow - 1)) * -(pv*pow + fv)
	if typ != 0 {
		pmt /= 1 + rate
	}
	return pmt
}

// balanceBeforePeriod walks the amortization schedule to the start of
// period per, the way the original implementation derives IPMT/PPMT
// instead of using a closed form for the typ=1 (annuity-due) case.
func balanceBeforePeriod(rate, per, pmt, pv, typ float64) float64 {
	balance := pv
	for p := 1.0; p < per; p++ {
		interest := 0.0
		if !(typ != 0 && p == 1) {
			interest = balance * rate
		}
		balance += interest + pmt
	}
	return balance
}

func fnFV(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	v, errRes := financialArgs(ec, args, cell, 3, 5)
	if errRes != nil {
		return *errRes
	}
	rate, nper, pmt := v[0], v[1], v[2]
	pv, typ := 0.0, 0.0
	if len(v) >= 4 {
		pv = v[3]
	}
	if len(v) == 5 {
		typ = v[4]
	}
	if rate == 0 {
		return numberResult(-(pv + pmt*nper))
	}
	pow := math.Pow(1+rate, nper)
	fv := -pv*pow - pmt*(1+rate*typ)*(pow-1)/rate
	return numberResult(fv)
}

func fnPV(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	v, errRes := financialArgs(ec, args, cell, 3, 5)
	if errRes != nil {
		return *errRes
	}
	rate, nper, pmt := v[0], v[1], v[2]
	fv, typ := 0.0, 0.0
	if len(v) >= 4 {
		fv = v[3]
	}
	if len(v) == 5 {
		typ = v[4]
	}
	if rate == 0 {
		return numberResult(-(fv + pmt*nper))
	}
	pow := math.Pow(1+rate, nper)
	pv := (-fv - pmt*(1+rate*typ)*(pow-1)/rate) / pow
	return numberResult(pv)
}

func fnNPER(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	v, errRes := financialArgs(ec, args, cell, 3, 5)
	if errRes != nil {
		return *errRes
	}
	rate, pmt, pv := v[0], v[1], v[2]
	fv, typ := 0.0, 0.0
	if len(v) >= 4 {
		fv = v[3]
	}
	if len(v) == 5 {
		typ = v[4]
	}
	if rate == 0 {
		if pmt == 0 {
			return errorResult(ErrorKindDIV, cell, "")
		}
		return numberResult(-(pv + fv) / pmt)
	}
	adjPmt := pmt * (1 + rate*typ)
	numerator := adjPmt - fv*rate
	denominator := pv*rate + adjPmt
	if numerator <= 0 || denominator <= 0 {
		return errorResult(ErrorKindNUM, cell, "")
	}
	return numberResult(math.Log(numerator/denominator) / math.Log(1+rate))
}

// fnRATE solves for the periodic rate by Newton's method over PV's
// closed form, the way the original implementation iterates rather than
// using a direct formula (none exists in general).
func fnRATE(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	v, errRes := financialArgs(ec, args, cell, 3, 6)
	if errRes != nil {
		return *errRes
	}
	nper, pmt, pv := v[0], v[1], v[2]
	fv, typ, guess := 0.0, 0.0, 0.1
	if len(v) >= 4 {
		fv = v[3]
	}
	if len(v) >= 5 {
		typ = v[4]
	}
	if len(v) == 6 {
		guess = v[5]
	}
	rate := guess
	for i := 0; i < 100; i++ {
		f := pv*math.Pow(1+rate, nper) + pmt*(1+rate*typ)*(math.Pow(1+rate, nper)-1)/maxNonZero(rate) + fv
		df := deriveRateFunc(rate, nper, pmt, pv, fv, typ)
		if df == 0 {
			break
		}
		next := rate - f/df
		if math.Abs(next-rate) < 1e-10 {
			rate = next
			break
		}
		rate = next
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return errorResult(ErrorKindNUM, cell, "")
	}
	return numberResult(rate)
}

func maxNonZero(r float64) float64 {
	if r == 0 {
		return 1e-10
	}
	return r
}

func deriveRateFunc(rate, nper, pmt, pv, fv, typ float64) float64 {
	h := 1e-6
	f1 := pv*math.Pow(1+rate+h, nper) + pmt*(1+(rate+h)*typ)*(math.Pow(1+rate+h, nper)-1)/maxNonZero(rate+h) + fv
	f0 := pv*math.Pow(1+rate-h, nper) + pmt*(1+(rate-h)*typ)*(math.Pow(1+rate-h, nper)-1)/maxNonZero(rate-h) + fv
	return (f1 - f0) / (2 * h)
}

func fnNPV(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	rate, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	nums, errRes := ec.numbersIgnoringText(args[1:], cell)
	if errRes != nil {
		return *errRes
	}
	npv := 0.0
	for i, n := range nums {
		npv += n / math.Pow(1+rate, float64(i+1))
	}
	return numberResult(npv)
}

// fnIRR solves for the rate at which NPV(rate, values) == 0 via Newton's
// method, seeded by guess (default 0.1).
func fnIRR(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 1 || len(args) > 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	rangeVal := ec.eval(args[0], cell)
	if rangeVal.IsError() {
		return rangeVal
	}
	guess := 0.1
	if len(args) == 2 {
		g, errRes := ec.scalarNumber(args[1], cell)
		if errRes != nil {
			return *errRes
		}
		guess = g
	}
	nums := numbersOnly(ec.flattenValues([]CalcResult{rangeVal}, cell))
	if len(nums) < 2 {
		return errorResult(ErrorKindNUM, cell, "")
	}
	rate := guess
	for i := 0; i < 100; i++ {
		npv, dNpv := 0.0, 0.0
		for t, cf := range nums {
			pow := math.Pow(1+rate, float64(t))
			npv += cf / pow
			if t > 0 {
				dNpv -= float64(t) * cf / (pow * (1 + rate))
			}
		}
		if dNpv == 0 {
			break
		}
		next := rate - npv/dNpv
		if math.Abs(next-rate) < 1e-10 {
			rate = next
			break
		}
		rate = next
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return errorResult(ErrorKindNUM, cell, "")
	}
	return numberResult(rate)
}

func fnISPMT(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 4 {
		return errorResult(ErrorKindNA, cell, "")
	}
	rate, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	per, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	nper, errRes := ec.scalarNumber(args[2], cell)
	if errRes != nil {
		return *errRes
	}
	pv, errRes := ec.scalarNumber(args[3], cell)
	if errRes != nil {
		return *errRes
	}
	return numberResult(pv * rate * (per/nper - 1))
}

func fnSLN(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 3 {
		return errorResult(ErrorKindNA, cell, "")
	}
	cost, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	salvage, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	life, errRes := ec.scalarNumber(args[2], cell)
	if errRes != nil {
		return *errRes
	}
	if life == 0 {
		return errorResult(ErrorKindDIV, cell, "")
	}
	return numberResult((cost - salvage) / life)
}

func fnSYD(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 4 {
		return errorResult(ErrorKindNA, cell, "")
	}
	cost, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	salvage, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	life, errRes := ec.scalarNumber(args[2], cell)
	if errRes != nil {
		return *errRes
	}
	per, errRes := ec.scalarNumber(args[3], cell)
	if errRes != nil {
		return *errRes
	}
	if life == 0 {
		return errorResult(ErrorKindDIV, cell, "")
	}
	return numberResult((cost - salvage) * (life - per + 1) * 2 / (life * (life + 1)))
}

func fnDB(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 4 || len(args) > 5 {
		return errorResult(ErrorKindNA, cell, "")
	}
	cost, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	salvage, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	life, errRes := ec.scalarNumber(args[2], cell)
	if errRes != nil {
		return *errRes
	}
	period, errRes := ec.scalarNumber(args[3], cell)
	if errRes != nil {
		return *errRes
	}
	month := 12.0
	if len(args) == 5 {
		month, errRes = ec.scalarNumber(args[4], cell)
		if errRes != nil {
			return *errRes
		}
	}
	if cost == 0 || life == 0 {
		return errorResult(ErrorKindDIV, cell, "")
	}
	rate := round(1-math.Pow(salvage/cost, 1/life), 3)
	firstPeriodDep := cost * rate * month / 12
	if period == 1 {
		return numberResult(firstPeriodDep)
	}
	total := firstPeriodDep
	dep := 0.0
	for p := 2.0; p <= period; p++ {
		dep = (cost - total) * rate
		total += dep
	}
	return numberResult(dep)
}

func fnDDB(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 4 || len(args) > 5 {
		return errorResult(ErrorKindNA, cell, "")
	}
	cost, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	salvage, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	life, errRes := ec.scalarNumber(args[2], cell)
	if errRes != nil {
		return *errRes
	}
	period, errRes := ec.scalarNumber(args[3], cell)
	if errRes != nil {
		return *errRes
	}
	factor := 2.0
	if len(args) == 5 {
		factor, errRes = ec.scalarNumber(args[4], cell)
		if errRes != nil {
			return *errRes
		}
	}
	if life == 0 {
		return errorResult(ErrorKindDIV, cell, "")
	}
	rate := factor / life
	bookValue := cost
	dep := 0.0
	for p := 1.0; p <= period; p++ {
		dep = bookValue * rate
		if bookValue-dep < salvage {
			dep = bookValue - salvage
		}
		bookValue -= dep
	}
	return numberResult(dep)
}
