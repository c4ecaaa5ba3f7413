// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.
//
// Shared argument-coercion helpers used by every function family file,
// grounded on the argument-flattening helpers in
// other_examples/2e3dcd0b_..._duckdb-formula_compiler.go.go (that project's
// "expand range to scalar list" pass over a compiled expression tree).
package ironcalc

import (
	"math"
	"strings"
)

// evalArgs eagerly evaluates every argument node to a CalcResult, in
// left-to-right order (spec §4.5 "deterministic argument order").
func (ec *evalCtx) evalArgs(args []*Node, cell CellRef) []CalcResult {
	out := make([]CalcResult, len(args))
	for i, a := range args {
		out[i] = ec.eval(a, cell)
	}
	return out
}

// firstError returns the first error result in results, if any.
func firstError(results []CalcResult) (CalcResult, bool) {
	for _, r := range results {
		if r.IsError() {
			return r, true
		}
	}
	return CalcResult{}, false
}

// rangeValues returns every cell value within rng as a flat CalcResult
// slice, in row-major order.
func (ec *evalCtx) rangeValues(rng RangeRef, cell CellRef) []CalcResult {
	ws := ec.wb.Sheet(rng.SheetIndex)
	if ws == nil {
		return nil
	}
	var out []CalcResult
	for r := rng.Row1; r <= rng.Row2; r++ {
		for c := rng.Col1; c <= rng.Col2; c++ {
			out = append(out, ec.resolveCellValue(ws.GetCell(r, c), CellRef{SheetID: ws.SheetID, Row: r, Column: c}))
		}
	}
	return out
}

// flattenValues expands every Range/Array result in results into its
// member scalars, leaving plain scalars untouched.
func (ec *evalCtx) flattenValues(results []CalcResult, cell CellRef) []CalcResult {
	var out []CalcResult
	for _, r := range results {
		switch r.Kind {
		case ResultRange:
			out = append(out, ec.rangeValues(r.Range, cell)...)
		case ResultArray:
			for _, row := range r.Array {
				out = append(out, row...)
			}
		default:
			out = append(out, r)
		}
	}
	return out
}

// numbersIgnoringText collects numeric values from results the way SUM,
// AVERAGE, MAX, MIN and friends do: numbers inside a flattened range or
// array are kept, non-numeric members (text, blank, boolean) are silently
// skipped, but a scalar argument given directly must coerce to a number or
// the whole call is #VALUE! (spec §4.6 "aggregation coercion").
func (ec *evalCtx) numbersIgnoringText(args []*Node, cell CellRef) ([]float64, *CalcResult) {
	var nums []float64
	for _, a := range args {
		v := ec.eval(a, cell)
		if v.IsError() {
			return nil, &v
		}
		switch v.Kind {
		case ResultRange:
			for _, m := range ec.rangeValues(v.Range, cell) {
				if m.IsError() {
					return nil, &m
				}
				if m.Kind == ResultNumber {
					nums = append(nums, m.Number)
				}
			}
		case ResultArray:
			for _, row := range v.Array {
				for _, m := range row {
					if m.IsError() {
						return nil, &m
					}
					if m.Kind == ResultNumber {
						nums = append(nums, m.Number)
					}
				}
			}
		default:
			n, ok := coerceResultToNumber(v)
			if !ok {
				r := errorResult(ErrorKindVALUE, cell, "")
				return nil, &r
			}
			nums = append(nums, n)
		}
	}
	return nums, nil
}

// scalarNumber evaluates node and coerces it to a single number.
func (ec *evalCtx) scalarNumber(node *Node, cell CellRef) (float64, *CalcResult) {
	return ec.coerceNumber(node, cell)
}

// scalarText evaluates node and coerces it to text the way Excel's text
// functions do: numbers render via the General format, booleans as
// TRUE/FALSE, blank as "".
func (ec *evalCtx) scalarText(node *Node, cell CellRef) (string, *CalcResult) {
	v := ec.eval(node, cell)
	if v.IsError() {
		return "", &v
	}
	if v.Kind == ResultRange {
		vals := ec.rangeValues(v.Range, cell)
		if len(vals) == 0 {
			return "", nil
		}
		v = vals[0]
		if v.IsError() {
			return "", &v
		}
	}
	return resultToText(v), nil
}

// scalarBool evaluates node and coerces it to a boolean (spec §4.6: 0 is
// false, any other number true; "TRUE"/"FALSE" text case-insensitively;
// blank is false).
func (ec *evalCtx) scalarBool(node *Node, cell CellRef) (bool, *CalcResult) {
	v := ec.eval(node, cell)
	if v.IsError() {
		return false, &v
	}
	switch v.Kind {
	case ResultBoolean:
		return v.Boolean, nil
	case ResultNumber:
		return v.Number != 0, nil
	case ResultEmptyCell, ResultEmptyArg:
		return false, nil
	case ResultString:
		switch strings.ToUpper(v.Str) {
		case "TRUE":
			return true, nil
		case "FALSE":
			return false, nil
		}
	}
	r := errorResult(ErrorKindVALUE, cell, "")
	return false, &r
}

// asSingleResult collapses a Range/Array result down to its top-left
// member, the coercion Excel performs when a function expects a scalar
// but was handed a reference (e.g. most single-argument math functions
// given a one-cell range).
func (ec *evalCtx) asSingleResult(v CalcResult, cell CellRef) CalcResult {
	switch v.Kind {
	case ResultRange:
		vals := ec.rangeValues(v.Range, cell)
		if len(vals) == 0 {
			return emptyCellResult()
		}
		return vals[0]
	case ResultArray:
		if len(v.Array) > 0 && len(v.Array[0]) > 0 {
			return v.Array[0][0]
		}
		return emptyCellResult()
	}
	return v
}

func round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	if v >= 0 {
		return math.Floor(v*p+0.5) / p
	}
	return math.Ceil(v*p-0.5) / p
}

func isErrKind(v CalcResult, k ErrorKind) bool { return v.IsError() && v.ErrKind == k }

// parseCriteria splits an IF-family criteria argument (e.g. ">=10",
// "<>red", "app*") into a comparison operator (defaulting to "=") and the
// operand text/number to compare against.
func parseCriteria(raw CalcResult) (op string, operand CalcResult) {
	if raw.Kind != ResultString {
		return "=", raw
	}
	s := raw.Str
	for _, candidate := range []string{">=", "<=", "<>", ">", "<", "="} {
		if strings.HasPrefix(s, candidate) {
			rest := strings.TrimPrefix(s, candidate)
			if n, ok := parseNumberText(rest); ok {
				return candidate, numberResult(n)
			}
			return candidate, stringResult(rest)
		}
	}
	if n, ok := parseNumberText(s); ok {
		return "=", numberResult(n)
	}
	return "=", stringResult(s)
}

// matchCriteria reports whether v satisfies a SUMIF/COUNTIF/AVERAGEIF-style
// criteria value (spec §4.6): numeric comparisons when the operand is a
// number, case-insensitive wildcard ("*", "?") text matching for "=" and
// "<>" against text operands, else ordinary text comparison.
func matchCriteria(v CalcResult, raw CalcResult) bool {
	op, operand := parseCriteria(raw)
	if operand.Kind == ResultString && (op == "=" || op == "<>") {
		matched := wildcardMatch(strings.ToUpper(resultToText(v)), strings.ToUpper(operand.Str))
		if op == "<>" {
			return !matched
		}
		return matched
	}
	if operand.Kind == ResultString {
		if v.Kind != ResultString {
			return false
		}
		cmp := strings.Compare(strings.ToUpper(v.Str), strings.ToUpper(operand.Str))
		return (op == ">" && cmp > 0) || (op == "<" && cmp < 0) || (op == ">=" && cmp >= 0) || (op == "<=" && cmp <= 0)
	}
	vn, vOK := coerceResultToNumber(v)
	on, oOK := coerceResultToNumber(operand)
	if !vOK || !oOK {
		return op == "<>"
	}
	switch op {
	case "=":
		return vn == on
	case "<>":
		return vn != on
	case ">":
		return vn > on
	case "<":
		return vn < on
	case ">=":
		return vn >= on
	case "<=":
		return vn <= on
	}
	return false
}

// wildcardMatch implements Excel criteria wildcards: '*' any run of
// characters, '?' exactly one.
func wildcardMatch(s, pattern string) bool {
	return wildcardMatchRunes([]rune(s), []rune(pattern))
}

func wildcardMatchRunes(s, p []rune) bool {
	if len(p) == 0 {
		return len(s) == 0
	}
	if p[0] == '*' {
		for i := 0; i <= len(s); i++ {
			if wildcardMatchRunes(s[i:], p[1:]) {
				return true
			}
		}
		return false
	}
	if len(s) == 0 {
		return false
	}
	if p[0] == '?' || p[0] == s[0] {
		return wildcardMatchRunes(s[1:], p[1:])
	}
	return false
}
