// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.
//
// Unit inference (spec §4.2, §4.5 "units propagation"): after a formula is
// evaluated, its result cell's display format is guessed from the formula's
// own operands rather than left untouched, the way a spreadsheet user
// expects =A1*A2 to read as currency when A1 is priced in dollars. This
// file walks the same Node tree evaluator.go's eval walks, in parallel,
// producing a number-format string instead of a value.
package ironcalc

import (
	"strings"

	"github.com/ironcalc-go/ironcalc/numfmt"
)

// inferNumFmt guesses a result format for n, the top-level node of a
// formula. ok is false when no rule applies (e.g. a bare literal, or a
// function family without a fixed-format rule), meaning the caller should
// leave the cell's current format alone.
func inferNumFmt(wb *Workbook, n *Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind {
	case NodeReference, NodeRange:
		return referencedNumFmt(wb, n.SheetIndex, n.Row, n.Column)
	case NodeOpSum:
		l, lok := inferNumFmt(wb, n.Left)
		r, rok := inferNumFmt(wb, n.Right)
		return combineSumFmt(l, lok, r, rok)
	case NodeOpProduct:
		l, lok := inferNumFmt(wb, n.Left)
		r, rok := inferNumFmt(wb, n.Right)
		return combineProductFmt(l, lok, r, rok)
	case NodeUnaryMinus, NodeUnaryPercent, NodeImplicitIntersection:
		return inferNumFmt(wb, n.Child)
	case NodeOpPower:
		return inferNumFmt(wb, n.Left)
	case NodeCompare:
		return inferNumFmt(wb, n.Left)
	case NodeFunction:
		return fixedFnNumFmt(n.Kind2)
	}
	return "", false
}

// referencedNumFmt copies the resolved format of a Reference/Range node's
// top-left cell (spec §4.2 "Reference/Range: copy the source format").
func referencedNumFmt(wb *Workbook, sheetIdx, row, col int) (string, bool) {
	ws := wb.Sheet(sheetIdx)
	if ws == nil {
		return "", false
	}
	return wb.Styles().NumberFormat(ws.ResolveStyle(row, col)), true
}

// numFmtClass buckets a format string into the handful of kinds the
// product/quotient rules distinguish between.
func numFmtClass(fmtStr string) string {
	switch {
	case fmtStr == "" || fmtStr == "General":
		return "general"
	case numfmt.IsDateFormat(fmtStr):
		return "date"
	case strings.Contains(fmtStr, "%"):
		return "percent"
	case strings.Contains(fmtStr, "$"):
		return "currency"
	}
	return "number"
}

// decimalPlaces counts the placeholder digits after a format's decimal
// point, used to compare precision between two formats.
func decimalPlaces(fmtStr string) int {
	idx := strings.IndexByte(fmtStr, '.')
	if idx < 0 {
		return 0
	}
	n := 0
	for _, ch := range fmtStr[idx+1:] {
		if ch != '0' && ch != '#' && ch != '?' {
			break
		}
		n++
	}
	return n
}

// ensure2dp raises fmtStr to at least two decimal places, picking a
// sensible default pattern for its class when it has none to raise.
func ensure2dp(fmtStr, class string) string {
	switch class {
	case "percent":
		return "0.00%"
	case "currency":
		return "$#,##0.00"
	}
	if decimalPlaces(fmtStr) >= 2 {
		return fmtStr
	}
	return "0.00"
}

// combineSumFmt implements "sum/diff: the higher precision of the two wins
// (None ∪ X = X)".
func combineSumFmt(l string, lok bool, r string, rok bool) (string, bool) {
	switch {
	case !lok:
		return r, rok
	case !rok:
		return l, lok
	case decimalPlaces(l) >= decimalPlaces(r):
		return l, true
	default:
		return r, true
	}
}

// combineProductFmt implements the product/quotient rules (spec §4.2):
// percentage × X → X at at least 2 dp; currency × percentage (either
// order) → currency at at least 2 dp; percentage × percentage →
// percentage; number × X → X, i.e. a plain/general operand defers to the
// other side's format.
func combineProductFmt(l string, lok bool, r string, rok bool) (string, bool) {
	if !lok {
		return r, rok
	}
	if !rok {
		return l, lok
	}
	lc, rc := numFmtClass(l), numFmtClass(r)
	switch {
	case lc == "percent" && rc == "percent":
		return "0.00%", true
	case lc == "currency" && rc == "percent", lc == "percent" && rc == "currency":
		return "$#,##0.00", true
	case lc == "percent":
		return ensure2dp(r, rc), true
	case rc == "percent":
		return ensure2dp(l, lc), true
	case lc == "general":
		return r, true
	case lc == "number" && rc != "general":
		return r, true
	default:
		return l, true
	}
}

// fixedFnNumFmt gives a handful of function families a result format that
// doesn't depend on their arguments (spec §4.2): payment/valuation
// functions read as currency, rate-of-return functions as a percentage,
// bond-yield functions as a 2-decimal percentage, and date constructors as
// a date. This applies whether or not the function itself has a
// registered evaluator handler (functions_financial.go, functions_datetime.go)
// — the format rule is part of the formula language, not tied to how much
// of the function library is implemented.
func fixedFnNumFmt(fn FunctionKind) (string, bool) {
	switch fn {
	case FnPMT, FnIPMT, FnPPMT, FnFV, FnPV, FnNPV:
		return "$#,##0.00", true
	case FnIRR, FnMIRR, FnXIRR:
		return "0%", true
	case FnTBILLEQ, FnYIELD:
		return "0.00%", true
	case FnDATE, FnTODAY:
		return "m/d/yyyy", true
	}
	return "", false
}
