// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.
//
// The evaluator is a recursive tree-walk over Node (spec §4.5), grounded on
// the dependency-aware recalculation loop in
// other_examples/ca2a4cec_..._batch_dag.go.go: a per-evaluation "in
// progress" set stands in for that example's visited-node marking, turning
// a self-referential chain into a #CIRC! error rather than a stack
// overflow or infinite loop.
package ironcalc

import (
	"math"
)

// fnHandler evaluates a function call's arguments (un-evaluated, so
// short-circuit families can skip some) and returns its result. cell is
// the originating cell, used for relative addressing functions like ROW()
// and CELL().
type fnHandler func(ec *evalCtx, args []*Node, cell CellRef) CalcResult

// fnHandlers is the dense dispatch table described in functions.go's
// package comment. Family files populate their slice slice in their own
// init().
var fnHandlers [fnKindCount]fnHandler

// RegisterFunction installs the handler for kind. Panics on a duplicate
// registration, which would indicate two family files claiming the same
// FunctionKind.
func RegisterFunction(kind FunctionKind, h fnHandler) {
	if fnHandlers[kind] != nil {
		panic("ironcalc: duplicate function handler registration")
	}
	fnHandlers[kind] = h
}

// evalCtx is evaluation-wide state threaded through one Evaluate call
// (spec §4.5 "Evaluation order" and §5 "Concurrency" — one Workbook is
// evaluated by a single goroutine at a time, so this struct needs no
// locking of its own).
type evalCtx struct {
	wb *Workbook

	inProgress map[CellRef]bool
	depth      int

	iterative    bool
	maxIterations int
	maxChange    float64
}

const maxRecursionDepth = 512

func newEvalCtx(wb *Workbook) *evalCtx {
	return &evalCtx{wb: wb, inProgress: make(map[CellRef]bool)}
}

// EvaluateCell computes the value of the formula stored at cell, given its
// formula index f, and returns its CalcResult (spec §4.5). Storing the
// result back into the cell is left to the caller.
func EvaluateCell(wb *Workbook, cell CellRef, f uint32) CalcResult {
	ec := newEvalCtx(wb)
	return ec.evalCell(cell, f)
}

func (ec *evalCtx) evalCell(cell CellRef, f uint32) CalcResult {
	if ec.inProgress[cell] {
		return errorResult(ErrorKindCIRC, cell, "circular reference")
	}
	ec.inProgress[cell] = true
	defer delete(ec.inProgress, cell)

	node := ec.wb.FormulaNode(f)
	if node == nil {
		return errorResult(ErrorKindERROR, cell, "missing formula")
	}
	return ec.eval(node, cell)
}

// eval walks node, evaluating it to a CalcResult in the context of cell
// (the cell whose formula owns this subtree — used for relative functions
// and as the origin reported in error results).
func (ec *evalCtx) eval(n *Node, cell CellRef) CalcResult {
	if n == nil {
		return emptyArgResult()
	}
	ec.depth++
	defer func() { ec.depth-- }()
	if ec.depth > maxRecursionDepth {
		return errorResult(ErrorKindERROR, cell, "expression too deeply nested")
	}

	if kind, isErr := n.IsError(); isErr {
		return errorResult(kind, cell, n.Message)
	}

	switch n.Kind {
	case NodeBooleanLit:
		return booleanResult(n.BoolVal)
	case NodeNumberLit:
		return numberResult(n.NumVal)
	case NodeStringLit:
		return stringResult(n.StrVal)
	case NodeEmptyArg:
		return emptyArgResult()
	case NodeVariableRef:
		return errorResult(ErrorKindNAME, cell, n.Name)
	case NodeDefinedName:
		return ec.evalDefinedName(n, cell)
	case NodeTableName:
		return errorResult(ErrorKindREF, cell, "table references are not supported")
	case NodeReference:
		return ec.evalReference(n, cell)
	case NodeRange:
		return ec.evalRange(n, cell)
	case NodeOpSum:
		return ec.evalArith(n, cell, '+')
	case NodeOpProduct:
		return ec.evalArith(n, cell, '*')
	case NodeOpPower:
		return ec.evalArith(n, cell, '^')
	case NodeOpConcatenate:
		return ec.evalConcat(n, cell)
	case NodeOpRange:
		return ec.evalUnion(n, cell)
	case NodeCompare:
		return ec.evalCompare(n, cell)
	case NodeUnaryMinus:
		return ec.evalUnaryMinus(n, cell)
	case NodeUnaryPercent:
		return ec.evalUnaryPercent(n, cell)
	case NodeImplicitIntersection:
		return ec.evalImplicitIntersection(n, cell)
	case NodeFunction:
		return ec.evalFunction(n, cell)
	case NodeInvalidFunction:
		return errorResult(ErrorKindNAME, cell, n.Name)
	case NodeArray:
		return ec.evalArrayLiteral(n, cell)
	}
	return errorResult(ErrorKindERROR, cell, "unhandled node")
}

func (ec *evalCtx) evalDefinedName(n *Node, cell CellRef) CalcResult {
	idx, ok := ec.wb.definedNameFormulaIndex(n.DefScope, n.Name)
	if !ok {
		return errorResult(ErrorKindNAME, cell, n.Name)
	}
	node := ec.wb.FormulaNode(idx)
	if node == nil {
		return errorResult(ErrorKindNAME, cell, n.Name)
	}
	return ec.eval(node, cell)
}

func (ec *evalCtx) evalReference(n *Node, cell CellRef) CalcResult {
	sheetIdx := n.SheetIndex
	if sheetIdx < 0 {
		return errorResult(ErrorKindREF, cell, "")
	}
	ws := ec.wb.Sheet(sheetIdx)
	if ws == nil {
		return errorResult(ErrorKindREF, cell, "")
	}
	refCell := CellRef{SheetID: ws.SheetID, Row: n.Row, Column: n.Column}
	c := ws.GetCell(n.Row, n.Column)
	return ec.resolveCellValue(c, refCell)
}

// resolveCellValue returns a cell's current CalcResult: a formula cell
// (evaluated or not) has its formula evaluated again through ec.eval under
// this evaluation's in-progress guard; any other cell's value is read
// directly.
func (ec *evalCtx) resolveCellValue(c Cell, ref CellRef) CalcResult {
	if f, ok := c.FormulaIndex(); ok {
		if ec.inProgress[ref] {
			return errorResult(ErrorKindCIRC, ref, "circular reference")
		}
		ec.inProgress[ref] = true
		defer delete(ec.inProgress, ref)
		node := ec.wb.FormulaNode(f)
		if node == nil {
			return errorResult(ErrorKindERROR, ref, "missing formula")
		}
		return ec.eval(node, ref)
	}
	switch vv := c.RawValue(ec.wb.SharedStrings()).(type) {
	case nil:
		return emptyCellResult()
	case bool:
		return booleanResult(vv)
	case float64:
		return numberResult(vv)
	case string:
		return stringResult(vv)
	case ErrorKind:
		return errorResult(vv, ref, "")
	}
	return emptyCellResult()
}

func (ec *evalCtx) evalRange(n *Node, cell CellRef) CalcResult {
	if n.SheetIndex < 0 {
		return errorResult(ErrorKindREF, cell, "")
	}
	rng := RangeRef{SheetIndex: n.SheetIndex, Row1: n.Row, Col1: n.Column, Row2: n.Row2, Col2: n.Column2}.Normalized()
	return CalcResult{Kind: ResultRange, Range: rng}
}

func (ec *evalCtx) evalUnion(n *Node, cell CellRef) CalcResult {
	left := ec.eval(n.Left, cell)
	right := ec.eval(n.Right, cell)
	if left.IsError() {
		return left
	}
	if right.IsError() {
		return right
	}
	if left.Kind != ResultRange || right.Kind != ResultRange || left.Range.SheetIndex != right.Range.SheetIndex {
		return errorResult(ErrorKindNULL, cell, "")
	}
	l, r := left.Range, right.Range
	return CalcResult{Kind: ResultRange, Range: RangeRef{
		SheetIndex: l.SheetIndex,
		Row1:       min(l.Row1, r.Row1), Col1: min(l.Col1, r.Col1),
		Row2: max(l.Row2, r.Row2), Col2: max(l.Col2, r.Col2),
	}}
}

func (ec *evalCtx) evalUnaryMinus(n *Node, cell CellRef) CalcResult {
	v, res := ec.coerceNumber(n.Child, cell)
	if res != nil {
		return *res
	}
	return numberResult(-v)
}

func (ec *evalCtx) evalUnaryPercent(n *Node, cell CellRef) CalcResult {
	v, res := ec.coerceNumber(n.Child, cell)
	if res != nil {
		return *res
	}
	return numberResult(v / 100)
}

func (ec *evalCtx) evalArith(n *Node, cell CellRef, op byte) CalcResult {
	l, errRes := ec.coerceNumber(n.Left, cell)
	if errRes != nil {
		return *errRes
	}
	r, errRes := ec.coerceNumber(n.Right, cell)
	if errRes != nil {
		return *errRes
	}
	switch op {
	case '+':
		if n.BoolVal { // IsMinus, stashed on the shared leaf field by the parser
			return numberResult(l - r)
		}
		return numberResult(l + r)
	case '*':
		if n.BoolVal { // IsDivide
			if r == 0 {
				return errorResult(ErrorKindDIV, cell, "")
			}
			return numberResult(l / r)
		}
		return numberResult(l * r)
	case '^':
		return numberResult(math.Pow(l, r))
	}
	return errorResult(ErrorKindERROR, cell, "")
}

func (ec *evalCtx) evalConcat(n *Node, cell CellRef) CalcResult {
	l := ec.eval(n.Left, cell)
	if l.IsError() {
		return l
	}
	r := ec.eval(n.Right, cell)
	if r.IsError() {
		return r
	}
	return stringResult(resultToText(l) + resultToText(r))
}

func (ec *evalCtx) evalCompare(n *Node, cell CellRef) CalcResult {
	l := ec.eval(n.Left, cell)
	if l.IsError() {
		return l
	}
	r := ec.eval(n.Right, cell)
	if r.IsError() {
		return r
	}
	return booleanResult(compareResults(l, r, n.Op))
}

func (ec *evalCtx) evalImplicitIntersection(n *Node, cell CellRef) CalcResult {
	v := ec.eval(n.Child, cell)
	if v.Kind != ResultRange {
		return v
	}
	rng := v.Range
	ws := ec.wb.Sheet(rng.SheetIndex)
	if ws == nil {
		return errorResult(ErrorKindREF, cell, "")
	}
	row, col := cell.Row, cell.Column
	if col >= rng.Col1 && col <= rng.Col2 && rng.Row1 <= row && row <= rng.Row2 {
		return ec.resolveCellValue(ws.GetCell(row, col), CellRef{SheetID: ws.SheetID, Row: row, Column: col})
	}
	if rng.Row1 == rng.Row2 {
		row = rng.Row1
	} else if rng.Col1 == rng.Col2 {
		col = rng.Col1
	} else {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	return ec.resolveCellValue(ws.GetCell(row, col), CellRef{SheetID: ws.SheetID, Row: row, Column: col})
}

func (ec *evalCtx) evalFunction(n *Node, cell CellRef) CalcResult {
	h := fnHandlers[n.Kind2]
	if h == nil {
		// The parser recognised the function name (it's in functionNames)
		// but this family's file doesn't register a handler for it —
		// depth-over-breadth per SPEC_FULL §D.8, not a parse failure, so
		// #N/IMPL! rather than #NAME? (spec §3 ErrorKind: "parsed but not
		// evaluated").
		return errorResult(ErrorKindNIMPL, cell, "")
	}
	return h(ec, n.Args, cell)
}

func (ec *evalCtx) evalArrayLiteral(n *Node, cell CellRef) CalcResult {
	rows := make([][]CalcResult, len(n.ArrayRows))
	for i, row := range n.ArrayRows {
		vals := make([]CalcResult, len(row))
		for j, a := range row {
			vals[j] = ec.eval(a, cell)
		}
		rows[i] = vals
	}
	return CalcResult{Kind: ResultArray, Array: rows}
}

// coerceNumber evaluates node and coerces its result to a number (spec
// §4.5 coercion rules: booleans are 0/1, blank is 0, text that doesn't
// parse as a number is #VALUE!, ranges collapse via implicit
// intersection only at the parser level so a bare range here is
// #VALUE!). Returns a non-nil *CalcResult only on early-exit error.
func (ec *evalCtx) coerceNumber(node *Node, cell CellRef) (float64, *CalcResult) {
	v := ec.eval(node, cell)
	if v.IsError() {
		return 0, &v
	}
	n, ok := coerceResultToNumber(v)
	if !ok {
		r := errorResult(ErrorKindVALUE, cell, "")
		return 0, &r
	}
	return n, nil
}

func coerceResultToNumber(v CalcResult) (float64, bool) {
	switch v.Kind {
	case ResultNumber:
		return v.Number, true
	case ResultBoolean:
		if v.Boolean {
			return 1, true
		}
		return 0, true
	case ResultEmptyCell, ResultEmptyArg:
		return 0, true
	case ResultString:
		if n, ok := parseNumberText(v.Str); ok {
			return n, true
		}
	}
	return 0, false
}

func resultToText(v CalcResult) string {
	switch v.Kind {
	case ResultString:
		return v.Str
	case ResultNumber:
		return formatGeneralNumber(v.Number)
	case ResultBoolean:
		if v.Boolean {
			return "TRUE"
		}
		return "FALSE"
	case ResultEmptyCell, ResultEmptyArg:
		return ""
	}
	return ""
}

// compareResults implements Excel's comparison ordering: numbers < text <
// boolean, case-insensitive text comparison, blank treated as "" or 0
// depending on the other operand's type.
func compareResults(l, r CalcResult, op CompareOp) bool {
	blank := func(v CalcResult) bool { return v.Kind == ResultEmptyCell || v.Kind == ResultEmptyArg }
	if blank(l) && r.Kind == ResultString {
		l = stringResult("")
	} else if blank(r) && l.Kind == ResultString {
		r = stringResult("")
	}
	rank := func(v CalcResult) int {
		switch v.Kind {
		case ResultNumber, ResultEmptyCell, ResultEmptyArg:
			return 0
		case ResultString:
			return 1
		case ResultBoolean:
			return 2
		}
		return 3
	}
	lr, rr := rank(l), rank(r)
	var cmp int
	switch {
	case lr != rr:
		cmp = lr - rr
		if cmp > 0 {
			cmp = 1
		} else {
			cmp = -1
		}
	case lr == 0:
		ln, _ := coerceResultToNumber(l)
		rn, _ := coerceResultToNumber(r)
		switch {
		case ln < rn:
			cmp = -1
		case ln > rn:
			cmp = 1
		}
	case lr == 1:
		ls, rs := upperASCII(resultToText(l)), upperASCII(resultToText(r))
		switch {
		case ls < rs:
			cmp = -1
		case ls > rs:
			cmp = 1
		}
	case lr == 2:
		switch {
		case !l.Boolean && r.Boolean:
			cmp = -1
		case l.Boolean && !r.Boolean:
			cmp = 1
		}
	}
	switch op {
	case CompareEQ:
		return cmp == 0
	case CompareNE:
		return cmp != 0
	case CompareLT:
		return cmp < 0
	case CompareLE:
		return cmp <= 0
	case CompareGT:
		return cmp > 0
	case CompareGE:
		return cmp >= 0
	}
	return false
}

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 32
		}
	}
	return string(b)
}
