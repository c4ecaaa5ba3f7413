// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

// ResultKind discriminates CalcResult's variants (spec §3 "CalcResult").
type ResultKind byte

const (
	ResultNumber ResultKind = iota
	ResultString
	ResultBoolean
	ResultRange
	ResultArray
	ResultEmptyCell
	ResultEmptyArg
	ResultError
)

// RangeRef identifies a rectangular, single-sheet cell range by resolved
// coordinates (inclusive, 1-based).
type RangeRef struct {
	SheetIndex         int
	Row1, Col1, Row2, Col2 int
}

// Normalized returns r with Row1<=Row2 and Col1<=Col2.
func (r RangeRef) Normalized() RangeRef {
	if r.Row1 > r.Row2 {
		r.Row1, r.Row2 = r.Row2, r.Row1
	}
	if r.Col1 > r.Col2 {
		r.Col1, r.Col2 = r.Col2, r.Col1
	}
	return r
}

// CalcResult is the evaluator's typed result for one AST node (spec §3).
type CalcResult struct {
	Kind    ResultKind
	Number  float64
	Str     string
	Boolean bool
	Range   RangeRef
	Array   [][]CalcResult
	ErrKind ErrorKind
	Origin  CellRef
	Message string
}

func numberResult(v float64) CalcResult  { return CalcResult{Kind: ResultNumber, Number: v} }
func stringResult(v string) CalcResult   { return CalcResult{Kind: ResultString, Str: v} }
func booleanResult(v bool) CalcResult    { return CalcResult{Kind: ResultBoolean, Boolean: v} }
func emptyCellResult() CalcResult        { return CalcResult{Kind: ResultEmptyCell} }
func emptyArgResult() CalcResult         { return CalcResult{Kind: ResultEmptyArg} }

func errorResult(kind ErrorKind, origin CellRef, message string) CalcResult {
	return CalcResult{Kind: ResultError, ErrKind: kind, Origin: origin, Message: message}
}

// IsError reports whether r is an error result.
func (r CalcResult) IsError() bool { return r.Kind == ResultError }
