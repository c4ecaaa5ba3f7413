// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

import (
	"bytes"
	"encoding/gob"
)

// CellType is the public kind of a cell, surfaced to hosts via
// Model.GetCellType, which reports every formula cell (evaluated or not)
// as CellTypeFormula. Cell.Type instead reports the kind of value the cell
// currently holds (see Type).
type CellType byte

// Cell value types enumeration.
const (
	CellTypeEmpty CellType = iota
	CellTypeBoolean
	CellTypeNumber
	CellTypeError
	CellTypeString
	CellTypeFormula
)

// cellKind is the internal tagged-union discriminant for Cell, distinguishing
// an unevaluated formula and the four evaluated-formula shapes, which the
// public CellType does not tell apart from plain values.
type cellKind byte

const (
	kindEmpty cellKind = iota
	kindBoolean
	kindNumber
	kindErrorCode
	kindSharedString
	kindFormula
	kindFormulaBoolean
	kindFormulaNumber
	kindFormulaString
	kindFormulaError
)

// CellRef addresses one cell in one sheet by its stable SheetID, not by
// display name, so it survives sheet renames.
type CellRef struct {
	SheetID int
	Row     int
	Column  int
}

// Cell is one cell's contents: a tagged union over empty / boolean / number
// / error / shared-string / formula (unevaluated or evaluated), each
// carrying an opaque style index into the workbook's style catalog. The
// four Formula* variants retain the interned AST index f so the formula
// text round-trips even after evaluation overwrites the cached value.
type Cell struct {
	kind  cellKind
	style int

	boolVal   bool
	numVal    float64
	errKind   ErrorKind
	sharedIdx uint32 // shared-strings table index
	strVal    string // cached evaluated string (FormulaString), or error message
	formula   uint32 // index into Workbook.parsedFormulas
	origin    CellRef // first cell where a FormulaError was raised
}

// newEmptyCell returns an Empty cell carrying style s.
func newEmptyCell(s int) Cell { return Cell{kind: kindEmpty, style: s} }

// NewBooleanCell builds a literal boolean cell.
func NewBooleanCell(v bool, s int) Cell {
	return Cell{kind: kindBoolean, boolVal: v, style: s}
}

// NewNumberCell builds a literal numeric cell.
func NewNumberCell(v float64, s int) Cell {
	return Cell{kind: kindNumber, numVal: v, style: s}
}

// NewErrorCell builds a literal error cell (not produced by evaluation).
func NewErrorCell(kind ErrorKind, s int) Cell {
	return Cell{kind: kindErrorCode, errKind: kind, style: s}
}

// newSharedStringCell builds a cell referencing si in the shared-strings
// table.
func newSharedStringCell(si uint32, s int) Cell {
	return Cell{kind: kindSharedString, sharedIdx: si, style: s}
}

// newFormulaCell marks a cell as set-but-not-yet-evaluated, pointing at AST
// index f.
func newFormulaCell(f uint32, s int) Cell {
	return Cell{kind: kindFormula, formula: f, style: s}
}

// IsEmpty reports whether the cell carries no value (variant Empty).
func (c Cell) IsEmpty() bool { return c.kind == kindEmpty }

// IsFormula reports whether the cell was set from formula text, evaluated
// or not.
func (c Cell) IsFormula() bool {
	switch c.kind {
	case kindFormula, kindFormulaBoolean, kindFormulaNumber, kindFormulaString, kindFormulaError:
		return true
	}
	return false
}

// FormulaIndex returns the interned AST index for a formula cell, and false
// for any other variant.
func (c Cell) FormulaIndex() (uint32, bool) {
	if c.IsFormula() {
		return c.formula, true
	}
	return 0, false
}

// Style returns the cell's opaque style index.
func (c Cell) Style() int { return c.style }

// WithStyle returns a copy of c carrying a new style index, preserving its
// value/formula contents — used when the evaluator mints a unit-inferred
// number format without disturbing the computed value.
func (c Cell) WithStyle(s int) Cell {
	c.style = s
	return c
}

// Type returns the kind of value the cell currently holds. An evaluated
// formula reports its cached result's kind (Boolean, Number, Error or
// String) and an unevaluated formula reports CellTypeEmpty; Type never
// returns CellTypeFormula.
func (c Cell) Type() CellType {
	switch c.kind {
	case kindEmpty:
		return CellTypeEmpty
	case kindBoolean, kindFormulaBoolean:
		return CellTypeBoolean
	case kindNumber, kindFormulaNumber:
		return CellTypeNumber
	case kindErrorCode, kindFormulaError:
		return CellTypeError
	case kindSharedString, kindFormulaString:
		return CellTypeString
	}
	return CellTypeEmpty
}

// evaluatedBoolean turns an unevaluated Formula cell into FormulaBoolean,
// preserving its AST index and style.
func (c Cell) evaluatedBoolean(v bool) Cell {
	return Cell{kind: kindFormulaBoolean, formula: c.formula, boolVal: v, style: c.style}
}

func (c Cell) evaluatedNumber(v float64) Cell {
	return Cell{kind: kindFormulaNumber, formula: c.formula, numVal: v, style: c.style}
}

func (c Cell) evaluatedString(v string) Cell {
	return Cell{kind: kindFormulaString, formula: c.formula, strVal: v, style: c.style}
}

func (c Cell) evaluatedError(kind ErrorKind, origin CellRef, message string) Cell {
	return Cell{kind: kindFormulaError, formula: c.formula, errKind: kind, origin: origin, strVal: message, style: c.style}
}

// cellWire mirrors Cell's unexported fields with exported names so
// encoding/gob (which only ever walks exported struct fields) can carry a
// Cell across FlushSendQueue/ApplyExternalDiffs and Workbook.ToBytes: Cell
// itself stays private-field for the same reason spec §9 wants it small and
// tag-discriminated, but the wire format needs visibility into that tag.
type cellWire struct {
	Kind      cellKind
	Style     int
	BoolVal   bool
	NumVal    float64
	ErrKind   ErrorKind
	SharedIdx uint32
	StrVal    string
	Formula   uint32
	Origin    CellRef
}

// GobEncode implements gob.GobEncoder.
func (c Cell) GobEncode() ([]byte, error) {
	w := cellWire{
		Kind: c.kind, Style: c.style, BoolVal: c.boolVal, NumVal: c.numVal,
		ErrKind: c.errKind, SharedIdx: c.sharedIdx, StrVal: c.strVal,
		Formula: c.formula, Origin: c.origin,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(w); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (c *Cell) GobDecode(data []byte) error {
	var w cellWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return err
	}
	*c = Cell{
		kind: w.Kind, style: w.Style, boolVal: w.BoolVal, numVal: w.NumVal,
		errKind: w.ErrKind, sharedIdx: w.SharedIdx, strVal: w.StrVal,
		formula: w.Formula, origin: w.Origin,
	}
	return nil
}

// RawValue returns the cell's current cached value as a Go value: nil for
// Empty, bool, float64, string (resolving shared-string indices against
// sst), or ErrorKind. It never evaluates — Model.Evaluate must have run
// first for formula cells to carry a meaningful result.
func (c Cell) RawValue(sst *SharedStrings) any {
	switch c.kind {
	case kindEmpty, kindFormula:
		return nil
	case kindBoolean, kindFormulaBoolean:
		return c.boolVal
	case kindNumber, kindFormulaNumber:
		return c.numVal
	case kindErrorCode, kindFormulaError:
		return c.errKind
	case kindSharedString:
		return sst.Lookup(c.sharedIdx)
	case kindFormulaString:
		return c.strVal
	}
	return nil
}
