// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.
//
// Model is the host-facing programmatic surface, grounded on excelize.go's
// File-level API (NewFile, SetCellValue, GetCellValue, SetCellStyle):
// Model wraps a Workbook the same way File wraps an in-memory xlsx
// package, translating host calls into the core's sheet/cell/formula
// primitives and triggering recalculation after any write that could
// change a computed value.
package ironcalc

import (
	"strings"

	"github.com/ironcalc-go/ironcalc/numfmt"
)

// Model is the top-level handle a host program drives: it owns one
// Workbook plus paused/dirty recalculation state.
type Model struct {
	wb *Workbook

	paused bool
	dirty  bool

	undoLog   []Diff
	redoLog   []Diff
	sendQueue []Diff
}

// NewEmpty returns a Model with a single sheet named "Sheet1".
func NewEmpty(locale, timezone string) *Model {
	wb := NewWorkbook(locale, timezone)
	wb.NewSheet("Sheet1")
	return &Model{wb: wb}
}

// FromWorkbook wraps an already-built Workbook (used when loading from
// bytes elsewhere in the host).
func FromWorkbook(wb *Workbook) *Model { return &Model{wb: wb} }

// Workbook returns the underlying data model for callers that need direct
// access (structural edits, defined names).
func (m *Model) Workbook() *Workbook { return m.wb }

// SetUserInput parses text the way a user typing into a cell would: a
// leading "=" makes it a formula, else it's classified as a literal
// number/boolean/text per General-format rules.
func (m *Model) SetUserInput(sheet string, row, col int, text string) error {
	idx, ok := m.wb.SheetIndexByName(sheet)
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", sheet)
	}
	ws := m.wb.sheets[idx]
	old := ws.GetCell(row, col)
	style := old.Style()

	var newCell Cell
	if strings.HasPrefix(text, "=") && len(text) > 1 {
		f := m.wb.internFormula(ws.SheetID, text[1:])
		newCell = newFormulaCell(f, style)
	} else {
		newCell = literalCellFromText(m.wb, text, style)
	}
	ws.SetCell(row, col, newCell)
	m.pushDiff(Diff{Kind: DiffSetCell, Sheet: sheet, Row: row, Col: col, OldCell: old, NewCell: newCell})
	m.markDirty()
	return nil
}

// literalCellFromText classifies typed (non-formula) text the way Excel's
// cell-entry parser does: booleans, then numbers/dates/times, else text.
func literalCellFromText(wb *Workbook, text string, style int) Cell {
	switch strings.ToUpper(text) {
	case "TRUE":
		return NewBooleanCell(true, style)
	case "FALSE":
		return NewBooleanCell(false, style)
	}
	if n, ok := parseNumberText(text); ok {
		return NewNumberCell(n, style)
	}
	if text == "" {
		return newEmptyCell(style)
	}
	idx := wb.sst.Intern(text)
	return newSharedStringCell(idx, style)
}

// GetCellContent returns a cell's display text: for a formula cell, its
// formula text prefixed with "="; for a literal, its current rendered
// value (no number-format applied — see GetFormattedCellValue for that).
func (m *Model) GetCellContent(sheet string, row, col int) (string, error) {
	idx, ok := m.wb.SheetIndexByName(sheet)
	if !ok {
		return "", wrapf(ErrSheetNotFound, "%q", sheet)
	}
	ws := m.wb.sheets[idx]
	c := ws.GetCell(row, col)
	if f, ok := c.FormulaIndex(); ok {
		return "=" + m.wb.FormulaText(f), nil
	}
	switch v := c.RawValue(m.wb.sst).(type) {
	case nil:
		return "", nil
	case bool:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case float64:
		return formatGeneralNumber(v), nil
	case string:
		return v, nil
	case ErrorKind:
		return v.String(), nil
	}
	return "", nil
}

// GetFormattedCellValue renders a cell's current value through its
// resolved number format.
func (m *Model) GetFormattedCellValue(sheet string, row, col int) (string, error) {
	idx, ok := m.wb.SheetIndexByName(sheet)
	if !ok {
		return "", wrapf(ErrSheetNotFound, "%q", sheet)
	}
	ws := m.wb.sheets[idx]
	c := ws.GetCell(row, col)
	format := m.wb.styles.NumberFormat(ws.ResolveStyle(row, col))
	return renderCellWithFormat(m.wb, c, format), nil
}

// renderCellWithFormat applies a resolved number format to a cell's current
// value, matching GetCellContent's type switch but routing numbers through
// numfmt.FormatValue instead of formatGeneralNumber, so date/percentage/
// custom formats render the way spec §4.2 requires.
func renderCellWithFormat(wb *Workbook, c Cell, format string) string {
	switch v := c.RawValue(wb.sst).(type) {
	case nil:
		return ""
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return numfmt.FormatValue(v, format, wb.Date1904)
	case string:
		return v
	case ErrorKind:
		return v.String()
	}
	return ""
}

// GetCellType reports a cell's CellType: CellTypeFormula for any formula
// cell, evaluated or not, otherwise the kind of its literal value.
func (m *Model) GetCellType(sheet string, row, col int) (CellType, error) {
	idx, ok := m.wb.SheetIndexByName(sheet)
	if !ok {
		return CellTypeEmpty, wrapf(ErrSheetNotFound, "%q", sheet)
	}
	c := m.wb.sheets[idx].GetCell(row, col)
	if c.IsFormula() {
		return CellTypeFormula, nil
	}
	return c.Type(), nil
}

// GetCellStyle returns a cell's resolved style index.
func (m *Model) GetCellStyle(sheet string, row, col int) (int, error) {
	idx, ok := m.wb.SheetIndexByName(sheet)
	if !ok {
		return 0, wrapf(ErrSheetNotFound, "%q", sheet)
	}
	ws := m.wb.sheets[idx]
	return ws.ResolveStyle(row, col), nil
}

// InsertRows, DeleteRows, InsertColumns and DeleteColumns delegate to the
// Workbook's structural-edit engine, recording a Diff and marking the model
// dirty. DeleteRows/DeleteColumns snapshot the rows they're about to remove
// before calling into the engine so the recorded Diff can restore them.
func (m *Model) InsertRows(sheet string, at, count int) error {
	if err := m.wb.InsertRows(sheet, at, count); err != nil {
		return err
	}
	m.pushDiff(Diff{Kind: DiffInsertRow, Sheet: sheet, Row: at, Count: count})
	m.markDirty()
	return nil
}

func (m *Model) DeleteRows(sheet string, at, count int) error {
	idx, ok := m.wb.SheetIndexByName(sheet)
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", sheet)
	}
	snapshot := snapshotRows(m.wb.sheets[idx], at, count)
	if err := m.wb.DeleteRows(sheet, at, count); err != nil {
		return err
	}
	m.pushDiff(Diff{Kind: DiffDeleteRow, Sheet: sheet, Row: at, Count: count, OldRows: snapshot})
	m.markDirty()
	return nil
}

func (m *Model) InsertColumns(sheet string, at, count int) error {
	if err := m.wb.InsertColumns(sheet, at, count); err != nil {
		return err
	}
	m.pushDiff(Diff{Kind: DiffInsertColumn, Sheet: sheet, Col: at, Count: count})
	m.markDirty()
	return nil
}

func (m *Model) DeleteColumns(sheet string, at, count int) error {
	idx, ok := m.wb.SheetIndexByName(sheet)
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", sheet)
	}
	minRow, _, maxRow, _ := m.wb.sheets[idx].Dimension()
	snapshot := snapshotRows(m.wb.sheets[idx], minRow, maxRow-minRow+1)
	if err := m.wb.DeleteColumns(sheet, at, count); err != nil {
		return err
	}
	m.pushDiff(Diff{Kind: DiffDeleteColumn, Sheet: sheet, Col: at, Count: count, OldRows: snapshot})
	m.markDirty()
	return nil
}

// MoveRowAction and MoveColumnAction reorder one row or column by delta
// positions via the structural-edit engine's Workbook.MoveRow/MoveColumn,
// which rotate the rows/columns in between to close the gap (spec §4.7
// move_row/move_column). They record no Diff.
func (m *Model) MoveRowAction(sheet string, row, delta int) error {
	if err := m.wb.MoveRow(sheet, row, delta); err != nil {
		return err
	}
	m.markDirty()
	return nil
}

func (m *Model) MoveColumnAction(sheet string, col, delta int) error {
	if err := m.wb.MoveColumn(sheet, col, delta); err != nil {
		return err
	}
	m.markDirty()
	return nil
}

// Autofill extends the pattern in src across dst (spec §4.9); both areas
// must be on the same sheet. The overwritten destination cells are
// snapshotted first so the mutation is undoable.
func (m *Model) Autofill(sheet string, src, dst Area) error {
	idx, ok := m.wb.SheetIndexByName(sheet)
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", sheet)
	}
	snapshot := snapshotArea(m.wb.sheets[idx], dst)
	if err := m.wb.Autofill(sheet, src, dst); err != nil {
		return err
	}
	m.pushDiff(Diff{Kind: DiffAutoFill, Sheet: sheet, Area: dst, OldRows: snapshot})
	m.markDirty()
	return nil
}

// RangeClearContents clears cell values (preserving styles) across a.
func (m *Model) RangeClearContents(sheet string, a Area) error {
	idx, ok := m.wb.SheetIndexByName(sheet)
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", sheet)
	}
	ws := m.wb.sheets[idx]
	snapshot := snapshotArea(ws, a)
	for r := a.Row; r < a.Row+a.Height; r++ {
		for c := a.Column; c < a.Column+a.Width; c++ {
			ws.ClearCellContents(r, c)
		}
	}
	m.pushDiff(Diff{Kind: DiffRangeClearContents, Sheet: sheet, Area: a, OldRows: snapshot})
	m.markDirty()
	return nil
}

// RangeClearAll clears both cell values and styles across a.
func (m *Model) RangeClearAll(sheet string, a Area) error {
	idx, ok := m.wb.SheetIndexByName(sheet)
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", sheet)
	}
	ws := m.wb.sheets[idx]
	snapshot := snapshotArea(ws, a)
	for r := a.Row; r < a.Row+a.Height; r++ {
		for c := a.Column; c < a.Column+a.Width; c++ {
			ws.ClearCellAll(r, c)
		}
	}
	m.pushDiff(Diff{Kind: DiffRangeClearAll, Sheet: sheet, Area: a, OldRows: snapshot})
	m.markDirty()
	return nil
}

// NewSheet, DeleteSheet, RenameSheet and SetSheetColor mirror the
// Workbook methods, adding dirty tracking and a Diff record.
func (m *Model) NewSheet(name string) (int, error) {
	id, err := m.wb.NewSheet(name)
	if err != nil {
		return 0, err
	}
	m.pushDiff(Diff{Kind: DiffNewSheet, Sheet: name})
	m.markDirty()
	return id, nil
}

func (m *Model) DeleteSheet(name string) error {
	if err := m.wb.DeleteSheet(name); err != nil {
		return err
	}
	m.pushDiff(Diff{Kind: DiffDeleteSheet, Sheet: name})
	m.markDirty()
	return nil
}

func (m *Model) RenameSheet(oldName, newName string) error {
	if err := m.wb.RenameSheet(oldName, newName); err != nil {
		return err
	}
	m.pushDiff(Diff{Kind: DiffRenameSheet, Sheet: newName, OldSheet: oldName})
	m.markDirty()
	return nil
}

func (m *Model) SetSheetColor(name, color string) error {
	idx, ok := m.wb.SheetIndexByName(name)
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", name)
	}
	old := m.wb.sheets[idx].TabColor
	if err := m.wb.SetSheetColor(name, color); err != nil {
		return err
	}
	m.pushDiff(Diff{Kind: DiffSetSheetColor, Sheet: name, OldColor: old, NewColor: color})
	return nil
}

// SetFrozen sets a sheet's frozen row/column counts (spec §4.9).
func (m *Model) SetFrozen(name string, rows, cols int) error {
	idx, ok := m.wb.SheetIndexByName(name)
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", name)
	}
	ws := m.wb.sheets[idx]
	old := Diff{Kind: DiffSetFrozen, Sheet: name, OldFrozenRows: ws.FrozenRows, OldFrozenColumns: ws.FrozenColumns, NewFrozenRows: rows, NewFrozenColumns: cols}
	ws.FrozenRows, ws.FrozenColumns = rows, cols
	m.pushDiff(old)
	return nil
}

// SetColumnWidth sets an explicit width for columns [min, max] (spec §4.9).
func (m *Model) SetColumnWidth(sheet string, min, max int, width float64) error {
	idx, ok := m.wb.SheetIndexByName(sheet)
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", sheet)
	}
	ws := m.wb.sheets[idx]
	old := ws.ColumnWidth(min)
	ws.SetColumnWidth(min, max, width)
	m.pushDiff(Diff{Kind: DiffSetColumnWidth, Sheet: sheet, Col: min, Count: max, OldWidth: old, NewWidth: width})
	m.markDirty()
	return nil
}

// SetRowHeight sets an explicit height for one row (spec §4.9).
func (m *Model) SetRowHeight(sheet string, row int, height float64) error {
	idx, ok := m.wb.SheetIndexByName(sheet)
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", sheet)
	}
	ws := m.wb.sheets[idx]
	old := ws.RowHeight(row)
	ws.SetRowHeight(row, height)
	m.pushDiff(Diff{Kind: DiffSetRowHeight, Sheet: sheet, Row: row, OldHeight: old, NewHeight: height})
	m.markDirty()
	return nil
}

// NewDefinedName, UpdateDefinedName and DeleteDefinedName wrap the
// Workbook's defined-name surface.
func (m *Model) NewDefinedName(scope int, name, formula string) error {
	if err := m.wb.SetDefinedName(scope, name, formula); err != nil {
		return err
	}
	m.pushDiff(Diff{Kind: DiffSetDefinedName, DefinedScope: scope, DefinedName: name, NewDefinedFormula: formula})
	m.markDirty()
	return nil
}

// UpdateDefinedName renames, re-scopes and/or redefines a defined name,
// rewriting every dependent formula (spec §4.8, testable property #8).
func (m *Model) UpdateDefinedName(oldScope int, oldName string, newScope int, newName, newFormula string) error {
	oldFormula, _ := m.wb.DefinedNameFormula(oldScope, oldName)
	if err := m.wb.UpdateDefinedName(oldScope, oldName, newScope, newName, newFormula); err != nil {
		return err
	}
	m.pushDiff(Diff{
		Kind: DiffSetDefinedName, DefinedScope: newScope, DefinedName: newName,
		NewDefinedFormula: newFormula, OldDefinedScope: oldScope,
		OldDefinedNameText: oldName, OldDefinedFormula: oldFormula,
	})
	m.markDirty()
	return nil
}

func (m *Model) DeleteDefinedName(scope int, name string) error {
	formula, _ := m.wb.DefinedNameFormula(scope, name)
	if err := m.wb.DeleteDefinedName(scope, name); err != nil {
		return err
	}
	m.pushDiff(Diff{Kind: DiffDeleteDefinedName, DefinedScope: scope, DefinedName: name, OldDefinedFormula: formula})
	m.markDirty()
	return nil
}

func (m *Model) GetDefinedNameList() []DefinedNameInfo {
	return m.wb.GetDefinedNameList()
}

// PauseEvaluation suspends automatic recalculation after writes so a host
// can batch many edits before paying for a recalculation pass.
func (m *Model) PauseEvaluation() { m.paused = true }

// ResumeEvaluation re-enables automatic recalculation and evaluates once
// if edits accumulated while paused.
func (m *Model) ResumeEvaluation() error {
	m.paused = false
	if m.dirty {
		return m.Evaluate()
	}
	return nil
}

func (m *Model) markDirty() {
	m.dirty = true
	if !m.paused {
		_ = m.Evaluate()
	}
}

// Evaluate recomputes every formula cell in the workbook. It takes the
// brute-force path the original implementation's naive mode uses rather
// than building a dependency graph: each formula cell is evaluated via
// EvaluateCell, which itself recurses into any referenced formula cell
// through resolveCellValue, so order doesn't matter and a cell already
// computed this pass is simply recomputed (cheap relative to the
// correctness win of never needing invalidation bookkeeping).
func (m *Model) Evaluate() error {
	for _, ws := range m.wb.sheets {
		for row, cols := range ws.cells {
			for col, c := range cols {
				f, ok := c.FormulaIndex()
				if !ok {
					continue
				}
				ref := CellRef{SheetID: ws.SheetID, Row: row, Column: col}
				result := EvaluateCell(m.wb, ref, f)
				nc := cellFromResult(c, result)
				nc = applyUnitInference(m.wb, nc, f)
				ws.SetCell(row, col, nc)
			}
		}
	}
	m.dirty = false
	return nil
}

// applyUnitInference implements spec §4.2's "unit inference": after a
// formula cell's value is computed, its display format is re-derived from
// the formula's operands (a reference copies its source's format, a sum
// takes the higher-precision side, a product of a currency and a
// percentage reads as currency, and so on — see inferNumFmt) rather than
// keeping whatever format the cell happened to start with. A format the
// user set explicitly (Style.UserSetFmt) always wins over this inference,
// matching §4.5 "a user-set format survives recalculation."
func applyUnitInference(wb *Workbook, c Cell, f uint32) Cell {
	if c.Type() != CellTypeNumber {
		return c
	}
	if wb.Styles().Get(c.Style()).UserSetFmt {
		return c
	}
	fmtStr, ok := inferNumFmt(wb, wb.FormulaNode(f))
	if !ok {
		return c
	}
	return c.WithStyle(wb.Styles().WithNumFmt(c.Style(), fmtStr))
}

// cellFromResult folds a CalcResult back into the formula cell's
// evaluated-variant cache, the way the original implementation's
// "set computed value" step does after walking a formula's AST.
func cellFromResult(c Cell, r CalcResult) Cell {
	switch r.Kind {
	case ResultBoolean:
		return c.evaluatedBoolean(r.Boolean)
	case ResultNumber:
		return c.evaluatedNumber(r.Number)
	case ResultString:
		return c.evaluatedString(r.Str)
	case ResultError:
		return c.evaluatedError(r.ErrKind, r.Origin, r.Message)
	case ResultEmptyCell, ResultEmptyArg:
		return c.evaluatedNumber(0)
	case ResultRange, ResultArray:
		// A formula resolving to a range/array at the top level collapses to
		// its top-left member for storage in a single cell.
		if r.Kind == ResultRange {
			return c.evaluatedString("")
		}
		if len(r.Array) > 0 && len(r.Array[0]) > 0 {
			return cellFromResult(c, r.Array[0][0])
		}
	}
	return c.evaluatedString("")
}
