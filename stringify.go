// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

import "strings"

// DisplaceKind selects how Stringify rewrites references relative to a
// structural edit (spec §4.4).
type DisplaceKind byte

const (
	DisplaceNone DisplaceKind = iota
	DisplaceRow
	DisplaceColumn
	DisplacePivotRow
	DisplacePivotColumn
	// DisplaceMove is used by cut/paste (spec §4.7 move_formula): shift
	// references whose resolved absolute cell lies inside MoveArea by
	// (RowDelta, ColumnDelta), regardless of their absolute/relative
	// markers, and otherwise leave them untouched (qualifying with
	// SourceSheet if the formula is moving to a different sheet).
	DisplaceMove
)

// Area is a rectangular region of one sheet (spec §4.7).
type Area struct {
	SheetIndex          int
	Row, Column         int
	Width, Height       int
}

// Contains reports whether (row, col) on the same sheet lies inside a.
func (a Area) Contains(sheetIndex, row, col int) bool {
	return sheetIndex == a.SheetIndex &&
		row >= a.Row && row < a.Row+a.Height &&
		col >= a.Column && col < a.Column+a.Width
}

// DisplaceData parameterises Stringify's reference rewriting. SheetIndex
// names the sheet whose rows/columns shifted (spec §9 resolves the
// "sheet_index: 0 placeholder" open question by carrying the sheet here
// rather than on WrongReference/WrongRange nodes, which are never
// displaced regardless).
type DisplaceData struct {
	Kind         DisplaceKind
	SheetIndex   int
	Row, Column  int // the pivot row/column the edit occurred at
	Delta        int // positive for insert, negative for delete/move-up

	// DisplaceMove-only fields.
	MoveArea       Area
	RowDelta       int
	ColumnDelta    int
	SourceSheetIdx int
	TargetSheetIdx int
}

// SheetNamer resolves a SheetIndex to its display name for qualification.
type SheetNamer interface {
	SheetName(index int) string
}

// Stringify renders node back to A1 formula text. cellSheet/cellRow/cellCol
// identify the cell the formula lives in, used to resolve relative-offset
// display (a no-op for A1 text, since A1 references are stored as absolute
// coordinates already, but required for R1C1 round-tripping via
// ToRC). Pass DisplaceData{} (DisplaceNone) for a plain round-trip.
func Stringify(node *Node, cellSheetIdx, cellRow, cellCol int, disp DisplaceData, sheets SheetNamer) string {
	s := &stringifier{disp: disp, sheets: sheets, cellSheetIdx: cellSheetIdx, cellRow: cellRow, cellCol: cellCol}
	return s.node(node)
}

type stringifier struct {
	disp                          DisplaceData
	sheets                        SheetNamer
	cellSheetIdx, cellRow, cellCol int
}

func (s *stringifier) node(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case NodeBooleanLit:
		if n.BoolVal {
			return "TRUE"
		}
		return "FALSE"
	case NodeNumberLit:
		return formatGeneralNumber(n.NumVal)
	case NodeStringLit:
		return `"` + strings.ReplaceAll(n.StrVal, `"`, `""`) + `"`
	case NodeErrorLit:
		return n.ErrVal.String()
	case NodeEmptyArg:
		return ""
	case NodeVariableRef:
		return n.Name
	case NodeDefinedName:
		return n.Name
	case NodeTableName:
		return n.Name + "[" + n.RawText + "]"
	case NodeParseError:
		return n.Formula
	case NodeReference:
		return s.reference(n)
	case NodeRange:
		return s.rangeNode(n)
	case NodeWrongReference, NodeWrongRange:
		// Never displaced (spec §4.4, §4.7): emitted verbatim.
		prefix := ""
		if n.SheetName != "" {
			prefix = quoteSheetName(n.SheetName) + "!"
		}
		return prefix + n.RawText
	case NodeOpSum:
		op := "+"
		if n.BoolVal {
			op = "-"
		}
		return s.node(n.Left) + op + s.node(n.Right)
	case NodeOpProduct:
		op := "*"
		if n.BoolVal {
			op = "/"
		}
		return s.node(n.Left) + op + s.node(n.Right)
	case NodeOpPower:
		return s.node(n.Left) + "^" + s.node(n.Right)
	case NodeOpConcatenate:
		return s.node(n.Left) + "&" + s.node(n.Right)
	case NodeOpRange:
		return s.node(n.Left) + ":" + s.node(n.Right)
	case NodeCompare:
		return s.node(n.Left) + compareOpText(n.Op) + s.node(n.Right)
	case NodeUnaryMinus:
		return "-" + s.node(n.Child)
	case NodeUnaryPercent:
		return s.node(n.Child) + "%"
	case NodeImplicitIntersection:
		return "@" + s.node(n.Child)
	case NodeFunction:
		return s.call(n.Name, n.Args)
	case NodeInvalidFunction:
		return s.call(n.Name, n.Args)
	case NodeArray:
		var rows []string
		for _, r := range n.ArrayRows {
			var cols []string
			for _, c := range r {
				cols = append(cols, s.node(c))
			}
			rows = append(rows, strings.Join(cols, ","))
		}
		return "{" + strings.Join(rows, ";") + "}"
	}
	return ""
}

func (s *stringifier) call(name string, args []*Node) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = s.node(a)
	}
	return name + "(" + strings.Join(parts, ",") + ")"
}

func compareOpText(op CompareOp) string {
	switch op {
	case CompareLT:
		return "<"
	case CompareLE:
		return "<="
	case CompareEQ:
		return "="
	case CompareGE:
		return ">="
	case CompareGT:
		return ">"
	case CompareNE:
		return "<>"
	}
	return "="
}

// reference renders one Reference node, applying displacement and emitting
// #REF! if the shift crosses the grid bound.
func (s *stringifier) reference(n *Node) string {
	row, col, refKind := s.displaceCoord(n.SheetIndex, n.Row, n.Column, n.AbsRow, n.AbsCol)
	prefix := s.qualifier(n)
	if refKind == refOutOfBounds {
		return prefix + "#REF!"
	}
	return prefix + cellRefText(col, row, n.AbsCol, n.AbsRow)
}

func (s *stringifier) rangeNode(n *Node) string {
	prefix := s.qualifierRange(n)
	if s.disp.Kind == DisplaceMove {
		// Range references are displaced only if BOTH endpoints lie inside
		// the cut area (spec §4.7); otherwise left untouched as a whole.
		inLeft := s.disp.MoveArea.Contains(n.SheetIndex, n.Row, n.Column)
		inRight := s.disp.MoveArea.Contains(n.SheetIndex, n.Row2, n.Column2)
		if inLeft && inRight {
			row1 := n.Row + s.disp.RowDelta
			col1 := n.Column + s.disp.ColumnDelta
			row2 := n.Row2 + s.disp.RowDelta
			col2 := n.Column2 + s.disp.ColumnDelta
			return prefix + cellRefText(col1, row1, n.AbsCol, n.AbsRow) + ":" + cellRefText(col2, row2, n.AbsCol2, n.AbsRow2)
		}
		return prefix + cellRefText(n.Column, n.Row, n.AbsCol, n.AbsRow) + ":" + cellRefText(n.Column2, n.Row2, n.AbsCol2, n.AbsRow2)
	}
	row1, col1, k1 := s.displaceCoord(n.SheetIndex, n.Row, n.Column, n.AbsRow, n.AbsCol)
	row2, col2, k2 := s.displaceCoord(n.SheetIndex, n.Row2, n.Column2, n.AbsRow2, n.AbsCol2)
	left := cellRefText(col1, row1, n.AbsCol, n.AbsRow)
	if k1 == refOutOfBounds {
		left = "#REF!"
	}
	right := cellRefText(col2, row2, n.AbsCol2, n.AbsRow2)
	if k2 == refOutOfBounds {
		right = "#REF!"
	}
	return prefix + left + ":" + right
}

type refDisplaceResult byte

const (
	refUnchanged refDisplaceResult = iota
	refShifted
	refOutOfBounds
)

// displaceCoord applies s.disp to one (row, col) coordinate on sheetIdx. For
// a delete (Delta < 0), the deleted span itself is [d.Row, d.Row-d.Delta-1]
// (-d.Delta rows/columns were removed starting at d.Row): a coordinate
// inside that span was deleted out from under the reference, not shifted
// past it, so it becomes #REF! the same as a shift that would land outside
// the grid (spec §4.7, §8 concrete scenario 6).
func (s *stringifier) displaceCoord(sheetIdx, row, col int, absRow, absCol bool) (int, int, refDisplaceResult) {
	d := s.disp
	switch d.Kind {
	case DisplaceNone:
		return row, col, refUnchanged
	case DisplaceRow, DisplacePivotRow:
		if sheetIdx != d.SheetIndex || row < d.Row {
			return row, col, refUnchanged
		}
		if d.Delta < 0 && row < d.Row-d.Delta {
			return row, col, refOutOfBounds
		}
		nr := row + d.Delta
		if nr <= 0 || nr > LastRow {
			return row, col, refOutOfBounds
		}
		return nr, col, refShifted
	case DisplaceColumn, DisplacePivotColumn:
		if sheetIdx != d.SheetIndex || col < d.Column {
			return row, col, refUnchanged
		}
		if d.Delta < 0 && col < d.Column-d.Delta {
			return row, col, refOutOfBounds
		}
		nc := col + d.Delta
		if nc <= 0 || nc > LastColumn {
			return row, col, refOutOfBounds
		}
		return row, nc, refShifted
	case DisplaceMove:
		if d.MoveArea.Contains(sheetIdx, row, col) {
			return row + d.RowDelta, col + d.ColumnDelta, refShifted
		}
		return row, col, refUnchanged
	}
	return row, col, refUnchanged
}

func (s *stringifier) qualifier(n *Node) string {
	if s.disp.Kind == DisplaceMove && n.SheetIndex == s.disp.SourceSheetIdx &&
		s.disp.SourceSheetIdx != s.disp.TargetSheetIdx && n.SheetName == "" {
		if s.sheets != nil {
			return quoteSheetName(s.sheets.SheetName(n.SheetIndex)) + "!"
		}
	}
	if n.SheetName != "" {
		return quoteSheetName(n.SheetName) + "!"
	}
	return ""
}

func (s *stringifier) qualifierRange(n *Node) string {
	return s.qualifier(&Node{SheetName: n.SheetName, SheetIndex: n.SheetIndex})
}

// ToRC renders node as R1C1 text (no cell context beyond the formula's own
// origin needed — offsets are always relative to it).
func ToRC(node *Node, cellRow, cellCol int) string {
	r := &rcStringifier{cellRow: cellRow, cellCol: cellCol}
	return r.node(node)
}

type rcStringifier struct {
	cellRow, cellCol int
}

func (r *rcStringifier) node(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case NodeReference:
		prefix := ""
		if n.SheetName != "" {
			prefix = quoteSheetName(n.SheetName) + "!"
		}
		return prefix + rcPart("R", n.Row, n.AbsRow, r.cellRow) + rcPart("C", n.Column, n.AbsCol, r.cellCol)
	case NodeRange:
		prefix := ""
		if n.SheetName != "" {
			prefix = quoteSheetName(n.SheetName) + "!"
		}
		left := rcPart("R", n.Row, n.AbsRow, r.cellRow) + rcPart("C", n.Column, n.AbsCol, r.cellCol)
		right := rcPart("R", n.Row2, n.AbsRow2, r.cellRow) + rcPart("C", n.Column2, n.AbsCol2, r.cellCol)
		return prefix + left + ":" + right
	case NodeOpSum:
		op := "+"
		if n.BoolVal {
			op = "-"
		}
		return r.node(n.Left) + op + r.node(n.Right)
	case NodeOpProduct:
		op := "*"
		if n.BoolVal {
			op = "/"
		}
		return r.node(n.Left) + op + r.node(n.Right)
	case NodeOpPower:
		return r.node(n.Left) + "^" + r.node(n.Right)
	case NodeOpConcatenate:
		return r.node(n.Left) + "&" + r.node(n.Right)
	case NodeOpRange:
		return r.node(n.Left) + ":" + r.node(n.Right)
	case NodeCompare:
		return r.node(n.Left) + compareOpText(n.Op) + r.node(n.Right)
	case NodeUnaryMinus:
		return "-" + r.node(n.Child)
	case NodeUnaryPercent:
		return r.node(n.Child) + "%"
	case NodeFunction, NodeInvalidFunction:
		parts := make([]string, len(n.Args))
		for i, a := range n.Args {
			parts[i] = r.node(a)
		}
		return n.Name + "(" + strings.Join(parts, ",") + ")"
	case NodeNumberLit:
		return formatGeneralNumber(n.NumVal)
	case NodeStringLit:
		return `"` + strings.ReplaceAll(n.StrVal, `"`, `""`) + `"`
	case NodeBooleanLit:
		if n.BoolVal {
			return "TRUE"
		}
		return "FALSE"
	case NodeVariableRef, NodeDefinedName:
		return n.Name
	}
	return ""
}

// rcPart renders one rowpart/colpart: absolute "R4"/"C2", relative offset
// "R[2]"/"C[-1]", or the bare "R"/"C" form for a zero relative offset.
func rcPart(letter string, value int, absolute bool, origin int) string {
	if absolute {
		return letter + itoa(value)
	}
	offset := value - origin
	if offset == 0 {
		return letter
	}
	return letter + "[" + itoa(offset) + "]"
}
