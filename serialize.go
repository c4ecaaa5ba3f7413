// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.
//
// ToBytes/FromBytes implement spec §6.3's bitcode round-trip, the snapshot
// format undo/redo and host persistence build on. The teacher has no
// analogous whole-workbook serialization (it always round-trips through
// XLSX XML), so this is grounded instead on rows.go's deepcopy-before-return
// idiom generalized to a full snapshot, using encoding/gob: no example repo
// in the retrieval pack reaches for a non-stdlib binary codec (no msgpack,
// protobuf or bincode-equivalent import anywhere in _examples), so gob is
// the stdlib choice with no corpus-suggested alternative (see DESIGN.md).
package ironcalc

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"strings"
)

// workbookSnapshot is the exported mirror of Workbook's private fields gob
// needs to walk. Formula cells keep their uint32 AST-intern index valid
// across a round-trip because ParsedFormulas is replayed in the same order
// on FromBytes, and sheet cells are restored only after that replay.
type workbookSnapshot struct {
	Locale      string
	Timezone    string
	Date1904    bool
	Metadata    Metadata
	NextSheetID int

	Sheets []sheetSnapshot

	SharedStrings []string
	Styles        []Style

	DefinedNames []definedNameSnapshot

	// ParsedFormulas preserves the append-only AST intern table (spec §9):
	// replaying Parse on FromBytes in this order reproduces the same index
	// for every cell's Formula field.
	ParsedFormulas []formulaSnapshot
}

type sheetSnapshot struct {
	Name          string
	SheetID       int
	State         SheetState
	TabColor      string
	ShowGridLines bool
	FrozenRows    int
	FrozenColumns int

	Cells  []cellEntry
	Rows   map[int]RowStyle
	Cols   []ColRange
	Merges []Area
	Views  map[int]View
}

type cellEntry struct {
	Row, Col int
	Cell     Cell
}

type definedNameSnapshot struct {
	Scope   int
	Name    string
	Formula string
}

type formulaSnapshot struct {
	Text    string
	SheetID int
}

// ToBytes gob-encodes the full workbook state for persistence or transport
// (spec §6.3 `to_bytes`).
func (wb *Workbook) ToBytes() ([]byte, error) {
	snap := workbookSnapshot{
		Locale: wb.Locale, Timezone: wb.Timezone, Date1904: wb.Date1904,
		Metadata: wb.Metadata, NextSheetID: wb.nextSheetID,
		SharedStrings: wb.sst.All(),
		Styles:        wb.styles.All(),
	}
	for _, ws := range wb.sheets {
		s := sheetSnapshot{
			Name: ws.Name, SheetID: ws.SheetID, State: ws.State,
			TabColor: ws.TabColor, ShowGridLines: ws.ShowGridLines,
			FrozenRows: ws.FrozenRows, FrozenColumns: ws.FrozenColumns,
			Rows: ws.rows, Cols: ws.cols, Merges: ws.merges, Views: ws.views,
		}
		for r, row := range ws.cells {
			for c, cell := range row {
				s.Cells = append(s.Cells, cellEntry{Row: r, Col: c, Cell: cell})
			}
		}
		snap.Sheets = append(snap.Sheets, s)
	}
	for k, e := range wb.definedNames {
		snap.DefinedNames = append(snap.DefinedNames, definedNameSnapshot{
			Scope: k.scope, Name: e.name, Formula: e.formula,
		})
	}
	for _, rec := range wb.parsedFormulas {
		snap.ParsedFormulas = append(snap.ParsedFormulas, formulaSnapshot{Text: rec.text, SheetID: rec.sheetID})
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, fmt.Errorf("ironcalc: encoding workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// FromBytes decodes a workbook previously produced by ToBytes (spec §6.3
// `from_bytes`).
func FromBytes(data []byte) (*Workbook, error) {
	var snap workbookSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("ironcalc: decoding workbook: %w", err)
	}

	wb := NewWorkbook(snap.Locale, snap.Timezone)
	wb.Date1904 = snap.Date1904
	wb.Metadata = snap.Metadata
	wb.nextSheetID = snap.NextSheetID

	for _, s := range snap.SharedStrings {
		wb.sst.Intern(s)
	}
	for _, st := range snap.Styles[1:] { // index 0 is already seeded by NewWorkbook
		wb.styles.Mint(st)
	}

	for _, s := range snap.Sheets {
		ws := NewWorksheet(s.Name, s.SheetID)
		ws.State = s.State
		ws.TabColor = s.TabColor
		ws.ShowGridLines = s.ShowGridLines
		ws.FrozenRows = s.FrozenRows
		ws.FrozenColumns = s.FrozenColumns
		if s.Rows != nil {
			ws.rows = s.Rows
		}
		ws.cols = s.Cols
		ws.merges = s.Merges
		if s.Views != nil {
			ws.views = s.Views
		}
		wb.sheetIndexByLowerName[strings.ToLower(s.Name)] = len(wb.sheets)
		wb.sheets = append(wb.sheets, ws)
	}

	for _, fs := range snap.ParsedFormulas {
		sheetIdx := -1
		if ws := wb.SheetByID(fs.SheetID); ws != nil {
			sheetIdx, _ = wb.SheetIndexByName(ws.Name)
		}
		node := Parse(fs.Text, ModeA1, wb, sheetIdx)
		wb.parsedFormulas = append(wb.parsedFormulas, formulaRecord{text: fs.Text, node: node, sheetID: fs.SheetID})
	}

	for _, s := range snap.Sheets {
		ws := wb.SheetByID(s.SheetID)
		for _, ce := range s.Cells {
			ws.SetCell(ce.Row, ce.Col, ce.Cell)
		}
	}

	for _, dn := range snap.DefinedNames {
		wb.definedNames[definedNameKey{scope: dn.Scope, nameLower: strings.ToLower(dn.Name)}] = definedNameEntry{
			name: dn.Name, formula: dn.Formula,
		}
	}

	return wb, nil
}

// ToBytes gob-encodes the model's underlying workbook (spec §6.3).
func (m *Model) ToBytes() ([]byte, error) { return m.wb.ToBytes() }

// FromBytesModel decodes bytes produced by Model.ToBytes into a fresh Model
// with empty undo/redo history.
func FromBytesModel(data []byte) (*Model, error) {
	wb, err := FromBytes(data)
	if err != nil {
		return nil, err
	}
	return FromWorkbook(wb), nil
}
