// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

import "strings"

// Metadata is free-form workbook provenance (spec §3).
type Metadata struct {
	Application string
	AppVersion  string
	Author      string
	Created     string // RFC3339; kept as string since the core treats it opaquely
	Modified    string
}

// definedNameKey identifies one defined name: Scope 0 is global, otherwise
// a SheetID.
type definedNameKey struct {
	scope     int
	nameLower string
}

// definedNameEntry is the stored (name, formula) pair; Name preserves the
// user's original casing for display even though lookups are
// case-insensitive (spec §4.8).
type definedNameEntry struct {
	name    string
	formula string

	cached    bool
	cachedIdx uint32
}

// formulaRecord is one entry in the workbook's append-only AST intern
// table (spec §3 "Ownership"). SheetID/text are kept alongside the parsed
// Node so structural edits can reparse after rewriting formula text.
type formulaRecord struct {
	text    string
	node    *Node
	sheetID int
}

// Workbook is the calculation-core data model (spec §3): sheets, the
// shared-strings table, the style catalog, defined names, and the
// append-only AST intern table. Cells reference formulas by index into
// parsedFormulas, never by pointer, so formula edits can't dangle existing
// cells (spec §9 "AST ownership").
type Workbook struct {
	sheets       []*Worksheet
	sheetIndexByLowerName map[string]int
	nextSheetID  int

	sst    *SharedStrings
	styles *StyleCatalog

	definedNames map[definedNameKey]definedNameEntry

	parsedFormulas []formulaRecord

	Metadata  Metadata
	Locale    string
	Timezone  string
	Date1904  bool
}

// NewWorkbook returns a workbook with no sheets.
func NewWorkbook(locale, timezone string) *Workbook {
	return &Workbook{
		sheetIndexByLowerName: make(map[string]int),
		sst:          NewSharedStrings(),
		styles:       NewStyleCatalog(),
		definedNames: make(map[definedNameKey]definedNameEntry),
		Locale:       locale,
		Timezone:     timezone,
	}
}

// SheetCount returns the number of sheets.
func (wb *Workbook) SheetCount() int { return len(wb.sheets) }

// Sheet returns the sheet at position index in display order.
func (wb *Workbook) Sheet(index int) *Worksheet {
	if index < 0 || index >= len(wb.sheets) {
		return nil
	}
	return wb.sheets[index]
}

// SheetByID returns the sheet with the given stable SheetID.
func (wb *Workbook) SheetByID(id int) *Worksheet {
	for _, s := range wb.sheets {
		if s.SheetID == id {
			return s
		}
	}
	return nil
}

// SheetIndexByName resolves a display name (case-insensitive) to its
// current position. Implements ParseContext.
func (wb *Workbook) SheetIndexByName(name string) (int, bool) {
	i, ok := wb.sheetIndexByLowerName[strings.ToLower(name)]
	return i, ok
}

// SheetExists implements SheetResolver.
func (wb *Workbook) SheetExists(name string) bool {
	_, ok := wb.sheetIndexByLowerName[strings.ToLower(name)]
	return ok
}

// SheetName implements SheetNamer: returns the display name at position
// index.
func (wb *Workbook) SheetName(index int) string {
	if index < 0 || index >= len(wb.sheets) {
		return ""
	}
	return wb.sheets[index].Name
}

// NewSheet appends a new, empty sheet named name, returning its stable
// SheetID. name must be unique case-insensitively.
func (wb *Workbook) NewSheet(name string) (int, error) {
	if wb.SheetExists(name) {
		return 0, wrapf(ErrSheetNameExists, "%q", name)
	}
	if name == "" {
		return 0, wrapf(ErrInvalidSheetName, "sheet name must not be empty")
	}
	wb.nextSheetID++
	ws := NewWorksheet(name, wb.nextSheetID)
	wb.sheetIndexByLowerName[strings.ToLower(name)] = len(wb.sheets)
	wb.sheets = append(wb.sheets, ws)
	return ws.SheetID, nil
}

// DeleteSheet removes the sheet named name and reindexes the remaining
// sheets' positions.
func (wb *Workbook) DeleteSheet(name string) error {
	idx, ok := wb.SheetIndexByName(name)
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", name)
	}
	wb.sheets = append(wb.sheets[:idx], wb.sheets[idx+1:]...)
	wb.reindexSheets()
	return nil
}

// RenameSheet renames sheet oldName to newName, rewriting every formula in
// the workbook that sheet-qualifies a reference to it by its old display
// name (spec §4.7's rename_sheet).
func (wb *Workbook) RenameSheet(oldName, newName string) error {
	idx, ok := wb.SheetIndexByName(oldName)
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", oldName)
	}
	if newName != oldName && wb.SheetExists(newName) {
		return wrapf(ErrSheetNameExists, "%q", newName)
	}
	delete(wb.sheetIndexByLowerName, strings.ToLower(oldName))
	wb.sheets[idx].Name = newName
	wb.sheetIndexByLowerName[strings.ToLower(newName)] = idx
	// References carry a resolved SheetIndex, not the name, as their
	// addressing truth (only SheetName is kept for display when the
	// original text was qualified); a rename therefore needs no formula
	// rewrite for resolution, only for any formula text that must
	// re-stringify with the new qualifier on next edit. We still refresh
	// the cached SheetName field on every qualified reference/range node so
	// a subsequent Stringify emits the new name.
	for i := range wb.parsedFormulas {
		renameSheetInAST(wb.parsedFormulas[i].node, idx, newName)
	}
	return nil
}

func renameSheetInAST(n *Node, sheetIndex int, newName string) {
	if n == nil {
		return
	}
	if (n.Kind == NodeReference || n.Kind == NodeRange) && n.SheetIndex == sheetIndex && n.SheetName != "" {
		n.SheetName = newName
	}
	renameSheetInAST(n.Left, sheetIndex, newName)
	renameSheetInAST(n.Right, sheetIndex, newName)
	renameSheetInAST(n.Child, sheetIndex, newName)
	for _, a := range n.Args {
		renameSheetInAST(a, sheetIndex, newName)
	}
	for _, row := range n.ArrayRows {
		for _, a := range row {
			renameSheetInAST(a, sheetIndex, newName)
		}
	}
}

// ReorderSheets moves the sheet currently at position from to position to.
func (wb *Workbook) ReorderSheets(from, to int) error {
	if from < 0 || from >= len(wb.sheets) || to < 0 || to >= len(wb.sheets) {
		return wrapf(ErrSheetNotFound, "index out of range")
	}
	s := wb.sheets[from]
	wb.sheets = append(wb.sheets[:from], wb.sheets[from+1:]...)
	wb.sheets = append(wb.sheets[:to], append([]*Worksheet{s}, wb.sheets[to:]...)...)
	wb.reindexSheets()
	return nil
}

func (wb *Workbook) reindexSheets() {
	wb.sheetIndexByLowerName = make(map[string]int, len(wb.sheets))
	for i, s := range wb.sheets {
		wb.sheetIndexByLowerName[strings.ToLower(s.Name)] = i
	}
}

// SetSheetColor sets a sheet's tab color.
func (wb *Workbook) SetSheetColor(name, color string) error {
	idx, ok := wb.SheetIndexByName(name)
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", name)
	}
	wb.sheets[idx].TabColor = color
	return nil
}

// internFormula parses text on sheetID and appends it to the AST intern
// table, returning its new index. Re-parsing an edited formula always
// mints a new index; the prior entry is left in place (leaked until
// workbook close), matching spec §9's accepted tradeoff.
func (wb *Workbook) internFormula(sheetID int, text string) uint32 {
	sheetIdx, _ := wb.SheetIndexByName(wb.SheetByID(sheetID).Name)
	node := Parse(text, ModeA1, wb, sheetIdx)
	idx := uint32(len(wb.parsedFormulas))
	wb.parsedFormulas = append(wb.parsedFormulas, formulaRecord{text: text, node: node, sheetID: sheetID})
	return idx
}

// FormulaNode returns the parsed AST for formula index f.
func (wb *Workbook) FormulaNode(f uint32) *Node {
	if int(f) >= len(wb.parsedFormulas) {
		return nil
	}
	return wb.parsedFormulas[f].node
}

// FormulaText returns the source text a formula index was parsed from.
func (wb *Workbook) FormulaText(f uint32) string {
	if int(f) >= len(wb.parsedFormulas) {
		return ""
	}
	return wb.parsedFormulas[f].text
}

// replaceFormulaText reparses newText for the same formula slot's sheet
// and overwrites its entry in place; used by the structural-edit engine
// (spec §4.7 step 3: "replace the cell's formula text... reparses lazily").
func (wb *Workbook) replaceFormulaText(f uint32, newText string) {
	if int(f) >= len(wb.parsedFormulas) {
		return
	}
	rec := wb.parsedFormulas[f]
	sheetIdx, _ := wb.SheetIndexByName(wb.SheetByID(rec.sheetID).Name)
	rec.text = newText
	rec.node = Parse(newText, ModeA1, wb, sheetIdx)
	wb.parsedFormulas[f] = rec
}

// SharedStrings returns the workbook's shared-string table.
func (wb *Workbook) SharedStrings() *SharedStrings { return wb.sst }

// Styles returns the workbook's style catalog.
func (wb *Workbook) Styles() *StyleCatalog { return wb.styles }
