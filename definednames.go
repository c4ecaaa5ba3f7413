// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

import (
	"sort"
	"strings"
	"unicode"

	"github.com/xuri/efp"
)

// reservedDefinedNames mirrors the handful of identifiers Excel reserves
// for its own use and refuses as a defined name (spec §4.8).
var reservedDefinedNames = map[string]bool{
	"TRUE": true, "FALSE": true, "R": true, "C": true,
}

// ValidateDefinedName reports whether name is an acceptable defined-name
// identifier: must start with a letter, underscore or backslash; may
// contain letters, digits, underscore, period or backslash after that;
// must not collide with a cell reference shape (A1 or R1C1) or a reserved
// word.
func ValidateDefinedName(name string) bool {
	if name == "" || reservedDefinedNames[strings.ToUpper(name)] {
		return false
	}
	r := []rune(name)
	first := r[0]
	if !(unicode.IsLetter(first) || first == '_' || first == '\\') {
		return false
	}
	for _, c := range r[1:] {
		if !(unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '.' || c == '\\') {
			return false
		}
	}
	if looksLikeCellReference(name) {
		return false
	}
	if u := strings.ToUpper(name); strings.HasPrefix(u, "R") {
		rest := strings.TrimLeft(u[1:], "0123456789")
		if strings.HasPrefix(rest, "C") && strings.TrimLeft(rest[1:], "0123456789") == "" {
			return false // R1C1-style shape: R[digits]C[digits]
		}
	}
	return true
}

// looksLikeCellReference reports whether name has the shape of an A1 cell
// reference (letters followed by digits) so it can't shadow normal
// reference parsing.
func looksLikeCellReference(name string) bool {
	_, err := ColumnLettersToNumber(strings.TrimRight(strings.ToUpper(name), "0123456789"))
	if err != nil {
		return false
	}
	digits := strings.TrimLeft(strings.ToUpper(name), "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	if digits == "" {
		return false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// SetDefinedName creates or overwrites a defined name. scope is 0 for a
// workbook-global name, or a SheetID for a sheet-scoped one.
func (wb *Workbook) SetDefinedName(scope int, name, formula string) error {
	if !ValidateDefinedName(name) {
		return wrapf(ErrInvalidDefinedName, "%q", name)
	}
	if scope != 0 && wb.SheetByID(scope) == nil {
		return wrapf(ErrSheetNotFound, "sheet id %d", scope)
	}
	key := definedNameKey{scope: scope, nameLower: strings.ToLower(name)}
	wb.definedNames[key] = definedNameEntry{name: name, formula: formula}
	return nil
}

// DeleteDefinedName removes a defined name, global or sheet-scoped.
func (wb *Workbook) DeleteDefinedName(scope int, name string) error {
	key := definedNameKey{scope: scope, nameLower: strings.ToLower(name)}
	if _, ok := wb.definedNames[key]; !ok {
		return wrapf(ErrDefinedNameNotSet, "%q", name)
	}
	delete(wb.definedNames, key)
	return nil
}

// DefinedNameFormula returns the raw formula text behind a defined name.
func (wb *Workbook) DefinedNameFormula(scope int, name string) (string, bool) {
	e, ok := wb.definedNames[definedNameKey{scope: scope, nameLower: strings.ToLower(name)}]
	return e.formula, ok
}

// DefinedNameInfo is one entry returned by GetDefinedNameList.
type DefinedNameInfo struct {
	Name    string
	Scope   int // 0 = global
	Formula string
}

// GetDefinedNameList returns every defined name in the workbook, global
// names first, sheet-scoped names after.
func (wb *Workbook) GetDefinedNameList() []DefinedNameInfo {
	var out []DefinedNameInfo
	for k, e := range wb.definedNames {
		out = append(out, DefinedNameInfo{Name: e.name, Scope: k.scope, Formula: e.formula})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Scope != out[j].Scope {
			return out[i].Scope < out[j].Scope
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// formulaMentionsIdent is a fast pre-filter used before the full AST walk in
// UpdateDefinedName: it tokenizes text with efp.ExcelParser() (the same
// tokenizer adjustFormulaRef in
// _examples/other_examples/15f5d38f_..._adjust.go.go scans for defined-name
// operands) and reports whether any operand token case-insensitively equals
// ident. A formula that doesn't even mention the name textually can skip the
// AST walk and restringify entirely, which matters once a workbook carries
// thousands of interned formulas.
func formulaMentionsIdent(text, ident string) bool {
	ps := efp.ExcelParser()
	for _, tok := range ps.Parse(text) {
		if tok.TType == efp.TokenTypeOperand && strings.EqualFold(tok.TValue, ident) {
			return true
		}
	}
	return false
}

// UpdateDefinedName atomically renames and/or re-scopes a defined name and
// rewrites every formula in the workbook that references it (spec §4.8): a
// formula's NodeDefinedName node matching the old (scope, name) is repointed
// at the new name/scope and the formula's interned text is re-stringified so
// FormulaText/round-trip stay consistent. No partial mutation: validation
// happens before any formula is touched (spec §7).
func (wb *Workbook) UpdateDefinedName(oldScope int, oldName string, newScope int, newName, newFormula string) error {
	oldKey := definedNameKey{scope: oldScope, nameLower: strings.ToLower(oldName)}
	entry, ok := wb.definedNames[oldKey]
	if !ok {
		return wrapf(ErrDefinedNameNotSet, "%q", oldName)
	}
	if !ValidateDefinedName(newName) {
		return wrapf(ErrInvalidDefinedName, "%q", newName)
	}
	newKey := definedNameKey{scope: newScope, nameLower: strings.ToLower(newName)}
	if newKey != oldKey {
		if _, exists := wb.definedNames[newKey]; exists {
			return wrapf(ErrDefinedNameExists, "%q", newName)
		}
		if newScope != 0 && wb.SheetByID(newScope) == nil {
			return wrapf(ErrSheetNotFound, "sheet id %d", newScope)
		}
	}

	delete(wb.definedNames, oldKey)
	wb.definedNames[newKey] = definedNameEntry{name: newName, formula: newFormula}

	renamed := oldKey != newKey
	for i := range wb.parsedFormulas {
		rec := &wb.parsedFormulas[i]
		if renamed && !formulaMentionsIdent(rec.text, oldName) {
			continue
		}
		if !renameDefinedNameInAST(rec.node, oldScope, entry.name, newScope, newName) {
			continue
		}
		sheetIdx, _ := wb.SheetIndexByName(wb.SheetByID(rec.sheetID).Name)
		rec.text = Stringify(rec.node, sheetIdx, 0, 0, DisplaceData{}, wb)
	}
	return nil
}

// renameDefinedNameInAST walks n looking for NodeDefinedName leaves whose
// (DefScope, Name) case-insensitively matches (oldScope, oldName), repointing
// them at (newScope, newName). Returns true if any node was rewritten.
func renameDefinedNameInAST(n *Node, oldScope int, oldName string, newScope int, newName string) bool {
	if n == nil {
		return false
	}
	changed := false
	if n.Kind == NodeDefinedName && n.DefScope == oldScope && strings.EqualFold(n.Name, oldName) {
		n.Name = newName
		n.DefScope = newScope
		changed = true
	}
	changed = renameDefinedNameInAST(n.Left, oldScope, oldName, newScope, newName) || changed
	changed = renameDefinedNameInAST(n.Right, oldScope, oldName, newScope, newName) || changed
	changed = renameDefinedNameInAST(n.Child, oldScope, oldName, newScope, newName) || changed
	for _, a := range n.Args {
		changed = renameDefinedNameInAST(a, oldScope, oldName, newScope, newName) || changed
	}
	for _, row := range n.ArrayRows {
		for _, a := range row {
			changed = renameDefinedNameInAST(a, oldScope, oldName, newScope, newName) || changed
		}
	}
	return changed
}

// ResolveDefinedName implements ParseContext: looks up name first in the
// scope of the sheet at position sheetIdx, then globally. The scope it
// returns is a SheetID (0 for global).
func (wb *Workbook) ResolveDefinedName(name string, sheetIdx int) (int, bool) {
	lower := strings.ToLower(name)
	if ws := wb.Sheet(sheetIdx); ws != nil {
		if _, ok := wb.definedNames[definedNameKey{scope: ws.SheetID, nameLower: lower}]; ok {
			return ws.SheetID, true
		}
	}
	if _, ok := wb.definedNames[definedNameKey{scope: 0, nameLower: lower}]; ok {
		return 0, true
	}
	return 0, false
}

// definedNameFormulaIndex lazily parses and interns a defined name's
// formula text, caching the resulting AST index in place so repeated
// evaluation doesn't re-parse it. Sheet-scoped names parse in their own
// sheet's context; global names parse with no current-sheet context
// (unqualified references in a global defined name are an authoring
// error the original Excel also rejects at definition time, so SheetIndex
// -1 surfacing as #REF! here is acceptable).
func (wb *Workbook) definedNameFormulaIndex(scope int, name string) (uint32, bool) {
	key := definedNameKey{scope: scope, nameLower: strings.ToLower(name)}
	e, ok := wb.definedNames[key]
	if !ok {
		return 0, false
	}
	if e.cachedIdx != 0 || e.cached {
		return e.cachedIdx, true
	}
	sheetIdx := -1
	if scope != 0 {
		if ws := wb.SheetByID(scope); ws != nil {
			sheetIdx, _ = wb.SheetIndexByName(ws.Name)
		}
	}
	node := Parse(e.formula, ModeA1, wb, sheetIdx)
	idx := uint32(len(wb.parsedFormulas))
	wb.parsedFormulas = append(wb.parsedFormulas, formulaRecord{text: e.formula, node: node, sheetID: scope})
	e.cachedIdx = idx
	e.cached = true
	wb.definedNames[key] = e
	return idx, true
}
