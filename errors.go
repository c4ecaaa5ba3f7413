// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.
//
// Package ironcalc implements a spreadsheet calculation engine: it parses
// formulas into an expression tree, evaluates them into typed cell values,
// formats the results, and keeps references consistent as rows, columns,
// sheets and defined names change. This package needs Go version 1.21 or
// later.
package ironcalc

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of formula evaluation errors a cell can hold.
// It is serialized by a 1-byte discriminant so new kinds can be appended
// without breaking forward compatibility.
type ErrorKind byte

// The full set of evaluation error kinds.
const (
	ErrorKindREF ErrorKind = iota + 1
	ErrorKindNAME
	ErrorKindVALUE
	ErrorKindDIV
	ErrorKindNA
	ErrorKindNUM
	ErrorKindERROR
	ErrorKindNIMPL
	ErrorKindSPILL
	ErrorKindCALC
	ErrorKindCIRC
	ErrorKindNULL
)

// errorStrings maps each ErrorKind to its canonical English spelling. Hosts
// that want localized error text should look up a locale-specific table
// keyed by the same ErrorKind rather than mutating this one.
var errorStrings = map[ErrorKind]string{
	ErrorKindREF:   "#REF!",
	ErrorKindNAME:  "#NAME?",
	ErrorKindVALUE: "#VALUE!",
	ErrorKindDIV:   "#DIV/0!",
	ErrorKindNA:    "#N/A",
	ErrorKindNUM:   "#NUM!",
	ErrorKindERROR: "#ERROR!",
	ErrorKindNIMPL: "#N/IMPL!",
	ErrorKindSPILL: "#SPILL!",
	ErrorKindCALC:  "#CALC!",
	ErrorKindCIRC:  "#CIRC!",
	ErrorKindNULL:  "#NULL!",
}

// errorKindsByText is the reverse of errorStrings, used when lexing an error
// literal out of formula text.
var errorKindsByText = func() map[string]ErrorKind {
	m := make(map[string]ErrorKind, len(errorStrings))
	for k, v := range errorStrings {
		m[v] = k
	}
	return m
}()

// String returns the canonical Excel-compatible spelling of the error, e.g.
// "#DIV/0!".
func (e ErrorKind) String() string {
	if s, ok := errorStrings[e]; ok {
		return s
	}
	return "#ERROR!"
}

// parseErrorLiteral resolves a formula-text error token (e.g. "#N/A") to its
// ErrorKind. ok is false when text isn't a recognised error literal.
func parseErrorLiteral(text string) (ErrorKind, bool) {
	k, ok := errorKindsByText[text]
	return k, ok
}

// Sentinel errors returned by structural, programmatic-surface operations.
// These are distinct from in-sheet formula ErrorKind values: they signal
// that an API call itself could not be carried out (bad arguments, sheet
// not found, grid bounds exceeded), not that a formula evaluated to an
// error. A structural edit that returns one of these performs no partial
// mutation (spec §7).
var (
	ErrInvalidColumn      = errors.New("ironcalc: invalid column")
	ErrInvalidRow         = errors.New("ironcalc: invalid row")
	ErrSheetNotFound      = errors.New("ironcalc: sheet not found")
	ErrSheetNameExists    = errors.New("ironcalc: a sheet with that name already exists")
	ErrInvalidSheetName   = errors.New("ironcalc: invalid sheet name")
	ErrInvalidDefinedName = errors.New("ironcalc: invalid defined name")
	ErrDefinedNameExists  = errors.New("ironcalc: a defined name with that scope already exists")
	ErrDefinedNameNotSet  = errors.New("ironcalc: defined name not found")
	ErrGridBoundsExceeded = errors.New("ironcalc: edit would exceed the sheet grid bounds")
	ErrCellNotFound       = errors.New("ironcalc: cell not found")
)

// wrapf attaches additional context to a sentinel error without losing
// errors.Is compatibility.
func wrapf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
}
