// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

import (
	"fmt"
	"strconv"
	"strings"
)

// Grid bounds, matching Excel's worksheet limits.
const (
	LastColumn = 16384   // XFD
	LastRow    = 1048576
)

// ColumnLettersToNumber converts a column letter code ("A", "XFD", …) to its
// 1-based column number. It fails on an empty string or on a result beyond
// LastColumn.
func ColumnLettersToNumber(letters string) (int, error) {
	if letters == "" {
		return 0, wrapf(ErrInvalidColumn, "empty column letters")
	}
	col := 0
	for i := 0; i < len(letters); i++ {
		c := letters[i]
		switch {
		case c >= 'A' && c <= 'Z':
			col = col*26 + int(c-'A') + 1
		case c >= 'a' && c <= 'z':
			col = col*26 + int(c-'a') + 1
		default:
			return 0, wrapf(ErrInvalidColumn, "%q is not a column letter code", letters)
		}
		if col > LastColumn {
			return 0, wrapf(ErrInvalidColumn, "%q exceeds the last column", letters)
		}
	}
	return col, nil
}

// NumberToColumnLetters converts a 1-based column number to its letter code.
// It fails for n <= 0 or n > LastColumn.
func NumberToColumnLetters(n int) (string, error) {
	if n <= 0 || n > LastColumn {
		return "", wrapf(ErrInvalidColumn, "column number %d out of range", n)
	}
	var buf [8]byte
	pos := len(buf)
	for n > 0 {
		n--
		pos--
		buf[pos] = byte('A' + n%26)
		n /= 26
	}
	return string(buf[pos:]), nil
}

// ParsedRef is the result of parsing a single cell reference out of formula
// or host-facing text (e.g. "Sheet1!$C$4").
type ParsedRef struct {
	SheetName     string // empty when unqualified
	Row           int
	Column        int
	AbsoluteRow   bool
	AbsoluteCol   bool
}

// ParsedRange is the two-corner analogue of ParsedRef.
type ParsedRange struct {
	SheetName string
	Left      ParsedRef
	Right     ParsedRef
}

// SheetResolver looks a sheet up by its display name (case-insensitive) and
// reports whether it exists. Implemented by *Workbook.
type SheetResolver interface {
	SheetExists(name string) bool
}

// ParseCellReferenceText parses a single A1-style, optionally
// sheet-qualified, reference such as "Sheet1!$C$4" or "C4". ctxSheet names
// the sheet the formula lives in, used when the text carries no qualifier.
func ParseCellReferenceText(ctxSheet, text string, resolver SheetResolver) (ParsedRef, error) {
	sheetName, rest, err := splitSheetQualifier(text, resolver)
	if err != nil {
		return ParsedRef{}, err
	}
	if sheetName == "" {
		sheetName = ctxSheet
	}
	ref, err := parseA1Cell(rest)
	if err != nil {
		return ParsedRef{}, err
	}
	ref.SheetName = sheetName
	return ref, nil
}

// splitSheetQualifier splits "Sheet!ref" or "'Quoted ''Sheet'''!ref" into
// (sheetName, ref). Returns ("", text, nil) when text carries no qualifier.
func splitSheetQualifier(text string, resolver SheetResolver) (string, string, error) {
	if strings.HasPrefix(text, "'") {
		// Quoted sheet name: find the closing quote, accounting for '' escapes.
		i := 1
		var sb strings.Builder
		for i < len(text) {
			if text[i] == '\'' {
				if i+1 < len(text) && text[i+1] == '\'' {
					sb.WriteByte('\'')
					i += 2
					continue
				}
				i++
				break
			}
			sb.WriteByte(text[i])
			i++
		}
		if i >= len(text) || text[i] != '!' {
			return "", "", fmt.Errorf("ironcalc: malformed quoted sheet reference %q", text)
		}
		return sb.String(), text[i+1:], nil
	}
	if idx := strings.IndexByte(text, '!'); idx >= 0 {
		return text[:idx], text[idx+1:], nil
	}
	return "", text, nil
}

// parseA1Cell parses "[$]COL[$]ROW" into a ParsedRef (SheetName unset).
func parseA1Cell(text string) (ParsedRef, error) {
	var ref ParsedRef
	i := 0
	if i < len(text) && text[i] == '$' {
		ref.AbsoluteCol = true
		i++
	}
	start := i
	for i < len(text) && isColumnLetter(text[i]) {
		i++
	}
	if i == start {
		return ParsedRef{}, fmt.Errorf("ironcalc: %q is not a cell reference", text)
	}
	col, err := ColumnLettersToNumber(strings.ToUpper(text[start:i]))
	if err != nil {
		return ParsedRef{}, err
	}
	ref.Column = col
	if i < len(text) && text[i] == '$' {
		ref.AbsoluteRow = true
		i++
	}
	start = i
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == start || i != len(text) {
		return ParsedRef{}, fmt.Errorf("ironcalc: %q is not a cell reference", text)
	}
	row, err := strconv.Atoi(text[start:i])
	if err != nil || row <= 0 || row > LastRow {
		return ParsedRef{}, fmt.Errorf("ironcalc: row in %q out of range", text)
	}
	ref.Row = row
	return ref, nil
}

func isColumnLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// quoteSheetName renders a sheet name for use in a formula, single-quoting
// it (doubling embedded quotes) when it is not a bare identifier.
func quoteSheetName(name string) string {
	if isBareSheetIdent(name) {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func isBareSheetIdent(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !(c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}
