// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/ironcalc-go/ironcalc/numfmt"
)

func init() {
	RegisterFunction(FnCONCATENATE, fnCONCATENATE)
	RegisterFunction(FnCONCAT, fnCONCATENATE)
	RegisterFunction(FnTEXTJOIN, fnTEXTJOIN)
	RegisterFunction(FnLEFT, fnLEFT)
	RegisterFunction(FnRIGHT, fnRIGHT)
	RegisterFunction(FnMID, fnMID)
	RegisterFunction(FnLEN, fnLEN)
	RegisterFunction(FnFIND, fnFIND)
	RegisterFunction(FnSEARCH, fnSEARCH)
	RegisterFunction(FnREPLACE, fnREPLACE)
	RegisterFunction(FnSUBSTITUTE, fnSUBSTITUTE)
	RegisterFunction(FnUPPER, fnTextTransform(strings.ToUpper))
	RegisterFunction(FnLOWER, fnTextTransform(strings.ToLower))
	RegisterFunction(FnPROPER, fnTextTransform(properCase))
	RegisterFunction(FnTRIM, fnTRIM)
	RegisterFunction(FnCLEAN, fnTextTransform(cleanControlChars))
	RegisterFunction(FnT, fnT)
	RegisterFunction(FnTEXT, fnTEXT)
	RegisterFunction(FnVALUE, fnVALUE)
	RegisterFunction(FnNUMBERVALUE, fnNUMBERVALUE)
	RegisterFunction(FnREPT, fnREPT)
	RegisterFunction(FnEXACT, fnEXACT)
}

func fnCONCATENATE(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	var sb strings.Builder
	for _, a := range args {
		v := ec.eval(a, cell)
		if v.IsError() {
			return v
		}
		for _, m := range ec.flattenValues([]CalcResult{v}, cell) {
			if m.IsError() {
				return m
			}
			sb.WriteString(resultToText(m))
		}
	}
	return stringResult(sb.String())
}

// fnTEXTJOIN implements TEXTJOIN(delimiter, ignore_empty, text1, ...).
func fnTEXTJOIN(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 3 {
		return errorResult(ErrorKindNA, cell, "")
	}
	delim, errRes := ec.scalarText(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	ignoreEmpty, errRes := ec.scalarBool(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	var parts []string
	for _, a := range args[2:] {
		v := ec.eval(a, cell)
		if v.IsError() {
			return v
		}
		for _, m := range ec.flattenValues([]CalcResult{v}, cell) {
			if m.IsError() {
				return m
			}
			t := resultToText(m)
			if ignoreEmpty && t == "" {
				continue
			}
			parts = append(parts, t)
		}
	}
	return stringResult(strings.Join(parts, delim))
}

func fnLEFT(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	return sideText(ec, args, cell, true)
}

func fnRIGHT(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	return sideText(ec, args, cell, false)
}

func sideText(ec *evalCtx, args []*Node, cell CellRef, left bool) CalcResult {
	if len(args) < 1 || len(args) > 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	s, errRes := ec.scalarText(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	n := 1
	if len(args) == 2 {
		fv, errRes := ec.scalarNumber(args[1], cell)
		if errRes != nil {
			return *errRes
		}
		n = int(fv)
	}
	r := []rune(s)
	if n < 0 {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	if n > len(r) {
		n = len(r)
	}
	if left {
		return stringResult(string(r[:n]))
	}
	return stringResult(string(r[len(r)-n:]))
}

func fnMID(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 3 {
		return errorResult(ErrorKindNA, cell, "")
	}
	s, errRes := ec.scalarText(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	start, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	length, errRes := ec.scalarNumber(args[2], cell)
	if errRes != nil {
		return *errRes
	}
	r := []rune(s)
	si := int(start) - 1
	if si < 0 || length < 0 {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	if si >= len(r) {
		return stringResult("")
	}
	end := si + int(length)
	if end > len(r) {
		end = len(r)
	}
	return stringResult(string(r[si:end]))
}

func fnLEN(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	s, errRes := ec.scalarText(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	return numberResult(float64(len([]rune(s))))
}

func fnFIND(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	return findSearch(ec, args, cell, true)
}

func fnSEARCH(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	return findSearch(ec, args, cell, false)
}

func findSearch(ec *evalCtx, args []*Node, cell CellRef, caseSensitive bool) CalcResult {
	if len(args) < 2 || len(args) > 3 {
		return errorResult(ErrorKindNA, cell, "")
	}
	needle, errRes := ec.scalarText(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	hay, errRes := ec.scalarText(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	start := 1
	if len(args) == 3 {
		fv, errRes := ec.scalarNumber(args[2], cell)
		if errRes != nil {
			return *errRes
		}
		start = int(fv)
	}
	hr := []rune(hay)
	if start < 1 || start > len(hr)+1 {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	sub := string(hr[start-1:])
	var idx int
	if caseSensitive {
		idx = strings.Index(sub, needle)
	} else {
		idx = strings.Index(strings.ToUpper(sub), strings.ToUpper(needle))
	}
	if idx < 0 {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	return numberResult(float64(start + len([]rune(sub[:idx])) - 1 + 1))
}

func fnREPLACE(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 4 {
		return errorResult(ErrorKindNA, cell, "")
	}
	s, errRes := ec.scalarText(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	start, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	length, errRes := ec.scalarNumber(args[2], cell)
	if errRes != nil {
		return *errRes
	}
	repl, errRes := ec.scalarText(args[3], cell)
	if errRes != nil {
		return *errRes
	}
	r := []rune(s)
	si := int(start) - 1
	if si < 0 || length < 0 {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	if si > len(r) {
		si = len(r)
	}
	end := si + int(length)
	if end > len(r) {
		end = len(r)
	}
	return stringResult(string(r[:si]) + repl + string(r[end:]))
}

func fnSUBSTITUTE(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 3 || len(args) > 4 {
		return errorResult(ErrorKindNA, cell, "")
	}
	s, errRes := ec.scalarText(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	old, errRes := ec.scalarText(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	newText, errRes := ec.scalarText(args[2], cell)
	if errRes != nil {
		return *errRes
	}
	if len(args) == 3 {
		return stringResult(strings.ReplaceAll(s, old, newText))
	}
	occ, errRes := ec.scalarNumber(args[3], cell)
	if errRes != nil {
		return *errRes
	}
	if old == "" {
		return stringResult(s)
	}
	target := int(occ)
	count := 0
	idx := strings.Index(s, old)
	for idx >= 0 {
		count++
		if count == target {
			return stringResult(s[:idx] + newText + s[idx+len(old):])
		}
		next := strings.Index(s[idx+len(old):], old)
		if next < 0 {
			break
		}
		idx = idx + len(old) + next
	}
	return stringResult(s)
}

func fnTextTransform(f func(string) string) fnHandler {
	return func(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
		if len(args) != 1 {
			return errorResult(ErrorKindNA, cell, "")
		}
		s, errRes := ec.scalarText(args[0], cell)
		if errRes != nil {
			return *errRes
		}
		return stringResult(f(s))
	}
}

func properCase(s string) string {
	var sb strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				sb.WriteRune(unicode.ToLower(r))
			} else {
				sb.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			sb.WriteRune(r)
			prevLetter = false
		}
	}
	return sb.String()
}

func cleanControlChars(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= 32 {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func fnTRIM(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	s, errRes := ec.scalarText(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	fields := strings.Fields(s)
	return stringResult(strings.Join(fields, " "))
}

func fnT(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	v := ec.eval(args[0], cell)
	if v.IsError() {
		return v
	}
	if v.Kind == ResultRange {
		vals := ec.rangeValues(v.Range, cell)
		if len(vals) > 0 {
			v = vals[0]
		}
	}
	if v.Kind == ResultString {
		return v
	}
	return stringResult("")
}

// fnTEXT implements TEXT(value, format_text) via the number-format
// rendering engine (spec §4.2).
func fnTEXT(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	v := ec.eval(args[0], cell)
	if v.IsError() {
		return v
	}
	format, errRes := ec.scalarText(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	switch v.Kind {
	case ResultNumber:
		return stringResult(numfmt.FormatValue(v.Number, format, ec.wb.Date1904))
	case ResultString:
		return stringResult(v.Str)
	case ResultBoolean:
		return stringResult(resultToText(v))
	}
	return stringResult("")
}

func fnVALUE(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	s, errRes := ec.scalarText(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	if n, ok := parseNumberText(s); ok {
		return numberResult(n)
	}
	if serial, ok := parseDateText(s); ok {
		return numberResult(serial)
	}
	return errorResult(ErrorKindVALUE, cell, "")
}

func fnNUMBERVALUE(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 1 || len(args) > 3 {
		return errorResult(ErrorKindNA, cell, "")
	}
	s, errRes := ec.scalarText(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	decimalSep, groupSep := ".", ","
	if len(args) >= 2 {
		t, errRes := ec.scalarText(args[1], cell)
		if errRes != nil {
			return *errRes
		}
		if t != "" {
			decimalSep = t
		}
	}
	if len(args) == 3 {
		t, errRes := ec.scalarText(args[2], cell)
		if errRes != nil {
			return *errRes
		}
		if t != "" {
			groupSep = t
		}
	}
	s = strings.ReplaceAll(s, groupSep, "")
	s = strings.ReplaceAll(s, decimalSep, ".")
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	return numberResult(n)
}

func fnREPT(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	s, errRes := ec.scalarText(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	n, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	if n < 0 {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	return stringResult(strings.Repeat(s, int(n)))
}

func fnEXACT(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	a, errRes := ec.scalarText(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	b, errRes := ec.scalarText(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	return booleanResult(a == b)
}
