// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

import (
	"strconv"
	"strings"
)

func init() {
	RegisterFunction(FnBIN2DEC, fnBaseConvert(2, 10))
	RegisterFunction(FnBIN2HEX, fnBaseConvert(2, 16))
	RegisterFunction(FnBIN2OCT, fnBaseConvert(2, 8))
	RegisterFunction(FnDEC2BIN, fnBaseConvert(10, 2))
	RegisterFunction(FnDEC2HEX, fnBaseConvert(10, 16))
	RegisterFunction(FnDEC2OCT, fnBaseConvert(10, 8))
	RegisterFunction(FnHEX2DEC, fnBaseConvert(16, 10))
	RegisterFunction(FnHEX2BIN, fnBaseConvert(16, 2))
	RegisterFunction(FnHEX2OCT, fnBaseConvert(16, 8))
	RegisterFunction(FnOCT2DEC, fnBaseConvert(8, 10))
	RegisterFunction(FnOCT2BIN, fnBaseConvert(8, 2))
	RegisterFunction(FnOCT2HEX, fnBaseConvert(8, 16))
	RegisterFunction(FnBITAND, fnBitOp(func(a, b int64) int64 { return a & b }))
	RegisterFunction(FnBITOR, fnBitOp(func(a, b int64) int64 { return a | b }))
	RegisterFunction(FnBITXOR, fnBitOp(func(a, b int64) int64 { return a ^ b }))
	RegisterFunction(FnBITLSHIFT, fnBitShift(true))
	RegisterFunction(FnBITRSHIFT, fnBitShift(false))
	RegisterFunction(FnCONVERT, fnCONVERT)
}

// convertUnit describes one CONVERT base unit: its measure (units of the
// same measure convert via a ratio to a common base; cross-measure
// conversions are #N/A, matching Excel), and its factor relative to that
// base.
type convertUnit struct {
	measure string
	factor  float64
}

// convertUnits is Excel's CONVERT table, trimmed to one representative
// family per measure rather than the full ~150-entry table (spec §D.8
// depth-over-breadth): mass and distance, the plain multiplicative-factor
// measures. Temperature's affine (non-zero-origin) units are not in this
// table; convertTemperature handles them.
var convertUnits = map[string]convertUnit{
	"g":   {"mass", 1},
	"kg":  {"mass", 1000},
	"mg":  {"mass", 0.001},
	"lbm": {"mass", 453.59237},
	"ozm": {"mass", 28.349523125},
	"m":   {"distance", 1},
	"km":  {"distance", 1000},
	"cm":  {"distance", 0.01},
	"mm":  {"distance", 0.001},
	"mi":  {"distance", 1609.344},
	"yd":  {"distance", 0.9144},
	"ft":  {"distance", 0.3048},
	"in":  {"distance", 0.0254},
}

// convertSIPrefixes are the SI multiplier prefixes CONVERT accepts glued to
// a base unit abbreviation (e.g. "kg", "cm"): spec §D.8 names these
// alongside CONVERT itself.
var convertSIPrefixes = []struct {
	prefix string
	factor float64
}{
	{"Y", 1e24}, {"Z", 1e21}, {"E", 1e18}, {"P", 1e15}, {"T", 1e12},
	{"G", 1e9}, {"M", 1e6}, {"k", 1e3}, {"h", 1e2}, {"da", 1e1},
	{"d", 1e-1}, {"c", 1e-2}, {"m", 1e-3}, {"u", 1e-6}, {"n", 1e-9},
	{"p", 1e-12}, {"f", 1e-15}, {"a", 1e-18}, {"z", 1e-21}, {"y", 1e-24},
}

// resolveConvertUnit splits a possibly SI-prefixed unit string (e.g. "kg")
// into its base unit and multiplicative factor relative to that measure's
// base unit.
func resolveConvertUnit(name string) (convertUnit, float64, bool) {
	if u, ok := convertUnits[name]; ok {
		return u, 1, true
	}
	for _, p := range convertSIPrefixes {
		if strings.HasPrefix(name, p.prefix) {
			if u, ok := convertUnits[strings.TrimPrefix(name, p.prefix)]; ok {
				return u, p.factor, true
			}
		}
	}
	return convertUnit{}, 0, false
}

// convertTemperature handles CONVERT's three temperature units directly:
// they convert by an affine map, not a multiplicative factor, so they are
// kept out of the convertUnits ratio table entirely.
func convertTemperature(v float64, from, to string) (float64, bool) {
	toCelsius := map[string]func(float64) float64{
		"C": func(v float64) float64 { return v },
		"F": func(v float64) float64 { return (v - 32) / 1.8 },
		"K": func(v float64) float64 { return v - 273.15 },
	}
	fromCelsius := map[string]func(float64) float64{
		"C": func(v float64) float64 { return v },
		"F": func(v float64) float64 { return v*1.8 + 32 },
		"K": func(v float64) float64 { return v + 273.15 },
	}
	toFn, ok1 := toCelsius[from]
	fromFn, ok2 := fromCelsius[to]
	if !ok1 || !ok2 {
		return 0, false
	}
	return fromFn(toFn(v)), true
}

// fnCONVERT implements CONVERT(number, from_unit, to_unit): units of the
// same measure convert via each unit's factor relative to a shared base;
// cross-measure conversions (e.g. mass to distance) are #N/A, matching
// Excel. Temperature units (C/F/K) convert via their own affine map since
// they don't share a multiplicative base with each other.
func fnCONVERT(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 3 {
		return errorResult(ErrorKindNA, cell, "")
	}
	v, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	from, errRes := ec.scalarText(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	to, errRes := ec.scalarText(args[2], cell)
	if errRes != nil {
		return *errRes
	}
	if out, ok := convertTemperature(v, from, to); ok {
		return numberResult(out)
	}
	fromUnit, fromFactor, ok := resolveConvertUnit(from)
	if !ok {
		return errorResult(ErrorKindNA, cell, "")
	}
	toUnit, toFactor, ok := resolveConvertUnit(to)
	if !ok {
		return errorResult(ErrorKindNA, cell, "")
	}
	if fromUnit.measure != toUnit.measure {
		return errorResult(ErrorKindNA, cell, "")
	}
	base := v * fromFactor * fromUnit.factor
	return numberResult(base / (toFactor * toUnit.factor))
}

// fnBaseConvert builds a handler for the BIN2*/DEC2*/HEX2*/OCT2* family:
// parse a signed value in fromBase (a leading '-' marks a negative number)
// and re-render it in toBase, with an optional zero-padding width argument
// for non-decimal, non-negative results (matching Excel's DEC2BIN/HEX/OCT
// padding behavior). A negative result is written as '-' followed by its
// magnitude; Excel's 10-digit two's-complement form is neither parsed nor
// produced.
func fnBaseConvert(fromBase, toBase int) fnHandler {
	return func(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
		if len(args) < 1 || len(args) > 2 {
			return errorResult(ErrorKindNA, cell, "")
		}
		text, errRes := ec.scalarText(args[0], cell)
		if errRes != nil {
			return *errRes
		}
		places := -1
		if len(args) == 2 {
			p, errRes := ec.scalarNumber(args[1], cell)
			if errRes != nil {
				return *errRes
			}
			places = int(p)
		}
		v, err := strconv.ParseInt(strings.TrimSpace(text), fromBase, 64)
		if err != nil {
			return errorResult(ErrorKindNUM, cell, "")
		}
		if toBase == 10 {
			return numberResult(float64(v))
		}
		neg := v < 0
		out := strconv.FormatInt(v, toBase)
		if neg {
			out = out[1:] // drop FormatInt's sign; it is re-added below
			out = "-" + out
		}
		out = strings.ToUpper(out)
		if places > 0 && len(out) < places && !neg {
			out = strings.Repeat("0", places-len(out)) + out
		}
		return stringResult(out)
	}
}

func fnBitOp(op func(a, b int64) int64) fnHandler {
	return func(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
		if len(args) != 2 {
			return errorResult(ErrorKindNA, cell, "")
		}
		a, errRes := ec.scalarNumber(args[0], cell)
		if errRes != nil {
			return *errRes
		}
		b, errRes := ec.scalarNumber(args[1], cell)
		if errRes != nil {
			return *errRes
		}
		if a < 0 || b < 0 {
			return errorResult(ErrorKindNUM, cell, "")
		}
		return numberResult(float64(op(int64(a), int64(b))))
	}
}

func fnBitShift(left bool) fnHandler {
	return func(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
		if len(args) != 2 {
			return errorResult(ErrorKindNA, cell, "")
		}
		v, errRes := ec.scalarNumber(args[0], cell)
		if errRes != nil {
			return *errRes
		}
		shift, errRes := ec.scalarNumber(args[1], cell)
		if errRes != nil {
			return *errRes
		}
		if v < 0 {
			return errorResult(ErrorKindNUM, cell, "")
		}
		n := int64(shift)
		if !left {
			n = -n
		}
		if n >= 0 {
			return numberResult(float64(int64(v) << uint(n)))
		}
		return numberResult(float64(int64(v) >> uint(-n)))
	}
}
