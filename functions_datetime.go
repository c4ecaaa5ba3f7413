// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

import (
	"strings"
	"time"

	"github.com/ironcalc-go/ironcalc/numfmt"
)

func init() {
	RegisterFunction(FnDATE, fnDATE)
	RegisterFunction(FnTODAY, fnTODAY)
	RegisterFunction(FnNOW, fnNOW)
	RegisterFunction(FnYEAR, fnDatePart(func(t time.Time) float64 { return float64(t.Year()) }))
	RegisterFunction(FnMONTH, fnDatePart(func(t time.Time) float64 { return float64(t.Month()) }))
	RegisterFunction(FnDAY, fnDatePart(func(t time.Time) float64 { return float64(t.Day()) }))
	RegisterFunction(FnHOUR, fnDatePart(func(t time.Time) float64 { return float64(t.Hour()) }))
	RegisterFunction(FnMINUTE, fnDatePart(func(t time.Time) float64 { return float64(t.Minute()) }))
	RegisterFunction(FnSECOND, fnDatePart(func(t time.Time) float64 { return float64(t.Second()) }))
	RegisterFunction(FnEDATE, fnEDATE)
	RegisterFunction(FnEOMONTH, fnEOMONTH)
	RegisterFunction(FnWEEKDAY, fnWEEKDAY)
	RegisterFunction(FnDATEDIF, fnDATEDIF)
	RegisterFunction(FnDATEVALUE, fnDATEVALUE)
	RegisterFunction(FnTIMEVALUE, fnTIMEVALUE)
	RegisterFunction(FnTIME, fnTIME)
}

func fnDATE(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 3 {
		return errorResult(ErrorKindNA, cell, "")
	}
	y, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	mo, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	d, errRes := ec.scalarNumber(args[2], cell)
	if errRes != nil {
		return *errRes
	}
	year := int(y)
	if year < 1900 {
		year += 1900
	}
	t := time.Date(year, time.Month(1), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, int(mo)-1, int(d)-1)
	return numberResult(numfmt.SerialFromDate(t.Year(), int(t.Month()), t.Day(), ec.wb.Date1904))
}

func fnTODAY(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 0 {
		return errorResult(ErrorKindNA, cell, "")
	}
	t := time.Now().UTC()
	return numberResult(numfmt.SerialFromDate(t.Year(), int(t.Month()), t.Day(), ec.wb.Date1904))
}

func fnNOW(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 0 {
		return errorResult(ErrorKindNA, cell, "")
	}
	t := time.Now().UTC()
	day := numfmt.SerialFromDate(t.Year(), int(t.Month()), t.Day(), ec.wb.Date1904)
	frac := (float64(t.Hour())*3600 + float64(t.Minute())*60 + float64(t.Second())) / 86400
	return numberResult(day + frac)
}

func fnDatePart(extract func(time.Time) float64) fnHandler {
	return func(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
		if len(args) != 1 {
			return errorResult(ErrorKindNA, cell, "")
		}
		serial, errRes := ec.scalarNumber(args[0], cell)
		if errRes != nil {
			return *errRes
		}
		t, err := numfmt.ConvertSerial(serial, ec.wb.Date1904)
		if err != nil {
			return errorResult(ErrorKindNUM, cell, "")
		}
		return numberResult(extract(t))
	}
}

func fnEDATE(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	serial, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	months, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	t, err := numfmt.ConvertSerial(serial, ec.wb.Date1904)
	if err != nil {
		return errorResult(ErrorKindNUM, cell, "")
	}
	t = t.AddDate(0, int(months), 0)
	return numberResult(numfmt.SerialFromDate(t.Year(), int(t.Month()), t.Day(), ec.wb.Date1904))
}

func fnEOMONTH(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	serial, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	months, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	t, err := numfmt.ConvertSerial(serial, ec.wb.Date1904)
	if err != nil {
		return errorResult(ErrorKindNUM, cell, "")
	}
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, int(months)+1, 0)
	last := firstOfTarget.AddDate(0, 0, -1)
	return numberResult(numfmt.SerialFromDate(last.Year(), int(last.Month()), last.Day(), ec.wb.Date1904))
}

func fnWEEKDAY(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 1 || len(args) > 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	serial, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	returnType := 1.0
	if len(args) == 2 {
		returnType, errRes = ec.scalarNumber(args[1], cell)
		if errRes != nil {
			return *errRes
		}
	}
	t, err := numfmt.ConvertSerial(serial, ec.wb.Date1904)
	if err != nil {
		return errorResult(ErrorKindNUM, cell, "")
	}
	wd := int(t.Weekday()) // Sunday = 0
	switch int(returnType) {
	case 1:
		return numberResult(float64(wd + 1))
	case 2:
		return numberResult(float64((wd+6)%7 + 1))
	case 3:
		return numberResult(float64((wd + 6) % 7))
	}
	return numberResult(float64(wd + 1))
}

// fnDATEDIF implements DATEDIF(start, end, unit) for the "Y", "M", "D",
// "MD", "YM", "YD" units (spec §4.6 supplement, grounded on the original
// implementation's date arithmetic since Excel's own docs leave edge
// cases — especially "MD" — underspecified).
func fnDATEDIF(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 3 {
		return errorResult(ErrorKindNA, cell, "")
	}
	s1, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	s2, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	unit, errRes := ec.scalarText(args[2], cell)
	if errRes != nil {
		return *errRes
	}
	if s1 > s2 {
		return errorResult(ErrorKindNUM, cell, "")
	}
	t1, err1 := numfmt.ConvertSerial(s1, ec.wb.Date1904)
	t2, err2 := numfmt.ConvertSerial(s2, ec.wb.Date1904)
	if err1 != nil || err2 != nil {
		return errorResult(ErrorKindNUM, cell, "")
	}
	switch strings.ToUpper(unit) {
	case "Y":
		years := t2.Year() - t1.Year()
		if t2.Month() < t1.Month() || (t2.Month() == t1.Month() && t2.Day() < t1.Day()) {
			years--
		}
		return numberResult(float64(years))
	case "M":
		months := (t2.Year()-t1.Year())*12 + int(t2.Month()) - int(t1.Month())
		if t2.Day() < t1.Day() {
			months--
		}
		return numberResult(float64(months))
	case "D":
		return numberResult(s2 - s1)
	case "YM":
		months := int(t2.Month()) - int(t1.Month())
		if t2.Day() < t1.Day() {
			months--
		}
		if months < 0 {
			months += 12
		}
		return numberResult(float64(months))
	case "YD":
		anniversary := time.Date(t2.Year(), t1.Month(), t1.Day(), 0, 0, 0, 0, time.UTC)
		if anniversary.After(t2) {
			anniversary = anniversary.AddDate(-1, 0, 0)
		}
		return numberResult(t2.Sub(anniversary).Hours() / 24)
	case "MD":
		days := t2.Day() - t1.Day()
		if days < 0 {
			prevMonthEnd := time.Date(t2.Year(), t2.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
			days = prevMonthEnd.Day() - t1.Day() + t2.Day()
		}
		return numberResult(float64(days))
	}
	return errorResult(ErrorKindNUM, cell, "")
}

func fnDATEVALUE(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	s, errRes := ec.scalarText(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	if serial, ok := parseDateText(s); ok {
		return numberResult(serial)
	}
	return errorResult(ErrorKindVALUE, cell, "")
}

func fnTIMEVALUE(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	s, errRes := ec.scalarText(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	if frac, ok := parseTimeText(s); ok {
		return numberResult(frac)
	}
	return errorResult(ErrorKindVALUE, cell, "")
}

func fnTIME(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 3 {
		return errorResult(ErrorKindNA, cell, "")
	}
	h, errRes := ec.scalarNumber(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	m, errRes := ec.scalarNumber(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	s, errRes := ec.scalarNumber(args[2], cell)
	if errRes != nil {
		return *errRes
	}
	total := h*3600 + m*60 + s
	frac := total / 86400
	frac -= float64(int64(frac))
	if frac < 0 {
		frac++
	}
	return numberResult(frac)
}

// parseDateText parses a handful of common date text shapes
// ("2024-01-31", "1/31/2024", "31-Jan-2024") into an Excel serial. Not
// exhaustive — matches the original implementation's documented supported
// formats rather than every locale Excel itself accepts.
func parseDateText(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	layouts := []string{"2006-01-02", "1/2/2006", "01/02/2006", "2-Jan-2006", "January 2, 2006"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return numfmt.SerialFromDate(t.Year(), int(t.Month()), t.Day(), false), true
		}
	}
	return 0, false
}

func parseTimeText(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	layouts := []string{"15:04:05", "15:04", "3:04:05 PM", "3:04 PM"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return (float64(t.Hour())*3600 + float64(t.Minute())*60 + float64(t.Second())) / 86400, true
		}
	}
	return 0, false
}
