// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

func init() {
	RegisterFunction(FnISBLANK, fnIsKind(ResultEmptyCell, ResultEmptyArg))
	RegisterFunction(FnISNUMBER, fnIsKind(ResultNumber))
	RegisterFunction(FnISTEXT, fnIsKind(ResultString))
	RegisterFunction(FnISLOGICAL, fnIsKind(ResultBoolean))
	RegisterFunction(FnISNONTEXT, fnISNONTEXT)
	RegisterFunction(FnISERROR, fnISERROR)
	RegisterFunction(FnISERR, fnISERR)
	RegisterFunction(FnISNA, fnISNA)
	RegisterFunction(FnISREF, fnISREF)
	RegisterFunction(FnISFORMULA, fnISFORMULA)
	RegisterFunction(FnISEVEN, fnParity(0))
	RegisterFunction(FnISODD, fnParity(1))
	RegisterFunction(FnN, fnN)
	RegisterFunction(FnNA, fnNA)
	RegisterFunction(FnTYPE, fnTYPE)
	RegisterFunction(FnSHEET, fnSHEET)
	RegisterFunction(FnSHEETS, fnSHEETS)
	RegisterFunction(FnERROR_TYPE, fnERROR_TYPE)
}

func fnIsKind(kinds ...ResultKind) fnHandler {
	return func(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
		if len(args) != 1 {
			return errorResult(ErrorKindNA, cell, "")
		}
		v := ec.eval(args[0], cell)
		if v.IsError() {
			return booleanResult(false)
		}
		v = ec.asSingleResult(v, cell)
		for _, k := range kinds {
			if v.Kind == k {
				return booleanResult(true)
			}
		}
		return booleanResult(false)
	}
}

func fnISNONTEXT(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	v := ec.eval(args[0], cell)
	if v.IsError() {
		return booleanResult(true)
	}
	v = ec.asSingleResult(v, cell)
	return booleanResult(v.Kind != ResultString)
}

func fnISERROR(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	return booleanResult(ec.eval(args[0], cell).IsError())
}

func fnISERR(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	v := ec.eval(args[0], cell)
	return booleanResult(v.IsError() && v.ErrKind != ErrorKindNA)
}

func fnISNA(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	return booleanResult(isErrKind(ec.eval(args[0], cell), ErrorKindNA))
}

func fnISREF(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	switch args[0].Kind {
	case NodeReference, NodeRange:
		return booleanResult(true)
	}
	v := ec.eval(args[0], cell)
	return booleanResult(v.Kind == ResultRange)
}

func fnISFORMULA(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 || args[0].Kind != NodeReference {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	ws := ec.wb.Sheet(args[0].SheetIndex)
	if ws == nil {
		return errorResult(ErrorKindREF, cell, "")
	}
	return booleanResult(ws.GetCell(args[0].Row, args[0].Column).IsFormula())
}

func fnParity(remainder int) fnHandler {
	return func(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
		if len(args) != 1 {
			return errorResult(ErrorKindNA, cell, "")
		}
		v, errRes := ec.scalarNumber(args[0], cell)
		if errRes != nil {
			return *errRes
		}
		n := int64(v)
		if n < 0 {
			n = -n
		}
		return booleanResult(n%2 == int64(remainder))
	}
}

func fnN(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	v := ec.eval(args[0], cell)
	if v.IsError() {
		return v
	}
	v = ec.asSingleResult(v, cell)
	switch v.Kind {
	case ResultNumber:
		return numberResult(v.Number)
	case ResultBoolean:
		if v.Boolean {
			return numberResult(1)
		}
		return numberResult(0)
	}
	return numberResult(0)
}

func fnNA(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 0 {
		return errorResult(ErrorKindNA, cell, "")
	}
	return errorResult(ErrorKindNA, cell, "")
}

func fnTYPE(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	v := ec.eval(args[0], cell)
	switch {
	case v.IsError():
		return numberResult(16)
	case v.Kind == ResultRange || v.Kind == ResultArray:
		return numberResult(64)
	}
	v = ec.asSingleResult(v, cell)
	switch v.Kind {
	case ResultNumber:
		return numberResult(1)
	case ResultString:
		return numberResult(2)
	case ResultBoolean:
		return numberResult(4)
	}
	return numberResult(1)
}

func fnSHEET(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) == 0 {
		ws := ec.wb.SheetByID(cell.SheetID)
		if ws == nil {
			return errorResult(ErrorKindNA, cell, "")
		}
		idx, _ := ec.wb.SheetIndexByName(ws.Name)
		return numberResult(float64(idx + 1))
	}
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	if args[0].Kind == NodeReference || args[0].Kind == NodeRange {
		return numberResult(float64(args[0].SheetIndex + 1))
	}
	name, errRes := ec.scalarText(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	idx, ok := ec.wb.SheetIndexByName(name)
	if !ok {
		return errorResult(ErrorKindNA, cell, "")
	}
	return numberResult(float64(idx + 1))
}

func fnSHEETS(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 0 {
		return errorResult(ErrorKindNA, cell, "")
	}
	return numberResult(float64(ec.wb.SheetCount()))
}

func fnERROR_TYPE(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	v := ec.eval(args[0], cell)
	if !v.IsError() {
		return errorResult(ErrorKindNA, cell, "")
	}
	codes := map[ErrorKind]float64{
		ErrorKindNULL: 1, ErrorKindDIV: 2, ErrorKindVALUE: 3, ErrorKindREF: 4,
		ErrorKindNAME: 5, ErrorKindNUM: 6, ErrorKindNA: 7,
	}
	if n, ok := codes[v.ErrKind]; ok {
		return numberResult(n)
	}
	return numberResult(8)
}
