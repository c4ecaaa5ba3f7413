// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

func init() {
	RegisterFunction(FnIF, fnIF)
	RegisterFunction(FnIFS, fnIFS)
	RegisterFunction(FnSWITCH, fnSWITCH)
	RegisterFunction(FnIFERROR, fnIFERROR)
	RegisterFunction(FnIFNA, fnIFNA)
	RegisterFunction(FnAND, fnAND)
	RegisterFunction(FnOR, fnOR)
	RegisterFunction(FnXOR_, fnXOR)
	RegisterFunction(FnNOT, fnNOT)
	RegisterFunction(FnTRUE_, fnTRUE)
	RegisterFunction(FnFALSE_, fnFALSE)
}

// fnIF is short-circuit: only the taken branch is evaluated, matching
// spec §4.5's "short-circuit family" requirement so a guarded #DIV/0! in
// the untaken branch never surfaces.
func fnIF(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 1 || len(args) > 3 {
		return errorResult(ErrorKindNA, cell, "")
	}
	cond, errRes := ec.scalarBool(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	if cond {
		if len(args) >= 2 {
			return ec.eval(args[1], cell)
		}
		return booleanResult(true)
	}
	if len(args) >= 3 {
		return ec.eval(args[2], cell)
	}
	return booleanResult(false)
}

// fnIFS evaluates condition/value pairs left to right, returning the first
// value whose guarding condition is true.
func fnIFS(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 2 || len(args)%2 != 0 {
		return errorResult(ErrorKindNA, cell, "")
	}
	for i := 0; i < len(args); i += 2 {
		cond, errRes := ec.scalarBool(args[i], cell)
		if errRes != nil {
			return *errRes
		}
		if cond {
			return ec.eval(args[i+1], cell)
		}
	}
	return errorResult(ErrorKindNA, cell, "")
}

// fnSWITCH compares the first argument against each case value, returning
// the matching result or the trailing default.
func fnSWITCH(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) < 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	target := ec.eval(args[0], cell)
	if target.IsError() {
		return target
	}
	i := 1
	for ; i+1 < len(args); i += 2 {
		caseVal := ec.eval(args[i], cell)
		if caseVal.IsError() {
			return caseVal
		}
		if compareResults(target, caseVal, CompareEQ) {
			return ec.eval(args[i+1], cell)
		}
	}
	if i < len(args) {
		return ec.eval(args[i], cell)
	}
	return errorResult(ErrorKindNA, cell, "")
}

func fnIFERROR(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	v := ec.eval(args[0], cell)
	if v.IsError() {
		return ec.eval(args[1], cell)
	}
	return v
}

func fnIFNA(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	v := ec.eval(args[0], cell)
	if isErrKind(v, ErrorKindNA) {
		return ec.eval(args[1], cell)
	}
	return v
}

// fnAND short-circuits: it returns FALSE at the first false operand, or the
// first error operand itself.
func fnAND(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) == 0 {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	for _, a := range args {
		v := ec.eval(a, cell)
		if v.IsError() {
			return v
		}
		for _, b := range ec.flattenValues([]CalcResult{v}, cell) {
			ok, errRes := boolFromResult(b, cell)
			if errRes != nil {
				return *errRes
			}
			if !ok {
				return booleanResult(false)
			}
		}
	}
	return booleanResult(true)
}

func fnOR(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) == 0 {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	for _, a := range args {
		v := ec.eval(a, cell)
		if v.IsError() {
			return v
		}
		for _, b := range ec.flattenValues([]CalcResult{v}, cell) {
			ok, errRes := boolFromResult(b, cell)
			if errRes != nil {
				return *errRes
			}
			if ok {
				return booleanResult(true)
			}
		}
	}
	return booleanResult(false)
}

func fnXOR(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) == 0 {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	count := 0
	for _, a := range args {
		v := ec.eval(a, cell)
		if v.IsError() {
			return v
		}
		for _, b := range ec.flattenValues([]CalcResult{v}, cell) {
			ok, errRes := boolFromResult(b, cell)
			if errRes != nil {
				return *errRes
			}
			if ok {
				count++
			}
		}
	}
	return booleanResult(count%2 == 1)
}

func boolFromResult(v CalcResult, cell CellRef) (bool, *CalcResult) {
	switch v.Kind {
	case ResultBoolean:
		return v.Boolean, nil
	case ResultNumber:
		return v.Number != 0, nil
	case ResultEmptyCell, ResultEmptyArg:
		return false, nil
	}
	r := errorResult(ErrorKindVALUE, cell, "")
	return false, &r
}

func fnNOT(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	v, errRes := ec.scalarBool(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	return booleanResult(!v)
}

func fnTRUE(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 0 {
		return errorResult(ErrorKindNA, cell, "")
	}
	return booleanResult(true)
}

func fnFALSE(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 0 {
		return errorResult(ErrorKindNA, cell, "")
	}
	return booleanResult(false)
}
