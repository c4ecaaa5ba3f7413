// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

func init() {
	RegisterFunction(FnMMULT, fnMMULT)
	RegisterFunction(FnMDETERM, fnMDETERM)
	RegisterFunction(FnMINVERSE, fnMINVERSE)
	RegisterFunction(FnTRANSPOSE, fnTRANSPOSE)
}

// matrixOf reads a Range or Array result into a dense [][]float64, erroring
// on any non-numeric member.
func (ec *evalCtx) matrixOf(n *Node, cell CellRef) ([][]float64, *CalcResult) {
	v := ec.eval(n, cell)
	if v.IsError() {
		return nil, &v
	}
	switch v.Kind {
	case ResultRange:
		rng := v.Range.Normalized()
		ws := ec.wb.Sheet(rng.SheetIndex)
		if ws == nil {
			r := errorResult(ErrorKindREF, cell, "")
			return nil, &r
		}
		rows := make([][]float64, 0, rng.Row2-rng.Row1+1)
		for r := rng.Row1; r <= rng.Row2; r++ {
			row := make([]float64, 0, rng.Col2-rng.Col1+1)
			for c := rng.Col1; c <= rng.Col2; c++ {
				cv := ec.resolveCellValue(ws.GetCell(r, c), CellRef{SheetID: ws.SheetID, Row: r, Column: c})
				num, ok := coerceResultToNumber(cv)
				if !ok {
					e := errorResult(ErrorKindVALUE, cell, "")
					return nil, &e
				}
				row = append(row, num)
			}
			rows = append(rows, row)
		}
		return rows, nil
	case ResultArray:
		rows := make([][]float64, len(v.Array))
		for i, row := range v.Array {
			out := make([]float64, len(row))
			for j, cv := range row {
				num, ok := coerceResultToNumber(cv)
				if !ok {
					e := errorResult(ErrorKindVALUE, cell, "")
					return nil, &e
				}
				out[j] = num
			}
			rows[i] = out
		}
		return rows, nil
	}
	num, ok := coerceResultToNumber(v)
	if !ok {
		e := errorResult(ErrorKindVALUE, cell, "")
		return nil, &e
	}
	return [][]float64{{num}}, nil
}

func matrixToArrayResult(m [][]float64) CalcResult {
	rows := make([][]CalcResult, len(m))
	for i, row := range m {
		out := make([]CalcResult, len(row))
		for j, v := range row {
			out[j] = numberResult(v)
		}
		rows[i] = out
	}
	return CalcResult{Kind: ResultArray, Array: rows}
}

func fnMMULT(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 2 {
		return errorResult(ErrorKindNA, cell, "")
	}
	a, errRes := ec.matrixOf(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	b, errRes := ec.matrixOf(args[1], cell)
	if errRes != nil {
		return *errRes
	}
	if len(a) == 0 || len(b) == 0 || len(a[0]) != len(b) {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	rows, inner, cols := len(a), len(b), len(b[0])
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			sum := 0.0
			for k := 0; k < inner; k++ {
				sum += a[i][k] * b[k][j]
			}
			out[i][j] = sum
		}
	}
	return matrixToArrayResult(out)
}

func fnTRANSPOSE(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	a, errRes := ec.matrixOf(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	if len(a) == 0 {
		return CalcResult{Kind: ResultArray}
	}
	rows, cols := len(a), len(a[0])
	out := make([][]float64, cols)
	for j := 0; j < cols; j++ {
		out[j] = make([]float64, rows)
		for i := 0; i < rows; i++ {
			out[j][i] = a[i][j]
		}
	}
	return matrixToArrayResult(out)
}

func fnMDETERM(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	a, errRes := ec.matrixOf(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	det, ok := determinant(a)
	if !ok {
		return errorResult(ErrorKindVALUE, cell, "")
	}
	return numberResult(det)
}

func fnMINVERSE(ec *evalCtx, args []*Node, cell CellRef) CalcResult {
	if len(args) != 1 {
		return errorResult(ErrorKindNA, cell, "")
	}
	a, errRes := ec.matrixOf(args[0], cell)
	if errRes != nil {
		return *errRes
	}
	inv, ok := invertMatrix(a)
	if !ok {
		return errorResult(ErrorKindNUM, cell, "")
	}
	return matrixToArrayResult(inv)
}

// determinant computes det(a) via Gaussian elimination with partial
// pivoting; ok is false for a non-square matrix.
func determinant(a [][]float64) (float64, bool) {
	n := len(a)
	for _, row := range a {
		if len(row) != n {
			return 0, false
		}
	}
	m := cloneMatrix(a)
	det := 1.0
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if abs(m[r][col]) > abs(m[pivot][col]) {
				pivot = r
			}
		}
		if m[pivot][col] == 0 {
			return 0, true
		}
		if pivot != col {
			m[col], m[pivot] = m[pivot], m[col]
			det = -det
		}
		det *= m[col][col]
		for r := col + 1; r < n; r++ {
			factor := m[r][col] / m[col][col]
			for c := col; c < n; c++ {
				m[r][c] -= factor * m[col][c]
			}
		}
	}
	return det, true
}

// invertMatrix inverts a via Gauss-Jordan elimination on [a | I].
func invertMatrix(a [][]float64) ([][]float64, bool) {
	n := len(a)
	for _, row := range a {
		if len(row) != n {
			return nil, false
		}
	}
	aug := make([][]float64, n)
	for i := 0; i < n; i++ {
		aug[i] = make([]float64, 2*n)
		copy(aug[i], a[i])
		aug[i][n+i] = 1
	}
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if abs(aug[r][col]) > abs(aug[pivot][col]) {
				pivot = r
			}
		}
		if aug[pivot][col] == 0 {
			return nil, false
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]
		pv := aug[col][col]
		for c := 0; c < 2*n; c++ {
			aug[col][c] /= pv
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			for c := 0; c < 2*n; c++ {
				aug[r][c] -= factor * aug[col][c]
			}
		}
	}
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = aug[i][n:]
	}
	return out, true
}

func cloneMatrix(a [][]float64) [][]float64 {
	out := make([][]float64, len(a))
	for i, row := range a {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
