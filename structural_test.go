package ironcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkbook(t *testing.T) *Workbook {
	t.Helper()
	wb := NewWorkbook("en-US", "UTC")
	_, err := wb.NewSheet("Sheet1")
	require.NoError(t, err)
	return wb
}

func TestInsertDeleteColumnsInverse(t *testing.T) {
	wb := newTestWorkbook(t)
	ws := wb.sheets[0]
	ws.SetCell(1, 3, NewNumberCell(7, 0))

	require.NoError(t, wb.InsertColumns("Sheet1", 1, 2))
	assert.True(t, ws.IsEmptyCell(1, 3))
	moved := ws.GetCell(1, 5)
	assert.Equal(t, 7.0, moved.RawValue(wb.sst))

	require.NoError(t, wb.DeleteColumns("Sheet1", 1, 2))
	restored := ws.GetCell(1, 3)
	assert.Equal(t, 7.0, restored.RawValue(wb.sst))
}

func TestInsertRowsShiftsFormulaReferences(t *testing.T) {
	wb := newTestWorkbook(t)
	ws := wb.sheets[0]
	f := wb.internFormula(ws.SheetID, "A1+1")
	ws.SetCell(5, 2, newFormulaCell(f, 0))

	require.NoError(t, wb.InsertRows("Sheet1", 1, 2))

	shiftedF, ok := ws.GetCell(7, 2).FormulaIndex()
	require.True(t, ok)
	assert.Equal(t, "A3+1", wb.FormulaText(shiftedF))
}

func TestDeleteColumnsRefsIntoDeletedSpanBecomeRef(t *testing.T) {
	wb := newTestWorkbook(t)
	ws := wb.sheets[0]
	f := wb.internFormula(ws.SheetID, "SUM(E4:M4)")
	ws.SetCell(1, 1, newFormulaCell(f, 0))

	require.NoError(t, wb.DeleteColumns("Sheet1", 4, 2))

	shiftedF, ok := ws.GetCell(1, 1).FormulaIndex()
	require.True(t, ok)
	assert.Equal(t, "SUM(#REF!:K4)", wb.FormulaText(shiftedF))
}

func TestMoveCellsCutPasteLocality(t *testing.T) {
	wb := newTestWorkbook(t)
	_, err := wb.NewSheet("Sheet2")
	require.NoError(t, err)
	ws1 := wb.sheets[0]
	ws1.SetCell(1, 1, NewNumberCell(5, 0))

	area := Area{SheetIndex: 0, Row: 1, Column: 1, Width: 1, Height: 1}
	require.NoError(t, wb.MoveCells("Sheet1", area, "Sheet2", 3, 3))

	assert.True(t, ws1.IsEmptyCell(1, 1))
	ws2 := wb.sheets[1]
	assert.Equal(t, 5.0, ws2.GetCell(3, 3).RawValue(wb.sst))
}

func TestResolveStylePrecedence(t *testing.T) {
	wb := newTestWorkbook(t)
	ws := wb.sheets[0]

	cellStyle := wb.styles.Mint(Style{NumFmt: "0.00"})
	rowStyle := wb.styles.Mint(Style{NumFmt: "0%"})
	colStyle := wb.styles.Mint(Style{NumFmt: "$#,##0"})

	ws.SetColStyle(1, 5, colStyle)
	assert.Equal(t, colStyle, ws.ResolveStyle(2, 2))

	ws.SetRowStyle(2, rowStyle)
	assert.Equal(t, rowStyle, ws.ResolveStyle(2, 2))

	ws.SetCell(2, 2, NewNumberCell(1, cellStyle))
	assert.Equal(t, cellStyle, ws.ResolveStyle(2, 2))
}

func TestDimensionOfEmptySheet(t *testing.T) {
	wb := newTestWorkbook(t)
	ws := wb.sheets[0]
	minRow, minCol, maxRow, maxCol := ws.Dimension()
	assert.Equal(t, 1, minRow)
	assert.Equal(t, 1, minCol)
	assert.Equal(t, 1, maxRow)
	assert.Equal(t, 1, maxCol)
}

func TestNavigateToEdgeInDirection(t *testing.T) {
	wb := newTestWorkbook(t)
	ws := wb.sheets[0]
	ws.SetCell(1, 1, NewNumberCell(1, 0))
	ws.SetCell(2, 1, NewNumberCell(1, 0))
	ws.SetCell(3, 1, NewNumberCell(1, 0))

	r, c := ws.NavigateToEdgeInDirection(1, 1, NavigateDown)
	assert.Equal(t, 3, r)
	assert.Equal(t, 1, c)

	r, c = ws.NavigateToEdgeInDirection(3, 1, NavigateDown)
	assert.Equal(t, 3, r)
	assert.Equal(t, 1, c)

	r, c = ws.NavigateToEdgeInDirection(10, 1, NavigateDown)
	assert.Equal(t, LastRow, r)
	assert.Equal(t, 1, c)
}
