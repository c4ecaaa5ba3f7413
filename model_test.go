package ironcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetUserInputLiteralAndFormula(t *testing.T) {
	m := NewEmpty("en-US", "UTC")

	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, "41"))
	require.NoError(t, m.SetUserInput("Sheet1", 1, 2, "1"))
	require.NoError(t, m.SetUserInput("Sheet1", 1, 3, "=A1+B1"))

	got, err := m.GetCellContent("Sheet1", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, "=A1+B1", got)

	val, err := m.GetFormattedCellValue("Sheet1", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, "42", val)

	typ, err := m.GetCellType("Sheet1", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, CellTypeFormula, typ)
}

func TestSetUserInputUnknownSheet(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	err := m.SetUserInput("Missing", 1, 1, "1")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestEvaluateRecomputesDependentFormula(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, "10"))
	require.NoError(t, m.SetUserInput("Sheet1", 1, 2, "=A1*2"))

	val, err := m.GetFormattedCellValue("Sheet1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "20", val)

	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, "5"))
	val, err = m.GetFormattedCellValue("Sheet1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "10", val)
}

func TestCircularReferenceYieldsCircError(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, "=A2"))
	require.NoError(t, m.SetUserInput("Sheet1", 2, 1, "=A1"))

	val, err := m.GetFormattedCellValue("Sheet1", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, ErrorKindCIRC.String(), val)
}

func TestUndoRedoSetCell(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, "1"))
	assert.True(t, m.CanUndo())
	assert.False(t, m.CanRedo())

	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, "2"))
	val, _ := m.GetFormattedCellValue("Sheet1", 1, 1)
	assert.Equal(t, "2", val)

	require.NoError(t, m.Undo())
	val, _ = m.GetFormattedCellValue("Sheet1", 1, 1)
	assert.Equal(t, "1", val)
	assert.True(t, m.CanRedo())

	require.NoError(t, m.Redo())
	val, _ = m.GetFormattedCellValue("Sheet1", 1, 1)
	assert.Equal(t, "2", val)
}

func TestUndoNothingToUndo(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	assert.False(t, m.CanUndo())
	assert.Error(t, m.Undo())
}

func TestInsertDeleteRowsIsExactInverse(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetUserInput("Sheet1", 3, 1, "hello"))
	require.NoError(t, m.SetUserInput("Sheet1", 5, 2, "=A3"))

	before, err := m.GetCellContent("Sheet1", 3, 1)
	require.NoError(t, err)

	require.NoError(t, m.InsertRows("Sheet1", 2, 2))
	shifted, err := m.GetCellContent("Sheet1", 5, 1)
	require.NoError(t, err)
	assert.Equal(t, before, shifted)

	require.NoError(t, m.DeleteRows("Sheet1", 2, 2))
	restored, err := m.GetCellContent("Sheet1", 3, 1)
	require.NoError(t, err)
	assert.Equal(t, before, restored)
}

func TestDeleteRowsUndoRestoresContent(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetUserInput("Sheet1", 2, 1, "keepme"))

	require.NoError(t, m.DeleteRows("Sheet1", 2, 1))
	content, _ := m.GetCellContent("Sheet1", 2, 1)
	assert.Equal(t, "", content)

	require.NoError(t, m.Undo())
	content, err := m.GetCellContent("Sheet1", 2, 1)
	require.NoError(t, err)
	assert.Equal(t, "keepme", content)
}

func TestNewRenameDeleteSheet(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	id, err := m.NewSheet("Data")
	require.NoError(t, err)
	assert.NotZero(t, id)

	require.NoError(t, m.RenameSheet("Data", "Renamed"))
	require.NoError(t, m.SetUserInput("Renamed", 1, 1, "1"))

	require.NoError(t, m.DeleteSheet("Renamed"))
	_, err = m.GetCellContent("Renamed", 1, 1)
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestSetSheetColorUndo(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetSheetColor("Sheet1", "FF0000"))
	require.NoError(t, m.Undo())
	assert.Equal(t, "", m.wb.sheets[0].TabColor)
}

func TestSetColumnWidthAndRowHeightUndo(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetColumnWidth("Sheet1", 1, 3, 25))
	assert.Equal(t, 25.0, m.wb.sheets[0].ColumnWidth(2))

	require.NoError(t, m.SetRowHeight("Sheet1", 4, 30))
	assert.Equal(t, 30.0, m.wb.sheets[0].RowHeight(4))

	require.NoError(t, m.Undo())
	assert.Equal(t, 0.0, m.wb.sheets[0].RowHeight(4))
	require.NoError(t, m.Undo())
	assert.Equal(t, 0.0, m.wb.sheets[0].ColumnWidth(2))
}

func TestRangeClearContentsAndAllUndo(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, "7"))
	a := Area{SheetIndex: 0, Row: 1, Column: 1, Width: 1, Height: 1}

	require.NoError(t, m.RangeClearContents("Sheet1", a))
	content, _ := m.GetCellContent("Sheet1", 1, 1)
	assert.Equal(t, "", content)

	require.NoError(t, m.Undo())
	content, err := m.GetCellContent("Sheet1", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "7", content)
}

func TestAutofillRepeatsSourceCyclically(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, "1"))
	require.NoError(t, m.SetUserInput("Sheet1", 1, 2, "2"))

	src := Area{SheetIndex: 0, Row: 1, Column: 1, Width: 2, Height: 1}
	dst := Area{SheetIndex: 0, Row: 1, Column: 1, Width: 6, Height: 1}
	require.NoError(t, m.Autofill("Sheet1", src, dst))

	for col, want := range map[int]string{1: "1", 2: "2", 3: "1", 4: "2", 5: "1", 6: "2"} {
		got, err := m.GetCellContent("Sheet1", 1, col)
		require.NoError(t, err)
		assert.Equal(t, want, got, "column %d", col)
	}
}

func TestMoveRowRelocatesCellData(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, "alpha"))

	require.NoError(t, m.MoveRowAction("Sheet1", 1, 3))
	content, err := m.GetCellContent("Sheet1", 4, 1)
	require.NoError(t, err)
	assert.Equal(t, "alpha", content)
}

func TestFlushSendQueueAndApplyExternalDiffs(t *testing.T) {
	src := NewEmpty("en-US", "UTC")
	require.NoError(t, src.SetUserInput("Sheet1", 1, 1, "99"))

	batch, err := src.FlushSendQueue()
	require.NoError(t, err)
	require.NotEmpty(t, batch)

	dst := NewEmpty("en-US", "UTC")
	require.NoError(t, dst.ApplyExternalDiffs(batch))

	content, err := dst.GetCellContent("Sheet1", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "99", content)
}

func TestFlushSendQueueEmptyReturnsNil(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	batch, err := m.FlushSendQueue()
	require.NoError(t, err)
	assert.Nil(t, batch)
}

func TestDeleteSheetUndoIsExplicitlyUnsupported(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	_, err := m.NewSheet("Scratch")
	require.NoError(t, err)
	require.NoError(t, m.DeleteSheet("Scratch"))

	err = m.Undo()
	assert.Error(t, err)
}
