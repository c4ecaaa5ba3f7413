package ironcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkbookToBytesFromBytesRoundTrip(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, "10"))
	require.NoError(t, m.SetUserInput("Sheet1", 1, 2, "=A1*3"))
	require.NoError(t, m.NewDefinedName(0, "Rate", "0.05"))
	require.NoError(t, m.SetColumnWidth("Sheet1", 1, 1, 42))

	data, err := m.wb.ToBytes()
	require.NoError(t, err)
	require.NotEmpty(t, data)

	wb2, err := FromBytes(data)
	require.NoError(t, err)

	content := wb2.FormulaText(func() uint32 {
		f, ok := wb2.sheets[0].GetCell(1, 2).FormulaIndex()
		require.True(t, ok)
		return f
	}())
	assert.Equal(t, "A1*3", content)

	formula, ok := wb2.DefinedNameFormula(0, "Rate")
	require.True(t, ok)
	assert.Equal(t, "0.05", formula)

	assert.Equal(t, 42.0, wb2.sheets[0].ColumnWidth(1))
}

func TestModelToBytesFromBytesModelRoundTrip(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetUserInput("Sheet1", 2, 2, "hello"))

	data, err := m.ToBytes()
	require.NoError(t, err)

	m2, err := FromBytesModel(data)
	require.NoError(t, err)

	content, err := m2.GetCellContent("Sheet1", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, "hello", content)

	assert.False(t, m2.CanUndo())
}
