package ironcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefinedName(t *testing.T) {
	assert.True(t, ValidateDefinedName("Revenue_2024"))
	assert.True(t, ValidateDefinedName("_hidden"))

	assert.False(t, ValidateDefinedName(""))
	assert.False(t, ValidateDefinedName("TRUE"))
	assert.False(t, ValidateDefinedName("true"))
	assert.False(t, ValidateDefinedName("1Name"))
	assert.False(t, ValidateDefinedName("A1"))
	assert.False(t, ValidateDefinedName("$A$1"))
	assert.False(t, ValidateDefinedName("R1C1"))
}

func TestSetDefinedNameAndResolve(t *testing.T) {
	wb := NewWorkbook("en-US", "UTC")
	wb.NewSheet("Sheet1")

	require.NoError(t, wb.SetDefinedName(0, "Rate", "0.05"))
	formula, ok := wb.DefinedNameFormula(0, "Rate")
	require.True(t, ok)
	assert.Equal(t, "0.05", formula)

	err := wb.SetDefinedName(0, "A1", "1")
	assert.ErrorIs(t, err, ErrInvalidDefinedName)
}

func TestDeleteDefinedNameMissing(t *testing.T) {
	wb := NewWorkbook("en-US", "UTC")
	err := wb.DeleteDefinedName(0, "Missing")
	assert.ErrorIs(t, err, ErrDefinedNameNotSet)
}

func TestUpdateDefinedNamePropagatesIntoFormulas(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.NewDefinedName(0, "Rate", "0.05"))
	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, "100"))
	require.NoError(t, m.SetUserInput("Sheet1", 1, 2, "=A1*Rate"))

	content, err := m.GetCellContent("Sheet1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "=A1*Rate", content)

	require.NoError(t, m.UpdateDefinedName(0, "Rate", 0, "TaxRate", "0.05"))

	content, err = m.GetCellContent("Sheet1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "=A1*TaxRate", content)

	_, ok := m.wb.DefinedNameFormula(0, "Rate")
	assert.False(t, ok)
	formula, ok := m.wb.DefinedNameFormula(0, "TaxRate")
	require.True(t, ok)
	assert.Equal(t, "0.05", formula)
}

func TestUpdateDefinedNameRejectsCollision(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.NewDefinedName(0, "First", "1"))
	require.NoError(t, m.NewDefinedName(0, "Second", "2"))

	err := m.UpdateDefinedName(0, "First", 0, "Second", "1")
	assert.ErrorIs(t, err, ErrDefinedNameExists)
}

func TestFormulaMentionsIdent(t *testing.T) {
	assert.True(t, formulaMentionsIdent("A1*Rate", "Rate"))
	assert.True(t, formulaMentionsIdent("SUM(rate, 1)", "Rate"))
	assert.False(t, formulaMentionsIdent("A1*Other", "Rate"))
}
