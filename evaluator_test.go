package ironcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluatorSumAndAverage(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, "1"))
	require.NoError(t, m.SetUserInput("Sheet1", 2, 1, "2"))
	require.NoError(t, m.SetUserInput("Sheet1", 3, 1, "3"))
	require.NoError(t, m.SetUserInput("Sheet1", 4, 1, "=SUM(A1:A3)"))
	require.NoError(t, m.SetUserInput("Sheet1", 5, 1, "=AVERAGE(A1:A3)"))

	sum, err := m.GetFormattedCellValue("Sheet1", 4, 1)
	require.NoError(t, err)
	assert.Equal(t, "6", sum)

	avg, err := m.GetFormattedCellValue("Sheet1", 5, 1)
	require.NoError(t, err)
	assert.Equal(t, "2", avg)
}

func TestEvaluatorIfBranches(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, "10"))
	require.NoError(t, m.SetUserInput("Sheet1", 1, 2, `=IF(A1>5,"big","small")`))

	got, err := m.GetFormattedCellValue("Sheet1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "big", got)
}

func TestEvaluatorDivisionByZero(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, "1"))
	require.NoError(t, m.SetUserInput("Sheet1", 1, 2, "0"))
	require.NoError(t, m.SetUserInput("Sheet1", 1, 3, "=A1/B1"))

	got, err := m.GetFormattedCellValue("Sheet1", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, ErrorKindDIV.String(), got)
}

func TestEvaluatorRefErrorLiteralEvaluatesToRef(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, "=#REF!"))

	got, err := m.GetFormattedCellValue("Sheet1", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, ErrorKindREF.String(), got)
}

func TestEvaluatorDeterministicAcrossRepeatedEvaluate(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, "3"))
	require.NoError(t, m.SetUserInput("Sheet1", 1, 2, "=A1*A1"))

	first, err := m.GetFormattedCellValue("Sheet1", 1, 2)
	require.NoError(t, err)
	require.NoError(t, m.Evaluate())
	second, err := m.GetFormattedCellValue("Sheet1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
