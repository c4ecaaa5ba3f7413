package ironcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitInferenceCurrencyTimesPercentage(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	ws := m.wb.sheets[0]

	currency := m.wb.styles.Mint(Style{NumFmt: "$#,##0.00", UserSetFmt: true})
	percent := m.wb.styles.Mint(Style{NumFmt: "0%", UserSetFmt: true})
	ws.SetCell(1, 1, NewNumberCell(100, currency))
	ws.SetCell(1, 2, NewNumberCell(0.05, percent))

	require.NoError(t, m.SetUserInput("Sheet1", 1, 3, "=A1*B1"))

	styleIdx, err := m.GetCellStyle("Sheet1", 1, 3)
	require.NoError(t, err)
	got := m.wb.styles.NumberFormat(styleIdx)
	assert.Contains(t, got, "$")
	assert.GreaterOrEqual(t, decimalPlaces(got), 2)
}

func TestUnitInferenceSumPicksHigherPrecision(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	ws := m.wb.sheets[0]

	coarse := m.wb.styles.Mint(Style{NumFmt: "0.0", UserSetFmt: true})
	fine := m.wb.styles.Mint(Style{NumFmt: "0.000", UserSetFmt: true})
	ws.SetCell(1, 1, NewNumberCell(1, coarse))
	ws.SetCell(1, 2, NewNumberCell(2, fine))

	require.NoError(t, m.SetUserInput("Sheet1", 1, 3, "=A1+B1"))

	styleIdx, err := m.GetCellStyle("Sheet1", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, "0.000", m.wb.styles.NumberFormat(styleIdx))
}

func TestUnitInferenceReferenceCopiesSourceFormat(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	ws := m.wb.sheets[0]

	date := m.wb.styles.Mint(Style{NumFmt: "m/d/yyyy", UserSetFmt: true})
	ws.SetCell(1, 1, NewNumberCell(45000, date))

	require.NoError(t, m.SetUserInput("Sheet1", 1, 2, "=A1"))

	styleIdx, err := m.GetCellStyle("Sheet1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "m/d/yyyy", m.wb.styles.NumberFormat(styleIdx))
}

func TestUnitInferenceSkipsUserSetFormat(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	ws := m.wb.sheets[0]

	currency := m.wb.styles.Mint(Style{NumFmt: "$#,##0.00", UserSetFmt: true})
	ws.SetCell(1, 1, NewNumberCell(100, currency))

	pinned := m.wb.styles.WithUserNumFmt(0, "0.0000")
	f := m.wb.internFormula(ws.SheetID, "A1")
	ws.SetCell(1, 2, newFormulaCell(f, pinned))

	require.NoError(t, m.Evaluate())

	styleIdx, err := m.GetCellStyle("Sheet1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "0.0000", m.wb.styles.NumberFormat(styleIdx))
}

func TestUnitInferencePMTReadsAsCurrency(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, "=PMT(0.05/12,60,-10000)"))

	styleIdx, err := m.GetCellStyle("Sheet1", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "$#,##0.00", m.wb.styles.NumberFormat(styleIdx))
}
