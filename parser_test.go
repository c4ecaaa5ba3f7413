package ironcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, wb *Workbook, sheetIdx int, formula string) string {
	t.Helper()
	node := Parse(formula, ModeA1, wb, sheetIdx)
	require.NotNil(t, node)
	return Stringify(node, sheetIdx, 1, 1, DisplaceData{}, wb)
}

func TestParserStringifyRoundTrip(t *testing.T) {
	wb := NewWorkbook("en-US", "UTC")
	wb.NewSheet("Sheet1")
	wb.NewSheet("Data")

	cases := []string{
		"1+2",
		"A1+B2",
		"SUM(A1:A10)",
		"IF(A1>0,\"pos\",\"neg\")",
		"Data!A1+A1",
		"-A1^2",
		"A1&\"x\"&B1",
	}
	for _, f := range cases {
		got := roundTrip(t, wb, 0, f)
		assert.Equal(t, f, got, "round trip for %q", f)
	}
}

func TestParseMalformedFormulaYieldsParseErrorNode(t *testing.T) {
	wb := NewWorkbook("en-US", "UTC")
	wb.NewSheet("Sheet1")

	node := Parse("1+", ModeA1, wb, 0)
	require.NotNil(t, node)
	assert.Equal(t, NodeParseError, node.Kind)
}

func TestParseUnqualifiedDefinedName(t *testing.T) {
	wb := NewWorkbook("en-US", "UTC")
	wb.NewSheet("Sheet1")
	require.NoError(t, wb.SetDefinedName(0, "Rate", "0.1"))

	node := Parse("Rate*2", ModeA1, wb, 0)
	require.NotNil(t, node)
	assert.NotEqual(t, NodeParseError, node.Kind)
}
