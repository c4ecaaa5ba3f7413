package ironcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// eval is a small helper: write a formula into A1 of a fresh model and
// return its formatted value.
func eval(t *testing.T, formula string) string {
	t.Helper()
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, formula))
	got, err := m.GetFormattedCellValue("Sheet1", 1, 1)
	require.NoError(t, err)
	return got
}

func TestLogicalFamily(t *testing.T) {
	assert.Equal(t, "TRUE", eval(t, "=AND(TRUE,1=1)"))
	assert.Equal(t, "FALSE", eval(t, "=OR(FALSE,1=2)"))
	assert.Equal(t, "FALSE", eval(t, "=NOT(TRUE)"))
	assert.Equal(t, "ok", eval(t, `=IFS(1=2,"no",1=1,"ok")`))
	assert.Equal(t, "b", eval(t, `=SWITCH(2,1,"a",2,"b",3,"c")`))
	assert.Equal(t, "fallback", eval(t, `=IFERROR(1/0,"fallback")`))
}

func TestTextFamily(t *testing.T) {
	assert.Equal(t, "HELLO", eval(t, `=UPPER("hello")`))
	assert.Equal(t, "hello", eval(t, `=LOWER("HELLO")`))
	assert.Equal(t, "abc", eval(t, `=LEFT("abcdef",3)`))
	assert.Equal(t, "def", eval(t, `=RIGHT("abcdef",3)`))
	assert.Equal(t, "cd", eval(t, `=MID("abcdef",3,2)`))
	assert.Equal(t, "6", eval(t, `=LEN("abcdef")`))
	assert.Equal(t, "a-b-c", eval(t, `=CONCATENATE("a","-b","-c")`))
	assert.Equal(t, "a,b,c", eval(t, `=TEXTJOIN(",",TRUE,"a","b","c")`))
}

func TestLookupFamily(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, "10"))
	require.NoError(t, m.SetUserInput("Sheet1", 2, 1, "20"))
	require.NoError(t, m.SetUserInput("Sheet1", 3, 1, "30"))
	require.NoError(t, m.SetUserInput("Sheet1", 1, 2, "=INDEX(A1:A3,2)"))
	require.NoError(t, m.SetUserInput("Sheet1", 1, 3, "=MATCH(30,A1:A3,0)"))

	got, err := m.GetFormattedCellValue("Sheet1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "20", got)

	got, err = m.GetFormattedCellValue("Sheet1", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, "3", got)
}

func TestStatFamily(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, "1"))
	require.NoError(t, m.SetUserInput("Sheet1", 2, 1, "2"))
	require.NoError(t, m.SetUserInput("Sheet1", 3, 1, "3"))
	require.NoError(t, m.SetUserInput("Sheet1", 4, 1, "4"))
	require.NoError(t, m.SetUserInput("Sheet1", 1, 2, "=MAX(A1:A4)"))
	require.NoError(t, m.SetUserInput("Sheet1", 1, 3, "=MIN(A1:A4)"))
	require.NoError(t, m.SetUserInput("Sheet1", 1, 4, "=MEDIAN(A1:A4)"))
	require.NoError(t, m.SetUserInput("Sheet1", 1, 5, "=COUNT(A1:A4)"))

	cases := map[int]string{2: "4", 3: "1", 4: "2.5", 5: "4"}
	for col, want := range cases {
		got, err := m.GetFormattedCellValue("Sheet1", 1, col)
		require.NoError(t, err)
		assert.Equal(t, want, got, "col %d", col)
	}
}

func TestDatetimeFamily(t *testing.T) {
	assert.Equal(t, "2024", eval(t, "=YEAR(DATE(2024,3,15))"))
	assert.Equal(t, "3", eval(t, "=MONTH(DATE(2024,3,15))"))
	assert.Equal(t, "15", eval(t, "=DAY(DATE(2024,3,15))"))
}

func TestInfoFamily(t *testing.T) {
	assert.Equal(t, "TRUE", eval(t, "=ISNUMBER(1)"))
	assert.Equal(t, "FALSE", eval(t, `=ISNUMBER("x")`))
	assert.Equal(t, "TRUE", eval(t, `=ISTEXT("x")`))
	assert.Equal(t, "TRUE", eval(t, "=ISERROR(1/0)"))
}

func TestEngineeringFamily(t *testing.T) {
	assert.Equal(t, "5", eval(t, "=BIN2DEC(101)"))
	assert.Equal(t, "1010", eval(t, "=DEC2BIN(10)"))
	assert.Equal(t, "A", eval(t, "=DEC2HEX(10)"))
}

func TestFinancialFamily(t *testing.T) {
	got := eval(t, "=PMT(0.1/12,12,1000)")
	assert.NotEmpty(t, got)
	assert.NotEqual(t, ErrorKindVALUE.String(), got)
}

func TestDatabaseFamily(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, "Amount"))
	require.NoError(t, m.SetUserInput("Sheet1", 2, 1, "10"))
	require.NoError(t, m.SetUserInput("Sheet1", 3, 1, "20"))
	require.NoError(t, m.SetUserInput("Sheet1", 1, 3, "Amount"))
	require.NoError(t, m.SetUserInput("Sheet1", 2, 3, ">5"))
	require.NoError(t, m.SetUserInput("Sheet1", 1, 4, "=DSUM(A1:A3,1,C1:C2)"))

	got, err := m.GetFormattedCellValue("Sheet1", 1, 4)
	require.NoError(t, err)
	assert.Equal(t, "30", got)
}

func TestMatrixFamily(t *testing.T) {
	m := NewEmpty("en-US", "UTC")
	require.NoError(t, m.SetUserInput("Sheet1", 1, 1, "1"))
	require.NoError(t, m.SetUserInput("Sheet1", 1, 2, "2"))
	require.NoError(t, m.SetUserInput("Sheet1", 2, 1, "3"))
	require.NoError(t, m.SetUserInput("Sheet1", 2, 2, "4"))
	require.NoError(t, m.SetUserInput("Sheet1", 1, 4, "=MDETERM(A1:B2)"))

	got, err := m.GetFormattedCellValue("Sheet1", 1, 4)
	require.NoError(t, err)
	assert.Equal(t, "-2", got)
}
