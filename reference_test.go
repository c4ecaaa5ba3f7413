package ironcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnLettersToNumber(t *testing.T) {
	cases := []struct {
		letters string
		want    int
	}{
		{"A", 1},
		{"Z", 26},
		{"AA", 27},
		{"AZ", 52},
		{"XFD", LastColumn},
	}
	for _, c := range cases {
		got, err := ColumnLettersToNumber(c.letters)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "%s", c.letters)
	}

	_, err := ColumnLettersToNumber("")
	assert.ErrorIs(t, err, ErrInvalidColumn)
	_, err = ColumnLettersToNumber("XFE")
	assert.ErrorIs(t, err, ErrInvalidColumn)
	_, err = ColumnLettersToNumber("1A")
	assert.ErrorIs(t, err, ErrInvalidColumn)
}

func TestNumberToColumnLettersRoundTrip(t *testing.T) {
	for _, n := range []int{1, 26, 27, 52, 703, LastColumn} {
		letters, err := NumberToColumnLetters(n)
		require.NoError(t, err)
		back, err := ColumnLettersToNumber(letters)
		require.NoError(t, err)
		assert.Equal(t, n, back, "round trip for %d via %q", n, letters)
	}

	_, err := NumberToColumnLetters(0)
	assert.ErrorIs(t, err, ErrInvalidColumn)
	_, err = NumberToColumnLetters(LastColumn + 1)
	assert.ErrorIs(t, err, ErrInvalidColumn)
}

type fakeResolver map[string]bool

func (f fakeResolver) SheetExists(name string) bool { return f[name] }

func TestParseCellReferenceText(t *testing.T) {
	resolver := fakeResolver{"Sheet1": true, "Data Sheet": true}

	ref, err := ParseCellReferenceText("Sheet1", "$C$4", resolver)
	require.NoError(t, err)
	assert.Equal(t, ParsedRef{SheetName: "Sheet1", Row: 4, Column: 3, AbsoluteRow: true, AbsoluteCol: true}, ref)

	ref, err = ParseCellReferenceText("Sheet1", "B2", resolver)
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", ref.SheetName)
	assert.False(t, ref.AbsoluteRow)
	assert.False(t, ref.AbsoluteCol)

	ref, err = ParseCellReferenceText("Sheet1", "'Data Sheet'!A1", resolver)
	require.NoError(t, err)
	assert.Equal(t, "Data Sheet", ref.SheetName)
	assert.Equal(t, 1, ref.Row)
	assert.Equal(t, 1, ref.Column)

	_, err = ParseCellReferenceText("Sheet1", "not a ref", resolver)
	assert.Error(t, err)
}

func TestQuoteSheetName(t *testing.T) {
	assert.Equal(t, "Sheet1", quoteSheetName("Sheet1"))
	assert.Equal(t, "'Data Sheet'", quoteSheetName("Data Sheet"))
	assert.Equal(t, "'O''Brien'", quoteSheetName("O'Brien"))
}
