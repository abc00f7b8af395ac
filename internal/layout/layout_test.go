package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func word(text string, x0, top float64) Word {
	return Word{Text: text, X0: x0, X1: x0 + float64(len(text))*5, Top: top, Bottom: top + 10, Size: 10}
}

func TestGroupRows(t *testing.T) {
	words := []Word{
		word("Bolt", 120, 201),
		word("2", 40, 200),
		word("Tool", 150, 201.5),
		word("wrapped", 120, 214),
		word("ALCJA-13ST", 60, 199),
	}

	rows := GroupRows(words, 3)
	require.Len(t, rows, 2)

	assert.Equal(t, "2 ALCJA-13ST Bolt Tool", rows[0].Text())
	assert.Equal(t, "wrapped", rows[1].Text())
}

func TestGroupRows_ToleranceBoundary(t *testing.T) {
	a := word("a", 0, 100)
	b := word("b", 10, 103)   // centre differs by exactly 3
	c := word("c", 20, 103.5) // centre differs by 3.5 from a

	rows := GroupRows([]Word{a, b, c}, 3)
	require.Len(t, rows, 2)
	assert.Equal(t, "a b", rows[0].Text())
	assert.Equal(t, "c", rows[1].Text())
}

func TestGroupRows_Empty(t *testing.T) {
	assert.Nil(t, GroupRows(nil, 3))
}

func TestRowSpacedText(t *testing.T) {
	row := Row{Words: []Word{
		{Text: "Sold", X0: 10, X1: 30},
		{Text: "To:", X0: 33, X1: 48},
		{Text: "Ship", X0: 300, X1: 320},
		{Text: "To:", X0: 323, X1: 338},
	}}

	assert.Equal(t, "Sold To:  Ship To:", row.SpacedText(20))
	assert.Equal(t, "Sold To: Ship To:", row.Text())
}

func TestInferColumns(t *testing.T) {
	labels := []Label{
		{Name: "unit", Left: 400},
		{Name: "qty", Left: 40},
		{Name: "item", Left: 80},
		{Name: "extended", Left: 480},
		{Name: "description", Left: 180},
	}

	cols := InferColumns(labels, 4)
	require.Len(t, cols, 5)

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"qty", "item", "description", "unit", "extended"}, names)

	assert.Equal(t, Column{Name: "qty", Left: 36, Right: 76}, cols[0])
	assert.Equal(t, Column{Name: "description", Left: 176, Right: 396}, cols[2])
	assert.Equal(t, 476.0, cols[4].Left)
	assert.True(t, math.IsInf(cols[4].Right, 1))
	assert.Nil(t, InferColumns(nil, 4))
}

func TestAssign(t *testing.T) {
	cols := InferColumns([]Label{
		{Name: "qty", Left: 40},
		{Name: "item", Left: 80},
		{Name: "unit", Left: 400},
	}, 4)

	row := Row{Words: []Word{
		{Text: "12", X0: 30, X1: 40},
		{Text: "ABC-1", X0: 82, X1: 110},
		{Text: "Widget", X0: 115, X1: 150},
		{Text: "1,221,775.00", X0: 388, X1: 445},
	}}

	cells := Assign(row, cols)
	assert.Equal(t, "12", cells["qty"])
	assert.Equal(t, "ABC-1 Widget", cells["item"])
	assert.Equal(t, "1,221,775.00", cells["unit"])
	assert.Empty(t, Assign(row, nil))
}

func TestFindPhrase(t *testing.T) {
	row := Row{Words: []Word{
		{Text: "Qty."}, {Text: "Item"}, {Text: "Number"},
		{Text: "Customer"}, {Text: "Item"}, {Text: "Number:"},
	}}

	assert.Equal(t, []int{1, 4}, FindPhrase(row, "Item Number"))
	assert.Equal(t, []int{3}, FindPhrase(row, "customer item number"))
	assert.Equal(t, []int{0}, FindPhrase(row, "Qty"))
	assert.Empty(t, FindPhrase(row, "Unit Price"))
	assert.Empty(t, FindPhrase(row, ""))
}

func TestBelow(t *testing.T) {
	label := Word{Text: "Customer", X0: 300, X1: 340, Top: 100, Bottom: 110}
	words := []Word{
		label,
		{Text: "No.", X0: 345, X1: 360, Top: 100, Bottom: 110},
		{Text: "11007-4", X0: 302, X1: 340, Top: 114, Bottom: 124},
		{Text: "far-right", X0: 500, X1: 540, Top: 112, Bottom: 122},
		{Text: "too-low", X0: 300, X1: 340, Top: 140, Bottom: 150},
	}

	got, ok := Below(words, label, 5, 25, 60, nil)
	require.True(t, ok)
	assert.Equal(t, "11007-4", got.Text)

	_, ok = Below(words, label, 5, 25, 60, func(s string) bool { return s == "nothing" })
	assert.False(t, ok)
}
