package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPosition(t *testing.T) {
	row, col := Position(0, 3)
	assert.Equal(t, 0, row)
	assert.Equal(t, 0, col)

	row, col = Position(7, 3)
	assert.Equal(t, 2, row)
	assert.Equal(t, 1, col)
}

func TestPosition_RoundTrip(t *testing.T) {
	g := Grid{Rows: 4, Cols: 3}
	for i := 0; i < g.Capacity(); i++ {
		row, col := Position(i, g.Cols)
		assert.Equal(t, i, row*g.Cols+col)
	}
}

func TestMirror_SingleRow(t *testing.T) {
	out := Mirror([]string{"v0", "v1", "v2"}, 3, 3)
	assert.Equal(t, []string{"v2", "v1", "v0"}, out)
}

func TestMirror_ReversesWithinEachRow(t *testing.T) {
	out := Mirror([]string{"a", "b", "c", "d", "e", "f"}, 3, 6)
	assert.Equal(t, []string{"c", "b", "a", "f", "e", "d"}, out)
}

func TestMirror_PadsShortInputWithBlanks(t *testing.T) {
	out := Mirror([]string{"a", "b"}, 3, 6)
	assert.Equal(t, []string{" ", "b", "a", " ", " ", " "}, out)
}

func TestMirror_IsAnInvolution(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	assert.Equal(t, in, Mirror(Mirror(in, 3, 9), 3, 9))
}

func TestSplitBold(t *testing.T) {
	before, bold, after := SplitBold("The piercing whistling of the wind", "piercing")
	assert.Equal(t, "The ", before)
	assert.Equal(t, "piercing", bold)
	assert.Equal(t, " whistling of the wind", after)
}

func TestSplitBold_FirstOccurrenceOnly(t *testing.T) {
	before, bold, after := SplitBold("tick tock tick", "tick")
	assert.Equal(t, "", before)
	assert.Equal(t, "tick", bold)
	assert.Equal(t, " tock tick", after)
}

func TestSplitBold_MissingWordFallsBackToPlainSentence(t *testing.T) {
	before, bold, after := SplitBold("Aucun rapport.", "piercing")
	assert.Equal(t, "Aucun rapport.", before)
	assert.Empty(t, bold)
	assert.Empty(t, after)

	before, bold, after = SplitBold("Sentence.", "")
	assert.Equal(t, "Sentence.", before)
	assert.Empty(t, bold)
	assert.Empty(t, after)
}

func TestCells_RowMajorPlacement(t *testing.T) {
	cells := Cells(
		[]string{"a x", "b y", "c z", "d w"},
		[]string{"x", "y", "z", "w"},
		3,
	)

	if assert.Len(t, cells, 4) {
		assert.Equal(t, Cell{Row: 0, Col: 0, Before: "a ", Bold: "x"}, cells[0])
		assert.Equal(t, Cell{Row: 0, Col: 2, Before: "c ", Bold: "z"}, cells[2])
		assert.Equal(t, Cell{Row: 1, Col: 0, Before: "d ", Bold: "w"}, cells[3])
	}
}

func TestMirroredCells_FullGridWithBlanks(t *testing.T) {
	g := Grid{Rows: 2, Cols: 2}
	cells := MirroredCells([]string{"le mot", "la vie"}, []string{"mot", "vie"}, g)

	if assert.Len(t, cells, g.Capacity()) {
		// Row 0 mirrored: ("la vie", "le mot")
		assert.Equal(t, Cell{Row: 0, Col: 0, Before: "la ", Bold: "vie"}, cells[0])
		assert.Equal(t, Cell{Row: 0, Col: 1, Before: "le ", Bold: "mot"}, cells[1])
		// Unfilled slots stay blank.
		assert.Equal(t, 1, cells[2].Row)
		assert.Equal(t, " ", cells[2].Before+cells[2].Bold+cells[2].After)
	}
}
