// Package layout places flat record slices into fixed-size table grids
// and splits oversized record sets into pages. Everything in here is
// pure arithmetic over slices; rendering is someone else's job.
package layout

import "strings"

// Grid is the fixed table shape of one flashcard page.
type Grid struct {
	Rows int
	Cols int
}

func (g Grid) Capacity() int {
	return g.Rows * g.Cols
}

// Position maps a flat record index to its cell in row-major order.
func Position(index, cols int) (row, col int) {
	return index / cols, index % cols
}

// Mirror rearranges seq so that each table row reads right-to-left:
// the value at column c moves to column cols-1-c of the same row. The
// result always has exactly capacity entries; slots past len(seq) hold
// a single space so untouched cells stay visually empty. len(seq) must
// not exceed capacity (pre-paginate before calling).
func Mirror(seq []string, cols, capacity int) []string {
	out := make([]string, capacity)
	for i := range out {
		out[i] = " "
	}
	for i, v := range seq {
		row, col := Position(i, cols)
		out[row*cols+cols-1-col] = v
	}
	return out
}

// Cell is the render instruction for one table cell. The sentence is
// split around the first occurrence of its keyword; Bold is the part
// the renderer must emphasize. If the keyword does not occur, Before
// carries the whole sentence unemphasized.
type Cell struct {
	Row    int
	Col    int
	Before string
	Bold   string
	After  string
}

// SplitBold partitions sentence around the first occurrence of word.
func SplitBold(sentence, word string) (before, bold, after string) {
	if word == "" {
		return sentence, "", ""
	}
	i := strings.Index(sentence, word)
	if i == -1 {
		return sentence, "", ""
	}
	return sentence[:i], word, sentence[i+len(word):]
}

// Cells builds row-major render instructions for sentences with their
// keywords. Both slices must have the same length, at most cols rows'
// worth per the caller's grid.
func Cells(sentences, words []string, cols int) []Cell {
	cells := make([]Cell, len(sentences))
	for i, sentence := range sentences {
		row, col := Position(i, cols)
		before, bold, after := SplitBold(sentence, words[i])
		cells[i] = Cell{Row: row, Col: col, Before: before, Bold: bold, After: after}
	}
	return cells
}

// MirroredCells is Cells with both slices passed through Mirror first,
// producing the column-reversed target-language table. Mirrored blank
// slots come out as plain space cells.
func MirroredCells(sentences, words []string, g Grid) []Cell {
	return Cells(
		Mirror(sentences, g.Cols, g.Capacity()),
		Mirror(words, g.Cols, g.Capacity()),
		g.Cols,
	)
}
