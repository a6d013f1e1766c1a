package entity

type LineType string

const (
	LineRow                LineType = "row"
	LineColumn             LineType = "column"
	LineDiagonalDescending LineType = "diagonal-descending" // top-left to bottom-right
	LineDiagonalAscending  LineType = "diagonal-ascending"  // top-right to bottom-left
)

// WinningSequence describes a completed line of three equal symbols.
//
// Cells are ordered by ascending row, then ascending column. Consumers that need the
// line endpoints must use Endpoints, which enforces that ordering even for a sequence
// built by hand.
type WinningSequence struct {
	Type     LineType `json:"type"`
	Sequence [3]Cell  `json:"sequence"`
}

// Endpoints - returns the first and the last cell of the line.
func (that *WinningSequence) Endpoints() (Cell, Cell) {
	first, last := that.Sequence[0], that.Sequence[0]
	for _, cell := range that.Sequence[1:] {
		if cellBefore(cell, first) {
			first = cell
		}
		if cellBefore(last, cell) {
			last = cell
		}
	}

	return first, last
}

func cellBefore(a, b Cell) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}
