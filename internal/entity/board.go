package entity

type Symbol string

const (
	SymbolX Symbol = "x"
	SymbolO Symbol = "o"

	EmptyCell Symbol = ""

	BoardSize = 3
	CellCount = BoardSize * BoardSize
)

// Opposite - returns the other player symbol. Empty stays empty.
func (that Symbol) Opposite() Symbol {
	switch that {
	case SymbolX:
		return SymbolO
	case SymbolO:
		return SymbolX
	default:
		return EmptyCell
	}
}

// Cell addresses one square of the board.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// CellAt - converts a flat index (row-major) into a cell.
func CellAt(index int) Cell {
	return Cell{Row: index / BoardSize, Col: index % BoardSize}
}

func (that Cell) Index() int {
	return that.Row*BoardSize + that.Col
}

func (that Cell) InBounds() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

// Board is a value type: copying it copies every cell.
type Board [BoardSize][BoardSize]Symbol

// At - returns the symbol stored in the cell.
func (that Board) At(cell Cell) Symbol {
	return that[cell.Row][cell.Col]
}

// With - returns a new board with the symbol written into the cell. The receiver is left untouched.
func (that Board) With(cell Cell, symbol Symbol) Board {
	next := that
	next[cell.Row][cell.Col] = symbol

	return next
}

func (that Board) IsEmpty(cell Cell) bool {
	return that.At(cell) == EmptyCell
}
