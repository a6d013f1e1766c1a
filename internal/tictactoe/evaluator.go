package tictactoe

import "github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"

type line struct {
	kind  entity.LineType
	cells [3]entity.Cell
}

// winLines lists every line in scan order: rows top to bottom, columns left to right,
// then the descending and the ascending diagonal. The first complete line wins.
var winLines = [8]line{
	{entity.LineRow, [3]entity.Cell{at(0, 0), at(0, 1), at(0, 2)}},
	{entity.LineRow, [3]entity.Cell{at(1, 0), at(1, 1), at(1, 2)}},
	{entity.LineRow, [3]entity.Cell{at(2, 0), at(2, 1), at(2, 2)}},
	{entity.LineColumn, [3]entity.Cell{at(0, 0), at(1, 0), at(2, 0)}},
	{entity.LineColumn, [3]entity.Cell{at(0, 1), at(1, 1), at(2, 1)}},
	{entity.LineColumn, [3]entity.Cell{at(0, 2), at(1, 2), at(2, 2)}},
	{entity.LineDiagonalDescending, [3]entity.Cell{at(0, 0), at(1, 1), at(2, 2)}},
	{entity.LineDiagonalAscending, [3]entity.Cell{at(0, 2), at(1, 1), at(2, 0)}},
}

func at(row, col int) entity.Cell {
	return entity.Cell{Row: row, Col: col}
}

// CheckWinner - returns the first completed line of the board, or nil if there is none.
func CheckWinner(board entity.Board) *entity.WinningSequence {
	for _, ln := range winLines {
		a, b, c := board.At(ln.cells[0]), board.At(ln.cells[1]), board.At(ln.cells[2])
		if a != entity.EmptyCell && a == b && b == c {
			return &entity.WinningSequence{
				Type:     ln.kind,
				Sequence: ln.cells,
			}
		}
	}

	return nil
}

// IsMoveAvailable - reports whether at least one cell is still empty.
func IsMoveAvailable(board entity.Board) bool {
	for _, row := range board {
		for _, cell := range row {
			if cell == entity.EmptyCell {
				return true
			}
		}
	}

	return false
}

// Status - derives the game status from the board and the winning sequence.
func Status(board entity.Board, seq *entity.WinningSequence) entity.GameStatus {
	switch {
	case seq != nil:
		return entity.StatusWin
	case !IsMoveAvailable(board):
		return entity.StatusDraw
	default:
		return entity.StatusInProgress
	}
}
