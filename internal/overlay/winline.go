// Package overlay maps a winning sequence onto the pixel space of the overlay canvas.
package overlay

import "github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"

// Point is a position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a cell bounding box in viewport coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

func (that Rect) midX() float64 { return (that.Left + that.Right) / 2 }

func (that Rect) midY() float64 { return (that.Top + that.Bottom) / 2 }

type Line struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// BoxProvider answers the bounding box of a cell by its flat index.
// The second result is false when the layout has not been measured yet.
type BoxProvider interface {
	CellBox(index int) (Rect, bool)
}

// Boxes is a BoxProvider over measured boxes indexed row-major. Nil entries are unmeasured cells.
type Boxes []*Rect

func (that Boxes) CellBox(index int) (Rect, bool) {
	if index < 0 || index >= len(that) || that[index] == nil {
		return Rect{}, false
	}
	return *that[index], true
}

// WinLine - computes the overlay line of a winning sequence, in the overlay's local coordinates.
// It reports false when there is nothing to draw: no sequence, or the endpoint cells are not measured.
func WinLine(seq *entity.WinningSequence, boxes BoxProvider, origin Point) (Line, bool) {
	if seq == nil || boxes == nil {
		return Line{}, false
	}

	firstCell, lastCell := seq.Endpoints()

	first, ok := boxes.CellBox(firstCell.Index())
	if !ok {
		return Line{}, false
	}

	last, ok := boxes.CellBox(lastCell.Index())
	if !ok {
		return Line{}, false
	}

	var line Line

	switch seq.Type {
	case entity.LineRow:
		line = Line{
			Start: Point{X: first.Left, Y: first.midY()},
			End:   Point{X: last.Right, Y: last.midY()},
		}
	case entity.LineColumn:
		line = Line{
			Start: Point{X: first.midX(), Y: first.Top},
			End:   Point{X: last.midX(), Y: last.Bottom},
		}
	case entity.LineDiagonalDescending:
		line = Line{
			Start: Point{X: first.Left, Y: first.Top},
			End:   Point{X: last.Right, Y: last.Bottom},
		}
	case entity.LineDiagonalAscending:
		line = Line{
			Start: Point{X: first.Right, Y: first.Top},
			End:   Point{X: last.Left, Y: last.Bottom},
		}
	default:
		return Line{}, false
	}

	return line.translate(origin), true
}

// translate - moves both points from viewport space into the space of a surface placed at origin.
func (that Line) translate(origin Point) Line {
	return Line{
		Start: Point{X: that.Start.X - origin.X, Y: that.Start.Y - origin.Y},
		End:   Point{X: that.End.X - origin.X, Y: that.End.Y - origin.Y},
	}
}
