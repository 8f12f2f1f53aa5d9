package sim

import "github.com/kuredoro/snake_serial/core"

// Board is a row-major view of the grid. It is rebuilt from the snake and
// the food after every mutation and holds no state of its own.
type Board struct {
	W, H  int
	Cells []core.Cell
}

func newBoard(w, h int) Board {
	return Board{W: w, H: h, Cells: make([]core.Cell, w*h)}
}

func (b Board) index(c core.Coord) int {
	return c.Y*b.W + c.X
}

func (b Board) InBounds(c core.Coord) bool {
	return c.X >= 0 && c.X < b.W && c.Y >= 0 && c.Y < b.H
}

// IsWall reports whether c lies on the outer ring. Out of bounds
// coordinates count as wall.
func (b Board) IsWall(c core.Coord) bool {
	if !b.InBounds(c) {
		return true
	}
	return c.X == 0 || c.X == b.W-1 || c.Y == 0 || c.Y == b.H-1
}

func (b Board) At(c core.Coord) core.Cell {
	if !b.InBounds(c) {
		return core.Wall
	}
	return b.Cells[b.index(c)]
}

// Row returns row y. The slice aliases the board.
func (b Board) Row(y int) []core.Cell {
	return b.Cells[y*b.W : (y+1)*b.W]
}

func (b Board) rebuild(segments []core.Coord, food core.Coord) {
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			c := core.Coord{X: x, Y: y}
			if b.IsWall(c) {
				b.Cells[b.index(c)] = core.Wall
			} else {
				b.Cells[b.index(c)] = core.Empty
			}
		}
	}

	if b.InBounds(food) {
		b.Cells[b.index(food)] = core.Food
	}
	for _, s := range segments {
		if b.InBounds(s) {
			b.Cells[b.index(s)] = core.SnakeBody
		}
	}
}

func (b Board) clone() Board {
	cells := make([]core.Cell, len(b.Cells))
	copy(cells, b.Cells)
	return Board{W: b.W, H: b.H, Cells: cells}
}
