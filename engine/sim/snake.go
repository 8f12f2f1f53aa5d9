package sim

import (
	"github.com/kuredoro/snake_serial/core"
	"golang.org/x/exp/slices"
)

// Snake keeps its segments in a fixed-capacity buffer, head first. Only
// the first length entries are occupied.
type Snake struct {
	segs    []core.Coord
	length  int
	heading core.Direction
	moved   core.Direction
}

func newSnake(capacity int) Snake {
	return Snake{segs: make([]core.Coord, capacity)}
}

func (s *Snake) Segments() []core.Coord {
	return s.segs[:s.length]
}

func (s *Snake) Head() core.Coord {
	return s.segs[0]
}

func (s *Snake) Len() int {
	return s.length
}

func (s *Snake) Cap() int {
	return len(s.segs)
}

func (s *Snake) Heading() core.Direction {
	return s.heading
}

func (s *Snake) Contains(c core.Coord) bool {
	return slices.Contains(s.Segments(), c)
}

// turn changes the heading unless d would send the head back into the
// segment it just left.
func (s *Snake) turn(d core.Direction) bool {
	if d.IsOpposite(s.moved) {
		return false
	}
	s.heading = d
	return true
}

// advance moves the head to head. When grow is set and there is room the
// tail stays in place.
func (s *Snake) advance(head core.Coord, grow bool) {
	if grow && s.length < len(s.segs) {
		s.length++
	}
	for i := s.length - 1; i > 0; i-- {
		s.segs[i] = s.segs[i-1]
	}
	s.segs[0] = head
	s.moved = s.heading
}

func (s *Snake) reset(body []core.Coord, heading core.Direction) {
	clear(s.segs)
	s.length = copy(s.segs, body)
	s.heading = heading
	s.moved = heading
}
