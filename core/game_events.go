package core

type Coord struct {
	X, Y int
}

func EqualCoord(a, b Coord) bool {
	return a.X == b.X && a.Y == b.Y
}

type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

var directionNames = [...]string{"up", "right", "down", "left"}

func (d Direction) String() string {
	if d < Up || d > Left {
		return "unknown"
	}
	return directionNames[d]
}

func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

func (d Direction) IsOpposite(other Direction) bool {
	return d.Opposite() == other
}

var shiftMap = map[Direction]Coord{
	Left:  {X: -1, Y: 0},
	Right: {X: 1, Y: 0},
	Up:    {X: 0, Y: -1},
	Down:  {X: 0, Y: 1},
}

func (d Direction) Delta() Coord {
	return shiftMap[d]
}

type Cell uint8

const (
	Empty Cell = iota
	Wall
	SnakeBody
	Food
)

// Turn asks the snake to change its heading.
type Turn struct {
	Dir Direction
}

// Reset reinitializes the game.
type Reset struct{}

// Command is either Turn or Reset.
type Command interface{}

var key2Command = map[byte]Command{
	'w': Turn{Dir: Up},
	'a': Turn{Dir: Left},
	's': Turn{Dir: Down},
	'd': Turn{Dir: Right},
	'r': Reset{},
}

// CommandFor maps an input byte to a command. Unknown bytes are not
// mapped at all.
func CommandFor(b byte) (Command, bool) {
	cmd, ok := key2Command[b]
	return cmd, ok
}
