package sim

import (
	"fmt"

	"github.com/kuredoro/snake_serial/core"
	"github.com/rs/zerolog/log"
)

// FoodReward is added to the score for every food eaten.
const FoodReward = 10

const (
	minWidth    = 8
	minHeight   = 5
	minCapacity = 3
)

type Config struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	Capacity int `yaml:"capacity"`
}

func DefaultConfig() Config {
	return Config{
		Width:    20,
		Height:   15,
		Capacity: 100,
	}
}

func (c Config) Validate() error {
	if c.Width < minWidth || c.Height < minHeight {
		return fmt.Errorf("board %dx%d is smaller than %dx%d", c.Width, c.Height, minWidth, minHeight)
	}
	if c.Capacity < minCapacity {
		return fmt.Errorf("snake capacity %d is less than %d", c.Capacity, minCapacity)
	}
	return nil
}

// Game is the whole simulation state. It has a single owner: nothing in
// it is safe for concurrent use.
type Game struct {
	cfg   Config
	board Board
	snake Snake
	food  core.Coord
	score int
	over  bool
}

func New(cfg Config) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}

	g := &Game{
		cfg:   cfg,
		board: newBoard(cfg.Width, cfg.Height),
		snake: newSnake(cfg.Capacity),
	}
	g.Reset()
	return g, nil
}

// Reset puts every field back to the starting position: a three segment
// snake in the middle of the board heading right, with the food a few
// cells ahead of it.
func (g *Game) Reset() {
	cx, cy := g.cfg.Width/2, g.cfg.Height/2
	g.snake.reset([]core.Coord{
		{X: cx, Y: cy},
		{X: cx - 1, Y: cy},
		{X: cx - 2, Y: cy},
	}, core.Right)

	foodX := cx + 5
	if foodX > g.cfg.Width-2 {
		foodX = g.cfg.Width - 2
	}
	g.food = core.Coord{X: foodX, Y: cy}
	g.score = 0
	g.over = false
	g.board.rebuild(g.snake.Segments(), g.food)
}

// ApplyDirection changes the heading. Reversing into the neck is ignored.
func (g *Game) ApplyDirection(d core.Direction) {
	g.snake.turn(d)
}

// Tick advances the game by one step. It does nothing once the game is
// over; only Reset brings it back.
func (g *Game) Tick() {
	if g.over {
		return
	}

	newHead := step(g.snake.Head(), g.snake.Heading())
	if g.board.IsWall(newHead) || g.snake.Contains(newHead) {
		g.over = true
		log.Debug().
			Int("x", newHead.X).
			Int("y", newHead.Y).
			Int("score", g.score).
			Msg("Snake crashed")
		return
	}

	eating := core.EqualCoord(newHead, g.food)
	g.snake.advance(newHead, eating)
	if eating {
		g.score += FoodReward
		g.placeFood()
		log.Debug().Msgf("Food on (%d, %d) eaten, next on (%d, %d)", newHead.X, newHead.Y, g.food.X, g.food.Y)
	}

	g.board.rebuild(g.snake.Segments(), g.food)
}

// placeFood moves the food by a fixed offset, wrapping inside the walls.
// A candidate on the snake gets a single nudge to the right and is then
// accepted as is.
func (g *Game) placeFood() {
	w, h := g.cfg.Width-2, g.cfg.Height-2
	next := core.Coord{
		X: (g.food.X+3)%w + 1,
		Y: (g.food.Y+2)%h + 1,
	}
	if g.snake.Contains(next) {
		next.X = (next.X+1)%w + 1
		if g.snake.Contains(next) {
			log.Warn().Int("x", next.X).Int("y", next.Y).Msg("Food placed on snake")
		}
	}
	g.food = next
}

// step moves c one cell in d. Coordinates saturate at zero; the wall
// check that follows ends the game anyway.
func step(c core.Coord, d core.Direction) core.Coord {
	delta := d.Delta()
	c.X += delta.X
	c.Y += delta.Y
	if c.X < 0 {
		c.X = 0
	}
	if c.Y < 0 {
		c.Y = 0
	}
	return c
}

func (g *Game) Score() int { return g.score }
func (g *Game) Over() bool { return g.over }
func (g *Game) Food() core.Coord { return g.food }
func (g *Game) Heading() core.Direction { return g.snake.Heading() }
func (g *Game) Length() int { return g.snake.Len() }
func (g *Game) Segments() []core.Coord { return append([]core.Coord(nil), g.snake.Segments()...) }
func (g *Game) Config() Config { return g.cfg }

// Snapshot is a read-only copy of the game handed to renderers.
type Snapshot struct {
	Board    Board
	Snake    []core.Coord
	Food     core.Coord
	Heading  core.Direction
	Score    int
	GameOver bool
}

func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Board:    g.board.clone(),
		Snake:    g.Segments(),
		Food:     g.food,
		Heading:  g.snake.Heading(),
		Score:    g.score,
		GameOver: g.over,
	}
}

func (s Snapshot) Length() int {
	return len(s.Snake)
}
