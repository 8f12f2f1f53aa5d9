package loop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kuredoro/snake_serial/core"
	"github.com/kuredoro/snake_serial/engine/console"
	"github.com/kuredoro/snake_serial/engine/sim"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Source delivers at most one input byte per call and never blocks.
// ok is false when nothing has arrived.
type Source interface {
	Poll() (b byte, ok bool, err error)
}

// Sink accepts a whole frame, in order.
type Sink interface {
	WriteAll(p []byte) error
}

// Indicator is a single on/off lamp.
type Indicator interface {
	Set(on bool)
}

type Config struct {
	FrameEvery time.Duration `yaml:"frame_every"`
	PollEvery  time.Duration `yaml:"poll_every"`
}

func DefaultConfig() Config {
	return Config{
		FrameEvery: 200 * time.Millisecond,
		PollEvery:  10 * time.Millisecond,
	}
}

func (c Config) Validate() error {
	if c.FrameEvery <= 0 {
		return fmt.Errorf("frame interval %v is not positive", c.FrameEvery)
	}
	if c.PollEvery <= 0 {
		return fmt.Errorf("poll interval %v is not positive", c.PollEvery)
	}
	return nil
}

// Loop owns one game and drives it from one source into one sink.
type Loop struct {
	game *sim.Game
	src  Source
	sink Sink
	led  Indicator
	cfg  Config

	session string
	frame   []byte
	wasOver bool
	log     zerolog.Logger
}

func New(game *sim.Game, src Source, sink Sink, cfg Config) *Loop {
	session := uuid.NewString()

	return &Loop{
		game: game,
		src:  src,
		sink: sink,
		cfg:  cfg,

		session: session,
		log:     log.Logger.With().Str("session", session).Logger(),
	}
}

// SetIndicator attaches a lamp that is lit while the snake is steered up
// or down and dark for left and right.
func (l *Loop) SetIndicator(led Indicator) {
	l.led = led
}

func (l *Loop) Session() string {
	return l.session
}

// Run greets the terminal and then alternates input polling with game
// ticks until ctx is done or the link closes.
func (l *Loop) Run(ctx context.Context) error {
	l.log.Info().
		Dur("frame_every", l.cfg.FrameEvery).
		Msg("Game loop started")

	if err := l.write([]byte(console.Banner)); err != nil {
		return err
	}
	if err := l.render(); err != nil {
		return err
	}

	poll := time.NewTicker(l.cfg.PollEvery)
	defer poll.Stop()
	frame := time.NewTicker(l.cfg.FrameEvery)
	defer frame.Stop()

	for {
		select {
		case <-ctx.Done():
			l.log.Info().Msg("Game loop stopped")
			return ctx.Err()
		case <-poll.C:
			if err := l.poll(); err != nil {
				return err
			}
		case <-frame.C:
			if err := l.step(); err != nil {
				return err
			}
		}
	}
}

func (l *Loop) poll() error {
	b, ok, err := l.src.Poll()
	if err != nil {
		if errors.Is(err, core.ErrClosed) {
			l.log.Info().Msg("Input closed")
			return err
		}

		l.log.Err(err).Msg("Poll input")
		return l.write([]byte(console.ReadErrLine))
	}
	if !ok {
		return nil
	}

	l.handle(b)
	return nil
}

func (l *Loop) handle(b byte) {
	if l.game.Over() {
		l.reset()
		return
	}

	cmd, ok := core.CommandFor(b)
	if !ok {
		l.log.Debug().Uint8("key", b).Msg("Key ignored")
		return
	}

	switch cmd := cmd.(type) {
	case core.Turn:
		l.game.ApplyDirection(cmd.Dir)
		if l.led != nil {
			l.led.Set(cmd.Dir == core.Up || cmd.Dir == core.Down)
		}
	case core.Reset:
		l.reset()
	}
}

func (l *Loop) reset() {
	l.game.Reset()
	l.wasOver = false
	l.log.Info().Msg("Game reset")
}

func (l *Loop) step() error {
	l.game.Tick()

	if over := l.game.Over(); over && !l.wasOver {
		l.log.Info().
			Int("score", l.game.Score()).
			Int("length", l.game.Length()).
			Msg("Game over")
		l.wasOver = true
	}

	return l.render()
}

func (l *Loop) render() error {
	l.frame = console.AppendFrame(l.frame[:0], l.game.Snapshot())
	return l.write(l.frame)
}

// write reports only closure; other sink failures are logged and the
// frame is dropped.
func (l *Loop) write(p []byte) error {
	err := l.sink.WriteAll(p)
	if err == nil {
		return nil
	}
	if errors.Is(err, core.ErrClosed) {
		l.log.Info().Msg("Output closed")
		return err
	}

	l.log.Err(err).Msg("Write frame")
	return nil
}
