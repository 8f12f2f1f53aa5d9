// Command snaketerm plays snake locally in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"github.com/kuredoro/snake_serial/config"
	"github.com/kuredoro/snake_serial/engine/console"
	"github.com/kuredoro/snake_serial/engine/loop"
	"github.com/kuredoro/snake_serial/engine/sim"
	"github.com/kuredoro/snake_serial/internal/cli"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	logFile := flag.String("log", "snaketerm.log", "log file used when the config names none")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		cli.PrintErr("load config:", err)
		os.Exit(2)
	}

	// The terminal belongs to tcell, logs go to a file.
	if cfg.Log.File == "" {
		cfg.Log.File = *logFile
	}

	closeLog, err := cfg.Log.Setup(os.Stderr)
	if err != nil {
		cli.PrintErr("setup logging:", err)
		os.Exit(2)
	}
	defer closeLog()

	app := tview.NewApplication()

	play := func() {
		app.Suspend(func() {
			if err := playLocal(cfg); err != nil {
				log.Err(err).Msg("Play")
			}
		})
	}

	app.SetRoot(console.Cover(app, play, app.Stop), true)

	if err := app.Run(); err != nil {
		cli.PrintErr("run ui:", err)
		os.Exit(1)
	}
}

// playLocal runs one game on a fresh screen until Esc or Ctrl-C.
func playLocal(cfg config.Config) error {
	game, err := sim.New(cfg.Board)
	if err != nil {
		return fmt.Errorf("new game: %w", err)
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("new screen: %w", err)
	}

	if err := s.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer s.Fini()

	screen := console.NewScreen(s)
	keys := console.NewKeySource(s)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-keys.Quit():
			cancel()
		case <-ctx.Done():
		}
	}()

	l := loop.New(game, keys, screen, cfg.Loop)
	l.SetIndicator(screen)

	err = l.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info().
			Int("score", game.Score()).
			Str("session", l.Session()).
			Msg("Left the game")
		return nil
	}

	return err
}
