// Command snakeserial plays snake on a terminal attached to a serial port.
// It runs until the process is killed.
package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/i582/cfmt/cmd/cfmt"
	"github.com/rs/zerolog/log"

	"github.com/kuredoro/snake_serial/config"
	"github.com/kuredoro/snake_serial/core"
	"github.com/kuredoro/snake_serial/engine/loop"
	"github.com/kuredoro/snake_serial/engine/sim"
	"github.com/kuredoro/snake_serial/internal/cli"
	"github.com/kuredoro/snake_serial/protocol/link"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	port := flag.String("port", "", "serial port, overrides the config file")
	baud := flag.Int("baud", 0, "baud rate, overrides the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		cli.PrintErr("load config:", err)
		os.Exit(2)
	}

	if *port != "" {
		cfg.Serial.Port = *port
	}
	if *baud > 0 {
		cfg.Serial.Baud = *baud
	}

	closeLog, err := cfg.Log.Setup(os.Stderr)
	if err != nil {
		cli.PrintErr("setup logging:", err)
		os.Exit(2)
	}
	defer closeLog()

	game, err := sim.New(cfg.Board)
	if err != nil {
		cli.PrintErr("new game:", err)
		os.Exit(2)
	}

	sl, err := link.OpenSerial(cfg.Serial.Port, cfg.Serial.Baud)
	if err != nil {
		cli.PrintErr("open %s:", cfg.Serial.Port, err)
		os.Exit(1)
	}

	cfmt.Printf("{{Playing}}::lightGreen|bold on %s at %d baud\n", cfg.Serial.Port, cfg.Serial.Baud)

	l := loop.New(game, sl, sl, cfg.Loop)
	l.SetIndicator(sl)

	err = l.Run(context.Background())
	if errors.Is(err, core.ErrClosed) {
		log.Warn().Str("port", cfg.Serial.Port).Msg("Serial port closed")
	}

	sl.Close()
	closeLog()

	cli.PrintErr("game loop:", err)
	os.Exit(1)
}
