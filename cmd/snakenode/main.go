// Command snakenode hosts one game for every remote terminal that connects
// to it over libp2p.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/i582/cfmt/cmd/cfmt"
	"github.com/rs/zerolog/log"

	"github.com/kuredoro/snake_serial/config"
	"github.com/kuredoro/snake_serial/core"
	"github.com/kuredoro/snake_serial/engine/loop"
	"github.com/kuredoro/snake_serial/engine/sim"
	"github.com/kuredoro/snake_serial/internal/cli"
	"github.com/kuredoro/snake_serial/protocol/remote"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	listen := flag.String("listen", "", "multiaddr to listen on, overrides the config file")
	topic := flag.String("topic", "", "announcement topic, overrides the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		cli.PrintErr("load config:", err)
		os.Exit(2)
	}

	if *listen != "" {
		cfg.Node.Listen = *listen
	}
	if *topic != "" {
		cfg.Node.Topic = *topic
	}

	closeLog, err := cfg.Log.Setup(os.Stderr)
	if err != nil {
		cli.PrintErr("setup logging:", err)
		os.Exit(2)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	node, err := remote.NewNode(ctx, cfg.Node)
	if err != nil {
		cli.PrintErr("new node:", err)
		os.Exit(1)
	}

	cfmt.Printf("{{Hosting}}::lightGreen|bold games on topic %q\n", cfg.Node.Topic)

	var wg sync.WaitGroup
	for {
		select {
		case t := <-node.Terminals:
			wg.Add(1)
			go func() {
				defer wg.Done()
				serve(ctx, node, t, cfg)
			}()
			continue
		case <-ctx.Done():
		}

		break
	}

	log.Info().Msg("Shutting down")

	if err := node.Close(); err != nil {
		cli.PrintErr("close node:", err)
	}

	wg.Wait()
}

// serve plays one game with t until the terminal leaves, stops answering
// pings or the node shuts down.
func serve(ctx context.Context, node *remote.Node, t *remote.Terminal, cfg config.Config) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-t.Lost():
			cancel()
		case <-ctx.Done():
		}
	}()

	logger := log.Logger.With().Str("peer", t.Peer.ShortString()).Logger()

	game, err := sim.New(cfg.Board)
	if err != nil {
		logger.Err(err).Msg("New game")
		return
	}

	l := loop.New(game, t.Link, t.Link, cfg.Loop)
	logger.Info().Str("session", l.Session()).Msg("Game started")

	err = l.Run(ctx)
	switch {
	case errors.Is(err, core.ErrClosed):
		logger.Info().Int("score", game.Score()).Msg("Terminal left")
	case errors.Is(err, context.Canceled):
		logger.Info().Int("score", game.Score()).Msg("Game stopped")
	default:
		logger.Err(err).Msg("Game loop")
	}

	if err := node.Sessions().Remove(t); err != nil {
		logger.Debug().Err(err).Msg("Remove terminal")
	}
}
