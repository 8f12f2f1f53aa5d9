// Command snakeclient is a remote terminal for snakenode. It finds a host
// through its announcements, shows the frames it sends and forwards keys.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/i582/cfmt/cmd/cfmt"
	"github.com/rs/zerolog/log"

	"github.com/kuredoro/snake_serial/config"
	"github.com/kuredoro/snake_serial/engine/console"
	"github.com/kuredoro/snake_serial/internal/cli"
	"github.com/kuredoro/snake_serial/protocol/remote"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	topic := flag.String("topic", "", "announcement topic, overrides the config file")
	wait := flag.Duration("wait", 30*time.Second, "how long to look for a host")
	logFile := flag.String("log", "snakeclient.log", "log file used when the config names none")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		cli.PrintErr("load config:", err)
		os.Exit(2)
	}

	if *topic != "" {
		cfg.Node.Topic = *topic
	}
	if cfg.Log.File == "" {
		cfg.Log.File = *logFile
	}

	closeLog, err := cfg.Log.Setup(os.Stderr)
	if err != nil {
		cli.PrintErr("setup logging:", err)
		os.Exit(2)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfmt.Printf("{{Looking}}::lightYellow|bold for a host on topic %q...\n", cfg.Node.Topic)

	dialCtx, cancel := context.WithTimeout(ctx, *wait)
	c, err := remote.Dial(dialCtx, cfg.Node)
	cancel()
	if err != nil {
		cli.PrintErr("find host:", err)
		os.Exit(1)
	}

	err = attach(ctx, c)

	if cerr := c.Close(); cerr != nil {
		log.Err(cerr).Msg("Close client")
	}

	if err != nil {
		cli.PrintErr("terminal:", err)
		os.Exit(1)
	}
}

// attach shows the host's frames on a tcell screen and sends keys back
// until Esc, a signal or the host hanging up.
func attach(ctx context.Context, rw io.ReadWriter) error {
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

	copyDone := make(chan error, 1)
	go func() {
		_, err := io.Copy(screen, rw)
		copyDone <- err
	}()

	for {
		select {
		case b, ok := <-keys.Keys():
			if !ok {
				return nil
			}

			if _, err := rw.Write([]byte{b}); err != nil {
				return fmt.Errorf("send key: %w", err)
			}
		case <-keys.Quit():
			return nil
		case err := <-copyDone:
			if err != nil {
				return fmt.Errorf("receive frames: %w", err)
			}
			log.Info().Msg("Host hung up")
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}
