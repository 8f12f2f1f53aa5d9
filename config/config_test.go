package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kuredoro/snake_serial/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "snake.yaml")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		cfg, err := config.Load("")
		if err != nil {
			t.Fatalf("Load() returned error: %v", err)
		}
		if !reflect.DeepEqual(cfg, config.Default()) {
			t.Errorf("got %+v, want the defaults", cfg)
		}
		if cfg.Board.Width != 20 || cfg.Board.Height != 15 || cfg.Board.Capacity != 100 {
			t.Errorf("got board %+v, want 20x15 with capacity 100", cfg.Board)
		}
	})

	t.Run("file overrides part of the defaults", func(t *testing.T) {
		path := writeConfig(t, strings.Join([]string{
			"board:",
			"  width: 30",
			"frame_every: 150ms",
			"serial:",
			"  port: /dev/ttyUSB1",
			"log:",
			"  level: debug",
		}, "\n"))

		cfg, err := config.Load(path)
		if err != nil {
			t.Fatalf("Load() returned error: %v", err)
		}

		if cfg.Board.Width != 30 || cfg.Board.Height != 15 {
			t.Errorf("got board %dx%d, want 30x15", cfg.Board.Width, cfg.Board.Height)
		}
		if cfg.Loop.FrameEvery != 150*time.Millisecond {
			t.Errorf("got frame interval %v, want 150ms", cfg.Loop.FrameEvery)
		}
		if cfg.Loop.PollEvery != config.Default().Loop.PollEvery {
			t.Errorf("poll interval lost its default: %v", cfg.Loop.PollEvery)
		}
		if cfg.Serial.Port != "/dev/ttyUSB1" || cfg.Serial.Baud != 115200 {
			t.Errorf("got serial %+v", cfg.Serial)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("got log level %q, want debug", cfg.Log.Level)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		cases := map[string]string{
			"small board":   "board:\n  height: 3\n",
			"tiny capacity": "board:\n  capacity: 1\n",
			"zero frame":    "frame_every: 0s\n",
			"bad baud":      "serial:\n  baud: -1\n",
			"bad level":     "log:\n  level: loud\n",
			"not yaml":      "board: [",
		}

		for name, text := range cases {
			t.Run(name, func(t *testing.T) {
				if _, err := config.Load(writeConfig(t, text)); err == nil {
					t.Error("Load() returned no error")
				}
			})
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("Load() returned no error")
		}
	})
}

func TestLogSetup(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	defer func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	}()

	path := filepath.Join(t.TempDir(), "snake.log")
	closeLog, err := config.LogConfig{Level: "warn", File: path}.Setup(os.Stderr)
	if err != nil {
		t.Fatalf("Setup() returned error: %v", err)
	}

	log.Info().Msg("quiet")
	log.Warn().Msg("loud")
	if err := closeLog(); err != nil {
		t.Fatalf("close log: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "quiet") || !strings.Contains(string(data), "loud") {
		t.Errorf("log file contents %q do not respect the level", data)
	}
}
