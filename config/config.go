package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kuredoro/snake_serial/engine/loop"
	"github.com/kuredoro/snake_serial/engine/sim"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by all commands. Values missing from
// the file keep their defaults.
type Config struct {
	Board  sim.Config   `yaml:"board"`
	Loop   loop.Config  `yaml:",inline"`
	Serial SerialConfig `yaml:"serial"`
	Node   NodeConfig   `yaml:"node"`
	Log    LogConfig    `yaml:"log"`
}

type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// NodeConfig configures hosting games for remote terminals.
type NodeConfig struct {
	Listen         string        `yaml:"listen"`
	Topic          string        `yaml:"topic"`
	AnnounceEvery  time.Duration `yaml:"announce_every"`
	HeartbeatEvery time.Duration `yaml:"heartbeat_every"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func Default() Config {
	return Config{
		Board: sim.DefaultConfig(),
		Loop:  loop.DefaultConfig(),
		Serial: SerialConfig{
			Port: "/dev/ttyACM0",
			Baud: 115200,
		},
		Node: NodeConfig{
			Listen:         "/ip4/0.0.0.0/tcp/0",
			Topic:          "snake_serial",
			AnnounceEvery:  time.Second,
			HeartbeatEvery: time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if err := c.Board.Validate(); err != nil {
		return err
	}
	if err := c.Loop.Validate(); err != nil {
		return err
	}
	if c.Serial.Baud <= 0 {
		return fmt.Errorf("baud rate %d is not positive", c.Serial.Baud)
	}
	if c.Node.AnnounceEvery <= 0 || c.Node.HeartbeatEvery <= 0 {
		return fmt.Errorf("node intervals must be positive")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}
