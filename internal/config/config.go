// Package config loads server settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Game   GameConfig   `yaml:"game"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Addr            string `yaml:"addr"`
	AllowOrigins    string `yaml:"allow_origins"`
	ReadBufferSize  int    `yaml:"read_buffer_size"`
	WriteBufferSize int    `yaml:"write_buffer_size"`
}

type GameConfig struct {
	// Clock is each side's starting time.
	Clock               time.Duration `yaml:"clock"`
	ForbidSelfCheck     bool          `yaml:"forbid_self_check"`
	MatchmakingInterval time.Duration `yaml:"matchmaking_interval"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

var ErrInvalid = errors.New("invalid config")

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":3000",
			AllowOrigins:    "http://localhost:5173",
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		Game: GameConfig{
			Clock:               10 * time.Minute,
			ForbidSelfCheck:     true,
			MatchmakingInterval: time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML into cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is empty"))
	}
	if c.Server.ReadBufferSize <= 0 || c.Server.WriteBufferSize <= 0 {
		errs = append(errs, errors.New("server buffer sizes must be positive"))
	}
	if c.Game.Clock <= 0 {
		errs = append(errs, fmt.Errorf("game.clock must be positive, got %s", c.Game.Clock))
	}
	if c.Game.MatchmakingInterval <= 0 {
		errs = append(errs, fmt.Errorf("game.matchmaking_interval must be positive, got %s", c.Game.MatchmakingInterval))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not text or json", c.Log.Format))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is unknown", c.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
