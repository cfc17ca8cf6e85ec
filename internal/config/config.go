package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"zenchat/internal/models"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultMinDelayMS = 1000
	defaultMaxDelayMS = 3000
	defaultStore      = "memory"
	defaultLogLevel   = "info"
	defaultLogFormat  = "console"
)

// Config is the contents of ~/.zenchat/config.toml
type Config struct {
	Chat    ChatConfig    `toml:"chat"`
	Logging LoggingConfig `toml:"logging"`
}

type ChatConfig struct {
	Mode       string `toml:"mode"`
	MinDelayMS int    `toml:"min_delay_ms"`
	MaxDelayMS int    `toml:"max_delay_ms"`
	Store      string `toml:"store"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Path   string `toml:"path"`
}

// Default returns the configuration used when no file exists
func Default() Config {
	return Config{
		Chat: ChatConfig{
			Mode:       string(models.ModeSystem),
			MinDelayMS: defaultMinDelayMS,
			MaxDelayMS: defaultMaxDelayMS,
			Store:      defaultStore,
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
			Path:   filepath.Join(os.TempDir(), "zenchat.log"),
		},
	}
}

// DefaultPath returns ~/.zenchat/config.toml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".zenchat", "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path means
// DefaultPath. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// keys present but empty in the file fall back to defaults
func (c *Config) fillDefaults() {
	def := Default()
	if c.Chat.Mode == "" {
		c.Chat.Mode = def.Chat.Mode
	}
	if c.Chat.Store == "" {
		c.Chat.Store = def.Chat.Store
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
	if c.Logging.Path == "" {
		c.Logging.Path = def.Logging.Path
	}
}

// Validate checks value ranges and enumerations
func (c Config) Validate() error {
	if _, err := models.ParseMode(c.Chat.Mode); err != nil {
		return err
	}
	switch c.Chat.Store {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown store %q (want memory or sqlite)", c.Chat.Store)
	}
	if c.Chat.MinDelayMS < 0 || c.Chat.MaxDelayMS < 0 {
		return errors.New("reply delays must not be negative")
	}
	if c.Chat.MinDelayMS > c.Chat.MaxDelayMS {
		return fmt.Errorf("min_delay_ms (%d) is greater than max_delay_ms (%d)", c.Chat.MinDelayMS, c.Chat.MaxDelayMS)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q (want console or json)", c.Logging.Format)
	}
	return nil
}

// ModeValue returns the configured display mode
func (c ChatConfig) ModeValue() models.Mode {
	return models.Mode(c.Mode)
}

// MinDelay returns the lower bound of the reply delay
func (c ChatConfig) MinDelay() time.Duration {
	return time.Duration(c.MinDelayMS) * time.Millisecond
}

// MaxDelay returns the upper bound of the reply delay
func (c ChatConfig) MaxDelay() time.Duration {
	return time.Duration(c.MaxDelayMS) * time.Millisecond
}
