package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	UI       UIConfig       `mapstructure:"ui"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds game server connection settings.
type ServerConfig struct {
	URL              string        `mapstructure:"url"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Locale string `mapstructure:"locale"`
	// MobileWidth is the terminal width below which the compact layout is used.
	MobileWidth             int           `mapstructure:"mobile_width"`
	Tick                    time.Duration `mapstructure:"tick"`
	StartPhaseScreenSeconds int           `mapstructure:"start_phase_screen_seconds"`
}

// LogConfig holds zap settings. An empty path disables logging.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

const envPrefix = "MAFIATUI"

// New returns a viper instance with defaults, config file lookup and env
// overrides wired. Callers may bind flags onto it before calling LoadFrom.
func New() *viper.Viper {
	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("server.url", "ws://localhost:8081")
	v.SetDefault("server.handshake_timeout", 5*time.Second)
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "mafiatui", "mafiatui.db"))
	v.SetDefault("ui.locale", "en-US")
	v.SetDefault("ui.mobile_width", 100)
	v.SetDefault("ui.tick", time.Second)
	v.SetDefault("ui.start_phase_screen_seconds", 3)
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "mafiatui", "mafiatui.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")
	if cfgPath := os.Getenv(envPrefix + "_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "mafiatui"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads configuration from file and env. Env var overrides use prefix MAFIATUI_.
func Load() (Config, error) {
	return LoadFrom(New())
}

// LoadFrom reads the config file, if any, and unmarshals v.
func LoadFrom(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UI.MobileWidth < 0 {
		c.UI.MobileWidth = 0
	}
	if c.UI.Tick <= 0 {
		c.UI.Tick = time.Second
	}
	return c, nil
}

// Path is where Save writes.
func Path() string {
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "mafiatui", "config.toml")
}

// Save writes the provided config to disk, creating the config directory if needed.
// The Settings card uses it to persist the chosen locale.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("server.url", cfg.Server.URL)
	v.Set("server.handshake_timeout", cfg.Server.HandshakeTimeout.String())
	v.Set("database.path", cfg.Database.Path)
	v.Set("ui.locale", cfg.UI.Locale)
	v.Set("ui.mobile_width", cfg.UI.MobileWidth)
	v.Set("ui.tick", cfg.UI.Tick.String())
	v.Set("ui.start_phase_screen_seconds", cfg.UI.StartPhaseScreenSeconds)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
