package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config represents the top-level configuration structure.
type Config struct {
	Global   GlobalConfig   `yaml:"global"   mapstructure:"global"`
	Firewall FirewallConfig `yaml:"firewall" mapstructure:"firewall"`
}

// GlobalConfig holds global settings.
type GlobalConfig struct {
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// FirewallConfig holds the firewall subsystem settings: where the
// persisted ruleset lives and which service/package back it.
type FirewallConfig struct {
	ConfPath string `yaml:"conf_path" mapstructure:"conf_path"`
	Service  string `yaml:"service"   mapstructure:"service"`
	Package  string `yaml:"package"   mapstructure:"package"`
}

// Level parses the configured log level. Defaults to info if unset.
func (g GlobalConfig) Level() zapcore.Level {
	level, err := zapcore.ParseLevel(g.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// Manager handles configuration loading, validation, and hot-reload.
type Manager struct {
	viper      *viper.Viper
	configPath string
	current    *Config
	mu         sync.RWMutex
	onChange   chan struct{}
	logger     *zap.Logger
}

// NewManager creates a config Manager and loads the initial
// configuration. A missing config file is not an error; defaults apply.
func NewManager(configPath string, logger *zap.Logger) (*Manager, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigFile(configPath)

	// Set defaults
	viperInstance.SetDefault("global.log_level", "info")
	viperInstance.SetDefault("firewall.conf_path", "/etc/nftables.conf")
	viperInstance.SetDefault("firewall.service", "nftables")
	viperInstance.SetDefault("firewall.package", "nftables")

	manager := &Manager{
		viper:      viperInstance,
		configPath: configPath,
		onChange:   make(chan struct{}, 1),
		logger:     logger,
	}

	cfg, err := manager.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	manager.current = cfg

	return manager, nil
}

// Load reads the config file, unmarshals it, and validates.
func (m *Manager) Load() (*Config, error) {
	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		m.logger.Info("config file absent, using defaults", zap.String("file", m.configPath))
	}

	var cfg Config
	if err := m.viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for correctness.
func Validate(cfg *Config) error {
	if cfg.Global.LogLevel != "" {
		if _, err := zapcore.ParseLevel(cfg.Global.LogLevel); err != nil {
			return fmt.Errorf("invalid global.log_level %q", cfg.Global.LogLevel)
		}
	}
	if cfg.Firewall.ConfPath == "" {
		return fmt.Errorf("firewall.conf_path is required")
	}
	if cfg.Firewall.Service == "" {
		return fmt.Errorf("firewall.service is required")
	}
	if cfg.Firewall.Package == "" {
		return fmt.Errorf("firewall.package is required")
	}
	return nil
}

// WatchConfig starts watching the config file for changes.
// On change, it reloads and validates; if valid, updates current config
// and notifies via the onChange channel. An invalid file keeps the
// previous configuration.
func (m *Manager) WatchConfig() {
	m.viper.OnConfigChange(func(event fsnotify.Event) {
		m.logger.Info("config file changed", zap.String("file", event.Name))

		cfg, err := m.Load()
		if err != nil {
			m.logger.Error("failed to reload config, keeping previous config", zap.Error(err))
			return
		}

		m.mu.Lock()
		m.current = cfg
		m.mu.Unlock()

		m.logger.Info("config reloaded successfully")

		// Non-blocking send to notify listeners
		select {
		case m.onChange <- struct{}{}:
		default:
		}
	})

	m.viper.WatchConfig()
}

// GetConfig returns a snapshot of the current configuration.
func (m *Manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// OnChange returns a read-only channel that signals when config has changed.
func (m *Manager) OnChange() <-chan struct{} {
	return m.onChange
}
