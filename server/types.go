// File: server/types.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"time"

	"github.com/pkg/errors"

	"github.com/momentics/hioload-sock/acceptor"
	"github.com/momentics/hioload-sock/control"
)

// Config holds all server-side configuration parameters.
type Config struct {
	ListenNetwork   string        `mapstructure:"listen_network"`   // "tcp", "tcp4", "tcp6" or "unix"
	ListenAddr      string        `mapstructure:"listen_addr"`      // e.g. "127.0.0.1:9000" or a socket path
	Backlog         int           `mapstructure:"backlog"`          // listen queue size hint
	Reuse           bool          `mapstructure:"reuse"`            // set the reuse option on IP listeners
	ReuseMode       string        `mapstructure:"reuse_mode"`       // "default", "address" or "port"
	Workers         int           `mapstructure:"workers"`          // connection handler goroutines
	QueueCapacity   int           `mapstructure:"queue_capacity"`   // accepted connections waiting for a worker
	RetryMin        time.Duration `mapstructure:"retry_min"`        // first delay after a transient accept failure
	RetryMax        time.Duration `mapstructure:"retry_max"`        // delay cap for repeated failures
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"` // used by callers without their own deadline
	LogLevel        string        `mapstructure:"log_level"`        // zerolog level name
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenNetwork:   "tcp",
		ListenAddr:      "127.0.0.1:9000",
		Backlog:         128,
		Reuse:           true,
		ReuseMode:       "default",
		Workers:         8,
		QueueCapacity:   256,
		RetryMin:        5 * time.Millisecond,
		RetryMax:        time.Second,
		ShutdownTimeout: 30 * time.Second,
		LogLevel:        "info",
	}
}

// LoadConfig reads a YAML file over DefaultConfig. The returned store can be
// passed to WithConfigStore so later updates reach the running server.
func LoadConfig(path string) (*Config, *control.ConfigStore, error) {
	store := control.NewConfigStore()
	if err := store.LoadFile(path); err != nil {
		return nil, nil, err
	}
	cfg := DefaultConfig()
	if err := store.Decode(cfg); err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("config: listen_addr is empty")
	}
	if c.Workers < 1 {
		return errors.Errorf("config: workers must be positive, got %d", c.Workers)
	}
	if c.QueueCapacity < 1 {
		return errors.Errorf("config: queue_capacity must be positive, got %d", c.QueueCapacity)
	}
	if c.RetryMin <= 0 || c.RetryMax < c.RetryMin {
		return errors.Errorf("config: invalid retry window [%s, %s]", c.RetryMin, c.RetryMax)
	}
	if _, err := acceptor.ParseReuseMode(c.ReuseMode); err != nil {
		return errors.Wrap(err, "config")
	}
	return nil
}
