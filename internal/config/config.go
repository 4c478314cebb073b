// Package config provides configuration for the server and client roles.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable, e.g. LANKM_PORT.
const EnvPrefix = "LANKM"

var (
	ErrInvalidPort      = errors.New("config: port must be between 1 and 65535")
	ErrInvalidQueueSize = errors.New("config: queue size must be positive")
)

// Config holds runtime settings. Command-line flags override these.
type Config struct {
	// Port is the TCP port the server listens on and the client dials.
	Port int `envconfig:"PORT" default:"6069"`

	// Address is the server host the client connects to.
	Address string `envconfig:"ADDRESS"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// QueueSize bounds the server's outgoing event queue. When full the
	// oldest event is dropped.
	QueueSize int `envconfig:"QUEUE_SIZE" default:"1024"`

	ConnectTimeout time.Duration `envconfig:"CONNECT_TIMEOUT" default:"2s"`
	RetryDelay     time.Duration `envconfig:"RETRY_DELAY" default:"1s"`

	// VirtualDeviceName names the Linux uinput keyboard used for
	// re-injection. Devices with this name are never grabbed.
	VirtualDeviceName string `envconfig:"VIRTUAL_DEVICE_NAME" default:"lankm-virtual-dev"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Port:              6069,
		LogLevel:          "info",
		QueueSize:         1024,
		ConnectTimeout:    2 * time.Second,
		RetryDelay:        time.Second,
		VirtualDeviceName: "lankm-virtual-dev",
	}
}

// Load reads a .env file from the working directory if present, then the
// LANKM_* environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings every role depends on.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidQueueSize, c.QueueSize)
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("config: connect timeout must be positive, got %s", c.ConnectTimeout)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("config: retry delay must not be negative, got %s", c.RetryDelay)
	}
	return nil
}
