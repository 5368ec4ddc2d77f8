package control

import (
	"log/slog"
	"time"
)

// Config holds configuration for the control server.
type Config struct {
	// Address is the address to listen on (e.g., ":8080").
	// Default: ":8080".
	Address string

	// ReadTimeout is the HTTP read timeout.
	// Default: 30 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the HTTP write timeout. It does not apply to the
	// watch endpoint, which manages its own deadlines.
	// Default: 30 seconds.
	WriteTimeout time.Duration

	// ShutdownTimeout is the grace period for in-flight requests.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// AllowedOrigins restricts WebSocket origins. Empty allows all.
	AllowedOrigins []string

	// PingInterval is the time between WebSocket pings on the watch
	// endpoint. Default: 30 seconds.
	PingInterval time.Duration

	// WriteDeadline is the per-message WebSocket write deadline.
	// Default: 10 seconds.
	WriteDeadline time.Duration

	// MaxBodySize caps request bodies. Default: 1MB.
	MaxBodySize int64

	// Logger is the server logger. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:         ":8080",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		PingInterval:    30 * time.Second,
		WriteDeadline:   10 * time.Second,
		MaxBodySize:     1 << 20,
	}
}

// withDefaults fills unset fields in place and returns the config.
func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	if c.Address == "" {
		c.Address = d.Address
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.PingInterval <= 0 {
		c.PingInterval = d.PingInterval
	}
	if c.WriteDeadline <= 0 {
		c.WriteDeadline = d.WriteDeadline
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = d.MaxBodySize
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
