// Package surface is the embedding facade for the Surface runtime: a
// registry of interactable UI components that an external controller
// mutates through partial props updates.
//
// An App ties together a session host and the controller-facing HTTP
// surface:
//
//	app := surface.New(
//	    surface.WithAddress(":8080"),
//	    surface.WithLogger(logger),
//	)
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Libraries that only need the merge engine should use pkg/registry
// directly; the App exists for hosts that want the full session and
// transport stack.
package surface

import (
	"context"
	"log/slog"

	"github.com/surface-dev/surface/pkg/control"
	"github.com/surface-dev/surface/pkg/host"
)

// App wires a session host to the control server.
type App struct {
	host   *host.Host
	server *control.Server
	logger *slog.Logger

	hostConfig    *host.Config
	controlConfig *control.Config
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithAddress sets the control server listen address.
func WithAddress(addr string) Option {
	return func(a *App) {
		a.controlConfig.Address = addr
	}
}

// WithAllowedOrigins sets the WebSocket origin allowlist.
func WithAllowedOrigins(origins ...string) Option {
	return func(a *App) {
		a.controlConfig.AllowedOrigins = origins
	}
}

// WithHostConfig replaces the session host configuration.
func WithHostConfig(cfg *host.Config) Option {
	return func(a *App) {
		if cfg != nil {
			a.hostConfig = cfg
		}
	}
}

// New creates an App with the given options.
func New(opts ...Option) *App {
	a := &App{
		logger:        slog.Default(),
		hostConfig:    host.DefaultConfig(),
		controlConfig: control.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.controlConfig.Logger = a.logger
	a.host = host.New(a.hostConfig, a.logger)
	a.server = control.New(a.host, a.controlConfig)
	return a
}

// Host returns the session host for in-process consumers (for example
// a renderer binding that wants direct registry access).
func (a *App) Host() *host.Host {
	return a.host
}

// Server returns the control server, usable as an http.Handler.
func (a *App) Server() *control.Server {
	return a.server
}

// Run serves the control API until ctx is cancelled, then shuts the
// host down.
func (a *App) Run(ctx context.Context) error {
	defer a.host.Shutdown()
	err := a.server.Run(ctx)
	if err == control.ErrServerClosed {
		return nil
	}
	return err
}
