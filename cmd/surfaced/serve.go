package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/surface-dev/surface"
	"github.com/surface-dev/surface/pkg/host"
)

func serveCmd() *cobra.Command {
	var (
		addr        string
		origins     []string
		maxSessions int
		idleTimeout time.Duration
		logLevel    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the control server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(logLevel)
			slog.SetDefault(logger)

			hostCfg := host.DefaultConfig()
			if maxSessions > 0 {
				hostCfg.MaxSessions = maxSessions
			}
			if idleTimeout > 0 {
				hostCfg.IdleTimeout = idleTimeout
			}

			app := surface.New(
				surface.WithLogger(logger),
				surface.WithAddress(addr),
				surface.WithAllowedOrigins(origins...),
				surface.WithHostConfig(hostCfg),
			)

			ctx, stop := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringSliceVar(&origins, "allow-origin", nil, "allowed WebSocket origins (default: all)")
	cmd.Flags().IntVar(&maxSessions, "max-sessions", 0, "maximum concurrent sessions (0 = default)")
	cmd.Flags().DurationVar(&idleTimeout, "idle-timeout", 0, "close sessions idle for this long (0 = default)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	return cmd
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
