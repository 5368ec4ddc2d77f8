package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "surfaced",
		Short: "Registry server for agent-driven UI components",
		Long: `Surfaced hosts session-scoped registries of interactable UI
components. External controllers open a session, register components
with initial props, and push partial updates over the JSON API; a
WebSocket feed streams committed changes to renderer bindings.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
