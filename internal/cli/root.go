// Package cli implements the TrailForge command-line interface using Cobra.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trailforge",
	Short: "TrailForge — outdoor progress daemon",
	Long: `TrailForge is the local progress daemon for the TrailForge outdoor app.
It owns the XP engine, the achievement catalog, and the pedometer
anti-cheat, and serves the API the mobile UI consumes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
