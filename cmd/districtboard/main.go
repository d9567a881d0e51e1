// Package main is the entry point for the districtboard CLI.
//
// districtboard can be run either as a library (SDK) or as a standalone
// binary with YAML configuration. This CLI provides the standalone binary
// approach.
//
// Usage:
//
//	districtboard serve -c config.yaml    # Start the board server
//	districtboard validate -c config.yaml # Validate configuration
//	districtboard version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "districtboard",
	Short: "A real-time district status board",
	Long: `districtboard keeps a set of named map regions and their status flags
synchronized in real time between administrative clients and display
clients.

It serves the current state over a JSON API, accepts status mutations,
and pushes every change to connected viewers over WebSocket. State
survives restarts through a durable snapshot.

Quick start:
  1. Create a config file (districtboard.yaml)
  2. Run: districtboard serve -c districtboard.yaml
  3. Point viewers at ws://localhost:8080/ws

Example config:
  port: 8080
  districts:
    - id: A
      name: North Ward
    - id: B
      name: Harbor Ward
  persistence:
    backend: file
    path: district-status.json`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this districtboard binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("districtboard %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
