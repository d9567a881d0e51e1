package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/districtmap/districtboard/config"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a districtboard configuration file without starting the server.

This command parses the YAML, expands environment variables, and validates
all fields. If the district list comes from a GeoJSON file, that file is
read and checked too. It's useful for CI/CD pipelines or pre-deployment
checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  districtboard validate -c config.yaml
  districtboard validate --config /etc/districtboard/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	districts := cfg.Districts
	source := "config"
	if cfg.GeoJSON != "" {
		districts, err = config.DistrictsFromGeoJSON(cfg.GeoJSON)
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		source = cfg.GeoJSON
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Port:        %d\n", cfg.Port)
	fmt.Printf("  Districts:   %d (from %s)\n", len(districts), source)
	fmt.Printf("  Persistence: %s\n", cfg.Persistence.Backend)
	if cfg.Persistence.Backend == config.BackendRedis {
		fmt.Printf("  Redis:       %s (db %d)\n", cfg.Persistence.Redis.Addr, cfg.Persistence.Redis.DB)
	} else {
		fmt.Printf("  Snapshot:    %s\n", cfg.Persistence.Path)
	}

	return nil
}
