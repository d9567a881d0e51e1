package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/districtmap/districtboard"
	"github.com/districtmap/districtboard/config"
)

const shutdownTimeout = 10 * time.Second

// newLogger creates a JSON logger for CLI use.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// serveCmd starts the districtboard server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the board server",
	Long: `Start the districtboard server.

The server will:
  - Load configuration from the specified YAML file
  - Restore district state from the durable snapshot, if one exists
  - Serve the API and WebSocket endpoint on the configured port

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  districtboard serve -c config.yaml
  districtboard serve --config /etc/districtboard/config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = serveCmd.MarkFlagRequired("config")
}

// buildOptions converts a parsed config into SDK options.
func buildOptions(cfg *config.Config, logger *slog.Logger) ([]districtboard.Option, error) {
	districts := cfg.Districts
	if cfg.GeoJSON != "" {
		derived, err := config.DistrictsFromGeoJSON(cfg.GeoJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to derive districts: %w", err)
		}
		districts = derived
	}

	opts := []districtboard.Option{
		districtboard.WithPort(cfg.Port),
		districtboard.WithLogger(logger),
	}
	for _, d := range districts {
		opts = append(opts, districtboard.WithDistrict(d.ID, d.Name))
	}

	switch cfg.Persistence.Backend {
	case config.BackendRedis:
		opts = append(opts, districtboard.WithRedisPersistence(
			cfg.Persistence.Redis.Addr,
			cfg.Persistence.Redis.DB,
			cfg.Persistence.Redis.Key,
		))
	default:
		opts = append(opts, districtboard.WithSnapshotPath(cfg.Persistence.Path))
	}

	return opts, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts, err := buildOptions(cfg, logger)
	if err != nil {
		return err
	}

	board, err := districtboard.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}

	logger.Info("starting server",
		"port", board.Port(),
		"districts", len(board.Districts()),
		"persistence", cfg.Persistence.Backend,
	)

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// start server - blocks until context cancelled
	errChan := make(chan error, 1)
	go func() {
		errChan <- board.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
