package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/districtmap/districtboard"
)

func main() {
	board, err := districtboard.New(
		districtboard.WithDistrict("A", "North Ward"),
		districtboard.WithDistrict("B", "Harbor Ward"),
		districtboard.WithDistrict("C", "Old Town"),
		districtboard.WithPort(8080),
		districtboard.WithSnapshotPath("district-status.json"),
		districtboard.WithUpdateCallback(func(rec districtboard.StatusRecord) {
			slog.Info("district changed", "district", rec.District, "status", rec.Status)
		}),
	)
	if err != nil {
		slog.Error("failed to create board", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// simulate an operator flipping a district after startup; real
	// deployments POST /api/update-status instead
	go func() {
		time.Sleep(2 * time.Second)
		if _, err := board.SetStatus(ctx, "B", districtboard.StatusWarning); err != nil {
			slog.Error("failed to set status", "error", err)
		}
	}()

	// blocks until ctx is cancelled; viewers connect to ws://localhost:8080/ws
	if err := board.Start(ctx); err != nil {
		slog.Error("board error", "error", err)
		os.Exit(1)
	}
}
