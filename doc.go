// Package districtboard keeps a set of named map regions ("districts") and
// their status flags synchronized in real time between administrative
// clients, who mutate status, and display clients, who observe it.
//
// Each district carries one of two statuses, normal or warning, plus a
// display color derived from it. An in-process store is the single source
// of truth; every mutation is validated, applied, durably saved, and fanned
// out over WebSocket to all connected viewers. A viewer that connects at
// any point first receives the full current state, then each subsequent
// change in commit order, so displays are never stale or empty.
//
// # Quick Start
//
// Create a board and run it with graceful shutdown:
//
//	board, _ := districtboard.New(districtboard.WithDistricts("A", "B", "C"))
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	board.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
// The board uses the functional options pattern:
//
//	board, err := districtboard.New(
//	    districtboard.WithDistrict("A", "North Ward"),
//	    districtboard.WithDistrict("B", "Harbor Ward"),
//	    districtboard.WithPort(9090),
//	    districtboard.WithSnapshotPath("/var/lib/districtboard/status.json"),
//	)
//
// State survives restarts through a durable snapshot, written after every
// mutation to a JSON file (default) or a Redis key via
// [WithRedisPersistence]. Deleting the snapshot is safe: the next startup
// puts every district back to normal.
//
// # HTTP and WebSocket API
//
// The served surface:
//
//   - GET /api/district-status: the full district → {status, color} mapping
//   - POST /api/update-status: {"district": ..., "status": ...}
//   - GET /api/districts: identifiers with display names
//   - GET /ws: WebSocket; the client first sends {"audience": "viewer"} or
//     {"audience": "operator"}
//
// Viewers receive an initial_status message with the full mapping, then one
// status_update message per committed change. Operators register on the
// channel but receive no automatic pushes.
//
// # Architecture
//
// districtboard consists of several internal packages (under internal/):
//
//   - internal/store: Authoritative in-memory state plus mutation validation
//   - internal/persist: Durable snapshot backends (file, Redis)
//   - internal/hub: Transport-agnostic viewer/operator fan-out
//   - internal/server: HTTP gateway and WebSocket transport
//
// The internal packages are not part of the public API and may change
// without notice.
package districtboard
