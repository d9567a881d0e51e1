package districtboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/districtmap/districtboard/internal/hub"
	"github.com/districtmap/districtboard/internal/persist"
	"github.com/districtmap/districtboard/internal/server"
	"github.com/districtmap/districtboard/internal/store"
)

const defaultPort = 8080

// Board is the authoritative owner of district status state.
//
// Board wires the in-memory store, the update validator, the persistence
// adapter, and the broadcast hub into one mutation pipeline, and serves it
// through an HTTP/WebSocket gateway. It is created with [New] using
// functional options and run with [Board.Start].
//
// The typical lifecycle is:
//
//	board, err := districtboard.New(districtboard.WithDistricts("A", "B"))
//	if err != nil {
//	    slog.Error("failed to create board", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	board.Start(ctx) // blocks until context cancelled
type Board struct {
	districts []District
	port      int
	logger    *slog.Logger
	adapter   persist.Adapter
	callbacks []func(StatusRecord)

	// mu serializes the whole mutation pipeline: validate, store write,
	// durable save, broadcast, callbacks. Reads bypass it and rely on the
	// store's own locking.
	mu        sync.Mutex
	store     *store.MemoryStore
	validator *store.Validator
	hub       *hub.Hub
}

// New creates a new [Board] with the given options.
//
// At least one district must be configured via [WithDistricts] or
// [WithDistrict], with non-empty unique identifiers. Other options have
// defaults: port 8080, slog.Default() logging, and file persistence at
// [DefaultSnapshotPath].
func New(opts ...Option) (*Board, error) {
	cfg := &boardConfig{
		port: defaultPort,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if len(cfg.districts) == 0 {
		return nil, errors.New("at least one district is required")
	}
	seen := make(map[string]bool, len(cfg.districts))
	for _, d := range cfg.districts {
		if d.ID == "" {
			return nil, errors.New("district id must not be empty")
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("duplicate district id: %q", d.ID)
		}
		seen[d.ID] = true
	}

	if cfg.snapshotPath != "" && cfg.redisAddr != "" {
		return nil, errors.New("file and redis persistence are mutually exclusive")
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	var adapter persist.Adapter
	if cfg.redisAddr != "" {
		adapter = persist.NewRedisAdapter(cfg.redisAddr, cfg.redisDB, cfg.redisKey)
	} else {
		path := cfg.snapshotPath
		if path == "" {
			path = DefaultSnapshotPath
		}
		adapter = persist.NewFileAdapter(path)
	}

	ids := make([]string, len(cfg.districts))
	for i, d := range cfg.districts {
		ids[i] = d.ID
	}

	b := &Board{
		districts: cfg.districts,
		port:      cfg.port,
		logger:    logger,
		adapter:   adapter,
		callbacks: cfg.updateCallbacks,
		store:     store.NewMemoryStore(ids),
		validator: store.NewValidator(ids),
	}
	b.hub = hub.NewHub(b.store.Snapshot, logger)
	return b, nil
}

// Start restores durable state and serves the board.
//
// Start is a blocking call that runs until the provided context is
// cancelled. The durable snapshot is loaded first; if it is missing,
// corrupt, or does not match the configured district set, every district
// starts at normal. Returns an error if the HTTP server fails to start.
func (b *Board) Start(ctx context.Context) error {
	b.logger.Info("districtboard starting", "districts", len(b.districts), "port", b.port)

	if ctx.Err() != nil {
		return nil
	}

	b.restore(ctx)

	srv := server.NewServer(stateService{b}, b.hub, b.port, b.districtInfos(), b.logger)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	<-ctx.Done()
	b.logger.Info("districtboard stopped")
	return nil
}

// restore loads the durable snapshot into the store. Any load problem falls
// back to the all-normal default; startup never fails on persistence.
func (b *Board) restore(ctx context.Context) {
	snap, err := b.adapter.Load(ctx)
	if err != nil {
		if errors.Is(err, persist.ErrNoSnapshot) {
			b.logger.Info("no usable durable snapshot, starting with defaults", "reason", err)
		} else {
			b.logger.Warn("loading durable snapshot failed, starting with defaults", "error", err)
		}
		return
	}
	if !b.store.Restore(snap) {
		b.logger.Warn("durable snapshot does not match the configured districts, starting with defaults")
		return
	}
	b.logger.Info("district state restored", "districts", len(snap))
}

// SetStatus applies one status mutation through the full pipeline:
// validation, store write, durable save, broadcast to viewers, and update
// callbacks, serialized against concurrent mutations.
//
// Returns the new record on success. Returns a validation error if the
// district is unknown or the status is not one of [StatusNormal] and
// [StatusWarning], in which case nothing changed. A failing durable save is
// logged as a warning and does not fail the mutation; the in-memory state
// remains authoritative.
func (b *Board) SetStatus(ctx context.Context, district string, status Status) (StatusRecord, error) {
	rec, err := b.mutate(ctx, district, string(status))
	if err != nil {
		return StatusRecord{}, err
	}
	return StatusRecord{District: district, Status: Status(rec.Status), Color: rec.Color}, nil
}

// Snapshot returns a copy of the full current district state.
func (b *Board) Snapshot() map[string]StatusRecord {
	snap := b.store.Snapshot()
	out := make(map[string]StatusRecord, len(snap))
	for district, rec := range snap {
		out[district] = StatusRecord{District: district, Status: Status(rec.Status), Color: rec.Color}
	}
	return out
}

// Districts returns a copy of the configured district list.
func (b *Board) Districts() []District {
	cp := make([]District, len(b.districts))
	copy(cp, b.districts)
	return cp
}

// Port returns the configured HTTP port.
func (b *Board) Port() int {
	return b.port
}

// mutate is the serialized mutation pipeline shared by [Board.SetStatus]
// and the HTTP gateway.
func (b *Board) mutate(ctx context.Context, district, status string) (store.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.validator.Validate(district, status); err != nil {
		return store.Record{}, err
	}

	rec, err := b.store.Set(district, store.Status(status))
	if err != nil {
		// unreachable after validation; the validator and store share the
		// same known-district set
		return store.Record{}, err
	}

	// best-effort: the in-memory store stays authoritative even when the
	// durable copy temporarily lags
	if err := b.adapter.Save(ctx, b.store.Snapshot()); err != nil {
		b.logger.Warn("durable snapshot save failed",
			"district", district,
			"error", err,
		)
	}

	b.hub.Publish(hub.Update{District: district, Status: rec.Status, Color: rec.Color})

	if len(b.callbacks) > 0 {
		public := StatusRecord{District: district, Status: Status(rec.Status), Color: rec.Color}
		for _, cb := range b.callbacks {
			invokeCallbackSafe(cb, public, b.logger)
		}
	}

	return rec, nil
}

// districtInfos converts the district list to the gateway's metadata type,
// defaulting empty display names to the identifier.
func (b *Board) districtInfos() []server.DistrictInfo {
	infos := make([]server.DistrictInfo, len(b.districts))
	for i, d := range b.districts {
		name := d.Name
		if name == "" {
			name = d.ID
		}
		infos[i] = server.DistrictInfo{ID: d.ID, Name: name}
	}
	return infos
}

// stateService adapts the board to the gateway's StateService interface
// without exposing internal types in the public API.
type stateService struct {
	b *Board
}

func (s stateService) Snapshot() store.Snapshot {
	return s.b.store.Snapshot()
}

func (s stateService) Mutate(ctx context.Context, district, status string) (store.Record, error) {
	return s.b.mutate(ctx, district, status)
}

// invokeCallbackSafe calls an update callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(StatusRecord), rec StatusRecord, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("update callback panicked",
				"panic", r,
				"district", rec.District,
			)
		}
	}()
	cb(rec)
}
