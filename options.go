package districtboard

import (
	"errors"
	"log/slog"
)

// DefaultSnapshotPath is where the file persistence backend writes the
// durable snapshot when no path is configured. The file is safe to delete;
// the next startup regenerates the all-normal default.
const DefaultSnapshotPath = "district-status.json"

// boardConfig holds mutable state during Board construction.
type boardConfig struct {
	districts       []District
	port            int
	logger          *slog.Logger
	snapshotPath    string
	redisAddr       string
	redisDB         int
	redisKey        string
	updateCallbacks []func(StatusRecord)
}

// Option is a function that configures a [Board] instance during
// construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
type Option func(*boardConfig) error

// WithDistricts adds districts by identifier, with the identifier doubling
// as the display name.
//
// Can be combined with [WithDistrict]. At least one district must be
// configured for [New] to succeed.
func WithDistricts(ids ...string) Option {
	return func(cfg *boardConfig) error {
		for _, id := range ids {
			cfg.districts = append(cfg.districts, District{ID: id})
		}
		return nil
	}
}

// WithDistrict adds a single district with a display name.
//
// Example:
//
//	board, err := districtboard.New(
//	    districtboard.WithDistrict("A", "North Ward"),
//	    districtboard.WithDistrict("B", "Harbor Ward"),
//	)
func WithDistrict(id, name string) Option {
	return func(cfg *boardConfig) error {
		cfg.districts = append(cfg.districts, District{ID: id, Name: name})
		return nil
	}
}

// WithPort sets the HTTP port for the board server.
//
// The API and the WebSocket endpoint will be available on this port.
// Defaults to 8080 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *boardConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithLogger sets the logger used by the board and all its components.
// Defaults to slog.Default() if not specified.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *boardConfig) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithSnapshotPath selects file persistence and sets the snapshot path.
// This is the default backend, at [DefaultSnapshotPath], when no
// persistence option is given. Mutually exclusive with
// [WithRedisPersistence].
func WithSnapshotPath(path string) Option {
	return func(cfg *boardConfig) error {
		if path == "" {
			return errors.New("snapshot path must not be empty")
		}
		cfg.snapshotPath = path
		return nil
	}
}

// WithRedisPersistence selects Redis persistence. The snapshot is stored as
// one JSON document under the given key; an empty key selects the default.
// Mutually exclusive with [WithSnapshotPath].
func WithRedisPersistence(addr string, db int, key string) Option {
	return func(cfg *boardConfig) error {
		if addr == "" {
			return errors.New("redis address must not be empty")
		}
		cfg.redisAddr = addr
		cfg.redisDB = db
		cfg.redisKey = key
		return nil
	}
}

// WithUpdateCallback registers a function invoked after every committed
// mutation, once the change has been stored, persisted, and broadcast.
//
// Callbacks run synchronously inside the mutation pipeline, so they should
// be fast. A panicking callback is recovered and logged without affecting
// the mutation. Can be called multiple times to register several callbacks.
func WithUpdateCallback(fn func(StatusRecord)) Option {
	return func(cfg *boardConfig) error {
		if fn == nil {
			return errors.New("update callback must not be nil")
		}
		cfg.updateCallbacks = append(cfg.updateCallbacks, fn)
		return nil
	}
}
