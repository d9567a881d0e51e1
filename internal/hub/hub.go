package hub

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/districtmap/districtboard/internal/store"
)

// Audience identifies which of the two subscriber groups a connection
// belongs to. Membership is chosen once, immediately after connecting, and
// fixed for the connection's lifetime.
type Audience string

const (
	// AudienceViewer subscribers observe status changes: they receive the
	// full snapshot on join and every subsequent update in commit order.
	AudienceViewer Audience = "viewer"

	// AudienceOperator subscribers originate mutation requests; they
	// receive no automatic pushes.
	AudienceOperator Audience = "operator"
)

// Valid reports whether a is one of the two defined audiences.
func (a Audience) Valid() bool {
	return a == AudienceViewer || a == AudienceOperator
}

// Update is a single-record change message fanned out to viewers.
type Update struct {
	District string       `json:"district"`
	Status   store.Status `json:"status"`
	Color    string       `json:"color"`
}

// Conn is one live subscriber connection.
//
// The hub is decoupled from any specific transport: the gateway provides a
// WebSocket-backed Conn and tests provide in-process fakes. Sends must not
// block indefinitely; a transport implementation should apply its own write
// deadline and report failure through the returned error.
type Conn interface {
	// SendSnapshot delivers the full current state to this connection.
	SendSnapshot(snap store.Snapshot) error

	// SendUpdate delivers one changed record to this connection.
	SendUpdate(u Update) error
}

// Hub is the broadcast channel: it owns the subscriber registry and fans
// store mutations out to every viewer.
//
// A single mutex serializes registration and delivery, which gives every
// viewer the same relative message order and makes the join-time snapshot
// atomic with respect to concurrent publishes: a subscriber either sees a
// mutation in its initial snapshot or as a later update, never neither.
type Hub struct {
	mu        sync.Mutex
	viewers   map[Conn]struct{}
	operators map[Conn]struct{}

	snapshot func() store.Snapshot
	logger   *slog.Logger
}

// NewHub creates a [Hub]. The snapshot function is called at viewer join
// time to produce the initial-state push; it must return a copy the hub may
// hand to the connection.
func NewHub(snapshot func() store.Snapshot, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		viewers:   make(map[Conn]struct{}),
		operators: make(map[Conn]struct{}),
		snapshot:  snapshot,
		logger:    logger,
	}
}

// Subscribe registers the connection under the named audience.
//
// A viewer is synchronously sent the full current snapshot before Subscribe
// returns, so a newly joined viewer is never left in an empty state. If
// that initial delivery fails the connection is not registered and the
// error is returned. Operators are registered with no initial push.
func (h *Hub) Subscribe(c Conn, audience Audience) error {
	if !audience.Valid() {
		return fmt.Errorf("unknown audience %q", audience)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if audience == AudienceOperator {
		h.operators[c] = struct{}{}
		return nil
	}

	if err := c.SendSnapshot(h.snapshot()); err != nil {
		return fmt.Errorf("initial snapshot delivery: %w", err)
	}
	h.viewers[c] = struct{}{}
	return nil
}

// Unsubscribe removes the connection from whichever audience it belongs to.
// Unsubscribing a connection that was never registered, or already removed,
// is a no-op.
func (h *Hub) Unsubscribe(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.viewers, c)
	delete(h.operators, c)
}

// Publish delivers a single-record change to every registered viewer.
//
// Delivery is fire-and-forget per subscriber: a failing connection is
// logged and dropped from the registry without affecting delivery to the
// others, and Publish itself never fails.
func (h *Hub) Publish(u Update) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.viewers {
		if err := c.SendUpdate(u); err != nil {
			h.logger.Warn("dropping viewer after failed delivery",
				"district", u.District,
				"error", err,
			)
			delete(h.viewers, c)
		}
	}
}

// ViewerCount returns the number of registered viewer connections.
func (h *Hub) ViewerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.viewers)
}

// OperatorCount returns the number of registered operator connections.
func (h *Hub) OperatorCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.operators)
}
