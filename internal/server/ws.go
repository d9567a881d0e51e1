package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/districtmap/districtboard/internal/hub"
	"github.com/districtmap/districtboard/internal/store"
)

const (
	// joinTimeout bounds how long a freshly upgraded connection may wait
	// before declaring its audience.
	joinTimeout = 10 * time.Second

	// wsWriteTimeout is the per-message write deadline. A slow or dead
	// viewer fails its write and is dropped by the hub instead of stalling
	// the broadcast.
	wsWriteTimeout = 5 * time.Second
)

// upgrader converts HTTP requests to WebSocket connections. The board is
// served to browsers on other origins, so cross-origin upgrades are allowed.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// joinMessage is the first message a client sends after connecting.
type joinMessage struct {
	Audience string `json:"audience"`
}

// wsEnvelope is the wire format for server-to-client messages.
//
// Viewers receive one initial_status envelope carrying the full mapping,
// then zero or more status_update envelopes each carrying one district, in
// commit order.
type wsEnvelope struct {
	Event     string         `json:"event"`
	Districts store.Snapshot `json:"districts,omitempty"`
	District  string         `json:"district,omitempty"`
	Status    store.Status   `json:"status,omitempty"`
	Color     string         `json:"color,omitempty"`
	Error     string         `json:"error,omitempty"`
}

const (
	eventInitialStatus = "initial_status"
	eventStatusUpdate  = "status_update"
	eventError         = "error"
)

// wsConn adapts a WebSocket connection to the hub's Conn interface.
// A mutex serializes writes; gorilla connections support one writer at a
// time, and the hub may deliver from a different goroutine than the error
// path in the read loop.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func (c *wsConn) SendSnapshot(snap store.Snapshot) error {
	return c.writeJSON(wsEnvelope{Event: eventInitialStatus, Districts: snap})
}

func (c *wsConn) SendUpdate(u hub.Update) error {
	return c.writeJSON(wsEnvelope{
		Event:    eventStatusUpdate,
		District: u.District,
		Status:   u.Status,
		Color:    u.Color,
	})
}

// handleWebSocket upgrades the connection, reads the audience declaration,
// registers the subscriber, and then holds the connection open until the
// client goes away.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()

	if err := conn.SetReadDeadline(time.Now().Add(joinTimeout)); err != nil {
		s.logger.Error("websocket deadline", "conn_id", connID, "error", err)
		return
	}
	var join joinMessage
	if err := conn.ReadJSON(&join); err != nil {
		s.logger.Warn("websocket closed before audience declaration",
			"conn_id", connID,
			"remote", conn.RemoteAddr().String(),
			"error", err,
		)
		return
	}

	sub := &wsConn{conn: conn}
	audience := hub.Audience(join.Audience)
	if err := s.hub.Subscribe(sub, audience); err != nil {
		s.logger.Warn("websocket subscription rejected",
			"conn_id", connID,
			"audience", join.Audience,
			"error", err,
		)
		_ = sub.writeJSON(wsEnvelope{Event: eventError, Error: err.Error()})
		return
	}
	defer s.hub.Unsubscribe(sub)

	s.logger.Info("subscriber joined",
		"conn_id", connID,
		"audience", audience,
		"remote", conn.RemoteAddr().String(),
	)

	// the join deadline no longer applies; the connection stays open until
	// the client disconnects or the server shuts down
	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		s.logger.Error("websocket deadline", "conn_id", connID, "error", err)
		return
	}

	// server shutdown cancels the request context via BaseContext; closing
	// the connection unblocks the read loop below
	stop := context.AfterFunc(r.Context(), func() {
		_ = conn.Close()
	})
	defer stop()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.logger.Info("subscriber left", "conn_id", connID, "audience", audience)
			return
		}
		// inbound messages carry no meaning in this protocol; drained to
		// keep close/ping handling responsive
	}
}
