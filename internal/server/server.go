package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/districtmap/districtboard/internal/hub"
	"github.com/districtmap/districtboard/internal/store"
)

// StateService is the mutation pipeline the gateway fronts. The board
// orchestrator implements it: Mutate runs validate, store write, durable
// save, and broadcast as one serialized unit.
type StateService interface {
	// Snapshot returns a copy of the full current district state.
	Snapshot() store.Snapshot

	// Mutate applies one status change and returns the new record.
	// Returns store.ErrUnknownDistrict or store.ErrInvalidStatus on
	// rejection, in which case no state changed.
	Mutate(ctx context.Context, district, status string) (store.Record, error)
}

// DistrictInfo pairs a district identifier with its display name.
type DistrictInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Server handles HTTP and WebSocket requests for the district board.
//
// Server provides four endpoints:
//   - GET /api/district-status: full current state as JSON
//   - POST /api/update-status: submit one status mutation
//   - GET /api/districts: the known-district list with display names
//   - GET /ws: WebSocket upgrade; the client then declares its audience
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	state      StateService
	hub        *hub.Hub
	port       int
	districts  []DistrictInfo
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a new [Server]. The district list is static metadata
// served as-is; mutations never change it. The server is not started until
// [Server.Start] is called.
func NewServer(state StateService, h *hub.Hub, port int, districts []DistrictInfo, logger *slog.Logger) *Server {
	return &Server{
		state:     state,
		hub:       h,
		port:      port,
		districts: districts,
		logger:    logger,
	}
}

// Start begins serving requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server runs until the context is cancelled, then shuts
// down gracefully with a 5-second timeout.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/district-status", s.handleStatus)
	mux.HandleFunc("/api/update-status", s.handleUpdate)
	mux.HandleFunc("/api/districts", s.handleDistricts)
	mux.HandleFunc("/ws", s.handleWebSocket)

	// create listener first to verify port availability synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.httpServer = &http.Server{
		Handler: mux,
		// BaseContext derives all request contexts from the server context,
		// so cancelling ctx also ends long-lived WebSocket handlers.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// updateRequest is the body of POST /api/update-status.
type updateRequest struct {
	District string `json:"district"`
	Status   string `json:"status"`
}

// updateResponse is the success body of POST /api/update-status.
type updateResponse struct {
	Success  bool         `json:"success"`
	District string       `json:"district"`
	Status   store.Status `json:"status"`
	Color    string       `json:"color"`
}

// errorResponse carries a human-readable rejection reason.
type errorResponse struct {
	Error string `json:"error"`
}

// handleStatus returns the full current state as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	if err := json.NewEncoder(w).Encode(s.state.Snapshot()); err != nil {
		s.logger.Error("failed to encode status response", "error", err)
	}
}

// handleUpdate applies one status mutation.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	rec, err := s.state.Mutate(r.Context(), req.District, req.Status)
	if err != nil {
		if errors.Is(err, store.ErrUnknownDistrict) || errors.Is(err, store.ErrInvalidStatus) {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		s.logger.Error("mutation failed", "district", req.District, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	s.writeJSON(w, http.StatusOK, updateResponse{
		Success:  true,
		District: req.District,
		Status:   rec.Status,
		Color:    rec.Color,
	})
}

// handleDistricts returns the known-district enumeration with display names.
func (s *Server) handleDistricts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.districts); err != nil {
		s.logger.Error("failed to encode district list", "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
