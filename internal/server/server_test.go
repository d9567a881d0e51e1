package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/districtmap/districtboard/internal/hub"
	"github.com/districtmap/districtboard/internal/store"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockState implements StateService over a real in-memory store, publishing
// each committed mutation to the hub like the board orchestrator does.
type mockState struct {
	st        *store.MemoryStore
	validator *store.Validator
	h         *hub.Hub
}

func newMockState(districts ...string) *mockState {
	st := store.NewMemoryStore(districts)
	m := &mockState{
		st:        st,
		validator: store.NewValidator(districts),
	}
	m.h = hub.NewHub(st.Snapshot, testLogger())
	return m
}

func (m *mockState) Snapshot() store.Snapshot {
	return m.st.Snapshot()
}

func (m *mockState) Mutate(ctx context.Context, district, status string) (store.Record, error) {
	if err := m.validator.Validate(district, status); err != nil {
		return store.Record{}, err
	}
	rec, err := m.st.Set(district, store.Status(status))
	if err != nil {
		return store.Record{}, err
	}
	m.h.Publish(hub.Update{District: district, Status: rec.Status, Color: rec.Color})
	return rec, nil
}

func newTestServer(state *mockState) *Server {
	districts := []DistrictInfo{
		{ID: "A", Name: "District A"},
		{ID: "B", Name: "District B"},
	}
	return NewServer(state, state.h, 0, districts, testLogger())
}

func TestHandleStatus(t *testing.T) {
	state := newMockState("A", "B")
	if _, err := state.Mutate(context.Background(), "A", "warning"); err != nil {
		t.Fatalf("Mutate() error = %v", err)
	}
	srv := newTestServer(state)

	req := httptest.NewRequest(http.MethodGet, "/api/district-status", nil)
	rec := httptest.NewRecorder()
	srv.handleStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var snap store.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(snap) != 2 {
		t.Errorf("response has %d districts, want 2", len(snap))
	}
	if snap["A"].Status != store.StatusWarning || snap["A"].Color != store.ColorWarning {
		t.Errorf("district A = %+v, want warning/%s", snap["A"], store.ColorWarning)
	}
	if snap["B"].Status != store.StatusNormal {
		t.Errorf("district B status = %q, want normal", snap["B"].Status)
	}
}

func TestHandleStatus_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(newMockState("A"))

	req := httptest.NewRequest(http.MethodPost, "/api/district-status", nil)
	rec := httptest.NewRecorder()
	srv.handleStatus(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleUpdate_Success(t *testing.T) {
	state := newMockState("A", "B")
	srv := newTestServer(state)

	body := strings.NewReader(`{"district": "A", "status": "warning"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/update-status", body)
	rec := httptest.NewRecorder()
	srv.handleUpdate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp updateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if resp.District != "A" || resp.Status != store.StatusWarning || resp.Color != store.ColorWarning {
		t.Errorf("response = %+v", resp)
	}

	// mutation actually reached the store
	got, err := state.st.Get("A")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != store.StatusWarning {
		t.Errorf("store status = %q, want warning", got.Status)
	}
}

func TestHandleUpdate_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{
			name:      "unknown district",
			body:      `{"district": "nonexistent", "status": "warning"}`,
			wantError: "district does not exist",
		},
		{
			name:      "invalid status",
			body:      `{"district": "A", "status": "panic"}`,
			wantError: "invalid status value",
		},
		{
			name:      "malformed body",
			body:      `{"district": `,
			wantError: "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := newMockState("A", "B")
			before := state.Snapshot()
			srv := newTestServer(state)

			req := httptest.NewRequest(http.MethodPost, "/api/update-status", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.handleUpdate(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}

			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if resp.Error != tt.wantError {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantError)
			}

			// a rejected mutation must leave state unchanged
			after := state.Snapshot()
			for district, want := range before {
				if after[district] != want {
					t.Errorf("district %q changed: %+v -> %+v", district, want, after[district])
				}
			}
		})
	}
}

func TestHandleUpdate_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(newMockState("A"))

	req := httptest.NewRequest(http.MethodGet, "/api/update-status", nil)
	rec := httptest.NewRecorder()
	srv.handleUpdate(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleDistricts(t *testing.T) {
	srv := newTestServer(newMockState("A", "B"))

	req := httptest.NewRequest(http.MethodGet, "/api/districts", nil)
	rec := httptest.NewRecorder()
	srv.handleDistricts(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var districts []DistrictInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &districts); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(districts) != 2 {
		t.Fatalf("got %d districts, want 2", len(districts))
	}
	if districts[0].ID != "A" || districts[0].Name != "District A" {
		t.Errorf("districts[0] = %+v", districts[0])
	}
}

func TestServer_StartAndShutdown(t *testing.T) {
	state := newMockState("A")
	srv := NewServer(state, state.h, 0, nil, testLogger())

	// port 0 asks the kernel for a free port; bind must succeed
	ctx, cancel := context.WithCancel(context.Background())
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()
}
