package store

import (
	"errors"
	"sync"
	"testing"
)

func testDistricts() []string {
	return []string{"A", "B", "C"}
}

func TestNewMemoryStore_DefaultsToNormal(t *testing.T) {
	store := NewMemoryStore(testDistricts())

	snap := store.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("Snapshot() = %d records, want 3", len(snap))
	}
	for district, rec := range snap {
		if rec.Status != StatusNormal {
			t.Errorf("district %q status = %q, want %q", district, rec.Status, StatusNormal)
		}
		if rec.Color != ColorNormal {
			t.Errorf("district %q color = %q, want %q", district, rec.Color, ColorNormal)
		}
	}
}

func TestMemoryStore_Set(t *testing.T) {
	store := NewMemoryStore(testDistricts())

	rec, err := store.Set("B", StatusWarning)
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if rec.Status != StatusWarning {
		t.Errorf("Set() status = %q, want %q", rec.Status, StatusWarning)
	}
	if rec.Color != ColorWarning {
		t.Errorf("Set() color = %q, want %q", rec.Color, ColorWarning)
	}

	got, err := store.Get("B")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != rec {
		t.Errorf("Get() = %+v, want %+v", got, rec)
	}
}

func TestMemoryStore_SetUnknownDistrict(t *testing.T) {
	store := NewMemoryStore(testDistricts())

	before := store.Snapshot()

	_, err := store.Set("nonexistent", StatusWarning)
	if !errors.Is(err, ErrUnknownDistrict) {
		t.Fatalf("Set() error = %v, want ErrUnknownDistrict", err)
	}

	// a rejected write must not grow the key set
	after := store.Snapshot()
	if len(after) != len(before) {
		t.Errorf("key set changed: %d -> %d records", len(before), len(after))
	}
}

func TestMemoryStore_GetUnknownDistrict(t *testing.T) {
	store := NewMemoryStore(testDistricts())

	_, err := store.Get("nonexistent")
	if !errors.Is(err, ErrUnknownDistrict) {
		t.Errorf("Get() error = %v, want ErrUnknownDistrict", err)
	}
}

func TestMemoryStore_SnapshotIsACopy(t *testing.T) {
	store := NewMemoryStore(testDistricts())

	snap := store.Snapshot()
	snap["A"] = Record{Status: StatusWarning, Color: ColorWarning}

	got, err := store.Get("A")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != StatusNormal {
		t.Errorf("mutating snapshot leaked into store: status = %q", got.Status)
	}
}

func TestMemoryStore_ColorAlwaysDerivedFromStatus(t *testing.T) {
	store := NewMemoryStore(testDistricts())

	if _, err := store.Set("A", StatusWarning); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := store.Set("A", StatusNormal); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	for district, rec := range store.Snapshot() {
		if rec.Color != ColorFor(rec.Status) {
			t.Errorf("district %q: color %q disagrees with status %q", district, rec.Color, rec.Status)
		}
	}
}

func TestMemoryStore_Restore(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want bool
	}{
		{
			name: "full valid snapshot",
			snap: Snapshot{
				"A": {Status: StatusWarning, Color: ColorWarning},
				"B": {Status: StatusNormal, Color: ColorNormal},
				"C": {Status: StatusNormal, Color: ColorNormal},
			},
			want: true,
		},
		{
			name: "missing district",
			snap: Snapshot{
				"A": {Status: StatusWarning, Color: ColorWarning},
				"B": {Status: StatusNormal, Color: ColorNormal},
			},
			want: false,
		},
		{
			name: "extra district",
			snap: Snapshot{
				"A": {Status: StatusNormal, Color: ColorNormal},
				"B": {Status: StatusNormal, Color: ColorNormal},
				"C": {Status: StatusNormal, Color: ColorNormal},
				"D": {Status: StatusNormal, Color: ColorNormal},
			},
			want: false,
		},
		{
			name: "wrong key",
			snap: Snapshot{
				"A": {Status: StatusNormal, Color: ColorNormal},
				"B": {Status: StatusNormal, Color: ColorNormal},
				"X": {Status: StatusNormal, Color: ColorNormal},
			},
			want: false,
		},
		{
			name: "invalid status",
			snap: Snapshot{
				"A": {Status: "alarmed", Color: ColorWarning},
				"B": {Status: StatusNormal, Color: ColorNormal},
				"C": {Status: StatusNormal, Color: ColorNormal},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore(testDistricts())
			got := store.Restore(tt.snap)
			if got != tt.want {
				t.Fatalf("Restore() = %v, want %v", got, tt.want)
			}

			if !tt.want {
				// a rejected snapshot must leave the store untouched
				for district, rec := range store.Snapshot() {
					if rec.Status != StatusNormal {
						t.Errorf("district %q status = %q after rejected restore", district, rec.Status)
					}
				}
			}
		})
	}
}

func TestMemoryStore_RestoreRecomputesColor(t *testing.T) {
	store := NewMemoryStore(testDistricts())

	// a hand-edited durable copy may carry a stale color
	ok := store.Restore(Snapshot{
		"A": {Status: StatusWarning, Color: ColorNormal},
		"B": {Status: StatusNormal, Color: ColorNormal},
		"C": {Status: StatusNormal, Color: ColorNormal},
	})
	if !ok {
		t.Fatal("Restore() = false, want true")
	}

	rec, err := store.Get("A")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if rec.Color != ColorWarning {
		t.Errorf("color = %q after restore, want %q", rec.Color, ColorWarning)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore(testDistricts())

	var wg sync.WaitGroup
	numGoroutines := 10
	numOps := 100

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				if _, err := store.Set("A", StatusWarning); err != nil {
					t.Errorf("Set() error = %v", err)
					return
				}
			}
		}()
	}

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				snap := store.Snapshot()
				for district, rec := range snap {
					if rec.Color != ColorFor(rec.Status) {
						t.Errorf("district %q: torn record %+v", district, rec)
						return
					}
				}
			}
		}()
	}

	wg.Wait()
}

func TestColorFor(t *testing.T) {
	if got := ColorFor(StatusNormal); got != "#5698c3" {
		t.Errorf("ColorFor(normal) = %q, want #5698c3", got)
	}
	if got := ColorFor(StatusWarning); got != "#ffc107" {
		t.Errorf("ColorFor(warning) = %q, want #ffc107", got)
	}
}
