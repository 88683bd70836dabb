package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/mudra/internal/hand"
)

func TestEventRepository_CreateList(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	records := []*EventRecord{
		{Kind: "pinch", Chirality: "left", Elapsed: 300 * time.Millisecond, CreatedAt: base},
		{Kind: "grab", Chirality: "right", Elapsed: 900 * time.Millisecond, CreatedAt: base.Add(time.Second)},
		{
			Kind:      "pinch",
			Chirality: "right",
			Pose:      hand.Pose{Position: r3.Vec{X: 1, Y: 2, Z: 3}, Orientation: r3.Rotation{Real: 1}},
			Elapsed:   1500 * time.Millisecond,
			CreatedAt: base.Add(2 * time.Second),
		},
	}
	for _, r := range records {
		if err := repo.Create(r); err != nil {
			t.Fatalf("failed to create event: %v", err)
		}
		if r.ID == "" {
			t.Error("ID should be assigned on create")
		}
	}

	all, err := repo.List(EventFilter{})
	if err != nil {
		t.Fatalf("failed to list events: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}

	// Newest first
	want := records[2]
	if diff := cmp.Diff(want, all[0], cmpopts.EquateApproxTime(time.Millisecond)); diff != "" {
		t.Errorf("newest event mismatch (-want +got):\n%s", diff)
	}

	pinches, err := repo.List(EventFilter{Kind: "pinch"})
	if err != nil {
		t.Fatalf("failed to list pinches: %v", err)
	}
	if len(pinches) != 2 {
		t.Errorf("expected 2 pinches, got %d", len(pinches))
	}

	rightPinch, err := repo.List(EventFilter{Kind: "pinch", Chirality: "right"})
	if err != nil {
		t.Fatalf("failed to list right pinches: %v", err)
	}
	if len(rightPinch) != 1 || rightPinch[0].Elapsed != 1500*time.Millisecond {
		t.Errorf("unexpected right pinches: %+v", rightPinch)
	}

	limited, err := repo.List(EventFilter{Limit: 1})
	if err != nil {
		t.Fatalf("failed to list with limit: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 event with limit, got %d", len(limited))
	}
}

func TestEventRepository_InvalidChirality(t *testing.T) {
	s := newTestStore(t)

	err := s.Events().Create(&EventRecord{Kind: "pinch", Chirality: "both"})
	if err == nil {
		t.Error("creating event with unknown chirality should fail")
	}
}

func TestEventRepository_CountAndPrune(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	old := time.Now().Add(-48 * time.Hour)
	for _, r := range []*EventRecord{
		{Kind: "pinch", Chirality: "left", CreatedAt: old},
		{Kind: "pinch", Chirality: "left"},
		{Kind: "grab", Chirality: "right"},
	} {
		if err := repo.Create(r); err != nil {
			t.Fatalf("failed to create event: %v", err)
		}
	}

	counts, err := repo.CountByKind()
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if diff := cmp.Diff(map[string]int{"pinch": 2, "grab": 1}, counts); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}

	n, err := repo.DeleteBefore(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("failed to prune: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 pruned event, got %d", n)
	}
}

func TestEventRepository_TimeZones(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	// 10:00 at -07:00 is 17:00 UTC
	pdt := time.FixedZone("PDT", -7*60*60)
	created := time.Date(2026, 6, 1, 10, 0, 0, 0, pdt)
	if err := repo.Create(&EventRecord{Kind: "pinch", Chirality: "left", CreatedAt: created}); err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	tests := []struct {
		name  string
		since time.Time
		want  int
	}{
		{"utc bound before", time.Date(2026, 6, 1, 16, 0, 0, 0, time.UTC), 1},
		{"utc bound after", time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC), 0},
		{"other zone bound before", time.Date(2026, 6, 2, 1, 30, 0, 0, time.FixedZone("JST", 9*60*60)), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(EventFilter{Since: tt.since})
			if err != nil {
				t.Fatalf("failed to list events: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("expected %d events since %v, got %d", tt.want, tt.since, len(got))
			}
		})
	}

	all, err := repo.List(EventFilter{})
	if err != nil {
		t.Fatalf("failed to list events: %v", err)
	}
	if len(all) != 1 || !all[0].CreatedAt.Equal(created) {
		t.Fatalf("expected stored creation time %v, got %+v", created, all)
	}

	n, err := repo.DeleteBefore(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("failed to prune: %v", err)
	}
	if n != 0 {
		t.Errorf("expected nothing pruned before 12:00Z, got %d", n)
	}

	n, err = repo.DeleteBefore(time.Date(2026, 6, 1, 17, 0, 0, 1e6, time.UTC))
	if err != nil {
		t.Fatalf("failed to prune: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 pruned event before 17:00:00.001Z, got %d", n)
	}
}

func TestBindingRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.Bindings()

	b := &Binding{Kind: "pinch", HookName: "notify", Config: json.RawMessage(`{"title":"hi"}`), Enabled: true}
	if err := repo.Create(b); err != nil {
		t.Fatalf("failed to create binding: %v", err)
	}
	disabled := &Binding{Kind: "pinch", HookName: "keys", Enabled: false}
	if err := repo.Create(disabled); err != nil {
		t.Fatalf("failed to create binding: %v", err)
	}

	// Same kind and hook twice should fail
	if err := repo.Create(&Binding{Kind: "pinch", HookName: "notify"}); err == nil {
		t.Error("duplicate binding should fail")
	}

	got, err := repo.GetByID(b.ID)
	if err != nil {
		t.Fatalf("failed to get binding: %v", err)
	}
	if string(got.Config) != `{"title":"hi"}` {
		t.Errorf("Config mismatch: got %s", got.Config)
	}
	if got, _ := repo.GetByID(disabled.ID); string(got.Config) != "{}" {
		t.Errorf("expected default config {}, got %s", got.Config)
	}

	active, err := repo.ListByKind("pinch")
	if err != nil {
		t.Fatalf("failed to list by kind: %v", err)
	}
	if len(active) != 1 || active[0].HookName != "notify" {
		t.Errorf("expected only enabled binding, got %+v", active)
	}

	all, err := repo.List()
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 bindings, got %d", len(all))
	}

	if err := repo.Delete(b.ID); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if err := repo.Delete(b.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := repo.GetByID(b.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
