package store

import (
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ts(sec int) time.Time {
	return time.Date(2024, 3, 15, 10, 0, sec, 0, time.UTC)
}

// =============================================================================
// Store Tests
// =============================================================================

func TestStore_RecordAndLookup(t *testing.T) {
	s := New(discardLogger())
	s.Record("Ingress_Enter", "req-001", ts(0), "a.log", 1)
	s.Record("Ingress_Exit", "req-001", ts(1), "a.log", 2)
	s.Record("Ingress_Enter", "req-002", ts(2), "a.log", 3)

	got, ok := s.Timestamp("req-001", "Ingress_Exit")
	if !ok || !got.Equal(ts(1)) {
		t.Errorf("Timestamp(req-001, Ingress_Exit) = %v, %v", got, ok)
	}
	if _, ok := s.Timestamp("req-001", "StepA_Enter"); ok {
		t.Error("lookup of unrecorded event succeeded")
	}
	if _, ok := s.Timestamp("req-999", "Ingress_Enter"); ok {
		t.Error("lookup of unknown request succeeded")
	}
	if s.RequestCount() != 2 {
		t.Errorf("RequestCount = %d, want 2", s.RequestCount())
	}
	if s.DuplicateCount() != 0 {
		t.Errorf("DuplicateCount = %d, want 0", s.DuplicateCount())
	}
}

func TestStore_DuplicateLastWriteWins(t *testing.T) {
	s := New(discardLogger())
	s.Record("StepA_Enter", "req-001", ts(1), "a.log", 1)
	s.Record("StepA_Enter", "req-001", ts(5), "b.log", 9)

	got, ok := s.Timestamp("req-001", "StepA_Enter")
	if !ok {
		t.Fatal("event not found after duplicate record")
	}
	if !got.Equal(ts(5)) {
		t.Errorf("Timestamp = %v, want the newer %v", got, ts(5))
	}
	if s.DuplicateCount() != 1 {
		t.Errorf("DuplicateCount = %d, want 1", s.DuplicateCount())
	}
	if s.RequestCount() != 1 {
		t.Errorf("RequestCount = %d, want 1", s.RequestCount())
	}
}

func TestStore_EventNamesSorted(t *testing.T) {
	s := New(discardLogger())
	s.Record("StepB_Exit", "req-001", ts(0), "a.log", 1)
	s.Record("Ingress_Enter", "req-002", ts(1), "a.log", 2)
	s.Record("StepA_Enter", "req-001", ts(2), "a.log", 3)
	s.Record("Ingress_Enter", "req-003", ts(3), "a.log", 4) // repeated name, other request

	got := s.EventNames()
	want := []string{"Ingress_Enter", "StepA_Enter", "StepB_Exit"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EventNames = %v, want %v", got, want)
	}
}

func TestStore_ForEachVisitsEveryRequest(t *testing.T) {
	s := New(discardLogger())
	s.Record("Ingress_Enter", "req-001", ts(0), "a.log", 1)
	s.Record("Ingress_Enter", "req-002", ts(1), "a.log", 2)

	seen := make(map[string]int)
	s.ForEach(func(requestID string, events map[string]time.Time) {
		seen[requestID] = len(events)
	})

	if len(seen) != 2 || seen["req-001"] != 1 || seen["req-002"] != 1 {
		t.Errorf("ForEach visited %v", seen)
	}
}
