package scan

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// =============================================================================
// Test Helpers
// =============================================================================

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordedEvent captures one Sink.Record call.
type recordedEvent struct {
	Event     string
	RequestID string
	Timestamp time.Time
	File      string
	Line      int
}

// captureSink collects every recorded event for assertions.
type captureSink struct {
	events []recordedEvent
}

func (c *captureSink) Record(event, requestID string, ts time.Time, file string, line int) {
	c.events = append(c.events, recordedEvent{event, requestID, ts, file, line})
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return p
}

// =============================================================================
// Directory Scan Tests
// =============================================================================

func TestScanDir_BasicScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ingress.log",
		"2024-03-15 10:00:00,000 - INFO - Ingress_Enter req-001\n"+
			"2024-03-15 10:00:00,250 - INFO - Ingress_Exit req-001\n")

	sink := &captureSink{}
	s := NewScanner("*", nil, discardLogger(), sink)

	c, err := s.ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}

	if c.FilesScanned != 1 {
		t.Errorf("FilesScanned = %d, want 1", c.FilesScanned)
	}
	if c.LinesProcessed != 2 {
		t.Errorf("LinesProcessed = %d, want 2", c.LinesProcessed)
	}
	if c.EventsRecorded != 2 {
		t.Errorf("EventsRecorded = %d, want 2", c.EventsRecorded)
	}
	if len(sink.events) != 2 {
		t.Fatalf("sink received %d events, want 2", len(sink.events))
	}
	if sink.events[0].Event != "Ingress_Enter" || sink.events[0].RequestID != "req-001" {
		t.Errorf("first event = %+v", sink.events[0])
	}
	if sink.events[1].Line != 2 {
		t.Errorf("second event line = %d, want 2", sink.events[1].Line)
	}
}

func TestScanDir_ContinuationAndBadLines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mixed.log",
		"garbage before any timestamp\n"+
			"2024-03-15 10:00:00,000 - INFO - StepA_Enter req-001\n"+
			"StepA_Exit req-001\n"+
			"2024-99-99 10:00:00,000 - INFO - StepA_Enter req-002\n")

	sink := &captureSink{}
	s := NewScanner("*", nil, discardLogger(), sink)

	c, err := s.ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}

	if c.LinesProcessed != 4 {
		t.Errorf("LinesProcessed = %d, want 4", c.LinesProcessed)
	}
	if c.ContinuationLines != 1 {
		t.Errorf("ContinuationLines = %d, want 1", c.ContinuationLines)
	}
	if c.UnparseableLines != 1 {
		t.Errorf("UnparseableLines = %d, want 1", c.UnparseableLines)
	}
	if c.BadTimestamps != 1 {
		t.Errorf("BadTimestamps = %d, want 1", c.BadTimestamps)
	}
	if s.Warnings().Total() != 1 {
		t.Errorf("warnings total = %d, want 1", s.Warnings().Total())
	}

	// The continuation line inherits the full line's timestamp.
	if len(sink.events) != 2 {
		t.Fatalf("sink received %d events, want 2", len(sink.events))
	}
	if !sink.events[1].Timestamp.Equal(sink.events[0].Timestamp) {
		t.Errorf("continuation timestamp = %v, want %v",
			sink.events[1].Timestamp, sink.events[0].Timestamp)
	}
}

func TestScanDir_PatternFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "service.log", "2024-03-15 10:00:00,000 - INFO - StepA_Enter req-001\n")
	writeFile(t, dir, "notes.txt", "2024-03-15 10:00:00,000 - INFO - StepB_Enter req-002\n")

	sink := &captureSink{}
	s := NewScanner("*.log", nil, discardLogger(), sink)

	c, err := s.ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if c.FilesScanned != 1 {
		t.Errorf("FilesScanned = %d, want 1", c.FilesScanned)
	}
	if len(sink.events) != 1 || sink.events[0].Event != "StepA_Enter" {
		t.Errorf("events = %+v, want only StepA_Enter", sink.events)
	}
}

func TestScanDir_StageFilterByNameAndContent(t *testing.T) {
	dir := t.TempDir()
	// Matches by file name.
	writeFile(t, dir, "Ingress-01.log", "2024-03-15 10:00:00,000 - INFO - Ingress_Enter req-001\n")
	// Matches by content peek.
	writeFile(t, dir, "worker-07.log", "2024-03-15 10:00:01,000 - INFO - StepA_Enter req-001\n")
	// Matches neither.
	writeFile(t, dir, "other.log", "2024-03-15 10:00:02,000 - INFO - Unrelated_Enter req-001\n")

	sink := &captureSink{}
	s := NewScanner("*", []string{"Ingress", "StepA"}, discardLogger(), sink)

	c, err := s.ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if c.FilesScanned != 2 {
		t.Errorf("FilesScanned = %d, want 2", c.FilesScanned)
	}
}

func TestScanDir_WalksSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "node-a")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, sub, "svc.log", "2024-03-15 10:00:00,000 - INFO - StepD_Enter req-042\n")

	sink := &captureSink{}
	s := NewScanner("*", nil, discardLogger(), sink)

	c, err := s.ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if c.FilesScanned != 1 {
		t.Errorf("FilesScanned = %d, want 1", c.FilesScanned)
	}
}

func TestScanDir_MissingRoot(t *testing.T) {
	s := NewScanner("*", nil, discardLogger())

	if _, err := s.ScanDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("ScanDir on missing directory: want error, got nil")
	}
}

func TestScanDir_RootIsFile(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "file.log", "x\n")

	s := NewScanner("*", nil, discardLogger())
	if _, err := s.ScanDir(p); err == nil {
		t.Fatal("ScanDir on a file: want error, got nil")
	}
}

func TestScanDir_BatchLineRecordsEveryID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "batch.log",
		"2024-03-15 10:00:00,000 - INFO - StepE_Exit req-001 req-002 req-003\n")

	sink := &captureSink{}
	s := NewScanner("*", nil, discardLogger(), sink)

	c, err := s.ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if c.EventsRecorded != 3 {
		t.Errorf("EventsRecorded = %d, want 3", c.EventsRecorded)
	}
	if len(sink.events) != 3 {
		t.Fatalf("sink received %d events, want 3", len(sink.events))
	}
	for i, id := range []string{"req-001", "req-002", "req-003"} {
		if sink.events[i].RequestID != id {
			t.Errorf("event %d RequestID = %q, want %q", i, sink.events[i].RequestID, id)
		}
	}
}
