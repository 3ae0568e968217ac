package latency

import (
	"testing"
	"time"
)

func ts(ms int) time.Time {
	return time.Date(2024, 3, 15, 10, 0, 0, ms*1_000_000, time.UTC)
}

// =============================================================================
// Stage/Action Split Tests
// =============================================================================

func TestSplitStageAction(t *testing.T) {
	tests := []struct {
		event      string
		wantStage  string
		wantAction string
		wantOK     bool
	}{
		{"Ingress_Enter", "Ingress", "Enter", true},
		{"StepA_Exit", "StepA", "Exit", true},
		// Stage names may contain underscores; split on the last one.
		{"Ingress_Mono_Enter", "Ingress_Mono", "Enter", true},
		{"NoUnderscore", "", "", false},
		{"_Enter", "", "", false},
		{"Stage_", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			stage, action, ok := SplitStageAction(tt.event)
			if stage != tt.wantStage || action != tt.wantAction || ok != tt.wantOK {
				t.Errorf("SplitStageAction(%q) = %q, %q, %v; want %q, %q, %v",
					tt.event, stage, action, ok, tt.wantStage, tt.wantAction, tt.wantOK)
			}
		})
	}
}

// =============================================================================
// Correlator Tests
// =============================================================================

func TestCorrelator_BasicPairing(t *testing.T) {
	c := NewCorrelator(nil)
	c.Record("StepA_Enter", "req-001", ts(0), "a.log", 1)
	c.Record("StepA_Exit", "req-001", ts(250), "a.log", 2)

	ivs := c.Intervals()
	if len(ivs) != 1 {
		t.Fatalf("got %d intervals, want 1", len(ivs))
	}
	iv := ivs[0]
	if iv.Stage != "StepA" || iv.RequestID != "req-001" {
		t.Errorf("interval = %+v", iv)
	}
	if iv.Latency != 250*time.Millisecond {
		t.Errorf("Latency = %v, want 250ms", iv.Latency)
	}
}

func TestCorrelator_LatestEnterWins(t *testing.T) {
	c := NewCorrelator(nil)
	c.Record("StepA_Enter", "req-001", ts(0), "a.log", 1)
	c.Record("StepA_Enter", "req-001", ts(5), "a.log", 2)
	c.Record("StepA_Exit", "req-001", ts(10), "a.log", 3)

	ivs := c.Intervals()
	if len(ivs) != 1 {
		t.Fatalf("got %d intervals, want 1", len(ivs))
	}
	if ivs[0].Latency != 5*time.Millisecond {
		t.Errorf("Latency = %v, want 5ms (measured from the later Enter)", ivs[0].Latency)
	}
}

func TestCorrelator_OrphanExitDiscarded(t *testing.T) {
	c := NewCorrelator(nil)
	c.Record("StepA_Exit", "req-001", ts(100), "a.log", 1)

	if got := c.Intervals(); len(got) != 0 {
		t.Errorf("got %d intervals from orphan Exit, want 0", len(got))
	}
}

func TestCorrelator_UnmatchedEnterDiscarded(t *testing.T) {
	c := NewCorrelator(nil)
	c.Record("StepA_Enter", "req-001", ts(0), "a.log", 1)

	if got := c.Intervals(); len(got) != 0 {
		t.Errorf("got %d intervals from unmatched Enter, want 0", len(got))
	}
}

func TestCorrelator_ExitConsumesSlot(t *testing.T) {
	c := NewCorrelator(nil)
	c.Record("StepA_Enter", "req-001", ts(0), "a.log", 1)
	c.Record("StepA_Exit", "req-001", ts(10), "a.log", 2)
	// Second Exit has no pending Enter left.
	c.Record("StepA_Exit", "req-001", ts(20), "a.log", 3)

	if got := c.Intervals(); len(got) != 1 {
		t.Errorf("got %d intervals, want 1", len(got))
	}
}

func TestCorrelator_SlotsAreIndependentPerStage(t *testing.T) {
	c := NewCorrelator(nil)
	c.Record("StepA_Enter", "req-001", ts(0), "a.log", 1)
	c.Record("StepB_Enter", "req-001", ts(5), "a.log", 2)
	c.Record("StepB_Exit", "req-001", ts(30), "a.log", 3)
	c.Record("StepA_Exit", "req-001", ts(50), "a.log", 4)

	ivs := c.Intervals()
	if len(ivs) != 2 {
		t.Fatalf("got %d intervals, want 2", len(ivs))
	}
	a := c.IntervalsForStage("StepA")
	b := c.IntervalsForStage("StepB")
	if len(a) != 1 || a[0].Latency != 50*time.Millisecond {
		t.Errorf("StepA intervals = %+v", a)
	}
	if len(b) != 1 || b[0].Latency != 25*time.Millisecond {
		t.Errorf("StepB intervals = %+v", b)
	}
}

func TestCorrelator_StageFilter(t *testing.T) {
	c := NewCorrelator([]string{"StepA"})
	c.Record("StepA_Enter", "req-001", ts(0), "a.log", 1)
	c.Record("StepA_Exit", "req-001", ts(10), "a.log", 2)
	c.Record("StepB_Enter", "req-001", ts(0), "a.log", 3)
	c.Record("StepB_Exit", "req-001", ts(10), "a.log", 4)

	if got := c.Intervals(); len(got) != 1 || got[0].Stage != "StepA" {
		t.Errorf("intervals = %+v, want only StepA", got)
	}
}

func TestCorrelator_IgnoresNonLifecycleEvents(t *testing.T) {
	c := NewCorrelator(nil)
	c.Record("StepA_Started", "req-001", ts(0), "a.log", 1)
	c.Record("Heartbeat", "req-001", ts(5), "a.log", 2)

	if got := c.Intervals(); len(got) != 0 {
		t.Errorf("got %d intervals, want 0", len(got))
	}
}

func TestCorrelator_IntervalsSortedByEnter(t *testing.T) {
	c := NewCorrelator(nil)
	c.Record("StepA_Enter", "req-002", ts(100), "a.log", 1)
	c.Record("StepA_Exit", "req-002", ts(150), "a.log", 2)
	c.Record("StepA_Enter", "req-001", ts(0), "a.log", 3)
	c.Record("StepA_Exit", "req-001", ts(50), "a.log", 4)

	ivs := c.Intervals()
	if len(ivs) != 2 {
		t.Fatalf("got %d intervals, want 2", len(ivs))
	}
	if ivs[0].RequestID != "req-001" || ivs[1].RequestID != "req-002" {
		t.Errorf("order = %s, %s; want req-001 first", ivs[0].RequestID, ivs[1].RequestID)
	}
}
