// Package latency correlates Enter/Exit events into per-stage intervals and
// derives latency and throughput figures from them.
package latency

import (
	"sort"
	"strings"
	"time"
)

// Lifecycle actions recognized in event names of the form "Stage_Action".
const (
	ActionEnter = "Enter"
	ActionExit  = "Exit"
)

// Interval is one correlated Enter/Exit pair for a request in a stage.
type Interval struct {
	RequestID string
	Stage     string
	Enter     time.Time
	Exit      time.Time
	Latency   time.Duration
}

// SplitStageAction splits an event name "Stage_Action" on its last
// underscore, so stage names may themselves contain underscores
// ("Ingress_Mono_Enter" -> "Ingress_Mono", "Enter").
func SplitStageAction(event string) (stage, action string, ok bool) {
	idx := strings.LastIndex(event, "_")
	if idx <= 0 || idx == len(event)-1 {
		return "", "", false
	}
	return event[:idx], event[idx+1:], true
}

type slotKey struct {
	stage string
	id    string
}

// Correlator pairs Enter/Exit occurrences sharing a request id.
//
// One pending slot exists per (stage, request id): an Enter fills the slot
// (a second Enter overwrites it, so the most recent Enter wins), and an
// Exit with a pending Enter emits an interval and clears the slot. An Exit
// with no pending Enter is an orphan and is discarded.
type Correlator struct {
	stages    map[string]struct{} // nil = accept every stage
	pending   map[slotKey]time.Time
	intervals []Interval
}

// NewCorrelator creates a correlator. When stages is non-empty, events for
// other stages are ignored.
func NewCorrelator(stages []string) *Correlator {
	c := &Correlator{
		pending: make(map[slotKey]time.Time),
	}
	if len(stages) > 0 {
		c.stages = make(map[string]struct{}, len(stages))
		for _, s := range stages {
			c.stages[s] = struct{}{}
		}
	}
	return c
}

// Record consumes one event occurrence. Implements scan.Sink.
// Events that are not "Stage_Enter" or "Stage_Exit" are ignored.
func (c *Correlator) Record(event, requestID string, ts time.Time, file string, line int) {
	stage, action, ok := SplitStageAction(event)
	if !ok {
		return
	}
	if c.stages != nil {
		if _, want := c.stages[stage]; !want {
			return
		}
	}

	key := slotKey{stage: stage, id: requestID}

	switch action {
	case ActionEnter:
		c.pending[key] = ts
	case ActionExit:
		enter, ok := c.pending[key]
		if !ok {
			return // orphan Exit
		}
		delete(c.pending, key)
		c.intervals = append(c.intervals, Interval{
			RequestID: requestID,
			Stage:     stage,
			Enter:     enter,
			Exit:      ts,
			Latency:   ts.Sub(enter),
		})
	}
}

// Intervals returns every correlated interval, sorted by enter time.
// Unmatched pending Enters are discarded, not paired.
func (c *Correlator) Intervals() []Interval {
	out := make([]Interval, len(c.intervals))
	copy(out, c.intervals)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Enter.Before(out[j].Enter)
	})
	return out
}

// IntervalsForStage returns the intervals of one stage, sorted by enter time.
func (c *Correlator) IntervalsForStage(stage string) []Interval {
	var out []Interval
	for _, iv := range c.intervals {
		if iv.Stage == stage {
			out = append(out, iv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Enter.Before(out[j].Enter)
	})
	return out
}
