// Package store accumulates per-request event timestamps discovered during
// a log scan.
//
// The store maps request id -> event name -> timestamp. It is built once
// during the directory walk and is read-only once analysis queries begin.
// Duplicate (request id, event) occurrences follow a last-write-wins policy:
// the newer timestamp overwrites the older one and a global duplicate
// counter is incremented.
package store

import (
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// RequestEventStore holds the event timestamps of every request seen.
//
// Not safe for concurrent mutation; the scan is single-threaded by design.
type RequestEventStore struct {
	requests   map[string]map[string]time.Time
	duplicates int64
	logger     *slog.Logger
}

// New creates an empty store.
func New(logger *slog.Logger) *RequestEventStore {
	return &RequestEventStore{
		requests: make(map[string]map[string]time.Time),
		logger:   logger,
	}
}

// Record stores one event occurrence. Implements scan.Sink.
//
// A repeated (requestID, event) pair overwrites the stored timestamp,
// increments the duplicate counter, and warns with the source location.
func (s *RequestEventStore) Record(event, requestID string, ts time.Time, file string, line int) {
	events, ok := s.requests[requestID]
	if !ok {
		events = make(map[string]time.Time)
		s.requests[requestID] = events
	}

	if _, exists := events[event]; exists {
		s.duplicates++
		s.logger.Warn(fmt.Sprintf("duplicate event %s for request ID %s in %s:%d", event, requestID, file, line))
	}

	events[event] = ts
}

// Timestamp returns the stored timestamp for (requestID, event).
func (s *RequestEventStore) Timestamp(requestID, event string) (time.Time, bool) {
	events, ok := s.requests[requestID]
	if !ok {
		return time.Time{}, false
	}
	ts, ok := events[event]
	return ts, ok
}

// EventNames returns the sorted set of all event names ever recorded.
func (s *RequestEventStore) EventNames() []string {
	seen := make(map[string]struct{})
	for _, events := range s.requests {
		for name := range events {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RequestCount returns the number of unique request ids seen.
func (s *RequestEventStore) RequestCount() int {
	return len(s.requests)
}

// DuplicateCount returns how many duplicate (request id, event) occurrences
// were overwritten.
func (s *RequestEventStore) DuplicateCount() int64 {
	return s.duplicates
}

// ForEach calls fn for every request id and its event map. Iteration order
// is unspecified; callers needing determinism must sort what they collect.
func (s *RequestEventStore) ForEach(fn func(requestID string, events map[string]time.Time)) {
	for id, events := range s.requests {
		fn(id, events)
	}
}
