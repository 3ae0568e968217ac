package scan

import "sync"

// maxBufferedWarnings is the number of recent warnings retained for the
// exit summary.
const maxBufferedWarnings = 100

// WarningBuffer keeps a circular buffer of recent scan warnings plus a
// total count, so the exit summary can show what went wrong without the
// caller re-reading the logs.
type WarningBuffer struct {
	mu     sync.Mutex
	buffer []string
	bufIdx int
	total  int64
}

// NewWarningBuffer creates an empty warning buffer.
func NewWarningBuffer() *WarningBuffer {
	return &WarningBuffer{
		buffer: make([]string, maxBufferedWarnings),
	}
}

// Add records one warning message.
func (w *WarningBuffer) Add(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buffer[w.bufIdx] = msg
	w.bufIdx = (w.bufIdx + 1) % maxBufferedWarnings
	w.total++
}

// Total returns the number of warnings recorded, including ones that have
// rotated out of the buffer.
func (w *WarningBuffer) Total() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.total
}

// Recent returns up to n of the most recent warnings, oldest first.
func (w *WarningBuffer) Recent(n int) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if n > maxBufferedWarnings {
		n = maxBufferedWarnings
	}

	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		idx := (w.bufIdx - n + i + maxBufferedWarnings) % maxBufferedWarnings
		if w.buffer[idx] != "" {
			out = append(out, w.buffer[idx])
		}
	}
	return out
}
