package scan

import (
	"bufio"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const (
	// maxLineLength is the longest single line the scanner will accept.
	maxLineLength = 64 * 1024

	// contentPeekLines is how many leading lines are checked when deciding
	// whether a file belongs to a known pipeline stage.
	contentPeekLines = 10
)

// Sink receives event occurrences produced by the scan.
// Implemented by store.RequestEventStore and latency.Correlator.
type Sink interface {
	Record(event, requestID string, ts time.Time, file string, line int)
}

// Counters accumulates scan statistics across files. It is threaded through
// the scan explicitly and merged per file, so aggregate counts never live in
// shared closures.
type Counters struct {
	FilesScanned int
	FilesSkipped int

	LinesProcessed    int64
	EventsRecorded    int64 // one per (event, request id) pair stored
	ContinuationLines int64
	UnparseableLines  int64 // silent skips (no carried context)
	BadTimestamps     int64 // full-shaped lines with unparseable timestamps
}

// Merge adds the per-file counters o into c.
func (c *Counters) Merge(o Counters) {
	c.FilesScanned += o.FilesScanned
	c.FilesSkipped += o.FilesSkipped
	c.LinesProcessed += o.LinesProcessed
	c.EventsRecorded += o.EventsRecorded
	c.ContinuationLines += o.ContinuationLines
	c.UnparseableLines += o.UnparseableLines
	c.BadTimestamps += o.BadTimestamps
}

// Scanner walks a directory tree and feeds every matching file through the
// classifier and extractor into the configured sinks.
//
// The walk order is lexicographic (filepath.WalkDir), which makes the
// carry-over of continuation context reproducible across runs.
type Scanner struct {
	pattern  string   // glob on the base file name, "*" matches everything
	stages   []string // stage-name substrings; empty disables stage filtering
	logger   *slog.Logger
	warnings *WarningBuffer
	sinks    []Sink
}

// NewScanner creates a scanner. pattern is matched against base file names
// with path.Match semantics. When stages is non-empty, a file must also
// mention one of the stage names in its name or its first few lines.
func NewScanner(pattern string, stages []string, logger *slog.Logger, sinks ...Sink) *Scanner {
	if pattern == "" {
		pattern = "*"
	}
	return &Scanner{
		pattern:  pattern,
		stages:   stages,
		logger:   logger,
		warnings: NewWarningBuffer(),
		sinks:    sinks,
	}
}

// Warnings returns the buffer of recent scan warnings.
func (s *Scanner) Warnings() *WarningBuffer {
	return s.warnings
}

// ScanDir walks root and scans every matching file.
//
// Per-line and per-file failures are warned and skipped; only a missing or
// unreadable root directory is returned as an error.
func (s *Scanner) ScanDir(root string) (Counters, error) {
	info, err := os.Stat(root)
	if err != nil {
		return Counters{}, fmt.Errorf("log directory %q: %w", root, err)
	}
	if !info.IsDir() {
		return Counters{}, fmt.Errorf("log directory %q: not a directory", root)
	}

	var total Counters

	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			s.warnf("walk error at %s: %v", p, err)
			total.FilesSkipped++
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !s.matches(p) {
			return nil
		}

		c, err := s.scanFile(p)
		if err != nil {
			s.warnf("skipping file %s: %v", p, err)
			total.FilesSkipped++
			return nil
		}
		total.Merge(c)
		total.FilesScanned++
		return nil
	})
	if walkErr != nil {
		return total, walkErr
	}

	s.logger.Info("scan_complete",
		"files_scanned", total.FilesScanned,
		"files_skipped", total.FilesSkipped,
		"lines_processed", total.LinesProcessed,
		"events_recorded", total.EventsRecorded,
		"bad_timestamps", total.BadTimestamps,
	)
	return total, nil
}

// matches applies the name glob and, when configured, the stage filter.
func (s *Scanner) matches(p string) bool {
	base := filepath.Base(p)
	if ok, err := path.Match(s.pattern, base); err != nil || !ok {
		return false
	}
	if len(s.stages) == 0 {
		return true
	}
	for _, stage := range s.stages {
		if strings.Contains(base, stage) {
			return true
		}
	}
	return s.contentMentionsStage(p)
}

// contentMentionsStage peeks at the first few lines of a file looking for a
// known stage name. Unreadable files simply don't match.
func (s *Scanner) contentMentionsStage(p string) bool {
	f, err := os.Open(p)
	if err != nil {
		return false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, maxLineLength), maxLineLength)
	for i := 0; i < contentPeekLines && sc.Scan(); i++ {
		for _, stage := range s.stages {
			if strings.Contains(sc.Text(), stage) {
				return true
			}
		}
	}
	return false
}

// scanFile scans one file line by line, classifying each line with a fresh
// FileContext and recording extracted events into every sink.
func (s *Scanner) scanFile(p string) (Counters, error) {
	f, err := os.Open(p)
	if err != nil {
		return Counters{}, err
	}
	defer f.Close()

	s.logger.Info("processing_file", "path", p)

	var (
		c       Counters
		ctx     FileContext
		lineNum int
	)

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, maxLineLength), maxLineLength)

	for sc.Scan() {
		lineNum++
		c.LinesProcessed++

		rec := Classify(sc.Text(), &ctx)
		switch rec.Kind {
		case KindFull:
			c.EventsRecorded += s.record(rec, p, lineNum)
		case KindContinuation:
			c.ContinuationLines++
			c.EventsRecorded += s.record(rec, p, lineNum)
		case KindUnparseable:
			if rec.BadTimestamp {
				c.BadTimestamps++
				s.warnf("invalid timestamp format in %s:%d: %s", p, lineNum, rec.RawTimestamp)
			} else {
				c.UnparseableLines++
			}
		}
	}

	if err := sc.Err(); err != nil {
		// Partial data is already recorded; keep it and move on.
		s.warnf("read error in %s after line %d: %v", p, lineNum, err)
	}

	return c, nil
}

// record extracts events from a classified record and feeds each pair to
// every sink. Returns the number of pairs recorded.
func (s *Scanner) record(rec Record, file string, line int) int64 {
	pairs := ExtractEvents(rec.Payload)
	for _, pair := range pairs {
		for _, sink := range s.sinks {
			sink.Record(pair.Event, pair.RequestID, rec.Timestamp, file, line)
		}
	}
	return int64(len(pairs))
}

// warnf logs a warning and remembers it in the warning buffer.
func (s *Scanner) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.logger.Warn(msg)
	s.warnings.Add(msg)
}
