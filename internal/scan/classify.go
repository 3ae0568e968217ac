// Package scan implements the log ingestion pipeline: line classification,
// event extraction, and the directory walk that feeds event sinks.
//
// Log files are line-oriented text. A "full" line carries its own timestamp
// and level; a continuation line carries only a payload and inherits the
// timestamp and level of the most recent full line seen in the same file.
package scan

import (
	"regexp"
	"strings"
	"time"
)

// RecordKind tags the outcome of classifying one raw log line.
type RecordKind int

const (
	// KindFull is a line with its own timestamp, level, and payload.
	KindFull RecordKind = iota

	// KindContinuation is a payload-only line inheriting carried context.
	KindContinuation

	// KindUnparseable is a line that cannot be interpreted and is skipped.
	KindUnparseable
)

// reFullRecord matches "TIMESTAMP - LEVEL - PAYLOAD" lines.
// Timestamp format: YYYY-MM-DD HH:MM:SS,mmm (comma before milliseconds).
var reFullRecord = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3}) - (\w+) - (.+)$`)

// timestampLayout parses the comma-millisecond timestamps used by the
// pipeline services.
const timestampLayout = "2006-01-02 15:04:05,000"

// Record is the tagged result of classifying one line.
//
// For KindFull and KindContinuation, Timestamp, Level, and Payload are set.
// For KindUnparseable, BadTimestamp reports whether the line had the full
// shape but an unparseable timestamp (warned and skipped) as opposed to a
// line with no carried context (silently skipped).
type Record struct {
	Kind         RecordKind
	Timestamp    time.Time
	Level        string
	Payload      string
	BadTimestamp bool
	RawTimestamp string // original timestamp text, for diagnostics
}

// FileContext carries the last-seen timestamp and level across the lines of
// one file scan. It is explicit state passed into Classify so that the
// carry-over behavior is testable rather than hidden in package globals.
type FileContext struct {
	LastTimestamp time.Time
	LastLevel     string
}

// hasCarry reports whether a full record has been seen in this file.
func (c *FileContext) hasCarry() bool {
	return !c.LastTimestamp.IsZero() && c.LastLevel != ""
}

// Classify decides whether line is a full record, a continuation of the
// carried context, or unparseable.
//
// A successful full-record match updates ctx for subsequent lines.
// A line matching the full shape whose timestamp fails to parse does NOT
// update ctx; it is reported via BadTimestamp so the caller can warn.
func Classify(line string, ctx *FileContext) Record {
	if m := reFullRecord.FindStringSubmatch(line); m != nil {
		ts, err := time.Parse(timestampLayout, m[1])
		if err != nil {
			return Record{Kind: KindUnparseable, BadTimestamp: true, RawTimestamp: m[1]}
		}
		ctx.LastTimestamp = ts
		ctx.LastLevel = m[2]
		return Record{Kind: KindFull, Timestamp: ts, Level: m[2], Payload: m[3]}
	}

	if ctx.hasCarry() {
		return Record{
			Kind:      KindContinuation,
			Timestamp: ctx.LastTimestamp,
			Level:     ctx.LastLevel,
			Payload:   strings.TrimSpace(line),
		}
	}

	// No timestamp context yet in this file.
	return Record{Kind: KindUnparseable}
}
