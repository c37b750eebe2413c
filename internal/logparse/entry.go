package logparse

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/tinytelemetry/logq/internal/model"
	"github.com/tinytelemetry/logq/internal/timestamp"
)

// FieldSeparator separates the fields of a raw log line.
const FieldSeparator = "\t"

// fieldCount is the number of fields a raw line must split into:
// timestamp, level, component, message.
const fieldCount = 4

// Parser converts raw log lines into entries.
type Parser struct {
	ts *timestamp.Parser
}

// NewParser creates an entry parser. A nil timestamp parser falls back
// to timestamp.NewParser().
func NewParser(ts *timestamp.Parser) *Parser {
	if ts == nil {
		ts = timestamp.NewParser()
	}
	return &Parser{ts: ts}
}

// ParseLine parses one raw line as read from a file, terminator included.
// It reports false for lines that do not have exactly four tab separated
// fields or whose timestamp cannot be parsed.
func (p *Parser) ParseLine(raw string) (model.LogEntry, bool) {
	parts := strings.Split(strings.TrimSpace(raw), FieldSeparator)
	if len(parts) != fieldCount {
		return model.LogEntry{}, false
	}

	ts, ok := p.ts.ParseTimestamp(parts[0])
	if !ok {
		return model.LogEntry{}, false
	}

	return model.LogEntry{
		ID:        EntryID(raw),
		Timestamp: ts,
		Level:     parts[1],
		Component: parts[2],
		Message:   parts[3],
	}, true
}

// EntryID returns the hex SHA-1 of the raw line. The ID covers the line
// exactly as read, so lines differing only in trailing whitespace get
// different IDs.
func EntryID(raw string) string {
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
