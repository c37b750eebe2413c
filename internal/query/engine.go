// Package query answers list, stats and lookup queries by re-scanning the
// log directory on every call.
package query

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/tinytelemetry/logq/internal/model"
	"github.com/tinytelemetry/logq/internal/timestamp"
)

// EntrySource produces a fresh entry sequence per call.
type EntrySource interface {
	Entries(ctx context.Context) iter.Seq[model.LogEntry]
}

// Engine implements model.LogQuerier over an EntrySource. It keeps no state
// between calls and is safe for concurrent use.
type Engine struct {
	source EntrySource
	ts     *timestamp.Parser
}

var _ model.LogQuerier = (*Engine)(nil)

// NewEngine creates a query engine. ts parses the time bounds of list
// queries and should be the parser used for log lines.
func NewEngine(source EntrySource, ts *timestamp.Parser) *Engine {
	if ts == nil {
		ts = timestamp.NewParser()
	}
	return &Engine{source: source, ts: ts}
}

// bounds is a parsed ListFilter.
type bounds struct {
	level     string
	component string
	start     *time.Time
	end       *time.Time
}

func (b bounds) match(e model.LogEntry) bool {
	if b.level != "" && e.Level != b.level {
		return false
	}
	if b.component != "" && e.Component != b.component {
		return false
	}
	if b.start != nil && e.Timestamp.Before(*b.start) {
		return false
	}
	if b.end != nil && e.Timestamp.After(*b.end) {
		return false
	}
	return true
}

func (e *Engine) parseBound(name, text string) (*time.Time, error) {
	if text == "" {
		return nil, nil
	}
	ts, err := e.ts.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", model.ErrInvalidTimestamp, name, text)
	}
	return &ts, nil
}

func (e *Engine) compile(f model.ListFilter) (bounds, error) {
	start, err := e.parseBound("start_time", f.StartTime)
	if err != nil {
		return bounds{}, err
	}
	end, err := e.parseBound("end_time", f.EndTime)
	if err != nil {
		return bounds{}, err
	}
	return bounds{
		level:     f.Level,
		component: f.Component,
		start:     start,
		end:       end,
	}, nil
}

// ListFiltered returns every entry matching all given filters, in scan order.
// Time bounds are inclusive. An unparsable bound fails with
// model.ErrInvalidTimestamp before any file is read.
func (e *Engine) ListFiltered(ctx context.Context, filter model.ListFilter) (model.ListResult, error) {
	b, err := e.compile(filter)
	if err != nil {
		return model.ListResult{}, err
	}

	logs := make([]model.EntryView, 0)
	for entry := range e.source.Entries(ctx) {
		if b.match(entry) {
			logs = append(logs, entry.View())
		}
	}
	if err := ctx.Err(); err != nil {
		return model.ListResult{}, err
	}

	return model.ListResult{Count: len(logs), Logs: logs}, nil
}

// Stats counts every entry, by level and by component.
func (e *Engine) Stats(ctx context.Context) (model.Stats, error) {
	stats := model.Stats{
		ByLevel:     make(map[string]int64),
		ByComponent: make(map[string]int64),
	}
	for entry := range e.source.Entries(ctx) {
		stats.TotalLogs++
		stats.ByLevel[entry.Level]++
		stats.ByComponent[entry.Component]++
	}
	if err := ctx.Err(); err != nil {
		return model.Stats{}, err
	}
	return stats, nil
}

// GetByID returns the first entry whose id matches. The scan stops at the
// match.
func (e *Engine) GetByID(ctx context.Context, id string) (model.EntryView, error) {
	for entry := range e.source.Entries(ctx) {
		if entry.ID == id {
			return entry.View(), nil
		}
	}
	if err := ctx.Err(); err != nil {
		return model.EntryView{}, err
	}
	return model.EntryView{}, fmt.Errorf("%w: %s", model.ErrNotFound, id)
}
