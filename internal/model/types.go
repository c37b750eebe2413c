package model

import "time"

// ISOLayout is the layout used when a timestamp leaves the core.
const ISOLayout = time.RFC3339Nano

// LogEntry represents one parsed line of a .log file.
// Entries are derived on every scan and never persisted or mutated.
type LogEntry struct {
	ID        string    // hex SHA-1 of the raw source line
	Timestamp time.Time
	Level     string
	Component string
	Message   string
}

// EntryView is the output projection of a LogEntry with the timestamp
// rendered as an ISO-8601 string.
type EntryView struct {
	ID        string `json:"id" yaml:"id"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Level     string `json:"level" yaml:"level"`
	Component string `json:"component" yaml:"component"`
	Message   string `json:"message" yaml:"message"`
}

// View projects the entry for output.
func (e LogEntry) View() EntryView {
	return EntryView{
		ID:        e.ID,
		Timestamp: e.Timestamp.Format(ISOLayout),
		Level:     e.Level,
		Component: e.Component,
		Message:   e.Message,
	}
}

// ListFilter holds the optional filters of a list query.
// An empty field means the filter is absent.
type ListFilter struct {
	Level     string `json:"level,omitempty"`
	Component string `json:"component,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

// ListResult is the response of a list query. Count always equals len(Logs).
type ListResult struct {
	Count int         `json:"count" yaml:"count"`
	Logs  []EntryView `json:"logs" yaml:"logs"`
}

// Stats holds aggregate counts over every parsed entry.
type Stats struct {
	TotalLogs   int64            `json:"total_logs" yaml:"total_logs"`
	ByLevel     map[string]int64 `json:"by_level" yaml:"by_level"`
	ByComponent map[string]int64 `json:"by_component" yaml:"by_component"`
}
