package query

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/tinytelemetry/logq/internal/logparse"
	"github.com/tinytelemetry/logq/internal/logscan"
	"github.com/tinytelemetry/logq/internal/model"
	"github.com/tinytelemetry/logq/internal/timestamp"
)

const fixtureApp = "2024-01-01T10:00:00\tERROR\tauth\tlogin failed\n" +
	"2024-01-01T11:00:00\tINFO\tauth\tlogin ok\n" +
	"garbage line\n" +
	"2024-01-01T12:00:00\tINFO\tapi\trequest served\n"

const fixtureDB = "2024-01-02 09:30:00\tWARN\tdb\tslow query\n" +
	"2024-01-02 10:00:00\tERROR\tdb\tconnection lost\n" +
	"bad\tline\n"

func newFixtureEngine(t *testing.T, files map[string]string) *Engine {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	ts := timestamp.NewParser()
	return NewEngine(logscan.New(dir, logparse.NewParser(ts)), ts)
}

func defaultEngine(t *testing.T) *Engine {
	return newFixtureEngine(t, map[string]string{
		"app.log":   fixtureApp,
		"db.log":    fixtureDB,
		"readme.md": fixtureApp,
	})
}

// countingSource records how many entries were pulled and how many scans ran.
type countingSource struct {
	entries []model.LogEntry
	scans   int
	pulled  int
}

func (s *countingSource) Entries(ctx context.Context) iter.Seq[model.LogEntry] {
	s.scans++
	return func(yield func(model.LogEntry) bool) {
		for _, e := range s.entries {
			s.pulled++
			if !yield(e) {
				return
			}
		}
	}
}

func TestListFiltered_NoFilters(t *testing.T) {
	e := defaultEngine(t)

	res, err := e.ListFiltered(context.Background(), model.ListFilter{})
	if err != nil {
		t.Fatalf("ListFiltered: %v", err)
	}
	if res.Count != 5 {
		t.Errorf("count = %d, want 5", res.Count)
	}
	if res.Count != len(res.Logs) {
		t.Errorf("count %d != len(logs) %d", res.Count, len(res.Logs))
	}
}

func TestListFiltered_EmptyDirectory(t *testing.T) {
	e := newFixtureEngine(t, nil)

	res, err := e.ListFiltered(context.Background(), model.ListFilter{})
	if err != nil {
		t.Fatalf("ListFiltered: %v", err)
	}
	if res.Count != 0 || res.Logs == nil || len(res.Logs) != 0 {
		t.Errorf("result = %+v, want empty non-nil list", res)
	}
}

func TestListFiltered_Filters(t *testing.T) {
	e := defaultEngine(t)

	tests := []struct {
		name   string
		filter model.ListFilter
		want   int
	}{
		{"level", model.ListFilter{Level: "ERROR"}, 2},
		{"level is case sensitive", model.ListFilter{Level: "error"}, 0},
		{"component", model.ListFilter{Component: "auth"}, 2},
		{"level and component", model.ListFilter{Level: "ERROR", Component: "db"}, 1},
		{"unknown level", model.ListFilter{Level: "TRACE"}, 0},
		{"start inclusive", model.ListFilter{StartTime: "2024-01-01T12:00:00"}, 3},
		{"end inclusive", model.ListFilter{EndTime: "2024-01-01T11:00:00Z"}, 2},
		{"range", model.ListFilter{StartTime: "2024-01-01 11:00", EndTime: "2024-01-02 09:30:00"}, 3},
		{"single instant", model.ListFilter{StartTime: "2024-01-01T10:00:00", EndTime: "2024-01-01T10:00:00"}, 1},
		{"free form bound", model.ListFilter{StartTime: "January 2, 2024"}, 2},
		{"empty bounds are absent", model.ListFilter{StartTime: "", EndTime: ""}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.ListFiltered(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("ListFiltered: %v", err)
			}
			if res.Count != tt.want {
				t.Errorf("count = %d, want %d (%+v)", res.Count, tt.want, res.Logs)
			}
			if res.Count != len(res.Logs) {
				t.Errorf("count %d != len(logs) %d", res.Count, len(res.Logs))
			}
		})
	}
}

func TestListFiltered_InvertedRangeIsEmpty(t *testing.T) {
	e := defaultEngine(t)

	res, err := e.ListFiltered(context.Background(), model.ListFilter{
		StartTime: "2024-01-02T00:00:00",
		EndTime:   "2024-01-01T00:00:00",
	})
	if err != nil {
		t.Fatalf("inverted range should not fail: %v", err)
	}
	if res.Count != 0 {
		t.Errorf("count = %d, want 0", res.Count)
	}
}

func TestListFiltered_InvalidTimestamp(t *testing.T) {
	tests := []model.ListFilter{
		{StartTime: "not-a-date"},
		{EndTime: "garbage"},
		{StartTime: "2024-01-01", EndTime: "tomorrow-ish"},
	}

	for _, f := range tests {
		src := &countingSource{}
		e := NewEngine(src, nil)
		_, err := e.ListFiltered(context.Background(), f)
		if !errors.Is(err, model.ErrInvalidTimestamp) {
			t.Errorf("ListFiltered(%+v) err = %v, want ErrInvalidTimestamp", f, err)
		}
		if src.scans != 0 {
			t.Errorf("ListFiltered(%+v) scanned %d times before validating input", f, src.scans)
		}
	}
}

func TestListFiltered_Projection(t *testing.T) {
	e := newFixtureEngine(t, map[string]string{"a.log": "2024-01-01T10:00:00\tERROR\tauth\tlogin failed\n"})

	res, err := e.ListFiltered(context.Background(), model.ListFilter{})
	if err != nil {
		t.Fatalf("ListFiltered: %v", err)
	}
	if res.Count != 1 {
		t.Fatalf("count = %d, want 1", res.Count)
	}
	got := res.Logs[0]
	want := model.EntryView{
		ID:        logparse.EntryID("2024-01-01T10:00:00\tERROR\tauth\tlogin failed\n"),
		Timestamp: "2024-01-01T10:00:00Z",
		Level:     "ERROR",
		Component: "auth",
		Message:   "login failed",
	}
	if got != want {
		t.Errorf("entry = %+v, want %+v", got, want)
	}
}

func TestStats_Example(t *testing.T) {
	e := newFixtureEngine(t, map[string]string{
		"a.log": "2024-01-01T10:00:00\tERROR\tauth\tlogin failed\nbad\tline\n",
	})

	stats, err := e.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalLogs != 1 {
		t.Errorf("total = %d, want 1", stats.TotalLogs)
	}
	if len(stats.ByLevel) != 1 || stats.ByLevel["ERROR"] != 1 {
		t.Errorf("by_level = %v, want {ERROR:1}", stats.ByLevel)
	}
	if len(stats.ByComponent) != 1 || stats.ByComponent["auth"] != 1 {
		t.Errorf("by_component = %v, want {auth:1}", stats.ByComponent)
	}
}

func TestStats_TotalsConsistent(t *testing.T) {
	e := defaultEngine(t)

	stats, err := e.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalLogs != 5 {
		t.Errorf("total = %d, want 5", stats.TotalLogs)
	}

	var byLevel, byComponent int64
	for _, n := range stats.ByLevel {
		byLevel += n
	}
	for _, n := range stats.ByComponent {
		byComponent += n
	}
	if byLevel != stats.TotalLogs || byComponent != stats.TotalLogs {
		t.Errorf("sums level=%d component=%d, total=%d", byLevel, byComponent, stats.TotalLogs)
	}
	if stats.ByLevel["INFO"] != 2 || stats.ByLevel["ERROR"] != 2 || stats.ByLevel["WARN"] != 1 {
		t.Errorf("by_level = %v", stats.ByLevel)
	}
}

func TestStats_Empty(t *testing.T) {
	e := newFixtureEngine(t, nil)

	stats, err := e.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalLogs != 0 || stats.ByLevel == nil || stats.ByComponent == nil {
		t.Errorf("stats = %+v, want zero total with empty maps", stats)
	}
}

func TestGetByID(t *testing.T) {
	e := defaultEngine(t)
	raw := "2024-01-02 09:30:00\tWARN\tdb\tslow query\n"

	got, err := e.GetByID(context.Background(), logparse.EntryID(raw))
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Message != "slow query" || got.Level != "WARN" || got.Component != "db" {
		t.Errorf("entry = %+v", got)
	}
	if got.Timestamp != "2024-01-02T09:30:00Z" {
		t.Errorf("timestamp = %q", got.Timestamp)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	e := defaultEngine(t)

	_, err := e.GetByID(context.Background(), logparse.EntryID("nope"))
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetByID_StopsAtMatch(t *testing.T) {
	src := &countingSource{entries: []model.LogEntry{
		{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"},
	}}
	e := NewEngine(src, nil)

	if _, err := e.GetByID(context.Background(), "b"); err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if src.pulled != 2 {
		t.Errorf("pulled = %d, want 2", src.pulled)
	}
}

func TestQueries_ContextCancelled(t *testing.T) {
	e := defaultEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.ListFiltered(ctx, model.ListFilter{}); !errors.Is(err, context.Canceled) {
		t.Errorf("ListFiltered err = %v, want context.Canceled", err)
	}
	if _, err := e.Stats(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Stats err = %v, want context.Canceled", err)
	}
	if _, err := e.GetByID(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("GetByID err = %v, want context.Canceled", err)
	}
}
