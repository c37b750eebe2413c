package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tinytelemetry/logq/internal/logparse"
	"github.com/tinytelemetry/logq/internal/logscan"
	"github.com/tinytelemetry/logq/internal/model"
	"github.com/tinytelemetry/logq/internal/query"
	"github.com/tinytelemetry/logq/internal/socketrpc"
	"github.com/tinytelemetry/logq/internal/timestamp"
	"gopkg.in/yaml.v3"
)

const (
	lineAuth = "2024-01-01T10:00:00\tERROR\tauth\tlogin failed\n"
	lineAPI  = "2024-01-01T12:00:00\tINFO\tapi\trequest served\n"
)

func fixtureDir(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.log"), []byte(lineAuth+"bad\tline\n"+lineAPI), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	dir := fixtureDir(t)

	out, err := execute(t, "list", "--log-dir", dir, "--level", "ERROR")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var res model.ListResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("unmarshal %q: %v", out, err)
	}
	if res.Count != 1 || res.Logs[0].Component != "auth" {
		t.Errorf("result = %+v", res)
	}
}

func TestListCommand_TimeRange(t *testing.T) {
	dir := fixtureDir(t)

	out, err := execute(t, "list", "-d", dir, "--start", "2024-01-01 11:00:00", "--end", "2024-01-01 13:00:00")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var res model.ListResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	if res.Count != 1 || res.Logs[0].Component != "api" {
		t.Errorf("result = %+v", res)
	}
}

func TestListCommand_InvalidTimestamp(t *testing.T) {
	dir := fixtureDir(t)

	_, err := execute(t, "list", "-d", dir, "--start", "garbage")
	if !errors.Is(err, model.ErrInvalidTimestamp) {
		t.Errorf("err = %v, want ErrInvalidTimestamp", err)
	}
}

func TestStatsCommand_YAML(t *testing.T) {
	dir := fixtureDir(t)

	out, err := execute(t, "stats", "-d", dir, "-o", "yaml")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	var stats model.Stats
	if err := yaml.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("unmarshal %q: %v", out, err)
	}
	if stats.TotalLogs != 2 || stats.ByLevel["ERROR"] != 1 || stats.ByComponent["api"] != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if !strings.Contains(out, "total_logs: 2") {
		t.Errorf("yaml output = %q", out)
	}
}

func TestGetCommand(t *testing.T) {
	dir := fixtureDir(t)

	out, err := execute(t, "get", "-d", dir, logparse.EntryID(lineAPI))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var entry model.EntryView
	if err := json.Unmarshal([]byte(out), &entry); err != nil {
		t.Fatal(err)
	}
	if entry.Message != "request served" {
		t.Errorf("entry = %+v", entry)
	}

	_, err = execute(t, "get", "-d", dir, "unknown")
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	if _, err := execute(t, "get", "-d", dir); err == nil {
		t.Error("get without id should fail")
	}
}

func TestInvalidOutputFormat(t *testing.T) {
	dir := fixtureDir(t)

	if _, err := execute(t, "stats", "-d", dir, "-o", "xml"); err == nil {
		t.Error("expected error for unknown output format")
	}
}

func TestLogDirFromEnv(t *testing.T) {
	dir := fixtureDir(t)
	t.Setenv("LOGQ_LOG_DIR", dir)

	out, err := execute(t, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, `"total_logs": 2`) {
		t.Errorf("output = %q", out)
	}
}

func TestSocketBackend(t *testing.T) {
	dir := fixtureDir(t)

	ts := timestamp.NewParser()
	engine := query.NewEngine(logscan.New(dir, logparse.NewParser(ts)), ts)
	sockPath := filepath.Join(t.TempDir(), "q.sock")
	srv := socketrpc.NewServer(sockPath, engine)
	if err := srv.Start(); err != nil {
		t.Fatalf("start socket server: %v", err)
	}
	defer srv.Stop()

	// The local log dir is empty; results must come from the server.
	out, err := execute(t, "stats", "-d", t.TempDir(), "--socket", sockPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	var stats model.Stats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalLogs != 2 {
		t.Errorf("total_logs = %d, want 2", stats.TotalLogs)
	}

	_, err = execute(t, "get", "--socket", sockPath, "unknown")
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound across the socket", err)
	}
}

func TestSocketBackend_DialFailure(t *testing.T) {
	fixtureDir(t)

	if _, err := execute(t, "stats", "--socket", filepath.Join(t.TempDir(), "none.sock")); err == nil {
		t.Error("expected dial error")
	}
}

func TestTextOutput(t *testing.T) {
	dir := fixtureDir(t)

	out, err := execute(t, "stats", "--log-dir", dir, "-o", "text")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"total", "2", "by level", "ERROR", "by component", "auth", "api"} {
		if !strings.Contains(out, want) {
			t.Errorf("text stats missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "list", "--log-dir", dir, "-o", "text")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "login failed") || !strings.Contains(out, "2 entries") {
		t.Errorf("text list = %q", out)
	}
}

func TestWriteCountsOrder(t *testing.T) {
	var b strings.Builder
	writeCounts(&b, "by component", map[string]int64{"b": 1, "a": 1, "c": 3}, false)
	want := "by component\n  c  3\n  a  1\n  b  1\n"
	if got := b.String(); !strings.HasSuffix(got, "  c  3\n  a  1\n  b  1\n") {
		t.Errorf("writeCounts = %q, want %q", got, want)
	}
}
