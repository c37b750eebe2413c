package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/logq/internal/logparse"
	"github.com/tinytelemetry/logq/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
	outputText = "text"
)

var outputFormats = []string{outputJSON, outputYAML, outputText}

func validOutput(format string) bool {
	for _, f := range outputFormats {
		if f == format {
			return true
		}
	}
	return false
}

var severityStyles = map[string]lipgloss.Style{
	logparse.SeverityTrace: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	logparse.SeverityDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	logparse.SeverityInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	logparse.SeverityWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	logparse.SeverityError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	logparse.SeverityFatal: lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
}

var headerStyle = lipgloss.NewStyle().Bold(true)

func writeOutput(w io.Writer, format string, v interface{}) error {
	switch format {
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case outputJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputText:
		_, err := io.WriteString(w, renderText(v))
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderText(v interface{}) string {
	var b strings.Builder
	switch r := v.(type) {
	case model.ListResult:
		for _, e := range r.Logs {
			b.WriteString(renderEntryLine(e))
		}
		fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("%d entries", r.Count)))
	case model.EntryView:
		b.WriteString(renderEntryLine(r))
	case model.Stats:
		fmt.Fprintf(&b, "%s %d\n", headerStyle.Render("total"), r.TotalLogs)
		writeCounts(&b, "by level", r.ByLevel, true)
		writeCounts(&b, "by component", r.ByComponent, false)
	default:
		fmt.Fprintf(&b, "%v\n", v)
	}
	return b.String()
}

func renderEntryLine(e model.EntryView) string {
	return fmt.Sprintf("%s  %s  %s  %s  %s\n", e.ID[:min(len(e.ID), 12)], e.Timestamp, styleLevel(e.Level), e.Component, e.Message)
}

func styleLevel(level string) string {
	if style, ok := severityStyles[logparse.SeverityClass(level)]; ok {
		return style.Render(level)
	}
	return level
}

// writeCounts prints counts in descending order, ties broken by key.
func writeCounts(b *strings.Builder, title string, counts map[string]int64, styled bool) {
	keys := make([]string, 0, len(counts))
	width := 0
	for k := range counts {
		keys = append(keys, k)
		width = max(width, len(k))
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	fmt.Fprintf(b, "%s\n", headerStyle.Render(title))
	for _, k := range keys {
		label := k
		pad := strings.Repeat(" ", width-len(k))
		if styled {
			label = styleLevel(k)
		}
		fmt.Fprintf(b, "  %s%s  %d\n", label, pad, counts[k])
	}
}
