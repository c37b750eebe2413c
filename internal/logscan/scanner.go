// Package logscan enumerates the .log files of a directory and streams their
// parsed entries.
package logscan

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/tinytelemetry/logq/internal/model"
)

// LogSuffix is the file name suffix of scanned files.
const LogSuffix = ".log"

// LineParser turns one raw line into an entry.
type LineParser interface {
	ParseLine(raw string) (model.LogEntry, bool)
}

// ErrorReporter receives per-file failures. They never abort a scan.
type ErrorReporter func(path string, err error)

// Scanner reads entries from the .log files of one directory. It caches
// nothing: every call to Entries reads the filesystem again.
type Scanner struct {
	dir    string
	fsys   fs.FS
	parser LineParser
	report ErrorReporter
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithFS reads files from fsys instead of the directory on disk.
func WithFS(fsys fs.FS) Option {
	return func(s *Scanner) {
		if fsys != nil {
			s.fsys = fsys
		}
	}
}

// WithErrorReporter overrides the default reporter, which logs.
func WithErrorReporter(report ErrorReporter) Option {
	return func(s *Scanner) {
		if report != nil {
			s.report = report
		}
	}
}

// New creates a scanner over dir.
func New(dir string, parser LineParser, opts ...Option) *Scanner {
	s := &Scanner{
		dir:    dir,
		fsys:   os.DirFS(dir),
		parser: parser,
		report: logError,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the scanned directory.
func (s *Scanner) Dir() string {
	return s.dir
}

// Entries returns a lazy sequence of the entries of every .log file.
// Lines that do not parse are skipped. Stopping the iteration early, or
// cancelling ctx, closes the file being read.
func (s *Scanner) Entries(ctx context.Context) iter.Seq[model.LogEntry] {
	return func(yield func(model.LogEntry) bool) {
		names, err := s.logFiles()
		if err != nil {
			s.report(s.dir, err)
			return
		}
		for _, name := range names {
			if ctx.Err() != nil {
				return
			}
			if !s.scanFile(ctx, name, yield) {
				return
			}
		}
	}
}

// logFiles lists the .log files of the directory. A missing directory has
// no files.
func (s *Scanner) logFiles() ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), LogSuffix) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// scanFile yields the entries of one file. It returns false when the
// consumer stopped or ctx was cancelled.
func (s *Scanner) scanFile(ctx context.Context, name string, yield func(model.LogEntry) bool) bool {
	f, err := s.fsys.Open(name)
	if err != nil {
		s.report(s.path(name), fmt.Errorf("open: %w", err))
		return true
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		if ctx.Err() != nil {
			return false
		}

		line, err := r.ReadString('\n')
		if line != "" {
			if entry, ok := s.parseRaw(line); ok {
				if !yield(entry) {
					return false
				}
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.report(s.path(name), fmt.Errorf("read: %w", err))
			}
			return true
		}
	}
}

// parseRaw applies text-mode newline translation and drops lines that are
// not valid UTF-8.
func (s *Scanner) parseRaw(line string) (model.LogEntry, bool) {
	if strings.HasSuffix(line, "\r\n") {
		line = line[:len(line)-2] + "\n"
	}
	if !utf8.ValidString(line) {
		return model.LogEntry{}, false
	}
	return s.parser.ParseLine(line)
}

func (s *Scanner) path(name string) string {
	return filepath.Join(s.dir, name)
}

func logError(path string, err error) {
	log.Printf("logscan: %s: %v", path, err)
}
