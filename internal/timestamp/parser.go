// Package timestamp parses free-form date/time text as found in log files
// and in query parameters.
package timestamp

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	// ErrEmpty is returned for blank input.
	ErrEmpty = errors.New("timestamp: empty text")
	// ErrUnparsable wraps every parse failure.
	ErrUnparsable = errors.New("timestamp: unparsable text")
)

// timeOnlyLayouts are completed with the current date in the parser's location.
var timeOnlyLayouts = []string{
	"15:04",
	"15:04:05",
	"15:04:05.999999999",
	"15:04:05,999999999",
	"3:04PM",
	"3:04 PM",
	"3:04:05PM",
	"3:04:05 PM",
}

// Parser is a permissive date/time parser. It holds only immutable
// configuration and is safe for concurrent use.
type Parser struct {
	loc *time.Location
	now func() time.Time
}

// Option configures a Parser.
type Option func(*Parser)

// WithLocation sets the location used for text that carries no zone.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// WithClock overrides the clock used to complete time-only text.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

// NewParser creates a parser interpreting zone-less text as UTC by default.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		loc: time.UTC,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Location returns the location used for zone-less text.
func (p *Parser) Location() *time.Location {
	return p.loc
}

// Parse converts text in any common date/time format to a time.Time.
func (p *Parser) Parse(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, ErrEmpty
	}

	if ts, ok := p.parseTimeOnly(text); ok {
		return ts, nil
	}

	ts, err := dateparse.ParseIn(text, p.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrUnparsable, text, err)
	}
	return ts, nil
}

// ParseTimestamp is like Parse but reports failure as a bool.
func (p *Parser) ParseTimestamp(text string) (time.Time, bool) {
	ts, err := p.Parse(text)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func (p *Parser) parseTimeOnly(text string) (time.Time, bool) {
	for _, layout := range timeOnlyLayouts {
		clock, err := time.ParseInLocation(layout, text, p.loc)
		if err != nil {
			continue
		}
		today := p.now().In(p.loc)
		return time.Date(
			today.Year(), today.Month(), today.Day(),
			clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(),
			p.loc,
		), true
	}
	return time.Time{}, false
}
