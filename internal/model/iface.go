package model

import (
	"context"
	"errors"
)

var (
	// ErrInvalidTimestamp is returned when a caller-supplied time bound
	// cannot be parsed.
	ErrInvalidTimestamp = errors.New("invalid timestamp format")

	// ErrNotFound is returned when no entry matches a lookup.
	ErrNotFound = errors.New("log entry not found")
)

// LogQuerier provides read-only queries on log data.
type LogQuerier interface {
	ListFiltered(ctx context.Context, filter ListFilter) (ListResult, error)
	Stats(ctx context.Context) (Stats, error)
	GetByID(ctx context.Context, id string) (EntryView, error)
}

// ReadAPI is the unified read contract for read surfaces (HTTP and socket RPC).
type ReadAPI interface {
	LogQuerier
}
