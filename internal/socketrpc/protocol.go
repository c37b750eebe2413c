package socketrpc

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tinytelemetry/logq/internal/model"
)

// JSON-RPC 2.0 Method Reference
//
// The socket RPC server exposes model.LogQuerier over Unix domain socket.
// Each method maps 1:1 to the LogQuerier interface.
//
//   Method          Params                   Result
//   ────────────    ──────────────────────   ──────────────
//   ListFiltered    {Filter: ListFilter}     ListResult
//   Stats           (none)                   Stats
//   GetByID         {ID: string}             EntryView
//
// ListFilter: {level, component, start_time, end_time}, all optional.
// ListFiltered and Stats accept empty or null params.
//
// Error codes follow JSON-RPC 2.0:
//   -32700  Parse error (malformed JSON)
//   -32601  Method not found
//   -32602  Invalid params
//   -32603  Internal error (marshal failure)
//   -32002  Invalid timestamp in a time bound
//   -32004  Log entry not found
//   -32000  Application error (query failure)

const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternal       = -32603
	codeBadTimestamp   = -32002
	codeNotFound       = -32004
	codeApplication    = -32000
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string { return e.Message }

// Unwrap maps query error codes back to the model sentinels so callers can
// use errors.Is on either side of the socket.
func (e *RPCError) Unwrap() error {
	switch e.Code {
	case codeBadTimestamp:
		return model.ErrInvalidTimestamp
	case codeNotFound:
		return model.ErrNotFound
	default:
		return nil
	}
}

// DefaultSocketPath returns the default Unix socket path.
// It prefers $XDG_RUNTIME_DIR/logq/logq.sock, falling back to
// ~/.local/state/logq/logq.sock.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "logq", "logq.sock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/logq.sock"
	}
	return filepath.Join(home, ".local", "state", "logq", "logq.sock")
}
