package model

import "time"

// Shared defaults used by both the server and CLI binaries.
const (
	DefaultLogDir       = "./logs"
	DefaultTimezone     = "UTC"
	DefaultQueryTimeout = 30 * time.Second
)
