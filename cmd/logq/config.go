package main

import (
	"time"

	"github.com/tinytelemetry/logq/internal/model"
)

const (
	defaultLogDir       = model.DefaultLogDir
	defaultTimezone     = model.DefaultTimezone
	defaultQueryTimeout = model.DefaultQueryTimeout
	defaultBindHost     = "127.0.0.1"
	defaultAPIPort      = 8000
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	LogDir        string         `mapstructure:"log-dir"`
	Timezone      string         `mapstructure:"timezone"`
	APIEnabled    bool           `mapstructure:"api-enabled"`
	APIPort       int            `mapstructure:"api-port"`
	APIAddr       string         `mapstructure:"api-addr"`
	QueryTimeout  time.Duration  `mapstructure:"query-timeout"`
	SocketEnabled bool           `mapstructure:"socket-enabled"`
	SocketPath    string         `mapstructure:"socket-path"`
	ConfigPath    string         `mapstructure:"-"` // not from config file
	Location      *time.Location `mapstructure:"-"` // resolved from Timezone
}
