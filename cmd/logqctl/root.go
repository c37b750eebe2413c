package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tinytelemetry/logq/internal/logparse"
	"github.com/tinytelemetry/logq/internal/logscan"
	"github.com/tinytelemetry/logq/internal/model"
	"github.com/tinytelemetry/logq/internal/query"
	"github.com/tinytelemetry/logq/internal/socketrpc"
	"github.com/tinytelemetry/logq/internal/timestamp"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	cfgFile string
	cfg     cliConfig
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "logqctl",
		Short: "Query a directory of tab-delimited log files",
		Long: `logqctl lists, filters and aggregates entries of .log files whose lines
hold four tab-separated fields: timestamp, level, component and message.

It scans the log directory directly, or asks a running logq server over
its Unix socket when --socket is given.

Examples:
  logqctl list --level ERROR --start "2024-01-01 00:00"
  logqctl stats --output yaml
  logqctl get 3f786850e387550fdab836ed7e6dc881de23001b
  logqctl --socket ~/.local/state/logq/logq.sock stats`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadCLIConfig(opts.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if !validOutput(cfg.Output) {
				return fmt.Errorf("invalid output format %q (want one of %s)", cfg.Output, strings.Join(outputFormats, ", "))
			}
			opts.cfg = cfg
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.cfgFile, "config", "c", "", "config file (default: $HOME/.config/logq/config.yml)")
	flags.StringP("log-dir", "d", model.DefaultLogDir, "directory of .log files to scan")
	flags.StringP("socket", "s", "", "query a running logq server over this Unix socket")
	flags.StringP("output", "o", outputJSON, "output format: json, yaml, text")

	cmd.AddCommand(newListCmd(opts), newStatsCmd(opts), newGetCmd(opts))
	return cmd
}

// querier returns the query backend selected by the flags and a release
// function for it.
func (o *rootOptions) querier() (model.LogQuerier, func(), error) {
	if o.cfg.Socket != "" {
		client, err := socketrpc.Dial(o.cfg.Socket)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { client.Close() }, nil
	}

	ts := timestamp.NewParser(timestamp.WithLocation(o.cfg.Location))
	scanner := logscan.New(o.cfg.LogDir, logparse.NewParser(ts))
	return query.NewEngine(scanner, ts), func() {}, nil
}

// queryContext bounds a command by the configured query timeout.
func (o *rootOptions) queryContext(parent context.Context) (context.Context, context.CancelFunc) {
	if o.cfg.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, o.cfg.Timeout)
}

// run executes fn against the selected backend and writes its result.
func (o *rootOptions) run(cmd *cobra.Command, fn func(ctx context.Context, q model.LogQuerier) (interface{}, error)) error {
	q, release, err := o.querier()
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := o.queryContext(cmd.Context())
	defer cancel()

	result, err := fn(ctx, q)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), o.cfg.Output, result)
}
