package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/tinytelemetry/logq/internal/model"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var filter model.ListFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries matching the given filters",
		Long: `List every entry matching all given filters. Time bounds are inclusive
and accept most common date/time formats.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, q model.LogQuerier) (interface{}, error) {
				return q.ListFiltered(ctx, filter)
			})
		},
	}

	cmd.Flags().StringVarP(&filter.Level, "level", "l", "", "only entries with this exact level")
	cmd.Flags().StringVar(&filter.Component, "component", "", "only entries from this exact component")
	cmd.Flags().StringVar(&filter.StartTime, "start", "", "only entries at or after this time")
	cmd.Flags().StringVar(&filter.EndTime, "end", "", "only entries at or before this time")
	return cmd
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count entries by level and component",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, q model.LogQuerier) (interface{}, error) {
				return q.Stats(ctx)
			})
		},
	}
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show the entry with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, q model.LogQuerier) (interface{}, error) {
				return q.GetByID(ctx, args[0])
			})
		},
	}
}
