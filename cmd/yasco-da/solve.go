package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/koeppl/yasco-da/pkg/dafile"
	"github.com/koeppl/yasco-da/pkg/dasolve"
	"github.com/koeppl/yasco-da/pkg/trie"
)

type solveOptions struct {
	matPath   string
	outPath   string
	nArr      int
	minimize  bool
	timeout   time.Duration
	logLevel  string
}

func newSolveCmd() *cobra.Command {
	o := solveOptions{}

	cmd := &cobra.Command{
		Use:          "solve",
		Short:        "Solve for a double-array layout at a fixed array size",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.New()
			level, err := parseLogLevel(o.logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(level)

			mat, err := trie.ReadFile(o.matPath)
			if err != nil {
				return err
			}

			ctx := context.Background()
			if o.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, o.timeout)
				defer cancel()
			}

			mode := dasolve.Feasibility
			if o.minimize {
				mode = dasolve.Minimize
			}

			res, err := dasolve.Solve(ctx, mat, o.nArr, mode, logger)
			if err != nil {
				return err
			}
			return dafile.WriteFile(o.outPath, res)
		},
	}

	cmd.Flags().StringVar(&o.matPath, "mat", "", "path to the trie matrix JSON input (required)")
	cmd.Flags().StringVar(&o.outPath, "output", "", "path to write the double-array JSON result (required)")
	cmd.Flags().IntVar(&o.nArr, "n-arr", 0, "candidate double-array size (required)")
	cmd.Flags().BoolVar(&o.minimize, "minimize", false, "minimize the number of used slots instead of just checking feasibility")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "solver time budget; 0 means no timeout")
	cmd.Flags().StringVar(&o.logLevel, "log-level", "INFO", "log level (DEBUG, INFO, CRITICAL)")
	cmd.MarkFlagRequired("mat")
	cmd.MarkFlagRequired("output")
	cmd.MarkFlagRequired("n-arr")

	return cmd
}
