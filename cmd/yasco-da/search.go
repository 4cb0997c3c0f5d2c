package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/koeppl/yasco-da/pkg/dafile"
	"github.com/koeppl/yasco-da/pkg/search"
	"github.com/koeppl/yasco-da/pkg/trie"
)

type searchOptions struct {
	inputPath string
	outPath   string
	sizeBeg   int
	sizeEnd   int
	nProc     int
	timeout   time.Duration
	logLevel  string
}

func newSearchCmd() *cobra.Command {
	o := searchOptions{}

	cmd := &cobra.Command{
		Use:          "search",
		Short:        "Find the smallest double-array size admitting a feasible layout",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.New()
			level, err := parseLogLevel(o.logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(level)

			mat, err := trie.ReadFile(o.inputPath)
			if err != nil {
				return err
			}

			opts := search.Options{
				Lo:        o.sizeBeg,
				Hi:        o.sizeEnd,
				Workers:   o.nProc,
				Timeout:   o.timeout,
				InputPath: o.inputPath,
			}

			size, res, err := search.FindSmallest(context.Background(), mat, opts, logger)
			if err != nil {
				return err
			}
			logger.WithField("size", size).Info("smallest feasible size found")
			return dafile.WriteFile(o.outPath, res)
		},
	}

	cmd.Flags().StringVar(&o.inputPath, "input", "", "path to the trie matrix JSON input (required)")
	cmd.Flags().StringVar(&o.outPath, "output", "", "path to write the double-array JSON result (required)")
	cmd.Flags().IntVar(&o.sizeBeg, "size-beg", 1, "lower bound of the search range (inclusive)")
	cmd.Flags().IntVar(&o.sizeEnd, "size-end", 0, "upper bound of the search range, assumed feasible (required)")
	cmd.Flags().IntVar(&o.nProc, "n-proc", 4, "number of sizes to probe concurrently per round")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "per-probe time budget; 0 means no timeout")
	cmd.Flags().StringVar(&o.logLevel, "log-level", "INFO", "log level (DEBUG, INFO, CRITICAL)")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	cmd.MarkFlagRequired("size-end")

	return cmd
}
