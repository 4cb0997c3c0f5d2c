package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	root.AddCommand(newSolveCmd())
	root.AddCommand(newSearchCmd())
	if err := root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "yasco-da",
		Short:        "SAT-based double-array trie layout solver",
		SilenceUsage: true,
	}
}
