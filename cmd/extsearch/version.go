package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/extsearch/internal/version"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "extsearch version %s\n", version.Get())
		},
	}
}
