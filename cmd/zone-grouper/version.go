package main

import (
	"fmt"

	"github.com/Ajpantuso/zone-grouper/internal/config"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print the version, build time, and git commit of zone-grouper",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "zone-grouper version %s (built %s, commit %s)\n",
				config.Version,
				config.BuildTime,
				config.GitCommit,
			)
		},
	}
}
