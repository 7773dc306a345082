package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/council/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "council version %s\n", version.Get())
	},
}
