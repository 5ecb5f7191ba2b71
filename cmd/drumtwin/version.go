package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drumtwinlabs/drumtwin"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of drumtwin",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("drumtwin version %s\n", strings.TrimSpace(drumtwin.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
