package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "drumtwin",
	Short: "Drum boiler digital twin with a supervisory forecast layer",
	Long: `drumtwin simulates an industrial drum boiler and supervises it with a
temperature forecast model: when the predicted steam temperature crosses the
danger threshold, the supervisor clamps the operator's fire input before it
reaches the physics engine.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "drumtwin.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides the config file")
}
