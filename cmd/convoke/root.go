package main

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "convoke",
	Short: "Multi-agent task orchestrator",
	Long: `Convoke decomposes user requests into subtasks, assigns each to a
named agent, executes them against an LLM (with in-text tool invocation) and
synthesizes the results into one answer.

Examples:
  convoke serve                 Start the orchestrator server
  convoke serve --addr :9090    Start on a custom address`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
}
