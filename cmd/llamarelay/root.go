package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mandalnilabja/llamarelay/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "llamarelay",
	Short: "llamarelay - streaming gateway client and tools",
	Long: `llamarelay talks to a llamarelay gateway in front of an Ollama server.

It streams chat replies at a steady pace, and provides helpers to hash
access codes and issue bearer tokens for the gateway.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
