// Package main provides the entry point for the dating profile optimizer CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "profile_agent",
	Short: "Dating Profile Optimizer",
	Long:  "Dating Profile Optimizer analyzes candidate photos with multimodal models, selects the strongest set and generates a matching profile description.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
