package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridable at build time via -ldflags "-X main.version=..."
var version = "0.1.0"

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Print the profile_agent version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("profile_agent %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCommand)
}
