// Package main is the entry point for the combat tracker server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "combat-tracker",
	Short: "Combat Tracker Server",
	Long:  `Combat Tracker provides shared session state for tabletop combat: monster rosters, damage ledgers, AC refinement, and conflict detection for polling clients.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
