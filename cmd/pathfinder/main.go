// Package main provides the entry point for the Pathfinder HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pathfinder",
	Short: "Pathfinder career navigation API server",
	Long:  "Pathfinder extracts structured profiles from transcripts and resumes, analyzes coursework against career goals, and serves profile, job-matching, and alumni-network endpoints via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
