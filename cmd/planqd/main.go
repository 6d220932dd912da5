// Planqd is a role-aware question answering service for urban planning
// knowledge. It retrieves from a vector store and a knowledge graph, applies
// per-document access control, and generates answers with an LLM.
//
// Usage:
//
//	# Start the HTTP server
//	planqd serve
//
//	# Ingest the knowledge base into both backends
//	planqd ingest --kb ./kb
//
//	# Show version information
//	planqd version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "planqd",
	Short: "Role-aware urban planning question answering service",
	Long: `planqd answers urban planning questions from a curated knowledge base.
Retrieval combines vector similarity and knowledge graph search, filtered by
per-document access control, and answers are generated with an LLM.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/planqd/config.yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("planqd\n")
		fmt.Printf("Version:    %s\n", version)
		fmt.Printf("Commit:     %s\n", gitCommit)
		fmt.Printf("Build Date: %s\n", buildDate)
	},
}
