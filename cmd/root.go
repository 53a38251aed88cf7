package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docman",
	Short: "Document ingestion and retrieval service",
	Long: `docman accepts uploaded documents, extracts and chunks their text in a
background worker, and answers natural-language questions against the
ingested corpus.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	settingDefaultConfig()
}
