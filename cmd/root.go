/*
Copyright © 2025 docrag
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docrag-be",
	Short: "PDF retrieval-augmented generation pipeline",
	Long: `docrag-be indexes PDF documents into a vector search index and answers
questions grounded in the retrieved chunks.

Typical flow:
  docrag-be upload-documents --dir ./pdfs
  docrag-be index-documents
  docrag-be query`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yaml", "config file")
}
