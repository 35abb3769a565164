// Package commands implements the assistant CLI commands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/config"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "assistant-cli",
	Short: "Catalog assistant - validate catalogs and route queries from the terminal",
	Long: `The assistant CLI works directly against a service catalog file: it
validates the catalog, routes one-shot queries through the trigger index and
retrieval fallback, and inspects the routing audit log.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

func logLevel() string {
	if verbose {
		return "debug"
	}
	return "warn"
}
