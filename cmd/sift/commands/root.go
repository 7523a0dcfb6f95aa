package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	settingsFile string
	verbose      bool
	synthetic    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sift",
	Short: "Sift - staged instrument shortlisting",
	Long: `Sift Unified CLI

Multi-source market data aggregation with credential-gated fallback,
staged shortlist scoring and per-stage model routing.

Usage:
  go run ./cmd/sift [command]

Examples:
  go run ./cmd/sift analyze --intent swing --risk moderate
  go run ./cmd/sift api
  go run ./cmd/sift providers
  go run ./cmd/sift routing classify gpt-5-mini`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "strategy settings file (YAML, default built-in profile)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&synthetic, "synthetic", false, "always include the synthetic data source in provider chains")
}
