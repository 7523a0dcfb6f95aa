package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// providersCmd represents the providers command
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Show the provider fallback chains",
	Long: `Shows which market data source serves each capability, in
priority order. Sources without configured credentials are excluded at
startup; capabilities with no real source fall back to synthetic data.

Example:
  go run ./cmd/sift providers`,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	fmt.Println("Capability chains (priority order):")
	for _, status := range rt.registry.Status() {
		fmt.Printf("  %-10s %s\n", status.Capability, strings.Join(status.Sources, " -> "))
	}

	return nil
}
