package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtrask/sift/internal/ai"
	"github.com/dtrask/sift/internal/settings"
)

// routingCmd represents the routing command
var routingCmd = &cobra.Command{
	Use:   "routing",
	Short: "Show per-stage model routing",
	Long: `Shows the resolved model selection for every pipeline stage
under the active settings profile.

Subcommands:
  classify - classify one model identifier

Example:
  go run ./cmd/sift routing
  go run ./cmd/sift routing classify claude-sonnet-4-5`,
	RunE: runRouting,
}

var routingClassifyCmd = &cobra.Command{
	Use:   "classify [model]",
	Short: "Classify one model identifier",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoutingClassify,
}

func init() {
	rootCmd.AddCommand(routingCmd)
	routingCmd.AddCommand(routingClassifyCmd)
}

func runRouting(cmd *cobra.Command, args []string) error {
	cfgSettings, err := settings.LoadOrDefault(settingsFile)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	routingCfg := cfgSettings.RoutingConfig()
	stages := []ai.Stage{ai.StageShortlist, ai.StageVerdict, ai.StageSynthesis, ai.StageDeepDive}

	fmt.Println("Stage routing:")
	for _, stage := range stages {
		sel := ai.Resolve(stage, routingCfg)
		fmt.Printf("  %-10s %-30s provider=%-18s dialect=%s\n", stage, sel.ModelID, sel.Provider, sel.Dialect)
	}

	return nil
}

func runRoutingClassify(cmd *cobra.Command, args []string) error {
	model := args[0]
	dialect := ai.ClassifyModel(model)
	provider := ai.ProviderForDialect(dialect)

	fmt.Printf("model      : %s\n", model)
	fmt.Printf("normalized : %s\n", ai.NormalizeModelID(model))
	fmt.Printf("provider   : %s\n", provider)
	fmt.Printf("dialect    : %s\n", dialect)
	if url := ai.Endpoint(provider); url != "" {
		fmt.Printf("endpoint   : %s\n", url)
	}

	return nil
}
