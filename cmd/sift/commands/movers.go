package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtrask/sift/internal/marketdata"
)

// moversCmd represents the movers command
var moversCmd = &cobra.Command{
	Use:   "movers [gainers|losers|most_active]",
	Short: "Show a market mover listing",
	Long: `Fetches one of the market mover listings through the provider
fallback chain.

Example:
  go run ./cmd/sift movers
  go run ./cmd/sift movers losers`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMovers,
}

func init() {
	rootCmd.AddCommand(moversCmd)
}

func runMovers(cmd *cobra.Command, args []string) error {
	kind := marketdata.MoversGainers
	if len(args) == 1 {
		kind = marketdata.MoverKind(args[0])
	}
	if !marketdata.ValidMoverKind(kind) {
		return fmt.Errorf("invalid mover kind %q (valid: gainers, losers, most_active)", kind)
	}

	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	movers, err := rt.agg.GetMovers(ctx, kind)
	if err != nil {
		return fmt.Errorf("fetch movers: %w", err)
	}

	fmt.Printf("Market movers (%s):\n", kind)
	for i, m := range movers {
		fmt.Printf("  %2d. %-6s %-28s %9.2f  %+6.2f%%  [%s]\n",
			i+1, m.Symbol, m.Name, m.Price, m.ChangePercent, m.Source)
	}
	return nil
}
