package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtrask/sift/internal/pipeline"
	"github.com/dtrask/sift/internal/settings"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the shortlist pipeline once",
	Long: `Runs one analysis pass: discover the candidate universe, fetch
quotes through the provider fallback chain, score candidates and print
the ranked shortlist.

Without any API keys configured the run uses deterministic synthetic
data, which is useful for trying out intents and risk profiles offline.

Example:
  go run ./cmd/sift analyze
  go run ./cmd/sift analyze --intent day_trade --risk aggressive --max 5
  go run ./cmd/sift analyze --symbols AAPL,MSFT,TSLA --json`,
	RunE: runAnalyze,
}

var (
	analyzeSymbols string
	analyzeIntent  string
	analyzeRisk    string
	analyzeMax     int
	analyzeJSON    bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeSymbols, "symbols", "", "comma-separated symbols (default: curated universe)")
	analyzeCmd.Flags().StringVar(&analyzeIntent, "intent", "swing", "trading intent (day_trade|swing|long_term)")
	analyzeCmd.Flags().StringVar(&analyzeRisk, "risk", "moderate", "risk tolerance (conservative|moderate|aggressive)")
	analyzeCmd.Flags().IntVar(&analyzeMax, "max", 0, "maximum shortlist size (default taken from settings)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the raw run result as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	intent := settings.TradingIntent(analyzeIntent)
	if !settings.ValidIntent(intent) {
		return fmt.Errorf("invalid intent %q (valid: day_trade, swing, long_term)", analyzeIntent)
	}
	risk := settings.RiskTolerance(analyzeRisk)
	if !settings.ValidRisk(risk) {
		return fmt.Errorf("invalid risk %q (valid: conservative, moderate, aggressive)", analyzeRisk)
	}

	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	var symbols []string
	if analyzeSymbols != "" {
		for _, s := range strings.Split(analyzeSymbols, ",") {
			if s = strings.TrimSpace(s); s != "" {
				symbols = append(symbols, s)
			}
		}
	}

	maxShortlist := rt.settings.Analysis.MaxShortlist
	if cmd.Flags().Changed("max") {
		maxShortlist = analyzeMax
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := rt.analyzer.Run(ctx, pipeline.RunRequest{
		Symbols:      symbols,
		Intent:       intent,
		Risk:         risk,
		MaxShortlist: maxShortlist,
	})
	if err != nil {
		return fmt.Errorf("analysis run: %w", err)
	}

	if rt.history != nil {
		if err := rt.history.SaveRun(ctx, result); err != nil {
			rt.log.WithError(err).Warn("Failed to persist analysis run")
		}
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printRunResult(result)
	return nil
}

func printRunResult(result *pipeline.RunResult) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  Shortlist (%s / %s)\n", result.Plan.Intent, result.Plan.Risk)
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  Run ID    : %s\n", result.RunID)
	fmt.Printf("  Universe  : %d symbols\n", len(result.Universe))
	fmt.Printf("  Settings  : %s\n", result.SettingsHash[:12])
	fmt.Printf("  Duration  : %s\n", result.Duration.Round(time.Millisecond))
	fmt.Println("───────────────────────────────────────────────────────────")

	if len(result.Plan.Shortlist) == 0 {
		fmt.Println("  (no candidates)")
	}
	for i, item := range result.Plan.Shortlist {
		flag := " "
		if item.Avoid {
			flag = "!"
		}
		enrich := ""
		if item.RequestedEnrichment && item.Enrichment != nil {
			enrich = fmt.Sprintf("  enrich=%s", item.Enrichment.ModelID)
		}
		fmt.Printf("  %2d. %-6s %s priority=%.3f  [%s]%s\n",
			i+1, item.Symbol, flag, item.Priority, result.QuoteSources[item.Symbol], enrich)
		for _, reason := range item.Reasons {
			fmt.Printf("       - %s\n", reason)
		}
	}

	if len(result.Plan.GlobalNotes) > 0 {
		fmt.Println("───────────────────────────────────────────────────────────")
		for _, note := range result.Plan.GlobalNotes {
			fmt.Printf("  note: %s\n", note)
		}
	}
	fmt.Println("═══════════════════════════════════════════════════════════")
}
