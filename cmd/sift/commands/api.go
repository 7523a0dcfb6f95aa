package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtrask/sift/internal/api"
	"github.com/dtrask/sift/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                 - Health check
  POST /api/analyze            - Run the shortlist pipeline
  GET  /api/runs               - List persisted runs
  GET  /api/runs/{id}          - Fetch one run
  GET  /api/movers             - Market mover listings
  GET  /api/providers/status   - Provider fallback chains
  GET  /api/routing            - Per-stage model routing table
  GET  /api/routing/classify   - Classify one model identifier

Example:
  go run ./cmd/sift api
  go run ./cmd/sift api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from PORT env)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	if apiPort != "" {
		rt.cfg.Port = apiPort
	}

	analyzeHandler := handlers.NewAnalyzeHandler(rt.analyzer, rt.history, rt.log)
	runsHandler := handlers.NewRunsHandler(rt.history, rt.log)
	providersHandler := handlers.NewProvidersHandler(rt.registry, rt.log)
	routingHandler := handlers.NewRoutingHandler(rt.settings, rt.log)
	moversHandler := handlers.NewMoversHandler(rt.agg, rt.log)

	router := api.NewRouter(analyzeHandler, runsHandler, providersHandler, routingHandler, moversHandler, rt.db, rt.log)
	server := api.New(rt.cfg, rt.log, router)

	go func() {
		if err := server.Start(); err != nil {
			rt.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", rt.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
