package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantfolio/advisor/internal/api"
	"github.com/quantfolio/advisor/internal/api/handlers"
	"github.com/quantfolio/advisor/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the HTTP API server.

Endpoints:
  GET  /health                 - Health check
  GET  /api/signals            - Latest combined signal per symbol
  GET  /api/signals/{symbol}   - Latest combined signal for one symbol
  GET  /api/correlations       - Return correlation matrix
  POST /api/data/collect       - Trigger data collection

Example:
  go run ./cmd/advisor api
  go run ./cmd/advisor api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Advisor API Server ===")

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if apiPort != "" {
		app.cfg.Port = apiPort
	}

	// Handlers
	cache := redis.NewCache(app.redis, "advisor")
	signalHandler := handlers.NewSignalHandler(app.recommendations, app.engine, cache, app.log)
	dataHandler := handlers.NewDataHandler(app.collector, app.strategy.Symbols(), app.log)

	// Router and server
	router := api.NewRouter(signalHandler, dataHandler, app.log)
	server := api.New(app.cfg.Port, app.cfg.Env, app.log, router)

	// Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			app.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", app.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/signals")
	fmt.Println("  GET  /api/signals/{symbol}")
	fmt.Println("  GET  /api/correlations")
	fmt.Println("  POST /api/data/collect")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.log.Info("Server stopped")
	return nil
}
