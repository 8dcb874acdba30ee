// Package main loads raw retail transactions from a CSV export into
// the PostgreSQL raw table.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"retail-clv-lab/internal/config"
	"retail-clv-lab/internal/ingestion"
	"retail-clv-lab/internal/observability"
	"retail-clv-lab/internal/storage"
	"retail-clv-lab/internal/storage/memory"
	"retail-clv-lab/internal/storage/migrations"
	pgstore "retail-clv-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	csvPath := flag.String("csv", "", "Path to the transactions CSV export (required)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (overrides POSTGRES_DSN)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[ingest] ", log.LstdFlags|log.Lshortfile)

	if *csvPath == "" {
		logger.Fatal("--csv is required")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}
	if *postgresDSN != "" {
		cfg.PostgresDSN = *postgresDSN
	}

	// Start metrics server if enabled
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling ingestion...", sig)
		cancel()
	}()

	if err := run(ctx, logger, cfg, *csvPath, *useMemory); err != nil {
		logger.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, logger *log.Logger, cfg *config.Config, csvPath string, useMemory bool) error {
	var rawStore storage.RawTransactionStore = memory.NewRawTransactionStore()

	if !useMemory {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run postgres migrations: %w", err)
		}

		rawStore = pgstore.NewRawTransactionStore(pool)
	}

	runner := ingestion.NewRunner(ingestion.RunnerOptions{
		Source:   ingestion.NewCSVSource(csvPath),
		RawStore: rawStore,
		Logger:   logger,
	})

	logger.Printf("Ingesting %s ...", csvPath)
	result, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	logger.Printf("Ingestion complete: %d transactions stored, %d rows dropped",
		result.Ingested, result.Drops.Dropped())
	return nil
}
