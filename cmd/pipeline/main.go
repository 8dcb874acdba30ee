// Package main provides the E2E pipeline entry point.
// Executes: aggregation → windowed features → split → baseline → reporting
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"retail-clv-lab/internal/config"
	"retail-clv-lab/internal/ingestion"
	"retail-clv-lab/internal/orchestrator"
	"retail-clv-lab/internal/reporting"
	"retail-clv-lab/internal/storage"
	chstore "retail-clv-lab/internal/storage/clickhouse"
	"retail-clv-lab/internal/storage/memory"
	"retail-clv-lab/internal/storage/migrations"
	pgstore "retail-clv-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	csvPath := flag.String("csv", "", "Run fully in-memory from a CSV export instead of the warehouses")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (overrides POSTGRES_DSN)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (overrides CLICKHOUSE_DSN)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of the warehouses")
	outputDir := flag.String("output-dir", "docs", "Output directory for generated report files")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	logger := log.New(os.Stdout, "[pipeline] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}
	if *postgresDSN != "" {
		cfg.PostgresDSN = *postgresDSN
	}
	if *clickhouseDSN != "" {
		cfg.ClickHouseDSN = *clickhouseDSN
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid config: %v", err)
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling pipeline...", sig)
		cancel()
	}()

	if err := run(ctx, logger, cfg, *csvPath, *useMemory, *outputDir, *verbose); err != nil {
		logger.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, logger *log.Logger, cfg *config.Config, csvPath string, useMemory bool, outputDir string, verbose bool) error {
	// A CSV path implies a self-contained in-memory run.
	inMemory := useMemory || csvPath != ""

	var rawStore storage.RawTransactionStore = memory.NewRawTransactionStore()
	var orderStore storage.DailyOrderStore = memory.NewDailyOrderStore()
	var featureStore storage.FeatureRecordStore = memory.NewFeatureRecordStore()

	if !inMemory {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run postgres migrations: %w", err)
		}

		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickHouseDSN)
		if err != nil {
			return fmt.Errorf("run clickhouse migrations: %w", err)
		}
		defer conn.Close()

		rawStore = pgstore.NewRawTransactionStore(pool)
		orderStore = pgstore.NewDailyOrderStore(pool)
		featureStore = chstore.NewFeatureRecordStore(conn)
	}

	if csvPath != "" {
		logger.Printf("Ingesting %s ...", csvPath)
		ingestResult, err := ingestion.NewRunner(ingestion.RunnerOptions{
			Source:   ingestion.NewCSVSource(csvPath),
			RawStore: rawStore,
			Logger:   logger,
		}).Run(ctx)
		if err != nil {
			return fmt.Errorf("ingest csv: %w", err)
		}
		logger.Printf("Ingested %d transactions (%d rows dropped)",
			ingestResult.Ingested, ingestResult.Drops.Dropped())
	}

	logger.Println("=== E2E Pipeline ===")
	orch := orchestrator.New(orchestrator.Options{
		RawStore:     rawStore,
		OrderStore:   orderStore,
		FeatureStore: featureStore,
		Window:       cfg.Window(),
		Verbose:      verbose,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		return fmt.Errorf("orchestrator: %w", err)
	}

	logger.Println("Orchestrator completed:")
	logger.Printf("  Transactions read: %d", result.TransactionsRead)
	logger.Printf("  Orders aggregated: %d", result.OrdersAggregated)
	logger.Printf("  Orders stored:     %d (dropped %d)", result.OrdersStored, result.FilterStats.Dropped())
	logger.Printf("  Customers featured: %d", result.CustomersFeatured)
	if result.Baseline != nil {
		logger.Printf("  Baseline: MAE=%.4f MSE=%.4f RMSE=%.4f over %d customers (%d excluded)",
			result.Baseline.MAE, result.Baseline.MSE, result.Baseline.RMSE,
			result.Baseline.SampleSize, result.Baseline.Excluded)
	}

	logger.Println("=== Reporting ===")
	gen := reporting.NewGenerator(featureStore, cfg.Window(), outputDir)
	if err := gen.Run(ctx); err != nil {
		return fmt.Errorf("generate reports: %w", err)
	}

	logger.Println("Pipeline completed successfully:")
	logger.Printf("  - %s/%s", outputDir, reporting.FeatureCSVFile)
	logger.Printf("  - %s/%s", outputDir, reporting.BaselineReportFile)
	return nil
}
