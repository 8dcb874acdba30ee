// Package main regenerates report artifacts from an existing feature table.
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
	"retail-clv-lab/internal/reporting"
	chstore "retail-clv-lab/internal/storage/clickhouse"
)

func main() {
	// Parse flags
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (overrides CLICKHOUSE_DSN)")
	outputDir := flag.String("output-dir", "docs", "Output directory for generated report files")
	flag.Parse()

	logger := log.New(os.Stdout, "[report] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}
	if *clickhouseDSN != "" {
		cfg.ClickHouseDSN = *clickhouseDSN
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling report generation...", sig)
		cancel()
	}()

	if err := run(ctx, logger, cfg, *outputDir); err != nil {
		logger.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, logger *log.Logger, cfg *config.Config, outputDir string) error {
	conn, err := chstore.NewConn(ctx, cfg.ClickHouseDSN)
	if err != nil {
		return fmt.Errorf("connect to clickhouse: %w", err)
	}
	defer conn.Close()

	featureStore := chstore.NewFeatureRecordStore(conn)

	gen := reporting.NewGenerator(featureStore, cfg.Window(), outputDir)
	if err := gen.Run(ctx); err != nil {
		return fmt.Errorf("generate reports: %w", err)
	}

	logger.Println("Report generation complete:")
	logger.Printf("  - %s/%s", outputDir, reporting.FeatureCSVFile)
	logger.Printf("  - %s/%s", outputDir, reporting.BaselineReportFile)
	return nil
}
