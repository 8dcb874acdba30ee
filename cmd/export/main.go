// Package main exports the ML-ready feature table from ClickHouse to BigQuery.
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
	bqstore "retail-clv-lab/internal/storage/bigquery"
	chstore "retail-clv-lab/internal/storage/clickhouse"
)

func main() {
	// Parse flags
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (overrides CLICKHOUSE_DSN)")
	project := flag.String("project", "", "BigQuery project ID (overrides BIGQUERY_PROJECT)")
	dataset := flag.String("dataset", "", "BigQuery dataset (overrides BIGQUERY_DATASET)")
	table := flag.String("table", "", "BigQuery table (overrides BIGQUERY_TABLE)")
	flag.Parse()

	logger := log.New(os.Stdout, "[export] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}
	if *clickhouseDSN != "" {
		cfg.ClickHouseDSN = *clickhouseDSN
	}
	if *project != "" {
		cfg.BigQueryProject = *project
	}
	if *dataset != "" {
		cfg.BigQueryDataset = *dataset
	}
	if *table != "" {
		cfg.BigQueryTable = *table
	}
	if err := cfg.ValidateBigQuery(); err != nil {
		logger.Fatalf("Invalid config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling export...", sig)
		cancel()
	}()

	if err := run(ctx, logger, cfg); err != nil {
		logger.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, logger *log.Logger, cfg *config.Config) error {
	conn, err := chstore.NewConn(ctx, cfg.ClickHouseDSN)
	if err != nil {
		return fmt.Errorf("connect to clickhouse: %w", err)
	}
	defer conn.Close()

	featureStore := chstore.NewFeatureRecordStore(conn)

	records, err := featureStore.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("read feature records: %w", err)
	}
	if len(records) == 0 {
		logger.Println("Feature table is empty, nothing to export")
		return nil
	}

	client, err := bqstore.NewClient(ctx, cfg.BigQueryProject)
	if err != nil {
		return fmt.Errorf("connect to bigquery: %w", err)
	}
	defer client.Close()

	exporter := bqstore.NewFeatureRecordExporter(client, cfg.BigQueryDataset, cfg.BigQueryTable)
	if err := exporter.EnsureTable(ctx); err != nil {
		return fmt.Errorf("ensure bigquery table: %w", err)
	}
	if err := exporter.Export(ctx, records); err != nil {
		return fmt.Errorf("export feature records: %w", err)
	}

	logger.Printf("Exported %d feature records to %s.%s.%s",
		len(records), cfg.BigQueryProject, cfg.BigQueryDataset, cfg.BigQueryTable)
	return nil
}
