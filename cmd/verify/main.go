// Package main recomputes every stored snapshot and reports divergences
// between the stored and the recomputed Blueprint.
//
// Exits with status 2 when any snapshot diverges.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"cosmic-blueprint/internal/bootstrap"
	"cosmic-blueprint/internal/config"
	"cosmic-blueprint/internal/logging"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.PostgresDSN, "postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string")
	flag.StringVar(&cfg.ClickhouseDSN, "clickhouse-dsn", cfg.ClickhouseDSN, "ClickHouse connection string")
	output := flag.String("output", "", "Write the JSON verification report to this file")
	flag.Parse()

	if !cfg.Persistent() {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn and --clickhouse-dsn are required")
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	svc, closeStores, err := bootstrap.NewService(ctx, cfg, logger, nil)
	if err != nil {
		logger.Fatal("create service", zap.Error(err))
	}
	defer closeStores()

	report, err := svc.VerifyAll(ctx)
	if err != nil {
		logger.Fatal("verify snapshots", zap.Error(err))
	}

	for _, r := range report.Results {
		if r.Match {
			continue
		}
		fmt.Printf("DIVERGENT %s (user %s, engine %s)\n", r.SnapshotID, r.UserID, r.EngineVersion)
		for _, d := range r.Divergences {
			fmt.Printf("  %s: expected %v, got %v\n", d.Field, d.Expected, d.Actual)
		}
	}
	fmt.Printf("Verified %d snapshots: %d matched, %d divergent\n",
		report.TotalSnapshots, report.MatchedSnapshots, report.DivergentSnapshots)

	if *output != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			logger.Fatal("encode report", zap.Error(err))
		}
		if err := os.WriteFile(*output, append(data, '\n'), 0644); err != nil {
			logger.Fatal("write report", zap.Error(err))
		}
	}

	if report.DivergentSnapshots > 0 {
		closeStores()
		logger.Sync()
		os.Exit(2)
	}
}
