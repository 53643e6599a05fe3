// Package main compares two birth profiles and writes the synastry report.
//
// Profiles are read from a JSON file: {"profile1": {...}, "profile2": {...}}.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"cosmic-blueprint/internal/bootstrap"
	"cosmic-blueprint/internal/config"
	"cosmic-blueprint/internal/domain"
	"cosmic-blueprint/internal/logging"
	"cosmic-blueprint/internal/reporting"
)

type pair struct {
	Profile1 domain.BirthInput `json:"profile1"`
	Profile2 domain.BirthInput `json:"profile2"`
}

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	input := flag.String("input", "", "JSON file with profile1 and profile2 (required)")
	outputDir := flag.String("output-dir", "output", "Output directory for generated files")
	flag.BoolVar(&cfg.TimezoneLookup, "tz-lookup", cfg.TimezoneLookup, "Resolve missing timezones from coordinates")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: --input is required")
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	data, err := os.ReadFile(*input)
	if err != nil {
		logger.Fatal("read input", zap.Error(err))
	}
	var p pair
	if err := json.Unmarshal(data, &p); err != nil {
		logger.Fatal("parse input", zap.String("path", *input), zap.Error(err))
	}

	// Synastry never persists; skip the database stores.
	cfg.UseMemory = false
	cfg.PostgresDSN, cfg.ClickhouseDSN = "", ""

	ctx := context.Background()
	svc, closeStores, err := bootstrap.NewService(ctx, cfg, logger, nil)
	if err != nil {
		logger.Fatal("create service", zap.Error(err))
	}
	defer closeStores()

	res, err := svc.Synastry(ctx, p.Profile1, p.Profile2)
	if err != nil {
		logger.Fatal("compute synastry", zap.Error(err))
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		logger.Fatal("create output directory", zap.Error(err))
	}
	encoded, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		logger.Fatal("encode result", zap.Error(err))
	}
	if err := os.WriteFile(filepath.Join(*outputDir, "synastry.json"), append(encoded, '\n'), 0644); err != nil {
		logger.Fatal("write synastry.json", zap.Error(err))
	}
	if err := os.WriteFile(filepath.Join(*outputDir, "synastry.md"), []byte(reporting.RenderSynastryMarkdown(*res)), 0644); err != nil {
		logger.Fatal("write synastry.md", zap.Error(err))
	}

	fmt.Printf("Compatibility score: %.2f\n", res.CompatibilityScore)
	for _, h := range res.NarrativeHighlights {
		fmt.Printf("  - %s\n", h)
	}
	fmt.Printf("Report written to %s/synastry.md\n", *outputDir)
}
