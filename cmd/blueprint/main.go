// Package main computes natal Blueprints from the command line.
//
// A single input is given with flags; -input reads a JSON array of birth
// inputs and computes them concurrently. Results are written to -output-dir
// as JSON, Markdown and CSV.
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
	"cosmic-blueprint/internal/layers"
	"cosmic-blueprint/internal/logging"
	"cosmic-blueprint/internal/reporting"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	date := flag.String("date", "", "Birth date (YYYY-MM-DD)")
	clock := flag.String("time", "", "Birth time (HH:MM or HH:MM:SS)")
	location := flag.String("location", "", "Birth place label")
	lat := flag.Float64("lat", 0, "Latitude in degrees, north positive")
	lon := flag.Float64("lon", 0, "Longitude in degrees, east positive")
	tz := flag.String("tz", "", "IANA timezone (resolved from coordinates when empty)")
	input := flag.String("input", "", "JSON file with an array of birth inputs (batch mode)")
	outputDir := flag.String("output-dir", "output", "Output directory for generated files")
	userID := flag.String("user", "", "User ID to persist the snapshot under")
	persist := flag.Bool("persist", false, "Store the Blueprint as a snapshot")
	flag.BoolVar(&cfg.UseMemory, "use-memory", cfg.UseMemory, "Use in-memory storage")
	flag.BoolVar(&cfg.TimezoneLookup, "tz-lookup", cfg.TimezoneLookup, "Resolve missing timezones from coordinates")
	flag.Parse()

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

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		logger.Fatal("create output directory", zap.Error(err))
	}

	if *input != "" {
		inputs, err := readInputs(*input)
		if err != nil {
			logger.Fatal("read inputs", zap.Error(err))
		}
		blueprints, err := svc.ComputeBatch(ctx, inputs)
		if err != nil {
			logger.Fatal("compute batch", zap.Error(err))
		}
		for i, bp := range blueprints {
			if err := writeBlueprint(*outputDir, fmt.Sprintf("blueprint_%03d", i+1), bp); err != nil {
				logger.Fatal("write output", zap.Error(err))
			}
		}
		fmt.Printf("Computed %d blueprints into %s/\n", len(blueprints), *outputDir)
		return
	}

	in := domain.BirthInput{
		Date:      *date,
		Time:      *clock,
		Location:  *location,
		Latitude:  *lat,
		Longitude: *lon,
		Timezone:  *tz,
	}
	res, err := svc.Blueprint(ctx, *userID, in, *persist)
	if err != nil {
		logger.Fatal("compute blueprint", zap.Error(err))
	}
	if err := writeBlueprint(*outputDir, "blueprint", res.Blueprint); err != nil {
		logger.Fatal("write output", zap.Error(err))
	}

	fmt.Println("Blueprint generated successfully:")
	fmt.Printf("  - fingerprint %s\n", res.Fingerprint)
	if res.Snapshot != nil {
		fmt.Printf("  - snapshot %s (user %s)\n", res.Snapshot.ID, res.Snapshot.UserID)
	}
	fmt.Printf("  - %s/blueprint.json\n", *outputDir)
	fmt.Printf("  - %s/blueprint.md\n", *outputDir)
	fmt.Printf("  - %s/blueprint_planets.csv\n", *outputDir)
	fmt.Printf("  - %s/blueprint_layers.csv\n", *outputDir)
}

// readInputs parses a JSON array of BirthInput.
func readInputs(path string) ([]domain.BirthInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var inputs []domain.BirthInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%s contains no inputs", path)
	}
	return inputs, nil
}

// writeBlueprint writes <name>.json, <name>.md, <name>_planets.csv and <name>_layers.csv.
func writeBlueprint(dir, name string, bp *domain.Blueprint) error {
	data, err := json.MarshalIndent(bp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode blueprint: %w", err)
	}

	files := map[string]string{
		name + ".json":        string(data) + "\n",
		name + ".md":          reporting.RenderBlueprintMarkdown(bp),
		name + "_planets.csv": reporting.RenderPlanetsCSV(bp),
		name + "_layers.csv":  reporting.RenderLayersCSV(layers.Score(bp)),
	}
	for file, content := range files {
		if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0644); err != nil {
			return fmt.Errorf("write %s: %w", file, err)
		}
	}
	return nil
}
