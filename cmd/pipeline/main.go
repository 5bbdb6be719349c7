package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"pnl_projection/pkg/core/export"
	"pnl_projection/pkg/core/pipeline"
	"pnl_projection/pkg/core/store"
	"pnl_projection/pkg/core/utils"
)

// Runs every scenario (from the config file, or the files given as
// arguments) against the registry and writes deals CSV, a workbook and an
// HTML report per scenario.
func main() {
	outDir := flag.String("out", "out", "Output directory")
	registry := flag.String("registry", "", "Registry DSN (defaults to DEAL_REGISTRY_URL)")
	table := flag.String("table", "", "Deal table name")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	configPath := os.Getenv("PROJECTION_CONFIG")
	if configPath == "" {
		configPath = pipeline.DefaultConfigPath
	}
	cfg, err := pipeline.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Config: %v", err)
	}

	scenarios := cfg.Scenarios
	if flag.NArg() > 0 {
		scenarios = nil
		for _, path := range flag.Args() {
			sc, err := utils.LoadScenario(path, cfg.Defaults)
			if err != nil {
				log.Fatalf("Scenario: %v", err)
			}
			scenarios = append(scenarios, *sc)
		}
	}
	if len(scenarios) == 0 {
		scenarios = []utils.Scenario{{Name: "default", Inputs: cfg.Defaults}}
	}

	dsn := *registry
	if dsn == "" {
		dsn = os.Getenv("DEAL_REGISTRY_URL")
	}
	if dsn == "" {
		log.Fatal("Error: no registry given (-registry or DEAL_REGISTRY_URL)")
	}

	ctx := context.Background()
	src, err := store.Open(ctx, dsn, *table)
	if err != nil {
		log.Fatalf("Registry: %v", err)
	}
	defer src.Close()
	defer store.Close()

	orch := pipeline.NewOrchestrator(src)
	fmt.Println("Revenue projection pipeline starting...")
	start := time.Now()

	dataset, err := orch.Load(ctx)
	if err != nil {
		log.Fatalf("Load: %v", err)
	}
	prep, err := orch.Prepare(dataset, cfg.Engine)
	if err != nil {
		log.Fatalf("Prepare: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("Output dir: %v", err)
	}

	names := make([]string, len(scenarios))
	for i, sc := range scenarios {
		names[i] = sc.Name
	}
	stems := outputStems(names)

	bar := progressbar.Default(int64(len(scenarios)), "scenarios")
	for i, sc := range scenarios {
		res, err := orch.Simulate(ctx, prep, sc.Inputs)
		if err != nil {
			log.Fatalf("Scenario %s: %v", sc.Name, err)
		}
		if err := writeOutputs(*outDir, stems[i], res); err != nil {
			log.Fatalf("Scenario %s: %v", sc.Name, err)
		}
		_ = bar.Add(1)
	}

	fmt.Printf("\n%d scenario(s) written to %s in %v\n", len(scenarios), *outDir, time.Since(start))
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// outputStems turns scenario names into distinct file-name stems made of
// [A-Za-z0-9_-]. Repeated stems get -2, -3, ... suffixes.
func outputStems(names []string) []string {
	stems := make([]string, len(names))
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		stem := strings.Trim(unsafeNameChars.ReplaceAllString(name, "_"), "_")
		if stem == "" {
			stem = "scenario"
		}
		candidate := stem
		for n := 2; seen[candidate]; n++ {
			candidate = fmt.Sprintf("%s-%d", stem, n)
		}
		seen[candidate] = true
		stems[i] = candidate
	}
	return stems
}

func writeOutputs(dir, stem string, res *pipeline.Result) error {
	base := filepath.Join(dir, fmt.Sprintf("%s_%d", stem, res.Year))

	csvFile, err := os.Create(base + "_deals.csv")
	if err != nil {
		return err
	}
	defer csvFile.Close()
	if err := export.WriteCSV(csvFile, export.DealTable(res)); err != nil {
		return err
	}

	xlsxFile, err := os.Create(base + ".xlsx")
	if err != nil {
		return err
	}
	defer xlsxFile.Close()
	if err := export.WriteXLSX(xlsxFile, export.AllTables(res)); err != nil {
		return err
	}

	page, err := export.HTML(res)
	if err != nil {
		return err
	}
	return os.WriteFile(base+".html", []byte(page), 0644)
}
