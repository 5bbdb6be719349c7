package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"pnl_projection/pkg/core/calc"
	"pnl_projection/pkg/core/generator"
	"pnl_projection/pkg/core/lookup"
	"pnl_projection/pkg/core/preprocess"
	"pnl_projection/pkg/models"
)

// AssumedPriorRevenue is the prior-year reference revenue (eok) growth is
// measured against when no config overrides it.
const AssumedPriorRevenue = 150.0

// DealSource materializes the historical deal registry.
// Implementations may read from:
// - SQLite (the registry built by the TSV import tool)
// - PostgreSQL / MySQL mirrors
// - CSV/TSV/XLSX exports
type DealSource interface {
	LoadDeals(ctx context.Context) (*models.RawTable, error)
}

// Config holds the engine constants of a run.
type Config struct {
	Generator    generator.Config `json:"generator" yaml:"generator"`
	MinSample    int              `json:"min_sample" yaml:"min_sample"`
	PriorRevenue float64          `json:"prior_revenue" yaml:"prior_revenue"`
	Costs        models.CostModel `json:"costs" yaml:"costs"`
}

// DefaultConfig projects 2026 against a 150 eok prior year.
func DefaultConfig() Config {
	return Config{
		Generator:    generator.DefaultConfig(),
		MinSample:    lookup.DefaultMinSample,
		PriorRevenue: AssumedPriorRevenue,
		Costs:        models.DefaultCostModel(),
	}
}

// WithDefaults fills zero fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	c.Generator = c.Generator.WithDefaults()
	if c.MinSample <= 0 {
		c.MinSample = def.MinSample
	}
	if c.PriorRevenue == 0 {
		c.PriorRevenue = def.PriorRevenue
	}
	if c.Costs == (models.CostModel{}) {
		c.Costs = def.Costs
	}
	return c
}

// Request is the immutable input of one run.
type Request struct {
	Dataset *models.RawTable
	Inputs  models.SimulationInputs
	Config  Config
}

// Prepared is the preprocessed history and its lookup. It is read-only and
// may be shared by concurrent simulations.
type Prepared struct {
	Config      Config
	History     *preprocess.Result
	Lookup      *lookup.Lookup
	MedianTable []lookup.Row
	FormatTable []lookup.Row
	SizePivot   []SizeChannelRow
}

// SizeChannelRow is prior-year booked revenue for one size segment.
type SizeChannelRow struct {
	Size    models.Size `json:"size"`
	Online  float64     `json:"online"`
	Offline float64     `json:"offline"`
	Total   float64     `json:"total"`
}

// Result is everything one run produces.
type Result struct {
	RunID       string                  `json:"run_id"`
	Year        int                     `json:"year"`
	Inputs      models.SimulationInputs `json:"inputs"`
	Deals       []models.GeneratedDeal  `json:"deals"`
	Report      *calc.Report            `json:"report"`
	Preprocess  preprocess.Stats        `json:"preprocess"`
	MedianTable []lookup.Row            `json:"median_table"`
	FormatTable []lookup.Row            `json:"format_table"`
	SizePivot   []SizeChannelRow        `json:"size_pivot"`
	Warnings    []string                `json:"warnings,omitempty"`
	ElapsedMS   int64                   `json:"elapsed_ms"`
}

// Orchestrator wires preprocessing, generators and aggregation.
type Orchestrator struct {
	source DealSource
}

// NewOrchestrator creates an orchestrator. source may be nil when callers
// always pass the dataset in the Request.
func NewOrchestrator(source DealSource) *Orchestrator {
	return &Orchestrator{source: source}
}

// SetSource allows injecting a custom deal source (e.g., for testing).
func (o *Orchestrator) SetSource(source DealSource) {
	o.source = source
}

// Load reads the registry through the configured source.
func (o *Orchestrator) Load(ctx context.Context) (*models.RawTable, error) {
	if o.source == nil {
		return nil, fmt.Errorf("no deal source configured")
	}
	table, err := o.source.LoadDeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load deal registry: %w", err)
	}
	return table, nil
}

// Prepare preprocesses the dataset for the year before the target year and
// builds the median lookup.
func (o *Orchestrator) Prepare(dataset *models.RawTable, cfg Config) (*Prepared, error) {
	cfg = cfg.WithDefaults()
	history, err := preprocess.Run(dataset, cfg.Generator.Year-1)
	if err != nil {
		return nil, fmt.Errorf("preprocess failed: %w", err)
	}
	lk := lookup.Build(history.Deals, cfg.MinSample)
	return &Prepared{
		Config:      cfg,
		History:     history,
		Lookup:      lk,
		MedianTable: lk.Level3Table(),
		FormatTable: lookup.FormatCategoryTable(history.Deals),
		SizePivot:   sizePivot(history.Deals),
	}, nil
}

// Run executes one request end to end.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	dataset := req.Dataset
	if dataset == nil {
		var err error
		if dataset, err = o.Load(ctx); err != nil {
			return nil, err
		}
	}
	prep, err := o.Prepare(dataset, req.Config)
	if err != nil {
		return nil, err
	}
	return o.Simulate(ctx, prep, req.Inputs)
}

// Simulate runs the generators and the aggregator over prepared history.
// The four history-driven generators run concurrently; gap-fill runs after
// them because it needs their recognized revenue.
func (o *Orchestrator) Simulate(ctx context.Context, prep *Prepared, in models.SimulationInputs) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	runID := uuid.New().String()
	cfg := prep.Config
	gcfg := cfg.Generator
	history := prep.History.Deals
	fmt.Printf("[PIPELINE] run %s: year=%d history=%d\n", runID, gcfg.Year, len(history))

	stages := []func() []models.GeneratedDeal{
		func() []models.GeneratedDeal { return generator.Backlog(history, gcfg) },
		func() []models.GeneratedDeal { return generator.FixedPlan(in, gcfg) },
		func() []models.GeneratedDeal { return generator.Retention(history, gcfg) },
		func() []models.GeneratedDeal { return generator.Upsell(history, prep.Lookup, gcfg) },
	}
	outputs := make([][]models.GeneratedDeal, len(stages))
	var wg sync.WaitGroup
	for i, stage := range stages {
		wg.Add(1)
		go func(i int, stage func() []models.GeneratedDeal) {
			defer wg.Done()
			outputs[i] = stage()
		}(i, stage)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run %s cancelled: %w", runID, err)
	}

	var deals []models.GeneratedDeal
	for i, out := range outputs {
		fmt.Printf("[PIPELINE] %s: %d deals\n", models.Modules[i], len(out))
		deals = append(deals, out...)
	}
	existing := generator.RecognizedByChannel(deals)
	newDeals := generator.GapFill(history, prep.Lookup, in, existing, gcfg)
	fmt.Printf("[PIPELINE] %s: %d deals\n", models.ModuleNewDeals, len(newDeals))
	deals = append(deals, newDeals...)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run %s cancelled: %w", runID, err)
	}

	SortDeals(deals)
	agg := &calc.Aggregator{Year: gcfg.Year, Costs: cfg.Costs, PriorRevenue: cfg.PriorRevenue}
	report := agg.Aggregate(deals, in)
	check := calc.CheckReport(report)
	for _, w := range check.Warnings {
		fmt.Printf("[VERIFY] run %s: %s\n", runID, w)
	}

	elapsed := time.Since(start)
	fmt.Printf("[PIPELINE] run %s finished in %v: %d deals, revenue %.2f\n", runID, elapsed, len(deals), report.KPIs.TotalRevenue)
	return &Result{
		RunID:       runID,
		Year:        gcfg.Year,
		Inputs:      in,
		Deals:       deals,
		Report:      report,
		Preprocess:  prep.History.Stats,
		MedianTable: prep.MedianTable,
		FormatTable: prep.FormatTable,
		SizePivot:   prep.SizePivot,
		Warnings:    check.Warnings,
		ElapsedMS:   elapsed.Milliseconds(),
	}, nil
}

// SortDeals orders the deal table by module, then company, then close date.
func SortDeals(deals []models.GeneratedDeal) {
	sort.SliceStable(deals, func(i, j int) bool {
		if deals[i].Module != deals[j].Module {
			return deals[i].Module < deals[j].Module
		}
		if deals[i].Company != deals[j].Company {
			return deals[i].Company < deals[j].Company
		}
		return deals[i].Closed.Before(deals[j].Closed)
	})
}

func sizePivot(deals []models.Deal) []SizeChannelRow {
	pivot := preprocess.SizeChannelRevenue(deals)
	rows := make([]SizeChannelRow, 0, len(pivot))
	for _, size := range models.Sizes {
		byChannel, ok := pivot[size]
		if !ok {
			continue
		}
		row := SizeChannelRow{
			Size:    size,
			Online:  byChannel[models.ChannelOnline],
			Offline: byChannel[models.ChannelOffline],
		}
		row.Total = row.Online + row.Offline
		rows = append(rows, row)
	}
	return rows
}
