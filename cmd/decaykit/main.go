package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"github.com/tkoskela/decaykit/internal/analysis"
	"github.com/tkoskela/decaykit/internal/catalog"
	"github.com/tkoskela/decaykit/internal/clebsch"
	"github.com/tkoskela/decaykit/internal/config"
	"github.com/tkoskela/decaykit/internal/metrics"
	"github.com/tkoskela/decaykit/internal/particle"
	"github.com/tkoskela/decaykit/internal/sim"
	"github.com/tkoskela/decaykit/internal/storage"
)

var (
	dataDir     string
	dt          float64
	duration    float64
	seed        int64
	configFile  string
	catalogFile string
	label       string
	numRuns     int
	// tabulate
	maxJ    int
	outFile string
	// plot
	plotBins int
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "decaykit",
		Short: "resonance decay simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".decaykit", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run decay simulation",
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (fm/c)")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultTEnd, "duration (fm/c)")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&catalogFile, "catalog", "", "species catalog path (yaml)")
	runCmd.Flags().StringVar(&label, "label", "decay", "run label")
	runCmd.Flags().IntVar(&numRuns, "runs", 1, "number of ensemble runs")

	coeffCmd := &cobra.Command{
		Use:   "coeff [j1 j2 j3 m1 m2 m3]",
		Short: "print a Clebsch-Gordan coefficient (doubled integers)",
		Args:  cobra.ExactArgs(6),
		RunE:  printCoefficient,
	}

	tabulateCmd := &cobra.Command{
		Use:   "tabulate",
		Short: "precompute a Clebsch-Gordan table",
		RunE:  tabulateCoefficients,
	}
	tabulateCmd.Flags().IntVar(&maxJ, "max-j", 4, "largest doubled spin to tabulate")
	tabulateCmd.Flags().StringVar(&outFile, "out", "clebsch.yaml", "output table path")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot decay time histogram",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotBins, "bins", 60, "histogram bins")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "lifetime and branching analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&plotBins, "bins", 40, "survival curve bins")

	speciesCmd := &cobra.Command{
		Use:   "species",
		Short: "list catalog species",
		RunE:  listSpecies,
	}
	speciesCmd.Flags().StringVar(&catalogFile, "catalog", "", "species catalog path (yaml)")

	rootCmd.AddCommand(runCmd, coeffCmd, tabulateCmd, listCmd, plotCmd, exportCmd, analyzeCmd, speciesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// CLI flags override the config file.
	if cmd.Flags().Changed("dt") || configFile == "" {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") || configFile == "" {
		cfg.TEnd = duration
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("catalog") {
		cfg.CatalogPath = catalogFile
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	cat, err := cfg.LoadCatalog()
	if err != nil {
		return err
	}

	coeffs := clebsch.NewCache()
	if cfg.ClebschTable != "" {
		entries, err := clebsch.LoadTable(cfg.ClebschTable)
		if err != nil {
			return fmt.Errorf("failed to load coefficient table: %w", err)
		}
		coeffs.Preseed(entries)
	}

	simCfg := sim.Config{Dt: cfg.Dt, TEnd: cfg.TEnd, Seed: cfg.Seed}

	if numRuns > 1 {
		return runEnsemble(st, cfg, cat, coeffs, simCfg)
	}

	parts := particle.NewMap()
	if err := cfg.BuildParticles(cat, parts); err != nil {
		return err
	}

	s := sim.New(coeffs, parts)
	s.AddMetric(metrics.NewDecayCount())
	s.AddMetric(metrics.NewMeanDelay())

	fmt.Println(headerStyle.Render("running decay simulation..."))
	start := time.Now()

	result, err := s.Run(context.Background(), simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(label, simCfg, result)
	if err != nil {
		return err
	}

	printSummary(runID, elapsed, simCfg, result)
	return nil
}

func runEnsemble(st *storage.Store, cfg *config.Config, cat *catalog.Catalog, coeffs *clebsch.Cache, simCfg sim.Config) error {
	setup := func() (*sim.Simulation, error) {
		parts := particle.NewMap()
		if err := cfg.BuildParticles(cat, parts); err != nil {
			return nil, err
		}
		s := sim.New(coeffs, parts)
		s.AddMetric(metrics.NewDecayCount())
		s.AddMetric(metrics.NewMeanDelay())
		return s, nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("running %d-member ensemble...", numRuns)))
	start := time.Now()

	ens := sim.NewEnsemble(setup, numRuns, simCfg.Seed)
	results, err := ens.Run(context.Background(), simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	for i, result := range results {
		memberCfg := simCfg
		memberCfg.Seed = simCfg.Seed + int64(i)
		runID, err := st.Save(fmt.Sprintf("%s_%d", label, i), memberCfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("  member %d: %s (%d decays)\n", i, runID, len(result.Decays))
	}

	fmt.Printf("completed in %v\n", elapsed)
	return nil
}

func printSummary(runID string, elapsed time.Duration, cfg sim.Config, result *sim.Result) {
	row := func(name, value string) {
		fmt.Println(labelStyle.Render(name) + valueStyle.Render(value))
	}

	fmt.Println(headerStyle.Render("\nrun summary"))
	row("run id", runID)
	row("elapsed", elapsed.String())
	row("seed", strconv.FormatInt(cfg.Seed, 10))
	row("steps", strconv.Itoa(result.StepsTaken))
	row("decays", strconv.Itoa(len(result.Decays)))
	row("forced", strconv.Itoa(result.ForcedDecays))

	species := make([]string, 0, len(result.FinalCounts))
	for name := range result.FinalCounts {
		species = append(species, name)
	}
	sort.Strings(species)

	fmt.Println(headerStyle.Render("\nfinal state"))
	for _, name := range species {
		row(name, strconv.Itoa(result.FinalCounts[name]))
	}

	if len(result.Metrics) > 0 {
		names := make([]string, 0, len(result.Metrics))
		for name := range result.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Println(headerStyle.Render("\nmetrics"))
		for _, name := range names {
			row(name, strconv.FormatFloat(result.Metrics[name], 'f', 6, 64))
		}
	}
}

func printCoefficient(cmd *cobra.Command, args []string) error {
	vals := make([]int, 6)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("argument %d is not an integer: %q", i+1, a)
		}
		vals[i] = v
	}

	coeffs := clebsch.NewCache()
	cg := coeffs.Coefficient(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5])
	fmt.Printf("%.15g\n", cg)
	return nil
}

func tabulateCoefficients(cmd *cobra.Command, args []string) error {
	coeffs := clebsch.NewCache()

	start := time.Now()
	entries := clebsch.Tabulate(coeffs, maxJ)
	if err := clebsch.SaveTable(outFile, entries); err != nil {
		return err
	}

	fmt.Printf("tabulated %d coefficients (max doubled spin %d) in %v\n", len(entries), maxJ, time.Since(start))
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tDURATION\tDT\tSEED\tDECAYS\tFORCED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.4f\t%d\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.TEnd,
			run.Dt,
			run.Seed,
			run.Decays,
			run.ForcedDecays,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	records, err := st.LoadRecords(runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no decays to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("decays: %d\n\n", len(records))

	tMax := 0.0
	for _, rec := range records {
		if rec.Time > tMax {
			tMax = rec.Time
		}
	}
	if tMax <= 0 {
		tMax = 1
	}

	hist := make([]float64, plotBins)
	for _, rec := range records {
		bin := int(float64(plotBins) * rec.Time / tMax)
		if bin >= plotBins {
			bin = plotBins - 1
		}
		if bin < 0 {
			bin = 0
		}
		hist[bin]++
	}

	graph := asciigraph.Plot(hist,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("decays per bin, t = 0 .. %.2f fm/c", tMax)),
	)
	fmt.Println(graph)

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	records, err := st.LoadRecords(runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no decays to analyze")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("decays: %d\n\n", len(records))

	branching := analysis.BranchingFractions(records)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARENT\tDECAYS\tFRACTION\tMEAN LIFETIME")
	for _, name := range analysis.Parents(records) {
		fmt.Fprintf(w, "%s\t%.0f\t%.3f\t%.4f fm/c\n",
			name,
			branching[name]*float64(len(records)),
			branching[name],
			analysis.MeanLifetime(records, name),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	curve := analysis.SurvivalCurve(records, plotBins, meta.TEnd)
	if len(curve) > 0 {
		fmt.Println()
		graph := asciigraph.Plot(curve,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("surviving fraction, t = 0 .. %.2f fm/c", meta.TEnd)),
		)
		fmt.Println(graph)
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func listSpecies(cmd *cobra.Command, args []string) error {
	var cat *catalog.Catalog
	var err error
	if catalogFile != "" {
		cat, err = catalog.Load(catalogFile)
	} else {
		cat = catalog.Default()
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPDG\tMASS\tWIDTH\tSPIN\tISOSPIN\tSTABLE")

	for _, name := range cat.Names() {
		t, err := cat.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%.4f\t%.4f\t%d/2\t%d/2\t%v\n",
			t.Name, t.PDG, t.Mass, t.Width, t.Spin, t.Isospin, t.IsStable())
	}

	return w.Flush()
}
