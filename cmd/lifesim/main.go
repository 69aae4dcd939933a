package main

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/lifesim/internal/analysis"
	"github.com/san-kum/lifesim/internal/chem"
	"github.com/san-kum/lifesim/internal/config"
	"github.com/san-kum/lifesim/internal/export"
	"github.com/san-kum/lifesim/internal/metrics"
	"github.com/san-kum/lifesim/internal/optim"
	"github.com/san-kum/lifesim/internal/sim"
	"github.com/san-kum/lifesim/internal/storage"
	"github.com/san-kum/lifesim/internal/viz"
	"github.com/san-kum/lifesim/internal/world"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	chemPath   string
	ticks      int
	atoms      int
	seed       int64
	temp       float64
	width      float64
	height     float64
	diameter   float64
	passes     int
	logEvery   int
	noSave     bool
	runs       int
	mapCols    int
	mapRows    int
	svgPath    string
	canvasSVG  string
	sweepArgs  []string
	metricName string
	minimize   bool
	seriesName string
	parallel   int
	genSpecies int
	genStates  int
	genRules   int
	genSeed    int64

	logger = slog.New(slog.DiscardHandler)
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "lifesim",
		Short:         "artificial chemistry on a wraparound plane",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = newLogger(os.Stderr, logLevel)
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run one world and store its history",
		Args:  cobra.NoArgs,
		RunE:  runWorld,
	}
	addWorldFlags(runCmd)
	runCmd.Flags().IntVar(&logEvery, "log-every", config.DefaultLogEvery, "log tick stats every N ticks (0 disables)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run worlds for consecutive seeds in parallel",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addWorldFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&runs, "runs", 4, "number of worlds")
	ensembleCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")
	ensembleCmd.Flags().IntVar(&parallel, "parallel", runtime.GOMAXPROCS(0), "worlds stepping at once")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot bonds, contacts and reactions of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	mapCmd := &cobra.Command{
		Use:   "map [run_id]",
		Short: "draw the final atom positions of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  mapRun,
	}
	mapCmd.Flags().IntVar(&mapCols, "cols", 60, "map width in characters")
	mapCmd.Flags().IntVar(&mapRows, "rows", 30, "map height in characters")
	mapCmd.Flags().StringVar(&svgPath, "svg", "", "also write the atoms as svg to this file")
	mapCmd.Flags().StringVar(&canvasSVG, "svg-canvas", "", "also write the braille map as svg to this file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "power spectrum of a tick series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&seriesName, "series", "bonds", "series to analyze (bonds, contacts, reactions, overlaps)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run ensembles over a grid of world parameters",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addWorldFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&runs, "runs", 4, "worlds per parameter combination")
	sweepCmd.Flags().StringArrayVar(&sweepArgs, "param", nil, "swept parameter as name=v1,v2 (repeatable)")
	sweepCmd.Flags().StringVar(&metricName, "metric", "bonds", "metric to compare")
	sweepCmd.Flags().BoolVar(&minimize, "minimize", false, "pick the lowest mean instead of the highest")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	chemCmd := &cobra.Command{
		Use:   "chem",
		Short: "chemistry file tools",
	}
	checkCmd := &cobra.Command{
		Use:   "check [file]",
		Short: "parse a chemistry file and report its rules",
		Args:  cobra.MaximumNArgs(1),
		RunE:  checkChemistry,
	}
	genCmd := &cobra.Command{
		Use:   "gen",
		Short: "print a random chemistry",
		Args:  cobra.NoArgs,
		RunE:  generateChemistry,
	}
	genCmd.Flags().IntVar(&genSpecies, "species", world.DefaultNumSpecies, "number of species")
	genCmd.Flags().IntVar(&genStates, "states", world.DefaultNumStates, "number of states")
	genCmd.Flags().IntVar(&genRules, "rules", 12, "number of rules")
	genCmd.Flags().Int64Var(&genSeed, "seed", 0, "random seed (0 picks one from the clock)")
	chemCmd.AddCommand(checkCmd, genCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list world presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, ensembleCmd, sweepCmd, listCmd, plotCmd, analyzeCmd, mapCmd, exportJSONCmd, chemCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addWorldFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&chemPath, "chem", config.DefaultChemPath, "chemistry file")
	f.IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	f.IntVar(&atoms, "atoms", config.DefaultInitAtoms, "initial atoms")
	f.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	f.Float64Var(&temp, "temperature", world.DefaultTemperature, "diffusion step bound")
	f.Float64Var(&width, "width", world.DefaultWidth, "plane width")
	f.Float64Var(&height, "height", world.DefaultHeight, "plane height")
	f.Float64Var(&diameter, "diameter", world.DefaultDiameter, "atom diameter")
	f.IntVar(&passes, "passes", world.DefaultPasses, "collision passes per tick")
}

// loadConfig layers defaults, preset, config file and explicit flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("chem") {
		cfg.Chemistry.Path = chemPath
	}
	if flags.Changed("ticks") {
		cfg.Run.Ticks = ticks
	}
	if flags.Changed("atoms") {
		cfg.World.InitAtoms = atoms
	}
	if flags.Changed("seed") {
		cfg.World.Seed = seed
	}
	if flags.Changed("temperature") {
		cfg.World.Temperature = temp
	}
	if flags.Changed("width") {
		cfg.World.Width = width
	}
	if flags.Changed("height") {
		cfg.World.Height = height
	}
	if flags.Changed("diameter") {
		cfg.World.Diameter = diameter
	}
	if flags.Changed("passes") {
		cfg.World.Passes = passes
	}
	if flags.Changed("log-every") {
		cfg.Log.Every = logEvery
	}
	if flags.Changed("data") {
		cfg.Run.DataDir = dataDir
	}
	if !flags.Changed("log-level") && cfg.Log.Level != "" && cfg.Log.Level != logLevel {
		l, err := newLogger(os.Stderr, cfg.Log.Level)
		if err != nil {
			return nil, err
		}
		logger = l
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// buildWorld creates and populates a world. A missing chemistry file is fatal.
func buildWorld(cfg *config.Config, table *chem.Table, seed int64) (*world.World, error) {
	wc := cfg.WorldConfig()
	wc.Seed = seed
	w, err := world.New(wc, table, logger)
	if err != nil {
		return nil, err
	}
	if err := w.Populate(cfg.World.InitAtoms); err != nil {
		return nil, err
	}
	return w, nil
}

func runWorld(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	table, err := chem.Load(cfg.Chemistry.Path, logger)
	if err != nil {
		return err
	}

	w, err := buildWorld(cfg, table, cfg.World.Seed)
	if err != nil {
		return err
	}

	s := sim.New(w)
	for _, m := range metrics.DefaultMetrics() {
		s.AddMetric(m)
	}
	if cfg.Log.Every > 0 {
		s.AddObserver(sim.NewLogObserver(logger, cfg.Log.Every))
	}

	var rec *storage.Recorder
	if !noSave {
		st := storage.New(cfg.Run.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		meta := storage.NewMetadata(w.Config(), w.Seed(), cfg.Chemistry.Path, table.Len())
		rec, err = st.Create(meta)
		if err != nil {
			return err
		}
		s.AddObserver(rec)
	}

	logger.Info("starting run", "seed", w.Seed(), "atoms", w.Len(), "rules", table.Len(), "ticks", cfg.Run.Ticks)

	result, runErr := s.Run(cmd.Context(), cfg.Run.Ticks)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		logger.Warn("run stopped early", "tick", w.Tick(), "err", runErr)
	}

	rows := []viz.KV{
		{Label: "seed", Value: strconv.FormatInt(w.Seed(), 10)},
		{Label: "ticks", Value: strconv.Itoa(result.StepsTaken)},
		{Label: "atoms", Value: strconv.Itoa(w.Len())},
		{Label: "bonds", Value: strconv.Itoa(len(w.Bonds()))},
	}
	for _, name := range slices.Sorted(maps.Keys(result.Metrics)) {
		rows = append(rows, viz.KV{Label: name, Value: fmt.Sprintf("%.4f", result.Metrics[name])})
	}

	if rec != nil {
		if err := rec.Finish(result.Metrics, result.Atoms); err != nil {
			return fmt.Errorf("store run: %w", err)
		}
		rows = append(rows, viz.KV{Label: "run id", Value: rec.ID()})
	}

	fmt.Println(viz.Summary("lifesim run", rows))
	fmt.Println(viz.Sparkline(result.Series(func(s world.TickStats) int { return s.Bonds }), 60))

	return runErr
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	table, err := chem.Load(cfg.Chemistry.Path, logger)
	if err != nil {
		return err
	}

	start := cfg.World.Seed
	if start == 0 {
		start = 1
	}

	build := func(seed int64) (*world.World, error) {
		return buildWorld(cfg, table, seed)
	}
	ens := sim.NewEnsemble(build, metrics.DefaultMetrics, runs, start).SetParallelism(parallel)

	logger.Info("starting ensemble", "runs", runs, "seed_start", start, "ticks", cfg.Run.Ticks)

	results, err := ens.Run(cmd.Context(), cfg.Run.Ticks)
	if err != nil {
		return err
	}

	var st *storage.Store
	if !noSave {
		st = storage.New(cfg.Run.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEED\tBONDS\tREACTIONS\tCONTACTS\tDIVERSITY\tRUN")

	perMetric := make(map[string][]float64)
	for _, r := range results {
		runID := "-"
		if st != nil {
			meta := storage.NewMetadata(cfg.WorldConfig(), r.Seed, cfg.Chemistry.Path, table.Len())
			meta.Metrics = r.Metrics
			if runID, err = st.Save(meta, r.Ticks, r.Atoms); err != nil {
				return fmt.Errorf("store seed %d: %w", r.Seed, err)
			}
		}
		for name, v := range r.Metrics {
			perMetric[name] = append(perMetric[name], v)
		}
		fmt.Fprintf(tw, "%d\t%.3f\t%.3f\t%.3f\t%.3f\t%s\n",
			r.Seed,
			r.Metrics["bonds"],
			r.Metrics["reaction_rate"],
			r.Metrics["contact_rate"],
			r.Metrics["state_diversity"],
			runID,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	rows := make([]viz.KV, 0, len(perMetric))
	for _, name := range slices.Sorted(maps.Keys(perMetric)) {
		mean, std := metrics.Summary(perMetric[name])
		rows = append(rows, viz.KV{Label: name, Value: fmt.Sprintf("%.4f ± %.4f", mean, std)})
	}
	fmt.Println(viz.Summary(fmt.Sprintf("ensemble of %d", len(results)), rows))

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
	fmt.Fprintln(w, "ID\tTIME\tSEED\tTICKS\tATOMS\tSIZE\tTEMP\tRULES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%gx%g\t%g\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Ticks,
			run.Atoms,
			run.Width,
			run.Height,
			run.Temperature,
			run.Rules,
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

	history, err := st.LoadTicks(runID)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("seed: %d\n", meta.Seed)
	fmt.Printf("ticks: %d\n\n", len(history))

	r := &sim.Result{Ticks: history}
	series := []struct {
		caption string
		field   func(world.TickStats) int
	}{
		{"bonds", func(s world.TickStats) int { return s.Bonds }},
		{"contacts per tick", func(s world.TickStats) int { return s.Contacts }},
		{"reactions per tick", world.TickStats.Reactions},
		{"overlaps after resolution", func(s world.TickStats) int { return s.Overlaps }},
	}

	for _, p := range series {
		graph := asciigraph.Plot(r.Series(p.field),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func mapRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	snapshot, err := st.LoadAtoms(runID)
	if err != nil {
		return err
	}
	if len(snapshot) == 0 {
		return fmt.Errorf("run %s has no atom snapshot", runID)
	}

	c := viz.NewCanvas(mapCols, mapRows)
	c.DrawAtoms(snapshot, meta.Width, meta.Height)

	fmt.Println(viz.Title.Render(fmt.Sprintf("%s  %d atoms at tick %d", meta.ID, len(snapshot), meta.Ticks)))
	fmt.Print(viz.Panel.Render(c.String()))
	fmt.Println()

	written, err := writeMapFiles(c, snapshot, meta, svgPath, canvasSVG)
	for _, path := range written {
		fmt.Println(viz.Subtle.Render("wrote " + path))
	}
	return err
}

// writeMapFiles writes the atom plane to atomsPath and the drawn canvas to
// canvasPath. Empty paths are skipped.
func writeMapFiles(c *viz.Canvas, snapshot []world.Snapshot, meta *storage.RunMetadata, atomsPath, canvasPath string) ([]string, error) {
	var written []string
	if atomsPath != "" {
		svg := export.AtomsSVG(snapshot, meta.Width, meta.Height, 4)
		if err := os.WriteFile(atomsPath, []byte(svg), 0644); err != nil {
			return written, err
		}
		written = append(written, atomsPath)
	}
	if canvasPath != "" {
		svg := export.CanvasToSVG(c, 3)
		if err := os.WriteFile(canvasPath, []byte(svg), 0644); err != nil {
			return written, err
		}
		written = append(written, canvasPath)
	}
	return written, nil
}

var tickSeries = map[string]func(world.TickStats) int{
	"bonds":     func(s world.TickStats) int { return s.Bonds },
	"contacts":  func(s world.TickStats) int { return s.Contacts },
	"reactions": world.TickStats.Reactions,
	"overlaps":  func(s world.TickStats) int { return s.Overlaps },
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	field, ok := tickSeries[seriesName]
	if !ok {
		return fmt.Errorf("unknown series %q (available: %v)", seriesName, slices.Sorted(maps.Keys(tickSeries)))
	}

	st := storage.New(dataDir)
	history, err := st.LoadTicks(runID)
	if err != nil {
		return err
	}

	data := (&sim.Result{Ticks: history}).Series(field)
	ps := analysis.PowerSpectrum(data)
	if len(ps) < 2 {
		return fmt.Errorf("not enough ticks to analyze")
	}

	fmt.Printf("frequency analysis: %s\n\n", runID)
	graph := asciigraph.Plot(ps[1:],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", seriesName)),
	)
	fmt.Println(graph)
	fmt.Println()

	p, ok := analysis.Dominant(data)
	if !ok {
		fmt.Println("no periodic component")
		return nil
	}
	fmt.Printf("dominant period: %.1f ticks (%.0f%% of power)\n", p.Ticks, 100*p.Share)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	if len(sweepArgs) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	params := make([]optim.Param, 0, len(sweepArgs))
	for _, a := range sweepArgs {
		p, err := optim.ParseParam(a)
		if err != nil {
			return err
		}
		params = append(params, p)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	table, err := chem.Load(cfg.Chemistry.Path, logger)
	if err != nil {
		return err
	}

	start := cfg.World.Seed
	if start == 0 {
		start = 1
	}

	buildFor := func(values map[string]float64) (sim.Builder, error) {
		point := *cfg
		for name, v := range values {
			if err := point.SetParam(name, v); err != nil {
				return nil, err
			}
		}
		if err := point.Validate(); err != nil {
			return nil, fmt.Errorf("at %v: %w", values, err)
		}
		return func(seed int64) (*world.World, error) {
			return buildWorld(&point, table, seed)
		}, nil
	}

	logger.Info("starting sweep", "params", len(params), "runs", runs, "metric", metricName)

	points, err := optim.NewSweep(params, metricName, runs, start).Run(cmd.Context(), cfg.Run.Ticks, buildFor, metrics.DefaultMetrics)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := ""
	for _, p := range params {
		header += strings.ToUpper(p.Name) + "\t"
	}
	fmt.Fprintln(tw, header+"MEAN\tSTD")
	for _, pt := range points {
		row := ""
		for _, p := range params {
			row += strconv.FormatFloat(pt.Params[p.Name], 'g', -1, 64) + "\t"
		}
		fmt.Fprintf(tw, "%s%.4f\t%.4f\n", row, pt.Mean, pt.Std)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	best, _ := optim.Best(points, minimize)
	rows := make([]viz.KV, 0, len(params)+1)
	for _, p := range params {
		rows = append(rows, viz.KV{Label: p.Name, Value: strconv.FormatFloat(best.Params[p.Name], 'g', -1, 64)})
	}
	rows = append(rows, viz.KV{Label: metricName, Value: fmt.Sprintf("%.4f ± %.4f", best.Mean, best.Std)})
	fmt.Println(viz.Summary("best", rows))
	return nil
}

func checkChemistry(cmd *cobra.Command, args []string) error {
	path := config.DefaultChemPath
	if len(args) == 1 {
		path = args[0]
	}

	table, err := chem.Load(path, logger)
	if err != nil {
		return err
	}

	fmt.Println(viz.RuleReport(path, table))
	return nil
}

func generateChemistry(cmd *cobra.Command, args []string) error {
	if genSeed == 0 {
		genSeed = time.Now().UnixNano()
	}
	table, err := chem.Generate(rand.New(rand.NewSource(genSeed)), genSpecies, genStates, genRules)
	if err != nil {
		return err
	}

	fmt.Printf("# generated: %d species, %d states, seed %d\n", genSpecies, genStates, genSeed)
	for _, r := range table.Rules() {
		fmt.Println(r.String())
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tTEMP\tPASSES\tSPECIES\tSTATES\tATOMS")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%gx%g\t%g\t%d\t%d\t%d\t%d\n",
			name, p.Width, p.Height, p.Temperature, p.Passes, p.NumSpecies, p.NumStates, p.InitAtoms)
	}
	return w.Flush()
}
