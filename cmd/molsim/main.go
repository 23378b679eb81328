package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/molsim/internal/analysis"
	"github.com/san-kum/molsim/internal/automation"
	"github.com/san-kum/molsim/internal/config"
	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/experiment"
	"github.com/san-kum/molsim/internal/export"
	"github.com/san-kum/molsim/internal/forcefield"
	"github.com/san-kum/molsim/internal/geom"
	"github.com/san-kum/molsim/internal/logging"
	"github.com/san-kum/molsim/internal/metrics"
	"github.com/san-kum/molsim/internal/optim"
	"github.com/san-kum/molsim/internal/sim"
	"github.com/san-kum/molsim/internal/storage"
	"github.com/san-kum/molsim/internal/trajectory"
	"github.com/san-kum/molsim/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	dataDir  string
	logLevel string
	// run overrides
	preset      string
	topology    string
	coordinates string
	trajPath    string
	integrator  string
	dt          float64
	steps       int
	seed        int64
	temperature float64
	workers     int
	runName     string
	live        bool
	replicas    int
	noSave      bool
	// output
	outPath string
	pngPath string
	svgPath string
	// analysis
	atomsSpec  string
	vsSpec     string
	bins       int
	showForces bool
	frameIndex int
	renorm     int
	perturb    float64
	boxLengths []float64
	// sweeps
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepPoints int
	gridSpecs   []string
	metricName  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "molsim",
		Short:        "classical molecular dynamics with a bonded and pair force field",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".molsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [config]",
		Short: "run a simulation from a config file or preset",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addInputFlags(runCmd)
	runCmd.Flags().StringVar(&preset, "preset", "", "start from a preset configuration")
	runCmd.Flags().StringVar(&trajPath, "traj", "", "trajectory output path (.zst compresses)")
	runCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step (ps)")
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for initial velocities")
	runCmd.Flags().Float64Var(&temperature, "temperature", 0, "initial temperature (K), 0 starts at rest")
	runCmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "force workers, 0 uses every CPU")
	runCmd.Flags().StringVar(&runName, "name", "", "run name (default: topology file name)")
	runCmd.Flags().BoolVar(&live, "live", false, "show the live terminal view")
	runCmd.Flags().IntVar(&replicas, "replicas", 1, "independent replicas with consecutive seeds")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	energyCmd := &cobra.Command{
		Use:   "energy [config]",
		Short: "evaluate the potential energy of the starting coordinates",
		Args:  cobra.MaximumNArgs(1),
		RunE:  singlePoint,
	}
	addInputFlags(energyCmd)
	energyCmd.Flags().BoolVar(&showForces, "forces", false, "print the force on every atom")
	energyCmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "force workers, 0 uses every CPU")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot <run-id>",
		Short: "plot the energy series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&pngPath, "png", "", "also save the plot as an image (png, svg, pdf)")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "save the total energy as a bare svg line")

	exportCmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze <run-id>",
		Short: "energy statistics and spectrum of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	coordCmd := &cobra.Command{
		Use:   "coord <trajectory>",
		Short: "bond, angle or dihedral series of a trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  coordSeries,
	}
	coordCmd.Flags().StringVar(&atomsSpec, "atoms", "", "1-based atom indices, e.g. 1,2,3,4 (required)")
	coordCmd.Flags().StringVar(&vsSpec, "vs", "", "second coordinate for a 2D portrait")
	coordCmd.Flags().IntVar(&bins, "bins", 20, "histogram bins")
	coordCmd.Flags().StringVar(&pngPath, "png", "", "save the portrait as an image")
	coordCmd.Flags().Float64SliceVar(&boxLengths, "box", nil, "periodic box lengths x,y,z (nm)")
	coordCmd.MarkFlagRequired("atoms")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [config]",
		Short: "draw a trajectory frame, or the starting coordinates",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshot,
	}
	addInputFlags(snapshotCmd)
	snapshotCmd.Flags().StringVar(&trajPath, "traj", "", "trajectory to draw from")
	snapshotCmd.Flags().IntVar(&frameIndex, "frame", -1, "frame index, negative counts from the end")
	snapshotCmd.Flags().StringVar(&svgPath, "svg", "", "write the drawing as svg")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [config]",
		Short: "estimate the largest Lyapunov exponent",
		Args:  cobra.MaximumNArgs(1),
		RunE:  lyapunov,
	}
	addInputFlags(lyapunovCmd)
	lyapunovCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	lyapunovCmd.Flags().IntVar(&renorm, "renorm", 10, "steps between renormalisations")
	lyapunovCmd.Flags().Float64Var(&perturb, "perturbation", 1e-6, "initial displacement (nm)")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario <file>",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep [config]",
		Short: "run a config across a range of one parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addInputFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&preset, "preset", "", "start from a preset configuration")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "dt", fmt.Sprintf("parameter to sweep %v", config.ParamNames))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.0005, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.002, "last value")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 4, "number of values")

	optimizeCmd := &cobra.Command{
		Use:   "optimize [config]",
		Short: "grid search run settings for the smallest metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  optimize,
	}
	addInputFlags(optimizeCmd)
	optimizeCmd.Flags().StringVar(&preset, "preset", "", "start from a preset configuration")
	optimizeCmd.Flags().StringArrayVar(&gridSpecs, "grid", nil, "parameter values, e.g. dt=0.0005,0.001 (repeatable)")
	optimizeCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to minimise")
	optimizeCmd.MarkFlagRequired("grid")

	rootCmd.AddCommand(runCmd, energyCmd, listCmd, plotCmd, exportCmd, analyzeCmd,
		coordCmd, snapshotCmd, lyapunovCmd, presetsCmd, scenarioCmd, sweepCmd, optimizeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&topology, "topology", "", "topology file (yaml)")
	cmd.Flags().StringVar(&coordinates, "coords", "", "starting coordinates file")
}

// loadConfig builds the run config from, in increasing priority, the
// defaults, a preset, a config file and command-line flags.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if len(args) == 1 {
		loaded, err := config.Load(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		loaded.Resolve(filepath.Dir(args[0]))
		cfg = loaded
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			apply()
		}
	}
	set("topology", func() { cfg.Topology = topology })
	set("coords", func() { cfg.Coordinates = coordinates })
	set("traj", func() { cfg.Output.Trajectory = trajPath })
	set("integrator", func() { cfg.Integrator = integrator })
	set("dt", func() { cfg.Dt = dt })
	set("steps", func() { cfg.Steps = steps })
	set("seed", func() { cfg.Seed = seed })
	set("temperature", func() { cfg.Temperature = temperature })
	set("workers", func() { cfg.Workers = workers })
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if cfg.Topology == "" || cfg.Coordinates == "" {
		return nil, fmt.Errorf("a topology and a coordinates file are required (config file or --topology/--coords)")
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) logging.Logger {
	return logging.New(cfg.LogLevel)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if live || replicas > 1 {
		cfg.Output.Trajectory = ""
	}

	exp := experiment.New(cfg, newLogger(cfg))
	if err := exp.Setup(); err != nil {
		return err
	}
	defer exp.Close()

	if live {
		integ, err := exp.NewIntegrator()
		if err != nil {
			return err
		}
		stepsPerFrame := max(cfg.Output.Stride, 1)
		m := viz.NewModel(exp.Evaluator(), integ, exp.System(), exp.Bonds(), viz.LiveOptions{
			Title:         runTitle(cfg),
			StepsPerFrame: stepsPerFrame,
			MaxSteps:      cfg.Steps,
		})
		return viz.RunLive(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dir := dataDir
	if cfg.Output.DataDir != "" && !cmd.Flag("data").Changed {
		dir = cfg.Output.DataDir
	}
	st := storage.New(dir)
	if !noSave {
		if err := st.Init(); err != nil {
			return err
		}
	}

	if replicas > 1 {
		fmt.Printf("running %d replicas of %s...\n", replicas, runTitle(cfg))
		results, err := exp.RunReplicas(ctx, replicas)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SEED\tRUN ID\tSTEPS\tDRIFT\tMEAN T")
		for i, result := range results {
			rcfg := *cfg
			rcfg.Seed = cfg.Seed + int64(i)
			runID := "-"
			if !noSave {
				meta := storage.NewRunMetadata(runTitle(cfg), &rcfg, exp.System().Len(), result)
				if runID, err = st.Save(meta, result); err != nil {
					return err
				}
			}
			fmt.Fprintf(w, "%d\t%s\t%d\t%.3g\t%.1f\n",
				rcfg.Seed, runID, result.StepsTaken, result.EnergyDrift, result.Metrics["temperature"])
		}
		return w.Flush()
	}

	fmt.Printf("running %s: %d atoms, %d steps of %g ps...\n",
		runTitle(cfg), exp.System().Len(), cfg.Steps, cfg.Dt)
	start := time.Now()

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	if !noSave {
		meta := storage.NewRunMetadata(runTitle(cfg), cfg, exp.System().Len(), result)
		runID, err := st.Save(meta, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Printf("completed %d steps in %v\n", result.StepsTaken, elapsed)
	if w := exp.Trajectory(); w != nil {
		fmt.Printf("trajectory: %s (%d frames)\n", w.Path(), w.Frames())
	}
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	printMetrics(result)
	if graph := viz.EnergyGraph(result, 70, 10); graph != "" {
		fmt.Println()
		fmt.Println(graph)
	}
	return runErr
}

func runTitle(cfg *config.Config) string {
	if runName != "" {
		return runName
	}
	base := filepath.Base(cfg.Topology)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func printMetrics(result *sim.Result) {
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %-16s %.6g\n", name, result.Metrics[name])
	}
	fmt.Printf("  %-16s %.6g\n", "relative_drift", result.EnergyDrift)
}

func singlePoint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	exp := experiment.New(cfg, newLogger(cfg))
	if err := exp.Prepare(); err != nil {
		return err
	}

	epot, byKind, forces, err := exp.SinglePoint()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TERM\tCOUNT\tENERGY (kJ/mol)")
	for _, k := range forcefield.Kinds {
		if e, ok := byKind[k]; ok {
			fmt.Fprintf(w, "%s\t%d\t%.6f\n", k, exp.ForceField().Count(k), e)
		}
	}
	fmt.Fprintf(w, "total\t%d\t%.6f\n", exp.ForceField().Len(), epot)
	if err := w.Flush(); err != nil {
		return err
	}

	if showForces {
		fmt.Println()
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ATOM\tNAME\tFX\tFY\tFZ")
		for i, f := range forces {
			fmt.Fprintf(w, "%d\t%s\t%.6f\t%.6f\t%.6f\n", i+1, exp.System().Atoms[i].Name, f.X, f.Y, f.Z)
		}
		return w.Flush()
	}
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tATOMS\tSTEPS\tDT\tINTEG\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%gps\t%s\t%.3g\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.NAtoms,
			run.StepsTaken,
			run.Dt,
			run.Integrator,
			run.EnergyDrift,
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
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(series.Times))
	fmt.Println(viz.EnergyGraph(series, 80, 12))
	fmt.Println()
	fmt.Println(viz.SeriesGraph(series.Temperature, "temperature (K)", 80, 8))

	if pngPath != "" {
		if err := viz.SaveEnergyPlot(pngPath, meta.Name, series); err != nil {
			return err
		}
		fmt.Printf("\nsaved %s\n", pngPath)
	}
	if svgPath != "" {
		f, err := os.Create(svgPath)
		if err != nil {
			return err
		}
		if err := export.SeriesToSVG(f, series.Times, series.Total, 800, 300, "#00ccff"); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("saved %s\n", svgPath)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	if outPath == "" {
		return storage.ExportJSON(os.Stdout, *meta, series)
	}
	if err := storage.ExportJSONFile(outPath, *meta, series); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", meta.ID, outPath)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series.Times) < 2 {
		return fmt.Errorf("run %s has fewer than 2 samples", meta.ID)
	}

	fmt.Printf("run: %s (%s, %d atoms)\n\n", meta.ID, meta.Name, meta.NAtoms)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tMEAN\tSTD\tMIN\tMAX")
	for _, s := range []struct {
		name   string
		values []float64
	}{
		{"potential", series.Potential},
		{"kinetic", series.Kinetic},
		{"total", series.Total},
		{"temperature", series.Temperature},
	} {
		sum := metrics.Summarize(s.values)
		fmt.Fprintf(w, "%s\t%.6g\t%.3g\t%.6g\t%.6g\n", s.name, sum.Mean, sum.StdDev, sum.Min, sum.Max)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	spacing := series.Times[1] - series.Times[0]
	fmt.Printf("\nrelative energy drift:      %.3g\n", metrics.RelativeDrift(series.Total))
	if f := analysis.DominantFrequency(series.Potential, spacing); f > 0 {
		fmt.Printf("dominant potential frequency: %.4g 1/ps (period %.4g ps)\n", f, 1/f)
	}
	acf := analysis.Autocorrelation(series.Potential, len(series.Potential)/2)
	for lag, c := range acf {
		if c < math.Exp(-1) {
			fmt.Printf("potential decorrelation time: %.4g ps\n", float64(lag)*spacing)
			break
		}
	}
	return nil
}

func coordSeries(cmd *cobra.Command, args []string) error {
	c, err := analysis.ParseCoordinate(atomsSpec)
	if err != nil {
		return err
	}
	frames, err := trajectory.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("trajectory %s has no frames", args[0])
	}

	box, err := parseBox(boxLengths)
	if err != nil {
		return err
	}
	xs, err := analysis.Series(frames, box, c)
	if err != nil {
		return err
	}
	sum := metrics.Summarize(xs)
	fmt.Printf("%s over %d frames: mean %.6g, std %.3g, min %.6g, max %.6g\n\n",
		c, sum.N, sum.Mean, sum.StdDev, sum.Min, sum.Max)

	lo, hi := sum.Min, sum.Max+1e-12
	if len(c.Atoms) == 4 {
		lo, hi = -math.Pi, math.Pi+1e-12
	}
	hist := analysis.Histogram(xs, bins, lo, hi)
	fmt.Println(viz.SeriesGraph(hist, "distribution of "+c.String(), 60, 8))

	if vsSpec == "" {
		return nil
	}
	c2, err := analysis.ParseCoordinate(vsSpec)
	if err != nil {
		return err
	}
	ys, err := analysis.Series(frames, box, c2)
	if err != nil {
		return err
	}
	portrait := analysis.NewPortrait(xs, ys)
	fmt.Printf("\n%s vs %s\n%s", c, c2, portrait.ASCII(60, 20))
	if pngPath != "" {
		if err := viz.SavePortraitPlot(pngPath, c.String()+" vs "+c2.String(), c.String(), c2.String(), portrait); err != nil {
			return err
		}
		fmt.Printf("saved %s\n", pngPath)
	}
	return nil
}

func parseBox(lengths []float64) (geom.Box, error) {
	switch len(lengths) {
	case 0:
		return geom.Box{}, nil
	case 3:
		return geom.NewBox(lengths[0], lengths[1], lengths[2]), nil
	default:
		return geom.Box{}, fmt.Errorf("--box needs 3 lengths, got %d", len(lengths))
	}
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	exp := experiment.New(cfg, newLogger(cfg))
	if err := exp.Prepare(); err != nil {
		return err
	}
	sys := exp.System()

	pos := sys.Positions
	label := "starting coordinates"
	useTraj := cfg.Output.Trajectory != ""
	if useTraj && !cmd.Flags().Changed("traj") {
		// a config's own trajectory may not have been written yet
		_, err := os.Stat(cfg.Output.Trajectory)
		useTraj = err == nil
	}
	if useTraj {
		frames, err := trajectory.LoadFrames(cfg.Output.Trajectory)
		if err != nil {
			return err
		}
		i := frameIndex
		if i < 0 {
			i += len(frames)
		}
		if i < 0 || i >= len(frames) {
			return fmt.Errorf("frame %d out of range (%d frames)", frameIndex, len(frames))
		}
		if len(frames[i].Positions) != sys.Len() {
			return fmt.Errorf("frame %d has %d atoms, topology has %d", i, len(frames[i].Positions), sys.Len())
		}
		pos = frames[i].Positions
		label = fmt.Sprintf("frame %d (t=%g ps)", i, frames[i].Time)
	}

	wire := viz.MoleculeWireframe(pos, exp.Bonds(), sys.Box)
	cam := viz.NewCamera()
	cam.Fit(wire.Points())
	canvas := viz.NewCanvas(60, 24)
	viz.Render3D(canvas, wire, cam)

	fmt.Println(label)
	fmt.Print(canvas.String())

	if svgPath != "" {
		f, err := os.Create(svgPath)
		if err != nil {
			return err
		}
		if err := export.CanvasToSVG(f, canvas, 4, "#00ff88"); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("saved %s\n", svgPath)
	}
	return nil
}

func lyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	exp := experiment.New(cfg, newLogger(cfg))
	if err := exp.Prepare(); err != nil {
		return err
	}

	if _, err := exp.NewIntegrator(); err != nil {
		return err
	}
	newInteg := func() dynamo.Integrator {
		integ, _ := exp.NewIntegrator()
		return integ
	}

	lambda, err := analysis.LyapunovExponent(exp.Evaluator(), newInteg, exp.System(), perturb, steps, renorm)
	if err != nil {
		return err
	}
	fmt.Printf("largest Lyapunov exponent: %.6g 1/ps over %g ps\n", lambda, float64(steps)*cfg.Dt)
	return nil
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println("available presets:")
		for _, name := range config.ListPresets() {
			p := config.GetPreset(name)
			fmt.Printf("  %-12s %s, dt=%g ps, %d steps, T=%g K\n", name, p.Integrator, p.Dt, p.Steps, p.Temperature)
		}
		return nil
	}

	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	level := logLevel
	if level == "" {
		level = config.DefaultLogLevel
	}
	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(sc.Steps))
	results, runErr := automation.RunScenario(ctx, sc, filepath.Dir(args[0]), logging.New(level))

	st := storage.New(dataDir)
	if !noSave && len(results) > 0 {
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN ID\tSTEPS\tDRIFT\tMEAN T")
	for _, r := range results {
		runID := "-"
		if !noSave {
			meta := storage.NewRunMetadata(r.Name, r.Config, r.NAtoms, r.Result)
			if runID, err = st.Save(meta, r.Result); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.3g\t%.1f\n",
			r.Name, runID, r.Result.StepsTaken, r.Result.EnergyDrift, r.Result.Metrics["temperature"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sweep := &automation.ParameterSweep{
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepPoints,
	}
	results, runErr := automation.RunSweep(ctx, cfg, sweep, newLogger(cfg))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTEPS\tDRIFT\tMIN E\tMAX E\tSTABLE\n", strings.ToUpper(sweepParam))
	drifts := make([]float64, 0, len(results))
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%d\t%.3g\t%.6g\t%.6g\t%v\n",
			r.ParamValue, r.StepsTaken, r.EnergyDrift, r.MinEnergy, r.MaxEnergy, r.Stable)
		drifts = append(drifts, r.EnergyDrift)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(drifts) > 1 {
		fmt.Println()
		fmt.Println(viz.SeriesGraph(drifts, "energy drift vs "+sweepParam, 60, 8))
	}
	return runErr
}

func optimize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(gridSpecs))
	ranges := make([][]float64, 0, len(gridSpecs))
	for _, spec := range gridSpecs {
		name, values, ok := strings.Cut(spec, "=")
		if !ok {
			return fmt.Errorf("grid %q: want name=v1,v2,...", spec)
		}
		var vs []float64
		for _, f := range strings.Split(values, ",") {
			var v float64
			if _, err := fmt.Sscan(strings.TrimSpace(f), &v); err != nil {
				return fmt.Errorf("grid %q: %w", spec, err)
			}
			vs = append(vs, v)
		}
		names = append(names, name)
		ranges = append(ranges, vs)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g := optim.NewGridSearch(names, ranges)
	best, val, err := g.Search(ctx, optim.ConfigBuilder(cfg), metricName)
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.6g\n", metricName, val)
	for _, name := range names {
		fmt.Printf("  %-12s %g\n", name, best[name])
	}
	if g.Failed() > 0 {
		fmt.Printf("%d grid points failed\n", g.Failed())
	}
	return nil
}
