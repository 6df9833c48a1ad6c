package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ropesim/internal/analysis"
	"github.com/san-kum/ropesim/internal/automation"
	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/experiment"
	"github.com/san-kum/ropesim/internal/export"
	"github.com/san-kum/ropesim/internal/gui"
	"github.com/san-kum/ropesim/internal/optim"
	"github.com/san-kum/ropesim/internal/storage"
	"github.com/san-kum/ropesim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	particles  int
	spacing    float64
	stiffness  float64
	restLength float64
	damping    float64
	gravity    float64
	dt         float64
	duration   float64
	solver     string
	driver     string
	kp         float64
	ki         float64
	kd         float64
	targetX    float64
	targetY    float64
	radius     float64
	speed      float64
	scale      float64

	// Analysis selection
	particle int
	axis     string

	// svg output
	outFile   string
	svgWidth  int
	svgFrame  int
	svgTracks int

	// Desktop audio
	withAudio bool

	// Sweeps
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	workers    int
	save       bool

	// Monte Carlo
	trials int
	jitter float64
	mcSeed int64

	// Tuning
	grid   []string
	metric string
)

// main registers the ropesim commands and exits with status 1 when the
// selected command fails. Without a subcommand it opens the preset menu.
func main() {
	rootCmd := &cobra.Command{
		Use:   "ropesim",
		Short: "spring chain simulation lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ropesim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addChainFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a particle's coordinates over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	addSelectFlags(plotCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	addSelectFlags(analyzeCmd)

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase portrait of one coordinate",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	addSelectFlags(phaseCmd)

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run positions to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a frame or a trajectory as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "image width; height is 3/4 of it")
	svgCmd.Flags().IntVar(&svgFrame, "frame", -1, "frame to draw; -1 for the last")
	svgCmd.Flags().IntVar(&svgTracks, "trajectory", -2, "draw this particle's trajectory instead of a frame; -1 for the free end")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation in the terminal; drag the end with the mouse",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addChainFlags(liveCmd)
	liveCmd.Flags().Float64Var(&scale, "scale", config.DefaultScale, "view zoom")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run simulation in a desktop window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addChainFlags(guiCmd)
	guiCmd.Flags().BoolVar(&withAudio, "audio", false, "play a tension hum")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "pick a preset in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [solver1] [solver2] ...",
		Short: "compare solvers on the same chain",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareSolvers,
	}
	addChainFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run the chain across a range of one parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addChainFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "stiffness", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 100, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1000, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of values")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 = all cpus)")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run the chain from randomly perturbed layouts",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addChainFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&jitter, "jitter", 0.5, "max layout perturbation per axis")
	monteCarloCmd.Flags().Int64Var(&mcSeed, "seed", 1, "random seed")
	monteCarloCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 = all cpus)")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search the parameters that minimize a metric",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addChainFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&grid, "grid", []string{"stiffness=100,500,1000", "damping=0.9,0.95,0.99"}, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metric, "metric", "max_stretch", "metric to minimize")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&save, "save", true, "save every step to the data directory")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPARTICLES\tSTIFFNESS\tDAMPING\tGRAVITY\tDRIVER")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%.0f\t%.2f\t%.1f\t%s\n",
					name, p.Particles, p.Params.Stiffness, p.Params.Damping, p.Params.Gravity, p.Driver.Kind)
			}
			return w.Flush()
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the solvers",
		Args:  cobra.NoArgs,
		RunE:  benchSolvers,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, phaseCmd, exportCmd, exportCSVCmd, exportJSONCmd,
		svgCmd, liveCmd, guiCmd, tuiCmd, compareCmd, sweepCmd, monteCarloCmd, tuneCmd, scenarioCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addChainFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVarP(&particles, "particles", "n", d.Particles, "number of particles")
	f.Float64Var(&spacing, "spacing", d.Spacing, "initial particle spacing")
	f.Float64VarP(&stiffness, "stiffness", "k", d.Params.Stiffness, "spring stiffness")
	f.Float64Var(&restLength, "rest", d.Params.RestLength, "spring rest length")
	f.Float64Var(&damping, "damping", d.Params.Damping, "velocity damping per update, in [0,1]")
	f.Float64VarP(&gravity, "gravity", "g", d.Params.Gravity, "gravity (positive is down)")
	f.Float64Var(&dt, "dt", d.Params.TimeStep, "timestep")
	f.Float64Var(&duration, "time", d.Duration, "duration")
	f.StringVar(&solver, "solver", d.Solver, "solver (gauss-seidel, jacobi)")
	f.StringVar(&driver, "driver", d.Driver.Kind, "end driver (none, orbit, pid)")
	f.Float64Var(&kp, "kp", d.Driver.Kp, "pid kp")
	f.Float64Var(&ki, "ki", d.Driver.Ki, "pid ki")
	f.Float64Var(&kd, "kd", d.Driver.Kd, "pid kd")
	f.Float64Var(&targetX, "target-x", d.Driver.TargetX, "pid target x")
	f.Float64Var(&targetY, "target-y", d.Driver.TargetY, "pid target y")
	f.Float64Var(&radius, "radius", d.Driver.Radius, "orbit radius")
	f.Float64Var(&speed, "speed", d.Driver.Speed, "orbit speed (rad/s)")
}

func addSelectFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&particle, "particle", "p", -1, "particle index; -1 for the free end")
	cmd.Flags().StringVar(&axis, "axis", "y", "coordinate (x or y)")
}

// buildConfig layers defaults, then the preset, then the config file, then
// any flag set on the command line.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
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
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("particles") {
		cfg.Particles = particles
	}
	if f.Changed("spacing") {
		cfg.Spacing = spacing
	}
	if f.Changed("stiffness") {
		cfg.Params.Stiffness = stiffness
	}
	if f.Changed("rest") {
		cfg.Params.RestLength = restLength
	}
	if f.Changed("damping") {
		cfg.Params.Damping = damping
	}
	if f.Changed("gravity") {
		cfg.Params.Gravity = gravity
	}
	if f.Changed("dt") {
		cfg.Params.TimeStep = dt
	}
	if f.Changed("time") {
		cfg.Duration = duration
	}
	if f.Changed("solver") {
		cfg.Solver = solver
	}
	if f.Changed("driver") {
		cfg.Driver.Kind = driver
	}
	if f.Changed("kp") {
		cfg.Driver.Kp = kp
	}
	if f.Changed("ki") {
		cfg.Driver.Ki = ki
	}
	if f.Changed("kd") {
		cfg.Driver.Kd = kd
	}
	if f.Changed("target-x") {
		cfg.Driver.TargetX = targetX
	}
	if f.Changed("target-y") {
		cfg.Driver.TargetY = targetY
	}
	if f.Changed("radius") {
		cfg.Driver.Radius = radius
	}
	if f.Changed("speed") {
		cfg.Driver.Speed = speed
	}
	if f.Lookup("scale") != nil && f.Changed("scale") {
		cfg.View.Scale = scale
	}

	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	fmt.Printf("running %d particle chain (%s, driver %s)...\n", cfg.Particles, cfg.Solver, cfg.Driver.Kind)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	for _, e := range result.Errors {
		fmt.Printf("warning: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
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
	fmt.Fprintln(w, "ID\tTIME\tPARTICLES\tDURATION\tDT\tSOLVER\tDRIVER")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2fs\t%.4fs\t%s\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Duration,
			run.Params.TimeStep,
			run.Solver,
			run.Driver,
		)
	}

	return w.Flush()
}

// loadSeries reads a stored run and extracts the selected coordinate.
func loadSeries(runID string) (*storage.RunMetadata, []float64, []float64, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}

	frames, times, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, nil, fmt.Errorf("no data in run %s", runID)
	}

	ax, ok := analysis.ParseAxis(axis)
	if !ok {
		return nil, nil, nil, fmt.Errorf("unknown axis %q (want x or y)", axis)
	}
	idx := particle
	if idx < 0 {
		idx = len(frames[0]) - 1
	}
	if idx >= len(frames[0]) {
		return nil, nil, nil, fmt.Errorf("particle %d out of range (chain has %d)", idx, len(frames[0]))
	}

	return meta, analysis.Series(frames, idx, ax), times, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, series, _, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d\n", meta.Particles)
	fmt.Printf("samples: %d\n\n", len(series))

	graph := asciigraph.Plot(series,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s of particle %s vs time", axis, particleLabel())),
	)
	fmt.Println(graph)
	fmt.Println()

	return nil
}

func particleLabel() string {
	if particle < 0 {
		return "end"
	}
	return strconv.Itoa(particle)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, series, times, err := loadSeries(args[0])
	if err != nil {
		return err
	}
	if len(times) < 2 {
		return fmt.Errorf("need at least two samples")
	}
	sampleDt := times[1] - times[0]

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("signal: %s of particle %s\n\n", axis, particleLabel())

	spectrum := analysis.Spectrum(series)
	plotData := spectrum
	if len(plotData) > 8 {
		plotData = plotData[:len(plotData)/4]
	}

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("magnitude spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(series, sampleDt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	if p := analysis.Period(series, times); p > 0 {
		fmt.Printf("crossing period: %.3f s\n", p)
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, series, times, err := loadSeries(args[0])
	if err != nil {
		return err
	}
	if len(times) < 2 {
		return fmt.Errorf("need at least two samples")
	}

	fmt.Printf("phase portrait: %s\n", meta.ID)
	fmt.Printf("x-axis: %s, y-axis: d%s/dt\n\n", axis, axis)
	fmt.Print(analysis.NewPhasePortrait(series, times[1]-times[0]).ASCII(70, 20))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, times, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time"}
	for i := range frames[0] {
		header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, frame := range frames {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, p := range frame {
			row = append(row, strconv.FormatFloat(p.X, 'f', 6, 64), strconv.FormatFloat(p.Y, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

// storedRun rebuilds the config and result of a saved run.
func storedRun(runID string) (*config.Config, *dynamo.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	frames, times, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}

	cfg := config.DefaultConfig()
	cfg.Particles = meta.Particles
	cfg.Solver = meta.Solver
	cfg.Driver.Kind = meta.Driver
	cfg.Params = meta.Params
	cfg.Duration = meta.Duration

	return cfg, &dynamo.Result{
		Frames:     frames,
		Times:      times,
		Metrics:    meta.Metrics,
		StepsTaken: meta.Steps,
	}, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	cfg, result, err := storedRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSONStdout(cfg, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, result, err := storedRun(args[0])
	if err != nil {
		return err
	}
	if len(result.Frames) == 0 {
		return fmt.Errorf("no frames to draw")
	}

	w, h := svgWidth, svgWidth*3/4
	var svg string
	if svgTracks >= -1 {
		idx := svgTracks
		if idx < 0 {
			idx = len(result.Frames[0]) - 1
		}
		svg = export.TrajectoryToSVG(export.Trajectory(result.Frames, idx), w, h, "#00ffff")
	} else {
		n := svgFrame
		if n < 0 || n >= len(result.Frames) {
			n = len(result.Frames) - 1
		}
		svg = export.ChainToSVG(result.Frames[n], w, h)
	}
	if svg == "" {
		return fmt.Errorf("nothing to draw")
	}

	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	return os.WriteFile(outFile, []byte(svg), 0644)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	return viz.RunLive(cfg, liveName())
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	return gui.Run(cfg, liveName(), gui.Options{Audio: withAudio})
}

func liveName() string {
	if preset != "" {
		return preset
	}
	return "rope"
}

func compareSolvers(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("comparing solvers on %d particles (dt=%.4f, duration=%.1fs)\n\n", base.Particles, base.Params.TimeStep, base.Duration)
	fmt.Printf("%-14s  %-12s  %-12s  %-12s  %-12s\n", "solver", "end_y", "max_stretch", "energy_drift", "time_ms")
	fmt.Println(strings.Repeat("-", 72))

	registry := experiment.NewRegistry()
	for _, name := range args {
		cfg := base.Clone()
		cfg.Solver = name

		exp := experiment.New(cfg)
		if err := exp.Setup(registry); err != nil {
			fmt.Printf("%-14s  error: %v\n", name, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-14s  error: %v\n", name, err)
			continue
		}

		if len(result.Frames) == 0 {
			fmt.Printf("%-14s  no frames recorded\n", name)
			continue
		}
		last := result.Frames[len(result.Frames)-1]
		fmt.Printf("%-14s  %12.3f  %12.3f  %12.2e  %12.2f\n", name, last[len(last)-1].Y,
			result.Metrics["max_stretch"], result.EnergyDrift, float64(elapsed.Microseconds())/1000)
	}

	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(context.Background(), &automation.ParameterSweep{
		Base:      base,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Workers:   workers,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tEND_X\tEND_Y\tMAX_STRETCH\tENERGY\tSTABLE\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.2f\t%.2f\t%.3f\t%.3g\t%v\n",
			r.ParamValue, r.FinalEnd.X, r.FinalEnd.Y, r.Metrics["max_stretch"], r.Metrics["energy"], r.Stable)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("running %d trials (jitter %.2f)...\n", trials, jitter)
	results, err := automation.RunMonteCarlo(context.Background(), &automation.MonteCarloConfig{
		Base:         base,
		Perturbation: jitter,
		NumTrials:    trials,
		Seed:         mcSeed,
		Workers:      workers,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tEND_X\tEND_Y\tMAX_STRETCH\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%.3f\t%v\n",
			r.TrialID, r.FinalEnd.X, r.FinalEnd.Y, r.Metrics["max_stretch"], r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d, unstable: %d\n", stable, unstable)
	return nil
}

// parseGrid reads name=v1,v2,... entries.
func parseGrid(entries []string) ([]string, [][]float64, error) {
	var names []string
	var ranges [][]float64
	for _, e := range entries {
		name, list, ok := strings.Cut(e, "=")
		if !ok {
			return nil, nil, fmt.Errorf("invalid grid entry %q (want name=v1,v2)", e)
		}
		var vals []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %s: %w", name, err)
			}
			vals = append(vals, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}
	search, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	fmt.Printf("searching %d combinations for lowest %s...\n", search.Size(), metric)
	start := time.Now()
	best, err := search.Search(context.Background(), base, experiment.NewRegistry(), metric)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("best %s: %.6f\n", metric, best.Score)
	for _, name := range names {
		fmt.Printf("  %s: %g\n", name, best.Params[name])
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	var st *storage.Store
	if save {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}

	results, err := automation.RunScenario(context.Background(), scenario, experiment.NewRegistry(), st)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tRUN\tSTEPS\tMAX_STRETCH\tSTABILITY")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.3f\t%.3f\n",
			i+1, r.RunID, r.Result.StepsTaken, r.Result.Metrics["max_stretch"], r.Result.Metrics["stability"])
	}
	return w.Flush()
}

func benchSolvers(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	sizes := []int{20, 100, 500}
	durations := []float64{1.0, 10.0}

	fmt.Println("benchmarking solvers")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOLVER\tPARTICLES\tDURATION\tSTEPS\tTIME\tSTEPS/SEC")

	for _, name := range registry.ListSolvers() {
		for _, n := range sizes {
			for _, dur := range durations {
				cfg := config.DefaultConfig()
				cfg.Solver = name
				cfg.Particles = n
				cfg.Duration = dur

				exp := experiment.New(cfg)
				if err := exp.Setup(registry); err != nil {
					return err
				}

				start := time.Now()
				result, err := exp.Run(context.Background())
				if err != nil {
					return err
				}
				elapsed := time.Since(start)

				stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
				fmt.Fprintf(w, "%s\t%d\t%.1fs\t%d\t%v\t%.0f\n",
					name, n, dur, result.StepsTaken, elapsed, stepsPerSec)
			}
		}
	}

	return w.Flush()
}
