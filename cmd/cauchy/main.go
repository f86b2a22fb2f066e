package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	kitlog "github.com/go-kit/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/cauchy/internal/config"
	"github.com/san-kum/cauchy/internal/experiment"
	"github.com/san-kum/cauchy/internal/plot"
	"github.com/san-kum/cauchy/internal/storage"
	"github.com/san-kum/cauchy/internal/viz"
)

var (
	configFile string
	preset     string
	verbose    bool
	outputDir  string

	problem string
	solver  string
	numeric string
	step    float64
	tMax    float64
	radius  float64
	libDir  string

	noSave     bool
	chartWidth int
	image      bool
	outPath    string
	force      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "cauchy",
		Short:         "initial value problem integration with pluggable solvers",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "cauchy.yaml", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "apply a named preset over the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", config.DefaultOutputDir, "directory holding saved runs")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "solve the configured problem and save the run",
		Args:  cobra.NoArgs,
		RunE:  runSolve,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "print the result without saving it")
	runCmd.Flags().IntVar(&chartWidth, "width", 72, "chart width")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "chart a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&chartWidth, "width", 72, "chart width")
	plotCmd.Flags().BoolVar(&image, "image", false, "also render the plot image into the run directory")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a saved run as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	compareCmd := &cobra.Command{
		Use:   "compare [solver1] [solver2] ...",
		Short: "solve the configured problem with several solvers",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareSolvers,
	}
	addRunFlags(compareCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "step the configured solver in a terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	problemsCmd := &cobra.Command{
		Use:   "problems",
		Short: "list available problems",
		Args:  cobra.NoArgs,
		RunE:  listProblems,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default config file",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, compareCmd, liveCmd, problemsCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&problem, "problem", config.DefaultProblem, "problem to solve")
	cmd.Flags().StringVar(&solver, "solver", config.DefaultSolver, `solver: "euler" or a native module name`)
	cmd.Flags().StringVar(&numeric, "numeric", config.NumericF64, "f64, f32, f64_interval or f32_interval")
	cmd.Flags().Float64Var(&step, "step", config.DefaultStep, "euler step")
	cmd.Flags().Float64Var(&tMax, "t-max", config.DefaultTMax, "last time to sample")
	cmd.Flags().Float64Var(&radius, "radius", 0, "initial interval radius")
	cmd.Flags().StringVar(&libDir, "lib-dir", config.DefaultLibDir, "directory searched for native modules")
}

// loadConfig layers the config file, environment, preset and changed flags
// in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if preset != "" && !config.ApplyPreset(cfg, preset) {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.General.OutputDir = outputDir
	}
	if flags.Lookup("problem") == nil {
		return cfg, cfg.Validate()
	}
	if flags.Changed("problem") {
		cfg.General.Problem = problem
	}
	if flags.Changed("solver") {
		cfg.General.Solver = solver
	}
	if flags.Changed("numeric") {
		cfg.General.Numeric = numeric
	}
	if flags.Changed("step") {
		cfg.General.Step = step
	}
	if flags.Changed("t-max") {
		cfg.General.TMax = tMax
	}
	if flags.Changed("radius") {
		cfg.General.Radius = radius
	}
	if flags.Changed("lib-dir") {
		cfg.General.LibDir = libDir
	}
	return cfg, cfg.Validate()
}

func newLogger() kitlog.Logger {
	if !verbose {
		return kitlog.NewNopLogger()
	}
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	return kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
}

func interruptible(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt)
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger()

	ctx, stop := interruptible(cmd)
	defer stop()

	r, err := experiment.New(cfg, logger).Run(ctx)
	if err != nil {
		return err
	}
	fmt.Println(viz.Summary(r))
	fmt.Println(viz.Chart(r, chartWidth, 12))

	if noSave {
		return nil
	}
	st := storage.New(cfg.General.OutputDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(r)
	if err != nil {
		return err
	}
	path, err := plot.Save(st.Dir(id), r, plot.OptionsFrom(cfg))
	if err != nil {
		return fmt.Errorf("run %s saved without plot: %w", id, err)
	}
	logger.Log("level", "info", "subsys", "storage", "run", id, "plot", path)
	fmt.Printf("saved run %s\n", id)
	return nil
}

// openStore opens the run store of the resolved config.
func openStore(cmd *cobra.Command) (*storage.Store, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	return storage.New(cfg.General.OutputDir), cfg, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROBLEM\tTIME\tSOLVER\tNUMERIC\tSTEP\tT_MAX\tSAMPLES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%g\t%g\t%d\n",
			run.ID,
			run.Problem,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Solver,
			run.Numeric,
			run.Step,
			run.TMax,
			run.Samples,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}
	r, err := st.LoadReport(args[0])
	if err != nil {
		return err
	}
	fmt.Println(viz.Summary(r))
	fmt.Println(viz.Chart(r, chartWidth, 12))

	if !image {
		return nil
	}
	path, err := plot.Save(st.Dir(args[0]), r, plot.OptionsFrom(cfg))
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	return st.CopyCSV(args[0], os.Stdout)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	r, err := st.LoadReport(args[0])
	if err != nil {
		return err
	}
	if outPath == "" {
		return storage.WriteJSON(os.Stdout, r)
	}
	if err := storage.ExportJSON(outPath, r); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outPath)
	return nil
}

func compareSolvers(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := interruptible(cmd)
	defer stop()

	c, err := experiment.New(cfg, newLogger()).Compare(ctx, args)
	if err != nil {
		return err
	}
	fmt.Printf("%s, %s, step %g, t_max %g\n", cfg.General.Problem, cfg.General.Numeric, cfg.General.Step, cfg.General.TMax)
	fmt.Println(viz.ComparisonTable(c))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := interruptible(cmd)
	defer stop()

	l, err := experiment.New(cfg, newLogger()).Live(ctx)
	if err != nil {
		return err
	}
	defer l.Close()

	err = viz.RunLive(l, fmt.Sprintf("%s / %s", l.Problem, l.Solver), l.Labels, l.TMax)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func listProblems(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tINITIAL\tDESCRIPTION")
	for _, p := range experiment.NewRegistry().ListProblems() {
		fmt.Fprintf(w, "%s\t%d\t%v\t%s\n", p.Name, len(p.Initial), p.Initial, p.Description)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	cfg := config.DefaultConfig()
	if preset != "" && !config.ApplyPreset(cfg, preset) {
		return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
