package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/san-kum/odelab/internal/config"
	"github.com/san-kum/odelab/internal/driver"
	"github.com/san-kum/odelab/internal/models"
	"github.com/san-kum/odelab/internal/ode"
	"github.com/san-kum/odelab/internal/store"
	"github.com/san-kum/odelab/internal/tableau"
	"github.com/san-kum/odelab/internal/viz"
)

var (
	dataDir    string
	method     string
	t0, t1     float64
	dt         float64
	maxDt      float64
	absTol     float64
	relTol     float64
	maxSteps   int
	initState  []float64
	configFile string
	preset     string
	showPlot   bool
	saveRun    bool
	component  int
	verbose    bool
)

var logger *slog.Logger

func main() {
	rootCmd := &cobra.Command{
		Use:   "odelab",
		Short: "explicit Runge-Kutta integration lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
				Level:      level,
				TimeFormat: time.Kitchen,
			}))
			slog.SetDefault(logger)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".odelab", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "integrate a model over a time span",
		Args:  cobra.ExactArgs(1),
		RunE:  runIntegration,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "plot the trajectory")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "save the run to the data directory")

	methodsCmd := &cobra.Command{
		Use:   "methods",
		Short: "list available Runge-Kutta methods",
		RunE:  listMethods,
	}

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "integrate with a live terminal view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&component, "component", 0, "state component to plot")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [model] [method1] [method2] ...",
		Short: "compare methods on the same problem",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareMethods,
	}
	addRunFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, methodsCmd, liveCmd, listCmd, plotCmd, exportCmd, compareCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&method, "method", "dopri", "Runge-Kutta method")
	cmd.Flags().Float64Var(&t0, "t0", 0.0, "start time")
	cmd.Flags().Float64Var(&t1, "t1", 1.0, "end time")
	cmd.Flags().Float64Var(&dt, "dt", 0.0, "initial step size (0 = automatic)")
	cmd.Flags().Float64Var(&maxDt, "max-dt", 0.0, "maximum step size (0 = unbounded)")
	cmd.Flags().Float64Var(&absTol, "atol", 1e-7, "absolute tolerance")
	cmd.Flags().Float64Var(&relTol, "rtol", 1e-7, "relative tolerance")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step budget (0 = default)")
	cmd.Flags().Float64SliceVar(&initState, "u0", nil, "initial state (default: model's)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig merges preset, config file and flags into one run config.
func resolveConfig(model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = model

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		cfg.Model = model
	}
	if preset == "" && configFile == "" {
		cfg.Method = method
		cfg.T0 = t0
		cfg.T1 = t1
		cfg.Dt = dt
		cfg.MaxDt = maxDt
		cfg.AbsTol = absTol
		cfg.RelTol = relTol
		cfg.MaxSteps = maxSteps
		cfg.InitState = initState
	}
	return cfg, nil
}

func buildRun(cfg *config.Config) (*driver.Driver, *ode.Problem, *tableau.Tableau, error) {
	model, err := models.ByName(cfg.Model)
	if err != nil {
		return nil, nil, nil, err
	}
	tab, err := tableau.ByName(cfg.Method)
	if err != nil {
		return nil, nil, nil, err
	}

	u0 := ode.State(cfg.InitState)
	if len(u0) == 0 {
		u0 = model.InitState()
	}
	prob, err := ode.NewProblem(model.RHS, []float64{cfg.T0, cfg.T1}, u0)
	if err != nil {
		return nil, nil, nil, err
	}

	dcfg := driver.DefaultConfig()
	dcfg.InitialDt = cfg.Dt
	dcfg.MaxDt = cfg.MaxDt
	dcfg.AbsTol = cfg.AbsTol
	dcfg.RelTol = cfg.RelTol
	if cfg.MaxSteps > 0 {
		dcfg.MaxSteps = cfg.MaxSteps
	}
	dcfg.SaveTrajectory = true

	return driver.New(tab, dcfg), prob, tab, nil
}

func runIntegration(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args[0])
	if err != nil {
		return err
	}
	drv, prob, tab, err := buildRun(cfg)
	if err != nil {
		return err
	}

	logger.Info("starting integration",
		"model", cfg.Model, "method", tab.Name,
		"t0", prob.T0, "t1", prob.T1,
		"adaptive", tab.IsAdaptive())

	start := time.Now()
	sol, err := drv.Solve(context.Background(), prob)
	if err != nil {
		logger.Error("integration failed", "err", err)
		return err
	}
	elapsed := time.Since(start)

	logger.Info("integration complete",
		"t", sol.T,
		"accepted", sol.Stats.Accepted,
		"rejected", sol.Stats.Rejected,
		"evaluations", sol.Stats.Evaluations,
		"elapsed", elapsed)

	fmt.Printf("final state at t=%g:\n", sol.T)
	for i, v := range sol.U {
		fmt.Printf("  u[%d] = %.12g\n", i, v)
	}

	if showPlot {
		us := make([][]float64, len(sol.Us))
		for i, u := range sol.Us {
			us[i] = u
		}
		graph, err := viz.Plot(sol.Ts, us, 0, fmt.Sprintf("%s (%s)", cfg.Model, tab.Name))
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(graph)
	}

	if saveRun {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg.Model, tab.Name, prob.T0, prob.T1, cfg.AbsTol, cfg.RelTol, sol)
		if err != nil {
			return err
		}
		logger.Info("run saved", "id", runID)
	}
	return nil
}

func listMethods(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTAGES\tORDER\tADAPTIVE\tFSAL")
	for _, name := range tableau.Names() {
		tab, err := tableau.ByName(name)
		if err != nil {
			return err
		}
		order := make([]string, len(tab.Order))
		for i, o := range tab.Order {
			order[i] = fmt.Sprintf("%d", o)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%v\t%v\n",
			tab.Name, tab.Stages(), strings.Join(order, ","), tab.IsAdaptive(), tab.IsFSAL())
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args[0])
	if err != nil {
		return err
	}
	drv, prob, tab, err := buildRun(cfg)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("%s / %s", cfg.Model, tab.Name)
	return viz.RunLive(title, drv, prob)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no saved runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tMETHOD\tSPAN\tACCEPTED\tREJECTED\tEVALS")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t[%g, %g]\t%d\t%d\t%d\n",
			r.ID, r.Model, r.Method, r.T0, r.T1, r.Accepted, r.Rejected, r.Evaluations)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	ts, us, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	graph, err := viz.Plot(ts, us, component, args[0])
	if err != nil {
		return err
	}
	fmt.Println(graph)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func compareMethods(cmd *cobra.Command, args []string) error {
	modelName := args[0]

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tACCEPTED\tREJECTED\tEVALS\tFINAL u[0]")

	for _, name := range args[1:] {
		cfg, err := resolveConfig(modelName)
		if err != nil {
			return err
		}
		cfg.Method = name
		drv, prob, _, err := buildRun(cfg)
		if err != nil {
			return err
		}
		sol, err := drv.Solve(context.Background(), prob)
		if err != nil {
			logger.Warn("method failed", "method", name, "err", err)
			fmt.Fprintf(w, "%s\t-\t-\t-\t%v\n", name, err)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.12g\n",
			name, sol.Stats.Accepted, sol.Stats.Rejected, sol.Stats.Evaluations, sol.U[0])
	}
	return w.Flush()
}
