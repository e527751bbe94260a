package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/survlab/internal/automation"
	"github.com/san-kum/survlab/internal/config"
	"github.com/san-kum/survlab/internal/estimators"
	"github.com/san-kum/survlab/internal/logger"
	"github.com/san-kum/survlab/internal/plot"
	"github.com/san-kum/survlab/internal/storage"
	"github.com/san-kum/survlab/internal/tui"
	"github.com/san-kum/survlab/internal/viz"
	"github.com/san-kum/survlab/internal/workflow"
)

var (
	configFile string
	dataDir    string
	debug      bool
	themeName  string
	// fit / show
	strategies []string
	preset     string
	policy     string
	outFile    string
	saveRun    bool
	noColor    bool
	parallel   bool
	limit      int
	showLimit  int
	width      int
	height     int

	cfg           *config.Config
	cleanupLogger func() error
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "survlab",
		Short:             "survival analysis lab for reliability datasets",
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
		RunE:              runInteractive,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "default", "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	datasetsCmd := &cobra.Command{
		Use:   "datasets",
		Short: "list datasets",
		RunE:  listDatasets,
	}

	strategiesCmd := &cobra.Command{
		Use:   "strategies",
		Short: "list survival strategies",
		RunE:  listStrategies,
	}

	showCmd := &cobra.Command{
		Use:   "show [dataset]",
		Short: "print a dataset as a table",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showDataset,
	}
	showCmd.Flags().IntVar(&showLimit, "limit", 20, "rows to print (0 for all)")

	fitCmd := &cobra.Command{
		Use:   "fit [dataset]",
		Short: "fit strategies to a dataset and overlay the survival curves",
		Args:  cobra.MaximumNArgs(1),
		RunE:  fitDataset,
	}
	fitCmd.Flags().StringSliceVar(&strategies, "strategies", nil, "strategies in plot order")
	fitCmd.Flags().StringVar(&preset, "preset", "", "use a named strategy preset")
	fitCmd.Flags().StringVar(&policy, "policy", "", "fit failure policy (abort, skip)")
	fitCmd.Flags().StringVarP(&outFile, "out", "o", "", "write the figure to a .png or .svg file")
	fitCmd.Flags().BoolVar(&saveRun, "save", false, "save the run under the data directory")
	fitCmd.Flags().BoolVar(&noColor, "no-color", false, "plain terminal plot")
	fitCmd.Flags().BoolVar(&parallel, "parallel", false, "fit strategies concurrently")
	fitCmd.Flags().IntVar(&limit, "limit", 10, "data rows to print (0 for all)")
	fitCmd.Flags().IntVar(&width, "width", 0, "terminal plot width")
	fitCmd.Flags().IntVar(&height, "height", 0, "terminal plot height")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the curves of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVarP(&outFile, "out", "o", "", "write the figure to a .png or .svg file")
	plotCmd.Flags().BoolVar(&noColor, "no-color", false, "plain terminal plot")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and curves to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write the curves of a run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a scripted scenario of comparison cycles",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "fit one strategy selection on every dataset and rank by AIC",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringSliceVar(&strategies, "strategies", nil, "strategies to compare")
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use a named strategy preset")
	sweepCmd.Flags().BoolVar(&parallel, "parallel", false, "fit strategies concurrently")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list strategy presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSTRATEGIES\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, strings.Join(p.Strategies, ","), p.Description)
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(datasetsCmd, strategiesCmd, showCmd, fitCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, exportCSVCmd, batchCmd, sweepCmd, presetsCmd, initCmd)

	err := rootCmd.Execute()
	if cleanupLogger != nil {
		_ = cleanupLogger()
	}
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig layers defaults, the config file, SURVLAB_* variables and
// explicit flags, in that order.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
	} else {
		cfg = config.DefaultConfig()
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("theme") {
		cfg.Theme = themeName
	}
	if flags.Changed("policy") {
		cfg.FitPolicy = policy
	}
	if flags.Changed("parallel") {
		cfg.ParallelFits = parallel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	cleanupLogger, err = logger.Setup(logger.Config{Root: cfg.DataDir, Debug: debug})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	if debug {
		fmt.Fprintf(os.Stderr, "logging to %s\n", logger.Path())
	}
	logger.L().Debug("config.loaded", "command", cmd.Name(), "data_dir", cfg.DataDir, "dataset", cfg.Dataset)
	return nil
}

func newWorkflow() *workflow.Workflow {
	return workflow.New(cfg.Catalog(), cfg.Workflow())
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func chartOptions() plot.ChartOptions {
	opts := plot.DefaultChartOptions()
	opts.Width = cfg.Plot.PNGWidth
	opts.Height = cfg.Plot.PNGHeight
	opts.Theme = viz.GetTheme(cfg.Theme)
	return opts
}

func terminalOptions() plot.TerminalOptions {
	opts := plot.DefaultTerminalOptions()
	opts.Width = cfg.Plot.Width
	opts.Height = cfg.Plot.Height
	if width > 0 {
		opts.Width = width
	}
	if height > 0 {
		opts.Height = height
	}
	opts.Theme = viz.GetTheme(cfg.Theme)
	opts.Color = !noColor
	return opts
}

// selection resolves the strategy list from --preset and --strategies,
// falling back to the configured default.
func selection(cmd *cobra.Command) ([]string, error) {
	var names []string
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		names = p.Strategies
	}
	if cmd.Flags().Changed("strategies") {
		names = append(names, strategies...)
	}
	if preset == "" && !cmd.Flags().Changed("strategies") {
		names = cfg.Strategies
	}
	return names, nil
}

func datasetArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Dataset
}

func runInteractive(cmd *cobra.Command, args []string) error {
	opts := tui.Options{
		Workflow:   newWorkflow(),
		Store:      storage.New(cfg.DataDir),
		Dataset:    cfg.Dataset,
		Strategies: cfg.Strategies,
		Theme:      cfg.Theme,
		PlotWidth:  cfg.Plot.Width,
		PlotHeight: cfg.Plot.Height,
		Chart:      chartOptions(),
		FigureDir:  filepath.Join(cfg.DataDir, "figures"),
	}
	return tui.Run(opts)
}

func listDatasets(cmd *cobra.Command, args []string) error {
	cat := cfg.Catalog()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tUNITS\tFAILURES\tCENSORED\tMAX AGE\tDESCRIPTION")
	for _, d := range cat.Datasets() {
		rec, err := cat.Load(d.Name)
		if err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t%v\n", d.Name, err)
			continue
		}
		s := rec.Summary()
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.2f\t%s\n", d.Name, s.Units, s.Failures, s.Censored, s.MaxTime, d.Description)
	}
	return w.Flush()
}

func listStrategies(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tDESCRIPTION")
	for _, s := range estimators.AllStrategies() {
		kind := "non-parametric"
		if s.Parametric() {
			kind = "parametric"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", s, kind, s.Description())
	}
	return w.Flush()
}

func showDataset(cmd *cobra.Command, args []string) error {
	wf := newWorkflow()
	rec, err := wf.SelectDataset(datasetArg(args))
	if err != nil {
		return err
	}
	t := wf.RenderTable(rec)
	fmt.Printf("%s: %s\n\n", datasetArg(args), t.Summary)
	return t.Write(os.Stdout, showLimit)
}

func fitDataset(cmd *cobra.Command, args []string) error {
	names, err := selection(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	dataset := datasetArg(args)
	wf := newWorkflow()
	res, err := wf.EvaluateCycle(ctx, dataset, names)
	if err != nil {
		return err
	}

	fmt.Printf("Input data: %s (%s)\n\n", res.Dataset, res.Table.Summary)
	if err := res.Table.Write(os.Stdout, limit); err != nil {
		return err
	}
	fmt.Println()

	if res.Advisory != "" {
		fmt.Println(res.Advisory)
		return nil
	}

	graph, err := plot.Terminal(res.Figure, terminalOptions())
	if err != nil {
		return err
	}
	fmt.Println("Survival analysis")
	fmt.Println()
	fmt.Println(graph)
	fmt.Println()
	if err := writeSummary(os.Stdout, res); err != nil {
		return err
	}

	if outFile != "" {
		if err := plot.WriteFile(res.Figure, outFile, chartOptions()); err != nil {
			return err
		}
		fmt.Printf("figure written to %s\n", outFile)
	}
	if saveRun {
		st := storage.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(storage.NewMetadata(res, wf.Config()), res.Figure)
		if err != nil {
			return err
		}
		fmt.Printf("run saved: %s\n", id)
	}
	return nil
}

func writeSummary(out io.Writer, res *workflow.RenderResult) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := "STRATEGY\tPARAMETERS"
	for _, c := range res.Summary.Columns {
		header += "\t" + strings.ToUpper(c)
	}
	fmt.Fprintln(w, header)

	for _, row := range res.Summary.Rows {
		params := make([]string, len(row.Params))
		for i, p := range row.Params {
			params[i] = fmt.Sprintf("%s=%.4g", p.Name, p.Value)
		}
		line := fmt.Sprintf("%s\t%s", row.Strategy, strings.Join(params, " "))
		for _, v := range row.Values {
			line += "\t" + formatValue(v)
		}
		fmt.Fprintln(w, line)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, f := range res.Failures {
		fmt.Fprintf(out, "skipped %v\n", f)
	}
	if best, ok := res.Summary.Best("aic"); ok {
		fmt.Fprintf(out, "best by AIC: %s\n", best.Strategy)
	}
	return nil
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.3f", v)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATASET\tTIME\tUNITS\tSTRATEGIES\tPOLICY")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			run.ID,
			run.Dataset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Units,
			strings.Join(run.Strategies, ","),
			run.FitPolicy,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	fig, err := st.LoadCurves(args[0])
	if err != nil {
		return err
	}

	if outFile != "" {
		if err := plot.WriteFile(fig, outFile, chartOptions()); err != nil {
			return err
		}
		fmt.Printf("figure written to %s\n", outFile)
		return nil
	}

	graph, err := plot.Terminal(fig, terminalOptions())
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n\n%s\n", meta.Dataset, meta.ID, graph)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	fig, err := st.LoadCurves(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, fig)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	if _, err := st.Load(args[0]); err != nil {
		return err
	}
	f, err := os.Open(st.CurvesPath(args[0]))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(os.Stdout, f)
	return err
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("Scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("  %s\n", scenario.Description)
	}
	results, err := automation.RunScenario(ctx, scenario, newWorkflow(), os.Stdout, chartOptions())
	fmt.Printf("%d/%d cycles completed\n", len(results), len(scenario.Cycles))
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	names, err := selection(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, newWorkflow(), names, io.Discard)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATASET\tCURVES\tBEST\tAIC")
	for _, r := range results {
		best := r.Best.String()
		if math.IsNaN(r.AIC) {
			best = "-"
		}
		if r.Advisory != "" {
			best = r.Advisory
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", r.Dataset, r.Curves, best, formatValue(r.AIC))
	}
	return w.Flush()
}
