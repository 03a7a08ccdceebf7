package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/procsim/procsim/sim"
	"github.com/procsim/procsim/sim/experiment"
	"github.com/procsim/procsim/sim/process"
)

var (
	// Model selection
	modelPath    string // Process model file (YAML or JSON)
	exampleModel bool   // Run the embedded call-centre model instead

	// Experiment settings; flags override the --config file only when set
	configPath   string  // Experiment config file
	replications int     // Number of replications
	horizon      float64 // Simulated time per replication
	warmup       float64 // Records arriving before this time are dropped
	seed         int64   // Base seed; replication r uses seed + r
	workers      int     // Replications run concurrently

	// Output
	outputFormat string  // table, csv or yaml
	rawNames     bool    // Keep raw metric keys as row labels
	noResource   bool    // Label columns by activity only
	ciLevel      float64 // Confidence level for interval half-widths (0 = off)
	rowsOut      string  // Per-replication rows CSV path
	metricsFile  string  // Prometheus textfile path
)

// runCmd executes the replications and prints the summary
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run replications of a process model and summarise them",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := runExperiment(ctx, cmd.Flags(), cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// loadModel returns the model named by --model, or the embedded example.
func loadModel() (*process.Model, error) {
	switch {
	case exampleModel && modelPath != "":
		return nil, fmt.Errorf("--model and --example are mutually exclusive")
	case exampleModel:
		return process.CallCentre()
	case modelPath == "":
		return nil, fmt.Errorf("no process model: pass --model FILE or --example")
	}
	return process.Load(modelPath)
}

// resolveConfig starts from defaults, applies --config, then any flag the
// user actually set.
func resolveConfig(flags *pflag.FlagSet) (experiment.Config, error) {
	cfg := experiment.DefaultConfig()
	if configPath != "" {
		loaded, err := experiment.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if flags.Changed("replications") {
		cfg.Replications = replications
	}
	if flags.Changed("horizon") {
		cfg.Horizon = horizon
	}
	if flags.Changed("warmup") {
		cfg.Warmup = warmup
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	return cfg, cfg.Validate()
}

func summaryOptions() []experiment.SummaryOption {
	var opts []experiment.SummaryOption
	if rawNames {
		opts = append(opts, experiment.WithMetricLabels(map[string]string{}))
	}
	if noResource {
		opts = append(opts, experiment.WithoutResource())
	}
	return opts
}

func runExperiment(ctx context.Context, flags *pflag.FlagSet, out io.Writer) error {
	switch outputFormat {
	case "table", "csv", "yaml":
	default:
		return fmt.Errorf("unknown --format %q; valid: table, csv, yaml", outputFormat)
	}

	m, err := loadModel()
	if err != nil {
		return err
	}
	net, err := sim.Compile(m)
	if err != nil {
		return fmt.Errorf("compiling process model: %w", err)
	}
	cfg, err := resolveConfig(flags)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	runner, err := experiment.NewRunner(net, m, experiment.WithMetrics(experiment.NewMetrics(reg)))
	if err != nil {
		return err
	}
	logrus.Infof("Running %q: %d replications, horizon=%v, warmup=%v, seed=%d, run_id=%s",
		m.Name, cfg.Replications, cfg.Horizon, cfg.Warmup, cfg.Seed, runner.RunID())

	rows, err := runner.Run(ctx, cfg)
	if err != nil {
		return err
	}

	if rowsOut != "" {
		if err := writeFile(rowsOut, func(w io.Writer) error { return experiment.WriteRowsCSV(w, rows) }); err != nil {
			return err
		}
		logrus.Infof("Wrote %d replication rows to %s", len(rows), rowsOut)
	}
	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	opts := summaryOptions()
	table := experiment.Summarise(rows, opts...)
	var intervals *experiment.SummaryTable
	if ciLevel > 0 {
		if intervals, err = experiment.Intervals(rows, ciLevel, opts...); err != nil {
			return err
		}
	}

	switch outputFormat {
	case "csv":
		if err := table.WriteCSV(out); err != nil {
			return err
		}
		if intervals != nil {
			fmt.Fprintf(out, "\n# %.0f%% confidence half-widths\n", 100*ciLevel)
			return intervals.WriteCSV(out)
		}
		return nil
	case "yaml":
		if err := table.WriteYAML(out); err != nil {
			return err
		}
		if intervals != nil {
			fmt.Fprintln(out, "---")
			return intervals.WriteYAML(out)
		}
		return nil
	}
	title := fmt.Sprintf("%s: %d replications, T=%g, warmup=%g", modelTitle(m), cfg.Replications, cfg.Horizon, cfg.Warmup)
	_, err = fmt.Fprintln(out, renderSummary(title, table, intervals))
	return err
}

func modelTitle(m *process.Model) string {
	if m.Name != "" {
		return m.Name
	}
	return "process"
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func init() {
	runCmd.Flags().StringVar(&modelPath, "model", "", "Process model file (YAML or JSON)")
	runCmd.Flags().BoolVar(&exampleModel, "example", false, "Run the built-in call-centre model")
	runCmd.Flags().StringVar(&configPath, "config", "", "Experiment config file (YAML); flags override its values")

	defaults := experiment.DefaultConfig()
	runCmd.Flags().IntVarP(&replications, "replications", "r", defaults.Replications, "Number of replications")
	runCmd.Flags().Float64Var(&horizon, "horizon", defaults.Horizon, "Simulated time per replication")
	runCmd.Flags().Float64Var(&warmup, "warmup", defaults.Warmup, "Drop visits arriving before this time")
	runCmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Base seed; replication r is seeded with seed+r")
	runCmd.Flags().IntVar(&workers, "workers", defaults.Workers, "Replications to run concurrently")

	runCmd.Flags().StringVar(&outputFormat, "format", "table", "Summary format (table, csv, yaml)")
	runCmd.Flags().BoolVar(&rawNames, "raw-names", false, "Label metric rows with raw keys (mean_wait, ...)")
	runCmd.Flags().BoolVar(&noResource, "no-resource", false, "Label columns by activity name only")
	runCmd.Flags().Float64Var(&ciLevel, "ci", 0, "Also report confidence half-widths at this level, e.g. 0.95")
	runCmd.Flags().StringVar(&rowsOut, "rows-out", "", "Write per-replication rows as CSV to this file")
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
}
