package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gpsim/gpsim/sim"
	"github.com/gpsim/gpsim/sim/settings"
	"github.com/gpsim/gpsim/sim/trace"
)

var (
	// CLI flags for the run
	seed         int64  // Seed for arrival and slice sampling; 0 seeds from the wall clock
	configPath   string // Settings file (JSON or YAML)
	logLevel     string // Log verbosity level
	ticks        int64  // Number of ticks to run
	startTime    int64  // Simulated time of the first session schedule (ms)
	stepMs       int64  // Simulated milliseconds between ticks
	realtime     bool   // Pace ticks against the wall clock
	reportEvery  int64  // Log stats every N ticks
	snapshotPath string // Write the final snapshot as JSON ("-" for stdout)

	// CLI flags overriding the settings file
	numSegments  int     // Number of segments
	numCores     int     // Cores per segment
	coreCapacity float64 // Work units per core per tick
	curveName    string  // Degradation curve

	// CLI flags for observability
	metricsAddr string // Listen address for /metrics
	traceLevel  string // Trace verbosity
	traceLimit  int    // Most recent trace records kept
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "gpsim",
	Short: "Tick-driven simulator of query contention on a segmented database cluster",
}

// runCmd executes the simulation using parameters from the settings file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the contention simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Unknown trace level %q. Valid: none, ticks, segments", traceLevel)
		}
		if ticks <= 0 {
			logrus.Fatalf("--ticks must be > 0, got %d", ticks)
		}
		if stepMs <= 0 {
			logrus.Fatalf("--step must be > 0, got %d", stepMs)
		}

		resolved, err := loadResolved(configPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		applyOverrides(cmd, &resolved)
		resolved.Config.StartTime = startTime

		if seed == 0 {
			seed = time.Now().UnixNano()
			logrus.Infof("Seeding from wall clock: --seed %d", seed)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		r := &runner{
			resolved:    resolved,
			seed:        seed,
			ticks:       ticks,
			step:        stepMs,
			realtime:    realtime,
			reportEvery: reportEvery,
			metricsAddr: metricsAddr,
			trace:       trace.TraceConfig{Level: trace.TraceLevel(traceLevel), Limit: traceLimit},
		}
		res, err := r.run(ctx)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		if err := res.print(cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Writing results: %v", err)
		}
		if snapshotPath != "" {
			if err := writeSnapshot(snapshotPath, res.snapshot, cmd.OutOrStdout()); err != nil {
				logrus.Fatalf("Writing snapshot: %v", err)
			}
		}
		logrus.Info("Simulation complete.")
	},
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// loadResolved reads the settings file, or resolves pure defaults when path is empty.
func loadResolved(path string) (settings.Resolved, error) {
	if path == "" {
		return (&settings.Settings{}).Resolve(), nil
	}
	s, err := settings.Load(path)
	if err != nil {
		return settings.Resolved{}, err
	}
	return s.Resolve(), nil
}

// applyOverrides copies explicitly set topology flags over the settings file.
// Only flags the user changed take effect.
func applyOverrides(cmd *cobra.Command, r *settings.Resolved) {
	if cmd.Flags().Changed("segments") {
		r.Config.Segments = numSegments
	}
	if cmd.Flags().Changed("cores") {
		r.Config.CoresPerSegment = numCores
	}
	if cmd.Flags().Changed("capacity") {
		r.Config.CoreCapacity = coreCapacity
	}
	if cmd.Flags().Changed("curve") {
		kind, ok := sim.ParseCurveKind(curveName)
		if !ok {
			logrus.Fatalf("Unknown degradation curve %q. Valid: zero, linear, exponential, hardExponential", curveName)
		}
		r.Config.Curve = kind
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for arrival and slice sampling (0 seeds from the wall clock)")
	runCmd.Flags().StringVar(&configPath, "config", "", "Settings file (JSON or YAML); defaults apply to missing fields")
	runCmd.Flags().Int64Var(&ticks, "ticks", 60_000, "Number of ticks to run")
	runCmd.Flags().Int64Var(&startTime, "start", 0, "Simulated start time (ms)")
	runCmd.Flags().Int64Var(&stepMs, "step", 1, "Simulated milliseconds between ticks")
	runCmd.Flags().BoolVar(&realtime, "realtime", false, "Pace ticks against the wall clock")
	runCmd.Flags().Int64Var(&reportEvery, "report-every", 0, "Log stats at info level every N ticks (0 disables)")
	runCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Write the final session/segment snapshot as JSON (\"-\" for stdout)")

	// Topology overrides
	runCmd.Flags().IntVar(&numSegments, "segments", settings.DefaultSegments, "Number of segments (overrides settings)")
	runCmd.Flags().IntVar(&numCores, "cores", settings.DefaultCores, "Cores per segment (overrides settings)")
	runCmd.Flags().Float64Var(&coreCapacity, "capacity", settings.DefaultCoreCapacity, "Work units per core per tick (overrides settings)")
	runCmd.Flags().StringVar(&curveName, "curve", sim.CurveLinear.String(), "Degradation curve: zero, linear, exponential, hardExponential (overrides settings)")

	// Observability
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Trace level: none, ticks, segments")
	runCmd.Flags().IntVar(&traceLimit, "trace-limit", 0, "Most recent trace records kept (0 keeps all)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(curveCmd)
	rootCmd.AddCommand(settingsCmd)
}
