package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/docker/go-units"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/gpsim/gpsim/sim"
	"github.com/gpsim/gpsim/sim/metrics"
	"github.com/gpsim/gpsim/sim/settings"
	"github.com/gpsim/gpsim/sim/trace"
)

// runner drives a simulation for a fixed number of ticks.
type runner struct {
	resolved    settings.Resolved
	seed        int64
	ticks       int64
	step        int64
	realtime    bool
	reportEvery int64
	metricsAddr string
	trace       trace.TraceConfig
}

// runResult is what a finished (or interrupted) run reports.
type runResult struct {
	id          uuid.UUID
	seed        int64
	ticks       int64
	now         int64
	queries     int64
	interrupted bool
	elapsed     time.Duration
	stats       sim.Stats
	snapshot    sim.Snapshot
	summary     *trace.TraceSummary // nil when tracing is off
	curve       sim.CurveKind
}

func (r *runner) run(ctx context.Context) (*runResult, error) {
	s, err := r.resolved.Build(sim.NewPartitionedRNG(sim.NewSimulationKey(r.seed)))
	if err != nil {
		return nil, err
	}
	cfg := s.Config()
	res := &runResult{id: uuid.New(), seed: r.seed, curve: cfg.Curve}
	logrus.Infof("Starting simulation %s: %d segments x %d cores, capacity=%g, curve=%s, sessions=%d, seed=%d",
		res.id, cfg.Segments, cfg.CoresPerSegment, cfg.CoreCapacity, cfg.Curve, len(s.Sessions()), r.seed)

	var st *trace.SimulationTrace
	if r.trace.Enabled() {
		st = trace.NewSimulationTrace(r.trace)
	}

	var collector *metrics.Collector
	if r.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		if collector, err = metrics.NewCollector(reg); err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
		serveCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := metrics.Serve(serveCtx, r.metricsAddr, reg); err != nil {
				logrus.Errorf("metrics server: %v", err)
			}
		}()
	}

	var pace <-chan time.Time
	if r.realtime {
		ticker := time.NewTicker(time.Duration(r.step) * time.Millisecond)
		defer ticker.Stop()
		pace = ticker.C
	}

	wallStart := time.Now()
	now := cfg.StartTime
loop:
	for i := int64(0); i < r.ticks; i++ {
		if pace != nil {
			select {
			case <-ctx.Done():
				res.interrupted = true
				break loop
			case <-pace:
			}
		} else if ctx.Err() != nil {
			res.interrupted = true
			break
		}

		now += r.step
		s.Tick(now)
		s.RecordTrace(st, now)
		if collector != nil {
			collector.Observe(s, now)
		}
		if r.reportEvery > 0 && (i+1)%r.reportEvery == 0 {
			stats := s.Stats()
			logrus.Infof("t=%d active=%d/%d overloaded=%d/%d work=%.0f capacity=%.0f/%.0f",
				now, stats.ActiveSessions, stats.TotalSessions, stats.OverloadedSegments, stats.TotalSegments,
				stats.TotalWork, stats.TotalCapacity, stats.MaxCapacity)
		}
	}
	if res.interrupted {
		logrus.Warnf("Interrupted after %d ticks", s.Ticks())
	}

	res.ticks = s.Ticks()
	res.now = now
	res.queries = s.QueriesSubmitted()
	res.elapsed = time.Since(wallStart)
	res.stats = s.Stats()
	res.snapshot = s.Snapshot(now)
	if st != nil {
		res.summary = trace.Summarize(st)
	}
	return res, nil
}

// print writes the human-readable run report.
func (res *runResult) print(w io.Writer) error {
	st := res.stats
	lines := []string{
		"=== Simulation Stats ===",
		fmt.Sprintf("Run ID               : %s", res.id),
		fmt.Sprintf("Seed                 : %d", res.seed),
		fmt.Sprintf("Degradation Curve    : %s", res.curve),
		fmt.Sprintf("Ticks                : %d", res.ticks),
		fmt.Sprintf("Simulated Time       : %d ms (%s)", res.now, units.HumanDuration(time.Duration(res.now)*time.Millisecond)),
		fmt.Sprintf("Wall Time            : %s", res.elapsed.Round(time.Millisecond)),
		fmt.Sprintf("Queries Submitted    : %d", res.queries),
		fmt.Sprintf("Active Sessions      : %d / %d", st.ActiveSessions, st.TotalSessions),
		fmt.Sprintf("Overloaded Segments  : %d / %d", st.OverloadedSegments, st.TotalSegments),
		fmt.Sprintf("Total Work           : %.2f", st.TotalWork),
		fmt.Sprintf("Queued Work          : %.2f", st.QueuedWork),
		fmt.Sprintf("Capacity             : %.2f / %.2f", st.TotalCapacity, st.MaxCapacity),
	}
	if res.interrupted {
		lines = append(lines, "Interrupted          : true")
	}
	if sum := res.summary; sum != nil {
		lines = append(lines,
			"=== Trace Summary ===",
			fmt.Sprintf("Recorded Ticks       : %d", sum.TotalTicks),
			fmt.Sprintf("Peak Active Sessions : %d (mean %.2f)", sum.PeakActiveSessions, sum.MeanActiveSessions),
			fmt.Sprintf("Peak Overloaded      : %d (mean %.2f)", sum.PeakOverloaded, sum.MeanOverloaded),
			fmt.Sprintf("Peak Total Work      : %.2f", sum.PeakTotalWork),
			fmt.Sprintf("Capacity Loss        : max %.4f, mean %.4f", sum.MaxCapacityLoss, sum.MeanCapacityLoss),
			fmt.Sprintf("First Overload At    : %d", sum.FirstOverloadClock),
		)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// writeSnapshot writes snap as indented JSON to path, or to stdout for "-".
func writeSnapshot(path string, snap sim.Snapshot, stdout io.Writer) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "-" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
