// Package metrics exposes simulation state as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/gpsim/gpsim/sim"
	"github.com/gpsim/gpsim/sim/settings"
)

const namespace = "gpsim"

// otherGroup labels sessions outside the service/etl/adhoc naming convention.
const otherGroup = "other"

// Collector mirrors a simulation into Prometheus gauges and counters.
type Collector struct {
	// per-segment
	overloadFactor *prometheus.GaugeVec
	capacity       *prometheus.GaugeVec
	remainingWork  *prometheus.GaugeVec
	slices         *prometheus.GaugeVec

	// aggregate
	activeSessions     *prometheus.GaugeVec
	overloadedSegments prometheus.Gauge
	totalWork          prometheus.Gauge
	capacityLoss       prometheus.Gauge
	clock              prometheus.Gauge
	queriesSubmitted   prometheus.Counter
	ticks              prometheus.Counter

	mu            sync.Mutex
	lastSubmitted int64
	lastTicks     int64
}

// NewCollector creates a collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	segment := []string{"segment"}
	c := &Collector{
		overloadFactor: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "segment_overload_factor",
			Help:      "Running slices in excess of cores, divided by cores",
		}, segment),
		capacity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "segment_capacity",
			Help:      "Work units the segment can retire per tick after degradation",
		}, segment),
		remainingWork: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "segment_remaining_work",
			Help:      "Remaining work of running slices on the segment",
		}, segment),
		slices: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "segment_slices",
			Help:      "Slices on the segment by state",
		}, []string{"segment", "state"}),
		activeSessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions with an outstanding query, by group",
		}, []string{"group"}),
		overloadedSegments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "overloaded_segments",
			Help:      "Segments running more slices than cores",
		}),
		totalWork: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_remaining_work",
			Help:      "Remaining work of running slices across all segments",
		}),
		capacityLoss: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "capacity_loss_ratio",
			Help:      "Fraction of nominal capacity lost to contention",
		}),
		clock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "clock_milliseconds",
			Help:      "Simulated time of the last observed tick",
		}),
		queriesSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_submitted_total",
			Help:      "Queries submitted by all sessions",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Simulation ticks executed",
		}),
	}

	for _, col := range []prometheus.Collector{
		c.overloadFactor, c.capacity, c.remainingWork, c.slices,
		c.activeSessions, c.overloadedSegments, c.totalWork, c.capacityLoss,
		c.clock, c.queriesSubmitted, c.ticks,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Observe copies the current state of s into the collector. now is the
// instant of the tick that was just executed.
func (c *Collector) Observe(s *sim.Simulation, now int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, seg := range s.Segments() {
		label := strconv.Itoa(seg.Index() + 1)
		c.overloadFactor.WithLabelValues(label).Set(seg.OverloadFactor())
		c.capacity.WithLabelValues(label).Set(seg.CurrentCapacity())
		c.remainingWork.WithLabelValues(label).Set(seg.TotalRemainingWork())
		c.slices.WithLabelValues(label, "running").Set(float64(seg.RunningCount()))
		c.slices.WithLabelValues(label, "queued").Set(float64(seg.QueuedCount()))
	}

	active := map[string]int{
		settings.GroupService: 0,
		settings.GroupETL:     0,
		settings.GroupAdhoc:   0,
	}
	for _, sess := range s.Sessions() {
		group := settings.GroupOf(sess.Label())
		if group == "" {
			group = otherGroup
		}
		if sess.Busy() {
			active[group]++
		} else if _, ok := active[group]; !ok {
			active[group] = 0
		}
	}
	for group, n := range active {
		c.activeSessions.WithLabelValues(group).Set(float64(n))
	}

	stats := s.Stats()
	c.overloadedSegments.Set(float64(stats.OverloadedSegments))
	c.totalWork.Set(stats.TotalWork)
	if stats.MaxCapacity > 0 {
		c.capacityLoss.Set(1 - stats.TotalCapacity/stats.MaxCapacity)
	}
	c.clock.Set(float64(now))

	if submitted := s.QueriesSubmitted(); submitted > c.lastSubmitted {
		c.queriesSubmitted.Add(float64(submitted - c.lastSubmitted))
		c.lastSubmitted = submitted
	}
	if ticks := s.Ticks(); ticks > c.lastTicks {
		c.ticks.Add(float64(ticks - c.lastTicks))
		c.lastTicks = ticks
	}
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() {
		logrus.Infof("serving metrics on %s/metrics", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
