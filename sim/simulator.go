package sim

import (
	"github.com/sirupsen/logrus"
)

// Tickable is an entity advanced once per simulation tick.
type Tickable interface {
	Tick(now int64)
}

var (
	_ Tickable = (*Segment)(nil)
	_ Tickable = (*Session)(nil)
)

// Config holds the construction-time topology of a simulation.
type Config struct {
	Segments        int       // number of segments (must be > 0)
	CoresPerSegment int       // cores per segment (must be > 0)
	CoreCapacity    float64   // work retired per core per tick (must be > 0)
	Curve           CurveKind // degradation applied above the core count
	SliceSpread     float64   // relative per-slice size spread (>= 0)
	SliceDelay      int64     // max scheduling delay of a slice after arrival (>= 0)
	StartTime       int64     // instant the first session arrivals are scheduled from
}

// Validate checks that the configuration describes a runnable simulation.
func (c Config) Validate() error {
	switch {
	case c.Segments <= 0:
		return configErrorf("Segments", "must be positive, got %d", c.Segments)
	case c.CoresPerSegment <= 0:
		return configErrorf("CoresPerSegment", "must be positive, got %d", c.CoresPerSegment)
	case !(c.CoreCapacity > 0):
		return configErrorf("CoreCapacity", "must be positive, got %g", c.CoreCapacity)
	case c.SliceSpread < 0:
		return configErrorf("SliceSpread", "must be non-negative, got %g", c.SliceSpread)
	case c.SliceDelay < 0:
		return configErrorf("SliceDelay", "must be non-negative, got %d", c.SliceDelay)
	}
	return nil
}

// Simulation owns the segments and sessions and advances them in lockstep.
// It is not safe for concurrent use; Tick must complete before any read.
type Simulation struct {
	config   Config
	segments []*Segment
	sessions []*Session
	labels   map[string]bool
	factory  *queryFactory
	rng      *PartitionedRNG
	ticks    int64
}

// NewSimulation builds the fixed segment set. Sessions are added with AddSession
// before the first Tick.
func NewSimulation(cfg Config, rng *PartitionedRNG) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewPartitionedRNG(NewSimulationKey(0))
	}
	curve := cfg.Curve.Func()
	segments := make([]*Segment, cfg.Segments)
	for i := range segments {
		segments[i] = newSegment(i, cfg.CoresPerSegment, cfg.CoreCapacity, curve)
	}
	s := &Simulation{
		config:   cfg,
		segments: segments,
		labels:   make(map[string]bool),
		rng:      rng,
		factory: &queryFactory{
			segments:    segments,
			ids:         &QueryIDs{},
			sliceSpread: cfg.SliceSpread,
			maxDelay:    cfg.SliceDelay,
		},
	}
	logrus.Debugf("simulation created: %d segments x %d cores @ %g, curve=%s, seed=%d",
		cfg.Segments, cfg.CoresPerSegment, cfg.CoreCapacity, cfg.Curve, rng.Key())
	return s, nil
}

// AddSession registers a session under a unique label. Adding sessions after the
// first Tick is not supported.
func (s *Simulation) AddSession(label string, params SessionParams) error {
	if label == "" {
		return configErrorf("label", "must not be empty")
	}
	if s.labels[label] {
		return configErrorf("label", "%q is already registered", label)
	}
	if err := params.validate(); err != nil {
		return err
	}
	rng := s.rng.ForSubsystem(SubsystemSession(label))
	s.sessions = append(s.sessions, newSession(label, params, s.config.StartTime, s.factory, rng))
	s.labels[label] = true
	return nil
}

// Tick advances every segment, then every session. Segments go first so that
// sessions observe completions retired in the same tick.
func (s *Simulation) Tick(now int64) {
	for _, seg := range s.segments {
		seg.Tick(now)
	}
	for _, sess := range s.sessions {
		sess.Tick(now)
	}
	s.ticks++
}

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() Config { return s.config }

// Segments returns the segments in index order. The slice must not be modified.
func (s *Simulation) Segments() []*Segment { return s.segments }

// Sessions returns the sessions in registration order. The slice must not be modified.
func (s *Simulation) Sessions() []*Session { return s.sessions }

// Ticks is the number of Tick calls so far.
func (s *Simulation) Ticks() int64 { return s.ticks }

// QueriesSubmitted is the number of queries created across all sessions.
func (s *Simulation) QueriesSubmitted() int64 { return s.factory.ids.last }
