package sim

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// SessionParams describes a session's arrival process. Sizes are in work units,
// intervals in the simulation's time unit (milliseconds).
type SessionParams struct {
	JobSizeMean    float64
	JobSizeSpread  float64
	IntervalMean   float64
	IntervalSpread float64
}

func (p SessionParams) validate() error {
	switch {
	case p.JobSizeMean < 0:
		return configErrorf("JobSizeMean", "must be non-negative, got %g", p.JobSizeMean)
	case p.JobSizeSpread < 0:
		return configErrorf("JobSizeSpread", "must be non-negative, got %g", p.JobSizeSpread)
	case p.IntervalMean < 0:
		return configErrorf("IntervalMean", "must be non-negative, got %g", p.IntervalMean)
	case p.IntervalSpread < 0:
		return configErrorf("IntervalSpread", "must be non-negative, got %g", p.IntervalSpread)
	}
	return nil
}

// queryFactory builds queries against a simulation's segments.
type queryFactory struct {
	segments    []*Segment
	ids         *QueryIDs
	sliceSpread float64
	maxDelay    int64
}

func (f *queryFactory) newQuery(size float64, now int64, rng *rand.Rand) *Query {
	return NewQuery(f.ids.Next(), size, now, f.segments, f.sliceSpread, f.maxDelay, rng)
}

// Session is a recurring workload source with at most one query in flight.
// While its query is unfinished it submits nothing; arrivals that fall due in
// that time are dropped, not queued.
type Session struct {
	label  string
	params SessionParams

	factory *queryFactory
	rng     *rand.Rand

	query       *Query
	nextArrival int64
	queryCount  int
}

func newSession(label string, params SessionParams, start int64, factory *queryFactory, rng *rand.Rand) *Session {
	s := &Session{
		label:   label,
		params:  params,
		factory: factory,
		rng:     rng,
	}
	// First arrival falls within one spread of start; negative offsets wrap forward by the mean.
	offset := uniform(rng, 0, params.IntervalSpread)
	if offset < 0 {
		offset += params.IntervalMean
	}
	s.nextArrival = start + int64(math.Max(1, math.Floor(offset)))
	return s
}

// Tick retires a finished query and, if idle and due, submits the next one.
func (s *Session) Tick(now int64) {
	if s.query != nil {
		if !s.query.Done() {
			return
		}
		s.query = nil
	}
	if now < s.nextArrival {
		return
	}

	size := math.Max(1, math.Floor(uniform(s.rng, s.params.JobSizeMean, s.params.JobSizeSpread)))
	s.query = s.factory.newQuery(size, now, s.rng)
	s.queryCount++

	interval := math.Max(1, math.Floor(uniform(s.rng, s.params.IntervalMean, s.params.IntervalSpread)))
	s.nextArrival = now + int64(interval)

	logrus.Debugf("[t=%d] session %s submitted query %d (size=%g, next=%d)",
		now, s.label, s.query.ID(), size, s.nextArrival)
}

func (s *Session) Label() string         { return s.label }
func (s *Session) Params() SessionParams { return s.params }

// Busy reports whether the session has a query in flight.
// A query that finished during this tick keeps the session busy until its next Tick.
func (s *Session) Busy() bool { return s.query != nil }

// Query returns the in-flight query, or nil when idle.
func (s *Session) Query() *Query { return s.query }

// NextArrivalTime is the earliest instant the session may submit its next query.
func (s *Session) NextArrivalTime() int64 { return s.nextArrival }

// NextArrivalIn is the time remaining until the next arrival, floored at zero.
func (s *Session) NextArrivalIn(now int64) int64 {
	return max(0, s.nextArrival-now)
}

// QueryCount is the number of queries the session has submitted.
func (s *Session) QueryCount() int { return s.queryCount }
