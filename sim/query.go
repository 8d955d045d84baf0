package sim

import (
	"math"
	"math/rand"
)

// QueryIDs hands out query identifiers. Each Simulation owns one, so ids are
// monotonic within a run and independent runs never interleave.
type QueryIDs struct {
	last int64
}

// Next returns the next unused id, starting at 1.
func (c *QueryIDs) Next() int64 {
	c.last++
	return c.last
}

// Query is one job submitted by a session, fanned out into one slice per segment.
type Query struct {
	id          int64
	size        float64
	arrivalTime int64
	slices      []*Slice
}

// NewQuery creates a query of nominal size and places one slice on every segment.
// Each slice's work is max(1, round(uniform(size, sliceSpread·size))) and it
// becomes eligible at arrival + uniform(0, maxDelay), drawn independently per slice.
func NewQuery(id int64, size float64, arrival int64, segments []*Segment, sliceSpread float64, maxDelay int64, rng *rand.Rand) *Query {
	q := &Query{
		id:          id,
		size:        size,
		arrivalTime: arrival,
		slices:      make([]*Slice, 0, len(segments)),
	}
	for _, seg := range segments {
		work := math.Max(1, math.Round(uniform(rng, size, sliceSpread*size)))
		delay := int64(0)
		if maxDelay > 0 {
			delay = int64(rng.Float64() * float64(maxDelay))
		}
		q.slices = append(q.slices, newSlice(q, seg, work, arrival+delay))
	}
	return q
}

func (q *Query) ID() int64          { return q.id }
func (q *Query) Size() float64      { return q.size }
func (q *Query) ArrivalTime() int64 { return q.arrivalTime }

// Slices returns the query's slices in segment order. The slice must not be modified.
func (q *Query) Slices() []*Slice { return q.slices }

// Done reports whether every slice has retired all its work.
func (q *Query) Done() bool {
	for _, s := range q.slices {
		if !s.Done() {
			return false
		}
	}
	return true
}

// RemainingWork sums the outstanding work over all slices, queued or running.
func (q *Query) RemainingWork() float64 {
	total := 0.0
	for _, s := range q.slices {
		total += s.remaining
	}
	return total
}

// uniform draws from the closed interval [mean-spread, mean+spread].
func uniform(rng *rand.Rand, mean, spread float64) float64 {
	return mean - spread + 2*spread*rng.Float64()
}
