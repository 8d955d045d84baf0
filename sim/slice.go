package sim

import "fmt"

// Slice is the portion of a query's work assigned to one segment.
// It is created queued on its segment and promoted to running at EligibleTime.
type Slice struct {
	query        *Query
	segment      *Segment
	totalWork    float64
	remaining    float64
	eligibleTime int64
}

// newSlice creates the slice and appends it to the segment's queued set.
func newSlice(q *Query, seg *Segment, work float64, eligible int64) *Slice {
	s := &Slice{
		query:        q,
		segment:      seg,
		totalWork:    work,
		remaining:    work,
		eligibleTime: eligible,
	}
	seg.enqueue(s)
	return s
}

func (s *Slice) Query() *Query          { return s.query }
func (s *Slice) Segment() *Segment      { return s.segment }
func (s *Slice) TotalWork() float64     { return s.totalWork }
func (s *Slice) RemainingWork() float64 { return s.remaining }
func (s *Slice) EligibleTime() int64    { return s.eligibleTime }

// Done reports whether all of the slice's work has been retired.
func (s *Slice) Done() bool {
	return s.remaining <= 0
}

// retire deducts up to amount from the remaining work and returns what was taken.
func (s *Slice) retire(amount float64) float64 {
	q := min(amount, s.remaining)
	s.remaining -= q
	return q
}

func (s *Slice) String() string {
	return fmt.Sprintf("S-%d %g/%g", s.query.ID(), s.remaining, s.totalWork)
}
