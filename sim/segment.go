package sim

// Quantum is the most work a single slice may retire in one round-robin visit.
const Quantum = 10.0

// SegmentStatus is the display classification of a segment's overload factor.
type SegmentStatus string

const (
	StatusFree     SegmentStatus = "FREE"
	StatusLight    SegmentStatus = "LIGHT"
	StatusModerate SegmentStatus = "MODERATE"
	StatusHeavy    SegmentStatus = "HEAVY"
	StatusCritical SegmentStatus = "CRITICAL"
)

// Segment is a resource pool of cores shared by the slices placed on it.
// Running slices consume capacity; queued slices wait for their eligible time.
type Segment struct {
	index           int
	cores           int
	perCoreCapacity float64
	curve           Curve

	queued  []*Slice
	running []*Slice
}

func newSegment(index, cores int, perCoreCapacity float64, curve Curve) *Segment {
	return &Segment{
		index:           index,
		cores:           cores,
		perCoreCapacity: perCoreCapacity,
		curve:           curve,
	}
}

func (s *Segment) enqueue(sl *Slice) {
	s.queued = append(s.queued, sl)
}

// Tick promotes eligible slices and retires as much running work as this tick's
// degraded capacity allows, in round-robin passes of at most Quantum per slice.
func (s *Segment) Tick(now int64) {
	s.promote(now)

	capacity := s.CurrentCapacity()
	for capacity > 0 && len(s.running) > 0 {
		kept := s.running[:0]
		for _, sl := range s.running {
			if capacity > 0 {
				capacity -= sl.retire(min(Quantum, capacity))
			}
			if !sl.Done() {
				kept = append(kept, sl)
			}
		}
		clear(s.running[len(kept):])
		s.running = kept
	}
}

func (s *Segment) promote(now int64) {
	waiting := s.queued[:0]
	for _, sl := range s.queued {
		if sl.eligibleTime <= now {
			s.running = append(s.running, sl)
		} else {
			waiting = append(waiting, sl)
		}
	}
	clear(s.queued[len(waiting):])
	s.queued = waiting
}

// Index is the segment's position in the simulation.
func (s *Segment) Index() int { return s.index }

func (s *Segment) Cores() int { return s.cores }

func (s *Segment) RunningCount() int { return len(s.running) }

func (s *Segment) QueuedCount() int { return len(s.queued) }

// LoadAverage is the number of running slices beyond the core count.
func (s *Segment) LoadAverage() int {
	return max(0, len(s.running)-s.cores)
}

// OverloadFactor is LoadAverage normalized by the core count.
func (s *Segment) OverloadFactor() float64 {
	return float64(s.LoadAverage()) / float64(s.cores)
}

// MaxCapacity is the work the segment retires per tick with no contention.
func (s *Segment) MaxCapacity() float64 {
	return float64(s.cores) * s.perCoreCapacity
}

// CurrentCapacity is MaxCapacity reduced by the degradation at the current overload.
func (s *Segment) CurrentCapacity() float64 {
	return s.MaxCapacity() * (1 - ClampDegradation(s.curve(s.OverloadFactor())))
}

// TotalRemainingWork sums remaining work over running slices. Queued work is excluded.
func (s *Segment) TotalRemainingWork() float64 {
	total := 0.0
	for _, sl := range s.running {
		total += sl.remaining
	}
	return total
}

// QueuedWork sums the work of slices not yet eligible to run.
func (s *Segment) QueuedWork() float64 {
	total := 0.0
	for _, sl := range s.queued {
		total += sl.remaining
	}
	return total
}

// Status classifies the overload factor into display levels.
func (s *Segment) Status() SegmentStatus {
	return StatusFor(s.OverloadFactor())
}

// StatusFor maps an overload factor to its display level.
func StatusFor(overloadFactor float64) SegmentStatus {
	switch {
	case overloadFactor <= 0:
		return StatusFree
	case overloadFactor < 3:
		return StatusLight
	case overloadFactor < 6:
		return StatusModerate
	case overloadFactor < 8:
		return StatusHeavy
	default:
		return StatusCritical
	}
}
