// Package trace records per-tick observations of a simulation for offline
// analysis. It stores plain data and does not import sim.
package trace

// TickRecord captures the aggregate state of the simulation after one tick.
type TickRecord struct {
	Clock              int64   `json:"clock"`
	ActiveSessions     int     `json:"activeSessions"`
	OverloadedSegments int     `json:"overloadedSegments"`
	TotalWork          float64 `json:"totalWork"`
	QueuedWork         float64 `json:"queuedWork"`
	TotalCapacity      float64 `json:"totalCapacity"`
	MaxCapacity        float64 `json:"maxCapacity"`
	QueriesSubmitted   int64   `json:"queriesSubmitted"`

	// Segments is populated only at TraceLevelSegments.
	Segments []SegmentRecord `json:"segments,omitempty"`
}

// CapacityLoss is the fraction of nominal capacity lost to contention.
func (r TickRecord) CapacityLoss() float64 {
	if r.MaxCapacity <= 0 {
		return 0
	}
	return 1 - r.TotalCapacity/r.MaxCapacity
}

// SegmentRecord captures one segment's load after a tick.
type SegmentRecord struct {
	Index           int     `json:"index"`
	Running         int     `json:"running"`
	Queued          int     `json:"queued"`
	OverloadFactor  float64 `json:"overloadFactor"`
	CurrentCapacity float64 `json:"currentCapacity"`
	RemainingWork   float64 `json:"remainingWork"`
}
