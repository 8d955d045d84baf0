package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalTicks         int
	PeakActiveSessions int
	MeanActiveSessions float64
	PeakOverloaded     int
	MeanOverloaded     float64
	PeakTotalWork      float64
	MeanCapacityLoss   float64
	MaxCapacityLoss    float64
	FirstOverloadClock int64       // -1 if no segment was ever overloaded
	QueriesSubmitted   int64       // cumulative count at the last retained record
	OverloadedTicks    map[int]int // segment index → ticks spent overloaded
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		FirstOverloadClock: -1,
		OverloadedTicks:    make(map[int]int),
	}
	if st == nil || len(st.Ticks) == 0 {
		return summary
	}

	summary.TotalTicks = len(st.Ticks)
	var active, overloaded, loss float64
	for _, r := range st.Ticks {
		active += float64(r.ActiveSessions)
		overloaded += float64(r.OverloadedSegments)
		l := r.CapacityLoss()
		loss += l

		summary.PeakActiveSessions = max(summary.PeakActiveSessions, r.ActiveSessions)
		summary.PeakOverloaded = max(summary.PeakOverloaded, r.OverloadedSegments)
		summary.PeakTotalWork = max(summary.PeakTotalWork, r.TotalWork)
		summary.MaxCapacityLoss = max(summary.MaxCapacityLoss, l)
		if r.OverloadedSegments > 0 && summary.FirstOverloadClock < 0 {
			summary.FirstOverloadClock = r.Clock
		}
		for _, seg := range r.Segments {
			if seg.OverloadFactor > 0 {
				summary.OverloadedTicks[seg.Index]++
			}
		}
	}
	n := float64(len(st.Ticks))
	summary.MeanActiveSessions = active / n
	summary.MeanOverloaded = overloaded / n
	summary.MeanCapacityLoss = loss / n
	summary.QueriesSubmitted = st.Ticks[len(st.Ticks)-1].QueriesSubmitted

	return summary
}
