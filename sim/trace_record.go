package sim

import "github.com/gpsim/gpsim/sim/trace"

// RecordTrace appends the state after the tick at now to st. A nil or
// disabled trace is a no-op.
func (s *Simulation) RecordTrace(st *trace.SimulationTrace, now int64) {
	if st == nil || !st.Config.Enabled() {
		return
	}
	stats := s.Stats()
	rec := trace.TickRecord{
		Clock:              now,
		ActiveSessions:     stats.ActiveSessions,
		OverloadedSegments: stats.OverloadedSegments,
		TotalWork:          stats.TotalWork,
		QueuedWork:         stats.QueuedWork,
		TotalCapacity:      stats.TotalCapacity,
		MaxCapacity:        stats.MaxCapacity,
		QueriesSubmitted:   s.QueriesSubmitted(),
	}
	if st.Config.Level == trace.TraceLevelSegments {
		rec.Segments = make([]trace.SegmentRecord, len(s.segments))
		for i, seg := range s.segments {
			rec.Segments[i] = trace.SegmentRecord{
				Index:           seg.Index(),
				Running:         seg.RunningCount(),
				Queued:          seg.QueuedCount(),
				OverloadFactor:  seg.OverloadFactor(),
				CurrentCapacity: seg.CurrentCapacity(),
				RemainingWork:   seg.TotalRemainingWork(),
			}
		}
	}
	st.RecordTick(rec)
}
