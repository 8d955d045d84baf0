package sim

// Stats aggregates the simulation state shown in the summary bar.
type Stats struct {
	ActiveSessions     int     `json:"activeSessions"`
	TotalSessions      int     `json:"totalSessions"`
	OverloadedSegments int     `json:"overloadedSegments"`
	TotalSegments      int     `json:"totalSegments"`
	TotalWork          float64 `json:"totalWork"`
	QueuedWork         float64 `json:"queuedWork"`
	TotalCapacity      float64 `json:"totalCapacity"`
	MaxCapacity        float64 `json:"maxCapacity"`
}

// Stats computes the aggregate counters over all segments and sessions.
// TotalWork counts running work only, matching Segment.TotalRemainingWork.
func (s *Simulation) Stats() Stats {
	st := Stats{
		TotalSessions: len(s.sessions),
		TotalSegments: len(s.segments),
	}
	for _, sess := range s.sessions {
		if sess.Busy() {
			st.ActiveSessions++
		}
	}
	for _, seg := range s.segments {
		if seg.OverloadFactor() > 0 {
			st.OverloadedSegments++
		}
		st.TotalWork += seg.TotalRemainingWork()
		st.QueuedWork += seg.QueuedWork()
		st.TotalCapacity += seg.CurrentCapacity()
		st.MaxCapacity += seg.MaxCapacity()
	}
	return st
}

// SessionSnapshot is the exported view of one session.
type SessionSnapshot struct {
	Name          string   `json:"name"`
	Active        bool     `json:"active"`
	QuerySize     *float64 `json:"querySize"`
	NextArrivalIn int64    `json:"nextArrivalIn"`
	QueryCount    int      `json:"queryCount"`
}

// SegmentSnapshot is the exported view of one segment. Number is 1-based.
type SegmentSnapshot struct {
	Number          int           `json:"number"`
	Status          SegmentStatus `json:"status"`
	LoadAverage     int           `json:"loadAverage"`
	OverloadFactor  float64       `json:"overloadFactor"`
	CurrentCapacity float64       `json:"currentCapacity"`
	MaxCapacity     float64       `json:"maxCapacity"`
	TotalWork       float64       `json:"totalWork"`
	RunningSlices   int           `json:"runningSlices"`
	FutureSlices    int           `json:"futureSlices"`
}

// Snapshot is a point-in-time export of the whole simulation.
type Snapshot struct {
	Now         int64             `json:"now"`
	RunningTime int64             `json:"runningTime"` // simulated ms since StartTime
	Stats       Stats             `json:"stats"`
	Sessions    []SessionSnapshot `json:"sessions"`
	Segments    []SegmentSnapshot `json:"segments"`
}

// Snapshot captures the read surface at instant now.
func (s *Simulation) Snapshot(now int64) Snapshot {
	snap := Snapshot{
		Now:         now,
		RunningTime: now - s.config.StartTime,
		Stats:       s.Stats(),
		Sessions:    make([]SessionSnapshot, 0, len(s.sessions)),
		Segments:    make([]SegmentSnapshot, 0, len(s.segments)),
	}
	for _, sess := range s.sessions {
		row := SessionSnapshot{
			Name:          sess.Label(),
			Active:        sess.Busy(),
			NextArrivalIn: sess.NextArrivalIn(now),
			QueryCount:    sess.QueryCount(),
		}
		if q := sess.Query(); q != nil {
			size := q.Size()
			row.QuerySize = &size
		}
		snap.Sessions = append(snap.Sessions, row)
	}
	for _, seg := range s.segments {
		snap.Segments = append(snap.Segments, SegmentSnapshot{
			Number:          seg.Index() + 1,
			Status:          seg.Status(),
			LoadAverage:     seg.LoadAverage(),
			OverloadFactor:  seg.OverloadFactor(),
			CurrentCapacity: seg.CurrentCapacity(),
			MaxCapacity:     seg.MaxCapacity(),
			TotalWork:       seg.TotalRemainingWork(),
			RunningSlices:   seg.RunningCount(),
			FutureSlices:    seg.QueuedCount(),
		})
	}
	return snap
}
