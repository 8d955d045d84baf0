package trace

import (
	"math"
	"testing"
)

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelTicks})

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero and no overload was seen
	if summary.TotalTicks != 0 {
		t.Errorf("expected 0 ticks, got %d", summary.TotalTicks)
	}
	if summary.PeakActiveSessions != 0 || summary.MeanActiveSessions != 0 {
		t.Error("expected zero session statistics")
	}
	if summary.FirstOverloadClock != -1 {
		t.Errorf("expected first overload -1, got %d", summary.FirstOverloadClock)
	}
	if len(summary.OverloadedTicks) != 0 {
		t.Error("expected empty overload distribution")
	}
}

func TestSummarize_NilTrace(t *testing.T) {
	summary := Summarize(nil)
	if summary == nil || summary.TotalTicks != 0 || summary.OverloadedTicks == nil {
		t.Fatalf("unexpected summary for nil trace: %+v", summary)
	}
}

func TestSummarize_PopulatedTrace_PeaksAndMeans(t *testing.T) {
	// GIVEN three ticks with rising then falling load
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelSegments})
	st.RecordTick(TickRecord{Clock: 1, ActiveSessions: 1, TotalWork: 100, TotalCapacity: 100, MaxCapacity: 100, QueriesSubmitted: 1,
		Segments: []SegmentRecord{{Index: 0}, {Index: 1}}})
	st.RecordTick(TickRecord{Clock: 2, ActiveSessions: 4, OverloadedSegments: 2, TotalWork: 900, TotalCapacity: 70, MaxCapacity: 100, QueriesSubmitted: 4,
		Segments: []SegmentRecord{{Index: 0, OverloadFactor: 2}, {Index: 1, OverloadFactor: 1}}})
	st.RecordTick(TickRecord{Clock: 3, ActiveSessions: 1, OverloadedSegments: 1, TotalWork: 600, TotalCapacity: 90, MaxCapacity: 100, QueriesSubmitted: 4,
		Segments: []SegmentRecord{{Index: 0, OverloadFactor: 1}, {Index: 1}}})

	// WHEN summarized
	summary := Summarize(st)

	// THEN peaks, means and the overload distribution match
	if summary.TotalTicks != 3 {
		t.Errorf("expected 3 ticks, got %d", summary.TotalTicks)
	}
	if summary.PeakActiveSessions != 4 {
		t.Errorf("expected peak 4 active sessions, got %d", summary.PeakActiveSessions)
	}
	if summary.MeanActiveSessions != 2 {
		t.Errorf("expected mean 2 active sessions, got %v", summary.MeanActiveSessions)
	}
	if summary.PeakOverloaded != 2 || summary.MeanOverloaded != 1 {
		t.Errorf("overloaded peak/mean = %d/%v, want 2/1", summary.PeakOverloaded, summary.MeanOverloaded)
	}
	if summary.PeakTotalWork != 900 {
		t.Errorf("expected peak work 900, got %v", summary.PeakTotalWork)
	}
	if math.Abs(summary.MaxCapacityLoss-0.3) > 1e-9 {
		t.Errorf("expected max capacity loss 0.3, got %v", summary.MaxCapacityLoss)
	}
	if math.Abs(summary.MeanCapacityLoss-0.4/3) > 1e-9 {
		t.Errorf("expected mean capacity loss 0.133, got %v", summary.MeanCapacityLoss)
	}
	if summary.FirstOverloadClock != 2 {
		t.Errorf("expected first overload at 2, got %d", summary.FirstOverloadClock)
	}
	if summary.QueriesSubmitted != 4 {
		t.Errorf("expected 4 queries submitted, got %d", summary.QueriesSubmitted)
	}
	if summary.OverloadedTicks[0] != 2 || summary.OverloadedTicks[1] != 1 {
		t.Errorf("unexpected overload distribution %v", summary.OverloadedTicks)
	}
}
