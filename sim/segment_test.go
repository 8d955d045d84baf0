package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// placeSlice puts a slice of the given work on seg, eligible at t=0.
func placeSlice(seg *Segment, id int64, work float64) *Slice {
	return newSlice(&Query{id: id}, seg, work, 0)
}

func TestSegment_SingleSliceWithinCapacity_RetiredInOneTick(t *testing.T) {
	// GIVEN cores=1, capacity 100, no degradation and one slice of 25
	seg := newSegment(0, 1, 100, CurveZero.Func())
	sl := placeSlice(seg, 1, 25)

	// WHEN one tick runs
	seg.Tick(0)

	// THEN the slice is fully retired and discarded
	assert.True(t, sl.Done())
	assert.Equal(t, 0, seg.RunningCount())
	assert.Equal(t, 0, seg.QueuedCount())
	assert.Zero(t, seg.TotalRemainingWork())
}

func TestSegment_Overloaded_LinearCurveRemovesNinePercent(t *testing.T) {
	// GIVEN cores=1, capacity 100, linear curve and two slices of 1000
	seg := newSegment(0, 1, 100, CurveLinear.Func())
	a := placeSlice(seg, 1, 1000)
	b := placeSlice(seg, 2, 1000)
	seg.promote(0)

	require.Equal(t, 1, seg.LoadAverage())
	require.InDelta(t, 1.0, seg.OverloadFactor(), 1e-12)
	require.InDelta(t, 91.0, seg.CurrentCapacity(), 1e-9)

	// WHEN one tick runs
	seg.Tick(0)

	// THEN exactly 91 units were retired, split in quanta of at most 10
	assert.InDelta(t, 2000-91.0, seg.TotalRemainingWork(), 1e-9)
	assert.InDelta(t, 50.0, a.TotalWork()-a.RemainingWork(), 1e-9)
	assert.InDelta(t, 41.0, b.TotalWork()-b.RemainingWork(), 1e-9)
	assert.Equal(t, 2, seg.RunningCount())
}

func TestSegment_BelowCoreCount_NeverDegrades(t *testing.T) {
	for _, kind := range allCurves {
		t.Run(kind.String(), func(t *testing.T) {
			// GIVEN cores=4 with 3 running slices
			seg := newSegment(0, 4, 100, kind.Func())
			for i := int64(1); i <= 3; i++ {
				placeSlice(seg, i, 1e6)
			}
			seg.promote(0)

			// THEN no load above the cores and full capacity
			assert.Equal(t, 0, seg.LoadAverage())
			assert.Zero(t, seg.OverloadFactor())
			assert.Equal(t, seg.MaxCapacity(), seg.CurrentCapacity())
			assert.Equal(t, StatusFree, seg.Status())
		})
	}
}

func TestSegment_QuantumKeepsRoundRobinFair(t *testing.T) {
	// GIVEN 4 cores (no overload) and 4 slices of equal size
	seg := newSegment(0, 4, 10, CurveZero.Func())
	slices := make([]*Slice, 4)
	for i := range slices {
		slices[i] = placeSlice(seg, int64(i+1), 500)
	}

	// WHEN one tick of 40 units runs
	seg.Tick(0)

	// THEN each slice retired exactly one quantum, regardless of arrival order
	for i, sl := range slices {
		assert.InDelta(t, 490.0, sl.RemainingWork(), 1e-12, "slice %d", i)
	}
}

func TestSegment_FinishedSliceStopsCompetingWithinTick(t *testing.T) {
	// GIVEN a small slice and a large slice sharing 100 units of capacity
	seg := newSegment(0, 2, 50, CurveZero.Func())
	small := placeSlice(seg, 1, 5)
	large := placeSlice(seg, 2, 1000)

	// WHEN one tick runs
	seg.Tick(0)

	// THEN the small slice finishes and the large one takes the rest of the capacity
	assert.True(t, small.Done())
	assert.InDelta(t, 905.0, large.RemainingWork(), 1e-12)
	assert.Equal(t, 1, seg.RunningCount())
}

func TestSegment_PromotionWaitsForEligibleTime(t *testing.T) {
	// GIVEN a slice eligible at t=100
	seg := newSegment(0, 1, 100, CurveZero.Func())
	sl := newSlice(&Query{id: 1}, seg, 50, 100)

	// WHEN ticking before the eligible time
	seg.Tick(99)

	// THEN nothing runs and queued work is not counted as remaining work
	assert.Equal(t, 1, seg.QueuedCount())
	assert.Equal(t, 0, seg.RunningCount())
	assert.Zero(t, seg.TotalRemainingWork())
	assert.Equal(t, 50.0, seg.QueuedWork())

	// WHEN ticking at the eligible time
	seg.Tick(100)

	// THEN the slice is promoted and retired
	assert.True(t, sl.Done())
	assert.Equal(t, 0, seg.QueuedCount())
}

func TestSegment_HeavyOverload_CapacitySaturatesAtCeiling(t *testing.T) {
	// GIVEN 2 cores with 40 running slices (overload factor 19)
	seg := newSegment(0, 2, 100, CurveHardExponential.Func())
	for i := int64(1); i <= 40; i++ {
		placeSlice(seg, i, 1000)
	}
	seg.promote(0)

	// THEN capacity is reduced to 5% of nominal and the status is critical
	assert.InDelta(t, 10.0, seg.CurrentCapacity(), 1e-9)
	assert.Equal(t, StatusCritical, seg.Status())

	// WHEN one tick runs
	before := seg.TotalRemainingWork()
	seg.Tick(0)

	// THEN only the degraded capacity is retired
	assert.InDelta(t, 10.0, before-seg.TotalRemainingWork(), 1e-9)
}

func TestSegment_MisbehavingCurveIsClamped(t *testing.T) {
	// GIVEN curves that report out-of-range degradation
	inverted := newSegment(0, 1, 100, func(float64) float64 { return -2 })
	exceeding := newSegment(0, 1, 100, func(float64) float64 { return 3 })
	placeSlice(inverted, 1, 1000)
	placeSlice(exceeding, 2, 1000)

	// WHEN ticked
	inverted.Tick(0)
	exceeding.Tick(0)

	// THEN capacity never exceeds nominal and never goes negative
	assert.InDelta(t, 900.0, inverted.TotalRemainingWork(), 1e-12)
	assert.InDelta(t, 1000.0, exceeding.TotalRemainingWork(), 1e-12)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		factor float64
		want   SegmentStatus
	}{
		{0, StatusFree},
		{0.25, StatusLight},
		{2.99, StatusLight},
		{3, StatusModerate},
		{5.5, StatusModerate},
		{6, StatusHeavy},
		{7.9, StatusHeavy},
		{8, StatusCritical},
		{42, StatusCritical},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.factor); got != tt.want {
			t.Errorf("StatusFor(%v) = %s, want %s", tt.factor, got, tt.want)
		}
	}
}
