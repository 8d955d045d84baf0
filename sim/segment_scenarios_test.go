package sim

import (
	"fmt"
	"testing"

	"github.com/gpsim/gpsim/sim/internal/testutil"
)

func TestSegment_Scenarios(t *testing.T) {
	for _, sc := range testutil.LoadSegmentScenarios(t).Scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			// GIVEN the scenario's segment with its slices eligible at t=0
			kind, ok := ParseCurveKind(sc.Curve)
			if !ok {
				t.Fatalf("unknown curve %q", sc.Curve)
			}
			seg := newSegment(0, sc.Cores, sc.CoreCapacity, kind.Func())
			slices := make([]*Slice, len(sc.Works))
			for i, w := range sc.Works {
				slices[i] = placeSlice(seg, int64(i+1), w)
			}

			// WHEN the ticks run
			for now := 0; now < sc.Ticks; now++ {
				seg.Tick(int64(now))
			}

			// THEN every slice has the expected remaining work
			for i, sl := range slices {
				testutil.AssertFloat64Equal(t, fmt.Sprintf("slice %d remaining", i), sc.Remaining[i], sl.RemainingWork(), 1e-9)
			}
		})
	}
}
