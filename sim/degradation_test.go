package sim

import (
	"math"
	"testing"
)

var allCurves = []CurveKind{CurveZero, CurveLinear, CurveExponential, CurveHardExponential}

func TestCurves_ZeroAtOrigin(t *testing.T) {
	for _, kind := range allCurves {
		t.Run(kind.String(), func(t *testing.T) {
			if got := kind.Func()(0); got != 0 {
				t.Errorf("%s(0) = %v, want 0", kind, got)
			}
		})
	}
}

func TestCurves_BoundedByCeilingAndMonotonic(t *testing.T) {
	for _, kind := range allCurves {
		t.Run(kind.String(), func(t *testing.T) {
			f := kind.Func()
			ceiling := kind.Ceiling()
			prev := 0.0
			for i := 0; i <= 2000; i++ {
				x := float64(i) * 0.01 // 0 .. 20
				y := f(x)
				if y < 0 || y > ceiling {
					t.Fatalf("%s(%v) = %v, outside [0, %v]", kind, x, y, ceiling)
				}
				if y < prev {
					t.Fatalf("%s decreased at x=%v: %v < %v", kind, x, y, prev)
				}
				prev = y
			}
		})
	}
}

func TestCurves_SaturationPoints(t *testing.T) {
	tests := []struct {
		kind CurveKind
		x    float64
		want float64
	}{
		{CurveLinear, 1, 0.09},
		{CurveLinear, 5, 0.45},
		{CurveLinear, 10, 0.9},
		{CurveLinear, 250, 0.9},
		{CurveExponential, 8, 0.9},
		{CurveExponential, 100, 0.9},
		{CurveHardExponential, 6, 0.95},
		{CurveHardExponential, 7.5, 0.95},
		{CurveZero, 1e9, 0},
	}
	for _, tt := range tests {
		got := tt.kind.Func()(tt.x)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s(%v) = %v, want %v", tt.kind, tt.x, got, tt.want)
		}
	}
}

func TestCurves_ExponentialFormula(t *testing.T) {
	// GIVEN x strictly inside the ramp
	x := 3.0

	// THEN both exponential members follow the normalized formula
	wantExp := 0.9 * (math.Exp(0.4*x) - 1) / (math.Exp(3.2) - 1)
	if got := exponentialDegradation(x); math.Abs(got-wantExp) > 1e-12 {
		t.Errorf("exponential(%v) = %v, want %v", x, got, wantExp)
	}
	wantHard := 0.95 * (math.Exp(0.6*x) - 1) / (math.Exp(3.6) - 1)
	if got := hardExponentialDegradation(x); math.Abs(got-wantHard) > 1e-12 {
		t.Errorf("hardExponential(%v) = %v, want %v", x, got, wantHard)
	}
	// AND the hard variant sits above the soft one
	if hardExponentialDegradation(x) <= exponentialDegradation(x) {
		t.Error("hardExponential should degrade faster than exponential")
	}
}

func TestCurves_NegativeInputIsZero(t *testing.T) {
	for _, kind := range allCurves {
		if got := kind.Func()(-3); got != 0 {
			t.Errorf("%s(-3) = %v, want 0", kind, got)
		}
	}
}

func TestClampDegradation(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{0.3, 0.3},
		{1.7, 1},
		{math.Inf(1), 1},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := ClampDegradation(tt.in); got != tt.want {
			t.Errorf("ClampDegradation(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseCurveKind(t *testing.T) {
	tests := []struct {
		name   string
		want   CurveKind
		wantOK bool
	}{
		{"linear", CurveLinear, true},
		{"zero", CurveZero, true},
		{"exponential", CurveExponential, true},
		{"hardExponential", CurveHardExponential, true},
		{"hard-exponential", CurveHardExponential, true},
		{"HARD_EXPONENTIAL", CurveHardExponential, true},
		{"", CurveLinear, true},
		{"veryHardExponential", CurveLinear, false},
		{"cubic", CurveLinear, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCurveKind(tt.name)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseCurveKind(%q) = (%s, %v), want (%s, %v)", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCurveKind_StringRoundTrip(t *testing.T) {
	for _, kind := range allCurves {
		got, ok := ParseCurveKind(kind.String())
		if !ok || got != kind {
			t.Errorf("ParseCurveKind(%q) = (%s, %v), want %s", kind.String(), got, ok, kind)
		}
	}
	if got := CurveKind(99).String(); got != "linear" {
		t.Errorf("out-of-range kind String() = %q, want linear", got)
	}
}

func TestSampleCurve_EvenlySpaced(t *testing.T) {
	// GIVEN the reference plot resolution: 100 samples over [0, 10]
	points := SampleCurve(CurveLinear, 10, 100)

	// THEN 101 points from x=0 to x=10 with y = f(x)
	if len(points) != 101 {
		t.Fatalf("len(points) = %d, want 101", len(points))
	}
	if points[0].X != 0 || points[100].X != 10 {
		t.Errorf("range = [%v, %v], want [0, 10]", points[0].X, points[100].X)
	}
	if math.Abs(points[50].Y-0.45) > 1e-12 {
		t.Errorf("y at x=5 = %v, want 0.45", points[50].Y)
	}
	if got := SampleCurve(CurveZero, 10, 0); len(got) != 2 {
		t.Errorf("samples < 1 should be raised to 1, got %d points", len(got))
	}
}
