package sim

import (
	"math"
	"strings"

	"github.com/sirupsen/logrus"
)

// Curve maps a segment's overload factor to the fraction of nominal capacity
// lost to contention. Implementations are pure and total over x >= 0.
type Curve func(overloadFactor float64) float64

// CurveKind selects one member of the degradation curve family.
type CurveKind int

const (
	CurveLinear CurveKind = iota // fallback for unknown names
	CurveZero
	CurveExponential
	CurveHardExponential
)

var curveNames = map[CurveKind]string{
	CurveLinear:          "linear",
	CurveZero:            "zero",
	CurveExponential:     "exponential",
	CurveHardExponential: "hardExponential",
}

// String returns the settings identifier of the curve.
func (k CurveKind) String() string {
	if name, ok := curveNames[k]; ok {
		return name
	}
	return curveNames[CurveLinear]
}

// ValidCurveNames is the set of recognized curve identifiers after normalization.
var ValidCurveNames = map[string]CurveKind{
	"linear":          CurveLinear,
	"zero":            CurveZero,
	"exponential":     CurveExponential,
	"hardexponential": CurveHardExponential,
}

// ParseCurveKind resolves a curve identifier. Matching ignores case, dashes and
// underscores. Unknown identifiers resolve to CurveLinear and ok is false.
func ParseCurveKind(name string) (kind CurveKind, ok bool) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(strings.TrimSpace(name)))
	if key == "" {
		return CurveLinear, true
	}
	if kind, found := ValidCurveNames[key]; found {
		return kind, true
	}
	logrus.Warnf("unknown degradation curve %q; falling back to %s", name, CurveLinear)
	return CurveLinear, false
}

// Func returns the pure function for the curve kind.
func (k CurveKind) Func() Curve {
	switch k {
	case CurveZero:
		return zeroDegradation
	case CurveExponential:
		return exponentialDegradation
	case CurveHardExponential:
		return hardExponentialDegradation
	default:
		return linearDegradation
	}
}

// Ceiling returns the saturation value of the curve.
func (k CurveKind) Ceiling() float64 {
	switch k {
	case CurveZero:
		return 0
	case CurveHardExponential:
		return 0.95
	default:
		return 0.9
	}
}

func zeroDegradation(float64) float64 { return 0 }

func linearDegradation(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 10 {
		return 0.9
	}
	return 0.09 * x
}

func exponentialDegradation(x float64) float64 {
	return normalizedExp(x, 0.4, 8, 0.9)
}

func hardExponentialDegradation(x float64) float64 {
	return normalizedExp(x, 0.6, 6, 0.95)
}

// normalizedExp ramps from 0 at x=0 to maxY at x=maxX following e^(k·x),
// and holds maxY beyond maxX.
func normalizedExp(x, k, maxX, maxY float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= maxX {
		return maxY
	}
	return maxY * (math.Exp(k*x) - 1) / (math.Exp(k*maxX) - 1)
}

// ClampDegradation bounds a curve output to [0, 1]. NaN counts as no degradation.
func ClampDegradation(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}

// CurvePoint is one sample of a degradation curve.
type CurvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SampleCurve evaluates the curve at samples+1 evenly spaced points over [0, maxX].
func SampleCurve(kind CurveKind, maxX float64, samples int) []CurvePoint {
	if samples < 1 {
		samples = 1
	}
	f := kind.Func()
	points := make([]CurvePoint, 0, samples+1)
	for i := 0; i <= samples; i++ {
		x := float64(i) / float64(samples) * maxX
		points = append(points, CurvePoint{X: x, Y: f(x)})
	}
	return points
}
