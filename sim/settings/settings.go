// Package settings is the flat, user-editable configuration record of a
// simulation: topology, degradation curve, and three session groups
// (service, etl, adhoc). It tolerates partial records, numeric strings and
// unknown legacy fields, and resolves missing values to documented defaults.
package settings

import (
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gpsim/gpsim/sim"
)

// Settings is the serialized configuration record. Every field is optional.
// Interval and delay fields are in seconds; the simulation runs in milliseconds.
type Settings struct {
	NumSegments         *Number `json:"numSegments,omitempty" yaml:"numSegments,omitempty"`
	NumCores            *Number `json:"numCores,omitempty" yaml:"numCores,omitempty"`
	CoreCapacity        *Number `json:"coreCapacity,omitempty" yaml:"coreCapacity,omitempty"`
	SliceDev            *Number `json:"sliceDev,omitempty" yaml:"sliceDev,omitempty"`
	SliceDelay          *Number `json:"sliceDelay,omitempty" yaml:"sliceDelay,omitempty"`
	DegradationFunction *string `json:"degradationFunction,omitempty" yaml:"degradationFunction,omitempty"`

	// ConcurrencyOverhead is a legacy field from before degradation curves.
	// It is read and ignored; records carrying only this field run with the linear curve.
	ConcurrencyOverhead *Number `json:"concurrencyOverhead,omitempty" yaml:"concurrencyOverhead,omitempty"`

	ServiceCount       *Number `json:"serviceCount,omitempty" yaml:"serviceCount,omitempty"`
	ServiceJobSizeAvg  *Number `json:"serviceJobSizeAvg,omitempty" yaml:"serviceJobSizeAvg,omitempty"`
	ServiceJobSizeDev  *Number `json:"serviceJobSizeDev,omitempty" yaml:"serviceJobSizeDev,omitempty"`
	ServiceIntervalAvg *Number `json:"serviceIntervalAvg,omitempty" yaml:"serviceIntervalAvg,omitempty"`
	ServiceIntervalDev *Number `json:"serviceIntervalDev,omitempty" yaml:"serviceIntervalDev,omitempty"`

	EtlCount       *Number `json:"etlCount,omitempty" yaml:"etlCount,omitempty"`
	EtlJobSizeAvg  *Number `json:"etlJobSizeAvg,omitempty" yaml:"etlJobSizeAvg,omitempty"`
	EtlJobSizeDev  *Number `json:"etlJobSizeDev,omitempty" yaml:"etlJobSizeDev,omitempty"`
	EtlIntervalAvg *Number `json:"etlIntervalAvg,omitempty" yaml:"etlIntervalAvg,omitempty"`
	EtlIntervalDev *Number `json:"etlIntervalDev,omitempty" yaml:"etlIntervalDev,omitempty"`

	AdhocCount       *Number `json:"adhocCount,omitempty" yaml:"adhocCount,omitempty"`
	AdhocJobSizeAvg  *Number `json:"adhocJobSizeAvg,omitempty" yaml:"adhocJobSizeAvg,omitempty"`
	AdhocJobSizeDev  *Number `json:"adhocJobSizeDev,omitempty" yaml:"adhocJobSizeDev,omitempty"`
	AdhocIntervalAvg *Number `json:"adhocIntervalAvg,omitempty" yaml:"adhocIntervalAvg,omitempty"`
	AdhocIntervalDev *Number `json:"adhocIntervalDev,omitempty" yaml:"adhocIntervalDev,omitempty"`
}

// Defaults for the topology fields.
const (
	DefaultSegments     = 16
	DefaultCores        = 16
	DefaultCoreCapacity = 100
	DefaultSliceDev     = 0.05
	DefaultSliceDelay   = 1 // seconds
)

// Group names, also the label prefixes of their sessions.
const (
	GroupService = "service"
	GroupETL     = "etl"
	GroupAdhoc   = "adhoc"
)

// groupFields points at one group's five fields in a Settings record.
type groupFields struct {
	count, jobSizeAvg, jobSizeDev, intervalAvg, intervalDev **Number
}

// groupSpec holds a group's defaults. Job sizes default to a multiple of the
// core capacity; deviations default to half the average.
type groupSpec struct {
	name           string
	count          int
	jobSizeFactor  int
	intervalAvgSec int
	intervalDevSec int
	fields         func(*Settings) groupFields
}

var groupSpecs = []groupSpec{
	{
		name: GroupService, count: 10, jobSizeFactor: 1, intervalAvgSec: 40, intervalDevSec: 8,
		fields: func(s *Settings) groupFields {
			return groupFields{&s.ServiceCount, &s.ServiceJobSizeAvg, &s.ServiceJobSizeDev, &s.ServiceIntervalAvg, &s.ServiceIntervalDev}
		},
	},
	{
		name: GroupETL, count: 10, jobSizeFactor: 3, intervalAvgSec: 650, intervalDevSec: 100,
		fields: func(s *Settings) groupFields {
			return groupFields{&s.EtlCount, &s.EtlJobSizeAvg, &s.EtlJobSizeDev, &s.EtlIntervalAvg, &s.EtlIntervalDev}
		},
	},
	{
		name: GroupAdhoc, count: 5, jobSizeFactor: 5, intervalAvgSec: 450, intervalDevSec: 450,
		fields: func(s *Settings) groupFields {
			return groupFields{&s.AdhocCount, &s.AdhocJobSizeAvg, &s.AdhocJobSizeDev, &s.AdhocIntervalAvg, &s.AdhocIntervalDev}
		},
	},
}

// Group is a resolved population of identical sessions.
type Group struct {
	Name   string
	Count  int
	Params sim.SessionParams // intervals in milliseconds
}

// Resolved is a Settings record with every default applied.
type Resolved struct {
	Config sim.Config
	Groups []Group
}

// Resolve applies defaults to missing, non-numeric and (where zero is not
// meaningful) zero fields. Unknown curve names resolve to linear.
func (s *Settings) Resolve() Resolved {
	if s == nil {
		s = &Settings{}
	}
	capacity := s.CoreCapacity.intOr(DefaultCoreCapacity)

	curveName := ""
	if s.DegradationFunction != nil {
		curveName = *s.DegradationFunction
	} else if s.ConcurrencyOverhead != nil {
		logrus.Debugf("legacy concurrencyOverhead=%v ignored; using %s degradation", float64(*s.ConcurrencyOverhead), sim.CurveLinear)
	}
	curve, _ := sim.ParseCurveKind(curveName)

	r := Resolved{
		Config: sim.Config{
			Segments:        s.NumSegments.intOr(DefaultSegments),
			CoresPerSegment: s.NumCores.intOr(DefaultCores),
			CoreCapacity:    float64(capacity),
			Curve:           curve,
			SliceSpread:     s.SliceDev.floatOrKeepZero(DefaultSliceDev),
			SliceDelay:      int64(s.SliceDelay.intOrKeepZero(DefaultSliceDelay)) * 1000,
		},
	}
	for _, spec := range groupSpecs {
		f := spec.fields(s)
		jobAvg := (*f.jobSizeAvg).intOr(spec.jobSizeFactor * capacity)
		jobDev := (*f.jobSizeDev).intOr(int(math.Floor(float64(jobAvg) / 2)))
		r.Groups = append(r.Groups, Group{
			Name:  spec.name,
			Count: (*f.count).intOrKeepZero(spec.count),
			Params: sim.SessionParams{
				JobSizeMean:    float64(jobAvg),
				JobSizeSpread:  float64(jobDev),
				IntervalMean:   float64((*f.intervalAvg).intOr(spec.intervalAvgSec) * 1000),
				IntervalSpread: float64((*f.intervalDev).intOr(spec.intervalDevSec) * 1000),
			},
		})
	}
	return r
}

// Build creates the simulation and registers each group's sessions as
// "<group>-<i>". Configuration errors from the core are returned unchanged.
func (r Resolved) Build(rng *sim.PartitionedRNG) (*sim.Simulation, error) {
	s, err := sim.NewSimulation(r.Config, rng)
	if err != nil {
		return nil, err
	}
	for _, g := range r.Groups {
		for i := 0; i < g.Count; i++ {
			if err := s.AddSession(SessionLabel(g.Name, i), g.Params); err != nil {
				return nil, fmt.Errorf("group %s: %w", g.Name, err)
			}
		}
	}
	return s, nil
}

// SessionCount is the total number of sessions Build registers.
func (r Resolved) SessionCount() int {
	n := 0
	for _, g := range r.Groups {
		n += max(0, g.Count)
	}
	return n
}

// Settings converts the resolved values back into a complete record.
func (r Resolved) Settings() *Settings {
	curve := r.Config.Curve.String()
	s := &Settings{
		NumSegments:         num(float64(r.Config.Segments)),
		NumCores:            num(float64(r.Config.CoresPerSegment)),
		CoreCapacity:        num(r.Config.CoreCapacity),
		SliceDev:            num(r.Config.SliceSpread),
		SliceDelay:          num(float64(r.Config.SliceDelay) / 1000),
		DegradationFunction: &curve,
	}
	for _, g := range r.Groups {
		for _, spec := range groupSpecs {
			if spec.name != g.Name {
				continue
			}
			f := spec.fields(s)
			*f.count = num(float64(g.Count))
			*f.jobSizeAvg = num(g.Params.JobSizeMean)
			*f.jobSizeDev = num(g.Params.JobSizeSpread)
			*f.intervalAvg = num(g.Params.IntervalMean / 1000)
			*f.intervalDev = num(g.Params.IntervalSpread / 1000)
		}
	}
	return s
}

// Defaults returns a complete record holding every default value.
func Defaults() *Settings {
	return (&Settings{}).Resolve().Settings()
}

// SessionLabel is the label of the i-th session of a group.
func SessionLabel(group string, i int) string {
	return fmt.Sprintf("%s-%d", group, i)
}

// GroupOf returns the group a session label belongs to, or "" for labels that
// do not follow the "<group>-<i>" convention.
func GroupOf(label string) string {
	for _, spec := range groupSpecs {
		if strings.HasPrefix(label, spec.name+"-") {
			return spec.name
		}
	}
	return ""
}
