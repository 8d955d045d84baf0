package trace

// TraceLevel controls how much is recorded per tick.
type TraceLevel string

const (
	// TraceLevelNone disables tracing.
	TraceLevelNone TraceLevel = "none"
	// TraceLevelTicks records aggregate counters once per tick.
	TraceLevelTicks TraceLevel = "ticks"
	// TraceLevelSegments additionally records every segment once per tick.
	TraceLevelSegments TraceLevel = "segments"
)

var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:     true,
	TraceLevelTicks:    true,
	TraceLevelSegments: true,
	"":                 true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
	Limit int // most recent records kept; 0 keeps everything
}

// Enabled reports whether anything is recorded.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelTicks || c.Level == TraceLevelSegments
}

// SimulationTrace collects tick records during a run.
type SimulationTrace struct {
	Config  TraceConfig
	Ticks   []TickRecord
	Dropped int // records evicted by the limit
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config: config,
		Ticks:  make([]TickRecord, 0),
	}
}

// RecordTick appends a tick record, evicting the oldest once the limit is reached.
// Segment rows are discarded below TraceLevelSegments.
func (st *SimulationTrace) RecordTick(record TickRecord) {
	if !st.Config.Enabled() {
		return
	}
	if st.Config.Level != TraceLevelSegments {
		record.Segments = nil
	}
	if st.Config.Limit > 0 && len(st.Ticks) >= st.Config.Limit {
		n := len(st.Ticks) - st.Config.Limit + 1
		st.Ticks = append(st.Ticks[:0], st.Ticks[n:]...)
		st.Dropped += n
	}
	st.Ticks = append(st.Ticks, record)
}
