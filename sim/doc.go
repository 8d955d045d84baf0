// Package sim provides the tick-driven contention simulation engine.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - segment.go: promotion, overload factor, degraded capacity and round-robin work retirement
//   - session.go: the Idle/Busy arrival process that submits one query at a time
//   - simulator.go: the Simulation container and its two-phase Tick
//
// # Model
//
// A Simulation owns a fixed set of Segments (resource pools of cores) and a set of
// Sessions (workload sources). Each Session submits at most one Query at a time;
// a Query fans out into one Slice per Segment. Slices wait queued until their
// eligible time, then run and consume their Segment's capacity. When more slices
// run than the Segment has cores, the selected degradation Curve removes a
// fraction of the Segment's capacity, so overload slows everyone down.
//
// Time is an int64 instant in milliseconds supplied by the caller on every Tick.
// Randomness comes from a PartitionedRNG with one stream per session, so a
// SimulationKey fully determines a run.
//
// # Sub-packages
//   - sim/settings/: flat JSON/YAML settings record, defaults, and session groups
//   - sim/metrics/: Prometheus gauges over the read surface
//   - sim/trace/: per-tick time series and run summary
package sim
