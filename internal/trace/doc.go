// Package trace records what the hxsl front end is doing, phase by phase.
//
// Tracing is off unless the CLI asks for it:
//
//	hxslc compile --trace=- --trace-level=detail lit.toml
//
// A Tracer travels through the pipeline inside a context.Context:
//
//	ctx = trace.WithTracer(ctx, tr)
//	sp := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "parse", parent)
//	defer sp.End("")
//
// Scopes, coarse to fine: driver (one CLI command), module, shader,
// phase (tokenize, parse, bind, link) and decl (one analyzer match).
// The level decides how deep the trace goes; see Level.ShouldEmit.
//
// Stream tracers write every event as it happens, ring tracers keep the last
// N events for a dump after a crash or a timeout. A Heartbeat emits periodic
// events so that a stuck compile is visible as heartbeats without span ends.
package trace
