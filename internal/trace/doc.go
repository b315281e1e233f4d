// Package trace provides structured tracing for reggen generation sessions.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	reggen generate --trace=- --trace-level=detail models/uart.toml
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only failures
//   - LevelPhase: Session and family boundaries
//   - LevelDetail: Per-register events
//   - LevelDebug: Everything including per-artifact writes
//
// # Scopes
//
//   - ScopeSession: one generate/check invocation
//   - ScopeFamily: InitializeFamily and the appends that follow it
//   - ScopeRegister: one AppendRegister call
//   - ScopeArtifact: a single artifact create/append
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeFamily, "family:Uart", parentID)
//	defer span.End("")
package trace
