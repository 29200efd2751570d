// Package dispatch executes handler invocations behind a
// per-invocation fault boundary.
//
// The Executor converts panics into Result values instead of letting
// them unwind through the caller, and wall-clocks every invocation with
// a monotonic clock so callers can apply latency policies. It knows
// nothing about registries or event types; the parent package decides
// what an invocation is and what to do with its Result.
package dispatch
