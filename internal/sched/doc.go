// Package sched dispatches conversion requests across execution backends: an
// optional injected accelerated backend, a fixed-size worker pool, or inline
// synchronous execution.
//
// Backend selection is automatic by default: the accelerated backend is used
// only for requests whose per-pixel decision carries no causal state and
// whose color space its arithmetic can express; small images run inline;
// everything else goes to the worker pool. Eligibility failures detected
// before dispatch fall back to the next-preferred backend (accelerated, then
// pool, then synchronous). Failures after dispatch are reported as a rejected
// operation and never retried silently.
//
// Cancellation is cooperative and lives entirely at the orchestration
// boundary: a request canceled before dispatch fails immediately without
// touching a worker; a request canceled mid-run is rejected and its worker
// unit is discarded and replaced with a fresh one, since the unit's state
// after forced abandonment is treated as indeterminate. Cancellation is a
// distinct outcome (ErrCanceled), never conflated with failure.
//
// A monotonically increasing request counter detects staleness: when a newer
// request is issued before an older one delivers, the older result resolves
// to ErrSuperseded instead of being applied, unless the request opts out via
// KeepStale (batch comparison work).
package sched
