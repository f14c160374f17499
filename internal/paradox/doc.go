// Package paradox owns the instability scalar that unresolved causal
// contradictions feed.
//
// The manager is a clamped accumulator in [0,100] with a per-source ledger
// and a five-tier state machine layered on top. Mutations only move the
// scalar; tier transitions are evaluated separately, exactly once per frame,
// so a burst of contributions inside one frame produces at most one tier
// notification.
//
// INVARIANTS:
//   - The scalar stays within [0,100] after any call sequence.
//   - The ledger records post-clamp applied amounts, never requested amounts.
//   - A tier crossing is reported once, not repeated while the scalar idles
//     inside a tier.
//   - Reaching 100 latches the terminal condition; later reductions do not
//     clear it.
//   - Passive decay runs only after a quiet window with no contributions and
//     is suspended at Collapse or worse.
package paradox
