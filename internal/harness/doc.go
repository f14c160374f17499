// Package harness runs scripted puzzle scenarios against a built level.
//
// A scenario is YAML: the level (inline or by path), a list of steps
// (queue a state change, request a universe switch, advance frames), and
// assertions over the final state and the emitted notification trace.
// Steps that are supposed to be rejected declare the expected error code,
// so cooldown and same-universe rules are scriptable too.
//
// Scenario execution is fully deterministic: a fixed attempt token, a
// fixed dt per frame, and the coordinator's strict per-frame ordering.
// RunWithGolden snapshots the notification trace plus the final state and
// compares it against a golden file, regenerated with:
//
//	go test ./internal/harness -update
package harness
