// Package causal implements the causal dependency graph shared by the three
// parallel universes.
//
// The graph is an arena of nodes addressed by integer handle. Every entity
// that participates in causality owns exactly one node; edges are directed
// from cause to effect and carry one of five operators:
//
//   - Echo: copies the source state onto the target verbatim
//   - Inverse: applies the categorical inverse of the source state
//   - Conditional: applies the source state only while the target's tracked
//     condition holds, re-read fresh at propagation time
//   - Exclusive: source existence prevents target existence in other bound
//     universes until the source reverts
//   - Cascade: Echo plus a per-hop paradox increment as the change chains
//     into the next universe
//
// Propagation is a bounded breadth-first traversal. A change is applied only
// if it differs from the target's current value, so converged graphs do not
// oscillate; a step counter caps runaway cycles and degrades them into a
// paradox contribution instead of looping forever.
//
// INVARIANTS:
//   - Node ids are unique across ALL universes, never per-universe
//   - No edge references an unregistered node
//   - Edge query results are in insertion order (deterministic replay)
//   - Contradictions never abort a pass; they accumulate paradox
package causal
