// Package multiverse drives the per-frame simulation cycle across the
// three universes.
//
// The coordinator is the single writer for the causal graph and the
// paradox manager. Execution is synchronous and the per-frame ordering is
// strict: deferred universe switches, then queued entity actions drained
// through graph propagation, then passive decay, then exactly one paradox
// tier evaluation, then entity bookkeeping. Nothing interleaves
// mid-propagation, so observers never see a half-propagated graph.
//
// A switch request arriving while a frame is in flight is deferred to the
// start of the next frame. Outward communication is an ordered queue of
// typed notification events stamped with the level-attempt token; consumers
// poll and drain it, they never mutate through it.
package multiverse
