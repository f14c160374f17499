// Package store persists simulation snapshots in an append-only SQLite
// journal.
//
// The journal never interprets the snapshot beyond its envelope fields;
// restore-time validation (layout version, operator set) belongs to the
// coordinator. SQLite runs in WAL mode with a single writer connection,
// matching the simulation's single-writer design.
package store
