// Package level loads YAML level definitions into a running simulation.
//
// Loading is three phases, all at load time, never during play:
//
//  1. decode: strict YAML into the Level shape, unknown keys rejected
//  2. validate: CUE schema unification plus structural checks (duplicate
//     ids, dangling edges, anchored counterparts, exclusive homes),
//     collecting every violation instead of failing fast
//  3. build: graph registration, container spawning, coordinator wiring,
//     and the switchability sweep that proves every spawn position is
//     hostable in all three universes
//
// A level that passes Build cannot produce a LEVEL_DESIGN error at runtime.
package level
