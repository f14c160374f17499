// Package universe holds one parallel world: its tile geometry and the
// entities living in it.
//
// A container never mutates the causal graph. Entities carry the id of
// their backing causal node and re-read that node's state each frame; all
// graph writes go through the coordinator.
//
// Geometry is a static solid/open tile grid. Placement onto a solid cell
// relocates to the nearest open cell found by a deterministic expanding
// ring search with a bounded radius; identical geometry and start position
// always relocate to the same cell.
package universe
