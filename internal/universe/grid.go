package universe

import "fmt"

// MaxRelocationRadius bounds the expanding ring search. Level geometry is
// validated at load time to guarantee an open cell inside this radius.
const MaxRelocationRadius = 10

// Pos is a tile coordinate.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Grid is a static solid/open tile map. Zero value is unusable; build with
// NewGrid or ParseRows.
type Grid struct {
	width  int
	height int
	solid  []bool
}

// NewGrid creates an all-open grid.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		solid:  make([]bool, width*height),
	}, nil
}

// ParseRows builds a grid from row strings, '#' solid and '.' open. Rows
// must be non-empty and equal length.
func ParseRows(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("geometry has no rows")
	}
	width := len(rows[0])
	g, err := NewGrid(width, len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("geometry row %d has length %d, want %d", y, len(row), width)
		}
		for x, c := range row {
			switch c {
			case '#':
				g.solid[y*width+x] = true
			case '.':
			default:
				return nil, fmt.Errorf("geometry row %d: unknown tile %q", y, c)
			}
		}
	}
	return g, nil
}

// Width returns the grid width in tiles.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in tiles.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether p lies on the grid.
func (g *Grid) InBounds(p Pos) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// SetSolid marks a cell solid or open. Out-of-bounds positions are ignored.
func (g *Grid) SetSolid(p Pos, solid bool) {
	if !g.InBounds(p) {
		return
	}
	g.solid[p.Y*g.width+p.X] = solid
}

// Walkable reports whether p is on the grid and open.
func (g *Grid) Walkable(p Pos) bool {
	return g.InBounds(p) && !g.solid[p.Y*g.width+p.X]
}

// FindValidCell returns from if it is walkable, otherwise the first
// walkable cell found by rings of increasing Chebyshev radius. Cells on a
// ring are visited top to bottom, left to right, so the result is a pure
// function of geometry and start position. The second return is false once
// MaxRelocationRadius is exhausted.
func (g *Grid) FindValidCell(from Pos) (Pos, bool) {
	if g.Walkable(from) {
		return from, true
	}
	for r := 1; r <= MaxRelocationRadius; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if max(abs(dx), abs(dy)) != r {
					continue
				}
				p := Pos{X: from.X + dx, Y: from.Y + dy}
				if g.Walkable(p) {
					return p, true
				}
			}
		}
	}
	return Pos{}, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
