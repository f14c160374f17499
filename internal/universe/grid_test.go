package universe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRows(t *testing.T) {
	g, err := ParseRows([]string{
		"###",
		"#.#",
		"###",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, g.Width())
	assert.Equal(t, 3, g.Height())
	assert.True(t, g.Walkable(Pos{X: 1, Y: 1}))
	assert.False(t, g.Walkable(Pos{X: 0, Y: 0}))
	assert.False(t, g.Walkable(Pos{X: 3, Y: 1}), "out of bounds is never walkable")
}

func TestParseRows_Malformed(t *testing.T) {
	_, err := ParseRows(nil)
	assert.Error(t, err)

	_, err = ParseRows([]string{"##", "#"})
	assert.Error(t, err)

	_, err = ParseRows([]string{"#x"})
	assert.Error(t, err)
}

func TestGrid_FindValidCell_OpenStart(t *testing.T) {
	g, err := NewGrid(5, 5)
	require.NoError(t, err)

	p, ok := g.FindValidCell(Pos{X: 2, Y: 2})
	require.True(t, ok)
	assert.Equal(t, Pos{X: 2, Y: 2}, p)
}

// Ring cells are visited top to bottom, left to right, so among equally
// near candidates the top-left one always wins.
func TestGrid_FindValidCell_DeterministicOrder(t *testing.T) {
	g, err := ParseRows([]string{
		".#.",
		"###",
		"###",
	})
	require.NoError(t, err)

	p, ok := g.FindValidCell(Pos{X: 1, Y: 1})
	require.True(t, ok)
	assert.Equal(t, Pos{X: 0, Y: 0}, p)

	again, ok := g.FindValidCell(Pos{X: 1, Y: 1})
	require.True(t, ok)
	assert.Equal(t, p, again, "same geometry and start must relocate identically")
}

func TestGrid_FindValidCell_ExpandsRings(t *testing.T) {
	rows := []string{
		"#####",
		"#####",
		"#####",
		"#####",
		"....#",
	}
	g, err := ParseRows(rows)
	require.NoError(t, err)

	p, ok := g.FindValidCell(Pos{X: 2, Y: 2})
	require.True(t, ok)
	assert.Equal(t, Pos{X: 0, Y: 4}, p)
}

func TestGrid_FindValidCell_ExhaustsRadius(t *testing.T) {
	solid := strings.Repeat("#", 25)
	rows := make([]string, 25)
	for i := range rows {
		rows[i] = solid
	}
	g, err := ParseRows(rows)
	require.NoError(t, err)

	_, ok := g.FindValidCell(Pos{X: 12, Y: 12})
	assert.False(t, ok)
}
