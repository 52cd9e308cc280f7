package sandpile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridIsOriginPoint(t *testing.T) {
	g := NewGrid()
	assert.Equal(t, Bounds{}, g.Bounds())
	assert.Equal(t, 1, g.Width())
	assert.Equal(t, 1, g.Height())
	assert.Zero(t, g.Len())
	assert.Zero(t, g.Mass())
}

func TestAddGrainAccumulates(t *testing.T) {
	g := NewGrid()
	g.AddGrain(3, -2, 5)
	g.AddGrain(3, -2, 7)

	assert.Equal(t, uint64(12), g.Grains(3, -2))
	assert.Zero(t, g.Grains(0, 0))
	assert.Equal(t, 1, g.Len())
}

func TestAddGrainTracksTightBounds(t *testing.T) {
	g := NewGrid()
	g.AddGrain(5, 7, 1)
	require.Equal(t, Bounds{MinX: 5, MaxX: 5, MinY: 7, MaxY: 7}, g.Bounds(),
		"first insertion must not drag the origin into the box")

	g.AddGrain(-2, 9, 1)
	g.AddGrain(4, 3, 1)
	assert.Equal(t, -2, g.MinX())
	assert.Equal(t, 5, g.MaxX())
	assert.Equal(t, 3, g.MinY())
	assert.Equal(t, 9, g.MaxY())
	assert.Equal(t, 8, g.Width())
	assert.Equal(t, 7, g.Height())
}

func TestAddZeroGrainsIsNoop(t *testing.T) {
	g := NewGrid()
	g.AddGrain(1, 1, 2)
	g.AddGrain(100, -100, 0)

	assert.Equal(t, 1, g.Len())
	assert.Equal(t, Bounds{MinX: 1, MaxX: 1, MinY: 1, MaxY: 1}, g.Bounds())
}

func TestCloneIsIndependent(t *testing.T) {
	g := NewGrid()
	g.AddGrain(0, 0, 3)
	c := g.Clone()
	c.AddGrain(0, 0, 1)
	c.AddGrain(4, 4, 1)

	assert.Equal(t, uint64(3), g.Grains(0, 0))
	assert.Equal(t, 1, g.Width())
	assert.Equal(t, uint64(4), c.Grains(0, 0))
	assert.Equal(t, 5, c.Width())
}

func TestAllStopsEarly(t *testing.T) {
	g := NewGrid()
	for i := 0; i < 10; i++ {
		g.AddGrain(i, 0, 1)
	}
	seen := 0
	for range g.All() {
		seen++
		if seen == 3 {
			break
		}
	}
	assert.Equal(t, 3, seen)
}

func TestBoundsContains(t *testing.T) {
	b := Bounds{MinX: -1, MaxX: 1, MinY: 0, MaxY: 2}
	assert.True(t, b.Contains(0, 0))
	assert.True(t, b.Contains(1, 2))
	assert.False(t, b.Contains(2, 0))
	assert.False(t, b.Contains(0, -1))
}
