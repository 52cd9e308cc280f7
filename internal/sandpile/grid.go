package sandpile

import "iter"

// Cell addresses a single lattice site.
type Cell struct {
	X, Y int
}

// Neighbors returns the four axis-aligned neighbours of c.
func (c Cell) Neighbors() [4]Cell {
	return [4]Cell{
		{c.X, c.Y + 1},
		{c.X, c.Y - 1},
		{c.X + 1, c.Y},
		{c.X - 1, c.Y},
	}
}

// Bounds is an inclusive axis-aligned box of lattice coordinates.
type Bounds struct {
	MinX, MaxX int
	MinY, MaxY int
}

// Width returns the number of columns covered by the box.
func (b Bounds) Width() int { return b.MaxX - b.MinX + 1 }

// Height returns the number of rows covered by the box.
func (b Bounds) Height() int { return b.MaxY - b.MinY + 1 }

// Contains reports whether (x, y) lies inside the box.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Grid stores grain counts for an unbounded lattice. Cells without an entry
// hold zero grains.
type Grid struct {
	cells   map[Cell]uint64
	bounds  Bounds
	bounded bool
}

// NewGrid returns an empty grid whose bounding box is the origin.
func NewGrid() *Grid {
	return &Grid{cells: make(map[Cell]uint64)}
}

func newGridSized(n int) *Grid {
	return &Grid{cells: make(map[Cell]uint64, n)}
}

// AddGrain adds count grains to (x, y). Adding zero grains leaves the grid
// untouched.
func (g *Grid) AddGrain(x, y int, count uint64) {
	if count == 0 {
		return
	}
	g.cells[Cell{x, y}] += count
	g.include(x, y)
}

// Grains returns the grain count at (x, y).
func (g *Grid) Grains(x, y int) uint64 {
	return g.cells[Cell{x, y}]
}

// Len returns the number of recorded cells, zero entries included.
func (g *Grid) Len() int { return len(g.cells) }

// Mass returns the total number of grains on the grid.
func (g *Grid) Mass() uint64 {
	var total uint64
	for _, n := range g.cells {
		total += n
	}
	return total
}

// All iterates over every recorded cell in unspecified order.
func (g *Grid) All() iter.Seq2[Cell, uint64] {
	return func(yield func(Cell, uint64) bool) {
		for c, n := range g.cells {
			if !yield(c, n) {
				return
			}
		}
	}
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	out := newGridSized(len(g.cells))
	for c, n := range g.cells {
		out.cells[c] = n
	}
	out.bounds = g.bounds
	out.bounded = g.bounded
	return out
}

// Bounds returns the bounding box of all recorded cells.
func (g *Grid) Bounds() Bounds { return g.bounds }

// Width returns the bounding box width, at least 1.
func (g *Grid) Width() int { return g.bounds.Width() }

// Height returns the bounding box height, at least 1.
func (g *Grid) Height() int { return g.bounds.Height() }

func (g *Grid) MinX() int { return g.bounds.MinX }
func (g *Grid) MaxX() int { return g.bounds.MaxX }
func (g *Grid) MinY() int { return g.bounds.MinY }
func (g *Grid) MaxY() int { return g.bounds.MaxY }

// include grows the bounding box so it covers (x, y). The first call
// collapses the box onto that point.
func (g *Grid) include(x, y int) {
	if !g.bounded {
		g.bounds = Bounds{MinX: x, MaxX: x, MinY: y, MaxY: y}
		g.bounded = true
		return
	}
	b := &g.bounds
	b.MinX = min(b.MinX, x)
	b.MaxX = max(b.MaxX, x)
	b.MinY = min(b.MinY, y)
	b.MaxY = max(b.MaxY, y)
}

// recomputeBounds rebuilds the bounding box from every recorded key.
func (g *Grid) recomputeBounds() {
	g.bounds = Bounds{}
	g.bounded = false
	for c := range g.cells {
		g.include(c.X, c.Y)
	}
}
