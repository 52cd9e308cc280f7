package sandpile

import "golang.org/x/sync/errgroup"

// Threshold is the grain count at which a cell topples.
const Threshold = 4

// minParallelCells is the grid size below which sharding costs more than it
// saves.
const minParallelCells = 4096

// Topple applies one synchronous generation of the sandpile rule to every
// recorded cell of g and returns the next generation. g is not modified.
func Topple(g *Grid) *Grid {
	next := newGridSized(len(g.cells))
	for c, n := range g.cells {
		fire(next.cells, c, n)
	}
	next.recomputeBounds()
	return next
}

// fire adds the contributions of a cell holding n grains to dst. An unstable
// cell keeps n mod 4 and hands n/4 to each neighbour in one block.
func fire(dst map[Cell]uint64, c Cell, n uint64) {
	if n < Threshold {
		dst[c] += n
		return
	}
	dst[c] += n % Threshold
	share := n / Threshold
	for _, nb := range c.Neighbors() {
		dst[nb] += share
	}
}

// IsStable reports whether every recorded cell holds fewer than Threshold
// grains.
func IsStable(g *Grid) bool {
	for _, n := range g.cells {
		if n >= Threshold {
			return false
		}
	}
	return true
}

// Unstable counts the cells that will topple in the next generation.
func Unstable(g *Grid) int {
	count := 0
	for _, n := range g.cells {
		if n >= Threshold {
			count++
		}
	}
	return count
}

// Engine advances grids, optionally spreading a generation over several
// goroutines. The zero value runs sequentially.
type Engine struct {
	Workers int
}

type entry struct {
	cell   Cell
	grains uint64
}

// Step returns the generation after g. With more than one worker the
// recorded cells are split into contiguous shards; every worker reads only
// the old generation and writes a private map, and the maps are merged after
// all workers have finished.
func (e Engine) Step(g *Grid) *Grid {
	workers := e.Workers
	if workers <= 1 || len(g.cells) < minParallelCells {
		return Topple(g)
	}

	entries := make([]entry, 0, len(g.cells))
	for c, n := range g.cells {
		entries = append(entries, entry{c, n})
	}

	chunk := (len(entries) + workers - 1) / workers
	partial := make([]map[Cell]uint64, workers)

	var eg errgroup.Group
	for i := 0; i < workers; i++ {
		lo := i * chunk
		if lo >= len(entries) {
			break
		}
		hi := min(lo+chunk, len(entries))
		eg.Go(func() error {
			local := make(map[Cell]uint64, (hi-lo)*2)
			for _, en := range entries[lo:hi] {
				fire(local, en.cell, en.grains)
			}
			partial[i] = local
			return nil
		})
	}
	_ = eg.Wait()

	next := newGridSized(len(g.cells))
	for _, local := range partial {
		for c, n := range local {
			next.cells[c] += n
		}
	}
	next.recomputeBounds()
	return next
}
