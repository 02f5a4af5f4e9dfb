package board

type exploder struct {
	x, y  int
	owner Role
}

// ExplodeWave runs one wave of the chain reaction: every cell at or above
// CriticalMass is cleared and each of its in-bounds orthogonal neighbors
// is taken over by the exploding cell's owner with its count incremented
// by one. Cells are collected in scan order (rows top to bottom) before
// any of them is cleared, so a cell only explodes on the count it held
// when the wave began. Returns false when no cell reached critical mass.
func (g *Grid) ExplodeWave() bool {
	var due []exploder
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if c := g.At(x, y); c.Owner != "" && c.Count >= CriticalMass {
				due = append(due, exploder{x: x, y: y, owner: c.Owner})
			}
		}
	}
	if len(due) == 0 {
		return false
	}
	for _, e := range due {
		*g.At(e.x, e.y) = Cell{}
		for _, n := range neighbors(e.x, e.y) {
			cell := g.At(n[0], n[1])
			*cell = Cell{Owner: e.owner, Count: cell.Count + 1}
		}
	}
	return true
}

// Resolve runs waves until the grid is stable and returns the post-wave
// snapshots in order. The caller that streams to subscribers iterates
// ExplodeWave itself so it can pace the waves; Resolve is the un-paced
// form of the same loop.
func (g *Grid) Resolve() []Grid {
	var snaps []Grid
	for g.ExplodeWave() {
		snaps = append(snaps, *g)
	}
	return snaps
}
