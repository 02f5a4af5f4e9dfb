package board

import "errors"

var ErrOutOfBounds = errors.New("invalid coordinates")
var ErrCellOccupied = errors.New("invalid initial move")
var ErrNotOwnCell = errors.New("not your cell")

// Size is the fixed width and height of the grid.
const Size = 5

// CriticalMass is the count at which a cell explodes. It is a fixed
// threshold, not derived from the cell's neighbor count.
const CriticalMass = 4

type Role string

const (
	RoleRed  Role = "RED"
	RoleBlue Role = "BLUE"
)

func (r Role) Opponent() Role {
	if r == RoleRed {
		return RoleBlue
	}
	return RoleRed
}

// Cell is one square of the grid. A cell with no Owner is empty and its
// Count must be treated as zero. An empty cell marshals to {}.
type Cell struct {
	Owner Role `json:"owner,omitempty"`
	Count int  `json:"count,omitempty"`
}

// Grid is the 5x5 board, indexed [y][x].
type Grid [Size][Size]Cell

func InBounds(x, y int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size
}

// At returns the cell at (x, y). Callers must check InBounds first.
func (g *Grid) At(x, y int) *Cell {
	return &g[y][x]
}

// ApplyOpening places a role's one-time opening piece. The target cell
// must be empty.
func (g *Grid) ApplyOpening(role Role, x, y int) error {
	if !InBounds(x, y) {
		return ErrOutOfBounds
	}
	cell := g.At(x, y)
	if cell.Owner != "" {
		return ErrCellOccupied
	}
	*cell = Cell{Owner: role, Count: 1}
	return nil
}

// ApplyIncrement adds one piece to a cell the role already owns.
func (g *Grid) ApplyIncrement(role Role, x, y int) error {
	if !InBounds(x, y) {
		return ErrOutOfBounds
	}
	cell := g.At(x, y)
	if cell.Owner != role {
		return ErrNotOwnCell
	}
	cell.Count++
	return nil
}

func neighbors(x, y int) [][2]int {
	res := make([][2]int, 0, 4)
	if x > 0 {
		res = append(res, [2]int{x - 1, y})
	}
	if x < Size-1 {
		res = append(res, [2]int{x + 1, y})
	}
	if y > 0 {
		res = append(res, [2]int{x, y - 1})
	}
	if y < Size-1 {
		res = append(res, [2]int{x, y + 1})
	}
	return res
}
