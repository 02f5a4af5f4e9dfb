package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyOpening(t *testing.T) {
	cases := []struct {
		name    string
		setup   func(g *Grid)
		role    Role
		x, y    int
		wantErr error
	}{
		{
			name: "empty cell accepts opening",
			role: RoleRed, x: 2, y: 2,
		},
		{
			name:  "own cell rejects opening",
			setup: func(g *Grid) { *g.At(2, 2) = Cell{Owner: RoleRed, Count: 1} },
			role:  RoleRed, x: 2, y: 2,
			wantErr: ErrCellOccupied,
		},
		{
			name:  "opponent cell rejects opening",
			setup: func(g *Grid) { *g.At(2, 2) = Cell{Owner: RoleBlue, Count: 3} },
			role:  RoleRed, x: 2, y: 2,
			wantErr: ErrCellOccupied,
		},
		{
			name: "out of bounds",
			role: RoleRed, x: 5, y: 0,
			wantErr: ErrOutOfBounds,
		},
		{
			name: "negative coordinate",
			role: RoleBlue, x: 0, y: -1,
			wantErr: ErrOutOfBounds,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var g Grid
			if tc.setup != nil {
				tc.setup(&g)
			}
			err := g.ApplyOpening(tc.role, tc.x, tc.y)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Cell{Owner: tc.role, Count: 1}, *g.At(tc.x, tc.y))
		})
	}
}

func TestApplyIncrement(t *testing.T) {
	cases := []struct {
		name    string
		setup   func(g *Grid)
		role    Role
		x, y    int
		want    Cell
		wantErr error
	}{
		{
			name:  "own cell increments",
			setup: func(g *Grid) { *g.At(1, 3) = Cell{Owner: RoleBlue, Count: 2} },
			role:  RoleBlue, x: 1, y: 3,
			want: Cell{Owner: RoleBlue, Count: 3},
		},
		{
			name:  "opponent cell rejected",
			setup: func(g *Grid) { *g.At(1, 3) = Cell{Owner: RoleRed, Count: 2} },
			role:  RoleBlue, x: 1, y: 3,
			wantErr: ErrNotOwnCell,
		},
		{
			name: "empty cell rejected",
			role: RoleBlue, x: 1, y: 3,
			wantErr: ErrNotOwnCell,
		},
		{
			name: "out of bounds",
			role: RoleBlue, x: 0, y: 5,
			wantErr: ErrOutOfBounds,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var g Grid
			if tc.setup != nil {
				tc.setup(&g)
			}
			err := g.ApplyIncrement(tc.role, tc.x, tc.y)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, *g.At(tc.x, tc.y))
		})
	}
}

func TestOpponent(t *testing.T) {
	assert.Equal(t, RoleBlue, RoleRed.Opponent())
	assert.Equal(t, RoleRed, RoleBlue.Opponent())
}

func TestEmptyCellMarshalsToEmptyObject(t *testing.T) {
	var g Grid
	require.NoError(t, g.ApplyOpening(RoleRed, 0, 0))

	// Empty cells must serialize as {} and owned cells with both fields.
	assert.JSONEq(t, `{"owner":"RED","count":1}`, marshal(t, g.At(0, 0)))
	assert.JSONEq(t, `{}`, marshal(t, g.At(1, 0)))
}
