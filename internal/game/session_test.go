package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fissionplay/chain-reaction-backend/internal/board"
	"github.com/fissionplay/chain-reaction-backend/internal/types"
)

const testWaveDelay = time.Millisecond

func newTestSession(t *testing.T, id string) *Session {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewSession(ctx, id, testWaveDelay, zap.NewNop())
}

// helper: receive one state with a timeout so tests never hang
func recvState(t *testing.T, ch <-chan types.GameState, within time.Duration) types.GameState {
	t.Helper()
	select {
	case state, ok := <-ch:
		if !ok {
			t.Fatalf("client outbox closed unexpectedly")
		}
		return state
	case <-time.After(within):
		t.Fatalf("timed out waiting for state")
		return types.GameState{} // unreachable
	}
}

func recvNoState(t *testing.T, ch <-chan types.GameState, within time.Duration) {
	t.Helper()
	select {
	case s, ok := <-ch:
		if !ok {
			return
		}
		t.Fatalf("expected no state within %v, but got: %+v", within, s)
	case <-time.After(within):
		// good: no state
	}
}

func recvView(t *testing.T, ch <-chan View, within time.Duration) View {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(within):
		t.Fatalf("timed out waiting for view")
		return View{} // unreachable
	}
}

func submit(t *testing.T, s *Session, role board.Role, x, y int) error {
	t.Helper()
	reply := make(chan error, 1)
	s.Inbox() <- SubmitMove{Role: role, X: x, Y: y, Reply: reply}
	select {
	case err := <-reply:
		return err
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for move reply")
		return nil // unreachable
	}
}

func view(t *testing.T, s *Session) View {
	t.Helper()
	reply := make(chan View, 1)
	s.Inbox() <- GetState{Reply: reply}
	return recvView(t, reply, time.Second)
}

func TestSession_JoinSendsImmediateSnapshot(t *testing.T) {
	s := newTestSession(t, "g1")

	out := make(chan types.GameState, 2)
	s.Inbox() <- Join{ClientID: "c1", Outbox: out}

	first := recvState(t, out, time.Second)
	assert.Equal(t, "g1", first.ID)
	assert.Equal(t, board.RoleRed, first.CurrentPlayer)
	assert.Equal(t, board.Grid{}, first.Grid)
}

func TestSession_OpeningMoveBroadcastsAndFlips(t *testing.T) {
	s := newTestSession(t, "g1")

	out := make(chan types.GameState, 4)
	s.Inbox() <- Join{ClientID: "c1", Outbox: out}
	_ = recvState(t, out, time.Second) // join snapshot

	require.NoError(t, submit(t, s, board.RoleRed, 2, 2))

	next := recvState(t, out, time.Second)
	assert.Equal(t, board.Cell{Owner: board.RoleRed, Count: 1}, *next.Grid.At(2, 2))
	assert.Equal(t, board.RoleBlue, next.CurrentPlayer)
}

func TestSession_OpeningOnOccupiedCellRejected(t *testing.T) {
	s := newTestSession(t, "g1")
	require.NoError(t, submit(t, s, board.RoleRed, 2, 2))

	err := submit(t, s, board.RoleBlue, 2, 2)
	require.ErrorIs(t, err, board.ErrCellOccupied)

	v := view(t, s)
	assert.False(t, v.OpeningDone[board.RoleBlue])
	assert.Equal(t, board.Cell{Owner: board.RoleRed, Count: 1}, *v.State.Grid.At(2, 2))
}

func TestSession_SecondOpeningBySameRoleRejected(t *testing.T) {
	s := newTestSession(t, "g1")
	require.NoError(t, submit(t, s, board.RoleRed, 2, 2))

	// The opening is spent: further moves obey increment rules, so an
	// empty cell is no longer a legal target for this role.
	err := submit(t, s, board.RoleRed, 0, 0)
	require.ErrorIs(t, err, board.ErrNotOwnCell)
}

func TestSession_IncrementOnOpponentCellRejected(t *testing.T) {
	s := newTestSession(t, "g1")
	require.NoError(t, submit(t, s, board.RoleRed, 2, 2))
	require.NoError(t, submit(t, s, board.RoleBlue, 0, 0))

	err := submit(t, s, board.RoleBlue, 2, 2)
	require.ErrorIs(t, err, board.ErrNotOwnCell)
}

func TestSession_CascadeAtCriticalMass(t *testing.T) {
	s := newTestSession(t, "g1")

	out := make(chan types.GameState, 8)
	s.Inbox() <- Join{ClientID: "c1", Outbox: out}
	_ = recvState(t, out, time.Second)

	require.NoError(t, submit(t, s, board.RoleRed, 2, 2))
	_ = recvState(t, out, time.Second)
	for i := 0; i < 2; i++ {
		require.NoError(t, submit(t, s, board.RoleRed, 2, 2))
		_ = recvState(t, out, time.Second)
	}

	// Fourth piece reaches critical mass: one wave snapshot, then the
	// final post-move state.
	require.NoError(t, submit(t, s, board.RoleRed, 2, 2))

	wave := recvState(t, out, time.Second)
	assert.Equal(t, board.Cell{}, *wave.Grid.At(2, 2))
	for _, n := range [][2]int{{1, 2}, {3, 2}, {2, 1}, {2, 3}} {
		assert.Equal(t, board.Cell{Owner: board.RoleRed, Count: 1}, *wave.Grid.At(n[0], n[1]))
	}

	final := recvState(t, out, time.Second)
	assert.Equal(t, wave.Grid, final.Grid)
	assert.Equal(t, board.RoleBlue, final.CurrentPlayer)
	recvNoState(t, out, 50*time.Millisecond)
}

func TestSession_NoCascadeAfterOpeningMove(t *testing.T) {
	s := newTestSession(t, "g1")

	out := make(chan types.GameState, 4)
	s.Inbox() <- Join{ClientID: "c1", Outbox: out}
	_ = recvState(t, out, time.Second)

	require.NoError(t, submit(t, s, board.RoleRed, 2, 2))

	// Exactly one snapshot for an opening move, never wave snapshots.
	_ = recvState(t, out, time.Second)
	recvNoState(t, out, 50*time.Millisecond)
}

func TestSession_OutOfBoundsMutatesNothing(t *testing.T) {
	s := newTestSession(t, "g1")

	out := make(chan types.GameState, 4)
	s.Inbox() <- Join{ClientID: "c1", Outbox: out}
	_ = recvState(t, out, time.Second)

	before := view(t, s)
	err := submit(t, s, board.RoleRed, 5, 0)
	require.ErrorIs(t, err, board.ErrOutOfBounds)

	after := view(t, s)
	assert.Equal(t, before.State, after.State)
	assert.Equal(t, before.OpeningDone, after.OpeningDone)
	recvNoState(t, out, 50*time.Millisecond)
}

func TestSession_CurrentPlayerAlternates(t *testing.T) {
	s := newTestSession(t, "g1")

	moves := []struct {
		role board.Role
		x, y int
		want board.Role // currentPlayer after the move
	}{
		{board.RoleRed, 0, 0, board.RoleBlue},
		{board.RoleBlue, 4, 4, board.RoleRed},
		{board.RoleRed, 0, 0, board.RoleBlue},
		{board.RoleBlue, 4, 4, board.RoleRed},
	}
	for i, m := range moves {
		require.NoError(t, submit(t, s, m.role, m.x, m.y), "move %d", i)
		assert.Equal(t, m.want, view(t, s).State.CurrentPlayer, "move %d", i)
	}
}

// A player may move whenever they own the target cell; currentPlayer is
// never enforced. This pins down the current rules rather than blessing
// them.
func TestSession_OutOfTurnMoveAllowed(t *testing.T) {
	s := newTestSession(t, "g1")
	require.NoError(t, submit(t, s, board.RoleRed, 0, 0))

	v := view(t, s)
	require.Equal(t, board.RoleBlue, v.State.CurrentPlayer)

	// RED again, out of turn, on its own cell: accepted.
	require.NoError(t, submit(t, s, board.RoleRed, 0, 0))
	st := view(t, s).State
	assert.Equal(t, board.Cell{Owner: board.RoleRed, Count: 2}, *st.Grid.At(0, 0))
}

func TestSession_DropSlowClient(t *testing.T) {
	s := newTestSession(t, "g1")

	out := make(chan types.GameState, 1)
	s.Inbox() <- Join{ClientID: "c1", Outbox: out}
	// Leave the join snapshot in the buffer so the next broadcast finds
	// the channel full.
	require.NoError(t, submit(t, s, board.RoleRed, 2, 2))

	v := view(t, s)
	assert.Equal(t, 0, v.NumClients, "expected slow client to be dropped")
}

func TestSession_LeaveIsIdempotent(t *testing.T) {
	s := newTestSession(t, "g1")

	out := make(chan types.GameState, 2)
	s.Inbox() <- Join{ClientID: "c1", Outbox: out}
	_ = recvState(t, out, time.Second)

	s.Inbox() <- Leave{ClientID: "c1"}
	s.Inbox() <- Leave{ClientID: "c1"}
	s.Inbox() <- Leave{ClientID: "never-joined"}

	assert.Equal(t, 0, view(t, s).NumClients)
}

func TestSession_ShutdownClosesOutboxes(t *testing.T) {
	s := newTestSession(t, "g1")

	out := make(chan types.GameState, 2)
	s.Inbox() <- Join{ClientID: "c1", Outbox: out}
	_ = recvState(t, out, time.Second)

	s.Inbox() <- Shutdown{}

	select {
	case _, ok := <-out:
		assert.False(t, ok, "expected outbox to be closed")
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for outbox close")
	}
}
