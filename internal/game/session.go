package game

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fissionplay/chain-reaction-backend/internal/board"
	"github.com/fissionplay/chain-reaction-backend/internal/metrics"
	"github.com/fissionplay/chain-reaction-backend/internal/types"
)

type Msg interface{ isSessionMsg() }

// Join registers a subscriber. The current snapshot is delivered on its
// outbox immediately.
type Join struct {
	ClientID string
	Outbox   chan types.GameState
}

func (Join) isSessionMsg() {}

type Leave struct{ ClientID string }

func (Leave) isSessionMsg() {}

// SubmitMove applies one move for a role. The error (nil on success) is
// sent on Reply once the move, including any cascade, has been applied
// and broadcast.
type SubmitMove struct {
	Role  board.Role
	X, Y  int
	Reply chan error
}

func (SubmitMove) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

// View reflects internal state for tests without data races.
type View struct {
	NumClients  int
	OpeningDone map[board.Role]bool
	State       types.GameState
}

// Session owns one game: the grid, the turn marker, the opening flags and
// the subscriber set. All mutation happens on the actor goroutine, so at
// most one move is ever in flight per session and wave snapshots reach
// every subscriber in generation order.
type Session struct {
	inbox       chan Msg
	id          string
	grid        board.Grid
	current     board.Role
	openingDone map[board.Role]bool
	clients     map[string]chan types.GameState
	waveDelay   time.Duration
	log         *zap.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewSession starts a session actor with an empty grid and RED to move.
func NewSession(parent context.Context, id string, waveDelay time.Duration, log *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)

	s := &Session{
		inbox:       make(chan Msg, 64),
		id:          id,
		current:     board.RoleRed,
		openingDone: map[board.Role]bool{board.RoleRed: false, board.RoleBlue: false},
		clients:     make(map[string]chan types.GameState),
		waveDelay:   waveDelay,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
	}

	go s.loop()
	return s
}

func (s *Session) ID() string { return s.id }

// Inbox exposes the actor mailbox to the transport layer and tests.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.clients[msg.ClientID] = msg.Outbox
				metrics.ActiveSubscribers.Inc()
				msg.Outbox <- s.snapshot()
				s.log.Info("game stream opened",
					zap.String("game", s.id), zap.Int("subscribers", len(s.clients)))

			case Leave:
				if _, ok := s.clients[msg.ClientID]; ok {
					delete(s.clients, msg.ClientID)
					metrics.ActiveSubscribers.Dec()
					s.log.Info("game stream closed",
						zap.String("game", s.id), zap.Int("subscribers", len(s.clients)))
				}

			case SubmitMove:
				err := s.applyMove(msg.Role, msg.X, msg.Y)
				if msg.Reply != nil {
					msg.Reply <- err
				}

			case GetState:
				done := map[board.Role]bool{
					board.RoleRed:  s.openingDone[board.RoleRed],
					board.RoleBlue: s.openingDone[board.RoleBlue],
				}
				msg.Reply <- View{
					NumClients:  len(s.clients),
					OpeningDone: done,
					State:       s.snapshot(),
				}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

// applyMove validates and applies one move. Note the only ownership gate
// is the target cell itself: whose turn it is is never checked, matching
// the current game rules (currentPlayer is advisory, for clients).
func (s *Session) applyMove(role board.Role, x, y int) error {
	if !board.InBounds(x, y) {
		return board.ErrOutOfBounds
	}

	if !s.openingDone[role] {
		if err := s.grid.ApplyOpening(role, x, y); err != nil {
			return err
		}
		s.openingDone[role] = true
		s.current = role.Opponent()
		s.broadcast(s.snapshot())
		return nil
	}

	if err := s.grid.ApplyIncrement(role, x, y); err != nil {
		return err
	}

	// Each wave is broadcast as it resolves, then paced so subscribers
	// see the cascade as a sequence rather than one jump. Pacing on the
	// actor goroutine also queues any concurrent move behind the cascade.
	for s.grid.ExplodeWave() {
		metrics.CascadeWavesTotal.Inc()
		s.broadcast(s.snapshot())
		time.Sleep(s.waveDelay)
	}

	s.current = role.Opponent()
	s.broadcast(s.snapshot())
	return nil
}

func (s *Session) snapshot() types.GameState {
	return types.GameState{ID: s.id, Grid: s.grid, CurrentPlayer: s.current}
}

func (s *Session) broadcast(state types.GameState) {
	for id, ch := range s.clients {
		select {
		case ch <- state:
			// ok
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(s.clients, id)
			metrics.ActiveSubscribers.Dec()
			s.log.Warn("dropped slow subscriber",
				zap.String("game", s.id), zap.String("client", id))
		}
	}
}

func (s *Session) shutdown() {
	for id, ch := range s.clients {
		close(ch) // Tell client no more snapshots
		delete(s.clients, id)
		metrics.ActiveSubscribers.Dec()
	}
	s.cancel()
}
