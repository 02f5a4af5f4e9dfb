package match

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fissionplay/chain-reaction-backend/internal/auth"
	"github.com/fissionplay/chain-reaction-backend/internal/board"
	"github.com/fissionplay/chain-reaction-backend/internal/hub"
	"github.com/fissionplay/chain-reaction-backend/internal/metrics"
	"github.com/fissionplay/chain-reaction-backend/internal/types"
)

// Outcome is the immediate result of a match request: either the caller
// became the waiter (Event is the waiting notification) or a partner was
// already waiting (Event is the caller's matched/BLUE notification).
type Outcome struct {
	Matched bool
	Event   types.MatchEvent
}

// Coordinator is the process-wide rendezvous slot. It is either Empty or
// Waiting (holding one waiter's channel); the check-and-transition in
// RequestMatch runs under the mutex so two concurrent callers can never
// both conclude they are the second party.
type Coordinator struct {
	mu      sync.Mutex
	waiting chan types.MatchEvent

	hub  *hub.Hub
	auth *auth.Authenticator
	log  *zap.Logger
}

func NewCoordinator(h *hub.Hub, a *auth.Authenticator, log *zap.Logger) *Coordinator {
	return &Coordinator{hub: h, auth: a, log: log}
}

// RequestMatch enters the rendezvous with ch as the caller's event
// channel. When a waiter is already held, a fresh session is created, the
// waiter is notified as RED on its channel, and the caller's matched/BLUE
// event is returned synchronously.
func (c *Coordinator) RequestMatch(ch chan types.MatchEvent) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.waiting == nil {
		c.waiting = ch
		displayID := uuid.NewString()[:8]
		c.log.Info("player waiting for match", zap.String("player", displayID))
		return Outcome{Event: types.MatchEvent{
			Type:   "waiting",
			GameID: displayID,
			Role:   board.RoleRed,
		}}
	}

	gameID := uuid.NewString()[:8]
	c.hub.Ensure(gameID)
	redToken := c.auth.Issue(gameID, board.RoleRed)
	blueToken := c.auth.Issue(gameID, board.RoleBlue)

	waiter := c.waiting
	c.waiting = nil

	select {
	case waiter <- types.MatchEvent{Type: "matched", GameID: gameID, Role: board.RoleRed, Token: redToken}:
	default:
		// Waiter stopped draining; their stream is on the way out anyway.
	}

	metrics.MatchesTotal.Inc()
	c.log.Info("match made", zap.String("game", gameID))
	return Outcome{Matched: true, Event: types.MatchEvent{
		Type:   "matched",
		GameID: gameID,
		Role:   board.RoleBlue,
		Token:  blueToken,
	}}
}

// Release clears the slot if ch is still the held waiter. Called on
// stream disconnect; a no-op once the caller was matched or was never
// waiting.
func (c *Coordinator) Release(ch chan types.MatchEvent) {
	c.mu.Lock()
	if c.waiting == ch {
		c.waiting = nil
		c.log.Info("player left matchmaking queue")
	}
	c.mu.Unlock()
}
