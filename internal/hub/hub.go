package hub

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fissionplay/chain-reaction-backend/internal/game"
)

type HubMsg interface{ isHubMsg() }

// EnsureSession creates the session if it does not exist yet and replies
// with it. Repeated calls with the same ID reply with the same instance;
// sessions live for the rest of the process.
type EnsureSession struct {
	ID    string
	Reply chan *game.Session
}

type GetSession struct {
	ID    string
	Reply chan *game.Session
}

type RemoveSession struct {
	ID string
}

type ShutdownHub struct{}

func (EnsureSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

// Hub is the session registry: a single actor owning the id -> session
// map, so lazy creation is race-free without a lock.
type Hub struct {
	inbox     chan HubMsg
	sessions  map[string]*game.Session
	waveDelay time.Duration
	log       *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewHub(parent context.Context, waveDelay time.Duration, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:     make(chan HubMsg, 64),
		sessions:  make(map[string]*game.Session),
		waveDelay: waveDelay,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Ensure is a convenience wrapper around EnsureSession for callers that
// want a synchronous call.
func (h *Hub) Ensure(id string) *game.Session {
	reply := make(chan *game.Session, 1)
	h.inbox <- EnsureSession{ID: id, Reply: reply}
	return <-reply
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureSession:
				if s := h.sessions[msg.ID]; s != nil {
					msg.Reply <- s
					break
				}
				s := game.NewSession(h.ctx, msg.ID, h.waveDelay, h.log)
				h.sessions[msg.ID] = s
				h.log.Info("session created", zap.String("game", msg.ID))
				msg.Reply <- s

			case GetSession:
				msg.Reply <- h.sessions[msg.ID] // May be nil

			case RemoveSession:
				delete(h.sessions, msg.ID)

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for _, s := range h.sessions {
		s.Inbox() <- game.Shutdown{}
	}
	clear(h.sessions)
	h.cancel()
}
