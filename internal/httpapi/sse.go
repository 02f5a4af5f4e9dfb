package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fissionplay/chain-reaction-backend/internal/game"
	"github.com/fissionplay/chain-reaction-backend/internal/types"
)

func sseHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

func writeEvent(w io.Writer, flusher http.Flusher, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// drainReset rearms a possibly-fired heartbeat timer after activity.
func drainReset(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

// MatchmakeStream is the anonymous pairing stream. The first event is
// either "waiting" (this caller became the rendezvous waiter) or
// "matched" with the BLUE credential (a partner was already held). A
// waiter receives its "matched" event with the RED credential over the
// channel once a partner arrives. Idle gaps are filled with {} heartbeats
// so the transport can tell idle from dead.
func (s *Server) MatchmakeStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	sseHeaders(w)

	ch := make(chan types.MatchEvent, 8)
	out := s.match.RequestMatch(ch)
	defer s.match.Release(ch)

	if err := writeEvent(w, flusher, out.Event); err != nil {
		return
	}

	hb := time.NewTimer(s.heartbeat)
	defer hb.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			if err := writeEvent(w, flusher, ev); err != nil {
				return
			}
			drainReset(hb, s.heartbeat)
		case <-hb.C:
			if err := writeEvent(w, flusher, struct{}{}); err != nil {
				return
			}
			hb.Reset(s.heartbeat)
		}
	}
}

// GameStream subscribes to a session's snapshots. The session is created
// lazily on first reference, the current state is sent immediately, and
// every accepted move and cascade wave follows in order.
func (s *Server) GameStream(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	sseHeaders(w)

	sess := s.hub.Ensure(gid)
	out := make(chan types.GameState, 8)
	clientID := uuid.NewString()[:8]

	sess.Inbox() <- game.Join{ClientID: clientID, Outbox: out}
	defer func() { sess.Inbox() <- game.Leave{ClientID: clientID} }()

	hb := time.NewTimer(s.heartbeat)
	defer hb.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case state, open := <-out:
			if !open {
				// Dropped as a slow subscriber or session shut down.
				s.log.Warn("game stream outbox closed", zap.String("game", gid))
				return
			}
			if err := writeEvent(w, flusher, state); err != nil {
				return
			}
			drainReset(hb, s.heartbeat)
		case <-hb.C:
			if err := writeEvent(w, flusher, struct{}{}); err != nil {
				return
			}
			hb.Reset(s.heartbeat)
		}
	}
}
