package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fissionplay/chain-reaction-backend/internal/game"
	"github.com/fissionplay/chain-reaction-backend/internal/hub"
	"github.com/fissionplay/chain-reaction-backend/internal/types"
)

const writeTimeout = 3 * time.Second

// Handler serves the websocket rendition of the game stream: the same
// subscription contract as GET /stream/{gid}, one JSON GameState per
// message plus {} heartbeats. The stream is server-to-client only;
// reads are drained solely to notice the peer going away.
func Handler(h *hub.Hub, heartbeat time.Duration, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gid := r.URL.Query().Get("game")
		if gid == "" {
			http.Error(w, "missing game", http.StatusBadRequest)
			return
		}

		sess := h.Ensure(gid)

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan types.GameState, 8)
		clientID := uuid.NewString()[:8]

		sess.Inbox() <- game.Join{ClientID: clientID, Outbox: out}
		defer func() { sess.Inbox() <- game.Leave{ClientID: clientID} }()

		// CloseRead keeps control frames flowing and cancels the context
		// when the client disconnects.
		ctx := conn.CloseRead(r.Context())

		hb := time.NewTimer(heartbeat)
		defer hb.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case state, open := <-out:
				if !open {
					log.Warn("websocket outbox closed", zap.String("game", gid))
					return
				}
				payload, err := json.Marshal(state)
				if err != nil {
					return
				}
				if err := write(ctx, conn, payload); err != nil {
					return
				}
				if !hb.Stop() {
					select {
					case <-hb.C:
					default:
					}
				}
				hb.Reset(heartbeat)
			case <-hb.C:
				if err := write(ctx, conn, []byte("{}")); err != nil {
					return
				}
				hb.Reset(heartbeat)
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, payload []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, payload)
}
