package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fissionplay/chain-reaction-backend/internal/auth"
	"github.com/fissionplay/chain-reaction-backend/internal/board"
	"github.com/fissionplay/chain-reaction-backend/internal/game"
	"github.com/fissionplay/chain-reaction-backend/internal/hub"
	"github.com/fissionplay/chain-reaction-backend/internal/match"
	"github.com/fissionplay/chain-reaction-backend/internal/metrics"
	"github.com/fissionplay/chain-reaction-backend/internal/rooms"
	"github.com/fissionplay/chain-reaction-backend/internal/types"
)

// Server holds the collaborators the handlers call into. The handlers are
// thin: every rule lives behind the session actors.
type Server struct {
	hub       *hub.Hub
	auth      *auth.Authenticator
	rooms     *rooms.Registry
	match     *match.Coordinator
	heartbeat time.Duration
	log       *zap.Logger
}

func NewServer(h *hub.Hub, a *auth.Authenticator, r *rooms.Registry, m *match.Coordinator, heartbeat time.Duration, log *zap.Logger) *Server {
	return &Server{hub: h, auth: a, rooms: r, match: m, heartbeat: heartbeat, log: log}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// CreateRoom makes a private session, binds a shareable code to it and
// hands the creator the RED credential.
func (s *Server) CreateRoom(w http.ResponseWriter, r *http.Request) {
	gameID := uuid.NewString()[:8]
	s.hub.Ensure(gameID)

	code, err := s.rooms.Create(gameID)
	if err != nil {
		http.Error(w, "failed to generate code", http.StatusInternalServerError)
		return
	}
	token := s.auth.Issue(gameID, board.RoleRed)

	metrics.RoomsCreatedTotal.Inc()
	s.log.Info("private room created", zap.String("game", gameID), zap.String("code", code))
	writeJSON(w, http.StatusOK, types.CreateRoomResponse{
		GameID:   gameID,
		RoomCode: code,
		Role:     board.RoleRed,
		Token:    token,
	})
}

// JoinRoom resolves a room code (case-insensitively) and hands the joiner
// the BLUE credential. Codes stay resolvable forever, so a later joiner
// receives a fresh BLUE token for the same session.
func (s *Server) JoinRoom(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	gameID, err := s.rooms.Resolve(code)
	if err != nil {
		writeJSON(w, http.StatusNotFound, types.ErrorResponse{Error: err.Error()})
		return
	}

	s.hub.Ensure(gameID)
	token := s.auth.Issue(gameID, board.RoleBlue)

	s.log.Info("player joined room", zap.String("game", gameID), zap.String("code", code))
	writeJSON(w, http.StatusOK, types.JoinRoomResponse{
		GameID: gameID,
		Role:   board.RoleBlue,
		Token:  token,
	})
}

// Move submits one move for the token's role. Unknown tokens fail the
// request; rule violations come back as a 200 with an error payload so
// the client's stream stays useful.
func (s *Server) Move(w http.ResponseWriter, r *http.Request) {
	var req types.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, types.ErrorResponse{Error: "bad json"})
		return
	}

	cred, err := s.auth.Resolve(req.Token)
	if err != nil {
		metrics.MovesTotal.WithLabelValues("unauthorized").Inc()
		writeJSON(w, http.StatusUnauthorized, types.ErrorResponse{Error: err.Error()})
		return
	}

	sess := s.hub.Ensure(cred.GameID)
	reply := make(chan error, 1)
	sess.Inbox() <- game.SubmitMove{Role: cred.Role, X: req.X, Y: req.Y, Reply: reply}

	if err := <-reply; err != nil {
		metrics.MovesTotal.WithLabelValues("rejected").Inc()
		writeJSON(w, http.StatusOK, types.MoveResponse{Error: err.Error()})
		return
	}
	metrics.MovesTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, types.MoveResponse{OK: true})
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
