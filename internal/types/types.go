package types

import "github.com/fissionplay/chain-reaction-backend/internal/board"

// GameState is the full session snapshot streamed to every subscriber:
// once on subscribe, once per accepted move, and once per cascade wave.
type GameState struct {
	ID            string     `json:"id"`
	Grid          board.Grid `json:"grid"`
	CurrentPlayer board.Role `json:"current_player"`
}

// MatchEvent is one message on the matchmaking stream. The zero value
// marshals to {} and doubles as the idle heartbeat.
type MatchEvent struct {
	Type   string     `json:"type,omitempty"` // "waiting" | "matched"
	GameID string     `json:"game_id,omitempty"`
	Role   board.Role `json:"role,omitempty"`
	Token  string     `json:"token,omitempty"`
}

type MoveRequest struct {
	Token string `json:"token"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

// MoveResponse carries either ok or a rule-violation message. Rule
// violations are deliberately not HTTP failures so a client can keep its
// stream open and retry.
type MoveResponse struct {
	OK    bool   `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`
}

type CreateRoomResponse struct {
	GameID   string     `json:"game_id"`
	RoomCode string     `json:"room_code"`
	Role     board.Role `json:"role"`
	Token    string     `json:"token"`
}

type JoinRoomResponse struct {
	GameID string     `json:"game_id"`
	Role   board.Role `json:"role"`
	Token  string     `json:"token"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
