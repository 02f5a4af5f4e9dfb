package types

// Matchmaking stream (GET /matchmake/stream), server -> client:
//
// waiting:
//   type: "waiting"
//   game_id: string   // display id while queued, not a session id
//   role: "RED"
//
// matched:
//   type: "matched"
//   game_id: string
//   role: "RED" | "BLUE"
//   token: string     // opaque move credential
//
// heartbeat: {}       // every ~10s of inactivity

// Game stream (GET /stream/{gid} or GET /ws?game={gid}), server -> client:
//
// GameState:
//   id: string
//   grid: Cell[5][5]  // grid[y][x]; empty cell is {}
//   current_player: "RED" | "BLUE"
//
// Cell:
//   owner: "RED" | "BLUE" // absent when empty
//   count: number         // absent when zero
//
// Sent immediately on subscribe, then once per accepted move and per
// cascade wave; heartbeat {} on idle.

// Actions, client -> server:
//
// POST /create_room -> { game_id, room_code, role: "RED", token }
// POST /join_room/{code} -> { game_id, role: "BLUE", token } | 404
// POST /move { token, x, y } -> { ok: true } | { error: string } | 401
