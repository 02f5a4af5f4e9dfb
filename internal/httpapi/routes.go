package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fissionplay/chain-reaction-backend/internal/ws"
)

func SetupRoutes(s *Server, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	// Action endpoints
	r.Post("/create_room", s.CreateRoom)
	r.Post("/join_room/{code}", s.JoinRoom)
	r.Post("/move", s.Move)

	// Streams
	r.Get("/matchmake/stream", s.MatchmakeStream)
	r.Get("/stream/{gid}", s.GameStream)
	r.Get("/ws", ws.Handler(s.hub, s.heartbeat, s.log))

	// Operational
	r.Get("/healthz", Healthz)
	r.Handle("/metrics", promhttp.Handler())
	return r
}
