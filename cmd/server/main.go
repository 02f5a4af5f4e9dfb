package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fissionplay/chain-reaction-backend/internal/auth"
	"github.com/fissionplay/chain-reaction-backend/internal/config"
	"github.com/fissionplay/chain-reaction-backend/internal/httpapi"
	"github.com/fissionplay/chain-reaction-backend/internal/hub"
	"github.com/fissionplay/chain-reaction-backend/internal/match"
	"github.com/fissionplay/chain-reaction-backend/internal/rooms"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := hub.NewHub(ctx, cfg.WaveDelay, logger)
	authn := auth.NewAuthenticator()
	registry := rooms.NewRegistry()
	coordinator := match.NewCoordinator(h, authn, logger)

	s := httpapi.NewServer(h, authn, registry, coordinator, cfg.Heartbeat, logger)
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpapi.SetupRoutes(s, cfg.AllowedOrigins),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
